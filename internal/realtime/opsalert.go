package realtime

import (
	"context"
	"fmt"
	"log/slog"

	goslack "github.com/slack-go/slack"

	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/telemetry"
)

// OpsAlertKind enumerates the operator-actionable failures the pipeline
// and projector raise — conditions that need a human, not a retry.
type OpsAlertKind string

const (
	PartialReservationLeak OpsAlertKind = "partial_reservation_leak"
	MissingPlan            OpsAlertKind = "missing_plan"
)

// OpsAlert is the data needed to render an operator alert.
type OpsAlert struct {
	Kind        OpsAlertKind
	Title       string
	Description string
	OrderID     string
	SellerID    string
	Details     map[string]string
}

// OpsNotifier posts operator-actionable alerts to Slack. If botToken is
// empty it is a noop that only logs, so every environment (including
// local dev) can run the pipeline without a Slack workspace.
type OpsNotifier struct {
	client  *goslack.Client
	channel string
	logger  *slog.Logger
}

// NewOpsNotifier creates an OpsNotifier.
func NewOpsNotifier(botToken, channel string, logger *slog.Logger) *OpsNotifier {
	var client *goslack.Client
	if botToken != "" {
		client = goslack.New(botToken)
	}
	return &OpsNotifier{client: client, channel: channel, logger: logger}
}

// IsEnabled reports whether alerts are actually posted to Slack.
func (n *OpsNotifier) IsEnabled() bool {
	return n.client != nil && n.channel != ""
}

// Post sends alert to the configured channel. A failure to reach Slack
// is logged but never propagated — losing an operator notification must
// not also fail the request or event that triggered it.
func (n *OpsNotifier) Post(ctx context.Context, alert OpsAlert) {
	telemetry.OpsAlertsTotal.WithLabelValues(string(alert.Kind)).Inc()

	if !n.IsEnabled() {
		n.logger.Warn("ops alert (slack disabled)",
			"kind", alert.Kind, "title", alert.Title, "order_id", alert.OrderID, "seller_id", alert.SellerID)
		return
	}

	blocks := opsAlertBlocks(alert)
	_, _, err := n.client.PostMessageContext(ctx, n.channel,
		goslack.MsgOptionBlocks(blocks...),
		goslack.MsgOptionText(fmt.Sprintf("%s %s", alertEmoji(alert.Kind), alert.Title), false),
	)
	if err != nil {
		n.logger.Error("posting ops alert to slack", "error", err, "kind", alert.Kind)
	}
}

func alertEmoji(kind OpsAlertKind) string {
	switch kind {
	case PartialReservationLeak:
		return "🟠"
	case MissingPlan:
		return "🟡"
	default:
		return "⚪"
	}
}

func opsAlertBlocks(alert OpsAlert) []goslack.Block {
	header := goslack.NewHeaderBlock(
		goslack.NewTextBlockObject(goslack.PlainTextType, alert.Title, true, false),
	)

	var fields []*goslack.TextBlockObject
	if alert.OrderID != "" {
		fields = append(fields, goslack.NewTextBlockObject(goslack.MarkdownType, fmt.Sprintf("*Order:* %s", alert.OrderID), false, false))
	}
	if alert.SellerID != "" {
		fields = append(fields, goslack.NewTextBlockObject(goslack.MarkdownType, fmt.Sprintf("*Seller:* %s", alert.SellerID), false, false))
	}
	for k, v := range alert.Details {
		fields = append(fields, goslack.NewTextBlockObject(goslack.MarkdownType, fmt.Sprintf("*%s:* %s", k, v), false, false))
	}

	blocks := []goslack.Block{header}
	if len(fields) > 0 {
		blocks = append(blocks, goslack.NewSectionBlock(nil, fields, nil))
	}
	if alert.Description != "" {
		blocks = append(blocks, goslack.NewSectionBlock(
			goslack.NewTextBlockObject(goslack.MarkdownType, alert.Description, false, false), nil, nil,
		))
	}
	return blocks
}
