package downstream

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/serviceclient"
)

// IdentityClient resolves an authenticated principal's external subject
// id to the local domain id the BFF's role controllers need — the
// client service doubles as the identity directory for both customer
// and seller accounts.
type IdentityClient struct {
	client *serviceclient.Client
}

// NewIdentityClient creates an IdentityClient.
func NewIdentityClient(client *serviceclient.Client) *IdentityClient {
	return &IdentityClient{client: client}
}

type identityResponse struct {
	ID uuid.UUID `json:"id"`
}

// CustomerIDBySubject implements clientapp.ClientLookup.
func (c *IdentityClient) CustomerIDBySubject(ctx context.Context, subject string) (uuid.UUID, error) {
	var resp identityResponse
	if err := c.client.Get(ctx, fmt.Sprintf("/clients/by-subject/%s", subject), &resp); err != nil {
		return uuid.Nil, err
	}
	return resp.ID, nil
}

// SellerIDBySubject implements sellersapp.SellerLookup.
func (c *IdentityClient) SellerIDBySubject(ctx context.Context, subject string) (uuid.UUID, error) {
	var resp identityResponse
	if err := c.client.Get(ctx, fmt.Sprintf("/sellers/by-subject/%s", subject), &resp); err != nil {
		return uuid.Nil, err
	}
	return resp.ID, nil
}
