// Package bff hosts the BFF Gateway (C7): per-role HTTP surfaces
// (client-app, sellers-app, web) that each fan out to ≥2 downstream
// service calls and translate remote errors into the shared envelope.
package bff

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/errs"
	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/httpserver"
)

// Group names an authenticated caller's role, mirroring the original
// Cognito group claims (web_users, seller_users, client_users) without
// the JWT machinery that produced them — upstream terminates the token
// and forwards the validated identity as headers, the same trust model
// an ALB/API-gateway OIDC integration uses.
type Group string

const (
	GroupWeb    Group = "web_users"
	GroupSeller Group = "seller_users"
	GroupClient Group = "client_users"
)

// Principal is the authenticated caller: an external subject id plus
// the groups it belongs to. Every field is explicit — no dynamic
// claims-map lookup — so a missing piece of identity is a compile-time
// field, not a runtime map miss.
type Principal struct {
	Subject string
	Groups  []Group
}

// HasGroup reports whether the principal belongs to g.
func (p Principal) HasGroup(g Group) bool {
	for _, have := range p.Groups {
		if have == g {
			return true
		}
	}
	return false
}

type principalKey struct{}

// PrincipalFromContext extracts the Principal a prior RequirePrincipal
// call attached to the request context. ok is false if none is present.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

const (
	subjectHeader = "X-Principal-Subject"
	groupsHeader  = "X-Principal-Groups"
)

// RequirePrincipal builds middleware that extracts the authenticated
// principal from the request's identity headers. Absence of a subject
// is an explicit Unauthorized, never a silent zero-value principal.
func RequirePrincipal(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject := r.Header.Get(subjectHeader)
			if subject == "" {
				httpserver.RespondErr(w, logger, errs.New(errs.Unauthorized, "missing authenticated principal"))
				return
			}

			var groups []Group
			if raw := r.Header.Get(groupsHeader); raw != "" {
				for _, g := range strings.Split(raw, ",") {
					g = strings.TrimSpace(g)
					if g != "" {
						groups = append(groups, Group(g))
					}
				}
			}

			principal := Principal{Subject: subject, Groups: groups}
			ctx := context.WithValue(r.Context(), principalKey{}, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireGroup builds middleware that rejects a request whose principal
// does not belong to any of the allowed groups with a Forbidden.
// RequirePrincipal must run first in the chain.
func RequireGroup(logger *slog.Logger, allowed ...Group) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok {
				httpserver.RespondErr(w, logger, errs.New(errs.Unauthorized, "missing authenticated principal"))
				return
			}

			for _, g := range allowed {
				if principal.HasGroup(g) {
					next.ServeHTTP(w, r)
					return
				}
			}

			httpserver.RespondErr(w, logger, errs.New(errs.Forbidden, "principal not in an allowed group").WithCode("GroupNotAllowed"))
		})
	}
}
