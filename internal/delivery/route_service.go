package delivery

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/errs"
)

// RouteService implements the read-only route query use cases. Route
// creation happens transactionally through Scheduler.GenerateRoutes,
// not through this service.
type RouteService struct {
	routes RouteStore
}

// NewRouteService creates a RouteService.
func NewRouteService(routes RouteStore) *RouteService {
	return &RouteService{routes: routes}
}

// Get returns a single route by ID, including its ordered shipments.
func (s *RouteService) Get(ctx context.Context, id uuid.UUID) (*Route, error) {
	rt, err := s.routes.Get(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.New(errs.NotFound, "route not found").WithCode("RouteNotFound")
		}
		return nil, err
	}
	return rt, nil
}

// ListByDate returns every route generated for routeDate.
func (s *RouteService) ListByDate(ctx context.Context, routeDate time.Time) ([]Route, error) {
	return s.routes.ListByDate(ctx, routeDate)
}
