package delivery

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresShipmentStore implements ShipmentStore and ConsumerStore
// against a Postgres pool.
type PostgresShipmentStore struct {
	pool *pgxpool.Pool
}

// NewPostgresShipmentStore creates a PostgresShipmentStore.
func NewPostgresShipmentStore(pool *pgxpool.Pool) *PostgresShipmentStore {
	return &PostgresShipmentStore{pool: pool}
}

const shipmentColumns = `id, order_id, customer_id, delivery_address, delivery_city, delivery_country,
	latitude, longitude, geocoding_status, route_id, sequence_in_route,
	order_date, estimated_delivery_date, status`

func scanShipment(row pgx.Row) (*Shipment, error) {
	var s Shipment
	if err := row.Scan(
		&s.ID, &s.OrderID, &s.CustomerID, &s.DeliveryAddress, &s.DeliveryCity, &s.DeliveryCountry,
		&s.Latitude, &s.Longitude, &s.GeocodingStatus, &s.RouteID, &s.SequenceInRoute,
		&s.OrderDate, &s.EstimatedDeliveryDate, &s.Status,
	); err != nil {
		return nil, err
	}
	return &s, nil
}

// WithTx runs fn inside a transaction, committing on success.
func (s *PostgresShipmentStore) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning shipment transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing shipment transaction: %w", err)
	}
	return nil
}

// CreateShipment inserts a shipment row within tx.
func (s *PostgresShipmentStore) CreateShipment(ctx context.Context, tx pgx.Tx, sh *Shipment) error {
	query := `INSERT INTO shipments (` + shipmentColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`
	_, err := tx.Exec(ctx, query,
		sh.ID, sh.OrderID, sh.CustomerID, sh.DeliveryAddress, sh.DeliveryCity, sh.DeliveryCountry,
		sh.Latitude, sh.Longitude, sh.GeocodingStatus, sh.RouteID, sh.SequenceInRoute,
		sh.OrderDate, sh.EstimatedDeliveryDate, sh.Status,
	)
	if err != nil {
		return fmt.Errorf("inserting shipment: %w", err)
	}
	return nil
}

// UpdateStatus transitions a shipment to status. Returns pgx.ErrNoRows
// if the shipment doesn't exist.
func (s *PostgresShipmentStore) UpdateStatus(ctx context.Context, id uuid.UUID, status ShipmentStatus) error {
	tag, err := s.pool.Exec(ctx, `UPDATE shipments SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("updating shipment status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Get fetches a shipment by id. Returns pgx.ErrNoRows if absent.
func (s *PostgresShipmentStore) Get(ctx context.Context, id uuid.UUID) (*Shipment, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+shipmentColumns+` FROM shipments WHERE id = $1`, id)
	return scanShipment(row)
}

// GetByOrderID fetches a shipment by its (unique) order id.
func (s *PostgresShipmentStore) GetByOrderID(ctx context.Context, orderID uuid.UUID) (*Shipment, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+shipmentColumns+` FROM shipments WHERE order_id = $1`, orderID)
	return scanShipment(row)
}

// UpdateGeocoding persists a geocoding result (or failure) for a shipment.
func (s *PostgresShipmentStore) UpdateGeocoding(ctx context.Context, sh *Shipment) error {
	const query = `UPDATE shipments SET latitude = $1, longitude = $2, geocoding_status = $3 WHERE id = $4`
	tag, err := s.pool.Exec(ctx, query, sh.Latitude, sh.Longitude, sh.GeocodingStatus, sh.ID)
	if err != nil {
		return fmt.Errorf("updating shipment geocoding: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// PendingGeocodedByDate returns PENDING shipments, successfully
// geocoded, whose estimated delivery date matches date.
func (s *PostgresShipmentStore) PendingGeocodedByDate(ctx context.Context, date time.Time) ([]Shipment, error) {
	const query = `SELECT ` + shipmentColumns + ` FROM shipments
		WHERE status = $1 AND geocoding_status = $2 AND estimated_delivery_date = $3
		ORDER BY id`
	rows, err := s.pool.Query(ctx, query, ShipmentPending, GeocodingSuccess, date)
	if err != nil {
		return nil, fmt.Errorf("querying pending shipments: %w", err)
	}
	defer rows.Close()

	var out []Shipment
	for rows.Next() {
		sh, err := scanShipment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *sh)
	}
	return out, rows.Err()
}

// AssignBatch persists every route and transitions its shipments from
// PENDING to ASSIGNED, all under one transaction.
func (s *PostgresShipmentStore) AssignBatch(ctx context.Context, routes []*Route) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning route assignment transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	const insertRoute = `INSERT INTO routes (id, vehicle_id, route_date, status, estimated_duration_minutes, total_distance_km, total_orders)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`
	const assignShipment = `UPDATE shipments SET route_id = $1, sequence_in_route = $2, status = $3
		WHERE id = $4 AND status = $5`

	for _, route := range routes {
		if _, err := tx.Exec(ctx, insertRoute,
			route.ID, route.VehicleID, route.RouteDate, route.Status,
			route.EstimatedDurationMin, route.TotalDistanceKm, route.TotalOrders,
		); err != nil {
			return fmt.Errorf("inserting route: %w", err)
		}

		for _, sh := range route.Shipments {
			tag, err := tx.Exec(ctx, assignShipment, sh.RouteID, sh.SequenceInRoute, ShipmentAssigned, sh.ID, ShipmentPending)
			if err != nil {
				return fmt.Errorf("assigning shipment to route: %w", err)
			}
			if tag.RowsAffected() == 0 {
				return fmt.Errorf("shipment %s was no longer pending", sh.ID)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing route assignment transaction: %w", err)
	}
	return nil
}

// PostgresVehicleStore implements VehicleStore against a Postgres pool.
type PostgresVehicleStore struct {
	pool *pgxpool.Pool
}

// NewPostgresVehicleStore creates a PostgresVehicleStore.
func NewPostgresVehicleStore(pool *pgxpool.Pool) *PostgresVehicleStore {
	return &PostgresVehicleStore{pool: pool}
}

const vehicleColumns = `id, placa, driver_name, driver_phone, is_active`

func scanVehicle(row pgx.Row) (*Vehicle, error) {
	var v Vehicle
	if err := row.Scan(&v.ID, &v.Placa, &v.DriverName, &v.DriverPhone, &v.IsActive); err != nil {
		return nil, err
	}
	return &v, nil
}

// Create inserts a new vehicle.
func (s *PostgresVehicleStore) Create(ctx context.Context, v *Vehicle) error {
	const query = `INSERT INTO vehicles (` + vehicleColumns + `) VALUES ($1,$2,$3,$4,$5)`
	if _, err := s.pool.Exec(ctx, query, v.ID, v.Placa, v.DriverName, v.DriverPhone, v.IsActive); err != nil {
		return fmt.Errorf("inserting vehicle: %w", err)
	}
	return nil
}

// Get fetches a vehicle by id. Returns pgx.ErrNoRows if absent.
func (s *PostgresVehicleStore) Get(ctx context.Context, id uuid.UUID) (*Vehicle, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+vehicleColumns+` FROM vehicles WHERE id = $1`, id)
	return scanVehicle(row)
}

// GetByPlaca fetches a vehicle by its license plate. Returns
// pgx.ErrNoRows if absent.
func (s *PostgresVehicleStore) GetByPlaca(ctx context.Context, placa string) (*Vehicle, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+vehicleColumns+` FROM vehicles WHERE placa = $1`, placa)
	return scanVehicle(row)
}

// Update persists driver_name/driver_phone/is_active changes.
func (s *PostgresVehicleStore) Update(ctx context.Context, v *Vehicle) error {
	const query = `UPDATE vehicles SET driver_name = $1, driver_phone = $2, is_active = $3 WHERE id = $4`
	tag, err := s.pool.Exec(ctx, query, v.DriverName, v.DriverPhone, v.IsActive, v.ID)
	if err != nil {
		return fmt.Errorf("updating vehicle: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Deactivate soft-deletes a vehicle by clearing is_active.
func (s *PostgresVehicleStore) Deactivate(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `UPDATE vehicles SET is_active = false WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivating vehicle: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ListActive returns every active vehicle, ordered by id so optimizer
// input order (and therefore its output) is stable across runs.
func (s *PostgresVehicleStore) ListActive(ctx context.Context) ([]Vehicle, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+vehicleColumns+` FROM vehicles WHERE is_active = true ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying active vehicles: %w", err)
	}
	defer rows.Close()

	var out []Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, rows.Err()
}

// PostgresRouteStore implements RouteStore against a Postgres pool.
type PostgresRouteStore struct {
	pool *pgxpool.Pool
}

// NewPostgresRouteStore creates a PostgresRouteStore.
func NewPostgresRouteStore(pool *pgxpool.Pool) *PostgresRouteStore {
	return &PostgresRouteStore{pool: pool}
}

const routeColumns = `id, vehicle_id, route_date, status, estimated_duration_minutes, total_distance_km, total_orders`

func scanRoute(row pgx.Row) (*Route, error) {
	var r Route
	if err := row.Scan(&r.ID, &r.VehicleID, &r.RouteDate, &r.Status, &r.EstimatedDurationMin, &r.TotalDistanceKm, &r.TotalOrders); err != nil {
		return nil, err
	}
	return &r, nil
}

// Get fetches a route and its shipments, ordered by sequence_in_route.
// Returns pgx.ErrNoRows if the route itself doesn't exist.
func (s *PostgresRouteStore) Get(ctx context.Context, id uuid.UUID) (*Route, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+routeColumns+` FROM routes WHERE id = $1`, id)
	route, err := scanRoute(row)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, `SELECT `+shipmentColumns+` FROM shipments WHERE route_id = $1 ORDER BY sequence_in_route`, id)
	if err != nil {
		return nil, fmt.Errorf("querying route shipments: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		sh, err := scanShipment(rows)
		if err != nil {
			return nil, err
		}
		route.Shipments = append(route.Shipments, *sh)
	}
	return route, rows.Err()
}

// ListByDate returns every route generated for date, without shipments
// (callers needing shipments call Get per route).
func (s *PostgresRouteStore) ListByDate(ctx context.Context, date time.Time) ([]Route, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+routeColumns+` FROM routes WHERE route_date = $1 ORDER BY id`, date)
	if err != nil {
		return nil, fmt.Errorf("querying routes by date: %w", err)
	}
	defer rows.Close()

	var out []Route
	for rows.Next() {
		r, err := scanRoute(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}
