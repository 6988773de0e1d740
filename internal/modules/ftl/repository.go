package ftl

import (
	"context"
	"errors"
	"fmt"

	"rates-and-booking/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Route is one priced full-truck-load lane.
type Route struct {
	SourceCity      string  `json:"source_city"`
	DestinationCity string  `json:"destination_city"`
	ContainerType   string  `json:"container_type"`
	BasePrice       float64 `json:"base_price"`
}

// RepositoryInterface defines the contract for the FTL repository.
type RepositoryInterface interface {
	ListRoutes(ctx context.Context) ([]Route, error)
	GetBasePrice(ctx context.Context, sourceCity, destCity, containerType string) (float64, error)
	CreateOrder(ctx context.Context, order *models.FTLOrder) (*models.FTLOrder, error)
	ListOrders(ctx context.Context, page, limit int) ([]*models.FTLOrder, int, error)
	NextOrderNumber(ctx context.Context, year int) (int, error)
}

// Repository implements the RepositoryInterface.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new FTL repository.
func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

func (r *Repository) ListRoutes(ctx context.Context) ([]Route, error) {
	query := `
		SELECT source_city, destination_city, container_type, base_price
		FROM ftl_routes
		ORDER BY source_city, destination_city, container_type`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("repository.ListRoutes.Query: %w", err)
	}
	defer rows.Close()

	var routes []Route
	for rows.Next() {
		var rt Route
		if err := rows.Scan(&rt.SourceCity, &rt.DestinationCity, &rt.ContainerType, &rt.BasePrice); err != nil {
			return nil, fmt.Errorf("repository.ListRoutes.Scan: %w", err)
		}
		routes = append(routes, rt)
	}
	return routes, rows.Err()
}

// GetBasePrice looks a lane up by its normalized key.
func (r *Repository) GetBasePrice(ctx context.Context, sourceCity, destCity, containerType string) (float64, error) {
	query := `
		SELECT base_price FROM ftl_routes
		WHERE source_city = $1 AND destination_city = $2 AND container_type = $3`
	var price float64
	err := r.db.QueryRow(ctx, query, sourceCity, destCity, containerType).Scan(&price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, models.ErrNotFound
		}
		return 0, fmt.Errorf("repository.GetBasePrice: %w", err)
	}
	return price, nil
}

func (r *Repository) CreateOrder(ctx context.Context, o *models.FTLOrder) (*models.FTLOrder, error) {
	query := `
		INSERT INTO ftl_orders (
			order_number, source_city, destination_city, container_type,
			contact_name, contact_phone, pickup_address, total_cost, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, order_number, source_city, destination_city, container_type,
		          contact_name, contact_phone, pickup_address, total_cost, status,
		          created_at, updated_at`

	row := r.db.QueryRow(ctx, query,
		o.OrderNumber, o.SourceCity, o.DestinationCity, o.ContainerType,
		o.ContactName, o.ContactPhone, o.PickupAddress, o.TotalCost, o.Status,
	)
	created, err := scanFTLOrder(row)
	if err != nil {
		return nil, fmt.Errorf("repository.CreateFTLOrder: %w", err)
	}
	return created, nil
}

func scanFTLOrder(row pgx.Row) (*models.FTLOrder, error) {
	var o models.FTLOrder
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.SourceCity, &o.DestinationCity, &o.ContainerType,
		&o.ContactName, &o.ContactPhone, &o.PickupAddress, &o.TotalCost, &o.Status,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan ftl order: %w", err)
	}
	return &o, nil
}

func (r *Repository) ListOrders(ctx context.Context, page, limit int) ([]*models.FTLOrder, int, error) {
	offset := (page - 1) * limit
	query := `
		SELECT id, order_number, source_city, destination_city, container_type,
		       contact_name, contact_phone, pickup_address, total_cost, status,
		       created_at, updated_at
		FROM ftl_orders
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("repository.ListFTLOrders.Query: %w", err)
	}
	defer rows.Close()

	var orders []*models.FTLOrder
	for rows.Next() {
		order, err := scanFTLOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repository.ListFTLOrders.scan: %w", err)
		}
		orders = append(orders, order)
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM ftl_orders`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repository.ListFTLOrders.Count: %w", err)
	}
	return orders, total, nil
}

// NextOrderNumber reserves the next FTL sequence value for the year, starting
// at 1001.
func (r *Repository) NextOrderNumber(ctx context.Context, year int) (int, error) {
	query := `
		INSERT INTO ftl_sequences (year, last_seq)
		VALUES ($1, 1001)
		ON CONFLICT (year) DO UPDATE SET last_seq = ftl_sequences.last_seq + 1
		RETURNING last_seq`
	var seq int
	if err := r.db.QueryRow(ctx, query, year).Scan(&seq); err != nil {
		return 0, fmt.Errorf("repository.NextFTLOrderNumber: %w", err)
	}
	return seq, nil
}
