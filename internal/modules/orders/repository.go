package orders

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"rates-and-booking/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryInterface defines the contract for the order repository.
type RepositoryInterface interface {
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, orderID string) (*models.Order, error)
	FindByIDs(ctx context.Context, orderIDs []string) ([]*models.Order, error)
	List(ctx context.Context, status string, page, limit int) ([]*models.Order, int, error)
	UpdateBooking(ctx context.Context, order *models.Order) error
	Delete(ctx context.Context, orderID string) error
	NextOrderNumber(ctx context.Context, year int) (int, error)
}

// Repository implements the RepositoryInterface.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new order repository.
func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

const orderColumns = `
	id, order_number, recipient_name, recipient_contact, recipient_address,
	recipient_pincode, recipient_city, recipient_state,
	sender_pincode, sender_name, sender_address,
	weight_kg, length_cm, width_cm, height_cm, volumetric_weight_kg, applicable_weight_kg,
	payment_mode, order_value, item_type, sku, quantity, status,
	selected_carrier, mode, zone_applied, total_cost, cost_breakdown, awb_number,
	created_at, updated_at, booked_at, notes`

// Create inserts a new draft order.
func (r *Repository) Create(ctx context.Context, o *models.Order) (*models.Order, error) {
	query := `
		INSERT INTO orders (
			order_number, recipient_name, recipient_contact, recipient_address,
			recipient_pincode, recipient_city, recipient_state,
			sender_pincode, sender_name, sender_address,
			weight_kg, length_cm, width_cm, height_cm, volumetric_weight_kg, applicable_weight_kg,
			payment_mode, order_value, item_type, sku, quantity, status, notes
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)
		RETURNING ` + orderColumns

	row := r.db.QueryRow(ctx, query,
		o.OrderNumber, o.RecipientName, o.RecipientContact, o.RecipientAddress,
		o.RecipientPincode, o.RecipientCity, o.RecipientState,
		o.SenderPincode, o.SenderName, o.SenderAddress,
		o.WeightKg, o.LengthCm, o.WidthCm, o.HeightCm, o.VolumetricWeightKg, o.ApplicableWeightKg,
		o.PaymentMode, o.OrderValue, o.ItemType, o.SKU, o.Quantity, o.Status, o.Notes,
	)
	created, err := r.scanOrder(row)
	if err != nil {
		return nil, fmt.Errorf("repository.CreateOrder: %w", err)
	}
	return created, nil
}

// scanOrder is a helper function to scan a row into an Order model.
func (r *Repository) scanOrder(row pgx.Row) (*models.Order, error) {
	var o models.Order
	var carrier, mode, zone, awb, notes sql.NullString
	var breakdown []byte
	var bookedAt sql.NullTime

	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.RecipientName, &o.RecipientContact, &o.RecipientAddress,
		&o.RecipientPincode, &o.RecipientCity, &o.RecipientState,
		&o.SenderPincode, &o.SenderName, &o.SenderAddress,
		&o.WeightKg, &o.LengthCm, &o.WidthCm, &o.HeightCm, &o.VolumetricWeightKg, &o.ApplicableWeightKg,
		&o.PaymentMode, &o.OrderValue, &o.ItemType, &o.SKU, &o.Quantity, &o.Status,
		&carrier, &mode, &zone, &o.TotalCost, &breakdown, &awb,
		&o.CreatedAt, &o.UpdatedAt, &bookedAt, &notes,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan order: %w", err)
	}

	o.SelectedCarrier = carrier.String
	o.Mode = mode.String
	o.ZoneApplied = zone.String
	o.AWBNumber = awb.String
	o.Notes = notes.String
	if bookedAt.Valid {
		t := bookedAt.Time
		o.BookedAt = &t
	}
	if len(breakdown) > 0 {
		if err := json.Unmarshal(breakdown, &o.CostBreakdown); err != nil {
			return nil, fmt.Errorf("failed to decode cost breakdown: %w", err)
		}
	}
	return &o, nil
}

// FindByID retrieves a single order by its ID.
func (r *Repository) FindByID(ctx context.Context, orderID string) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	order, err := r.scanOrder(r.db.QueryRow(ctx, query, orderID))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.FindByID: %w", err)
	}
	return order, nil
}

// FindByIDs retrieves the given orders; a missing ID is ErrNotFound.
func (r *Repository) FindByIDs(ctx context.Context, orderIDs []string) ([]*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = ANY($1)`
	rows, err := r.db.Query(ctx, query, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("repository.FindByIDs.Query: %w", err)
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order, err := r.scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("repository.FindByIDs.scanOrder: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository.FindByIDs: %w", err)
	}
	if len(orders) != len(orderIDs) {
		return nil, models.ErrNotFound
	}
	return orders, nil
}

// List retrieves orders with pagination, optionally filtered by status.
func (r *Repository) List(ctx context.Context, status string, page, limit int) ([]*models.Order, int, error) {
	offset := (page - 1) * limit

	query := `SELECT ` + orderColumns + ` FROM orders`
	countQuery := `SELECT COUNT(*) FROM orders`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
		countQuery += ` WHERE status = $1`
		args = append(args, status)
	} else {
		query += ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	}

	rows, err := r.db.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("repository.ListOrders.Query: %w", err)
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order, err := r.scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repository.ListOrders.scanOrder: %w", err)
		}
		orders = append(orders, order)
	}

	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repository.ListOrders.Count: %w", err)
	}
	return orders, total, nil
}

// UpdateBooking persists the shipment fields set by a successful booking.
func (r *Repository) UpdateBooking(ctx context.Context, o *models.Order) error {
	breakdown, err := json.Marshal(o.CostBreakdown)
	if err != nil {
		return fmt.Errorf("repository.UpdateBooking.Marshal: %w", err)
	}
	query := `
		UPDATE orders
		SET status = $1, selected_carrier = $2, mode = $3, zone_applied = $4,
		    total_cost = $5, cost_breakdown = $6, awb_number = $7, booked_at = $8,
		    updated_at = NOW()
		WHERE id = $9`

	cmdTag, err := r.db.Exec(ctx, query,
		o.Status, o.SelectedCarrier, o.Mode, o.ZoneApplied,
		o.TotalCost, breakdown, o.AWBNumber, o.BookedAt, o.ID,
	)
	if err != nil {
		return fmt.Errorf("repository.UpdateBooking: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Delete removes an order. The draft-only rule is enforced by the service.
func (r *Repository) Delete(ctx context.Context, orderID string) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM orders WHERE id = $1`, orderID)
	if err != nil {
		return fmt.Errorf("repository.DeleteOrder: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// NextOrderNumber reserves the next sequence value for the year. The first
// order of a year gets 1001.
func (r *Repository) NextOrderNumber(ctx context.Context, year int) (int, error) {
	query := `
		INSERT INTO order_sequences (year, last_seq)
		VALUES ($1, 1001)
		ON CONFLICT (year) DO UPDATE SET last_seq = order_sequences.last_seq + 1
		RETURNING last_seq`
	var seq int
	if err := r.db.QueryRow(ctx, query, year).Scan(&seq); err != nil {
		return 0, fmt.Errorf("repository.NextOrderNumber: %w", err)
	}
	return seq, nil
}
