package carriers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"rates-and-booking/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryInterface defines the contract for the carrier config repository.
type RepositoryInterface interface {
	List(ctx context.Context) ([]models.CarrierConfig, error)
	ListActive(ctx context.Context) ([]models.CarrierConfig, error)
	GetByNameMode(ctx context.Context, name, mode string) (*models.CarrierConfig, error)
	Create(ctx context.Context, cfg *models.CarrierConfig) error
	Update(ctx context.Context, name, mode string, cfg *models.CarrierConfig) error
	Delete(ctx context.Context, name, mode string) error
}

// Repository implements the RepositoryInterface. Rate cards live in a single
// JSONB column; name, mode and active are lifted into columns for querying.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new carrier repository.
func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

func (r *Repository) List(ctx context.Context) ([]models.CarrierConfig, error) {
	return r.list(ctx, `SELECT config FROM carriers ORDER BY carrier_name, mode`)
}

func (r *Repository) ListActive(ctx context.Context) ([]models.CarrierConfig, error) {
	return r.list(ctx, `SELECT config FROM carriers WHERE active ORDER BY carrier_name, mode`)
}

func (r *Repository) list(ctx context.Context, query string) ([]models.CarrierConfig, error) {
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("repository.ListCarriers.Query: %w", err)
	}
	defer rows.Close()

	var configs []models.CarrierConfig
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("repository.ListCarriers.Scan: %w", err)
		}
		var cfg models.CarrierConfig
		if err := json.Unmarshal(raw, &cfg); err != nil {
			return nil, fmt.Errorf("repository.ListCarriers.Unmarshal: %w", err)
		}
		configs = append(configs, cfg)
	}
	return configs, rows.Err()
}

func (r *Repository) GetByNameMode(ctx context.Context, name, mode string) (*models.CarrierConfig, error) {
	query := `SELECT config FROM carriers WHERE carrier_name = $1 AND mode = $2`
	var raw []byte
	err := r.db.QueryRow(ctx, query, name, mode).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.GetByNameMode: %w", err)
	}
	var cfg models.CarrierConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("repository.GetByNameMode.Unmarshal: %w", err)
	}
	return &cfg, nil
}

// Create inserts a new carrier rate card. A duplicate (name, mode) pair is
// reported as models.ErrConflict.
func (r *Repository) Create(ctx context.Context, cfg *models.CarrierConfig) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("repository.CreateCarrier.Marshal: %w", err)
	}
	query := `
		INSERT INTO carriers (carrier_name, mode, active, config)
		VALUES ($1, $2, $3, $4)`
	if _, err := r.db.Exec(ctx, query, cfg.CarrierName, cfg.Mode, cfg.Active, raw); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return models.ErrConflict
		}
		return fmt.Errorf("repository.CreateCarrier: %w", err)
	}
	return nil
}

func (r *Repository) Update(ctx context.Context, name, mode string, cfg *models.CarrierConfig) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("repository.UpdateCarrier.Marshal: %w", err)
	}
	query := `
		UPDATE carriers
		SET carrier_name = $1, mode = $2, active = $3, config = $4, updated_at = NOW()
		WHERE carrier_name = $5 AND mode = $6`
	cmdTag, err := r.db.Exec(ctx, query, cfg.CarrierName, cfg.Mode, cfg.Active, raw, name, mode)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return models.ErrConflict
		}
		return fmt.Errorf("repository.UpdateCarrier: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, name, mode string) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM carriers WHERE carrier_name = $1 AND mode = $2`, name, mode)
	if err != nil {
		return fmt.Errorf("repository.DeleteCarrier: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
