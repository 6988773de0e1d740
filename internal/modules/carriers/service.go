package carriers

import (
	"context"
	"fmt"
	"log"

	"rates-and-booking/internal/models"

	"github.com/redis/go-redis/v9"
)

// ServiceInterface defines the carrier rate-card operations. ListActive and
// GetByNameMode also satisfy the rate engine's CarrierSource dependency.
type ServiceInterface interface {
	List(ctx context.Context) ([]models.CarrierConfig, error)
	ListActive(ctx context.Context) ([]models.CarrierConfig, error)
	GetByNameMode(ctx context.Context, name, mode string) (*models.CarrierConfig, error)
	Create(ctx context.Context, cfg models.CarrierConfig) (*models.CarrierConfig, error)
	Update(ctx context.Context, name, mode string, cfg models.CarrierConfig) (*models.CarrierConfig, error)
	Delete(ctx context.Context, name, mode string) error
}

// rateCardCache is the cache dependency of the service: the redis-backed
// cache in production, an in-memory fake in tests.
type rateCardCache interface {
	getActive(ctx context.Context) ([]models.CarrierConfig, bool)
	setActive(ctx context.Context, configs []models.CarrierConfig) error
	invalidate(ctx context.Context) error
}

type service struct {
	repo  RepositoryInterface
	cache rateCardCache
	logf  func(format string, v ...any)
}

// NewService creates a new carrier service. rdb may be nil; the service then
// reads Postgres on every call.
func NewService(repo RepositoryInterface, rdb *redis.Client) ServiceInterface {
	return &service{repo: repo, cache: &cache{rdb: rdb}, logf: log.Printf}
}

func (s *service) List(ctx context.Context) ([]models.CarrierConfig, error) {
	return s.repo.List(ctx)
}

// ListActive serves rate cards from the cache when fresh. Cache failures are
// logged and absorbed; the database stays the source of truth.
func (s *service) ListActive(ctx context.Context) ([]models.CarrierConfig, error) {
	if configs, ok := s.cache.getActive(ctx); ok {
		return configs, nil
	}
	configs, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active carriers: %w", err)
	}
	if err := s.cache.setActive(ctx, configs); err != nil {
		s.logf("carriers: cache set failed: %v", err)
	}
	return configs, nil
}

func (s *service) GetByNameMode(ctx context.Context, name, mode string) (*models.CarrierConfig, error) {
	return s.repo.GetByNameMode(ctx, name, mode)
}

func (s *service) Create(ctx context.Context, cfg models.CarrierConfig) (*models.CarrierConfig, error) {
	if err := s.repo.Create(ctx, &cfg); err != nil {
		return nil, err
	}
	s.dropCache(ctx)
	return &cfg, nil
}

func (s *service) Update(ctx context.Context, name, mode string, cfg models.CarrierConfig) (*models.CarrierConfig, error) {
	if err := s.repo.Update(ctx, name, mode, &cfg); err != nil {
		return nil, err
	}
	s.dropCache(ctx)
	return &cfg, nil
}

func (s *service) Delete(ctx context.Context, name, mode string) error {
	if err := s.repo.Delete(ctx, name, mode); err != nil {
		return err
	}
	s.dropCache(ctx)
	return nil
}

func (s *service) dropCache(ctx context.Context) {
	if err := s.cache.invalidate(ctx); err != nil {
		s.logf("carriers: cache invalidate failed: %v", err)
	}
}
