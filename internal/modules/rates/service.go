package rates

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"rates-and-booking/internal/models"

	"github.com/google/uuid"
)

// CarrierSource supplies carrier config snapshots. Satisfied by the carriers
// module's service.
type CarrierSource interface {
	ListActive(ctx context.Context) ([]models.CarrierConfig, error)
	GetByNameMode(ctx context.Context, name, mode string) (*models.CarrierConfig, error)
}

type ServiceInterface interface {
	Compare(ctx context.Context, req models.RateRequest) (*models.CompareResult, error)
	QuoteFor(ctx context.Context, req models.RateRequest, carrierName, mode string) (*models.Quote, error)
}

type service struct {
	engine   *Engine
	carriers CarrierSource
	logf     func(format string, v ...any)
}

func NewService(engine *Engine, carriers CarrierSource) ServiceInterface {
	return &service{engine: engine, carriers: carriers, logf: log.Printf}
}

// Compare quotes every active carrier for one shipment. A carrier whose
// config fails to calculate is logged and skipped; one bad config never
// aborts the comparison.
func (s *service) Compare(ctx context.Context, req models.RateRequest) (*models.CompareResult, error) {
	if req.WeightKg <= 0 {
		return nil, fmt.Errorf("weight %v kg: %w", req.WeightKg, models.ErrInvalidWeight)
	}

	configs, err := s.carriers.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list carriers: %w", err)
	}

	quotes := make([]models.Quote, 0, len(configs))
	for i := range configs {
		cfg := &configs[i]
		if !modeMatches(req.Mode, cfg.Mode) {
			continue
		}
		quote, err := s.engine.Calculate(req, cfg)
		if err != nil {
			s.logf("rates: skipping %s/%s: %v", cfg.CarrierName, cfg.Mode, err)
			continue
		}
		quotes = append(quotes, quote)
	}

	// Serviceable quotes first, cheapest first; non-serviceable ones trail
	// with their reasons so callers can show why a carrier dropped out.
	sort.SliceStable(quotes, func(i, j int) bool {
		if quotes[i].Serviceable != quotes[j].Serviceable {
			return quotes[i].Serviceable
		}
		return quotes[i].TotalCost < quotes[j].TotalCost
	})

	return &models.CompareResult{
		ID:            uuid.NewString(),
		SourcePincode: req.SourcePincode,
		DestPincode:   req.DestPincode,
		TotalWeightKg: req.WeightKg,
		Carriers:      quotes,
	}, nil
}

// QuoteFor prices one shipment against one exact carrier+mode; the booking
// flow uses it to recalculate before persisting.
func (s *service) QuoteFor(ctx context.Context, req models.RateRequest, carrierName, mode string) (*models.Quote, error) {
	cfg, err := s.carriers.GetByNameMode(ctx, carrierName, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to load carrier %s/%s: %w", carrierName, mode, err)
	}
	quote, err := s.engine.Calculate(req, cfg)
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

func modeMatches(requested, carrierMode string) bool {
	if requested == "" || strings.EqualFold(requested, "Both") {
		return true
	}
	return strings.EqualFold(requested, carrierMode)
}
