package ftl

import (
	"context"
	"fmt"
	"math"
	"time"

	"rates-and-booking/internal/models"
	"rates-and-booking/internal/modules/pincode"
)

// ServiceInterface defines the contract for the FTL service.
type ServiceInterface interface {
	ListRoutes(ctx context.Context) ([]Route, error)
	Calculate(ctx context.Context, req models.FTLRateRequest) (*models.FTLPrice, error)
	CreateOrder(ctx context.Context, req models.CreateFTLOrderRequest) (*models.FTLOrder, error)
	ListOrders(ctx context.Context, page, limit int) ([]*models.FTLOrder, int, error)
}

type service struct {
	repo     RepositoryInterface
	settings models.PricingSettings
	now      func() time.Time
}

// NewService creates a new FTL service.
func NewService(repo RepositoryInterface, settings models.PricingSettings) ServiceInterface {
	return &service{repo: repo, settings: settings, now: time.Now}
}

func (s *service) ListRoutes(ctx context.Context) ([]Route, error) {
	return s.repo.ListRoutes(ctx)
}

// Calculate prices a lane. Unlike parcel quotes, FTL escalation applies to
// the whole base price and GST applies after escalation.
func (s *service) Calculate(ctx context.Context, req models.FTLRateRequest) (*models.FTLPrice, error) {
	base, err := s.repo.GetBasePrice(ctx,
		pincode.Normalize(req.SourceCity),
		pincode.Normalize(req.DestinationCity),
		pincode.Normalize(req.ContainerType),
	)
	if err != nil {
		return nil, err
	}

	escalation := base * s.settings.EscalationRate
	withEscalation := base + escalation
	gst := withEscalation * s.settings.GSTRate

	return &models.FTLPrice{
		SourceCity:          req.SourceCity,
		DestinationCity:     req.DestinationCity,
		ContainerType:       req.ContainerType,
		BasePrice:           round2(base),
		EscalationAmount:    round2(escalation),
		PriceWithEscalation: round2(withEscalation),
		GSTAmount:           round2(gst),
		TotalPrice:          round2(withEscalation + gst),
	}, nil
}

// CreateOrder books a truck at the current lane price.
func (s *service) CreateOrder(ctx context.Context, req models.CreateFTLOrderRequest) (*models.FTLOrder, error) {
	price, err := s.Calculate(ctx, models.FTLRateRequest{
		SourceCity:      req.SourceCity,
		DestinationCity: req.DestinationCity,
		ContainerType:   req.ContainerType,
	})
	if err != nil {
		return nil, err
	}

	year := s.now().Year()
	seq, err := s.repo.NextOrderNumber(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("failed to reserve ftl order number: %w", err)
	}

	order := &models.FTLOrder{
		OrderNumber:     fmt.Sprintf("FTL-%d-%d", year, seq),
		SourceCity:      req.SourceCity,
		DestinationCity: req.DestinationCity,
		ContainerType:   req.ContainerType,
		ContactName:     req.ContactName,
		ContactPhone:    req.ContactPhone,
		PickupAddress:   req.PickupAddress,
		TotalCost:       price.TotalPrice,
		Status:          models.OrderStatusPending,
	}
	return s.repo.CreateOrder(ctx, order)
}

func (s *service) ListOrders(ctx context.Context, page, limit int) ([]*models.FTLOrder, int, error) {
	return s.repo.ListOrders(ctx, page, limit)
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
