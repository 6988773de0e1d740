package ftl

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"rates-and-booking/internal/models"
)

// fakeRepo simulates the FTL store with a fixed lane table.
type fakeRepo struct {
	prices map[string]float64
	orders []*models.FTLOrder
	seq    int
}

func laneKey(src, dst, container string) string {
	return src + "|" + dst + "|" + container
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		prices: map[string]float64{
			laneKey("mumbai", "delhi", "20ft"):   42000,
			laneKey("mumbai", "chennai", "32ft"): 68000,
		},
		seq: 1000,
	}
}

func (f *fakeRepo) ListRoutes(ctx context.Context) ([]Route, error) {
	return []Route{{SourceCity: "mumbai", DestinationCity: "delhi", ContainerType: "20ft", BasePrice: 42000}}, nil
}

func (f *fakeRepo) GetBasePrice(ctx context.Context, src, dst, container string) (float64, error) {
	price, ok := f.prices[laneKey(src, dst, container)]
	if !ok {
		return 0, models.ErrNotFound
	}
	return price, nil
}

func (f *fakeRepo) CreateOrder(ctx context.Context, o *models.FTLOrder) (*models.FTLOrder, error) {
	cp := *o
	cp.ID = fmt.Sprintf("ftl-%d", len(f.orders)+1)
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	f.orders = append(f.orders, &cp)
	out := cp
	return &out, nil
}

func (f *fakeRepo) ListOrders(ctx context.Context, page, limit int) ([]*models.FTLOrder, int, error) {
	return f.orders, len(f.orders), nil
}

func (f *fakeRepo) NextOrderNumber(ctx context.Context, year int) (int, error) {
	f.seq++
	return f.seq, nil
}

func newTestService() (ServiceInterface, *fakeRepo) {
	repo := newFakeRepo()
	settings := models.PricingSettings{EscalationRate: 0.15, GSTRate: 0.18}
	svc := NewService(repo, settings).(*service)
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return svc, repo
}

func TestCalculate(t *testing.T) {
	svc, _ := newTestService()

	price, err := svc.Calculate(context.Background(), models.FTLRateRequest{
		SourceCity:      "Mumbai",
		DestinationCity: "Delhi",
		ContainerType:   "20FT",
	})
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if price.BasePrice != 42000 {
		t.Errorf("base = %v; want 42000", price.BasePrice)
	}
	if price.EscalationAmount != 6300 {
		t.Errorf("escalation = %v; want 6300", price.EscalationAmount)
	}
	if price.PriceWithEscalation != 48300 {
		t.Errorf("with escalation = %v; want 48300", price.PriceWithEscalation)
	}
	if price.GSTAmount != 8694 {
		t.Errorf("gst = %v; want 8694", price.GSTAmount)
	}
	if price.TotalPrice != 56994 {
		t.Errorf("total = %v; want 56994", price.TotalPrice)
	}
}

func TestCalculateUnknownLane(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Calculate(context.Background(), models.FTLRateRequest{
		SourceCity:      "Mumbai",
		DestinationCity: "Kolkata",
		ContainerType:   "20ft",
	})
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("err = %v; want ErrNotFound", err)
	}
}

func TestCreateOrder(t *testing.T) {
	svc, _ := newTestService()

	order, err := svc.CreateOrder(context.Background(), models.CreateFTLOrderRequest{
		SourceCity:      "Mumbai",
		DestinationCity: "Delhi",
		ContainerType:   "20ft",
		ContactName:     "Ravi Kumar",
		ContactPhone:    "9876543210",
		PickupAddress:   "Plot 7, MIDC",
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if order.OrderNumber != "FTL-2025-1001" {
		t.Errorf("order number = %q; want FTL-2025-1001", order.OrderNumber)
	}
	if order.TotalCost != 56994 {
		t.Errorf("total = %v; want 56994", order.TotalCost)
	}
	if order.Status != models.OrderStatusPending {
		t.Errorf("status = %q; want pending", order.Status)
	}

	second, _ := svc.CreateOrder(context.Background(), models.CreateFTLOrderRequest{
		SourceCity:      "Mumbai",
		DestinationCity: "Chennai",
		ContainerType:   "32ft",
		ContactName:     "Ravi Kumar",
		ContactPhone:    "9876543210",
		PickupAddress:   "Plot 7, MIDC",
	})
	if second.OrderNumber != "FTL-2025-1002" {
		t.Errorf("second order number = %q; want FTL-2025-1002", second.OrderNumber)
	}
}
