package orders

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"rates-and-booking/internal/models"
	"rates-and-booking/pkg/mailer"
	"rates-and-booking/pkg/payment"

	"github.com/google/uuid"
)

// RateQuoter is the rate-comparison dependency of the booking flow.
// Satisfied by the rates module's service.
type RateQuoter interface {
	Compare(ctx context.Context, req models.RateRequest) (*models.CompareResult, error)
	QuoteFor(ctx context.Context, req models.RateRequest, carrierName, mode string) (*models.Quote, error)
}

// LocationLookup resolves a pincode to its location.
type LocationLookup interface {
	Lookup(pin int) (models.Location, bool)
}

// ServiceInterface defines the contract for the order service.
type ServiceInterface interface {
	CreateOrder(ctx context.Context, req models.CreateOrderRequest) (*models.Order, error)
	GetOrder(ctx context.Context, orderID string) (*models.Order, error)
	ListOrders(ctx context.Context, status string, page, limit int) ([]*models.Order, int, error)
	DeleteOrder(ctx context.Context, orderID string) error
	CompareForOrders(ctx context.Context, req models.CompareOrdersRequest) (*models.CompareResult, error)
	Book(ctx context.Context, req models.BookingRequest) (*models.BookingResult, error)
}

type service struct {
	repo     RepositoryInterface
	rates    RateQuoter
	lookup   LocationLookup
	payments payment.ServiceInterface
	mail     mailer.ServiceInterface
	notifyTo string
	settings models.PricingSettings
	now      func() time.Time
	logf     func(format string, v ...any)
}

// NewService creates a new order service. payments, mail and notifyTo are
// optional; booking works without them.
func NewService(
	repo RepositoryInterface,
	rates RateQuoter,
	lookup LocationLookup,
	payments payment.ServiceInterface,
	mail mailer.ServiceInterface,
	notifyTo string,
	settings models.PricingSettings,
) ServiceInterface {
	return &service{
		repo:     repo,
		rates:    rates,
		lookup:   lookup,
		payments: payments,
		mail:     mail,
		notifyTo: notifyTo,
		settings: settings,
		now:      time.Now,
		logf:     log.Printf,
	}
}

// CreateOrder stores a draft order. The billable weight is the greater of the
// actual and the volumetric weight.
func (s *service) CreateOrder(ctx context.Context, req models.CreateOrderRequest) (*models.Order, error) {
	loc, ok := s.lookup.Lookup(req.RecipientPincode)
	if !ok {
		return nil, fmt.Errorf("recipient pincode %d: %w", req.RecipientPincode, models.ErrPincodeNotFound)
	}
	if _, ok := s.lookup.Lookup(req.SenderPincode); !ok {
		return nil, fmt.Errorf("sender pincode %d: %w", req.SenderPincode, models.ErrPincodeNotFound)
	}

	volumetric := round2(req.LengthCm * req.WidthCm * req.HeightCm / s.settings.VolumetricDivisor)

	quantity := req.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	year := s.now().Year()
	seq, err := s.repo.NextOrderNumber(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("failed to reserve order number: %w", err)
	}

	order := &models.Order{
		OrderNumber:        fmt.Sprintf("ORD-%d-%d", year, seq),
		RecipientName:      req.RecipientName,
		RecipientContact:   req.RecipientContact,
		RecipientAddress:   req.RecipientAddress,
		RecipientPincode:   req.RecipientPincode,
		RecipientCity:      loc.District,
		RecipientState:     loc.OriginalState,
		SenderPincode:      req.SenderPincode,
		SenderName:         req.SenderName,
		SenderAddress:      req.SenderAddress,
		WeightKg:           req.WeightKg,
		LengthCm:           req.LengthCm,
		WidthCm:            req.WidthCm,
		HeightCm:           req.HeightCm,
		VolumetricWeightKg: volumetric,
		ApplicableWeightKg: math.Max(req.WeightKg, volumetric),
		PaymentMode:        req.PaymentMode,
		OrderValue:         req.OrderValue,
		ItemType:           req.ItemType,
		SKU:                req.SKU,
		Quantity:           quantity,
		Status:             models.OrderStatusDraft,
		Notes:              req.Notes,
	}
	return s.repo.Create(ctx, order)
}

func (s *service) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	return s.repo.FindByID(ctx, orderID)
}

func (s *service) ListOrders(ctx context.Context, status string, page, limit int) ([]*models.Order, int, error) {
	return s.repo.List(ctx, status, page, limit)
}

// DeleteOrder removes a draft. Anything past draft stays for the audit trail.
func (s *service) DeleteOrder(ctx context.Context, orderID string) error {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order.Status != models.OrderStatusDraft {
		return models.ErrOrderNotDraft
	}
	return s.repo.Delete(ctx, orderID)
}

// CompareForOrders compares carriers for a set of orders shipped together.
// The orders must share one route; their billable weights and declared values
// are aggregated into a single shipment.
func (s *service) CompareForOrders(ctx context.Context, req models.CompareOrdersRequest) (*models.CompareResult, error) {
	list, err := s.repo.FindByIDs(ctx, req.OrderIDs)
	if err != nil {
		return nil, err
	}

	first := list[0]
	var totalWeight, totalValue float64
	isCOD := false
	for _, o := range list {
		if o.SenderPincode != first.SenderPincode || o.RecipientPincode != first.RecipientPincode {
			return nil, fmt.Errorf("orders span different routes: %w", models.ErrConflict)
		}
		totalWeight += o.ApplicableWeightKg
		totalValue += o.OrderValue
		if o.PaymentMode == models.PaymentModeCOD {
			isCOD = true
		}
	}

	return s.rates.Compare(ctx, models.RateRequest{
		SourcePincode: first.SenderPincode,
		DestPincode:   first.RecipientPincode,
		WeightKg:      totalWeight,
		IsCOD:         isCOD,
		OrderValue:    totalValue,
	})
}

// Book recalculates each order against the chosen carrier, charges the total
// when a payment method is supplied, and persists the shipment details. Any
// unserviceable order aborts the whole booking before anything is written.
func (s *service) Book(ctx context.Context, req models.BookingRequest) (*models.BookingResult, error) {
	list, err := s.repo.FindByIDs(ctx, req.OrderIDs)
	if err != nil {
		return nil, err
	}

	quotes := make(map[string]*models.Quote, len(list))
	var total float64
	for _, o := range list {
		if o.Status == models.OrderStatusBooked || o.Status == models.OrderStatusInTransit || o.Status == models.OrderStatusDelivered {
			return nil, fmt.Errorf("order %s already booked: %w", o.OrderNumber, models.ErrConflict)
		}
		quote, err := s.rates.QuoteFor(ctx, models.RateRequest{
			SourcePincode: o.SenderPincode,
			DestPincode:   o.RecipientPincode,
			WeightKg:      o.ApplicableWeightKg,
			IsCOD:         o.PaymentMode == models.PaymentModeCOD,
			OrderValue:    o.OrderValue,
		}, req.CarrierName, req.Mode)
		if err != nil {
			return nil, err
		}
		if !quote.Serviceable {
			return nil, fmt.Errorf("order %s: %s: %w", o.OrderNumber, quote.Reason, models.ErrRouteNotServiceable)
		}
		quotes[o.ID] = quote
		total += quote.TotalCost
	}

	paymentID := ""
	if req.PaymentMethodID != "" && s.payments != nil {
		numbers := make([]string, 0, len(list))
		for _, o := range list {
			numbers = append(numbers, o.OrderNumber)
		}
		paymentID, err = s.payments.ProcessPayment(ctx, total, req.PaymentMethodID, "Shipment booking "+strings.Join(numbers, ", "))
		if err != nil {
			return nil, fmt.Errorf("failed to charge booking: %w", err)
		}
	}

	bookedAt := s.now()
	updated := make([]string, 0, len(list))
	for _, o := range list {
		quote := quotes[o.ID]
		o.Status = models.OrderStatusBooked
		o.SelectedCarrier = req.CarrierName
		o.Mode = req.Mode
		o.ZoneApplied = quote.Zone
		o.TotalCost = quote.TotalCost
		o.CostBreakdown = quote.Breakdown
		o.AWBNumber = newAWBNumber()
		o.BookedAt = &bookedAt
		if err := s.repo.UpdateBooking(ctx, o); err != nil {
			return nil, fmt.Errorf("failed to persist booking for %s: %w", o.OrderNumber, err)
		}
		updated = append(updated, o.ID)
	}

	s.sendBookingMail(ctx, list, req, total)

	return &models.BookingResult{
		Status:        "success",
		Message:       fmt.Sprintf("%d order(s) booked with %s (%s)", len(updated), req.CarrierName, req.Mode),
		OrdersUpdated: updated,
		TotalCost:     round2(total),
		Carrier:       req.CarrierName,
		Mode:          req.Mode,
		PaymentID:     paymentID,
	}, nil
}

// sendBookingMail is best effort; a mail failure never unwinds a booking.
func (s *service) sendBookingMail(ctx context.Context, list []*models.Order, req models.BookingRequest, total float64) {
	if s.mail == nil || s.notifyTo == "" {
		return
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Booked %d order(s) with %s (%s), total INR %.2f\n\n", len(list), req.CarrierName, req.Mode, total)
	for _, o := range list {
		fmt.Fprintf(&b, "%s -> %s, %s (AWB %s)\n", o.OrderNumber, o.RecipientName, o.RecipientCity, o.AWBNumber)
	}
	if err := s.mail.Send(ctx, s.notifyTo, "Booking confirmation", b.String()); err != nil {
		s.logf("orders: booking mail failed: %v", err)
	}
}

func newAWBNumber() string {
	return "AWB" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:15]
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
