package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"rates-and-booking/internal/models"
)

// fakeRepo simulates the order store.
type fakeRepo struct {
	orders map[string]*models.Order
	seq    int
	nextID int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{orders: make(map[string]*models.Order), seq: 1000}
}

func (f *fakeRepo) Create(ctx context.Context, o *models.Order) (*models.Order, error) {
	f.nextID++
	cp := *o
	cp.ID = fmt.Sprintf("ord-%d", f.nextID)
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	f.orders[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeRepo) FindByID(ctx context.Context, id string) (*models.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeRepo) FindByIDs(ctx context.Context, ids []string) ([]*models.Order, error) {
	out := make([]*models.Order, 0, len(ids))
	for _, id := range ids {
		o, ok := f.orders[id]
		if !ok {
			return nil, models.ErrNotFound
		}
		cp := *o
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeRepo) List(ctx context.Context, status string, page, limit int) ([]*models.Order, int, error) {
	var out []*models.Order
	for _, o := range f.orders {
		if status == "" || o.Status == status {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, len(out), nil
}

func (f *fakeRepo) UpdateBooking(ctx context.Context, o *models.Order) error {
	if _, ok := f.orders[o.ID]; !ok {
		return models.ErrNotFound
	}
	cp := *o
	f.orders[o.ID] = &cp
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.orders[id]; !ok {
		return models.ErrNotFound
	}
	delete(f.orders, id)
	return nil
}

func (f *fakeRepo) NextOrderNumber(ctx context.Context, year int) (int, error) {
	f.seq++
	return f.seq, nil
}

// fakeRates returns one canned quote and records the last request.
type fakeRates struct {
	lastReq models.RateRequest
	quote   models.Quote
}

func (f *fakeRates) Compare(ctx context.Context, req models.RateRequest) (*models.CompareResult, error) {
	f.lastReq = req
	return &models.CompareResult{
		SourcePincode: req.SourcePincode,
		DestPincode:   req.DestPincode,
		TotalWeightKg: req.WeightKg,
		Carriers:      []models.Quote{f.quote},
	}, nil
}

func (f *fakeRates) QuoteFor(ctx context.Context, req models.RateRequest, name, mode string) (*models.Quote, error) {
	f.lastReq = req
	q := f.quote
	return &q, nil
}

type fakeLookup struct{ pins map[int]models.Location }

func (f fakeLookup) Lookup(pin int) (models.Location, bool) {
	l, ok := f.pins[pin]
	return l, ok
}

type fakePayments struct {
	amount float64
	calls  int
}

func (f *fakePayments) ProcessPayment(ctx context.Context, amount float64, methodID, description string) (string, error) {
	f.calls++
	f.amount = amount
	return "pay_123", nil
}

type fakeMailer struct {
	to      string
	subject string
	calls   int
}

func (f *fakeMailer) Send(ctx context.Context, to, subject, body string) error {
	f.calls++
	f.to = to
	f.subject = subject
	return nil
}

func testLookup() fakeLookup {
	return fakeLookup{pins: map[int]models.Location{
		400001: {Pincode: 400001, City: "mumbai gpo", State: "maharashtra", District: "mumbai", OriginalState: "MAHARASHTRA"},
		110001: {Pincode: 110001, City: "new delhi gpo", State: "delhi", District: "central delhi", OriginalState: "DELHI"},
		600001: {Pincode: 600001, City: "chennai gpo", State: "tamil nadu", District: "chennai", OriginalState: "TAMIL NADU"},
	}}
}

func serviceableQuote(total float64) models.Quote {
	return models.Quote{
		Carrier:     "SlabExpress",
		Mode:        "Surface",
		Zone:        "Zone A (Metropolitan)",
		Serviceable: true,
		TotalCost:   total,
		Breakdown:   map[string]float64{models.CompFinalTotal: total},
	}
}

type testDeps struct {
	repo     *fakeRepo
	rates    *fakeRates
	payments *fakePayments
	mail     *fakeMailer
}

func newTestService(quote models.Quote) (ServiceInterface, *testDeps) {
	deps := &testDeps{
		repo:     newFakeRepo(),
		rates:    &fakeRates{quote: quote},
		payments: &fakePayments{},
		mail:     &fakeMailer{},
	}
	settings := models.PricingSettings{VolumetricDivisor: 5000, EscalationRate: 0.15, GSTRate: 0.18}
	svc := NewService(deps.repo, deps.rates, testLookup(), deps.payments, deps.mail, "ops@example.com", settings).(*service)
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	svc.logf = func(string, ...any) {}
	return svc, deps
}

func draftRequest() models.CreateOrderRequest {
	return models.CreateOrderRequest{
		RecipientName:    "Asha Patel",
		RecipientContact: "9876543210",
		RecipientAddress: "12 MG Road",
		RecipientPincode: 110001,
		SenderPincode:    400001,
		WeightKg:         5,
		LengthCm:         50,
		WidthCm:          40,
		HeightCm:         30,
		PaymentMode:      models.PaymentModePrepaid,
		OrderValue:       2000,
	}
}

func TestCreateOrder(t *testing.T) {
	svc, _ := newTestService(serviceableQuote(100))

	order, err := svc.CreateOrder(context.Background(), draftRequest())
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	// 50*40*30 / 5000 = 12 kg volumetric, heavier than the 5 kg actual.
	if order.VolumetricWeightKg != 12 {
		t.Errorf("volumetric = %v; want 12", order.VolumetricWeightKg)
	}
	if order.ApplicableWeightKg != 12 {
		t.Errorf("applicable = %v; want 12", order.ApplicableWeightKg)
	}
	if order.OrderNumber != "ORD-2025-1001" {
		t.Errorf("order number = %q; want ORD-2025-1001", order.OrderNumber)
	}
	if order.Status != models.OrderStatusDraft {
		t.Errorf("status = %q; want draft", order.Status)
	}
	if order.RecipientCity != "central delhi" || order.RecipientState != "DELHI" {
		t.Errorf("recipient city/state = %q/%q", order.RecipientCity, order.RecipientState)
	}
	if order.Quantity != 1 {
		t.Errorf("quantity = %d; want default 1", order.Quantity)
	}

	second, _ := svc.CreateOrder(context.Background(), draftRequest())
	if second.OrderNumber != "ORD-2025-1002" {
		t.Errorf("second order number = %q; want ORD-2025-1002", second.OrderNumber)
	}
}

func TestCreateOrderActualWeightWins(t *testing.T) {
	svc, _ := newTestService(serviceableQuote(100))
	req := draftRequest()
	req.WeightKg = 20

	order, err := svc.CreateOrder(context.Background(), req)
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if order.ApplicableWeightKg != 20 {
		t.Errorf("applicable = %v; want actual 20", order.ApplicableWeightKg)
	}
}

func TestCreateOrderUnknownPincode(t *testing.T) {
	svc, _ := newTestService(serviceableQuote(100))
	req := draftRequest()
	req.RecipientPincode = 999999

	_, err := svc.CreateOrder(context.Background(), req)
	if !errors.Is(err, models.ErrPincodeNotFound) {
		t.Errorf("err = %v; want ErrPincodeNotFound", err)
	}
}

func TestCompareForOrdersAggregates(t *testing.T) {
	svc, deps := newTestService(serviceableQuote(100))

	first, _ := svc.CreateOrder(context.Background(), draftRequest())

	codReq := draftRequest()
	codReq.PaymentMode = models.PaymentModeCOD
	codReq.WeightKg = 20
	codReq.OrderValue = 3000
	second, _ := svc.CreateOrder(context.Background(), codReq)

	result, err := svc.CompareForOrders(context.Background(), models.CompareOrdersRequest{OrderIDs: []string{first.ID, second.ID}})
	if err != nil {
		t.Fatalf("CompareForOrders: %v", err)
	}
	if len(result.Carriers) != 1 {
		t.Fatalf("got %d quotes; want 1", len(result.Carriers))
	}
	if deps.rates.lastReq.WeightKg != 32 { // 12 volumetric + 20 actual
		t.Errorf("aggregated weight = %v; want 32", deps.rates.lastReq.WeightKg)
	}
	if !deps.rates.lastReq.IsCOD {
		t.Error("request not flagged COD despite a COD order")
	}
	if deps.rates.lastReq.OrderValue != 5000 {
		t.Errorf("aggregated value = %v; want 5000", deps.rates.lastReq.OrderValue)
	}
}

func TestCompareForOrdersRejectsMixedRoutes(t *testing.T) {
	svc, _ := newTestService(serviceableQuote(100))

	first, _ := svc.CreateOrder(context.Background(), draftRequest())
	other := draftRequest()
	other.RecipientPincode = 600001
	second, _ := svc.CreateOrder(context.Background(), other)

	_, err := svc.CompareForOrders(context.Background(), models.CompareOrdersRequest{OrderIDs: []string{first.ID, second.ID}})
	if !errors.Is(err, models.ErrConflict) {
		t.Errorf("err = %v; want ErrConflict", err)
	}
}

func TestBook(t *testing.T) {
	svc, deps := newTestService(serviceableQuote(100))

	first, _ := svc.CreateOrder(context.Background(), draftRequest())
	second, _ := svc.CreateOrder(context.Background(), draftRequest())

	result, err := svc.Book(context.Background(), models.BookingRequest{
		OrderIDs:        []string{first.ID, second.ID},
		CarrierName:     "SlabExpress",
		Mode:            "Surface",
		PaymentMethodID: "pm_test",
	})
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	if result.TotalCost != 200 {
		t.Errorf("total = %v; want 200", result.TotalCost)
	}
	if result.PaymentID != "pay_123" {
		t.Errorf("payment id = %q; want pay_123", result.PaymentID)
	}
	if deps.payments.amount != 200 {
		t.Errorf("charged %v; want 200", deps.payments.amount)
	}
	if deps.mail.calls != 1 || deps.mail.to != "ops@example.com" {
		t.Errorf("mail calls = %d to %q; want 1 to ops@example.com", deps.mail.calls, deps.mail.to)
	}

	booked, _ := svc.GetOrder(context.Background(), first.ID)
	if booked.Status != models.OrderStatusBooked {
		t.Errorf("status = %q; want booked", booked.Status)
	}
	if booked.SelectedCarrier != "SlabExpress" || booked.Mode != "Surface" {
		t.Errorf("carrier = %s/%s", booked.SelectedCarrier, booked.Mode)
	}
	if !strings.HasPrefix(booked.AWBNumber, "AWB") {
		t.Errorf("awb = %q; want AWB prefix", booked.AWBNumber)
	}
	if booked.BookedAt == nil {
		t.Error("booked_at not set")
	}
}

func TestBookWithoutPaymentMethodSkipsCharge(t *testing.T) {
	svc, deps := newTestService(serviceableQuote(100))
	order, _ := svc.CreateOrder(context.Background(), draftRequest())

	result, err := svc.Book(context.Background(), models.BookingRequest{
		OrderIDs:    []string{order.ID},
		CarrierName: "SlabExpress",
		Mode:        "Surface",
	})
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	if deps.payments.calls != 0 {
		t.Errorf("payment calls = %d; want 0", deps.payments.calls)
	}
	if result.PaymentID != "" {
		t.Errorf("payment id = %q; want empty", result.PaymentID)
	}
}

func TestBookUnserviceableAborts(t *testing.T) {
	svc, deps := newTestService(models.Quote{Serviceable: false, Reason: "Pincode Not Found"})
	order, _ := svc.CreateOrder(context.Background(), draftRequest())

	_, err := svc.Book(context.Background(), models.BookingRequest{
		OrderIDs:    []string{order.ID},
		CarrierName: "SlabExpress",
		Mode:        "Surface",
	})
	if !errors.Is(err, models.ErrRouteNotServiceable) {
		t.Fatalf("err = %v; want ErrRouteNotServiceable", err)
	}
	if deps.payments.calls != 0 {
		t.Error("payment attempted for unserviceable booking")
	}
	unchanged, _ := svc.GetOrder(context.Background(), order.ID)
	if unchanged.Status != models.OrderStatusDraft {
		t.Errorf("status = %q; want draft after failed booking", unchanged.Status)
	}
}

func TestBookAlreadyBooked(t *testing.T) {
	svc, _ := newTestService(serviceableQuote(100))
	order, _ := svc.CreateOrder(context.Background(), draftRequest())

	req := models.BookingRequest{OrderIDs: []string{order.ID}, CarrierName: "SlabExpress", Mode: "Surface"}
	if _, err := svc.Book(context.Background(), req); err != nil {
		t.Fatalf("first Book: %v", err)
	}
	if _, err := svc.Book(context.Background(), req); !errors.Is(err, models.ErrConflict) {
		t.Errorf("second Book err = %v; want ErrConflict", err)
	}
}

func TestDeleteOrderDraftOnly(t *testing.T) {
	svc, _ := newTestService(serviceableQuote(100))
	order, _ := svc.CreateOrder(context.Background(), draftRequest())

	booked, _ := svc.CreateOrder(context.Background(), draftRequest())
	if _, err := svc.Book(context.Background(), models.BookingRequest{OrderIDs: []string{booked.ID}, CarrierName: "SlabExpress", Mode: "Surface"}); err != nil {
		t.Fatalf("Book: %v", err)
	}

	if err := svc.DeleteOrder(context.Background(), order.ID); err != nil {
		t.Fatalf("DeleteOrder draft: %v", err)
	}
	if err := svc.DeleteOrder(context.Background(), booked.ID); !errors.Is(err, models.ErrOrderNotDraft) {
		t.Errorf("delete booked err = %v; want ErrOrderNotDraft", err)
	}
	if err := svc.DeleteOrder(context.Background(), "ghost"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("delete missing err = %v; want ErrNotFound", err)
	}
}
