package models

import "time"

// Order statuses.
const (
	OrderStatusDraft     = "draft"
	OrderStatusPending   = "pending"
	OrderStatusBooked    = "booked"
	OrderStatusInTransit = "in_transit"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// Payment modes.
const (
	PaymentModeCOD     = "cod"
	PaymentModePrepaid = "prepaid"
)

// Order represents a shipment order in the system.
type Order struct {
	ID          string `json:"id"`
	OrderNumber string `json:"order_number"`

	// Recipient details. City and state are auto-filled from the pincode.
	RecipientName    string `json:"recipient_name"`
	RecipientContact string `json:"recipient_contact"`
	RecipientAddress string `json:"recipient_address"`
	RecipientPincode int    `json:"recipient_pincode"`
	RecipientCity    string `json:"recipient_city,omitempty"`
	RecipientState   string `json:"recipient_state,omitempty"`

	// Sender details.
	SenderPincode int    `json:"sender_pincode"`
	SenderName    string `json:"sender_name,omitempty"`
	SenderAddress string `json:"sender_address,omitempty"`

	// Box details. Volumetric weight is (L x W x H) / volumetric divisor;
	// the applicable weight is max(actual, volumetric).
	WeightKg           float64 `json:"weight_kg"`
	LengthCm           float64 `json:"length_cm"`
	WidthCm            float64 `json:"width_cm"`
	HeightCm           float64 `json:"height_cm"`
	VolumetricWeightKg float64 `json:"volumetric_weight_kg"`
	ApplicableWeightKg float64 `json:"applicable_weight_kg"`

	PaymentMode string  `json:"payment_mode"`
	OrderValue  float64 `json:"order_value"`

	ItemType string `json:"item_type,omitempty"`
	SKU      string `json:"sku,omitempty"`
	Quantity int    `json:"quantity"`

	Status string `json:"status"`

	// Shipment details, filled at booking time.
	SelectedCarrier string             `json:"selected_carrier,omitempty"`
	Mode            string             `json:"mode,omitempty"`
	ZoneApplied     string             `json:"zone_applied,omitempty"`
	TotalCost       float64            `json:"total_cost,omitempty"`
	CostBreakdown   map[string]float64 `json:"cost_breakdown,omitempty"`
	AWBNumber       string             `json:"awb_number,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	BookedAt  *time.Time `json:"booked_at,omitempty"`

	Notes string `json:"notes,omitempty"`
}

// CreateOrderRequest is the payload to create a new draft order.
type CreateOrderRequest struct {
	RecipientName    string  `json:"recipient_name" validate:"required"`
	RecipientContact string  `json:"recipient_contact" validate:"required"`
	RecipientAddress string  `json:"recipient_address" validate:"required"`
	RecipientPincode int     `json:"recipient_pincode" validate:"required,min=100000,max=999999"`
	SenderPincode    int     `json:"sender_pincode" validate:"required,min=100000,max=999999"`
	SenderName       string  `json:"sender_name,omitempty"`
	SenderAddress    string  `json:"sender_address,omitempty"`
	WeightKg         float64 `json:"weight_kg" validate:"required,gt=0"`
	LengthCm         float64 `json:"length_cm" validate:"required,gt=0"`
	WidthCm          float64 `json:"width_cm" validate:"required,gt=0"`
	HeightCm         float64 `json:"height_cm" validate:"required,gt=0"`
	PaymentMode      string  `json:"payment_mode" validate:"required,oneof=cod prepaid"`
	OrderValue       float64 `json:"order_value" validate:"gte=0"`
	ItemType         string  `json:"item_type,omitempty"`
	SKU              string  `json:"sku,omitempty"`
	Quantity         int     `json:"quantity,omitempty"`
	Notes            string  `json:"notes,omitempty"`
}

// CompareOrdersRequest selects the orders to compare carriers for.
type CompareOrdersRequest struct {
	OrderIDs []string `json:"order_ids" validate:"required,min=1,dive,required"`
}

// BookingRequest books a set of orders with one carrier+mode.
type BookingRequest struct {
	OrderIDs        []string `json:"order_ids" validate:"required,min=1,dive,required"`
	CarrierName     string   `json:"carrier_name" validate:"required"`
	Mode            string   `json:"mode" validate:"required,oneof=Surface Air"`
	PaymentMethodID string   `json:"payment_method_id,omitempty"`
}

// BookingResult reports a completed booking.
type BookingResult struct {
	Status        string   `json:"status"`
	Message       string   `json:"message"`
	OrdersUpdated []string `json:"orders_updated"`
	TotalCost     float64  `json:"total_cost"`
	Carrier       string   `json:"carrier"`
	Mode          string   `json:"mode"`
	PaymentID     string   `json:"payment_id,omitempty"`
}

// ErrorResponse is the uniform error body returned by handlers.
type ErrorResponse struct {
	Message string `json:"message"`
}
