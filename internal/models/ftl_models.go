package models

import "time"

// FTLRateRequest asks for a full-truck-load price on a fixed route.
type FTLRateRequest struct {
	SourceCity      string `json:"source_city" validate:"required"`
	DestinationCity string `json:"destination_city" validate:"required"`
	ContainerType   string `json:"container_type" validate:"required"`
}

// FTLPrice is the component breakdown of an FTL quote.
type FTLPrice struct {
	SourceCity          string  `json:"source_city"`
	DestinationCity     string  `json:"destination_city"`
	ContainerType       string  `json:"container_type"`
	BasePrice           float64 `json:"base_price"`
	EscalationAmount    float64 `json:"escalation_amount"`
	PriceWithEscalation float64 `json:"price_with_escalation"`
	GSTAmount           float64 `json:"gst_amount"`
	TotalPrice          float64 `json:"total_price"`
}

// FTLOrder is a booked full-truck-load movement.
type FTLOrder struct {
	ID              string    `json:"id"`
	OrderNumber     string    `json:"order_number"`
	SourceCity      string    `json:"source_city"`
	DestinationCity string    `json:"destination_city"`
	ContainerType   string    `json:"container_type"`
	ContactName     string    `json:"contact_name"`
	ContactPhone    string    `json:"contact_phone"`
	PickupAddress   string    `json:"pickup_address"`
	TotalCost       float64   `json:"total_cost"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CreateFTLOrderRequest books a truck on a route.
type CreateFTLOrderRequest struct {
	SourceCity      string `json:"source_city" validate:"required"`
	DestinationCity string `json:"destination_city" validate:"required"`
	ContainerType   string `json:"container_type" validate:"required"`
	ContactName     string `json:"contact_name" validate:"required"`
	ContactPhone    string `json:"contact_phone" validate:"required"`
	PickupAddress   string `json:"pickup_address" validate:"required"`
}
