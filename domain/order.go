package domain

import "time"

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

var OrderStatuses = []OrderStatus{StatusPending, StatusConfirmed, StatusDelivered, StatusCancelled}

func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

func (s OrderStatus) String() string {
	return string(s)
}

type DeliveryMethod string

const (
	DeliveryHome   DeliveryMethod = "home"
	DeliveryOffice DeliveryMethod = "office"
)

func (m DeliveryMethod) Valid() bool {
	return m == DeliveryHome || m == DeliveryOffice
}

type Order struct {
	ID             string         `json:"id"`
	FullName       string         `json:"full_name"`
	Phone          string         `json:"phone"`
	Region         string         `json:"region"`
	SubRegion      string         `json:"sub_region"`
	DeliveryMethod DeliveryMethod `json:"delivery_method"`
	Items          []CartItem     `json:"items"`
	Subtotal       float64        `json:"subtotal"`
	DeliveryFee    float64        `json:"delivery_fee"`
	Total          float64        `json:"total"`
	Status         OrderStatus    `json:"status"`
	CreatedAt      time.Time      `json:"created_at"`
}

// OrderInput carries everything a checkout supplies. Totals are computed by
// the caller and frozen into the order as given.
type OrderInput struct {
	FullName       string
	Phone          string
	Region         string
	SubRegion      string
	DeliveryMethod DeliveryMethod
	Items          []CartItem
	Subtotal       float64
	DeliveryFee    float64
	Total          float64
}
