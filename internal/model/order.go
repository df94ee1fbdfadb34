package model

import "time"

const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

type Order struct {
	ID              string      `json:"id"`
	UserID          string      `json:"userId"`
	Status          string      `json:"status"`
	Total           int64       `json:"total"`
	ShippingAddress string      `json:"shippingAddress"`
	PaymentMethod   string      `json:"paymentMethod"`
	Items           []OrderItem `json:"items,omitempty"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

// OrderItem snapshots the product price at checkout time so later catalog
// edits do not rewrite order history.
type OrderItem struct {
	ID          string `json:"id"`
	OrderID     string `json:"orderId"`
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	UnitPrice   int64  `json:"unitPrice"`
	Quantity    int    `json:"quantity"`
}

func ValidOrderStatus(status string) bool {
	switch status {
	case OrderStatusPending, OrderStatusPaid, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// StatusTransitionAllowed encodes the forward-only order lifecycle.
// Cancellation is allowed from any non-terminal state.
func StatusTransitionAllowed(from string, to string) bool {
	if from == to {
		return false
	}
	if to == OrderStatusCancelled {
		return from != OrderStatusDelivered && from != OrderStatusCancelled
	}

	order := map[string]int{
		OrderStatusPending:   0,
		OrderStatusPaid:      1,
		OrderStatusShipped:   2,
		OrderStatusDelivered: 3,
	}

	fromRank, fromOK := order[from]
	toRank, toOK := order[to]
	return fromOK && toOK && toRank == fromRank+1
}
