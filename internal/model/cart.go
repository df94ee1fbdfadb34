package model

import "time"

type CartItem struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	ProductID    string    `json:"productId"`
	ProductName  string    `json:"productName,omitempty"`
	UnitPrice    int64     `json:"unitPrice,omitempty"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
	Quantity     int       `json:"quantity"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
