package model

import "time"

type Product struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	Price        int64     `json:"price"`
	Stock        int       `json:"stock"`
	ImageURL     string    `json:"imageUrl,omitempty"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
	Rating       float64   `json:"rating"`
	ReviewCount  int       `json:"reviewCount"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ProductFilter narrows and orders catalog listings.
type ProductFilter struct {
	Search   string
	Category string
	Sort     string
	Page     int
	Limit    int
}
