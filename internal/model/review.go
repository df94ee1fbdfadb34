package model

import "time"

type Review struct {
	ID        string    `json:"id"`
	ProductID string    `json:"productId"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName,omitempty"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ReviewStats is the per-product aggregate shown on detail pages.
type ReviewStats struct {
	ProductID string      `json:"productId"`
	Average   float64     `json:"average"`
	Count     int         `json:"count"`
	Histogram map[int]int `json:"histogram"`
}
