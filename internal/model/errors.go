package model

import "errors"

// Domain sentinels raised below the service layer, where building a full
// API error would couple storage code to HTTP concerns.
var (
	ErrReviewExists      = errors.New("review already exists for this product")
	ErrInsufficientStock = errors.New("insufficient stock")
)
