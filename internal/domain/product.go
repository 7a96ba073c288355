package domain

import "time"

// Product is the domain model for catalog entries.
type Product struct {
	ID          string
	SKU         string
	Name        string
	Description string
	PriceCents  int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
