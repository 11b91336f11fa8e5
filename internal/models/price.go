package models

import "time"

// PricePoint is a single (timestamp, price) observation from the provider
type PricePoint struct {
	Timestamp time.Time `json:"timestamp"`
	Price     float64   `json:"price"`
}

// PriceResponse is the success body of the price endpoints
type PriceResponse struct {
	Price float64 `json:"price"`
}

// ErrorResponse is the JSON error envelope. Status carries the provider
// status code when the failure came from upstream.
type ErrorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status,omitempty"`
}
