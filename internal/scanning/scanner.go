package scanning

import (
	"context"
	"fmt"
)

// ReceiptItem is a single line item extracted from a receipt.
type ReceiptItem struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// ScanResult contains the structured data extracted from a receipt image.
// The money fields are pointers so that values the model could not find
// surface as JSON null rather than zero.
type ScanResult struct {
	Items      []ReceiptItem `json:"items"`
	Subtotal   *float64      `json:"subtotal"`
	Tax        *float64      `json:"tax"`
	Total      *float64      `json:"total"`
	ScannedTip *float64      `json:"scanned_tip"`
}

// Scanner defines the interface for receipt scanning operations
type Scanner interface {
	// ScanReceipt analyzes a receipt image and extracts line items and totals
	ScanReceipt(ctx context.Context, imageData []byte, contentType string) (*ScanResult, error)
	// Close closes the scanner and releases resources
	Close() error
}

// InvalidImageError indicates the uploaded bytes are not a decodable image
// in a supported format. The upstream model is never called in this case.
type InvalidImageError struct {
	Reason error
}

func (e *InvalidImageError) Error() string {
	return fmt.Sprintf("invalid image file: %v", e.Reason)
}

func (e *InvalidImageError) Unwrap() error { return e.Reason }

// MalformedResponseError indicates the model's response was not valid JSON
// even after stripping markdown fences.
type MalformedResponseError struct {
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("failed to parse model response as JSON: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// UpstreamError wraps a transport, auth, or quota failure from the external
// vision API.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("vision API error: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
