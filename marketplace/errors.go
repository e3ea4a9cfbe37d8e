package marketplace

import "errors"

var (
	// ErrNoMatch means the inventory held no car to recommend.
	ErrNoMatch = errors.New("no suitable cars found for your requirements")

	ErrRequirementNotFound = errors.New("requirement not found")
	ErrQuotationNotFound   = errors.New("quotation not found")

	// ErrInvalidBatch rejects an empty batch of requirement IDs.
	ErrInvalidBatch = errors.New("valid array of requirement IDs is required")
)
