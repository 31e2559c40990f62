package aggregate

import (
	"time"
)

// ValidationStatus is the single source of truth for image eligibility filtering.
type ValidationStatus string

const (
	ValidationPending        ValidationStatus = "pending"
	ValidationValid          ValidationStatus = "valid"
	ValidationInvalidURL     ValidationStatus = "invalid_url"
	ValidationInvalidContent ValidationStatus = "invalid_content"
	ValidationUnreachable    ValidationStatus = "unreachable"
)

// FailedStatuses lists the statuses eligible for revalidation after a cooldown.
func FailedStatuses() []ValidationStatus {
	return []ValidationStatus{ValidationInvalidURL, ValidationInvalidContent, ValidationUnreachable}
}

// Dimensions holds the decoded pixel size of a validated image.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ImageValidation is the per-product validation record. The two boolean fields
// are denormalized projections of Status and must stay consistent with it.
type ImageValidation struct {
	URLReachable     bool
	ContentValidated bool
	Status           ValidationStatus
	Error            string
	ValidatedAt      *time.Time
	Dimensions       *Dimensions
}

// ValidResult builds the record for a successful deep check.
func ValidResult(dims Dimensions, at time.Time) ImageValidation {
	return ImageValidation{
		ContentValidated: true,
		Status:           ValidationValid,
		ValidatedAt:      &at,
		Dimensions:       &dims,
	}
}

// InvalidContentResult builds the record for a failed deep check. The message
// is truncated to the stored bound.
func InvalidContentResult(message string, at time.Time) ImageValidation {
	return ImageValidation{
		ContentValidated: false,
		Status:           ValidationInvalidContent,
		Error:            Truncate(message, MaxStoredErrorLen),
		ValidatedAt:      &at,
	}
}

const (
	// MaxStoredErrorLen bounds error messages persisted to the store.
	MaxStoredErrorLen = 500
)

// Truncate bounds a message to at most n bytes.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// Product is the catalog snapshot the pipeline operates on. Optional numeric
// and timestamp fields are pointers; optional text fields use the empty string
// as absent.
type Product struct {
	ID                string
	Name              string
	Description       string
	Category          string
	Brand             string
	Keywords          string
	MerchantImageURL  string
	SecondaryImageURL string
	LargeImageURL     string
	AlternateImages   []string
	SearchPrice       *float64
	RRPPrice          *float64
	StorePrice        *float64
	Reviews           int
	IsActive          bool
	IsDuplicate       bool
	Validation        ImageValidation
}

// PrimaryImageURL returns the first populated URL in preference order.
func (p *Product) PrimaryImageURL() string {
	switch {
	case p.MerchantImageURL != "":
		return p.MerchantImageURL
	case p.SecondaryImageURL != "":
		return p.SecondaryImageURL
	case p.LargeImageURL != "":
		return p.LargeImageURL
	}
	return ""
}

// HasImageURL reports whether any of the candidate image fields is populated.
func (p *Product) HasImageURL() bool {
	return p.PrimaryImageURL() != ""
}
