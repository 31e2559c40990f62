package quality

import "lookbook-server-go/internal/domain/catalog/aggregate"

// Severity grades a quality issue.
type Severity string

const (
	SeverityCritical Severity = "critical" // product should be rejected
	SeverityWarning  Severity = "warning"  // product can be used but has issues
	SeverityInfo     Severity = "info"     // minor, informational only
)

// Issue describes a single quality finding on a product field.
type Issue struct {
	Field    string   `json:"field"`
	Code     string   `json:"issue"`
	Value    string   `json:"value,omitempty"`
	Severity Severity `json:"severity"`
}

// Assessment is the transient quality report for one product snapshot.
// It is computed on demand and never persisted by this layer.
type Assessment struct {
	TrustScore       float64  `json:"trust_score"`
	Disallowed       bool     `json:"disallowed"`
	DisallowedReason string   `json:"disallowed_reason,omitempty"`
	SpamSignals      []string `json:"spam_signals,omitempty"`
	Issues           []Issue  `json:"issues,omitempty"`
}

// AssessProduct runs every scoring check against one product snapshot.
func AssessProduct(p *aggregate.Product) Assessment {
	flagged, reason := DetectDisallowedContent(p)

	issues := DetectPriceAnomalies(p)
	issues = append(issues, CheckImageURLs(p)...)

	return Assessment{
		TrustScore:       ComputeTrustScore(p),
		Disallowed:       flagged,
		DisallowedReason: reason,
		SpamSignals:      DetectSpamSignals(p),
		Issues:           issues,
	}
}
