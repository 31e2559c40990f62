package quality

import (
	"fmt"
	"strconv"

	"lookbook-server-go/internal/domain/catalog/aggregate"
)

// DetectPriceAnomalies flags pricing issues on a product snapshot. A fully
// absent price field raises no issue.
func DetectPriceAnomalies(p *aggregate.Product) []Issue {
	var issues []Issue

	if p.SearchPrice != nil {
		price := *p.SearchPrice
		switch {
		case price <= 0:
			issues = append(issues, Issue{
				Field:    "search_price",
				Code:     "invalid_price",
				Value:    formatPrice(price),
				Severity: SeverityCritical,
			})
		case price < 0.10:
			issues = append(issues, Issue{
				Field:    "search_price",
				Code:     "suspiciously_low",
				Value:    formatPrice(price),
				Severity: SeverityWarning,
			})
		case price > 50000:
			issues = append(issues, Issue{
				Field:    "search_price",
				Code:     "suspiciously_high",
				Value:    formatPrice(price),
				Severity: SeverityWarning,
			})
		}
	}

	// A zero RRP means the feed did not provide one; both relative checks
	// need a real reference price.
	if p.RRPPrice != nil && p.SearchPrice != nil && *p.RRPPrice > 0 {
		rrp := *p.RRPPrice
		price := *p.SearchPrice

		// 10% tolerance before a sale price counts as exceeding the RRP.
		if price > rrp*1.1 {
			issues = append(issues, Issue{
				Field:    "pricing",
				Code:     "search_price_exceeds_rrp",
				Severity: SeverityWarning,
			})
		}

		discountPct := (rrp - price) / rrp * 100
		if discountPct > 95 {
			issues = append(issues, Issue{
				Field:    "pricing",
				Code:     "unrealistic_discount",
				Value:    fmt.Sprintf("%.1f%%", discountPct),
				Severity: SeverityWarning,
			})
		}
	}

	return issues
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
