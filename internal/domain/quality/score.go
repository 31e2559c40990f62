package quality

import "lookbook-server-go/internal/domain/catalog/aggregate"

// Fixed trust-score penalties and boosts. These are deliberate constants, not
// tunables: downstream eligibility thresholds depend on exact values.
const (
	penaltyMissingBrand       = 0.10
	penaltyMissingDescription = 0.15
	penaltyMissingImage       = 0.20
	penaltyPriceTooCheap      = 0.30
	penaltyPriceVeryHigh      = 0.10
	penaltyPerSpamSignal      = 0.10
	boostHasReviews           = 0.10
	boostMultipleImages       = 0.05
)

// ComputeTrustScore returns a heuristic confidence value in [0,1] for a
// product snapshot. Higher means more trustworthy.
func ComputeTrustScore(p *aggregate.Product) float64 {
	score := 1.0

	if p.Brand == "" {
		score -= penaltyMissingBrand
	}
	if p.Description == "" {
		score -= penaltyMissingDescription
	}
	if p.MerchantImageURL == "" {
		score -= penaltyMissingImage
	}

	if p.SearchPrice != nil {
		if *p.SearchPrice < 0.01 {
			score -= penaltyPriceTooCheap
		} else if *p.SearchPrice > 10000 {
			score -= penaltyPriceVeryHigh
		}
	}

	if p.Reviews > 0 {
		score += boostHasReviews
	}
	if len(p.AlternateImages) > 0 {
		score += boostMultipleImages
	}

	score -= float64(len(DetectSpamSignals(p))) * penaltyPerSpamSignal

	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
