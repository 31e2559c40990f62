package quality

import (
	"fmt"
	"strings"

	"lookbook-server-go/internal/domain/catalog/aggregate"
)

var placeholderTokens = []string{
	"no-image", "noimage", "placeholder", "coming-soon",
	"default", "blank",
}

var unreliableImageHosts = []string{
	"dropbox.com", "drive.google.com", "temporary",
}

// CheckImageURLs runs cheap heuristics against every image-URL field without
// any network access.
func CheckImageURLs(p *aggregate.Product) []Issue {
	var issues []Issue

	fields := []struct {
		name string
		url  string
	}{
		{"merchant_image_url", p.MerchantImageURL},
		{"aw_image_url", p.SecondaryImageURL},
		{"large_image", p.LargeImageURL},
	}
	for i, alt := range p.AlternateImages {
		fields = append(fields, struct {
			name string
			url  string
		}{fmt.Sprintf("alternate_image_%d", i+1), alt})
	}

	hasAnyImage := false
	for _, field := range fields {
		if field.url == "" {
			continue
		}
		hasAnyImage = true
		lower := strings.ToLower(field.url)

		for _, token := range placeholderTokens {
			if strings.Contains(lower, token) {
				issues = append(issues, Issue{
					Field:    field.name,
					Code:     "placeholder_image",
					Severity: SeverityInfo,
				})
				break
			}
		}

		for _, host := range unreliableImageHosts {
			if strings.Contains(lower, host) {
				issues = append(issues, Issue{
					Field:    field.name,
					Code:     "suspicious_image_host",
					Severity: SeverityWarning,
				})
				break
			}
		}
	}

	if !hasAnyImage {
		issues = append(issues, Issue{
			Field:    "images",
			Code:     "no_images",
			Severity: SeverityWarning,
		})
	}

	return issues
}
