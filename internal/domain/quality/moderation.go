package quality

import (
	"fmt"
	"regexp"
	"strings"

	"lookbook-server-go/internal/domain/catalog/aggregate"
)

var disallowedKeywords = []string{
	"adult", "xxx", "porn", "sex toy", "erotic",
	"nude", "explicit", "escort", "dating",
}

// spamPatterns are fixed heuristics applied independently to name and
// description. The uppercase-run pattern is deliberately case-sensitive.
var spamPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(click here|buy now|act now|limited time){2,}`),
	regexp.MustCompile(`[A-Z\s]{20,}`),
	regexp.MustCompile(`(\$\$\$|!!!|###){3,}`),
	regexp.MustCompile(`(?i)(best|cheap|discount|free|guarantee){4,}`),
}

// suspiciousBrands are known dropshipping/low-quality brand labels.
var suspiciousBrands = []string{
	"no brand", "unknown", "generic", "oem",
	"china brand", "factory direct",
}

// DetectDisallowedContent matches the concatenated text fields against the
// disallowed-keyword list. The first matching keyword wins.
func DetectDisallowedContent(p *aggregate.Product) (bool, string) {
	text := strings.ToLower(strings.Join([]string{
		p.Name, p.Description, p.Category, p.Keywords,
	}, " "))

	for _, keyword := range disallowedKeywords {
		if strings.Contains(text, keyword) {
			return true, fmt.Sprintf("Contains disallowed keyword: %s", keyword)
		}
	}
	return false, ""
}

// DetectSpamSignals applies the spam heuristics to name and description and
// flags suspicious brand labels. Matches across fields are all retained.
func DetectSpamSignals(p *aggregate.Product) []string {
	var issues []string

	for _, pattern := range spamPatterns {
		if pattern.MatchString(p.Name) {
			issues = append(issues, fmt.Sprintf("Spam pattern in name: %s", pattern.String()))
		}
		if p.Description != "" && pattern.MatchString(p.Description) {
			issues = append(issues, fmt.Sprintf("Spam pattern in description: %s", pattern.String()))
		}
	}

	brand := strings.ToLower(strings.TrimSpace(p.Brand))
	for _, suspicious := range suspiciousBrands {
		if brand == suspicious {
			issues = append(issues, fmt.Sprintf("Suspicious brand: %s", brand))
			break
		}
	}

	return issues
}
