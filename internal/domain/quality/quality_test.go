package quality

import (
	"math"
	"strings"
	"testing"

	"lookbook-server-go/internal/domain/catalog/aggregate"
)

func price(v float64) *float64 {
	return &v
}

func completeProduct() *aggregate.Product {
	return &aggregate.Product{
		ID:               "p1",
		Name:             "Wool Overcoat",
		Description:      "A heavy winter overcoat in grey wool.",
		Category:         "Coats",
		Brand:            "Aldgate & Sons",
		MerchantImageURL: "https://images.example.com/p1.jpg",
		SearchPrice:      price(129.99),
	}
}

func TestComputeTrustScore(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*aggregate.Product)
		expected float64
	}{
		{
			name:     "complete product scores full",
			mutate:   func(p *aggregate.Product) {},
			expected: 1.0,
		},
		{
			name:     "missing brand",
			mutate:   func(p *aggregate.Product) { p.Brand = "" },
			expected: 0.90,
		},
		{
			name:     "missing description",
			mutate:   func(p *aggregate.Product) { p.Description = "" },
			expected: 0.85,
		},
		{
			name:     "missing primary image",
			mutate:   func(p *aggregate.Product) { p.MerchantImageURL = "" },
			expected: 0.80,
		},
		{
			name:     "near-zero price",
			mutate:   func(p *aggregate.Product) { p.SearchPrice = price(0.005) },
			expected: 0.70,
		},
		{
			name:     "very expensive",
			mutate:   func(p *aggregate.Product) { p.SearchPrice = price(15000) },
			expected: 0.90,
		},
		{
			name:     "reviews boost",
			mutate:   func(p *aggregate.Product) { p.Reviews = 12 },
			expected: 1.0, // clamped at the upper bound
		},
		{
			name: "alternate image boost offsets missing brand",
			mutate: func(p *aggregate.Product) {
				p.Brand = ""
				p.AlternateImages = []string{"https://images.example.com/p1b.jpg"}
			},
			expected: 0.95,
		},
		{
			name: "spam signals subtract per signal",
			mutate: func(p *aggregate.Product) {
				p.Brand = "no brand" // suspicious brand is one signal, missing-brand penalty does not apply
			},
			expected: 0.90,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := completeProduct()
			tt.mutate(p)
			got := ComputeTrustScore(p)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("ComputeTrustScore() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestComputeTrustScore_Clamped(t *testing.T) {
	// Pile every penalty onto one product: score must clamp at zero.
	p := &aggregate.Product{
		ID:          "junk",
		Name:        "BUY NOWBUY NOW MEGA CLEARANCE SALE $$$!!!$$$!!!$$$!!!",
		Description: "LIMITED TIMELIMITED TIME OFFER ENDS SOON $$$!!!$$$!!!",
		Brand:       "no brand",
		SearchPrice: price(0.001),
	}

	got := ComputeTrustScore(p)
	if got < 0 || got > 1 {
		t.Fatalf("trust score %v out of [0,1]", got)
	}
	if got != 0 {
		t.Errorf("expected fully penalized product to clamp to 0, got %v", got)
	}
}

func TestDetectPriceAnomalies(t *testing.T) {
	tests := []struct {
		name         string
		search       *float64
		rrp          *float64
		wantCodes    []string
		wantSeverity []Severity
	}{
		{
			name:         "zero price is critical",
			search:       price(0),
			wantCodes:    []string{"invalid_price"},
			wantSeverity: []Severity{SeverityCritical},
		},
		{
			name:         "negative price is critical",
			search:       price(-5),
			wantCodes:    []string{"invalid_price"},
			wantSeverity: []Severity{SeverityCritical},
		},
		{
			name:         "suspiciously low",
			search:       price(0.05),
			wantCodes:    []string{"suspiciously_low"},
			wantSeverity: []Severity{SeverityWarning},
		},
		{
			name:         "suspiciously high",
			search:       price(60000),
			wantCodes:    []string{"suspiciously_high"},
			wantSeverity: []Severity{SeverityWarning},
		},
		{
			name:         "search price exceeds rrp beyond tolerance",
			search:       price(120),
			rrp:          price(100),
			wantCodes:    []string{"search_price_exceeds_rrp"},
			wantSeverity: []Severity{SeverityWarning},
		},
		{
			name:      "within rrp tolerance",
			search:    price(105),
			rrp:       price(100),
			wantCodes: nil,
		},
		{
			name:         "unrealistic discount",
			search:       price(40),
			rrp:          price(1000),
			wantCodes:    []string{"unrealistic_discount"},
			wantSeverity: []Severity{SeverityWarning},
		},
		{
			name:      "large but realistic discount",
			search:    price(100),
			rrp:       price(1000),
			wantCodes: nil,
		},
		{
			name:      "absent prices raise nothing",
			wantCodes: nil,
		},
		{
			name:      "zero rrp never divides",
			search:    price(10),
			rrp:       price(0),
			wantCodes: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &aggregate.Product{ID: "p1", SearchPrice: tt.search, RRPPrice: tt.rrp}
			issues := DetectPriceAnomalies(p)

			if len(issues) != len(tt.wantCodes) {
				t.Fatalf("got %d issues %v, expected %d", len(issues), issues, len(tt.wantCodes))
			}
			for i, code := range tt.wantCodes {
				if issues[i].Code != code {
					t.Errorf("issue %d code = %s, expected %s", i, issues[i].Code, code)
				}
				if issues[i].Severity != tt.wantSeverity[i] {
					t.Errorf("issue %d severity = %s, expected %s", i, issues[i].Severity, tt.wantSeverity[i])
				}
			}
		})
	}
}

func TestDetectDisallowedContent(t *testing.T) {
	tests := []struct {
		name       string
		product    *aggregate.Product
		flagged    bool
		reasonPart string
	}{
		{
			name:    "clean product",
			product: completeProduct(),
			flagged: false,
		},
		{
			name: "keyword in description",
			product: &aggregate.Product{
				Name:        "Massage Oil",
				Description: "An EROTIC massage oil gift set",
			},
			flagged:    true,
			reasonPart: "erotic",
		},
		{
			name: "first keyword wins",
			product: &aggregate.Product{
				Name: "adult xxx bundle",
			},
			flagged:    true,
			reasonPart: "adult",
		},
		{
			name: "keyword in category",
			product: &aggregate.Product{
				Name:     "Gift Voucher",
				Category: "Dating Services",
			},
			flagged:    true,
			reasonPart: "dating",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flagged, reason := DetectDisallowedContent(tt.product)
			if flagged != tt.flagged {
				t.Fatalf("flagged = %v, expected %v (reason %q)", flagged, tt.flagged, reason)
			}
			if tt.flagged && !strings.Contains(reason, tt.reasonPart) {
				t.Errorf("reason %q does not name keyword %q", reason, tt.reasonPart)
			}
		})
	}
}

func TestDetectSpamSignals(t *testing.T) {
	t.Run("clean product has no signals", func(t *testing.T) {
		if signals := DetectSpamSignals(completeProduct()); len(signals) != 0 {
			t.Errorf("expected no spam signals, got %v", signals)
		}
	})

	t.Run("same pattern in both fields counts twice", func(t *testing.T) {
		p := &aggregate.Product{
			Name:        "buy nowbuy now special",
			Description: "BUY NOWBUY NOW while stocks last",
		}
		signals := DetectSpamSignals(p)
		var urgency int
		for _, s := range signals {
			if strings.Contains(s, "click here|buy now") {
				urgency++
			}
		}
		if urgency != 2 {
			t.Errorf("expected urgency pattern flagged for name and description, got %v", signals)
		}
	})

	t.Run("suspicious brand exact match after trimming", func(t *testing.T) {
		p := &aggregate.Product{Name: "Plain Tee", Brand: "  Factory Direct "}
		signals := DetectSpamSignals(p)
		if len(signals) != 1 || !strings.Contains(signals[0], "factory direct") {
			t.Errorf("expected suspicious brand signal, got %v", signals)
		}
	})

	t.Run("brand substring is not enough", func(t *testing.T) {
		p := &aggregate.Product{Name: "Plain Tee", Brand: "Unknown Pleasures Ltd"}
		if signals := DetectSpamSignals(p); len(signals) != 0 {
			t.Errorf("expected exact-match brand check, got %v", signals)
		}
	})
}

func TestCheckImageURLs(t *testing.T) {
	tests := []struct {
		name      string
		product   *aggregate.Product
		wantCodes []string
	}{
		{
			name:      "clean urls",
			product:   completeProduct(),
			wantCodes: nil,
		},
		{
			name: "placeholder url is info",
			product: &aggregate.Product{
				MerchantImageURL: "https://cdn.example.com/no-image.png",
			},
			wantCodes: []string{"placeholder_image"},
		},
		{
			name: "unreliable host is warning",
			product: &aggregate.Product{
				LargeImageURL: "https://www.dropbox.com/s/abc/shirt.jpg",
			},
			wantCodes: []string{"suspicious_image_host"},
		},
		{
			name:      "no images at all",
			product:   &aggregate.Product{ID: "p1"},
			wantCodes: []string{"no_images"},
		},
		{
			name: "alternate image checked too",
			product: &aggregate.Product{
				MerchantImageURL: "https://images.example.com/ok.jpg",
				AlternateImages:  []string{"https://images.example.com/coming-soon.jpg"},
			},
			wantCodes: []string{"placeholder_image"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := CheckImageURLs(tt.product)
			if len(issues) != len(tt.wantCodes) {
				t.Fatalf("got %d issues %v, expected %d", len(issues), issues, len(tt.wantCodes))
			}
			for i, code := range tt.wantCodes {
				if issues[i].Code != code {
					t.Errorf("issue %d code = %s, expected %s", i, issues[i].Code, code)
				}
			}
		})
	}
}

func TestAssessProduct(t *testing.T) {
	p := &aggregate.Product{
		ID:          "p9",
		Name:        "adult novelty mug",
		Description: "",
		SearchPrice: price(0.05),
	}

	a := AssessProduct(p)

	if !a.Disallowed {
		t.Error("expected product to be flagged as disallowed")
	}
	if a.TrustScore < 0 || a.TrustScore > 1 {
		t.Errorf("trust score %v out of [0,1]", a.TrustScore)
	}

	var hasLow, hasNoImages bool
	for _, issue := range a.Issues {
		switch issue.Code {
		case "suspiciously_low":
			hasLow = true
		case "no_images":
			hasNoImages = true
		}
	}
	if !hasLow || !hasNoImages {
		t.Errorf("expected suspiciously_low and no_images issues, got %v", a.Issues)
	}
}
