package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"lookbook-server-go/internal/domain/catalog/aggregate"
	"lookbook-server-go/internal/domain/catalog/repository"
	"lookbook-server-go/internal/platform/config"
)

func openTestRepo(t *testing.T) *productRepository {
	t.Helper()

	db, err := Open(config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:"})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	return &productRepository{db: db}
}

func seedProduct(t *testing.T, r *productRepository, p *aggregate.Product) {
	t.Helper()
	if err := r.Save(context.Background(), p); err != nil {
		t.Fatalf("seed product %s: %v", p.ID, err)
	}
}

func pendingProduct(id string) *aggregate.Product {
	return &aggregate.Product{
		ID:               id,
		Name:             "Product " + id,
		MerchantImageURL: "https://images.example.com/" + id + ".jpg",
		IsActive:         true,
		Validation:       aggregate.ImageValidation{Status: aggregate.ValidationPending},
	}
}

func TestFindCandidates_DefaultSelection(t *testing.T) {
	r := openTestRepo(t)
	ctx := context.Background()

	seedProduct(t, r, pendingProduct("eligible"))

	noImage := pendingProduct("no-image")
	noImage.MerchantImageURL = ""
	seedProduct(t, r, noImage)

	validated := pendingProduct("validated")
	validated.Validation.Status = aggregate.ValidationValid
	seedProduct(t, r, validated)

	inactive := pendingProduct("inactive")
	inactive.IsActive = false
	seedProduct(t, r, inactive)

	duplicate := pendingProduct("duplicate")
	duplicate.IsDuplicate = true
	seedProduct(t, r, duplicate)

	got, err := r.FindCandidates(ctx, repository.CandidateFilter{Limit: 50})
	if err != nil {
		t.Fatalf("FindCandidates failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != "eligible" {
		ids := make([]string, len(got))
		for i, p := range got {
			ids[i] = p.ID
		}
		t.Errorf("selected %v, expected only the pending active product with an image", ids)
	}
}

func TestFindCandidates_ForceIgnoresStatus(t *testing.T) {
	r := openTestRepo(t)
	ctx := context.Background()

	seedProduct(t, r, pendingProduct("a"))
	validated := pendingProduct("b")
	validated.Validation.Status = aggregate.ValidationValid
	seedProduct(t, r, validated)
	inactive := pendingProduct("c")
	inactive.IsActive = false
	seedProduct(t, r, inactive)

	got, err := r.FindCandidates(ctx, repository.CandidateFilter{Force: true, Limit: 50})
	if err != nil {
		t.Fatalf("FindCandidates failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("force selected %d products, expected 2 (inactive stays excluded)", len(got))
	}
}

func TestFindCandidates_ExplicitIDs(t *testing.T) {
	r := openTestRepo(t)
	ctx := context.Background()

	validated := pendingProduct("x")
	validated.Validation.Status = aggregate.ValidationValid
	seedProduct(t, r, validated)
	seedProduct(t, r, pendingProduct("y"))
	inactive := pendingProduct("z")
	inactive.IsActive = false
	seedProduct(t, r, inactive)

	// An explicit list resolves regardless of status, active only, and is
	// not capped by the page size.
	got, err := r.FindCandidates(ctx, repository.CandidateFilter{IDs: []string{"x", "y", "z"}, Limit: 1})
	if err != nil {
		t.Fatalf("FindCandidates failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("selected %d products, expected 2", len(got))
	}
	if got[0].ID != "x" || got[1].ID != "y" {
		t.Errorf("selected %s, %s; expected x, y in id order", got[0].ID, got[1].ID)
	}
}

func TestFindCandidates_Limit(t *testing.T) {
	r := openTestRepo(t)
	ctx := context.Background()

	for _, id := range []string{"p1", "p2", "p3"} {
		seedProduct(t, r, pendingProduct(id))
	}

	got, err := r.FindCandidates(ctx, repository.CandidateFilter{Limit: 2})
	if err != nil {
		t.Fatalf("FindCandidates failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("selected %d products, expected page of 2", len(got))
	}
}

func TestUpdateImageValidation(t *testing.T) {
	r := openTestRepo(t)
	ctx := context.Background()

	seedProduct(t, r, pendingProduct("p1"))

	now := time.Now().UTC().Truncate(time.Second)
	record := aggregate.ValidResult(aggregate.Dimensions{Width: 640, Height: 480}, now)
	if err := r.UpdateImageValidation(ctx, "p1", record); err != nil {
		t.Fatalf("UpdateImageValidation failed: %v", err)
	}

	got := reload(t, r, "p1")
	if got.Validation.Status != aggregate.ValidationValid {
		t.Errorf("status = %s, expected valid", got.Validation.Status)
	}
	if !got.Validation.ContentValidated {
		t.Error("content_validated not set")
	}
	if got.Validation.Error != "" {
		t.Errorf("error = %q, expected cleared", got.Validation.Error)
	}
	if got.Validation.Dimensions == nil || got.Validation.Dimensions.Width != 640 || got.Validation.Dimensions.Height != 480 {
		t.Errorf("dimensions = %+v, expected 640x480", got.Validation.Dimensions)
	}
	if got.Validation.ValidatedAt == nil {
		t.Error("validated_at not set")
	}
}

func TestUpdateImageValidation_TruncatesError(t *testing.T) {
	r := openTestRepo(t)
	ctx := context.Background()

	seedProduct(t, r, pendingProduct("p1"))

	longMsg := strings.Repeat("e", 600)
	record := aggregate.InvalidContentResult(longMsg, time.Now().UTC())
	if err := r.UpdateImageValidation(ctx, "p1", record); err != nil {
		t.Fatalf("UpdateImageValidation failed: %v", err)
	}

	got := reload(t, r, "p1")
	if got.Validation.Status != aggregate.ValidationInvalidContent {
		t.Errorf("status = %s, expected invalid_content", got.Validation.Status)
	}
	if len(got.Validation.Error) != aggregate.MaxStoredErrorLen {
		t.Errorf("stored error length = %d, expected %d", len(got.Validation.Error), aggregate.MaxStoredErrorLen)
	}
}

func TestUpdateImageValidation_NotFound(t *testing.T) {
	r := openTestRepo(t)

	err := r.UpdateImageValidation(context.Background(), "ghost", aggregate.InvalidContentResult("x", time.Now()))
	if err == nil {
		t.Fatal("expected update of missing product to fail")
	}
}

func TestUpdateURLReachability_KeepsContentFields(t *testing.T) {
	r := openTestRepo(t)
	ctx := context.Background()

	seedProduct(t, r, pendingProduct("p1"))

	now := time.Now().UTC()
	if err := r.UpdateImageValidation(ctx, "p1", aggregate.ValidResult(aggregate.Dimensions{Width: 300, Height: 300}, now)); err != nil {
		t.Fatalf("UpdateImageValidation failed: %v", err)
	}
	if err := r.UpdateURLReachability(ctx, "p1", true, aggregate.ValidationValid, "", now); err != nil {
		t.Fatalf("UpdateURLReachability failed: %v", err)
	}

	got := reload(t, r, "p1")
	if !got.Validation.URLReachable {
		t.Error("url_validated not set by probe update")
	}
	if !got.Validation.ContentValidated {
		t.Error("probe update must not clear content_validated")
	}
	if got.Validation.Dimensions == nil {
		t.Error("probe update must not clear dimensions")
	}
}

func TestFindFailedBefore(t *testing.T) {
	r := openTestRepo(t)
	ctx := context.Background()

	now := time.Now().UTC()
	seed := func(id string, status aggregate.ValidationStatus, age time.Duration, active bool) {
		p := pendingProduct(id)
		p.IsActive = active
		at := now.Add(-age)
		p.Validation = aggregate.ImageValidation{Status: status, ValidatedAt: &at}
		seedProduct(t, r, p)
	}

	seed("stale-unreachable", aggregate.ValidationUnreachable, 8*24*time.Hour, true)
	seed("stale-content", aggregate.ValidationInvalidContent, 9*24*time.Hour, true)
	seed("fresh-unreachable", aggregate.ValidationUnreachable, 6*24*time.Hour, true)
	seed("stale-valid", aggregate.ValidationValid, 10*24*time.Hour, true)
	seed("stale-inactive", aggregate.ValidationInvalidURL, 9*24*time.Hour, false)

	cutoff := now.AddDate(0, 0, -7)
	ids, err := r.FindFailedBefore(ctx, cutoff, 100)
	if err != nil {
		t.Fatalf("FindFailedBefore failed: %v", err)
	}

	// Oldest first.
	want := []string{"stale-content", "stale-unreachable"}
	if len(ids) != len(want) {
		t.Fatalf("selected %v, expected %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids[%d] = %s, expected %s", i, ids[i], want[i])
		}
	}
}

func reload(t *testing.T, r *productRepository, id string) *aggregate.Product {
	t.Helper()

	var model Product
	if err := r.db.Where("id = ?", id).First(&model).Error; err != nil {
		t.Fatalf("reload %s: %v", id, err)
	}
	return r.fromModel(&model)
}
