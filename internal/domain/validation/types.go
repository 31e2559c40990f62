package validation

import (
	"context"
	"time"

	"lookbook-server-go/internal/domain/imagecheck"
)

// Run statuses. Error is reserved for setup failures; item-level faults are
// counted, never fatal.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Params selects and sizes one validation run. An explicit ProductIDs list is
// processed in full; otherwise selection is capped at BatchSize.
type Params struct {
	ProductIDs      []string
	BatchSize       int
	ForceRevalidate bool
}

// Result summarizes a completed run. Processed counts every candidate touched,
// including items skipped for having no image URL.
type Result struct {
	Status    string    `json:"status"`
	Processed int       `json:"processed"`
	Valid     int       `json:"valid"`
	Invalid   int       `json:"invalid"`
	Errors    int       `json:"errors"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// RevalidateParams sizes one revalidation pass. Zero values fall back to the
// configured policy defaults.
type RevalidateParams struct {
	DaysOld   int
	BatchSize int
}

// Progress is an advisory telemetry snapshot emitted during a run.
type Progress struct {
	Current int    `json:"current"`
	Total   int    `json:"total"`
	Valid   int    `json:"valid"`
	Invalid int    `json:"invalid"`
	Status  string `json:"status"`
}

// ProgressSink receives progress snapshots. A nil sink is valid and means no
// reporting; sink failures never affect the run.
type ProgressSink interface {
	Publish(p Progress)
}

// ImageChecker is the slice of the image verification engine the orchestrator
// drives.
type ImageChecker interface {
	CheckReachability(ctx context.Context, url string) imagecheck.CheckResult
	CheckIntegrity(ctx context.Context, url string) imagecheck.CheckResult
}
