package validation

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"lookbook-server-go/internal/domain/catalog/aggregate"
	"lookbook-server-go/internal/domain/catalog/repository"
	"lookbook-server-go/internal/domain/imagecheck"
	"lookbook-server-go/internal/platform/config"
	"lookbook-server-go/internal/platform/logging"
)

// Orchestrator drives the batch validation pipeline: candidate selection,
// per-item deep checks with independent commits, and aggregate reporting.
// Item processing is strictly sequential within a run.
type Orchestrator struct {
	repo    repository.ProductRepository
	checker ImageChecker
	cfg     config.PipelineConfig
	logger  *logging.Logger
	sink    ProgressSink
}

func NewOrchestrator(repo repository.ProductRepository, checker ImageChecker, cfg config.PipelineConfig, logger *logging.Logger, sink ProgressSink) *Orchestrator {
	return &Orchestrator{
		repo:    repo,
		checker: checker,
		cfg:     cfg,
		logger:  logger,
		sink:    sink,
	}
}

type itemOutcome int

const (
	outcomeValid itemOutcome = iota
	outcomeInvalid
	outcomeSkipped
	outcomeError
)

// RunValidation executes one batch run. Setup failures return status "error";
// per-item faults are counted in Errors and never abort the run. Cancellation
// stops candidate intake after the in-flight item commits.
func (o *Orchestrator) RunValidation(ctx context.Context, params Params) Result {
	batchSize := params.BatchSize
	if batchSize <= 0 {
		batchSize = o.cfg.BatchSize
	}

	candidates, err := o.repo.FindCandidates(ctx, repository.CandidateFilter{
		IDs:   params.ProductIDs,
		Force: params.ForceRevalidate,
		Limit: batchSize,
	})
	if err != nil {
		o.logger.Error("validation run setup failed: %v", err)
		return Result{
			Status:    StatusError,
			Message:   aggregate.Truncate(err.Error(), aggregate.MaxStoredErrorLen),
			Timestamp: time.Now().UTC(),
		}
	}

	result := Result{Status: StatusSuccess}
	if len(candidates) == 0 {
		o.logger.Info("validation run: no candidates")
		result.Timestamp = time.Now().UTC()
		return result
	}

	o.logger.Info("validation run started: candidates=%d force=%v", len(candidates), params.ForceRevalidate)

	total := len(candidates)
	for _, p := range candidates {
		if ctx.Err() != nil {
			o.logger.Warn("validation run cancelled: processed=%d of %d", result.Processed, total)
			break
		}

		switch o.validateOne(ctx, p) {
		case outcomeValid:
			result.Valid++
		case outcomeInvalid:
			result.Invalid++
		case outcomeError:
			result.Errors++
		case outcomeSkipped:
			// counted as processed only
		}
		result.Processed++

		o.reportProgress(result.Processed, total, result.Valid, result.Invalid)
	}

	result.Timestamp = time.Now().UTC()
	o.logger.Info("validation run finished: processed=%d valid=%d invalid=%d errors=%d",
		result.Processed, result.Valid, result.Invalid, result.Errors)
	return result
}

// validateOne runs the deep check for one product and commits the outcome.
// Faults are contained here so one bad item cannot take down the batch.
func (o *Orchestrator) validateOne(ctx context.Context, p *aggregate.Product) (outcome itemOutcome) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("validation fault: product=%s cause=%v", p.ID, r)
			outcome = outcomeError
		}
	}()

	url := p.PrimaryImageURL()
	if url == "" {
		o.logger.Debug("validation skip: product=%s has no image url", p.ID)
		return outcomeSkipped
	}

	res := o.checker.CheckIntegrity(ctx, url)
	now := time.Now().UTC()

	var record aggregate.ImageValidation
	if res.Valid {
		record = aggregate.ValidResult(aggregate.Dimensions{
			Width:  res.Meta.Width,
			Height: res.Meta.Height,
		}, now)
	} else {
		record = aggregate.InvalidContentResult(res.Message, now)
	}

	// The commit is detached from run cancellation so an in-flight item
	// always lands whole; partial/torn item state is never persisted.
	if err := o.repo.UpdateImageValidation(context.WithoutCancel(ctx), p.ID, record); err != nil {
		o.logger.Error("validation commit failed: product=%s err=%v", p.ID, err)
		return outcomeError
	}

	if res.Valid {
		return outcomeValid
	}
	o.logger.Debug("validation rejected: product=%s reason=%s", p.ID, res.Message)
	return outcomeInvalid
}

func (o *Orchestrator) reportProgress(current, total, valid, invalid int) {
	if o.sink == nil {
		return
	}
	every := o.cfg.ProgressEvery
	if every <= 0 {
		every = 10
	}
	if current%every != 0 {
		return
	}
	o.sink.Publish(Progress{
		Current: current,
		Total:   total,
		Valid:   valid,
		Invalid: invalid,
		Status:  fmt.Sprintf("Validated %d/%d products", current, total),
	})
}

// RunProbeSweep runs the cheap reachability probe over a candidate page with
// bounded concurrency. It only touches the reachability fields, so a sweep
// never clobbers a committed deep-check outcome with stale content state.
func (o *Orchestrator) RunProbeSweep(ctx context.Context, params Params) Result {
	batchSize := params.BatchSize
	if batchSize <= 0 {
		batchSize = o.cfg.BatchSize
	}

	candidates, err := o.repo.FindCandidates(ctx, repository.CandidateFilter{
		IDs:   params.ProductIDs,
		Force: params.ForceRevalidate,
		Limit: batchSize,
	})
	if err != nil {
		o.logger.Error("probe sweep setup failed: %v", err)
		return Result{
			Status:    StatusError,
			Message:   aggregate.Truncate(err.Error(), aggregate.MaxStoredErrorLen),
			Timestamp: time.Now().UTC(),
		}
	}
	if len(candidates) == 0 {
		return Result{Status: StatusSuccess, Timestamp: time.Now().UTC()}
	}

	concurrency := o.cfg.ProbeConcurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	var processed, valid, invalid, faults atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, p := range candidates {
		p := p
		g.Go(func() error {
			processed.Add(1)

			url := p.PrimaryImageURL()
			if url == "" {
				return nil
			}

			res := o.checker.CheckReachability(gctx, url)
			now := time.Now().UTC()

			if res.Valid {
				// A passing probe keeps the current status; only the deep
				// check promotes a product to valid.
				status := p.Validation.Status
				if status == "" {
					status = aggregate.ValidationPending
				}
				if err := o.repo.UpdateURLReachability(gctx, p.ID, true, status, "", now); err != nil {
					o.logger.Error("probe commit failed: product=%s err=%v", p.ID, err)
					faults.Add(1)
					return nil
				}
				valid.Add(1)
				return nil
			}

			if err := o.repo.UpdateURLReachability(gctx, p.ID, false, probeFailureStatus(res), res.Message, now); err != nil {
				o.logger.Error("probe commit failed: product=%s err=%v", p.ID, err)
				faults.Add(1)
				return nil
			}
			invalid.Add(1)
			return nil
		})
	}
	// Workers report faults through the counters, never through errors.
	_ = g.Wait()

	result := Result{
		Status:    StatusSuccess,
		Processed: int(processed.Load()),
		Valid:     int(valid.Load()),
		Invalid:   int(invalid.Load()),
		Errors:    int(faults.Load()),
		Timestamp: time.Now().UTC(),
	}
	o.logger.Info("probe sweep finished: processed=%d reachable=%d failed=%d errors=%d",
		result.Processed, result.Valid, result.Invalid, result.Errors)
	return result
}

// probeFailureStatus maps a failed probe onto a validation status. A response
// was received when metadata is present, so the URL itself is bad; otherwise
// the host never answered.
func probeFailureStatus(res imagecheck.CheckResult) aggregate.ValidationStatus {
	if res.Meta != nil {
		return aggregate.ValidationInvalidURL
	}
	return aggregate.ValidationUnreachable
}
