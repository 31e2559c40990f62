package bootstrap

import (
	"context"

	"lookbook-server-go/internal/domain/task"
	"lookbook-server-go/internal/domain/validation"
	platformerrors "lookbook-server-go/internal/platform/errors"
)

// registerExecutors binds every task type to the orchestrator. Executors
// return an error only for setup-level failures, which makes them eligible
// for the manager's bounded retry; item-level trouble is already folded into
// the run result.
func registerExecutors(registry *task.Registry, orchestrator *validation.Orchestrator) {
	registry.Register(task.TypeValidateImages, func(ctx context.Context, t *task.Task) error {
		params, _ := t.Params.(validation.Params)
		result := orchestrator.RunValidation(ctx, params)
		t.Result = result
		if result.Status == validation.StatusError {
			return platformerrors.New(platformerrors.KindTask, "task.validate_images", result.Message)
		}
		return nil
	})

	registry.Register(task.TypeProbeImageURLs, func(ctx context.Context, t *task.Task) error {
		params, _ := t.Params.(validation.Params)
		result := orchestrator.RunProbeSweep(ctx, params)
		t.Result = result
		if result.Status == validation.StatusError {
			return platformerrors.New(platformerrors.KindTask, "task.probe_image_urls", result.Message)
		}
		return nil
	})

	registry.Register(task.TypeRevalidateFailed, func(ctx context.Context, t *task.Task) error {
		params, _ := t.Params.(validation.RevalidateParams)
		result := orchestrator.RevalidateFailed(ctx, params.DaysOld, params.BatchSize)
		t.Result = result
		if result.Status == validation.StatusError {
			return platformerrors.New(platformerrors.KindTask, "task.revalidate_failed", result.Message)
		}
		return nil
	})
}
