package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"gorm.io/gorm"

	"lookbook-server-go/internal/domain/catalog/repository"
	"lookbook-server-go/internal/domain/imagecheck"
	"lookbook-server-go/internal/domain/task"
	"lookbook-server-go/internal/domain/validation"
	platformconfig "lookbook-server-go/internal/platform/config"
	platformerrors "lookbook-server-go/internal/platform/errors"
	platformlogging "lookbook-server-go/internal/platform/logging"
	platformstorage "lookbook-server-go/internal/platform/storage"
)

type stepFn func(context.Context, *appState) error

type initStep struct {
	ID        string
	Title     string
	DependsOn []string
	Kind      platformerrors.Kind
	Execute   stepFn
}

type appState struct {
	config     *platformconfig.Config
	configPath string
	logger     *platformlogging.Logger
	db         *gorm.DB

	repo         repository.ProductRepository
	checker      *imagecheck.Checker
	orchestrator *validation.Orchestrator

	registry  *task.Registry
	manager   *task.Manager
	scheduler *task.Scheduler
}

// Run drives the full service lifecycle: configuration, dependencies,
// background schedules, and graceful shutdown on SIGINT/SIGTERM.
func Run(ctx context.Context) error {
	state := &appState{}

	steps := InitGraph()
	if err := executeInitSteps(ctx, steps, state); err != nil {
		return err
	}

	logger := state.logger
	if state.config == nil || logger == nil {
		return platformerrors.New(
			platformerrors.KindBootstrap,
			"bootstrap state validation",
			"config/logger not initialised",
		)
	}
	defer logger.Close()

	logBootstrapGraph(steps, logger)

	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	state.scheduler.Start(signalCtx)
	logger.Info("lookbook-server started: config=%s tasks=%v", state.configPath, state.registry.Types())

	<-signalCtx.Done()
	logger.Info("shutdown signal received, draining workers")

	done := make(chan struct{})
	go func() {
		state.scheduler.Stop()
		state.manager.Stop()
		close(done)
	}()

	select {
	case <-done:
		logger.Info("all services stopped")
	case <-time.After(15 * time.Second):
		logger.Error("shutdown timed out, forcing exit")
		return errors.New("shutdown timed out")
	}
	return nil
}

func logBootstrapGraph(steps []initStep, logger *platformlogging.Logger) {
	if logger == nil {
		return
	}
	logger.Info("initialisation graph:")
	for _, step := range steps {
		logger.Info("  %s: %s", step.ID, step.Title)
	}
}

func executeInitSteps(ctx context.Context, steps []initStep, state *appState) error {
	if state == nil {
		return platformerrors.New(
			platformerrors.KindBootstrap,
			"execute init steps",
			"nil bootstrap state",
		)
	}

	completed := make(map[string]struct{}, len(steps))
	for _, step := range steps {
		for _, dep := range step.DependsOn {
			if _, ok := completed[dep]; !ok {
				return platformerrors.New(
					platformerrors.KindBootstrap,
					step.ID,
					fmt.Sprintf("dependency %s not satisfied", dep),
				)
			}
		}
		if step.Execute == nil {
			return platformerrors.New(
				platformerrors.KindBootstrap,
				step.ID,
				"missing execute function",
			)
		}
		if err := step.Execute(ctx, state); err != nil {
			var typed *platformerrors.Error
			if errors.As(err, &typed) {
				return err
			}

			kind := step.Kind
			if kind == "" {
				kind = platformerrors.KindBootstrap
			}
			return platformerrors.Wrap(kind, step.ID, "bootstrap step failed", err)
		}
		completed[step.ID] = struct{}{}
	}
	return nil
}

func InitGraph() []initStep {
	return []initStep{
		{
			ID:      "config:load",
			Title:   "Load configuration",
			Kind:    platformerrors.KindConfig,
			Execute: loadConfigStep,
		},
		{
			ID:        "logging:init-provider",
			Title:     "Initialise logging provider",
			DependsOn: []string{"config:load"},
			Kind:      platformerrors.KindBootstrap,
			Execute:   initLoggingStep,
		},
		{
			ID:        "storage:open",
			Title:     "Open database and run migrations",
			DependsOn: []string{"config:load", "logging:init-provider"},
			Kind:      platformerrors.KindStorage,
			Execute:   openStorageStep,
		},
		{
			ID:        "pipeline:init",
			Title:     "Initialise validation pipeline",
			DependsOn: []string{"storage:open", "logging:init-provider"},
			Kind:      platformerrors.KindBootstrap,
			Execute:   initPipelineStep,
		},
		{
			ID:        "tasks:init",
			Title:     "Register task executors and schedules",
			DependsOn: []string{"pipeline:init"},
			Kind:      platformerrors.KindTask,
			Execute:   initTasksStep,
		},
	}
}

func loadConfigStep(_ context.Context, state *appState) error {
	result, err := platformconfig.NewLoader().Load()
	if err != nil {
		return err
	}
	state.config = result.Config
	state.configPath = result.Path
	return nil
}

func initLoggingStep(_ context.Context, state *appState) error {
	if state.config == nil {
		return platformerrors.New(
			platformerrors.KindBootstrap,
			"logging:init-provider",
			"config not loaded",
		)
	}

	logger, err := platformlogging.New(platformlogging.Config{
		Level:    state.config.Log.Level,
		Dir:      state.config.Log.Dir,
		Filename: state.config.Log.File,
	})
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindBootstrap, "logging:init-provider", "failed to initialize logging provider", err)
	}

	state.logger = logger
	logger.Info("logging ready [%s] config=%s", state.config.Log.Level, state.configPath)
	return nil
}

func openStorageStep(_ context.Context, state *appState) error {
	db, err := platformstorage.Open(state.config.Database)
	if err != nil {
		return err
	}
	state.db = db
	state.logger.Info("database ready: driver=%s", state.config.Database.Driver)
	return nil
}

func initPipelineStep(_ context.Context, state *appState) error {
	if state.db == nil || state.logger == nil {
		return platformerrors.New(
			platformerrors.KindBootstrap,
			"pipeline:init",
			"missing database/logger",
		)
	}

	pipeline := state.config.Pipeline

	state.repo = platformstorage.NewProductRepository(state.db)
	state.checker = imagecheck.NewChecker(imagecheck.Policy{
		ProbeTimeout:    pipeline.ProbeTimeoutDuration(),
		DownloadTimeout: pipeline.DownloadTimeoutDuration(),
		MaxBytes:        pipeline.MaxImageBytes,
		MinBytes:        pipeline.MinImageBytes,
		MinWidth:        pipeline.MinImageWidth,
		MinHeight:       pipeline.MinImageHeight,
	}, state.logger)

	sink := logProgressSink{logger: state.logger}
	state.orchestrator = validation.NewOrchestrator(state.repo, state.checker, pipeline, state.logger, sink)
	return nil
}

func initTasksStep(_ context.Context, state *appState) error {
	if state.orchestrator == nil {
		return platformerrors.New(
			platformerrors.KindTask,
			"tasks:init",
			"pipeline not initialised",
		)
	}

	state.registry = task.NewRegistry()
	registerExecutors(state.registry, state.orchestrator)

	state.manager = task.NewManager(state.config.Task, state.registry, state.logger)
	state.scheduler = task.NewScheduler(state.manager, state.logger)

	taskCfg := state.config.Task
	if taskCfg.ValidateInterval > 0 {
		state.scheduler.Add(task.Recurring{
			Type:     task.TypeValidateImages,
			Interval: time.Duration(taskCfg.ValidateInterval) * time.Minute,
			Params:   func() any { return validation.Params{} },
		})
	}
	if taskCfg.RevalidateInterval > 0 {
		state.scheduler.Add(task.Recurring{
			Type:     task.TypeRevalidateFailed,
			Interval: time.Duration(taskCfg.RevalidateInterval) * time.Minute,
			Params:   func() any { return validation.RevalidateParams{} },
		})
	}
	return nil
}

// logProgressSink writes progress snapshots to the service log.
type logProgressSink struct {
	logger *platformlogging.Logger
}

func (s logProgressSink) Publish(p validation.Progress) {
	s.logger.Info("progress: %s (valid=%d invalid=%d)", p.Status, p.Valid, p.Invalid)
}
