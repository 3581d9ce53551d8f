package wire

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fleetmesh/dispatch/internal/adapter/memory"
	pgdb "github.com/fleetmesh/dispatch/internal/adapter/postgres"
	pgdelegate "github.com/fleetmesh/dispatch/internal/adapter/postgres/delegate"
	pgeventbus "github.com/fleetmesh/dispatch/internal/adapter/postgres/eventbus"
	pglocker "github.com/fleetmesh/dispatch/internal/adapter/postgres/locker"
	pgselectionlog "github.com/fleetmesh/dispatch/internal/adapter/postgres/selectionlog"
	pgselectormap "github.com/fleetmesh/dispatch/internal/adapter/postgres/selectormap"
	pgtask "github.com/fleetmesh/dispatch/internal/adapter/postgres/task"
	"github.com/fleetmesh/dispatch/internal/adapter/secrets"

	"github.com/fleetmesh/dispatch/internal/config"
	"github.com/fleetmesh/dispatch/internal/observability"
	"github.com/fleetmesh/dispatch/internal/waiter"

	admissionsvc "github.com/fleetmesh/dispatch/internal/service/admission"
	capabilitysvc "github.com/fleetmesh/dispatch/internal/service/capability"
	dispatchsvc "github.com/fleetmesh/dispatch/internal/service/dispatch"
	eligibilitysvc "github.com/fleetmesh/dispatch/internal/service/eligibility"
	selectionlogsvc "github.com/fleetmesh/dispatch/internal/service/selectionlog"

	"github.com/fleetmesh/dispatch/internal/transport"
	mcptransport "github.com/fleetmesh/dispatch/internal/transport/mcp"
	wshandler "github.com/fleetmesh/dispatch/internal/transport/ws"
)

// App holds the top-level resources needed to run and gracefully stop the server.
type App struct {
	Pool     *pgxpool.Pool
	Server   *http.Server
	Dispatch *dispatchsvc.Service
	Hub      *wshandler.Hub
	Metrics  *observability.Registry
}

// Build is the composition root: the only place concrete types are wired to
// their interface dependencies.
func Build(ctx context.Context) (*App, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, err
	}

	// ── Database ─────────────────────────────────────────────────────────────
	pool, err := pgdb.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	// ── Adapters ─────────────────────────────────────────────────────────────
	taskRepo := pgtask.New(pool)
	logStore := pgselectionlog.New(pool)
	delegateReader := pgdelegate.New(pool)
	selectorMap := pgselectormap.New(pool)
	eventBus := pgeventbus.New(pool)
	locker := pglocker.New(pool)
	cache := memory.NewCache()
	secretResolver := secrets.New(secrets.EnvSource{})

	// ── Services ─────────────────────────────────────────────────────────────
	registry := observability.NewRegistry()
	hub := wshandler.NewHub()
	waitEngine := waiter.NewEngine(cfg.DefaultTaskTimeout)

	recorder := selectionlogsvc.NewRecorder(logStore)
	assembler := capabilitysvc.NewService(selectorMap, secretResolver, capabilitysvc.DefaultAdapters())
	eligibility := eligibilitysvc.NewService(delegateReader, hub, cache, cfg.ProofTTL)
	admission := admissionsvc.NewService(taskRepo, cache, admissionsvc.Limits{
		Critical:  cfg.CriticalTaskLimit,
		Important: cfg.ImportantTaskLimit,
		Optional:  cfg.OptionalTaskLimit,
	}, cfg.AdmissionMemoTTL)

	dispatchSvc := dispatchsvc.NewService(
		taskRepo,
		delegateReader,
		eligibility,
		eligibility, // implements dispatch.ProofRecorder
		admission,
		assembler,
		secretResolver,
		recorder,
		waitEngine,
		eventBus,
		hub,
		registry,
		locker,
		dispatchsvc.Config{
			DefaultTimeout:      cfg.DefaultTaskTimeout,
			AsyncBroadcastFloor: cfg.AsyncBroadcastFloor,
			SweepBatchSize:      cfg.SweepBatchSize,
			GlobalAccountID:     cfg.GlobalAccountID,
		},
	)

	mcpServer := mcptransport.New(dispatchSvc, recorder, registry)

	// ── Transport ────────────────────────────────────────────────────────────
	router := transport.NewRouter(ctx, dispatchSvc, recorder, hub, mcpServer, eventBus, registry)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	slog.Info("application wired", "port", cfg.Port)

	app := &App{
		Pool:     pool,
		Server:   server,
		Dispatch: dispatchSvc,
		Hub:      hub,
		Metrics:  registry,
	}

	// ── Background loops ─────────────────────────────────────────────────────
	startReaper(ctx, app, eventBus, cfg)
	startSweeps(ctx, app, cfg)

	return app, nil
}
