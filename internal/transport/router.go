package transport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fleetmesh/dispatch/internal/domain/event"
	"github.com/fleetmesh/dispatch/internal/observability"
	porteventbus "github.com/fleetmesh/dispatch/internal/port/eventbus"
	dispatchsvc "github.com/fleetmesh/dispatch/internal/service/dispatch"
	selectionlogsvc "github.com/fleetmesh/dispatch/internal/service/selectionlog"

	mcptransport "github.com/fleetmesh/dispatch/internal/transport/mcp"
	pollhandler "github.com/fleetmesh/dispatch/internal/transport/poll"
	taskhandler "github.com/fleetmesh/dispatch/internal/transport/task"
	wshandler "github.com/fleetmesh/dispatch/internal/transport/ws"
)

func NewRouter(
	ctx context.Context,
	dispatchSvc *dispatchsvc.Service,
	logs *selectionlogsvc.Recorder,
	hub *wshandler.Hub,
	mcpServer *mcptransport.Server,
	eventBus porteventbus.EventBus,
	registry *observability.Registry,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(RequestLogger())
	r.Use(CORSMiddleware())

	api := r.Group("/api")

	taskhandler.Register(api.Group("/tasks"), dispatchSvc, logs)
	pollhandler.Register(api.Group("/accounts/:accountId/delegates/:delegateId"), dispatchSvc)
	hub.Register(api.Group("/ws"))

	r.Any("/mcp", gin.WrapH(mcpServer.Handler()))
	r.Any("/mcp/*path", gin.WrapH(mcpServer.Handler()))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", func(c *gin.Context) {
		c.JSON(http.StatusOK, registry.Snapshot())
	})

	// Bridge: task events published by any manager replica reach this
	// replica's live delegate connections. The hub fans out per tenant.
	for _, t := range []event.Type{
		event.TypeTaskQueued,
		event.TypeTaskAssigned,
		event.TypeTaskAborted,
		event.TypeTaskExpired,
	} {
		topic := t
		if _, err := eventBus.Subscribe(ctx, topic, func(_ context.Context, e event.Event) {
			hub.Broadcast(e)
		}); err != nil {
			slog.Error("failed to subscribe topic to WS hub", "topic", topic, "error", err)
		}
	}

	return r
}
