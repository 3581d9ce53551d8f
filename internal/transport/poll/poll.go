package poll

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fleetmesh/dispatch/internal/domain/event"
	domaintask "github.com/fleetmesh/dispatch/internal/domain/task"
	dispatchsvc "github.com/fleetmesh/dispatch/internal/service/dispatch"
)

// Register mounts the delegate-facing protocol surface: the poll stream, the
// acquire claim, and the validation report. Mounted under
// /accounts/:accountId/delegates/:delegateId.
func Register(rg *gin.RouterGroup, svc *dispatchsvc.Service) {
	rg.GET("/events", pollEvents(svc))
	rg.POST("/tasks/:taskId/acquire", acquireTask(svc))
	rg.POST("/tasks/:taskId/results", reportResults(svc))
}

func pollEvents(svc *dispatchsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		syncOnly := c.Query("sync_only") == "true"
		events, err := svc.PollEvents(c.Request.Context(), c.Param("accountId"), c.Param("delegateId"), syncOnly)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if events == nil {
			events = []event.TaskEvent{}
		}
		c.JSON(http.StatusOK, events)
	}
}

func acquireTask(svc *dispatchsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		instanceID := c.Query("delegate_instance_id")
		if instanceID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "delegate_instance_id is required"})
			return
		}

		pkg, err := svc.Acquire(c.Request.Context(),
			c.Param("accountId"), c.Param("delegateId"), instanceID, c.Param("taskId"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		// An empty package is the normal "lost the race" response.
		c.JSON(http.StatusOK, pkg)
	}
}

type reportResultsReq struct {
	DelegateInstanceID string                        `json:"delegate_instance_id" binding:"required"`
	Results            []domaintask.ConnectionResult `json:"results"`
}

func reportResults(svc *dispatchsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req reportResultsReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		pkg, err := svc.ReportConnectionResults(c.Request.Context(),
			c.Param("accountId"), c.Param("delegateId"), req.DelegateInstanceID,
			c.Param("taskId"), req.Results)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, pkg)
	}
}
