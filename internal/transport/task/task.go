package task

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	domaintask "github.com/fleetmesh/dispatch/internal/domain/task"
	porttask "github.com/fleetmesh/dispatch/internal/port/task"
	admissionsvc "github.com/fleetmesh/dispatch/internal/service/admission"
	dispatchsvc "github.com/fleetmesh/dispatch/internal/service/dispatch"
	selectionlogsvc "github.com/fleetmesh/dispatch/internal/service/selectionlog"
)

func Register(rg *gin.RouterGroup, svc *dispatchsvc.Service, logs *selectionlogsvc.Recorder) {
	rg.POST("/", submitTask(svc))
	rg.POST("/sync", executeTask(svc))
	rg.GET("/", listTasks(svc))
	rg.GET("/:id", getTask(svc))
	rg.POST("/:id/abort", abortTask(svc))
	rg.POST("/:id/expire", expireTask(svc))
	rg.GET("/:id/selection-logs", fetchSelectionLogs(logs))
}

type submitTaskReq struct {
	AccountID          string            `json:"account_id" binding:"required"`
	SecondaryAccountID string            `json:"secondary_account_id"`
	WaitID             string            `json:"wait_id"`
	Type               string            `json:"type" binding:"required"`
	Parameters         map[string]string `json:"parameters"`
	Payload            []byte            `json:"payload"`
	TimeoutMS          int64             `json:"timeout_ms"`
	Rank               string            `json:"rank"`
	Tags               []string          `json:"tags"`
	SetupAbstractions  map[string]string `json:"setup_abstractions"`
	SecretVaultURLs    []string          `json:"secret_vault_urls"`
	HostedExecution    bool              `json:"hosted_execution"`
}

func (req submitTaskReq) toTask() domaintask.Task {
	return domaintask.Task{
		AccountID:          req.AccountID,
		SecondaryAccountID: req.SecondaryAccountID,
		WaitID:             req.WaitID,
		Data: domaintask.Data{
			Type:       req.Type,
			Parameters: req.Parameters,
			Payload:    req.Payload,
			Timeout:    time.Duration(req.TimeoutMS) * time.Millisecond,
		},
		Tags:              req.Tags,
		SetupAbstractions: req.SetupAbstractions,
		SecretVaultURLs:   req.SecretVaultURLs,
		HostedExecution:   req.HostedExecution,
		Rank:              domaintask.Rank(req.Rank),
	}
}

func submitTask(svc *dispatchsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req submitTaskReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		t := req.toTask()
		queued, err := svc.QueueTask(c.Request.Context(), &t)
		if err != nil {
			c.JSON(submissionStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, queued)
	}
}

func executeTask(svc *dispatchsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req submitTaskReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		t := req.toTask()
		result, err := svc.ExecuteTask(c.Request.Context(), &t)
		if err != nil {
			c.JSON(submissionStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// submissionStatus maps rejection reasons to HTTP: rate limits are 429,
// fleet-shape problems are 412, everything else is a server fault.
func submissionStatus(err error) int {
	switch {
	case errors.Is(err, admissionsvc.ErrRateLimitExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, dispatchsvc.ErrNoEligibleDelegates),
		errors.Is(err, dispatchsvc.ErrNoAvailableDelegates),
		errors.Is(err, dispatchsvc.ErrNoInstalledDelegates):
		return http.StatusPreconditionFailed
	default:
		return http.StatusInternalServerError
	}
}

func listTasks(svc *dispatchsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var filters domaintask.ListFilters

		if v := c.Query("account_id"); v != "" {
			filters.AccountID = &v
		}
		if v := c.Query("status"); v != "" {
			s := domaintask.Status(v)
			filters.Status = &s
		}
		if v := c.Query("delegate_id"); v != "" {
			filters.DelegateID = &v
		}
		if c.Query("unassigned") == "true" {
			filters.Unassigned = true
		}

		tasks, err := svc.ListTasks(c.Request.Context(), filters)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if tasks == nil {
			tasks = []domaintask.Task{}
		}
		c.JSON(http.StatusOK, tasks)
	}
}

func getTask(svc *dispatchsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID := c.Query("account_id")
		if accountID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "account_id is required"})
			return
		}

		t, err := svc.GetTask(c.Request.Context(), accountID, c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, t)
	}
}

func abortTask(svc *dispatchsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID := c.Query("account_id")
		if accountID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "account_id is required"})
			return
		}

		old, err := svc.AbortTask(c.Request.Context(), accountID, c.Param("id"))
		if err != nil {
			if errors.Is(err, porttask.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, old)
	}
}

func expireTask(svc *dispatchsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID := c.Query("account_id")
		if accountID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "account_id is required"})
			return
		}

		if err := svc.ExpireTask(c.Request.Context(), accountID, c.Param("id")); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func fetchSelectionLogs(logs *selectionlogsvc.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID := c.Query("account_id")
		if accountID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "account_id is required"})
			return
		}

		entries, err := logs.Fetch(c.Request.Context(), accountID, c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, entries)
	}
}
