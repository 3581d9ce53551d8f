package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	mcpmcp "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	domaintask "github.com/fleetmesh/dispatch/internal/domain/task"
	"github.com/fleetmesh/dispatch/internal/observability"
	dispatchsvc "github.com/fleetmesh/dispatch/internal/service/dispatch"
	selectionlogsvc "github.com/fleetmesh/dispatch/internal/service/selectionlog"
)

// RegisterTools registers the operator tool set. Add a tool by adding an
// AddTool call here — server.go never changes.
func RegisterTools(
	s *mcpserver.MCPServer,
	svc *dispatchsvc.Service,
	logs *selectionlogsvc.Recorder,
	registry *observability.Registry,
) {
	s.AddTool(mcpmcp.NewTool("submit_task",
		mcpmcp.WithDescription("Queue an asynchronous task for the tenant's delegate fleet. Returns the persisted task including its computed eligible set and first broadcast target."),
		mcpmcp.WithString("account_id", mcpmcp.Required(), mcpmcp.Description("Tenant identifier")),
		mcpmcp.WithString("type", mcpmcp.Required(), mcpmcp.Description("Task type, e.g. HTTP or SHELL_SCRIPT")),
		mcpmcp.WithString("rank", mcpmcp.Description("One of: critical, important, optional (default optional)")),
		mcpmcp.WithString("tags", mcpmcp.Description("Comma-separated selector tags the executing delegate must carry")),
		mcpmcp.WithNumber("timeout_ms", mcpmcp.Description("Execution timeout in milliseconds")),
	), submitTaskHandler(svc))

	s.AddTool(mcpmcp.NewTool("get_task",
		mcpmcp.WithDescription("Fetch one task row: status, broadcast state, validation sets, and the winning delegate if assigned."),
		mcpmcp.WithString("account_id", mcpmcp.Required(), mcpmcp.Description("Tenant identifier")),
		mcpmcp.WithString("task_id", mcpmcp.Required(), mcpmcp.Description("Task id")),
	), getTaskHandler(svc))

	s.AddTool(mcpmcp.NewTool("abort_task",
		mcpmcp.WithDescription("Cancel a queued or running task. Returns the pre-abort row so you can see what was executing."),
		mcpmcp.WithString("account_id", mcpmcp.Required(), mcpmcp.Description("Tenant identifier")),
		mcpmcp.WithString("task_id", mcpmcp.Required(), mcpmcp.Description("Task id")),
	), abortTaskHandler(svc))

	s.AddTool(mcpmcp.NewTool("fetch_selection_logs",
		mcpmcp.WithDescription("Read the selection audit trail for a task: eligibility summary, broadcasts, rejections, and the final assignment, in event order."),
		mcpmcp.WithString("account_id", mcpmcp.Required(), mcpmcp.Description("Tenant identifier")),
		mcpmcp.WithString("task_id", mcpmcp.Required(), mcpmcp.Description("Task id")),
	), fetchSelectionLogsHandler(logs))

	s.AddTool(mcpmcp.NewTool("get_metrics",
		mcpmcp.WithDescription("Snapshot of dispatch counters: creations, acquisitions, expiries, eligibility misses."),
	), getMetricsHandler(registry))
}

func submitTaskHandler(svc *dispatchsvc.Service) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcpmcp.CallToolRequest) (*mcpmcp.CallToolResult, error) {
		accountID := mcpmcp.ParseString(req, "account_id", "")
		taskType := mcpmcp.ParseString(req, "type", "")
		rank := mcpmcp.ParseString(req, "rank", string(domaintask.RankOptional))
		rawTags := mcpmcp.ParseString(req, "tags", "")
		timeoutMS := mcpmcp.ParseInt64(req, "timeout_ms", 0)

		var tags []string
		for _, tag := range strings.Split(rawTags, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}

		if accountID == "" || taskType == "" {
			return mcpmcp.NewToolResultText("error: account_id and type are required"), nil
		}

		t := domaintask.Task{
			AccountID: accountID,
			Data: domaintask.Data{
				Type:    taskType,
				Timeout: time.Duration(timeoutMS) * time.Millisecond,
			},
			Tags: tags,
			Rank: domaintask.Rank(rank),
		}

		queued, err := svc.QueueTask(ctx, &t)
		if err != nil {
			return mcpmcp.NewToolResultText(fmt.Sprintf("error: %v", err)), nil
		}
		return jsonResult(queued)
	}
}

func getTaskHandler(svc *dispatchsvc.Service) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcpmcp.CallToolRequest) (*mcpmcp.CallToolResult, error) {
		t, err := svc.GetTask(ctx,
			mcpmcp.ParseString(req, "account_id", ""),
			mcpmcp.ParseString(req, "task_id", ""))
		if err != nil {
			return mcpmcp.NewToolResultText(fmt.Sprintf("error: %v", err)), nil
		}
		return jsonResult(t)
	}
}

func abortTaskHandler(svc *dispatchsvc.Service) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcpmcp.CallToolRequest) (*mcpmcp.CallToolResult, error) {
		old, err := svc.AbortTask(ctx,
			mcpmcp.ParseString(req, "account_id", ""),
			mcpmcp.ParseString(req, "task_id", ""))
		if err != nil {
			return mcpmcp.NewToolResultText(fmt.Sprintf("error: %v", err)), nil
		}
		return jsonResult(old)
	}
}

func fetchSelectionLogsHandler(logs *selectionlogsvc.Recorder) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcpmcp.CallToolRequest) (*mcpmcp.CallToolResult, error) {
		entries, err := logs.Fetch(ctx,
			mcpmcp.ParseString(req, "account_id", ""),
			mcpmcp.ParseString(req, "task_id", ""))
		if err != nil {
			return mcpmcp.NewToolResultText(fmt.Sprintf("error: %v", err)), nil
		}
		return jsonResult(entries)
	}
}

func getMetricsHandler(registry *observability.Registry) mcpserver.ToolHandlerFunc {
	return func(_ context.Context, _ mcpmcp.CallToolRequest) (*mcpmcp.CallToolResult, error) {
		return jsonResult(registry.Snapshot())
	}
}

func jsonResult(v any) (*mcpmcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcpmcp.NewToolResultText(fmt.Sprintf("error: %v", err)), nil
	}
	return mcpmcp.NewToolResultText(string(data)), nil
}
