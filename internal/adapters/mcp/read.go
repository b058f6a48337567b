// Package mcp exposes the board and its records as MCP tools.
package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"jiraflow/internal/application"
	"jiraflow/internal/application/commands"
	"jiraflow/internal/domain"
	"jiraflow/internal/ports"
)

// Deps bundles what the tool handlers run against.
type Deps struct {
	Store      ports.RecordStore
	Tracker    ports.RemoteTracker
	WorkLog    ports.WorkLog
	Guard      *commands.SyncGuard
	Normalizer application.Normalizer
	ProjectKey string
	Filter     string
}

// RegisterReadTools adds the read-only board tools to the MCP server.
func RegisterReadTools(s *server.MCPServer, deps *Deps) {
	s.AddTool(boardTool(), boardHandler(deps))
	s.AddTool(getRecordTool(), getRecordHandler(deps))
	s.AddTool(listStagesTool(), listStagesHandler())
}

// --- board ---

func boardTool() mcp.Tool {
	return mcp.NewTool("board",
		mcp.WithDescription("Show the kanban board: records grouped by swimlane (overdue / on schedule / others) and pipeline stage."),
		mcp.WithBoolean("include_archived",
			mcp.Description("Include archived records. Default false."),
		),
	)
}

func boardHandler(deps *Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewBoardCommand(deps.Store)
		cmd.IncludeArchived = req.GetBool("include_archived", false)
		board, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		if board.Total == 0 {
			return mcp.NewToolResultText("The board is empty. Run sync_now first."), nil
		}

		var sb strings.Builder
		for _, lane := range board.Lanes {
			if lane.Count == 0 {
				continue
			}
			fmt.Fprintf(&sb, "== %s (%d) ==\n", lane.Lane.Label, lane.Count)
			for _, column := range lane.Columns {
				if len(column.Records) == 0 {
					continue
				}
				fmt.Fprintf(&sb, "  %s:\n", column.Stage.Label)
				for _, stored := range column.Records {
					r := stored.Record
					fmt.Fprintf(&sb, "    %s  %s", r.Key, r.Summary)
					if r.DueDate != nil {
						fmt.Fprintf(&sb, "  (due %s)", r.DueDate.Format("2006-01-02"))
					}
					sb.WriteString("\n")
				}
			}
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- get_record ---

func getRecordTool() mcp.Tool {
	return mcp.NewTool("get_record",
		mcp.WithDescription("Show one record's full metadata and file path."),
		mcp.WithString("key",
			mcp.Description("Record key, e.g. PROJ-123 or LOCAL-1700000000000"),
			mcp.Required(),
		),
	)
}

func getRecordHandler(deps *Deps) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		key := req.GetString("key", "")
		if key == "" {
			return toolError(fmt.Errorf("key is required"))
		}

		handle, err := deps.Store.FindExisting(key, "")
		if err != nil {
			return toolError(err)
		}
		if handle == nil {
			return toolError(fmt.Errorf("record %s: %w", key, application.ErrNotFound))
		}
		record, err := deps.Store.Read(*handle)
		if err != nil {
			return toolError(err)
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "%s  %s\n", record.Key, record.Summary)
		fmt.Fprintf(&sb, "stage: %s\n", record.Stage)
		fmt.Fprintf(&sb, "status: %s\n", record.RawStatus)
		fmt.Fprintf(&sb, "type: %s  priority: %s  source: %s\n", record.Category, record.Priority, record.Origin)
		if record.Assignee != "" {
			fmt.Fprintf(&sb, "assignee: %s\n", record.Assignee)
		}
		if record.SprintName != "" {
			fmt.Fprintf(&sb, "sprint: %s (%s)\n", record.SprintName, record.SprintState)
		}
		if record.DueDate != nil {
			fmt.Fprintf(&sb, "due: %s\n", record.DueDate.Format("2006-01-02"))
		}
		if record.StoryPoints > 0 {
			fmt.Fprintf(&sb, "points: %g\n", record.StoryPoints)
		}
		if record.Archived {
			sb.WriteString("archived: true\n")
		}
		fmt.Fprintf(&sb, "file: %s\n", handle.Path)
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- list_stages ---

func listStagesTool() mcp.Tool {
	return mcp.NewTool("list_stages",
		mcp.WithDescription("List the pipeline stages in board order, with their phase grouping."),
	)
}

func listStagesHandler() server.ToolHandlerFunc {
	return func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var sb strings.Builder
		for _, def := range domain.Stages() {
			fmt.Fprintf(&sb, "%-18s %s\n", def.ID, def.Phase)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}
