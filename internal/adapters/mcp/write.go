package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"jiraflow/internal/application"
	"jiraflow/internal/application/commands"
)

// RegisterWriteTools adds the mutating board tools to the MCP server.
func RegisterWriteTools(s *server.MCPServer, deps *Deps) {
	s.AddTool(syncNowTool(), syncNowHandler(deps))
	s.AddTool(moveRecordTool(), moveRecordHandler(deps))
	s.AddTool(createLocalTaskTool(), createLocalTaskHandler(deps))
	s.AddTool(archiveRecordTool(), archiveRecordHandler(deps))
	s.AddTool(deleteRecordTool(), deleteRecordHandler(deps))
}

// --- sync_now ---

func syncNowTool() mcp.Tool {
	return mcp.NewTool("sync_now",
		mcp.WithDescription("Pull the remote tracker and reconcile the vault mirror. Reports created/updated counts and per-record failures."),
	)
}

func syncNowHandler(deps *Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if deps.Tracker == nil {
			return toolError(application.ErrNotConfigured)
		}
		cmd := commands.NewSyncCommand(deps.Tracker, deps.Store, deps.Normalizer, deps.Guard, deps.ProjectKey, deps.Filter)
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		msg := fmt.Sprintf("Sync done: %d created, %d updated", result.Created, result.Updated)
		if len(result.Errors) > 0 {
			msg += fmt.Sprintf(", %d failed:", len(result.Errors))
			for _, e := range result.Errors {
				msg += "\n  " + e.String()
			}
		}
		return mcp.NewToolResultText(msg), nil
	}
}

// --- move_record ---

func moveRecordTool() mcp.Tool {
	return mcp.NewTool("move_record",
		mcp.WithDescription("Move a record to another pipeline stage. Remote-mirrored records also transition on the tracker; the local file is rolled back if the tracker refuses."),
		mcp.WithString("key",
			mcp.Description("Record key, e.g. PROJ-123"),
			mcp.Required(),
		),
		mcp.WithString("stage",
			mcp.Description("Target stage, e.g. EXECUTION, TESTING & REVIEW, DONE"),
			mcp.Required(),
		),
	)
}

func moveRecordHandler(deps *Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		key := req.GetString("key", "")
		stage := req.GetString("stage", "")
		cmd := commands.NewMoveCommand(deps.Tracker, deps.Store, deps.WorkLog, key, stage)
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- create_local_task ---

func createLocalTaskTool() mcp.Tool {
	return mcp.NewTool("create_local_task",
		mcp.WithDescription("Create a locally authored task on the board. Local tasks never touch the remote tracker."),
		mcp.WithString("summary",
			mcp.Description("One-line task summary"),
			mcp.Required(),
		),
		mcp.WithString("description",
			mcp.Description("Optional note body"),
		),
		mcp.WithString("stage",
			mcp.Description("Initial stage. Defaults to TO DO."),
		),
		mcp.WithString("due_date",
			mcp.Description("Optional due date, YYYY-MM-DD"),
		),
	)
}

func createLocalTaskHandler(deps *Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewCreateLocalCommand(deps.Store, req.GetString("summary", ""))
		cmd.Description = req.GetString("description", "")
		if stage := req.GetString("stage", ""); stage != "" {
			cmd.Stage = stage
		}
		cmd.DueDate = req.GetString("due_date", "")
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- archive_record ---

func archiveRecordTool() mcp.Tool {
	return mcp.NewTool("archive_record",
		mcp.WithDescription("Archive a record: the file stays in the vault, flagged and hidden from the board."),
		mcp.WithString("key",
			mcp.Description("Record key"),
			mcp.Required(),
		),
	)
}

func archiveRecordHandler(deps *Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewArchiveCommand(deps.Store, req.GetString("key", ""))
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- delete_record ---

func deleteRecordTool() mcp.Tool {
	return mcp.NewTool("delete_record",
		mcp.WithDescription("Delete a locally authored record's file. Remote-mirrored records are refused; archive those instead."),
		mcp.WithString("key",
			mcp.Description("Record key, must start with LOCAL-"),
			mcp.Required(),
		),
	)
}

func deleteRecordHandler(deps *Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewDeleteCommand(deps.Store, req.GetString("key", ""))
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}
