package main

import (
	"context"
	"flag"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"jiraflow/internal/adapters/jira"
	mcpadapter "jiraflow/internal/adapters/mcp"
	"jiraflow/internal/adapters/vault"
	"jiraflow/internal/application"
	"jiraflow/internal/application/commands"
	"jiraflow/internal/config"
)

func main() {
	configFlag := flag.String("config", config.Path(), "path to the config file")
	flag.Parse()

	cfg, err := config.LoadFile(*configFlag)
	if err != nil {
		log.Fatalf("jiraflow-mcp: %v", err)
	}

	deps := &mcpadapter.Deps{
		Store:   vault.NewStore(cfg.Vault.TasksDir()),
		WorkLog: vault.NewDailyWorkLog(cfg.Vault.DailyDir()),
		Guard:   &commands.SyncGuard{},
		Normalizer: application.Normalizer{
			StoryPointsField: cfg.Jira.StoryPointsField,
			DueDateField:     cfg.Jira.DueDateField,
		},
		ProjectKey: cfg.Jira.ProjectKey,
		Filter:     cfg.Jira.Filter,
	}
	if cfg.Configured() {
		deps.Tracker = jira.NewClient(cfg.Jira.Host, cfg.Jira.Email, cfg.Jira.APIToken)
	}

	mcpServer := server.NewMCPServer(
		"jiraflow-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check — returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	mcpadapter.RegisterReadTools(mcpServer, deps)
	mcpadapter.RegisterWriteTools(mcpServer, deps)

	if err := server.ServeStdio(mcpServer); err != nil {
		log.Fatalf("jiraflow-mcp: %v", err)
	}
}
