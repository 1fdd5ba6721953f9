package mcp

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/meltforce/rowplan/internal/models"
)

// PlanSource generates workout plans. Both *planner.Gateway (local) and
// *client.Client (remote via REST API) satisfy this interface.
type PlanSource interface {
	Generate(ctx context.Context, periods []models.TrainingPeriod) (models.WorkoutPlan, error)
}

// New creates an MCP server with all tools and resources registered.
func New(src PlanSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("rowplan", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("Rowing training plan server. Generate day-by-day workout schedules from training periods, each with a percentage distribution across the UT2, UT1, AT, TR and AN intensity zones, and render plans as CSV."),
	)

	h := &handlers{src: src, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolGenerateWorkoutPlan, Handler: h.generateWorkoutPlan},
		server.ServerTool{Tool: toolRenderPlanCSV, Handler: h.renderPlanCSV},
		server.ServerTool{Tool: toolListIntensities, Handler: h.listIntensities},
	)

	s.AddResources(
		server.ServerResource{Resource: resIntensityCatalog, Handler: h.intensityCatalog},
	)

	return s
}

// NewHTTPHandler serves s over the streamable HTTP transport.
func NewHTTPHandler(s *server.MCPServer) *server.StreamableHTTPServer {
	return server.NewStreamableHTTPServer(s)
}

// ServeStdio runs s over stdin/stdout until the input closes.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	src PlanSource
	log *slog.Logger
}

var resIntensityCatalog = mcp.NewResource(
	"rowplan://intensities",
	"Intensity Catalog",
	mcp.WithResourceDescription("The five rowing intensity zones with their meanings"),
	mcp.WithMIMEType("application/json"),
)
