package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Handler handles MCP tool requests and responses: parses input, calls the service, formats MCP result.
type Handler struct {
	service contextService
}

// NewHandler builds a handler with the given service.
func NewHandler(service contextService) *Handler {
	return &Handler{
		service: service,
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}

func jsonResult(v any) *mcp.CallToolResult {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult("Error encoding response: " + err.Error())
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
	}
}

// GetGymstatsContextTool returns the MCP tool handler for get_gymstats_context.
func (h *Handler) GetGymstatsContextTool() func(context.Context, *mcp.CallToolRequest, any) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ any) (*mcp.CallToolResult, any, error) {
		text, err := h.service.GetSchema(ctx)
		if err != nil {
			return errorResult("Error fetching schema: " + err.Error()), nil, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: text}},
		}, nil, nil
	}
}

// UserInput is the input for the per-user tools.
type UserInput struct {
	UserID string `json:"user_id" jsonschema:"The user whose data is requested"`
}

// GetProfileTool returns the MCP tool handler for get_profile.
func (h *Handler) GetProfileTool() func(context.Context, *mcp.CallToolRequest, UserInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in UserInput) (*mcp.CallToolResult, any, error) {
		if in.UserID == "" {
			return errorResult("Missing user_id"), nil, nil
		}
		p, err := h.service.GetProfile(ctx, in.UserID)
		if err != nil {
			return errorResult("Error fetching profile: " + err.Error()), nil, nil
		}
		return jsonResult(p), nil, nil
	}
}

// RecomputeProfileTool returns the MCP tool handler for recompute_profile.
func (h *Handler) RecomputeProfileTool() func(context.Context, *mcp.CallToolRequest, UserInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in UserInput) (*mcp.CallToolResult, any, error) {
		if in.UserID == "" {
			return errorResult("Missing user_id"), nil, nil
		}
		p, err := h.service.RecomputeProfile(ctx, in.UserID)
		if err != nil {
			return errorResult("Error recomputing profile: " + err.Error()), nil, nil
		}
		return jsonResult(p), nil, nil
	}
}

// WorkoutLogsInput is the input for list_workout_logs.
type WorkoutLogsInput struct {
	UserID   string `json:"user_id" jsonschema:"The user whose logs are listed"`
	FromDate string `json:"from_date,omitempty" jsonschema:"Start date (YYYY-MM-DD)"`
	ToDate   string `json:"to_date,omitempty" jsonschema:"End date (YYYY-MM-DD), inclusive"`
	Category string `json:"category,omitempty" jsonschema:"Filter by category (e.g. Lower Body)"`
	Exercise string `json:"exercise,omitempty" jsonschema:"Filter by exercise name (e.g. Bench)"`
}

// ListWorkoutLogsTool returns the MCP tool handler for list_workout_logs.
func (h *Handler) ListWorkoutLogsTool() func(context.Context, *mcp.CallToolRequest, WorkoutLogsInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in WorkoutLogsInput) (*mcp.CallToolResult, any, error) {
		if in.UserID == "" {
			return errorResult("Missing user_id"), nil, nil
		}

		query := LogsQuery{
			UserID:   in.UserID,
			Category: in.Category,
			Exercise: in.Exercise,
		}
		if in.FromDate != "" {
			from, err := time.Parse("2006-01-02", in.FromDate)
			if err != nil {
				return errorResult("Invalid from_date: use YYYY-MM-DD"), nil, nil
			}
			query.From = &from
		}
		if in.ToDate != "" {
			to, err := time.Parse("2006-01-02", in.ToDate)
			if err != nil {
				return errorResult("Invalid to_date: use YYYY-MM-DD"), nil, nil
			}
			to = time.Date(to.Year(), to.Month(), to.Day(), 23, 59, 59, 999999999, to.Location())
			query.To = &to
		}

		logs, err := h.service.ListLogs(ctx, query)
		if err != nil {
			return errorResult("Error listing workout logs: " + err.Error()), nil, nil
		}
		return jsonResult(logs), nil, nil
	}
}

// LibraryInput is the input for get_exercise_library.
type LibraryInput struct {
	Category string `json:"category,omitempty" jsonschema:"Filter by category (e.g. Core)"`
}

// GetExerciseLibraryTool returns the MCP tool handler for get_exercise_library.
func (h *Handler) GetExerciseLibraryTool() func(context.Context, *mcp.CallToolRequest, LibraryInput) (*mcp.CallToolResult, any, error) {
	return func(_ context.Context, _ *mcp.CallToolRequest, in LibraryInput) (*mcp.CallToolResult, any, error) {
		return jsonResult(h.service.GetExerciseLibrary(in.Category)), nil, nil
	}
}
