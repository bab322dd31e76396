package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer builds an MCP server with gymstats tools: schema, profile, workout logs,
// profile recompute, exercise library.
// Used by the main backend when mounting MCP at /mcp, and by cmd/gymstats_mcp over stdio.
func NewServer(svc *ContextService) *mcp.Server {
	h := NewHandler(svc)
	s := mcp.NewServer(&mcp.Implementation{
		Name:    "gymstats-context",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_gymstats_context",
		Description: "Returns the DB schema of the workout_log table: columns, types, nullable, default. Use when you need the actual backend schema.",
	}, h.GetGymstatsContextTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_profile",
		Description: "Returns the derived profile of a user: last worked date per category and per exercise, and the best estimated one-rep-max per exercise (value, reps, date). Arg: user_id.",
	}, h.GetProfileTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "list_workout_logs",
		Description: "Returns the workout logs of a user, oldest first. Optional filters: from_date, to_date (YYYY-MM-DD), category, exercise. Use when you need the raw sets behind the profile.",
	}, h.ListWorkoutLogsTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "recompute_profile",
		Description: "Rebuilds the profile of a user from all stored logs and returns it. Arg: user_id. Use when the profile looks stale.",
	}, h.RecomputeProfileTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_exercise_library",
		Description: "Returns the known exercises with their category and tracked fields. Optional filter: category.",
	}, h.GetExerciseLibraryTool())

	return s
}
