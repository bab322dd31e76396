package mcp

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/2beens/gymprofile/internal/gymstats/library"
	"github.com/2beens/gymprofile/internal/gymstats/profile"
	"github.com/2beens/gymprofile/internal/gymstats/workouts"
)

// ErrNoSchema is returned when the logs are not kept in postgres.
var ErrNoSchema = errors.New("schema not available: logs are not stored in postgres")

// profileService is the part of profile.Service the MCP tools use.
type profileService interface {
	Profile(ctx context.Context, userID string) (*profile.UserProfile, error)
	Logs(ctx context.Context, filter workouts.Filter) ([]workouts.WorkoutLog, error)
	Recompute(ctx context.Context, userID string) (*profile.UserProfile, error)
}

type exerciseLibrary interface {
	Exercises() []library.Exercise
}

// contextService provides gymstats context data (schema, profiles, logs, library).
// Used by Handler for testability.
type contextService interface {
	GetSchema(ctx context.Context) (string, error)
	GetProfile(ctx context.Context, userID string) (*profile.UserProfile, error)
	ListLogs(ctx context.Context, query LogsQuery) ([]workouts.WorkoutLog, error)
	RecomputeProfile(ctx context.Context, userID string) (*profile.UserProfile, error)
	GetExerciseLibrary(category string) []library.Exercise
}

// LogsQuery narrows down listed logs. From and To are inclusive.
type LogsQuery struct {
	UserID   string
	Category string
	Exercise string
	From     *time.Time
	To       *time.Time
}

// ContextService holds dependencies and implements the gymstats context business logic.
type ContextService struct {
	schema   SchemaRepo
	profiles profileService
	library  exerciseLibrary
}

// NewContextService builds a ContextService. schemaRepo may be nil when logs are kept in memory.
func NewContextService(schemaRepo SchemaRepo, profiles profileService, lib exerciseLibrary) *ContextService {
	return &ContextService{
		schema:   schemaRepo,
		profiles: profiles,
		library:  lib,
	}
}

// GetSchema returns the DB schema (table names, columns, types) of the workout log table.
func (s *ContextService) GetSchema(ctx context.Context) (string, error) {
	if s.schema == nil {
		return "", ErrNoSchema
	}
	cols, err := s.schema.GetGymstatsColumns(ctx)
	if err != nil {
		return "", err
	}
	return formatGymstatsSchema(cols), nil
}

func formatGymstatsSchema(cols []SchemaColumn) string {
	if len(cols) == 0 {
		return "# Gymstats DB Schema\n\nNo gymstats tables found in the database.\n"
	}

	byTable := make(map[string][]SchemaColumn)
	for _, c := range cols {
		byTable[c.TableName] = append(byTable[c.TableName], c)
	}

	tableOrder := make([]string, 0, len(byTable))
	for t := range byTable {
		tableOrder = append(tableOrder, t)
	}
	sort.Strings(tableOrder)

	var b strings.Builder
	b.WriteString("# Gymstats DB Schema\n\n")
	b.WriteString("Tables: workout_log (schema: public). Profiles live in redis hashes gymstats:profile:<user>.\n\n")

	for _, tableName := range tableOrder {
		b.WriteString("## ")
		b.WriteString(tableName)
		b.WriteString("\n\n| Column | Type | Nullable | Default |\n|--------|------|----------|--------|\n")
		for _, c := range byTable[tableName] {
			def := "-"
			if c.ColumnDef != nil && *c.ColumnDef != "" {
				def = *c.ColumnDef
			}
			b.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n", c.ColumnName, c.DataType, c.IsNullable, def))
		}
		b.WriteString("\n")
	}

	return strings.TrimSuffix(b.String(), "\n\n") + "\n"
}

func (s *ContextService) GetProfile(ctx context.Context, userID string) (*profile.UserProfile, error) {
	return s.profiles.Profile(ctx, userID)
}

// ListLogs returns the user's logs matching the query, oldest first.
// With a date range set, logs without a parseable date are left out.
func (s *ContextService) ListLogs(ctx context.Context, query LogsQuery) ([]workouts.WorkoutLog, error) {
	logs, err := s.profiles.Logs(ctx, workouts.Filter{
		UserID:   query.UserID,
		Category: query.Category,
	})
	if err != nil {
		return nil, err
	}

	type datedLog struct {
		log     workouts.WorkoutLog
		instant time.Time
		ok      bool
	}

	filtered := make([]datedLog, 0, len(logs))
	for _, l := range logs {
		if query.Exercise != "" && !strings.EqualFold(strings.TrimSpace(l.Exercise), strings.TrimSpace(query.Exercise)) {
			continue
		}
		instant, ok := l.Instant()
		if query.From != nil || query.To != nil {
			if !ok {
				continue
			}
			if query.From != nil && instant.Before(*query.From) {
				continue
			}
			if query.To != nil && instant.After(*query.To) {
				continue
			}
		}
		filtered = append(filtered, datedLog{log: l, instant: instant, ok: ok})
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		a, b := filtered[i], filtered[j]
		if a.ok != b.ok {
			return a.ok
		}
		if !a.instant.Equal(b.instant) {
			return a.instant.Before(b.instant)
		}
		return a.log.ID < b.log.ID
	})

	result := make([]workouts.WorkoutLog, len(filtered))
	for i, dl := range filtered {
		result[i] = dl.log
	}
	return result, nil
}

func (s *ContextService) RecomputeProfile(ctx context.Context, userID string) (*profile.UserProfile, error) {
	return s.profiles.Recompute(ctx, userID)
}

// GetExerciseLibrary returns library exercises, optionally only those of one category.
func (s *ContextService) GetExerciseLibrary(category string) []library.Exercise {
	all := s.library.Exercises()
	if category == "" {
		return all
	}
	var filtered []library.Exercise
	for _, e := range all {
		if strings.EqualFold(e.Category, category) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}
