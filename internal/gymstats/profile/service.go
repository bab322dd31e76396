package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/2beens/gymprofile/internal/gymstats/workouts"
	"github.com/2beens/gymprofile/internal/telemetry/metrics"
	"github.com/2beens/gymprofile/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=profile_test

var (
	ErrInvalidLog  = errors.New("invalid workout log")
	ErrLogConflict = errors.New("another workout log already has this id")
)

const defaultReconcileTimeout = 2 * time.Minute

type logsRepo interface {
	GetAll(ctx context.Context, userID string) ([]workouts.WorkoutLog, error)
	List(ctx context.Context, filter workouts.Filter) ([]workouts.WorkoutLog, error)
	Get(ctx context.Context, id string) (*workouts.WorkoutLog, error)
	Upsert(ctx context.Context, id string, workoutLog workouts.WorkoutLog) error
	Delete(ctx context.Context, id string) error
}

type profileStore interface {
	Get(ctx context.Context, userID string) (*UserProfile, error)
	UpsertMerge(ctx context.Context, userID string, patch Patch) error
}

type categoryResolver interface {
	ResolveCategory(exerciseName string) string
}

type ServiceParams struct {
	Logs             logsRepo
	Profiles         profileStore
	Library          categoryResolver
	MigrationPolicy  workouts.MigrationPolicy
	MetricsManager   *metrics.Manager
	ReconcileTimeout time.Duration
}

type Service struct {
	logs             logsRepo
	profiles         profileStore
	library          categoryResolver
	migrator         *workouts.Migrator
	metricsManager   *metrics.Manager
	reconcileTimeout time.Duration
	now              func() time.Time

	// scheduled post-login reconciles
	wg sync.WaitGroup
}

func NewService(params ServiceParams) *Service {
	reconcileTimeout := params.ReconcileTimeout
	if reconcileTimeout <= 0 {
		reconcileTimeout = defaultReconcileTimeout
	}
	return &Service{
		logs:             params.Logs,
		profiles:         params.Profiles,
		library:          params.Library,
		migrator:         workouts.NewMigrator(params.Logs, params.MigrationPolicy),
		metricsManager:   params.MetricsManager,
		reconcileTimeout: reconcileTimeout,
		now:              time.Now,
	}
}

// RecordLog stores a new log under its canonical id and folds it into the user's profile.
func (s *Service) RecordLog(ctx context.Context, workoutLog workouts.WorkoutLog) (_ *workouts.WorkoutLog, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.gymstats.record")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user_id", workoutLog.UserID))
	span.SetAttributes(attribute.String("exercise", workoutLog.Exercise))

	if err := s.prepare(&workoutLog); err != nil {
		return nil, err
	}
	if workoutLog.Category == "" {
		workoutLog.Category = s.library.ResolveCategory(workoutLog.Exercise)
	}

	if err := s.logs.Upsert(ctx, workoutLog.ID, workoutLog); err != nil {
		return nil, fmt.Errorf("upsert log: %w", err)
	}
	s.metricsManager.CounterLogsRecorded.Inc()

	if err := s.fold(ctx, workoutLog); err != nil {
		return &workoutLog, fmt.Errorf("fold log into profile: %w", err)
	}

	return &workoutLog, nil
}

// UpdateLog replaces the log stored under id. A fold cannot retract keys or lower
// values, so the profile is recomputed whole when the exercise or category changed
// or when the previous version of the log held the exercise recency or one-rep max.
// An edit whose new id belongs to another log fails with ErrLogConflict.
func (s *Service) UpdateLog(ctx context.Context, id string, workoutLog workouts.WorkoutLog) (_ *workouts.WorkoutLog, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.gymstats.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", id))

	prev, err := s.logs.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get log %s: %w", id, err)
	}

	if workoutLog.UserID == "" {
		workoutLog.UserID = prev.UserID
	}
	if workoutLog.UserID != prev.UserID {
		return nil, fmt.Errorf("%w: log %s belongs to another user", ErrInvalidLog, id)
	}
	if workoutLog.Exercise == "" {
		workoutLog.Exercise = prev.Exercise
	}
	if workoutLog.Date == "" {
		workoutLog.Date = prev.Date
	}
	if workoutLog.Category == "" {
		if workoutLog.Exercise == prev.Exercise && prev.Category != "" {
			workoutLog.Category = prev.Category
		} else {
			workoutLog.Category = s.library.ResolveCategory(workoutLog.Exercise)
		}
	}
	if err := s.prepare(&workoutLog); err != nil {
		return nil, err
	}

	if workoutLog.ID != id {
		_, err := s.logs.Get(ctx, workoutLog.ID)
		switch {
		case err == nil:
			return nil, fmt.Errorf("%w: %s", ErrLogConflict, workoutLog.ID)
		case !errors.Is(err, workouts.ErrLogNotFound):
			return nil, fmt.Errorf("get log %s: %w", workoutLog.ID, err)
		}
	}

	recompute := prev.Exercise != workoutLog.Exercise || prev.Category != workoutLog.Category
	if !recompute {
		existing, err := s.profiles.Get(ctx, prev.UserID)
		switch {
		case errors.Is(err, ErrProfileNotFound):
		case err != nil:
			log.Warnf("update log [%s]: get profile: %s", id, err)
			recompute = true
		default:
			recompute = HeldBy(existing, *prev)
		}
	}

	if err := workouts.Relocate(ctx, s.logs, id, workoutLog); err != nil {
		var partialErr *workouts.PartialFailureError
		if !errors.As(err, &partialErr) {
			return nil, fmt.Errorf("relocate log: %w", err)
		}
		s.metricsManager.CounterMigrationPartialFailures.Inc()
		log.Warnf("update log: %s", err)
	}

	if recompute {
		if _, err := s.Recompute(ctx, workoutLog.UserID); err != nil {
			return &workoutLog, err
		}
		return &workoutLog, nil
	}

	if err := s.fold(ctx, workoutLog); err != nil {
		return &workoutLog, fmt.Errorf("fold log into profile: %w", err)
	}
	return &workoutLog, nil
}

// prepare validates the log and stamps the fields the service owns.
func (s *Service) prepare(workoutLog *workouts.WorkoutLog) error {
	workoutLog.UserID = strings.TrimSpace(workoutLog.UserID)
	workoutLog.Exercise = strings.TrimSpace(workoutLog.Exercise)
	if workoutLog.UserID == "" {
		return fmt.Errorf("%w: missing user id", ErrInvalidLog)
	}
	if workoutLog.Exercise == "" {
		return fmt.Errorf("%w: missing exercise", ErrInvalidLog)
	}

	now := s.now()
	if strings.TrimSpace(workoutLog.Date) == "" {
		workoutLog.Date = workouts.FormatDate(now)
	} else if _, ok := workouts.ParseDate(workoutLog.Date); !ok {
		return fmt.Errorf("%w: unparsable date [%s]", ErrInvalidLog, workoutLog.Date)
	}

	for i := range workoutLog.Sets {
		set := &workoutLog.Sets[i]
		if set.Weight == nil && set.Pounds != nil {
			set.Weight, set.Pounds = set.Pounds, nil
		}
		if set.Weight != nil && set.Pounds != nil && *set.Weight == *set.Pounds {
			set.Pounds = nil
		}
	}

	workoutLog.LegacyID = nil
	workoutLog.SchemaVersion = workouts.CurrentSchemaVersion
	workoutLog.ID = workoutLog.CanonicalID(now)
	return nil
}

// fold merges one changed log into the stored profile, writing only the keys it touched.
func (s *Service) fold(ctx context.Context, changed workouts.WorkoutLog) error {
	existing, err := s.profiles.Get(ctx, changed.UserID)
	if errors.Is(err, ErrProfileNotFound) {
		existing = NewUserProfile()
	} else if err != nil {
		return fmt.Errorf("get profile: %w", err)
	}

	var categoryLogs []workouts.WorkoutLog
	if changed.Category != "" {
		categoryLogs, err = s.logs.List(ctx, workouts.Filter{
			UserID:   changed.UserID,
			Category: changed.Category,
		})
		if err != nil {
			return fmt.Errorf("list category logs: %w", err)
		}
	}

	_, patch := FoldLog(existing, changed, categoryLogs)
	if patch.IsEmpty() {
		return nil
	}

	if err := s.profiles.UpsertMerge(ctx, changed.UserID, patch); err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	s.metricsManager.CounterProfileFolds.Inc()
	log.Debugf("profile of [%s] folded, keys %v", changed.UserID, patch.Keys())
	return nil
}

// Recompute rebuilds the user's profile from all logs and writes it whole.
// Nothing is written when reading the logs fails.
func (s *Service) Recompute(ctx context.Context, userID string) (_ *UserProfile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.gymstats.recompute")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user_id", userID))

	start := time.Now()
	defer func() {
		status := "ok"
		if err != nil {
			status = "error"
		}
		s.metricsManager.CounterProfileRecomputes.WithLabelValues(status).Inc()
		s.metricsManager.HistRecomputeDuration.Observe(time.Since(start).Seconds())
	}()

	logs, err := s.logs.GetAll(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get all logs: %w", err)
	}
	span.SetAttributes(attribute.Int("logs", len(logs)))

	p := RecomputeProfile(logs)
	if err := s.profiles.UpsertMerge(ctx, userID, FullPatch(p)); err != nil {
		return nil, fmt.Errorf("upsert profile: %w", err)
	}

	return p, nil
}

func (s *Service) Migrate(ctx context.Context, userID string) (*workouts.MigrationReport, error) {
	report, err := s.migrator.MigrateUser(ctx, userID)
	if report != nil {
		s.metricsManager.CounterMigratedLogs.Add(float64(report.Migrated))
		s.metricsManager.CounterMigrationPartialFailures.Add(float64(report.PartialFailures))
	}
	return report, err
}

// Reconcile migrates the user's legacy logs and then recomputes the profile.
// The recompute runs even when some records failed to migrate.
func (s *Service) Reconcile(ctx context.Context, userID string) (_ *UserProfile, _ *workouts.MigrationReport, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.gymstats.reconcile")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user_id", userID))

	report, migrateErr := s.Migrate(ctx, userID)
	if migrateErr != nil {
		log.Warnf("reconcile [%s]: migrate: %s", userID, migrateErr)
	}

	p, recomputeErr := s.Recompute(ctx, userID)
	return p, report, multierr.Combine(migrateErr, recomputeErr)
}

// AfterLogin schedules a reconcile for the user who just logged in.
// It does not block; the work outlives the request context up to the reconcile timeout.
func (s *Service) AfterLogin(ctx context.Context, userID string) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.reconcileTimeout)
		defer cancel()

		p, report, err := s.Reconcile(ctx, userID)
		if err != nil {
			log.Errorf("post login reconcile [%s]: %s", userID, err)
			return
		}
		log.Debugf(
			"post login reconcile [%s]: migrated %d/%d logs, %d exercises",
			userID, report.Migrated, report.Scanned, len(p.LastWorkedByExercise),
		)
	}()
}

// Wait blocks until all scheduled post-login reconciles finish.
func (s *Service) Wait() {
	s.wg.Wait()
}

// Profile returns the user's profile. A user without one gets an empty profile.
func (s *Service) Profile(ctx context.Context, userID string) (*UserProfile, error) {
	p, err := s.profiles.Get(ctx, userID)
	if errors.Is(err, ErrProfileNotFound) {
		return NewUserProfile(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

func (s *Service) Logs(ctx context.Context, filter workouts.Filter) ([]workouts.WorkoutLog, error) {
	logs, err := s.logs.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	return logs, nil
}
