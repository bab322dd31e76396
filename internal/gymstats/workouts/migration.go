package workouts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/2beens/gymprofile/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"
)

type MigrationReason string

const (
	ReasonLegacyYear       MigrationReason = "legacy_year"
	ReasonNonCanonicalID   MigrationReason = "non_canonical_id"
	ReasonLegacyIDField    MigrationReason = "legacy_id_field"
	ReasonOldSchemaVersion MigrationReason = "old_schema_version"
)

// MigrationPolicy decides which stored logs must be rewritten and how.
type MigrationPolicy struct {
	// LegacyYear is the mistyped year old clients wrote, AcceptedYear replaces it.
	// An empty LegacyYear disables the year check.
	LegacyYear           string
	AcceptedYear         string
	CurrentSchemaVersion int
}

func DefaultMigrationPolicy() MigrationPolicy {
	return MigrationPolicy{
		LegacyYear:           "2024",
		AcceptedYear:         "2025",
		CurrentSchemaVersion: CurrentSchemaVersion,
	}
}

func (p MigrationPolicy) yearCheckEnabled() bool {
	return p.LegacyYear != "" && p.LegacyYear != p.AcceptedYear
}

// hasLegacyYear matches the year only as the leading date component. Ids lead with
// the date too, so user ids or exercise names containing the year are left alone.
func (p MigrationPolicy) hasLegacyYear(s string) bool {
	return p.yearCheckEnabled() && strings.HasPrefix(s, p.LegacyYear+"-")
}

// Reasons lists why the stored log (keyed by l.ID) needs migration. Empty means it is up to date.
func (p MigrationPolicy) Reasons(l WorkoutLog, now time.Time) []MigrationReason {
	var reasons []MigrationReason
	if p.hasLegacyYear(l.ID) || p.hasLegacyYear(l.Date) {
		reasons = append(reasons, ReasonLegacyYear)
	}
	if l.ID != l.CanonicalID(now) {
		reasons = append(reasons, ReasonNonCanonicalID)
	}
	if l.LegacyID != nil {
		reasons = append(reasons, ReasonLegacyIDField)
	}
	if l.SchemaVersion < p.CurrentSchemaVersion {
		reasons = append(reasons, ReasonOldSchemaVersion)
	}
	return reasons
}

func (p MigrationPolicy) NeedsMigration(l WorkoutLog, now time.Time) bool {
	return len(p.Reasons(l, now)) > 0
}

// Rewrite returns the corrected content of l, keyed by its new canonical id.
// The input is left untouched.
func (p MigrationPolicy) Rewrite(l WorkoutLog, now time.Time) WorkoutLog {
	out := l
	switch {
	case strings.TrimSpace(out.Date) == "":
		out.Date = FormatDate(now)
	case p.hasLegacyYear(out.Date):
		out.Date = p.AcceptedYear + strings.TrimPrefix(out.Date, p.LegacyYear)
	}

	out.LegacyID = nil
	out.SchemaVersion = p.CurrentSchemaVersion

	out.Sets = make([]SetEntry, len(l.Sets))
	for i, s := range l.Sets {
		out.Sets[i] = normalizeSet(s)
	}

	out.ID = out.CanonicalID(now)
	return out
}

// normalizeSet moves a lone legacy pounds value into weight. When both are
// present and equal the duplicate is dropped; when they differ both are kept.
func normalizeSet(s SetEntry) SetEntry {
	if s.Pounds == nil {
		return s
	}
	if s.Weight == nil {
		s.Weight, s.Pounds = s.Pounds, nil
		return s
	}
	if *s.Weight == *s.Pounds {
		s.Pounds = nil
	}
	return s
}

// PartialFailureError reports a migration whose new record was written
// but whose old record could not be removed. Both copies now exist;
// re-running the migration retries the delete.
type PartialFailureError struct {
	OldID string
	NewID string
	Err   error
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("migrated %s -> %s, delete old: %s", e.OldID, e.NewID, e.Err)
}

func (e *PartialFailureError) Unwrap() error {
	return e.Err
}

type relocateStore interface {
	Upsert(ctx context.Context, id string, workoutLog WorkoutLog) error
	Delete(ctx context.Context, id string) error
}

// Relocate writes l under l.ID and only then removes oldID, if it differs.
// A failed write leaves the old record authoritative.
func Relocate(ctx context.Context, store relocateStore, oldID string, l WorkoutLog) error {
	if err := store.Upsert(ctx, l.ID, l); err != nil {
		return fmt.Errorf("upsert %s: %w", l.ID, err)
	}
	if oldID == "" || oldID == l.ID {
		return nil
	}
	if err := store.Delete(ctx, oldID); err != nil && !errors.Is(err, ErrLogNotFound) {
		return &PartialFailureError{OldID: oldID, NewID: l.ID, Err: err}
	}
	return nil
}

type MigrationReport struct {
	Scanned         int `json:"scanned"`
	Flagged         int `json:"flagged"`
	Migrated        int `json:"migrated"`
	PartialFailures int `json:"partialFailures"`
	// Warnings combines the partial failures, nil when there were none.
	Warnings error `json:"-"`
}

type migrationStore interface {
	relocateStore
	GetAll(ctx context.Context, userID string) ([]WorkoutLog, error)
}

type Migrator struct {
	store  migrationStore
	policy MigrationPolicy
	now    func() time.Time
}

func NewMigrator(store migrationStore, policy MigrationPolicy) *Migrator {
	return &Migrator{
		store:  store,
		policy: policy,
		now:    time.Now,
	}
}

func (m *Migrator) Policy() MigrationPolicy {
	return m.policy
}

// MigrateUser rewrites every flagged log of the user. Records are independent:
// a failed record does not stop the others, and all write failures are returned combined.
func (m *Migrator) MigrateUser(ctx context.Context, userID string) (_ *MigrationReport, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "migrator.gymstats.user")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user_id", userID))

	logs, err := m.store.GetAll(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get all logs: %w", err)
	}

	now := m.now()
	report := &MigrationReport{Scanned: len(logs)}
	var writeErrs error
	for _, l := range logs {
		reasons := m.policy.Reasons(l, now)
		if len(reasons) == 0 {
			continue
		}
		report.Flagged++
		log.Debugf("migrating log [%s] reasons %v", l.ID, reasons)

		migrated := m.policy.Rewrite(l, now)
		relocateErr := Relocate(ctx, m.store, l.ID, migrated)

		var partialErr *PartialFailureError
		switch {
		case relocateErr == nil:
			report.Migrated++
		case errors.As(relocateErr, &partialErr):
			report.Migrated++
			report.PartialFailures++
			report.Warnings = multierr.Append(report.Warnings, relocateErr)
			log.Warnf("log migration partially failed: %s", relocateErr)
		default:
			writeErrs = multierr.Append(writeErrs, fmt.Errorf("migrate %s: %w", l.ID, relocateErr))
		}
	}

	span.SetAttributes(
		attribute.Int("scanned", report.Scanned),
		attribute.Int("flagged", report.Flagged),
		attribute.Int("migrated", report.Migrated),
		attribute.Int("partial_failures", report.PartialFailures),
	)

	return report, writeErrs
}
