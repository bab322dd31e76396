package workouts

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/2beens/gymprofile/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const selectLogColumns = `SELECT id, user_id, exercise, category, date, sets, legacy_id, schema_version FROM workout_log`

type PsqlRepo struct {
	db *pgxpool.Pool
}

func NewPsqlRepo(db *pgxpool.Pool) *PsqlRepo {
	return &PsqlRepo{
		db: db,
	}
}

func (r *PsqlRepo) GetAll(ctx context.Context, userID string) (_ []WorkoutLog, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.logs.getall")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user_id", userID))

	rows, err := r.db.Query(ctx, selectLogColumns+` WHERE user_id = $1;`, userID)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	logs, err := r.rows2logs(rows)
	if err != nil {
		return nil, fmt.Errorf("rows2logs: %w", err)
	}
	span.SetAttributes(attribute.Int("count", len(logs)))
	return logs, nil
}

func (r *PsqlRepo) List(ctx context.Context, filter Filter) (_ []WorkoutLog, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.logs.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user_id", filter.UserID))
	span.SetAttributes(attribute.String("category", filter.Category))

	rows, err := r.db.Query(
		ctx,
		selectLogColumns+`
			WHERE user_id = $1
			AND ($2::text = '' OR category = $2);`,
		filter.UserID, filter.Category,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	logs, err := r.rows2logs(rows)
	if err != nil {
		return nil, fmt.Errorf("rows2logs: %w", err)
	}
	return logs, nil
}

func (r *PsqlRepo) Get(ctx context.Context, id string) (_ *WorkoutLog, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.logs.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", id))

	rows, err := r.db.Query(ctx, selectLogColumns+` WHERE id = $1;`, id)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	logs, err := r.rows2logs(rows)
	if err != nil {
		return nil, fmt.Errorf("rows2logs: %w", err)
	}
	if len(logs) != 1 {
		return nil, ErrLogNotFound
	}
	return &logs[0], nil
}

func (r *PsqlRepo) Upsert(ctx context.Context, id string, workoutLog WorkoutLog) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.logs.upsert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", id))

	sets := workoutLog.Sets
	if sets == nil {
		sets = []SetEntry{}
	}
	setsJson, err := json.Marshal(sets)
	if err != nil {
		return fmt.Errorf("marshal sets: %w", err)
	}

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO workout_log
				(id, user_id, exercise, category, date, sets, legacy_id, schema_version)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (id) DO UPDATE SET
				user_id = EXCLUDED.user_id,
				exercise = EXCLUDED.exercise,
				category = EXCLUDED.category,
				date = EXCLUDED.date,
				sets = EXCLUDED.sets,
				legacy_id = EXCLUDED.legacy_id,
				schema_version = EXCLUDED.schema_version;`,
		id, workoutLog.UserID, workoutLog.Exercise, workoutLog.Category, workoutLog.Date,
		setsJson, workoutLog.LegacyID, workoutLog.SchemaVersion,
	)
	return err
}

func (r *PsqlRepo) Delete(ctx context.Context, id string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.logs.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", id))

	tag, err := r.db.Exec(ctx, `DELETE FROM workout_log WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrLogNotFound
	}
	return nil
}

func (r *PsqlRepo) UserIDs(ctx context.Context) (_ []string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.logs.userids")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `SELECT DISTINCT user_id FROM workout_log ORDER BY user_id;`)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	userIDs, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("collect rows: %w", err)
	}
	return userIDs, nil
}

func (r *PsqlRepo) rows2logs(rows pgx.Rows) ([]WorkoutLog, error) {
	logs := make([]WorkoutLog, 0)
	for rows.Next() {
		var l WorkoutLog
		var setsBytes []byte
		if err := rows.Scan(
			&l.ID, &l.UserID, &l.Exercise, &l.Category, &l.Date,
			&setsBytes, &l.LegacyID, &l.SchemaVersion,
		); err != nil {
			return nil, err
		}

		// a broken sets document only costs this log its sets
		if len(setsBytes) > 0 {
			if err := json.Unmarshal(setsBytes, &l.Sets); err != nil {
				log.Warnf("unmarshal sets for log [%s]: %s", l.ID, err)
				l.Sets = nil
			}
		}

		logs = append(logs, l)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return logs, nil
}
