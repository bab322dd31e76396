package profile

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/2beens/gymprofile/internal/telemetry/tracing"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel/attribute"
)

const profileKeyPrefix = "gymstats:profile:"

// RedisStore keeps each profile in a hash, one field per top-level key holding its JSON.
// HSET of only the patched fields gives the merge semantics.
type RedisStore struct {
	redisClient *redis.Client
}

func NewRedisStore(redisClient *redis.Client) *RedisStore {
	return &RedisStore{
		redisClient: redisClient,
	}
}

func profileKey(userID string) string {
	return profileKeyPrefix + userID
}

func (s *RedisStore) Get(ctx context.Context, userID string) (_ *UserProfile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "redis.gymstats.profile.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user_id", userID))

	fields, err := s.redisClient.HGetAll(ctx, profileKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("hgetall: %w", err)
	}
	if len(fields) == 0 {
		return nil, ErrProfileNotFound
	}

	p := NewUserProfile()
	if raw, ok := fields[KeyLastWorkedByCategory]; ok {
		if err := json.Unmarshal([]byte(raw), &p.LastWorkedByCategory); err != nil {
			return nil, fmt.Errorf("unmarshal %s: %w", KeyLastWorkedByCategory, err)
		}
	}
	if raw, ok := fields[KeyLastWorkedByExercise]; ok {
		if err := json.Unmarshal([]byte(raw), &p.LastWorkedByExercise); err != nil {
			return nil, fmt.Errorf("unmarshal %s: %w", KeyLastWorkedByExercise, err)
		}
	}
	if raw, ok := fields[KeyOneRepMaxByExercise]; ok {
		if err := json.Unmarshal([]byte(raw), &p.OneRepMaxByExercise); err != nil {
			return nil, fmt.Errorf("unmarshal %s: %w", KeyOneRepMaxByExercise, err)
		}
	}

	// a stored "null" decodes to a nil map
	return p.Clone(), nil
}

func (s *RedisStore) UpsertMerge(ctx context.Context, userID string, patch Patch) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "redis.gymstats.profile.upsert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user_id", userID))

	values, err := patchFields(patch)
	if err != nil {
		return err
	}
	if len(values) == 0 {
		return nil
	}

	if err := s.redisClient.HSet(ctx, profileKey(userID), values...).Err(); err != nil {
		return fmt.Errorf("hset: %w", err)
	}
	return nil
}

// patchFields flattens the patch into field/value pairs, in a fixed order.
func patchFields(patch Patch) ([]interface{}, error) {
	var values []interface{}
	add := func(field string, v interface{}) error {
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", field, err)
		}
		values = append(values, field, string(b))
		return nil
	}

	if patch.LastWorkedByCategory != nil {
		if err := add(KeyLastWorkedByCategory, patch.LastWorkedByCategory); err != nil {
			return nil, err
		}
	}
	if patch.LastWorkedByExercise != nil {
		if err := add(KeyLastWorkedByExercise, patch.LastWorkedByExercise); err != nil {
			return nil, err
		}
	}
	if patch.OneRepMaxByExercise != nil {
		if err := add(KeyOneRepMaxByExercise, patch.OneRepMaxByExercise); err != nil {
			return nil, err
		}
	}
	return values, nil
}
