package internal

import (
	"context"
	"fmt"

	"github.com/2beens/gymprofile/internal/config"
	"github.com/2beens/gymprofile/internal/db"
	"github.com/2beens/gymprofile/internal/gymstats/library"
	gymstatsmcp "github.com/2beens/gymprofile/internal/gymstats/mcp"
	"github.com/2beens/gymprofile/internal/gymstats/profile"
	"github.com/2beens/gymprofile/internal/gymstats/workouts"
	"github.com/2beens/gymprofile/internal/telemetry/metrics"

	"github.com/coocood/freecache"
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// Storage holds the log and profile stores picked by config.
// SchemaRepo and DBPool are nil with in-memory storage.
type Storage struct {
	Logs       workouts.Store
	Profiles   profile.Store
	SchemaRepo gymstatsmcp.SchemaRepo
	DBPool     *pgxpool.Pool
}

// OpenStorage connects the configured storage. Profiles go to redis when logs
// are in postgres, and stay in memory otherwise.
func OpenStorage(ctx context.Context, cfg *config.Config, rdb *redis.Client, tracingEnabled bool) (*Storage, error) {
	if cfg.Storage == "memory" {
		log.Warnln("using in-memory storage, nothing will survive a restart")
		return &Storage{
			Logs:     workouts.NewMemoryRepo(),
			Profiles: profile.NewMemoryStore(),
		}, nil
	}

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         cfg.DBHost,
		DBPort:         cfg.DBPort,
		DBName:         cfg.DBName,
		TracingEnabled: tracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}
	if err := db.EnsureSchema(ctx, dbPool); err != nil {
		dbPool.Close()
		return nil, err
	}

	return &Storage{
		Logs:       workouts.NewPsqlRepo(dbPool),
		Profiles:   profile.NewRedisStore(rdb),
		SchemaRepo: gymstatsmcp.NewPoolSchemaRepo(dbPool),
		DBPool:     dbPool,
	}, nil
}

func (s *Storage) Close() {
	if s.DBPool != nil {
		log.Debugln("closing db pool ...")
		s.DBPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}
}

// NewProfileService builds the profile service on top of the storage, with a
// freecache read-through cache in front of the profile store.
func NewProfileService(
	cfg *config.Config,
	st *Storage,
	lib *library.Library,
	metricsManager *metrics.Manager,
) *profile.Service {
	cacheSize := cfg.ProfileCacheSizeMB * 1024 * 1024
	profiles := profile.NewCachedStore(st.Profiles, freecache.NewCache(cacheSize), cfg.ProfileCacheTTL)

	return profile.NewService(profile.ServiceParams{
		Logs:     st.Logs,
		Profiles: profiles,
		Library:  lib,
		MigrationPolicy: workouts.MigrationPolicy{
			LegacyYear:           cfg.LegacyYear,
			AcceptedYear:         cfg.AcceptedYear,
			CurrentSchemaVersion: workouts.CurrentSchemaVersion,
		},
		MetricsManager:   metricsManager,
		ReconcileTimeout: cfg.ReconcileTimeout,
	})
}
