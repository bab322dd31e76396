// Package main migrates stored workout logs and rebuilds profiles from them,
// for one user or for every user that has logs.
package main

import (
	"context"
	"flag"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/2beens/gymprofile/internal"
	"github.com/2beens/gymprofile/internal/config"
	"github.com/2beens/gymprofile/internal/gymstats/library"
	"github.com/2beens/gymprofile/internal/logging"
	"github.com/2beens/gymprofile/internal/telemetry/metrics"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	userID := flag.String("user", "", "user to reconcile; all users with logs if empty")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %s", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	secrets, err := config.LoadSecrets(ctx)
	if err != nil {
		log.Fatalf("load secrets: %s", err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogToStdout:      true,
		LogLevel:         cfg.LogLevel,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        secrets.SentryDSN,
		SentryServerName: "gymprofile-reconcile",
	})

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: secrets.RedisPassword,
	})
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Errorf("close redis client: %s", err)
		}
	}()

	st, err := internal.OpenStorage(ctx, cfg, rdb, false)
	if err != nil {
		log.Fatalf("open storage: %s", err)
	}
	defer st.Close()

	lib, err := library.LoadOrDefault(cfg.LibraryPath)
	if err != nil {
		log.Fatalf("load exercise library: %s", err)
	}

	metricsManager := metrics.NewManager("cli", "gymstats", prometheus.NewRegistry())
	profileService := internal.NewProfileService(cfg, st, lib, metricsManager)

	userIDs := []string{*userID}
	if *userID == "" {
		userIDs, err = st.Logs.UserIDs(ctx)
		if err != nil {
			log.Fatalf("list users: %s", err)
		}
	}
	log.Infof("reconciling %d user(s)", len(userIDs))

	failed := 0
	for _, id := range userIDs {
		if ctx.Err() != nil {
			log.Warnln("interrupted")
			break
		}

		p, report, err := profileService.Reconcile(ctx, id)
		if err != nil {
			failed++
			log.Errorf("user [%s]: %s", id, err)
			continue
		}

		fields := log.Fields{"user": id}
		if report != nil {
			fields["scanned"] = report.Scanned
			fields["migrated"] = report.Migrated
			fields["partial_failures"] = report.PartialFailures
			if report.Warnings != nil {
				log.Warnf("user [%s]: %s", id, report.Warnings)
			}
		}
		if p != nil {
			fields["exercises"] = len(p.LastWorkedByExercise)
		}
		log.WithFields(fields).Info("reconciled")
	}

	if failed > 0 {
		log.Fatalf("%d of %d user(s) failed", failed, len(userIDs))
	}
}
