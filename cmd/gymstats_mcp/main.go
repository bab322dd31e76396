// Package main runs the gymstats MCP server over stdio (for local Cursor use).
// The same MCP server is also mounted on the main backend at /mcp over HTTP,
// so you can use either: stdio (this cmd) or the backend URL (no extra deploy).
package main

import (
	"context"
	"flag"
	"net"
	"os"

	"github.com/2beens/gymprofile/internal"
	"github.com/2beens/gymprofile/internal/config"
	"github.com/2beens/gymprofile/internal/gymstats/library"
	gymstatsmcp "github.com/2beens/gymprofile/internal/gymstats/mcp"
	"github.com/2beens/gymprofile/internal/telemetry/metrics"

	"github.com/go-redis/redis/v8"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	flag.Parse()

	// stdout belongs to the MCP transport
	log.SetOutput(os.Stderr)

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()
	secrets, err := config.LoadSecrets(ctx)
	if err != nil {
		log.Fatalf("load secrets: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: secrets.RedisPassword,
	})
	defer rdb.Close()

	st, err := internal.OpenStorage(ctx, cfg, rdb, false)
	if err != nil {
		log.Fatalf("open storage: %v", err)
	}
	defer st.Close()

	lib, err := library.LoadOrDefault(cfg.LibraryPath)
	if err != nil {
		log.Fatalf("load exercise library: %v", err)
	}

	profileService := internal.NewProfileService(cfg, st, lib, metrics.NewManager("mcp", "gymstats", prometheus.NewRegistry()))
	server := gymstatsmcp.NewServer(gymstatsmcp.NewContextService(st.SchemaRepo, profileService, lib))

	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		log.Fatal(err)
	}
}
