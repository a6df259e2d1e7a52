// @title         Chromalyzer API
// @version       0.1.0
// @description   Peak detection and summaries for gas chromatography traces

package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"chromalyzer/internal/platform/config"
	"chromalyzer/internal/platform/logger"
	phttp "chromalyzer/internal/platform/net/http"
	"chromalyzer/internal/platform/store"

	analysismod "chromalyzer/internal/services/analysis/module"
	"chromalyzer/internal/services/api"
)

func main() {
	// service-scoped config for HTTP etc (CORE_API_*)
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	pgCfg := root.Prefix("SERVICE_PGSQL_")      // pgCfg lives under SERVICE_PGSQL_*
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_") // chCfg lives under SERVICE_CLICKHOUSE_*
	liteCfg := root.Prefix("SERVICE_SQLITE_")
	// bring up logging early
	l := logger.Get()

	// backends follow the record store; the peak ledger is on when a clickhouse url is set
	backend := strings.ToLower(root.Prefix("CORE_ANALYSIS_").MayString("STORE", analysismod.StoreFile))
	pgURL := ""
	if backend == analysismod.StorePG {
		pgURL = pgCfg.MustString("DBURL")
	}
	st, err := store.Open(
		context.Background(),
		store.Config{
			AppName: "chromalyzer-api",
			PG: store.PGConfig{
				URL:       pgURL,
				MaxConns:  int32(pgCfg.MayInt("MAX_CONNS", 4)),
				SlowQuery: pgCfg.MayDuration("SLOW_QUERY", 500*time.Millisecond),
				LogSQL:    pgCfg.MayBool("LOG_SQL", true),
			},
			SQLite: store.SQLiteConfig{
				Path: liteCfg.MayString("PATH", "data/chromalyzer.db"),
			},
			CH: store.CHConfig{
				Enabled:    chCfg.MayString("DBURL", "") != "",
				URL:        chCfg.MayString("DBURL", ""),
				ClientName: "chromalyzer-api",
			},
		},
		store.WithLogger(*logger.Get()),
		store.WithRecordStore(backend),
	)
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	gctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := st.Guard(gctx); err != nil {
		l.Panic().Err(err).Msg("store not ready")
	}
	cancel()
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// http server (CORE_API_PORT and the CORE_API_*_TIMEOUT keys)
	srv := phttp.NewServer(apiCfg)

	// mount our API; modules read their own CORE_* keys from the root config
	if err := api.Mount(
		srv.Router(),
		api.Options{
			Config:         root,
			Store:          st,
			Logger:         l,
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", false),
		},
	); err != nil {
		l.Panic().Err(err).Msg("api mount failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
