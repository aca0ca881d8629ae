package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lifeinbox/lifeinbox/internal/profile"
	"github.com/lifeinbox/lifeinbox/plugin/ai"
	"github.com/lifeinbox/lifeinbox/plugin/ai/nlu"
	"github.com/lifeinbox/lifeinbox/server/queryengine"
	apiv1 "github.com/lifeinbox/lifeinbox/server/router/api/v1"
	"github.com/lifeinbox/lifeinbox/server/runner/embedding"
	"github.com/lifeinbox/lifeinbox/server/search"
	"github.com/lifeinbox/lifeinbox/server/search/embedindex"
	"github.com/lifeinbox/lifeinbox/server/search/session"
	"github.com/lifeinbox/lifeinbox/store"
	"github.com/lifeinbox/lifeinbox/store/db/postgres"
	"github.com/lifeinbox/lifeinbox/store/db/sqlite"
)

const version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "lifeinbox",
	Short: "Life-inbox assistant: hybrid retrieval over your personal records",
	RunE: func(_ *cobra.Command, _ []string) error {
		instanceProfile := &profile.Profile{
			Mode:    viper.GetString("mode"),
			Addr:    viper.GetString("addr"),
			Port:    viper.GetInt("port"),
			Data:    viper.GetString("data"),
			Driver:  viper.GetString("driver"),
			DSN:     viper.GetString("dsn"),
			Version: version,
		}
		instanceProfile.FromEnv()
		if err := instanceProfile.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		return serve(instanceProfile)
	},
}

func init() {
	rootCmd.PersistentFlags().String("mode", "demo", `mode of the server: "prod", "dev" or "demo"`)
	rootCmd.PersistentFlags().String("addr", "", "binding address")
	rootCmd.PersistentFlags().Int("port", 8081, "binding port")
	rootCmd.PersistentFlags().String("data", ".", "data directory")
	rootCmd.PersistentFlags().String("driver", "sqlite", `database driver: "sqlite" or "postgres"`)
	rootCmd.PersistentFlags().String("dsn", "", "database connection string")

	for _, flag := range []string{"mode", "addr", "port", "data", "driver", "dsn"} {
		if err := viper.BindPFlag(flag, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			panic(err)
		}
	}
	viper.SetEnvPrefix("lifeinbox")
	viper.AutomaticEnv()
}

func newDriver(instanceProfile *profile.Profile) (store.Driver, error) {
	switch instanceProfile.Driver {
	case "postgres":
		return postgres.NewDB(instanceProfile)
	default:
		return sqlite.NewDB(instanceProfile)
	}
}

func serve(instanceProfile *profile.Profile) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger := slog.Default()

	driver, err := newDriver(instanceProfile)
	if err != nil {
		return fmt.Errorf("open datastore: %w", err)
	}
	st := store.New(driver, instanceProfile)
	defer st.Close()

	if err := st.Ping(ctx); err != nil {
		return fmt.Errorf("datastore unreachable: %w", err)
	}

	// AI backends are optional: without them searches are lexical-only and
	// query planning is heuristic.
	var index *embedindex.Index
	var nluService nlu.Service
	if instanceProfile.IsAIEnabled() {
		aiConfig := ai.DefaultConfig()
		aiConfig.BaseURL = instanceProfile.AIBaseURL
		aiConfig.APIKey = instanceProfile.AIAPIKey
		aiConfig.EmbeddingModel = instanceProfile.AIEmbeddingModel
		aiConfig.ChatModel = instanceProfile.AIChatModel

		provider, err := ai.NewProvider(aiConfig)
		if err != nil {
			logger.Warn("ai provider disabled", "error", err)
		} else {
			index = embedindex.NewIndex(provider, provider.EmbeddingModel())
			nluService = nlu.NewLLMService(provider)
		}
	}

	var sessionStore session.Store
	if instanceProfile.SessionRedisAddr != "" {
		redisStore, err := session.NewRedisStore(instanceProfile.SessionRedisAddr, instanceProfile.SessionIdleTimeout)
		if err != nil {
			return fmt.Errorf("connect session store: %w", err)
		}
		defer redisStore.Close()
		sessionStore = redisStore
	} else {
		sessionStore = session.NewMemoryStore()
	}

	sessions := session.NewManager(sessionStore, session.DefaultPageSize, instanceProfile.SessionIdleTimeout)
	planner := queryengine.NewPlanner(nluService)
	searchService := search.NewService(st, index, planner, sessions)

	go session.NewSweeper(sessionStore, instanceProfile.SessionIdleTimeout, time.Minute).Run(ctx)

	if index != nil {
		runner, err := embedding.NewRunner(st, index, 0)
		if err != nil {
			return fmt.Errorf("create embedding runner: %w", err)
		}
		defer runner.Close()
		go runner.Run(ctx)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomiddleware.Recover())
	apiv1.NewAPIV1Service(instanceProfile, st, searchService).Register(e)

	go func() {
		addr := fmt.Sprintf("%s:%d", instanceProfile.Addr, instanceProfile.Port)
		logger.Info("server started",
			"version", version,
			"addr", addr,
			"driver", instanceProfile.Driver,
			"ai_enabled", index != nil)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("server stopped", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown failed", "error", err)
	}
	logger.Info("server exited")
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
