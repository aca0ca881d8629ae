package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Profile is the configuration to start the main server.
type Profile struct {
	// Mode can be "prod" or "dev" or "demo"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Data is the data directory
	Data string
	// DSN points to where lifeinbox stores its own data
	DSN string
	// Driver is the database driver (sqlite or postgres)
	Driver string
	// Version is the current version of server
	Version string

	// AI configuration
	AIBaseURL        string // LIFEINBOX_AI_BASE_URL (default: https://api.openai.com/v1)
	AIAPIKey         string // LIFEINBOX_AI_API_KEY
	AIEmbeddingModel string // LIFEINBOX_AI_EMBEDDING_MODEL (default: text-embedding-3-small)
	AIChatModel      string // LIFEINBOX_AI_CHAT_MODEL (default: gpt-4o-mini)

	// Session configuration
	SessionRedisAddr   string        // LIFEINBOX_SESSION_REDIS_ADDR (empty: in-memory store)
	SessionIdleTimeout time.Duration // LIFEINBOX_SESSION_IDLE_TIMEOUT (default: 10m)
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// IsAIEnabled returns true if an AI backend is configured.
func (p *Profile) IsAIEnabled() bool {
	return p.AIAPIKey != ""
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// FromEnv loads configuration from LIFEINBOX_* environment variables.
func (p *Profile) FromEnv() {
	p.AIBaseURL = getEnvOrDefault("LIFEINBOX_AI_BASE_URL", "https://api.openai.com/v1")
	p.AIAPIKey = os.Getenv("LIFEINBOX_AI_API_KEY")
	p.AIEmbeddingModel = getEnvOrDefault("LIFEINBOX_AI_EMBEDDING_MODEL", "text-embedding-3-small")
	p.AIChatModel = getEnvOrDefault("LIFEINBOX_AI_CHAT_MODEL", "gpt-4o-mini")

	p.SessionRedisAddr = os.Getenv("LIFEINBOX_SESSION_REDIS_ADDR")
	if raw := os.Getenv("LIFEINBOX_SESSION_IDLE_TIMEOUT"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			p.SessionIdleTimeout = d
		}
	}
	if p.SessionIdleTimeout <= 0 {
		p.SessionIdleTimeout = 10 * time.Minute
	}
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	if p.Driver != "sqlite" && p.Driver != "postgres" {
		return errors.Errorf("unsupported driver %q, expected sqlite or postgres", p.Driver)
	}

	if p.Port <= 0 || p.Port > 65535 {
		return errors.Errorf("invalid port %s", strconv.Itoa(p.Port))
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		return err
	}
	p.Data = dataDir

	if p.Driver == "sqlite" && p.DSN == "" {
		dbFile := fmt.Sprintf("lifeinbox_%s.db", p.Mode)
		p.DSN = filepath.Join(dataDir, dbFile)
	}
	if p.Driver == "postgres" && p.DSN == "" {
		return errors.New("postgres driver requires a DSN")
	}

	return nil
}
