// Package config builds the process configuration once at startup. The
// record is passed into the components that need it; nothing reads the
// environment after Load returns.
package config

import (
	"os"
	"strconv"

	"github.com/peterbourgon/ff/v4"
)

// AppName is the fixed service name reported by the liveness probes.
const AppName = "divvit-backend"

// Config holds the process settings. All fields have working defaults; a
// missing API key is not rejected here, the upstream call fails instead.
type Config struct {
	GeminiAPIKey string
	GeminiModel  string
	Debug        bool
	Port         int
}

// Load parses command line flags and environment variables into a Config.
// Flags win over DIVVIT_-prefixed environment variables. The bare
// GEMINI_API_KEY and PORT variables seed the defaults (Cloud Run sets PORT
// directly). Unknown environment variables are ignored. The returned flag
// set is for usage output on error.
func Load(args []string) (*Config, *ff.FlagSet, error) {
	defaultPort := 8080
	if p, err := strconv.Atoi(os.Getenv("PORT")); err == nil && p > 0 {
		defaultPort = p
	}

	fs := ff.NewFlagSet(AppName)
	var (
		port        = fs.IntLong("port", defaultPort, "HTTP server port")
		geminiKey   = fs.StringLong("gemini-key", os.Getenv("GEMINI_API_KEY"), "Google Gemini API key (or set GEMINI_API_KEY env var)")
		geminiModel = fs.StringLong("gemini-model", "gemini-2.5-flash", "Google Gemini model name")
		debug       = fs.BoolLong("debug", "Enable debug logging")
	)

	if err := ff.Parse(fs, args,
		ff.WithEnvVarPrefix("DIVVIT"),
	); err != nil {
		return nil, fs, err
	}

	return &Config{
		GeminiAPIKey: *geminiKey,
		GeminiModel:  *geminiModel,
		Debug:        *debug,
		Port:         *port,
	}, fs, nil
}
