package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kiliankoe/taash/internal/rules"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Port            string
	CORSOrigins     []string
	DefaultGameType rules.Variant
	NextHandDelay   time.Duration
	ExportEnabled   bool
	ExportFile      string
	LogLevel        string
	LogFormat       string
}

func FromEnv() Config {
	c := Config{}
	c.Port = getenv("PORT", "3001")
	c.CORSOrigins = splitList(getenv("CORS_ORIGIN", "http://localhost:3000"))
	c.DefaultGameType = rules.EasyPeasy
	if v, err := rules.ParseVariant(getenv("DEFAULT_GAME_TYPE", string(rules.EasyPeasy))); err == nil {
		c.DefaultGameType = v
	} else {
		log.Warn().Err(err).Msg("ignoring DEFAULT_GAME_TYPE")
	}
	c.NextHandDelay = 3 * time.Second
	if ms, err := strconv.Atoi(getenv("NEXT_HAND_DELAY_MS", "3000")); err == nil && ms >= 0 {
		c.NextHandDelay = time.Duration(ms) * time.Millisecond
	} else {
		log.Warn().Str("value", os.Getenv("NEXT_HAND_DELAY_MS")).Msg("ignoring NEXT_HAND_DELAY_MS")
	}
	c.ExportEnabled = getenv("EXPORT_ENABLED", "false") == "true"
	c.ExportFile = getenv("EXPORT_FILE", "./taash-results.txt")
	c.LogLevel = getenv("LOG_LEVEL", "info")
	c.LogFormat = getenv("LOG_FORMAT", "console")
	return c
}

// AllowOrigin reports whether a browser origin may talk to the server.
// A "*" entry allows every origin.
func (c Config) AllowOrigin(origin string) bool {
	for _, o := range c.CORSOrigins {
		if o == "*" || o == origin {
			return true
		}
	}
	return false
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func splitList(v string) []string {
	out := []string{}
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
