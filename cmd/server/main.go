package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kiliankoe/taash/internal/api"
	"github.com/kiliankoe/taash/internal/config"
	"github.com/kiliankoe/taash/internal/game"
	"github.com/kiliankoe/taash/internal/ws"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const version = "v1.0.0-dev"

func main() {
	var (
		showHelp    = flag.Bool("help", false, "Show help message")
		showVersion = flag.Bool("version", false, "Show version information")
		portFlag    = flag.String("port", "", "Port to listen on (overrides PORT env var)")
	)
	flag.BoolVar(showHelp, "h", false, "Show help message (shorthand)")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	flag.Parse()

	if *showHelp {
		fmt.Printf(`Taash - Real-time multiplayer card game server

Usage: %s [options]

Options:
  -h, --help      Show this help message
  -v, --version   Show version information
  --port PORT     Port to listen on (default: 3001 or PORT env var)

Environment Variables:
  PORT                Port to listen on (default: 3001)
  CORS_ORIGIN         Allowed browser origins, comma separated (default: http://localhost:3000)
  DEFAULT_GAME_TYPE   easy_peasy, dehla_pakad or teen_do_panch (default: easy_peasy)
  NEXT_HAND_DELAY_MS  Pause before the next hand is announced (default: 3000)
  EXPORT_ENABLED      Append finished games to a results file (default: false)
  EXPORT_FILE         Path of the results file (default: ./taash-results.txt)
  LOG_LEVEL           debug, info, warn or error (default: info)
  LOG_FORMAT          console or json (default: console)

Examples:
  %s                  Start server with default settings
  %s --port 4000      Start server on port 4000
`, os.Args[0], os.Args[0], os.Args[0])
		return
	}

	if *showVersion {
		fmt.Printf("Taash %s\n", version)
		return
	}

	// zerolog setup (human-friendly console unless LOG_FORMAT=json)
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	cfg := config.FromEnv()
	if *portFlag != "" {
		cfg.Port = *portFlag
	}
	if strings.EqualFold(cfg.LogFormat, "json") {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// Gin setup with custom logger (skip /socket.io noise)
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/socket.io") {
			return
		}
		log.Info().Str("method", c.Request.Method).Str("path", path).Int("status", c.Writer.Status()).Dur("dur", time.Since(start)).Msg("http")
	})
	r.Use(api.CORS(cfg))

	rm := game.NewRoomManager()
	sock := ws.New(rm, cfg)
	io := sock.Mount(r)
	defer io.Close()

	api.Register(r, rm)

	log.Info().Str("port", cfg.Port).Strs("cors", cfg.CORSOrigins).Str("defaultGameType", string(cfg.DefaultGameType)).Msg("listening")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
