package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/Zein0/trendy-games/internal/config"
	"github.com/Zein0/trendy-games/internal/game"
	"github.com/Zein0/trendy-games/internal/ws"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	zerologlog "github.com/rs/zerolog/log"
	qrcode "github.com/skip2/go-qrcode"
)

const version = "v1.1.0"

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
		fmt.Printf(`trendy-games - Real-time party game server

Usage: %s [options]

Options:
  -h, --help      Show this help message
  -v, --version   Show version information
  --port PORT     Port to listen on (default: 8080 or PORT env var)

Environment Variables:
  PORT            Port to listen on (default: 8080)
  APP_ENV         "development" or "production" (default: development)
  CLIENT_URL      Client origin allowed by CORS and used for join links

Visit the client URL after starting the server to play.
`, os.Args[0])
		return
	}

	if *showVersion {
		fmt.Printf("trendy-games %s\n", version)
		return
	}

	// a missing .env file is fine, env vars may come from elsewhere
	_ = godotenv.Load()

	cfg := config.FromEnv()

	port := *portFlag
	if port == "" {
		port = cfg.Port
	}

	// zerolog setup (human-friendly console)
	zerolog.TimeFieldFormat = time.RFC3339
	cw := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	zerologlog.Logger = zerologlog.Output(cw)

	// Gin setup with custom logger (skip /socket.io noise)
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(corsMiddleware(cfg.AllowedOrigins()))
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/socket.io") {
			return
		}
		status := c.Writer.Status()
		dur := time.Since(start)
		zerologlog.Info().Str("path", path).Int("status", status).Dur("dur", dur).Msg("http")
	})

	// Healthcheck
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "time": time.Now().UTC()})
	})

	// Game manager + socket transport
	mgr := game.NewManager()
	sock := ws.New(mgr, cfg)
	io := sock.Mount(r)
	defer io.Close()

	// Room existence probe for clients entering a code manually.
	r.GET("/api/rooms/:code", func(c *gin.Context) {
		code := strings.ToUpper(c.Param("code"))
		room := mgr.GetRoom(code)
		if room == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "room_not_found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"code": room.Code, "players": len(room.Players), "gameState": room.GameState})
	})

	// QR code for the shareable join link.
	r.GET("/api/rooms/:code/qr", func(c *gin.Context) {
		code := strings.ToUpper(c.Param("code"))
		if mgr.GetRoom(code) == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "room_not_found"})
			return
		}
		joinURL := strings.TrimSuffix(cfg.ClientURL, "/") + "/?code=" + code
		png, err := qrcode.Encode(joinURL, qrcode.Medium, 256)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "qr_generation_failed"})
			return
		}
		c.Data(http.StatusOK, "image/png", png)
	})

	zerologlog.Info().Str("port", port).Str("env", cfg.Environment).Msg("listening")
	if err := r.Run(":" + port); err != nil {
		zerologlog.Fatal().Err(err).Msg("server exited")
	}
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return func(c *gin.Context) {
		if origin := c.Request.Header.Get("Origin"); allowed[origin] {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
		}
		c.Next()
	}
}
