package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"slices"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"

	"oekaki/config"
	"oekaki/game"
)

func CreateServer(allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.GET("/health", func(ctx *gin.Context) { ctx.String(200, "healthy") })

	r.Use(func(ctx *gin.Context) {
		origin := ctx.Request.Header.Get("Origin")

		if origin == "" || slices.Contains(allowedOrigins, origin) {
			ctx.Next()
			return
		}
		ctx.String(http.StatusForbidden, "forbidden origin")
		ctx.Abort()
	})

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{
			"Content-Type",
			"Upgrade",
			"Connection",
			"Sec-WebSocket-Key",
			"Sec-WebSocket-Version",
			"Sec-WebSocket-Extensions",
			"Sec-WebSocket-Protocol",
		},
	}))

	return r
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	session := game.NewSession(
		game.Settings{
			DrawingSeconds:   cfg.DrawingSeconds,
			AnsweringSeconds: cfg.AnsweringSeconds,
			DefaultRounds:    cfg.DefaultRounds,
			SendBuffer:       cfg.SendBuffer,
			InboundRate:      cfg.InboundRate,
			InboundBurst:     cfg.InboundBurst,
			PingPeriod:       cfg.PingPeriod,
		},
		clockwork.NewRealClock(),
		game.NewHiraganaPrompts(),
		nil,
	)

	sessionStarted := make(chan struct{})
	go session.Run(sessionStarted)
	<-sessionStarted

	r := CreateServer(cfg.AllowedOrigins)

	gameHandler := game.NewHandler(session)
	r.GET("/ws", gameHandler.ServeWS)

	r.StaticFile("/", filepath.Join(cfg.StaticPath, "index.html"))
	r.Static("/public", cfg.StaticPath)

	slog.Info("server listening", "port", cfg.Port)
	r.Run(fmt.Sprintf(":%d", cfg.Port))
}
