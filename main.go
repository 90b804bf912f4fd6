package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"syscall"
	"time"

	"github.com/Eyepatch5263/Scribble-server/config"
	"github.com/Eyepatch5263/Scribble-server/game"
	"github.com/Eyepatch5263/Scribble-server/logger"
	"github.com/Eyepatch5263/Scribble-server/migrations"
	"github.com/Eyepatch5263/Scribble-server/realtime"
	"github.com/Eyepatch5263/Scribble-server/storage"
	"github.com/Eyepatch5263/Scribble-server/words"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// CreateServer builds the router. An empty allowedOrigins list admits every
// origin; otherwise requests carrying a foreign Origin are refused.
func CreateServer(allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())
	r.SetTrustedProxies([]string{"127.0.0.1", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"})
	r.GET("/health", func(ctx *gin.Context) { ctx.String(http.StatusOK, "healthy") })

	if len(allowedOrigins) == 0 {
		r.Use(cors.New(cors.Config{
			AllowAllOrigins: true,
			AllowMethods:    []string{"GET", "OPTIONS"},
			AllowHeaders:    websocketHeaders,
		}))
		return r
	}

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
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     websocketHeaders,
	}))

	return r
}

var websocketHeaders = []string{
	"Content-Type",
	"Upgrade",
	"Connection",
	"Sec-WebSocket-Key",
	"Sec-WebSocket-Version",
	"Sec-WebSocket-Extensions",
	"Sec-WebSocket-Protocol",
}

func requestLogger() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()
		log.Debug().
			Str("method", ctx.Request.Method).
			Str("path", ctx.Request.URL.Path).
			Int("status", ctx.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	}
}

type closer func()

// openStore picks the room store and word supplier for cfg.Store.
func openStore(ctx context.Context, cfg config.Config) (game.RoomRepository, game.RandomWordsGenerator, closer, error) {
	list := words.Default()
	if cfg.WordsFile != "" {
		loaded, err := words.Load(cfg.WordsFile)
		if err != nil {
			return nil, nil, nil, err
		}
		list = loaded
	}

	switch cfg.Store {
	case config.StorePostgres:
		if err := migrations.MigratePostgres(cfg.PostgresURL); err != nil {
			return nil, nil, nil, err
		}
		pg, err := storage.NewPostgresRepo(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, nil, nil, err
		}
		return pg, words.WithFallback(pg, list), pg.Close, nil

	case config.StoreSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o755); err != nil {
			return nil, nil, nil, err
		}
		db, err := storage.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := migrations.Migrate(db, migrations.DialectSQLite); err != nil {
			db.Close()
			return nil, nil, nil, err
		}
		repo := storage.NewSQLiteRepo(db)
		return repo, list, func() { repo.Close() }, nil

	default:
		return storage.NewMemoryRepo(), list, func() {}, nil
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Setup("info", false)
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logger.Setup(cfg.LogLevel, cfg.LogPretty)
	gin.SetMode(gin.ReleaseMode)

	repo, wordGen, closeStore, err := openStore(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Str("store", cfg.Store).Msg("failed to open store")
	}

	hub := realtime.NewHub()
	service := game.NewService(repo, wordGen, hub, cfg.RepoTimeout)
	dispatcher := game.NewDispatcher(service, hub)
	wsHandler := realtime.NewHandler(hub, dispatcher, realtime.Options{
		PingInterval:      cfg.PingInterval,
		MessagesPerSecond: cfg.MessagesPerSecond,
		MessageBurst:      cfg.MessageBurst,
	})

	r := CreateServer(cfg.AllowedOrigins)
	r.GET("/ws", wsHandler.ServeWS)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server exited")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("store", cfg.Store).Msg("server started")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, os.Interrupt)
	<-sigCh
	log.Info().Msg("SIGTERM or SIGINT received, closing connections before shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}

	hub.Shutdown()
	wsHandler.Wait()
	closeStore()
	log.Info().Msg("shut down")
}
