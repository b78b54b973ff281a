package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mediavault/domain/repository"
	"mediavault/infrastructure/cache"
	"mediavault/infrastructure/configuration"
	"mediavault/infrastructure/downloader"
	"mediavault/infrastructure/logger"
	"mediavault/infrastructure/persistence"
	"mediavault/infrastructure/realtime"
	"mediavault/infrastructure/storage"
	httpHandler "mediavault/interfaces/http"
	"mediavault/server"
	"mediavault/usecase"

	"golang.org/x/sync/errgroup"
)

var httpServer *http.Server

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

func main() {
	defer recoverPanic()
	ctx := context.Background()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	g, ctx := errgroup.WithContext(ctx)

	// Load env from files (non-destructive; OS env still has precedence)
	configuration.LoadEnvFromFile("config.env", ".env")

	app := configuration.C.App

	db, err := InitiateDatabase()
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Database initialization failed")
		os.Exit(1)
	}
	logger.GetLogger().WithField("ping", db.Ping()).Info("Database connected.")

	var videoCatalog repository.IVideoCatalog
	var playbackPositions repository.IPlaybackPosition
	if usingMSSQL() {
		if err := persistence.EnsureVideoSchemaMSSQL(db); err != nil {
			logger.GetLogger().WithField("error", err).Error("failed ensuring video schema")
			os.Exit(1)
		}
		videoCatalog = persistence.NewVideoRepositoryMSSQL(db)
		playbackPositions = persistence.NewPlaybackRepositoryMSSQL(db)
	} else {
		if err := persistence.EnsureVideoSchema(db); err != nil {
			logger.GetLogger().WithField("error", err).Error("failed ensuring video schema")
			os.Exit(1)
		}
		videoCatalog = persistence.NewVideoRepository(db)
		playbackPositions = persistence.NewPlaybackRepository(db)
	}

	redisClient, err := cache.NewCache(
		ctx,
		fmt.Sprintf("%s:%s", configuration.C.RedisClient.Host, configuration.C.RedisClient.Port),
		configuration.C.RedisClient.Username,
		configuration.C.RedisClient.Password,
	)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Redis not available - playback positions served from the database only")
	}
	positionCache := cache.NewPositionCache(redisClient)

	mediaStorage, err := storage.NewMediaStorage(configuration.C.Storage.Root)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Cannot prepare media storage root")
		os.Exit(1)
	}

	downloadTimeout := time.Duration(configuration.C.Download.TimeoutSeconds) * time.Second
	directDownloader := downloader.NewDownloader(mediaStorage, downloadTimeout, configuration.C.Download.MinVideoBytes)
	hlsManager := downloader.NewHLSManager(mediaStorage, downloadTimeout)

	progressHub := realtime.NewProgressHub()

	catalogUsecase := usecase.NewCatalogUsecase(videoCatalog, mediaStorage, positionCache)
	downloadUsecase := usecase.NewDownloadUsecase(ctx, videoCatalog, directDownloader, hlsManager, progressHub)
	playbackUsecase := usecase.NewPlaybackUsecase(videoCatalog, playbackPositions, positionCache)

	videoHandler := httpHandler.NewVideoHandler(catalogUsecase)
	downloadHandler := httpHandler.NewDownloadHandler(downloadUsecase, catalogUsecase, progressHub)
	scanHandler := httpHandler.NewScanHandler(downloadUsecase)
	playbackHandler := httpHandler.NewPlaybackHandler(playbackUsecase)

	router := server.InitiateRouter(videoHandler, downloadHandler, scanHandler, playbackHandler)

	port := app.Port
	logger.GetLogger().WithFields(map[string]interface{}{"port": port, "tls": app.TLSEnabled}).Info("Starting application")
	g.Go(func() error {
		httpServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: router,
		}
		if app.TLSEnabled {
			cert := app.TLSCertFile
			key := app.TLSKeyFile
			if cert == "" || key == "" {
				logger.GetLogger().Error("TLS enabled but cert or key path empty; falling back to HTTP")
				if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
					return err
				}
			} else {
				logger.GetLogger().WithFields(map[string]interface{}{"cert": cert, "key": key}).Info("Serving HTTPS")
				if err := httpServer.ListenAndServeTLS(cert, key); !errors.Is(err, http.ErrServerClosed) {
					return err
				}
			}
		} else {
			if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
		}
		return nil
	})

	select {
	case <-interrupt:
		logger.GetLogger().Info("Application shutdown requested")
	case <-ctx.Done():
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if httpServer != nil {
		_ = httpServer.Shutdown(shutdownCtx)
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
		os.Exit(2)
	}
}

// InitiateDatabase opens the catalog database. MSSQL serves production,
// PostgreSQL everything else; DB_VENDOR=mssql forces the former locally.
func InitiateDatabase() (*sql.DB, error) {
	if usingMSSQL() {
		db, err := persistence.NewMSSQLDB()
		if err != nil {
			logger.GetLogger().WithField("error", err).Error("Cannot connect to MSSQL")
			return nil, err
		}
		return db, nil
	}
	db, err := persistence.NewPostgreSQLDB()
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Cannot connect to PostgreSQL")
		return nil, err
	}
	return db, nil
}

func usingMSSQL() bool {
	env := os.Getenv("ENV")
	return os.Getenv("DB_VENDOR") == "mssql" || env == "production" || env == "prod"
}
