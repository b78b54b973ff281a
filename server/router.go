package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	httpHandler "mediavault/interfaces/http"
	"mediavault/interfaces/middleware"
)

func InitiateRouter(
	videoHandler httpHandler.IVideoHandler,
	downloadHandler httpHandler.IDownloadHandler,
	scanHandler httpHandler.IScanHandler,
	playbackHandler httpHandler.IPlaybackHandler,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:4200", "https://localhost:4200", "capacitor://localhost", "ionic://localhost"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("api")

	videos := api.Group("/videos")
	{
		videos.GET("", videoHandler.List)
		videos.POST("/import", videoHandler.ImportLocal)
		videos.POST("/social", videoHandler.AddSocial)
		videos.GET("/:videoId", videoHandler.Get)
		videos.DELETE("/:videoId", videoHandler.Delete)

		playback := videos.Group("/:videoId/playback")
		{
			playback.POST("/ready", playbackHandler.Ready)
			playback.POST("/play", playbackHandler.Play)
			playback.POST("/pause", playbackHandler.Pause)
			playback.POST("/seek", playbackHandler.Seek)
			playback.POST("/volume", playbackHandler.SetVolume)
			playback.POST("/finish", playbackHandler.Finish)
			playback.GET("", playbackHandler.Session)
		}
	}

	downloads := api.Group("/downloads")
	{
		downloads.POST("", downloadHandler.Submit)
		downloads.GET("", downloadHandler.List)
		downloads.GET("/stream", downloadHandler.Stream)
		downloads.GET("/:jobId", downloadHandler.Get)
	}

	api.POST("/scan/candidates", scanHandler.ReportCandidates)

	return router
}
