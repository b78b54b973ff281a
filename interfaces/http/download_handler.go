package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"mediavault/infrastructure/downloader"
	"mediavault/infrastructure/realtime"
	"mediavault/usecase"
)

type IDownloadHandler interface {
	Submit(ctx *gin.Context)
	Get(ctx *gin.Context)
	List(ctx *gin.Context)
	Stream(ctx *gin.Context)
}

type DownloadHandler struct {
	downloadUsecase usecase.IDownloadUsecase
	catalogUsecase  usecase.ICatalogUsecase
	hub             *realtime.Hub
}

func NewDownloadHandler(downloadUsecase usecase.IDownloadUsecase, catalogUsecase usecase.ICatalogUsecase, hub *realtime.Hub) IDownloadHandler {
	return &DownloadHandler{downloadUsecase: downloadUsecase, catalogUsecase: catalogUsecase, hub: hub}
}

type submitRequest struct {
	URL string `json:"url" binding:"required"`
}

// Submit accepts a URL to capture. Social media pages are stored as
// embed references right away; everything else becomes an asynchronous
// download job.
func (h *DownloadHandler) Submit(ctx *gin.Context) {
	var req submitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	record, err := h.catalogUsecase.AddSocial(ctx.Request.Context(), req.URL)
	if err == nil {
		ctx.JSON(http.StatusCreated, gin.H{"video": record})
		return
	}
	if !errors.Is(err, usecase.ErrNotSocialURL) {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	job, err := h.downloadUsecase.Submit(req.URL)
	if err != nil {
		if errors.Is(err, downloader.ErrDASHUnsupported) {
			ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusAccepted, gin.H{"job": job})
}

func (h *DownloadHandler) Get(ctx *gin.Context) {
	job, ok := h.downloadUsecase.Job(ctx.Param("jobId"))
	if !ok {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"job": job})
}

func (h *DownloadHandler) List(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"jobs": h.downloadUsecase.Jobs()})
}

// Stream pushes job progress to the client over server-sent events.
func (h *DownloadHandler) Stream(ctx *gin.Context) {
	h.hub.Serve(ctx)
}
