package http

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"mediavault/usecase"
)

type IVideoHandler interface {
	List(ctx *gin.Context)
	Get(ctx *gin.Context)
	ImportLocal(ctx *gin.Context)
	AddSocial(ctx *gin.Context)
	Delete(ctx *gin.Context)
}

type VideoHandler struct {
	catalogUsecase usecase.ICatalogUsecase
}

func NewVideoHandler(uc usecase.ICatalogUsecase) IVideoHandler {
	return &VideoHandler{catalogUsecase: uc}
}

func (h *VideoHandler) List(ctx *gin.Context) {
	items, err := h.catalogUsecase.List(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"videos": items})
}

func (h *VideoHandler) Get(ctx *gin.Context) {
	item, err := h.catalogUsecase.Get(ctx.Request.Context(), ctx.Param("videoId"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "video not found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, item)
}

type importLocalRequest struct {
	SourcePath      string  `json:"source_path" binding:"required"`
	Title           string  `json:"title"`
	DurationSeconds float64 `json:"duration_seconds"`
}

func (h *VideoHandler) ImportLocal(ctx *gin.Context) {
	var req importLocalRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	record, err := h.catalogUsecase.ImportLocal(ctx.Request.Context(), req.SourcePath, req.Title, req.DurationSeconds)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusCreated, record)
}

type addSocialRequest struct {
	PageURL string `json:"page_url" binding:"required"`
}

func (h *VideoHandler) AddSocial(ctx *gin.Context) {
	var req addSocialRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	record, err := h.catalogUsecase.AddSocial(ctx.Request.Context(), req.PageURL)
	if err != nil {
		if errors.Is(err, usecase.ErrNotSocialURL) {
			ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusCreated, record)
}

func (h *VideoHandler) Delete(ctx *gin.Context) {
	if err := h.catalogUsecase.Delete(ctx.Request.Context(), ctx.Param("videoId")); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"deleted": true})
}
