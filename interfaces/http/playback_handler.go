package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"mediavault/usecase"
)

type IPlaybackHandler interface {
	Ready(ctx *gin.Context)
	Play(ctx *gin.Context)
	Pause(ctx *gin.Context)
	Seek(ctx *gin.Context)
	SetVolume(ctx *gin.Context)
	Finish(ctx *gin.Context)
	Session(ctx *gin.Context)
}

type PlaybackHandler struct {
	playbackUsecase usecase.IPlaybackUsecase
}

func NewPlaybackHandler(uc usecase.IPlaybackUsecase) IPlaybackHandler {
	return &PlaybackHandler{playbackUsecase: uc}
}

type readyRequest struct {
	DurationSeconds float64 `json:"duration_seconds"`
}

func (h *PlaybackHandler) Ready(ctx *gin.Context) {
	var req readyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	decision, err := h.playbackUsecase.Ready(ctx.Request.Context(), ctx.Param("videoId"), req.DurationSeconds)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"resume": decision})
}

func (h *PlaybackHandler) Play(ctx *gin.Context) {
	if err := h.playbackUsecase.Play(ctx.Param("videoId")); err != nil {
		respondTransition(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"state": usecase.StatePlaying})
}

type positionRequest struct {
	PositionSeconds float64 `json:"position_seconds"`
}

func (h *PlaybackHandler) Pause(ctx *gin.Context) {
	var req positionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := h.playbackUsecase.Pause(ctx.Request.Context(), ctx.Param("videoId"), req.PositionSeconds); err != nil {
		respondTransition(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"state": usecase.StatePaused})
}

func (h *PlaybackHandler) Seek(ctx *gin.Context) {
	var req positionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := h.playbackUsecase.Seek(ctx.Param("videoId"), req.PositionSeconds); err != nil {
		respondTransition(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

type volumeRequest struct {
	Volume float64 `json:"volume"`
}

func (h *PlaybackHandler) SetVolume(ctx *gin.Context) {
	var req volumeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := h.playbackUsecase.SetVolume(ctx.Param("videoId"), req.Volume); err != nil {
		respondTransition(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (h *PlaybackHandler) Finish(ctx *gin.Context) {
	if err := h.playbackUsecase.Finish(ctx.Request.Context(), ctx.Param("videoId")); err != nil {
		respondTransition(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"state": usecase.StateFinished})
}

func (h *PlaybackHandler) Session(ctx *gin.Context) {
	session, ok := h.playbackUsecase.Session(ctx.Param("videoId"))
	if !ok {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "no open playback session"})
		return
	}
	ctx.JSON(http.StatusOK, session)
}

func respondTransition(ctx *gin.Context, err error) {
	if errors.Is(err, usecase.ErrInvalidTransition) {
		ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
