package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mediavault/usecase"
)

type IScanHandler interface {
	ReportCandidates(ctx *gin.Context)
}

// ScanHandler is the ingest boundary for the embedded browser's page
// scanner. The scanner posts loosely structured entries; anything
// malformed is dropped rather than rejected wholesale.
type ScanHandler struct {
	downloadUsecase usecase.IDownloadUsecase
}

func NewScanHandler(uc usecase.IDownloadUsecase) IScanHandler {
	return &ScanHandler{downloadUsecase: uc}
}

type reportCandidatesRequest struct {
	SessionID  string                   `json:"session_id" binding:"required"`
	Candidates []map[string]interface{} `json:"candidates"`
}

func (h *ScanHandler) ReportCandidates(ctx *gin.Context) {
	var req reportCandidatesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	accepted := h.downloadUsecase.ReportCandidates(req.SessionID, req.Candidates)
	ctx.JSON(http.StatusOK, gin.H{"session_id": req.SessionID, "candidates": accepted})
}
