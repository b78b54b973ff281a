package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"mediavault/domain/media"
	"mediavault/domain/model"
	"mediavault/domain/repository"
	"mediavault/infrastructure/downloader"
	"mediavault/infrastructure/logger"
)

// IDirectDownloader fetches a single remote file into managed storage.
type IDirectDownloader interface {
	Download(ctx context.Context, rawURL string, onProgress downloader.ProgressFunc) (string, error)
}

// IHLSDownloader captures an HLS stream into a local bundle.
type IHLSDownloader interface {
	Start(ctx context.Context, hlsURL string, onProgress downloader.ProgressFunc) (string, error)
}

// IProgressBroadcaster pushes job updates to live subscribers.
type IProgressBroadcaster interface {
	BroadcastJob(job *model.DownloadJob)
}

type IDownloadUsecase interface {
	Submit(rawURL string) (model.DownloadJob, error)
	Job(id string) (model.DownloadJob, bool)
	Jobs() []model.DownloadJob
	ReportCandidates(sessionID string, raw []map[string]interface{}) []model.CandidateMediaURL
}

type downloadUsecase struct {
	videoCatalog repository.IVideoCatalog
	direct       IDirectDownloader
	hls          IHLSDownloader
	hub          IProgressBroadcaster
	baseCtx      context.Context

	mu        sync.Mutex
	jobs      map[string]*model.DownloadJob
	seenByTab map[string]map[string]struct{}
}

// NewDownloadUsecase wires the download pipeline. baseCtx bounds the lifetime
// of in-flight downloads; jobs are cancelled when it is done.
func NewDownloadUsecase(baseCtx context.Context, videoCatalog repository.IVideoCatalog, direct IDirectDownloader, hls IHLSDownloader, hub IProgressBroadcaster) IDownloadUsecase {
	return &downloadUsecase{
		videoCatalog: videoCatalog,
		direct:       direct,
		hls:          hls,
		hub:          hub,
		baseCtx:      baseCtx,
		jobs:         map[string]*model.DownloadJob{},
		seenByTab:    map[string]map[string]struct{}{},
	}
}

// Submit classifies the URL and starts an asynchronous download job. DASH
// manifests are rejected synchronously since no capture path exists for them.
func (usecase *downloadUsecase) Submit(rawURL string) (model.DownloadJob, error) {
	classification := media.Classify(rawURL)
	if classification.Kind == media.KindDASH {
		return model.DownloadJob{}, downloader.ErrDASHUnsupported
	}

	job := &model.DownloadJob{
		ID:        uuid.NewString(),
		SourceURL: rawURL,
		Kind:      string(classification.Kind),
		Status:    model.JobRunning,
		CreatedAt: time.Now().UTC(),
	}
	usecase.mu.Lock()
	usecase.jobs[job.ID] = job
	usecase.mu.Unlock()
	usecase.hub.BroadcastJob(job)

	go usecase.run(job.ID, rawURL, classification.Kind)

	return *job, nil
}

func (usecase *downloadUsecase) run(jobID string, rawURL string, kind media.Kind) {
	onProgress := func(fraction float64) {
		usecase.updateJob(jobID, func(job *model.DownloadJob) {
			job.ProgressFraction = fraction
		})
	}

	var storageRef string
	var err error
	if kind == media.KindHLS {
		storageRef, err = usecase.hls.Start(usecase.baseCtx, rawURL, onProgress)
	} else {
		storageRef, err = usecase.direct.Download(usecase.baseCtx, rawURL, onProgress)
	}
	if err != nil {
		logger.GetLogger().WithField("error", err).WithField("url", rawURL).Error("download failed")
		usecase.updateJob(jobID, func(job *model.DownloadJob) {
			job.Status = model.JobFailed
			job.FailureReason = failureReason(err)
			now := time.Now().UTC()
			job.CompletedAt = &now
		})
		return
	}

	sourceKind := model.SourceDirectRemote
	if kind == media.KindHLS {
		sourceKind = model.SourceHLS
	}
	record := model.VideoRecord{
		ID:         uuid.NewString(),
		StorageRef: storageRef,
		Title:      media.TitleFromURL(rawURL),
		CreatedAt:  time.Now().UTC(),
		SourceKind: sourceKind,
	}
	if err := usecase.videoCatalog.Insert(usecase.baseCtx, record); err != nil {
		logger.GetLogger().WithField("error", err).Error("saving downloaded video")
		usecase.updateJob(jobID, func(job *model.DownloadJob) {
			job.Status = model.JobFailed
			job.FailureReason = "saving the downloaded video failed"
			now := time.Now().UTC()
			job.CompletedAt = &now
		})
		return
	}

	usecase.updateJob(jobID, func(job *model.DownloadJob) {
		job.Status = model.JobSuccess
		job.ProgressFraction = 1
		job.ResultLocalPath = storageRef
		job.VideoID = record.ID
		now := time.Now().UTC()
		job.CompletedAt = &now
	})
}

func (usecase *downloadUsecase) updateJob(jobID string, mutate func(*model.DownloadJob)) {
	usecase.mu.Lock()
	job, ok := usecase.jobs[jobID]
	if ok {
		mutate(job)
	}
	var snapshot model.DownloadJob
	if ok {
		snapshot = *job
	}
	usecase.mu.Unlock()
	if ok {
		usecase.hub.BroadcastJob(&snapshot)
	}
}

func (usecase *downloadUsecase) Job(id string) (model.DownloadJob, bool) {
	usecase.mu.Lock()
	defer usecase.mu.Unlock()
	job, ok := usecase.jobs[id]
	if !ok {
		return model.DownloadJob{}, false
	}
	return *job, true
}

func (usecase *downloadUsecase) Jobs() []model.DownloadJob {
	usecase.mu.Lock()
	defer usecase.mu.Unlock()
	jobs := make([]model.DownloadJob, 0, len(usecase.jobs))
	for _, job := range usecase.jobs {
		jobs = append(jobs, *job)
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].CreatedAt.After(jobs[j].CreatedAt) })
	return jobs
}

// ReportCandidates ingests media URLs observed on a browsing tab. Entries
// without a usable url field are dropped, as are blob: and data: URLs that
// cannot be fetched out of the page context. Each URL is reported at most
// once per tab session.
func (usecase *downloadUsecase) ReportCandidates(sessionID string, raw []map[string]interface{}) []model.CandidateMediaURL {
	usecase.mu.Lock()
	seen, ok := usecase.seenByTab[sessionID]
	if !ok {
		seen = map[string]struct{}{}
		usecase.seenByTab[sessionID] = seen
	}
	usecase.mu.Unlock()

	accepted := make([]model.CandidateMediaURL, 0, len(raw))
	for _, entry := range raw {
		rawURL, ok := entry["url"].(string)
		if !ok || rawURL == "" {
			logger.GetLogger().WithField("entry", entry).Warn("dropping malformed media candidate")
			continue
		}
		if strings.HasPrefix(rawURL, "blob:") || strings.HasPrefix(rawURL, "data:") {
			continue
		}
		typeHint, _ := entry["type"].(string)

		usecase.mu.Lock()
		_, dup := seen[rawURL]
		if !dup {
			seen[rawURL] = struct{}{}
		}
		usecase.mu.Unlock()
		if dup {
			continue
		}

		accepted = append(accepted, model.CandidateMediaURL{
			URL:      rawURL,
			TypeHint: typeHint,
			Kind:     string(media.ClassifyWithContentType(rawURL, typeHint).Kind),
		})
	}
	return accepted
}

func failureReason(err error) string {
	var transportErr *downloader.TransportError
	switch {
	case errors.As(err, &transportErr):
		return transportErr.Reason
	case errors.Is(err, downloader.ErrNotAVideo):
		return "the downloaded file does not appear to be a video"
	case errors.Is(err, downloader.ErrInvalidResponse):
		return "the server returned an invalid response"
	case errors.Is(err, downloader.ErrUnsupported):
		return "the media format is not supported"
	default:
		return err.Error()
	}
}
