package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"mediavault/domain/repository"
	"mediavault/infrastructure/cache"
	"mediavault/infrastructure/logger"
)

// PlayerState is one node of the playback lifecycle. Transitions:
// idle -> ready -> playing <-> paused -> finished, with seek and volume
// allowed in any active state.
type PlayerState string

const (
	StateIdle     PlayerState = "idle"
	StateReady    PlayerState = "ready"
	StatePlaying  PlayerState = "playing"
	StatePaused   PlayerState = "paused"
	StateFinished PlayerState = "finished"
)

var ErrInvalidTransition = errors.New("playback transition not allowed from current state")

// saveTimeout bounds the background position save kicked off by Pause.
const saveTimeout = 5 * time.Second

// PlayerSession is the in-memory state of one open player.
type PlayerSession struct {
	VideoID         string      `json:"video_id"`
	State           PlayerState `json:"state"`
	PositionSeconds float64     `json:"position_seconds"`
	DurationSeconds float64     `json:"duration_seconds"`
	Volume          float64     `json:"volume"`
}

// ResumeDecision tells the player whether to offer picking up where the
// viewer left off, and at which offset.
type ResumeDecision struct {
	Offered         bool    `json:"offered"`
	PositionSeconds float64 `json:"position_seconds"`
}

type IPlaybackUsecase interface {
	Ready(ctx context.Context, videoID string, durationSeconds float64) (ResumeDecision, error)
	Play(videoID string) error
	Pause(ctx context.Context, videoID string, positionSeconds float64) error
	Seek(videoID string, positionSeconds float64) error
	SetVolume(videoID string, volume float64) error
	Finish(ctx context.Context, videoID string) error
	Session(videoID string) (PlayerSession, bool)
}

type playbackUsecase struct {
	videoCatalog repository.IVideoCatalog
	positions    repository.IPlaybackPosition
	posCache     cache.IPositionCache

	mu       sync.Mutex
	sessions map[string]*PlayerSession
}

func NewPlaybackUsecase(videoCatalog repository.IVideoCatalog, positions repository.IPlaybackPosition, posCache cache.IPositionCache) IPlaybackUsecase {
	return &playbackUsecase{
		videoCatalog: videoCatalog,
		positions:    positions,
		posCache:     posCache,
		sessions:     map[string]*PlayerSession{},
	}
}

// Ready opens a session once the player knows the media duration, and
// decides whether to offer resuming. Resume is offered only when the
// stored offset is past the first five seconds and before the final five
// percent of the video.
func (usecase *playbackUsecase) Ready(ctx context.Context, videoID string, durationSeconds float64) (ResumeDecision, error) {
	position, cached := usecase.posCache.Get(ctx, videoID)
	if !cached {
		var err error
		position, err = usecase.positions.GetPosition(ctx, videoID)
		if err != nil {
			logger.GetLogger().WithField("error", err).Error("loading playback position")
			return ResumeDecision{}, err
		}
		usecase.posCache.Set(ctx, videoID, position)
	}

	usecase.mu.Lock()
	usecase.sessions[videoID] = &PlayerSession{
		VideoID:         videoID,
		State:           StateReady,
		PositionSeconds: position,
		DurationSeconds: durationSeconds,
		Volume:          1,
	}
	usecase.mu.Unlock()

	offered := position > 5 && durationSeconds > 0 && position/durationSeconds < 0.95
	decision := ResumeDecision{Offered: offered}
	if offered {
		decision.PositionSeconds = position
	}
	return decision, nil
}

func (usecase *playbackUsecase) Play(videoID string) error {
	return usecase.transition(videoID, func(session *PlayerSession) error {
		switch session.State {
		case StateReady, StatePaused, StateFinished:
			if session.State == StateFinished {
				session.PositionSeconds = 0
			}
			session.State = StatePlaying
			return nil
		case StatePlaying:
			return nil
		default:
			return ErrInvalidTransition
		}
	})
}

// Pause records the current offset. The durable save runs in the
// background; a failed save is logged and the in-memory offset stays
// authoritative for this session.
func (usecase *playbackUsecase) Pause(ctx context.Context, videoID string, positionSeconds float64) error {
	err := usecase.transition(videoID, func(session *PlayerSession) error {
		if session.State != StatePlaying && session.State != StatePaused {
			return ErrInvalidTransition
		}
		session.State = StatePaused
		session.PositionSeconds = positionSeconds
		return nil
	})
	if err != nil {
		return err
	}

	usecase.posCache.Set(ctx, videoID, positionSeconds)
	go func() {
		saveCtx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		if err := usecase.positions.UpdatePosition(saveCtx, videoID, positionSeconds); err != nil {
			logger.GetLogger().WithFields(map[string]interface{}{
				"error":    err,
				"video_id": videoID,
			}).Error("saving playback position")
		}
	}()
	return nil
}

func (usecase *playbackUsecase) Seek(videoID string, positionSeconds float64) error {
	return usecase.transition(videoID, func(session *PlayerSession) error {
		if session.State == StateIdle {
			return ErrInvalidTransition
		}
		if positionSeconds < 0 {
			positionSeconds = 0
		}
		if session.DurationSeconds > 0 && positionSeconds > session.DurationSeconds {
			positionSeconds = session.DurationSeconds
		}
		session.PositionSeconds = positionSeconds
		return nil
	})
}

func (usecase *playbackUsecase) SetVolume(videoID string, volume float64) error {
	return usecase.transition(videoID, func(session *PlayerSession) error {
		if volume < 0 {
			volume = 0
		}
		if volume > 1 {
			volume = 1
		}
		session.Volume = volume
		return nil
	})
}

// Finish marks the session complete. For videos stored on disk the saved
// offset is reset to zero so the next viewing starts fresh; social
// references keep whatever the embedded player reported.
func (usecase *playbackUsecase) Finish(ctx context.Context, videoID string) error {
	err := usecase.transition(videoID, func(session *PlayerSession) error {
		session.State = StateFinished
		session.PositionSeconds = 0
		return nil
	})
	if err != nil {
		return err
	}

	record, err := usecase.videoCatalog.GetById(ctx, videoID)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("loading video for finish reset")
		return nil
	}
	if !record.IsLocal() {
		return nil
	}

	usecase.posCache.Set(ctx, videoID, 0)
	if err := usecase.positions.ResetPosition(ctx, videoID); err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{
			"error":    err,
			"video_id": videoID,
		}).Error("resetting playback position")
	}
	return nil
}

func (usecase *playbackUsecase) Session(videoID string) (PlayerSession, bool) {
	usecase.mu.Lock()
	defer usecase.mu.Unlock()
	session, ok := usecase.sessions[videoID]
	if !ok {
		return PlayerSession{}, false
	}
	return *session, true
}

func (usecase *playbackUsecase) transition(videoID string, mutate func(*PlayerSession) error) error {
	usecase.mu.Lock()
	defer usecase.mu.Unlock()
	session, ok := usecase.sessions[videoID]
	if !ok {
		return ErrInvalidTransition
	}
	return mutate(session)
}
