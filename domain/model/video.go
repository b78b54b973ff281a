package model

import "time"

// SourceKind determines the playback strategy for a saved video and
// whether downloading applies.
type SourceKind string

const (
	SourceLocal        SourceKind = "local"
	SourceDirectRemote SourceKind = "directRemote"
	SourceHLS          SourceKind = "hls"
	SourceDASH         SourceKind = "dash"
	SourceSocialEmbed  SourceKind = "socialEmbed"
)

// VideoRecord is one persisted catalog entry. StorageRef is a filename
// relative to the media storage root for local videos, or an external
// URL for remote/social references.
type VideoRecord struct {
	ID                    string     `json:"id"`
	StorageRef            string     `json:"storage_ref"`
	Title                 string     `json:"title"`
	DurationSeconds       float64    `json:"duration_seconds"`
	CreatedAt             time.Time  `json:"created_at"`
	LastPlaybackPosition  float64    `json:"last_playback_position"`
	LastPlayedAt          *time.Time `json:"last_played_at,omitempty"`
	SourceKind            SourceKind `json:"source_kind"`
	SocialPlatform        string     `json:"social_platform,omitempty"`
}

// VideoItem is a catalog record decorated with the derived fields the
// client list renders from.
type VideoItem struct {
	VideoRecord
	PlaybackProgress  float64 `json:"playback_progress"`
	CanResumePlayback bool    `json:"can_resume_playback"`
}

// PlaybackProgress returns position/duration, or 0 while the duration
// is still unknown.
func (v VideoRecord) PlaybackProgress() float64 {
	if v.DurationSeconds <= 0 {
		return 0
	}
	return v.LastPlaybackPosition / v.DurationSeconds
}

// CanResumePlayback reports whether a returning viewer should be offered
// a resume prompt: more than 5 seconds in, and under 95% watched.
func (v VideoRecord) CanResumePlayback() bool {
	return v.LastPlaybackPosition > 5 && v.PlaybackProgress() < 0.95
}

// Item builds the decorated listing entry for one record.
func (v VideoRecord) Item() VideoItem {
	return VideoItem{
		VideoRecord:       v,
		PlaybackProgress:  v.PlaybackProgress(),
		CanResumePlayback: v.CanResumePlayback(),
	}
}

// IsLocal reports whether the record points at a file under the media
// storage root rather than an external reference.
func (v VideoRecord) IsLocal() bool {
	return v.SourceKind == SourceLocal || v.SourceKind == SourceDirectRemote || v.SourceKind == SourceHLS
}
