// Package media classifies discovered media URLs. Classification is
// pure string inspection; no network I/O happens here.
package media

import (
	"fmt"
	"mime"
	"net/url"
	"path"
	"strings"
)

// Kind is the classified media kind of a URL.
type Kind string

const (
	KindDirectRemote Kind = "directRemote"
	KindHLS          Kind = "hls"
	KindDASH         Kind = "dash"
	KindUnsupported  Kind = "unsupported"
)

// Classification carries the kind plus the inferred container extension
// for direct files ("mp4", "webm", "mov", "ogg").
type Classification struct {
	Kind Kind
	Ext  string
}

// directExtensions are the container suffixes accepted on the fallback
// path.
var directExtensions = []string{"mp4", "webm", "mov", "ogg"}

// Classify applies the stream-detection heuristics in precedence order:
// HLS tokens win over DASH tokens, which win over the mp4 heuristic,
// which wins over plain extension sniffing. Matching is case-insensitive
// substring matching on the whole URL, mirroring how the page scanner
// sniffs network traffic.
func Classify(raw string) Classification {
	return ClassifyWithContentType(raw, "")
}

// ClassifyWithContentType is Classify with an optional HTTP Content-Type
// used as a last resort when the URL path carries no recognized suffix.
func ClassifyWithContentType(raw, contentType string) Classification {
	s := strings.ToLower(raw)

	if strings.Contains(s, "m3u8") {
		return Classification{Kind: KindHLS}
	}
	if strings.Contains(s, ".mpd") || strings.Contains(s, "dash") {
		return Classification{Kind: KindDASH}
	}
	if strings.Contains(s, ".mp4") && (strings.Contains(s, "video") || strings.Contains(s, "media")) {
		return Classification{Kind: KindDirectRemote, Ext: "mp4"}
	}

	if ext := pathExtension(s); ext != "" {
		return Classification{Kind: KindDirectRemote, Ext: ext}
	}
	if ext := extensionFromContentType(contentType); ext != "" {
		return Classification{Kind: KindDirectRemote, Ext: ext}
	}
	return Classification{Kind: KindUnsupported}
}

func pathExtension(lowered string) string {
	p := lowered
	if u, err := url.Parse(lowered); err == nil && u.Path != "" {
		p = u.Path
	}
	ext := strings.TrimPrefix(path.Ext(p), ".")
	for _, known := range directExtensions {
		if ext == known {
			return ext
		}
	}
	return ""
}

func extensionFromContentType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	switch mt {
	case "video/mp4":
		return "mp4"
	case "video/webm":
		return "webm"
	case "video/quicktime":
		return "mov"
	case "video/ogg", "application/ogg":
		return "ogg"
	}
	return ""
}

// DetectSocialPlatform reports the embedded-player platform for page
// URLs that should be saved as references instead of downloaded.
func DetectSocialPlatform(raw string) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	host := strings.ToLower(u.Hostname())
	switch {
	case strings.Contains(host, "youtube.com"), strings.Contains(host, "youtu.be"):
		return "youtube", true
	case strings.Contains(host, "twitter.com"), strings.Contains(host, "x.com"):
		return "twitter", true
	case strings.Contains(host, "instagram.com"):
		return "instagram", true
	}
	return "", false
}

// SocialTitle derives a display title for a social reference from its
// platform and URL path.
func SocialTitle(raw, platform string) string {
	p := raw
	if u, err := url.Parse(raw); err == nil {
		p = u.Path
	}
	if len(p) > 40 {
		p = p[:40]
	}
	switch platform {
	case "youtube":
		return fmt.Sprintf("YouTube: %s", p)
	case "twitter":
		return fmt.Sprintf("Twitter/X: %s", p)
	case "instagram":
		return fmt.Sprintf("Instagram: %s", p)
	}
	return raw
}

// TitleFromURL derives a catalog title from the URL's last path
// component with its extension stripped, falling back to a default for
// opaque URLs.
func TitleFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Path == "" || u.Path == "/" {
		return "Downloaded Video"
	}
	base := path.Base(u.Path)
	if ext := path.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	if base == "" || base == "." || base == "/" {
		return "Downloaded Video"
	}
	return base
}
