package youtube

import (
	"fmt"
	"regexp"
)

// The three supported URL shapes. A video ID is always exactly 11
// URL-safe characters.
var (
	watchRegex = regexp.MustCompile(`youtube\.com/watch\?v=([a-zA-Z0-9_-]{11})`)
	shortRegex = regexp.MustCompile(`youtu\.be/([a-zA-Z0-9_-]{11})`)
	embedRegex = regexp.MustCompile(`youtube\.com/embed/([a-zA-Z0-9_-]{11})`)
)

// ExtractVideoID pulls the 11-character video ID out of a watch, short or
// embed URL. It returns "" when the URL matches none of the shapes.
func ExtractVideoID(url string) string {
	if url == "" {
		return ""
	}

	if m := watchRegex.FindStringSubmatch(url); m != nil {
		return m[1]
	}
	if m := shortRegex.FindStringSubmatch(url); m != nil {
		return m[1]
	}
	if m := embedRegex.FindStringSubmatch(url); m != nil {
		return m[1]
	}
	return ""
}

// IsValidURL reports whether a video ID can be extracted from url.
func IsValidURL(url string) bool {
	return ExtractVideoID(url) != ""
}

// ThumbnailURL builds the thumbnail address for a video ID.
// Quality options: default, mqdefault, hqdefault, sddefault, maxresdefault.
func ThumbnailURL(videoID, quality string) string {
	if videoID == "" {
		return ""
	}
	if quality == "" {
		quality = "hqdefault"
	}
	return fmt.Sprintf("https://img.youtube.com/vi/%s/%s.jpg", videoID, quality)
}

// WatchURL builds the watch address for a video ID.
func WatchURL(videoID string) string {
	return fmt.Sprintf("https://www.youtube.com/watch?v=%s", videoID)
}
