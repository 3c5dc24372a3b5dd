package models

import (
	"mime"
	"strings"
)

// MediaType classifies an uploaded asset.
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
	MediaAudio MediaType = "audio"
)

// MediaTypeOf infers the media type from a MIME content type such as
// "image/png; charset=binary". ok is false for anything that is not an
// image, video or audio type.
func MediaTypeOf(contentType string) (mt MediaType, ok bool) {
	base := contentType
	if parsed, _, err := mime.ParseMediaType(contentType); err == nil {
		base = parsed
	}

	major, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(base)), "/")
	switch MediaType(major) {
	case MediaImage, MediaVideo, MediaAudio:
		return MediaType(major), true
	default:
		return "", false
	}
}

// AssetRef points at an uploaded asset.
type AssetRef struct {
	URL       string    `json:"url"`
	MediaType MediaType `json:"media_type"`
}
