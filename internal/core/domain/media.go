package domain

import (
	"mime"
	"path"
	"strings"
)

// MediaKind selects the probing strategy for an asset.
type MediaKind uint8

const (
	// MediaUnknown is content whose type could not be determined. Both strategies are tried.
	MediaUnknown MediaKind = iota
	// MediaStill is a raster image decodable from its header (PNG, JPEG, GIF, WebP, BMP).
	MediaStill
	// MediaVector is an SVG document.
	MediaVector
	// MediaVideo is a video container that always requires the probe command.
	MediaVideo
)

// String returns the string representation of the MediaKind.
func (k MediaKind) String() string {
	switch k {
	case MediaStill:
		return "still"
	case MediaVector:
		return "vector"
	case MediaVideo:
		return "video"
	default:
		return "unknown"
	}
}

// HeaderDecodable reports whether in-memory header parsing should be attempted first.
func (k MediaKind) HeaderDecodable() bool {
	return k == MediaStill || k == MediaVector || k == MediaUnknown
}

var stillContentTypes = map[string]struct{}{
	"image/png":      {},
	"image/apng":     {},
	"image/jpeg":     {},
	"image/jpg":      {},
	"image/pjpeg":    {},
	"image/gif":      {},
	"image/webp":     {},
	"image/bmp":      {},
	"image/x-bmp":    {},
	"image/x-ms-bmp": {},
}

var extensionKinds = map[string]MediaKind{
	".png":  MediaStill,
	".apng": MediaStill,
	".jpg":  MediaStill,
	".jpeg": MediaStill,
	".jfif": MediaStill,
	".gif":  MediaStill,
	".webp": MediaStill,
	".bmp":  MediaStill,
	".svg":  MediaVector,
	".mp4":  MediaVideo,
	".m4v":  MediaVideo,
	".webm": MediaVideo,
	".mov":  MediaVideo,
	".ogv":  MediaVideo,
	".mkv":  MediaVideo,
	".avi":  MediaVideo,
}

// ClassifyMedia decides the probing strategy from the Content-Type (when known) and the
// location's file extension. The content type wins when it is specific; generic types such as
// application/octet-stream defer to the extension.
func ClassifyMedia(contentType, location string) MediaKind {
	if kind := kindFromContentType(contentType); kind != MediaUnknown {
		return kind
	}
	return kindFromExtension(location)
}

func kindFromContentType(contentType string) MediaKind {
	if contentType == "" {
		return MediaUnknown
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	}

	switch {
	case mediaType == "image/svg+xml":
		return MediaVector
	case strings.HasPrefix(mediaType, "video/"):
		return MediaVideo
	}
	if _, ok := stillContentTypes[mediaType]; ok {
		return MediaStill
	}
	return MediaUnknown
}

func kindFromExtension(location string) MediaKind {
	// Strip query and fragment so URLs such as "clip.mp4?raw=1" classify correctly.
	if i := strings.IndexAny(location, "?#"); i >= 0 {
		location = location[:i]
	}
	ext := strings.ToLower(path.Ext(location))
	if kind, ok := extensionKinds[ext]; ok {
		return kind
	}
	return MediaUnknown
}

// ContentTypeForPath returns the MIME type implied by a path's extension, or "" if unknown.
func ContentTypeForPath(location string) string {
	ext := strings.ToLower(path.Ext(location))
	if ext == ".svg" {
		return "image/svg+xml"
	}
	return mime.TypeByExtension(ext)
}
