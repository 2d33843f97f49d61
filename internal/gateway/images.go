package gateway

import "strings"

// ImageResolver normalizes image references coming back from the backend into
// absolute URLs. The backend mixes CDN URLs, inline data URLs, and relative
// media paths, so every reference goes through one resolution pass.
type ImageResolver struct {
	baseURL string
}

// NewImageResolver creates a resolver that prefixes relative paths with the
// given media base URL.
func NewImageResolver(mediaBaseURL string) *ImageResolver {
	return &ImageResolver{baseURL: strings.TrimRight(mediaBaseURL, "/")}
}

// Resolve turns an image reference into a displayable URL. Absolute URLs and
// data URLs pass through unchanged; relative paths are anchored to the media
// base. An empty reference resolves to empty so callers can apply their own
// placeholder.
func (r *ImageResolver) Resolve(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}

	if strings.HasPrefix(ref, "data:") {
		return ref
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}

	if !strings.HasPrefix(ref, "/") {
		ref = "/" + ref
	}
	return r.baseURL + ref
}
