package cdn

import (
	"net/url"
	"strings"
)

// PublicIDFromURL extracts the CDN public id from a delivery URL. The public
// id is everything after the version segment ("/v<digits>/") with the file
// extension stripped. An empty string means the URL is not a CDN delivery URL.
func PublicIDFromURL(rawURL string) string {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || parsed.Path == "" {
		return ""
	}

	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	versionIdx := -1
	for i, segment := range segments {
		if isVersionSegment(segment) {
			versionIdx = i
		}
	}
	if versionIdx < 0 || versionIdx == len(segments)-1 {
		return ""
	}

	publicID := strings.Join(segments[versionIdx+1:], "/")
	if dot := strings.LastIndex(publicID, "."); dot > 0 {
		publicID = publicID[:dot]
	}
	return publicID
}

func isVersionSegment(segment string) bool {
	if len(segment) < 2 || segment[0] != 'v' {
		return false
	}
	for _, r := range segment[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
