package imaging

import (
	"encoding/base64"
	"errors"
	"net/url"
	"strings"
)

var ErrNotDataURI = errors.New("imaging: not a data URI")

// IsDataURI reports whether s is an inline data URI. Hosted references
// (http/https URLs) are not data URIs and pass through uploads unchanged.
func IsDataURI(s string) bool {
	return strings.HasPrefix(s, "data:")
}

// ParseDataURI decodes an inline data URI into raw bytes and a content type.
// Both base64 and percent-encoded payloads are accepted; the latter is how
// the editor ships its built-in SVG answer icons.
func ParseDataURI(s string) ([]byte, string, error) {
	if !IsDataURI(s) {
		return nil, "", ErrNotDataURI
	}
	meta, payload, found := strings.Cut(strings.TrimPrefix(s, "data:"), ",")
	if !found {
		return nil, "", ErrNotDataURI
	}

	contentType := meta
	isBase64 := false
	if i := strings.Index(meta, ";"); i >= 0 {
		contentType = meta[:i]
		isBase64 = strings.Contains(meta[i:], "base64")
	}
	if contentType == "" {
		contentType = "text/plain"
	}

	if isBase64 {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, "", err
		}
		return data, contentType, nil
	}
	decoded, err := url.QueryUnescape(payload)
	if err != nil {
		return nil, "", err
	}
	return []byte(decoded), contentType, nil
}

// EncodeDataURI wraps raw bytes as an inline base64 data URI.
func EncodeDataURI(data []byte, contentType string) string {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
