package video

import (
	"strings"

	"github.com/tidwall/gjson"
)

// ExtractMediaURL scans the whole operation payload for a playable media
// URL. The provider's nested schema for media location varies by response
// shape, so rather than hard-coding a path the walk collects every http(s)
// string under a uri/videoUri/downloadUri key (case-insensitive) and
// prefers one that looks like a direct video download; otherwise the first
// match in traversal order wins. Returns "" when nothing qualifies.
func ExtractMediaURL(op *Operation) string {
	if op == nil || len(op.Raw) == 0 {
		return ""
	}
	var candidates []string
	collectMediaURLs(gjson.ParseBytes(op.Raw), &candidates)
	if len(candidates) == 0 {
		return ""
	}
	for _, candidate := range candidates {
		lower := strings.ToLower(candidate)
		if strings.Contains(lower, ".mp4") || strings.Contains(lower, ":download") || strings.Contains(lower, "/download/") {
			return candidate
		}
	}
	return candidates[0]
}

func collectMediaURLs(node gjson.Result, out *[]string) {
	switch {
	case node.IsObject():
		node.ForEach(func(key, value gjson.Result) bool {
			if value.Type == gjson.String && isMediaKey(key.String()) && isHTTPURL(value.String()) {
				*out = append(*out, value.String())
			}
			collectMediaURLs(value, out)
			return true
		})
	case node.IsArray():
		node.ForEach(func(_, value gjson.Result) bool {
			collectMediaURLs(value, out)
			return true
		})
	}
}

func isMediaKey(key string) bool {
	switch strings.ToLower(key) {
	case "uri", "videouri", "downloaduri":
		return true
	}
	return false
}

func isHTTPURL(value string) bool {
	return strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://")
}
