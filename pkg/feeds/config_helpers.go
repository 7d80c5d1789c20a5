package feeds

import (
	"net/http"
	"strings"
)

const (
	ConfigUserAgentKey      = "user_agent"
	ConfigAcceptKey         = "accept"
	ConfigAcceptLanguageKey = "accept_language"
	ConfigCacheControlKey   = "cache_control"
	ConfigHeadersKey        = "headers"

	defaultUserAgent = "quake-harvester/1.0"
	defaultAccept    = "application/geo+json, application/json"
)

// headerSettings maps feed config keys to request headers. An empty fallback
// leaves the header out.
var headerSettings = []struct {
	key      string
	header   string
	fallback string
}{
	{key: ConfigUserAgentKey, header: "User-Agent", fallback: defaultUserAgent},
	{key: ConfigAcceptKey, header: "Accept", fallback: defaultAccept},
	{key: ConfigAcceptLanguageKey, header: "Accept-Language"},
	{key: ConfigCacheControlKey, header: "Cache-Control"},
}

// Setting returns the trimmed string stored under key in the feed config.
// Missing, blank and non-string values give fallback.
func (f Feed) Setting(key, fallback string) string {
	val, ok := f.Config[key].(string)
	if !ok {
		return fallback
	}
	if val = strings.TrimSpace(val); val == "" {
		return fallback
	}
	return val
}

// Headers builds the request headers for a feed. Entries under the "headers"
// config map are applied last and win over the named settings.
func Headers(f Feed) map[string]string {
	headers := make(map[string]string, len(headerSettings))
	for _, s := range headerSettings {
		if v := f.Setting(s.key, s.fallback); v != "" {
			headers[s.header] = v
		}
	}

	extra, _ := f.Config[ConfigHeadersKey].(map[string]any)
	for name, raw := range extra {
		val, ok := raw.(string)
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			continue
		}
		headers[http.CanonicalHeaderKey(name)] = strings.TrimSpace(val)
	}
	return headers
}
