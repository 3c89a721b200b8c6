package ratelimit

import "strings"

// MatchEndpoint resolves the rate tier for a request. Exact path matches win;
// a config whose Path ends in "/" acts as a prefix, so the "/jobs/" tier
// covers "/jobs/42/apply". Returns nil when only the default tier applies.
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	// Health probes are never throttled.
	if path == "/health" && method == "GET" {
		return &EndpointConfig{}
	}

	for i := range configs {
		if configs[i].Method == method && configs[i].Path == path {
			return &configs[i]
		}
	}

	for i := range configs {
		c := &configs[i]
		if c.Method == method && strings.HasSuffix(c.Path, "/") && strings.HasPrefix(path, c.Path) {
			return c
		}
	}

	return nil
}
