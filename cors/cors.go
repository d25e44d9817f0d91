// Package cors decides whether a request's Origin is admitted by the
// configured allow-rule list. Rules come in three flavours: exact origins,
// wildcard domains such as https://*.vercel.app, and regex:-prefixed patterns.
package cors

import (
	"net/url"
	"regexp"
	"strings"
)

// ParseRules splits the comma-separated configuration value into individual
// rules, dropping empty entries.
func ParseRules(csv string) []string {
	var rules []string
	for _, raw := range strings.Split(csv, ",") {
		rule := strings.TrimSpace(raw)
		if rule != "" {
			rules = append(rules, rule)
		}
	}
	return rules
}

// IsAllowed reports whether origin passes the rule list. Rules are tried in
// configured order and the first match wins. An empty origin (non-browser
// client) and an empty rule list (open policy) are both allowed. Malformed
// rules are skipped so one bad config entry cannot reject all traffic.
func IsAllowed(origin string, rules []string) bool {
	origin = normalize(origin)
	if origin == "" {
		return true
	}
	if len(rules) == 0 {
		return true
	}

	for _, raw := range rules {
		rule := normalize(raw)
		if rule == "" {
			continue
		}
		if rule == "*" {
			return true
		}
		if rule == origin {
			return true
		}
		if pattern, ok := strings.CutPrefix(rule, "regex:"); ok {
			re, err := regexp.Compile(pattern)
			if err != nil {
				continue
			}
			if re.MatchString(origin) {
				return true
			}
			continue
		}
		if strings.Contains(rule, "*") && matchWildcard(rule, origin) {
			return true
		}
	}

	return false
}

func normalize(s string) string {
	return strings.TrimSuffix(strings.TrimSpace(s), "/")
}

// matchWildcard matches rules like https://*.vercel.app or *.example.com:3000.
// A scheme in the rule pins the origin's scheme, a port pins the port, and the
// host pattern must be a *. prefix whose literal suffix ends the origin host.
// The bare apex does not match: *.vercel.app admits app.vercel.app but not
// vercel.app itself.
func matchWildcard(rule, origin string) bool {
	hadScheme := strings.Contains(rule, "://")
	if !hadScheme {
		rule = "https://" + rule
	}

	ruleURL, err := url.Parse(rule)
	if err != nil || ruleURL.Hostname() == "" {
		return false
	}
	originURL, err := url.Parse(origin)
	if err != nil || originURL.Hostname() == "" {
		return false
	}

	if hadScheme && ruleURL.Scheme != originURL.Scheme {
		return false
	}
	if ruleURL.Port() != "" && ruleURL.Port() != originURL.Port() {
		return false
	}

	host := ruleURL.Hostname()
	if !strings.HasPrefix(host, "*.") {
		return false
	}

	// Keep the leading dot so the apex domain itself cannot slip through.
	suffix := strings.TrimPrefix(host, "*")
	return strings.HasSuffix(originURL.Hostname(), suffix)
}
