// File path: internal/convert/metadata.go
package convert

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	envLookupRe = regexp.MustCompile(`(?i)Deno\.env\.get\(\s*["']([A-Za-z_][A-Za-z0-9_]*)["']\s*\)`)
	methodRes   = buildMethodPatterns()
)

// canonicalMethods is the probe order for method detection. OPTIONS is
// detected like any other method; downstream generators skip it because the
// shared CORS middleware answers preflights.
var canonicalMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}

// authIndicators are the substrings that mark a handler as requiring a
// caller credential.
var authIndicators = []string{
	"authorization",
	"bearer",
	"auth.getuser",
	"x-api-key",
	"jwt",
}

var serviceIndicators = map[ServiceKind][]string{
	ServiceDatabase: {"supabase", ".from(", "createclient"},
	ServicePayment:  {"stripe"},
	ServiceEmail:    {"resend", "sendgrid", "smtp"},
}

func buildMethodPatterns() map[string]*regexp.Regexp {
	out := make(map[string]*regexp.Regexp, len(canonicalMethods))
	for _, method := range canonicalMethods {
		out[method] = regexp.MustCompile(fmt.Sprintf(`(?i)req\.method\s*[!=]==?\s*["']%s["']`, method))
	}
	return out
}

// ExtractMetadata derives structured facts from the raw text of an edge
// function. The derivation is pure: the same text always yields the same
// metadata, and malformed input degrades to defaults instead of failing.
func ExtractMetadata(raw string) Metadata {
	lower := strings.ToLower(raw)

	meta := Metadata{
		EnvVars:      scanEnvVars(raw),
		HTTPMethods:  scanMethods(raw),
		RequiresAuth: containsAny(lower, authIndicators),
	}
	for _, kind := range []ServiceKind{ServiceDatabase, ServicePayment, ServiceEmail} {
		if containsAny(lower, serviceIndicators[kind]) {
			meta.Services = append(meta.Services, kind)
		}
	}
	if strings.Contains(lower, "webhook") || strings.Contains(lower, "signature") {
		meta.WebhookDetected = true
		meta.WebhookKind = inferWebhookKind(lower)
	}
	return meta
}

// scanEnvVars collects secret-lookup references in insertion order,
// deduplicated on first occurrence.
func scanEnvVars(raw string) []string {
	matches := envLookupRe.FindAllStringSubmatch(raw, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(matches))
	var out []string
	for _, match := range matches {
		name := match[1]
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// scanMethods probes each canonical method in turn. A handler that never
// inspects req.method is assumed to accept POST only.
func scanMethods(raw string) []string {
	var out []string
	for _, method := range canonicalMethods {
		if methodRes[method].MatchString(raw) {
			out = append(out, method)
		}
	}
	if len(out) == 0 {
		out = []string{"POST"}
	}
	return out
}

// inferWebhookKind checks provider-specific signature headers and
// verification calls in priority order, falling back to generic.
func inferWebhookKind(lower string) WebhookKind {
	switch {
	case strings.Contains(lower, "stripe-signature") || strings.Contains(lower, "constructevent"):
		return WebhookStripe
	case strings.Contains(lower, "x-hub-signature") || strings.Contains(lower, "x-github-event"):
		return WebhookGithub
	case strings.Contains(lower, "x-gitlab-token"):
		return WebhookGitlab
	default:
		return WebhookGeneric
	}
}

func containsAny(haystack string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}
