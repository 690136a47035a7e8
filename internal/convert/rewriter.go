// File path: internal/convert/rewriter.go
package convert

import (
	"regexp"
	"strings"
)

// preflightMarker replaces the OPTIONS preflight branch; the shared CORS
// middleware answers preflights in the target server. The route generator
// also uses it as the tier-2 extraction anchor.
const preflightMarker = "// CORS preflight handled by shared middleware"

type rewriteRule struct {
	name    string
	pattern *regexp.Regexp
	replace string
	// expand, when set, computes the replacement from the submatches and
	// takes precedence over replace.
	expand func(match []string) string
}

// RuleGroup is an ordered list of (matcher, replacer) pairs. Group order is
// load-bearing: each group's doc string records why it converges and why it
// must run before the groups below it.
type RuleGroup struct {
	Name  string
	rules []rewriteRule
}

// Rewriter applies ordered pattern substitutions translating edge-runtime
// constructs into their server-framework equivalents. It is pure text to
// text; unmatched patterns pass through unchanged and the output is never
// syntactically validated.
type Rewriter struct {
	groups []RuleGroup
}

func NewRewriter() *Rewriter {
	return &Rewriter{groups: defaultRuleGroups()}
}

// Rewrite runs every rule group in order over the whole text. Re-applying
// Rewrite to its own output is a no-op: each group's replacements do not
// re-trigger that group or any later one.
func (r *Rewriter) Rewrite(text string) string {
	for _, group := range r.groups {
		for _, rule := range group.rules {
			if rule.expand != nil {
				expand := rule.expand
				pattern := rule.pattern
				text = pattern.ReplaceAllStringFunc(text, func(m string) string {
					return expand(pattern.FindStringSubmatch(m))
				})
				continue
			}
			text = rule.pattern.ReplaceAllString(text, rule.replace)
		}
	}
	return text
}

// Groups exposes the configured rule groups, mainly for diagnostics.
func (r *Rewriter) Groups() []RuleGroup {
	return r.groups
}

func defaultRuleGroups() []RuleGroup {
	return []RuleGroup{
		{
			// Converges: removed lines cannot reappear. Must run before the
			// specifier rewrites so platform imports are not half-translated.
			Name: "platform-imports",
			rules: []rewriteRule{
				{
					name:    "drop-platform-import",
					pattern: regexp.MustCompile(`(?m)^[ \t]*import\s[^\n]*?from\s*["'](?:https://deno\.land/[^"']*|jsr:[^"']*)["'];?[ \t]*\r?\n?`),
					replace: "",
				},
				{
					name:    "drop-platform-side-effect-import",
					pattern: regexp.MustCompile(`(?m)^[ \t]*import\s*["'](?:https://deno\.land/[^"']*|jsr:[^"']*)["'];?[ \t]*\r?\n?`),
					replace: "",
				},
			},
		},
		{
			// Converges: bare package names carry no npm:/esm.sh prefix, so
			// rewritten specifiers never match again.
			Name: "registry-specifiers",
			rules: []rewriteRule{
				{
					name:    "npm-specifier",
					pattern: regexp.MustCompile(`(from\s*["'])npm:((?:@[\w.\-]+/)?[\w.\-]+)(?:@[^"']*)?(["'])`),
					replace: "${1}${2}${3}",
				},
				{
					name:    "esm-specifier",
					pattern: regexp.MustCompile(`(from\s*["'])https://esm\.sh/((?:@[\w.\-]+/)?[\w.\-]+)(?:@[^"']*)?(["'])`),
					replace: "${1}${2}${3}",
				},
			},
		},
		{
			// Converges: process.env, req.body and req.headers[...] do not
			// match any rule in this group.
			Name: "runtime-apis",
			rules: []rewriteRule{
				{
					name:    "secret-lookup",
					pattern: regexp.MustCompile(`Deno\.env\.get\(\s*["']([A-Za-z_][A-Za-z0-9_]*)["']\s*\)`),
					replace: "process.env.${1}",
				},
				{
					name:    "json-body",
					pattern: regexp.MustCompile(`await\s+req\.json\(\)`),
					replace: "req.body",
				},
				{
					name:    "text-body",
					pattern: regexp.MustCompile(`await\s+req\.text\(\)`),
					replace: "req.body",
				},
				{
					name:    "header-lookup",
					pattern: regexp.MustCompile(`req\.headers\.get\(\s*["']([^"']+)["']\s*\)`),
					expand: func(match []string) string {
						return `req.headers["` + strings.ToLower(match[1]) + `"]`
					},
				},
			},
		},
		{
			// Most specific first: the status+headers form must win before
			// the body+headers form can claim the same construction, and
			// both before the body-only form. Converges: res.status(...) and
			// res.json(...) never match a `new Response` pattern.
			Name: "responses",
			rules: []rewriteRule{
				{
					name:    "response-with-status",
					pattern: regexp.MustCompile(`(?s)new\s+Response\(\s*JSON\.stringify\((.*?)\)\s*,\s*\{(?:[^{}]|\{[^{}]*\})*?status:\s*(\d+)(?:[^{}]|\{[^{}]*\})*?\}\s*\)`),
					replace: "res.status(${2}).json(${1})",
				},
				{
					name:    "response-with-headers",
					pattern: regexp.MustCompile(`(?s)new\s+Response\(\s*JSON\.stringify\((.*?)\)\s*,\s*\{(?:[^{}]|\{[^{}]*\})*\}\s*\)`),
					replace: "res.json(${1})",
				},
				{
					name:    "response-body-only",
					pattern: regexp.MustCompile(`(?s)new\s+Response\(\s*JSON\.stringify\((.*?)\)\s*\)`),
					replace: "res.json(${1})",
				},
			},
		},
		{
			// Converges: the marker comment contains no OPTIONS branch. Runs
			// after the response rewrites so the branch body's shape does
			// not matter.
			Name: "preflight",
			rules: []rewriteRule{
				{
					name:    "options-branch",
					pattern: regexp.MustCompile(`(?s)if\s*\(\s*req\.method\s*===?\s*["']OPTIONS["']\s*\)\s*\{(?:[^{}]|\{[^{}]*\})*\}`),
					replace: preflightMarker,
				},
			},
		},
		{
			// Last: the declarations are only unreferenced once the response
			// and preflight rewrites removed their uses. Converges: removed
			// lines cannot reappear.
			Name: "shared-header-consts",
			rules: []rewriteRule{
				{
					name:    "cors-headers-const",
					pattern: regexp.MustCompile(`(?m)^[ \t]*const\s+corsHeaders\s*=\s*\{[^}]*\}\s*;?[ \t]*\r?\n?`),
					replace: "",
				},
			},
		},
	}
}
