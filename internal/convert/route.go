// File path: internal/convert/route.go
package convert

import (
	"fmt"
	"regexp"
	"strings"
)

// minExtractedLen is the minimum trimmed length an extracted body must have
// before it is trusted; anything shorter gets the placeholder handler.
const minExtractedLen = 40

var (
	tryScopeRe  = regexp.MustCompile(`try\s*\{`)
	reviewMarks = []string{"TODO", "FIXME"}
)

// Extraction tiers, first success wins.
const (
	tierTryScope = iota + 1
	tierPreflight
	tierStripped
)

// GenerateRoute renders the persistent-server route module for one
// converted function and reports the confidence metrics for it.
//
// preservedLogicPct starts at 100 for a clean tier-1 extraction and only
// ever moves down: -5 per unresolved review marker (floor 50), forced 80
// when extraction fell through to the stripped-text tier, forced 30 when no
// usable business logic was found at all.
func GenerateRoute(fn SourceFunction, meta Metadata, blocks []LogicBlock, rewritten string) (string, int, int) {
	body, tier := extractLogic(rewritten)

	pct := 100
	reviews := 0
	if tier == tierTryScope {
		marks := countReviewMarkers(body)
		pct -= 5 * marks
		if pct < 50 {
			pct = 50
		}
		reviews += marks
	}

	if len(strings.TrimSpace(body)) < minExtractedLen {
		body = placeholderBody(fn)
		pct = 30
		reviews++
	} else if tier == tierStripped {
		pct = 80
		reviews++
	}

	var lines []string
	lines = append(lines, fmt.Sprintf("// Route handler converted from edge function %q", fn.Name))
	if fn.OriginPath != "" {
		lines = append(lines, "// Source: "+fn.OriginPath)
	}
	if summary := summarizeBlocks(blocks); summary != "" {
		lines = append(lines, "// Detected logic: "+summary)
	}
	lines = append(lines,
		"const express = require('express');",
		"const router = express.Router();",
	)
	if meta.UsesService(ServiceDatabase) {
		lines = append(lines,
			"const { createClient } = require('@supabase/supabase-js');",
			"const supabase = createClient(process.env.SUPABASE_URL, process.env.SUPABASE_SERVICE_ROLE_KEY);",
		)
	}
	lines = append(lines, "")

	for _, method := range meta.HTTPMethods {
		// OPTIONS is answered by the shared CORS middleware.
		if method == "OPTIONS" {
			continue
		}
		lines = append(lines, handlerLines(fn, meta, method, body)...)
		lines = append(lines, "")
	}

	lines = append(lines, "module.exports = router;")
	return strings.Join(lines, "\n") + "\n", pct, reviews
}

// RoutePath derives the mount path for a converted function.
func RoutePath(name string) string {
	return "/" + kebabCase(name)
}

// extractLogic walks the extraction tiers over the rewritten text: first
// the contents of the first try scope, then the text following the
// preflight marker, finally the whole text minus import lines and constant
// declarations.
func extractLogic(text string) (string, int) {
	if body, ok := firstTryScope(text); ok {
		return body, tierTryScope
	}
	if idx := strings.Index(text, preflightMarker); idx >= 0 {
		return text[idx+len(preflightMarker):], tierPreflight
	}
	return stripDeclarations(text), tierStripped
}

// firstTryScope returns the balanced interior of the first try block. The
// first `try {` opens the scope and the first return to brace depth zero
// closes it; deeper nesting is not specially handled.
func firstTryScope(text string) (string, bool) {
	loc := tryScopeRe.FindStringIndex(text)
	if loc == nil {
		return "", false
	}
	depth := 1
	for pos := loc[1]; pos < len(text); pos++ {
		switch text[pos] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[loc[1]:pos], true
			}
		}
	}
	// Unbalanced source: take everything after the opening brace.
	return text[loc[1]:], true
}

func stripDeclarations(text string) string {
	var kept []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "import ") || strings.HasPrefix(trimmed, "import\"") || strings.HasPrefix(trimmed, "import'") {
			continue
		}
		if constDeclRe.MatchString(trimmed) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

var constDeclRe = regexp.MustCompile(`^const\s+[\w{},:\s]+=`)

func countReviewMarkers(body string) int {
	total := 0
	for _, mark := range reviewMarks {
		total += strings.Count(body, mark)
	}
	return total
}

func placeholderBody(fn SourceFunction) string {
	origin := fn.OriginPath
	if origin == "" {
		origin = "the original edge function"
	}
	lines := []string{
		"// Automatic extraction could not recover the original handler logic.",
		fmt.Sprintf("// Port the logic from %s manually.", origin),
		"res.json({",
		fmt.Sprintf("  message: 'placeholder handler for %s',", fn.Name),
		"  received: req.body,",
		"});",
	}
	return strings.Join(lines, "\n")
}

func handlerLines(fn SourceFunction, meta Metadata, method, body string) []string {
	var lines []string
	lines = append(lines, fmt.Sprintf("router.%s('/', async (req, res) => {", strings.ToLower(method)))
	lines = append(lines, "  try {")
	if meta.RequiresAuth {
		lines = append(lines,
			"    const authHeader = req.headers['authorization'] || '';",
			"    if (!authHeader.startsWith('Bearer ')) {",
			"      return res.status(401).json({ error: 'Missing authorization header' });",
			"    }",
		)
		if meta.UsesService(ServiceDatabase) {
			lines = append(lines,
				"    const token = authHeader.replace('Bearer ', '');",
				"    const { data: { user }, error: authError } = await supabase.auth.getUser(token);",
				"    if (authError || !user) {",
				"      return res.status(401).json({ error: 'Invalid token' });",
				"    }",
			)
		}
	}
	lines = append(lines, indentLines(body, "    ")...)
	lines = append(lines,
		"  } catch (error) {",
		fmt.Sprintf("    console.error('%s failed:', error);", fn.Name),
		fmt.Sprintf("    res.status(500).json({ error: 'Internal server error in %s' });", fn.Name),
		"  }",
		"});",
	)
	return lines
}

func summarizeBlocks(blocks []LogicBlock) string {
	if len(blocks) == 0 {
		return ""
	}
	parts := make([]string, 0, len(blocks))
	for _, block := range blocks {
		parts = append(parts, fmt.Sprintf("%s (lines %d-%d)", block.Kind, block.StartLine, block.EndLine))
	}
	return strings.Join(parts, ", ")
}
