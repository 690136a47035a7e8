// File path: internal/convert/segmenter.go
package convert

import (
	"regexp"
	"strings"
)

var tryOpenRe = regexp.MustCompile(`(?i)(^|\W)try\s*\{`)

// blockSignatures pair a block kind with the substrings that open it. Probe
// order matters: webhook verification calls also mention the client object,
// so they are tested first.
var blockSignatures = []struct {
	kind    BlockKind
	markers []string
}{
	{BlockWebhookValidation, []string{"constructevent", "webhooks.verify", "verifysignature"}},
	{BlockDatabase, []string{"supabase.", ".from(", ".rpc("}},
	{BlockAPICall, []string{"fetch("}},
}

// SegmentLogic walks the source line by line and carves out classified
// spans of business logic found inside error-handling scope.
//
// The walker is a deliberately small state machine: outside/insideScope
// plus a signed brace depth. Nesting beyond one level of try scope is not
// specially handled; the first `try {` opens the scope and the first return
// to depth zero closes it.
func SegmentLogic(raw string) []LogicBlock {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	lines := strings.Split(raw, "\n")

	var blocks []LogicBlock
	inside := false
	depth := 0

	var open *LogicBlock
	var openLines []string

	flush := func() {
		if open == nil {
			return
		}
		open.Text = strings.Join(openLines, "\n")
		blocks = append(blocks, *open)
		open = nil
		openLines = nil
	}

	for idx, line := range lines {
		lineNo := idx + 1
		if !inside {
			if tryOpenRe.MatchString(line) {
				inside = true
				depth = braceDelta(line)
			}
			continue
		}

		depth += braceDelta(line)

		if kind, ok := classifyLine(line); ok {
			if open == nil {
				open = &LogicBlock{Kind: kind, StartLine: lineNo, EndLine: lineNo}
				openLines = []string{line}
			} else {
				// Continuation policy: while a block is open, any
				// signature-matching line extends it regardless of its own
				// category.
				open.EndLine = lineNo
				openLines = append(openLines, line)
			}
		} else {
			flush()
		}

		if depth <= 0 {
			flush()
			inside = false
			depth = 0
		}
	}
	flush()
	return blocks
}

func classifyLine(line string) (BlockKind, bool) {
	lower := strings.ToLower(line)
	for _, sig := range blockSignatures {
		for _, marker := range sig.markers {
			if strings.Contains(lower, marker) {
				return sig.kind, true
			}
		}
	}
	return "", false
}

func braceDelta(line string) int {
	delta := 0
	for _, r := range line {
		switch r {
		case '{':
			delta++
		case '}':
			delta--
		}
	}
	return delta
}
