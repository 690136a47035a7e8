// File path: internal/convert/testgen.go
package convert

import (
	"fmt"
	"strings"
)

// GenerateTestScaffold renders a jest/supertest integration-test module for
// a converted function from its metadata alone. Per detected method (minus
// OPTIONS) it asserts the positive path stays below the server-error
// threshold and, for auth-gated handlers, that an unauthenticated request
// is rejected with 401.
func GenerateTestScaffold(meta Metadata, functionName string) string {
	path := RoutePath(functionName)

	var lines []string
	lines = append(lines,
		fmt.Sprintf("// Integration tests generated for %q", functionName),
		"const request = require('supertest');",
		"const app = require('../server');",
		"",
		fmt.Sprintf("describe('%s', () => {", functionName),
	)

	first := true
	for _, method := range meta.HTTPMethods {
		if method == "OPTIONS" {
			continue
		}
		if !first {
			lines = append(lines, "")
		}
		first = false
		verb := strings.ToLower(method)
		lines = append(lines,
			fmt.Sprintf("  test('%s %s responds without a server error', async () => {", method, path),
			fmt.Sprintf("    const res = await request(app).%s('%s')%s;", verb, path, requestBody(method)),
			"    expect(res.status).toBeLessThan(500);",
			"  });",
		)
		if meta.RequiresAuth {
			lines = append(lines,
				"",
				fmt.Sprintf("  test('%s %s rejects unauthenticated requests', async () => {", method, path),
				fmt.Sprintf("    const res = await request(app).%s('%s')%s;", verb, path, requestBody(method)),
				"    expect(res.status).toBe(401);",
				"  });",
			)
		}
	}

	lines = append(lines, "});")
	return strings.Join(lines, "\n") + "\n"
}

func requestBody(method string) string {
	switch method {
	case "GET", "DELETE":
		return ""
	default:
		return ".send({})"
	}
}
