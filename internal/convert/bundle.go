// File path: internal/convert/bundle.go
package convert

import (
	"fmt"
	"strings"
)

// VersionMap pins npm package versions for the generated manifests. It is
// injected rather than hardcoded so alternate version sets can be used
// under test.
type VersionMap map[string]string

// DefaultVersions returns the version pins shipped with the converter.
func DefaultVersions() VersionMap {
	return VersionMap{
		"express":               "^4.18.2",
		"cors":                  "^2.8.5",
		"dotenv":                "^16.3.1",
		"@supabase/supabase-js": "^2.39.0",
		"stripe":                "^14.10.0",
		"resend":                "^3.2.0",
	}
}

// coreDependencies are always present in a bundle regardless of what the
// individual functions use.
var coreDependencies = []string{"express", "cors", "dotenv"}

// BuildBundle merges per-function results into one deployable bundle:
// deduplicated dependency union, environment template, and the multi-route
// entry module. Pure assembly; missing metadata just yields a smaller
// union, never an error.
func BuildBundle(results []Result, versions VersionMap) Bundle {
	if versions == nil {
		versions = DefaultVersions()
	}

	names := append([]string(nil), coreDependencies...)
	for _, result := range results {
		names = append(names, result.Dependencies...)
	}
	deps := make([]Dependency, 0, len(names))
	for _, name := range sortedUniqueStrings(names) {
		version, ok := versions[name]
		if !ok {
			version = "latest"
		}
		deps = append(deps, Dependency{Name: name, Version: version})
	}

	return Bundle{
		Results:      results,
		Dependencies: deps,
		EnvTemplate:  buildEnvTemplate(results),
		EntrySource:  buildEntryModule(results),
	}
}

// buildEnvTemplate unions the env vars of every function, first occurrence
// order preserved, one placeholder line each.
func buildEnvTemplate(results []Result) string {
	var names []string
	usesDatabase := false
	for _, result := range results {
		names = append(names, result.Metadata.EnvVars...)
		if result.Metadata.UsesService(ServiceDatabase) {
			usesDatabase = true
		}
	}
	if usesDatabase {
		names = append(names, "SUPABASE_URL", "SUPABASE_SERVICE_ROLE_KEY")
	}
	names = append(names, "PORT")

	lines := []string{"# Environment template generated from the converted functions"}
	for _, name := range uniqueStrings(names) {
		lines = append(lines, name+"=")
	}
	return strings.Join(lines, "\n") + "\n"
}

// buildEntryModule renders the server entry point wiring every generated
// route under a path derived from its function name.
func buildEntryModule(results []Result) string {
	lines := []string{
		"// Server entry point generated from the converted functions",
		"require('dotenv').config();",
		"const express = require('express');",
		"const cors = require('cors');",
		"",
		"const app = express();",
		"app.use(cors());",
		"app.use(express.json());",
		"",
	}
	for _, result := range results {
		route := RoutePath(result.FunctionName)
		lines = append(lines, fmt.Sprintf("app.use('%s', require('./routes%s'));", route, route))
	}
	lines = append(lines,
		"",
		"const port = process.env.PORT || 3000;",
		"app.listen(port, () => console.log(`listening on ${port}`));",
		"",
		"module.exports = app;",
	)
	return strings.Join(lines, "\n") + "\n"
}
