// File path: internal/convert/converter.go
package convert

import (
	"context"
	"path"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

const defaultWorkers = 4

// Options configures a Converter. Zero values fall back to the built-in
// provider table, version pins and worker count.
type Options struct {
	Providers ProviderTable
	Versions  VersionMap
	Workers   int
}

// Converter runs the full conversion pipeline: metadata extraction, logic
// segmentation, syntax rewriting, route/test generation and webhook
// advisories. Every conversion is a pure function of its input, so
// independent functions are fanned out across workers with no shared
// mutable state; the bundle assembly is the only join point.
type Converter struct {
	rewriter   *Rewriter
	advisories *AdvisoryGenerator
	versions   VersionMap
	workers    int
}

func NewConverter(opts Options) *Converter {
	versions := opts.Versions
	if versions == nil {
		versions = DefaultVersions()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Converter{
		rewriter:   NewRewriter(),
		advisories: NewAdvisoryGenerator(opts.Providers),
		versions:   versions,
		workers:    workers,
	}
}

// Advisories exposes the generator so callers can serve provider lookups
// directly.
func (c *Converter) Advisories() *AdvisoryGenerator {
	return c.advisories
}

// Convert produces the conversion snapshot for one function.
func (c *Converter) Convert(ctx context.Context, fn SourceFunction) Result {
	_ = ctx // conversions are pure and bounded by input length

	meta := ExtractMetadata(fn.RawText)
	blocks := SegmentLogic(fn.RawText)
	rewritten := c.rewriter.Rewrite(fn.RawText)
	route, pct, reviews := GenerateRoute(fn, meta, blocks, rewritten)

	result := Result{
		FunctionName:      fn.Name,
		OriginPath:        fn.OriginPath,
		RouteSource:       route,
		TestSource:        GenerateTestScaffold(meta, fn.Name),
		Dependencies:      dependenciesFor(meta),
		PreservedLogicPct: pct,
		ManualReviewCount: reviews,
		Metadata:          meta,
		Blocks:            blocks,
	}
	if meta.WebhookDetected {
		advisory := c.advisories.Advise(meta.WebhookKind, fn.Name)
		result.Advisory = &advisory
	}
	return result
}

// ConvertAll converts every function concurrently, then aggregates the
// results into a bundle. The bundle is assembled only after all workers
// have joined; there are no partial-result semantics.
func (c *Converter) ConvertAll(ctx context.Context, fns []SourceFunction) (Bundle, error) {
	results := make([]Result, len(fns))

	grp, ctx := errgroup.WithContext(ctx)
	grp.SetLimit(c.workers)
	for i, fn := range fns {
		i, fn := i, fn
		grp.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = c.Convert(ctx, fn)
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return Bundle{}, err
	}

	bundle := BuildBundle(results, c.versions)
	bundle.WebhookGuide = c.advisories.MigrationGuide(results)
	return bundle, nil
}

// FunctionsFromFiles adapts the collaborator contract — a mapping from file
// path to file text, pre-filtered to one function per directory — into
// SourceFunctions. The function name is the containing directory
// (supabase/functions/<name>/index.ts convention), falling back to the file
// stem. Output order is deterministic.
func FunctionsFromFiles(files map[string]string) []SourceFunction {
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	fns := make([]SourceFunction, 0, len(paths))
	for _, p := range paths {
		fns = append(fns, SourceFunction{
			Name:       functionNameFromPath(p),
			RawText:    files[p],
			OriginPath: p,
		})
	}
	return fns
}

func functionNameFromPath(p string) string {
	cleaned := path.Clean(strings.ReplaceAll(p, "\\", "/"))
	dir := path.Base(path.Dir(cleaned))
	if dir != "." && dir != "/" && dir != "" {
		return dir
	}
	base := path.Base(cleaned)
	return strings.TrimSuffix(base, path.Ext(base))
}

func dependenciesFor(meta Metadata) []string {
	deps := []string{"express"}
	if meta.UsesService(ServiceDatabase) {
		deps = append(deps, "@supabase/supabase-js")
	}
	if meta.UsesService(ServicePayment) {
		deps = append(deps, "stripe")
	}
	if meta.UsesService(ServiceEmail) {
		deps = append(deps, "resend")
	}
	return deps
}
