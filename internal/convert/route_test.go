// File path: internal/convert/route_test.go
package convert

import (
	"strings"
	"testing"
)

func convertFixture(t *testing.T, src string) (SourceFunction, Metadata, []LogicBlock, string) {
	t.Helper()
	fn := SourceFunction{Name: "sample-function", RawText: src, OriginPath: "supabase/functions/sample-function/index.ts"}
	meta := ExtractMetadata(src)
	blocks := SegmentLogic(src)
	rewritten := NewRewriter().Rewrite(src)
	return fn, meta, blocks, rewritten
}

func TestGenerateRoutePlaceholderForThinSource(t *testing.T) {
	src := `const apiKey = Deno.env.get("API_KEY")
if (req.method === "POST") return`

	fn, meta, blocks, rewritten := convertFixture(t, src)
	route, pct, reviews := GenerateRoute(fn, meta, blocks, rewritten)

	if pct != 30 {
		t.Fatalf("expected placeholder percentage 30, got %d", pct)
	}
	if reviews != 1 {
		t.Fatalf("expected one manual review item, got %d", reviews)
	}
	if !strings.Contains(route, "placeholder handler for sample-function") {
		t.Fatalf("placeholder body missing:\n%s", route)
	}
	if !strings.Contains(route, "received: req.body") {
		t.Fatalf("placeholder should echo the request body:\n%s", route)
	}
	if !strings.Contains(route, fn.OriginPath) {
		t.Fatalf("placeholder should reference the original location:\n%s", route)
	}
}

func TestGenerateRouteTryScopeFullConfidence(t *testing.T) {
	src := `serve(async (req) => {
  try {
    const { data } = await supabase.from("orders").select()
    const payload = { orders: data, fetched: true }
    return new Response(JSON.stringify(payload), { status: 200 })
  } catch (error) {
    return new Response(JSON.stringify({ error: error.message }), { status: 500 })
  }
})`

	fn, meta, blocks, rewritten := convertFixture(t, src)
	route, pct, reviews := GenerateRoute(fn, meta, blocks, rewritten)

	if pct != 100 {
		t.Fatalf("expected full confidence, got %d", pct)
	}
	if reviews != 0 {
		t.Fatalf("expected no review items, got %d", reviews)
	}
	if !strings.Contains(route, "res.status(200).json(payload)") {
		t.Fatalf("extracted logic missing from route:\n%s", route)
	}
	if !strings.Contains(route, "router.post('/'") {
		t.Fatalf("expected a POST handler:\n%s", route)
	}
}

func TestGenerateRouteReviewMarkerPenalty(t *testing.T) {
	var todos []string
	for i := 0; i < 12; i++ {
		todos = append(todos, "    // TODO: port this piece of the original handler logic")
	}
	src := "try {\n" +
		"  const { data } = await supabase.from(\"orders\").select()\n" +
		strings.Join(todos, "\n") + "\n" +
		"  return new Response(JSON.stringify(data), { status: 200 })\n" +
		"} catch (error) {\n}"

	fn, meta, blocks, rewritten := convertFixture(t, src)
	_, pct, reviews := GenerateRoute(fn, meta, blocks, rewritten)

	if reviews != 12 {
		t.Fatalf("expected 12 review items, got %d", reviews)
	}
	// 100 - 5*12 would be 40; the documented floor is 50.
	if pct != 50 {
		t.Fatalf("expected floored percentage 50, got %d", pct)
	}
}

func TestGenerateRoutePreflightTier(t *testing.T) {
	src := `if (req.method === 'OPTIONS') {
  return new Response('ok', { headers: corsHeaders })
}
if (req.method !== 'POST') {
  return new Response(JSON.stringify({ error: 'method not allowed' }), { status: 405 })
}
const payload = { status: "accepted", queued: true, source: "edge" }
return new Response(JSON.stringify(payload), { status: 202 })`

	fn, meta, blocks, rewritten := convertFixture(t, src)
	route, pct, reviews := GenerateRoute(fn, meta, blocks, rewritten)

	if pct != 100 || reviews != 0 {
		t.Fatalf("preflight tier should carry no penalty, got pct=%d reviews=%d", pct, reviews)
	}
	if !strings.Contains(route, "res.status(202).json(payload)") {
		t.Fatalf("post-marker logic missing:\n%s", route)
	}
}

func TestGenerateRouteStrippedTier(t *testing.T) {
	src := `import Stripe from "npm:stripe@14.5.0"
const stripe = new Stripe(key)
const session = await stripe.checkout.sessions.create({ mode: "payment" })
return new Response(JSON.stringify({ id: session.id }), { status: 200 })`

	fn, meta, blocks, rewritten := convertFixture(t, src)
	route, pct, reviews := GenerateRoute(fn, meta, blocks, rewritten)

	if pct != 80 {
		t.Fatalf("expected stripped-tier percentage 80, got %d", pct)
	}
	if reviews != 1 {
		t.Fatalf("expected one review item for stripped extraction, got %d", reviews)
	}
	if strings.Contains(route, "import Stripe") {
		t.Fatalf("import line should be stripped:\n%s", route)
	}
}

func TestGenerateRouteAuthGates(t *testing.T) {
	src := `const authHeader = req.headers.get('Authorization')
const supabase = createClient(Deno.env.get("SUPABASE_URL"), Deno.env.get("SUPABASE_SERVICE_ROLE_KEY"))
try {
  const { data } = await supabase.from("profiles").select().eq("id", user.id)
  return new Response(JSON.stringify({ profile: data }), { status: 200 })
} catch (error) {
  return new Response(JSON.stringify({ error: error.message }), { status: 500 })
}`

	fn, meta, blocks, rewritten := convertFixture(t, src)
	route, _, _ := GenerateRoute(fn, meta, blocks, rewritten)

	if !strings.Contains(route, "authHeader.startsWith('Bearer ')") {
		t.Fatalf("bearer gate missing:\n%s", route)
	}
	if !strings.Contains(route, "await supabase.auth.getUser(token)") {
		t.Fatalf("actor resolution missing for auth+database:\n%s", route)
	}
	if !strings.Contains(route, "res.status(500).json({ error: 'Internal server error in sample-function' })") {
		t.Fatalf("error wrapper missing:\n%s", route)
	}
	if !strings.Contains(route, "const { createClient } = require('@supabase/supabase-js');") {
		t.Fatalf("database client setup missing:\n%s", route)
	}
}

func TestGenerateRouteSkipsOptionsHandlers(t *testing.T) {
	src := `if (req.method === 'OPTIONS') {
  return new Response('ok', { headers: corsHeaders })
}
if (req.method === 'GET') {
  // list
}
const payload = { status: "listed", count: 0, source: "edge" }
return new Response(JSON.stringify(payload))`

	fn, meta, blocks, rewritten := convertFixture(t, src)
	route, _, _ := GenerateRoute(fn, meta, blocks, rewritten)

	if strings.Contains(route, "router.options(") {
		t.Fatalf("OPTIONS handler should not be generated:\n%s", route)
	}
	if !strings.Contains(route, "router.get('/'") {
		t.Fatalf("GET handler missing:\n%s", route)
	}
}

func TestGenerateRoutePercentageBounds(t *testing.T) {
	sources := []string{
		"",
		"const x = 1",
		"try {\n  await supabase.from(\"t\").select()\n  const result = { delivered: true, retries: 0 }\n} catch (e) {\n}",
	}
	for _, src := range sources {
		fn, meta, blocks, rewritten := convertFixture(t, src)
		_, pct, reviews := GenerateRoute(fn, meta, blocks, rewritten)
		if pct < 0 || pct > 100 {
			t.Fatalf("percentage out of range for %q: %d", src, pct)
		}
		if reviews < 0 {
			t.Fatalf("negative review count for %q: %d", src, reviews)
		}
	}
}
