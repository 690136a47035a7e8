// File path: internal/convert/webhook_test.go
package convert

import (
	"strings"
	"testing"
)

func TestAdviseStripe(t *testing.T) {
	gen := NewAdvisoryGenerator(nil)
	adv := gen.Advise(WebhookStripe, "paymentWebhook")

	if adv.Provider != "Stripe" {
		t.Fatalf("expected Stripe provider, got %s", adv.Provider)
	}
	if adv.SignatureHeader != "stripe-signature" {
		t.Fatalf("unexpected signature header: %s", adv.SignatureHeader)
	}
	if !strings.Contains(adv.VerificationMethod, "constructEvent") {
		t.Fatalf("verification method should name constructEvent: %s", adv.VerificationMethod)
	}
	if !strings.Contains(adv.Runbook, "/payment-webhook") {
		t.Fatalf("runbook should interpolate the route path:\n%s", adv.Runbook)
	}
	if !strings.Contains(adv.Runbook, "STRIPE_WEBHOOK_SECRET") {
		t.Fatalf("runbook should name the rotated secret:\n%s", adv.Runbook)
	}
}

func TestAdviseUnknownKindFallsBackToGeneric(t *testing.T) {
	gen := NewAdvisoryGenerator(nil)
	adv := gen.Advise(WebhookKind("pagerduty"), "alerts")
	if adv.Provider != "Generic" {
		t.Fatalf("expected generic fallback, got %s", adv.Provider)
	}
	if !strings.Contains(adv.Runbook, "/alerts") {
		t.Fatalf("generic runbook should interpolate the route:\n%s", adv.Runbook)
	}
}

func TestAdvisoryGeneratorUsesInjectedTable(t *testing.T) {
	table := ProviderTable{
		WebhookGeneric: {
			Label:              "Test",
			SignatureHeader:    "x-test-signature",
			VerificationMethod: "test only",
			RunbookTemplate:    "point at {{route}}",
		},
	}
	gen := NewAdvisoryGenerator(table)
	adv := gen.Advise(WebhookStripe, "fn")
	if adv.Provider != "Test" || adv.SignatureHeader != "x-test-signature" {
		t.Fatalf("injected table not used: %#v", adv)
	}
	if adv.Runbook != "point at /fn" {
		t.Fatalf("template interpolation failed: %q", adv.Runbook)
	}
}

func TestMigrationGuideAggregatesAdvisories(t *testing.T) {
	gen := NewAdvisoryGenerator(nil)
	stripeAdv := gen.Advise(WebhookStripe, "payments")
	githubAdv := gen.Advise(WebhookGithub, "ci-events")
	results := []Result{
		{FunctionName: "payments", Metadata: Metadata{WebhookDetected: true, WebhookKind: WebhookStripe}, Advisory: &stripeAdv},
		{FunctionName: "ci-events", Metadata: Metadata{WebhookDetected: true, WebhookKind: WebhookGithub}, Advisory: &githubAdv},
		{FunctionName: "plain"},
	}

	guide := gen.MigrationGuide(results)
	if !strings.Contains(guide, "payments (Stripe webhook)") {
		t.Fatalf("stripe section missing:\n%s", guide)
	}
	if !strings.Contains(guide, "ci-events (GitHub webhook)") {
		t.Fatalf("github section missing:\n%s", guide)
	}
	if strings.Contains(guide, "plain") {
		t.Fatalf("non-webhook function should not appear:\n%s", guide)
	}
}

func TestMigrationGuideWithoutWebhooks(t *testing.T) {
	gen := NewAdvisoryGenerator(nil)
	guide := gen.MigrationGuide([]Result{{FunctionName: "plain"}})
	if !strings.Contains(guide, "No webhook handlers were detected") {
		t.Fatalf("explicit no-webhook statement missing:\n%s", guide)
	}
	if !strings.Contains(guide, "Rotate the shared secret") {
		t.Fatalf("generic guidance missing:\n%s", guide)
	}
}
