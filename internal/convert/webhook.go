// File path: internal/convert/webhook.go
package convert

import (
	"fmt"
	"strings"
)

// ProviderProfile is one row of the webhook provider table: the header the
// sender signs with, how the converted route should verify it, and the
// reconfiguration runbook template. Runbook templates may reference
// {{route}} which is interpolated with the converted route path.
type ProviderProfile struct {
	Label              string `json:"label" yaml:"label"`
	SignatureHeader    string `json:"signature_header" yaml:"signature_header"`
	VerificationMethod string `json:"verification_method" yaml:"verification_method"`
	RunbookTemplate    string `json:"runbook_template" yaml:"runbook_template"`
}

// ProviderTable maps a detected webhook kind to its profile. The table is
// built once and injected into the AdvisoryGenerator; generators never
// reach for ambient global state so tests can substitute their own table.
type ProviderTable map[WebhookKind]ProviderProfile

// DefaultProviderTable returns the built-in provider table.
func DefaultProviderTable() ProviderTable {
	return ProviderTable{
		WebhookStripe: {
			Label:              "Stripe",
			SignatureHeader:    "stripe-signature",
			VerificationMethod: "stripe.webhooks.constructEvent with the endpoint signing secret",
			RunbookTemplate: joinRunbook(
				"1. In the Stripe dashboard, update the webhook endpoint URL to https://YOUR_HOST{{route}}.",
				"2. Roll the endpoint signing secret and store the new value as STRIPE_WEBHOOK_SECRET.",
				"3. Send a test event from the dashboard and confirm the route answers 2xx with a verified signature.",
			),
		},
		WebhookGithub: {
			Label:              "GitHub",
			SignatureHeader:    "x-hub-signature-256",
			VerificationMethod: "HMAC-SHA256 over the raw request body compared in constant time",
			RunbookTemplate: joinRunbook(
				"1. In the repository webhook settings, repoint the payload URL to https://YOUR_HOST{{route}}.",
				"2. Rotate the webhook secret and store the new value as GITHUB_WEBHOOK_SECRET.",
				"3. Use \"Redeliver\" on a recent delivery and confirm the signature check passes.",
			),
		},
		WebhookGitlab: {
			Label:              "GitLab",
			SignatureHeader:    "x-gitlab-token",
			VerificationMethod: "shared-token comparison against the configured secret",
			RunbookTemplate: joinRunbook(
				"1. In the project webhook settings, repoint the URL to https://YOUR_HOST{{route}}.",
				"2. Rotate the secret token and store the new value as GITLAB_WEBHOOK_TOKEN.",
				"3. Trigger the webhook test from the settings page and confirm the token check passes.",
			),
		},
		WebhookGeneric: {
			Label:              "Generic",
			SignatureHeader:    "x-webhook-signature",
			VerificationMethod: "provider-specific signature verification over the raw body",
			RunbookTemplate: joinRunbook(
				"1. Repoint the sender's endpoint URL to https://YOUR_HOST{{route}}.",
				"2. Rotate the shared secret on both sides and store it in the route's environment.",
				"3. Trigger a test delivery from the sender and confirm the route verifies it.",
			),
		},
	}
}

// AdvisoryGenerator maps detected webhook kinds to reconfiguration
// advisories using an immutable provider table.
type AdvisoryGenerator struct {
	table ProviderTable
}

// NewAdvisoryGenerator builds a generator over the given table; a nil or
// empty table falls back to the built-in one.
func NewAdvisoryGenerator(table ProviderTable) *AdvisoryGenerator {
	if len(table) == 0 {
		table = DefaultProviderTable()
	}
	return &AdvisoryGenerator{table: table}
}

// Advise returns the advisory for one function. Unknown kinds resolve to
// the generic profile.
func (g *AdvisoryGenerator) Advise(kind WebhookKind, functionName string) Advisory {
	profile, ok := g.table[kind]
	if !ok {
		profile = g.table[WebhookGeneric]
	}
	runbook := strings.ReplaceAll(profile.RunbookTemplate, "{{route}}", RoutePath(functionName))
	return Advisory{
		Provider:           profile.Label,
		SignatureHeader:    profile.SignatureHeader,
		VerificationMethod: profile.VerificationMethod,
		Runbook:            runbook,
	}
}

// MigrationGuide aggregates the advisories of every webhook-receiving
// function in a batch into one guide. When no function receives webhooks
// it says so explicitly instead of staying silent.
func (g *AdvisoryGenerator) MigrationGuide(results []Result) string {
	var sections []string
	for _, result := range results {
		if !result.Metadata.WebhookDetected || result.Advisory == nil {
			continue
		}
		adv := result.Advisory
		sections = append(sections, strings.Join([]string{
			fmt.Sprintf("## %s (%s webhook)", result.FunctionName, adv.Provider),
			fmt.Sprintf("Signature header: %s", adv.SignatureHeader),
			fmt.Sprintf("Verification: %s", adv.VerificationMethod),
			adv.Runbook,
		}, "\n"))
	}
	if len(sections) == 0 {
		generic := g.Advise(WebhookGeneric, "your-function")
		return strings.Join([]string{
			"# Webhook migration guide",
			"No webhook handlers were detected in this batch.",
			"If a sender is later pointed at these routes, follow the generic steps:",
			generic.Runbook,
		}, "\n")
	}
	return "# Webhook migration guide\n" + strings.Join(sections, "\n\n")
}

func joinRunbook(steps ...string) string {
	return strings.Join(steps, "\n")
}
