// File path: internal/convert/types.go
package convert

// SourceFunction is one edge function handed in by the caller. The text is
// never mutated; every derivation is recomputed from it on demand.
type SourceFunction struct {
	Name       string `json:"name"`
	RawText    string `json:"raw_text"`
	OriginPath string `json:"origin_path"`
}

// ServiceKind identifies an external service an edge function talks to.
type ServiceKind string

const (
	ServiceDatabase ServiceKind = "database"
	ServicePayment  ServiceKind = "payment"
	ServiceEmail    ServiceKind = "email"
)

// WebhookKind identifies the webhook sender inferred from the source.
type WebhookKind string

const (
	WebhookStripe  WebhookKind = "stripe"
	WebhookGithub  WebhookKind = "github"
	WebhookGitlab  WebhookKind = "gitlab"
	WebhookGeneric WebhookKind = "generic"
)

// Metadata holds the structured facts derived from a function's raw text.
type Metadata struct {
	EnvVars         []string      `json:"env_vars,omitempty"`
	HTTPMethods     []string      `json:"http_methods"`
	RequiresAuth    bool          `json:"requires_auth"`
	Services        []ServiceKind `json:"services,omitempty"`
	WebhookDetected bool          `json:"webhook_detected"`
	WebhookKind     WebhookKind   `json:"webhook_kind,omitempty"`
}

// UsesService reports whether the metadata flags the given service.
func (m Metadata) UsesService(kind ServiceKind) bool {
	for _, svc := range m.Services {
		if svc == kind {
			return true
		}
	}
	return false
}

// BlockKind classifies a span of business logic by the kind of externally
// observable work it performs.
type BlockKind string

const (
	BlockCondition         BlockKind = "condition"
	BlockDatabase          BlockKind = "database"
	BlockAPICall           BlockKind = "apiCall"
	BlockAuth              BlockKind = "auth"
	BlockResponse          BlockKind = "response"
	BlockWebhookValidation BlockKind = "webhookValidation"
)

// LogicBlock is a contiguous span of source lines inside error-handling
// scope. Line numbers are 1-based and inclusive.
type LogicBlock struct {
	Kind      BlockKind `json:"kind"`
	Text      string    `json:"text"`
	StartLine int       `json:"start_line"`
	EndLine   int       `json:"end_line"`
}

// Advisory describes how to repoint a third-party webhook sender at the
// converted route and rotate its shared secret.
type Advisory struct {
	Provider           string `json:"provider"`
	SignatureHeader    string `json:"signature_header"`
	VerificationMethod string `json:"verification_method"`
	Runbook            string `json:"runbook"`
}

// Result is the immutable conversion snapshot for one function in one run.
type Result struct {
	FunctionName      string       `json:"function_name"`
	OriginPath        string       `json:"origin_path,omitempty"`
	RouteSource       string       `json:"route_source"`
	TestSource        string       `json:"test_source"`
	Dependencies      []string     `json:"dependencies,omitempty"`
	PreservedLogicPct int          `json:"preserved_logic_pct"`
	ManualReviewCount int          `json:"manual_review_count"`
	Metadata          Metadata     `json:"metadata"`
	Blocks            []LogicBlock `json:"blocks,omitempty"`
	Advisory          *Advisory    `json:"advisory,omitempty"`
}

// Dependency is one npm package pinned through the injected version map.
type Dependency struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Bundle aggregates every Result of a batch plus the derived manifests
// consumed by deployment tooling.
type Bundle struct {
	Results      []Result     `json:"results"`
	Dependencies []Dependency `json:"dependencies"`
	EnvTemplate  string       `json:"env_template"`
	EntrySource  string       `json:"entry_source"`
	WebhookGuide string       `json:"webhook_guide"`
}
