package domain

// RiskLevel grades a command against the guardrail rules.
type RiskLevel string

const (
	RiskSafe     RiskLevel = "safe"
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// GuardrailAction is what the dispatch service does with a graded command.
type GuardrailAction string

const (
	ActionAllow   GuardrailAction = "allow"
	ActionConfirm GuardrailAction = "confirm"
	ActionBlock   GuardrailAction = "block"
)

// RiskAssessment is the guardrail's verdict for one command.
type RiskAssessment struct {
	Level        RiskLevel
	Action       GuardrailAction
	Reasons      []string
	MatchedRules []string
}
