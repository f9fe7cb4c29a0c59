package domain

// TaskCategory is the classifier's verdict for a free-text request.
type TaskCategory string

const (
	CategoryFileOperation  TaskCategory = "file_operation"
	CategoryAppControl     TaskCategory = "app_control"
	CategoryWebBrowsing    TaskCategory = "web_browsing"
	CategorySystemInfo     TaskCategory = "system_info"
	CategoryTextProcessing TaskCategory = "text_processing"
	CategoryGeneral        TaskCategory = "general"
)

// Method is an execution channel the planner can choose.
type Method string

const (
	MethodTerminal Method = "terminal"
	MethodGUI      Method = "gui"
	MethodCode     Method = "code"
	MethodAnalysis Method = "analysis"
)

// Complexity is the planner's fixed per-category effort estimate.
type Complexity string

const (
	ComplexityLow    Complexity = "low"
	ComplexityMedium Complexity = "medium"
	ComplexityHigh   Complexity = "high"
)

// PlannedAction is one ordered sub-step of an ActionPlan.
type PlannedAction struct {
	Priority    int
	Kind        string
	Description string
}

// ActionPlan is the planner's decision record for a single request: the
// primary channel, the ordered fallback chain (never containing the primary),
// and the sub-actions in priority order. Plans are built fresh per request
// and never mutated after construction.
type ActionPlan struct {
	Category            TaskCategory
	PrimaryMethod       Method
	FallbackMethods     []Method
	Actions             []PlannedAction
	RequiresTerminal    bool
	RequiresGUI         bool
	EstimatedComplexity Complexity
}
