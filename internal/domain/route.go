package domain

// Route is the dispatch router's verdict for an emitted code block.
type Route string

const (
	RouteTerminal Route = "terminal"
	RouteGUI      Route = "gui"
	RouteCode     Route = "code"
)

// CodeBlock is an emitted (language, code) pair handed to the router.
type CodeBlock struct {
	Language string
	Code     string
}

// DispatchRequest carries one code block through the dispatch service.
type DispatchRequest struct {
	Block CodeBlock
	// ShowInTerminal echoes terminal-routed commands into the visible
	// terminal window (best effort, platform dependent).
	ShowInTerminal bool
}

// DispatchResult is what the dispatch service returns to the caller.
type DispatchResult struct {
	RequestID string
	Route     Route
	Payload   Payload
	Blocked   bool
	// BlockReasons explains a guardrail block; empty otherwise.
	BlockReasons []string
}
