package domain

// ProcessInfo is one entry from the process-listing collaborator.
type ProcessInfo struct {
	PID    int
	Name   string
	Status string
}

// ProcessStatusRunning is the status value the planner filters on when
// listing current applications.
const ProcessStatusRunning = "running"
