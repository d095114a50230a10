package models

// Environment is the target environment of a run.
type Environment string

const (
	EnvironmentQA      Environment = "QA"
	EnvironmentPreprod Environment = "PREPROD"
	EnvironmentProd    Environment = "PROD"
)

// Environments lists run targets in display order.
var Environments = []Environment{EnvironmentQA, EnvironmentPreprod, EnvironmentProd}

// ParseEnvironment returns the matching environment, defaulting to QA.
func ParseEnvironment(s string) Environment {
	for _, e := range Environments {
		if string(e) == s {
			return e
		}
	}
	return EnvironmentQA
}

// RunResult is the subset of a run response the dashboard reports on.
type RunResult struct {
	ExecutionStatus string `json:"execution_status,omitempty"`
	OverallStatus   string `json:"overall_status,omitempty"`
}

// Status returns the execution status, falling back to the overall status.
func (r *RunResult) Status() string {
	if r.ExecutionStatus != "" {
		return r.ExecutionStatus
	}
	return r.OverallStatus
}

// Failed reports whether the run finished unsuccessfully.
func (r *RunResult) Failed() bool {
	switch r.Status() {
	case "FAILED", "ERROR":
		return true
	}
	return false
}

// Stats holds aggregate counts for the dashboard.
type Stats struct {
	Workitems  int `json:"workitems"`
	Testcases  int `json:"testcases"`
	Testsuites int `json:"testsuites"`
	Executions int `json:"executions"`
}

// Runnable is an item that can be executed from the run-tests page.
type Runnable struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Type          string `json:"type"`
	Description   string `json:"description,omitempty"`
	CreatedByName string `json:"created_by_name,omitempty"`
}
