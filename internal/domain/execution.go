package domain

// ExecutionRequest is one test case bound to the submitted code.
// ExpectedOutput is nil only when stdout must not be checked (custom input runs);
// a pointer to "" still asks the executor to compare against empty output.
type ExecutionRequest struct {
	SourceCode     string  `json:"source_code"`
	LanguageID     int     `json:"language_id"`
	Stdin          string  `json:"stdin"`
	ExpectedOutput *string `json:"expected_output,omitempty"`
}

// ExecutionResult is the execution service's report for one token
type ExecutionResult struct {
	Token         string
	StatusID      int
	Time          float64 // seconds
	Memory        int64   // KB
	Stdout        string
	Stderr        string
	CompileOutput string
	Message       string
}

// CaseResult is the per-case diagnostic shown to the user on run
type CaseResult struct {
	Index          int              `json:"index"`
	Input          string           `json:"input"`
	ExpectedOutput string           `json:"expectedOutput"`
	Stdout         string           `json:"stdout"`
	Stderr         string           `json:"stderr,omitempty"`
	Status         SubmissionStatus `json:"status"`
	Passed         bool             `json:"passed"`
	Time           float64          `json:"time"`
	Memory         int64            `json:"memory"`
}

// Verdict is the aggregate outcome over a sequence of execution results
type Verdict struct {
	Status          SubmissionStatus
	TestCasesPassed int
	Runtime         float64
	Memory          int64
	ErrorMessage    string
	Cases           []CaseResult
}

// RunResult is returned by dry runs; it is never persisted
type RunResult struct {
	Status          SubmissionStatus `json:"status"`
	TestCasesTotal  int              `json:"testCasesTotal"`
	TestCasesPassed int              `json:"testCasesPassed"`
	Runtime         float64          `json:"runtime"`
	Memory          int64            `json:"memory"`
	ErrorMessage    string           `json:"errorMessage,omitempty"`
	Cases           []CaseResult     `json:"cases"`
}
