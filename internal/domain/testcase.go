package domain

// TestCase represents a test case for code execution
type TestCase struct {
	Input          string `json:"input"`
	ExpectedOutput string `json:"output"`
	Explanation    string `json:"explanation,omitempty"`
}
