package submissions

import "gitlab.com/codearena.net/internal/domain"

type RunRequest struct {
	Code        string  `json:"code"`
	Language    string  `json:"language"`
	CustomInput *string `json:"customInput,omitempty"`
}

type SubmitRequest struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

type VerifyRequest struct {
	Code      string            `json:"code"`
	Language  string            `json:"language"`
	TestCases []domain.TestCase `json:"testCases"`
}

// SubmissionResponse flags whether the verdict reached storage
type SubmissionResponse struct {
	*domain.Submission
	Persisted bool `json:"persisted"`
}

type SolvedResponse struct {
	ProblemIDs []string `json:"problemIds"`
}

type LanguagesResponse struct {
	Languages []string `json:"languages"`
}
