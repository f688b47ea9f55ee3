package domain

import (
	"time"

	"github.com/google/uuid"
)

// SubmissionStatus is the persisted state of a submission
type SubmissionStatus string

const (
	SubmissionStatusPending          SubmissionStatus = "pending"
	SubmissionStatusAccepted         SubmissionStatus = "accepted"
	SubmissionStatusWrongAnswer      SubmissionStatus = "wrong_answer"
	SubmissionStatusRuntimeError     SubmissionStatus = "runtime_error"
	SubmissionStatusCompilationError SubmissionStatus = "compilation_error"
	SubmissionStatusLanguageError    SubmissionStatus = "language_error"
	SubmissionStatusServiceError     SubmissionStatus = "service_error"
)

// IsTerminal reports whether no further transition is allowed
func (s SubmissionStatus) IsTerminal() bool {
	return s != SubmissionStatusPending && s != ""
}

// Submission represents one evaluation attempt against a problem's hidden cases
type Submission struct {
	ID              uuid.UUID        `db:"id" json:"id"`
	UserID          string           `db:"user_id" json:"userId"`
	ProblemID       string           `db:"problem_id" json:"problemId"`
	Code            string           `db:"code" json:"code"`
	Language        string           `db:"language" json:"language"`
	Status          SubmissionStatus `db:"status" json:"status"`
	TestCasesTotal  int              `db:"test_cases_total" json:"testCasesTotal"`
	TestCasesPassed int              `db:"test_cases_passed" json:"testCasesPassed"`
	Runtime         float64          `db:"runtime" json:"runtime"`
	Memory          int64            `db:"memory" json:"memory"`
	ErrorMessage    *string          `db:"error_message" json:"errorMessage"`
	CreatedAt       time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time        `db:"updated_at" json:"updatedAt"`
}

type SubmissionTable struct {
	ID              string
	UserID          string
	ProblemID       string
	Code            string
	Language        string
	Status          string
	TestCasesTotal  string
	TestCasesPassed string
	Runtime         string
	Memory          string
	ErrorMessage    string
	CreatedAt       string
	UpdatedAt       string
}

func GetSubmissionTable() SubmissionTable {
	return SubmissionTable{
		ID:              "id",
		UserID:          "user_id",
		ProblemID:       "problem_id",
		Code:            "code",
		Language:        "language",
		Status:          "status",
		TestCasesTotal:  "test_cases_total",
		TestCasesPassed: "test_cases_passed",
		Runtime:         "runtime",
		Memory:          "memory",
		ErrorMessage:    "error_message",
		CreatedAt:       "created_at",
		UpdatedAt:       "updated_at",
	}
}

func (SubmissionTable) TableName() string {
	return "submissions"
}

// NewSubmission creates a pending submission sized to the test-case set
func NewSubmission(userID, problemID, code, language string, testCasesTotal int) *Submission {
	now := time.Now()
	return &Submission{
		ID:             uuid.New(),
		UserID:         userID,
		ProblemID:      problemID,
		Code:           code,
		Language:       language,
		Status:         SubmissionStatusPending,
		TestCasesTotal: testCasesTotal,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Apply copies a terminal verdict onto the submission
func (s *Submission) Apply(v Verdict) {
	s.Status = v.Status
	s.TestCasesPassed = v.TestCasesPassed
	s.Runtime = v.Runtime
	s.Memory = v.Memory
	s.ErrorMessage = nil
	if v.ErrorMessage != "" {
		msg := v.ErrorMessage
		s.ErrorMessage = &msg
	}
	s.UpdatedAt = time.Now()
}
