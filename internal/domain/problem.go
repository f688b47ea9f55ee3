package domain

// Problem is the evaluation-relevant view of a stored problem
type Problem struct {
	ID               string
	Title            string
	VisibleTestCases []TestCase
	HiddenTestCases  []TestCase
}

type ProblemTable struct {
	ID               string
	Title            string
	VisibleTestCases string
	HiddenTestCases  string
}

func GetProblemTable() ProblemTable {
	return ProblemTable{
		ID:               "id",
		Title:            "title",
		VisibleTestCases: "visible_test_cases",
		HiddenTestCases:  "hidden_test_cases",
	}
}

func (ProblemTable) TableName() string {
	return "problems"
}

type SolvedTable struct {
	UserID    string
	ProblemID string
	SolvedAt  string
}

func GetSolvedTable() SolvedTable {
	return SolvedTable{
		UserID:    "user_id",
		ProblemID: "problem_id",
		SolvedAt:  "solved_at",
	}
}

func (SolvedTable) TableName() string {
	return "user_solved_problems"
}
