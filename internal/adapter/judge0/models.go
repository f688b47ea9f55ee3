package judge0

type batchSubmitRequest struct {
	Submissions []submissionRequest `json:"submissions"`
}

type submissionRequest struct {
	SourceCode     string  `json:"source_code"`
	LanguageID     int     `json:"language_id"`
	Stdin          string  `json:"stdin"`
	ExpectedOutput *string `json:"expected_output,omitempty"`
}

type createSubmissionResponse struct {
	Token string `json:"token"`
}

type statusResponse struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
}

type getSubmissionResponse struct {
	Token         string          `json:"token"`
	StatusID      *int            `json:"status_id"`
	Status        *statusResponse `json:"status"`
	Time          *string         `json:"time"`
	Memory        *int64          `json:"memory"`
	Stdout        *string         `json:"stdout"`
	Stderr        *string         `json:"stderr"`
	CompileOutput *string         `json:"compile_output"`
	Message       *string         `json:"message"`
}

type batchStatusResponse struct {
	Submissions *[]*getSubmissionResponse `json:"submissions"`
}
