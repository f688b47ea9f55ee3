package config

import (
	"errors"
	"time"
)

// ExecutorCfg describes the execution service contract and polling budget
type ExecutorCfg struct {
	BaseURL        string
	APIKey         string
	APIHost        string
	AuthToken      string
	RequestTimeout time.Duration

	PollInterval time.Duration
	MaxWait      time.Duration

	// status ids <= PendingMaxStatusID are queued or running
	PendingMaxStatusID    int
	AcceptedStatusID      int
	RuntimeErrorStatusIDs map[int]struct{}
	CompileErrorStatusIDs map[int]struct{}

	// set when a status list from the environment did not parse; see AppConfig.Validate
	parseErr error
}

func NewExecutorCfg() *ExecutorCfg {
	runtimeIDs, runtimeErr := getEnvAsIntSet("JUDGE0_RUNTIME_ERROR_STATUSES", []int{4, 7, 8, 9, 10, 11, 12})
	compileIDs, compileErr := getEnvAsIntSet("JUDGE0_COMPILE_ERROR_STATUSES", []int{6})

	return &ExecutorCfg{
		BaseURL:               getEnv("JUDGE0_URL", "https://judge0-ce.p.rapidapi.com"),
		APIKey:                getEnv("JUDGE0_KEY", ""),
		APIHost:               getEnv("JUDGE0_HOST", "judge0-ce.p.rapidapi.com"),
		AuthToken:             getEnv("JUDGE0_AUTH_TOKEN", ""),
		RequestTimeout:        getEnvAsMillis("JUDGE0_REQUEST_TIMEOUT_MS", 10*time.Second),
		PollInterval:          getEnvAsMillis("POLL_INTERVAL_MS", time.Second),
		MaxWait:               getEnvAsMillis("POLL_MAX_WAIT_MS", 30*time.Second),
		PendingMaxStatusID:    getEnvAsInt("JUDGE0_PENDING_MAX_STATUS", 2),
		AcceptedStatusID:      getEnvAsInt("JUDGE0_ACCEPTED_STATUS", 3),
		RuntimeErrorStatusIDs: runtimeIDs,
		CompileErrorStatusIDs: compileIDs,
		parseErr:              errors.Join(runtimeErr, compileErr),
	}
}

// IsTerminal reports whether the status id is past the queued/running boundary
func (c *ExecutorCfg) IsTerminal(statusID int) bool {
	return statusID > c.PendingMaxStatusID
}
