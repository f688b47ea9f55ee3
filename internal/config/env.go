package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvAsMillis(key string, fallback time.Duration) time.Duration {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return time.Duration(v) * time.Millisecond
}

// getEnvAsIntSet parses a comma separated list such as "4,7,8".
// Entries that are not integers are reported in the error; the set holds the
// rest, or fallback when nothing parsed.
func getEnvAsIntSet(key string, fallback []int) (map[int]struct{}, error) {
	values := fallback
	var bad []string
	if raw := strings.TrimSpace(os.Getenv(key)); raw != "" {
		parsed := make([]int, 0)
		for _, part := range strings.Split(raw, ",") {
			n, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				bad = append(bad, strconv.Quote(strings.TrimSpace(part)))
				continue
			}
			parsed = append(parsed, n)
		}
		if len(parsed) > 0 {
			values = parsed
		}
	}
	set := make(map[int]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	if len(bad) > 0 {
		return set, fmt.Errorf("%s: invalid status ids %s", key, strings.Join(bad, ", "))
	}
	return set, nil
}
