package config

import (
	"os"
	"strconv"
	"strings"
)

// LanguageCfg maps canonical language names to execution service ids
type LanguageCfg struct {
	IDs     map[string]int
	Aliases map[string][]string
}

func defaultLanguageIDs() map[string]int {
	return map[string]int{
		"c":          50,
		"c++":        54,
		"java":       62,
		"javascript": 63,
		"python":     71,
	}
}

func defaultLanguageAliases() map[string][]string {
	return map[string][]string{
		"cpp":        {"cpp17", "cpp14", "c++"},
		"c++":        {"cpp17", "cpp14", "cpp"},
		"js":         {"javascript", "nodejs"},
		"javascript": {"nodejs", "js"},
		"py":         {"python3", "python"},
		"python":     {"python3", "py"},
	}
}

// NewLanguageCfg reads overrides from LANGUAGE_IDS ("go=60,rust=73")
// and LANGUAGE_ALIASES ("golang=go;rs=rust|rust2021")
func NewLanguageCfg() *LanguageCfg {
	cfg := &LanguageCfg{
		IDs:     defaultLanguageIDs(),
		Aliases: defaultLanguageAliases(),
	}

	for _, pair := range strings.Split(os.Getenv("LANGUAGE_IDS"), ",") {
		name, raw, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		id, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			continue
		}
		cfg.IDs[strings.ToLower(strings.TrimSpace(name))] = id
	}

	for _, entry := range strings.Split(os.Getenv("LANGUAGE_ALIASES"), ";") {
		name, raw, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(name))
		for _, alias := range strings.Split(raw, "|") {
			if alias = strings.ToLower(strings.TrimSpace(alias)); alias != "" {
				cfg.Aliases[key] = append(cfg.Aliases[key], alias)
			}
		}
	}

	return cfg
}
