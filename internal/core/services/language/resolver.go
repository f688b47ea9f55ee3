// Package language maps user-facing language names to execution service ids.
package language

import (
	"fmt"
	"sort"
	"strings"

	"gitlab.com/codearena.net/internal/config"
	"gitlab.com/codearena.net/internal/static/errs"
)

// Resolver is safe for concurrent use; its tables are never mutated after construction
type Resolver struct {
	ids     map[string]int
	aliases map[string][]string
}

func NewResolver(cfg *config.LanguageCfg) *Resolver {
	ids := make(map[string]int, len(cfg.IDs))
	for name, id := range cfg.IDs {
		ids[normalize(name)] = id
	}
	aliases := make(map[string][]string, len(cfg.Aliases))
	for name, list := range cfg.Aliases {
		key := normalize(name)
		for _, a := range list {
			aliases[key] = append(aliases[key], normalize(a))
		}
	}
	return &Resolver{ids: ids, aliases: aliases}
}

// Resolve returns the service id and the canonical table name for a language.
// The direct table is tried first, then every alias of the normalized input.
func (r *Resolver) Resolve(name string) (int, string, error) {
	key := normalize(name)
	if id, ok := r.ids[key]; ok {
		return id, key, nil
	}
	for _, alias := range r.aliases[key] {
		if id, ok := r.ids[alias]; ok {
			return id, alias, nil
		}
	}
	return 0, "", fmt.Errorf("%w: %q", errs.ErrUnsupportedLanguage, name)
}

// Languages lists canonical names in stable order
func (r *Resolver) Languages() []string {
	names := make([]string, 0, len(r.ids))
	for name := range r.ids {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
