package language_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/codearena.net/internal/config"
	"gitlab.com/codearena.net/internal/core/services/language"
	"gitlab.com/codearena.net/internal/static/errs"
)

func newResolver() *language.Resolver {
	return language.NewResolver(&config.LanguageCfg{
		IDs: map[string]int{
			"c":          50,
			"c++":        54,
			"java":       62,
			"javascript": 63,
			"python":     71,
		},
		Aliases: map[string][]string{
			"cpp":        {"cpp17", "cpp14", "c++"},
			"c++":        {"cpp17", "cpp14", "cpp"},
			"js":         {"javascript", "nodejs"},
			"javascript": {"nodejs", "js"},
			"py":         {"python3", "python"},
			"python":     {"python3", "py"},
		},
	})
}

func TestResolveEveryCanonicalName(t *testing.T) {
	r := newResolver()
	for _, name := range r.Languages() {
		id, canonical, err := r.Resolve(name)
		require.NoError(t, err, name)
		assert.Positive(t, id)
		assert.Equal(t, name, canonical)
	}
}

func TestResolveCppSpellings(t *testing.T) {
	r := newResolver()
	for _, name := range []string{"C++", "cpp", "c++", " CPP "} {
		id, canonical, err := r.Resolve(name)
		require.NoError(t, err, name)
		assert.Equal(t, 54, id, name)
		assert.Equal(t, "c++", canonical, name)
	}
}

func TestResolveAliases(t *testing.T) {
	r := newResolver()

	id, _, err := r.Resolve("py")
	require.NoError(t, err)
	assert.Equal(t, 71, id)

	id, _, err = r.Resolve("JS")
	require.NoError(t, err)
	assert.Equal(t, 63, id)
}

func TestResolveUnknown(t *testing.T) {
	r := newResolver()
	for _, name := range []string{"", "brainfuck", "cpp17", "nodejs", "python3"} {
		_, _, err := r.Resolve(name)
		assert.True(t, errors.Is(err, errs.ErrUnsupportedLanguage), name)
	}
}

func TestResolveWithConfiguredDefaults(t *testing.T) {
	t.Setenv("LANGUAGE_IDS", "go=60")
	t.Setenv("LANGUAGE_ALIASES", "golang=go")
	r := language.NewResolver(config.NewLanguageCfg())

	id, canonical, err := r.Resolve("Golang")
	require.NoError(t, err)
	assert.Equal(t, 60, id)
	assert.Equal(t, "go", canonical)

	id, _, err = r.Resolve("cpp")
	require.NoError(t, err)
	assert.Equal(t, 54, id)
}
