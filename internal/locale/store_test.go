package locale

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultResources(t *testing.T) {
	s, err := Default()
	require.NoError(t, err)
	require.NoError(t, s.Validate())

	if diff := cmp.Diff([]string{"en", "it"}, s.Languages()); diff != "" {
		t.Errorf("languages mismatch (-want +got):\n%s", diff)
	}

	for _, lang := range s.Languages() {
		for _, key := range Keys {
			t.Run(lang+"/"+string(key), func(t *testing.T) {
				msg, err := s.Get(lang, key, "6", "4")
				require.NoError(t, err)
				assert.NotEmpty(t, msg)
				assert.NotContains(t, msg, "{0}")
			})
		}
	}
}

func TestGetSubstitution(t *testing.T) {
	s, err := Default()
	require.NoError(t, err)

	testCases := []struct {
		name     string
		lang     string
		key      MessageKey
		args     []string
		expected string
	}{
		{
			name:     "response_en",
			lang:     "en",
			key:      Response,
			args:     []string{"6", "4"},
			expected: "I rolled a 6 faces dice: 4",
		},
		{
			name:     "response_it",
			lang:     "it",
			key:      Response,
			args:     []string{"20", "13"},
			expected: "Ho lanciato un dado con 20 facce: 13",
		},
		{
			name:     "welcome_en",
			lang:     "en",
			key:      Welcome,
			args:     []string{"Mario"},
			expected: "Hello Mario, welcome to roll the solid!",
		},
		{
			name:     "no_args",
			lang:     "en",
			key:      Stop,
			expected: "Bye bye!",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			msg, err := s.Get(tc.lang, tc.key, tc.args...)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, msg)
		})
	}
}

func TestGetErrors(t *testing.T) {
	s := NewStore("en")
	require.NoError(t, s.AddLanguage("en", map[MessageKey]string{
		Welcome: "Hello {0}",
	}))

	_, err := s.Get("en", Help)
	assert.ErrorIs(t, err, ErrMissingKey)

	_, err = s.Get("de", Welcome, "x")
	assert.ErrorIs(t, err, ErrUnknownLanguage)

	_, err = s.Get("en", Welcome)
	assert.ErrorIs(t, err, ErrTemplate)
}

func TestFormat(t *testing.T) {
	testCases := []struct {
		tmpl     string
		args     []string
		expected string
	}{
		{tmpl: "{1} then {0}", args: []string{"a", "b"}, expected: "b then a"},
		{tmpl: "{0}{0}", args: []string{"x"}, expected: "xx"},
		{tmpl: "literal {name}", expected: "literal {name}"},
		{tmpl: "empty {}", expected: "empty {}"},
		{tmpl: "open { brace", expected: "open { brace"},
		{tmpl: "unclosed {0", args: []string{"x"}, expected: "unclosed {0"},
	}

	for _, tc := range testCases {
		t.Run(tc.tmpl, func(t *testing.T) {
			got, err := format(tc.tmpl, tc.args)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestValidate(t *testing.T) {
	s := NewStore("en")
	require.NoError(t, s.AddLanguage("it", map[MessageKey]string{Welcome: "Ciao {0}"}))

	err := s.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownLanguage)
	assert.ErrorIs(t, err, ErrMissingKey)

	assert.Error(t, s.AddLanguage("not a language!", nil))
}

func TestLoad(t *testing.T) {
	t.Run("missing_key", func(t *testing.T) {
		_, err := Load(strings.NewReader(`
default: en
languages:
  en:
    welcome: "Hi {0}"
`))
		assert.ErrorIs(t, err, ErrMissingKey)
	})

	t.Run("unknown_field", func(t *testing.T) {
		_, err := Load(strings.NewReader(`
default: en
langs: {}
`))
		assert.Error(t, err)
	})

	t.Run("custom_default", func(t *testing.T) {
		var b strings.Builder
		b.WriteString("default: it\nlanguages:\n")
		for _, lang := range []string{"en", "it"} {
			b.WriteString("  " + lang + ":\n")
			for _, k := range Keys {
				b.WriteString("    " + string(k) + ": \"" + lang + " " + string(k) + "\"\n")
			}
		}

		s, err := Load(strings.NewReader(b.String()))
		require.NoError(t, err)
		assert.Equal(t, "it", s.Default())
		assert.Equal(t, []string{"it", "en"}, s.Languages())

		msg, err := Resolve("fr-FR", s).Get(Stop)
		require.NoError(t, err)
		assert.Equal(t, "it stop", msg)
	})
}

func TestResolve(t *testing.T) {
	s, err := Default()
	require.NoError(t, err)

	testCases := []struct {
		code     string
		expected string
	}{
		{code: "en-US", expected: "en"},
		{code: "en-GB", expected: "en"},
		{code: "it-IT", expected: "it"},
		{code: "it", expected: "it"},
		{code: "fr-FR", expected: "en"},
		{code: "de-DE", expected: "en"},
		{code: "ja-JP", expected: "en"},
		{code: "", expected: "en"},
		{code: "not a locale!!", expected: "en"},
	}

	for _, tc := range testCases {
		t.Run(tc.code, func(t *testing.T) {
			loc := Resolve(tc.code, s)
			assert.Equal(t, tc.expected, loc.Language())

			_, err := loc.Get(Help)
			assert.NoError(t, err)
		})
	}
}

func TestResolveEmptyStore(t *testing.T) {
	loc := Resolve("it-IT", NewStore("en"))
	assert.Equal(t, "en", loc.Language())

	_, err := loc.Get(Help)
	assert.ErrorIs(t, err, ErrUnknownLanguage)
}
