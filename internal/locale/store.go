// Package locale holds the per-language message templates the skill speaks
// and resolves the language used to answer a request.
//
// A Store is filled once at startup and is read-only afterwards, so a single
// instance is shared by all concurrent requests without locking.
package locale

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/language"
)

// MessageKey identifies a renderable message slot.
type MessageKey string

const (
	Welcome         MessageKey = "welcome"
	WelcomeReprompt MessageKey = "welcome_reprompt"
	Response        MessageKey = "response"
	Cancel          MessageKey = "cancel"
	Help            MessageKey = "help"
	Stop            MessageKey = "stop"
	Error           MessageKey = "error"
)

// Keys is the closed set of message keys every language must define.
var Keys = []MessageKey{Welcome, WelcomeReprompt, Response, Cancel, Help, Stop, Error}

var (
	ErrMissingKey      = errors.New("locale: missing message")
	ErrUnknownLanguage = errors.New("locale: unknown language")
	ErrTemplate        = errors.New("locale: bad template")
)

type Store struct {
	def     string
	langs   map[string]map[MessageKey]string
	order   []string
	matcher language.Matcher
}

// NewStore creates an empty store; defaultLang is used whenever a request's
// language cannot be matched.
func NewStore(defaultLang string) *Store {
	return &Store{
		def:   strings.ToLower(defaultLang),
		langs: make(map[string]map[MessageKey]string),
	}
}

// AddLanguage registers the templates for a language code such as "en" or "it".
// It must only be called during initialization.
func (s *Store) AddLanguage(code string, messages map[MessageKey]string) error {
	tag, err := language.Parse(code)
	if err != nil {
		return fmt.Errorf("locale: parse language %q: %w", code, err)
	}
	code = strings.ToLower(tag.String())

	m := make(map[MessageKey]string, len(messages))
	for k, v := range messages {
		m[k] = v
	}
	if _, ok := s.langs[code]; !ok {
		s.order = append(s.order, code)
	}
	s.langs[code] = m
	s.rebuildMatcher()
	return nil
}

// the default language always comes first: Matcher falls back to index 0.
func (s *Store) rebuildMatcher() {
	codes := make([]string, 0, len(s.order))
	for _, c := range s.order {
		if c != s.def {
			codes = append(codes, c)
		}
	}
	sort.Strings(codes)
	if _, ok := s.langs[s.def]; ok {
		codes = append([]string{s.def}, codes...)
	}

	tags := make([]language.Tag, 0, len(codes))
	for _, c := range codes {
		tags = append(tags, language.Make(c))
	}
	s.order = codes
	s.matcher = language.NewMatcher(tags)
}

func (s *Store) Default() string {
	return s.def
}

// Languages returns the registered language codes, default first.
func (s *Store) Languages() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Validate checks that the default language is registered and that every
// language defines every key.
func (s *Store) Validate() error {
	var errs []error
	if _, ok := s.langs[s.def]; !ok {
		errs = append(errs, fmt.Errorf("%w: default %q", ErrUnknownLanguage, s.def))
	}
	for _, code := range s.order {
		for _, k := range Keys {
			if _, ok := s.langs[code][k]; !ok {
				errs = append(errs, fmt.Errorf("%w: %s/%s", ErrMissingKey, code, k))
			}
		}
	}
	return errors.Join(errs...)
}

// Get renders the template for key in lang, substituting {0}, {1}, ... with args.
func (s *Store) Get(lang string, key MessageKey, args ...string) (string, error) {
	messages, ok := s.langs[lang]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownLanguage, lang)
	}
	tmpl, ok := messages[key]
	if !ok {
		return "", fmt.Errorf("%w: %s/%s", ErrMissingKey, lang, key)
	}
	return format(tmpl, args)
}

func format(tmpl string, args []string) (string, error) {
	var b strings.Builder
	b.Grow(len(tmpl))

	for i := 0; i < len(tmpl); i++ {
		c := tmpl[i]
		if c != '{' {
			b.WriteByte(c)
			continue
		}
		end := strings.IndexByte(tmpl[i:], '}')
		if end < 0 {
			b.WriteString(tmpl[i:])
			break
		}
		n, err := strconv.Atoi(tmpl[i+1 : i+end])
		if err != nil {
			// not a placeholder, keep the brace literally
			b.WriteByte(c)
			continue
		}
		if n < 0 || n >= len(args) {
			return "", fmt.Errorf("%w: placeholder {%d} with %d args", ErrTemplate, n, len(args))
		}
		b.WriteString(args[n])
		i += end
	}
	return b.String(), nil
}
