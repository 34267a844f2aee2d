package locale

import "golang.org/x/text/language"

// Locale binds one request to a language of a Store.
type Locale struct {
	lang  string
	store *Store
}

func (l Locale) Language() string {
	return l.lang
}

// Get renders key in the locale's language.
func (l Locale) Get(key MessageKey, args ...string) (string, error) {
	return l.store.Get(l.lang, key, args...)
}

// Resolve picks the registered language closest to the BCP 47 code sent by the
// platform ("it-IT" resolves to "it"). Unknown or malformed codes resolve to
// the store default.
func Resolve(code string, s *Store) Locale {
	def := Locale{lang: s.def, store: s}
	if code == "" || len(s.order) == 0 {
		return def
	}

	tag, err := language.Parse(code)
	if err != nil {
		return def
	}
	_, idx, conf := s.matcher.Match(tag)
	if conf == language.No || idx < 0 || idx >= len(s.order) {
		return def
	}
	return Locale{lang: s.order[idx], store: s}
}
