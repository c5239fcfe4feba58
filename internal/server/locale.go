package server

import (
	"net/http"

	"golang.org/x/text/language"
)

// localePreferenceCookie remembers an explicit language choice across visits.
const localePreferenceCookie = "NEXT_LOCALE"

// localeMatcher negotiates a served language from the configured set.
type localeMatcher struct {
	matcher   language.Matcher
	languages []string
}

func newLocaleMatcher(available []string, fallback string) *localeMatcher {
	tags := make([]language.Tag, 0, len(available))
	langs := make([]string, 0, len(available))

	// Matcher order defines priority, so the fallback language goes first.
	appendLang := func(code string) {
		if tag, err := language.Parse(code); err == nil {
			tags = append(tags, tag)
			langs = append(langs, code)
		}
	}
	appendLang(fallback)
	for _, code := range available {
		if code != fallback {
			appendLang(code)
		}
	}

	return &localeMatcher{matcher: language.NewMatcher(tags), languages: langs}
}

// Negotiate picks a language for a request: the preference cookie wins when it
// names a configured language, then the Accept-Language header, then the
// fallback.
func (m *localeMatcher) Negotiate(r *http.Request) string {
	if cookie, err := r.Cookie(localePreferenceCookie); err == nil {
		for _, code := range m.languages {
			if cookie.Value == code {
				return code
			}
		}
	}

	_, index := language.MatchStrings(m.matcher, r.Header.Get("Accept-Language"))
	return m.languages[index]
}

// Supports reports whether code is one of the configured languages.
func (m *localeMatcher) Supports(code string) bool {
	for _, lang := range m.languages {
		if lang == code {
			return true
		}
	}
	return false
}
