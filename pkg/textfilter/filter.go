// Package textfilter keeps remotely generated quiz text family
// friendly. Prompts, choices, and taunts coming back from a question
// service pass through the filter before they reach the player.
package textfilter

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// replacements maps words we never want on screen to mild stand-ins.
var replacements = map[string]string{
	"fuck":         "fudge",
	"shit":         "shoot",
	"damn":         "dang",
	"hell":         "heck",
	"ass":          "butt",
	"bitch":        "jerk",
	"bastard":      "jerk",
	"crap":         "crud",
	"piss":         "ticked",
	"whore":        "[censored]",
	"slut":         "[censored]",
	"retard":       "[censored]",
	"motherfucker": "mother-trucker",
	"goddamn":      "gosh-dang",
	"asshole":      "jerk",
	"dumbass":      "dummy",
	"jackass":      "jerk",
	"bullshit":     "baloney",
	"dipshit":      "dummy",
	"shithead":     "jerk",
	"dickhead":     "jerk",
	"prick":        "jerk",
	"douchebag":    "jerk",
}

// Filter rewrites profanity in generated text. It is safe for
// concurrent use once constructed.
type Filter struct {
	patterns map[string]*regexp.Regexp
	titler   cases.Caser
}

// New compiles a word-boundary pattern per filtered word.
func New() *Filter {
	f := &Filter{
		patterns: make(map[string]*regexp.Regexp, len(replacements)),
		titler:   cases.Title(language.English),
	}
	for word := range replacements {
		f.patterns[word] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(word) + `\b`)
	}
	return f
}

// Clean returns text with every filtered word replaced, keeping the
// original word's casing.
func (f *Filter) Clean(text string) string {
	result := text
	for word, pattern := range f.patterns {
		replacement := replacements[word]
		result = pattern.ReplaceAllStringFunc(result, func(match string) string {
			return matchCase(match, replacement, f.titler)
		})
	}
	return result
}

// IsClean reports whether text contains none of the filtered words.
func (f *Filter) IsClean(text string) bool {
	for _, pattern := range f.patterns {
		if pattern.MatchString(text) {
			return false
		}
	}
	return true
}

// matchCase applies the casing of the original match to the
// replacement word.
func matchCase(original, replacement string, titler cases.Caser) string {
	if original == "" {
		return replacement
	}
	if strings.ToUpper(original) == original {
		return strings.ToUpper(replacement)
	}
	if strings.ToLower(original) == original {
		return replacement
	}
	if titler.String(strings.ToLower(original)) == original {
		return titler.String(replacement)
	}

	// Mixed case takes the original's pattern character by character.
	src := []rune(original)
	out := make([]rune, 0, len(replacement))
	for i, r := range replacement {
		if i < len(src) && unicode.IsUpper(src[i]) {
			out = append(out, unicode.ToUpper(r))
		} else {
			out = append(out, unicode.ToLower(r))
		}
	}
	return string(out)
}
