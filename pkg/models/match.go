package models

import (
	"regexp"
	"sync"
)

// patternCache holds compiled query terms. Terms are user supplied and
// repeat across every mapping entry, so each is compiled once.
var patternCache sync.Map // map[string]*regexp.Regexp

// compileTerm compiles a query term anchored at the start of the subject.
// A term matches when it matches a prefix of the subject, not the whole string.
func compileTerm(term string) (*regexp.Regexp, error) {
	if re, ok := patternCache.Load(term); ok {
		return re.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile("^(?:" + term + ")")
	if err != nil {
		return nil, err
	}
	patternCache.Store(term, re)
	return re, nil
}

// ValidateTerm reports whether term is a usable query pattern.
func ValidateTerm(term string) error {
	_, err := compileTerm(term)
	return err
}

// MatchTerm reports whether term matches the start of subject.
// Invalid patterns never match; QueryGroup construction rejects them.
func MatchTerm(term, subject string) bool {
	re, err := compileTerm(term)
	if err != nil {
		return false
	}
	return re.MatchString(subject)
}

// MatchAny reports whether any term matches the start of any subject.
func MatchAny(terms []string, subjects ...string) bool {
	for _, term := range terms {
		for _, s := range subjects {
			if MatchTerm(term, s) {
				return true
			}
		}
	}
	return false
}
