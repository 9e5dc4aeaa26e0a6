package resolver

import (
	"net/http"
	"strings"
)

// HeaderMatcher decides whether a response header set carries a platform marker.
type HeaderMatcher interface {
	Match(headers http.Header, marker string) bool
}

// SubstringMatcher matches a marker anywhere in a lowercased "key: value" rendering of every header.
// Header names and values are both searched.
type SubstringMatcher struct{}

func (SubstringMatcher) Match(headers http.Header, marker string) bool {
	marker = strings.ToLower(marker)

	for key, values := range headers {
		if strings.Contains(strings.ToLower(key), marker) {
			return true
		}

		for _, v := range values {
			if strings.Contains(strings.ToLower(v), marker) {
				return true
			}
		}
	}

	return false
}

// ExactHeaderKeyMatcher only matches header names starting with the marker, e.g. "x-amzn-requestid" for "x-amzn".
type ExactHeaderKeyMatcher struct{}

func (ExactHeaderKeyMatcher) Match(headers http.Header, marker string) bool {
	marker = strings.ToLower(marker)

	for key := range headers {
		if strings.HasPrefix(strings.ToLower(key), marker) {
			return true
		}
	}

	return false
}
