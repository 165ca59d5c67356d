// Package assets extracts storage object keys from asset URLs embedded in
// post HTML. The scanner only matches text shapes; whether an object
// actually exists is the storage backend's concern.
package assets

import (
	"regexp"
	"sort"
)

// keyPattern is the filename shape produced by the upload path: a short
// URL-safe id plus an extension.
const keyPattern = `([a-zA-Z0-9_-]+\.\w+)`

// Matcher recognizes one storage URL shape and captures the object key as
// the first regexp group.
type Matcher struct {
	re *regexp.Regexp
}

// LocalPathMatcher recognizes locally served uploads ("/uploads/<key>").
func LocalPathMatcher() Matcher {
	return Matcher{re: regexp.MustCompile(`/uploads/` + keyPattern)}
}

// PublicURLMatcher recognizes objects served from a remote public base URL,
// matching any path prefix under the given host.
func PublicURLMatcher(host string) Matcher {
	return Matcher{re: regexp.MustCompile(regexp.QuoteMeta(host) + `/(?:[^/\s"']+/)*` + keyPattern)}
}

// Scanner holds an ordered list of matchers. Adding a storage backend means
// adding a matcher, not rewriting the scan.
type Scanner struct {
	matchers []Matcher
}

func NewScanner(matchers ...Matcher) *Scanner {
	return &Scanner{matchers: matchers}
}

// Extract returns the object keys referenced in body, in order of
// appearance. Unrecognized URLs are ignored; no match yields an empty
// slice. Duplicates are kept — deletion downstream is idempotent anyway.
func (s *Scanner) Extract(body string) []string {
	type hit struct {
		pos int
		key string
	}
	var hits []hit
	for _, m := range s.matchers {
		for _, idx := range m.re.FindAllStringSubmatchIndex(body, -1) {
			// idx[2]:idx[3] is the key capture group
			hits = append(hits, hit{pos: idx[0], key: body[idx[2]:idx[3]]})
		}
	}
	// order across matchers follows position in the body
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })
	keys := make([]string, 0, len(hits))
	for _, h := range hits {
		keys = append(keys, h.key)
	}
	return keys
}
