package fingerprint

import (
	"path"
	"regexp"
	"sort"
	"strings"
	"sync"
)

type Kind int

const (
	KindOther Kind = iota
	KindHtml
	KindJs
	KindCss
)

// Span is a byte range [Start, End) of an asset path inside a document
type Span struct {
	Start int
	End   int
}

// Matcher finds and rewrites references to an asset key within a document.
// References may carry a stale -<8 hex> suffix before the extension.
type Matcher interface {
	// Find returns the spans of all path references to key, in document order.
	Find(content []byte, key string) []Span

	// Rewrite replaces every reference found by Find with hashedKey,
	// returning the new content and the number of references found.
	Rewrite(content []byte, key, hashedKey string) ([]byte, int)
}

const (
	groupOpen  = "open"
	groupPath  = "path"
	groupClose = "close"

	placeholderPath = "{{path}}"
)

// rule is a reference syntax. Its pattern must capture groups open, path and close,
// with {{path}} standing in for the flexible asset path.
type rule struct {
	pattern string
	check   func(content []byte, re *regexp.Regexp, m []int) bool
}

type compiledRule struct {
	re    *regexp.Regexp
	check func(content []byte, re *regexp.Regexp, m []int) bool
}

type matcher struct {
	rules []rule

	mut   sync.Mutex
	cache map[string][]compiledRule
}

var (
	ruleHtmlAttr = rule{
		pattern: `(?:src|href)=(?P<open>["']?)(?P<path>{{path}})(?P<close>["']?)`,
		check:   checkUnquotedAttr,
	}
	ruleHtmlThymeleaf = rule{
		pattern: `th:(?:src|href)=(?P<open>["']?)@\{(?P<path>{{path}})\}(?P<close>["']?)`,
		check:   checkQuotes,
	}
	ruleString = rule{
		pattern: `(?P<open>["'])(?P<path>{{path}})(?P<close>["'])`,
		check:   checkQuotes,
	}
	ruleCssUrl = rule{
		pattern: `url\(\s*(?P<open>["']?)(?P<path>{{path}})(?P<close>["']?)\s*\)`,
		check:   checkQuotes,
	}
)

// MatcherFor returns a new Matcher for documents of kind k,
// or nil if k documents never carry asset references.
func MatcherFor(k Kind) Matcher {
	switch k {
	case KindHtml:
		return newMatcher(ruleHtmlAttr, ruleHtmlThymeleaf)

	case KindJs:
		return newMatcher(ruleString)

	case KindCss:
		return newMatcher(ruleCssUrl, ruleString)
	}

	return nil
}

func KindOf(filename string) Kind {
	switch strings.ToLower(path.Ext(filename)) {
	case ".html":
		return KindHtml

	case ".js":
		return KindJs

	case ".css":
		return KindCss
	}

	return KindOther
}

func (k Kind) String() string {
	switch k {
	case KindHtml:
		return "html"

	case KindJs:
		return "js"

	case KindCss:
		return "css"
	}

	return "other"
}

// FlexiblePath returns a regular expression source matching key
// with or without a -<8 hex> suffix before its extension.
func FlexiblePath(key string) string {
	ext := path.Ext(key)
	base := strings.TrimSuffix(key, ext)

	return regexp.QuoteMeta(base) + `(?:-[a-f0-9]{8})?` + regexp.QuoteMeta(ext)
}

func newMatcher(rules ...rule) *matcher {
	return &matcher{
		rules: rules,
		cache: make(map[string][]compiledRule),
	}
}

func (m *matcher) Find(content []byte, key string) []Span {
	var spans []Span
	for _, c := range m.compile(key) {
		iPath := c.re.SubexpIndex(groupPath)

		for _, match := range c.re.FindAllSubmatchIndex(content, -1) {
			if !c.check(content, c.re, match) {
				continue
			}

			spans = append(spans, Span{
				Start: match[2*iPath],
				End:   match[2*iPath+1],
			})
		}
	}

	return dedupSpans(spans)
}

func (m *matcher) Rewrite(content []byte, key, hashedKey string) ([]byte, int) {
	spans := m.Find(content, key)
	if len(spans) == 0 {
		return content, 0
	}

	out := make([]byte, 0, len(content)+len(spans)*(HashLen+1))
	prev := 0
	for _, s := range spans {
		out = append(out, content[prev:s.Start]...)
		out = append(out, hashedKey...)
		prev = s.End
	}
	out = append(out, content[prev:]...)

	return out, len(spans)
}

func (m *matcher) compile(key string) []compiledRule {
	m.mut.Lock()
	defer m.mut.Unlock()

	if compiled, ok := m.cache[key]; ok {
		return compiled
	}

	flexible := FlexiblePath(key)
	compiled := make([]compiledRule, len(m.rules))
	for i := range m.rules {
		src := strings.Replace(m.rules[i].pattern, placeholderPath, flexible, 1)
		compiled[i] = compiledRule{
			re:    regexp.MustCompile(src),
			check: m.rules[i].check,
		}
	}

	m.cache[key] = compiled
	return compiled
}

func group(content []byte, re *regexp.Regexp, m []int, name string) string {
	i := re.SubexpIndex(name)
	if m[2*i] < 0 {
		return ""
	}

	return string(content[m[2*i]:m[2*i+1]])
}

func checkQuotes(content []byte, re *regexp.Regexp, m []int) bool {
	return group(content, re, m, groupOpen) == group(content, re, m, groupClose)
}

// checkUnquotedAttr also requires that an unquoted attribute value
// ends right after the path.
func checkUnquotedAttr(content []byte, re *regexp.Regexp, m []int) bool {
	if !checkQuotes(content, re, m) {
		return false
	}

	if group(content, re, m, groupOpen) != "" {
		return true
	}

	end := m[1]
	if end == len(content) {
		return true
	}

	switch content[end] {
	case ' ', '\t', '\n', '\r', '\f', '>':
		return true
	}

	return false
}

func dedupSpans(spans []Span) []Span {
	if len(spans) < 2 {
		return spans
	}

	sort.Slice(spans, func(i, j int) bool {
		return spans[i].Start < spans[j].Start
	})

	out := spans[:1]
	for _, s := range spans[1:] {
		last := &out[len(out)-1]
		if s.Start < last.End {
			continue
		}

		out = append(out, s)
	}

	return out
}
