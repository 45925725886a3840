package minifier

import (
	"bytes"
	"regexp"
	"strconv"
)

// reSelfClosing matches tags written as <name attrs/>, attribute values may contain '>' or '/'
var reSelfClosing = regexp.MustCompile(`<([A-Za-z][\w:.-]*)((?:[^<>"']|"[^"]*"|'[^']*')*?)\s*/>`)

// selfClosing remembers tags whose trailing slash was swapped for a marker attribute.
// The HTML minifier drops "/>", even on non-void elements such as <th:block .../>.
type selfClosing struct {
	marks []mark
}

type mark struct {
	token []byte

	// endTag is added after raw text elements, whose content would otherwise
	// run until the next end tag of the same name
	endTag []byte
}

// markSelfClosing rewrites <name attrs/> into <name attrs MARK>
func markSelfClosing(doc []byte) ([]byte, *selfClosing) {
	s := &selfClosing{}
	if !bytes.Contains(doc, []byte("/>")) {
		return doc, s
	}

	prefix := tokenPrefix(doc)
	doc = reSelfClosing.ReplaceAllFunc(doc, func(match []byte) []byte {
		sub := reSelfClosing.FindSubmatch(match)
		m := mark{token: []byte(prefix + strconv.Itoa(len(s.marks)) + "_")}
		if isRawText(sub[1]) {
			m.endTag = []byte("</" + string(sub[1]) + ">")
		}
		s.marks = append(s.marks, m)

		out := make([]byte, 0, len(match)+len(m.token)+len(m.endTag)+2)
		out = append(out, '<')
		out = append(out, sub[1]...)
		out = append(out, sub[2]...)
		out = append(out, ' ')
		out = append(out, m.token...)
		out = append(out, '>')
		out = append(out, m.endTag...)

		return out
	})

	return doc, s
}

// restore turns "<name attrs MARK>" back into "<name attrs/>".
// Marks that lost their closing '>' are only removed.
func (s *selfClosing) restore(doc []byte) []byte {
	for _, m := range s.marks {
		i := bytes.Index(doc, m.token)
		if i < 0 {
			continue
		}

		start := i
		for start > 0 && isSpace(doc[start-1]) {
			start--
		}

		end := i + len(m.token)
		replace := []byte{}
		if end < len(doc) && doc[end] == '>' {
			end++
			replace = []byte("/>")

			if len(m.endTag) != 0 && bytes.HasPrefix(bytes.ToLower(doc[end:]), bytes.ToLower(m.endTag)) {
				end += len(m.endTag)
			}
		}

		out := make([]byte, 0, len(doc))
		out = append(out, doc[:start]...)
		out = append(out, replace...)
		out = append(out, doc[end:]...)
		doc = out
	}

	return doc
}

func isRawText(name []byte) bool {
	switch string(bytes.ToLower(name)) {
	case "script", "style", "textarea", "title":
		return true
	}

	return false
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\f':
		return true
	}

	return false
}
