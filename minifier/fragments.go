package minifier

import (
	"bytes"
	"regexp"
	"strconv"
)

// fragments maps placeholder tokens back to the template fragments they replaced.
// A token is a plain identifier, so it survives HTML text, attribute values
// as well as inline JS and CSS minification.
type fragments struct {
	tokens    [][]byte
	originals [][]byte
}

// protect replaces every match of res in doc with a unique token
func protect(doc []byte, res []*regexp.Regexp) ([]byte, *fragments) {
	f := &fragments{}
	if len(res) == 0 {
		return doc, f
	}

	prefix := tokenPrefix(doc)
	for _, re := range res {
		doc = re.ReplaceAllFunc(doc, func(match []byte) []byte {
			token := []byte(prefix + strconv.Itoa(len(f.tokens)) + "_")
			f.tokens = append(f.tokens, token)
			f.originals = append(f.originals, bytes.Clone(match))

			return token
		})
	}

	return doc, f
}

// restore puts back original fragments. A later pattern may have swallowed
// earlier tokens into its own original, so restore walks backwards.
func (f *fragments) restore(doc []byte) []byte {
	for i := len(f.tokens) - 1; i >= 0; i-- {
		doc = bytes.ReplaceAll(doc, f.tokens[i], f.originals[i])
	}

	return doc
}

// tokenPrefix picks a prefix absent from doc
func tokenPrefix(doc []byte) string {
	prefix := "fpfrag_"
	for i := 0; bytes.Contains(doc, []byte(prefix)); i++ {
		prefix = "fpfrag" + strconv.Itoa(i) + "_"
	}

	return prefix
}
