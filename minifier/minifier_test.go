package minifier

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"
)

func TestProtectRestore(t *testing.T) {
	type testCase struct {
		doc    string
		tokens int
	}

	tests := []testCase{
		{
			doc:    "<p>no fragments here</p>",
			tokens: 0,
		},
		{
			doc:    "<p>[[ ${user.name} ]]</p>",
			tokens: 1,
		},
		{
			doc:    "<p>[[${a}]] and [(${b})] and [[${c[0]}]]</p>",
			tokens: 3,
		},
		{
			doc:    "[( [[${nested}]] )]",
			tokens: 2,
		},
		{
			doc:    "fpfrag_0_ [[${clash}]]",
			tokens: 1,
		},
		{
			doc:    "var user = /*[[${user}]]*/ null;",
			tokens: 1,
		},
		{
			doc:    "var a = /*[(${a})]*/ 'x', b = /* [[${b}]] */ [1, 2], c = /*[[${c}]]*/ {};",
			tokens: 3,
		},
		{
			doc:    ".a { color: /*[[${color}]]*/ #fff; }",
			tokens: 1,
		},
	}

	for i := range tests {
		tc := &tests[i]
		masked, frags := protect([]byte(tc.doc), FragmentsThymeleaf)
		if len(frags.tokens) != tc.tokens {
			t.Fatalf("case %d: unexpected token count %d, expecting %d", i+1, len(frags.tokens), tc.tokens)
		}
		if tc.tokens != 0 && bytes.Contains(masked, []byte("[[")) {
			t.Fatalf("case %d: fragment left unmasked: %s", i+1, masked)
		}

		restored := frags.restore(masked)
		if string(restored) != tc.doc {
			t.Fatalf("case %d: unexpected restored doc '%s', expecting '%s'", i+1, restored, tc.doc)
		}
	}
}

func TestMinifyHtmlFragments(t *testing.T) {
	type testCase struct {
		doc       string
		fragments []string
	}

	tests := []testCase{
		{
			doc:       "<p>\n    [[ ${user.name} ]]\n</p>",
			fragments: []string{"[[ ${user.name} ]]"},
		},
		{
			doc:       `<div th:text="[( ${post.title} )]">title</div>`,
			fragments: []string{"[( ${post.title} )]"},
		},
		{
			doc: `<script>
	var who = [[${user}]];
	console.log(who);
</script>`,
			fragments: []string{"[[${user}]]"},
		},
		{
			doc:       `<script th:inline="javascript">var user = /*[[${user}]]*/ null;</script>`,
			fragments: []string{"/*[[${user}]]*/ null"},
		},
		{
			doc: `<script th:inline="javascript">
	var name = /*[[${user.name}]]*/ "Guest";
	var tags = /*[(${tags})]*/ [];
	greet(name, tags);
</script>`,
			fragments: []string{`/*[[${user.name}]]*/ "Guest"`, "/*[(${tags})]*/ []"},
		},
		{
			doc:       `<style th:inline="css">.a { color: /*[[${color}]]*/ red; }</style>`,
			fragments: []string{"/*[[${color}]]*/ red"},
		},
		{
			doc: `<ul>
	<li>[[${a}]]</li>
	<li>[(${b})]</li>
</ul>`,
			fragments: []string{"[[${a}]]", "[(${b})]"},
		},
	}

	m := Default()
	for i := range tests {
		tc := &tests[i]
		out, err := m.MinifyHtml([]byte(tc.doc))
		if err != nil {
			t.Fatalf("case %d: unexpected error: %v", i+1, err)
		}

		for _, frag := range tc.fragments {
			if !bytes.Contains(out, []byte(frag)) {
				t.Fatalf("case %d: missing fragment '%s' in output '%s'", i+1, frag, out)
			}
		}
		if bytes.Contains(out, []byte("fpfrag")) {
			t.Fatalf("case %d: placeholder leaked into output '%s'", i+1, out)
		}
	}
}

func TestMinifyHtml(t *testing.T) {
	doc := []byte(`<!DOCTYPE html>
<html>
<head>
	<!-- page header -->
	<title>  Blog  </title>
</head>
<body>
	<p>
		Hello,    world
	</p>
</body>
</html>`)

	out, err := Default().MinifyHtml(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bytes.Contains(out, []byte("page header")) {
		t.Fatalf("comment not removed: '%s'", out)
	}
	if bytes.Contains(out, []byte("    ")) {
		t.Fatalf("whitespace not collapsed: '%s'", out)
	}
	if !bytes.Contains(out, []byte("<html>")) {
		t.Fatalf("document tags dropped: '%s'", out)
	}
	if len(out) >= len(doc) {
		t.Fatalf("output not smaller than input: %d >= %d", len(out), len(doc))
	}
}

func TestMinifyHtmlMarkup(t *testing.T) {
	type testCase struct {
		doc      string
		contains []string
		absent   []string
	}

	tests := []testCase{
		{
			doc:      "<body>\n  <th:block th:replace=\"~{frag :: nav}\"/>\n  <p>after</p>\n</body>",
			contains: []string{`<th:block th:replace="~{frag :: nav}"/>`, "<p>after</p>"},
		},
		{
			doc:      `<div   th:replace="~{frag :: footer}"   /><p>after</p>`,
			contains: []string{`<div th:replace="~{frag :: footer}"/>`, "<p>after</p>"},
		},
		{
			doc:      `<p>a<br/>b</p><img src="/img/a.png" alt="a b"/>`,
			contains: []string{"<br/>", `<img src="/img/a.png" alt="a b"/>`},
		},
		{
			doc:      `<script th:src="@{/js/a.js}"/><p>after</p>`,
			contains: []string{`<script th:src="@{/js/a.js}"/><p>after</p>`},
			absent:   []string{"</script>"},
		},
		{
			doc:      `<input type="checkbox" disabled="disabled"><option selected="selected">x</option>`,
			contains: []string{"disabled", "selected"},
			absent:   []string{`disabled="disabled"`, `selected="selected"`},
		},
		{
			doc:    `<script type="text/javascript">var a = 1;</script><style type="text/css">a { color: red; }</style>`,
			absent: []string{"type=", "text/javascript", "text/css"},
		},
	}

	m := Default()
	for i := range tests {
		tc := &tests[i]
		out, err := m.MinifyHtml([]byte(tc.doc))
		if err != nil {
			t.Fatalf("case %d: unexpected error: %v", i+1, err)
		}

		for _, s := range tc.contains {
			if !bytes.Contains(out, []byte(s)) {
				t.Fatalf("case %d: missing '%s' in output '%s'", i+1, s, out)
			}
		}
		for _, s := range tc.absent {
			if bytes.Contains(out, []byte(s)) {
				t.Fatalf("case %d: unexpected '%s' in output '%s'", i+1, s, out)
			}
		}
		if bytes.Contains(out, []byte("fpfrag")) {
			t.Fatalf("case %d: marker leaked into output '%s'", i+1, out)
		}
	}
}

func TestMarkSelfClosing(t *testing.T) {
	type testCase struct {
		doc      string
		marks    int
		restored string
	}

	tests := []testCase{
		{
			doc:      "<p>nothing</p>",
			restored: "<p>nothing</p>",
		},
		{
			doc:      "a /> b",
			restored: "a /> b",
		},
		{
			doc:      "<br/>",
			marks:    1,
			restored: "<br/>",
		},
		{
			doc:      `<th:block th:replace="~{a :: b}" /><div th:insert='x'/>`,
			marks:    2,
			restored: `<th:block th:replace="~{a :: b}"/><div th:insert='x'/>`,
		},
		{
			doc:      `<script src="/js/a.js"/><p>x</p>`,
			marks:    1,
			restored: `<script src="/js/a.js"/><p>x</p>`,
		},
		{
			doc:      `<div th:attr="data-x='a/>b'"/>`,
			marks:    1,
			restored: `<div th:attr="data-x='a/>b'"/>`,
		},
	}

	for i := range tests {
		tc := &tests[i]
		masked, closing := markSelfClosing([]byte(tc.doc))
		if len(closing.marks) != tc.marks {
			t.Fatalf("case %d: unexpected mark count %d, expecting %d", i+1, len(closing.marks), tc.marks)
		}
		if tc.marks != 0 && bytes.HasSuffix(masked, []byte("/>")) {
			t.Fatalf("case %d: trailing slash left in masked doc '%s'", i+1, masked)
		}

		restored := string(closing.restore(masked))
		if restored != tc.restored {
			t.Fatalf("case %d: unexpected restored doc '%s', expecting '%s'", i+1, restored, tc.restored)
		}
	}
}

func TestMinifyHtmlNoFragments(t *testing.T) {
	m := New(Options{})
	doc := []byte("<p>[[ ${x} ]]</p>")

	out, err := m.MinifyHtml(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Contains(out, []byte("${x}")) {
		t.Fatalf("unexpected output '%s'", out)
	}
}

func TestMinifyCss(t *testing.T) {
	doc := []byte(`/*! Copyright (c) someone, MIT license */
body {
	color: red;
	margin: 0px;
}
`)

	out, err := Default().MinifyCss(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bytes.Contains(out, []byte("license")) {
		t.Fatalf("legal comment not removed: '%s'", out)
	}
	if !bytes.Contains(out, []byte("color:red")) {
		t.Fatalf("unexpected output '%s'", out)
	}
}

func TestMinifyJs(t *testing.T) {
	doc := []byte(`
// add adds
function add(first, second) {
	return first + second;
}

console.log(add(1, 2));
`)

	out, err := Default().MinifyJs(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bytes.Contains(out, []byte("add adds")) {
		t.Fatalf("comment not removed: '%s'", out)
	}
	if !bytes.Contains(out, []byte("function add(")) {
		t.Fatalf("top-level function renamed: '%s'", out)
	}
	if len(out) >= len(doc) {
		t.Fatalf("output not smaller than input: %d >= %d", len(out), len(doc))
	}
}

func TestMinifyAll(t *testing.T) {
	m := Default()
	data := []byte("{ \"a\": 1 }")

	out, err := m.MinifyAll("data.txt", data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(out, data) {
		t.Fatalf("unsupported extension modified: '%s'", out)
	}

	_, err = m.extToFn(".txt")
	if !errors.Is(err, ErrNotSupported) {
		t.Fatalf("unexpected error %v, expecting %v", err, ErrNotSupported)
	}
}

func TestTokenPrefix(t *testing.T) {
	doc := []byte("fpfrag_ fpfrag0_")
	prefix := tokenPrefix(doc)
	if bytes.Contains(doc, []byte(prefix)) {
		t.Fatalf("prefix '%s' found in doc", prefix)
	}
	if !regexp.MustCompile(`^[a-z0-9_]+$`).MatchString(prefix) {
		t.Fatalf("prefix '%s' is not a plain identifier", prefix)
	}
}

func TestMinifyFile(t *testing.T) {
	dir := t.TempDir()
	css := filepath.Join(dir, "main.css")
	err := os.WriteFile(css, []byte("body {\n  color : red ;\n}\n"), 0o644)
	if err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	m := Default()
	out, err := m.MinifyFile(css)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out) != "body{color:red}" {
		t.Fatalf("unexpected output '%s'", out)
	}

	_, err = m.MinifyFile(filepath.Join(dir, "notes.txt"))
	if !errors.Is(err, ErrNotSupported) {
		t.Fatalf("unexpected error %v, expecting %v", err, ErrNotSupported)
	}

	_, err = m.MinifyFile(filepath.Join(dir, "missing.js"))
	if err == nil {
		t.Fatalf("expecting error for missing file")
	}
}
