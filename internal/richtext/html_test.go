package richtext

import "testing"

func TestParse_BasicBlocks(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		want     string // canonical serialization
	}{
		{"paragraph", "<p>hello</p>", "<p>hello</p>"},
		{"div becomes paragraph", "<div>hello</div>", "<p>hello</p>"},
		{"heading keeps level", "<h3>title</h3>", "<h3>title</h3>"},
		{"blockquote", "<blockquote>wise</blockquote>", "<blockquote>wise</blockquote>"},
		{"bullet list", "<ul><li>a</li><li>b</li></ul>", "<ul><li>a</li><li>b</li></ul>"},
		{"numbered list", "<ol><li>a</li></ol>", "<ol><li>a</li></ol>"},
		{"bare text becomes paragraph", "hello", "<p>hello</p>"},
		{"empty input", "", ""},
		{"whitespace only", "  \n  ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.fragment).HTML()
			if got != tt.want {
				t.Errorf("Parse(%q).HTML() = %q, want %q", tt.fragment, got, tt.want)
			}
		})
	}
}

func TestParse_InlineStyles(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		want     string
	}{
		{"b canonicalizes to strong", "<p><b>x</b></p>", "<p><strong>x</strong></p>"},
		{"i canonicalizes to em", "<p><i>x</i></p>", "<p><em>x</em></p>"},
		{"underline", "<p><u>x</u></p>", "<p><u>x</u></p>"},
		{"link", `<p><a href="https://example.com">x</a></p>`, `<p><a href="https://example.com">x</a></p>`},
		{"nesting order is canonical", "<p><u><strong>x</strong></u></p>", "<p><strong><u>x</u></strong></p>"},
		{"unknown inline tag is transparent", "<p><span>x</span></p>", "<p>x</p>"},
		{"script text survives only as text", "<p><script>alert(1)</script>hi</p>", "<p>hi</p>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.fragment).HTML()
			if got != tt.want {
				t.Errorf("Parse(%q).HTML() = %q, want %q", tt.fragment, got, tt.want)
			}
		})
	}
}

func TestParse_Alignment(t *testing.T) {
	got := Parse(`<p style="text-align: center">x</p>`).HTML()
	want := `<p style="text-align: center">x</p>`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	// Unrelated style declarations are dropped.
	got = Parse(`<p style="color: red">x</p>`).HTML()
	if got != "<p>x</p>" {
		t.Errorf("unrelated style should not survive, got %q", got)
	}
}

func TestHTML_RoundTripStable(t *testing.T) {
	inputs := []string{
		"<p>plain</p>",
		"<p><strong>bold</strong> and <em>italic</em></p>",
		`<h2 style="text-align: right">title</h2>`,
		"<ul><li><strong>a</strong></li><li>b</li></ul>",
		"<blockquote>quoted <u>text</u></blockquote>",
	}

	for _, in := range inputs {
		once := Parse(in).HTML()
		twice := Parse(once).HTML()
		if once != twice {
			t.Errorf("round trip unstable for %q: %q then %q", in, once, twice)
		}
	}
}

func TestHTML_EscapesText(t *testing.T) {
	doc := &Document{Blocks: []Block{{Kind: BlockParagraph, Spans: []Span{{Text: `a < b & "c"`}}}}}
	got := doc.HTML()
	want := "<p>a &lt; b &amp; &#34;c&#34;</p>"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		fragment string
		want     string
	}{
		{"<p><strong>bold</strong> text</p>", "bold text"},
		{"<p>one</p><p>two</p>", "one\ntwo"},
		{"<ul><li>a</li><li>b</li></ul>", "a\nb"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := PlainText(tt.fragment); got != tt.want {
			t.Errorf("PlainText(%q) = %q, want %q", tt.fragment, got, tt.want)
		}
	}
}

func TestDocument_Empty(t *testing.T) {
	if !Parse("").Empty() {
		t.Error("empty fragment should parse to an empty document")
	}
	if Parse("<p>x</p>").Empty() {
		t.Error("non-empty fragment should not be empty")
	}
}
