package markdown

import (
	"strings"
	"testing"
)

func TestInlineEmphasis(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"**bold**", "<strong>bold</strong>"},
		{"__bold__", "<strong>bold</strong>"},
		{"*italic*", "<em>italic</em>"},
		{"_italic_", "<em>italic</em>"},
		{"**bold *italic* text**", "<strong>bold <em>italic</em> text</strong>"},
		{"`**not bold**`", "<code>**not bold**</code>"},
	}
	for _, tt := range tests {
		if got := Inline(tt.input); got != tt.expected {
			t.Errorf("Inline(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestInlineLinks(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"[shop](https://example.com/bar_soap_one)", `<a href="https://example.com/bar_soap_one">shop</a>`},
		{"[home](/)", `<a href="/">home</a>`},
		{"[bad](javascript:alert(1))", "bad"},
	}
	for _, tt := range tests {
		if got := Inline(tt.input); got != tt.expected {
			t.Errorf("Inline(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestToHTMLEscapesRawHTML(t *testing.T) {
	got := ToHTML("<script>alert(1)</script>")
	if strings.Contains(got, "<script>") {
		t.Fatalf("raw html should be escaped: %q", got)
	}
}

func TestToHTMLBlocks(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"# Title", "<h1>Title</h1>"},
		{"### Small", "<h3>Small</h3>"},
		{"- shea butter\n- olive oil", "<ul><li>shea butter</li><li>olive oil</li></ul>"},
		{"1. wet\n2. lather", "<ol><li>wet</li><li>lather</li></ol>"},
		{"> gentle\n> daily", "<blockquote>gentle daily</blockquote>"},
		{"one\ntwo\n\nthree", "<p>one two</p><p>three</p>"},
		{"```\n<b>\n```", "<pre><code>&lt;b&gt;\n</code></pre>"},
	}
	for _, tt := range tests {
		if got := ToHTML(tt.input); got != tt.expected {
			t.Errorf("ToHTML(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestToHTMLListThenParagraph(t *testing.T) {
	got := ToHTML("- lye\nNotes follow")
	want := "<ul><li>lye</li></ul><p>Notes follow</p>"
	if got != want {
		t.Fatalf("ToHTML = %q, want %q", got, want)
	}
}

func TestSafeURL(t *testing.T) {
	tests := map[string]string{
		"https://example.com": "https://example.com",
		"mailto:hi@x.io":      "mailto:hi@x.io",
		"#anchor":             "#anchor",
		"data:text/html,hi":   "",
		"":                    "",
	}
	for in, want := range tests {
		if got := SafeURL(in); got != want {
			t.Errorf("SafeURL(%q) = %q, want %q", in, got, want)
		}
	}
}
