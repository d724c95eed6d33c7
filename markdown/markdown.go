// Package markdown turns the lightweight Markdown typed into the product
// description field into the HTML WordPress stores as post content.
package markdown

import (
	"html"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

var (
	reBold             = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reBoldUnderscore   = regexp.MustCompile(`__(.+?)__`)
	reItalic           = regexp.MustCompile(`\*([^*]+)\*`)
	reItalicUnderscore = regexp.MustCompile(`_([^_]+)_`)
	reInlineCode       = regexp.MustCompile("`([^`]+)`")
	reLink             = regexp.MustCompile(`\[(.*?)\]\((.*?)\)`)
	reOrderedItem      = regexp.MustCompile(`^(\d+)\.\s`)
)

type block int

const (
	blockNone block = iota
	blockPara
	blockList
	blockOrdered
	blockQuote
	blockCode
)

var closers = map[block]string{
	blockPara:    "</p>",
	blockList:    "</ul>",
	blockOrdered: "</ol>",
	blockQuote:   "</blockquote>",
	blockCode:    "</code></pre>",
}

type renderer struct {
	b    strings.Builder
	open block
}

func (r *renderer) close() {
	r.b.WriteString(closers[r.open])
	r.open = blockNone
}

// enter switches to kind, closing whatever block was open. It reports
// whether a new block was started.
func (r *renderer) enter(kind block, opening string) bool {
	if r.open == kind {
		return false
	}
	r.close()
	r.b.WriteString(opening)
	r.open = kind
	return true
}

// ToHTML renders md. Input is treated as untrusted: raw HTML is escaped and
// only http(s), mailto, tel and relative link targets survive.
func ToHTML(md string) string {
	r := &renderer{}
	for _, raw := range strings.Split(md, "\n") {
		line := strings.TrimRight(raw, "\r")

		if strings.HasPrefix(line, "```") {
			if r.open == blockCode {
				r.close()
			} else {
				r.enter(blockCode, `<pre><code>`)
			}
			continue
		}
		if r.open == blockCode {
			r.b.WriteString(html.EscapeString(line))
			r.b.WriteByte('\n')
			continue
		}

		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			r.close()
		case strings.HasPrefix(line, "### "):
			r.heading(3, line[4:])
		case strings.HasPrefix(line, "## "):
			r.heading(2, line[3:])
		case strings.HasPrefix(line, "# "):
			r.heading(1, line[2:])
		case strings.HasPrefix(line, "- "), strings.HasPrefix(line, "* "):
			r.enter(blockList, "<ul>")
			r.b.WriteString("<li>" + Inline(strings.TrimSpace(line[2:])) + "</li>")
		case reOrderedItem.MatchString(line):
			r.enter(blockOrdered, "<ol>")
			r.b.WriteString("<li>" + Inline(strings.TrimSpace(reOrderedItem.ReplaceAllString(line, ""))) + "</li>")
		case strings.HasPrefix(line, "> "):
			if !r.enter(blockQuote, "<blockquote>") {
				r.b.WriteByte(' ')
			}
			r.b.WriteString(Inline(strings.TrimSpace(line[2:])))
		default:
			if !r.enter(blockPara, "<p>") {
				r.b.WriteByte(' ')
			}
			r.b.WriteString(Inline(trimmed))
		}
	}
	r.close()
	return r.b.String()
}

func (r *renderer) heading(level int, text string) {
	r.close()
	tag := "h" + strconv.Itoa(level)
	r.b.WriteString("<" + tag + ">" + Inline(strings.TrimSpace(text)) + "</" + tag + ">")
}

// Inline escapes s and applies links, inline code, bold and italic.
func Inline(s string) string {
	out := html.EscapeString(s)
	out = reLink.ReplaceAllStringFunc(out, func(m string) string {
		match := reLink.FindStringSubmatch(m)
		href := SafeURL(match[2])
		if href == "" {
			return match[1]
		}
		return `<a href="` + href + `">` + match[1] + `</a>`
	})

	// Inline code is swapped for placeholders so emphasis never reaches it.
	var codes []string
	out = reInlineCode.ReplaceAllStringFunc(out, func(m string) string {
		codes = append(codes, "<code>"+reInlineCode.FindStringSubmatch(m)[1]+"</code>")
		return "\x00" + strconv.Itoa(len(codes)-1) + "\x00"
	})
	out = outsideTags(out, func(seg string) string {
		seg = reBold.ReplaceAllString(seg, "<strong>$1</strong>")
		seg = reBoldUnderscore.ReplaceAllString(seg, "<strong>$1</strong>")
		seg = reItalic.ReplaceAllString(seg, "<em>$1</em>")
		return reItalicUnderscore.ReplaceAllString(seg, "<em>$1</em>")
	})
	for i, c := range codes {
		out = strings.Replace(out, "\x00"+strconv.Itoa(i)+"\x00", c, 1)
	}
	return out
}

// outsideTags applies fn to text between tags so href values stay intact.
func outsideTags(s string, fn func(string) string) string {
	var b strings.Builder
	for s != "" {
		lt := strings.IndexByte(s, '<')
		if lt < 0 {
			b.WriteString(fn(s))
			break
		}
		b.WriteString(fn(s[:lt]))
		gt := strings.IndexByte(s[lt:], '>')
		if gt < 0 {
			b.WriteString(s[lt:])
			break
		}
		b.WriteString(s[lt : lt+gt+1])
		s = s[lt+gt+1:]
	}
	return b.String()
}

// SafeURL returns raw escaped for an attribute, or "" when the scheme is not allowed.
func SafeURL(raw string) string {
	val := strings.TrimSpace(html.UnescapeString(raw))
	if val == "" {
		return ""
	}
	if strings.HasPrefix(val, "/") || strings.HasPrefix(val, "#") {
		return html.EscapeString(val)
	}
	u, err := url.Parse(val)
	if err != nil {
		return ""
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https", "mailto", "tel":
		return html.EscapeString(val)
	}
	return ""
}
