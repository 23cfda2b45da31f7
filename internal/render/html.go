package render

import (
	"html"
	"path/filepath"
	"strings"
)

// htmlBody converts man(1) terminal output into HTML for the page body.
//
// man marks bold as "c\bc" and underline as "_\bc" overstrike sequences.
// Runs of styled characters become <b> or <u> spans. The sequence "_\b_"
// is ambiguous; it continues an open underline run and otherwise counts
// as a bold underscore, which matches how pagers resolve it. Consecutive
// blank lines collapse into one, open spans close at blank lines and at
// end of input, and < and > are entity-escaped. Text without overstrike
// sequences passes through unstyled.
func htmlBody(man string) string {
	var b strings.Builder
	b.Grow(len(man))

	inBold := false
	inUnderline := false
	closeSpans := func() {
		if inBold {
			b.WriteString("</b>")
			inBold = false
		}
		if inUnderline {
			b.WriteString("</u>")
			inUnderline = false
		}
	}

	n := len(man)
	for i := 0; i < n; {
		ch := man[i]

		// collapse runs of blank lines
		if ch == '\n' && i+1 < n && man[i+1] == '\n' {
			closeSpans()
			b.WriteString("\n\n")
			i += 2
			for i < n && man[i] == '\n' {
				i++
			}
			continue
		}

		bold := false
		underline := false
		if i+2 < n && man[i+1] == '\b' {
			bold = ch == man[i+2]
			underline = ch == '_'
			if bold && underline {
				if inUnderline {
					bold = false
				} else {
					underline = false
				}
			}
		}

		if inBold && !bold {
			b.WriteString("</b>")
			inBold = false
		}
		if inUnderline && !underline {
			b.WriteString("</u>")
			inUnderline = false
		}
		if bold {
			if !inBold {
				b.WriteString("<b>")
				inBold = true
			}
			i += 2
		}
		if underline {
			if !inUnderline {
				b.WriteString("<u>")
				inUnderline = true
			}
			ch = man[i+2]
			i += 2
		}

		switch ch {
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		default:
			b.WriteByte(ch)
		}
		i++
	}

	closeSpans()
	return b.String()
}

// pageTitle derives the HTML title from the source path's basename,
// falling back to a generic title when the basename is unusable.
func pageTitle(sourcePath string) string {
	name := filepath.Base(sourcePath)
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "Man page"
	}
	return html.EscapeString(name)
}
