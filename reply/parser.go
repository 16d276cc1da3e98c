// Package reply separates the text a sender wrote from the quoted
// messages, attribution headers and signatures below it.
//
// The body is scanned bottom-up. Quoted text and signatures sit at the end
// of a typical reply, so walking backwards lets a quote header claim every
// line beneath it before the scan reaches the reply proper.
package reply

import (
	"strings"
	"unicode"
)

// Parse splits body into fragments. It never returns nil.
func Parse(body string) *Email {
	b := &builder{lines: splitLines(body)}
	for i := len(b.lines) - 1; i >= 0; i-- {
		b.scan(i)
	}
	b.close()

	for i, j := 0, len(b.fragments)-1; i < j; i, j = i+1, j-1 {
		b.fragments[i], b.fragments[j] = b.fragments[j], b.fragments[i]
	}
	return &Email{fragments: b.fragments}
}

// ParseReply returns the visible text of body without leading or trailing
// blank lines.
func ParseReply(body string) string {
	text := Parse(body).VisibleText()
	for {
		i := strings.IndexByte(text, '\n')
		if i < 0 || !IsEmpty(text[:i]) {
			break
		}
		text = text[i+1:]
	}
	return text
}

func splitLines(body string) []string {
	body = strings.ReplaceAll(body, "\r\n", "\n")
	body = strings.ReplaceAll(body, "\r", "\n")
	return strings.Split(body, "\n")
}

type builder struct {
	lines     []string
	fragments []*Fragment

	// cur collects lines in reverse order. A signature fragment is closed as
	// soon as its delimiter is seen, so cur is never one.
	cur *Fragment
	// headerSeen is set once a quote header has been found below the
	// current line.
	headerSeen bool
}

func (b *builder) scan(i int) {
	raw := b.lines[i]
	line := strings.TrimRightFunc(raw, unicode.IsSpace)
	quoted := b.cur != nil && b.cur.quoted

	switch {
	case IsQuoteLine(line):
		if !quoted {
			b.open(true)
		}
	case quoted && IsEmpty(line):
	case IsQuoteHeaderStart(b.lines, i):
		if b.cur == nil {
			b.open(true)
		}
		// Everything collected below the header belongs to the quoted
		// message, and header lines above this one still join it.
		b.cur.quoted = true
		b.headerSeen = true
	case IsSeparatorLine(line) && (quoted || b.headerSeen):
		// A rule drawn somewhere above a quote header ends the reply. The
		// lines between them, typically a signature, go with the quote.
		if b.cur == nil {
			b.open(true)
		}
		b.cur.quoted = true
	case IsSignatureStart(raw):
		if b.cur == nil || quoted {
			b.open(false)
		}
		b.cur.signature = true
		b.cur.lines = append(b.cur.lines, line)
		b.close()
		return
	default:
		if b.cur == nil || quoted {
			b.open(false)
		}
	}
	b.cur.lines = append(b.cur.lines, line)
}

func (b *builder) open(quoted bool) {
	b.close()
	b.cur = &Fragment{quoted: quoted}
}

func (b *builder) close() {
	f := b.cur
	if f == nil {
		return
	}
	b.cur = nil
	for i, j := 0, len(f.lines)-1; i < j; i, j = i+1, j-1 {
		f.lines[i], f.lines[j] = f.lines[j], f.lines[i]
	}
	f.content = strings.Join(f.lines, "\n")
	b.fragments = append(b.fragments, f)
}
