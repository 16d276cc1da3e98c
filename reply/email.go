package reply

import (
	"strings"
	"unicode"
)

// Fragment is a run of consecutive lines sharing one classification.
type Fragment struct {
	lines     []string
	content   string
	quoted    bool
	signature bool
}

// Content returns the fragment lines, right-trimmed and joined by "\n".
func (f *Fragment) Content() string { return f.content }

// Quoted reports whether the fragment is quoted text or a quote header.
func (f *Fragment) Quoted() bool { return f.quoted }

// Signature reports whether the fragment starts at a signature delimiter.
func (f *Fragment) Signature() bool { return f.signature }

// Hidden reports whether the fragment is left out of the visible text.
func (f *Fragment) Hidden() bool { return f.quoted || f.signature }

// Lines returns the number of input lines the fragment covers.
func (f *Fragment) Lines() int { return len(f.lines) }

func (f *Fragment) String() string { return f.content }

// Email is a parsed message body.
type Email struct {
	fragments []*Fragment
}

// Fragments returns the fragments in document order.
func (e *Email) Fragments() []*Fragment {
	return append([]*Fragment(nil), e.fragments...)
}

// VisibleText returns the text the sender wrote in this message.
func (e *Email) VisibleText() string {
	return e.text(false)
}

// HiddenText returns the quoted and signature text.
func (e *Email) HiddenText() string {
	return e.text(true)
}

func (e *Email) text(hidden bool) string {
	var parts []string
	for _, f := range e.fragments {
		if f.Hidden() == hidden {
			parts = append(parts, f.content)
		}
	}
	return strings.TrimRightFunc(strings.Join(parts, "\n"), unicode.IsSpace)
}

func (e *Email) String() string {
	return e.VisibleText()
}
