package reply

import (
	"regexp"
	"strings"
	"unicode"
)

// A Rule recognises the first line of a quote header: the attribution or
// header block a mail client writes above the message being replied to.
type Rule struct {
	Name string
	// Span is the largest number of consecutive non-blank lines, starting at
	// the candidate line, the rule looks at.
	Span  int
	match func(window []string) bool
}

// Match reports whether window, a run of non-blank lines starting at the
// candidate line, opens a quote header. Lines past Span are ignored.
func (r Rule) Match(window []string) bool {
	if len(window) == 0 {
		return false
	}
	if len(window) > r.Span {
		window = window[:r.Span]
	}
	return r.match(window)
}

// Rules is evaluated in order; the first match wins.
var Rules = []Rule{
	attributionRule(locales[0]),
	attributionRule(locales[1]),
	patternRule("date-address", 2, `^\s*(?:`+numericPattern+`)(?:\s+\S+)*\s*<\s*[^\s<>]+@[^\s<>]+\s*>\s*:?\s*$`),
	patternRule("address-wrote", 2, `(?i)^\s*(?:(?:"[^"]*"|[^<>"@]*?)\s*<\s*[^\s<>]+@[^\s<>]+\s*>|[^\s<>"@]+@[^\s<>]+)\s*(?:wrote|skrev(?:\s+følgende)?|følgende)\s*:\s*$`),
	patternRule("client-separator", 1, `(?i)^\s*-{2,}\s*(?:original message|original melding|opprinnelig melding|forwarded message|videresendt melding)\s*-{2,}\s*$`),
	patternRule("forwarded", 1, `(?i)^\s*(?:begin forwarded message|videresendt melding|forwarded message)\s*:\s*$`),
	{Name: "header-block", Span: 6, match: matchHeaderBlock},
}

func attributionRule(l locale) Rule {
	return patternRule(l.name, 2, l.pattern())
}

// patternRule tries the first line alone, then the first line joined with
// the following ones, up to span lines. Clients wrap long attributions
// after the name, leaving "<addr> wrote:" on the next line.
func patternRule(name string, span int, pattern string) Rule {
	re := regexp.MustCompile(pattern)
	return Rule{
		Name: name,
		Span: span,
		match: func(window []string) bool {
			for n := 1; n <= len(window); n++ {
				if re.MatchString(strings.Join(window[:n], " ")) {
					return true
				}
			}
			return false
		},
	}
}

var headerField = regexp.MustCompile(`(?i)^\s*\*?(from|fra|sent|sendt|date|dato|to|til|cc|kopi|subject|emne)\*?\s*:`)

var headerKinds = map[string]string{
	"from": "from", "fra": "from",
	"sent": "date", "sendt": "date", "date": "date", "dato": "date",
	"to": "to", "til": "to",
	"cc": "cc", "kopi": "cc",
	"subject": "subject", "emne": "subject",
}

// matchHeaderBlock accepts a run of header fields that names the sender and
// at least two of date, recipient and subject. Every line up to the first
// non-field line counts; the first line must be a field. Quote lines inside
// the run are skipped.
func matchHeaderBlock(window []string) bool {
	kinds := make(map[string]bool)
	for k, line := range window {
		if k > 0 && IsQuoteLine(line) {
			continue
		}
		m := headerField.FindStringSubmatch(line)
		if m == nil {
			break
		}
		kinds[headerKinds[strings.ToLower(m[1])]] = true
	}
	if !kinds["from"] {
		return false
	}
	n := 0
	for _, k := range []string{"date", "to", "subject"} {
		if kinds[k] {
			n++
		}
	}
	return n >= 2
}

// IsQuoteLine reports whether line is quoted with ">".
func IsQuoteLine(line string) bool {
	return strings.HasPrefix(strings.TrimLeftFunc(line, unicode.IsSpace), ">")
}

// IsQuoteHeaderStart reports whether lines[i] opens a quote header.
func IsQuoteHeaderStart(lines []string, i int) bool {
	return matchQuoteHeader(lines, i) != nil
}

func matchQuoteHeader(lines []string, i int) *Rule {
	window := headerWindow(lines, i)
	if len(window) == 0 {
		return nil
	}
	for k := range Rules {
		if Rules[k].Match(window) {
			return &Rules[k]
		}
	}
	return nil
}

const maxSpan = 6

// headerWindow returns the trimmed non-blank lines starting at i.
func headerWindow(lines []string, i int) []string {
	var window []string
	for j := i; j >= 0 && j < len(lines) && len(window) < maxSpan; j++ {
		line := strings.TrimSpace(lines[j])
		if line == "" {
			break
		}
		window = append(window, line)
	}
	return window
}

// IsSignatureStart reports whether line is the RFC 3676 signature
// delimiter "-- ", or the "--- " variant some clients write. line must not
// be trimmed.
func IsSignatureStart(line string) bool {
	return line == "-- " || line == "--- "
}

// IsEmpty reports whether line holds only whitespace.
func IsEmpty(line string) bool {
	return strings.TrimSpace(line) == ""
}

var separatorLine = regexp.MustCompile(`^\s*(?:-{5,}|_{5,})\s*$`)

// IsSeparatorLine reports whether line is a horizontal rule of dashes or
// underscores, as clients draw between a reply and the quoted header.
func IsSeparatorLine(line string) bool {
	return separatorLine.MatchString(line)
}
