package reply

import (
	"regexp"
	"sort"
	"strings"
)

// locale describes how one language writes the attribution line a mail
// client puts above a quoted message.
type locale struct {
	// name is the name of the Rule built from the locale.
	name string
	// lead introduces the date ("On Thu, Dec 13 ..."). When leadOptional is
	// set the date may open the line on its own.
	lead         string
	leadOptional bool
	// verb is the word that makes the line an attribution. With verbLast the
	// verb closes the line after the sender ("... Name wrote:"), otherwise it
	// follows the date directly ("... 2012 15:12, skrev Name:").
	verb     string
	verbLast bool
	weekdays []string
	months   []string
}

var locales = []locale{
	{
		name:     "on-wrote",
		lead:     "on",
		verb:     "wrote",
		verbLast: true,
		weekdays: []string{
			"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
			"mon", "tue", "tues", "wed", "thu", "thur", "thurs", "fri", "sat", "sun",
		},
		months: []string{
			"january", "february", "march", "april", "may", "june", "july",
			"august", "september", "october", "november", "december",
			"jan", "feb", "mar", "apr", "jun", "jul", "aug", "sep", "sept", "oct", "nov", "dec",
		},
	},
	{
		name:         "den-skrev",
		lead:         "den",
		leadOptional: true,
		verb:         "skrev",
		weekdays: []string{
			"mandag", "tirsdag", "onsdag", "torsdag", "fredag", "lørdag", "søndag",
			"man", "tir", "tirs", "ons", "tor", "tors", "fre", "lør", "søn",
		},
		months: []string{
			"januar", "februar", "mars", "april", "mai", "juni", "juli",
			"august", "september", "oktober", "november", "desember",
			"jan", "feb", "mar", "apr", "jun", "jul", "aug", "sep", "sept", "okt", "nov", "des",
		},
	},
}

const (
	clockPattern   = `\d{1,2}[:.]\d{2}(?:[:.]\d{2})?(?:\s*[ap]\.?m\.?)?`
	numericPattern = `\d{4}-\d{1,2}-\d{1,2}|\d{4}/\d{1,2}/\d{1,2}|\d{1,2}/\d{1,2}/\d{2,4}`
)

// pattern assembles the attribution grammar for the locale:
//
//	[dashes] lead [weekday] [time] date [year] [time] verb
//
// Month and weekday names are always followed by punctuation or a space
// rather than \b, which does not see non-ASCII letters such as "ø".
func (l locale) pattern() string {
	weekday := `(?:` + alternation(l.weekdays) + `)\.?,?\s+`
	month := `(?:` + alternation(l.months) + `)`
	date := `(?:` +
		month + `\.?,?\s+\d{1,2}(?:st|nd|rd|th)?` + `|` +
		`\d{1,2}\.?\s*` + month + `\.?` + `|` +
		numericPattern + `)`
	year := `(?:,?\s+\d{4})?`
	clock := `(?:,?\s+(?:at\s+|kl\.?\s*)?` + clockPattern + `)?`

	lead := regexp.QuoteMeta(l.lead) + `\s+`
	if l.leadOptional {
		lead = `(?:` + lead + `)?`
	}

	var verb string
	if l.verbLast {
		verb = `.*\b` + regexp.QuoteMeta(l.verb) + `:?\s*$`
	} else {
		verb = `,?\s+` + regexp.QuoteMeta(l.verb) + `(?:\s|:|$)`
	}

	return `(?i)^\s*(?:-+\s*)?` + lead +
		`(?:` + weekday + `)?` +
		`(?:` + clockPattern + `\s+)?` +
		date + year + clock + verb
}

// alternation joins words longest first so that "mars" is preferred over
// "mar" when both could match.
func alternation(words []string) string {
	seen := make(map[string]bool, len(words))
	var out []string
	for _, w := range words {
		w = strings.ToLower(w)
		if seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, regexp.QuoteMeta(w))
	}
	sort.SliceStable(out, func(i, j int) bool { return len(out[i]) > len(out[j]) })
	return strings.Join(out, "|")
}
