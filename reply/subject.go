package reply

import (
	"regexp"
	"strings"
)

// Reply and forward markers in English and Scandinavian clients, including
// the bracketed forms and the dangling "]" some clients leave behind.
var subjectPrefix = regexp.MustCompile(`([\[\(] *)?\b(RE|FWD?|Re|Fwd?|Sv|SV|Vs|VS) *([-:;)\]][ :;\])-]*|$)|\]+ *$`)

// FilterSubject removes every reply and forward marker from subject.
func FilterSubject(subject string) string {
	return strings.TrimSpace(subjectPrefix.ReplaceAllString(subject, ""))
}
