package tools

import (
	"log"
	"strings"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"

	"mailreply/reply"
)

// FilterContent 只保留最新回复. 纯文本正文优先, 为空时从 html 提取文本.
// 解析器出错时返回原正文.
func FilterContent(htmlBody, plain string) (text string) {
	src, fromHTML := plain, false
	if src == "" {
		src, fromHTML = HTMLToText(htmlBody), true
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("reply parser failed, returning body unfiltered: %v", r)
			text = strings.TrimSpace(src)
		}
	}()

	text = reply.ParseReply(src)
	if fromHTML {
		text = normalizeSpaces(text)
	}
	return strings.TrimSpace(text)
}

// normalizeSpaces maps non-breaking spaces to plain spaces.
func normalizeSpaces(s string) string {
	t := runes.Map(func(r rune) rune {
		if r == '\u00a0' {
			return ' '
		}
		return r
	})
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
