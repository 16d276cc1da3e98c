package tools

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// HTMLToText returns the text of the document body. Markup is dropped, <br>
// becomes "\n" and paragraphs and headings end with "\n\n". Text nodes are
// kept verbatim, so entities such as &nbsp; come through as U+00A0.
// Blockquote lines are prefixed with "> ", one level per nested quote, so
// text below a quoted message stays apart from it.
func HTMLToText(src string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		return src
	}
	var sb strings.Builder
	for _, n := range doc.Find("body").Nodes {
		writeText(&sb, n)
	}
	return sb.String()
}

func writeText(sb *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(n.Data)
		return
	case html.CommentNode:
		return
	case html.ElementNode:
		switch n.Data {
		case "script", "style", "head", "title":
			return
		case "blockquote":
			var inner strings.Builder
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				writeText(&inner, c)
			}
			writeQuoted(sb, inner.String())
			return
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(sb, c)
	}

	if n.Type != html.ElementNode {
		return
	}
	switch n.Data {
	case "br":
		sb.WriteByte('\n')
	case "p", "h1", "h2", "h3", "h4", "h5", "h6":
		sb.WriteString("\n\n")
	}
}

// writeQuoted writes text on lines of its own, each prefixed with "> ".
func writeQuoted(sb *strings.Builder, text string) {
	if out := sb.String(); out != "" && !strings.HasSuffix(out, "\n") {
		sb.WriteByte('\n')
	}
	for _, line := range strings.Split(strings.TrimSuffix(text, "\n"), "\n") {
		sb.WriteString("> ")
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
}

// EmbedInlineImages 把 <img src="cid:xxx"> 替换成 base64 data URI
func EmbedInlineImages(src string, images map[string]string) string {
	if len(images) == 0 {
		return src
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		return src
	}
	doc.Find("img").Each(func(i int, s *goquery.Selection) {
		v, _ := s.Attr("src")
		if !strings.HasPrefix(strings.ToLower(v), "cid:") {
			return
		}
		if data, ok := images[v[len("cid:"):]]; ok {
			s.SetAttr("src", data)
		}
	})
	out, err := doc.Html()
	if err != nil {
		return src
	}
	return out
}
