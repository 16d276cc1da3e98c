package tools

import (
	"fmt"
	"log"
	"strings"

	"mailreply/reply"
)

// Parse 解析正文, 返回可见文本, 隐藏文本和所有片段
func (r *Reply) Parse(args ParseArgs, resp *ParseResult) error {
	if err := r.cfg.checkSize(len(args.Body)); err != nil {
		log.Printf("parse rejected: %v", err)
		return err
	}
	e := reply.Parse(args.Body)
	res := ParseResult{
		Visible: e.VisibleText(),
		Hidden:  e.HiddenText(),
	}
	for _, f := range e.Fragments() {
		res.Fragments = append(res.Fragments, FragmentItem{
			Content:   f.Content(),
			Quoted:    f.Quoted(),
			Signature: f.Signature(),
			Hidden:    f.Hidden(),
		})
	}
	*resp = res
	return nil
}

// FilterContent 过滤正文, 只保留最新回复
func (r *Reply) FilterContent(args ContentArgs, resp *string) error {
	if err := r.cfg.checkSize(len(args.HTML) + len(args.Plain)); err != nil {
		log.Printf("filter content rejected: %v", err)
		return err
	}
	*resp = FilterContent(args.HTML, args.Plain)
	return nil
}

// FilterSubject 去掉主题里的 Re:/Fwd:/Sv: 等前缀
func (r *Reply) FilterSubject(subject string, resp *string) error {
	*resp = reply.FilterSubject(subject)
	return nil
}

// FilterMessage 解析完整邮件, Body 只保留最新回复
func (r *Reply) FilterMessage(args MessageArgs, resp *MailItem) error {
	if err := r.cfg.checkSize(len(args.Raw)); err != nil {
		log.Printf("filter message rejected: %v", err)
		return err
	}
	b, err := ExtractBodies(strings.NewReader(args.Raw))
	if err != nil {
		return fmt.Errorf("filter message: %w", err)
	}
	*resp = *newMailItem(b)
	return nil
}

// newMailItem 把解析后的邮件转成 MailItem
func newMailItem(b *Bodies) *MailItem {
	item := &MailItem{
		Subject:     reply.FilterSubject(b.Subject),
		From:        b.From,
		To:          b.To,
		Date:        b.Date,
		Body:        FilterContent(b.HTML, b.Plain),
		RawBody:     b.Plain,
		HTMLBody:    EmbedInlineImages(b.HTML, b.Images),
		Attachments: len(b.Attachments),
	}
	if item.RawBody == "" {
		item.RawBody = HTMLToText(b.HTML)
	}
	return item
}
