package tools

import (
	"time"

	"github.com/emersion/go-message/mail"
)

// Imap imap结构体 供远程调用
type Imap struct {
	cfg *Config
}

// NewImap 创建 Imap 服务
func NewImap(cfg *Config) *Imap {
	return &Imap{cfg: cfg}
}

// Reply 回复解析 供远程调用
type Reply struct {
	cfg *Config
}

// NewReply 创建 Reply 服务
func NewReply(cfg *Config) *Reply {
	return &Reply{cfg: cfg}
}

// MailServer 邮件服务
type MailServer struct {
	Server, Email, Password string
}

// GetMessagesType 邮件列表参数
type GetMessagesType struct {
	Server MailServer
	Folder string
	Page   int
	Limit  int
}

// GetMessageType 邮件详情参数
type GetMessageType struct {
	Server MailServer
	Folder string
	UID    uint32
}

// MailFlagtype 邮件 flag
type MailFlagtype struct {
	UID   uint32
	Flags []string
}

// MailItem 邮件. Body 只包含最新回复, RawBody 是原始纯文本正文.
type MailItem struct {
	Subject     string
	Fid         string
	ID          uint32
	UID         uint32
	From        []*mail.Address
	To          []*mail.Address
	Body        string
	RawBody     string
	HTMLBody    string
	Date        time.Time
	Flags       []string
	Attachments int
}

// Attachment .
type Attachment struct {
	Filename string
	Content  []byte
}

// ParseArgs Reply.Parse 参数
type ParseArgs struct {
	Body string
}

// FragmentItem 正文片段
type FragmentItem struct {
	Content   string
	Quoted    bool
	Signature bool
	Hidden    bool
}

// ParseResult Reply.Parse 结果
type ParseResult struct {
	Visible   string
	Hidden    string
	Fragments []FragmentItem
}

// ContentArgs Reply.FilterContent 参数
type ContentArgs struct {
	HTML  string
	Plain string
}

// MessageArgs Reply.FilterMessage 参数, Raw 是完整的 RFC 5322 邮件
type MessageArgs struct {
	Raw string
}
