package tools

import (
	"errors"
	"fmt"
	"log"
	"mime"
	"net"
	"os"
	"path/filepath"
	"strconv"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/emersion/go-message/mail"

	"mailreply/reply"
)

const defaultPageSize = 20

// CheckEmailPassword 验证邮箱密码
func (i *Imap) CheckEmailPassword(param map[string]string, reply *bool) error {
	*reply = false
	if _, _, err := splitServer(param["server"]); err != nil {
		return nil
	}
	c, err := connect(param["server"], param["email"], param["password"])
	if err != nil {
		log.Println(err)
		return nil
	}
	defer c.Logout()
	*reply = true
	return nil
}

// splitServer 解析 host:port, 只支持 993 (TLS) 和 143
func splitServer(server string) (string, int, error) {
	host, p, err := net.SplitHostPort(server)
	if err != nil {
		return "", 0, fmt.Errorf("server %q: %w", server, err)
	}
	port, err := strconv.Atoi(p)
	if err != nil || (port != 993 && port != 143) {
		return "", 0, fmt.Errorf("server %q: unsupported port %q", server, p)
	}
	return host, port, nil
}

// connect 获取连接并登陆
func connect(server string, email string, password string) (*client.Client, error) {
	host, port, err := splitServer(server)
	if err != nil {
		return nil, err
	}
	addr := net.JoinHostPort(host, strconv.Itoa(port))

	var c *client.Client
	if port == 993 {
		c, err = client.DialTLS(addr, nil)
	} else {
		c, err = client.Dial(addr)
	}
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}

	if err := c.Login(email, password); err != nil {
		c.Logout()
		return nil, fmt.Errorf("login %s: %w", email, err)
	}
	return c, nil
}

// GetFolders 获取邮件夹和邮件数
func (i *Imap) GetFolders(param MailServer, reply *map[string]int) error {
	c, err := connect(param.Server, param.Email, param.Password)
	if err != nil {
		return err
	}
	defer c.Logout()

	mailboxes := make(chan *imap.MailboxInfo, 10)
	done := make(chan error, 1)
	go func() {
		done <- c.List("", "*", mailboxes)
	}()
	folders := make(map[string]int)
	for m := range mailboxes {
		folders[m.Name] = 0
	}
	if err := <-done; err != nil {
		return fmt.Errorf("list folders: %w", err)
	}

	for name := range folders {
		mbox, err := c.Select(name, true)
		if err != nil {
			log.Println(err)
			continue
		}
		folders[name] = int(mbox.Messages)
	}
	*reply = folders
	return nil
}

// GetFolderMail 获取邮件夹邮件
func (i *Imap) GetFolderMail(param GetMessagesType, reply *[]MailItem) error {
	c, err := connect(param.Server.Server, param.Server.Email, param.Server.Password)
	if err != nil {
		return err
	}
	defer c.Logout()

	mbox, err := c.Select(param.Folder, true)
	if err != nil {
		return fmt.Errorf("select %s: %w", param.Folder, err)
	}
	if mbox.Messages == 0 {
		return nil
	}

	seqset := new(imap.SeqSet)
	seqset.AddRange(1, mbox.Messages)
	return fetchEnvelopes(c, seqset, param.Folder, reply)
}

// GetMessagesFlag 获取多个邮件的flag。
func (i *Imap) GetMessagesFlag(param GetMessagesType, reply *[]MailFlagtype) error {
	c, err := connect(param.Server.Server, param.Server.Email, param.Server.Password)
	if err != nil {
		return err
	}
	defer c.Logout()

	mbox, err := c.Select(param.Folder, true)
	if err != nil {
		return fmt.Errorf("select %s: %w", param.Folder, err)
	}
	start, end, ok := pageRange(mbox.Messages, param.Page, param.Limit)
	if !ok {
		return nil
	}

	seqset := new(imap.SeqSet)
	seqset.AddRange(start, end)

	messages := make(chan *imap.Message, 10)
	done := make(chan error, 1)
	items := []imap.FetchItem{imap.FetchFlags, imap.FetchUid}
	go func() {
		done <- c.Fetch(seqset, items, messages)
	}()

	for msg := range messages {
		*reply = append(*reply, MailFlagtype{UID: msg.Uid, Flags: msg.Flags})
	}
	if err := <-done; err != nil {
		return fmt.Errorf("fetch flags: %w", err)
	}
	return nil
}

// pageRange 计算分页的序号范围, 第一页是最新的邮件
func pageRange(total uint32, page, limit int) (start, end uint32, ok bool) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	skip := uint64(page-1) * uint64(limit)
	if uint64(total) <= skip {
		return 0, 0, false
	}
	start = total - uint32(skip)
	if start <= uint32(limit) {
		return start, 1, true
	}
	return start, start - uint32(limit) + 1, true
}

// GetRecent 获取未读邮件
func (i *Imap) GetRecent(param GetMessagesType, reply *[]MailItem) error {
	c, err := connect(param.Server.Server, param.Server.Email, param.Server.Password)
	if err != nil {
		return err
	}
	defer c.Logout()

	if _, err := c.Select(param.Folder, true); err != nil {
		return fmt.Errorf("select %s: %w", param.Folder, err)
	}

	criteria := imap.NewSearchCriteria()
	criteria.WithoutFlags = []string{imap.SeenFlag}
	ids, err := c.Search(criteria)
	if err != nil {
		return fmt.Errorf("search unseen: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}

	seqset := new(imap.SeqSet)
	seqset.AddNum(ids...)
	return fetchEnvelopes(c, seqset, param.Folder, reply)
}

func fetchEnvelopes(c *client.Client, seqset *imap.SeqSet, folder string, reply *[]MailItem) error {
	messages := make(chan *imap.Message, 10)
	done := make(chan error, 1)
	items := []imap.FetchItem{imap.FetchFlags, imap.FetchUid, imap.FetchEnvelope}
	go func() {
		done <- c.Fetch(seqset, items, messages)
	}()

	dec := GetDecoder()
	for msg := range messages {
		*reply = append(*reply, *envelopeItem(dec, msg, folder))
	}
	if err := <-done; err != nil {
		return fmt.Errorf("fetch %s: %w", folder, err)
	}
	return nil
}

// envelopeItem 从 envelope 生成邮件列表项, 不包含正文
func envelopeItem(dec *mime.WordDecoder, msg *imap.Message, folder string) *MailItem {
	item := &MailItem{
		ID:    msg.SeqNum,
		UID:   msg.Uid,
		Fid:   folder,
		Flags: msg.Flags,
	}
	if msg.Envelope == nil {
		return item
	}
	item.Subject = reply.FilterSubject(decodeHeader(dec, msg.Envelope.Subject))
	item.Date = msg.Envelope.Date
	item.From = envelopeAddresses(dec, msg.Envelope.From)
	item.To = envelopeAddresses(dec, msg.Envelope.To)
	return item
}

func envelopeAddresses(dec *mime.WordDecoder, list []*imap.Address) []*mail.Address {
	var out []*mail.Address
	for _, a := range list {
		out = append(out, &mail.Address{
			Name:    decodeHeader(dec, a.PersonalName),
			Address: a.MailboxName + "@" + a.HostName,
		})
	}
	return out
}

// GetMessage 获取邮件详情. Body 只包含最新回复.
func (i *Imap) GetMessage(param GetMessageType, reply *MailItem) error {
	c, err := connect(param.Server.Server, param.Server.Email, param.Server.Password)
	if err != nil {
		return err
	}
	defer c.Logout()

	mbox, err := c.Select(param.Folder, false)
	if err != nil {
		return fmt.Errorf("select %s: %w", param.Folder, err)
	}
	if mbox.Messages == 0 {
		return errors.New("no message in mailbox")
	}

	seqSet := new(imap.SeqSet)
	seqSet.AddNum(param.UID)

	section := &imap.BodySectionName{}
	items := []imap.FetchItem{section.FetchItem(), imap.FetchFlags, imap.FetchUid}

	messages := make(chan *imap.Message, 1)
	done := make(chan error, 1)
	go func() {
		done <- c.UidFetch(seqSet, items, messages)
	}()

	msg := <-messages
	// drain so the fetch goroutine can finish
	for range messages {
	}
	if err := <-done; err != nil {
		return fmt.Errorf("fetch uid %d: %w", param.UID, err)
	}
	if msg == nil {
		return fmt.Errorf("uid %d: server didn't return the message", param.UID)
	}

	r := msg.GetBody(section)
	if r == nil {
		return fmt.Errorf("uid %d: server didn't return the message body", param.UID)
	}
	if err := i.cfg.checkSize(r.Len()); err != nil {
		return fmt.Errorf("uid %d: %w", param.UID, err)
	}

	b, err := ExtractBodies(r)
	if err != nil {
		return fmt.Errorf("uid %d: %w", param.UID, err)
	}
	item := newMailItem(b)
	item.ID = msg.SeqNum
	item.UID = param.UID
	item.Fid = param.Folder
	item.Flags = msg.Flags

	if i.cfg.SaveAttachments {
		if err := i.save(param.UID, item.HTMLBody, b.Attachments); err != nil {
			log.Println(err)
		}
	}

	*reply = *item
	return nil
}

// save 把 html 正文和附件写到 MailPath, 附件保存在以 UID 命名的文件夹里
func (i *Imap) save(uid uint32, html string, attachments []Attachment) error {
	dir := filepath.Join(i.cfg.MailPath, strconv.FormatUint(uint64(uid), 10))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("save uid %d: %w", uid, err)
	}
	if html != "" {
		name := filepath.Join(i.cfg.MailPath, strconv.FormatUint(uint64(uid), 10)+".html")
		if err := os.WriteFile(name, []byte(html), 0o644); err != nil {
			return fmt.Errorf("save uid %d: %w", uid, err)
		}
	}
	for _, a := range attachments {
		if err := os.WriteFile(filepath.Join(dir, a.Filename), a.Content, 0o644); err != nil {
			return fmt.Errorf("save uid %d: %w", uid, err)
		}
	}
	return nil
}
