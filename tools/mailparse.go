package tools

import (
	"encoding/base64"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/emersion/go-message/mail"
)

// Bodies is the content of a MIME message, with headers decoded.
type Bodies struct {
	Subject string
	Date    time.Time
	From    []*mail.Address
	To      []*mail.Address

	Plain string
	HTML  string
	// Images maps the Content-ID of inline parts to data URIs.
	Images      map[string]string
	Attachments []Attachment
}

var contentIDPattern = regexp.MustCompile(`[^<>\s]+`)

// ExtractBodies reads a message and collects its text/plain and text/html
// parts, inline images and attachments. Parts of the same type are
// concatenated in message order.
func ExtractBodies(r io.Reader) (*Bodies, error) {
	mr, err := mail.CreateReader(r)
	if err != nil {
		return nil, fmt.Errorf("read message: %w", err)
	}

	dec := GetDecoder()
	b := &Bodies{Images: make(map[string]string)}

	b.Date, _ = mr.Header.Date()
	b.From = decodeAddresses(mr.Header, "From")
	b.To = decodeAddresses(mr.Header, "To")
	if subject, err := mr.Header.Subject(); err == nil {
		b.Subject = decodeHeader(dec, subject)
	} else {
		b.Subject = decodeHeader(dec, mr.Header.Get("Subject"))
	}

	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("read part: %w", err)
		}

		switch h := p.Header.(type) {
		case *mail.InlineHeader:
			content, err := io.ReadAll(p.Body)
			if err != nil {
				return nil, fmt.Errorf("read inline part: %w", err)
			}
			ct, params, _ := h.ContentType()
			if cid := contentIDPattern.FindString(h.Get("Content-ID")); cid != "" && h.Get("Content-Disposition") != "" {
				b.Images[cid] = "data:" + ct + ";base64," + base64.StdEncoding.EncodeToString(content)
				continue
			}
			// Parts without a charset parameter are sniffed; go-message already
			// converted the others.
			text := string(content)
			if params["charset"] == "" {
				text = DecodeBody(content, h.Get("Content-Type"))
			}
			switch ct {
			case "text/plain":
				b.Plain += text
			case "text/html":
				b.HTML += text
			}
		case *mail.AttachmentHeader:
			filename, _ := h.Filename()
			content, err := io.ReadAll(p.Body)
			if err != nil {
				return nil, fmt.Errorf("read attachment %q: %w", filename, err)
			}
			b.Attachments = append(b.Attachments, Attachment{
				Filename: safeFilename(filename),
				Content:  content,
			})
		}
	}
	return b, nil
}

// safeFilename strips directories so an attachment can't be written outside
// its folder.
func safeFilename(name string) string {
	name = path.Base("/" + strings.ReplaceAll(name, "\\", "/"))
	if name == "/" || name == "." || name == ".." {
		return "attachment"
	}
	return name
}

func decodeAddresses(h mail.Header, key string) []*mail.Address {
	list, err := h.AddressList(key)
	if err != nil {
		return nil
	}
	dec := GetDecoder()
	for _, addr := range list {
		addr.Name = decodeHeader(dec, addr.Name)
	}
	return list
}
