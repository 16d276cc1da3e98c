package tools

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"strings"
	"unicode/utf8"

	"github.com/axgle/mahonia"
	"github.com/emersion/go-message"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

func init() {
	message.CharsetReader = CharsetReader
}

// CharsetReader 把 label 编码的 input 转成 utf-8. gb2312/gbk/gb18030 用 mahonia 转换.
func CharsetReader(label string, input io.Reader) (io.Reader, error) {
	label = strings.ToLower(strings.TrimSpace(label))
	switch label {
	case "gb2312", "gbk", "gb18030":
		content, err := io.ReadAll(input)
		if err != nil {
			return nil, err
		}
		utf8str, err := ConvertToStr(string(content), "gbk")
		if err != nil {
			return nil, err
		}
		return strings.NewReader(utf8str), nil
	}
	r, err := charset.NewReaderLabel(label, input)
	if err != nil {
		return nil, fmt.Errorf("unhandled charset %q: %w", label, err)
	}
	return r, nil
}

// GetDecoder 邮件头解码器
func GetDecoder() *mime.WordDecoder {
	dec := new(mime.WordDecoder)
	dec.CharsetReader = CharsetReader
	return dec
}

// decodeHeader 解码邮件头, 失败时返回原文
func decodeHeader(dec *mime.WordDecoder, s string) string {
	d, err := dec.Decode(s)
	if err != nil {
		d, err = dec.DecodeHeader(s)
		if err != nil {
			return s
		}
	}
	return d
}

// ConvertToStr 任意编码转 utf-8
func ConvertToStr(src string, srcCode string) (string, error) {
	d := mahonia.NewDecoder(srcCode)
	if d == nil {
		return "", fmt.Errorf("unknown charset %q", srcCode)
	}
	return d.ConvertString(src), nil
}

// DecodeBody 转换正文编码. 已经是 utf-8 的内容原样返回, 否则按 Content-Type 和 <meta> 判断编码.
func DecodeBody(b []byte, contentType string) string {
	if utf8.Valid(b) {
		return string(b)
	}
	e, _ := DetermineEncoding(b, contentType)
	out, _, err := transform.Bytes(unicode.BOMOverride(e.NewDecoder()), b)
	if err != nil {
		return string(bytes.ToValidUTF8(b, []byte("\uFFFD")))
	}
	return string(out)
}

// DetermineEncoding 判断编码
func DetermineEncoding(b []byte, contentType string) (encoding.Encoding, string) {
	e, name, _ := charset.DetermineEncoding(b, contentType)
	return e, name
}
