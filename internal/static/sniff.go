package static

import "bytes"

// Signature 将正文前缀与 MIME 类型绑定，Offset 支持魔数不在开头的格式。
type Signature struct {
	Prefix []byte
	Offset int
	MIME   string
}

// Sniffer 维护一张可扩展的签名表，对无法通过扩展名识别的内容做保守探测。
type Sniffer struct {
	signatures []Signature
}

// DefaultSniffer 返回内置常见图片签名的探测器。
func DefaultSniffer() *Sniffer {
	return &Sniffer{signatures: []Signature{
		{Prefix: []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}, MIME: "image/png"},
		{Prefix: []byte("GIF87a"), MIME: "image/gif"},
		{Prefix: []byte("GIF89a"), MIME: "image/gif"},
		{Prefix: []byte{0xff, 0xd8, 0xff}, MIME: "image/jpeg"},
		{Prefix: []byte("BM"), MIME: "image/bmp"},
		{Prefix: []byte("WEBP"), Offset: 8, MIME: "image/webp"},
	}}
}

// Register 追加自定义签名，后注册的签名优先级最低。
func (s *Sniffer) Register(sig Signature) {
	s.signatures = append(s.signatures, sig)
}

// Sniff 对正文前缀做签名匹配，命中返回更具体的 MIME 类型。
// 纯函数语义：不修改输入，也不持有输入的引用。
func (s *Sniffer) Sniff(body []byte) (string, bool) {
	for _, sig := range s.signatures {
		end := sig.Offset + len(sig.Prefix)
		if len(body) < end {
			continue
		}
		if bytes.Equal(body[sig.Offset:end], sig.Prefix) {
			return sig.MIME, true
		}
	}
	return "", false
}
