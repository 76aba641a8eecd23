package static

import "testing"

func TestSnifferBuiltinSignatures(t *testing.T) {
	sniffer := DefaultSniffer()

	cases := []struct {
		name string
		body []byte
		want string
	}{
		{"png", []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0x00}, "image/png"},
		{"gif87a", []byte("GIF87a......"), "image/gif"},
		{"gif89a", []byte("GIF89a......"), "image/gif"},
		{"jpeg", []byte{0xff, 0xd8, 0xff, 0xe0}, "image/jpeg"},
		{"bmp", []byte("BM6data"), "image/bmp"},
		{"webp", []byte("RIFF\x00\x00\x00\x00WEBPVP8 "), "image/webp"},
	}
	for _, tc := range cases {
		got, ok := sniffer.Sniff(tc.body)
		if !ok || got != tc.want {
			t.Fatalf("%s: Sniff = (%q, %v), want %q", tc.name, got, ok, tc.want)
		}
	}
}

func TestSnifferRejectsUnknownAndShortBodies(t *testing.T) {
	sniffer := DefaultSniffer()

	if got, ok := sniffer.Sniff([]byte("plain text content")); ok {
		t.Fatalf("unexpected match: %q", got)
	}
	// Shorter than every signature window, including the webp offset.
	if _, ok := sniffer.Sniff([]byte{0x89, 'P'}); ok {
		t.Fatalf("truncated prefix must not match")
	}
	if _, ok := sniffer.Sniff(nil); ok {
		t.Fatalf("empty body must not match")
	}
}

func TestSnifferRegisterExtendsTable(t *testing.T) {
	sniffer := DefaultSniffer()
	sniffer.Register(Signature{Prefix: []byte("%PDF-"), MIME: "application/pdf"})

	got, ok := sniffer.Sniff([]byte("%PDF-1.7 ..."))
	if !ok || got != "application/pdf" {
		t.Fatalf("registered signature must match, got (%q, %v)", got, ok)
	}
}
