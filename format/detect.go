package format

import (
	"bytes"
	"fmt"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16BE = []byte{0xFE, 0xFF}
	bomUTF16LE = []byte{0xFF, 0xFE}

	charsetRule = []byte(`@charset "`)
)

// decode converts stylesheet to UTF-8 and returns name of the source
// encoding. Byte order mark takes precedence over @charset rule, stylesheet
// with neither is assumed to be UTF-8. @charset rule naming encoding other
// than UTF-8 is removed from the result. Unknown charset is reported as
// error together with undecoded text, so caller may decide to continue.
func decode(data []byte) (string, string, error) {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return string(data[len(bomUTF8):]), "utf-8", nil
	case bytes.HasPrefix(data, bomUTF16BE):
		return transcode(unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM), data, "utf-16be")
	case bytes.HasPrefix(data, bomUTF16LE):
		return transcode(unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM), data, "utf-16le")
	}

	label, rest, ok := charsetLabel(data)
	if !ok {
		return string(data), "utf-8", nil
	}
	enc, name := charset.Lookup(label)
	if enc == nil {
		return string(data), "", fmt.Errorf("unknown stylesheet charset %q", label)
	}
	if name == "utf-8" {
		return string(data), name, nil
	}
	return transcode(enc, rest, name)
}

func transcode(enc encoding.Encoding, data []byte, name string) (string, string, error) {
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", name, fmt.Errorf("unable to decode stylesheet from %s: %w", name, err)
	}
	return string(out), name, nil
}

// charsetLabel extracts encoding label from leading @charset rule and returns
// the rest of the stylesheet after the rule.
func charsetLabel(data []byte) (string, []byte, bool) {
	if !bytes.HasPrefix(data, charsetRule) {
		return "", nil, false
	}
	tail := data[len(charsetRule):]
	end := bytes.Index(tail, []byte(`";`))
	if end < 0 {
		return "", nil, false
	}
	return string(tail[:end]), bytes.TrimLeft(tail[end+2:], "\r\n"), true
}
