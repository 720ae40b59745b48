package lineio

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// DecodeUTF8 interprets the line bytes as UTF-8. Invalid input reports
// false, causing the line to be dropped rather than surfaced mangled.
func DecodeUTF8(p []byte) (string, bool) {
	if !utf8.Valid(p) {
		return "", false
	}
	return string(p), true
}

// DecodeSystem converts legacy single-byte system-codepage output to
// Unicode, falling back to UTF-8 when the conversion yields nothing. It is
// used on Windows, where console tools routinely emit the ANSI codepage
// rather than UTF-8.
func DecodeSystem(p []byte) (string, bool) {
	if out, err := charmap.Windows1252.NewDecoder().Bytes(p); err == nil && len(out) > 0 {
		return string(out), true
	}
	return DecodeUTF8(p)
}
