// Package codec implements the two fixed substitution tables wrapped around
// the LZP payload: the transport alphabet protecting the control mask, and
// the pattern table compacting common domain fragments.
package codec

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// ErrMaskTransport reports a control mask that could not be decoded from its
// text-safe transport form. Callers get an empty mask and should treat the
// whole session as unrecoverable, but the failure itself is a value.
var ErrMaskTransport = errors.New("mask transport decode failed")

// maskAlphabet maps the 2-character base64 fragments to the punctuation
// symbols substituted for them in transport. The encoded artifact carries the
// symbols; decoding runs symbol -> fragment before base64.
var maskAlphabet = [...]struct {
	code   string
	symbol byte
}{
	{"AA", '!'}, {"gA", '@'}, {"AB", '#'}, {"AQ", '$'},
	{"AE", '%'}, {"AC", '^'}, {"AI", '*'}, {"Ag", '('},
	{"AD", ')'}, {"Aw", '['}, {"AM", ']'}, {"Bg", '-'},
	{"CA", ','}, {"IA", '.'}, {"BA", '?'},
}

// expandMaskAlphabet substitutes every transport symbol with its base64
// fragment, leaving all other characters untouched.
func expandMaskAlphabet(s string) string {
	var b strings.Builder
	b.Grow(len(s) * 2)
	for i := 0; i < len(s); i++ {
		c := s[i]
		code := ""
		for _, e := range maskAlphabet {
			if e.symbol == c {
				code = e.code
				break
			}
		}
		if code != "" {
			b.WriteString(code)
		} else {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// foldMaskAlphabet is the inverse direction: base64 fragments back to
// transport symbols, left to right, longest-known fragment at each position.
func foldMaskAlphabet(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		replaced := false
		if i+2 <= len(s) {
			for _, e := range maskAlphabet {
				if s[i:i+2] == e.code {
					b.WriteByte(e.symbol)
					i += 2
					replaced = true
					break
				}
			}
		}
		if !replaced {
			b.WriteByte(s[i])
			i++
		}
	}
	return b.String()
}

// DecodeMask turns the transport-encoded control mask into raw mask bytes:
// symbol substitution, padding to a 4-character base64 boundary, then a
// standard base64 decode. Missing padding is expected in the artifact and is
// tolerated; anything else invalid yields ErrMaskTransport with empty output.
func DecodeMask(encoded string) ([]byte, error) {
	processed := expandMaskAlphabet(encoded)
	if n := len(processed) % 4; n != 0 {
		processed += strings.Repeat("=", 4-n)
	}
	raw, err := base64.StdEncoding.DecodeString(processed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMaskTransport, err)
	}
	return raw, nil
}

// EncodeMask re-encodes raw mask bytes into transport form. The decompiler
// only decodes; this direction exists to verify recovered masks round-trip.
func EncodeMask(raw []byte) string {
	return foldMaskAlphabet(base64.StdEncoding.WithPadding(base64.NoPadding).EncodeToString(raw))
}
