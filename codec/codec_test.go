package codec

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestExpandPatternsCleanInput(t *testing.T) {
	// Lowercase text, digits and dots carry no codes and must pass through.
	for _, s := range []string{"", "example0.net", "left.right.org", "a-b-c"} {
		if got := ExpandPatterns(s); got != s {
			t.Fatalf("clean input changed: %q -> %q", s, got)
		}
	}
}

func TestExpandPatternsTwoCharBeforeSingle(t *testing.T) {
	// "!A" is a whole two-character code; expanding 'A' first would leave
	// a stray '!' and the wrong fragment.
	if got := ExpandPatterns("!A"); got != "porn" {
		t.Fatalf("order violated: got %q", got)
	}
	if got := ExpandPatterns("!K"); got != ".com" {
		t.Fatalf("got %q", got)
	}
}

func TestExpandPatternsComposite(t *testing.T) {
	cases := []struct{ in, want string }{
		{"sV", "sex"},
		{"mI", "mon"},
		{"@gw", "kagw"},
		{"Nhc", "ashc"},
		{"!Fe", "trade"},
		{"!Zsite", "tubesite"},
		{"!!A", "!porn"},
		{"!", "!"},
		{"x\x00y", "x\x00y"},
	}
	for _, c := range cases {
		if got := ExpandPatterns(c.in); got != c.want {
			t.Fatalf("ExpandPatterns(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestMaskAlphabetRoundTrip(t *testing.T) {
	for _, e := range maskAlphabet {
		folded := foldMaskAlphabet(e.code)
		if folded != string(e.symbol) {
			t.Fatalf("fold(%q) = %q, want %q", e.code, folded, string(e.symbol))
		}
		if got := expandMaskAlphabet(folded); got != e.code {
			t.Fatalf("expand(fold(%q)) = %q", e.code, got)
		}
	}
}

func TestDecodeMaskRoundTrip(t *testing.T) {
	raw := []byte{0x00, 0x01, 0x7F, 0x80, 0xFF, 0x20, 0x08, 0x3F, 0xC0}
	encoded := EncodeMask(raw)

	got, err := DecodeMask(encoded)
	if err != nil {
		t.Fatalf("DecodeMask: %v", err)
	}
	if !bytes.Equal(got, raw) {
		t.Fatalf("round trip mismatch: %v != %v", got, raw)
	}
}

func TestDecodeMaskToleratesMissingPadding(t *testing.T) {
	// "QQ" is base64 for 0x41 and needs two padding characters.
	got, err := DecodeMask("QQ")
	if err != nil {
		t.Fatalf("DecodeMask: %v", err)
	}
	if !bytes.Equal(got, []byte{0x41}) {
		t.Fatalf("got %v", got)
	}
}

func TestDecodeMaskMalformed(t *testing.T) {
	got, err := DecodeMask("~~~~")
	if !errors.Is(err, ErrMaskTransport) {
		t.Fatalf("expected ErrMaskTransport, got %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("malformed input must yield empty output, got %v", got)
	}
}

func TestEncodeMaskUsesTransportSymbols(t *testing.T) {
	// 0x00 0x00 encodes to base64 "AAA", whose "AA" prefix folds to '!'.
	encoded := EncodeMask([]byte{0x00, 0x00})
	if !strings.HasPrefix(encoded, "!") {
		t.Fatalf("expected transport symbol substitution, got %q", encoded)
	}
}
