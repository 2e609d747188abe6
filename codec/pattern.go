package codec

import "strings"

// zonePatterns are the two-character codes ('!' plus a selector) standing in
// for frequent 4-character fragments of the embedded domain lists. They must
// expand before any single-character code: the selector characters double as
// single-character codes and would otherwise corrupt the expansion.
var zonePatterns = map[string]string{
	"!A": "porn", "!B": "film", "!C": "lord", "!D": "kino", "!E": "oker", "!F": "trad",
	"!G": "line", "!H": "game", "!I": "pdom", "!J": "tion", "!K": ".com", "!L": "leon",
	"!M": "port", "!N": "shop", "!O": "club", "!P": "prav", "!Q": "vest", "!R": "inco",
	"!S": "mark", "!T": "ital", "!U": "slot", "!V": "play", "!W": "eria", "!X": "russ",
	"!Y": "vide", "!Z": "tube", "!@": "medi", "!#": "ster", "!$": "star", "!%": "nter",
	"!^": "scho", "!&": "free", "!*": "enta", "!(": "best", "!)": "mega", "!=": "gama",
	"!+": "prof", "!/": "oney", "!,": "rypt", "!<": "kra3", "!>": "stor", "!~": "ture",
	"![": "tech", "!]": "ance", "!{": "coin", "!}": "seed", "!`": "anim", "!:": "stro",
	"!;": "ment", "!?": "site",
}

// charPatterns are the single-character codes for common digraphs.
var charPatterns = map[byte]string{
	'A': "in", 'B': "an", 'C': "er", 'D': "ar", 'E': "or",
	'F': "et", 'G': "al", 'H': "st", 'I': "on", 'J': "en", 'K': "at", 'L': "ro", 'M': "es",
	'N': "as", 'O': "el", 'P': "it", 'Q': "ch", 'R': "am", 'S': "ol", 'T': "om", 'U': "ra",
	'V': "ex", 'W': "is", 'X': "ic", 'Y': "re", 'Z': "os", '@': "ka", '#': "ot", '$': "us",
	'%': "ap", '^': "ov", '&': "im", '*': "-s", '(': "ad", ')': "il", '=': "op", '+': "ed",
	'/': "em", ',': "a-", '<': "od", '>': "ir", '~': "id", '[': "ob", ']': "ag", '{': "ig",
	'}': "ip", '`': "ok", ':': "e-", ';': "ec", '?': "un",
}

// ExpandPatterns rewrites LZP-decoded text into readable form in a single
// left-to-right pass, matching the longest code at each position. The
// expansions themselves contain no code characters, so one pass produces the
// same result as applying every two-character code and then every
// single-character code over the whole string.
func ExpandPatterns(s string) string {
	var b strings.Builder
	b.Grow(len(s) * 2)
	for i := 0; i < len(s); {
		if s[i] == '!' && i+1 < len(s) {
			if exp, ok := zonePatterns[s[i:i+2]]; ok {
				b.WriteString(exp)
				i += 2
				continue
			}
		}
		if exp, ok := charPatterns[s[i]]; ok {
			b.WriteString(exp)
		} else {
			b.WriteByte(s[i])
		}
		i++
	}
	return b.String()
}
