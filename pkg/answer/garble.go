package answer

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Character class tallies for one line of extracted text.
type charCounts struct {
	cjk         int
	latin       int
	latin1      int // Latin-1 supplement block, the usual mojibake residue
	digit       int
	punct       int
	replacement int
}

// separators that, when repeated, indicate a decode gone wrong rather
// than prose.
const separatorRunChars = ",，.。、;；:：-_—*~·|/\\"

const minGarbleLength = 6

// IsGarbled heuristically flags a line as likely encoding corruption.
// It is a pure classifier over character classes; short lines are
// never flagged.
func IsGarbled(line string) bool {
	total := utf8.RuneCountInString(line)
	if total < minGarbleLength {
		return false
	}

	var c charCounts
	for _, r := range line {
		switch {
		case r == utf8.RuneError:
			c.replacement++
		case unicode.Is(unicode.Han, r) || unicode.Is(unicode.Hiragana, r) || unicode.Is(unicode.Katakana, r):
			c.cjk++
		case r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z':
			c.latin++
		case r >= 0x00A0 && r <= 0x00FF:
			c.latin1++
		case unicode.IsDigit(r):
			c.digit++
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			c.punct++
		}
	}

	alnum := c.cjk + c.latin + c.digit

	if c.cjk == 0 && float64(c.latin1) > 0.70*float64(total) {
		return true
	}
	if float64(c.replacement) > 0.05*float64(total) {
		return true
	}
	if alnum <= 6 && float64(c.punct) > 0.45*float64(total) {
		return true
	}
	if float64(c.punct) > 1.2*float64(alnum) && c.punct >= 6 {
		return true
	}
	if hasSeparatorRun(line, 4) {
		return true
	}
	return false
}

func hasSeparatorRun(line string, n int) bool {
	run := 0
	for _, r := range line {
		if strings.ContainsRune(separatorRunChars, r) {
			run++
			if run >= n {
				return true
			}
		} else {
			run = 0
		}
	}
	return false
}
