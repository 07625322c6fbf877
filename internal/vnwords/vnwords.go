// Package vnwords transcribes numeric amounts into Vietnamese words. The
// output is echoed verbatim onto the legal invoice document, so the elision
// rules (mười/mươi, lăm, mốt, linh) must hold exactly.
package vnwords

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var digitWords = [10]string{
	"không", "một", "hai", "ba", "bốn", "năm", "sáu", "bảy", "tám", "chín",
}

var scaleWords = [5]string{"", "nghìn", "triệu", "tỷ", "nghìn tỷ"}

// Currency renders an amount as capitalized Vietnamese words with the
// currency suffix, e.g. "Một trăm linh năm đồng".
func Currency(amount string) (string, error) {
	words, err := Convert(amount)
	if err != nil {
		return "", err
	}
	return capitalize(words) + " đồng", nil
}

// Convert renders a non-negative decimal amount as lowercase Vietnamese
// words. Thousands separators (commas) are stripped; a nonzero fractional
// part is read digit by digit after "phẩy".
func Convert(amount string) (string, error) {
	s := strings.ReplaceAll(strings.TrimSpace(amount), ",", "")
	if s == "" {
		return "", fmt.Errorf("empty amount")
	}

	intPart := s
	fracPart := ""
	if i := strings.Index(s, "."); i >= 0 {
		intPart, fracPart = s[:i], s[i+1:]
	}

	n, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil || n < 0 {
		return "", fmt.Errorf("amount %q is not a non-negative number", amount)
	}

	var words string
	if n == 0 {
		words = "không"
	} else {
		var parts []string
		for scale := 0; n > 0; scale++ {
			if scale >= len(scaleWords) {
				return "", fmt.Errorf("amount %q exceeds the supported scale", amount)
			}
			chunk := int(n % 1000)
			if chunk > 0 {
				part := readChunk(chunk)
				if scaleWords[scale] != "" {
					part += " " + scaleWords[scale]
				}
				parts = append([]string{part}, parts...)
			}
			n /= 1000
		}
		words = strings.Join(parts, " ")
	}

	if fracPart != "" && fracPart != "0" {
		words += " phẩy"
		for _, r := range fracPart {
			if r < '0' || r > '9' {
				return "", fmt.Errorf("amount %q is not a number", amount)
			}
			words += " " + digitWords[r-'0']
		}
	}

	return words, nil
}

// readChunk reads a 1..999 value, applying the elision rules: "mười" for a
// bare ten, "mươi" otherwise, "mốt" and "lăm" as unit digits under a nonzero
// tens digit, and "linh" between a hundreds digit and a lone unit digit.
func readChunk(n int) string {
	hundreds := n / 100
	tens := (n % 100) / 10
	ones := n % 10

	var b strings.Builder
	if hundreds > 0 {
		b.WriteString(digitWords[hundreds] + " trăm")
	}

	if tens > 0 {
		if tens == 1 {
			b.WriteString(" mười")
		} else {
			b.WriteString(" " + digitWords[tens] + " mươi")
		}
	} else if hundreds > 0 && ones > 0 {
		b.WriteString(" linh")
	}

	if ones > 0 {
		switch {
		case ones == 1 && tens > 1:
			b.WriteString(" mốt")
		case ones == 5 && tens >= 1:
			b.WriteString(" lăm")
		default:
			b.WriteString(" " + digitWords[ones])
		}
	}

	return strings.TrimSpace(b.String())
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
