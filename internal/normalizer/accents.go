package normalizer

import (
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// StripDiacritics loại bỏ dấu tiếng Việt một cách an toàn
func StripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// foldD chuyển đ/Đ thành d/D (NFD không tách được chữ đ)
func foldD(s string) string {
	return strings.NewReplacer("đ", "d", "Đ", "D").Replace(s)
}

// isASCII kiểm tra chuỗi chỉ gồm ký tự ASCII
func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

// FoldASCII bỏ dấu, gộp đ, phiên âm ký tự ngoài ASCII còn sót và chuyển về lowercase
func FoldASCII(s string) string {
	out := foldD(StripDiacritics(s))
	if !isASCII(out) {
		out = unidecode.Unidecode(out)
	}
	return strings.ToLower(out)
}
