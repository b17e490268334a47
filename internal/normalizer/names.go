package normalizer

import (
	"regexp"
	"strings"
)

var (
	trailingCodePattern = regexp.MustCompile(`-\s*[a-z0-9]+$`)
	parenPattern        = regexp.MustCompile(`\([^)]+\)`)
	nonAlnumPattern     = regexp.MustCompile(`[^a-z0-9\s]`)
	spacePattern        = regexp.MustCompile(`\s+`)
)

// collapse thay ký tự không phải chữ/số bằng khoảng trắng và gộp khoảng trắng
func collapse(s string) string {
	s = nonAlnumPattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(spacePattern.ReplaceAllString(s, " "))
}

// CleanName làm sạch tên đơn vị hành chính trong dữ liệu tham chiếu.
// Không áp dụng alias hay luật đánh số dành cho input người dùng.
func (n *TextNormalizer) CleanName(name string) string {
	s := strings.TrimSpace(FoldASCII(name))
	s = trailingCodePattern.ReplaceAllString(s, "")
	s = parenPattern.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	for _, prefix := range n.vocab.CleanPrefixes {
		if strings.HasPrefix(s, prefix+" ") {
			s = s[len(prefix)+1:]
			break
		}
	}
	return collapse(s)
}

// CoreName thu gọn tên về tên lõi nếu chứa một địa danh nhiều từ dễ trùng lặp
func (n *TextNormalizer) CoreName(name string) string {
	clean := n.CleanName(name)
	for _, core := range n.vocab.CoreNames {
		if ContainsPhrase(clean, core) {
			return core
		}
	}
	return clean
}
