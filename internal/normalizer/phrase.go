package normalizer

import "strings"

func isWordByte(b byte) bool {
	return b == '_' || (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// atBoundary tương đương \b của regex tại vị trí i
func atBoundary(s string, i int) bool {
	before := i > 0 && isWordByte(s[i-1])
	after := i < len(s) && isWordByte(s[i])
	return before != after
}

// ContainsPhrase kiểm tra phrase xuất hiện trong text như một cụm từ trọn vẹn
func ContainsPhrase(text, phrase string) bool {
	if phrase == "" || len(phrase) > len(text) {
		return false
	}
	for offset := 0; offset <= len(text)-len(phrase); {
		idx := strings.Index(text[offset:], phrase)
		if idx < 0 {
			return false
		}
		start := offset + idx
		if atBoundary(text, start) && atBoundary(text, start+len(phrase)) {
			return true
		}
		offset = start + 1
	}
	return false
}

// ContainsAnyPhrase trả về true nếu text chứa ít nhất một cụm trong phrases
func ContainsAnyPhrase(text string, phrases []string) bool {
	for _, p := range phrases {
		if ContainsPhrase(text, p) {
			return true
		}
	}
	return false
}

// LongestWordRun tìm đoạn liên tiếp dài nhất các từ của name xuất hiện trong text
func LongestWordRun(text, name string) string {
	words := strings.Fields(name)
	best := ""
	for i := range words {
		for j := i; j < len(words); j++ {
			run := strings.Join(words[i:j+1], " ")
			if len(run) > len(best) && ContainsPhrase(text, run) {
				best = run
			}
		}
	}
	return best
}

// IsNumeric chuỗi khác rỗng chỉ gồm chữ số
func IsNumeric(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// WordCount đếm số từ theo khoảng trắng
func WordCount(s string) int {
	return len(strings.Fields(s))
}
