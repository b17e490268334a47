package normalizer

import (
	"fmt"
	"regexp"
	"strings"
)

// maxPasses số lượt chạy lại pipeline tối đa để đạt điểm bất động
const maxPasses = 4

// rule luật đã biên dịch
type rule struct {
	name    string
	kind    RuleKind
	whenAny []string
	re      *regexp.Regexp
	replace string
	phrase  string
	prefix  string
}

// TextNormalizer chuẩn hóa text địa chỉ về dạng so sánh được
type TextNormalizer struct {
	aliases       []rule
	numbering     []rule
	abbreviations []rule
	context       []rule
	post          []rule

	vocab *Vocabulary
	// prefixes dùng để nhận biết một cụm đã có tiền tố hành chính
	adminPrefixes []string
}

// NewTextNormalizer tạo normalizer từ rules và vocabulary nhúng sẵn
func NewTextNormalizer() (*TextNormalizer, error) {
	rules, err := LoadRulesConfig()
	if err != nil {
		return nil, err
	}
	vocab, err := LoadVocabulary()
	if err != nil {
		return nil, err
	}
	return NewTextNormalizerFromConfig(rules, vocab)
}

// NewTextNormalizerFromConfig biên dịch luật từ cấu hình cho trước
func NewTextNormalizerFromConfig(rules *RulesConfig, vocab *Vocabulary) (*TextNormalizer, error) {
	n := &TextNormalizer{vocab: vocab}
	n.adminPrefixes = append(vocab.AdminPrefixes(), vocab.CleanPrefixes...)

	groups := []struct {
		name  string
		specs []RuleSpec
		dst   *[]rule
	}{
		{"aliases", rules.Aliases, &n.aliases},
		{"numbering", rules.Numbering, &n.numbering},
		{"abbreviations", rules.Abbreviations, &n.abbreviations},
		{"context", rules.Context, &n.context},
		{"post", rules.Post, &n.post},
	}
	for _, g := range groups {
		for _, spec := range g.specs {
			r, err := n.compile(spec)
			if err != nil {
				return nil, fmt.Errorf("lỗi biên dịch luật %s/%s: %w", g.name, spec.Name, err)
			}
			*g.dst = append(*g.dst, r)
		}
	}
	return n, nil
}

func (n *TextNormalizer) compile(spec RuleSpec) (rule, error) {
	r := rule{name: spec.Name, kind: spec.Kind, whenAny: spec.WhenAny}
	switch spec.Kind {
	case KindReplace:
		if spec.Pattern == "" {
			return r, fmt.Errorf("thiếu pattern")
		}
		re, err := regexp.Compile(spec.Pattern)
		if err != nil {
			return r, err
		}
		r.re = re
		r.replace = spec.Replace
	case KindAttachPrefix:
		if spec.Phrase == "" || spec.Prefix == "" {
			return r, fmt.Errorf("thiếu phrase hoặc prefix")
		}
		re, err := regexp.Compile(`\b` + regexp.QuoteMeta(spec.Phrase) + `\b`)
		if err != nil {
			return r, err
		}
		r.re = re
		r.phrase = spec.Phrase
		r.prefix = spec.Prefix
	default:
		return r, fmt.Errorf("kind không hợp lệ: %q", spec.Kind)
	}
	return r, nil
}

// apply áp dụng một luật lên chuỗi
func (n *TextNormalizer) apply(r rule, s string) string {
	if len(r.whenAny) > 0 && !ContainsAnyPhrase(s, r.whenAny) {
		return s
	}
	if r.kind == KindReplace {
		return r.re.ReplaceAllString(s, r.replace)
	}

	matches := r.re.FindAllStringIndex(s, -1)
	if len(matches) == 0 {
		return s
	}
	var b strings.Builder
	last := 0
	for _, m := range matches {
		b.WriteString(s[last:m[0]])
		if !n.hasPrefixBefore(s[:m[0]]) {
			b.WriteString(r.prefix)
			b.WriteByte(' ')
		}
		b.WriteString(s[m[0]:m[1]])
		last = m[1]
	}
	b.WriteString(s[last:])
	return b.String()
}

// hasPrefixBefore kiểm tra đoạn text ngay trước vị trí khớp kết thúc bằng một tiền tố hành chính
func (n *TextNormalizer) hasPrefixBefore(head string) bool {
	head = strings.TrimRight(head, " ")
	for _, p := range n.adminPrefixes {
		if strings.HasSuffix(head, p) && atBoundary(head, len(head)-len(p)) {
			return true
		}
	}
	return false
}

func (n *TextNormalizer) applyAll(rules []rule, s string) string {
	for _, r := range rules {
		s = n.apply(r, s)
	}
	return s
}

// pass một lượt đầy đủ của pipeline chuẩn hóa
func (n *TextNormalizer) pass(s string) string {
	s = FoldASCII(s)
	s = n.applyAll(n.aliases, s)
	s = n.applyAll(n.numbering, s)
	s = n.applyAll(n.abbreviations, s)
	s = n.applyAll(n.context, s)
	s = collapse(s)
	return n.applyAll(n.post, s)
}

// Normalize chuẩn hóa text người dùng nhập. Kết quả là điểm bất động của pipeline
// nên Normalize(Normalize(x)) == Normalize(x).
func (n *TextNormalizer) Normalize(text string) string {
	out := n.pass(text)
	for i := 1; i < maxPasses; i++ {
		next := n.pass(out)
		if next == out {
			break
		}
		out = next
	}
	return out
}

// Vocabulary trả về từ vựng normalizer đang dùng
func (n *TextNormalizer) Vocabulary() *Vocabulary {
	return n.vocab
}
