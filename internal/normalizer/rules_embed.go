package normalizer

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed data/rules.yaml
var rulesYAML []byte

//go:embed data/vocabulary.yaml
var vocabularyYAML []byte

// RuleKind loại luật biến đổi
type RuleKind string

const (
	// KindReplace thay thế mọi vị trí khớp regex
	KindReplace RuleKind = "replace"
	// KindAttachPrefix gắn tiền tố hành chính trước một cụm chưa có tiền tố
	KindAttachPrefix RuleKind = "attach_prefix"
)

// RuleSpec một luật như khai báo trong YAML
type RuleSpec struct {
	Name    string   `yaml:"name"`
	Kind    RuleKind `yaml:"kind"`
	WhenAny []string `yaml:"when_any,omitempty"`
	Pattern string   `yaml:"pattern,omitempty"`
	Replace string   `yaml:"replace,omitempty"`
	Phrase  string   `yaml:"phrase,omitempty"`
	Prefix  string   `yaml:"prefix,omitempty"`
}

// RulesConfig các nhóm luật theo thứ tự áp dụng trong pipeline
type RulesConfig struct {
	Aliases       []RuleSpec `yaml:"aliases"`
	Numbering     []RuleSpec `yaml:"numbering"`
	Abbreviations []RuleSpec `yaml:"abbreviations"`
	Context       []RuleSpec `yaml:"context"`
	Post          []RuleSpec `yaml:"post"`
}

// Vocabulary các danh sách từ dùng cho trích xuất và chấm điểm
type Vocabulary struct {
	WardPrefixes        []string `yaml:"ward_prefixes"`
	HigherAdminPrefixes []string `yaml:"higher_admin_prefixes"`
	CleanPrefixes       []string `yaml:"clean_prefixes"`
	GenericWardLabels   []string `yaml:"generic_ward_labels"`
	StopWords           []string `yaml:"stop_words"`
	FallbackExclusions  []string `yaml:"fallback_exclusions"`
	CoreNames           []string `yaml:"core_names"`
}

// LoadRulesConfig load luật chuẩn hóa từ embedded YAML
func LoadRulesConfig() (*RulesConfig, error) {
	config := &RulesConfig{}
	if err := yaml.Unmarshal(rulesYAML, config); err != nil {
		return nil, fmt.Errorf("lỗi đọc rules.yaml: %w", err)
	}
	return config, nil
}

// LoadVocabulary load từ vựng từ embedded YAML
func LoadVocabulary() (*Vocabulary, error) {
	vocab := &Vocabulary{}
	if err := yaml.Unmarshal(vocabularyYAML, vocab); err != nil {
		return nil, fmt.Errorf("lỗi đọc vocabulary.yaml: %w", err)
	}
	if len(vocab.WardPrefixes) == 0 || len(vocab.HigherAdminPrefixes) == 0 {
		return nil, fmt.Errorf("vocabulary.yaml thiếu danh sách tiền tố")
	}
	return vocab, nil
}

// AdminPrefixes hợp của tiền tố cấp phường và cấp cao hơn
func (v *Vocabulary) AdminPrefixes() []string {
	out := make([]string, 0, len(v.WardPrefixes)+len(v.HigherAdminPrefixes))
	out = append(out, v.WardPrefixes...)
	return append(out, v.HigherAdminPrefixes...)
}
