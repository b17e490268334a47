package parser

import (
	"errors"
	"fmt"
)

// ErrInvalidWeights bộ trọng số vi phạm thứ tự ưu tiên giữa các tầng
var ErrInvalidWeights = errors.New("trọng số không hợp lệ")

// ExtractWeights trọng số cho bước trích xuất cụm phường/xã
type ExtractWeights struct {
	ExplicitWard            int64 `mapstructure:"explicit_ward" yaml:"explicit_ward"`
	BareMultiWord           int64 `mapstructure:"bare_multi_word" yaml:"bare_multi_word"`
	BarePerChar             int64 `mapstructure:"bare_per_char" yaml:"bare_per_char"`
	NumericWard             int64 `mapstructure:"numeric_ward" yaml:"numeric_ward"`
	InconsistentHigherAdmin int64 `mapstructure:"inconsistent_higher_admin" yaml:"inconsistent_higher_admin"`
	ConsistentHigherAdmin   int64 `mapstructure:"consistent_higher_admin" yaml:"consistent_higher_admin"`
	AmbiguousPenalty        int64 `mapstructure:"ambiguous_penalty" yaml:"ambiguous_penalty"`
	AmbiguousFloor          int64 `mapstructure:"ambiguous_floor" yaml:"ambiguous_floor"`
	AmbiguousUnmatched      int64 `mapstructure:"ambiguous_unmatched" yaml:"ambiguous_unmatched"`
	PartialPerChar          int64 `mapstructure:"partial_per_char" yaml:"partial_per_char"`
	ContextMinScore         int64 `mapstructure:"context_min_score" yaml:"context_min_score"`
	ContextDistrict         int64 `mapstructure:"context_district" yaml:"context_district"`
	ContextProvince         int64 `mapstructure:"context_province" yaml:"context_province"`
	MultiWordWard           int64 `mapstructure:"multi_word_ward" yaml:"multi_word_ward"`
}

// ScoreWeights trọng số chấm điểm từng bản ghi ứng viên
type ScoreWeights struct {
	WardPhraseExact         int64 `mapstructure:"ward_phrase_exact" yaml:"ward_phrase_exact"`
	WardBare                int64 `mapstructure:"ward_bare" yaml:"ward_bare"`
	WardBareMultiWord       int64 `mapstructure:"ward_bare_multi_word" yaml:"ward_bare_multi_word"`
	InconsistentHigherAdmin int64 `mapstructure:"inconsistent_higher_admin" yaml:"inconsistent_higher_admin"`
	ConsistentHigherAdmin   int64 `mapstructure:"consistent_higher_admin" yaml:"consistent_higher_admin"`
	ExplicitWardPhrase      int64 `mapstructure:"explicit_ward_phrase" yaml:"explicit_ward_phrase"`
	PartialPerChar          int64 `mapstructure:"partial_per_char" yaml:"partial_per_char"`
	ContextMinScore         int64 `mapstructure:"context_min_score" yaml:"context_min_score"`
	ContextDistrict         int64 `mapstructure:"context_district" yaml:"context_district"`
	ContextProvince         int64 `mapstructure:"context_province" yaml:"context_province"`
	MultiWordWard           int64 `mapstructure:"multi_word_ward" yaml:"multi_word_ward"`

	DistrictStrict  int64 `mapstructure:"district_strict" yaml:"district_strict"`
	DistrictPartial int64 `mapstructure:"district_partial" yaml:"district_partial"`
	WardDistrict    int64 `mapstructure:"ward_district" yaml:"ward_district"`
	ProvinceStrict  int64 `mapstructure:"province_strict" yaml:"province_strict"`
	ProvincePartial int64 `mapstructure:"province_partial" yaml:"province_partial"`
	WardProvince    int64 `mapstructure:"ward_province" yaml:"ward_province"`

	CoreWord          int64 `mapstructure:"core_word" yaml:"core_word"`
	DistrictProvince  int64 `mapstructure:"district_province" yaml:"district_province"`
	FullExact         int64 `mapstructure:"full_exact" yaml:"full_exact"`
	FullGeneral       int64 `mapstructure:"full_general" yaml:"full_general"`
	WardDistrictCombo int64 `mapstructure:"ward_district_combo" yaml:"ward_district_combo"`

	HigherAdminGate  int64 `mapstructure:"higher_admin_gate" yaml:"higher_admin_gate"`
	HigherAdminMiss  int64 `mapstructure:"higher_admin_miss" yaml:"higher_admin_miss"`
	NoWardPhrase     int64 `mapstructure:"no_ward_phrase" yaml:"no_ward_phrase"`
	GenericWardLabel int64 `mapstructure:"generic_ward_label" yaml:"generic_ward_label"`
	// GenericLabelMinInput độ dài input tối thiểu để phạt nhãn phường chung chung
	GenericLabelMinInput int `mapstructure:"generic_label_min_input" yaml:"generic_label_min_input"`
}

// RefineWeights trọng số phân xử giữa các ứng viên đồng điểm
type RefineWeights struct {
	WardPhraseExact     int64 `mapstructure:"ward_phrase_exact" yaml:"ward_phrase_exact"`
	WardPhrasePartial   int64 `mapstructure:"ward_phrase_partial" yaml:"ward_phrase_partial"`
	HigherAdminDistrict int64 `mapstructure:"higher_admin_district" yaml:"higher_admin_district"`
	HigherAdminProvince int64 `mapstructure:"higher_admin_province" yaml:"higher_admin_province"`
	InputDistrict       int64 `mapstructure:"input_district" yaml:"input_district"`
	InputProvince       int64 `mapstructure:"input_province" yaml:"input_province"`
	MultiWordExactWard  int64 `mapstructure:"multi_word_exact_ward" yaml:"multi_word_exact_ward"`
	ExactWardFlag       int64 `mapstructure:"exact_ward_flag" yaml:"exact_ward_flag"`
	ExactDistrictFlag   int64 `mapstructure:"exact_district_flag" yaml:"exact_district_flag"`
	ExactProvinceFlag   int64 `mapstructure:"exact_province_flag" yaml:"exact_province_flag"`
}

// Weights toàn bộ trọng số của bộ phân giải
type Weights struct {
	Extract ExtractWeights `mapstructure:"extract" yaml:"extract"`
	Score   ScoreWeights   `mapstructure:"score" yaml:"score"`
	Refine  RefineWeights  `mapstructure:"refine" yaml:"refine"`
}

// DefaultWeights bộ trọng số mặc định
func DefaultWeights() Weights {
	return Weights{
		Extract: ExtractWeights{
			ExplicitWard:            2_000_000_000,
			BareMultiWord:           1_500_000_000,
			BarePerChar:             500_000,
			NumericWard:             100,
			InconsistentHigherAdmin: 5_000_000_000,
			ConsistentHigherAdmin:   100_000_000,
			AmbiguousPenalty:        500_000_000,
			AmbiguousFloor:          100,
			AmbiguousUnmatched:      1,
			PartialPerChar:          5_000,
			ContextMinScore:         100,
			ContextDistrict:         10_000,
			ContextProvince:         20_000,
			MultiWordWard:           5_000,
		},
		Score: ScoreWeights{
			WardPhraseExact:         200_000_000,
			WardBare:                150_000_000,
			WardBareMultiWord:       500_000,
			InconsistentHigherAdmin: 5_000_000_000,
			ConsistentHigherAdmin:   100_000_000,
			ExplicitWardPhrase:      50_000_000,
			PartialPerChar:          5_000,
			ContextMinScore:         100,
			ContextDistrict:         10_000,
			ContextProvince:         20_000,
			MultiWordWard:           5_000,

			DistrictStrict:  10_000_000,
			DistrictPartial: 5_000_000,
			WardDistrict:    20_000_000,
			ProvinceStrict:  15_000_000,
			ProvincePartial: 7_000_000,
			WardProvince:    30_000_000,

			CoreWord:          10_000,
			DistrictProvince:  60_000_000,
			FullExact:         300_000_000,
			FullGeneral:       100_000_000,
			WardDistrictCombo: 50_000_000,

			HigherAdminGate:      1_500_000_000,
			HigherAdminMiss:      500_000_000,
			NoWardPhrase:         1_000,
			GenericWardLabel:     500,
			GenericLabelMinInput: 10,
		},
		Refine: RefineWeights{
			WardPhraseExact:     1_000,
			WardPhrasePartial:   100,
			HigherAdminDistrict: 5_000,
			HigherAdminProvince: 7_000,
			InputDistrict:       500,
			InputProvince:       700,
			MultiWordExactWard:  200,
			ExactWardFlag:       10,
			ExactDistrictFlag:   5,
			ExactProvinceFlag:   3,
		},
	}
}

// tier một cặp trọng số phải giữ thứ tự higher > lower
type tier struct {
	name          string
	higher, lower int64
}

// Validate kiểm tra trọng số không âm và các tầng giữ đúng thứ tự
func (w Weights) Validate() error {
	e, s, r := w.Extract, w.Score, w.Refine

	nonNegative := map[string]int64{
		"extract.numeric_ward":         e.NumericWard,
		"extract.bare_per_char":        e.BarePerChar,
		"extract.ambiguous_floor":      e.AmbiguousFloor,
		"extract.ambiguous_unmatched":  e.AmbiguousUnmatched,
		"extract.partial_per_char":     e.PartialPerChar,
		"extract.context_min_score":    e.ContextMinScore,
		"extract.multi_word_ward":      e.MultiWordWard,
		"score.ward_bare_multi_word":   s.WardBareMultiWord,
		"score.partial_per_char":       s.PartialPerChar,
		"score.multi_word_ward":        s.MultiWordWard,
		"score.core_word":              s.CoreWord,
		"score.no_ward_phrase":         s.NoWardPhrase,
		"score.generic_ward_label":     s.GenericWardLabel,
		"refine.multi_word_exact_ward": r.MultiWordExactWard,
		"refine.exact_province_flag":   r.ExactProvinceFlag,
	}
	for name, v := range nonNegative {
		if v < 0 {
			return fmt.Errorf("%w: %s âm (%d)", ErrInvalidWeights, name, v)
		}
	}
	if s.GenericLabelMinInput < 0 {
		return fmt.Errorf("%w: score.generic_label_min_input âm", ErrInvalidWeights)
	}

	tiers := []tier{
		{"extract.explicit_ward > extract.bare_multi_word", e.ExplicitWard, e.BareMultiWord},
		{"extract.bare_multi_word > extract.consistent_higher_admin", e.BareMultiWord, e.ConsistentHigherAdmin},
		{"extract.inconsistent_higher_admin > extract.explicit_ward", e.InconsistentHigherAdmin, e.ExplicitWard},
		{"extract.ambiguous_penalty > extract.ambiguous_floor", e.AmbiguousPenalty, e.AmbiguousFloor},
		{"extract.context_province > extract.context_district", e.ContextProvince, e.ContextDistrict},
		{"extract.context_district > 0", e.ContextDistrict, 0},

		{"score.ward_phrase_exact > score.ward_bare", s.WardPhraseExact, s.WardBare},
		{"score.ward_bare > score.explicit_ward_phrase", s.WardBare, s.ExplicitWardPhrase},
		{"score.inconsistent_higher_admin > score.higher_admin_gate", s.InconsistentHigherAdmin, s.HigherAdminGate},
		{"score.district_strict > score.district_partial", s.DistrictStrict, s.DistrictPartial},
		{"score.province_strict > score.province_partial", s.ProvinceStrict, s.ProvincePartial},
		{"score.province_strict > score.district_strict", s.ProvinceStrict, s.DistrictStrict},
		{"score.province_partial > score.district_partial", s.ProvincePartial, s.DistrictPartial},
		{"score.ward_province > score.ward_district", s.WardProvince, s.WardDistrict},
		{"score.full_exact > score.full_general", s.FullExact, s.FullGeneral},
		{"score.full_general > score.ward_district_combo", s.FullGeneral, s.WardDistrictCombo},
		{"score.higher_admin_gate > score.full_exact", s.HigherAdminGate, s.FullExact},
		{"score.higher_admin_miss > 0", s.HigherAdminMiss, 0},

		{"refine.higher_admin_province > refine.higher_admin_district", r.HigherAdminProvince, r.HigherAdminDistrict},
		{"refine.higher_admin_district > refine.ward_phrase_exact", r.HigherAdminDistrict, r.WardPhraseExact},
		{"refine.ward_phrase_exact > refine.ward_phrase_partial", r.WardPhraseExact, r.WardPhrasePartial},
		{"refine.input_province > refine.input_district", r.InputProvince, r.InputDistrict},
		{"refine.exact_ward_flag > refine.exact_district_flag", r.ExactWardFlag, r.ExactDistrictFlag},
		{"refine.exact_district_flag > refine.exact_province_flag", r.ExactDistrictFlag, r.ExactProvinceFlag},
	}
	for _, t := range tiers {
		if t.higher <= t.lower {
			return fmt.Errorf("%w: cần %s (%d <= %d)", ErrInvalidWeights, t.name, t.higher, t.lower)
		}
	}
	return nil
}
