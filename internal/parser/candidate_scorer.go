package parser

import (
	"strings"

	"github.com/address-locator/internal/gazetteer"
	"github.com/address-locator/internal/normalizer"
)

// Candidate một bản ghi tham chiếu đã được chấm điểm
type Candidate struct {
	Entry *gazetteer.Entry
	Score int64

	WardMatch     bool
	DistrictMatch bool
	ProvinceMatch bool

	ExactWard     bool
	ExactDistrict bool
	ExactProvince bool

	CoreWords int
}

// Levels số cấp hành chính khớp
func (c *Candidate) Levels() int {
	n := 0
	for _, ok := range []bool{c.WardMatch, c.DistrictMatch, c.ProvinceMatch} {
		if ok {
			n++
		}
	}
	return n
}

// FullMatch khớp cả ba cấp
func (c *Candidate) FullMatch() bool {
	return c.WardMatch && c.DistrictMatch && c.ProvinceMatch
}

// scoreRequest dữ liệu của một lần phân giải, dùng chung cho mọi bản ghi
type scoreRequest struct {
	input      string
	coreInput  string   // tên lõi của toàn bộ input
	coreWords  []string // token không phải tiền tố hành chính hay từ dừng
	extraction Extraction
	phrase     string   // cụm phường đã làm sạch
	explicit   []string // các tên quận/tỉnh xuất hiện trong input
}

// CandidateScorer chấm điểm bản ghi theo input. Không giữ trạng thái giữa các lần gọi.
type CandidateScorer struct {
	index         *gazetteer.Index
	weights       ScoreWeights
	genericLabels map[string]struct{}
}

// NewCandidateScorer tạo mới CandidateScorer
func NewCandidateScorer(idx *gazetteer.Index, weights ScoreWeights) *CandidateScorer {
	labels := make(map[string]struct{})
	for _, l := range idx.Normalizer().Vocabulary().GenericWardLabels {
		labels[l] = struct{}{}
	}
	return &CandidateScorer{index: idx, weights: weights, genericLabels: labels}
}

// Score chấm điểm một bản ghi
func (s *CandidateScorer) Score(e *gazetteer.Entry, req *scoreRequest) Candidate {
	w := s.weights
	c := Candidate{Entry: e}
	input := req.input
	entries := s.index.WardEntries(e.Ward)

	if req.phrase != "" && e.Ward == req.phrase && normalizer.ContainsPhrase(input, req.phrase) {
		c.Score += w.WardPhraseExact
		c.WardMatch = true
		c.ExactWard = true
	}
	if !c.WardMatch && normalizer.ContainsPhrase(input, e.Ward) {
		c.Score += w.WardBare
		c.WardMatch = true
		if e.WardWords > 1 {
			c.Score += w.WardBareMultiWord
		}
	}

	if higher := req.extraction.HigherAdmin; higher != "" {
		consistent := consistentWithHigherAdmin(entries, higher)
		switch {
		case !consistent && c.WardMatch && !req.extraction.Explicit:
			c.Score = max(c.Score-w.InconsistentHigherAdmin, 0)
		case consistent && c.WardMatch:
			c.Score += w.ConsistentHigherAdmin
		}
	}

	if req.extraction.Explicit && c.WardMatch && e.Ward == req.phrase {
		c.Score += w.ExplicitWardPhrase
	}

	if !c.WardMatch {
		if run := normalizer.LongestWordRun(input, e.Ward); run != "" {
			c.Score += int64(len(run)) * w.PartialPerChar
			c.WardMatch = true
		}
	}

	if c.WardMatch && c.Score >= w.ContextMinScore {
		c.Score += contextBonus(entries, input, w.ContextDistrict, w.ContextProvince, true)
		if e.WardWords > 1 {
			c.Score += w.MultiWordWard
		}
	}

	c.ExactDistrict = strictMatch(input, e.DistrictFull, e.DistrictClean)
	if c.ExactDistrict || (e.DistrictFull != "" && partialMatch(req, e.DistrictCore, e.DistrictFull)) {
		c.DistrictMatch = true
		if c.ExactDistrict {
			c.Score += w.DistrictStrict
		} else {
			c.Score += w.DistrictPartial
		}
		if c.WardMatch {
			c.Score += w.WardDistrict
		}
	}

	c.ExactProvince = strictMatch(input, e.ProvinceFull, e.ProvinceClean)
	if c.ExactProvince || (e.ProvinceFull != "" && partialMatch(req, e.ProvinceCore, e.ProvinceFull)) {
		c.ProvinceMatch = true
		if c.ExactProvince {
			c.Score += w.ProvinceStrict
		} else {
			c.Score += w.ProvincePartial
		}
		if c.WardMatch {
			c.Score += w.WardProvince
		}
	}

	for _, word := range req.coreWords {
		if normalizer.ContainsPhrase(e.Ward, word) ||
			normalizer.ContainsPhrase(e.DistrictClean, word) ||
			normalizer.ContainsPhrase(e.ProvinceClean, word) {
			c.CoreWords++
		}
	}
	c.Score += int64(c.CoreWords) * w.CoreWord

	if c.DistrictMatch && c.ProvinceMatch {
		c.Score += w.DistrictProvince
	}
	switch {
	case c.ExactWard && c.ExactDistrict && c.ExactProvince:
		c.Score += w.FullExact
	case c.FullMatch():
		c.Score += w.FullGeneral
	case c.WardMatch && c.DistrictMatch:
		c.Score += w.WardDistrictCombo
	}

	if len(req.explicit) > 0 {
		gated := false
		for _, name := range req.explicit {
			if normalizer.ContainsPhrase(e.DistrictFull, name) || normalizer.ContainsPhrase(e.ProvinceFull, name) {
				c.Score += w.HigherAdminGate
				gated = true
				break
			}
		}
		if !gated && e.HasHigherAdmin() {
			c.Score = max(c.Score-w.HigherAdminMiss, 0)
		}
	}

	if req.extraction.WardPhrase == "" && c.WardMatch {
		c.Score -= w.NoWardPhrase
	}
	if _, generic := s.genericLabels[e.Ward]; generic && len(input) > w.GenericLabelMinInput {
		c.Score -= w.GenericWardLabel
	}

	return c
}

// strictMatch input chứa nguyên cụm tên đầy đủ hoặc tên sạch
func strictMatch(input, full, clean string) bool {
	return normalizer.ContainsPhrase(input, full) || normalizer.ContainsPhrase(input, clean)
}

// partialMatch tên lõi chứa nhau (so khớp chuỗi con), hoặc có chung một từ cốt lõi
func partialMatch(req *scoreRequest, core, full string) bool {
	if req.coreInput != "" && core != "" &&
		(strings.Contains(core, req.coreInput) || strings.Contains(req.coreInput, core)) {
		return true
	}
	for _, fw := range strings.Fields(full) {
		for _, cw := range req.coreWords {
			if fw == cw {
				return true
			}
		}
	}
	return false
}

// explicitHigherAdmin các tên quận/tỉnh xuất hiện trong input, dài trước.
// Tên toàn số chỉ được nhận khi có tiền tố.
func explicitHigherAdmin(idx *gazetteer.Index, prefixes []string, input string) []string {
	var out []string
	for _, name := range idx.HigherAdminNames() {
		prefixed := false
		for _, p := range prefixes {
			if normalizer.ContainsPhrase(input, p+" "+name) {
				prefixed = true
				break
			}
		}
		if prefixed || (!normalizer.IsNumeric(name) && normalizer.ContainsPhrase(input, name)) {
			out = append(out, name)
		}
	}
	return out
}

// consistentWithExplicit quận hoặc tỉnh sạch của bản ghi khớp một tên trong tập
func consistentWithExplicit(e *gazetteer.Entry, explicit []string) bool {
	for _, name := range explicit {
		if mutualPhrase(e.DistrictClean, name) || mutualPhrase(e.ProvinceClean, name) {
			return true
		}
	}
	return false
}

// selectCandidates tập bản ghi cần chấm điểm
func selectCandidates(idx *gazetteer.Index, phrase string, explicit []string) []*gazetteer.Entry {
	if phrase != "" && idx.HasWard(phrase) {
		entries := idx.WardEntries(phrase)
		if len(explicit) == 0 {
			return entries
		}
		if filtered := filterConsistent(entries, explicit); len(filtered) > 0 {
			return filtered
		}
		return entries
	}

	all := idx.Entries()
	ptrs := make([]*gazetteer.Entry, len(all))
	for i := range all {
		ptrs[i] = &all[i]
	}
	if len(explicit) > 0 {
		if filtered := filterConsistent(ptrs, explicit); len(filtered) > 0 {
			return filtered
		}
	}
	return ptrs
}

func filterConsistent(entries []*gazetteer.Entry, explicit []string) []*gazetteer.Entry {
	var out []*gazetteer.Entry
	for _, e := range entries {
		if consistentWithExplicit(e, explicit) {
			out = append(out, e)
		}
	}
	return out
}
