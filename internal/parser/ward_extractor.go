package parser

import (
	"sort"
	"strings"

	"github.com/address-locator/internal/gazetteer"
	"github.com/address-locator/internal/normalizer"
)

// Extraction kết quả trích xuất từ input đã chuẩn hóa
type Extraction struct {
	WardPhrase  string // tên phường sạch, hoặc cụm dự phòng
	HigherAdmin string // quận/tỉnh nhận diện được, rỗng nếu không có
	Explicit    bool   // cụm phường có tiền tố phường/xã/thị trấn ngay trước
}

// wardHit một tên phường ứng viên kèm điểm
type wardHit struct {
	phrase   string
	score    int64
	explicit bool
	pure     bool
	multi    bool
}

// WardExtractor trích xuất cụm phường/xã và cụm hành chính cấp cao từ input
type WardExtractor struct {
	index   *gazetteer.Index
	weights ExtractWeights

	wardPrefixes   []string
	higherPrefixes []string
	excluded       map[string]struct{}
}

// NewWardExtractor tạo mới WardExtractor
func NewWardExtractor(idx *gazetteer.Index, weights ExtractWeights) *WardExtractor {
	vocab := idx.Normalizer().Vocabulary()
	excluded := make(map[string]struct{})
	for _, list := range [][]string{vocab.AdminPrefixes(), vocab.StopWords, vocab.FallbackExclusions} {
		for _, w := range list {
			excluded[w] = struct{}{}
		}
	}
	return &WardExtractor{
		index:          idx,
		weights:        weights,
		wardPrefixes:   vocab.WardPrefixes,
		higherPrefixes: vocab.HigherAdminPrefixes,
		excluded:       excluded,
	}
}

// Extract trích xuất cụm phường và cụm hành chính cấp cao
func (x *WardExtractor) Extract(input string) Extraction {
	words := strings.Fields(input)
	if len(words) == 0 {
		return Extraction{}
	}

	out := Extraction{HigherAdmin: x.detectHigherAdmin(input)}

	var hits []wardHit
	for _, ward := range x.narrow(words) {
		if hit, ok := x.scoreWard(input, ward, out.HigherAdmin); ok {
			hits = append(hits, hit)
		}
	}

	if len(hits) == 0 {
		out.WardPhrase = x.fallbackPhrase(words)
		return out
	}

	sort.SliceStable(hits, func(i, j int) bool {
		a, b := hits[i], hits[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if a.explicit != b.explicit {
			return a.explicit
		}
		if a.pure != b.pure {
			return a.pure
		}
		if len(a.phrase) != len(b.phrase) {
			return len(a.phrase) > len(b.phrase)
		}
		if a.multi != b.multi {
			return a.multi
		}
		return a.phrase < b.phrase
	})
	out.WardPhrase = hits[0].phrase
	out.Explicit = hits[0].explicit
	return out
}

// detectHigherAdmin tên quận/tỉnh dài nhất xuất hiện trong input.
// Tên toàn số chỉ được nhận khi có tiền tố đi kèm.
func (x *WardExtractor) detectHigherAdmin(input string) string {
	for _, name := range x.index.HigherAdminNames() {
		for _, prefix := range x.higherPrefixes {
			if normalizer.ContainsPhrase(input, prefix+" "+name) {
				return name
			}
		}
		if !normalizer.IsNumeric(name) && normalizer.ContainsPhrase(input, name) {
			return name
		}
	}
	return ""
}

// narrow giao các tập phường theo từng token. Rỗng thì duyệt toàn bộ tên phường.
func (x *WardExtractor) narrow(words []string) []string {
	candidates := x.index.WardsForToken(words[0])
	for _, w := range words[1:] {
		if len(candidates) == 0 {
			break
		}
		set := x.index.WardsForToken(w)
		if len(set) == 0 {
			candidates = nil
			break
		}
		keep := make(map[string]struct{}, len(set))
		for _, s := range set {
			keep[s] = struct{}{}
		}
		filtered := candidates[:0:0]
		for _, c := range candidates {
			if _, ok := keep[c]; ok {
				filtered = append(filtered, c)
			}
		}
		candidates = filtered
	}
	if len(candidates) == 0 {
		return x.index.WardNames()
	}
	return candidates
}

func (x *WardExtractor) scoreWard(input, ward, higher string) (wardHit, bool) {
	w := x.weights
	hit := wardHit{
		phrase: ward,
		pure:   !x.index.IsHigherAdmin(ward),
		multi:  normalizer.WordCount(ward) > 1,
	}
	found := false

	for _, prefix := range x.wardPrefixes {
		if normalizer.ContainsPhrase(input, prefix+" "+ward) {
			hit.score = w.ExplicitWard
			hit.explicit = true
			found = true
			break
		}
	}

	if !found && normalizer.ContainsPhrase(input, ward) {
		if hit.multi && hit.pure {
			hit.score = w.BareMultiWord
		} else {
			hit.score = int64(len(ward)) * w.BarePerChar
		}
		found = true
	}

	if !hit.explicit && normalizer.IsNumeric(ward) {
		if normalizer.ContainsPhrase(input, ward) {
			hit.score = w.NumericWard
			return hit, true
		}
		return hit, false
	}

	entries := x.index.WardEntries(ward)

	if higher != "" {
		consistent := consistentWithHigherAdmin(entries, higher)
		switch {
		case !consistent && found && !hit.explicit:
			hit.score = max(hit.score-w.InconsistentHigherAdmin, 0)
			found = false
		case consistent && found:
			hit.score += w.ConsistentHigherAdmin
		}
	}

	if !hit.explicit && !hit.pure && !contextuallyClear(entries, input) {
		if found {
			hit.score = max(hit.score-w.AmbiguousPenalty, w.AmbiguousFloor)
		} else {
			hit.score = w.AmbiguousUnmatched
		}
	}

	if !found {
		if run := normalizer.LongestWordRun(input, ward); run != "" {
			hit.score += int64(len(run)) * w.PartialPerChar
			found = true
		}
	}

	if found && hit.score >= w.ContextMinScore {
		hit.score += contextBonus(entries, input, w.ContextDistrict, w.ContextProvince, false)
		if hit.multi {
			hit.score += w.MultiWordWard
		}
	}

	return hit, found && hit.score > 0
}

// fallbackPhrase cụm liên tiếp dài nhất của input không phải địa danh hay từ dừng đã biết
func (x *WardExtractor) fallbackPhrase(words []string) string {
	best := ""
	for i := range words {
		for j := i; j < len(words); j++ {
			phrase := strings.Join(words[i:j+1], " ")
			if len(phrase) <= len(best) || len(phrase) < 2 || normalizer.IsNumeric(phrase) {
				continue
			}
			if _, ok := x.excluded[phrase]; ok {
				continue
			}
			if x.index.HasWard(phrase) || x.index.IsHigherAdmin(phrase) {
				continue
			}
			best = phrase
		}
	}
	return best
}

// consistentWithHigherAdmin có bản ghi nào của phường mà quận/tỉnh sạch chứa,
// hoặc được chứa trong, cụm hành chính cấp cao
func consistentWithHigherAdmin(entries []*gazetteer.Entry, higher string) bool {
	for _, e := range entries {
		if mutualPhrase(e.DistrictClean, higher) || mutualPhrase(e.ProvinceClean, higher) {
			return true
		}
	}
	return false
}

// contextuallyClear input có nhắc tới quận hoặc tỉnh của ít nhất một bản ghi
func contextuallyClear(entries []*gazetteer.Entry, input string) bool {
	for _, e := range entries {
		if mentionsDistrict(e, input, false) || mentionsProvince(e, input, false) {
			return true
		}
	}
	return false
}

// contextBonus điểm ngữ cảnh tốt nhất trên các bản ghi của phường
func contextBonus(entries []*gazetteer.Entry, input string, district, province int64, bidirectional bool) int64 {
	var best int64
	for _, e := range entries {
		var bonus int64
		if mentionsDistrict(e, input, bidirectional) {
			bonus += district
		}
		if mentionsProvince(e, input, bidirectional) {
			bonus += province
		}
		best = max(best, bonus)
	}
	return best
}

func mentionsDistrict(e *gazetteer.Entry, input string, bidirectional bool) bool {
	return mentions(input, e.DistrictFull, bidirectional) || mentions(input, e.DistrictClean, bidirectional)
}

func mentionsProvince(e *gazetteer.Entry, input string, bidirectional bool) bool {
	return mentions(input, e.ProvinceFull, bidirectional) || mentions(input, e.ProvinceClean, bidirectional)
}

func mentions(input, name string, bidirectional bool) bool {
	if name == "" {
		return false
	}
	if normalizer.ContainsPhrase(input, name) {
		return true
	}
	return bidirectional && normalizer.ContainsPhrase(name, input)
}

// mutualPhrase name khác rỗng và một trong hai chứa nguyên cụm còn lại
func mutualPhrase(name, other string) bool {
	if name == "" || other == "" {
		return false
	}
	return normalizer.ContainsPhrase(name, other) || normalizer.ContainsPhrase(other, name)
}
