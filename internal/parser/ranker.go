package parser

import (
	"sort"

	"github.com/address-locator/internal/normalizer"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Ranker sắp xếp ứng viên và phân xử các ứng viên đồng điểm
type Ranker struct {
	weights RefineWeights
}

// NewRanker tạo mới Ranker
func NewRanker(weights RefineWeights) *Ranker {
	return &Ranker{weights: weights}
}

// Sort sắp xếp ổn định theo điểm rồi theo các cờ khớp
func (r *Ranker) Sort(cands []Candidate) {
	col := collate.New(language.Vietnamese)
	sort.SliceStable(cands, func(i, j int) bool {
		a, b := &cands[i], &cands[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.ExactWard != b.ExactWard {
			return a.ExactWard
		}
		if a.ExactDistrict != b.ExactDistrict {
			return a.ExactDistrict
		}
		if a.ExactProvince != b.ExactProvince {
			return a.ExactProvince
		}
		if a.CoreWords != b.CoreWords {
			return a.CoreWords > b.CoreWords
		}
		if a.FullMatch() != b.FullMatch() {
			return a.FullMatch()
		}
		if a.Levels() != b.Levels() {
			return a.Levels() > b.Levels()
		}
		return col.CompareString(a.Entry.Record.Ward, b.Entry.Record.Ward) < 0
	})
}

// Select chọn các ứng viên tốt nhất. Trả về nil nếu không có ứng viên điểm dương.
func (r *Ranker) Select(cands []Candidate, req *scoreRequest) []Candidate {
	if len(cands) == 0 {
		return nil
	}
	r.Sort(cands)

	top := cands[0].Score
	if top <= 0 {
		return nil
	}
	group := make([]Candidate, 0, 4)
	for _, c := range cands {
		if c.Score != top {
			break
		}
		group = append(group, c)
	}
	if len(group) == 1 {
		return group
	}

	group = r.refine(group, req)
	if len(group) == 1 {
		return group
	}
	return r.breakTie(group)
}

// refine giữ nhóm có điểm phân xử cao nhất
func (r *Ranker) refine(group []Candidate, req *scoreRequest) []Candidate {
	best := int64(-1)
	var kept []Candidate
	for _, c := range group {
		s := r.refinementScore(&c, req)
		switch {
		case s > best:
			best = s
			kept = []Candidate{c}
		case s == best:
			kept = append(kept, c)
		}
	}
	return kept
}

func (r *Ranker) refinementScore(c *Candidate, req *scoreRequest) int64 {
	w := r.weights
	e := c.Entry
	var s int64

	if req.phrase != "" {
		if e.Ward == req.phrase {
			s += w.WardPhraseExact
			if e.WardWords > 1 {
				s += w.MultiWordExactWard
			}
		} else if normalizer.ContainsPhrase(e.Ward, req.phrase) {
			s += w.WardPhrasePartial
		}
	}

	if higher := req.extraction.HigherAdmin; higher != "" {
		if mutualPhrase(e.DistrictClean, higher) {
			s += w.HigherAdminDistrict
		}
		if mutualPhrase(e.ProvinceClean, higher) {
			s += w.HigherAdminProvince
		}
	}

	if normalizer.ContainsPhrase(req.input, e.DistrictClean) {
		s += w.InputDistrict
	}
	if normalizer.ContainsPhrase(req.input, e.ProvinceClean) {
		s += w.InputProvince
	}

	if c.ExactWard {
		s += w.ExactWardFlag
	}
	if c.ExactDistrict {
		s += w.ExactDistrictFlag
	}
	if c.ExactProvince {
		s += w.ExactProvinceFlag
	}
	return s
}

// breakTie ưu tiên nhiều cấp khớp rồi tên phường. Các ứng viên không phân biệt
// được với ứng viên đầu tiên trên cả hai tiêu chí được giữ lại cùng nhau.
func (r *Ranker) breakTie(group []Candidate) []Candidate {
	col := collate.New(language.Vietnamese)
	sort.SliceStable(group, func(i, j int) bool {
		a, b := &group[i], &group[j]
		if a.Levels() != b.Levels() {
			return a.Levels() > b.Levels()
		}
		return col.CompareString(a.Entry.Record.Ward, b.Entry.Record.Ward) < 0
	})

	first := group[0]
	out := []Candidate{first}
	for _, c := range group[1:] {
		if c.Levels() == first.Levels() && c.Entry.Record.Ward == first.Entry.Record.Ward {
			out = append(out, c)
		}
	}
	return out
}
