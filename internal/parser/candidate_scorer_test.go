package parser

import (
	"testing"

	"github.com/address-locator/internal/gazetteer"
	"github.com/stretchr/testify/assert"
)

// hoaKhanh bản ghi không có trong dữ liệu test, nên không có điểm ngữ cảnh
func hoaKhanh() *gazetteer.Entry {
	return &gazetteer.Entry{
		Ward:          "hoa khanh",
		DistrictFull:  "quan lien chieu",
		DistrictClean: "lien chieu",
		DistrictCore:  "lien chieu",
		ProvinceFull:  "thanh pho da nang",
		ProvinceClean: "da nang",
		ProvinceCore:  "da nang",
		WardWords:     2,
	}
}

func TestCandidateScorer_Combinations(t *testing.T) {
	p := newTestParser(t)
	w := DefaultWeights().Score
	e := hoaKhanh()

	wardOnly := w.WardPhraseExact + w.MultiWordWard
	wardDistrict := wardOnly + w.DistrictStrict + w.WardDistrict + w.WardDistrictCombo
	fullGeneral := w.WardBare + w.WardBareMultiWord + w.MultiWordWard +
		w.DistrictStrict + w.WardDistrict + w.ProvinceStrict + w.WardProvince +
		w.DistrictProvince + w.FullGeneral
	fullExact := wardOnly + w.DistrictStrict + w.WardDistrict + w.ProvinceStrict + w.WardProvince +
		w.DistrictProvince + w.FullExact

	tests := []struct {
		name   string
		req    *scoreRequest
		score  int64
		levels int
	}{
		{
			name: "exact ward district province",
			req: &scoreRequest{
				input:      "hoa khanh lien chieu da nang",
				phrase:     "hoa khanh",
				extraction: Extraction{WardPhrase: "hoa khanh"},
			},
			score:  fullExact,
			levels: 3,
		},
		{
			name: "bare ward district province",
			req: &scoreRequest{
				input:      "hoa khanh lien chieu da nang",
				extraction: Extraction{WardPhrase: "lien chieu"},
			},
			score:  fullGeneral,
			levels: 3,
		},
		{
			name: "ward and district",
			req: &scoreRequest{
				input:      "hoa khanh lien chieu",
				phrase:     "hoa khanh",
				extraction: Extraction{WardPhrase: "hoa khanh"},
			},
			score:  wardDistrict,
			levels: 2,
		},
		{
			name: "ward only",
			req: &scoreRequest{
				input:      "hoa khanh",
				phrase:     "hoa khanh",
				extraction: Extraction{WardPhrase: "hoa khanh"},
			},
			score:  wardOnly,
			levels: 1,
		},
	}

	var prev int64
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := p.scorer.Score(e, tt.req)
			assert.Equal(t, tt.score, c.Score)
			assert.Equal(t, tt.levels, c.Levels())
			if i > 0 {
				assert.Less(t, c.Score, prev)
			}
			prev = c.Score
		})
	}
}

func TestCandidateScorer_HigherAdminGate(t *testing.T) {
	p := newTestParser(t)
	w := DefaultWeights().Score
	e := hoaKhanh()

	full := func(explicit ...string) *scoreRequest {
		return &scoreRequest{
			input:      "hoa khanh lien chieu da nang",
			phrase:     "hoa khanh",
			extraction: Extraction{WardPhrase: "hoa khanh"},
			explicit:   explicit,
		}
	}
	wardOnly := func(explicit ...string) *scoreRequest {
		return &scoreRequest{
			input:      "hoa khanh",
			phrase:     "hoa khanh",
			extraction: Extraction{WardPhrase: "hoa khanh"},
			explicit:   explicit,
		}
	}
	base := p.scorer.Score(e, full()).Score

	assert.Equal(t, base+w.HigherAdminGate, p.scorer.Score(e, full("da nang")).Score)
	assert.Equal(t, base+w.HigherAdminGate, p.scorer.Score(e, full("da nang", "lien chieu")).Score, "gate counted once")
	assert.Equal(t, base-w.HigherAdminMiss, p.scorer.Score(e, full("ha noi")).Score)

	// điểm không âm sau khi phạt
	assert.Zero(t, p.scorer.Score(e, wardOnly("ha noi")).Score)

	// bản ghi không có quận/tỉnh thì không bị phạt
	bare := &gazetteer.Entry{Ward: "hoa khanh", WardWords: 2}
	assert.Equal(t,
		p.scorer.Score(bare, wardOnly()).Score,
		p.scorer.Score(bare, wardOnly("ha noi")).Score)
}

func TestCandidateScorer_Penalties(t *testing.T) {
	p := newTestParser(t)
	w := DefaultWeights().Score

	t.Run("no ward phrase", func(t *testing.T) {
		e := hoaKhanh()
		with := p.scorer.Score(e, &scoreRequest{input: "hoa khanh", extraction: Extraction{WardPhrase: "khac"}})
		without := p.scorer.Score(e, &scoreRequest{input: "hoa khanh"})
		assert.True(t, without.WardMatch)
		assert.Equal(t, with.Score-w.NoWardPhrase, without.Score)
	})

	t.Run("generic label on long input", func(t *testing.T) {
		e := &gazetteer.Entry{Ward: "phuong", WardWords: 1}
		req := func(input string) *scoreRequest {
			return &scoreRequest{input: input, extraction: Extraction{WardPhrase: "phuong"}}
		}
		short := p.scorer.Score(e, req("phuong"))
		long := p.scorer.Score(e, req("phuong abcdefgh"))
		assert.Equal(t, w.WardBare, short.Score)
		assert.Equal(t, w.WardBare-w.GenericWardLabel, long.Score)
	})

	t.Run("no ward match", func(t *testing.T) {
		c := p.scorer.Score(hoaKhanh(), &scoreRequest{input: "ben nghe", extraction: Extraction{WardPhrase: "ben nghe"}})
		assert.False(t, c.WardMatch)
		assert.Zero(t, c.Score)
	})
}
