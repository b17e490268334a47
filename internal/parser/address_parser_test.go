package parser

import (
	"testing"

	"github.com/address-locator/app/models"
	"github.com/address-locator/internal/gazetteer"
	"github.com/address-locator/internal/normalizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestParser(t *testing.T) *AddressParser {
	t.Helper()
	n, err := normalizer.NewTextNormalizer()
	require.NoError(t, err)
	records, err := gazetteer.LoadFile("testdata/addresses.json")
	require.NoError(t, err)
	idx, err := gazetteer.Build(records, n)
	require.NoError(t, err)
	p, err := NewAddressParser(idx, DefaultWeights(), zap.NewNop())
	require.NoError(t, err)
	return p
}

type place struct{ ward, district, province string }

func places(records []models.AddressRecord) []place {
	out := make([]place, len(records))
	for i, r := range records {
		out[i] = place{r.Ward, r.District, r.Province}
	}
	return out
}

func TestAddressParser_Resolve(t *testing.T) {
	p := newTestParser(t)

	tests := []struct {
		name  string
		input string
		want  []place
	}{
		{
			name:  "full explicit address",
			input: "Phường Bến Nghé, Quận 1, Thành phố Hồ Chí Minh",
			want:  []place{{"Phường Bến Nghé", "Quận 1", "Thành phố Hồ Chí Minh"}},
		},
		{
			name:  "abbreviated ward and district",
			input: "P. Tân Phong, Q.7, TP.HCM",
			want:  []place{{"Phường Tân Phong", "Quận 7", "Thành phố Hồ Chí Minh"}},
		},
		{
			name:  "same ward name disambiguated by district",
			input: "Tân Phong, Biên Hòa, Đồng Nai",
			want:  []place{{"Phường Tân Phong", "Thành phố Biên Hòa", "Tỉnh Đồng Nai"}},
		},
		{
			name:  "numeric ward disambiguated by numeric district",
			input: "Phường 12, Quận 10",
			want:  []place{{"Phường 12", "Quận 10", "Thành phố Hồ Chí Minh"}},
		},
		{
			name:  "numeric ward in named district",
			input: "Phường 12, Gò Vấp",
			want:  []place{{"Phường 12", "Quận Gò Vấp", "Thành phố Hồ Chí Minh"}},
		},
		{
			name:  "commune sharing a district name",
			input: "Bình Tân, Bắc Bình, Bình Thuận",
			want:  []place{{"Xã Bình Tân", "Huyện Bắc Bình", "Tỉnh Bình Thuận"}},
		},
		{
			name:  "bare ward with district and province",
			input: "Bồ Đề, Long Biên, Hà Nội",
			want:  []place{{"Phường Bồ Đề", "Quận Long Biên", "Thành phố Hà Nội"}},
		},
		{
			name:  "numeric ward with numeric district",
			input: "Phường 3, Quận 3, HCM",
			want:  []place{{"Phường 3", "Quận 3", "Thành phố Hồ Chí Minh"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := p.Resolve(tt.input)
			assert.Equal(t, models.StatusMatched, res.Status)
			assert.Equal(t, tt.want, places(res.Records))
			assert.Equal(t, "Tìm thấy 1 kết quả phù hợp nhất.", res.Message)
			assert.Empty(t, res.Warning)
		})
	}
}

func TestAddressParser_ResolveDetails(t *testing.T) {
	p := newTestParser(t)

	res := p.Resolve("Phường Bến Nghé, Quận 1, Thành phố Hồ Chí Minh")
	assert.Equal(t, "phuong ben nghe quan 1 ho chi minh", res.Normalized)
	assert.Equal(t, "ben nghe", res.WardPhrase)
	assert.Equal(t, "ho chi minh", res.HigherAdmin)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "Phường Sài Gòn", res.Records[0].NewWard)
	assert.Equal(t, "Phường Sài Gòn, Thành phố Hồ Chí Minh", res.Records[0].FullNew)
}

func TestAddressParser_NumericWardShorthand(t *testing.T) {
	p := newTestParser(t)

	for _, input := range []string{"p.3, Gò Vấp, TP.HCM", "phường 3 quận Gò Vấp HCM"} {
		t.Run(input, func(t *testing.T) {
			res := p.Resolve(input)
			assert.Equal(t, []place{{"Phường 03", "Quận Gò Vấp", "Thành phố Hồ Chí Minh"}}, places(res.Records))
			assert.Equal(t, "03", res.WardPhrase)
		})
	}
}

func TestAddressParser_AliasFolding(t *testing.T) {
	p := newTestParser(t)

	a := p.Resolve("Bến Nghé, Q1, tphcm")
	b := p.Resolve("Bến Nghé, Quận 1, Sài Gòn")

	assert.Equal(t, "ben nghe quan 1 ho chi minh", a.Normalized)
	assert.Equal(t, a.Normalized, b.Normalized)
	assert.Equal(t, a.Records, b.Records)
	assert.Equal(t, []place{{"Phường Bến Nghé", "Quận 1", "Thành phố Hồ Chí Minh"}}, places(a.Records))
}

func TestAddressParser_NoMatch(t *testing.T) {
	p := newTestParser(t)

	for _, input := range []string{"123 456", "duong so nha", "abc xyz", ""} {
		t.Run(input, func(t *testing.T) {
			res := p.Resolve(input)
			assert.Equal(t, models.StatusNoMatch, res.Status)
			assert.Empty(t, res.Records)
			assert.NotNil(t, res.Records)
			assert.Equal(t, models.MessageNoMatch, res.Message)
			assert.Equal(t, models.WarningNoMatch, res.Warning)
			assert.False(t, res.Matched())
		})
	}

	res := p.Resolve("abc xyz")
	assert.Equal(t, "abc xyz", res.WardPhrase)
}

func TestAddressParser_IndistinguishableTie(t *testing.T) {
	p := newTestParser(t)

	res := p.Resolve("an binh")
	assert.Equal(t, models.StatusMatched, res.Status)
	assert.Equal(t, []place{
		{"Xã An Bình", "Huyện Cư Jút", "Tỉnh Đắk Nông"},
		{"Xã An Bình", "Huyện Lắk", "Tỉnh Đắk Lắk"},
	}, places(res.Records))
	assert.Equal(t, "Tìm thấy 2 kết quả phù hợp nhất.", res.Message)

	// chỉ có số phường, không nhắc quận nào
	res = p.Resolve("12 nguyen trai")
	assert.ElementsMatch(t, []place{
		{"Phường 12", "Quận Gò Vấp", "Thành phố Hồ Chí Minh"},
		{"Phường 12", "Quận 10", "Thành phố Hồ Chí Minh"},
	}, places(res.Records))

	res = p.Resolve("phuong 12 go vap")
	assert.Equal(t, []place{{"Phường 12", "Quận Gò Vấp", "Thành phố Hồ Chí Minh"}}, places(res.Records))
}

func TestAddressParser_Deterministic(t *testing.T) {
	p := newTestParser(t)

	inputs := []string{
		"Tân Phong, Biên Hòa, Đồng Nai",
		"an binh",
		"p.3, Gò Vấp, TP.HCM",
	}
	for _, input := range inputs {
		first := p.Resolve(input)
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, p.Resolve(input), input)
		}
	}
}

func TestAddressParser_ResolveNormalizedMatchesResolve(t *testing.T) {
	p := newTestParser(t)

	input := "P. Tân Phong, Q.7, TP.HCM"
	assert.Equal(t, p.Resolve(input), p.ResolveNormalized(p.Normalize(input)))
}

func TestNewAddressParser_Errors(t *testing.T) {
	p := newTestParser(t)

	w := DefaultWeights()
	w.Score.DistrictStrict = w.Score.ProvinceStrict + 1
	_, err := NewAddressParser(p.Index(), w, nil)
	assert.ErrorIs(t, err, ErrInvalidWeights)

	_, err = NewAddressParser(nil, DefaultWeights(), nil)
	assert.Error(t, err)

	withNilLogger, err := NewAddressParser(p.Index(), DefaultWeights(), nil)
	require.NoError(t, err)
	res := withNilLogger.Resolve("Bồ Đề, Long Biên, Hà Nội")
	assert.True(t, res.Matched())
}

func TestAddressParser_Suggest(t *testing.T) {
	p := newTestParser(t)

	got := p.Suggest("tan phon", 3, 0.8)
	require.Len(t, got, 3)
	assert.Equal(t, "Phường Tân Phong", got[0].Ward)
	assert.Equal(t, "Quận 7", got[0].District)
	assert.Equal(t, "Phường Tân Phong", got[1].Ward)
	assert.Equal(t, "Thành phố Biên Hòa", got[1].District)
	for i, s := range got {
		assert.GreaterOrEqual(t, s.Similarity, 0.8)
		if i > 0 {
			assert.LessOrEqual(t, s.Similarity, got[i-1].Similarity)
		}
	}

	assert.Nil(t, p.Suggest("", 3, 0.8))
	assert.Nil(t, p.Suggest("tan phon", 0, 0.8))
	assert.Empty(t, p.Suggest("zzzzzz", 3, 0.95))
}
