package gazetteer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/address-locator/app/models"
	"github.com/address-locator/internal/normalizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestIndex(t *testing.T) *Index {
	t.Helper()
	n, err := normalizer.NewTextNormalizer()
	require.NoError(t, err)
	records, err := LoadFile("testdata/addresses.json")
	require.NoError(t, err)
	idx, err := Build(records, n)
	require.NoError(t, err)
	return idx
}

func TestBuild_Stats(t *testing.T) {
	idx := buildTestIndex(t)

	stats := idx.Stats()
	assert.Equal(t, 14, stats.Records)
	assert.Equal(t, 0, stats.Skipped)
	assert.Equal(t, 11, stats.WardNames)
	assert.Equal(t, 22, stats.Districts)
	assert.Equal(t, 11, stats.Provinces)
	assert.Equal(t, 15, stats.Tokens)
}

func TestBuild_EntryNames(t *testing.T) {
	idx := buildTestIndex(t)

	e := idx.Entries()[0]
	assert.Equal(t, "ben nghe", e.Ward)
	assert.Equal(t, "quan 1", e.DistrictFull)
	assert.Equal(t, "1", e.DistrictClean)
	assert.Equal(t, "ho chi minh", e.ProvinceFull)
	assert.Equal(t, "ho chi minh", e.ProvinceClean)
	assert.Equal(t, "1", e.DistrictCore)
	assert.Equal(t, "ho chi minh", e.ProvinceCore)
	assert.Equal(t, 2, e.WardWords)

	goVap := idx.Entries()[2]
	assert.Equal(t, "03", goVap.Ward)
	assert.Equal(t, "quan go vap", goVap.DistrictFull)
	assert.Equal(t, "go vap", goVap.DistrictClean)
}

func TestBuild_WardLookups(t *testing.T) {
	idx := buildTestIndex(t)

	assert.Len(t, idx.WardEntries("tan phong"), 2)
	assert.Len(t, idx.WardEntries("12"), 2)
	assert.Len(t, idx.WardEntries("ben nghe"), 1)
	assert.Empty(t, idx.WardEntries("khong ton tai"))

	assert.True(t, idx.HasWard("binh tan"))
	assert.False(t, idx.HasWard("go vap"))

	assert.Equal(t, []string{"tan phong", "binh tan", "tan dinh"}, idx.WardsForToken("tan"))
	assert.Nil(t, idx.WardsForToken("xyz"))

	for _, tok := range []string{"ben", "nghe", "03", "an"} {
		assert.NotEmpty(t, idx.WardsForToken(tok), tok)
	}
}

func TestBuild_HigherAdminNames(t *testing.T) {
	idx := buildTestIndex(t)

	assert.True(t, idx.IsDistrict("go vap"))
	assert.True(t, idx.IsDistrict("quan go vap"))
	assert.True(t, idx.IsDistrict("binh tan"))
	assert.True(t, idx.IsProvince("ho chi minh"))
	assert.True(t, idx.IsProvince("tinh dong nai"))
	assert.False(t, idx.IsHigherAdmin("ben nghe"))

	names := idx.HigherAdminNames()
	require.NotEmpty(t, names)
	assert.Equal(t, "thanh pho bien hoa", names[0])
	for i := 1; i < len(names); i++ {
		assert.GreaterOrEqual(t, len(names[i-1]), len(names[i]))
	}

	wards := idx.WardNames()
	assert.Equal(t, "binh tri dong", wards[0])
	assert.Equal(t, "3", wards[len(wards)-1])
}

func TestBuild_SkipsEmptyWard(t *testing.T) {
	n, err := normalizer.NewTextNormalizer()
	require.NoError(t, err)

	idx, err := Build([]models.AddressRecord{
		{Ward: "", District: "Quận 1", Province: "Thành phố Hồ Chí Minh"},
		{Ward: "Phường Bến Nghé", District: "Quận 1", Province: "Thành phố Hồ Chí Minh"},
		{Ward: "Phường Đa Kao"},
	}, n)
	require.NoError(t, err)

	stats := idx.Stats()
	assert.Equal(t, 2, stats.Records)
	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 1, idx.Entries()[0].Pos)
	assert.False(t, idx.Entries()[1].HasHigherAdmin())
}

func TestBuild_EmptyDataset(t *testing.T) {
	n, err := normalizer.NewTextNormalizer()
	require.NoError(t, err)

	_, err = Build(nil, n)
	assert.ErrorIs(t, err, ErrEmptyDataset)

	_, err = Build([]models.AddressRecord{{Ward: "  "}}, n)
	assert.ErrorIs(t, err, ErrEmptyDataset)

	_, err = Build([]models.AddressRecord{{Ward: "Phường 1"}}, nil)
	assert.Error(t, err)
}

func TestLoadFile_Errors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"ward": `), 0o644))
	_, err = LoadFile(bad)
	assert.Error(t, err)

	empty := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte(`[]`), 0o644))
	_, err = LoadFile(empty)
	assert.ErrorIs(t, err, ErrEmptyDataset)
}

func TestRecords_ReturnsCopy(t *testing.T) {
	idx := buildTestIndex(t)

	records := idx.Records()
	require.Len(t, records, 14)
	records[0].Ward = "changed"
	assert.Equal(t, "Phường Bến Nghé", idx.Entries()[0].Record.Ward)
}
