package gazetteer

import (
	"errors"
	"sort"
	"strings"

	"github.com/address-locator/app/models"
	"github.com/address-locator/internal/normalizer"
)

// ErrEmptyDataset dữ liệu tham chiếu không có bản ghi hợp lệ nào
var ErrEmptyDataset = errors.New("dữ liệu tham chiếu rỗng")

// Entry bản ghi tham chiếu kèm các tên đã chuẩn hóa, tính sẵn khi build
type Entry struct {
	Record models.AddressRecord
	Pos    int // vị trí trong dữ liệu gốc

	Ward          string // Normalize(CleanName(ward))
	DistrictFull  string // Normalize(district)
	DistrictClean string // Normalize(CleanName(district))
	ProvinceFull  string
	ProvinceClean string
	DistrictCore  string
	ProvinceCore  string
	WardWords     int
}

// HasHigherAdmin bản ghi có thông tin quận hoặc tỉnh
func (e *Entry) HasHigherAdmin() bool {
	return e.DistrictFull != "" || e.ProvinceFull != ""
}

// Index chỉ mục tham chiếu, bất biến sau khi Build. An toàn khi đọc đồng thời.
type Index struct {
	normalizer *normalizer.TextNormalizer

	entries      []Entry
	wardsByClean map[string][]*Entry
	inverted     map[string][]string
	districts    map[string]struct{}
	provinces    map[string]struct{}

	higherAdmin []string // quận + tỉnh, dài trước
	wardNames   []string // tên phường sạch, dài trước
	skipped     int
}

// Stats thống kê chỉ mục
type Stats struct {
	Records   int `json:"records"`
	Skipped   int `json:"skipped"`
	WardNames int `json:"ward_names"`
	Districts int `json:"districts"`
	Provinces int `json:"provinces"`
	Tokens    int `json:"tokens"`
}

// Build dựng chỉ mục từ danh sách bản ghi
func Build(records []models.AddressRecord, n *normalizer.TextNormalizer) (*Index, error) {
	if n == nil {
		return nil, errors.New("thiếu normalizer")
	}

	idx := &Index{
		normalizer:   n,
		entries:      make([]Entry, 0, len(records)),
		wardsByClean: make(map[string][]*Entry),
		inverted:     make(map[string][]string),
		districts:    make(map[string]struct{}),
		provinces:    make(map[string]struct{}),
	}

	for i, rec := range records {
		ward := n.Normalize(n.CleanName(rec.Ward))
		if ward == "" {
			idx.skipped++
			continue
		}
		e := Entry{
			Record:        rec,
			Pos:           i,
			Ward:          ward,
			DistrictFull:  n.Normalize(rec.District),
			DistrictClean: n.Normalize(n.CleanName(rec.District)),
			ProvinceFull:  n.Normalize(rec.Province),
			ProvinceClean: n.Normalize(n.CleanName(rec.Province)),
			WardWords:     normalizer.WordCount(ward),
		}
		e.DistrictCore = n.CoreName(e.DistrictFull)
		e.ProvinceCore = n.CoreName(e.ProvinceFull)
		idx.entries = append(idx.entries, e)
	}
	if len(idx.entries) == 0 {
		return nil, ErrEmptyDataset
	}

	tokenSets := make(map[string]map[string]struct{})
	higher := make(map[string]struct{})
	for i := range idx.entries {
		e := &idx.entries[i]
		idx.wardsByClean[e.Ward] = append(idx.wardsByClean[e.Ward], e)
		for _, tok := range strings.Fields(e.Ward) {
			if tokenSets[tok] == nil {
				tokenSets[tok] = make(map[string]struct{})
			}
			tokenSets[tok][e.Ward] = struct{}{}
		}
		for _, d := range []string{e.DistrictFull, e.DistrictClean} {
			if d != "" {
				idx.districts[d] = struct{}{}
				higher[d] = struct{}{}
			}
		}
		for _, p := range []string{e.ProvinceFull, e.ProvinceClean} {
			if p != "" {
				idx.provinces[p] = struct{}{}
				higher[p] = struct{}{}
			}
		}
	}

	for tok, set := range tokenSets {
		idx.inverted[tok] = longestFirst(set)
	}
	idx.higherAdmin = longestFirst(higher)

	wards := make(map[string]struct{}, len(idx.wardsByClean))
	for w := range idx.wardsByClean {
		wards[w] = struct{}{}
	}
	idx.wardNames = longestFirst(wards)

	return idx, nil
}

// longestFirst sắp xếp theo độ dài giảm dần, cùng độ dài thì theo alphabet
func longestFirst(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) > len(out[j])
		}
		return out[i] < out[j]
	})
	return out
}

// Normalizer normalizer đã dùng để dựng chỉ mục
func (idx *Index) Normalizer() *normalizer.TextNormalizer { return idx.normalizer }

// Entries toàn bộ bản ghi theo thứ tự dữ liệu gốc. Không được sửa.
func (idx *Index) Entries() []Entry { return idx.entries }

// WardEntries các bản ghi có tên phường sạch tương ứng
func (idx *Index) WardEntries(clean string) []*Entry { return idx.wardsByClean[clean] }

// HasWard tên phường sạch có trong dữ liệu
func (idx *Index) HasWard(clean string) bool {
	_, ok := idx.wardsByClean[clean]
	return ok
}

// IsDistrict tên (đầy đủ hoặc sạch) là một quận/huyện đã biết
func (idx *Index) IsDistrict(name string) bool {
	_, ok := idx.districts[name]
	return ok
}

// IsProvince tên (đầy đủ hoặc sạch) là một tỉnh/thành phố đã biết
func (idx *Index) IsProvince(name string) bool {
	_, ok := idx.provinces[name]
	return ok
}

// IsHigherAdmin tên là quận hoặc tỉnh đã biết
func (idx *Index) IsHigherAdmin(name string) bool {
	return idx.IsDistrict(name) || idx.IsProvince(name)
}

// HigherAdminNames tên quận/tỉnh, dài trước
func (idx *Index) HigherAdminNames() []string { return idx.higherAdmin }

// WardNames tên phường sạch, dài trước
func (idx *Index) WardNames() []string { return idx.wardNames }

// WardsForToken tên phường sạch chứa token
func (idx *Index) WardsForToken(token string) []string { return idx.inverted[token] }

// Records bản sao danh sách bản ghi đã được lập chỉ mục
func (idx *Index) Records() []models.AddressRecord {
	out := make([]models.AddressRecord, len(idx.entries))
	for i := range idx.entries {
		out[i] = idx.entries[i].Record
	}
	return out
}

// Stats thống kê chỉ mục
func (idx *Index) Stats() Stats {
	return Stats{
		Records:   len(idx.entries),
		Skipped:   idx.skipped,
		WardNames: len(idx.wardsByClean),
		Districts: len(idx.districts),
		Provinces: len(idx.provinces),
		Tokens:    len(idx.inverted),
	}
}
