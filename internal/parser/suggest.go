package parser

import (
	"sort"

	"github.com/address-locator/app/models"
	"github.com/agnivade/levenshtein"
	"github.com/xrash/smetrics"
)

type suggestion struct {
	ward     string
	sim      float64
	distance int
}

// Suggest gợi ý các tên phường gần đúng với query đã chuẩn hóa.
// Xếp theo Jaro-Winkler giảm dần, hòa thì theo khoảng cách Levenshtein.
func (ap *AddressParser) Suggest(query string, limit int, minSimilarity float64) []models.WardSuggestion {
	if query == "" || limit <= 0 {
		return nil
	}

	var found []suggestion
	for _, ward := range ap.index.WardNames() {
		sim := smetrics.JaroWinkler(query, ward, 0.7, 4)
		if sim < minSimilarity {
			continue
		}
		found = append(found, suggestion{
			ward:     ward,
			sim:      sim,
			distance: levenshtein.ComputeDistance(query, ward),
		})
	}

	sort.SliceStable(found, func(i, j int) bool {
		if found[i].sim != found[j].sim {
			return found[i].sim > found[j].sim
		}
		if found[i].distance != found[j].distance {
			return found[i].distance < found[j].distance
		}
		return found[i].ward < found[j].ward
	})

	var out []models.WardSuggestion
	for _, s := range found {
		for _, e := range ap.index.WardEntries(s.ward) {
			if len(out) == limit {
				return out
			}
			out = append(out, models.WardSuggestion{
				Ward:       e.Record.Ward,
				District:   e.Record.District,
				Province:   e.Record.Province,
				Similarity: s.sim,
			})
		}
	}
	return out
}
