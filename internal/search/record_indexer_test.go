package search

import (
	"errors"
	"fmt"
	"testing"

	"github.com/address-locator/app/models"
	"github.com/meilisearch/meilisearch-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeIndex struct {
	settings *meilisearch.Settings
	batches  [][]RecordDocument
	failAt   int
	hits     []interface{}
	query    string
	limit    int64
}

func (f *fakeIndex) UpdateSettings(s *meilisearch.Settings) (*meilisearch.TaskInfo, error) {
	f.settings = s
	return &meilisearch.TaskInfo{TaskUID: 1}, nil
}

func (f *fakeIndex) AddDocuments(docs interface{}, primaryKey ...string) (*meilisearch.TaskInfo, error) {
	if f.failAt > 0 && len(f.batches)+1 == f.failAt {
		return nil, errors.New("boom")
	}
	f.batches = append(f.batches, docs.([]RecordDocument))
	return &meilisearch.TaskInfo{TaskUID: int64(len(f.batches))}, nil
}

func (f *fakeIndex) Search(q string, req *meilisearch.SearchRequest) (*meilisearch.SearchResponse, error) {
	f.query, f.limit = q, req.Limit
	return &meilisearch.SearchResponse{Hits: f.hits}, nil
}

func sampleRecords(n int) []models.AddressRecord {
	out := make([]models.AddressRecord, n)
	for i := range out {
		out[i] = models.AddressRecord{
			Ward:     fmt.Sprintf("Phường %d", i+1),
			District: "Quận 3",
			Province: "Thành phố Hồ Chí Minh",
		}
	}
	return out
}

func TestRecordIndexer_SeedRecordsBatches(t *testing.T) {
	idx := &fakeIndex{}
	ri := newRecordIndexer(idx, 2, zap.NewNop())

	sent, err := ri.SeedRecords(sampleRecords(5))
	require.NoError(t, err)
	assert.Equal(t, 5, sent)
	require.Len(t, idx.batches, 3)
	assert.Len(t, idx.batches[0], 2)
	assert.Len(t, idx.batches[2], 1)
	assert.Equal(t, "Phường 5", idx.batches[2][0].Ward)
}

func TestRecordIndexer_SeedRecordsErrors(t *testing.T) {
	ri := newRecordIndexer(&fakeIndex{}, 0, nil)
	_, err := ri.SeedRecords(nil)
	assert.ErrorIs(t, err, ErrNoRecords)

	idx := &fakeIndex{failAt: 2}
	ri = newRecordIndexer(idx, 2, nil)
	sent, err := ri.SeedRecords(sampleRecords(5))
	assert.Error(t, err)
	assert.Equal(t, 2, sent)
}

func TestRecordIndexer_ConfigureIndex(t *testing.T) {
	idx := &fakeIndex{}
	ri := newRecordIndexer(idx, 0, nil)

	require.NoError(t, ri.ConfigureIndex())
	require.NotNil(t, idx.settings)
	assert.Contains(t, idx.settings.SearchableAttributes, "normalized_ward")
	assert.Contains(t, idx.settings.FilterableAttributes, "normalized_province")
	assert.Equal(t, []string{"ho chi minh", "sai gon"}, idx.settings.Synonyms["hcm"])
}

func TestNewRecordDocument(t *testing.T) {
	rec := models.AddressRecord{
		Ward:     "Phường Bến Nghé",
		District: "Quận 1",
		Province: "Thành phố Hồ Chí Minh",
		NewWard:  "Phường Sài Gòn",
	}
	doc := NewRecordDocument(rec)

	assert.Equal(t, "phuong ben nghe", doc.NormalizedWard)
	assert.Equal(t, "quan 1", doc.NormalizedDistrict)
	assert.Equal(t, "Phường Sài Gòn", doc.NewWard)
	assert.Equal(t, doc.ID, NewRecordDocument(rec).ID)

	rec.District = "Quận 3"
	assert.NotEqual(t, doc.ID, NewRecordDocument(rec).ID)
}

func TestRecordIndexer_Search(t *testing.T) {
	idx := &fakeIndex{hits: []interface{}{
		map[string]interface{}{"ward": "Phường Bến Nghé", "district": "Quận 1", "province": "Thành phố Hồ Chí Minh", "fullnew": "Phường Sài Gòn, Thành phố Hồ Chí Minh"},
		"not a document",
	}}
	ri := newRecordIndexer(idx, 0, nil)

	got, err := ri.Search("ben nghe", 5)
	require.NoError(t, err)
	assert.Equal(t, "ben nghe", idx.query)
	assert.Equal(t, int64(5), idx.limit)
	require.Len(t, got, 1)
	assert.Equal(t, "Phường Bến Nghé", got[0].Ward)
	assert.Equal(t, "Phường Sài Gòn, Thành phố Hồ Chí Minh", got[0].FullNew)

	assert.NoError(t, ri.Health())
}
