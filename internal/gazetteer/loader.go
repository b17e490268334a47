package gazetteer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/address-locator/app/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LoadFile đọc dữ liệu tham chiếu dạng JSON array
func LoadFile(path string) ([]models.AddressRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("lỗi đọc file dữ liệu %s: %w", path, err)
	}
	var records []models.AddressRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("lỗi parse JSON dữ liệu %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("file dữ liệu %s: %w", path, ErrEmptyDataset)
	}
	return records, nil
}

// LoadMongo đọc dữ liệu tham chiếu từ MongoDB, theo thứ tự _id
func LoadMongo(ctx context.Context, collection *mongo.Collection) ([]models.AddressRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("lỗi query collection %s: %w", collection.Name(), err)
	}
	defer cursor.Close(ctx)

	var records []models.AddressRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("lỗi decode bản ghi: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("collection %s: %w", collection.Name(), ErrEmptyDataset)
	}
	return records, nil
}

// SeedMongo thay toàn bộ collection bằng records, ghi theo lô
func SeedMongo(ctx context.Context, collection *mongo.Collection, records []models.AddressRecord, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = 1000
	}
	if _, err := collection.DeleteMany(ctx, bson.M{}); err != nil {
		return 0, fmt.Errorf("lỗi xóa dữ liệu cũ: %w", err)
	}

	inserted := 0
	for start := 0; start < len(records); start += batchSize {
		end := start + batchSize
		if end > len(records) {
			end = len(records)
		}
		docs := make([]interface{}, 0, end-start)
		for _, rec := range records[start:end] {
			rec.ID = primitive.NilObjectID
			docs = append(docs, rec)
		}
		res, err := collection.InsertMany(ctx, docs)
		if err != nil {
			return inserted, fmt.Errorf("lỗi insert lô %d-%d: %w", start, end, err)
		}
		inserted += len(res.InsertedIDs)
	}
	return inserted, nil
}
