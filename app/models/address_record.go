package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// AddressRecord một bản ghi đơn vị hành chính trong dữ liệu tham chiếu
type AddressRecord struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Ward        string             `bson:"ward" json:"ward"`         // Phường/xã (tên hiển thị gốc)
	District    string             `bson:"district" json:"district"` // Quận/huyện
	Province    string             `bson:"province" json:"province"` // Tỉnh/thành phố
	NewWard     string             `bson:"newward" json:"newward"`   // Tên phường/xã sau sáp nhập
	NewProvince string             `bson:"newprov" json:"newprov"`   // Tên tỉnh sau sáp nhập
	FullNew     string             `bson:"fullnew" json:"fullnew"`   // Địa chỉ đầy đủ sau sáp nhập
}

// SameLocation so sánh theo các trường địa lý (không tính ID)
func (r AddressRecord) SameLocation(other AddressRecord) bool {
	return r.Ward == other.Ward && r.District == other.District && r.Province == other.Province
}
