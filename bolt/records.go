package bolt

import proto "github.com/gogo/protobuf/proto"

// Record types stored in bolt buckets. They are encoded by the proto
// package's reflection-based marshaler; field numbers are listed in
// bolt.proto and must not be reused.

type PriceObservation struct {
	ProductID string `protobuf:"bytes,1,opt,name=ProductID,proto3" json:"ProductID,omitempty"`
	Price     string `protobuf:"bytes,2,opt,name=Price,proto3" json:"Price,omitempty"`
	Timestamp int64  `protobuf:"varint,3,opt,name=Timestamp,proto3" json:"Timestamp,omitempty"`
}

func (m *PriceObservation) Reset()         { *m = PriceObservation{} }
func (m *PriceObservation) String() string { return proto.CompactTextString(m) }
func (*PriceObservation) ProtoMessage()    {}

func (m *PriceObservation) GetProductID() string {
	if m != nil {
		return m.ProductID
	}
	return ""
}

func (m *PriceObservation) GetPrice() string {
	if m != nil {
		return m.Price
	}
	return ""
}

func (m *PriceObservation) GetTimestamp() int64 {
	if m != nil {
		return m.Timestamp
	}
	return 0
}

type Entry struct {
	ID         string `protobuf:"bytes,1,opt,name=ID,proto3" json:"ID,omitempty"`
	Phone      string `protobuf:"bytes,2,opt,name=Phone,proto3" json:"Phone,omitempty"`
	MerchantID string `protobuf:"bytes,3,opt,name=MerchantID,proto3" json:"MerchantID,omitempty"`
	ProductID  string `protobuf:"bytes,4,opt,name=ProductID,proto3" json:"ProductID,omitempty"`
	AddedAt    int64  `protobuf:"varint,5,opt,name=AddedAt,proto3" json:"AddedAt,omitempty"`
}

func (m *Entry) Reset()         { *m = Entry{} }
func (m *Entry) String() string { return proto.CompactTextString(m) }
func (*Entry) ProtoMessage()    {}

func (m *Entry) GetID() string {
	if m != nil {
		return m.ID
	}
	return ""
}

func (m *Entry) GetPhone() string {
	if m != nil {
		return m.Phone
	}
	return ""
}

func (m *Entry) GetMerchantID() string {
	if m != nil {
		return m.MerchantID
	}
	return ""
}

func (m *Entry) GetProductID() string {
	if m != nil {
		return m.ProductID
	}
	return ""
}

func (m *Entry) GetAddedAt() int64 {
	if m != nil {
		return m.AddedAt
	}
	return 0
}

type User struct {
	ID        string `protobuf:"bytes,1,opt,name=ID,proto3" json:"ID,omitempty"`
	Phone     string `protobuf:"bytes,2,opt,name=Phone,proto3" json:"Phone,omitempty"`
	CreatedAt int64  `protobuf:"varint,3,opt,name=CreatedAt,proto3" json:"CreatedAt,omitempty"`
}

func (m *User) Reset()         { *m = User{} }
func (m *User) String() string { return proto.CompactTextString(m) }
func (*User) ProtoMessage()    {}

func (m *User) GetID() string {
	if m != nil {
		return m.ID
	}
	return ""
}

func (m *User) GetPhone() string {
	if m != nil {
		return m.Phone
	}
	return ""
}

func (m *User) GetCreatedAt() int64 {
	if m != nil {
		return m.CreatedAt
	}
	return 0
}

func init() {
	proto.RegisterType((*PriceObservation)(nil), "bolt.PriceObservation")
	proto.RegisterType((*Entry)(nil), "bolt.Entry")
	proto.RegisterType((*User)(nil), "bolt.User")
}
