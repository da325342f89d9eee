package catalog

import (
	"time"

	proto "github.com/gogo/protobuf/proto"
)

// entryRecord is the stored form of an Entry.
type entryRecord struct {
	Name     string `protobuf:"bytes,1,opt,name=name,proto3" json:"name,omitempty"`
	Source   string `protobuf:"bytes,2,opt,name=source,proto3" json:"source,omitempty"`
	Revision string `protobuf:"bytes,3,opt,name=revision,proto3" json:"revision,omitempty"`
	Updated  int64  `protobuf:"varint,4,opt,name=updated,proto3" json:"updated,omitempty"` // unix nanoseconds (UTC)
}

func (m *entryRecord) Reset()         { *m = entryRecord{} }
func (m *entryRecord) String() string { return proto.CompactTextString(m) }
func (*entryRecord) ProtoMessage()    {}

func (entry *Entry) marshal() ([]byte, error) {
	return proto.Marshal(&entryRecord{
		Name:     entry.Name,
		Source:   entry.Source,
		Revision: entry.Revision,
		Updated:  entry.Updated.UnixNano(),
	})
}

func (entry *Entry) unmarshal(val []byte) error {
	var rec entryRecord
	if err := proto.Unmarshal(val, &rec); err != nil {
		return err
	}
	*entry = Entry{
		Name:     rec.Name,
		Source:   rec.Source,
		Revision: rec.Revision,
		Updated:  time.Unix(0, rec.Updated).UTC(),
	}
	return nil
}
