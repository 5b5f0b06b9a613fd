package bolt

import (
	"encoding/binary"
	"fmt"
	"time"
)

// Bucket names.
var (
	pricesBucket         = []byte("Prices")
	entriesBucket        = []byte("Entries")
	entriesPhoneBucket   = []byte("Entries.Phone")
	entriesUniqueBucket  = []byte("Entries.Unique")
	productEntriesBucket = []byte("Products.Entries")
	usersBucket          = []byte("Users")
	usersPhoneBucket     = []byte("Users.Phone")
)

// itob returns an 8-byte big-endian encoded byte slice of v.
func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

func encodeTime(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func decodeTime(v int64) time.Time {
	if v == 0 {
		return time.Time{}
	}
	return time.Unix(0, v).UTC()
}

// makeObservationKey returns a key that sorts observations by timestamp and
// then by insertion sequence.
func makeObservationKey(t time.Time, seq uint64) []byte {
	return append(itob(uint64(encodeTime(t))), itob(seq)...)
}

// makeIndexKey encodes each part as a 4-byte big-endian length followed by
// its bytes. Parts may contain any byte, including zero.
func makeIndexKey(parts ...string) []byte {
	n := 0
	for _, part := range parts {
		n += 4 + len(part)
	}

	buf := make([]byte, 0, n)
	for _, part := range parts {
		buf = binary.BigEndian.AppendUint32(buf, uint32(len(part)))
		buf = append(buf, part...)
	}
	return buf
}

// makeIndexPrefix returns the prefix matching every index key that starts with parts.
func makeIndexPrefix(parts ...string) []byte {
	return makeIndexKey(parts...)
}

// splitIndexKey decodes an index key into its parts. Returns false if the
// key is truncated.
func splitIndexKey(key []byte) ([]string, bool) {
	var parts []string
	for len(key) > 0 {
		if len(key) < 4 {
			return nil, false
		}
		n := binary.BigEndian.Uint32(key)
		key = key[4:]
		if uint64(n) > uint64(len(key)) {
			return nil, false
		}
		parts = append(parts, string(key[:n]))
		key = key[n:]
	}
	return parts, true
}

// assert panics with a formatted message if condition is false.
func assert(condition bool, format string, a ...interface{}) {
	if !condition {
		panic(fmt.Sprintf(format, a...))
	}
}
