package utils

import (
	"encoding/binary"
	"strconv"
	"strings"
	"unicode"

	"go.uber.org/zap"
)

// DecodeCounter converts a raw cell value into an integer. Values may arrive as
// native numbers, decimal text, or big-endian binary counters (1, 2, 4 or 8 bytes)
// carried either in a string or a byte slice. It never fails: anything that cannot
// be decoded yields 0.
func DecodeCounter(value interface{}) int64 {
	switch v := value.(type) {
	case nil:
		return 0
	case int:
		return int64(v)
	case int8:
		return int64(v)
	case int16:
		return int64(v)
	case int32:
		return int64(v)
	case int64:
		return v
	case uint:
		return int64(v)
	case uint8:
		return int64(v)
	case uint16:
		return int64(v)
	case uint32:
		return int64(v)
	case uint64:
		return int64(v)
	case float32:
		return int64(v)
	case float64:
		return int64(v)
	case string:
		return decodeText(v)
	case []byte:
		return decodeBytes(v)
	}
	return 0
}

// decodeText only treats the string as binary when it carries a NUL byte;
// plain digits written by text clients must not be read as raw bytes.
func decodeText(s string) int64 {
	if strings.IndexByte(s, 0) >= 0 {
		if n, ok := decodeFixedWidth([]byte(s)); ok {
			return n
		}
	}
	n, _ := ParseLeadingInt(s)
	return n
}

func decodeBytes(b []byte) int64 {
	if n, ok := decodeFixedWidth(b); ok {
		return n
	}
	n, ok := ParseLeadingInt(string(b))
	if !ok {
		zap.L().Warn("failed to parse bytes to int", zap.Binary("value", b))
		return 0
	}
	return n
}

func decodeFixedWidth(b []byte) (int64, bool) {
	switch len(b) {
	case 1:
		return int64(int8(b[0])), true
	case 2:
		return int64(int16(binary.BigEndian.Uint16(b))), true
	case 4:
		return int64(int32(binary.BigEndian.Uint32(b))), true
	case 8:
		return int64(binary.BigEndian.Uint64(b)), true
	}
	return 0, false
}

// ParseLeadingInt parses the leading base-10 integer of s, ignoring surrounding
// whitespace and any trailing garbage ("12abc" is 12). It reports false when s
// has no leading digits or the value overflows int64.
func ParseLeadingInt(s string) (int64, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// EncodeCounter32 renders v as a 4-byte big-endian counter.
func EncodeCounter32(v int32) []byte {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, uint32(v))
	return buf
}

// EncodeCounter64 renders v as an 8-byte big-endian counter, the width HBase
// uses for incremented columns.
func EncodeCounter64(v int64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(v))
	return buf
}
