package osc

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Encode returns the datagram for msg.
//
// An argument-less message still carries an empty type tag string (",").
// Arguments other than int32, float32 and string fail the whole encode, as
// do strings holding a null byte or invalid UTF-8; no partial datagram is
// returned.
func Encode(msg *Message) ([]byte, error) {
	if msg == nil {
		return nil, ErrNotMessage
	}
	if len(msg.Path) == 0 || msg.Path[0] != '/' {
		return nil, fmt.Errorf("%w: %q", ErrNotMessage, msg.Path)
	}
	if err := checkString(msg.Path); err != nil {
		return nil, fmt.Errorf("%w: path %q", err, msg.Path)
	}
	tags, err := msg.TypeTags()
	if err != nil {
		return nil, err
	}

	buf := make([]byte, 0, encodedLength(msg.Path, tags, msg.Args))
	buf = appendString(buf, msg.Path)
	buf = appendString(buf, ","+tags)
	for _, arg := range msg.Args {
		switch v := arg.(type) {
		case int32:
			buf = binary.BigEndian.AppendUint32(buf, uint32(v))
		case float32:
			buf = binary.BigEndian.AppendUint32(buf, math.Float32bits(v))
		case string:
			buf = appendString(buf, v)
		}
	}
	return buf, nil
}

// MustEncode is Encode for messages built from constant shapes. It panics
// on unsupported argument types.
func MustEncode(msg *Message) []byte {
	b, err := Encode(msg)
	if err != nil {
		panic(err)
	}
	return b
}

// PaddedLen returns the wire length of a string of n bytes: the string, a
// terminating null, then nulls up to the next multiple of 4.
func PaddedLen(n int) int {
	return n + align - n%align
}

func appendString(buf []byte, s string) []byte {
	buf = append(buf, s...)
	for i := PaddedLen(len(s)) - len(s); i > 0; i-- {
		buf = append(buf, 0)
	}
	return buf
}

func encodedLength(path, tags string, args []any) int {
	total := PaddedLen(len(path)) + PaddedLen(len(tags)+1)
	for _, arg := range args {
		if s, ok := arg.(string); ok {
			total += PaddedLen(len(s))
			continue
		}
		total += align
	}
	return total
}
