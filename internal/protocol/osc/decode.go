package osc

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
)

// Decode parses one datagram.
//
// The type tag string is optional; its leading comma is stripped when
// present. Unknown tag characters are logged and skipped without consuming
// argument bytes. Any shortfall of bytes fails the whole decode.
func Decode(dgram []byte) (*Message, error) {
	path, offset, err := readString(dgram, 0)
	if err != nil {
		return nil, err
	}
	if path[0] != '/' {
		return nil, fmt.Errorf("%w: %q", ErrNotMessage, path)
	}
	msg := &Message{Path: path}
	if offset == len(dgram) {
		return msg, nil
	}

	tags, offset, err := readString(dgram, offset)
	if err != nil {
		return nil, err
	}
	if tags[0] == ',' {
		tags = tags[1:]
	}

	for i := 0; i < len(tags); i++ {
		switch tags[i] {
		case TagInt32:
			v, next, err := readUint32(dgram, offset)
			if err != nil {
				return nil, err
			}
			msg.Args = append(msg.Args, int32(v))
			offset = next
		case TagFloat32:
			v, next, err := readUint32(dgram, offset)
			if err != nil {
				return nil, err
			}
			msg.Args = append(msg.Args, math.Float32frombits(v))
			offset = next
		case TagString:
			v, next, err := readArgString(dgram, offset)
			if err != nil {
				return nil, err
			}
			msg.Args = append(msg.Args, v)
			offset = next
		default:
			log.Warn().Str("path", path).Str("tag", string(tags[i])).Msg("osc: unhandled argument type, skipping")
		}
	}
	return msg, nil
}

// readString parses a non-empty null-terminated, 4-byte aligned string at
// offset and returns it with the offset just past its padding.
func readString(dgram []byte, offset int) (string, int, error) {
	if offset >= len(dgram) {
		return "", 0, ErrTruncated
	}
	n := bytes.IndexByte(dgram[offset:], 0)
	if n < 0 {
		return "", 0, fmt.Errorf("%w: unterminated string at offset %d", ErrTruncated, offset)
	}
	if n == 0 {
		return "", 0, fmt.Errorf("%w: offset %d", ErrNullString, offset)
	}
	return finishString(dgram, offset, n)
}

// readArgString is readString for string arguments, which may be empty:
// an empty argument is four null bytes.
func readArgString(dgram []byte, offset int) (string, int, error) {
	if offset >= len(dgram) {
		return "", 0, ErrTruncated
	}
	n := bytes.IndexByte(dgram[offset:], 0)
	if n < 0 {
		return "", 0, fmt.Errorf("%w: unterminated string at offset %d", ErrTruncated, offset)
	}
	return finishString(dgram, offset, n)
}

func finishString(dgram []byte, offset, n int) (string, int, error) {
	end := offset + PaddedLen(n)
	if end > len(dgram) {
		return "", 0, fmt.Errorf("%w: string padding at offset %d", ErrTruncated, offset)
	}
	raw := dgram[offset : offset+n]
	if !utf8.Valid(raw) {
		return "", 0, fmt.Errorf("%w: offset %d", ErrInvalidUTF8, offset)
	}
	return string(raw), end, nil
}

func readUint32(dgram []byte, offset int) (uint32, int, error) {
	if len(dgram)-offset < align {
		return 0, 0, fmt.Errorf("%w: need %d bytes at offset %d", ErrTruncated, align, offset)
	}
	return binary.BigEndian.Uint32(dgram[offset : offset+align]), offset + align, nil
}
