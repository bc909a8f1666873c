package osc

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

// Type tag characters understood by the codec.
const (
	TagInt32   byte = 'i'
	TagFloat32 byte = 'f'
	TagString  byte = 's'
)

const align = 4

// Message is one decoded or outgoing datagram.
//
// Args holds only int32, float32 and string values. Decoded messages always
// satisfy this; outgoing messages are checked by Encode.
type Message struct {
	Path string
	Args []any
}

// NewMessage creates an outgoing message with its path fixed.
func NewMessage(path string, args ...any) *Message {
	m := &Message{Path: path}
	for _, arg := range args {
		m.Add(arg)
	}
	return m
}

// Add appends one argument. Go int values within the int32 range and
// float64 values are narrowed to the 32-bit wire types; anything else,
// including out-of-range ints, is kept as-is and rejected by Encode.
func (m *Message) Add(arg any) *Message {
	switch v := arg.(type) {
	case int:
		if v >= math.MinInt32 && v <= math.MaxInt32 {
			arg = int32(v)
		}
	case float64:
		arg = float32(v)
	}
	m.Args = append(m.Args, arg)
	return m
}

// AddString appends a string argument.
func (m *Message) AddString(v string) *Message {
	m.Args = append(m.Args, v)
	return m
}

// AddInt32 appends an integer argument.
func (m *Message) AddInt32(v int32) *Message {
	m.Args = append(m.Args, v)
	return m
}

// AddFloat32 appends a float argument.
func (m *Message) AddFloat32(v float32) *Message {
	m.Args = append(m.Args, v)
	return m
}

// TypeTags returns the tag string without the leading comma.
func (m *Message) TypeTags() (string, error) {
	var b strings.Builder
	for i, arg := range m.Args {
		tag, err := tagFor(arg)
		if err != nil {
			return "", fmt.Errorf("%w: argument %d is %T", err, i, arg)
		}
		b.WriteByte(tag)
	}
	return b.String(), nil
}

// String returns argument i as a string.
func (m *Message) String(i int) (string, error) {
	arg, err := m.arg(i)
	if err != nil {
		return "", err
	}
	v, ok := arg.(string)
	if !ok {
		return "", fmt.Errorf("%w: argument %d is %T, want string", ErrArgumentType, i, arg)
	}
	return v, nil
}

// Int32 returns argument i as an integer.
func (m *Message) Int32(i int) (int32, error) {
	arg, err := m.arg(i)
	if err != nil {
		return 0, err
	}
	v, ok := arg.(int32)
	if !ok {
		return 0, fmt.Errorf("%w: argument %d is %T, want int32", ErrArgumentType, i, arg)
	}
	return v, nil
}

// Float32 returns argument i as a float.
func (m *Message) Float32(i int) (float32, error) {
	arg, err := m.arg(i)
	if err != nil {
		return 0, err
	}
	v, ok := arg.(float32)
	if !ok {
		return 0, fmt.Errorf("%w: argument %d is %T, want float32", ErrArgumentType, i, arg)
	}
	return v, nil
}

// Strings returns all arguments as strings, requiring exactly n of them.
func (m *Message) Strings(n int) ([]string, error) {
	if len(m.Args) != n {
		return nil, fmt.Errorf("%w: have %d arguments, want %d", ErrArgumentIndex, len(m.Args), n)
	}
	out := make([]string, n)
	for i := range out {
		v, err := m.String(i)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// ArgsEqual reports whether the message arguments equal want, element by
// element, with float arguments compared bit-for-bit.
func (m *Message) ArgsEqual(want ...any) bool {
	if len(m.Args) != len(want) {
		return false
	}
	for i := range want {
		a, b := m.Args[i], want[i]
		if fa, ok := a.(float32); ok {
			fb, ok := b.(float32)
			if !ok || math.Float32bits(fa) != math.Float32bits(fb) {
				return false
			}
			continue
		}
		if a != b {
			return false
		}
	}
	return true
}

func (m *Message) arg(i int) (any, error) {
	if i < 0 || i >= len(m.Args) {
		return nil, fmt.Errorf("%w: %d of %d", ErrArgumentIndex, i, len(m.Args))
	}
	return m.Args[i], nil
}

func tagFor(arg any) (byte, error) {
	switch v := arg.(type) {
	case int32:
		return TagInt32, nil
	case float32:
		return TagFloat32, nil
	case string:
		if err := checkString(v); err != nil {
			return 0, err
		}
		return TagString, nil
	case int:
		if v < math.MinInt32 || v > math.MaxInt32 {
			return 0, fmt.Errorf("%w: %d overflows int32", ErrUnsupportedType, v)
		}
		return 0, ErrUnsupportedType
	default:
		return 0, ErrUnsupportedType
	}
}

// checkString rejects strings the null-terminated wire form cannot carry.
func checkString(s string) error {
	if strings.IndexByte(s, 0) >= 0 {
		return ErrEmbeddedNull
	}
	if !utf8.ValidString(s) {
		return ErrInvalidUTF8
	}
	return nil
}
