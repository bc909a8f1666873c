package osc

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"math/rand"
	"strconv"
	"testing"

	"github.com/danmuck/nsmclient/internal/testutil/testlog"
	"github.com/google/go-cmp/cmp"
)

func TestEncodeAnnounceLayout(t *testing.T) {
	testlog.Start(t)
	msg := NewMessage("/nsm/server/announce", "App", ":dirty:", "app", 1, 2, 4242)
	got, err := Encode(msg)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	var want []byte
	want = append(want, "/nsm/server/announce\x00\x00\x00\x00"...)
	want = append(want, ",sssiii\x00"...)
	want = append(want, "App\x00"...)
	want = append(want, ":dirty:\x00"...)
	want = append(want, "app\x00"...)
	want = binary.BigEndian.AppendUint32(want, 1)
	want = binary.BigEndian.AppendUint32(want, 2)
	want = binary.BigEndian.AppendUint32(want, 4242)
	if !bytes.Equal(got, want) {
		t.Fatalf("unexpected datagram:\n got=%q\nwant=%q", got, want)
	}
}

func TestEncodeNoArgsCarriesEmptyTagString(t *testing.T) {
	testlog.Start(t)
	got, err := Encode(NewMessage("/nsm/client/is_clean"))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := []byte("/nsm/client/is_clean\x00\x00\x00\x00,\x00\x00\x00")
	if !bytes.Equal(got, want) {
		t.Fatalf("got=%q want=%q", got, want)
	}
}

func TestEncodeRejectsUnsupportedType(t *testing.T) {
	testlog.Start(t)
	_, err := Encode(NewMessage("/x", "ok", []byte{1}))
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
	_, err = Encode(NewMessage("/x", true))
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType for bool, got %v", err)
	}
}

func TestEncodeRejectsIntOutsideInt32(t *testing.T) {
	testlog.Start(t)
	if strconv.IntSize < 64 {
		t.Skip("int is 32 bits wide")
	}
	for _, wide := range []int64{1<<40 + 5, math.MaxInt32 + 1, math.MinInt32 - 1} {
		v := int(wide)
		b, err := Encode(NewMessage("/x", v))
		if !errors.Is(err, ErrUnsupportedType) {
			t.Fatalf("Encode(%d): expected ErrUnsupportedType, got %v", v, err)
		}
		if b != nil {
			t.Fatalf("Encode(%d): expected no datagram, got %q", v, b)
		}
	}

	b, err := Encode(NewMessage("/x", math.MaxInt32, math.MinInt32))
	if err != nil {
		t.Fatalf("encode int32 bounds: %v", err)
	}
	msg, err := Decode(b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !msg.ArgsEqual(int32(math.MaxInt32), int32(math.MinInt32)) {
		t.Fatalf("bounds did not survive: %v", msg.Args)
	}
}

func TestEncodeRejectsUnencodableStrings(t *testing.T) {
	testlog.Start(t)
	cases := []struct {
		name string
		msg  *Message
		want error
	}{
		{"embedded null argument", NewMessage("/x", "a\x00b", "c"), ErrEmbeddedNull},
		{"trailing null argument", NewMessage("/x", "a\x00"), ErrEmbeddedNull},
		{"invalid utf-8 argument", NewMessage("/x", "ok", "\xff\xfe"), ErrInvalidUTF8},
		{"embedded null path", NewMessage("/x\x00y"), ErrEmbeddedNull},
		{"invalid utf-8 path", NewMessage("/\xc3"), ErrInvalidUTF8},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := Encode(tc.msg)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if b != nil {
				t.Fatalf("expected no datagram, got %q", b)
			}
		})
	}
}

func TestEncodeRejectsPathWithoutSlash(t *testing.T) {
	testlog.Start(t)
	if _, err := Encode(NewMessage("reply")); !errors.Is(err, ErrNotMessage) {
		t.Fatalf("expected ErrNotMessage, got %v", err)
	}
}

func TestRoundTripRandomMessages(t *testing.T) {
	testlog.Start(t)
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		msg := randomMessage(rng)
		b, err := Encode(msg)
		if err != nil {
			t.Fatalf("encode #%d: %v", i, err)
		}
		if len(b)%4 != 0 {
			t.Fatalf("encoded length %d is not a multiple of 4", len(b))
		}
		got, err := Decode(b)
		if err != nil {
			t.Fatalf("decode #%d %q: %v", i, b, err)
		}
		want := msg
		if len(want.Args) == 0 {
			want = &Message{Path: msg.Path}
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("round-trip #%d mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestStringSegmentsArePadded(t *testing.T) {
	testlog.Start(t)
	for n := 0; n < 12; n++ {
		s := string(bytes.Repeat([]byte{'a'}, n))
		b := appendString(nil, s)
		if len(b)%4 != 0 {
			t.Fatalf("len(%q) padded to %d", s, len(b))
		}
		if len(b) <= n || b[n] != 0 {
			t.Fatalf("string %q not null terminated: %q", s, b)
		}
	}
}

func TestDecodeTruncatedAlwaysFails(t *testing.T) {
	testlog.Start(t)
	b := MustEncode(NewMessage("/reply", "/nsm/server/announce", "Howdy", int32(7), float32(0.5)))
	for cut := 1; cut < len(b); cut++ {
		msg, err := Decode(b[:cut])
		if err == nil {
			// A cut that lands exactly after the path is a valid
			// argument-less message.
			if cut == PaddedLen(len("/reply")) && msg.Path == "/reply" && len(msg.Args) == 0 {
				continue
			}
			t.Fatalf("cut=%d decoded %+v, expected failure", cut, msg)
		}
		if !errors.Is(err, ErrTruncated) {
			t.Fatalf("cut=%d expected ErrTruncated, got %v", cut, err)
		}
	}
}

func TestDecodeStringCannotStartWithNull(t *testing.T) {
	testlog.Start(t)
	if _, err := Decode([]byte{0, 0, 0, 0}); !errors.Is(err, ErrNullString) {
		t.Fatalf("expected ErrNullString, got %v", err)
	}
}

func TestDecodeEmptyDatagram(t *testing.T) {
	testlog.Start(t)
	if _, err := Decode(nil); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
}

func TestDecodeRequiresLeadingSlash(t *testing.T) {
	testlog.Start(t)
	if _, err := Decode([]byte("#bundle\x00")); !errors.Is(err, ErrNotMessage) {
		t.Fatalf("expected ErrNotMessage, got %v", err)
	}
}

func TestDecodeSkipsUnknownTags(t *testing.T) {
	testlog.Start(t)
	var b []byte
	b = appendString(b, "/x")
	b = appendString(b, ",iTs")
	b = binary.BigEndian.AppendUint32(b, 9)
	b = appendString(b, "tail")
	msg, err := Decode(b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !msg.ArgsEqual(int32(9), "tail") {
		t.Fatalf("unexpected args: %#v", msg.Args)
	}
}

func TestDecodeTagWithoutComma(t *testing.T) {
	testlog.Start(t)
	var b []byte
	b = appendString(b, "/x")
	b = appendString(b, "f")
	b = binary.BigEndian.AppendUint32(b, math.Float32bits(1.5))
	msg, err := Decode(b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if v, err := msg.Float32(0); err != nil || v != 1.5 {
		t.Fatalf("float arg=%v err=%v", v, err)
	}
}

func TestDecodeStringExactlyFourBytesTakesFullPadWord(t *testing.T) {
	testlog.Start(t)
	b := []byte("/abc\x00\x00\x00\x00,s\x00\x00abcd\x00\x00\x00\x00")
	msg, err := Decode(b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if msg.Path != "/abc" || !msg.ArgsEqual("abcd") {
		t.Fatalf("unexpected message: %+v", msg)
	}
	if _, err := Decode(b[:len(b)-1]); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated for short pad, got %v", err)
	}
}

func TestMessageAccessors(t *testing.T) {
	testlog.Start(t)
	msg := NewMessage("/nsm/client/open", "/tmp/s/client.nABC", "MySession", "client.nABC")
	got, err := msg.Strings(3)
	if err != nil {
		t.Fatalf("strings: %v", err)
	}
	if got[2] != "client.nABC" {
		t.Fatalf("unexpected label %q", got[2])
	}
	if _, err := msg.Strings(4); !errors.Is(err, ErrArgumentIndex) {
		t.Fatalf("expected ErrArgumentIndex, got %v", err)
	}
	if _, err := msg.Int32(0); !errors.Is(err, ErrArgumentType) {
		t.Fatalf("expected ErrArgumentType, got %v", err)
	}
}

func randomMessage(rng *rand.Rand) *Message {
	msg := &Message{Path: "/" + randomString(rng, 1+rng.Intn(20))}
	n := rng.Intn(6)
	for i := 0; i < n; i++ {
		switch rng.Intn(3) {
		case 0:
			msg.AddInt32(int32(rng.Uint32()))
		case 1:
			msg.AddFloat32(float32(rng.NormFloat64() * 1000))
		default:
			msg.AddString(randomString(rng, rng.Intn(11)))
		}
	}
	return msg
}

func randomString(rng *rand.Rand, n int) string {
	const alphabet = "abcdefghijklmnopqrstuvwxyz/_.-:0123456789 "
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[rng.Intn(len(alphabet))]
	}
	return string(b)
}
