package lib

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHexBytes(t *testing.T) {
	// hex bytes travel as lowercase hex strings in JSON
	x := HexBytes{0xDE, 0xAD, 0xBE, 0xEF}
	require.Equal(t, "deadbeef", x.String())
	bz, err := MarshalJSON(x)
	require.NoError(t, err)
	require.Equal(t, `"deadbeef"`, string(bz))
	var got HexBytes
	require.NoError(t, UnmarshalJSON(bz, &got))
	require.Equal(t, x, got)
	// the string constructor rejects malformed hex
	_, err = NewHexBytesFromString("not-hex")
	require.Error(t, err)
}

func TestBytesToTruncatedString(t *testing.T) {
	// short slices print in full, long ones are clipped to 10 bytes
	require.Equal(t, "abcd", BytesToTruncatedString([]byte{0xAB, 0xCD}))
	long := bytes.Repeat([]byte{0xFF}, 32)
	require.Equal(t, strings.Repeat("ff", 10), BytesToTruncatedString(long))
}

func TestJoinLenPrefix(t *testing.T) {
	// each segment is preceded by its single-byte length; nil segments are skipped
	got := JoinLenPrefix([]byte("ab"), nil, []byte("c"))
	require.Equal(t, []byte{2, 'a', 'b', 1, 'c'}, got)
}

func TestAppend(t *testing.T) {
	a, b := []byte{1, 2}, []byte{3}
	got := Append(a, b)
	require.Equal(t, []byte{1, 2, 3}, got)
	// the result is a fresh allocation: mutating it leaves the inputs alone
	got[0] = 9
	require.Equal(t, []byte{1, 2}, a)
}

func TestJSONFileRoundTrip(t *testing.T) {
	type payload struct {
		Name  string   `json:"name"`
		Bytes HexBytes `json:"bytes"`
	}
	dir := t.TempDir()
	want := payload{Name: "bulletin", Bytes: HexBytes{0x1, 0x2}}
	require.NoError(t, SaveJSONToFile(want, dir, "payload.json"))
	var got payload
	require.NoError(t, NewJSONFromFile(&got, dir, "payload.json"))
	require.Equal(t, want, got)
}
