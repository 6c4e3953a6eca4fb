package lib

import (
	"bytes"
	"encoding/json"
)

// MemberIDSize is the byte length of a committee member identity
const MemberIDSize = 20

// MemberID is the fixed-size, equality-comparable identity of a committee member.
// The zero value is the designated privileged identity (the bulletin 'owner') unless
// the configuration names a different one.
type MemberID [MemberIDSize]byte

// NewMemberIDFromBytes() converts a byte slice into a MemberID
func NewMemberIDFromBytes(bz []byte) (id MemberID, err ErrorI) {
	if len(bz) != MemberIDSize {
		return id, ErrInvalidMemberID()
	}
	copy(id[:], bz)
	return
}

// NewMemberIDFromString() converts a hexadecimal string into a MemberID
func NewMemberIDFromString(s string) (id MemberID, err ErrorI) {
	bz, err := StringToBytes(s)
	if err != nil {
		return
	}
	return NewMemberIDFromBytes(bz)
}

// Bytes() returns the MemberID as a byte slice
func (m MemberID) Bytes() []byte { return m[:] }

// String() returns the MemberID as a hexadecimal string
func (m MemberID) String() string { return BytesToString(m[:]) }

// Equals() compares two MemberIDs for equality
func (m MemberID) Equals(o MemberID) bool { return bytes.Equal(m[:], o[:]) }

// MarshalJSON() serializes the MemberID as a hexadecimal string
func (m MemberID) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON() deserializes the MemberID from a hexadecimal string
func (m *MemberID) UnmarshalJSON(b []byte) (err error) {
	var s string
	if err = json.Unmarshal(b, &s); err != nil {
		return err
	}
	id, e := NewMemberIDFromString(s)
	if e != nil {
		return e
	}
	*m = id
	return nil
}
