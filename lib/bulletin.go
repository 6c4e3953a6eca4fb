package lib

/* This file holds the shared bulletin domain types and the persistence interface the host may satisfy */

const (
	// VerdictOK is the approval verdict a committee member casts for a pending view
	VerdictOK = "OK"
	// VerdictNOK is the only verdict that counts as a disapproval; any other string approves
	VerdictNOK = "NOK"
	// RollingHashNone is the rolling hash of a height with no predecessor commitment
	RollingHashNone = "None"
)

// Commitment is the (View, RollingHash) pair published for a (member, height) coordinate.
// A View is an opaque snapshot of an external permissioned ledger's state at a height; the
// RollingHash chains the view to the full history of the member's prior views.
// Once written for a coordinate a Commitment is immutable: first write wins.
type Commitment struct {
	View        HexBytes `json:"view"`
	RollingHash string   `json:"rollingHash"`
}

// Copy() returns a deep copy of the Commitment
func (c *Commitment) Copy() *Commitment {
	if c == nil {
		return nil
	}
	view := make(HexBytes, len(c.View))
	copy(view, c.View)
	return &Commitment{View: view, RollingHash: c.RollingHash}
}

// Equals() compares two Commitments field by field
func (c *Commitment) Equals(o *Commitment) bool {
	if c == nil || o == nil {
		return c == o
	}
	return c.View.String() == o.View.String() && c.RollingHash == o.RollingHash
}

// BulletinStoreI is the narrow persistence interface the bulletin writes committed state
// through. Persistence layout is delegated to the host; a nil store keeps the bulletin in
// memory only.
type BulletinStoreI interface {
	PutMember(member MemberID) ErrorI                                       // persist a whitelist entry
	DeleteMember(member MemberID) ErrorI                                    // remove a whitelist entry and all of the member's commitments
	PutCommitment(member MemberID, height int64, c *Commitment) ErrorI      // persist a committed (member, height) pair
	GetCommitment(member MemberID, height int64) (*Commitment, ErrorI)      // load a single commitment; nil if absent
	ForEachMember(fn func(member MemberID) ErrorI) ErrorI                   // iterate persisted whitelist entries
	ForEachCommitment(fn func(m MemberID, h int64, c *Commitment) ErrorI) ErrorI // iterate persisted commitments
	Close() ErrorI                                                          // release the underlying database
}
