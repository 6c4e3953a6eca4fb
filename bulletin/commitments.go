package bulletin

import (
	"github.com/bulletin-network/bulletin/lib"
)

// CommitmentStore holds the per-member, per-height published (view, rollingHash) pairs.
// A coordinate is written at most once, ever: tryInsert is first-write-wins.
type CommitmentStore struct {
	commitments map[lib.MemberID]map[int64]*lib.Commitment
}

// newCommitmentStore() returns an empty commitment store
func newCommitmentStore() *CommitmentStore {
	return &CommitmentStore{commitments: make(map[lib.MemberID]map[int64]*lib.Commitment)}
}

// initMember() creates the empty per-member collection
func (c *CommitmentStore) initMember(member lib.MemberID) {
	if _, ok := c.commitments[member]; !ok {
		c.commitments[member] = make(map[int64]*lib.Commitment)
	}
}

// dropMember() discards every commitment the member ever published
func (c *CommitmentStore) dropMember(member lib.MemberID) {
	delete(c.commitments, member)
}

// get() returns the commitment at (member, height) or nil if absent
func (c *CommitmentStore) get(member lib.MemberID, height int64) *lib.Commitment {
	heights, ok := c.commitments[member]
	if !ok {
		return nil
	}
	return heights[height]
}

// tryInsert() writes the commitment only if the coordinate is still vacant, guaranteeing
// at-most-one commitment per (member, height) ever
func (c *CommitmentStore) tryInsert(member lib.MemberID, height int64, commitment *lib.Commitment) bool {
	c.initMember(member)
	if _, exists := c.commitments[member][height]; exists {
		return false
	}
	c.commitments[member][height] = commitment
	return true
}

// allAtHeight() collects the commitments every listed member published at the given
// height, in the provided (whitelist) iteration order
func (c *CommitmentStore) allAtHeight(height int64, order []lib.MemberID) (result []*lib.Commitment) {
	for _, member := range order {
		if commitment := c.get(member, height); commitment != nil {
			result = append(result, commitment)
		}
	}
	return
}
