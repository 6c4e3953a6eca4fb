package bulletin

import (
	"github.com/bulletin-network/bulletin/lib"
	"github.com/emirpasic/gods/sets/linkedhashset"
)

// Whitelist is the authoritative set of committee member identities. Iteration follows
// insertion order, which is the (semantically meaningless but stable) scan order used
// when collecting peer commitments at a height.
type Whitelist struct {
	set *linkedhashset.Set
}

// newWhitelist() returns an empty committee
func newWhitelist() *Whitelist {
	return &Whitelist{set: linkedhashset.New()}
}

// Contains() reports whether the identity is a current committee member
func (w *Whitelist) Contains(member lib.MemberID) bool {
	return w.set.Contains(member)
}

// Add() inserts the identity into the committee
func (w *Whitelist) Add(member lib.MemberID) {
	w.set.Add(member)
}

// Remove() deletes the identity from the committee
func (w *Whitelist) Remove(member lib.MemberID) {
	w.set.Remove(member)
}

// Size() returns the current committee size
func (w *Whitelist) Size() int {
	return w.set.Size()
}

// Members() returns the committee identities in insertion order
func (w *Whitelist) Members() (members []lib.MemberID) {
	for _, v := range w.set.Values() {
		members = append(members, v.(lib.MemberID))
	}
	return
}

// addMember() registers a new committee member and initializes its commitment and reply
// collections; a no-op unless the caller is the privileged identity and the id is novel
func (b *Bulletin) addMember(caller, member lib.MemberID) lib.ErrorI {
	if caller != b.owner {
		return ErrUnauthorized()
	}
	if b.whitelist.Contains(member) {
		return ErrMemberExists(member)
	}
	b.whitelist.Add(member)
	b.commitments.initMember(member)
	b.replies.initMember(member)
	// write the whitelist entry through to the persistent store if one is configured
	if b.store != nil {
		if err := b.store.PutMember(member); err != nil {
			return err
		}
	}
	return nil
}

// removeMember() deregisters a committee member and discards all of its commitments,
// replies, and pending approval rounds; a no-op unless the caller is the privileged
// identity and the id is present
func (b *Bulletin) removeMember(caller, member lib.MemberID) lib.ErrorI {
	if caller != b.owner {
		return ErrUnauthorized()
	}
	if !b.whitelist.Contains(member) {
		return ErrMemberNotFound(member)
	}
	b.whitelist.Remove(member)
	b.commitments.dropMember(member)
	b.replies.dropMember(member)
	// drop any approval round the member had open
	for coord := range b.rounds {
		if coord.member == member {
			delete(b.rounds, coord)
		}
	}
	// cascade the removal to the persistent store if one is configured
	if b.store != nil {
		if err := b.store.DeleteMember(member); err != nil {
			return err
		}
	}
	return nil
}
