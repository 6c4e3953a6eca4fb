package bulletin

import (
	"github.com/bulletin-network/bulletin/lib"
)

// ReplyTracker holds, per (evaluated member, height), the verdicts cast by other committee
// members for a pending view. Collections are created lazily when an approval round opens,
// grow append-only with no dedup, and are purged on timeout rollback or approval.
type ReplyTracker struct {
	replies map[lib.MemberID]map[int64][]string
}

// newReplyTracker() returns an empty reply tracker
func newReplyTracker() *ReplyTracker {
	return &ReplyTracker{replies: make(map[lib.MemberID]map[int64][]string)}
}

// initMember() creates the empty per-member collection
func (r *ReplyTracker) initMember(member lib.MemberID) {
	if _, ok := r.replies[member]; !ok {
		r.replies[member] = make(map[int64][]string)
	}
}

// dropMember() discards every reply collection kept for the member
func (r *ReplyTracker) dropMember(member lib.MemberID) {
	delete(r.replies, member)
}

// open() lazily creates (or reuses) the reply collection for the coordinate
func (r *ReplyTracker) open(member lib.MemberID, height int64) {
	r.initMember(member)
	if _, ok := r.replies[member][height]; !ok {
		r.replies[member][height] = []string{}
	}
}

// isOpen() reports whether a reply collection exists for the coordinate
func (r *ReplyTracker) isOpen(member lib.MemberID, height int64) bool {
	heights, ok := r.replies[member]
	if !ok {
		return false
	}
	_, ok = heights[height]
	return ok
}

// append() records a verdict for the coordinate; replies are only collected while a
// round has the collection open
func (r *ReplyTracker) append(member lib.MemberID, height int64, verdict string) bool {
	if !r.isOpen(member, height) {
		return false
	}
	r.replies[member][height] = append(r.replies[member][height], verdict)
	return true
}

// count() returns the number of verdicts collected for the coordinate
func (r *ReplyTracker) count(member lib.MemberID, height int64) int {
	heights, ok := r.replies[member]
	if !ok {
		return 0
	}
	return len(heights[height])
}

// hasNOK() reports whether any collected verdict is a disapproval; all other strings
// count as approvals
func (r *ReplyTracker) hasNOK(member lib.MemberID, height int64) bool {
	heights, ok := r.replies[member]
	if !ok {
		return false
	}
	for _, verdict := range heights[height] {
		if verdict == lib.VerdictNOK {
			return true
		}
	}
	return false
}

// get() returns the collected verdicts for the coordinate; nil when the collection
// was never opened or was rolled back
func (r *ReplyTracker) get(member lib.MemberID, height int64) []string {
	heights, ok := r.replies[member]
	if !ok {
		return nil
	}
	return heights[height]
}

// purge() discards the reply collection for the coordinate
func (r *ReplyTracker) purge(member lib.MemberID, height int64) {
	if heights, ok := r.replies[member]; ok {
		delete(heights, height)
	}
}
