package bulletin

import (
	"bytes"
	"sync"

	"github.com/bulletin-network/bulletin/lib"
	"github.com/bulletin-network/bulletin/metrics"
)

/*
	The Bulletin is a shared, append-mostly ledger in which the members of a fixed
	permissioned committee publish views (opaque state snapshots of an external
	blockchain at a given height) together with a rolling hash chaining each view to
	its predecessor. A newly proposed view is published either on the fast path (the
	view is already accepted by a peer at that height and the hash chain verifies) or
	after a bounded-time quorum-approval vote among the committee.

	Every externally invoked operation executes to completion under a single lock and
	either fully applies or fully rolls back. Operations never fail toward the caller:
	unauthorized, duplicate, rejected, and timed-out requests are silent no-ops whose
	only trace is the emitted events (or their absence).
*/

// Bulletin owns all protocol state; there is no hidden global mutability
type Bulletin struct {
	owner         lib.MemberID          // the privileged identity for membership, clock, and timeout calls
	whitelist     *Whitelist            // the committee
	commitments   *CommitmentStore      // published (view, rollingHash) pairs per (member, height)
	replies       *ReplyTracker         // verdicts collected for pending views
	rounds        map[coordinate]*Round // suspended approval rounds
	currentHeight uint64                // the timeout clock, advanced only by the owner
	timeout       uint64                // clock ticks an approval round may wait
	maxViewSize   uint64                // upper bound on view bytes; 0 disables the check
	events        *lib.EventTracker     // fire-and-forget notifications for observers
	store         lib.BulletinStoreI    // optional write-through persistence; nil keeps state in memory
	mtx           sync.Mutex            // serializes externally invoked operations
	log           lib.LoggerI
}

// New() creates a Bulletin from the configuration, hydrating the committee and the
// published commitments from the store if one is supplied
func New(config lib.Config, store lib.BulletinStoreI, log lib.LoggerI) (*Bulletin, lib.ErrorI) {
	b := &Bulletin{
		owner:       config.Owner,
		whitelist:   newWhitelist(),
		commitments: newCommitmentStore(),
		replies:     newReplyTracker(),
		rounds:      make(map[coordinate]*Round),
		timeout:     config.TimeoutBlocks,
		maxViewSize: config.MaxViewSize,
		events:      lib.NewEventTracker(),
		store:       store,
		log:         log,
	}
	if store != nil {
		// reload the committee first so commitment ownership is re-established in order
		if err := store.ForEachMember(func(member lib.MemberID) lib.ErrorI {
			b.whitelist.Add(member)
			b.commitments.initMember(member)
			b.replies.initMember(member)
			return nil
		}); err != nil {
			return nil, err
		}
		if err := store.ForEachCommitment(func(member lib.MemberID, height int64, c *lib.Commitment) lib.ErrorI {
			b.commitments.tryInsert(member, height, c)
			return nil
		}); err != nil {
			return nil, err
		}
		metrics.CommitteeSize.Set(float64(b.whitelist.Size()))
	}
	return b, nil
}

// EXTERNAL INTERFACE BELOW
//
// Each operation carries the caller identity explicitly; none of them return anything:
// failures are silent no-ops observable only through events and unchanged state.

// AddMember() registers a committee member; privileged callers only
func (b *Bulletin) AddMember(caller, member lib.MemberID) {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	if err := b.addMember(caller, member); err != nil {
		b.log.Debugf("AddMember(%s) no-op: %s", member, err.Error())
		return
	}
	metrics.CommitteeSize.Set(float64(b.whitelist.Size()))
	b.log.Infof("Member %s joined the committee", member)
}

// RemoveMember() deregisters a committee member and purges its data; privileged callers only
func (b *Bulletin) RemoveMember(caller, member lib.MemberID) {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	if err := b.removeMember(caller, member); err != nil {
		b.log.Debugf("RemoveMember(%s) no-op: %s", member, err.Error())
		return
	}
	metrics.CommitteeSize.Set(float64(b.whitelist.Size()))
	b.log.Infof("Member %s left the committee", member)
}

// SetTimeout() updates the approval round timeout; privileged callers only
func (b *Bulletin) SetTimeout(caller lib.MemberID, timeout uint64) {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	if err := b.setTimeout(caller, timeout); err != nil {
		b.log.Debugf("SetTimeout(%d) no-op: %s", timeout, err.Error())
	}
}

// IncrementClock() advances the timeout clock by one tick and expires any approval
// round the clock outran; privileged callers only
func (b *Bulletin) IncrementClock(caller lib.MemberID) {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	if err := b.incrementClock(caller); err != nil {
		b.log.Debugf("IncrementClock() no-op: %s", err.Error())
	}
}

// PublishView() publishes a commitment for the caller at the given height, driving the
// fast path or the quorum approval protocol as needed
func (b *Bulletin) PublishView(caller lib.MemberID, height int64, view []byte, rollingHash string) {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	outcome, err := b.publishView(caller, height, view, rollingHash)
	if err != nil {
		b.log.Debugf("PublishView(%d) by %s: %s: %s", height, caller, outcome, err.Error())
		return
	}
	b.log.Infof("View published at (%s, %d)", caller, height)
}

// EvaluateView() records the caller's verdict on the view a member proposed at a height,
// then tries to settle the pending round
func (b *Bulletin) EvaluateView(caller lib.MemberID, height int64, evaluatedMember lib.MemberID, verdict string) {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	if _, err := b.evaluateView(caller, height, evaluatedMember, verdict); err != nil {
		b.log.Debugf("EvaluateView(%s, %d) no-op: %s", evaluatedMember, height, err.Error())
	}
}

// ReportConflict() emits a conflict notification for the given commitment; committee
// members only
func (b *Bulletin) ReportConflict(caller lib.MemberID, height int64, view []byte, rollingHash string) {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	if err := b.reportConflict(caller, height, view, rollingHash); err != nil {
		b.log.Debugf("ReportConflict(%d) no-op: %s", height, err.Error())
	}
}

// INTERNAL OPERATIONS BELOW

// publishView() is the per-call publication state machine
func (b *Bulletin) publishView(caller lib.MemberID, height int64, view lib.HexBytes, rollingHash string) (Outcome, lib.ErrorI) {
	// only committee members publish
	if !b.whitelist.Contains(caller) {
		return OutcomeNotMember, ErrNotMember(caller)
	}
	// first write wins: a populated coordinate is immutable
	if b.commitments.get(caller, height) != nil {
		return OutcomeAlreadyExists, ErrDuplicateCoordinate(caller, height)
	}
	if b.maxViewSize > 0 && uint64(len(view)) > b.maxViewSize {
		return OutcomeViewTooLarge, ErrViewTooLarge(uint64(len(view)), b.maxViewSize)
	}
	coord := coordinate{caller, height}
	// fast path: the view may already be accepted at this height by a peer
	for _, peer := range b.commitments.allAtHeight(height, b.whitelist.Members()) {
		if !bytes.Equal(peer.View, view) {
			continue
		}
		expected := b.computeRollingHash(caller, height)
		if expected != rollingHash {
			// a matching view with a broken chain is a conflict, not a silent drop
			b.emitConflict(height, caller, view, rollingHash)
			return OutcomeConflict, ErrHashMismatch(expected, rollingHash)
		}
		// the view already achieved acceptance elsewhere; any suspended round is moot
		if _, ok := b.rounds[coord]; ok {
			delete(b.rounds, coord)
			b.replies.purge(caller, height)
		}
		if err := b.commit(caller, height, &lib.Commitment{View: view, RollingHash: rollingHash}); err != nil {
			return OutcomeUnknown, err
		}
		return OutcomePublished, nil
	}
	// resume the suspended approval round if one is already open for this coordinate
	if round, ok := b.rounds[coord]; ok {
		return b.advanceRound(round)
	}
	// the view is novel: open an approval round; the first advance settles solo
	// committees (quorum 0) immediately and otherwise leaves the round suspended
	return b.advanceRound(b.startRound(caller, height, view, rollingHash))
}

// evaluateView() appends a committee member's verdict and advances the affected round
func (b *Bulletin) evaluateView(caller lib.MemberID, height int64, evaluatedMember lib.MemberID, verdict string) (Outcome, lib.ErrorI) {
	// only committee members evaluate, and only committee members are evaluated
	if !b.whitelist.Contains(caller) {
		return OutcomeNotMember, ErrNotMember(caller)
	}
	if !b.whitelist.Contains(evaluatedMember) {
		return OutcomeNotMember, ErrNotMember(evaluatedMember)
	}
	// verdicts are only collected while a reply collection is open for the coordinate
	if !b.replies.append(evaluatedMember, height, verdict) {
		return OutcomeUnknown, ErrNoPendingRound(evaluatedMember, height)
	}
	// settle the round on the spot if this verdict completes the quorum
	if round, ok := b.rounds[coordinate{evaluatedMember, height}]; ok {
		outcome, _ := b.advanceRound(round)
		return outcome, nil
	}
	return OutcomeUnknown, nil
}

// reportConflict() emits a ViewConflict for a commitment on behalf of a committee member
func (b *Bulletin) reportConflict(caller lib.MemberID, height int64, view lib.HexBytes, rollingHash string) lib.ErrorI {
	if !b.whitelist.Contains(caller) {
		return ErrNotMember(caller)
	}
	b.emitConflict(height, caller, view, rollingHash)
	return nil
}

// setTimeout() replaces the approval round timeout
func (b *Bulletin) setTimeout(caller lib.MemberID, timeout uint64) lib.ErrorI {
	if caller != b.owner {
		return ErrUnauthorized()
	}
	b.timeout = timeout
	return nil
}

// incrementClock() advances current_height by one and sweeps the suspended rounds
func (b *Bulletin) incrementClock(caller lib.MemberID) lib.ErrorI {
	if caller != b.owner {
		return ErrUnauthorized()
	}
	b.currentHeight++
	b.sweepRounds()
	return nil
}

// commit() writes the commitment, persists it, and announces the publication
func (b *Bulletin) commit(member lib.MemberID, height int64, commitment *lib.Commitment) lib.ErrorI {
	if !b.commitments.tryInsert(member, height, commitment) {
		return ErrDuplicateCoordinate(member, height)
	}
	if b.store != nil {
		if err := b.store.PutCommitment(member, height, commitment); err != nil {
			return err
		}
	}
	b.events.Add(lib.NewViewPublishedEvent(height, member, commitment.View))
	metrics.ViewsPublished.Inc()
	return nil
}

// emitConflict() announces a view/hash disagreement
func (b *Bulletin) emitConflict(height int64, member lib.MemberID, view lib.HexBytes, rollingHash string) {
	b.events.Add(lib.NewViewConflictEvent(height, member, view, rollingHash))
	metrics.ViewConflicts.Inc()
}

// ACCESSORS BELOW

// Commitment() returns a copy of the commitment at (member, height) or nil if absent
func (b *Bulletin) Commitment(member lib.MemberID, height int64) *lib.Commitment {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	return b.commitments.get(member, height).Copy()
}

// Members() returns the committee identities in whitelist iteration order
func (b *Bulletin) Members() []lib.MemberID {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	return b.whitelist.Members()
}

// Replies() returns a copy of the verdicts collected for (member, height)
func (b *Bulletin) Replies(member lib.MemberID, height int64) []string {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	replies := b.replies.get(member, height)
	if replies == nil {
		return nil
	}
	out := make([]string, len(replies))
	copy(out, replies)
	return out
}

// CurrentHeight() returns the timeout clock value
func (b *Bulletin) CurrentHeight() uint64 {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	return b.currentHeight
}

// Timeout() returns the configured approval round timeout in clock ticks
func (b *Bulletin) Timeout() uint64 {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	return b.timeout
}

// Quorum() returns the approval threshold for the current committee size
func (b *Bulletin) Quorum() int {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	return b.quorum()
}

// Events() exposes the tracker observers drain published/conflict/approval notifications from
func (b *Bulletin) Events() *lib.EventTracker {
	return b.events
}
