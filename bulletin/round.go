package bulletin

import (
	"github.com/bulletin-network/bulletin/lib"
	"github.com/bulletin-network/bulletin/metrics"
)

// RoundState is the lifecycle position of a quorum approval round
type RoundState uint8

const (
	RoundAwaitingReplies RoundState = iota + 1 // suspended, waiting on committee verdicts
	RoundApproved                              // terminal: quorum reached with no disapproval
	RoundRejected                              // terminal: quorum reached with at least one NOK
	RoundTimedOut                              // terminal: the clock outran the round
)

// String() returns a human readable label for the round state
func (s RoundState) String() string {
	switch s {
	case RoundAwaitingReplies:
		return "awaiting-replies"
	case RoundApproved:
		return "approved"
	case RoundRejected:
		return "rejected"
	case RoundTimedOut:
		return "timed-out"
	default:
		return "idle"
	}
}

// coordinate addresses a (member, height) cell of the bulletin
type coordinate struct {
	member lib.MemberID
	height int64
}

// Round is the suspended state of a pending view approval. The round never blocks a call:
// it is advanced asynchronously by incoming EvaluateView verdicts and clock ticks, and
// lazily by the next PublishView for the coordinate.
type Round struct {
	Member       lib.MemberID // the proposing member
	Height       int64        // the commitment height under vote
	View         lib.HexBytes // the proposed view
	RollingHash  string       // the rolling hash supplied with the proposal
	InitialClock uint64       // the clock value when the round opened
	State        RoundState
}

// quorum() derives the approval threshold from the current committee size: N/2 for
// committees of one or two members, N/2+1 otherwise
func (b *Bulletin) quorum() int {
	n := b.whitelist.Size()
	if n <= 2 {
		return n / 2
	}
	return n/2 + 1
}

// startRound() opens the reply collection for the coordinate, announces the approval
// request to the committee, and records the suspended round
func (b *Bulletin) startRound(caller lib.MemberID, height int64, view lib.HexBytes, rollingHash string) *Round {
	b.replies.open(caller, height)
	round := &Round{
		Member:       caller,
		Height:       height,
		View:         view,
		RollingHash:  rollingHash,
		InitialClock: b.currentHeight,
		State:        RoundAwaitingReplies,
	}
	b.rounds[coordinate{caller, height}] = round
	b.events.Add(lib.NewViewApprovalRequestEvent(height, caller, view))
	metrics.ApprovalRequests.Inc()
	return round
}

// advanceRound() samples the replies collected so far and settles the round if it can.
// Quorum wins over a simultaneous timeout: a vote that completes on the tick the round
// would expire still decides.
func (b *Bulletin) advanceRound(round *Round) (Outcome, lib.ErrorI) {
	coord := coordinate{round.Member, round.Height}
	// lazy advancement may observe counts above the threshold; compare with >=
	if b.replies.count(round.Member, round.Height) >= b.quorum() {
		if b.replies.hasNOK(round.Member, round.Height) {
			// at least one member disapproves: the view is not published and a conflict arises;
			// the replies stay behind for audit
			round.State = RoundRejected
			delete(b.rounds, coord)
			b.emitConflict(round.Height, round.Member, round.View, round.RollingHash)
			return OutcomeRejected, ErrQuorumRejected()
		}
		// the committee approved: the round and its replies are spent
		round.State = RoundApproved
		delete(b.rounds, coord)
		b.replies.purge(round.Member, round.Height)
		// an approval still has to survive final hash-chain verification
		if expected := b.computeRollingHash(round.Member, round.Height); expected != round.RollingHash {
			// approved but unverifiable: dropped without emitting anything
			return OutcomeHashInvalid, ErrApprovedHashInvalid(expected, round.RollingHash)
		}
		if err := b.commit(round.Member, round.Height, &lib.Commitment{View: round.View, RollingHash: round.RollingHash}); err != nil {
			return OutcomeUnknown, err
		}
		return OutcomePublished, nil
	}
	if b.currentHeight >= round.InitialClock+b.timeout {
		// a timeout is distinct from a disagreement: roll back the partial replies and
		// abandon the request without emitting anything
		round.State = RoundTimedOut
		delete(b.rounds, coord)
		b.replies.purge(round.Member, round.Height)
		metrics.RoundTimeouts.Inc()
		return OutcomeTimedOut, ErrQuorumTimeout()
	}
	return OutcomePending, ErrAwaitingReplies()
}

// sweepRounds() advances every suspended round, expiring the ones the clock outran
func (b *Bulletin) sweepRounds() {
	pending := make([]*Round, 0, len(b.rounds))
	for _, round := range b.rounds {
		pending = append(pending, round)
	}
	for _, round := range pending {
		if outcome, err := b.advanceRound(round); outcome != OutcomePending {
			b.log.Debugf("Round (%s, %d) settled on clock tick: %s", round.Member, round.Height, errString(err))
		}
	}
}

// errString() formats an internal outcome error for debug logging
func errString(err lib.ErrorI) string {
	if err == nil {
		return "published"
	}
	return err.Error()
}
