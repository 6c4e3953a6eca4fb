package bulletin

import (
	"testing"

	"github.com/bulletin-network/bulletin/lib"
	"github.com/stretchr/testify/require"
)

func TestMembershipGating(t *testing.T) {
	// pre-define a committee of two and an outsider to test with
	b, owner, members := newTestBulletin(t, 2)
	outsider := testMemberID(0xFF)
	// an outsider's publish changes nothing
	outcome, err := b.publishView(outsider, 1, []byte("View"), lib.RollingHashNone)
	require.Equal(t, OutcomeNotMember, outcome)
	require.Error(t, err)
	require.Nil(t, b.Commitment(outsider, 1))
	// an outsider's evaluation never reaches a quorum count
	_, e := b.publishView(members[0], 1, []byte("View"), lib.RollingHashNone)
	require.Error(t, e)
	b.EvaluateView(outsider, 1, members[0], lib.VerdictOK)
	require.Empty(t, b.Replies(members[0], 1))
	// an outsider's conflict report emits nothing
	b.Events().Reset()
	b.ReportConflict(outsider, 1, []byte("View"), lib.RollingHashNone)
	require.Zero(t, b.Events().Len())
	// the owner is privileged but not a member unless registered
	require.NotContains(t, b.Members(), owner)
}

func TestFirstWriteWins(t *testing.T) {
	// pre-define a solo committee so publishes commit without votes
	b, _, members := newTestBulletin(t, 1)
	bob := members[0]
	// execute the first publish
	b.PublishView(bob, 1, []byte("FirstView"), lib.RollingHashNone)
	// try to replace the committed view at the same coordinate
	b.PublishView(bob, 1, []byte("TryReplaceFirst"), lib.RollingHashNone)
	// only the first write is retained
	got := b.Commitment(bob, 1)
	require.NotNil(t, got)
	require.Equal(t, "FirstView", string(got.View))
}

func TestFastPath(t *testing.T) {
	tests := []struct {
		name        string
		detail      string
		rollingHash string
		committed   bool
		conflict    bool
	}{
		{
			name:        "matching view and correct hash",
			detail:      "a view already accepted by a peer commits without a vote",
			rollingHash: lib.RollingHashNone,
			committed:   true,
		},
		{
			name:        "matching view but wrong hash",
			detail:      "a matching view with a broken chain raises a conflict and is not committed",
			rollingHash: "WrongHash",
			conflict:    true,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			// pre-define a committee of two (quorum 1)
			b, _, members := newTestBulletin(t, 2)
			alice, bob := members[0], members[1]
			// seed alice's commitment directly, as if it was accepted earlier
			require.True(t, b.commitments.tryInsert(alice, 1, &lib.Commitment{View: []byte("TestEqualViews"), RollingHash: lib.RollingHashNone}))
			b.Events().Reset()
			// execute the function call
			outcome, _ := b.publishView(bob, 1, []byte("TestEqualViews"), test.rollingHash)
			// validate the commitment state
			if test.committed {
				require.Equal(t, OutcomePublished, outcome)
				require.NotNil(t, b.Commitment(bob, 1))
				// no approval request was needed on the fast path
				for _, event := range b.Events().Events() {
					require.NotEqual(t, lib.EventViewApprovalRequest, event.Type)
				}
			} else {
				require.Equal(t, OutcomeConflict, outcome)
				require.Nil(t, b.Commitment(bob, 1))
			}
			// validate the emitted conflict, if any
			requireEventCount(t, b, lib.EventViewConflict, boolToCount(test.conflict))
		})
	}
}

func TestQuorumVote(t *testing.T) {
	tests := []struct {
		name      string
		detail    string
		verdicts  []string
		committed bool
		conflict  bool
	}{
		{
			name:      "unanimous approval",
			detail:    "with 3 members and quorum 2, two OK replies commit the view",
			verdicts:  []string{lib.VerdictOK, lib.VerdictOK},
			committed: true,
		},
		{
			name:     "one disapproval",
			detail:   "a single NOK among the quorum rejects the view and raises a conflict",
			verdicts: []string{lib.VerdictOK, lib.VerdictNOK},
			conflict: true,
		},
		{
			name:      "free-form verdicts approve",
			detail:    "any reply other than the exact string NOK counts as an approval",
			verdicts:  []string{"LGTM", "fine by me"},
			committed: true,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			// pre-define a committee of three (quorum 2)
			b, _, members := newTestBulletin(t, 3)
			bob, alice, jane := members[0], members[1], members[2]
			require.Equal(t, 2, b.Quorum())
			// bob proposes a novel view; the round suspends awaiting replies
			outcome, _ := b.publishView(bob, 1, []byte("View"), lib.RollingHashNone)
			require.Equal(t, OutcomePending, outcome)
			requireEventCount(t, b, lib.EventViewApprovalRequest, 1)
			// the two non-proposing members cast their verdicts
			b.EvaluateView(alice, 1, bob, test.verdicts[0])
			b.EvaluateView(jane, 1, bob, test.verdicts[1])
			// validate the commitment state
			if test.committed {
				require.NotNil(t, b.Commitment(bob, 1))
			} else {
				require.Nil(t, b.Commitment(bob, 1))
			}
			// validate the emitted conflict, if any
			requireEventCount(t, b, lib.EventViewConflict, boolToCount(test.conflict))
		})
	}
}

func TestTimeoutRollback(t *testing.T) {
	// pre-define a committee of two (quorum 1) with a short timeout
	b, owner, members := newTestBulletin(t, 2)
	bob := members[0]
	b.SetTimeout(owner, 2)
	// bob proposes a novel view; the round suspends awaiting replies
	outcome, _ := b.publishView(bob, 1, []byte("View"), lib.RollingHashNone)
	require.Equal(t, OutcomePending, outcome)
	require.NotNil(t, b.Replies(bob, 1))
	b.Events().Reset()
	// the clock outruns the round before any reply arrives
	b.IncrementClock(owner)
	b.IncrementClock(owner)
	// the pending replies are rolled back and no commitment was made
	require.Nil(t, b.Commitment(bob, 1))
	require.Nil(t, b.Replies(bob, 1))
	// a timeout is distinct from a disagreement: nothing is emitted
	require.Zero(t, b.Events().Len())
	// a verdict arriving after the rollback has nowhere to land
	b.EvaluateView(members[1], 1, bob, lib.VerdictOK)
	require.Nil(t, b.Replies(bob, 1))
}

func TestSoloCommitteeChain(t *testing.T) {
	// pre-define a solo committee (quorum 0): publishes settle immediately
	b, _, members := newTestBulletin(t, 1)
	bob := members[0]
	require.Equal(t, 0, b.Quorum())
	// height 1 has no predecessor and chains from "None"
	b.PublishView(bob, 1, []byte("View1"), lib.RollingHashNone)
	require.NotNil(t, b.Commitment(bob, 1))
	// height 2 chains from the commitment at height 1
	chained := b.computeRollingHash(bob, 2)
	b.PublishView(bob, 2, []byte("View2"), chained)
	got := b.Commitment(bob, 2)
	require.NotNil(t, got)
	require.Equal(t, chained, got.RollingHash)
	// a fresh coordinate with a mismatched hash is approved by the (empty) quorum yet
	// still dropped by final verification, with no conflict emitted
	b.Events().Reset()
	outcome, _ := b.publishView(bob, 3, []byte("View3"), "WrongHash")
	require.Equal(t, OutcomeHashInvalid, outcome)
	require.Nil(t, b.Commitment(bob, 3))
	requireEventCount(t, b, lib.EventViewConflict, 0)
	requireEventCount(t, b, lib.EventViewPublished, 0)
}

func TestRemoveMemberPurges(t *testing.T) {
	// pre-define a solo committee and commit a view
	b, owner, members := newTestBulletin(t, 1)
	bob := members[0]
	b.PublishView(bob, 1, []byte("TryAddView"), lib.RollingHashNone)
	require.NotNil(t, b.Commitment(bob, 1))
	// execute the removal
	b.RemoveMember(owner, bob)
	// the member and all of its data are gone
	require.NotContains(t, b.Members(), bob)
	require.Nil(t, b.Commitment(bob, 1))
	// a publish after removal is a silent no-op
	b.PublishView(bob, 2, []byte("TryAddOtherView"), lib.RollingHashNone)
	require.Nil(t, b.Commitment(bob, 2))
}

func TestPrivilegedCalls(t *testing.T) {
	tests := []struct {
		name   string
		detail string
		call   func(b *Bulletin, caller lib.MemberID)
		check  func(t *testing.T, b *Bulletin, applied bool)
	}{
		{
			name:   "set timeout",
			detail: "only the privileged identity may update the round timeout",
			call:   func(b *Bulletin, caller lib.MemberID) { b.SetTimeout(caller, 42) },
			check: func(t *testing.T, b *Bulletin, applied bool) {
				if applied {
					require.EqualValues(t, 42, b.Timeout())
				} else {
					require.NotEqualValues(t, 42, b.Timeout())
				}
			},
		},
		{
			name:   "increment clock",
			detail: "only the privileged identity may advance the clock",
			call:   func(b *Bulletin, caller lib.MemberID) { b.IncrementClock(caller) },
			check: func(t *testing.T, b *Bulletin, applied bool) {
				if applied {
					require.EqualValues(t, 1, b.CurrentHeight())
				} else {
					require.Zero(t, b.CurrentHeight())
				}
			},
		},
		{
			name:   "add member",
			detail: "only the privileged identity may register members",
			call:   func(b *Bulletin, caller lib.MemberID) { b.AddMember(caller, testMemberID(0x7)) },
			check: func(t *testing.T, b *Bulletin, applied bool) {
				if applied {
					require.Contains(t, b.Members(), testMemberID(0x7))
				} else {
					require.NotContains(t, b.Members(), testMemberID(0x7))
				}
			},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			// an ordinary member is not privileged
			b, owner, members := newTestBulletin(t, 1)
			test.call(b, members[0])
			test.check(t, b, false)
			// the owner is
			test.call(b, owner)
			test.check(t, b, true)
		})
	}
}

func TestLazyResumeOnPublish(t *testing.T) {
	// pre-define a committee of three (quorum 2)
	b, _, members := newTestBulletin(t, 3)
	bob, alice, jane := members[0], members[1], members[2]
	// bob proposes a novel view; the round suspends
	outcome, _ := b.publishView(bob, 1, []byte("View"), lib.RollingHashNone)
	require.Equal(t, OutcomePending, outcome)
	// replies trickle in without settling (quorum not yet reached)
	b.EvaluateView(alice, 1, bob, lib.VerdictOK)
	require.Nil(t, b.Commitment(bob, 1))
	// a repeated publish for the coordinate resumes the same round instead of opening another
	outcome, _ = b.publishView(bob, 1, []byte("View"), lib.RollingHashNone)
	require.Equal(t, OutcomePending, outcome)
	requireEventCount(t, b, lib.EventViewApprovalRequest, 1)
	// the final verdict settles the round from inside EvaluateView
	b.EvaluateView(jane, 1, bob, lib.VerdictOK)
	require.NotNil(t, b.Commitment(bob, 1))
}

// TEST HELPERS BELOW

// newTestBulletin() builds an in-memory bulletin with the zero identity as owner and
// the requested number of registered members
func newTestBulletin(t *testing.T, memberCount int) (b *Bulletin, owner lib.MemberID, members []lib.MemberID) {
	config := lib.DefaultConfig()
	config.TimeoutBlocks = 10
	b, err := New(config, nil, lib.NewNullLogger())
	require.NoError(t, err)
	for i := 0; i < memberCount; i++ {
		member := testMemberID(byte(i + 1))
		b.AddMember(owner, member)
		members = append(members, member)
	}
	require.Len(t, b.Members(), memberCount)
	return
}

// testMemberID() builds a deterministic MemberID from a single byte
func testMemberID(b byte) (id lib.MemberID) {
	for i := range id {
		id[i] = b
	}
	return
}

// requireEventCount() asserts how many captured events carry the given type
func requireEventCount(t *testing.T, b *Bulletin, eventType lib.EventType, expected int) {
	count := 0
	for _, event := range b.Events().Events() {
		if event.Type == eventType {
			count++
		}
	}
	require.Equal(t, expected, count)
}

// boolToCount() maps an expectation flag to an event count
func boolToCount(b bool) int {
	if b {
		return 1
	}
	return 0
}
