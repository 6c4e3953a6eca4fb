package bulletin

// Outcome is the tagged result of an internally reasoned operation. The external interface
// stays silent on failure; internal code and tests use outcomes to assert on the precise
// branch a call took.
type Outcome uint8

const (
	OutcomeUnknown Outcome = iota
	OutcomePublished               // the commitment was written and ViewPublished emitted
	OutcomeNotMember               // the caller is not whitelisted; nothing changed
	OutcomeAlreadyExists           // a commitment already occupies the coordinate; nothing changed
	OutcomeViewTooLarge            // the view exceeds the configured size limit; nothing changed
	OutcomeConflict                // a matching peer view had a mismatched hash chain; ViewConflict emitted
	OutcomePending                 // an approval round is open and awaiting replies
	OutcomeRejected                // the committee voted the view down; ViewConflict emitted
	OutcomeTimedOut                // the approval round expired; replies rolled back silently
	OutcomeHashInvalid             // quorum approved but re-verification failed; dropped without an event
)

// String() returns a human readable label for the outcome
func (o Outcome) String() string {
	switch o {
	case OutcomePublished:
		return "published"
	case OutcomeNotMember:
		return "not-member"
	case OutcomeAlreadyExists:
		return "already-exists"
	case OutcomeViewTooLarge:
		return "view-too-large"
	case OutcomeConflict:
		return "conflict"
	case OutcomePending:
		return "pending"
	case OutcomeRejected:
		return "rejected"
	case OutcomeTimedOut:
		return "timed-out"
	case OutcomeHashInvalid:
		return "hash-invalid"
	default:
		return "unknown"
	}
}
