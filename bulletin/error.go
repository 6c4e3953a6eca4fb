package bulletin

import (
	"fmt"

	"github.com/bulletin-network/bulletin/lib"
)

func ErrUnauthorized() lib.ErrorI {
	return lib.NewError(lib.CodeUnauthorized, lib.BulletinModule, "caller is not the privileged identity")
}

func ErrNotMember(member lib.MemberID) lib.ErrorI {
	return lib.NewError(lib.CodeNotMember, lib.BulletinModule, fmt.Sprintf("%s is not a committee member", member))
}

func ErrDuplicateCoordinate(member lib.MemberID, height int64) lib.ErrorI {
	return lib.NewError(lib.CodeDuplicateCoordinate, lib.BulletinModule, fmt.Sprintf("a commitment already exists at (%s, %d)", member, height))
}

func ErrHashMismatch(expected, got string) lib.ErrorI {
	return lib.NewError(lib.CodeHashMismatch, lib.BulletinModule, fmt.Sprintf("rolling hash mismatch: expected %s got %s", expected, got))
}

func ErrQuorumRejected() lib.ErrorI {
	return lib.NewError(lib.CodeQuorumRejected, lib.BulletinModule, "the committee rejected the view")
}

func ErrQuorumTimeout() lib.ErrorI {
	return lib.NewError(lib.CodeQuorumTimeout, lib.BulletinModule, "the approval round timed out before quorum")
}

func ErrAwaitingReplies() lib.ErrorI {
	return lib.NewError(lib.CodeAwaitingReplies, lib.BulletinModule, "the approval round is awaiting replies")
}

func ErrMemberExists(member lib.MemberID) lib.ErrorI {
	return lib.NewError(lib.CodeMemberExists, lib.BulletinModule, fmt.Sprintf("%s is already a committee member", member))
}

func ErrMemberNotFound(member lib.MemberID) lib.ErrorI {
	return lib.NewError(lib.CodeMemberNotFound, lib.BulletinModule, fmt.Sprintf("%s was not found in the committee", member))
}

func ErrNoPendingRound(member lib.MemberID, height int64) lib.ErrorI {
	return lib.NewError(lib.CodeNoPendingRound, lib.BulletinModule, fmt.Sprintf("no approval round is open at (%s, %d)", member, height))
}

func ErrViewTooLarge(size, max uint64) lib.ErrorI {
	return lib.NewError(lib.CodeViewTooLarge, lib.BulletinModule, fmt.Sprintf("view of %d bytes exceeds the %d byte limit", size, max))
}

func ErrApprovedHashInvalid(expected, got string) lib.ErrorI {
	return lib.NewError(lib.CodeApprovedHashInvalid, lib.BulletinModule, fmt.Sprintf("approved view failed hash verification: expected %s got %s", expected, got))
}
