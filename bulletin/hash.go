package bulletin

import (
	"fmt"

	"github.com/bulletin-network/bulletin/lib"
	"github.com/cespare/xxhash/v2"
)

// computeRollingHash() derives the expected rolling hash for (member, height) from the
// member's commitment at height-1: hex(hash(prevView ++ prevRollingHash)). The chain is
// strictly per-member; other members' histories are never consulted. A height with no
// predecessor commitment chains from the literal "None".
func (b *Bulletin) computeRollingHash(member lib.MemberID, height int64) string {
	previous := b.commitments.get(member, height-1)
	if previous == nil {
		return lib.RollingHashNone
	}
	return rollingHash(previous)
}

// rollingHash() computes the chain value derived from a predecessor commitment using a
// stable non-cryptographic 64-bit hash rendered as lowercase hexadecimal
func rollingHash(previous *lib.Commitment) string {
	digest := xxhash.New()
	_, _ = digest.Write(previous.View)
	_, _ = digest.WriteString(previous.RollingHash)
	return fmt.Sprintf("%x", digest.Sum64())
}
