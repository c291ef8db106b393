package version

import (
	"fmt"
	"github.com/tendermint/tendermint/version"
	"strconv"
)

const FMT_VERSTR = "%v.%v.%v-%x@%s"

var (
	majorVer  uint64 = 0
	minorVer  uint64 = 1
	patchVer  uint64 = 0
	commitVer uint64 = 0

	// it is set by ldflags.
	//  ex) -ldflags "-X 'github.com/rigochain/rigo-vote/cmd/version.GitCommit=$(git rev-parse --short=8 HEAD)'"
	GitCommit string
)

const (
	MASK_MAJOR_VER  = uint64(0xFF00000000000000)
	MASK_MINOR_VER  = uint64(0x00FF000000000000)
	MASK_PATCH_VER  = uint64(0x0000FFFF00000000)
	MASK_COMMIT_VER = uint64(0x00000000FFFFFFFF)
	MASK_ALL        = MASK_MAJOR_VER | MASK_MINOR_VER | MASK_PATCH_VER | MASK_COMMIT_VER
)

func init() {
	if GitCommit != "" {
		commitVer, _ = strconv.ParseUint(GitCommit, 16, 32)
	}
}

// String returns the version of the app and the tendermint version it runs on.
func String() string {
	return Parse(Uint64())
}

// Uint64 packs the version into the AppVersion reported by ABCI Info.
// Only the parts selected by masks are kept; no mask means all of them.
func Uint64(masks ...uint64) uint64 {
	mask := MASK_ALL
	if len(masks) > 0 {
		mask = 0
		for _, m := range masks {
			mask |= m
		}
	}
	return ((majorVer << 56) | (minorVer << 48) | (patchVer << 32) | commitVer) & mask
}

func Parse(c uint64) string {
	return fmt.Sprintf(FMT_VERSTR,
		(c>>56)&0xFF,
		(c>>48)&0xFF,
		(c>>32)&0xFFFF,
		c&0xFFFFFFFF,
		version.TMCoreSemVer)
}
