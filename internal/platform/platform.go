// Package platform resolves the host operating system into a containment
// capability family and probes for the privileged utilities a family relies
// on.
//
// Account locking is wired differently across the fleet's supported systems:
// Linux, Solaris and illumos hosts carry the shadow-suite passwd utility,
// AIX hosts manage the lock through chuser account attributes. Everything
// else is unknown, which the engine treats as "nothing to do here" rather
// than an error; fleets are heterogeneous and a responder landing on an
// unsupported node must not page anyone.
package platform

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/shirou/gopsutil/v4/host"
)

// Family groups operating systems by the utility used to lock accounts.
type Family int

const (
	// FamilyUnknown marks systems with no known account-lock capability.
	FamilyUnknown Family = iota

	// FamilyLinux covers Linux, Solaris and illumos: shadow-suite passwd
	// with lock/unlock flags.
	FamilyLinux

	// FamilyAIX covers AIX: chuser with the account_locked attribute.
	FamilyAIX
)

// String returns the family name for log attributes.
func (f Family) String() string {
	switch f {
	case FamilyLinux:
		return "linux"
	case FamilyAIX:
		return "aix"
	default:
		return "unknown"
	}
}

// ErrNoSystemName reports that the host's system name could not be read.
// Text is written verbatim to the active-response log.
var ErrNoSystemName = errors.New("Cannot get system name")

// SystemName reports the host's operating system name ("linux", "aix", ...)
// as gopsutil normalizes it.
func SystemName(ctx context.Context) (string, error) {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoSystemName, err)
	}
	return info.OS, nil
}

// FamilyForSystem maps a system name to its capability family. Matching is
// case-insensitive; unknown names map to FamilyUnknown.
func FamilyForSystem(name string) Family {
	switch strings.ToLower(name) {
	case "linux", "solaris", "illumos":
		return FamilyLinux
	case "aix":
		return FamilyAIX
	default:
		return FamilyUnknown
	}
}

// Probe reports whether the utility at path exists. Presence is the only
// check: the responder runs as root, so permission bits say nothing useful,
// and execution failures are surfaced by the dispatcher anyway.
func Probe(path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	return nil
}
