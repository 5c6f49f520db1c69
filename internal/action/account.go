// account.go defines the account containment action: locking a local user
// account out of authentication and rolling the lock back.
//
// The lock never touches the user database directly. It shells out to the
// platform's own account utility so PAM stacks, LDAP overlays and audit
// hooks see an ordinary administrative change.
package action

import (
	"github.com/bastille-sec/responder/internal/platform"
	"github.com/bastille-sec/responder/internal/protocol"
)

// AccountName is the registry name of the account containment action.
const AccountName = "disable-account"

// Utility paths are fixed: responders run with a sanitized environment and
// must not consult $PATH for privileged binaries.
const (
	passwdPath = "/usr/bin/passwd"
	chuserPath = "/usr/bin/chuser"
)

func init() {
	MustRegister(Action{
		Name:       AccountName,
		ConfirmAdd: true,
		Capabilities: map[platform.Family]Capability{
			platform.FamilyLinux: {
				Utility: "passwd",
				Path:    passwdPath,
				Args: func(cmd protocol.Command) []string {
					if cmd == protocol.CommandAdd {
						return []string{"-l"}
					}
					return []string{"-u"}
				},
			},
			platform.FamilyAIX: {
				Utility: "chuser",
				Path:    chuserPath,
				Args: func(cmd protocol.Command) []string {
					if cmd == protocol.CommandAdd {
						return []string{"account_locked=true"}
					}
					return []string{"account_locked=false"}
				},
			},
		},
	})
}
