// Package protocol defines the wire contract between the Bastille execd
// daemon and the responder executables it spawns.
//
// A responder reads exactly one command message from stdin, newline
// terminated, UTF-8 JSON. Containment commands ("add") additionally perform a
// confirmation round-trip: the responder emits a check_keys message on stdout
// and execd answers with a continue or abort reply on stdin. All messages are
// single lines; execd never pretty-prints.
//
// The envelope mirrors what execd emits today. Responders ignore fields they
// do not use, so execd can grow the alert payload without breaking deployed
// binaries.
package protocol

// Version is the protocol revision carried in every message envelope.
const Version = 1

// HandshakeModule is the origin module responders stamp on messages they
// emit back to execd.
const HandshakeModule = "active-response"

// Command identifies the operation a message requests.
type Command string

// Commands accepted from execd in the initial message.
const (
	// CommandAdd applies the containment (for the account action: lock).
	CommandAdd Command = "add"

	// CommandDelete rolls the containment back (for the account action:
	// unlock). Delete is what execd sends when a containment expires.
	CommandDelete Command = "delete"
)

// Commands used during the confirmation handshake.
const (
	// CommandCheckKeys is emitted by the responder to ask execd whether the
	// keyed containment should proceed (repeated-offender suppression lives
	// on the execd side).
	CommandCheckKeys Command = "check_keys"

	// CommandContinue is execd's go-ahead reply.
	CommandContinue Command = "continue"

	// CommandAbort is execd's decline reply. Aborting is a successful
	// termination, not an error.
	CommandAbort Command = "abort"
)

// Message is the command envelope execd writes to a responder's stdin.
type Message struct {
	// Version is the protocol revision. Present on the wire but not
	// enforced; execd and its responders ship together.
	Version int `json:"version,omitempty"`

	// Origin identifies the sending daemon and node.
	Origin *Origin `json:"origin,omitempty"`

	// Command is the requested operation: "add" or "delete".
	Command Command `json:"command" validate:"required,oneof=add delete"`

	// Parameters carries the triggering alert and invocation extras.
	Parameters *Parameters `json:"parameters" validate:"required"`
}

// Origin identifies where a message was produced.
type Origin struct {
	// Name is the producing program or node (execd fills the node name;
	// responders fill their own program name).
	Name string `json:"name"`

	// Module is the producing subsystem (e.g. "bastille-execd").
	Module string `json:"module"`
}

// Parameters is the payload of a command message.
type Parameters struct {
	// ExtraArgs are operator-configured extra arguments. The account
	// responder accepts none but the field is part of the envelope.
	ExtraArgs []string `json:"extra_args,omitempty"`

	// Alert is the alert that triggered the remediation.
	Alert *Alert `json:"alert" validate:"required"`

	// Program is the responder name execd resolved for this command.
	Program string `json:"program,omitempty"`
}

// Alert is the subset of an alert document that responders consume.
type Alert struct {
	// Rule describes the matched detection rule.
	Rule *Rule `json:"rule,omitempty"`

	// Data holds the decoded event fields.
	Data *AlertData `json:"data" validate:"required"`
}

// Rule describes the detection rule behind an alert.
type Rule struct {
	ID          string `json:"id,omitempty"`
	Description string `json:"description,omitempty"`
}

// AlertData holds the decoded event fields a remediation can target.
type AlertData struct {
	// DstUser is the local account the event was attributed to. This is
	// the target of the account containment action.
	DstUser string `json:"dstuser" validate:"required"`

	// SrcIP is the peer address, when the event carries one. Unused by the
	// account action; network containment responders key on it.
	SrcIP string `json:"srcip,omitempty"`
}

// TargetUser returns the account the message targets, or "" when the
// envelope does not carry one.
func (m *Message) TargetUser() string {
	if m.Parameters == nil || m.Parameters.Alert == nil || m.Parameters.Alert.Data == nil {
		return ""
	}
	return m.Parameters.Alert.Data.DstUser
}

// CheckKeysMessage is the confirmation request a responder emits on stdout
// before applying a containment.
type CheckKeysMessage struct {
	Version    int             `json:"version"`
	Origin     Origin          `json:"origin"`
	Command    Command         `json:"command"`
	Parameters CheckKeysParams `json:"parameters"`
}

// CheckKeysParams carries the keys execd checks against its timeout list.
type CheckKeysParams struct {
	Keys []string `json:"keys"`
}

// NewCheckKeys builds the confirmation request for the given keys. The
// program name lands in the origin block so execd can attribute the request.
func NewCheckKeys(program string, keys ...string) *CheckKeysMessage {
	return &CheckKeysMessage{
		Version: Version,
		Origin: Origin{
			Name:   program,
			Module: HandshakeModule,
		},
		Command:    CommandCheckKeys,
		Parameters: CheckKeysParams{Keys: keys},
	}
}

// Reply is execd's answer to a check_keys request.
type Reply struct {
	Command Command `json:"command"`
}
