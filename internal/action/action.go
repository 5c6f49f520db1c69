// Package action describes the remediations the responder family can
// execute and how each supported OS family realizes them.
//
// The protocol engine is action-agnostic: it is handed a descriptor and
// drives the receive/confirm/resolve/dispatch cycle off the descriptor's
// data. Adding a responder to the family means registering a descriptor and
// shipping a main that looks it up, not writing another control loop.
package action

import (
	"fmt"

	"github.com/bastille-sec/responder/internal/platform"
	"github.com/bastille-sec/responder/internal/protocol"
)

// Capability describes how one OS family realizes an action.
type Capability struct {
	// Utility is the short utility name used in diagnostics ("passwd").
	Utility string

	// Path is the absolute path of the dispatched binary. It is probed
	// for presence before every dispatch.
	Path string

	// Args builds the argument list for a command. The engine appends the
	// target account as the final argument.
	Args func(cmd protocol.Command) []string
}

// Action describes one remediation.
type Action struct {
	// Name is the registry key. It matches the shipped executable's base
	// name so execd's command table and the registry stay aligned.
	Name string

	// ConfirmAdd gates the check_keys round-trip before a containment is
	// applied. Rollbacks (delete) never confirm.
	ConfirmAdd bool

	// Capabilities maps each supported family to its realization.
	// Families absent from the map cannot run the action.
	Capabilities map[platform.Family]Capability
}

// Capability returns the realization for family. ok is false when the
// family cannot realize the action.
func (a Action) Capability(f platform.Family) (Capability, bool) {
	c, ok := a.Capabilities[f]
	return c, ok
}

// registry holds every action shipped with the responder family.
var registry = make(map[string]Action)

// MustRegister adds an action to the registry. It panics on a duplicate or
// unnamed descriptor; registration happens at init time, before any input
// is read.
func MustRegister(a Action) {
	if a.Name == "" {
		panic("action: registered descriptor without a name")
	}
	if _, exists := registry[a.Name]; exists {
		panic(fmt.Sprintf("action: duplicate registration of %q", a.Name))
	}
	registry[a.Name] = a
}

// Lookup returns the registered action with the given name.
func Lookup(name string) (Action, bool) {
	a, ok := registry[name]
	return a, ok
}
