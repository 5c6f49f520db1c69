// validate.go decodes and validates incoming command messages.
// Validation failures map onto the fixed diagnostic phrases the platform's
// log tooling has matched against for years; the error text is the contract,
// so it is kept verbatim rather than rephrased per call site.
package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ReservedUser is the superuser account no containment may ever target.
// Locking it out would sever operator access; the name is deliberately not
// configurable.
const ReservedUser = "root"

// Diagnostic errors for rejected input. Their text is written verbatim to
// the active-response log.
var (
	// ErrNoInput reports an unreadable or already-closed input stream.
	ErrNoInput = errors.New("Cannot read input from stdin")

	// ErrBadPayload reports input that is not a JSON object.
	ErrBadPayload = errors.New("Invalid input format")

	// ErrMissingCommand reports an envelope without a command field.
	ErrMissingCommand = errors.New("Cannot read 'command' from json")

	// ErrBadCommand reports a command that is neither add nor delete.
	ErrBadCommand = errors.New("Invalid value of 'command'")

	// ErrMissingUser reports an envelope without a target account.
	ErrMissingUser = errors.New("Cannot read 'dstuser' from data")

	// ErrReservedUser reports an attempt to target the superuser.
	ErrReservedUser = errors.New("Invalid username")
)

// validate is the shared validator instance for message structs.
var validate = validator.New(validator.WithRequiredStructEnabled())

// Decode parses one command message. The payload must be a single JSON
// object; trailing data on the line is rejected.
func Decode(data []byte) (*Message, error) {
	var msg Message
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after message", ErrBadPayload)
	}
	return &msg, nil
}

// Validate checks a decoded message against the protocol rules: command must
// be add or delete, the target account must be present, and the reserved
// superuser is never a valid target. The superuser rule runs last so that a
// malformed envelope is reported as malformed, not as a username problem.
func (m *Message) Validate() error {
	if err := validate.Struct(m); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return classifyFieldError(fieldErrs[0])
		}
		return fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	if m.TargetUser() == ReservedUser {
		return ErrReservedUser
	}
	return nil
}

// classifyFieldError maps a struct validation failure onto the protocol's
// diagnostic errors. Only the first failure is reported; execd resends
// nothing, so there is no value in enumerating every defect.
func classifyFieldError(e validator.FieldError) error {
	switch e.StructField() {
	case "Command":
		if e.Tag() == "oneof" {
			return ErrBadCommand
		}
		return ErrMissingCommand
	case "Parameters", "Alert", "Data", "DstUser":
		// A missing container anywhere on the path to dstuser reads the
		// same as a missing username.
		return ErrMissingUser
	}
	return fmt.Errorf("%w: %s failed on '%s'", ErrBadPayload, e.StructNamespace(), e.Tag())
}
