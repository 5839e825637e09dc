package builder

import (
	"errors"
	"fmt"
)

// ErrConfiguration marks every error that stems from a bad configuration.
// Such errors are always reported before any output line is produced.
var ErrConfiguration = errors.New("configuration error")

// UnknownOperationError reports an opcode that has no catalog template
type UnknownOperationError struct {
	Opcode string
}

func (e *UnknownOperationError) Error() string {
	return fmt.Sprintf("unknown operation %q", e.Opcode)
}

// Is lets errors.Is(err, ErrConfiguration) match
func (e *UnknownOperationError) Is(target error) bool {
	return target == ErrConfiguration
}

// MixEntryError reports a malformed instruction mix entry
type MixEntryError struct {
	Entry  string
	Reason string
}

func (e *MixEntryError) Error() string {
	return fmt.Sprintf("malformed mix entry %q: %s", e.Entry, e.Reason)
}

func (e *MixEntryError) Is(target error) bool {
	return target == ErrConfiguration
}
