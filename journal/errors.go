package journal

import (
	"errors"
	"fmt"

	"github.com/web3tea/journal-sentinel/journal/rjne"
)

// Diagnostic message identifiers returned by the retrieval service.
const (
	// MsgSequenceNotFound: requested sequence missing or a break in the
	// receiver chain.
	MsgSequenceNotFound = "CPF7053"

	// MsgInvalidReceiver: a named receiver is unknown to the service.
	MsgInvalidReceiver = "CPF9801"

	// MsgInvalidOffsetRange: the requested end precedes the start.
	MsgInvalidOffsetRange = "CPF7054"

	// MsgFilterTargetMissing: a filtered object does not exist or is not
	// journaled.
	MsgFilterTargetMissing = "CPF7060"

	// MsgNoDataAfterFilter: the call succeeded but the filter matched
	// nothing. Not an error; the caller adopts the live-head hint.
	MsgNoDataAfterFilter = "CPF7062"
)

// InvalidPositionError means the cursor is no longer resolvable against the
// live journal state, for example because its receiver was reclaimed. Not
// retriable without operator intervention.
type InvalidPositionError struct {
	Position Position
	Criteria string
	Message  string
}

func (e *InvalidPositionError) Error() string {
	return fmt.Sprintf("invalid position %s parameters %s: %s", e.Position, e.Criteria, e.Message)
}

// InvalidFilterError means a configured object filter references a missing
// or non-journaled target. Not retriable without a config change.
type InvalidFilterError struct {
	Position Position
	Criteria string
	Message  string
}

func (e *InvalidFilterError) Error() string {
	return fmt.Sprintf("invalid filter at position %s parameters %s: %s", e.Position, e.Criteria, e.Message)
}

// RetrievalError is an unclassified remote-call failure. Retriable at the
// caller's discretion; the engine itself never retries.
type RetrievalError struct {
	Position Position
	Criteria string
	Err      error
}

func (e *RetrievalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("retrieval failed at position %s parameters %s: %v", e.Position, e.Criteria, e.Err)
	}
	return fmt.Sprintf("retrieval failed at position %s parameters %s", e.Position, e.Criteria)
}

func (e *RetrievalError) Unwrap() error {
	return e.Err
}

// IsDecodeError reports whether err stems from a malformed buffer.
func IsDecodeError(err error) bool {
	var de *rjne.DecodeError
	return errors.As(err, &de)
}
