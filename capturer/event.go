package capturer

import (
	"time"

	"github.com/samber/lo"
	"github.com/web3tea/journal-sentinel/journal/rjne"
)

type OperationType string

const (
	OperationTypeInsert OperationType = "INSERT"
	OperationTypeUpdate OperationType = "UPDATE"
	OperationTypeDelete OperationType = "DELETE"
	OperationTypeCommit OperationType = "COMMIT"
	OperationTypeOther  OperationType = "OTHER"
)

var (
	insertTypes = []string{rjne.TypeInsert, rjne.TypeInsertDirect}
	updateTypes = []string{rjne.TypeUpdateAfter, rjne.TypeUpdateBefore}
	deleteTypes = []string{rjne.TypeDelete, rjne.TypeDeleteRestrict}
	commitTypes = []string{rjne.TypeCommit, rjne.TypeStartCommit}
)

// OperationTypeOf maps a journal code and entry type to the operation the
// entry represents.
func OperationTypeOf(code byte, entryType string) OperationType {
	switch {
	case code == rjne.CodeRecord && lo.Contains(insertTypes, entryType):
		return OperationTypeInsert
	case code == rjne.CodeRecord && lo.Contains(updateTypes, entryType):
		return OperationTypeUpdate
	case code == rjne.CodeRecord && lo.Contains(deleteTypes, entryType):
		return OperationTypeDelete
	case code == rjne.CodeCommit && lo.Contains(commitTypes, entryType):
		return OperationTypeCommit
	}
	return OperationTypeOther
}

type Event struct {
	// ID is a unique identifier for the event
	ID string `json:"id"`

	// Type is the operation the journal entry represents
	Type OperationType `json:"type"`

	// JournalCode and EntryType are the raw classification of the entry
	JournalCode string `json:"journal_code"`
	EntryType   string `json:"entry_type"`

	// Sequence is the journal sequence number of the entry
	Sequence uint64 `json:"sequence"`

	// Receiver identifies the storage segment that holds the entry
	Receiver string `json:"receiver,omitempty"`

	// Data is the raw entry-specific payload; mapping it into outbound
	// schemas is the consumer's concern
	Data []byte `json:"data,omitempty"`

	// Timestamp is the time the event was captured
	Timestamp time.Time `json:"timestamp"`

	// Checkpoint is the cursor position after this event, used to resume
	Checkpoint string `json:"checkpoint,omitempty"`

	// Metadata contains additional information about the event
	Metadata map[string]any `json:"extra,omitempty"`
}
