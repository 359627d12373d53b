package journal

import (
	"fmt"
	"strings"

	"github.com/jackc/pgio"
)

// EntryTypeAll is the entry-type filter fixed at the protocol layer.
// Business-level filtering happens through object filters and the
// downstream processor chain, never by narrowing the protocol filter.
const EntryTypeAll = "*ALL"

// FileFilter names one journaled object to restrict the retrieval to.
type FileFilter struct {
	Name    string
	Library string
	Member  string
}

func (f FileFilter) String() string {
	if f.Member == "" {
		return f.Library + "/" + f.Name
	}
	return f.Library + "/" + f.Name + "(" + f.Member + ")"
}

// ParseFileFilter parses "LIBRARY/NAME" or "LIBRARY/NAME(MEMBER)".
func ParseFileFilter(s string) (FileFilter, error) {
	lib, rest, ok := strings.Cut(s, "/")
	if !ok || lib == "" || rest == "" {
		return FileFilter{}, fmt.Errorf("invalid file filter %q, want LIBRARY/NAME", s)
	}
	f := FileFilter{Library: lib, Name: rest}
	if name, member, ok := strings.Cut(rest, "("); ok {
		member, closed := strings.CutSuffix(member, ")")
		if !closed || name == "" || member == "" {
			return FileFilter{}, fmt.Errorf("invalid file filter %q, want LIBRARY/NAME(MEMBER)", s)
		}
		f.Name = name
		f.Member = member
	}
	return f, nil
}

// Criteria is the parameter block for one retrieval call: the journal
// identity, the filters, and either explicit receiver-chain bounds with a
// start/end sequence or an open-ended from-position directive.
type Criteria struct {
	JournalName    string
	JournalLibrary string
	EntryTypes     string
	Files          []FileFilter

	FromSequence uint64
	ToSequence   uint64

	StartReceiver        string
	StartReceiverLibrary string
	EndReceiver          string
	EndReceiverLibrary   string

	// OpenEnded asks the service to resolve the live end itself instead
	// of honoring explicit bounds.
	OpenEnded bool
}

func (c *Criteria) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "journal %s.%s types %s from %d", c.JournalLibrary, c.JournalName, c.EntryTypes, c.FromSequence)
	if c.OpenEnded {
		b.WriteString(" to end")
	} else {
		fmt.Fprintf(&b, " to %d receivers %s.%s..%s.%s",
			c.ToSequence, c.StartReceiverLibrary, c.StartReceiver, c.EndReceiverLibrary, c.EndReceiver)
	}
	if len(c.Files) > 0 {
		fmt.Fprintf(&b, " files %v", c.Files)
	}
	return b.String()
}

// Encode serializes the criteria into the wire parameter block: fixed-width
// space-padded names, big-endian sequences, then the object filter list.
func (c *Criteria) Encode() []byte {
	buf := make([]byte, 0, 128)
	buf = appendName(buf, c.JournalName)
	buf = appendName(buf, c.JournalLibrary)
	buf = appendName(buf, c.EntryTypes)
	if c.OpenEnded {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}
	buf = pgio.AppendUint64(buf, c.FromSequence)
	buf = pgio.AppendUint64(buf, c.ToSequence)
	buf = appendName(buf, c.StartReceiver)
	buf = appendName(buf, c.StartReceiverLibrary)
	buf = appendName(buf, c.EndReceiver)
	buf = appendName(buf, c.EndReceiverLibrary)
	buf = pgio.AppendUint16(buf, uint16(len(c.Files)))
	for _, f := range c.Files {
		buf = appendName(buf, f.Name)
		buf = appendName(buf, f.Library)
		buf = appendName(buf, f.Member)
	}
	return buf
}

// appendName writes a 10-byte, space-padded name field.
func appendName(buf []byte, s string) []byte {
	const width = 10
	if len(s) > width {
		s = s[:width]
	}
	buf = append(buf, s...)
	for i := len(s); i < width; i++ {
		buf = append(buf, ' ')
	}
	return buf
}

// CriteriaBuilder accumulates the parameters for one retrieval call. Reset
// and rebuilt on every call; the journal identity is fixed at construction.
type CriteriaBuilder struct {
	criteria Criteria
	journal  string
	library  string
}

func NewCriteriaBuilder(journalName, journalLibrary string) *CriteriaBuilder {
	b := &CriteriaBuilder{journal: journalName, library: journalLibrary}
	b.Reset()
	return b
}

func (b *CriteriaBuilder) Reset() *CriteriaBuilder {
	b.criteria = Criteria{
		JournalName:    b.journal,
		JournalLibrary: b.library,
		EntryTypes:     EntryTypeAll,
	}
	return b
}

func (b *CriteriaBuilder) WithFileFilters(files []FileFilter) *CriteriaBuilder {
	b.criteria.Files = files
	return b
}

func (b *CriteriaBuilder) WithStartingSequence(seq uint64) *CriteriaBuilder {
	b.criteria.FromSequence = seq
	return b
}

func (b *CriteriaBuilder) WithEndingSequence(seq uint64) *CriteriaBuilder {
	b.criteria.ToSequence = seq
	return b
}

// WithReceivers pins the receiver-chain bounds explicitly. Required whenever
// a resolved range is used: asking the service for "current chain" semantics
// repeatedly can loop forever, so the start receiver must be set.
func (b *CriteriaBuilder) WithReceivers(startName, startLib, endName, endLib string) *CriteriaBuilder {
	b.criteria.StartReceiver = startName
	b.criteria.StartReceiverLibrary = startLib
	b.criteria.EndReceiver = endName
	b.criteria.EndReceiverLibrary = endLib
	return b
}

// FromPositionToEnd issues an open-ended directive: start at pos and let the
// service determine the live end.
func (b *CriteriaBuilder) FromPositionToEnd(pos Position) *CriteriaBuilder {
	b.criteria.FromSequence = pos.Sequence
	b.criteria.StartReceiver = pos.Receiver
	b.criteria.StartReceiverLibrary = pos.ReceiverLibrary
	b.criteria.OpenEnded = true
	return b
}

func (b *CriteriaBuilder) Build() *Criteria {
	c := b.criteria
	return &c
}
