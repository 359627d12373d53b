package journal_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/web3tea/journal-sentinel/journal"
	"github.com/web3tea/journal-sentinel/journal/rjne"
)

func TestPositionSuite(t *testing.T) {
	suite.Run(t, new(positionSuite))
}

type positionSuite struct {
	suite.Suite
}

func (s *positionSuite) R() *require.Assertions {
	return s.Require()
}

func (s *positionSuite) TestStringRoundTrip() {
	qualified := journal.Position{Sequence: 12345, Receiver: "RCV0001", ReceiverLibrary: "JRNLIB"}
	s.R().Equal("12345@RCV0001.JRNLIB", qualified.String())

	parsed, err := journal.ParsePosition(qualified.String())
	s.R().NoError(err)
	s.R().True(parsed.SamePosition(qualified))

	plain := journal.Position{Sequence: 42}
	s.R().Equal("42", plain.String())

	parsed, err = journal.ParsePosition("42")
	s.R().NoError(err)
	s.R().True(parsed.SamePosition(plain))
}

func (s *positionSuite) TestParseRejectsMalformed() {
	_, err := journal.ParsePosition("abc")
	s.R().Error(err)

	_, err = journal.ParsePosition("12@RCVONLY")
	s.R().Error(err)

	_, err = journal.ParsePosition("12@.LIB")
	s.R().Error(err)
}

func (s *positionSuite) TestScannerInterface() {
	var pos journal.Position
	text := "99@RCV0002.JRNLIB"

	err := pos.Scan(text)
	s.R().NoError(err)
	s.R().Equal(text, pos.String())

	err = pos.Scan([]byte(text))
	s.R().NoError(err)
	s.R().Equal(text, pos.String())

	err = pos.Scan(99)
	s.R().Error(err)
}

func (s *positionSuite) TestValueInterface() {
	pos := journal.Position{Sequence: 7, Receiver: "RCV0001", ReceiverLibrary: "JRNLIB"}
	v, err := pos.Value()
	s.R().NoError(err)
	str, ok := v.(string)
	s.R().True(ok)
	s.R().Equal("7@RCV0001.JRNLIB", str)
}

func (s *positionSuite) TestSamePositionIgnoresProcessed() {
	a := journal.Position{Sequence: 10, Receiver: "RCV0001", ReceiverLibrary: "JRNLIB", Processed: true}
	b := journal.Position{Sequence: 10, Receiver: "RCV0001", ReceiverLibrary: "JRNLIB", Processed: false}
	s.R().True(a.SamePosition(b))

	c := journal.Position{Sequence: 11, Receiver: "RCV0001", ReceiverLibrary: "JRNLIB"}
	s.R().False(a.SamePosition(c))
}

func (s *positionSuite) TestAdvance() {
	pos := journal.Position{Sequence: 5}
	s.R().False(pos.ReceiverQualified())

	pos.Advance(rjne.EntryHeader{Sequence: 6})
	s.R().Equal(uint64(6), pos.Sequence)
	s.R().False(pos.ReceiverQualified())
	s.R().True(pos.Processed)

	// switches to receiver-qualified mode when the entry names its segment
	pos.Advance(rjne.EntryHeader{Sequence: 7, Receiver: "RCV0003", ReceiverLibrary: "JRNLIB"})
	s.R().True(pos.ReceiverQualified())
	s.R().Equal("7@RCV0003.JRNLIB", pos.String())

	// receiver qualification is sticky for entries without one
	pos.Advance(rjne.EntryHeader{Sequence: 8})
	s.R().Equal("8@RCV0003.JRNLIB", pos.String())
}

func (s *positionSuite) TestAlreadyProcessed() {
	prev := journal.Position{Sequence: 10, Receiver: "RCV0001", ReceiverLibrary: "JRNLIB", Processed: true}
	same := rjne.EntryHeader{Sequence: 10, Receiver: "RCV0001", ReceiverLibrary: "JRNLIB"}
	next := rjne.EntryHeader{Sequence: 11, Receiver: "RCV0001", ReceiverLibrary: "JRNLIB"}

	s.R().True(journal.AlreadyProcessed(prev, same))
	s.R().False(journal.AlreadyProcessed(prev, next))

	unprocessed := prev
	unprocessed.Processed = false
	s.R().False(journal.AlreadyProcessed(unprocessed, same))

	// prev must not be mutated by the check
	s.R().Equal(uint64(10), prev.Sequence)
	s.R().True(prev.Processed)
}

func (s *positionSuite) TestRangeEmpty() {
	start := journal.Position{Sequence: 10, Receiver: "RCV0001", ReceiverLibrary: "JRNLIB"}
	end := start
	s.R().True(journal.PositionRange{Start: start, End: end}.Empty())

	end.Sequence = 11
	s.R().False(journal.PositionRange{Start: start, End: end}.Empty())
}
