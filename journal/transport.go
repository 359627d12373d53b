package journal

import "context"

// Diagnostic is one message returned by the retrieval service alongside a
// non-success call. ID may be empty when the service returns a malformed
// diagnostic; classification logs those and keeps scanning.
type Diagnostic struct {
	ID   string
	Text string
	Help string
}

// CallResult is the outcome of one block-fetch call. When Success is false
// Data is empty and Diagnostics explains why.
type CallResult struct {
	Success     bool
	Data        []byte
	Diagnostics []Diagnostic
}

// Transport dispatches one synchronous block-fetch call against the journal
// retrieval service. The engine borrows the underlying connection per call
// and does not own its lifecycle; cancellation and timeouts are the
// caller's responsibility through ctx. A returned error means the service
// was unreachable at the transport level, before any diagnostics existed.
type Transport interface {
	Call(ctx context.Context, criteria *Criteria) (*CallResult, error)
}

// InfoRetriever answers questions about the live journal: its current head
// and the chain of receivers holding its data. The range resolver consults
// it before each fetch.
type InfoRetriever interface {
	CurrentPosition(ctx context.Context) (Position, error)
	ReceiverChain(ctx context.Context) ([]ReceiverInfo, error)
}
