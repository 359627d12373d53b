package capturer

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/web3tea/journal-sentinel/journal"
	"github.com/web3tea/journal-sentinel/journal/rjne"
	"github.com/web3tea/journal-sentinel/store"
)

const (
	checkpointKey       = "position"
	defaultPollInterval = time.Second
	defaultBufferSize   = 32
)

// ErrInterrupted reports that capture stopped because its context was
// cancelled while waiting for or emitting journal data.
var ErrInterrupted = errors.New("capture interrupted")

// JournalCapturer polls one journal stream through a Retriever and turns
// decoded entries into Events. One cursor, one in-flight retrieval; capture
// of multiple journals needs one JournalCapturer per journal.
type JournalCapturer struct {
	cfg         Config
	retriever   *journal.Retriever
	info        journal.InfoRetriever
	checkpoints store.Store
	logger      Logger

	pos    journal.Position
	events chan *Event

	ctx      context.Context
	cancelFn context.CancelFunc
	wg       sync.WaitGroup
	running  bool
	lastErr  error
	mu       sync.Mutex
}

func NewJournalCapturer(cfg Config, retriever *journal.Retriever, info journal.InfoRetriever, checkpoints store.Store, logger Logger) *JournalCapturer {
	if logger == nil {
		logger = &noopLogger{}
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.EventBufferSize == 0 {
		cfg.EventBufferSize = defaultBufferSize
	}
	c := &JournalCapturer{
		cfg:         cfg,
		retriever:   retriever,
		info:        info,
		checkpoints: checkpoints,
		logger:      logger,
		events:      make(chan *Event, cfg.EventBufferSize),
	}
	c.ctx, c.cancelFn = context.WithCancel(context.Background())
	return c
}

// Start implements Capturer.
func (c *JournalCapturer) Start() error {
	if c.IsRunning() {
		return fmt.Errorf("capture already running")
	}

	pos, err := c.initialPosition(c.ctx)
	if err != nil {
		return fmt.Errorf("failed to resolve starting position: %w", err)
	}
	c.storePosition(pos)
	c.logger.Infof("starting capture of %s.%s at %s", c.cfg.JournalLibrary, c.cfg.JournalName, pos)

	c.wg.Add(1)
	go c.run(c.ctx)

	c.setRunning(true)
	return nil
}

// Stop implements Capturer.
func (c *JournalCapturer) Stop() error {
	if !c.IsRunning() {
		return fmt.Errorf("capture not running")
	}

	c.cancelFn()
	c.wg.Wait()

	c.setRunning(false)
	c.logger.Infof("capturer stopped")
	return nil
}

// Events implements Capturer.
func (c *JournalCapturer) Events() <-chan *Event {
	return c.events
}

// Checkpoint implements Capturer. It returns the cursor in its textual
// form, suitable for ACK after downstream durably consumed everything up
// to it.
func (c *JournalCapturer) Checkpoint(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pos.String(), nil
}

// ACK implements Capturer: it persists position so a restart resumes there.
func (c *JournalCapturer) ACK(ctx context.Context, position string) error {
	if _, err := journal.ParsePosition(position); err != nil {
		return err
	}
	if c.checkpoints == nil {
		return nil
	}
	return c.checkpoints.Set(ctx, checkpointKey, []byte(position))
}

// Err returns the error that terminated the capture loop, if any.
// ErrInterrupted means a clean cancellation.
func (c *JournalCapturer) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

func (c *JournalCapturer) IsRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

func (c *JournalCapturer) setRunning(running bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = running
}

func (c *JournalCapturer) setErr(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastErr = err
}

// The run loop owns a local cursor and publishes it here after each drained
// session, so Checkpoint never observes a half-advanced position.
func (c *JournalCapturer) position() journal.Position {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pos
}

func (c *JournalCapturer) storePosition(pos journal.Position) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pos = pos
}

// initialPosition resumes from the persisted checkpoint when one exists.
// Otherwise it starts at the live head ("from now"), or at the oldest
// receiver when FromBeginning is set.
func (c *JournalCapturer) initialPosition(ctx context.Context) (journal.Position, error) {
	if c.checkpoints != nil {
		raw, err := c.checkpoints.Get(ctx, checkpointKey)
		switch {
		case err == nil:
			pos, err := journal.ParsePosition(string(raw))
			if err != nil {
				return journal.Position{}, err
			}
			pos.Processed = true
			return pos, nil
		case !errors.Is(err, store.ErrNotFound):
			return journal.Position{}, err
		}
	}

	if c.cfg.FromBeginning {
		chain, err := c.info.ReceiverChain(ctx)
		if err != nil {
			return journal.Position{}, err
		}
		if len(chain) > 0 {
			oldest := chain[0]
			return journal.Position{
				Sequence:        oldest.FirstSequence,
				Receiver:        oldest.Name,
				ReceiverLibrary: oldest.Library,
			}, nil
		}
	}
	return c.info.CurrentPosition(ctx)
}

func (c *JournalCapturer) run(ctx context.Context) {
	defer c.wg.Done()

	pos := c.position()
	for {
		select {
		case <-ctx.Done():
			c.setErr(ErrInterrupted)
			return
		default:
		}

		session, err := c.retriever.Retrieve(ctx, &pos)
		if err != nil {
			if fatalRetrieveError(err) {
				c.logger.Errorf("capture stopped: %v", err)
				c.setErr(err)
				return
			}
			c.logger.Warnf("retrieve failed, will retry: %v", err)
			if !c.sleep(ctx) {
				return
			}
			continue
		}

		ok := c.drain(ctx, session)
		c.storePosition(pos)
		if !ok {
			return
		}

		if !session.FutureDataAvailable() {
			if !c.sleep(ctx) {
				return
			}
		}
	}
}

// drain walks all entries of one session onto the event channel. Returns
// false when the capture was cancelled mid-drain.
func (c *JournalCapturer) drain(ctx context.Context, session *journal.Session) bool {
	for {
		ok, err := session.NextEntry()
		if err != nil {
			c.logger.Errorf("failed to decode entry header: %v", err)
			return true
		}
		if !ok {
			return true
		}

		header := session.EntryHeader()
		data, err := journal.Decode(session, journal.RawData{})
		if err != nil {
			// raw buffer already dumped for analysis, skip the entry
			c.logger.Errorf("failed to decode entry payload at %s: %v", session.Position(), err)
			continue
		}

		select {
		case c.events <- c.buildEvent(header, data, *session.Position()):
		case <-ctx.Done():
			c.setErr(ErrInterrupted)
			return false
		}
	}
}

func (c *JournalCapturer) buildEvent(header rjne.EntryHeader, data []byte, pos journal.Position) *Event {
	return &Event{
		ID:          eventID(header),
		Type:        OperationTypeOf(header.JournalCode, header.EntryType),
		JournalCode: string(header.JournalCode),
		EntryType:   header.EntryType,
		Sequence:    header.Sequence,
		Receiver:    header.Receiver,
		Data:        data,
		Timestamp:   time.Now(),
		Checkpoint:  pos.String(),
	}
}

// sleep waits one poll interval, returning false when cancelled.
func (c *JournalCapturer) sleep(ctx context.Context) bool {
	t := time.NewTimer(c.cfg.PollInterval)
	defer t.Stop()
	select {
	case <-ctx.Done():
		c.setErr(ErrInterrupted)
		return false
	case <-t.C:
		return true
	}
}

func fatalRetrieveError(err error) bool {
	var invalidPos *journal.InvalidPositionError
	var invalidFilter *journal.InvalidFilterError
	return errors.As(err, &invalidPos) || errors.As(err, &invalidFilter)
}

func eventID(header rjne.EntryHeader) string {
	h := fnv.New64a()
	fmt.Fprintf(h, "%d-%c-%s-%s.%s", header.Sequence, header.JournalCode, header.EntryType, header.Receiver, header.ReceiverLibrary)
	return strconv.FormatUint(h.Sum64(), 16)
}

var _ Capturer = (*JournalCapturer)(nil)
