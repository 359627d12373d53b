package sentinel

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/web3tea/journal-sentinel/capturer"
	"github.com/web3tea/journal-sentinel/pkg/log"
	"github.com/web3tea/journal-sentinel/processor"
	"github.com/web3tea/journal-sentinel/sink"
)

// Status reflects the pipeline's lifecycle state.
type Status string

const (
	StatusIdle     Status = "idle"
	StatusStarting Status = "starting"
	StatusRunning  Status = "running"
	StatusStopping Status = "stopping"
	StatusError    Status = "error"
)

// StatusReporter is notified of status changes.
type StatusReporter interface {
	ReportStatus(status Status, message string)
}

// Sentinel drives the capture pipeline: it drains the capturer's events
// through the processor chain into the sink, flushing in batches, and
// acknowledges the capturer's checkpoint after each successful flush.
type Sentinel struct {
	Capturer  capturer.Capturer
	Processor processor.Processor
	Sink      sink.Sink

	BatchSize     int
	FlushInterval time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	lastCheckpoint     string
	checkpointInterval time.Duration
	checkpointMu       sync.RWMutex

	statusReporter StatusReporter

	status   Status
	statusMu sync.RWMutex
}

func NewSentinel(capturer capturer.Capturer, processor processor.Processor, sink sink.Sink, options ...Option) *Sentinel {
	s := &Sentinel{
		Capturer:           capturer,
		Processor:          processor,
		Sink:               sink,
		BatchSize:          1000,
		FlushInterval:      time.Second * 5,
		checkpointInterval: time.Minute,
		status:             StatusIdle,
	}

	for _, opt := range options {
		opt(s)
	}

	return s
}

// Start launches the capturer and the drain loop.
func (s *Sentinel) Start(ctx context.Context) error {
	s.setStatus(StatusStarting)
	s.ctx, s.cancel = context.WithCancel(ctx)

	if err := s.Capturer.Start(); err != nil {
		s.setStatus(StatusError)
		s.cancel()
		return fmt.Errorf("failed to start capturer: %w", err)
	}

	s.wg.Add(1)
	go s.drainLoop()

	s.setStatus(StatusRunning)
	return nil
}

// Stop flushes what is buffered and shuts the pipeline down.
func (s *Sentinel) Stop() error {
	s.setStatus(StatusStopping)
	s.cancel()
	s.wg.Wait()

	var errs []error
	if err := s.Capturer.Stop(); err != nil {
		errs = append(errs, err)
	}
	if err := s.Sink.Close(); err != nil {
		errs = append(errs, err)
	}

	s.setStatus(StatusIdle)
	if len(errs) > 0 {
		return fmt.Errorf("failed to stop cleanly: %v", errs)
	}
	return nil
}

// Status returns the current lifecycle state.
func (s *Sentinel) Status() Status {
	s.statusMu.RLock()
	defer s.statusMu.RUnlock()
	return s.status
}

func (s *Sentinel) drainLoop() {
	defer s.wg.Done()

	batch := make([]*capturer.Event, 0, s.BatchSize)
	flushTicker := time.NewTicker(s.FlushInterval)
	defer flushTicker.Stop()
	checkpointTicker := time.NewTicker(s.checkpointInterval)
	defer checkpointTicker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			s.flush(batch)
			return

		case event, ok := <-s.Capturer.Events():
			if !ok {
				s.flush(batch)
				return
			}
			processed, err := s.Processor.Process(event)
			if err != nil {
				log.Errorf("failed to process event %s: %v", event.ID, err)
				continue
			}
			if processed == nil {
				continue
			}
			batch = append(batch, processed)
			if len(batch) >= s.BatchSize {
				batch = s.flush(batch)
			}

		case <-flushTicker.C:
			batch = s.flush(batch)

		case <-checkpointTicker.C:
			s.acknowledge()
		}
	}
}

// flush writes the batch to the sink and remembers the last checkpoint for
// the next acknowledge. Returns the reset batch.
func (s *Sentinel) flush(batch []*capturer.Event) []*capturer.Event {
	if len(batch) == 0 {
		return batch
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.Sink.Write(ctx, batch); err != nil {
		log.Errorf("failed to write %d events to sink: %v", len(batch), err)
		return batch
	}
	if err := s.Sink.Flush(ctx); err != nil {
		log.Errorf("failed to flush sink: %v", err)
		return batch
	}

	s.checkpointMu.Lock()
	s.lastCheckpoint = batch[len(batch)-1].Checkpoint
	s.checkpointMu.Unlock()

	return batch[:0]
}

// acknowledge persists the last flushed checkpoint so a restart resumes
// after everything the sink has durably seen.
func (s *Sentinel) acknowledge() {
	s.checkpointMu.RLock()
	checkpoint := s.lastCheckpoint
	s.checkpointMu.RUnlock()

	if checkpoint == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.Capturer.ACK(ctx, checkpoint); err != nil {
		log.Errorf("failed to acknowledge checkpoint %s: %v", checkpoint, err)
		return
	}
	log.Debugf("acknowledged checkpoint %s", checkpoint)
}

func (s *Sentinel) setStatus(status Status) {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()

	s.status = status

	if s.statusReporter != nil {
		s.statusReporter.ReportStatus(status, "")
	}
}
