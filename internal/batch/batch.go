// Package batch runs many parse requests concurrently under a fixed bound.
//
// A batch is three stages connected by channels: intake pulls requests
// from a Source into a fixed-size queue, a pool of workers parses them, and
// completion hands finished responses to a Sink. The queue and the worker
// count bound memory; the only shared counter is the atomic in-flight slot
// count. Responses are correlated by file_id and emitted in completion
// order, not input order.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dusk-indust/archparse/internal/syntax"
)

// DefaultQueueSize matches the request buffer of the original batch stream.
const DefaultQueueSize = 128

// Parser turns a request into a response. It must report every per-file
// failure on the response; engine.Engine satisfies it.
type Parser interface {
	Parse(ctx context.Context, req syntax.Request) syntax.Response
}

// Sink receives completed responses from the completion stage, one at a
// time. An error aborts the batch.
type Sink func(syntax.Response) error

// Options tune an Orchestrator.
type Options struct {
	// Workers bounds the number of requests parsed at once. Zero means
	// runtime.NumCPU().
	Workers int
	// QueueSize bounds the number of received requests waiting for a
	// worker. Zero means DefaultQueueSize.
	QueueSize int
	// OnProgress is called from the pipeline stages; it may be nil.
	OnProgress func(ProgressEvent)
}

// Stats summarise one Run.
type Stats struct {
	Received     int
	Completed    int
	Failed       int
	PeakInFlight int
}

// Orchestrator is safe for concurrent Runs. The in-flight slots are shared
// across them, so the bound holds for the whole process, not per batch.
type Orchestrator struct {
	parser     Parser
	workers    int
	queueSize  int
	onProgress func(ProgressEvent)
	log        *zap.Logger

	slots    chan struct{}
	inFlight atomic.Int64
	peak     atomic.Int64
}

// New creates an Orchestrator that parses with p.
func New(p Parser, opts Options, log *zap.Logger) *Orchestrator {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = DefaultQueueSize
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{
		parser:     p,
		workers:    opts.Workers,
		queueSize:  opts.QueueSize,
		onProgress: opts.OnProgress,
		log:        log,
		slots:      make(chan struct{}, opts.Workers),
	}
}

// Workers returns the in-flight bound.
func (o *Orchestrator) Workers() int { return o.workers }

// InFlight returns the number of requests currently being parsed.
func (o *Orchestrator) InFlight() int { return int(o.inFlight.Load()) }

// PeakInFlight returns the highest in-flight count observed so far.
func (o *Orchestrator) PeakInFlight() int { return int(o.peak.Load()) }

// Run drains src through the worker pool into sink. It returns when src is
// exhausted and every accepted request has been emitted, when ctx is
// cancelled, or when src or sink fail. After cancellation nothing more is
// passed to sink and Run returns ctx's error.
func (o *Orchestrator) Run(ctx context.Context, src Source, sink Sink) (Stats, error) {
	var stats Stats
	g, gctx := errgroup.WithContext(ctx)
	jobs := make(chan syntax.Request, o.queueSize)
	results := make(chan syntax.Response, o.workers)

	// Intake.
	g.Go(func() error {
		defer close(jobs)
		for {
			req, err := src.Recv(gctx)
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("receive request: %w", err)
			}
			stats.Received++
			o.emit(ProgressEvent{FileID: req.FileID, Status: ProgressPending})

			select {
			case jobs <- req:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
	})

	// Workers.
	var wg sync.WaitGroup
	for i := 0; i < o.workers; i++ {
		wg.Add(1)
		g.Go(func() error {
			defer wg.Done()
			for req := range jobs {
				if err := gctx.Err(); err != nil {
					return err
				}
				resp := o.parse(gctx, req)
				select {
				case results <- resp:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			return nil
		})
	}
	g.Go(func() error {
		wg.Wait()
		close(results)
		return nil
	})

	// Completion.
	g.Go(func() error {
		for resp := range results {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := sink(resp); err != nil {
				return fmt.Errorf("send response %s: %w", resp.FileID, err)
			}
			if resp.Failed() {
				stats.Failed++
				o.emit(ProgressEvent{FileID: resp.FileID, Status: ProgressFailed, Message: resp.Error})
			} else {
				stats.Completed++
				o.emit(ProgressEvent{FileID: resp.FileID, Status: ProgressComplete})
			}
		}
		return nil
	})

	err := g.Wait()
	stats.PeakInFlight = o.PeakInFlight()
	o.log.Debug("batch finished",
		zap.Int("received", stats.Received),
		zap.Int("completed", stats.Completed),
		zap.Int("failed", stats.Failed),
		zap.Int("peak_in_flight", stats.PeakInFlight),
		zap.Error(err),
	)
	return stats, err
}

// Single runs req as a one-element batch, so unary calls share the batch
// path exactly.
func (o *Orchestrator) Single(ctx context.Context, req syntax.Request) (syntax.Response, error) {
	var out *syntax.Response
	_, err := o.Run(ctx, SliceSource([]syntax.Request{req}), func(resp syntax.Response) error {
		out = &resp
		return nil
	})
	if err != nil {
		return syntax.Response{}, err
	}
	if out == nil {
		return syntax.Response{}, fmt.Errorf("batch produced no response for %s", req.FileID)
	}
	return *out, nil
}

// parse holds one in-flight slot for the duration of the parse.
func (o *Orchestrator) parse(ctx context.Context, req syntax.Request) syntax.Response {
	select {
	case o.slots <- struct{}{}:
		defer func() { <-o.slots }()
	case <-ctx.Done():
		return syntax.Response{
			FileID:    req.FileID,
			FilePath:  req.FilePath,
			Language:  req.Language,
			Error:     ctx.Err().Error(),
			ErrorKind: syntax.ErrCancelled,
		}
	}

	n := o.inFlight.Add(1)
	defer o.inFlight.Add(-1)
	for {
		peak := o.peak.Load()
		if n <= peak || o.peak.CompareAndSwap(peak, n) {
			break
		}
	}

	o.emit(ProgressEvent{FileID: req.FileID, Status: ProgressWorking})
	resp := o.parser.Parse(ctx, req)
	if resp.Failed() && resp.ErrorKind != syntax.ErrCancelled {
		o.log.Warn("parse failed",
			zap.String("file_id", req.FileID),
			zap.String("file_path", req.FilePath),
			zap.String("language", req.Language),
			zap.String("error", resp.Error),
		)
	}
	return resp
}

func (o *Orchestrator) emit(ev ProgressEvent) {
	if o.onProgress != nil {
		o.onProgress(ev)
	}
}
