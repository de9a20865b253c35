// Package ioingest implements the ingestion pipeline: a single-flight
// state machine that turns the flat reference dataset into the
// indexed species dictionary exactly once. This is an impure I/O
// package implementing contracts defined in pkg/.
package ioingest

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/birddex/birddex/pkg/birddex"
	"github.com/birddex/birddex/pkg/config"
	"github.com/birddex/birddex/pkg/db"
	"github.com/birddex/birddex/pkg/ingest"
	"github.com/birddex/birddex/pkg/species"
	"github.com/dustin/go-humanize"
	"github.com/gnames/gnfmt"
	"golang.org/x/sync/singleflight"
)

// Progress bands per phase. Progress is monotonically non-decreasing
// within one ingestion attempt and ends at 100 on success.
const (
	progressSchemaDone = 5
	progressParseDone  = 20
	progressLoadDone   = 85
	progressIndexDone  = 99
)

// pipeline implements birddex.Pipeline.
type pipeline struct {
	cfg      *config.Config
	operator db.Operator
	schema   birddex.SchemaManager
	loader   birddex.Loader

	// sf guarantees concurrent Initialize callers share one run.
	sf singleflight.Group

	mu      sync.Mutex
	state   ingest.State
	subs    map[int]ingest.Subscriber
	nextSub int

	// notifyMu serializes snapshot delivery so a subscriber's initial
	// snapshot is never overtaken by a racing transition.
	notifyMu sync.Mutex
}

// New creates an ingestion pipeline. One pipeline per process is the
// expected wiring; the composition root owns its lifetime.
func New(
	cfg *config.Config,
	op db.Operator,
	schema birddex.SchemaManager,
	loader birddex.Loader,
) birddex.Pipeline {
	return &pipeline{
		cfg:      cfg,
		operator: op,
		schema:   schema,
		loader:   loader,
		state:    ingest.State{Status: ingest.Uninitialized},
		subs:     make(map[int]ingest.Subscriber),
	}
}

// Initialize runs ingestion. Concurrent callers join the in-flight
// run and settle together; a caller arriving after completion gets
// the metadata fast path.
func (p *pipeline) Initialize(ctx context.Context) error {
	_, err, _ := p.sf.Do("initialize", func() (any, error) {
		return nil, p.run(ctx)
	})
	return err
}

// Retry resets state to Uninitialized and re-invokes Initialize.
// While an attempt is in flight the reset is skipped and the call
// joins the shared run instead, so subscribers never observe state
// regress mid-attempt.
func (p *pipeline) Retry(ctx context.Context) error {
	if p.State().Status != ingest.Initializing {
		p.transition(func(s *ingest.State) {
			*s = ingest.State{Status: ingest.Uninitialized}
		})
	}
	return p.Initialize(ctx)
}

// State returns a snapshot of the current ingestion state.
func (p *pipeline) State() ingest.State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Subscribe registers an observer. The callback runs synchronously
// with the current state before Subscribe returns, then on every
// transition.
func (p *pipeline) Subscribe(fn ingest.Subscriber) ingest.Unsubscribe {
	p.notifyMu.Lock()
	p.mu.Lock()
	id := p.nextSub
	p.nextSub++
	p.subs[id] = fn
	snapshot := p.state
	p.mu.Unlock()

	// A transition that registered this subscriber under p.mu blocks
	// on notifyMu until the initial snapshot is out, so deliveries to
	// one subscriber arrive oldest-first.
	fn(snapshot)
	p.notifyMu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.subs, id)
		p.mu.Unlock()
	}
}

// run executes one ingestion attempt. Phases run strictly
// sequentially: schema, parse, load, index, finalize. Any failure
// aborts the whole attempt; only IndexBuildError degrades instead.
func (p *pipeline) run(ctx context.Context) error {
	if p.State().Status == ingest.Ready {
		return nil
	}

	startTime := time.Now()
	p.transition(func(s *ingest.State) {
		*s = ingest.State{
			Status:           ingest.Initializing,
			CurrentOperation: "checking dataset version",
		}
	})

	handle := p.operator.DB()
	if handle == nil {
		return p.fail(NotConnectedError())
	}

	// Idempotence fast path: a matching version tag means the
	// dictionary is already ingested.
	version, err := storedVersion(ctx, handle)
	if err != nil {
		return p.fail(MetadataError(err))
	}
	if version == species.DatasetVersion {
		count, err := speciesCount(ctx, handle)
		if err != nil {
			return p.fail(MetadataError(err))
		}
		p.transition(func(s *ingest.State) {
			s.Status = ingest.Ready
			s.Progress = 100
			s.TotalRecords = count
			s.LoadedRecords = count
			s.CurrentOperation = "ready"
		})
		slog.Info("Species dictionary already ingested",
			"version", version,
			"records", count)
		return nil
	}

	// (a) schema, 0-5%
	p.progress(1, "creating schema")
	if err := p.schema.EnsureSchema(ctx); err != nil {
		return p.fail(err)
	}
	p.progress(progressSchemaDone, "schema created")

	// (b) parse, 5-20%
	res, err := parseDataset(ctx, p.cfg.Dataset.Path,
		func(done, total int64) {
			if total > 0 {
				pct := progressSchemaDone +
					int(int64(progressParseDone-progressSchemaDone)*done/total)
				p.progress(pct, "parsing dataset")
			}
		})
	if err != nil {
		return p.fail(err)
	}
	now := time.Now()
	for i := range res.rows {
		res.rows[i].DatasetVersion = species.DatasetVersion
		res.rows[i].IngestedAt = now.UTC().Format(time.RFC3339)
	}
	p.transition(func(s *ingest.State) {
		s.TotalRecords = len(res.rows)
		if s.Progress < progressParseDone {
			s.Progress = progressParseDone
		}
		s.CurrentOperation = "dataset parsed"
	})
	slog.Info("Parsed reference dataset",
		"valid", humanize.Comma(int64(len(res.rows))),
		"discarded", res.discarded)

	// (c) load, 20-85%
	total := len(res.rows)
	err = p.loader.LoadBatches(ctx, res.rows, func(committed int) {
		pct := progressParseDone
		if total > 0 {
			pct += (progressLoadDone - progressParseDone) * committed / total
		}
		p.transition(func(s *ingest.State) {
			s.LoadedRecords = committed
			if pct > s.Progress {
				s.Progress = pct
			}
			s.CurrentOperation = "loading records"
		})
	})
	if err != nil {
		return p.fail(err)
	}
	p.progress(progressLoadDone, "records loaded")

	// (d) indexes, 85-99%. Index failures degrade: the dictionary
	// stays queryable, just unindexed.
	p.progress(progressLoadDone+1, "building indexes")
	if err := p.schema.BuildIndexes(ctx); err != nil {
		slog.Warn("Secondary index build failed; dictionary remains unindexed",
			"error", err)
	}
	p.progress(progressIndexDone, "indexes built")

	// (e) finalize
	if err := writeMetadata(ctx, handle, now); err != nil {
		return p.fail(err)
	}
	p.transition(func(s *ingest.State) {
		s.Status = ingest.Ready
		s.Progress = 100
		s.CurrentOperation = "ready"
	})

	slog.Info("Ingestion complete",
		"records", humanize.Comma(int64(total)),
		"version", species.DatasetVersion,
		"duration", gnfmt.TimeString(time.Since(startTime).Seconds()))
	return nil
}

// progress raises the progress value, never lowering it.
func (p *pipeline) progress(pct int, op string) {
	p.transition(func(s *ingest.State) {
		if pct > s.Progress {
			s.Progress = pct
		}
		s.CurrentOperation = op
	})
}

// fail records the error state and propagates the error to every
// caller waiting on the shared run.
func (p *pipeline) fail(err error) error {
	p.transition(func(s *ingest.State) {
		s.Status = ingest.StatusError
		s.Error = err.Error()
		s.CurrentOperation = "failed"
	})
	slog.Error("Ingestion failed", "error", err)
	return err
}

// transition mutates the state under lock, then notifies subscribers
// with a snapshot outside of it. Callbacks must be quick; they run on
// the pipeline's transition path.
func (p *pipeline) transition(mut func(*ingest.State)) {
	p.mu.Lock()
	mut(&p.state)
	snapshot := p.state
	subs := make([]ingest.Subscriber, 0, len(p.subs))
	for _, fn := range p.subs {
		subs = append(subs, fn)
	}
	p.mu.Unlock()

	p.notifyMu.Lock()
	for _, fn := range subs {
		fn(snapshot)
	}
	p.notifyMu.Unlock()
}
