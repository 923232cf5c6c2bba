package synth

import (
	"fmt"
	"sync"

	"github.com/alitto/pond"

	"github.com/pangealabs/tfsynth/pkg/multierr"
)

// ParallelSession builds independent sub-documents on a worker pool and merges
// them into the parent deterministically. Each Declare call gets its own
// sub-synthesizer, so workers never mutate shared document state; the merge
// applies sub-documents in Declare order with last-registration-wins per
// (type, name), matching the single-threaded overwrite semantics.
type ParallelSession struct {
	parent *Synthesizer
	pool   *pond.WorkerPool

	mu   sync.Mutex
	subs []*Synthesizer
	errs []error
}

// Parallel starts a parallel declaration session with the given worker count.
func (s *Synthesizer) Parallel(workers int) *ParallelSession {
	if workers < 1 {
		workers = 1
	}
	return &ParallelSession{
		parent: s,
		pool:   pond.New(workers, 1000, pond.Strategy(pond.Lazy())),
	}
}

// Declare schedules fn against a fresh sub-synthesizer sharing the parent's
// registry. Declaration order, not completion order, decides merge precedence.
func (p *ParallelSession) Declare(fn func(*Synthesizer) error) {
	p.mu.Lock()
	sub := New(p.parent.reg)
	idx := len(p.subs)
	p.subs = append(p.subs, sub)
	p.errs = append(p.errs, nil)
	p.mu.Unlock()

	p.pool.Submit(func() {
		err := fn(sub)
		p.mu.Lock()
		p.errs[idx] = err
		p.mu.Unlock()
	})
}

// Merge waits for all declarations and folds the sub-documents into the
// parent. If any declaration failed, nothing is merged and the collected
// errors are returned.
func (p *ParallelSession) Merge() error {
	p.pool.StopAndWait()

	var errs multierr.Error
	for i, err := range p.errs {
		if err != nil {
			errs.Append(fmt.Errorf("parallel declaration %d: %w", i, err))
		}
	}
	if err := errs.ErrOrNil(); err != nil {
		return err
	}
	for _, sub := range p.subs {
		if err := p.parent.doc.Merge(sub.doc); err != nil {
			return err
		}
	}
	return nil
}
