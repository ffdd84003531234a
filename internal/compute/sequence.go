package compute

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/conduit-gpu/conduit/errors"
	"github.com/conduit-gpu/conduit/internal/device"
)

// Sequence is an ordered batch of operations, recorded once and evaluated
// as a unit. Recording validates immediately; evaluation runs the ops in
// order and stops at the first failure, reporting the whole batch as one
// error naming the failed op. A recording can be evaluated repeatedly and
// cleared for re-record.
//
// At most one evaluation is in flight per sequence. EvalAsync while running
// and EvalAwait with nothing pending are ordering violations.
type Sequence struct {
	dev device.Device
	log *zap.Logger
	mid string // owning manager id, for log correlation

	mu        sync.Mutex
	ops       []Op
	running   bool
	done      chan struct{}
	evalErr   error
	destroyed bool
}

// Record validates and appends ops to the recording. Validation is
// all-or-nothing: one bad op rejects the whole call and the recording is
// unchanged.
func (s *Sequence) Record(ops ...Op) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.destroyed {
		return errors.InvalidResource(errors.PhaseRecord, "sequence")
	}
	if s.running {
		return errors.SyncOrdering(errors.PhaseRecord, "cannot record while an evaluation is in flight")
	}
	for _, op := range ops {
		if op == nil {
			return errors.InvalidInput(errors.PhaseRecord, "nil op")
		}
		if err := op.validate(); err != nil {
			return err
		}
	}
	s.ops = append(s.ops, ops...)
	return nil
}

// Len returns the number of recorded ops.
func (s *Sequence) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ops)
}

// Clear drops the recording so the sequence can be re-recorded. An
// in-flight evaluation is unaffected; it runs on a snapshot.
func (s *Sequence) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops = nil
}

// Eval runs the recorded ops in order and blocks until they complete.
// Equivalent to EvalAsync followed by EvalAwait.
func (s *Sequence) Eval() error {
	if err := s.EvalAsync(); err != nil {
		return err
	}
	return s.EvalAwait()
}

// EvalAsync starts evaluating the recording in the background. A second
// EvalAsync before EvalAwait is a sync_ordering violation.
func (s *Sequence) EvalAsync() error {
	s.mu.Lock()
	if s.destroyed {
		s.mu.Unlock()
		return errors.InvalidResource(errors.PhaseEval, "sequence")
	}
	if s.running {
		s.mu.Unlock()
		return errors.SyncOrdering(errors.PhaseEval, "evaluation already in flight")
	}
	if s.done != nil {
		s.mu.Unlock()
		return errors.SyncOrdering(errors.PhaseEval, "previous evaluation not yet awaited")
	}
	ops := make([]Op, len(s.ops))
	copy(ops, s.ops)
	done := make(chan struct{})
	s.running = true
	s.done = done
	s.evalErr = nil
	s.mu.Unlock()

	s.log.Debug("sequence eval started",
		zap.String("manager", s.mid),
		zap.Int("ops", len(ops)))

	go func() {
		err := s.runOps(ops)

		s.mu.Lock()
		s.evalErr = err
		s.running = false
		s.mu.Unlock()
		close(done)
	}()
	return nil
}

// EvalAwait blocks until the in-flight evaluation finishes and returns its
// result. Awaiting with nothing pending is a sync_ordering violation.
func (s *Sequence) EvalAwait() error {
	s.mu.Lock()
	if s.destroyed {
		s.mu.Unlock()
		return errors.InvalidResource(errors.PhaseEval, "sequence")
	}
	done := s.done
	s.mu.Unlock()

	if done == nil {
		return errors.SyncOrdering(errors.PhaseEval, "await without a pending evaluation")
	}
	<-done

	s.mu.Lock()
	err := s.evalErr
	s.done = nil
	s.mu.Unlock()

	if err != nil {
		s.log.Debug("sequence eval failed",
			zap.String("manager", s.mid),
			zap.Error(err))
	}
	return err
}

// runOps executes the snapshot in order. The first failure aborts the rest
// of the batch; a trailing flush drains device work that no op forced.
func (s *Sequence) runOps(ops []Op) error {
	for i, op := range ops {
		if err := op.run(s.dev); err != nil {
			return abortErr(op, i, len(ops)-i-1, err)
		}
	}
	if err := s.dev.Flush(); err != nil {
		return wrapDevice(errors.PhaseEval, "flush", err)
	}
	return nil
}

// abortErr reports a failed batch as a single error naming the op that
// failed and how much of the batch it took down. The cause's kind is
// preserved so callers can still classify the failure.
func abortErr(op Op, index, skipped int, cause error) error {
	kind := errors.KindDeviceFailure
	if ce, ok := cause.(*errors.Error); ok {
		kind = ce.Kind
	}
	detail := fmt.Sprintf("op %d (%s) failed", index, op.Name())
	if skipped > 0 {
		detail = fmt.Sprintf("op %d (%s) failed, %d later ops skipped", index, op.Name(), skipped)
	}
	return errors.Wrap(errors.PhaseEval, kind, cause, detail)
}

// Destroy awaits any in-flight evaluation, then drops the recording and
// marks the sequence unusable. Idempotent.
func (s *Sequence) Destroy() error {
	s.mu.Lock()
	if s.destroyed {
		s.mu.Unlock()
		return nil
	}
	done := s.done
	s.mu.Unlock()

	if done != nil {
		<-done
	}

	s.mu.Lock()
	s.destroyed = true
	s.ops = nil
	s.done = nil
	s.mu.Unlock()
	return nil
}
