package compute

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-gpu/conduit/errors"
	"github.com/conduit-gpu/conduit/internal/device"
	"github.com/conduit-gpu/conduit/internal/memory"
)

// blockingProgram parks its kernel on release until the test lets it
// finish, signalling entry through started.
func blockingProgram(started, release chan struct{}) *device.Program {
	return &device.Program{
		Name: "park",
		Kernel: func([][]byte, [3]uint32) error {
			close(started)
			<-release
			return nil
		},
		LocalSize: 1,
	}
}

func failingProgram(msg string) *device.Program {
	return &device.Program{
		Name: "explode",
		Kernel: func([][]byte, [3]uint32) error {
			return fmt.Errorf("%s", msg)
		},
		LocalSize: 1,
	}
}

func TestRecordAppends(t *testing.T) {
	m := newTestManager(t)
	a, err := NewTensor(m, []int32{1, 2, 3})
	require.NoError(t, err)

	seq := m.Sequence()
	require.NoError(t, seq.Record(SyncDevice(a), SyncLocal(a)))
	assert.Equal(t, 2, seq.Len())

	require.NoError(t, seq.Record(SyncLocal(a)))
	assert.Equal(t, 3, seq.Len())
}

func TestRecordValidation(t *testing.T) {
	m := newTestManager(t)

	a, err := NewTensor(m, []int32{1, 2, 3})
	require.NoError(t, err)
	f, err := NewTensorEmpty[float32](m, 3)
	require.NoError(t, err)
	short, err := NewTensorEmpty[int32](m, 2)
	require.NoError(t, err)
	dead, err := NewTensorEmpty[int32](m, 3)
	require.NoError(t, err)
	require.NoError(t, dead.Destroy())

	tests := []struct {
		name string
		op   Op
		kind errors.Kind
	}{
		{"nil op", nil, errors.KindInvalidInput},
		{"sync without resources", SyncDevice(), errors.KindInvalidInput},
		{"nil resource", SyncLocal(a, nil), errors.KindInvalidInput},
		{"destroyed resource", SyncDevice(dead), errors.KindInvalidResource},
		{"nil algorithm", Dispatch(nil), errors.KindInvalidInput},
		{"copy nil resource", CopyResource(nil, a), errors.KindInvalidInput},
		{"copy kind mismatch", CopyResource(f, a), errors.KindTypeMismatch},
		{"copy length mismatch", CopyResource(short, a), errors.KindInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seq := m.Sequence()
			err := seq.Record(tt.op)
			require.Error(t, err)
			assert.True(t, errors.IsKind(err, tt.kind), "got %v", err)
			assert.Equal(t, 0, seq.Len(), "rejected ops must not be recorded")
		})
	}
}

func TestRecordAllOrNothing(t *testing.T) {
	m := newTestManager(t)
	a, err := NewTensor(m, []int32{1, 2, 3})
	require.NoError(t, err)

	seq := m.Sequence()
	err = seq.Record(SyncDevice(a), SyncDevice())
	require.Error(t, err)
	assert.Equal(t, 0, seq.Len(), "one bad op rejects the whole call")

	require.NoError(t, seq.Record(SyncDevice(a)))
	assert.Equal(t, 1, seq.Len())
}

func TestEvalEmptySequence(t *testing.T) {
	m := newTestManager(t)
	seq := m.Sequence()
	assert.NoError(t, seq.Eval())
}

func TestEvalCopy(t *testing.T) {
	m := newTestManager(t)

	a, err := NewTensor(m, []int32{3, 1, 4})
	require.NoError(t, err)
	b, err := NewTensorEmpty[int32](m, 3)
	require.NoError(t, err)

	seq := m.Sequence()
	require.NoError(t, seq.Record(
		SyncDevice(a),
		CopyResource(b, a),
		SyncLocal(b),
	))
	require.NoError(t, seq.Eval())

	assert.Equal(t, []int32{3, 1, 4}, b.View().Int32s())
}

func TestEvalRepeats(t *testing.T) {
	m := newTestManager(t)

	a, err := NewTensor(m, []int32{2, 3, 4})
	require.NoError(t, err)
	b, err := NewTensor(m, []int32{5, 5, 5})
	require.NoError(t, err)
	out, err := NewTensorEmpty[int32](m, 3)
	require.NoError(t, err)

	algo, err := m.Algorithm(mulProgram(t, memory.Int32), []memory.Resource{a, b, out})
	require.NoError(t, err)

	seq := m.Sequence()
	require.NoError(t, seq.Record(
		SyncDevice(a, b),
		Dispatch(algo),
		SyncLocal(out),
	))

	require.NoError(t, seq.Eval())
	assert.Equal(t, []int32{10, 15, 20}, out.View().Int32s())

	copy(a.View().Int32s(), []int32{7, 8, 9})
	require.NoError(t, seq.Eval())
	assert.Equal(t, []int32{35, 40, 45}, out.View().Int32s(), "re-evaluation picks up the mutated mirror")
}

func TestClearDropsRecording(t *testing.T) {
	m := newTestManager(t)

	a, err := NewTensor(m, []int32{1, 2, 3})
	require.NoError(t, err)
	b, err := NewTensorEmpty[int32](m, 3)
	require.NoError(t, err)

	seq := m.Sequence()
	require.NoError(t, seq.Record(SyncDevice(a), CopyResource(b, a), SyncLocal(b)))
	seq.Clear()

	assert.Equal(t, 0, seq.Len())
	require.NoError(t, seq.Eval())
	assert.Equal(t, []int32{0, 0, 0}, b.View().Int32s(), "cleared ops must not run")
}

func TestEvalAsyncAwait(t *testing.T) {
	m := newTestManager(t)

	a, err := NewTensor(m, []int32{3, 1, 4})
	require.NoError(t, err)
	b, err := NewTensorEmpty[int32](m, 3)
	require.NoError(t, err)

	seq := m.Sequence()
	require.NoError(t, seq.Record(SyncDevice(a), CopyResource(b, a), SyncLocal(b)))

	require.NoError(t, seq.EvalAsync())
	require.NoError(t, seq.EvalAwait())
	assert.Equal(t, []int32{3, 1, 4}, b.View().Int32s())

	err = seq.EvalAwait()
	require.Error(t, err, "the result was already consumed")
	assert.True(t, errors.IsKind(err, errors.KindSyncOrdering))
}

func TestEvalWhileInFlight(t *testing.T) {
	m := newTestManager(t)

	a, err := NewTensorEmpty[int32](m, 1)
	require.NoError(t, err)

	started := make(chan struct{})
	release := make(chan struct{})
	algo, err := m.Algorithm(blockingProgram(started, release), []memory.Resource{a})
	require.NoError(t, err)

	seq := m.Sequence()
	require.NoError(t, seq.Record(Dispatch(algo)))
	require.NoError(t, seq.EvalAsync())
	<-started

	err = seq.EvalAsync()
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindSyncOrdering))
	assert.ErrorContains(t, err, "in flight")

	err = seq.Record(SyncLocal(a))
	require.Error(t, err, "recording must wait for the evaluation")
	assert.True(t, errors.IsKind(err, errors.KindSyncOrdering))

	close(release)
	require.NoError(t, seq.EvalAwait())
	require.NoError(t, seq.Record(SyncLocal(a)), "recording reopens once the evaluation is consumed")
}

func TestEvalUnawaitedFails(t *testing.T) {
	m := newTestManager(t)

	a, err := NewTensor(m, []int32{1})
	require.NoError(t, err)

	seq := m.Sequence()
	require.NoError(t, seq.Record(SyncDevice(a)))
	require.NoError(t, seq.EvalAsync())

	err = seq.EvalAsync()
	require.Error(t, err, "a pending result must be awaited first")
	assert.True(t, errors.IsKind(err, errors.KindSyncOrdering))

	require.NoError(t, seq.EvalAwait())
	require.NoError(t, seq.EvalAsync())
	require.NoError(t, seq.EvalAwait())
}

func TestAwaitWithoutEval(t *testing.T) {
	m := newTestManager(t)
	seq := m.Sequence()

	err := seq.EvalAwait()
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindSyncOrdering))
	assert.ErrorContains(t, err, "await without a pending evaluation")
}

func TestClearDuringEval(t *testing.T) {
	m := newTestManager(t)

	a, err := NewTensorEmpty[int32](m, 1)
	require.NoError(t, err)

	started := make(chan struct{})
	release := make(chan struct{})
	algo, err := m.Algorithm(blockingProgram(started, release), []memory.Resource{a})
	require.NoError(t, err)

	seq := m.Sequence()
	require.NoError(t, seq.Record(Dispatch(algo)))
	require.NoError(t, seq.EvalAsync())
	<-started

	seq.Clear()
	assert.Equal(t, 0, seq.Len())

	close(release)
	require.NoError(t, seq.EvalAwait(), "the in-flight snapshot is unaffected by Clear")
}

func TestEvalAbortReportsBatch(t *testing.T) {
	m := newTestManager(t)

	a, err := NewTensor(m, []int32{1, 2, 3})
	require.NoError(t, err)
	out, err := NewTensorEmpty[int32](m, 3)
	require.NoError(t, err)

	algo, err := m.Algorithm(failingProgram("boom"), []memory.Resource{a, out})
	require.NoError(t, err)

	seq := m.Sequence()
	require.NoError(t, seq.Record(
		SyncDevice(a),
		Dispatch(algo),
		SyncLocal(out),
	))

	err = seq.Eval()
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindDeviceFailure))
	assert.ErrorContains(t, err, "op 1 (dispatch) failed")
	assert.ErrorContains(t, err, "1 later ops skipped")
	assert.ErrorContains(t, err, "boom")

	assert.Equal(t, []int32{0, 0, 0}, out.View().Int32s(), "ops after the failure must not run")
}

func TestEvalAbortPreservesKind(t *testing.T) {
	m := newTestManager(t)

	a, err := NewTensor(m, []int32{1, 2, 3})
	require.NoError(t, err)

	seq := m.Sequence()
	require.NoError(t, seq.Record(SyncDevice(a)))
	require.NoError(t, a.Destroy())

	err = seq.Eval()
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindInvalidResource),
		"a resource destroyed between record and eval is not a device fault")
	assert.ErrorContains(t, err, "op 0 (sync-to-device) failed")
}

func TestSequenceDestroy(t *testing.T) {
	m := newTestManager(t)
	a, err := NewTensor(m, []int32{1})
	require.NoError(t, err)

	seq := m.Sequence()
	require.NoError(t, seq.Record(SyncDevice(a)))
	require.NoError(t, seq.Destroy())
	require.NoError(t, seq.Destroy(), "destroy is idempotent")

	err = seq.Record(SyncDevice(a))
	assert.True(t, errors.IsKind(err, errors.KindInvalidResource))
	err = seq.Eval()
	assert.True(t, errors.IsKind(err, errors.KindInvalidResource))
	err = seq.EvalAwait()
	assert.True(t, errors.IsKind(err, errors.KindInvalidResource))
}

func TestSequenceDestroyAwaitsInflight(t *testing.T) {
	m := newTestManager(t)

	a, err := NewTensorEmpty[int32](m, 1)
	require.NoError(t, err)

	started := make(chan struct{})
	release := make(chan struct{})
	algo, err := m.Algorithm(blockingProgram(started, release), []memory.Resource{a})
	require.NoError(t, err)

	seq := m.Sequence()
	require.NoError(t, seq.Record(Dispatch(algo)))
	require.NoError(t, seq.EvalAsync())
	<-started

	go close(release)
	require.NoError(t, seq.Destroy(), "destroy blocks until the evaluation drains")

	err = seq.Record(SyncDevice(a))
	assert.True(t, errors.IsKind(err, errors.KindInvalidResource))
}
