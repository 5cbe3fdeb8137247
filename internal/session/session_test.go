package session

import (
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/amterp/trellis/internal/contract"
	trerr "github.com/amterp/trellis/internal/errors"
	"github.com/amterp/trellis/internal/logger"
	"github.com/amterp/trellis/internal/transport"
)

func TestNew_Defaults(t *testing.T) {
	s := New(Options{Logger: logger.NewTestLogger()})

	assert.False(t, s.Attached())
	assert.Equal(t, StaleRefetch, s.Policy())
	assert.Zero(t, s.Freshness())
	require.NotNil(t, s.Registry())
	for _, k := range contract.Kinds() {
		assert.True(t, s.Registry().Registered(k))
	}
	assert.WithinDuration(t, time.Now(), s.Now(), time.Second)
}

func TestAttachDetach(t *testing.T) {
	ctrl := gomock.NewController(t)
	mock := transport.NewMockTransport(ctrl)

	s := New(Options{Logger: logger.NewTestLogger()})
	_, ok := s.Transport()
	assert.False(t, ok)

	s.Attach(mock)
	assert.True(t, s.Attached())
	got, ok := s.Transport()
	require.True(t, ok)
	assert.Same(t, mock, got)

	s.Detach()
	assert.False(t, s.Attached())
}

func TestAttach_ConcurrentWithReads(t *testing.T) {
	ctrl := gomock.NewController(t)
	mock := transport.NewMockTransport(ctrl)
	s := New(Options{Logger: logger.NewTestLogger()})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Attach(mock)
			s.Detach()
		}()
		go func() {
			defer wg.Done()
			_ = s.Attached()
		}()
	}
	wg.Wait()
}

func TestParseStalePolicy(t *testing.T) {
	p, err := ParseStalePolicy("")
	require.NoError(t, err)
	assert.Equal(t, StaleRefetch, p)

	p, err = ParseStalePolicy(" Serve-Stale ")
	require.NoError(t, err)
	assert.Equal(t, StaleServe, p)

	_, err = ParseStalePolicy("lazy")
	assert.True(t, trerr.IsConfigurationError(err))
}

type fakeEntity struct {
	kind    contract.Kind
	id      string
	expired int
}

func (f *fakeEntity) Kind() contract.Kind { return f.kind }
func (f *fakeEntity) ID() string          { return f.id }
func (f *fakeEntity) Expire()             { f.expired++ }

func TestTracker(t *testing.T) {
	tr := NewTracker(logger.NewTestLogger())
	card := &fakeEntity{kind: contract.KindCard, id: "c1"}
	other := &fakeEntity{kind: contract.KindCard, id: "c2"}
	board := &fakeEntity{kind: contract.KindBoard, id: "c1"}

	tr.Track(card)
	tr.Track(card)
	tr.Track(other)
	tr.Track(board)
	assert.Equal(t, 3, tr.Len())

	assert.Equal(t, 1, tr.ExpireKind(contract.KindCard, "c1"))
	assert.Equal(t, 1, card.expired)
	assert.Equal(t, 0, other.expired)
	assert.Equal(t, 0, board.expired)

	tr.Untrack(card)
	assert.Equal(t, 0, tr.ExpireKind(contract.KindCard, "c1"))
	assert.Equal(t, 2, tr.Len())
}

func TestConfigWatcher_FiresOnceForBurst(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("a = 1\n"), 0644))

	var calls atomic.Int32
	cw, err := NewConfigWatcher(path, func(string) { calls.Add(1) }, logger.NewTestLogger())
	require.NoError(t, err)
	require.NoError(t, cw.Start())
	defer cw.Stop()

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte("a = 2\n"), 0644))
	}

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 20*time.Millisecond)
	time.Sleep(3 * configDebounce)
	assert.Equal(t, int32(1), calls.Load())
}

func TestConfigWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(""), 0644))

	var calls atomic.Int32
	cw, err := NewConfigWatcher(path, func(string) { calls.Add(1) }, logger.NewTestLogger())
	require.NoError(t, err)
	require.NoError(t, cw.Start())
	defer cw.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.toml"), []byte("x"), 0644))
	time.Sleep(4 * configDebounce)
	assert.Zero(t, calls.Load())
}

func TestConfigWatcher_NoRestart(t *testing.T) {
	dir := t.TempDir()
	cw, err := NewConfigWatcher(filepath.Join(dir, "config.toml"), func(string) {}, logger.NewTestLogger())
	require.NoError(t, err)
	require.NoError(t, cw.Start())
	require.NoError(t, cw.Stop())
	assert.Error(t, cw.Start())
}
