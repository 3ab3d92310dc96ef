package likes

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"soundfolio/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -- Mock notifier -----------------------------------------------------------

// mockNotifier scripts per-call behavior: call i waits on gates[i] (when
// set) and returns errs[i]. Calls beyond the script succeed immediately.
type mockNotifier struct {
	mu    sync.Mutex
	gates []chan struct{}
	errs  []error
	calls int
	sent  [][2]string
}

func (n *mockNotifier) SendLike(_ context.Context, songID, songTitle string) error {
	n.mu.Lock()
	idx := n.calls
	n.calls++
	var gate chan struct{}
	var err error
	if idx < len(n.gates) {
		gate = n.gates[idx]
	}
	if idx < len(n.errs) {
		err = n.errs[idx]
	}
	n.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return err
	}

	n.mu.Lock()
	n.sent = append(n.sent, [2]string{songID, songTitle})
	n.mu.Unlock()
	return nil
}

func (n *mockNotifier) sentCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

func newTestManager(t *testing.T, notifier Notifier) (*Manager, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "likes.json")
	store, err := OpenStore(path)
	require.NoError(t, err)
	return NewManager(store, notifier), path
}

func persistedIDs(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var ids []string
	require.NoError(t, json.Unmarshal(data, &ids))
	return ids
}

func track(id, title string) *model.Track {
	return &model.Track{ExternalID: id, Title: title}
}

// -- Tests -------------------------------------------------------------------

func TestToggleIsOptimistic(t *testing.T) {
	notifier := &mockNotifier{}
	m, path := newTestManager(t, notifier)

	liked := m.Toggle(track("abc123", "Song A"))
	assert.True(t, liked)
	assert.True(t, m.IsLiked("abc123")) // visible before the notification settles

	m.Wait()
	assert.True(t, m.IsLiked("abc123"))
	assert.Equal(t, []string{"abc123"}, persistedIDs(t, path))

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, [2]string{"abc123", "Song A"}, notifier.sent[0])
}

func TestToggleOffRemovesMembership(t *testing.T) {
	m, path := newTestManager(t, &mockNotifier{})

	m.Toggle(track("abc123", "Song A"))
	liked := m.Toggle(track("abc123", "Song A"))
	assert.False(t, liked)
	m.Wait()

	assert.False(t, m.IsLiked("abc123"))
	assert.Empty(t, persistedIDs(t, path))
}

func TestFailedNotificationRollsBack(t *testing.T) {
	notifier := &mockNotifier{errs: []error{assert.AnError}}
	m, path := newTestManager(t, notifier)

	liked := m.Toggle(track("abc123", "Song A"))
	assert.True(t, liked) // optimistic
	m.Wait()

	assert.False(t, m.IsLiked("abc123")) // reverted on confirmed failure
	assert.Empty(t, persistedIDs(t, path))
}

func TestRapidDoubleToggleEndsAtLastApplied(t *testing.T) {
	gate := make(chan struct{})
	notifier := &mockNotifier{gates: []chan struct{}{gate, gate}}
	m, path := newTestManager(t, notifier)

	// Both toggles land before any network response.
	m.Toggle(track("abc123", "Song A"))
	m.Toggle(track("abc123", "Song A"))

	assert.False(t, m.IsLiked("abc123"))
	assert.Empty(t, persistedIDs(t, path))

	close(gate)
	m.Wait()

	// Both notifications succeeded; the last synchronous toggle stands.
	assert.False(t, m.IsLiked("abc123"))
	assert.Empty(t, persistedIDs(t, path))
}

func TestSlowFailureDoesNotUndoLaterToggle(t *testing.T) {
	gate1 := make(chan struct{})
	gate2 := make(chan struct{})
	// First call hangs then fails; second succeeds.
	notifier := &mockNotifier{
		gates: []chan struct{}{gate1, gate2},
		errs:  []error{assert.AnError, nil},
	}
	m, _ := newTestManager(t, notifier)

	m.Toggle(track("abc123", "Song A")) // sets liked=true, delivery stalls
	m.Toggle(track("abc123", "Song A")) // sets liked=false

	// Second delivery confirms first.
	close(gate2)
	require.Eventually(t, func() bool { return notifier.sentCount() == 1 },
		time.Second, 2*time.Millisecond)

	// Now the slow first delivery fails. Its rollback must not fire:
	// membership is false, not the true it introduced.
	close(gate1)
	m.Wait()

	assert.False(t, m.IsLiked("abc123"))
}

func TestLikeSetReloadedAcrossSessions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "likes.json")

	store, err := OpenStore(path)
	require.NoError(t, err)
	m := NewManager(store, &mockNotifier{})
	m.Toggle(track("abc123", "Song A"))
	m.Toggle(track("def456", "Song B"))
	m.Wait()

	reloaded, err := OpenStore(path)
	require.NoError(t, err)
	m2 := NewManager(reloaded, &mockNotifier{})
	assert.True(t, m2.IsLiked("abc123"))
	assert.True(t, m2.IsLiked("def456"))
	assert.Equal(t, []string{"abc123", "def456"}, m2.Liked())
}
