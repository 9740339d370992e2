package requestlog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tfsearch/searchd/internal/document"
	"github.com/tfsearch/searchd/internal/engine"
	"github.com/tfsearch/searchd/pkg/errors"
)

func newTestLog(t *testing.T) *Log {
	t.Helper()
	e, err := engine.NewFromText("and in on")
	require.NoError(t, err)
	require.NoError(t, e.AddDocument(1, "curly dog and fancy collar", document.StatusActive, []int{1, 2, 3}))
	require.NoError(t, e.AddDocument(2, "curly collared dog", document.StatusActive, []int{1, 2, 8}))
	require.NoError(t, e.AddDocument(3, "big collar", document.StatusActive, []int{1, 3, 2}))
	return New(e)
}

func TestAddFindRequestReturnsResults(t *testing.T) {
	l := newTestLog(t)

	got, err := l.AddFindRequest("curly dog")
	require.NoError(t, err)
	assert.NotEmpty(t, got)
	assert.Equal(t, 0, l.NoResultRequests())
}

func TestZeroResultRequestsAreCounted(t *testing.T) {
	l := newTestLog(t)

	for i := 0; i < 3; i++ {
		got, err := l.AddFindRequest("empty request")
		require.NoError(t, err)
		assert.Empty(t, got)
	}
	assert.Equal(t, 3, l.NoResultRequests())
}

func TestWindowEviction(t *testing.T) {
	l := newTestLog(t)

	// 1439 zero-result requests fill most of the window.
	for i := 0; i < WindowSize-1; i++ {
		_, err := l.AddFindRequest("empty request")
		require.NoError(t, err)
	}
	assert.Equal(t, WindowSize-1, l.NoResultRequests())

	// Tick 1440: still nothing evicted.
	_, err := l.AddFindRequest("curly dog")
	require.NoError(t, err)
	assert.Equal(t, WindowSize-1, l.NoResultRequests())

	// Tick 1441: the first zero-result entry ages out.
	_, err = l.AddFindRequest("big collar")
	require.NoError(t, err)
	assert.Equal(t, WindowSize-2, l.NoResultRequests())

	_, err = l.AddFindRequest("curly dog")
	require.NoError(t, err)
	assert.Equal(t, WindowSize-3, l.NoResultRequests())
}

func TestSingleZeroResultEntryEvictedAfterFullWindow(t *testing.T) {
	l := newTestLog(t)

	_, err := l.AddFindRequest("empty request")
	require.NoError(t, err)
	assert.Equal(t, 1, l.NoResultRequests())

	for i := 0; i < WindowSize-1; i++ {
		_, err := l.AddFindRequest("curly dog")
		require.NoError(t, err)
	}
	assert.Equal(t, 1, l.NoResultRequests(), "entry still inside the window at tick 1440")

	_, err = l.AddFindRequest("curly dog")
	require.NoError(t, err)
	assert.Equal(t, 0, l.NoResultRequests(), "entry evicted at tick 1441")
}

func TestFailedRequestsDoNotTick(t *testing.T) {
	l := newTestLog(t)

	_, err := l.AddFindRequest("empty request")
	require.NoError(t, err)

	_, err = l.AddFindRequest("--broken")
	require.ErrorIs(t, err, errors.ErrInvalidMinusWord)
	assert.Equal(t, 1, l.NoResultRequests(), "failed queries are not recorded")
}

func TestAddFindRequestWithStatusAndFunc(t *testing.T) {
	l := newTestLog(t)

	got, err := l.AddFindRequestWithStatus("curly dog", document.StatusBanned)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = l.AddFindRequestFunc("curly dog",
		func(id int, _ document.Status, _ int) bool { return id == 2 })
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].ID)

	assert.Equal(t, 1, l.NoResultRequests())
}
