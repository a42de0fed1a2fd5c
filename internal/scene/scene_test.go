package scene

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiffClassification(t *testing.T) {
	prev := []Mark{
		{Key: "a", X: 0, W: 10},
		{Key: "b", X: 20, W: 10},
	}
	next := []Mark{
		{Key: "b", X: 25, W: 10},
		{Key: "c", X: 40, W: 10},
	}

	patches := Diff(prev, next)
	require.Len(t, patches, 3)

	assert.Equal(t, OpUpdate, patches[0].Op)
	assert.Equal(t, "b", patches[0].Key)
	assert.Equal(t, 20.0, patches[0].From.X)
	assert.Equal(t, 25.0, patches[0].To.X)

	assert.Equal(t, OpEnter, patches[1].Op)
	assert.Equal(t, "c", patches[1].Key)

	assert.Equal(t, OpExit, patches[2].Op)
	assert.Equal(t, "a", patches[2].Key)
}

func TestDiffEmpty(t *testing.T) {
	assert.Empty(t, Diff(nil, nil))

	patches := Diff(nil, []Mark{{Key: "a"}})
	require.Len(t, patches, 1)
	assert.Equal(t, OpEnter, patches[0].Op)

	patches = Diff([]Mark{{Key: "a"}}, nil)
	require.Len(t, patches, 1)
	assert.Equal(t, OpExit, patches[0].Op)
}

func TestDiffIsPure(t *testing.T) {
	prev := []Mark{{Key: "a", X: 1}}
	next := []Mark{{Key: "a", X: 2}}
	first := Diff(prev, next)
	second := Diff(prev, next)
	assert.Equal(t, first, second)
	assert.Equal(t, 1.0, prev[0].X, "inputs are not mutated")
}

func enterPatch(key string, target Mark) Patch {
	from := target
	from.H = 0
	return Patch{Op: OpEnter, Key: key, From: from, To: target}
}

func TestSurfaceAnimatedEnter(t *testing.T) {
	now := time.Unix(0, 0)
	s := NewSurface(100, 100)

	target := Mark{Key: "a", X: 10, Y: 0, W: 20, H: 50}
	s.Apply([]Patch{enterPatch("a", target)}, now, TransitionOptions{Duration: time.Second})

	marks := s.Marks()
	require.Len(t, marks, 1)
	assert.Equal(t, 0.0, marks[0].H, "entering marks start at the zero-size baseline")

	inFlight := s.Advance(now.Add(500 * time.Millisecond))
	assert.True(t, inFlight)
	assert.InDelta(t, 25.0, s.Marks()[0].H, 1e-9, "linear easing at the halfway point")

	inFlight = s.Advance(now.Add(2 * time.Second))
	assert.False(t, inFlight)
	assert.Equal(t, 50.0, s.Marks()[0].H)
}

func TestSurfaceZeroDurationCompletesImmediately(t *testing.T) {
	now := time.Unix(0, 0)
	s := NewSurface(100, 100)

	target := Mark{Key: "a", H: 50}
	s.Apply([]Patch{enterPatch("a", target)}, now, TransitionOptions{})

	assert.Equal(t, 50.0, s.Marks()[0].H, "zero duration applies transitions instantly")
}

func TestSurfaceRetargetsInFlightTransition(t *testing.T) {
	now := time.Unix(0, 0)
	s := NewSurface(100, 100)

	s.Apply([]Patch{enterPatch("a", Mark{Key: "a", H: 100})}, now, TransitionOptions{Duration: time.Second})
	s.Advance(now.Add(500 * time.Millisecond))
	require.InDelta(t, 50.0, s.Marks()[0].H, 1e-9)

	// A superseding render retargets from the current geometry, not the
	// previous resting geometry.
	mid := s.Marks()[0]
	s.Apply([]Patch{{Op: OpUpdate, Key: "a", From: mid, To: Mark{Key: "a", H: 10}}},
		now.Add(500*time.Millisecond), TransitionOptions{Duration: time.Second})

	s.Advance(now.Add(1500 * time.Millisecond))
	assert.Equal(t, 10.0, s.Marks()[0].H)
}

func TestSurfaceExitRemovesMarkAfterCollapse(t *testing.T) {
	now := time.Unix(0, 0)
	s := NewSurface(100, 100)

	s.Apply([]Patch{enterPatch("a", Mark{Key: "a", H: 50})}, now, TransitionOptions{})
	require.Len(t, s.Marks(), 1)

	exit := Patch{Op: OpExit, Key: "a", From: Mark{Key: "a", H: 50}, To: Mark{Key: "a", H: 0}}
	s.Apply([]Patch{exit}, now, TransitionOptions{Duration: time.Second})

	require.Len(t, s.Marks(), 1, "exiting marks animate before discard")
	s.Advance(now.Add(time.Second))
	assert.Empty(t, s.Marks(), "exited marks are discarded once collapsed")
}

func TestSurfaceFinalize(t *testing.T) {
	now := time.Unix(0, 0)
	s := NewSurface(100, 100)

	s.Apply([]Patch{enterPatch("a", Mark{Key: "a", H: 80})}, now, TransitionOptions{Duration: time.Hour})
	s.Finalize()
	assert.Equal(t, 80.0, s.Marks()[0].H)
	assert.False(t, s.Advance(now), "nothing remains in flight")
}

func TestSurfaceRestingIgnoresInFlightState(t *testing.T) {
	now := time.Unix(0, 0)
	s := NewSurface(100, 100)

	s.Apply([]Patch{enterPatch("a", Mark{Key: "a", H: 80})}, now, TransitionOptions{Duration: time.Hour})
	resting := s.Resting()
	require.Len(t, resting, 1)
	assert.Equal(t, 80.0, resting[0].H, "resting geometry is the transition target")
}

func TestSnapshotIsIndependentCopy(t *testing.T) {
	now := time.Unix(0, 0)
	s := NewSurface(320, 240)
	s.SetMeta("#fff", "Title", "Desc")
	s.Apply([]Patch{enterPatch("a", Mark{Key: "a", H: 10})}, now, TransitionOptions{})

	snap := s.Snapshot()
	assert.Equal(t, 320.0, snap.Width)
	assert.Equal(t, "Title", snap.Title)
	require.Len(t, snap.Marks, 1)

	// Mutating the surface afterwards must not affect the snapshot.
	s.Apply([]Patch{{Op: OpUpdate, Key: "a", From: snap.Marks[0], To: Mark{Key: "a", H: 99}}}, now, TransitionOptions{})
	assert.Equal(t, 10.0, snap.Marks[0].H)
}

func TestStaggerDelaysByIndex(t *testing.T) {
	now := time.Unix(0, 0)
	s := NewSurface(100, 100)

	first := Mark{Key: "a", H: 50, Index: 0}
	second := Mark{Key: "b", H: 50, Index: 1}
	s.Apply([]Patch{enterPatch("a", first), enterPatch("b", second)}, now,
		TransitionOptions{Duration: 100 * time.Millisecond, Stagger: 40 * time.Millisecond})

	s.Advance(now.Add(100 * time.Millisecond))
	marks := s.Marks()
	assert.Equal(t, 50.0, marks[0].H, "index 0 finished")
	assert.Less(t, marks[1].H, 50.0, "index 1 is still delayed")

	s.Advance(now.Add(140 * time.Millisecond))
	assert.Equal(t, 50.0, s.Marks()[1].H)
}
