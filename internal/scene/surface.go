package scene

import (
	"sync"
	"time"
)

// EaseFunc maps normalized transition progress [0,1] to eased progress.
type EaseFunc func(float64) float64

// TransitionOptions configures how a patch list is animated onto a
// surface.
type TransitionOptions struct {
	Duration time.Duration
	Ease     EaseFunc
	// Stagger delays each mark by Stagger×Index.
	Stagger time.Duration
}

// markState is one mark's retained state: its resting geometry plus any
// in-flight transition toward it.
type markState struct {
	current Mark
	from    Mark
	target  Mark
	start   time.Time
	dur     time.Duration
	ease    EaseFunc
	active  bool
	exiting bool
}

// Surface is the mutable drawing target shared across render calls. It is
// the only state that survives a render pass; everything else is
// recomputed from (spec, records). Apply replaces in-flight transitions
// wholesale, so a superseding render retargets rather than queues.
type Surface struct {
	mu sync.Mutex

	width      float64
	height     float64
	background string
	title      string
	desc       string

	marks map[string]*markState
	order []string
}

// Scene is an immutable deep-copied snapshot of a surface, safe to hand to
// an export running concurrently with subsequent renders.
type Scene struct {
	Width      float64
	Height     float64
	Background string
	Title      string
	Description string
	Marks      []Mark
}

// NewSurface creates an empty surface of the given pixel dimensions.
func NewSurface(width, height float64) *Surface {
	return &Surface{
		width:  width,
		height: height,
		marks:  make(map[string]*markState),
	}
}

// Resize sets the surface dimensions for the next snapshot.
func (s *Surface) Resize(width, height float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width, s.height = width, height
}

// SetMeta records background color and accessibility metadata carried into
// exports.
func (s *Surface) SetMeta(background, title, description string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.background = background
	s.title = title
	s.desc = description
}

// Apply installs a patch list. Entering marks start at their baseline
// geometry, exiting marks head toward theirs; a zero duration completes
// every transition immediately. Marks absent from the patch list are left
// untouched.
func (s *Surface) Apply(patches []Patch, now time.Time, opts TransitionOptions) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ease := opts.Ease
	if ease == nil {
		ease = func(t float64) float64 { return t }
	}

	for _, p := range patches {
		delay := opts.Stagger * time.Duration(p.To.Index)
		switch p.Op {
		case OpEnter:
			st := &markState{
				current: p.From,
				from:    p.From,
				target:  p.To,
				start:   now.Add(delay),
				dur:     opts.Duration,
				ease:    ease,
				active:  true,
			}
			if _, exists := s.marks[p.Key]; !exists {
				s.order = append(s.order, p.Key)
			}
			s.marks[p.Key] = st
		case OpUpdate:
			st, ok := s.marks[p.Key]
			if !ok {
				st = &markState{current: p.From}
				s.marks[p.Key] = st
				s.order = append(s.order, p.Key)
			}
			// Retarget from wherever the mark currently is, not from
			// its previous resting geometry.
			st.from = st.current
			st.target = p.To
			st.start = now.Add(delay)
			st.dur = opts.Duration
			st.ease = ease
			st.active = true
			st.exiting = false
		case OpExit:
			st, ok := s.marks[p.Key]
			if !ok {
				continue
			}
			st.from = st.current
			st.target = p.To
			st.start = now.Add(delay)
			st.dur = opts.Duration
			st.ease = ease
			st.active = true
			st.exiting = true
		}
	}

	if opts.Duration == 0 {
		s.advanceLocked(now)
	}
}

// Advance moves all in-flight transitions to their state at now,
// discarding exited marks whose collapse finished. It returns true while
// any transition remains in flight.
func (s *Surface) Advance(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.advanceLocked(now)
}

func (s *Surface) advanceLocked(now time.Time) bool {
	inFlight := false
	for _, key := range append([]string(nil), s.order...) {
		st := s.marks[key]
		if st == nil || !st.active {
			continue
		}

		var t float64
		switch {
		case st.dur <= 0, !now.Before(st.start.Add(st.dur)):
			t = 1
		case now.Before(st.start):
			t = 0
		default:
			t = float64(now.Sub(st.start)) / float64(st.dur)
		}

		st.current = lerpMark(st.from, st.target, st.ease(t))
		if t >= 1 {
			st.active = false
			if st.exiting {
				s.removeLocked(key)
			}
		} else {
			inFlight = true
		}
	}
	return inFlight
}

// Finalize jumps every in-flight transition to its end state, as when the
// host signals a reduced-motion preference or an export needs resting
// geometry.
func (s *Surface) Finalize() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range append([]string(nil), s.order...) {
		st := s.marks[key]
		if st == nil {
			continue
		}
		if st.active {
			st.current = st.target
			st.active = false
		}
		if st.exiting {
			s.removeLocked(key)
		}
	}
}

func (s *Surface) removeLocked(key string) {
	delete(s.marks, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Clear drops every mark and transition, used on surface teardown.
func (s *Surface) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.marks = make(map[string]*markState)
	s.order = nil
}

// Marks returns the current (possibly mid-transition) marks in draw order.
func (s *Surface) Marks() []Mark {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Mark, 0, len(s.order))
	for _, key := range s.order {
		if st := s.marks[key]; st != nil {
			out = append(out, st.current)
		}
	}
	return out
}

// Resting returns the transition target marks in draw order, ignoring any
// in-flight interpolation. Two renders with identical inputs yield
// identical resting geometry.
func (s *Surface) Resting() []Mark {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Mark, 0, len(s.order))
	for _, key := range s.order {
		st := s.marks[key]
		if st == nil || st.exiting {
			continue
		}
		if st.active {
			out = append(out, st.target)
		} else {
			out = append(out, st.current)
		}
	}
	return out
}

// Snapshot deep-copies the surface into a Scene. Exports operate on the
// snapshot so they can run concurrently with a subsequent render.
func (s *Surface) Snapshot() *Scene {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc := &Scene{
		Width:       s.width,
		Height:      s.height,
		Background:  s.background,
		Title:       s.title,
		Description: s.desc,
		Marks:       make([]Mark, 0, len(s.order)),
	}
	for _, key := range s.order {
		if st := s.marks[key]; st != nil {
			sc.Marks = append(sc.Marks, st.current)
		}
	}
	return sc
}

// lerpMark interpolates geometry and lands exactly on b at completion so
// resting geometry never carries floating-point residue.
func lerpMark(a, b Mark, t float64) Mark {
	if t >= 1 {
		return b
	}
	m := b
	m.X = lerp(a.X, b.X, t)
	m.Y = lerp(a.Y, b.Y, t)
	m.W = lerp(a.W, b.W, t)
	m.H = lerp(a.H, b.H, t)
	m.LabelX = lerp(a.LabelX, b.LabelX, t)
	m.LabelY = lerp(a.LabelY, b.LabelY, t)
	return m
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
