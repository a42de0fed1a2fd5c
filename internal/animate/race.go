package animate

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/chartel-dev/chartel/internal/data"
	"github.com/chartel-dev/chartel/internal/logging"
)

// State is the race controller's lifecycle state.
type State int

const (
	Stopped State = iota
	Running
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Running:
		return "running"
	default:
		return "unknown"
	}
}

// Frame is one animation tick of a race chart: a time label plus the
// record subset observed at that time.
type Frame struct {
	Label   string
	Records []data.Record
}

// BuildFrames slices records into frames on the distinct values of
// timeField, in first-seen order.
func BuildFrames(records []data.Record, timeField string) []Frame {
	var frames []Frame
	index := make(map[string]int)
	for _, r := range records {
		v, ok := r[timeField]
		if !ok {
			continue
		}
		label := data.String(v)
		i, seen := index[label]
		if !seen {
			i = len(frames)
			index[label] = i
			frames = append(frames, Frame{Label: label})
		}
		frames[i].Records = append(frames[i].Records, r)
	}
	return frames
}

// Rank prepares one frame's records for rendering: records missing the
// category or value field are silently dropped, the rest are sorted by
// value descending and truncated to max bars. The input is not modified.
func Rank(records []data.Record, catField, valField string, max int) []data.Record {
	ranked := make([]data.Record, 0, len(records))
	for _, r := range records {
		if _, ok := r[catField]; !ok {
			continue
		}
		if _, ok := r[valField]; !ok {
			continue
		}
		ranked = append(ranked, r)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		vi, _ := data.Number(ranked[i][valField])
		vj, _ := data.Number(ranked[j][valField])
		return vi > vj
	})
	if max > 0 && len(ranked) > max {
		ranked = ranked[:max]
	}
	return ranked
}

// RenderFrameFunc renders one frame onto the controller's surface. The
// controller owns scheduling only; drawing stays with the caller so any
// renderer backend can be driven.
type RenderFrameFunc func(frame Frame) error

// RaceController drives the recurring time-sliced animation for race
// charts. Start renders frame 0 immediately and then loops through the
// frame list on a fixed interval, wrapping after the last frame. The
// scheduled interval is the only recurring background activity in the
// engine and must be cancelled before its drawing surface is torn down.
type RaceController struct {
	mu       sync.Mutex
	clock    Clock
	interval time.Duration
	frames   []Frame
	render   RenderFrameFunc
	logger   logging.Logger

	state  State
	index  int
	cancel CancelFunc
}

// NewRaceController creates a stopped controller. Interval is the
// per-frame duration; a nil clock gets the wall clock.
func NewRaceController(clock Clock, interval time.Duration, frames []Frame, render RenderFrameFunc, logger logging.Logger) *RaceController {
	if clock == nil {
		clock = NewClock()
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &RaceController{
		clock:    clock,
		interval: interval,
		frames:   frames,
		render:   render,
		logger:   logger.WithComponent("race"),
	}
}

// Start begins the frame loop. With an empty frame list it is a no-op.
// Calling Start while running restarts from frame 0.
func (c *RaceController) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.frames) == 0 {
		return
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}

	c.state = Running
	c.index = 0
	c.renderLocked()

	c.cancel = c.clock.Every(c.interval, c.tick)
}

// Stop cancels the scheduled interval. Idempotent: safe to call when
// already stopped.
func (c *RaceController) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.state = Stopped
}

// State returns the controller's lifecycle state.
func (c *RaceController) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// FrameIndex returns the index of the most recently rendered frame.
func (c *RaceController) FrameIndex() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

func (c *RaceController) tick() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Running {
		return
	}
	c.index = (c.index + 1) % len(c.frames)
	c.renderLocked()
}

func (c *RaceController) renderLocked() {
	frame := c.frames[c.index]
	if err := c.render(frame); err != nil {
		c.logger.Warn(context.Background(), err, "frame render failed",
			"frame", c.index, "label", frame.Label)
	}
}
