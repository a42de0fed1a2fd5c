// Package scene provides the retained scene graph that decouples the
// reconciliation algorithm from any concrete drawing backend.
//
// A scene is an ordered set of marks with stable identity keys. Each
// render pass computes a fresh target mark list and diffs it against the
// previous pass; the resulting enter/update/exit patch list is what a
// backend consumes. Marks are ephemeral: identity lives only in the key.
package scene

// Mark is one drawn visual primitive bound to a single (category, series)
// pair. Geometry is in surface pixel coordinates with the origin at the
// top-left.
type Mark struct {
	Key   string
	X     float64
	Y     float64
	W     float64
	H     float64
	Fill  string
	Value float64

	// Label is the optional formatted value label; LabelX/LabelY place
	// its anchor.
	Label  string
	LabelX float64
	LabelY float64

	// Index is the mark's position within its render pass, used for
	// stagger delays.
	Index int
}

// Rect reports the mark's geometry as (x, y, w, h).
func (m Mark) Rect() (float64, float64, float64, float64) {
	return m.X, m.Y, m.W, m.H
}

// PatchOp classifies a mark between two data snapshots.
type PatchOp int

const (
	// OpEnter marks a newly appearing key.
	OpEnter PatchOp = iota
	// OpUpdate marks a persisting key whose geometry changed (or not).
	OpUpdate
	// OpExit marks a disappearing key.
	OpExit
)

// String returns the string representation of the patch op.
func (op PatchOp) String() string {
	switch op {
	case OpEnter:
		return "enter"
	case OpUpdate:
		return "update"
	case OpExit:
		return "exit"
	default:
		return "unknown"
	}
}

// Patch is one reconciliation instruction. For enters, From carries the
// zero-size baseline geometry the mark grows out of; for exits, To carries
// the zero-size geometry it collapses into.
type Patch struct {
	Op   PatchOp
	Key  string
	From Mark
	To   Mark
}

// Diff reconciles two keyed mark lists into a patch list. It is a pure
// function: enters and updates appear in next's order, exits follow in
// prev's order. Baseline geometry for enters and exits is filled in by the
// caller, which knows where the value-zero position lies.
func Diff(prev, next []Mark) []Patch {
	prevByKey := make(map[string]Mark, len(prev))
	for _, m := range prev {
		prevByKey[m.Key] = m
	}

	patches := make([]Patch, 0, len(next))
	seen := make(map[string]bool, len(next))

	for _, m := range next {
		seen[m.Key] = true
		if old, ok := prevByKey[m.Key]; ok {
			patches = append(patches, Patch{Op: OpUpdate, Key: m.Key, From: old, To: m})
		} else {
			patches = append(patches, Patch{Op: OpEnter, Key: m.Key, To: m})
		}
	}
	for _, m := range prev {
		if !seen[m.Key] {
			patches = append(patches, Patch{Op: OpExit, Key: m.Key, From: m})
		}
	}
	return patches
}
