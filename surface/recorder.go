package surface

import "image/color"

// OpKind identifies a recorded draw call.
type OpKind uint8

const (
	OpClear OpKind = iota
	OpFill
	OpCircle
	OpStar
	OpGradient
	OpComposite
	numOpKinds
)

// Op is one recorded draw call. Only the fields relevant to Kind are set.
type Op struct {
	Kind     OpKind
	X, Y     float32
	Y2       float32 // gradient end
	Radius   float32 // circle radius, star outer radius
	Inner    float32 // star inner radius
	Rotation float32
	Points   int
	Width    float32
	Glow     float32
	Blur     float32
	Mode     BlendMode // active blend for primitives, requested mode for composites
	Color    color.NRGBA
	Source   Surface
}

// Recorder is an in-memory Surface that records draw calls instead of
// rasterizing them. Ops holds the calls made since the most recent Begin;
// Counts accumulates totals per kind over the recorder's lifetime.
type Recorder struct {
	w, h int

	Ops     []Op
	Counts  [numOpKinds]int
	Batches int // completed Begin/End pairs
	Resizes int
	Outside int // draw calls made outside a Begin/End pair

	open  bool
	blend BlendMode
}

// NewRecorder creates a recorder with the given dimensions.
func NewRecorder(w, h int) *Recorder {
	return &Recorder{w: w, h: h}
}

// Size returns the current dimensions.
func (r *Recorder) Size() (int, int) {
	return r.w, r.h
}

// Resize sets new dimensions.
func (r *Recorder) Resize(w, h int) {
	r.w, r.h = w, h
	r.Resizes++
}

// Begin starts a batch and discards the ops of the previous one.
func (r *Recorder) Begin() {
	r.Ops = r.Ops[:0]
	r.open = true
	r.blend = BlendAlpha
}

// End finishes the batch.
func (r *Recorder) End() {
	if r.open {
		r.Batches++
	}
	r.open = false
}

// Total returns the number of draw calls of all kinds ever recorded.
func (r *Recorder) Total() int {
	n := 0
	for _, c := range r.Counts {
		n += c
	}
	return n
}

// Count returns the number of ops of the given kind in the current batch.
func (r *Recorder) Count(kind OpKind) int {
	n := 0
	for i := range r.Ops {
		if r.Ops[i].Kind == kind {
			n++
		}
	}
	return n
}

// SetBlend sets the mode recorded on subsequent primitives.
func (r *Recorder) SetBlend(mode BlendMode) {
	r.blend = mode
}

func (r *Recorder) record(op Op) {
	if !r.open {
		r.Outside++
	}
	if op.Kind != OpComposite {
		op.Mode = r.blend
	}
	r.Ops = append(r.Ops, op)
	r.Counts[op.Kind]++
}

func (r *Recorder) Clear() {
	r.record(Op{Kind: OpClear})
}

func (r *Recorder) Fill(c color.NRGBA) {
	r.record(Op{Kind: OpFill, Color: c})
}

func (r *Recorder) FillCircle(x, y, radius float32, c color.NRGBA, glow float32) {
	r.record(Op{Kind: OpCircle, X: x, Y: y, Radius: radius, Color: c, Glow: glow})
}

func (r *Recorder) FillStar(x, y, outer, inner, rotation float32, points int, c color.NRGBA, glow float32) {
	r.record(Op{
		Kind:     OpStar,
		X:        x,
		Y:        y,
		Radius:   outer,
		Inner:    inner,
		Rotation: rotation,
		Points:   points,
		Color:    c,
		Glow:     glow,
	})
}

func (r *Recorder) VerticalGradient(x, y1, y2, width float32, c color.NRGBA) {
	r.record(Op{Kind: OpGradient, X: x, Y: y1, Y2: y2, Width: width, Color: c})
}

func (r *Recorder) Composite(src Surface, blur float32, mode BlendMode) {
	r.record(Op{Kind: OpComposite, Source: src, Blur: blur, Mode: mode})
}
