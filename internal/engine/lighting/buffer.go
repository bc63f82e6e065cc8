package lighting

import (
	"encoding/binary"
	gomath "math"

	"github.com/Faultbox/lightlab/pkg/math"
)

// MaxLights is the largest light array the lit shader is compiled for.
const MaxLights = 16

// SourceStride is the std140 array stride of one Source in LightBlock.
//
// Layout per element (byte offsets):
//
//	 0 vec3 colour     12 float constant
//	16 vec3 position   28 float linear
//	32 vec3 direction  44 float quadratic
//	48 int  type       52 float cosPhi     56 padding
const SourceStride = 64

// Source is the fixed-layout uniform record for one light. Fields that do
// not apply to Type are ignored by the evaluator.
type Source struct {
	Colour    math.Vec3
	Position  math.Vec3
	Direction math.Vec3
	Constant  float32
	Linear    float32
	Quadratic float32
	Type      Type
	CosPhi    float32
}

// Buffer holds the light records for one frame, indexed by light order.
type Buffer struct {
	Sources []Source
	Count   int
}

// NewBuffer creates an empty buffer with room for n lights.
func NewBuffer(n int) *Buffer {
	return &Buffer{
		Sources: make([]Source, 0, n),
	}
}

// Clear removes all lights from the buffer.
func (b *Buffer) Clear() {
	b.Sources = b.Sources[:0]
	b.Count = 0
}

// Add appends a light record.
// Returns false if buffer is full.
func (b *Buffer) Add(s Source) bool {
	if b.Count >= MaxLights {
		return false
	}
	b.Sources = append(b.Sources, s)
	b.Count++
	return true
}

// SetLights replaces the buffer contents with the records of lights.
// Truncates to MaxLights if necessary.
func (b *Buffer) SetLights(lights []Light) {
	b.Clear()
	for _, l := range lights {
		if !b.Add(l.Source()) {
			return
		}
	}
}

// Size returns the packed size in bytes.
func (b *Buffer) Size() int {
	return b.Count * SourceStride
}

// Bytes packs the records into std140 layout for upload to LightBlock.
func (b *Buffer) Bytes() []byte {
	out := make([]byte, b.Size())
	for i, s := range b.Sources {
		packSource(out[i*SourceStride:(i+1)*SourceStride], s)
	}
	return out
}

func packSource(dst []byte, s Source) {
	putVec3(dst[0:], s.Colour)
	putFloat(dst[12:], s.Constant)
	putVec3(dst[16:], s.Position)
	putFloat(dst[28:], s.Linear)
	putVec3(dst[32:], s.Direction)
	putFloat(dst[44:], s.Quadratic)
	binary.LittleEndian.PutUint32(dst[48:], uint32(s.Type))
	putFloat(dst[52:], s.CosPhi)
}

func putVec3(dst []byte, v math.Vec3) {
	putFloat(dst[0:], v.X)
	putFloat(dst[4:], v.Y)
	putFloat(dst[8:], v.Z)
}

func putFloat(dst []byte, f float32) {
	binary.LittleEndian.PutUint32(dst, gomath.Float32bits(f))
}
