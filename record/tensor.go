package record

import "fmt"

// DType identifies the element type of a Tensor.
type DType int

const (
	// DTypeUnknown marks values whose dtype cannot be inferred
	// (string and bool scalars).
	DTypeUnknown DType = iota
	Float32
	Float64Type
	Int64
)

func (d DType) String() string {
	switch d {
	case Float32:
		return "float32"
	case Float64Type:
		return "float64"
	case Int64:
		return "int64"
	}
	return "unknown"
}

// Tensor is a dense multi-dimensional numeric array in row-major order.
// Exactly one backing slice is populated, selected by DType. Fields are
// exported for gob transport.
type Tensor struct {
	DType DType
	Shape []int
	F32   []float32
	F64   []float64
	I64   []int64
}

func (Tensor) Kind() Kind { return KindTensor }

// TensorF32 builds a float32 tensor. The data length must equal the product
// of the shape dimensions; a mismatch is a programming error and panics.
func TensorF32(shape []int, data []float32) Tensor {
	checkSize(shape, len(data))
	return Tensor{DType: Float32, Shape: shape, F32: data}
}

// TensorF64 builds a float64 tensor.
func TensorF64(shape []int, data []float64) Tensor {
	checkSize(shape, len(data))
	return Tensor{DType: Float64Type, Shape: shape, F64: data}
}

// TensorI64 builds an int64 tensor.
func TensorI64(shape []int, data []int64) Tensor {
	checkSize(shape, len(data))
	return Tensor{DType: Int64, Shape: shape, I64: data}
}

// VectorF32 builds a 1-D float32 tensor.
func VectorF32(data []float32) Tensor { return TensorF32([]int{len(data)}, data) }

func checkSize(shape []int, n int) {
	if size(shape) != n {
		panic(fmt.Sprintf("record: tensor shape %v wants %d elements, got %d", shape, size(shape), n))
	}
}

func size(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}

// Len returns the total number of elements.
func (t Tensor) Len() int { return size(t.Shape) }

// Rank returns the number of dimensions.
func (t Tensor) Rank() int { return len(t.Shape) }

// SameShape reports whether t and other have identical shapes.
func (t Tensor) SameShape(other Tensor) bool {
	if len(t.Shape) != len(other.Shape) {
		return false
	}
	for i := range t.Shape {
		if t.Shape[i] != other.Shape[i] {
			return false
		}
	}
	return true
}

func (t Tensor) String() string {
	return fmt.Sprintf("tensor<%s>%v", t.DType, t.Shape)
}
