package tensor

import (
	"errors"
	"testing"

	geomerrors "github.com/ironsheep/image-geometry-mcp/internal/errors"
)

func TestNew(t *testing.T) {
	tn, err := New([]int{2, 3}, []float64{1, 2, 3, 4, 5, 6})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if tn.Rank() != 2 || tn.Numel() != 6 {
		t.Errorf("rank/numel: got %d/%d, want 2/6", tn.Rank(), tn.Numel())
	}
}

func TestNew_ShapeMismatch(t *testing.T) {
	tests := []struct {
		name  string
		shape []int
		n     int
	}{
		{"too few elements", []int{2, 3}, 5},
		{"too many elements", []int{4}, 5},
		{"negative dimension", []int{-1, 5}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.shape, make([]uint8, tt.n))
			if !errors.Is(err, geomerrors.ErrShapeMismatch) {
				t.Errorf("got %v, want shape mismatch", err)
			}
		})
	}
}

func TestShape_IsCopy(t *testing.T) {
	tn := MustNew([]int{1, 2}, []uint8{1, 2})
	s := tn.Shape()
	s[0] = 9
	if tn.Shape()[0] != 1 {
		t.Error("mutating Shape() result changed the tensor")
	}
}

func TestClone(t *testing.T) {
	tn := MustNew([]int{2}, []float64{1, 2})
	c := tn.Clone()
	c.Data()[0] = 42
	if tn.Data()[0] != 1 {
		t.Error("Clone shares data with the original")
	}
	if !tn.Equal(MustNew([]int{2}, []float64{1, 2})) {
		t.Error("Equal on identical tensors returned false")
	}
	if tn.Equal(c) {
		t.Error("Equal on different tensors returned true")
	}
}

func TestBlocks(t *testing.T) {
	tn, _ := Zeros[uint8](2, 3, 3, 4, 5)

	batch, block, count, err := tn.Blocks(3)
	if err != nil {
		t.Fatalf("Blocks failed: %v", err)
	}
	if len(batch) != 2 || batch[0] != 2 || batch[1] != 3 {
		t.Errorf("batch: got %v, want [2 3]", batch)
	}
	if len(block) != 3 || block[0] != 3 || block[1] != 4 || block[2] != 5 {
		t.Errorf("block: got %v, want [3 4 5]", block)
	}
	if count != 6 {
		t.Errorf("count: got %d, want 6", count)
	}

	small, _ := Zeros[uint8](4, 5)
	if _, _, _, err := small.Blocks(3); !errors.Is(err, geomerrors.ErrShapeMismatch) {
		t.Errorf("Blocks on rank 2: got %v, want shape mismatch", err)
	}
}
