package codec

import (
	"errors"
	"reflect"
	"testing"

	hill "github.com/BackendStack21/hill-go"
)

func TestChunk_Padding(t *testing.T) {
	blocks, length, err := Chunk([]int{7, 4, 11, 11, 14}, 2, 23)
	if err != nil {
		t.Fatalf("Chunk failed: %v", err)
	}
	if length != 5 {
		t.Errorf("originalLength = %d, want 5", length)
	}
	want := [][]int{{7, 4}, {11, 11}, {14, 23}}
	if !reflect.DeepEqual(blocks, want) {
		t.Errorf("blocks = %v, want %v", blocks, want)
	}
}

func TestChunk_NoPaddingWhenDivisible(t *testing.T) {
	blocks, length, err := Chunk([]int{1, 2, 3, 4, 5, 6}, 3, 0)
	if err != nil {
		t.Fatal(err)
	}
	if length != 6 || len(blocks) != 2 {
		t.Errorf("got %d blocks, length %d; want 2 blocks, length 6", len(blocks), length)
	}
}

func TestChunk_DoesNotAliasPayload(t *testing.T) {
	payload := []int{1, 2, 3}
	blocks, _, _ := Chunk(payload, 2, 0)
	blocks[0][0] = 99
	if payload[0] != 1 {
		t.Error("Chunk returned blocks sharing storage with the payload")
	}
	blocks[0] = append(blocks[0], 42)
	if blocks[1][0] != 3 {
		t.Error("append on one block overwrote the next")
	}
}

func TestChunk_BadWidth(t *testing.T) {
	for _, n := range []int{0, -1} {
		if _, _, err := Chunk([]int{1}, n, 0); !errors.Is(err, hill.ErrShapeMismatch) {
			t.Errorf("width %d: error = %v, want ErrShapeMismatch", n, err)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	payloads := [][]int{
		{},
		{42},
		{1, 2, 3, 4, 5},
		{0, 0, 0},
		{65535, 0, 65535, 1, 2, 3, 4},
	}
	for _, p := range payloads {
		for n := 1; n <= 5; n++ {
			blocks, length, err := Chunk(p, n, 7)
			if err != nil {
				t.Fatalf("Chunk(%v, %d) failed: %v", p, n, err)
			}
			for _, b := range blocks {
				if len(b) != n {
					t.Fatalf("block width %d, want %d", len(b), n)
				}
			}
			out, err := Reassemble(blocks, length)
			if err != nil {
				t.Fatalf("Reassemble failed: %v", err)
			}
			if len(p) == 0 && len(out) == 0 {
				continue
			}
			if !reflect.DeepEqual(out, p) {
				t.Errorf("n=%d: round trip = %v, want %v", n, out, p)
			}
		}
	}
}

func TestReassemble_Errors(t *testing.T) {
	if _, err := Reassemble([][]int{{1, 2}, {3}}, 3); !errors.Is(err, hill.ErrShapeMismatch) {
		t.Errorf("ragged blocks: error = %v, want ErrShapeMismatch", err)
	}
	if _, err := Reassemble([][]int{{1, 2}}, 3); !errors.Is(err, hill.ErrShapeMismatch) {
		t.Errorf("length beyond data: error = %v, want ErrShapeMismatch", err)
	}
	if _, err := Reassemble([][]int{{1, 2}}, -1); !errors.Is(err, hill.ErrShapeMismatch) {
		t.Errorf("negative length: error = %v, want ErrShapeMismatch", err)
	}
}

func TestSplit(t *testing.T) {
	blocks, err := Split([]int{1, 2, 3, 4}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(blocks, [][]int{{1, 2}, {3, 4}}) {
		t.Errorf("Split = %v", blocks)
	}
	if _, err := Split([]int{1, 2, 3}, 2); !errors.Is(err, hill.ErrShapeMismatch) {
		t.Errorf("indivisible: error = %v, want ErrShapeMismatch", err)
	}
}

func TestPaddedLength(t *testing.T) {
	cases := []struct{ length, n, want int }{
		{0, 3, 0}, {1, 3, 3}, {3, 3, 3}, {4, 3, 6}, {5, 1, 5},
	}
	for _, tc := range cases {
		if got := PaddedLength(tc.length, tc.n); got != tc.want {
			t.Errorf("PaddedLength(%d, %d) = %d, want %d", tc.length, tc.n, got, tc.want)
		}
	}
}
