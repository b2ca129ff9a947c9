package components

import "testing"

func TestTrailPushNeverExceedsLimit(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		push  int
		want  int
	}{
		{"under limit", 8, 5, 5},
		{"at limit", 8, 8, 8},
		{"over limit", 8, 100, 8},
		{"limit above max", 100, 200, MaxTrail},
		{"zero limit", 0, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			capLen := min(tt.limit, MaxTrail)
			var tr Trail
			for i := 0; i < tt.push; i++ {
				tr.Push(TrailPoint{X: float32(i)}, tt.limit)
				if tr.Len() > capLen {
					t.Fatalf("len %d exceeded limit after push %d", tr.Len(), i)
				}
			}
			if tr.Len() != tt.want {
				t.Errorf("Len() = %d, want %d", tr.Len(), tt.want)
			}
		})
	}
}

func TestTrailKeepsNewestOldestFirst(t *testing.T) {
	var tr Trail
	for i := 0; i < 10; i++ {
		tr.Push(TrailPoint{X: float32(i)}, 4)
	}
	for i := 0; i < tr.Len(); i++ {
		if got, want := tr.At(i).X, float32(6+i); got != want {
			t.Errorf("At(%d).X = %v, want %v", i, got, want)
		}
	}
}

func TestTrailClear(t *testing.T) {
	var tr Trail
	tr.Push(TrailPoint{X: 1}, 4)
	tr.Push(TrailPoint{X: 2}, 4)
	tr.Clear()
	if tr.Len() != 0 {
		t.Fatalf("Len() after Clear = %d", tr.Len())
	}
	tr.Push(TrailPoint{X: 3}, 4)
	if tr.At(0).X != 3 {
		t.Errorf("At(0).X = %v, want 3", tr.At(0).X)
	}
}
