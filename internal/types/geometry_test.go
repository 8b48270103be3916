package types

import "testing"

func TestRectCenter(t *testing.T) {
	tests := []struct {
		name string
		rect Rect
		want Point
	}{
		{"origin rect", Rect{X: 0, Y: 0, Width: 100, Height: 100}, Point{X: 50, Y: 50}},
		{"offset rect", Rect{X: 100, Y: 200, Width: 50, Height: 80}, Point{X: 125, Y: 240}},
		{"zero size", Rect{X: 10, Y: 20, Width: 0, Height: 0}, Point{X: 10, Y: 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.rect.Center()
			if got != tt.want {
				t.Errorf("Center() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRectIntersects(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	b := Rect{X: 5, Y: 5, Width: 10, Height: 10}
	c := Rect{X: 20, Y: 20, Width: 10, Height: 10}

	if !a.Intersects(b) {
		t.Error("expected a and b to intersect")
	}
	if a.Intersects(c) {
		t.Error("expected a and c to not intersect")
	}
}

func TestRectIntersection(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	b := Rect{X: 5, Y: 5, Width: 10, Height: 10}

	got, ok := a.Intersection(b)
	if !ok {
		t.Fatal("expected intersection")
	}
	want := Rect{X: 5, Y: 5, Width: 5, Height: 5}
	if got != want {
		t.Errorf("Intersection() = %v, want %v", got, want)
	}

	_, ok = a.Intersection(Rect{X: 100, Y: 100, Width: 1, Height: 1})
	if ok {
		t.Error("expected no intersection")
	}
}

func TestRectUnion(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	b := Rect{X: 5, Y: 5, Width: 10, Height: 10}
	got := a.Union(b)
	want := Rect{X: 0, Y: 0, Width: 15, Height: 15}
	if got != want {
		t.Errorf("Union() = %v, want %v", got, want)
	}
}

func TestRectInset(t *testing.T) {
	r := Rect{X: 0, Y: 0, Width: 100, Height: 100}
	got := r.Inset(10)
	want := Rect{X: 10, Y: 10, Width: 80, Height: 80}
	if got != want {
		t.Errorf("Inset() = %v, want %v", got, want)
	}
}

func TestDirectionOppositeIsInvolution(t *testing.T) {
	for _, d := range []Direction{DirNorth, DirSouth, DirEast, DirWest} {
		if got := d.Opposite().Opposite(); got != d {
			t.Errorf("%v.Opposite().Opposite() = %v, want %v", d, got, d)
		}
	}
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		input string
		want  Direction
		ok    bool
	}{
		{"north", DirNorth, true},
		{"south", DirSouth, true},
		{"east", DirEast, true},
		{"west", DirWest, true},
		{"up", DirNorth, true},
		{"sideways", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseDirection(tt.input)
		if ok != tt.ok {
			t.Errorf("ParseDirection(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("ParseDirection(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
