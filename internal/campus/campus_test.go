package campus

import "testing"

func TestContains(t *testing.T) {
	tests := []struct {
		name string
		lat  float64
		lng  float64
		want bool
	}{
		{"center of campus", 43.4700, -80.5400, true},
		{"north edge", 43.4800, -80.5400, true},
		{"south edge", 43.4600, -80.5400, true},
		{"east edge", 43.4700, -80.5300, true},
		{"west edge", 43.4700, -80.5500, true},
		{"north of campus", 43.4900, -80.5400, false},
		{"south of campus", 43.4500, -80.5400, false},
		{"east of campus", 43.4700, -80.5200, false},
		{"west of campus", 43.4700, -80.5600, false},
		{"other hemisphere", -43.4700, 80.5400, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UW.Contains(tt.lat, tt.lng); got != tt.want {
				t.Errorf("Contains(%v, %v) = %v, want %v", tt.lat, tt.lng, got, tt.want)
			}
		})
	}
}

func TestContainsSwappedCorners(t *testing.T) {
	// The longitude band must not depend on which corner was labelled
	// east vs west.
	swapped := Bounds{North: UW.North, South: UW.South, East: UW.West, West: UW.East}
	if !swapped.Contains(43.4700, -80.5400) {
		t.Error("swapped bounds rejected an in-campus point")
	}
	if swapped.Contains(43.4700, -80.5600) {
		t.Error("swapped bounds accepted an out-of-campus point")
	}
}

func TestHabitatsFixture(t *testing.T) {
	if len(Habitats) != 3 {
		t.Fatalf("expected 3 habitats, got %d", len(Habitats))
	}
	for _, h := range Habitats {
		for _, coord := range h.Coordinates {
			if !UW.Contains(coord[0], coord[1]) {
				t.Errorf("habitat %s coordinate %v lies outside campus", h.Name, coord)
			}
		}
	}
}
