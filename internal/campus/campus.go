package campus

// Bounds is the fixed rectangle a report location must fall inside.
type Bounds struct {
	North float64 `json:"north"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	West  float64 `json:"west"`
}

// University of Waterloo campus boundaries (approximate).
var UW = Bounds{
	North: 43.4800,
	South: 43.4600,
	East:  -80.5300,
	West:  -80.5500,
}

// Contains reports whether the point lies inside the rectangle. The campus
// sits west of the meridian, so the longitude band runs from the smaller of
// east/west to the larger regardless of how the corners were labelled.
func (b Bounds) Contains(lat, lng float64) bool {
	if lat < b.South || lat > b.North {
		return false
	}
	lo, hi := b.West, b.East
	if lo > hi {
		lo, hi = hi, lo
	}
	return lng >= lo && lng <= hi
}

// Habitat is a named region geese are known to frequent.
type Habitat struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Coordinates [][2]float64 `json:"coordinates"`
	Type        string       `json:"type"`
}

// Habitats is the static fixture list served to the map layer.
var Habitats = []Habitat{
	{
		ID:          "1",
		Name:        "Columbia Lake",
		Coordinates: [][2]float64{{43.4685, -80.5400}, {43.4695, -80.5390}},
		Type:        "water",
	},
	{
		ID:          "2",
		Name:        "Laurel Creek",
		Coordinates: [][2]float64{{43.4700, -80.5450}, {43.4710, -80.5440}},
		Type:        "water",
	},
	{
		ID:          "3",
		Name:        "Main Quad",
		Coordinates: [][2]float64{{43.4720, -80.5430}, {43.4730, -80.5420}},
		Type:        "grass",
	},
}
