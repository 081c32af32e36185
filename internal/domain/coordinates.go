package domain

// Coordinates is a geocoded address as ORS returns it: longitude first.
// Caches store it keyed by the normalized address.
type Coordinates struct {
	Lon float64
	Lat float64
}

// CoordsToList returns [lon, lat], the order ORS expects in request bodies.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lon, c.Lat} }
