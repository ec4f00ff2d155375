package station

// StationData struct that contains a dock location
// + ID: short name of the station. Trips reference stations by this value
// + Name: human readable name
// + Latitude, Longitude: coordinates of the dock
// + Capacity: amount of docks of the station
type StationData struct {
	ID        string  `json:"short_name"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	Capacity  int     `json:"capacity"`
}
