package transit

// Stop is the public view of a stop. Latitude and longitude are either both
// set or both nil.
type Stop struct {
	StopID    string   `json:"stop_id" groups:"basic"`
	Name      string   `json:"name" groups:"basic"`
	Latitude  *float64 `json:"latitude" groups:"basic"`
	Longitude *float64 `json:"longitude" groups:"basic"`
	Address   string   `json:"address" groups:"basic"`
}

func (s *Stop) HasCoordinates() bool {
	return s.Latitude != nil && s.Longitude != nil
}
