package entities

// Metadata travels with every message so consumers know what they received
// + City: city of the bike share system
// + Type: kind of payload (trips, time-filter, traffic-snapshot, EOF)
// + Stage: component that built the message
// + Message: free text, the EOF string or the time label of a snapshot
type Metadata struct {
	City    string `json:"city"`
	Type    string `json:"type"`
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

func NewMetadata(city string, dataType string, stage string, message string) Metadata {
	return Metadata{
		City:    city,
		Type:    dataType,
		Stage:   stage,
		Message: message,
	}
}

func (m Metadata) GetType() string {
	return m.Type
}

// IsType returns true if the metadata has the given type
func (m Metadata) IsType(dataType string) bool {
	return m.Type == dataType
}

func (m Metadata) GetCity() string {
	return m.City
}

func (m Metadata) GetStage() string {
	return m.Stage
}

func (m Metadata) GetMessage() string {
	return m.Message
}
