package eof

import "stationtraffic/domain/entities"

const EOFType = "EOF"

// EOFData struct that marks the end of a stream of messages. Has the attribute that is in all domain entities.
// + Metadata: metadata added to the structure
type EOFData struct {
	Metadata entities.Metadata `json:"metadata"`
}

func NewEOF(city string, stage string, eofMessage string) *EOFData {
	return &EOFData{
		Metadata: entities.NewMetadata(city, EOFType, stage, eofMessage),
	}
}

func (eof EOFData) GetMetadata() entities.Metadata {
	return eof.Metadata
}

// IsEOF returns true if the metadata belongs to an EOF message
func IsEOF(metadata entities.Metadata) bool {
	return metadata.IsType(EOFType)
}
