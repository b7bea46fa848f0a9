package response_models

import "encoding/json"

// Park is the public park shape. Field names follow the NPS API so that
// stored and fallback results look the same to callers.
type Park struct {
	ID             string          `json:"id"`
	ParkCode       string          `json:"parkCode"`
	FullName       string          `json:"fullName"`
	Description    string          `json:"description"`
	URL            string          `json:"url"`
	States         []string        `json:"states"`
	LatLong        *string         `json:"latLong"`
	RelevanceScore float64         `json:"relevanceScore"`
	Addresses      json.RawMessage `json:"addresses"`
	Activities     json.RawMessage `json:"activities"`
	Topics         json.RawMessage `json:"topics"`
	Amenities      json.RawMessage `json:"amenities"`
	Similarity     *float64        `json:"similarity,omitempty"`
}

type SearchResponse struct {
	Data     []Park `json:"data"`
	Total    int    `json:"total"`
	Fallback bool   `json:"fallback"`
}

// ParkDetail is a park merged with live supplementary data. The live
// amenities list shadows the stored one.
type ParkDetail struct {
	Park
	Alerts     []json.RawMessage `json:"alerts"`
	News       []json.RawMessage `json:"news"`
	ThingsToDo []json.RawMessage `json:"thingsToDo"`
	Amenities  []json.RawMessage `json:"amenities"`
}
