package services

import (
	"encoding/json"
	"strings"

	"github.com/pgvector/pgvector-go"
	"parkfinder/internal/models/db_models"
	"parkfinder/internal/models/response_models"
	"parkfinder/pkg/nps"
)

var emptyDocument = json.RawMessage("[]")

func toParkRow(p nps.Park, embedding pgvector.Vector) *db_models.Park {
	var latLong *string
	if ll := strings.TrimSpace(p.LatLong); ll != "" {
		latLong = &ll
	}

	return &db_models.Park{
		ID:             p.ID,
		ParkCode:       p.ParkCode,
		FullName:       p.FullName,
		Description:    p.Description,
		URL:            p.URL,
		States:         stateCodes(p.States),
		LatLong:        latLong,
		RelevanceScore: p.RelevanceScore,
		Addresses:      db_models.JSONDocument(p.Addresses),
		Activities:     db_models.JSONDocument(p.Activities),
		Topics:         db_models.JSONDocument(p.Topics),
		Amenities:      db_models.JSONDocument(p.Amenities),
		Embedding:      &embedding,
	}
}

func parkFromRow(row db_models.Park) response_models.Park {
	return response_models.Park{
		ID:             row.ID,
		ParkCode:       row.ParkCode,
		FullName:       row.FullName,
		Description:    row.Description,
		URL:            row.URL,
		States:         stateCodes(row.States),
		LatLong:        row.LatLong,
		RelevanceScore: row.RelevanceScore,
		Addresses:      document(json.RawMessage(row.Addresses)),
		Activities:     document(json.RawMessage(row.Activities)),
		Topics:         document(json.RawMessage(row.Topics)),
		Amenities:      document(json.RawMessage(row.Amenities)),
	}
}

func parkFromMatch(m db_models.ParkMatch) response_models.Park {
	p := parkFromRow(m.Park)
	similarity := m.Similarity
	p.Similarity = &similarity
	return p
}

func parkFromNPS(p nps.Park) response_models.Park {
	var latLong *string
	if p.LatLong != "" {
		ll := p.LatLong
		latLong = &ll
	}
	return response_models.Park{
		ID:             p.ID,
		ParkCode:       p.ParkCode,
		FullName:       p.FullName,
		Description:    p.Description,
		URL:            p.URL,
		States:         stateCodes(p.States),
		LatLong:        latLong,
		RelevanceScore: p.RelevanceScore,
		Addresses:      document(p.Addresses),
		Activities:     document(p.Activities),
		Topics:         document(p.Topics),
		Amenities:      document(p.Amenities),
	}
}

func stateCodes(states []string) []string {
	if states == nil {
		return []string{}
	}
	return states
}

func document(doc json.RawMessage) json.RawMessage {
	if len(doc) == 0 || string(doc) == "null" {
		return emptyDocument
	}
	return doc
}
