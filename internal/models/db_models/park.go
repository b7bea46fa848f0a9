package db_models

import (
	"time"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
)

// Park is one catalog row keyed by the NPS park code. A nil Embedding marks
// the row as not yet synced.
type Park struct {
	ID             string           `gorm:"column:id;type:text;not null"`
	ParkCode       string           `gorm:"column:park_code;type:text;primaryKey"`
	FullName       string           `gorm:"column:full_name;type:text"`
	Description    string           `gorm:"column:description;type:text"`
	URL            string           `gorm:"column:url;type:text"`
	States         pq.StringArray   `gorm:"column:states;type:text[]"`
	LatLong        *string          `gorm:"column:lat_long;type:text"`
	RelevanceScore float64          `gorm:"column:relevance_score"`
	Addresses      JSONDocument     `gorm:"column:addresses;type:jsonb"`
	Activities     JSONDocument     `gorm:"column:activities;type:jsonb"`
	Topics         JSONDocument     `gorm:"column:topics;type:jsonb"`
	Amenities      JSONDocument     `gorm:"column:amenities;type:jsonb"`
	Embedding      *pgvector.Vector `gorm:"column:embedding;type:vector"`
	UpdatedAt      time.Time        `gorm:"column:updated_at"`
}

func (Park) TableName() string {
	return "nps.parks"
}

// ParkMatch is a Park returned by a similarity query.
type ParkMatch struct {
	Park       `gorm:"embedded"`
	Similarity float64 `gorm:"column:similarity"`
}
