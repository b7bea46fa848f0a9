package services

import (
	"context"
	"encoding/json"

	"parkfinder/pkg/nps"
)

// NPSClientInterface is the part of the NPS API the services depend on.
// *nps.Client implements it.
type NPSClientInterface interface {
	ListParks(ctx context.Context, start, limit int) (nps.ParkPage, error)
	SearchParks(ctx context.Context, p nps.SearchParams) ([]nps.Park, error)
	GetPark(ctx context.Context, parkCode string) (*nps.Park, error)
	Alerts(ctx context.Context, parkCode string) ([]json.RawMessage, error)
	NewsReleases(ctx context.Context, parkCode string) ([]json.RawMessage, error)
	ThingsToDo(ctx context.Context, parkCode string) ([]json.RawMessage, error)
	Amenities(ctx context.Context, parkCode string) ([]json.RawMessage, error)
}
