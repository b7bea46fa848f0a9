package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"parkfinder/internal/models/response_models"
	"parkfinder/internal/repositories"
	"parkfinder/pkg/nps"
	"parkfinder/pkg/utils"
)

type ParkServiceInterface interface {
	GetParkDetail(ctx context.Context, parkCode string) (response_models.ParkDetail, error)
}

type ParkService struct {
	parkRepo repositories.ParkRepository
	npsAPI   NPSClientInterface
}

func NewParkService(parkRepo repositories.ParkRepository, npsAPI NPSClientInterface) ParkServiceInterface {
	return &ParkService{
		parkRepo: parkRepo,
		npsAPI:   npsAPI,
	}
}

// GetParkDetail returns the stored park, or the NPS record when the code is
// not stored, merged with live alerts, news, things to do and amenities.
func (p *ParkService) GetParkDetail(ctx context.Context, parkCode string) (response_models.ParkDetail, error) {
	parkCode = strings.TrimSpace(parkCode)
	if parkCode == "" {
		return response_models.ParkDetail{}, utils.ErrParkNotFound
	}

	park, err := p.lookupPark(ctx, parkCode)
	if err != nil {
		return response_models.ParkDetail{}, err
	}

	detail := response_models.ParkDetail{Park: park}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		detail.Alerts = p.fetchLive(gctx, "alerts", parkCode, p.npsAPI.Alerts)
		return nil
	})
	g.Go(func() error {
		detail.News = p.fetchLive(gctx, "news", parkCode, p.npsAPI.NewsReleases)
		return nil
	})
	g.Go(func() error {
		detail.ThingsToDo = p.fetchLive(gctx, "things to do", parkCode, p.npsAPI.ThingsToDo)
		return nil
	})
	g.Go(func() error {
		detail.Amenities = p.fetchLive(gctx, "amenities", parkCode, p.npsAPI.Amenities)
		return nil
	})
	_ = g.Wait()

	return detail, nil
}

func (p *ParkService) lookupPark(ctx context.Context, parkCode string) (response_models.Park, error) {
	row, err := p.parkRepo.GetByCode(ctx, parkCode)
	if err != nil {
		log.Error().Err(err).Str("park_code", parkCode).Msg("Error fetching park")
		return response_models.Park{}, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if row != nil {
		return parkFromRow(*row), nil
	}

	remote, err := p.npsAPI.GetPark(ctx, parkCode)
	if err != nil {
		// NPS answering with an error status means it does not know the
		// code; only transport failures are server errors.
		var statusErr *nps.StatusError
		if errors.As(err, &statusErr) {
			log.Warn().Err(err).Str("park_code", parkCode).Msg("NPS park lookup rejected")
			return response_models.Park{}, fmt.Errorf("%w: %v", utils.ErrParkNotFound, err)
		}
		return response_models.Park{}, err
	}
	if remote == nil {
		return response_models.Park{}, utils.ErrParkNotFound
	}
	return parkFromNPS(*remote), nil
}

// fetchLive never fails: supplementary data degrades to an empty list.
func (p *ParkService) fetchLive(
	ctx context.Context,
	what, parkCode string,
	fetch func(context.Context, string) ([]json.RawMessage, error),
) []json.RawMessage {
	items, err := fetch(ctx, parkCode)
	if err != nil {
		log.Warn().Err(err).Str("park_code", parkCode).Msgf("Error fetching %s", what)
		return []json.RawMessage{}
	}
	if items == nil {
		return []json.RawMessage{}
	}
	return items
}
