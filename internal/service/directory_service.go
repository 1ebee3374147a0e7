package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/jakeb7757/evolve/internal/models"
	"github.com/jakeb7757/evolve/internal/repository"
)

// ErrStationNotFound is returned when a status report targets an unknown station.
var ErrStationNotFound = errors.New("directory: station not found")

// StationStore defines the local station storage contract.
type StationStore interface {
	List(ctx context.Context) ([]models.ChargingStation, error)
	GetByID(ctx context.Context, id int64) (*models.ChargingStation, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

// StatusStore defines the report history contract.
type StatusStore interface {
	Append(ctx context.Context, status *models.StationStatus) error
	LatestStatuses(ctx context.Context) (map[int64]string, error)
	HistoryByStation(ctx context.Context, stationID int64, limit int) ([]models.StationStatus, error)
}

// StationLookup defines the external lookup contract. Implementations
// return ErrUnavailable-wrapped errors on remote failure.
type StationLookup interface {
	FindStations(ctx context.Context, lat, lon, radiusMiles float64) ([]models.ExternalStation, error)
}

// ListQuery filters and orders a station listing.
type ListQuery struct {
	Latitude    float64
	Longitude   float64
	HasCoords   bool
	RadiusMiles float64
	Network     string
	MaxDistance float64
	MinStatus   string
}

// StationView is one station+status pair in a listing.
type StationView struct {
	ID            int64   `json:"id,omitempty"`
	ExternalID    string  `json:"external_id,omitempty"`
	Name          string  `json:"name"`
	Address       string  `json:"address"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	Network       string  `json:"network"`
	DistanceMiles float64 `json:"distance_miles,omitempty"`
	MaxPowerKW    float64 `json:"max_power_kw,omitempty"`
	Status        string  `json:"status"`
	Source        string  `json:"source"`
}

// DirectoryService merges local station records with external lookup
// results and resolves each station's current status from the
// append-only report history.
type DirectoryService struct {
	stations StationStore
	statuses StatusStore
	lookup   StationLookup
	logger   *zap.Logger
}

// NewDirectoryService builds service. lookup may be nil when the
// external API is not configured.
func NewDirectoryService(stations StationStore, statuses StatusStore, lookup StationLookup, logger *zap.Logger) *DirectoryService {
	return &DirectoryService{
		stations: stations,
		statuses: statuses,
		lookup:   lookup,
		logger:   logger,
	}
}

// ListStations returns station+status pairs. Local records always
// appear; external results are merged in, deduplicated against local
// rows by rounded coordinate + network. A lookup failure degrades to
// local-only and never fails the listing. Ordering is by distance when
// caller coordinates are given, else by identifier.
func (s *DirectoryService) ListStations(ctx context.Context, q ListQuery) ([]StationView, error) {
	local, err := s.stations.List(ctx)
	if err != nil {
		return nil, err
	}

	latest, err := s.statuses.LatestStatuses(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	views := make([]StationView, 0, len(local))
	for _, st := range local {
		status, ok := latest[st.ID]
		if !ok {
			status = models.StatusUnknown
		}
		view := StationView{
			ID:        st.ID,
			Name:      st.Name,
			Address:   st.Address,
			Latitude:  st.Latitude,
			Longitude: st.Longitude,
			Network:   st.Network,
			Status:    status,
			Source:    "local",
		}
		if q.HasCoords {
			view.DistanceMiles = round2(haversineMiles(q.Latitude, q.Longitude, st.Latitude, st.Longitude))
		}
		seen[dedupeKey(st.Latitude, st.Longitude, st.Network)] = true
		views = append(views, view)
	}

	if s.lookup != nil && q.HasCoords {
		radius := q.RadiusMiles
		if radius <= 0 {
			radius = 25
		}
		external, err := s.lookup.FindStations(ctx, q.Latitude, q.Longitude, radius)
		if err != nil {
			s.logger.Warn("station lookup unavailable, serving local records only", zap.Error(err))
		}
		for _, ext := range external {
			key := dedupeKey(ext.Latitude, ext.Longitude, ext.Network)
			if seen[key] {
				continue
			}
			seen[key] = true
			views = append(views, StationView{
				ExternalID:    ext.ID,
				Name:          ext.Name,
				Address:       ext.Address,
				Latitude:      ext.Latitude,
				Longitude:     ext.Longitude,
				Network:       ext.Network,
				DistanceMiles: ext.DistanceMiles,
				MaxPowerKW:    ext.MaxPowerKW,
				Status:        models.StatusUnknown,
				Source:        "nrel",
			})
		}
	}

	views = filterViews(views, q)

	if q.HasCoords {
		sort.SliceStable(views, func(i, j int) bool {
			return views[i].DistanceMiles < views[j].DistanceMiles
		})
	} else {
		sort.SliceStable(views, func(i, j int) bool {
			if views[i].ID != views[j].ID {
				return views[i].ID < views[j].ID
			}
			return views[i].ExternalID < views[j].ExternalID
		})
	}
	return views, nil
}

// SubmitStatus validates and appends a status report. The station must
// exist locally and the status must be one of working/broken/busy.
// Repeated identical submissions add more history; nothing is ever
// overwritten.
func (s *DirectoryService) SubmitStatus(ctx context.Context, stationID int64, status string, reporter *int64) (*models.StationStatus, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if !models.ValidStatus(status) {
		return nil, FieldErrors{"status": "must be one of working, broken, busy"}
	}

	exists, err := s.stations.Exists(ctx, stationID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrStationNotFound
	}

	report := &models.StationStatus{
		StationID: stationID,
		Status:    status,
		UserID:    reporter,
	}
	if err := s.statuses.Append(ctx, report); err != nil {
		return nil, err
	}

	s.logger.Info("station status reported",
		zap.Int64("station_id", stationID),
		zap.String("status", status),
	)
	return report, nil
}

// History returns a station and its report history, newest first.
func (s *DirectoryService) History(ctx context.Context, stationID int64, limit int) (*models.ChargingStation, []models.StationStatus, error) {
	station, err := s.stations.GetByID(ctx, stationID)
	if err != nil {
		if errors.Is(err, repository.ErrStationNotFound) {
			return nil, nil, ErrStationNotFound
		}
		return nil, nil, err
	}

	reports, err := s.statuses.HistoryByStation(ctx, stationID, limit)
	if err != nil {
		return nil, nil, err
	}
	return station, reports, nil
}

func filterViews(views []StationView, q ListQuery) []StationView {
	network := strings.ToLower(strings.TrimSpace(q.Network))
	minRank := 0
	if q.MinStatus != "" {
		minRank = models.StatusRank(strings.ToLower(q.MinStatus))
	}

	filtered := views[:0]
	for _, v := range views {
		if network != "" && !strings.Contains(strings.ToLower(v.Network), network) {
			continue
		}
		if q.MaxDistance > 0 && q.HasCoords && v.DistanceMiles > q.MaxDistance {
			continue
		}
		if minRank > 0 && models.StatusRank(v.Status) < minRank {
			continue
		}
		filtered = append(filtered, v)
	}
	return filtered
}

// dedupeKey identifies a station by coordinate rounded to ~11m and network.
func dedupeKey(lat, lon float64, network string) string {
	return fmt.Sprintf("%.4f:%.4f:%s", lat, lon, strings.ToLower(strings.TrimSpace(network)))
}

const earthRadiusMiles = 3958.8

func haversineMiles(lat1, lon1, lat2, lon2 float64) float64 {
	const deg = math.Pi / 180
	dLat := (lat2 - lat1) * deg
	dLon := (lon2 - lon1) * deg
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*deg)*math.Cos(lat2*deg)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusMiles * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
