package clients

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/jakeb7757/evolve/internal/models"
)

// NRELClient queries the NREL alternative-fuel-stations API for nearby
// DC fast charging stations. The response schema is treated as opaque
// input and normalized to models.ExternalStation.
type NRELClient struct {
	baseURL string
	apiKey  string
	client  HTTPDoer
	logger  *zap.Logger
}

// NewNRELClient builds client. An empty apiKey disables it: FindStations
// returns no results without calling out.
func NewNRELClient(baseURL, apiKey string, client HTTPDoer, logger *zap.Logger) *NRELClient {
	return &NRELClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  strings.TrimSpace(apiKey),
		client:  client,
		logger:  logger,
	}
}

// Enabled reports whether an API key is configured.
func (c *NRELClient) Enabled() bool {
	return c.apiKey != ""
}

type nrelStation struct {
	ID            int64   `json:"id"`
	StationName   string  `json:"station_name"`
	StreetAddress string  `json:"street_address"`
	City          string  `json:"city"`
	State         string  `json:"state"`
	Zip           string  `json:"zip"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	EVNetwork     string  `json:"ev_network"`
	EVDCFastNum   int     `json:"ev_dc_fast_num"`
	EVDCFastPower float64 `json:"ev_dc_fast_charger_power"`
	OpenDate      string  `json:"open_date"`
	Distance      float64 `json:"distance"`
}

type nrelResponse struct {
	FuelStations []nrelStation `json:"fuel_stations"`
}

// FindStations returns nearby stations with at least one DC fast
// charger. Remote failure returns (nil, ErrUnavailable-wrapped error);
// callers degrade to local-only listings. Single attempt, bounded by
// the client timeout.
func (c *NRELClient) FindStations(ctx context.Context, lat, lon, radiusMiles float64) ([]models.ExternalStation, error) {
	if !c.Enabled() {
		return nil, nil
	}
	if radiusMiles <= 0 {
		radiusMiles = 25
	}

	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("radius", strconv.FormatFloat(radiusMiles, 'f', -1, 64))
	params.Set("fuel_type", "ELEC")
	params.Set("ev_connector_type", "CHADEMO,J1772COMBO,TESLA")
	params.Set("ev_charging_level", "dc_fast")
	params.Set("status", "E")
	params.Set("access", "public")
	params.Set("limit", "50")

	endpoint := c.baseURL + "/nearest.json?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var payload nrelResponse
	if err := getJSON(c.client, req, &payload); err != nil {
		c.logger.Error("nrel request failed", zap.Error(err))
		return nil, err
	}

	stations := make([]models.ExternalStation, 0, len(payload.FuelStations))
	for _, st := range payload.FuelStations {
		if st.EVDCFastNum <= 0 {
			continue
		}
		stations = append(stations, models.ExternalStation{
			ID:            strconv.FormatInt(st.ID, 10),
			Name:          st.StationName,
			Address:       joinAddress(st.StreetAddress, st.City, st.State, st.Zip),
			Latitude:      st.Latitude,
			Longitude:     st.Longitude,
			Network:       st.EVNetwork,
			DistanceMiles: st.Distance,
			MaxPowerKW:    estimateMaxPower(st),
		})
	}

	c.logger.Info("nrel lookup", zap.Int("stations", len(stations)))
	return stations, nil
}

// estimateMaxPower derives a station's max charging power. An explicit
// power field wins; otherwise the network name and open date give a
// conservative estimate.
func estimateMaxPower(st nrelStation) float64 {
	if st.EVDCFastPower > 0 {
		return st.EVDCFastPower
	}

	network := strings.ToUpper(st.EVNetwork)
	switch {
	case strings.Contains(network, "TESLA"):
		// V3 superchargers (250 kW) rolled out from 2019; assume V2
		// (150 kW) when the open date predates 2020 or is unknown.
		if st.OpenDate >= "2020-01-01" {
			return 250
		}
		return 150
	case strings.Contains(network, "ELECTRIFY AMERICA"):
		return 350
	case strings.Contains(network, "EVGO"):
		return 350
	case strings.Contains(network, "CHARGEPOINT"):
		return 62.5
	case strings.Contains(network, "FRANCIS"):
		return 150
	case strings.Contains(network, "BLINK"):
		return 50
	default:
		return 50
	}
}

func joinAddress(parts ...string) string {
	kept := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}
