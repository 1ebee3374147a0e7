package clients

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

const nrelFixture = `{
  "fuel_stations": [
    {
      "id": 101,
      "station_name": "Gainesville Supercharger",
      "street_address": "3443 SW Archer Rd",
      "city": "Gainesville",
      "state": "FL",
      "zip": "32608",
      "latitude": 29.62,
      "longitude": -82.37,
      "ev_network": "Tesla",
      "ev_dc_fast_num": 8,
      "open_date": "2021-06-15",
      "distance": 2.4
    },
    {
      "id": 102,
      "station_name": "Level 2 Only Garage",
      "street_address": "100 Main St",
      "city": "Gainesville",
      "state": "FL",
      "zip": "32601",
      "latitude": 29.65,
      "longitude": -82.32,
      "ev_network": "ChargePoint Network",
      "ev_dc_fast_num": 0,
      "distance": 0.5
    },
    {
      "id": 103,
      "station_name": "Explicit Power Station",
      "street_address": "200 University Ave",
      "city": "Gainesville",
      "state": "FL",
      "zip": "32601",
      "latitude": 29.66,
      "longitude": -82.33,
      "ev_network": "Electrify America",
      "ev_dc_fast_num": 4,
      "ev_dc_fast_charger_power": 150,
      "distance": 1.1
    }
  ]
}`

func TestNRELFindStations(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/nearest.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(nrelFixture))
	}))
	defer srv.Close()

	client := NewNRELClient(srv.URL, "demo-key", srv.Client(), zap.NewNop())
	stations, err := client.FindStations(context.Background(), 29.65, -82.32, 10)
	if err != nil {
		t.Fatalf("find stations: %v", err)
	}

	if gotQuery["api_key"] != "demo-key" {
		t.Fatalf("expected api key in query, got %v", gotQuery)
	}
	if gotQuery["fuel_type"] != "ELEC" || gotQuery["ev_charging_level"] != "dc_fast" {
		t.Fatalf("unexpected filter params %v", gotQuery)
	}
	if gotQuery["radius"] != "10" {
		t.Fatalf("expected radius 10, got %s", gotQuery["radius"])
	}

	// Station 102 has no DC fast chargers and is dropped.
	if len(stations) != 2 {
		t.Fatalf("expected 2 stations, got %d", len(stations))
	}

	tesla := stations[0]
	if tesla.ID != "101" {
		t.Fatalf("expected external id 101, got %s", tesla.ID)
	}
	if tesla.Address != "3443 SW Archer Rd, Gainesville, FL, 32608" {
		t.Fatalf("unexpected address %q", tesla.Address)
	}
	// Post-2020 Tesla site without an explicit power field: V3 estimate.
	if tesla.MaxPowerKW != 250 {
		t.Fatalf("expected 250 kW estimate, got %.1f", tesla.MaxPowerKW)
	}

	explicit := stations[1]
	if explicit.MaxPowerKW != 150 {
		t.Fatalf("expected explicit 150 kW to win over the network estimate, got %.1f", explicit.MaxPowerKW)
	}
	if explicit.DistanceMiles != 1.1 {
		t.Fatalf("expected distance 1.1, got %.1f", explicit.DistanceMiles)
	}
}

func TestNRELDisabledWithoutKey(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	client := NewNRELClient(srv.URL, "", srv.Client(), zap.NewNop())
	if client.Enabled() {
		t.Fatalf("expected client to be disabled without a key")
	}
	stations, err := client.FindStations(context.Background(), 29.65, -82.32, 10)
	if err != nil || stations != nil {
		t.Fatalf("expected (nil, nil), got (%v, %v)", stations, err)
	}
	if called {
		t.Fatalf("expected no outbound request when disabled")
	}
}

func TestNRELUnavailableOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewNRELClient(srv.URL, "demo-key", srv.Client(), zap.NewNop())
	if _, err := client.FindStations(context.Background(), 29.65, -82.32, 10); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestNRELUnavailableOnMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	client := NewNRELClient(srv.URL, "demo-key", srv.Client(), zap.NewNop())
	if _, err := client.FindStations(context.Background(), 29.65, -82.32, 10); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestNRELUnavailableOnTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
	}))
	defer srv.Close()

	client := NewNRELClient(srv.URL, "demo-key", NewDefaultHTTPClient(10*time.Millisecond), zap.NewNop())
	if _, err := client.FindStations(context.Background(), 29.65, -82.32, 10); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestEstimateMaxPowerByNetwork(t *testing.T) {
	cases := []struct {
		network  string
		openDate string
		want     float64
	}{
		{"Tesla", "2019-05-01", 150},
		{"Tesla", "", 150},
		{"Tesla", "2020-01-01", 250},
		{"Electrify America", "", 350},
		{"eVgo Network", "", 350},
		{"ChargePoint Network", "", 62.5},
		{"Francis Energy", "", 150},
		{"Blink Network", "", 50},
		{"Some Co-op", "", 50},
	}
	for _, tc := range cases {
		got := estimateMaxPower(nrelStation{EVNetwork: tc.network, OpenDate: tc.openDate})
		if got != tc.want {
			t.Fatalf("network %q open %q: expected %.1f kW, got %.1f", tc.network, tc.openDate, tc.want, got)
		}
	}
}
