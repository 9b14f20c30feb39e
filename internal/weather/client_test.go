package weather

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fdg312/energy-hub/internal/config"
)

func newTestClient(baseURL string) *Client {
	return NewClient(&config.Config{
		WeatherBaseURL:        baseURL,
		WeatherTimeoutSeconds: 5,
		WeatherLatitude:       55.7558,
		WeatherLongitude:      37.6173,
	})
}

func TestCurrentParsesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/forecast" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("latitude"); got != "55.7558" {
			t.Errorf("unexpected latitude: %s", got)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"current":{"time":"2026-08-30T07:00","temperature_2m":31.4,"relative_humidity_2m":68,"surface_pressure":1008.2}}`)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	sample, err := client.Current(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sample.TemperatureC != 31.4 || sample.HumidityPct != 68 || sample.PressureHPa != 1008.2 {
		t.Errorf("unexpected sample: %+v", sample)
	}
	if sample.PressureChangeHPa != 0 {
		t.Errorf("first fetch must have zero pressure change, got %v", sample.PressureChangeHPa)
	}
}

func TestCurrentTracksPressureChange(t *testing.T) {
	pressure := 1010.0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"current":{"time":"2026-08-30T07:00","temperature_2m":20,"relative_humidity_2m":50,"surface_pressure":%v}}`, pressure)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	if _, err := client.Current(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pressure = 1006.5
	sample, err := client.Current(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sample.PressureChangeHPa != -3.5 {
		t.Errorf("expected -3.5 hPa change, got %v", sample.PressureChangeHPa)
	}
}

func TestCurrentServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	if _, err := client.Current(context.Background()); err == nil {
		t.Error("expected error on 502")
	}
}

func TestNewProviderWithoutCoordinates(t *testing.T) {
	p := NewProvider(&config.Config{WeatherBaseURL: "https://api.open-meteo.com"})
	sample, err := p.Current(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sample.TemperatureC != 20 || sample.PressureChangeHPa != 0 {
		t.Errorf("expected neutral sample, got %+v", sample)
	}
}
