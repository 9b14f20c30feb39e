package weather

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/fdg312/energy-hub/internal/config"
)

// Provider отдаёт текущие погодные условия для точки профиля.
type Provider interface {
	Current(ctx context.Context) (WeatherSample, error)
}

// Client — клиент Open-Meteo-совместимого API.
// Изменение давления считается между последовательными опросами.
type Client struct {
	http      *resty.Client
	latitude  float64
	longitude float64

	mu           sync.Mutex
	lastPressure *float64
}

func NewClient(cfg *config.Config) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.WeatherBaseURL).
		SetTimeout(time.Duration(cfg.WeatherTimeoutSeconds) * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)

	return &Client{
		http:      httpClient,
		latitude:  cfg.WeatherLatitude,
		longitude: cfg.WeatherLongitude,
	}
}

type currentResponse struct {
	Current struct {
		Time             string  `json:"time"`
		Temperature2M    float64 `json:"temperature_2m"`
		RelativeHumidity float64 `json:"relative_humidity_2m"`
		SurfacePressure  float64 `json:"surface_pressure"`
	} `json:"current"`
}

func (c *Client) Current(ctx context.Context) (WeatherSample, error) {
	var out currentResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"latitude":  strconv.FormatFloat(c.latitude, 'f', 4, 64),
			"longitude": strconv.FormatFloat(c.longitude, 'f', 4, 64),
			"current":   "temperature_2m,relative_humidity_2m,surface_pressure",
		}).
		SetResult(&out).
		Get("/v1/forecast")
	if err != nil {
		return WeatherSample{}, fmt.Errorf("weather request: %w", err)
	}
	if resp.IsError() {
		return WeatherSample{}, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode())
	}

	observedAt := time.Now().UTC()
	if ts, err := time.Parse("2006-01-02T15:04", out.Current.Time); err == nil {
		observedAt = ts
	}

	sample := WeatherSample{
		TemperatureC: out.Current.Temperature2M,
		HumidityPct:  out.Current.RelativeHumidity,
		PressureHPa:  out.Current.SurfacePressure,
		ObservedAt:   observedAt,
	}

	c.mu.Lock()
	if c.lastPressure != nil {
		sample.PressureChangeHPa = sample.PressureHPa - *c.lastPressure
	}
	p := sample.PressureHPa
	c.lastPressure = &p
	c.mu.Unlock()

	return sample, nil
}

// StaticProvider возвращает фиксированный снимок. Используется в тестах
// и как запасной вариант, когда координаты не настроены.
type StaticProvider struct {
	Sample WeatherSample
}

func (p *StaticProvider) Current(ctx context.Context) (WeatherSample, error) {
	return p.Sample, nil
}

// NewProvider выбирает реализацию по конфигурации: без координат погода
// нейтральна и фактор окружения всегда 1.0.
func NewProvider(cfg *config.Config) Provider {
	if cfg.WeatherLatitude == 0 && cfg.WeatherLongitude == 0 {
		log.Printf("WARNING: weather coordinates not set, using neutral conditions")
		return &StaticProvider{Sample: Neutral(time.Now().UTC())}
	}
	return NewClient(cfg)
}
