package weather

import (
	"errors"
	"time"
)

var ErrUnavailable = errors.New("weather data unavailable")

// WeatherSample — текущие погодные условия.
// Истории не держим, нужен только актуальный снимок.
type WeatherSample struct {
	TemperatureC      float64   `json:"temperature_c"`
	HumidityPct       float64   `json:"humidity_pct"`
	PressureHPa       float64   `json:"pressure_hpa"`
	PressureChangeHPa float64   `json:"pressure_change_hpa"` // изменение к прошлому замеру, <0 при падении
	ObservedAt        time.Time `json:"observed_at"`
}

// Neutral — нейтральные условия, когда поставщик погоды недоступен.
func Neutral(now time.Time) WeatherSample {
	return WeatherSample{
		TemperatureC: 20,
		HumidityPct:  50,
		PressureHPa:  1013,
		ObservedAt:   now,
	}
}
