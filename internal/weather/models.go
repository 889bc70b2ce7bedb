package weather

// Kind identifies a registered provider variant. The set of kinds is closed
// at startup: adding a provider means adding a constant here, a payload
// section to RawPayload, and a normalization rule.
type Kind string

const (
	KindMock        Kind = "mock"
	KindOpenWeather Kind = "openweather"
)

// TempUnit is a temperature unit label.
type TempUnit string

// WindUnit is a wind speed unit label.
type WindUnit string

const (
	UnitCelsius    TempUnit = "C"
	UnitFahrenheit TempUnit = "F"

	UnitKmh WindUnit = "kmh"
	UnitMph WindUnit = "mph"
)

// Temperature is a value with an explicit unit.
type Temperature struct {
	Value float64  `json:"value"`
	Unit  TempUnit `json:"unit"`
}

// Wind is a wind speed with an explicit unit.
type Wind struct {
	Speed float64  `json:"speed"`
	Unit  WindUnit `json:"unit"`
}

// WeatherReading is the canonical reading returned to callers. After
// normalization the temperature is always Celsius and the wind always km/h;
// nothing downstream converts units again.
type WeatherReading struct {
	City        string      `json:"city"`
	Temperature Temperature `json:"temperature"`
	Condition   string      `json:"condition"`
	Wind        Wind        `json:"wind"`
}

// RawPayload carries a provider's native reading before normalization.
// Exactly one of the per-provider sections is set, matching Kind.
type RawPayload struct {
	Kind Kind
	City string

	Mock        *MockPayload
	OpenWeather *OpenWeatherPayload
}

// MockPayload is the simulated upstream's native shape: imperial units.
type MockPayload struct {
	TempF     float64
	WindMph   float64
	Condition string
}

// OpenWeatherPayload holds the fields the gateway consumes from the
// OpenWeatherMap current-weather response: Kelvin and m/s.
type OpenWeatherPayload struct {
	TempK     float64
	WindMS    float64
	Condition string
}
