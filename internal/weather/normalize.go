package weather

const (
	mphToKmh     = 1.60934
	msToKmh      = 3.6
	kelvinOffset = 273.15
)

func fahrenheitToCelsius(f float64) float64 {
	return (f - 32) * 5 / 9
}

// Normalize converts a provider-native payload into the canonical reading:
// Celsius and km/h. Unit conversion happens here and nowhere else. It is
// total over payloads produced by a registered provider; the provider has
// already rejected malformed upstream data.
func Normalize(p RawPayload) WeatherReading {
	reading := WeatherReading{
		City:        p.City,
		Temperature: Temperature{Unit: UnitCelsius},
		Wind:        Wind{Unit: UnitKmh},
	}

	switch p.Kind {
	case KindOpenWeather:
		if p.OpenWeather != nil {
			reading.Temperature.Value = p.OpenWeather.TempK - kelvinOffset
			reading.Wind.Speed = p.OpenWeather.WindMS * msToKmh
			reading.Condition = p.OpenWeather.Condition
		}
	case KindMock:
		if p.Mock != nil {
			reading.Temperature.Value = fahrenheitToCelsius(p.Mock.TempF)
			reading.Wind.Speed = p.Mock.WindMph * mphToKmh
			reading.Condition = p.Mock.Condition
		}
	}

	return reading
}
