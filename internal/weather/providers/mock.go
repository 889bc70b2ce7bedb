package providers

import (
	"context"
	"errors"
	"hash/fnv"
	"math/rand"
	"strings"

	"weather-gateway/internal/weather"
)

var mockConditions = []string{
	"Clear", "Clouds", "Rain", "Drizzle", "Snow", "Thunderstorm", "Mist",
}

// Mock simulates an upstream weather feed without any network dependency.
// Output is deterministic per city (seeded from a hash of the name) so demos
// and tests see stable values, while different cities still differ. It
// reports imperial units, like the simulated upstream it stands in for.
type Mock struct{}

// NewMock creates a mock provider. It requires no configuration; extra
// config keys are ignored.
func NewMock() *Mock {
	return &Mock{}
}

// Fetch generates a plausible payload for any non-empty city.
func (m *Mock) Fetch(_ context.Context, city string, _ weather.ProviderConfig) (weather.RawPayload, error) {
	if strings.TrimSpace(city) == "" {
		return weather.RawPayload{}, &weather.ProviderError{
			Failure: weather.FailureInvalidInput,
			Err:     errors.New("mock provider requires a city"),
		}
	}

	h := fnv.New64a()
	h.Write([]byte(strings.ToLower(strings.TrimSpace(city))))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	return weather.RawPayload{
		Kind: weather.KindMock,
		City: city,
		Mock: &weather.MockPayload{
			TempF:     10 + rng.Float64()*85, // 10..95 F
			WindMph:   rng.Float64() * 30,
			Condition: mockConditions[rng.Intn(len(mockConditions))],
		},
	}, nil
}
