package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"weather-gateway/internal/weather"
)

const defaultOpenWeatherURL = "https://api.openweathermap.org/data/2.5/weather"

var errServerError = errors.New("upstream server error")

// OpenWeather fetches current weather from the OpenWeatherMap API. The API
// key comes from the per-request provider config (key "apiKey"), not from
// process configuration. Calls go through a circuit breaker so a struggling
// upstream is not hammered; an open circuit surfaces as upstream-unavailable.
type OpenWeather struct {
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

// NewOpenWeather creates an OpenWeather provider. baseURL overrides the
// production endpoint when non-empty (used by tests and ops). The client's
// timeout bounds each upstream call.
func NewOpenWeather(client *http.Client, baseURL string) *OpenWeather {
	if baseURL == "" {
		baseURL = defaultOpenWeatherURL
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openweather",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
	return &OpenWeather{
		baseURL: baseURL,
		client:  client,
		circuit: cb,
	}
}

// Fetch calls the current-weather endpoint with city and apiKey as query
// parameters. Upstream field validation happens here; the payload handed to
// the normalizer is already known to be well-formed.
func (p *OpenWeather) Fetch(ctx context.Context, city string, cfg weather.ProviderConfig) (weather.RawPayload, error) {
	apiKey, ok := cfg.GetString("apiKey")
	if !ok {
		return weather.RawPayload{}, &weather.ProviderError{
			Failure: weather.FailureMissingCredential,
			Err:     errors.New(`config key "apiKey" is required`),
		}
	}

	values := url.Values{}
	values.Set("q", city)
	values.Set("appid", apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s?%s", p.baseURL, values.Encode()), nil)
	if err != nil {
		return weather.RawPayload{}, &weather.ProviderError{
			Failure: weather.FailureUpstreamUnavailable,
			Err:     err,
		}
	}

	result, err := p.circuit.Execute(func() (interface{}, error) {
		resp, doErr := p.client.Do(req)
		if doErr != nil {
			return nil, doErr
		}
		// 5xx counts as a breaker failure; anything else is handled by
		// the caller with the response in hand.
		if resp.StatusCode >= 500 {
			resp.Body.Close()
			return nil, &weather.ProviderError{
				Failure: weather.FailureUpstreamUnavailable,
				Status:  resp.StatusCode,
				Err:     errServerError,
			}
		}
		return resp, nil
	})
	if err != nil {
		var providerErr *weather.ProviderError
		if errors.As(err, &providerErr) {
			return weather.RawPayload{}, providerErr
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return weather.RawPayload{}, &weather.ProviderError{
				Failure: weather.FailureUpstreamUnavailable,
				Err:     fmt.Errorf("circuit open: %w", err),
			}
		}
		// Transport failure or client timeout.
		return weather.RawPayload{}, &weather.ProviderError{
			Failure: weather.FailureUpstreamUnavailable,
			Err:     err,
		}
	}

	resp := result.(*http.Response)
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return weather.RawPayload{}, &weather.ProviderError{
			Failure: weather.FailureCityNotFound,
			Status:  resp.StatusCode,
			Err:     fmt.Errorf("city %q not found upstream", city),
		}
	case resp.StatusCode != http.StatusOK:
		return weather.RawPayload{}, &weather.ProviderError{
			Failure: weather.FailureUpstreamUnavailable,
			Status:  resp.StatusCode,
			Err:     fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	var body struct {
		Main *struct {
			Temp *float64 `json:"temp"`
		} `json:"main"`
		Wind *struct {
			Speed *float64 `json:"speed"`
		} `json:"wind"`
		Weather []struct {
			Main string `json:"main"`
		} `json:"weather"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return weather.RawPayload{}, &weather.ProviderError{
			Failure: weather.FailureUpstreamMalformed,
			Status:  resp.StatusCode,
			Err:     fmt.Errorf("decode response: %w", err),
		}
	}
	if body.Main == nil || body.Main.Temp == nil || body.Wind == nil || body.Wind.Speed == nil || len(body.Weather) == 0 {
		return weather.RawPayload{}, &weather.ProviderError{
			Failure: weather.FailureUpstreamMalformed,
			Status:  resp.StatusCode,
			Err:     errors.New("response is missing required fields"),
		}
	}

	return weather.RawPayload{
		Kind: weather.KindOpenWeather,
		City: city,
		OpenWeather: &weather.OpenWeatherPayload{
			TempK:     *body.Main.Temp,
			WindMS:    *body.Wind.Speed,
			Condition: body.Weather[0].Main,
		},
	}, nil
}
