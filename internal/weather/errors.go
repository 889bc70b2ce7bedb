package weather

import (
	"errors"
	"fmt"
)

// ErrInvalidCity is returned when the requested city is blank or missing.
var ErrInvalidCity = errors.New("city must not be blank")

// UnknownSourceError is returned when a source name does not match any
// registered provider.
type UnknownSourceError struct {
	Name string
}

func (e *UnknownSourceError) Error() string {
	return fmt.Sprintf("unknown weather source %q", e.Name)
}

// ConfigError is returned when a provider config blob is not a well-formed
// JSON object. Provider-specific required fields are not checked here; that
// is the provider's job.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("malformed provider config: %v", e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// ProviderFailure classifies a provider fetch failure. It distinguishes
// caller error (bad input, missing credential) from upstream availability
// from integration error (contract mismatch).
type ProviderFailure string

const (
	FailureInvalidInput        ProviderFailure = "invalid_input"
	FailureMissingCredential   ProviderFailure = "missing_credential"
	FailureCityNotFound        ProviderFailure = "city_not_found"
	FailureUpstreamUnavailable ProviderFailure = "upstream_unavailable"
	FailureUpstreamMalformed   ProviderFailure = "upstream_malformed_response"
)

// ProviderError is the typed failure every provider Fetch returns. Status
// preserves the upstream HTTP status for diagnostics when one was received.
type ProviderError struct {
	Failure ProviderFailure
	Status  int
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("provider failed (%s, status %d): %v", e.Failure, e.Status, e.Err)
	}
	return fmt.Sprintf("provider failed (%s): %v", e.Failure, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// ErrorKind labels a pipeline failure for audit records. The label is stable
// and safe to expose in diagnostics.
func ErrorKind(err error) string {
	var (
		unknownErr  *UnknownSourceError
		configErr   *ConfigError
		providerErr *ProviderError
	)
	switch {
	case errors.Is(err, ErrInvalidCity):
		return "invalid_city"
	case errors.As(err, &unknownErr):
		return "unknown_source"
	case errors.As(err, &configErr):
		return "invalid_config"
	case errors.As(err, &providerErr):
		return "provider_" + string(providerErr.Failure)
	default:
		return "internal"
	}
}
