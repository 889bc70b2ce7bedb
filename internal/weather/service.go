package weather

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"weather-gateway/internal/audit"
)

// auditTimeout bounds the best-effort audit write so a canceled request can
// still record its true outcome.
const auditTimeout = 2 * time.Second

// Service orchestrates one weather request: resolve the provider, parse the
// config blob, fetch, normalize, and append an audit record. The pipeline is
// linear; there is no retry and no state carried between requests.
type Service struct {
	registry *Registry
	audit    audit.Log
	log      *logrus.Logger
}

// NewService creates a new Service.
func NewService(registry *Registry, auditLog audit.Log, log *logrus.Logger) *Service {
	return &Service{
		registry: registry,
		audit:    auditLog,
		log:      log,
	}
}

// GetWeather runs the full pipeline for one request. On failure the returned
// error is always one of the typed errors in this package; an audit record
// is appended regardless of outcome.
func (s *Service) GetWeather(ctx context.Context, city, source, rawConfig string) (WeatherReading, error) {
	if strings.TrimSpace(city) == "" {
		return WeatherReading{}, s.fail(ctx, city, source, ErrInvalidCity)
	}

	kind, provider, err := s.registry.Resolve(source)
	if err != nil {
		return WeatherReading{}, s.fail(ctx, city, source, err)
	}

	cfg, err := ParseConfig(rawConfig)
	if err != nil {
		return WeatherReading{}, s.fail(ctx, city, source, err)
	}

	payload, err := provider.Fetch(ctx, city, cfg)
	if err != nil {
		return WeatherReading{}, s.fail(ctx, city, source, err)
	}

	reading := Normalize(payload)

	s.append(ctx, audit.Record{
		ID:           uuid.NewString(),
		City:         city,
		Source:       string(kind),
		Timestamp:    time.Now().UTC(),
		Outcome:      audit.OutcomeSuccess,
		TemperatureC: reading.Temperature.Value,
		WindKmh:      reading.Wind.Speed,
		Condition:    reading.Condition,
	})

	s.log.WithFields(logrus.Fields{
		"city":   city,
		"source": string(kind),
	}).Info("weather request served")

	return reading, nil
}

// fail audits and logs a pipeline failure, then returns the error unchanged.
func (s *Service) fail(ctx context.Context, city, source string, err error) error {
	kind := ErrorKind(err)

	s.append(ctx, audit.Record{
		ID:        uuid.NewString(),
		City:      city,
		Source:    source,
		Timestamp: time.Now().UTC(),
		Outcome:   audit.OutcomeFailure,
		ErrorKind: kind,
	})

	s.log.WithFields(logrus.Fields{
		"city":       city,
		"source":     source,
		"error_kind": kind,
	}).WithError(err).Warn("weather request failed")

	return err
}

// append writes the audit record best-effort: a failed append never fails
// the request, but it is logged. The write runs detached from request
// cancellation so an abandoned call still leaves a truthful record.
func (s *Service) append(ctx context.Context, rec audit.Record) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), auditTimeout)
	defer cancel()

	if err := s.audit.Append(ctx, rec); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"city":   rec.City,
			"source": rec.Source,
		}).Warn("failed to append audit record")
	}
}
