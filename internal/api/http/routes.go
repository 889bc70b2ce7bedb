package httpapi

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"weather-gateway/internal/audit"
	"weather-gateway/internal/weather"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service, auditLog audit.Log) {
	v1 := app.Group("/api/v1")

	v1.Get("/weather", func(c *fiber.Ctx) error {
		reading, err := service.GetWeather(
			c.UserContext(),
			c.Query("city"),
			c.Query("source"),
			c.Query("config"),
		)
		if err != nil {
			return weatherStatusError(err)
		}
		return c.JSON(reading)
	})

	v1.Get("/audit/recent", func(c *fiber.Ctx) error {
		var q auditQuery
		if err := q.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		records, err := auditLog.Recent(c.UserContext(), q.Limit)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read audit log")
		}
		return c.JSON(fiber.Map{
			"records": records,
			"count":   len(records),
		})
	})
}

// weatherStatusError maps pipeline errors onto HTTP statuses. Only the error
// kind and a safe message cross the boundary; upstream detail stays in logs
// and the audit trail.
func weatherStatusError(err error) error {
	var (
		unknownErr  *weather.UnknownSourceError
		configErr   *weather.ConfigError
		providerErr *weather.ProviderError
	)
	switch {
	case errors.Is(err, weather.ErrInvalidCity):
		return fiber.NewError(fiber.StatusBadRequest, "city must not be blank")
	case errors.As(err, &unknownErr):
		return fiber.NewError(fiber.StatusBadRequest, unknownErr.Error())
	case errors.As(err, &configErr):
		return fiber.NewError(fiber.StatusBadRequest, "provider config is not a valid JSON object")
	case errors.As(err, &providerErr):
		switch providerErr.Failure {
		case weather.FailureInvalidInput:
			return fiber.NewError(fiber.StatusBadRequest, "invalid input for weather provider")
		case weather.FailureCityNotFound:
			return fiber.NewError(fiber.StatusNotFound, "city not found")
		case weather.FailureMissingCredential:
			return fiber.NewError(fiber.StatusInternalServerError, "weather provider credential not configured")
		case weather.FailureUpstreamMalformed:
			return fiber.NewError(fiber.StatusBadGateway, "invalid response from weather provider")
		default:
			return fiber.NewError(fiber.StatusBadGateway, "weather provider unavailable")
		}
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch weather data")
	}
}

// auditQuery holds query parameters for the audit diagnostics endpoint.
type auditQuery struct {
	Limit int `validate:"omitempty,min=1,max=500"`
}

func (q *auditQuery) bind(c *fiber.Ctx) error {
	limitStr := c.Query("limit")
	if limitStr == "" {
		return nil
	}
	limit, err := strconv.Atoi(limitStr)
	if err != nil {
		return errors.New("limit must be an integer")
	}
	q.Limit = limit
	return nil
}
