package httpapi

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-screen/internal/screen"
	"github.com/i474232898/weather-screen/internal/weather"
)

var validate = validator.New()

// Pusher accepts device location readings.
type Pusher interface {
	Push(c weather.Coordinate) (int, error)
}

// RegisterRoutes wires the HTTP handlers into the Fiber app. pusher may be nil
// when locations come from elsewhere.
func RegisterRoutes(app *fiber.App, sessions *screen.Session, pusher Pusher, source weather.Source) {
	v1 := app.Group("/api/v1")

	v1.Get("/screen", func(c *fiber.Ctx) error {
		ctrl, err := sessions.Current()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to open screen")
		}
		return c.JSON(ctrl.Render())
	})

	v1.Post("/screen/enter", func(c *fiber.Ctx) error {
		ctrl, err := sessions.Enter()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to open screen")
		}
		return c.Status(fiber.StatusCreated).JSON(ctrl.Render())
	})

	v1.Post("/screen/location", func(c *fiber.Ctx) error {
		if pusher == nil {
			return fiber.NewError(fiber.StatusConflict, "location readings are not accepted in this mode")
		}

		var req locationRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		// Make sure a screen is listening before the reading goes out.
		if _, err := sessions.Current(); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to open screen")
		}

		n, err := pusher.Push(req.toCoordinate())
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"accepted":  true,
			"listeners": n,
		})
	})

	v1.Put("/screen/unit", func(c *fiber.Ctx) error {
		var req unitRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		ctrl, err := sessions.Current()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to open screen")
		}

		dialog := ctrl.OpenSettings()
		if err := dialog.Choose(weather.Unit(req.Unit)); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if _, err := dialog.Dismiss(); err != nil {
			if errors.Is(err, screen.ErrClosed) {
				return fiber.NewError(fiber.StatusConflict, "screen was replaced; retry")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to apply unit")
		}
		return c.JSON(ctrl.Render())
	})

	v1.Get("/weather/current", func(c *fiber.Ctx) error {
		q, err := parseWeatherQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		unit := weather.Celsius
		if s := c.Query("unit"); s != "" {
			if unit, err = weather.ParseUnit(s); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
		}

		ctx, cancel := context.WithTimeout(c.UserContext(), 10*time.Second)
		defer cancel()

		snap, err := source.Fetch(ctx, q)
		if err != nil {
			if errors.Is(err, weather.ErrUnsupportedQuery) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return fiber.NewError(fiber.StatusBadGateway, "failed to fetch weather data")
		}
		if snap.LocationName == "" {
			return fiber.NewError(fiber.StatusNotFound, "no weather data for requested location")
		}

		return c.JSON(fiber.Map{
			"snapshot": snap,
			"display":  weather.FormatTemperature(snap.TemperatureC, unit),
		})
	})
}

// locationRequest is a single positioning reading pushed by the device.
type locationRequest struct {
	Latitude  *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
}

func (r locationRequest) toCoordinate() weather.Coordinate {
	return weather.Coordinate{Latitude: *r.Latitude, Longitude: *r.Longitude}
}

type unitRequest struct {
	Unit string `json:"unit" validate:"required,oneof=celsius fahrenheit"`
}

// weatherQuery holds the query parameters of the direct lookup.
type weatherQuery struct {
	City    string
	Lat     *float64 `validate:"omitempty,gte=-90,lte=90"`
	Lon     *float64 `validate:"omitempty,gte=-180,lte=180"`
	Current bool
}

func parseWeatherQuery(c *fiber.Ctx) (weather.Query, error) {
	var q weatherQuery
	q.City = c.Query("city")
	q.Current = c.QueryBool("current", false)

	if s := c.Query("lat"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return "", errors.New("invalid lat")
		}
		q.Lat = &v
	}
	if s := c.Query("lon"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return "", errors.New("invalid lon")
		}
		q.Lon = &v
	}

	if err := validate.Struct(q); err != nil {
		return "", err
	}
	if (q.Lat == nil) != (q.Lon == nil) {
		return "", errors.New("lat and lon must be given together")
	}
	if !q.Current && q.City == "" && q.Lat == nil {
		return "", errors.New("one of city, lat/lon or current=true is required")
	}

	switch {
	case q.Current:
		return weather.CurrentLocation, nil
	case q.Lat != nil && q.Lon != nil:
		return weather.CoordinateQuery(weather.Coordinate{Latitude: *q.Lat, Longitude: *q.Lon}), nil
	default:
		return weather.CityQuery(q.City), nil
	}
}

// NewApp builds the Fiber app with a centralized JSON error response.
func NewApp(name string) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:               name,
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})
}
