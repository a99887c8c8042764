package httpapi

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/kelvins/geocoder"

	"github.com/javonjax/OpenAQ-App/internal/airquality"
	"github.com/javonjax/OpenAQ-App/internal/session"
)

var validate = validator.New()

// cityZoom is the camera zoom returned by the city-lookup endpoint.
const cityZoom = 10

// RegisterRoutes wires the HTTP handlers into the Fiber app. geocoderAPIKey
// may be empty, in which case the map locate endpoint reports unavailable.
func RegisterRoutes(app *fiber.App, sessions *session.Manager, geocoderAPIKey string) {
	v1 := app.Group("/api/v1")

	v1.Post("/sessions", func(c *fiber.Ctx) error {
		s := sessions.Create()
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"id":   s.ID,
			"view": s.Engine.View(),
		})
	})

	v1.Get("/sessions/:id/view", func(c *fiber.Ctx) error {
		s, err := lookup(sessions, c)
		if err != nil {
			return err
		}
		return c.JSON(s.Engine.View())
	})

	v1.Delete("/sessions/:id", func(c *fiber.Ctx) error {
		sessions.Delete(c.Params("id"))
		return c.SendStatus(fiber.StatusNoContent)
	})

	v1.Post("/sessions/:id/pollutant", func(c *fiber.Ctx) error {
		s, err := lookup(sessions, c)
		if err != nil {
			return err
		}

		var req pollutantRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		kind, err := airquality.ParsePollutant(req.Pollutant)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := s.Engine.SelectPollutant(kind); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.JSON(s.Engine.View())
	})

	v1.Post("/sessions/:id/region", func(c *fiber.Ctx) error {
		s, err := lookup(sessions, c)
		if err != nil {
			return err
		}

		var req regionRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		key, err := airquality.ParseRegion(req.Region)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := s.Engine.FocusRegion(key); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.JSON(s.Engine.View())
	})

	v1.Post("/sessions/:id/display", func(c *fiber.Ctx) error {
		s, err := lookup(sessions, c)
		if err != nil {
			return err
		}

		var req displayRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		mode, err := airquality.ParseDisplayMode(req.Mode)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := s.Engine.SetDisplayMode(mode); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.JSON(s.Engine.View())
	})

	v1.Post("/sessions/:id/clicks/marker", func(c *fiber.Ctx) error {
		s, err := lookup(sessions, c)
		if err != nil {
			return err
		}

		var req markerClickRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		if err := s.Engine.HandleMarkerClick(session.MarkerClick{
			LocationID: req.LocationID,
			Name:       req.Name,
		}); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.JSON(s.Engine.View())
	})

	v1.Post("/sessions/:id/clicks/row", func(c *fiber.Ctx) error {
		s, err := lookup(sessions, c)
		if err != nil {
			return err
		}

		var req rowClickRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		if err := s.Engine.HandleRowClick(session.RowClick{
			LocationID:  req.LocationID,
			Name:        req.Name,
			Coordinates: req.Coordinates,
		}); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.JSON(s.Engine.View())
	})

	v1.Post("/sessions/:id/clicks/point", func(c *fiber.Ctx) error {
		s, err := lookup(sessions, c)
		if err != nil {
			return err
		}

		var req pointClickRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		if err := s.Engine.HandlePointClick(session.PointClick{
			LocationID: req.LocationID,
			Name:       req.Name,
			Lat:        req.Lat,
			Lon:        req.Lon,
		}); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.JSON(s.Engine.View())
	})

	v1.Post("/sessions/:id/notice/dismiss", func(c *fiber.Ctx) error {
		s, err := lookup(sessions, c)
		if err != nil {
			return err
		}
		s.Engine.DismissNotice()
		return c.JSON(s.Engine.View())
	})

	v1.Get("/map/locate", func(c *fiber.Ctx) error {
		if geocoderAPIKey == "" {
			return fiber.NewError(fiber.StatusServiceUnavailable, "geocoding is not configured")
		}

		city := c.Query("city")
		if city == "" {
			return fiber.NewError(fiber.StatusBadRequest, "city query parameter is required")
		}

		geocoder.ApiKey = geocoderAPIKey
		loc, err := geocoder.Geocoding(geocoder.Address{
			City:    city,
			Country: c.Query("country"),
		})
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, "geocoding failed")
		}

		return c.JSON(airquality.Camera{
			Lat:  loc.Latitude,
			Lon:  loc.Longitude,
			Zoom: cityZoom,
		})
	})
}

func lookup(sessions *session.Manager, c *fiber.Ctx) (*session.Session, error) {
	s, ok := sessions.Get(c.Params("id"))
	if !ok {
		return nil, fiber.NewError(fiber.StatusNotFound, "unknown session")
	}
	return s, nil
}

func bind(c *fiber.Ctx, req interface{}) error {
	if err := c.BodyParser(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}

// pollutantRequest selects the active pollutant by parameter code.
type pollutantRequest struct {
	Pollutant string `json:"pollutant" validate:"required"`
}

type regionRequest struct {
	Region string `json:"region" validate:"required"`
}

type displayRequest struct {
	Mode string `json:"mode" validate:"required"`
}

// Click payloads mirror the metadata attached to markers, rows, and
// overview points. Empty payloads are accepted and treated as no-ops.
type markerClickRequest struct {
	LocationID int    `json:"locationId"`
	Name       string `json:"name"`
}

type rowClickRequest struct {
	LocationID  int    `json:"locationId"`
	Name        string `json:"name"`
	Coordinates string `json:"coordinates"`
}

type pointClickRequest struct {
	LocationID int     `json:"locationId"`
	Name       string  `json:"name"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
}
