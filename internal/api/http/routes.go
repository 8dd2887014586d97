package httpapi

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/noxistepan/trip-planner/internal/trip"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *trip.Service) {
	v1 := app.Group("/api/v1")

	v1.Get("/trip/plan", func(c *fiber.Ctx) error {
		req, err := parsePlanQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		plan, err := service.Plan(c.Context(), req.Place, trip.PlanOptions{
			IncludeWeather: req.Weather,
			IncludePlaces:  req.Places,
		})
		if err != nil {
			if errors.Is(err, trip.ErrPlaceNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error":   true,
					"message": trip.NotFoundMessage(req.Place),
				})
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to plan trip")
		}

		return c.JSON(plan)
	})
}

// planQuery holds query parameters for the plan endpoint.
type planQuery struct {
	Place   string `validate:"required"`
	Weather bool
	Places  bool
}

func parsePlanQuery(c *fiber.Ctx) (planQuery, error) {
	q := planQuery{
		Place: strings.TrimSpace(c.Query("place")),
		// Both branches default to enabled, mirroring the consumer's
		// checked-by-default toggles.
		Weather: c.QueryBool("weather", true),
		Places:  c.QueryBool("places", true),
	}

	if err := validate.Struct(q); err != nil {
		return q, err
	}

	return q, nil
}
