// Package api exposes the diary over HTTP.
package api

import (
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"

	"github.com/unowned-ai/fieldlog/pkg/capture"
	"github.com/unowned-ai/fieldlog/pkg/diary"
	"github.com/unowned-ai/fieldlog/pkg/validate"
)

// Deps are the collaborators the handlers need.
type Deps struct {
	DB       *sql.DB
	Reader   capture.WeatherReader
	Location string
}

// NewApp returns a configured Fiber app with every route registered.
func NewApp(deps Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "fieldlog",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
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

	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "fieldlog",
		})
	})

	RegisterRoutes(app, deps)
	return app
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, deps Deps) {
	v1 := app.Group("/api/v1")

	v1.Get("/weather/current", func(c *fiber.Ctx) error {
		if deps.Reader == nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "no weather reader configured")
		}
		reading := deps.Reader.FetchCurrent(c.UserContext())
		temperature, humidity := reading.Pointers()

		body := fiber.Map{
			"location":    deps.Location,
			"available":   !reading.IsFallback(),
			"temperature": temperature,
			"humidity":    humidity,
		}
		if reading.IsFallback() {
			body["reason"] = reading.Reason()
		} else {
			body["provider"] = reading.Provider()
			body["observed_at"] = reading.ObservedAt()
		}
		return c.JSON(body)
	})

	v1.Post("/entries", func(c *fiber.Ctx) error {
		var req createEntryRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Validator().Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		note := ""
		if req.Note != nil {
			note = *req.Note
		}

		runner := &capture.Runner{Reader: deps.Reader, Store: diary.NewStore(deps.DB)}
		out, err := runner.Record(c.UserContext(), req.UserID, deps.Location, req.Action, note)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := out.Err(); err != nil {
			if errors.Is(err, validate.ErrValidation) {
				return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to save entry")
		}

		var warnings []string
		for _, m := range out.Messages {
			if m.Kind == capture.WeatherUnavailable {
				warnings = append(warnings, m.Text())
			}
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"entry":             out.Entry,
			"weather_available": out.Entry.HasReading(),
			"warnings":          warnings,
		})
	})

	v1.Get("/entries", func(c *fiber.Ctx) error {
		var q listQuery
		if err := q.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Validator().Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		entries, err := diary.ListEntries(c.UserContext(), deps.DB, q.UserID, q.Limit)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to list entries")
		}
		if entries == nil {
			entries = []diary.Entry{}
		}
		return c.JSON(entries)
	})

	v1.Get("/entries/:id", func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid entry id")
		}

		entry, err := diary.GetEntry(c.UserContext(), deps.DB, id)
		if err != nil {
			if errors.Is(err, diary.ErrEntryNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "entry not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch entry")
		}
		return c.JSON(entry)
	})

	v1.Delete("/entries/:id", func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid entry id")
		}

		if err := diary.DeleteEntry(c.UserContext(), deps.DB, id); err != nil {
			if errors.Is(err, diary.ErrEntryNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "entry not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to delete entry")
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

// createEntryRequest is the body of POST /entries. Action and note rules are
// applied by the capture workflow so the API reports them like every other surface.
type createEntryRequest struct {
	UserID string  `json:"user_id" validate:"required,max=256"`
	Action string  `json:"action"`
	Note   *string `json:"note"`
}

// listQuery holds query parameters for the list endpoint.
type listQuery struct {
	UserID string `validate:"required"`
	Limit  int    `validate:"min=0,max=500"`
}

func (q *listQuery) bind(c *fiber.Ctx) error {
	q.UserID = c.Query("user_id")
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return errors.New("limit must be an integer")
		}
		q.Limit = n
	}
	return nil
}
