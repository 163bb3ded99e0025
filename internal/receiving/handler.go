package receiving

import (
	"errors"
	"strings"
	"time"

	"receiving-dashboard/internal/models"
	"receiving-dashboard/internal/validation"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type UpsertRequest struct {
	Date           string `json:"date"` // "2024-01-05"; ignored on PUT /:date
	OrdersReceived *int   `json:"orders_received"`
	EstimatedUnits *int   `json:"estimated_units"`
}

type RecordResponse struct {
	ID             uint   `json:"id"`
	Date           string `json:"date"`
	OrdersReceived int    `json:"orders_received"`
	EstimatedUnits int    `json:"estimated_units"`
	UpdatedAt      string `json:"updated_at"`
}

func toResponse(rec *models.DailyReceivingRecord) RecordResponse {
	return RecordResponse{
		ID:             rec.ID,
		Date:           rec.Date.UTC().Format(DateLayout),
		OrdersReceived: rec.OrdersReceived,
		EstimatedUnits: rec.EstimatedUnits,
		UpdatedAt:      rec.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func (r UpsertRequest) entry(rawDate string) (Entry, error) {
	d, err := ParseDate("date", rawDate)
	if err != nil {
		return Entry{}, err
	}
	if r.OrdersReceived == nil {
		return Entry{}, validation.New("orders_received", "orders_received is required")
	}
	if r.EstimatedUnits == nil {
		return Entry{}, validation.New("estimated_units", "estimated_units is required")
	}
	return Entry{Date: d, OrdersReceived: *r.OrdersReceived, EstimatedUnits: *r.EstimatedUnits}, nil
}

// POST /api/receiving
func UpsertHandler(store *Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body UpsertRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		return upsert(c, store, body, body.Date)
	}
}

// PUT /api/receiving/:date
func UpsertByDateHandler(store *Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body UpsertRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		return upsert(c, store, body, c.Params("date"))
	}
}

func upsert(c *fiber.Ctx, store *Store, body UpsertRequest, rawDate string) error {
	e, err := body.entry(rawDate)
	if err != nil {
		return err
	}
	rec, err := store.Upsert(c.UserContext(), e)
	if err != nil {
		return err
	}
	return c.JSON(toResponse(rec))
}

// GET /api/receiving/:date
func GetHandler(store *Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		d, err := ParseDate("date", c.Params("date"))
		if err != nil {
			return err
		}
		rec, err := store.Get(c.UserContext(), d)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "no receiving record for "+d.Format(DateLayout))
		}
		if err != nil {
			return err
		}
		return c.JSON(toResponse(rec))
	}
}

// GET /api/receiving?year=2024&month=1
func ListMonthHandler(store *Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		year, month, err := YearMonthFromQuery(c)
		if err != nil {
			return err
		}
		recs, err := store.ListMonth(c.UserContext(), year, month)
		if err != nil {
			return err
		}
		resp := make([]RecordResponse, 0, len(recs))
		for i := range recs {
			resp = append(resp, toResponse(&recs[i]))
		}
		return c.JSON(resp)
	}
}

// POST /api/receiving/import (multipart "file", .xlsx)
func ImportHandler(store *Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "file is required")
		}
		if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".xlsx") {
			return fiber.NewError(fiber.StatusBadRequest, "only .xlsx files can be imported")
		}

		file, err := fileHeader.Open()
		if err != nil {
			return err
		}
		defer file.Close()

		res, err := store.ImportXLSX(c.UserContext(), file)
		if err != nil {
			return err
		}
		return c.JSON(res)
	}
}

// YearMonthFromQuery reads ?year=&month=, defaulting to the current month.
func YearMonthFromQuery(c *fiber.Ctx) (int, time.Month, error) {
	now := time.Now().UTC()
	year := c.QueryInt("year", now.Year())
	month := c.QueryInt("month", int(now.Month()))
	if year < 2000 || year > 9999 {
		return 0, 0, validation.New("year", "year is not valid")
	}
	if month < 1 || month > 12 {
		return 0, 0, validation.New("month", "month must be between 1 and 12")
	}
	return year, time.Month(month), nil
}
