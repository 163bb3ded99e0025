package problemtag

import (
	"errors"

	"receiving-dashboard/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type LineResponse struct {
	ID                       uint   `json:"id"`
	Position                 int    `json:"position"`
	SKU                      string `json:"sku"`
	ProblemType              string `json:"problem_type"`
	Quantity                 int    `json:"quantity"`
	Note                     string `json:"note"`
	ItemDescription          string `json:"item_description"`
	Color                    string `json:"color"`
	Size                     string `json:"size"`
	VendorPackingSlipMatches *bool  `json:"vendor_packing_slip_matches"`
}

type SubmissionResponse struct {
	ID            uint           `json:"id"`
	DateFound     string         `json:"date_found"`
	Customer      string         `json:"customer"`
	Employee      string         `json:"employee"`
	PONumber      string         `json:"po_number"`
	JobName       string         `json:"job_name"`
	TeamName      string         `json:"team_name"`
	AuthorName    string         `json:"author_name"`
	Notes         string         `json:"notes"`
	LineCount     int            `json:"line_count"`
	TotalQuantity int            `json:"total_quantity"`
	CreatedAt     string         `json:"created_at"`
	Lines         []LineResponse `json:"lines,omitempty"`
}

type OptionsResponse struct {
	ProblemTypes []string `json:"problem_types"`
	Teams        []string `json:"teams"`
	Sizes        []string `json:"sizes"`
}

func toLineResponse(ln models.ProblemTagLine) LineResponse {
	return LineResponse{
		ID:                       ln.ID,
		Position:                 ln.Position,
		SKU:                      ln.SKU,
		ProblemType:              string(ln.ProblemType),
		Quantity:                 ln.Quantity,
		Note:                     ln.Note,
		ItemDescription:          ln.ItemDescription,
		Color:                    ln.Color,
		Size:                     ln.Size,
		VendorPackingSlipMatches: ln.VendorPackingSlipMatches,
	}
}

func toResponse(sub *models.ProblemTagSubmission, withLines bool) SubmissionResponse {
	resp := SubmissionResponse{
		ID:         sub.ID,
		DateFound:  sub.DateFound.UTC().Format(DateLayout),
		Customer:   sub.Customer.Name,
		Employee:   sub.Employee.Name,
		PONumber:   sub.PONumber,
		JobName:    sub.JobName,
		TeamName:   sub.TeamName,
		AuthorName: sub.AuthorName,
		Notes:      sub.Notes,
		LineCount:  len(sub.Lines),
		CreatedAt:  sub.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	for _, ln := range sub.Lines {
		resp.TotalQuantity += ln.Quantity
		if withLines {
			resp.Lines = append(resp.Lines, toLineResponse(ln))
		}
	}
	return resp
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	return uint(id), nil
}

// POST /api/problem-tags
func SubmitHandler(store *Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body SubmitRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		sub, err := store.Submit(c.UserContext(), body)
		if err != nil {
			return err
		}

		return c.Status(fiber.StatusCreated).JSON(toResponse(sub, true))
	}
}

// GET /api/problem-tags?limit=100
func ListHandler(store *Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		subs, err := store.List(c.UserContext(), c.QueryInt("limit", MaxListLimit))
		if err != nil {
			return err
		}

		resp := make([]SubmissionResponse, 0, len(subs))
		for i := range subs {
			resp = append(resp, toResponse(&subs[i], false))
		}
		return c.JSON(resp)
	}
}

// GET /api/problem-tags/:id
func GetHandler(store *Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}

		sub, err := store.Get(c.UserContext(), id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "problem tag not found")
		}
		if err != nil {
			return err
		}
		return c.JSON(toResponse(sub, true))
	}
}

// GET /api/problem-tags/:id/lines
func LinesHandler(store *Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}

		lines, err := store.Lines(c.UserContext(), id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "problem tag not found")
		}
		if err != nil {
			return err
		}

		resp := make([]LineResponse, 0, len(lines))
		for _, ln := range lines {
			resp = append(resp, toLineResponse(ln))
		}
		return c.JSON(resp)
	}
}

// GET /api/problem-tags/options
func OptionsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		types := make([]string, 0, len(models.ProblemTypes))
		for _, t := range models.ProblemTypes {
			types = append(types, string(t))
		}
		return c.JSON(OptionsResponse{
			ProblemTypes: types,
			Teams:        models.Teams,
			Sizes:        models.Sizes,
		})
	}
}
