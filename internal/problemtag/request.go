package problemtag

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"receiving-dashboard/internal/models"
	"receiving-dashboard/internal/validation"
)

const DateLayout = "2006-01-02"

type SubmitRequest struct {
	DateFound string        `json:"date_found"` // "2024-01-05"
	Customer  string        `json:"customer"`
	Employee  string        `json:"employee"`
	Lines     []LineRequest `json:"lines"`

	PONumber   string `json:"po_number"`
	JobName    string `json:"job_name"`
	TeamName   string `json:"team_name"`
	AuthorName string `json:"author_name"`
	Notes      string `json:"notes"`
}

type LineRequest struct {
	SKU         string `json:"sku"`
	ProblemType string `json:"problem_type"`
	Quantity    int    `json:"quantity"`
	Note        string `json:"note"`

	ItemDescription          string `json:"item_description"`
	Color                    string `json:"color"`
	Size                     string `json:"size"`
	VendorPackingSlipMatches *bool  `json:"vendor_packing_slip_matches"`
}

// Validate checks the request in form order and returns the parsed date_found.
func (r SubmitRequest) Validate() (time.Time, error) {
	dateFound, err := r.validateHeader()
	if err != nil {
		return time.Time{}, err
	}
	if err := r.validateLines(); err != nil {
		return time.Time{}, err
	}
	return dateFound, nil
}

// validateHeader covers the fields above the line items.
func (r SubmitRequest) validateHeader() (time.Time, error) {
	raw := strings.TrimSpace(r.DateFound)
	if raw == "" {
		return time.Time{}, validation.New("date_found", "date_found is required")
	}
	dateFound, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, validation.New("date_found", "date_found must be formatted YYYY-MM-DD")
	}

	if strings.TrimSpace(r.Customer) == "" {
		return time.Time{}, validation.New("customer", "customer is required")
	}
	if strings.TrimSpace(r.Employee) == "" {
		return time.Time{}, validation.New("employee", "employee is required")
	}
	if team := strings.TrimSpace(r.TeamName); team != "" && !slices.Contains(models.Teams, team) {
		return time.Time{}, validation.New("team_name", "team_name %q is not a known team", team)
	}
	return dateFound.UTC(), nil
}

func (r SubmitRequest) validateLines() error {
	if len(r.Lines) == 0 {
		return validation.New("lines", "at least one SKU/problem line is required")
	}
	for i, ln := range r.Lines {
		field := fmt.Sprintf("lines[%d]", i+1)
		if strings.TrimSpace(ln.SKU) == "" {
			return validation.New(field+".sku", "line %d: sku is required", i+1)
		}
		if !models.ProblemType(strings.TrimSpace(ln.ProblemType)).Valid() {
			return validation.New(field+".problem_type", "line %d: problem_type %q is not valid", i+1, ln.ProblemType)
		}
		if ln.Quantity <= 0 {
			return validation.New(field+".quantity", "line %d: quantity must be greater than 0", i+1)
		}
		if size := strings.TrimSpace(ln.Size); size != "" && !slices.Contains(models.Sizes, size) {
			return validation.New(field+".size", "line %d: size must be one of the allowed options", i+1)
		}
	}
	return nil
}

func (r SubmitRequest) toLines() []models.ProblemTagLine {
	lines := make([]models.ProblemTagLine, 0, len(r.Lines))
	for i, ln := range r.Lines {
		lines = append(lines, models.ProblemTagLine{
			Position:                 i + 1,
			SKU:                      strings.TrimSpace(ln.SKU),
			ProblemType:              models.ProblemType(strings.TrimSpace(ln.ProblemType)),
			Quantity:                 ln.Quantity,
			Note:                     strings.TrimSpace(ln.Note),
			ItemDescription:          strings.TrimSpace(ln.ItemDescription),
			Color:                    strings.TrimSpace(ln.Color),
			Size:                     strings.TrimSpace(ln.Size),
			VendorPackingSlipMatches: ln.VendorPackingSlipMatches,
		})
	}
	return lines
}
