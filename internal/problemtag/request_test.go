package problemtag

import (
	"testing"
	"time"

	"receiving-dashboard/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() SubmitRequest {
	return SubmitRequest{
		DateFound: "2024-01-05",
		Customer:  "Acme",
		Employee:  "Ana Ruiz",
		Lines: []LineRequest{
			{SKU: "TS-100-M", ProblemType: "Short", Quantity: 2},
			{SKU: "TS-100-M", ProblemType: "Heavy", Quantity: 1, Note: "paired with short"},
		},
	}
}

func TestValidateAcceptsValidRequest(t *testing.T) {
	d, err := validRequest().Validate()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), d)
}

func TestValidateNamesFirstInvalidField(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *SubmitRequest)
		field  string
	}{
		{"missing date", func(r *SubmitRequest) { r.DateFound = "" }, "date_found"},
		{"malformed date", func(r *SubmitRequest) { r.DateFound = "01/05/2024" }, "date_found"},
		{"date before customer", func(r *SubmitRequest) { r.DateFound = ""; r.Customer = "" }, "date_found"},
		{"missing customer", func(r *SubmitRequest) { r.Customer = "  " }, "customer"},
		{"missing employee", func(r *SubmitRequest) { r.Employee = "" }, "employee"},
		{"unknown team", func(r *SubmitRequest) { r.TeamName = "Knitting" }, "team_name"},
		{"no lines", func(r *SubmitRequest) { r.Lines = nil }, "lines"},
		{"missing sku", func(r *SubmitRequest) { r.Lines[0].SKU = "" }, "lines[1].sku"},
		{"bad problem type", func(r *SubmitRequest) { r.Lines[1].ProblemType = "Lost" }, "lines[2].problem_type"},
		{"zero quantity", func(r *SubmitRequest) { r.Lines[1].Quantity = 0 }, "lines[2].quantity"},
		{"negative quantity", func(r *SubmitRequest) { r.Lines[0].Quantity = -3 }, "lines[1].quantity"},
		{"first bad line wins", func(r *SubmitRequest) { r.Lines[0].Quantity = 0; r.Lines[1].SKU = "" }, "lines[1].quantity"},
		{"unknown size", func(r *SubmitRequest) { r.Lines[0].Size = "XXXXL" }, "lines[1].size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)

			_, err := req.Validate()
			var vErr *validation.Error
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestToLinesKeepsOrderAndTrims(t *testing.T) {
	req := validRequest()
	req.Lines[0].SKU = "  TS-100-M "
	req.Lines[0].Size = " M"

	lines := req.toLines()
	require.Len(t, lines, 2)
	assert.Equal(t, 1, lines[0].Position)
	assert.Equal(t, 2, lines[1].Position)
	assert.Equal(t, "TS-100-M", lines[0].SKU)
	assert.Equal(t, "M", lines[0].Size)
	assert.Equal(t, "paired with short", lines[1].Note)
}
