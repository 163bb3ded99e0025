package models

import "time"

type ProblemType string

const (
	ProblemShort               ProblemType = "Short"
	ProblemHeavy               ProblemType = "Heavy"
	ProblemShortHeavy          ProblemType = "Short/Heavy"
	ProblemDamagedInProduction ProblemType = "Damaged in Production"
	ProblemFactoryDamage       ProblemType = "Factory Damage"
)

var ProblemTypes = []ProblemType{
	ProblemShort,
	ProblemHeavy,
	ProblemShortHeavy,
	ProblemDamagedInProduction,
	ProblemFactoryDamage,
}

func (p ProblemType) Valid() bool {
	for _, t := range ProblemTypes {
		if t == p {
			return true
		}
	}
	return false
}

var Teams = []string{"Screenprint", "Embroidery", "Digital", "VAS"}

var Sizes = []string{
	"2T", "3T", "4T", "5/6T",
	"YXS", "YS", "YM", "YL", "YXL",
	"XS", "S", "M", "L", "XL", "2XL", "3XL",
	"OTHER", "OSFA",
}

// ProblemTagSubmission: one problem tag report (header). Lines carry the defects.
type ProblemTagSubmission struct {
	ID         uint      `gorm:"primaryKey"`
	DateFound  time.Time `gorm:"index;not null"` // UTC midnight of the day the issue was found
	CustomerID uint      `gorm:"index;not null"`
	Customer   Customer  `gorm:"foreignKey:CustomerID"`
	EmployeeID uint      `gorm:"index;not null"`
	Employee   Employee  `gorm:"foreignKey:EmployeeID"`
	PONumber   string    `gorm:"size:100"`
	JobName    string    `gorm:"size:200"`
	TeamName   string    `gorm:"size:50"`
	AuthorName string    `gorm:"size:100"`
	Notes      string    `gorm:"size:1000"`
	CreatedAt  time.Time

	Lines []ProblemTagLine `gorm:"foreignKey:SubmissionID;constraint:OnDelete:CASCADE"`
}

// ProblemTagLine: a single SKU within a submission
type ProblemTagLine struct {
	ID                       uint        `gorm:"primaryKey"`
	SubmissionID             uint        `gorm:"index;not null"`
	Position                 int         `gorm:"not null"` // order within the submission, 1-based
	SKU                      string      `gorm:"column:sku;size:100;not null"`
	ProblemType              ProblemType `gorm:"size:50;not null;index"`
	Quantity                 int         `gorm:"not null;check:chk_line_quantity_positive,quantity > 0"`
	Note                     string      `gorm:"size:500"`
	ItemDescription          string      `gorm:"size:255"`
	Color                    string      `gorm:"size:50"`
	Size                     string      `gorm:"size:10"`
	VendorPackingSlipMatches *bool
	CreatedAt                time.Time
}
