// Package export renders applicant and student listings for download.
package export

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"

	"github.com/yoockh/placementcell/internal/models"
)

type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

func ParseFormat(s string) (Format, bool) {
	switch Format(s) {
	case "", FormatXLSX:
		return FormatXLSX, true
	case FormatCSV:
		return FormatCSV, true
	}
	return "", false
}

func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

type ApplicantRow struct {
	RollNumber   string `csv:"roll_number"`
	Name         string `csv:"name"`
	Email        string `csv:"email"`
	Degree       string `csv:"degree"`
	Branch       string `csv:"branch"`
	CurrentYear  int    `csv:"current_year"`
	GPA          string `csv:"gpa"`
	TenthMarks   string `csv:"tenth_marks"`
	TwelfthMarks string `csv:"twelfth_marks"`
	Status       string `csv:"status"`
	AppliedAt    string `csv:"applied_at"`
	ResumeID     string `csv:"resume_id"`
}

type StudentRow struct {
	RollNumber  string `csv:"roll_number"`
	Name        string `csv:"name"`
	Email       string `csv:"email"`
	Phone       string `csv:"phone"`
	Degree      string `csv:"degree"`
	Branch      string `csv:"branch"`
	CurrentYear int    `csv:"current_year"`
	GPA         string `csv:"gpa"`
	CGPA        string `csv:"cgpa"`
	Backlogs    int    `csv:"backlogs"`
	Placed      bool   `csv:"placed"`
	Active      bool   `csv:"active"`
}

func NewApplicantRow(a models.Application, s *models.Student) ApplicantRow {
	row := ApplicantRow{
		Status:    string(a.Status),
		AppliedAt: a.AppliedAt.UTC().Format(time.RFC3339),
	}
	if a.SelectedResumeID != nil {
		row.ResumeID = *a.SelectedResumeID
	}
	if s != nil {
		row.RollNumber = s.RollNumber
		row.Name = s.Name
		row.Email = s.Email
		row.Degree = string(s.Degree)
		row.Branch = s.Branch
		row.CurrentYear = s.CurrentYear
		row.GPA = num(s.GPA)
		row.TenthMarks = optNum(s.TenthMarks)
		row.TwelfthMarks = optNum(s.TwelfthMarks)
	}
	return row
}

func NewStudentRow(s models.Student) StudentRow {
	return StudentRow{
		RollNumber:  s.RollNumber,
		Name:        s.Name,
		Email:       s.Email,
		Phone:       s.Phone,
		Degree:      string(s.Degree),
		Branch:      s.Branch,
		CurrentYear: s.CurrentYear,
		GPA:         num(s.GPA),
		CGPA:        num(s.CGPA),
		Backlogs:    s.Backlogs,
		Placed:      s.IsPlaced,
		Active:      s.IsActive,
	}
}

var applicantHeader = []any{"Roll Number", "Name", "Email", "Degree", "Branch", "Year", "GPA", "10th %", "12th %", "Status", "Applied At", "Resume ID"}

// Applicants writes rows in the requested format.
func Applicants(w io.Writer, f Format, sheet string, rows []ApplicantRow) error {
	if f == FormatCSV {
		return gocsv.Marshal(&rows, w)
	}
	return applicantsXLSX(w, sheet, rows)
}

func Students(w io.Writer, rows []StudentRow) error {
	return gocsv.Marshal(&rows, w)
}

func applicantsXLSX(w io.Writer, sheet string, rows []ApplicantRow) error {
	x := excelize.NewFile()
	defer x.Close()

	sheet = sheetName(sheet)
	if err := x.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	if err := x.SetSheetRow(sheet, "A1", &applicantHeader); err != nil {
		return err
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []any{r.RollNumber, r.Name, r.Email, r.Degree, r.Branch, r.CurrentYear,
			r.GPA, r.TenthMarks, r.TwelfthMarks, r.Status, r.AppliedAt, r.ResumeID}
		if err := x.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	if err := x.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return err
	}
	return x.Write(w)
}

// sheetName trims to Excel's 31-char limit and strips forbidden characters.
func sheetName(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			continue
		}
		out = append(out, r)
		if len(out) == 31 {
			break
		}
	}
	if len(out) == 0 {
		return "Applicants"
	}
	return string(out)
}

func num(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

func optNum(v *float64) string {
	if v == nil {
		return ""
	}
	return num(*v)
}

// Filename builds a download name like "applicants-<slug>.xlsx".
func Filename(prefix, id string, f Format) string {
	return fmt.Sprintf("%s-%s.%s", prefix, id, f)
}
