// Package export renders projects as xlsx workbooks.
package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/msgtobala/user-story-generator/internal/metrics"
	"github.com/msgtobala/user-story-generator/internal/projects/domain"
)

const (
	SheetOverview = "Project Overview"
	SheetStories  = "User Stories"
	SheetCriteria = "Acceptance Criteria"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	dateLayout = "2006-01-02"
)

var (
	storyHeader = []string{
		"Story #", "Feature Name", "Module", "Description", "Role", "Goal", "Benefit",
		"User Story", "Acceptance Criteria", "Status", "Customizations", "Tags",
	}
	storyWidths = []float64{8, 25, 15, 30, 15, 30, 30, 50, 40, 12, 30, 20}

	criteriaHeader = []string{"Story #", "Feature Name", "Criteria #", "Acceptance Criteria"}
	criteriaWidths = []float64{8, 25, 10, 60}
)

// WriteProject writes the three-sheet workbook for p to w.
func WriteProject(w io.Writer, p *domain.Project, now time.Time) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetOverview); err != nil {
		return fmt.Errorf("rename overview sheet: %w", err)
	}
	if err := writeOverview(f, p); err != nil {
		return err
	}
	if err := writeStories(f, p); err != nil {
		return err
	}
	if err := writeCriteria(f, p); err != nil {
		return err
	}

	if err := f.SetDocProps(&excelize.DocProperties{
		Title:   p.Name,
		Created: now.UTC().Format(time.RFC3339),
	}); err != nil {
		return fmt.Errorf("set document properties: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	metrics.Exports.Inc()
	return nil
}

// FileName is the download name of the workbook for p.
func FileName(p *domain.Project) string {
	name := strings.NewReplacer("/", "_", "\\", "_").Replace(p.Name)
	return name + "_user_stories.xlsx"
}

// UserStory renders the story sentence of s.
func UserStory(s domain.ProjectStory) string {
	return fmt.Sprintf("As a %s, I want to %s, so that %s.", s.Role, s.Goal, s.Benefit)
}

func writeOverview(f *excelize.File, p *domain.Project) error {
	counts := p.StatusCounts()
	rows := [][]any{
		{"Project Name", p.Name},
		{"Description", p.Description},
		{"Created Date", p.CreatedAt.Format(dateLayout)},
		{"Updated Date", p.UpdatedAt.Format(dateLayout)},
		{"Total Stories", len(p.Stories)},
		{""},
		{"Story Summary by Status"},
	}
	for _, s := range domain.Statuses {
		rows = append(rows, []any{s.Label(), counts[s]})
	}
	return writeRows(f, SheetOverview, rows)
}

func writeStories(f *excelize.File, p *domain.Project) error {
	if _, err := f.NewSheet(SheetStories); err != nil {
		return fmt.Errorf("create %s sheet: %w", SheetStories, err)
	}

	rows := [][]any{toRow(storyHeader)}
	for i, s := range p.Stories {
		rows = append(rows, []any{
			strconv.Itoa(i + 1),
			s.FeatureName,
			s.Module,
			s.Description,
			s.Role,
			s.Goal,
			s.Benefit,
			UserStory(s),
			strings.Join(s.AcceptanceCriteria, "\n• "),
			capitalize(string(s.Status)),
			s.Customizations,
			strings.Join(s.Tags, ", "),
		})
	}
	if err := writeRows(f, SheetStories, rows); err != nil {
		return err
	}
	return setWidths(f, SheetStories, storyWidths)
}

func writeCriteria(f *excelize.File, p *domain.Project) error {
	if _, err := f.NewSheet(SheetCriteria); err != nil {
		return fmt.Errorf("create %s sheet: %w", SheetCriteria, err)
	}

	rows := [][]any{toRow(criteriaHeader)}
	for i, s := range p.Stories {
		for j, c := range s.AcceptanceCriteria {
			rows = append(rows, []any{strconv.Itoa(i + 1), s.FeatureName, strconv.Itoa(j + 1), c})
		}
	}
	if err := writeRows(f, SheetCriteria, rows); err != nil {
		return err
	}
	return setWidths(f, SheetCriteria, criteriaWidths)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func setWidths(f *excelize.File, sheet string, widths []float64) error {
	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return fmt.Errorf("set %s width of column %s: %w", sheet, col, err)
		}
	}
	return nil
}

func toRow(values []string) []any {
	row := make([]any, len(values))
	for i, v := range values {
		row[i] = v
	}
	return row
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
