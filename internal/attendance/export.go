package attendance

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/frahmantamala/office-management/internal/core/user"
	"github.com/frahmantamala/office-management/internal/visibility"
)

const exportSheet = "Attendance"

var exportHeader = []interface{}{"Username", "Department", "Date", "Time In", "Time Out", "Total Hours"}

// Export writes the records viewer may see under f as an xlsx workbook.
func (s *Service) Export(ctx context.Context, viewer *user.User, f visibility.Filter, w io.Writer) (int, error) {
	view, err := s.List(ctx, viewer, f)
	if err != nil {
		return 0, err
	}
	dir, err := s.users.Directory(ctx)
	if err != nil {
		return 0, fmt.Errorf("load users: %w", err)
	}

	book, err := buildWorkbook(view.Records, dir)
	if err != nil {
		return 0, err
	}
	defer func() { _ = book.Close() }()

	if _, err := book.WriteTo(w); err != nil {
		return 0, fmt.Errorf("write workbook: %w", err)
	}
	s.logger.InfoContext(ctx, "attendance exported", "viewer", viewer.Username, "date", f.Date, "rows", len(view.Records))
	return len(view.Records), nil
}

func buildWorkbook(records []Record, dir user.Directory) (*excelize.File, error) {
	book := excelize.NewFile()
	if err := book.SetSheetName(book.GetSheetName(0), exportSheet); err != nil {
		_ = book.Close()
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	if err := book.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		_ = book.Close()
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, r := range records {
		department := ""
		if u, ok := dir.Get(r.Username); ok {
			department = u.Department
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			_ = book.Close()
			return nil, err
		}
		row := []interface{}{r.Username, department, r.Date, r.TimeIn, r.TimeOut, r.TotalHours}
		if err := book.SetSheetRow(exportSheet, cell, &row); err != nil {
			_ = book.Close()
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := book.SetColWidth(exportSheet, "A", "F", 16); err != nil {
		_ = book.Close()
		return nil, fmt.Errorf("size columns: %w", err)
	}
	return book, nil
}
