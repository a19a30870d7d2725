package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// excelWriter renders a Report into an xlsx workbook. Style IDs are cached
// per fill color; excelize deduplicates nothing on its own.
type excelWriter struct {
	f      *excelize.File
	styles map[string]int
}

// WriteExcel renders the report to an xlsx file at path, one worksheet per
// section.
func WriteExcel(rep *Report, path string) error {
	w := &excelWriter{f: excelize.NewFile(), styles: make(map[string]int)}
	defer w.f.Close()

	for _, sec := range rep.Sections {
		if err := w.writeSection(sec); err != nil {
			return fmt.Errorf("failed to render sheet %s: %w", sec.Sheet, err)
		}
	}
	// Drop the default sheet that NewFile seeds.
	if err := w.f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to drop default sheet: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	if err := w.f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save report %s: %w", path, err)
	}
	return nil
}

func (w *excelWriter) writeSection(sec *Section) error {
	if _, err := w.f.NewSheet(sec.Sheet); err != nil {
		return err
	}
	if err := w.f.SetColWidth(sec.Sheet, "A", "K", 18); err != nil {
		return err
	}

	row := 1
	for _, t := range sec.Tables {
		var err error
		row, err = w.writeTable(sec.Sheet, row, t)
		if err != nil {
			return err
		}
		row++ // an empty line between tables
	}
	return nil
}

func (w *excelWriter) writeTable(sheet string, row int, t *Table) (int, error) {
	if t.Caption != "" {
		style, err := w.captionStyle(t.CaptionColor)
		if err != nil {
			return row, err
		}
		topLeft, _ := excelize.CoordinatesToCellName(1, row)
		topRight, _ := excelize.CoordinatesToCellName(2, row)
		if err := w.f.MergeCell(sheet, topLeft, topRight); err != nil {
			return row, err
		}
		if err := w.f.SetCellValue(sheet, topLeft, t.Caption); err != nil {
			return row, err
		}
		if err := w.f.SetCellStyle(sheet, topLeft, topRight, style); err != nil {
			return row, err
		}
		row++
	}

	if len(t.Header) > 0 {
		style, err := w.cellStyle("")
		if err != nil {
			return row, err
		}
		for i, h := range t.Header {
			if err := w.setCell(sheet, i+1, row, h, style); err != nil {
				return row, err
			}
		}
		row++
	}

	for _, cells := range t.Rows {
		for i, c := range cells {
			style, err := w.cellStyle(c.Color)
			if err != nil {
				return row, err
			}
			if err := w.setCell(sheet, i+1, row, c.Text, style); err != nil {
				return row, err
			}
		}
		row++
	}
	return row, nil
}

func (w *excelWriter) setCell(sheet string, col, row int, value string, style int) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := w.f.SetCellValue(sheet, cell, value); err != nil {
		return err
	}
	return w.f.SetCellStyle(sheet, cell, cell, style)
}

func (w *excelWriter) cellStyle(fill string) (int, error) {
	key := "cell:" + fill
	if id, ok := w.styles[key]; ok {
		return id, nil
	}
	style := &excelize.Style{Border: thinBorder()}
	if fill != "" {
		style.Fill = excelize.Fill{Type: "pattern", Color: []string{fill}, Pattern: 1}
	}
	id, err := w.f.NewStyle(style)
	if err != nil {
		return 0, err
	}
	w.styles[key] = id
	return id, nil
}

func (w *excelWriter) captionStyle(fill string) (int, error) {
	key := "caption:" + fill
	if id, ok := w.styles[key]; ok {
		return id, nil
	}
	style := &excelize.Style{
		Border:    thinBorder(),
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	}
	if fill != "" {
		style.Fill = excelize.Fill{Type: "pattern", Color: []string{fill}, Pattern: 1}
	}
	id, err := w.f.NewStyle(style)
	if err != nil {
		return 0, err
	}
	w.styles[key] = id
	return id, nil
}

func thinBorder() []excelize.Border {
	sides := []string{"left", "right", "top", "bottom"}
	borders := make([]excelize.Border, 0, len(sides))
	for _, s := range sides {
		borders = append(borders, excelize.Border{Type: s, Color: "000000", Style: 1})
	}
	return borders
}
