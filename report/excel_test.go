package report

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestWriteExcel(t *testing.T) {
	rep := &Report{
		Today: "20210716",
		Sections: []*Section{
			{
				Sheet: "新股日历",
				Tables: []*Table{
					{
						Caption:      "20210716",
						CaptionColor: ColorToday,
						Rows:         [][]Cell{{{Text: "申购"}, {Text: " 华兴源创 "}}},
					},
					{
						Caption: "网下",
						Header:  []string{"代码", "简称"},
						Rows:    [][]Cell{{{Text: "688001", Color: ColorPast}, {Text: "华兴源创"}}},
					},
				},
			},
			{
				Sheet:  "今日上市",
				Tables: []*Table{{Caption: "无"}},
			},
		},
	}

	path := filepath.Join(t.TempDir(), "20210716.xlsx")
	if err := WriteExcel(rep, path); err != nil {
		t.Fatalf("WriteExcel() error = %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("reopening the report: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != "新股日历" || sheets[1] != "今日上市" {
		t.Fatalf("sheets = %v", sheets)
	}

	// Caption, stage row, then the detail table after a spacer row.
	if v, _ := f.GetCellValue("新股日历", "A1"); v != "20210716" {
		t.Fatalf("A1 = %q", v)
	}
	if v, _ := f.GetCellValue("新股日历", "A2"); v != "申购" {
		t.Fatalf("A2 = %q", v)
	}
	if v, _ := f.GetCellValue("新股日历", "A4"); v != "网下" {
		t.Fatalf("A4 = %q", v)
	}
	if v, _ := f.GetCellValue("新股日历", "A5"); v != "代码" {
		t.Fatalf("A5 = %q", v)
	}
	if v, _ := f.GetCellValue("新股日历", "A6"); v != "688001" {
		t.Fatalf("A6 = %q", v)
	}
	if v, _ := f.GetCellValue("今日上市", "A1"); v != "无" {
		t.Fatalf("今日上市 A1 = %q", v)
	}
}

func TestWriteExcelCreatesOutputDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "20210716.xlsx")
	rep := &Report{Today: "20210716", Sections: []*Section{{Sheet: "新股日历"}}}
	if err := WriteExcel(rep, path); err != nil {
		t.Fatalf("WriteExcel() error = %v", err)
	}
}
