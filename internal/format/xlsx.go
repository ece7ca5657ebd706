package format

import (
	"io"
	"strconv"
	"strings"

	"tourdesk/internal/detail"
	"tourdesk/internal/model"

	"github.com/m-mizutani/goerr/v2"
	"github.com/xuri/excelize/v2"
)

// Sheet is one worksheet of an export: a page's columns over its records.
type Sheet struct {
	Name    string
	Columns []model.FieldDescriptor
	Records []model.Record
}

// maxSheetName is the worksheet name limit.
const maxSheetName = 31

// WriteXLSX writes one worksheet per sheet, header row first. Numbers and
// money stay numeric and dates become date cells; everything else is the
// same text the table format prints.
func WriteXLSX(w io.Writer, sheets []Sheet, r *detail.Renderer) error {
	if r == nil {
		r = detail.New(detail.DefaultOptions())
	}
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return goerr.Wrap(err, "failed to create header style")
	}

	const initial = "Sheet1"
	for i, s := range sheets {
		name := s.Name
		if len(name) > maxSheetName {
			name = name[:maxSheetName]
		}
		if i == 0 {
			if err := f.SetSheetName(initial, name); err != nil {
				return goerr.Wrap(err, "failed to name sheet", goerr.V("sheet", name))
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return goerr.Wrap(err, "failed to add sheet", goerr.V("sheet", name))
		}

		for col, c := range s.Columns {
			cell, err := excelize.CoordinatesToCellName(col+1, 1)
			if err != nil {
				return goerr.Wrap(err, "invalid header cell")
			}
			if err := f.SetCellValue(name, cell, c.Label); err != nil {
				return goerr.Wrap(err, "failed to write header", goerr.V("sheet", name))
			}
		}
		if len(s.Columns) > 0 {
			if err := f.SetRowStyle(name, 1, 1, bold); err != nil {
				return goerr.Wrap(err, "failed to style header", goerr.V("sheet", name))
			}
		}

		for row, rec := range s.Records {
			for col, c := range s.Columns {
				cell, err := excelize.CoordinatesToCellName(col+1, row+2)
				if err != nil {
					return goerr.Wrap(err, "invalid cell")
				}
				if err := f.SetCellValue(name, cell, cellValue(r, rec, c)); err != nil {
					return goerr.Wrap(err, "failed to write cell", goerr.V("sheet", name), goerr.V("cell", cell))
				}
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return goerr.Wrap(err, "failed to write workbook")
	}
	return nil
}

func cellValue(r *detail.Renderer, rec model.Record, c model.FieldDescriptor) any {
	v, ok := detail.Resolve(rec, c.Key)
	if ok && v != nil {
		switch c.Kind {
		case model.KindNumber, model.KindCurrency:
			switch t := v.(type) {
			case float64:
				return t
			case string:
				if n, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
					return n
				}
			}
		case model.KindDate, model.KindDateTime:
			if t, parsed := detail.ParseTime(v); parsed {
				return t
			}
		}
	}
	return oneLine(r.FormatValue(c.Kind, v, ok))
}
