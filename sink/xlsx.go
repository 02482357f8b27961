package sink

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/jeandeaual/tcg-cardscraper/card"
)

const xlsxSheetName = "cards"

// xlsxSink keeps the workbook in memory, it is saved on Close.
type xlsxSink struct {
	path  string
	file  *xlsx.File
	sheet *xlsx.Sheet
}

func openXLSX(path string) (Sink, error) {
	file := xlsx.NewFile()

	sheet, err := file.AddSheet(xlsxSheetName)
	if err != nil {
		return nil, eris.Wrap(err, "couldn't create the sheet")
	}

	header := sheet.AddRow()
	for _, column := range card.Columns {
		header.AddCell().SetString(column)
	}

	return &xlsxSink{
		path:  path,
		file:  file,
		sheet: sheet,
	}, nil
}

func (s *xlsxSink) Write(record card.Record) error {
	row := s.sheet.AddRow()

	for i, value := range record.Row() {
		cell := row.AddCell()
		if card.Columns[i] == "retreat_cost" {
			cell.SetInt(record.RetreatCost)
			continue
		}
		cell.SetString(value)
	}

	return nil
}

func (s *xlsxSink) Close() error {
	return eris.Wrapf(s.file.Save(s.path), "couldn't save %s", s.path)
}
