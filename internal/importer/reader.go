package importer

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/gabriel-vasile/mimetype"
	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"
)

type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
	FormatCSV  Format = "csv"
)

var ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")

var allowedMIMETypes = map[string]Format{
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": FormatXLSX,
	"application/vnd.ms-excel": FormatXLS,
	"application/excel":        FormatXLS,
	"application/x-excel":      FormatXLS,
	"application/x-msexcel":    FormatXLS,
	"application/octet-stream": FormatXLSX,
	"text/csv":                 FormatCSV,
}

// DetectFormat picks the parser for an upload. The file extension wins; the
// MIME type is consulted only when the extension is not recognised.
func DetectFormat(filename, mimeType string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return FormatXLSX, nil
	case ".xls":
		return FormatXLS, nil
	case ".csv":
		return FormatCSV, nil
	}
	mediaType := strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	if f, ok := allowedMIMETypes[mediaType]; ok {
		return f, nil
	}
	return "", fmt.Errorf("%w: %s (%s)", ErrUnsupportedFormat, filename, mimeType)
}

// ReadFile parses the first sheet of the file at path. The first row is the
// header; blank cells are omitted and rows without any value are dropped.
// The content of the file overrides format when it is recognisably a zip
// workbook, a compound document or plain text.
func ReadFile(path string, format Format) ([]Row, error) {
	switch format {
	case FormatXLSX, FormatXLS, FormatCSV:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	format, err := sniffFormat(path, format)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatXLSX:
		return readXLSX(path)
	case FormatXLS:
		return readXLS(path)
	default:
		return readCSV(path)
	}
}

// sniffFormat walks the detected media type up to a container it knows and
// falls back to declared when nothing matches.
func sniffFormat(path string, declared Format) (Format, error) {
	detected, err := mimetype.DetectFile(path)
	if err != nil {
		return "", fmt.Errorf("sniff %s: %w", filepath.Base(path), err)
	}
	for m := detected; m != nil; m = m.Parent() {
		switch {
		case m.Is("application/zip"):
			return FormatXLSX, nil
		case m.Is("application/x-ole-storage"):
			return FormatXLS, nil
		case m.Is("text/plain"):
			return FormatCSV, nil
		}
	}
	return declared, nil
}

func readXLSX(path string) ([]Row, error) {
	// Raw values keep number formats such as #,##0.00 out of the cell text.
	f, err := excelize.OpenFile(path, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	return rowsFromGrid(records[0], records[1:]), nil
}

func readXLS(path string) ([]Row, error) {
	wb, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open xls: %w", err)
	}
	if wb == nil {
		return nil, errors.New("open xls: no workbook stream")
	}
	sheet := wb.GetSheet(0)
	if sheet == nil || sheet.MaxRow == 0 {
		return nil, nil
	}

	// ReadAllCells leaves rows missing from the sheet as nil and stops at
	// max, so the grid never runs past the first sheet.
	grid := wb.ReadAllCells(int(sheet.MaxRow) + 1)
	if len(grid) == 0 {
		return nil, nil
	}
	return rowsFromGrid(grid[0], grid[1:]), nil
}

func readCSV(path string) ([]Row, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer file.Close()

	br := bufio.NewReader(file)
	if bom, _ := br.Peek(3); bytes.Equal(bom, []byte{0xEF, 0xBB, 0xBF}) {
		_, _ = br.Discard(3)
	}

	records, err := gocsv.CSVToMaps(br)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	rows := make([]Row, 0, len(records))
	for _, record := range records {
		row := Row{}
		for k, v := range record {
			if strings.TrimSpace(v) != "" {
				row[strings.TrimSpace(k)] = v
			}
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func rowsFromGrid(header []string, records [][]string) []Row {
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	rows := make([]Row, 0, len(records))
	for _, record := range records {
		row := Row{}
		for i, cell := range record {
			if i >= len(header) || header[i] == "" || strings.TrimSpace(cell) == "" {
				continue
			}
			row[header[i]] = cell
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
	}
	return rows
}
