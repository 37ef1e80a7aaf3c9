package masterdata

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"

	"scanrecon/internal/errs"
)

// Header spellings accepted by the master import, lowercased. Retail exports
// come from several back office tools, so the matching is loose.
var masterHeaders = map[string]string{
	"sku":            "sku",
	"codigo":         "sku",
	"code":           "sku",
	"description":    "description",
	"descripcion":    "description",
	"desc":           "description",
	"category":       "category",
	"categoria":      "category",
	"cat":            "category",
	"type":           "type",
	"tipo":           "type",
	"classification": "classification",
	"clasificacion":  "classification",
	"class":          "classification",
}

// sniffDelimiter picks the delimiter by which candidate occurs most often in
// the first line. Semicolon wins ties since that is the common regional
// spreadsheet export.
func sniffDelimiter(data []byte) rune {
	line := data
	if idx := bytes.IndexByte(data, '\n'); idx >= 0 {
		line = data[:idx]
	}

	best, bestCount := ';', bytes.Count(line, []byte{';'})
	for _, cand := range []byte{',', '\t'} {
		if n := bytes.Count(line, []byte{cand}); n > bestCount {
			best, bestCount = rune(cand), n
		}
	}
	return best
}

func readRecords(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sniffDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errs.Wrap(err, "parse csv")
	}
	return records, nil
}

// ParseMasterCSV parses a master catalog export. The first row must be a
// header naming at least a SKU column; delimiter is sniffed per file.
func ParseMasterCSV(data []byte) ([]MasterItem, error) {
	records, err := readRecords(data)
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, errs.Validationf("csv has no data rows")
	}

	columns := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		if canonical, ok := masterHeaders[strings.ToLower(strings.TrimSpace(name))]; ok {
			if _, dup := columns[canonical]; !dup {
				columns[canonical] = i
			}
		}
	}
	if _, ok := columns["sku"]; !ok {
		return nil, errs.Validationf("csv header has no sku column")
	}

	cell := func(row []string, name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	items := make([]MasterItem, 0, len(records)-1)
	for _, row := range records[1:] {
		item := MasterItem{
			SKU:                cell(row, "sku"),
			Description:        cell(row, "description"),
			CategoryCode:       cell(row, "category"),
			TypeCode:           cell(row, "type"),
			ClassificationCode: cell(row, "classification"),
		}
		if item.SKU == "" {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// ParseDictionaryCSV parses a two-column code book export: code then name,
// header optional.
func ParseDictionaryCSV(data []byte) ([]CodeName, error) {
	records, err := readRecords(data)
	if err != nil {
		return nil, err
	}

	rows := make([]CodeName, 0, len(records))
	for i, record := range records {
		if len(record) < 1 {
			continue
		}
		code := strings.TrimSpace(record[0])
		name := ""
		if len(record) > 1 {
			name = strings.TrimSpace(record[1])
		}
		if i == 0 && !hasDigit(code) {
			continue
		}
		if code == "" {
			continue
		}
		rows = append(rows, CodeName{Code: code, Name: name})
	}
	return rows, nil
}

func hasDigit(s string) bool {
	for _, r := range s {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}

// ExportMasterCSV renders the whole master catalog as spreadsheet rows.
func (s *Service) ExportMasterCSV(ctx context.Context) ([][]string, error) {
	entries, err := s.ListMaster(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(entries)+1)
	rows = append(rows, []string{"sku", "description", "category", "type", "classification", "updated_at"})
	for _, entry := range entries {
		rows = append(rows, []string{
			entry.SKU,
			entry.Description,
			entry.CategoryCode,
			entry.TypeCode,
			entry.ClassificationCode,
			entry.UpdatedAt,
		})
	}
	return rows, nil
}

// ToCSV renders rows as a semicolon-delimited file with a UTF-8 BOM, the
// format the retail office spreadsheets open cleanly.
func ToCSV(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(&buf)
	writer.Comma = ';'
	if err := writer.WriteAll(rows); err != nil {
		return nil, errs.Wrap(err, "write csv")
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, errs.Wrap(err, "flush csv")
	}
	return buf.Bytes(), nil
}
