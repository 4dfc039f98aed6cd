package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	gojson "github.com/goccy/go-json"
)

const (
	CSVFormat  = "csv"
	JSONFormat = "json"
)

// WriteCSV writes t with a header row. Null cells are left empty.
func WriteCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	header := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c.Name
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i := range record {
			record[i] = ""
			if i < len(row) {
				record[i] = formatCell(row[i])
			}
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes tables as a JSON list.
func WriteJSON(w io.Writer, tables []Table) error {
	return gojson.NewEncoder(w).Encode(tables)
}

// Write writes tables in the given format. CSV tables are separated by an
// empty line.
func Write(w io.Writer, format string, tables []Table) error {
	switch format {
	case JSONFormat:
		return WriteJSON(w, tables)
	case CSVFormat, "":
		for i, t := range tables {
			if i > 0 {
				if _, err := io.WriteString(w, "\n"); err != nil {
					return err
				}
			}
			if err := WriteCSV(w, t); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("report: unknown output format %q", format)
}

func formatCell(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case json.RawMessage:
		return string(v)
	default:
		// Payloads decoded back from stored tables.
		b, err := gojson.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	}
}
