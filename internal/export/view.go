package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/Rana718/roster/internal/datatable"
)

// WriteView writes rows through the table's data columns. The actions
// column is not part of an export.
func WriteView[T any](w io.Writer, format Format, columns []datatable.Column[T], field datatable.FieldFunc[T], rows []T) error {
	if field == nil {
		field = datatable.DefaultField[T]
	}
	cols := datatable.WithoutActions(columns)

	switch format {
	case CSV:
		cw := csv.NewWriter(w)
		header := make([]string, len(cols))
		for i, c := range cols {
			header[i] = c.Header
		}
		cw.Write(header)
		for _, row := range rows {
			rec := make([]string, len(cols))
			for i, c := range cols {
				rec[i] = datatable.Text(field(row, c.Kind.Key()))
			}
			cw.Write(rec)
		}
		cw.Flush()
		return cw.Error()

	case JSON, YAML:
		records := make([]map[string]string, 0, len(rows))
		for _, row := range rows {
			rec := make(map[string]string, len(cols))
			for _, c := range cols {
				rec[c.Kind.Key()] = datatable.Text(field(row, c.Kind.Key()))
			}
			records = append(records, rec)
		}
		if format == YAML {
			enc := yaml.NewEncoder(w)
			enc.SetIndent(2)
			if err := enc.Encode(records); err != nil {
				return err
			}
			return enc.Close()
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}
	return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
}

// ContentType is the MIME type served for format.
func ContentType(format Format) string {
	switch format {
	case CSV:
		return "text/csv; charset=utf-8"
	case YAML:
		return "application/yaml"
	default:
		return "application/json"
	}
}
