package datatable

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Fielder is implemented by rows that expose their fields by key.
type Fielder interface {
	Field(key string) (any, bool)
}

// FieldFunc reads the value stored under key in row.
type FieldFunc[T any] func(row T, key string) any

// DefaultField resolves key against a Fielder, a string-keyed map, or an
// exported struct field matched by name or json tag.
func DefaultField[T any](row T, key string) any {
	switch r := any(row).(type) {
	case Fielder:
		v, _ := r.Field(key)
		return v
	case map[string]any:
		return r[key]
	case map[string]string:
		return r[key]
	}

	v := reflect.ValueOf(row)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if f.Name == key || (tag != "" && tag == key) {
			return v.Field(i).Interface()
		}
	}
	return nil
}

// Text converts a field value to the string used for display and search.
func Text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case time.Time:
		if x.IsZero() {
			return ""
		}
		return x.Format(time.DateOnly)
	case *time.Time:
		if x == nil {
			return ""
		}
		return Text(*x)
	default:
		// Sprint calls String itself and copes with typed nil receivers.
		return fmt.Sprint(x)
	}
}

// Matches reports whether row contains search, case-insensitively, in any
// non-actions column. An empty search matches every row. A nil field uses
// DefaultField.
func Matches[T any](row T, columns []Column[T], field FieldFunc[T], search string) bool {
	if search == "" {
		return true
	}
	if field == nil {
		field = DefaultField[T]
	}
	fold := cases.Lower(language.Und)
	return matches(row, columns, field, fold.String(search), fold)
}

func matches[T any](row T, columns []Column[T], field FieldFunc[T], needle string, fold cases.Caser) bool {
	for _, col := range columns {
		if col.Kind.IsActions() {
			continue
		}
		if strings.Contains(fold.String(Text(field(row, col.Kind.Key()))), needle) {
			return true
		}
	}
	return false
}

// Filter keeps the rows matching search. It must run before Paginate. A
// nil field uses DefaultField.
func Filter[T any](rows []T, columns []Column[T], field FieldFunc[T], search string) []T {
	if search == "" {
		return rows
	}
	if field == nil {
		field = DefaultField[T]
	}

	// Casers hold state, so each call gets its own.
	fold := cases.Lower(language.Und)
	needle := fold.String(search)

	out := make([]T, 0, len(rows))
	for _, row := range rows {
		if matches(row, columns, field, needle, fold) {
			out = append(out, row)
		}
	}
	return out
}
