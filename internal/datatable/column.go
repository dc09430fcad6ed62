package datatable

import "errors"

// ErrDuplicateActions is returned when a table declares more than one actions column.
var ErrDuplicateActions = errors.New("datatable: only one actions column is allowed")

type columnKind uint8

const (
	kindData columnKind = iota
	kindActions
)

// ColumnKind tells a data column, bound to a field key, apart from the
// actions column, which receives the whole row and is never searched.
type ColumnKind struct {
	kind columnKind
	key  string
}

func DataColumn(key string) ColumnKind {
	return ColumnKind{kind: kindData, key: key}
}

func ActionsColumn() ColumnKind {
	return ColumnKind{kind: kindActions}
}

func (k ColumnKind) IsActions() bool { return k.kind == kindActions }

// Key returns the field key of a data column and "" for the actions column.
func (k ColumnKind) Key() string {
	if k.kind == kindActions {
		return ""
	}
	return k.key
}

func (k ColumnKind) String() string {
	if k.kind == kindActions {
		return "actions"
	}
	return k.key
}

// Column describes one column of a table over rows of type T.
type Column[T any] struct {
	Header string
	Kind   ColumnKind
	// Render overrides the displayed value. It does not affect search.
	Render func(row T) any
}

// Data builds a plain data column.
func Data[T any](header, key string) Column[T] {
	return Column[T]{Header: header, Kind: DataColumn(key)}
}

// Actions builds the actions column.
func Actions[T any](header string, render func(row T) any) Column[T] {
	return Column[T]{Header: header, Kind: ActionsColumn(), Render: render}
}

func validateColumns[T any](columns []Column[T]) error {
	seen := false
	for _, col := range columns {
		if !col.Kind.IsActions() {
			continue
		}
		if seen {
			return ErrDuplicateActions
		}
		seen = true
	}
	return nil
}

// WithoutActions returns columns minus the actions column.
func WithoutActions[T any](columns []Column[T]) []Column[T] {
	out := make([]Column[T], 0, len(columns))
	for _, col := range columns {
		if !col.Kind.IsActions() {
			out = append(out, col)
		}
	}
	return out
}
