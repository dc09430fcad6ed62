package datatable

import "fmt"

// NoDataText is shown in place of an empty page.
const NoDataText = "No data found"

// Cell is one rendered value.
type Cell struct {
	Header  string
	Key     string
	Value   any
	Actions bool
}

// Card is the stacked layout of one row: labelled fields, then the actions
// strip when the table has one.
type Card struct {
	Fields  []Cell
	Actions *Cell
}

// GridRow is one row of the tabular layout.
type GridRow struct {
	Index   int
	Striped bool
	Cells   []Cell
}

// ViewModel carries both layouts. The host picks one by viewport width.
type ViewModel struct {
	Headers     []string
	Grid        []GridRow
	Cards       []Card
	ColumnCount int
	Empty       bool
	Placeholder string
	Loading     bool
}

// Render builds the view model of one page of rows. It has no side effects.
// Loading leaves the rows in place so the previous content stays visible
// under the overlay.
func Render[T any](rows []T, columns []Column[T], field FieldFunc[T], loading bool) ViewModel {
	if field == nil {
		field = DefaultField[T]
	}

	vm := ViewModel{
		Headers:     make([]string, len(columns)),
		Grid:        make([]GridRow, 0, len(rows)),
		Cards:       make([]Card, 0, len(rows)),
		ColumnCount: len(columns),
		Empty:       len(rows) == 0,
		Loading:     loading,
	}
	for i, col := range columns {
		vm.Headers[i] = col.Header
	}
	if vm.Empty {
		vm.Placeholder = NoDataText
		return vm
	}

	for i, row := range rows {
		gr := GridRow{Index: i, Striped: i%2 == 1, Cells: make([]Cell, len(columns))}
		var card Card
		for j, col := range columns {
			cell := Cell{
				Header:  col.Header,
				Key:     col.Kind.String(),
				Value:   cellValue(row, col, field),
				Actions: col.Kind.IsActions(),
			}
			gr.Cells[j] = cell
			if cell.Actions {
				c := cell
				card.Actions = &c
				continue
			}
			card.Fields = append(card.Fields, cell)
		}
		vm.Grid = append(vm.Grid, gr)
		vm.Cards = append(vm.Cards, card)
	}
	return vm
}

func cellValue[T any](row T, col Column[T], field FieldFunc[T]) any {
	if col.Render != nil {
		return col.Render(row)
	}
	if col.Kind.IsActions() {
		return nil
	}
	return field(row, col.Kind.Key())
}

// Summary is the "Showing N of M entries" line.
func Summary(shown, total int) string {
	return fmt.Sprintf("Showing %d of %d entries", shown, total)
}
