package datatable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderLayouts(t *testing.T) {
	rows := []person{{ID: 1, Name: "Ann", City: "Oslo"}, {ID: 2, Name: "Ben", City: "Bergen"}}
	cols := []Column[person]{
		Actions("Actions", func(p person) any { return p.ID }),
		Data[person]("Name", "name"),
		{Header: "City", Kind: DataColumn("city"), Render: func(p person) any { return "in " + p.City }},
	}

	vm := Render(rows, cols, nil, false)

	assert.Equal(t, []string{"Actions", "Name", "City"}, vm.Headers)
	assert.Equal(t, 3, vm.ColumnCount)
	assert.False(t, vm.Empty)

	require.Len(t, vm.Grid, 2)
	assert.False(t, vm.Grid[0].Striped)
	assert.True(t, vm.Grid[1].Striped)
	assert.Equal(t, 1, vm.Grid[0].Cells[0].Value)
	assert.Equal(t, "Ann", vm.Grid[0].Cells[1].Value)
	assert.Equal(t, "in Oslo", vm.Grid[0].Cells[2].Value)

	require.Len(t, vm.Cards, 2)
	card := vm.Cards[1]
	require.Len(t, card.Fields, 2, "actions are not part of the field list")
	assert.Equal(t, "Name", card.Fields[0].Header)
	assert.Equal(t, "Ben", card.Fields[0].Value)
	require.NotNil(t, card.Actions)
	assert.Equal(t, 2, card.Actions.Value)
	assert.Equal(t, "actions", card.Actions.Key)
}

func TestRenderEmptyPlaceholder(t *testing.T) {
	vm := Render([]person{}, []Column[person]{Data[person]("Name", "name")}, nil, false)

	assert.True(t, vm.Empty)
	assert.Equal(t, NoDataText, vm.Placeholder)
	assert.Empty(t, vm.Grid)
	assert.Empty(t, vm.Cards)
	assert.Equal(t, []string{"Name"}, vm.Headers)
}

func TestRenderLoadingKeepsRows(t *testing.T) {
	rows := []person{{Name: "Ann"}}
	vm := Render(rows, []Column[person]{Data[person]("Name", "name")}, nil, true)

	assert.True(t, vm.Loading)
	assert.Len(t, vm.Grid, 1)
	assert.Nil(t, vm.Cards[0].Actions)
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "Showing 0 of 0 entries", Summary(0, 0))
	assert.Equal(t, "Showing 5 of 12 entries", Summary(5, 12))
}
