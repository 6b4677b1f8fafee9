package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWhere_SkipsEmptyValues(t *testing.T) {
	b := New(`SELECT * FROM all_data WHERE 1=1`).
		Where(ColNode, "Node-A").
		Where(ColSector, "").
		Where(ColBlock, "Block-1")

	assert.Equal(t,
		`SELECT * FROM all_data WHERE 1=1 AND "NAME_OF_NODE" = $1 AND "BLOCK_ROAD_NAME" = $2`,
		b.SQL())
	assert.Equal(t, []any{"Node-A", "Block-1"}, b.Args())
}

func TestWhere_AllEmpty(t *testing.T) {
	b := New(`SELECT * FROM all_data WHERE 1=1`).
		Where(ColNode, "").
		Where(ColSector, "").
		Where(ColBlock, "").
		Where(ColPlot, "")

	assert.Equal(t, `SELECT * FROM all_data WHERE 1=1`, b.SQL())
	assert.Empty(t, b.Args())
}

// Every provided non-empty filter value must arrive as a positional
// parameter, in the order the filters were declared, and must never appear
// in the SQL text itself.
func TestWhere_ParameterCountAndOrder(t *testing.T) {
	tests := []struct {
		name   string
		node   string
		sector string
		block  string
		plot   string
		want   []any
	}{
		{"all filters", "node-1", "sector-2", "block-3", "plot-4", []any{"node-1", "sector-2", "block-3", "plot-4"}},
		{"node only", "node-1", "", "", "", []any{"node-1"}},
		{"node and block", "node-1", "", "block-3", "", []any{"node-1", "block-3"}},
		{"sector and plot", "", "sector-2", "", "plot-4", []any{"sector-2", "plot-4"}},
		{"none", "", "", "", "", []any{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New(`SELECT "ID" FROM all_data WHERE 1=1`).
				Where(ColNode, tt.node).
				Where(ColSector, tt.sector).
				Where(ColBlock, tt.block).
				Where(ColPlot, tt.plot)

			args := b.Args()
			assert.Len(t, args, len(tt.want))
			for i, want := range tt.want {
				assert.Equal(t, want, args[i])
				assert.NotContains(t, b.SQL(), want.(string))
			}
		})
	}
}

func TestBind_NumbersPlaceholders(t *testing.T) {
	b := New(`SELECT "ID" FROM all_data WHERE 1=1`).
		Where(ColNode, "N").
		Bind(` AND "ID" = $%d`, 42)

	assert.Equal(t,
		`SELECT "ID" FROM all_data WHERE 1=1 AND "NAME_OF_NODE" = $1 AND "ID" = $2`,
		b.SQL())
	assert.Equal(t, []any{"N", 42}, b.Args())
}

func TestDistinct_ExcludesNullAndEmpty(t *testing.T) {
	b := Distinct("all_data", ColNode).OrderBy(ColNode)

	assert.Equal(t,
		`SELECT DISTINCT "NAME_OF_NODE" FROM all_data WHERE "NAME_OF_NODE" IS NOT NULL AND "NAME_OF_NODE" <> '' ORDER BY "NAME_OF_NODE"`,
		b.SQL())
	assert.Empty(t, b.Args())
}

func TestDistinct_WithScope(t *testing.T) {
	b := Distinct("all_data", ColSector).
		Where(ColNode, "Node-A").
		OrderBy(ColSector)

	assert.Equal(t,
		`SELECT DISTINCT "SECTOR_NO_" FROM all_data WHERE "SECTOR_NO_" IS NOT NULL AND "SECTOR_NO_" <> '' AND "NAME_OF_NODE" = $1 ORDER BY "SECTOR_NO_"`,
		b.SQL())
	assert.Equal(t, []any{"Node-A"}, b.Args())
}
