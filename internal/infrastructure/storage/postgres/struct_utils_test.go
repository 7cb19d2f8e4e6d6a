package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"metpro/internal/core/entity"
	"metpro/internal/core/id"
)

type mockCatalog struct {
	entity.BaseCatalog
	Name string `db:"name" json:"name"`
	Unit string `db:"unit" json:"unit"`
}

type mockDocument struct {
	entity.Document
	Status string `db:"status" json:"status"`
	Hidden string `db:"-" json:"hidden"`
}

func TestExtractDBColumns(t *testing.T) {
	cols := ExtractDBColumns[mockCatalog]()

	expectedCols := []string{
		"id", "version", "created_at", "updated_at", "name", "unit",
	}
	for _, expected := range expectedCols {
		assert.Contains(t, cols, expected)
	}
}

func TestExtractDBColumns_SkipsIgnoredFields(t *testing.T) {
	cols := ExtractDBColumns[mockDocument]()

	assert.Contains(t, cols, "number")
	assert.Contains(t, cols, "status")
	assert.NotContains(t, cols, "-")
	assert.NotContains(t, cols, "hidden")
}

func TestStructToMap(t *testing.T) {
	now := time.Now().UTC()
	cat := mockCatalog{
		BaseCatalog: entity.BaseCatalog{
			BaseEntity: entity.BaseEntity{
				ID:      id.New(),
				Version: 5,
			},
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name: "Cement bag 42.5kg",
		Unit: "bag",
	}

	m := StructToMap(cat)

	assert.Equal(t, cat.ID, m["id"])
	assert.Equal(t, 5, m["version"])
	assert.Equal(t, now, m["created_at"])
	assert.Equal(t, "Cement bag 42.5kg", m["name"])
	assert.Equal(t, "bag", m["unit"])
	assert.NotContains(t, m, "hidden")
}
