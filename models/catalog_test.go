package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCatalog(t *testing.T) {
	catalog := Catalog()
	assert.Len(t, catalog, len(ProjectTypes()))
	for _, pt := range ProjectTypes() {
		assert.True(t, pt.Valid())
		assert.Equal(t, pt.Services(), catalog[pt])
	}
	assert.False(t, ProjectType("Roofing").Valid())
}
