package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openscholar/journal-catalog-service/internal/domain"
)

func TestDedupe_CollapsesByCaseAndWhitespace(t *testing.T) {
	batch := []domain.Journal{
		{Name: "Nature Methods", Publisher: "Springer"},
		{Name: "  nature methods ", Publisher: "Imposter Press"},
		{Name: "Cell"},
	}

	deduped := Dedupe(batch)

	require.Len(t, deduped, 2)
	assert.Equal(t, "Nature Methods", deduped[0].Name)
	assert.Equal(t, "Springer", deduped[0].Publisher, "first occurrence wins")
	assert.Equal(t, "Cell", deduped[1].Name)
}

func TestDedupe_DropsEmptyKeys(t *testing.T) {
	deduped := Dedupe([]domain.Journal{{Name: "   "}, {Name: "Cell"}})
	require.Len(t, deduped, 1)
	assert.Equal(t, "Cell", deduped[0].Name)
}

func TestStore_ReplaceDedupes(t *testing.T) {
	s := NewStore()
	n := s.Replace([]domain.Journal{
		{Name: "Alpha"},
		{Name: "ALPHA"},
		{Name: "Beta"},
	})

	assert.Equal(t, 2, n)
	assert.Equal(t, 2, s.Len())
}

func TestStore_ReplaceLeavesOldSnapshotUsable(t *testing.T) {
	s := NewStore()
	s.Replace([]domain.Journal{{Name: "Alpha"}, {Name: "Beta"}})

	old := s.Snapshot()
	s.Replace([]domain.Journal{{Name: "Gamma"}})

	// A reader holding the old snapshot still sees a consistent list.
	require.Len(t, old, 2)
	assert.Equal(t, "Alpha", old[0].Name)

	fresh := s.Snapshot()
	require.Len(t, fresh, 1)
	assert.Equal(t, "Gamma", fresh[0].Name)
}

func TestStore_InsertPrepends(t *testing.T) {
	s := NewStore()
	s.Replace([]domain.Journal{{Name: "Alpha"}})

	old := s.Snapshot()
	s.Insert(domain.Journal{Name: "Beta"})

	fresh := s.Snapshot()
	require.Len(t, fresh, 2)
	assert.Equal(t, "Beta", fresh[0].Name)
	assert.Equal(t, "Alpha", fresh[1].Name)

	// The previous snapshot was not touched by the prepend.
	require.Len(t, old, 1)
	assert.Equal(t, "Alpha", old[0].Name)
}

func TestStore_Areas(t *testing.T) {
	s := NewStore()
	s.Replace([]domain.Journal{
		{Name: "A", SubjectAreas: []string{"Zoology", "Botany"}},
		{Name: "B", SubjectAreas: []string{"Botany", "Ecology"}},
	})

	assert.Equal(t, []string{"Botany", "Ecology", "Zoology"}, s.Areas())
}

func TestStore_EmptySnapshot(t *testing.T) {
	s := NewStore()
	assert.Zero(t, s.Len())
	assert.Empty(t, s.Snapshot())
	assert.Empty(t, s.Areas())
}
