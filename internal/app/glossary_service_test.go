package app

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medilexica/internal/model"
)

type memoryGlossaryRepo struct {
	terms    []model.GlossaryTerm
	failWith error
}

func (r *memoryGlossaryRepo) List() ([]model.GlossaryTerm, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	return r.terms, nil
}

func (r *memoryGlossaryRepo) Count() (int64, error) {
	if r.failWith != nil {
		return 0, r.failWith
	}
	return int64(len(r.terms)), nil
}

func (r *memoryGlossaryRepo) CreateBatch(terms []model.GlossaryTerm) error {
	if r.failWith != nil {
		return r.failWith
	}
	r.terms = append(r.terms, terms...)
	return nil
}

func TestGlossarySearch(t *testing.T) {
	repo := &memoryGlossaryRepo{terms: []model.GlossaryTerm{
		{Term: "Asthma", Definition: "A chronic respiratory disease of the airways."},
		{Term: "Influenza", Definition: "A viral infection of the respiratory tract."},
		{Term: "Diabetes Mellitus", Definition: "A chronic metabolic disorder."},
	}}
	svc := NewGlossaryService(repo)

	t.Run("empty query returns everything", func(t *testing.T) {
		terms, err := svc.Search("")
		require.NoError(t, err)
		assert.Len(t, terms, 3)
	})

	t.Run("matches term name case-insensitively", func(t *testing.T) {
		terms, err := svc.Search("ASTHMA")
		require.NoError(t, err)
		require.Len(t, terms, 1)
		assert.Equal(t, "Asthma", terms[0].Term)
	})

	t.Run("matches definition text", func(t *testing.T) {
		terms, err := svc.Search("respiratory")
		require.NoError(t, err)
		assert.Len(t, terms, 2)
	})

	t.Run("no match yields empty slice", func(t *testing.T) {
		terms, err := svc.Search("neurology")
		require.NoError(t, err)
		assert.Empty(t, terms)
	})
}

func TestGlossarySearchStoreFailure(t *testing.T) {
	repo := &memoryGlossaryRepo{failWith: errors.New("store unavailable")}
	svc := NewGlossaryService(repo)

	_, err := svc.Search("asthma")
	assert.Error(t, err)
}

func TestGlossaryEnsureSeeded(t *testing.T) {
	repo := &memoryGlossaryRepo{}
	svc := NewGlossaryService(repo)

	require.NoError(t, svc.EnsureSeeded())
	seeded := len(repo.terms)
	assert.NotZero(t, seeded)

	for _, term := range repo.terms {
		assert.NotEmpty(t, term.Slug)
		assert.NotEmpty(t, term.Definition)
		assert.NotEmpty(t, term.ImageURL)
	}

	// A second call against a populated store must not duplicate entries.
	require.NoError(t, svc.EnsureSeeded())
	assert.Len(t, repo.terms, seeded)
}
