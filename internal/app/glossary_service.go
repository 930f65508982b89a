package app

import (
	"strings"

	"medilexica/internal/imagesearch"
	"medilexica/internal/model"
)

type GlossaryRepository interface {
	List() ([]model.GlossaryTerm, error)
	Count() (int64, error)
	CreateBatch(terms []model.GlossaryTerm) error
}

// GlossaryService serves the medical-term side panel. The glossary is small,
// so search is a substring filter over the full list rather than a SQL query.
type GlossaryService struct {
	glossaryRepo GlossaryRepository
}

func NewGlossaryService(glossaryRepo GlossaryRepository) *GlossaryService {
	return &GlossaryService{glossaryRepo: glossaryRepo}
}

// Search matches query case-insensitively against term names and
// definitions; an empty query returns every term.
func (s *GlossaryService) Search(query string) ([]model.GlossaryTerm, error) {
	terms, err := s.glossaryRepo.List()
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return terms, nil
	}

	matched := make([]model.GlossaryTerm, 0, len(terms))
	for _, t := range terms {
		if strings.Contains(strings.ToLower(t.Term), query) ||
			strings.Contains(strings.ToLower(t.Definition), query) {
			matched = append(matched, t)
		}
	}
	return matched, nil
}

// EnsureSeeded loads the built-in Gale glossary entries on first boot.
func (s *GlossaryService) EnsureSeeded() error {
	count, err := s.glossaryRepo.Count()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return s.glossaryRepo.CreateBatch(defaultGlossaryTerms())
}

func defaultGlossaryTerms() []model.GlossaryTerm {
	entries := []struct {
		slug, term, definition string
	}{
		{
			slug: "influenza",
			term: "Influenza",
			definition: "An acute, contagious, viral infection of the respiratory tract, characterized by fever, " +
				"chills, muscular pain, and prostration. It is caused by various strains of orthomyxoviruses.",
		},
		{
			slug: "heart-attack",
			term: "Myocardial Infarction (Heart Attack)",
			definition: "The irreversible death (necrosis) of heart muscle secondary to prolonged lack of oxygen " +
				"supply (ischemia). It is most often caused by a blockage of a coronary artery by a blood clot.",
		},
		{
			slug: "diabetes",
			term: "Diabetes Mellitus",
			definition: "A chronic metabolic disorder in which the body's ability to produce or respond to the " +
				"hormone insulin is impaired, resulting in abnormal metabolism of carbohydrates and elevated " +
				"levels of glucose in the blood and urine.",
		},
		{
			slug: "asthma",
			term: "Asthma",
			definition: "A chronic respiratory disease characterized by inflammation of the airways, which causes " +
				"them to narrow and swell, leading to wheezing, shortness of breath, chest tightness, and coughing.",
		},
		{
			slug: "appendicitis",
			term: "Appendicitis",
			definition: "Inflammation of the appendix, a small, finger-shaped pouch that projects from your colon " +
				"on the lower right side of your abdomen. Appendicitis causes pain in your lower right abdomen.",
		},
	}

	terms := make([]model.GlossaryTerm, 0, len(entries))
	for _, e := range entries {
		terms = append(terms, model.GlossaryTerm{
			Slug:       e.slug,
			Term:       e.term,
			Definition: e.definition,
			ImageURL:   imagesearch.PlaceholderURL(e.slug),
		})
	}
	return terms
}
