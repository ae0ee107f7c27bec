package citation

import (
	"testing"

	"github.com/refshelf/refshelf/internal/models"
)

func TestGenerateInText(t *testing.T) {
	tests := []struct {
		name    string
		authors []string
		year    string
		style   models.CitationStyle
		want    string
	}{
		{"apa single author", []string{"Jane Doe"}, "2021", models.StyleAPA, "(Doe, 2021)"},
		{"apa two authors", []string{"Jane Doe", "John Roe"}, "2021", models.StyleAPA, "(Doe & Roe, 2021)"},
		{"apa three authors", []string{"Jane Doe", "John Roe", "Ann Poe"}, "2021", models.StyleAPA, "(Doe et al., 2021)"},
		{"harvard two authors", []string{"Jane Doe", "John Roe"}, "2021", models.StyleHarvard, "(Doe and Roe, 2021)"},
		{"chicago no comma", []string{"Jane Doe"}, "2021", models.StyleChicago, "(Doe 2021)"},
		{"missing year", []string{"Jane Doe"}, "", models.StyleAPA, "(Doe, n.d.)"},
		{"no authors", nil, "2021", models.StyleAPA, "(Anon., 2021)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Generate("A Title", tt.authors, tt.year, "")
			if got[tt.style].InText != tt.want {
				t.Errorf("InText = %q, want %q", got[tt.style].InText, tt.want)
			}
		})
	}
}

func TestGenerateBibliography(t *testing.T) {
	got := Generate("Machine Learning Basics", []string{"Jane Q. Doe", "John Roe"}, "2020", "MIT Press")

	if apa := got[models.StyleAPA].Bibliography; apa != "Doe, J. Q., & Roe, J. (2020). Machine Learning Basics. MIT Press." {
		t.Errorf("APA bibliography = %q", apa)
	}
	if harvard := got[models.StyleHarvard].Bibliography; harvard != "Doe, J. Q., and Roe, J. (2020) Machine Learning Basics. MIT Press." {
		t.Errorf("Harvard bibliography = %q", harvard)
	}
	if chicago := got[models.StyleChicago].Bibliography; chicago != "Doe, Jane Q., and John Roe. 2020. Machine Learning Basics. MIT Press." {
		t.Errorf("Chicago bibliography = %q", chicago)
	}
}

func TestGenerateCoversAllStyles(t *testing.T) {
	got := Generate("T", []string{"Jane Doe"}, "2021", "P")
	if len(got) != len(Styles) {
		t.Fatalf("generated %d styles, want %d", len(got), len(Styles))
	}
	for _, style := range Styles {
		c, ok := got[style]
		if !ok {
			t.Errorf("missing style %s", style)
			continue
		}
		if c.InText == "" || c.Bibliography == "" {
			t.Errorf("style %s has empty variant: %+v", style, c)
		}
	}
}

func TestGenerateEmptyMetadata(t *testing.T) {
	if got := Generate("", nil, "", ""); got != nil {
		t.Errorf("Generate with no title and no authors = %v, want nil", got)
	}
}

func TestGenerateSingleTokenAuthor(t *testing.T) {
	got := Generate("T", []string{"Aristotle"}, "350", "")
	if in := got[models.StyleAPA].InText; in != "(Aristotle, 350)" {
		t.Errorf("InText = %q", in)
	}
	if bib := got[models.StyleAPA].Bibliography; bib != "Aristotle (350). T." {
		t.Errorf("Bibliography = %q", bib)
	}
}
