// Package citation formats in-text and bibliographic citation strings for
// the supported academic styles from reconciled record metadata.
package citation

import (
	"fmt"
	"strings"

	"github.com/refshelf/refshelf/internal/models"
)

// Styles lists every supported citation style, in presentation order.
var Styles = []models.CitationStyle{models.StyleAPA, models.StyleHarvard, models.StyleChicago}

// Generate produces one in-text/bibliography pair per supported style.
// Records with neither authors nor a title yield no citations.
func Generate(title string, authors []string, year, publisher string) map[models.CitationStyle]models.Citation {
	if len(authors) == 0 && title == "" {
		return nil
	}

	out := make(map[models.CitationStyle]models.Citation, len(Styles))
	for _, style := range Styles {
		out[style] = models.Citation{
			InText:       inText(style, authors, year),
			Bibliography: bibliography(style, title, authors, year, publisher),
		}
	}
	return out
}

func inText(style models.CitationStyle, authors []string, year string) string {
	if year == "" {
		year = "n.d."
	}
	names := familyNames(authors)

	var label string
	switch len(names) {
	case 0:
		label = "Anon."
	case 1:
		label = names[0]
	case 2:
		if style == models.StyleAPA {
			label = names[0] + " & " + names[1]
		} else {
			label = names[0] + " and " + names[1]
		}
	default:
		label = names[0] + " et al."
	}

	if style == models.StyleChicago {
		return fmt.Sprintf("(%s %s)", label, year)
	}
	return fmt.Sprintf("(%s, %s)", label, year)
}

func bibliography(style models.CitationStyle, title string, authors []string, year, publisher string) string {
	if year == "" {
		year = "n.d."
	}

	var b strings.Builder
	switch style {
	case models.StyleAPA:
		b.WriteString(joinAuthors(authors, "&", true))
		fmt.Fprintf(&b, " (%s). ", year)
	case models.StyleHarvard:
		b.WriteString(joinAuthors(authors, "and", true))
		fmt.Fprintf(&b, " (%s) ", year)
	case models.StyleChicago:
		b.WriteString(joinAuthorsChicago(authors))
		fmt.Fprintf(&b, " %s. ", year)
	}

	if title != "" {
		b.WriteString(title)
		if !strings.HasSuffix(title, ".") {
			b.WriteString(".")
		}
	}
	if publisher != "" {
		b.WriteString(" " + publisher + ".")
	}
	return strings.TrimSpace(b.String())
}

// joinAuthors renders "Family, I., cnj Family, I." for APA and Harvard.
func joinAuthors(authors []string, conjunction string, initials bool) string {
	if len(authors) == 0 {
		return "Anon."
	}
	parts := make([]string, 0, len(authors))
	for _, a := range authors {
		parts = append(parts, invertName(a, initials))
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return strings.Join(parts[:len(parts)-1], ", ") + ", " + conjunction + " " + parts[len(parts)-1]
}

// joinAuthorsChicago inverts only the first author: "Family, First, and
// First Family."
func joinAuthorsChicago(authors []string) string {
	if len(authors) == 0 {
		return "Anon."
	}
	parts := []string{invertName(authors[0], false)}
	parts = append(parts, authors[1:]...)
	joined := parts[0]
	if len(parts) == 2 {
		joined += ", and " + parts[1]
	} else if len(parts) > 2 {
		joined = strings.Join(parts[:len(parts)-1], ", ") + ", and " + parts[len(parts)-1]
	}
	if !strings.HasSuffix(joined, ".") {
		joined += "."
	}
	return joined
}

// invertName turns "Jane Q. Doe" into "Doe, J. Q." (initials) or
// "Doe, Jane Q." (full given names). Single-token names pass through.
func invertName(name string, initials bool) string {
	fields := strings.Fields(name)
	if len(fields) < 2 {
		return name
	}
	family := fields[len(fields)-1]
	given := fields[:len(fields)-1]
	if !initials {
		return family + ", " + strings.Join(given, " ")
	}
	abbrev := make([]string, 0, len(given))
	for _, g := range given {
		r := []rune(g)
		abbrev = append(abbrev, strings.ToUpper(string(r[0]))+".")
	}
	return family + ", " + strings.Join(abbrev, " ")
}

func familyNames(authors []string) []string {
	names := make([]string, 0, len(authors))
	for _, a := range authors {
		fields := strings.Fields(a)
		if len(fields) == 0 {
			continue
		}
		names = append(names, fields[len(fields)-1])
	}
	return names
}
