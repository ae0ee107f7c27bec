package extract

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/refshelf/refshelf/internal/models"
)

var yearRe = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// FilenameMetadata derives a last-resort metadata candidate from the
// uploaded file's name: a cleaned-up title guess and a publication year if
// one is embedded in the name.
func FilenameMetadata(name string) models.InferredMetadata {
	base := strings.TrimSuffix(name, filepath.Ext(name))

	meta := models.InferredMetadata{
		Year: yearRe.FindString(base),
	}

	title := strings.NewReplacer("_", " ", "-", " ", ".", " ").Replace(base)
	title = strings.Join(strings.Fields(title), " ")
	meta.Title = strings.TrimSpace(title)

	return meta
}

// FormatForFilename maps a file extension to its declared format,
// defaulting to PDF for unknown extensions.
func FormatForFilename(name string) models.FileFormat {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".docx", ".doc":
		return models.FormatDOCX
	case ".md", ".markdown":
		return models.FormatMD
	case ".mp4":
		return models.FormatMP4
	case ".epub":
		return models.FormatEPUB
	default:
		return models.FormatPDF
	}
}
