package models

import "time"

// AddMethod describes how a record's source document was attached.
type AddMethod string

const (
	AddMethodLink AddMethod = "LINK"
	AddMethodFile AddMethod = "FILE"
)

// SourceType classifies the kind of source a record points at.
type SourceType string

const (
	SourceLink  SourceType = "LINK"
	SourceFile  SourceType = "FILE"
	SourceNote  SourceType = "NOTE"
	SourceBook  SourceType = "BOOK"
	SourceVideo SourceType = "VIDEO"
)

// FileFormat is the declared format of the attached document.
type FileFormat string

const (
	FormatPDF  FileFormat = "PDF"
	FormatDOCX FileFormat = "DOCX"
	FormatMD   FileFormat = "MD"
	FormatMP4  FileFormat = "MP4"
	FormatURL  FileFormat = "URL"
	FormatEPUB FileFormat = "EPUB"
)

// LibraryType is the top-level classification of a record.
type LibraryType string

const (
	TypeLiterature LibraryType = "Literature"
	TypeTask       LibraryType = "Task"
	TypePersonal   LibraryType = "Personal"
	TypeOther      LibraryType = "Other"
)

// CitationStyle names a supported academic citation style.
type CitationStyle string

const (
	StyleAPA     CitationStyle = "apa"
	StyleHarvard CitationStyle = "harvard"
	StyleChicago CitationStyle = "chicago"
)

// Citation is one in-text/bibliography pair for a single style.
type Citation struct {
	InText       string `json:"inText"`
	Bibliography string `json:"bibliography"`
}

// MaxChunks is the number of fixed-position text segment fields a record
// carries. The persistence backend stores each segment in its own column,
// so the count is a hard cap rather than a tuning knob.
const MaxChunks = 10

// RawExtraction is the normalized output of the extraction/storage step for
// one upload. Immutable after creation.
type RawExtraction struct {
	// FullText may be truncated by the extraction service.
	FullText string `json:"fullText"`
	// Chunks are ordered, bounded segments ready for per-field storage.
	Chunks []string `json:"chunks"`
	// Snippet is the short leading slice handed to metadata inference.
	Snippet string `json:"snippet"`
	// TitleGuess is the service's naive metadata, when present.
	TitleGuess string `json:"titleGuess,omitempty"`
	// StorageID is the opaque handle of the durably stored file.
	StorageID string `json:"storageId,omitempty"`
}

// InferredMetadata is the partial bibliographic record returned by the AI
// inference step. Every field is optional; an empty value means "not
// provided", never an authoritative blank.
type InferredMetadata struct {
	Title     string   `json:"title,omitempty"`
	Authors   []string `json:"authors,omitempty"`
	Year      string   `json:"year,omitempty"`
	Publisher string   `json:"publisher,omitempty"`
	Type      string   `json:"type,omitempty"`
	Category  string   `json:"category,omitempty"`
	Topic     string   `json:"topic,omitempty"`
	SubTopic  string   `json:"subTopic,omitempty"`
	Keywords  []string `json:"keywords,omitempty"`
	Labels    []string `json:"labels,omitempty"`

	// Deep-insight fields, populated only when the client runs in deep mode.
	Abstract        string   `json:"abstract,omitempty"`
	Summary         string   `json:"summary,omitempty"`
	Methodology     string   `json:"methodology,omitempty"`
	Strengths       []string `json:"strengths,omitempty"`
	Weaknesses      []string `json:"weaknesses,omitempty"`
	UnfamiliarTerms []string `json:"unfamiliarTerms,omitempty"`
	Tips            string   `json:"tips,omitempty"`
}

// IsZero reports whether no field carries a value.
func (m InferredMetadata) IsZero() bool {
	return m.Title == "" && len(m.Authors) == 0 && m.Year == "" &&
		m.Publisher == "" && m.Type == "" && m.Category == "" &&
		m.Topic == "" && m.SubTopic == "" && len(m.Keywords) == 0 &&
		len(m.Labels) == 0 && m.Abstract == "" && m.Summary == "" &&
		m.Methodology == "" && len(m.Strengths) == 0 &&
		len(m.Weaknesses) == 0 && len(m.UnfamiliarTerms) == 0 && m.Tips == ""
}

// LibraryRecord is the persisted library entity.
type LibraryRecord struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Title    string      `json:"title"`
	Type     LibraryType `json:"type"`
	Category string      `json:"category"`
	Topic    string      `json:"topic"`
	SubTopic string      `json:"subTopic"`

	// Author is always the comma-joined display form of Authors.
	Author    string   `json:"author"`
	Authors   []string `json:"authors"`
	Publisher string   `json:"publisher"`
	Year      string   `json:"year"`

	AddMethod AddMethod  `json:"addMethod"`
	Source    SourceType `json:"source"`
	Format    FileFormat `json:"format"`
	URL       string     `json:"url,omitempty"`
	StorageID string     `json:"storageId,omitempty"`

	Keywords []string `json:"keywords"`
	Labels   []string `json:"labels"`
	// Tags is the union of Keywords and Labels at save time.
	Tags []string `json:"tags"`

	Citations map[CitationStyle]Citation `json:"citations,omitempty"`

	Abstract        string   `json:"abstract,omitempty"`
	Summary         string   `json:"summary,omitempty"`
	Methodology     string   `json:"methodology,omitempty"`
	Strengths       []string `json:"strengths,omitempty"`
	Weaknesses      []string `json:"weaknesses,omitempty"`
	UnfamiliarTerms []string `json:"unfamiliarTerms,omitempty"`
	Tips            string   `json:"tips,omitempty"`

	// ExtractedInfo holds up to MaxChunks verbatim text segments in fixed
	// positions; absent positions are empty strings.
	ExtractedInfo [MaxChunks]string `json:"extractedInfo"`

	Favorite   bool `json:"isFavorite,omitempty"`
	Bookmarked bool `json:"isBookmarked,omitempty"`
}
