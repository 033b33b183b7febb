package doctree

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UntitledDocument is the sentinel title used when no title can be detected.
const UntitledDocument = "Untitled Document"

// Page is one decoded page of a source document.
type Page struct {
	Number int    `json:"page_number"` // 1-indexed
	Text   string `json:"text"`
}

// Span is a run of text sharing one font, as reported by the page decoder.
// Spans only live long enough to build an outline.
type Span struct {
	Page int     // 0-indexed page
	Line int     // reading-order key within the page
	X    float64 // horizontal position
	Size float64 // font size in points
	Bold bool
	Text string
}

// Line is the merge of all spans sharing a page and line key.
type Line struct {
	Page int
	Line int
	Size float64
	Bold bool
	Text string
}

// Parsed is the output of the page-decoding collaborator.
type Parsed struct {
	Title string // from metadata or filename
	Pages []Page
	Spans []Span // empty unless the decoder exposes font metrics
}

// RawText joins pages with inline page markers, the representation the
// pattern outline and the segmenter both operate on.
func (p *Parsed) RawText() string {
	var sb strings.Builder
	for _, pg := range p.Pages {
		fmt.Fprintf(&sb, "\n%s\n", PageMarker(pg.Number))
		sb.WriteString(pg.Text)
		sb.WriteString("\n")
	}
	return sb.String()
}

// PageMarker returns the inline marker for page n.
func PageMarker(n int) string {
	return fmt.Sprintf("--- Page %d ---", n)
}

// Section is one detected heading. Start and End are byte offsets into the
// document's raw text; Start is non-decreasing across an outline.
type Section struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Level int    `json:"level"` // 1 = top
	Page  int    `json:"page"`
	Start int    `json:"start_char"`
	End   int    `json:"end_char"`
}

// LevelName renders a level as H1, H2, ...
func (s Section) LevelName() string {
	return fmt.Sprintf("H%d", s.Level)
}

// Outline is the ordered heading list plus the detected document title.
type Outline struct {
	Title    string    `json:"title"`
	Sections []Section `json:"sections"`
}

// Heading is the exported form of a Section.
type Heading struct {
	Level string `json:"level"`
	Text  string `json:"text"`
	Page  int    `json:"page"`
}

// OutlineFile is the JSON document written for an outline.
type OutlineFile struct {
	Title   string    `json:"title"`
	Outline []Heading `json:"outline"`
}

// File converts o to its exported form.
func (o Outline) File() OutlineFile {
	out := OutlineFile{Title: o.Title, Outline: make([]Heading, 0, len(o.Sections))}
	for _, s := range o.Sections {
		out.Outline = append(out.Outline, Heading{Level: s.LevelName(), Text: s.Text, Page: s.Page})
	}
	return out
}

// Segment is a retrievable unit of text with its embedding.
type Segment struct {
	ID        string    `json:"id"`
	SectionID string    `json:"section_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Page      int       `json:"page"`
	Embedding []float32 `json:"embedding,omitempty"`
	Related   []string  `json:"related,omitempty"` // ids of the most similar segments
}

// Document owns its sections and segments. It is replaced wholesale on
// re-upload, never patched.
type Document struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Filename     string    `json:"filename"`
	OutlineTitle string    `json:"outline_title"`
	RawText      string    `json:"raw_text"`
	PageCount    int       `json:"page_count"`
	ContentHash  string    `json:"content_hash"`
	CreatedAt    time.Time `json:"created_at"`
	Structure    []Section `json:"structure"`
	Segments     []Segment `json:"segments"`
}

// Summary is the list view of a document.
type Summary struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Filename     string    `json:"filename"`
	PageCount    int       `json:"page_count"`
	SectionCount int       `json:"section_count"`
	SegmentCount int       `json:"segment_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// Summary returns the list view of d.
func (d *Document) Summary() Summary {
	return Summary{
		ID:           d.ID,
		Title:        d.Title,
		Filename:     d.Filename,
		PageCount:    d.PageCount,
		SectionCount: len(d.Structure),
		SegmentCount: len(d.Segments),
		CreatedAt:    d.CreatedAt,
	}
}

// SegmentByID finds a segment by id or section id.
func (d *Document) SegmentByID(id string) (Segment, bool) {
	for _, s := range d.Segments {
		if s.ID == id || s.SectionID == id {
			return s, true
		}
	}
	return Segment{}, false
}

// ChildID derives a stable id for the n-th child of a document, so that
// re-processing the same document yields the same ids.
func ChildID(docID, kind string, n int) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(fmt.Sprintf("docintel:%s:%s:%d", docID, kind, n))).String()
}

// AssignIDs fills section and segment ids derived from docID. Segments that
// point at a section by index ("section_<i>") are rewritten to that section's id.
func (d *Document) AssignIDs() {
	byIndex := make(map[string]string, len(d.Structure))
	for i := range d.Structure {
		d.Structure[i].ID = ChildID(d.ID, "section", i)
		byIndex[fmt.Sprintf("section_%d", i)] = d.Structure[i].ID
	}
	for i := range d.Segments {
		d.Segments[i].ID = ChildID(d.ID, "segment", i)
		if id, ok := byIndex[d.Segments[i].SectionID]; ok {
			d.Segments[i].SectionID = id
		}
	}
}
