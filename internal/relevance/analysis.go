package relevance

import (
	"sort"
	"time"

	"github.com/dgallion1/docintel/internal/doctree"
)

// DefaultTopN is the number of sections reported by Analyze.
const DefaultTopN = 5

// Document groups the sections of one named input document.
type Document struct {
	Name     string
	Sections []Section
}

// Ranked is a section with its score and 1-based rank.
type Ranked struct {
	Section Section
	Score   float64
	Rank    int
}

// Rank scores every section of every document and returns the best topN,
// highest first. Ties keep input order. A non-positive topN returns all.
func Rank(docs []Document, persona, job Profile, topN int) []Ranked {
	var all []Ranked
	for _, d := range docs {
		for _, s := range d.Sections {
			if s.Document == "" {
				s.Document = d.Name
			}
			all = append(all, Ranked{Section: s, Score: ScoreSection(s, persona, job)})
		}
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Score > all[j].Score })
	if topN > 0 && len(all) > topN {
		all = all[:topN]
	}
	for i := range all {
		all[i].Rank = i + 1
	}
	return all
}

// Analysis is the persona-driven report over a document set.
type Analysis struct {
	Metadata           Metadata            `json:"metadata"`
	ExtractedSections  []ExtractedSection  `json:"extracted_sections"`
	SubsectionAnalysis []SubsectionAnalysis `json:"subsection_analysis"`
}

// Metadata describes the inputs of an Analysis.
type Metadata struct {
	InputDocuments      []string `json:"input_documents"`
	Persona             string   `json:"persona"`
	JobToBeDone         string   `json:"job_to_be_done"`
	ProcessingTimestamp string   `json:"processing_timestamp"`
}

// ExtractedSection is one ranked section.
type ExtractedSection struct {
	Document       string  `json:"document"`
	SectionTitle   string  `json:"section_title"`
	ImportanceRank int     `json:"importance_rank"`
	PageNumber     int     `json:"page_number"`
	Score          float64 `json:"relevance_score"`
}

// SubsectionAnalysis is the refined text of one ranked section.
type SubsectionAnalysis struct {
	Document    string `json:"document"`
	RefinedText string `json:"refined_text"`
	PageNumber  int    `json:"page_number"`
}

// Analyze ranks the sections of docs and refines the winners.
func Analyze(docs []Document, persona, job Profile, topN int, now time.Time) Analysis {
	if topN <= 0 {
		topN = DefaultTopN
	}
	out := Analysis{
		Metadata: Metadata{
			InputDocuments:      make([]string, 0, len(docs)),
			Persona:             persona.Label,
			JobToBeDone:         job.Label,
			ProcessingTimestamp: now.Format(time.RFC3339),
		},
		ExtractedSections:  []ExtractedSection{},
		SubsectionAnalysis: []SubsectionAnalysis{},
	}
	for _, d := range docs {
		out.Metadata.InputDocuments = append(out.Metadata.InputDocuments, d.Name)
	}

	for _, r := range Rank(docs, persona, job, topN) {
		out.ExtractedSections = append(out.ExtractedSections, ExtractedSection{
			Document:       r.Section.Document,
			SectionTitle:   r.Section.Title,
			ImportanceRank: r.Rank,
			PageNumber:     r.Section.Page,
			Score:          r.Score,
		})
		out.SubsectionAnalysis = append(out.SubsectionAnalysis, SubsectionAnalysis{
			Document:    r.Section.Document,
			RefinedText: RefineSection(r.Section, persona, job, DefaultRefineChars),
			PageNumber:  r.Section.Page,
		})
	}
	return out
}

// FromDocument turns a processed document's segments into rankable sections.
// The document is named by its filename, falling back to its title.
func FromDocument(doc *doctree.Document) Document {
	name := doc.Filename
	if name == "" {
		name = doc.Title
	}
	out := Document{Name: name, Sections: make([]Section, 0, len(doc.Segments))}
	for _, seg := range doc.Segments {
		out.Sections = append(out.Sections, Section{
			Document: name,
			Title:    seg.Title,
			Content:  seg.Content,
			Page:     seg.Page,
		})
	}
	return out
}
