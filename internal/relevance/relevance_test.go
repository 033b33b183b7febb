package relevance

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/docintel/internal/doctree"
)

func TestScoreSection_RelevantBeatsUnrelated(t *testing.T) {
	persona := NewProfile("Traveler", "travel", "hotel")
	job := NewProfile("Plan a trip", "budget")

	related := Section{Content: "Budget hotel recommendations for travelers on a budget"}
	unrelated := Section{Content: "Granite quarries near old mountain ridges yield stones"}
	if len(related.Content) != len(unrelated.Content) {
		t.Fatalf("fixture lengths differ: %d vs %d", len(related.Content), len(unrelated.Content))
	}

	rs := ScoreSection(related, persona, job)
	us := ScoreSection(unrelated, persona, job)
	if rs <= us {
		t.Errorf("related %.1f should outscore unrelated %.1f", rs, us)
	}
}

func TestScoreSection_Bounds(t *testing.T) {
	long := strings.Repeat("Hotel booking data shows 45% growth in the table. ", 40)
	cases := []struct {
		name    string
		section Section
		persona Profile
		job     Profile
	}{
		{"empty profiles", Section{Title: "Overview", Content: "A short overview of the market."}, Profile{}, Profile{}},
		{"no words", Section{Content: "12 34 -- ."}, Profile{}, Profile{}},
		{"saturated", Section{Title: "Hotel booking", Content: long}, NewProfile("", "hotel booking"), NewProfile("", "growth data")},
		{"bullets", Section{Content: "Packing list\n- passport\n• charger"}, NewProfile("", "passport"), Profile{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := ScoreSection(tc.section, tc.persona, tc.job)
			if s < 0 || s > MaxScore {
				t.Errorf("score %v out of [0, %v]", s, MaxScore)
			}
			if math.Abs(s*10-math.Round(s*10)) > 1e-9 {
				t.Errorf("score %v not rounded to one decimal", s)
			}
		})
	}
}

func TestScoreSection_NoWordsIsZero(t *testing.T) {
	if s := ScoreSection(Section{Content: "1 2 3 ... !!"}, NewProfile("", "hotel"), Profile{}); s != 0 {
		t.Errorf("expected 0, got %v", s)
	}
}

func TestScoreSection_StructureBonuses(t *testing.T) {
	plain := Section{Content: "Rooms overlook the quiet harbour"}
	table := Section{Content: "Rooms overlook the quiet harbour table"}
	if ScoreSection(table, Profile{}, Profile{}) <= ScoreSection(plain, Profile{}, Profile{}) {
		t.Error("figure keyword should add a bonus")
	}
	price := Section{Content: "Rooms overlook the quiet harbour $120"}
	if ScoreSection(price, Profile{}, Profile{}) <= ScoreSection(plain, Profile{}, Profile{}) {
		t.Error("numeric data should add a bonus")
	}
}

func TestNewProfile_FiltersCommonWords(t *testing.T) {
	p := NewProfile("x", "The hotel and the budget for a good time", "Hotel")
	got := strings.Join(p.Keywords(), ",")
	if got != "budget,hotel" {
		t.Errorf("keywords = %q", got)
	}
	if !p.Has("hotel") || p.Has("the") {
		t.Error("unexpected membership")
	}
}

func TestPersonaAndJobProfiles(t *testing.T) {
	persona := PersonaProfile(map[string]any{
		"title":     "Food Critic",
		"interests": []any{"restaurants", "street food"},
		"ignored":   "wizardry",
	})
	if persona.Label != "Food Critic" {
		t.Errorf("label = %q", persona.Label)
	}
	if !persona.Has("restaurants") || !persona.Has("street") || persona.Has("wizardry") {
		t.Errorf("keywords = %v", persona.Keywords())
	}

	job := JobProfile(map[string]any{})
	if job.Label != "General analysis" || job.Len() != 0 {
		t.Errorf("empty job = %q/%d", job.Label, job.Len())
	}
	if PersonaProfile(nil).Label != "Unknown" {
		t.Error("empty persona should be labelled Unknown")
	}
}

func TestRefineSection_ShortUnchanged(t *testing.T) {
	s := Section{Content: "Short content stays as it is."}
	if got := RefineSection(s, Profile{}, Profile{}, 0); got != s.Content {
		t.Errorf("got %q", got)
	}
}

func TestRefineSection_PicksRelevantSentences(t *testing.T) {
	filler := strings.Repeat("The landscape stretches far beyond the eastern hills. ", 10)
	s := Section{Content: filler + "Cheap hostels suit a tight budget. " + filler}
	got := RefineSection(s, NewProfile("", "hostels"), NewProfile("", "budget"), 200)
	if !strings.HasPrefix(got, "Cheap hostels suit a tight budget") {
		t.Errorf("most relevant sentence should lead: %q", got)
	}
	if n := len([]rune(got)); n > 200 {
		t.Errorf("refined text has %d runes, want <= 200", n)
	}
}

func TestRefineSection_Truncates(t *testing.T) {
	sentence := strings.Repeat("word ", 60)
	s := Section{Content: strings.Repeat(sentence+". ", 4)}
	got := RefineSection(s, Profile{}, Profile{}, 100)
	if len([]rune(got)) != 100 || !strings.HasSuffix(got, "...") {
		t.Errorf("expected 100 runes ending in ellipsis, got %d: %q", len([]rune(got)), got)
	}
}

func TestAnalyze(t *testing.T) {
	docs := []Document{
		{Name: "guide.pdf", Sections: []Section{
			{Title: "Hotels", Content: "Budget hotel options near the old town.", Page: 2},
			{Title: "Geology", Content: "Limestone layers formed slowly.", Page: 5},
		}},
		{Name: "food.pdf", Sections: []Section{
			{Title: "Markets", Content: "Night markets serve cheap food.", Page: 1},
		}},
	}
	persona := PersonaProfile(map[string]any{"title": "Backpacker", "interests": "hotel travel"})
	job := JobProfile(map[string]any{"description": "Plan a budget trip"})
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	a := Analyze(docs, persona, job, 2, now)
	if a.Metadata.Persona != "Backpacker" || a.Metadata.JobToBeDone != "Plan a budget trip" {
		t.Errorf("metadata = %+v", a.Metadata)
	}
	if a.Metadata.ProcessingTimestamp != "2026-01-02T03:04:05Z" {
		t.Errorf("timestamp = %q", a.Metadata.ProcessingTimestamp)
	}
	if len(a.Metadata.InputDocuments) != 2 {
		t.Errorf("input documents = %v", a.Metadata.InputDocuments)
	}
	if len(a.ExtractedSections) != 2 || len(a.SubsectionAnalysis) != 2 {
		t.Fatalf("expected 2 ranked sections, got %d/%d", len(a.ExtractedSections), len(a.SubsectionAnalysis))
	}
	top := a.ExtractedSections[0]
	if top.SectionTitle != "Hotels" || top.Document != "guide.pdf" || top.ImportanceRank != 1 || top.PageNumber != 2 {
		t.Errorf("top section = %+v", top)
	}
	if a.ExtractedSections[1].ImportanceRank != 2 {
		t.Errorf("second rank = %d", a.ExtractedSections[1].ImportanceRank)
	}
	if a.SubsectionAnalysis[0].RefinedText != docs[0].Sections[0].Content {
		t.Errorf("short content should not be refined: %q", a.SubsectionAnalysis[0].RefinedText)
	}
}

func TestRank_StableTies(t *testing.T) {
	docs := []Document{{Name: "d", Sections: []Section{
		{Title: "A", Content: "Quiet river stones"},
		{Title: "B", Content: "Quiet river stones"},
	}}}
	r := Rank(docs, Profile{}, Profile{}, 0)
	if len(r) != 2 || r[0].Section.Title != "A" || r[1].Section.Title != "B" {
		t.Errorf("ties should keep input order: %+v", r)
	}
}

func TestFromDocument(t *testing.T) {
	doc := &doctree.Document{Title: "Guide", Segments: []doctree.Segment{
		{Title: "Hotels", Content: "Cheap rooms.", Page: 3},
	}}
	d := FromDocument(doc)
	if d.Name != "Guide" || len(d.Sections) != 1 || d.Sections[0].Page != 3 || d.Sections[0].Document != "Guide" {
		t.Errorf("document = %+v", d)
	}
	doc.Filename = "guide.pdf"
	if FromDocument(doc).Name != "guide.pdf" {
		t.Error("filename should name the document")
	}
}
