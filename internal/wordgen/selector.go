package wordgen

import "strings"

// Row is one finished flashcard entry
type Row struct {
	Tag          string
	Headword     string
	Gloss        string
	PhraseSource string
	PhraseGloss  string
}

// PhraseFor fills the template at index mod len(templates) with headword.
// The choice depends only on index, never on the headword. Without
// templates both halves are empty.
func PhraseFor(templates []Template, headword string, index int) (string, string) {
	if len(templates) == 0 {
		return "", ""
	}
	t := templates[index%len(templates)]
	return strings.ReplaceAll(t.Source, Slot, headword), strings.ReplaceAll(t.Gloss, Slot, headword)
}

// Select picks up to n rows with unique headwords from candidates.
//
// The candidate list is walked once in order; if that yields fewer than n
// rows it is walked once more from the start, still skipping headwords that
// were already taken. When the pool runs dry the shorter row set is
// returned as is. Nothing is selected without templates.
func Select(candidates []Candidate, templates []Template, n int) []Row {
	if n <= 0 || len(candidates) == 0 || len(templates) == 0 {
		return nil
	}

	rows := make([]Row, 0, min(n, len(candidates)))
	seen := make(map[string]bool, n)

	add := func(c Candidate) {
		seen[c.Headword] = true
		src, gloss := PhraseFor(templates, c.Headword, len(rows))
		rows = append(rows, Row{
			Tag:          c.Tag,
			Headword:     c.Headword,
			Gloss:        c.Gloss,
			PhraseSource: src,
			PhraseGloss:  gloss,
		})
	}

	for _, c := range candidates {
		if len(rows) >= n {
			break
		}
		if seen[c.Headword] {
			continue
		}
		add(c)
	}

	// Top-up pass. A second sweep can only find headwords the first one
	// skipped, so one full cycle is enough to prove exhaustion.
	for i := 0; len(rows) < n && i < len(candidates); i++ {
		c := candidates[i%len(candidates)]
		if !seen[c.Headword] {
			add(c)
		}
	}

	return rows
}

// Generate builds candidates from seeds and selects n rows
func Generate(seeds *Seeds, n int) ([]Row, []Candidate) {
	candidates := BuildCandidates(seeds)
	return Select(candidates, seeds.Templates, n), candidates
}
