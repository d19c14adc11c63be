package wordgen

// PrefixedSuffix marks glosses of mechanically prefixed forms
const PrefixedSuffix = " (prefixed)"

// fallbackTagRunes is how many leading runes of a headword form a fallback tag
const fallbackTagRunes = 3

// Candidate is one generated (tag, headword, gloss) triple
type Candidate struct {
	Tag      string
	Headword string
	Gloss    string

	// TagFallback is set when no base entry matched and the tag was
	// derived from the headword itself
	TagFallback bool
}

// BuildCandidates expands the seed tables into a deduplicated candidate list.
//
// Emission order is: base entries, curated derivatives in table order, then
// prefixed forms in base-list-then-prefix-list order. Base entries with
// curated derivatives are never mechanically prefixed. Prefixed forms are
// not checked for grammaticality.
func BuildCandidates(seeds *Seeds) []Candidate {
	var candidates []Candidate

	for _, b := range seeds.Base {
		candidates = append(candidates, Candidate{Tag: b.Tag, Headword: b.Headword, Gloss: b.Gloss})
	}

	for _, der := range seeds.Derivatives {
		tag, fallback := resolveTag(seeds.Base, der.Base)
		for _, f := range der.Forms {
			candidates = append(candidates, Candidate{
				Tag:         tag,
				Headword:    f.Headword,
				Gloss:       f.Gloss,
				TagFallback: fallback,
			})
		}
	}

	for _, b := range seeds.Base {
		if _, curated := seeds.Derivatives.Lookup(b.Headword); curated {
			continue
		}
		for _, p := range seeds.Prefixes {
			formed := p + b.Headword
			if formed == b.Headword {
				continue
			}
			candidates = append(candidates, Candidate{
				Tag:      b.Tag,
				Headword: formed,
				Gloss:    b.Gloss + PrefixedSuffix,
			})
		}
	}

	return dedupe(candidates)
}

// resolveTag finds the tag of the first base entry with the given headword
func resolveTag(base []BaseEntry, headword string) (string, bool) {
	for _, b := range base {
		if b.Headword == headword {
			return b.Tag, false
		}
	}
	return FallbackTag(headword), true
}

// FallbackTag derives a root tag from the first runes of a headword
func FallbackTag(headword string) string {
	runes := []rune(headword)
	if len(runes) > fallbackTagRunes {
		runes = runes[:fallbackTagRunes]
	}
	return string(runes) + "-"
}

// dedupe keeps the first candidate for each headword
func dedupe(candidates []Candidate) []Candidate {
	seen := make(map[string]bool, len(candidates))
	unique := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if seen[c.Headword] {
			continue
		}
		seen[c.Headword] = true
		unique = append(unique, c)
	}
	return unique
}
