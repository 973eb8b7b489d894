package insights

import "sort"

const (
	duplicateThreshold = 0.82
	duplicatePairCap   = 4
)

// DuplicatePair is two memories of the same type and project whose content
// words nearly coincide.
type DuplicatePair struct {
	ID         string   `json:"id"`
	Project    string   `json:"project"`
	Type       string   `json:"type"`
	MemoryIDs  []string `json:"memoryIds"`
	Similarity float64  `json:"similarity"`
}

type duplicateMatch struct {
	a, b       *PreparedMemory
	similarity float64
}

func (d duplicateMatch) pair() DuplicatePair {
	return DuplicatePair{
		ID:         "duplicate:" + d.a.Memory.ID + ":" + d.b.Memory.ID,
		Project:    d.a.ProjectKey,
		Type:       d.a.Memory.Type,
		MemoryIDs:  []string{d.a.Memory.ID, d.b.Memory.ID},
		Similarity: roundTo(d.similarity, 2),
	}
}

// detectDuplicates returns the most similar same-project, same-type pairs at
// or above duplicateThreshold, along with the total number of pairs found.
func detectDuplicates(prepared []PreparedMemory) ([]duplicateMatch, int) {
	matches := []duplicateMatch{}
	for i := 0; i < len(prepared); i++ {
		for j := i + 1; j < len(prepared); j++ {
			a, b := &prepared[i], &prepared[j]
			if a.ProjectKey != b.ProjectKey || a.Memory.Type != b.Memory.Type {
				continue
			}
			similarity := JaccardSimilarity(a.Tokens, b.Tokens)
			if similarity < duplicateThreshold {
				continue
			}
			matches = append(matches, duplicateMatch{a: a, b: b, similarity: similarity})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].similarity > matches[j].similarity
	})
	total := len(matches)
	if len(matches) > duplicatePairCap {
		matches = matches[:duplicatePairCap]
	}
	return matches, total
}
