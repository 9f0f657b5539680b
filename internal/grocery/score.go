package grocery

import (
	"strings"

	"github.com/dukerupert/cesta/internal/model"
)

// MinMatchScore is the lowest score at which a receipt line is treated as
// the same product.
const MinMatchScore = 40

// MatchScore rates how well a receipt description names product p.
//
// An alias contained in the description is worth 100. The description
// containing the product name is worth 60, or 50 the other way round. Each
// description token (longer than one rune) found among the product name
// tokens adds 5, and matching every description token adds a further 30.
func MatchScore(description string, p model.Product) int {
	desc := Normalize(description)
	if desc == "" {
		return 0
	}
	name := Normalize(p.Name)

	score := 0
	for _, a := range p.Aliases {
		if na := Normalize(a); na != "" && strings.Contains(desc, na) {
			score += 100
			break
		}
	}

	switch {
	case name != "" && strings.Contains(desc, name):
		score += 60
	case name != "" && strings.Contains(name, desc):
		score += 50
	}

	nameTokens := make(map[string]struct{})
	for _, tok := range strings.Fields(name) {
		nameTokens[tok] = struct{}{}
	}
	var descTokens []string
	for _, tok := range strings.Fields(desc) {
		if len([]rune(tok)) > 1 {
			descTokens = append(descTokens, tok)
		}
	}
	matched := 0
	for _, tok := range descTokens {
		if _, ok := nameTokens[tok]; ok {
			matched++
		}
	}
	score += matched * 5
	if len(descTokens) > 0 && matched == len(descTokens) {
		score += 30
	}
	return score
}

// BestMatch returns the id of the highest scoring candidate when it reaches
// MinMatchScore. Ties keep the earlier candidate.
func BestMatch(description string, candidates []model.Product) (string, bool) {
	bestID, bestScore := "", 0
	for _, p := range candidates {
		s := MatchScore(description, p)
		if s > 0 && s > bestScore {
			bestID, bestScore = p.ID, s
		}
	}
	if bestScore < MinMatchScore {
		return "", false
	}
	return bestID, true
}
