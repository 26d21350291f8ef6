package services

import (
	"sort"
	"strings"
	"unicode"

	"github.com/tadeyemo32/lpr-backend/models"
)

// RoleTier encodes the outreach priority of a decision-maker by title.
//
// 1 → CEO, president, general director, board chair
// 2 → commercial, procurement, growth / business development directors
// 3 → CFO, CTO
// 4 → founder, owner, beneficiary
// 5 → everyone else

type RoleTier struct {
	Rank  int
	Label string
	// Keywords match anywhere in the lowercased title.
	Keywords []string
	// Words must match a whole word ("cto" never matches "director").
	Words []string
	// Except phrases are removed from the title before this tier is
	// matched ("product owner" is not an owner).
	Except []string
}

const lowestRoleRank = 5

var roleTiers = []RoleTier{
	{
		Rank:  1,
		Label: "CEO, president, general director, chair of the board",
		Words: []string{"ceo"},
		Keywords: []string{
			"chief executive", "president", "general director", "managing director",
			"chairman", "chairwoman", "chair of the board", "head of the company",
			"генеральный директор", "гендиректор", "президент", "председатель", "руководитель организации",
		},
	},
	{
		Rank:  2,
		Label: "commercial director, procurement director, growth or business development director",
		Words: []string{"cco"},
		Keywords: []string{
			"commercial", "procurement", "purchasing", "sales",
			"business development", "growth",
			"коммерческ", "закуп", "снабжен", "продаж", "развити",
		},
	},
	{
		Rank:  3,
		Label: "CFO, CTO",
		Words: []string{"cfo", "cto"},
		Keywords: []string{
			"chief financial", "chief technology", "finance director", "financial director",
			"technical director", "финансов", "техническ", "главный бухгалтер",
		},
	},
	{
		Rank:  4,
		Label: "founder, owner, beneficiary",
		Words: []string{"owner", "owners"},
		Keywords: []string{
			"founder", "beneficiar", "shareholder",
			"учредител", "собственник", "владел", "бенефициар", "акционер",
		},
		Except: []string{"product owner", "process owner", "владелец продукта"},
	},
}

// Deputies and vice presidents never rank as the top executive.
var deputyMarkers = []string{"vice", "deputy", "assistant", "заместител", "зам", "помощник"}

// RoleTiers returns the ranked tiers in priority order.
func RoleTiers() []RoleTier {
	return roleTiers
}

// RankRole returns the priority tier (1 = highest) for a role title.
func RankRole(roleTitle string) int {
	title := strings.ToLower(strings.TrimSpace(roleTitle))
	if title == "" {
		return lowestRoleRank
	}
	deputy := hasWordPrefix(splitWords(title), deputyMarkers)

	for _, tier := range roleTiers {
		if tier.Rank == 1 && deputy {
			continue
		}
		if tier.matches(title) {
			return tier.Rank
		}
	}
	return lowestRoleRank
}

func (t RoleTier) matches(title string) bool {
	for _, phrase := range t.Except {
		title = strings.ReplaceAll(title, phrase, " ")
	}
	for _, kw := range t.Keywords {
		if strings.Contains(title, kw) {
			return true
		}
	}
	words := splitWords(title)
	for _, want := range t.Words {
		for _, w := range words {
			if w == want {
				return true
			}
		}
	}
	return false
}

func splitWords(title string) []string {
	return strings.FieldsFunc(title, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// SortByRole orders people by tier, keeping the model's order within a tier.
func SortByRole(people []models.Person) {
	sort.SliceStable(people, func(i, j int) bool {
		return RankRole(people[i].RoleTitle) < RankRole(people[j].RoleTitle)
	})
}

func hasWordPrefix(words, prefixes []string) bool {
	for _, w := range words {
		for _, p := range prefixes {
			if strings.HasPrefix(w, p) {
				return true
			}
		}
	}
	return false
}
