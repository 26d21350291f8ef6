package services

import (
	"fmt"
	"strings"

	"github.com/tadeyemo32/lpr-backend/models"
)

// DefaultRegistryDomains are treated as authoritative for company and
// person facts.
var DefaultRegistryDomains = []string{
	"egrul.nalog.ru",
	"nalog.ru",
	"companies.rbc.ru",
	"rusprofile.ru",
	"sbis.ru",
	"kontur.ru",
	"spark-interfax.ru",
}

const (
	ModeName  = "name"
	ModeTaxID = "taxId"

	nameModeMinCandidates = 3
	nameModeMaxCandidates = 8
	maxSourcesPerPerson   = 2

	noSearchNote = "Web search is unavailable for this request. You may propose candidates from open registries and databases you already know."
)

// withoutSearch appends the note the model gets on the tool-free tier.
func withoutSearch(prompt string, search bool) string {
	if search {
		return prompt
	}
	return prompt + "\n\n" + noSearchNote
}

// ResolvePrompt builds the company lookup instruction.
func ResolvePrompt(mode, query string) string {
	var sb strings.Builder
	sb.WriteString("Return ONLY JSON, with no explanations.\n")
	if mode == ModeTaxID {
		sb.WriteString("The query is a company tax ID (INN). Return at most 1 candidate, and only on an exact tax ID match. Return an empty list when nothing matches exactly.\n")
	} else {
		fmt.Fprintf(&sb, "The query is a company name. Return %d–%d candidates found in public registries and official company sites.\n",
			nameModeMinCandidates, nameModeMaxCandidates)
	}
	sb.WriteString("For each candidate: name (<=80 chars), region (<=40 chars), industryCode (OKVED, <=40 chars), taxId (string), sourceUrl (URL of the page the data came from).\n")
	sb.WriteString("Shape:\n")
	sb.WriteString(`{"candidates":[{"name":"...","region":"...","industryCode":"...","taxId":"...","sourceUrl":"https://..."}]}`)
	fmt.Fprintf(&sb, "\n\nMode: %s. Query: %s", mode, query)
	return sb.String()
}

// ResolveSearchQuery is the web query used when grounding through SerpAPI.
func ResolveSearchQuery(mode, query string) string {
	if mode == ModeTaxID {
		return "ИНН " + query
	}
	return query + " ИНН ОГРН"
}

// FindPeopleParams carries everything the decision-maker prompt encodes.
type FindPeopleParams struct {
	TaxID        string
	CompanyName  string
	Region       string
	SourceDomain string
	Min, Max     int
	Registries   []string
}

// FindPeoplePrompt builds the decision-maker instruction, including the
// source-trust rule the model is asked to enforce.
func FindPeoplePrompt(p FindPeopleParams) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Find %d–%d executives and decision-makers of the company with tax ID (INN) %s.\n", p.Min, p.Max, p.TaxID)
	if p.CompanyName != "" {
		fmt.Fprintf(&sb, "Company name: %s.\n", p.CompanyName)
	}
	if p.Region != "" {
		fmt.Fprintf(&sb, "Region: %s.\n", p.Region)
	}

	sb.WriteString("\nRole priority, highest first:\n")
	for _, tier := range RoleTiers() {
		fmt.Fprintf(&sb, "%d. %s\n", tier.Rank, tier.Label)
	}

	sb.WriteString("\nSource rules:\n")
	fmt.Fprintf(&sb, "- A source is acceptable only if the page visibly contains the tax ID %s", p.TaxID)
	if len(p.Registries) > 0 {
		fmt.Fprintf(&sb, ", or its domain is one of the registries: %s", strings.Join(p.Registries, ", "))
	}
	if p.SourceDomain != "" {
		fmt.Fprintf(&sb, ", or it is on the company's official domain %s", p.SourceDomain)
	}
	sb.WriteString(".\n")
	sb.WriteString("- Exclude any person none of whose sources satisfies this rule.\n")
	fmt.Fprintf(&sb, "- Ignore companies with the same or a similar name but a tax ID other than %s.\n", p.TaxID)
	fmt.Fprintf(&sb, "- Give up to %d sources per person, each with label, url and date.\n", maxSourcesPerPerson)
	sb.WriteString("- Do not invent people. Return an empty list when nothing is confirmed.\n")

	sb.WriteString("\nReturn ONLY JSON:\n")
	sb.WriteString(`{"people":[{"fullName":"...","roleTitle":"...","sources":[{"label":"...","url":"https://...","date":"YYYY-MM-DD"}]}]}`)
	return sb.String()
}

// FindPeopleSearchQuery is the web query used when grounding through SerpAPI.
func FindPeopleSearchQuery(p FindPeopleParams) string {
	q := "ИНН " + p.TaxID + " руководитель генеральный директор"
	if p.CompanyName != "" {
		q = p.CompanyName + " " + q
	}
	return q
}

// ProfilesPrompt builds the profile-card instruction. Each person is
// numbered and the model echoes that number in the section heading so
// sections can be matched back without relying on names.
func ProfilesPrompt(people []models.Person, productContext string) string {
	var sb strings.Builder
	sb.WriteString("Write compact customer profiles in Markdown for the people below.\n\nPeople:\n")
	for i, p := range people {
		fmt.Fprintf(&sb, "%d. %s — %s", i+1, p.FullName, p.RoleTitle)
		if urls := sourceURLs(p.Sources); len(urls) > 0 {
			fmt.Fprintf(&sb, " (sources: %s)", strings.Join(urls, ", "))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\nContext about our product and company:\n")
	if ctx := strings.TrimSpace(productContext); ctx != "" {
		sb.WriteString(ctx)
	} else {
		sb.WriteString("(not provided)")
	}

	sb.WriteString(`

Rules:
- Use ONLY public data. Give a link and a date for every important claim.
- Never invent anything. If a field has no supporting data, mark it needs_review.
- Write one section per person, in the order listed, with exactly this structure:
  ### N. Full Name — Role
  (N is the person's number in the list above.)
  Deal role: one line (decision-maker / economic buyer / technical approver / influencer / user / blocker; buying stages if known)
  Responsibilities: 3–6 bullets
  Pains and KPIs: 2–4 bullets
  Trigger events (last 12–24 months): 1–3 bullets, each "title — date — [link] — why it matters"
  Message: 1–2 sentences of outreach
  Objections: at least one "objection → short response" pair
  Status: verified|needs_review; confidence 0..1; recency (months); priority A/B/C`)
	return sb.String()
}

// ProfilesSearchQuery is the web query used when grounding through SerpAPI.
func ProfilesSearchQuery(people []models.Person) string {
	parts := make([]string, 0, len(people))
	for _, p := range people {
		if len(parts) == 3 {
			break
		}
		parts = append(parts, strings.TrimSpace(p.FullName+" "+p.RoleTitle))
	}
	return strings.Join(parts, " OR ")
}

func sourceURLs(sources []models.SourceCitation) []string {
	var out []string
	for _, s := range sources {
		if s.URL != "" {
			out = append(out, s.URL)
		}
	}
	return out
}
