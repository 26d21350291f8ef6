package services

import (
	"context"
	"net/url"
	"strings"

	"github.com/tadeyemo32/lpr-backend/models"
	"go.uber.org/zap"
)

const findStage = "find-lpr"

// FinderOptions extend StageOptions with the people-list rules.
type FinderOptions struct {
	StageOptions
	MinPeople  int
	MaxPeople  int
	Registries []string
}

// Finder lists a company's decision-makers by tax ID.
type Finder struct {
	llm  Completer
	opts FinderOptions
}

func NewFinder(llm Completer, opts FinderOptions) *Finder {
	if opts.MinPeople <= 0 {
		opts.MinPeople = 3
	}
	if opts.MaxPeople < opts.MinPeople {
		opts.MaxPeople = opts.MinPeople
	}
	if opts.Registries == nil {
		opts.Registries = DefaultRegistryDomains
	}
	return &Finder{llm: llm, opts: opts}
}

// NormalizeFindRequest trims fields, folds the legacy inn field into taxId
// and reduces sourceDomain to a bare host.
func NormalizeFindRequest(req models.FindPeopleRequest) models.FindPeopleRequest {
	req.TaxID = strings.TrimSpace(req.TaxID)
	if req.TaxID == "" {
		req.TaxID = strings.TrimSpace(req.INN)
	}
	req.INN = ""
	req.CompanyName = strings.TrimSpace(req.CompanyName)
	req.Region = strings.TrimSpace(req.Region)
	req.SourceDomain = NormalizeDomain(req.SourceDomain)
	return req
}

// Find asks for the people list with search, retrying once without search
// when no usable person comes back.
func (f *Finder) Find(ctx context.Context, req models.FindPeopleRequest) (*models.FindPeopleResponse, error) {
	req = NormalizeFindRequest(req)
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	params := FindPeopleParams{
		TaxID:        req.TaxID,
		CompanyName:  req.CompanyName,
		Region:       req.Region,
		SourceDomain: req.SourceDomain,
		Min:          f.opts.MinPeople,
		Max:          f.opts.MaxPeople,
		Registries:   f.opts.Registries,
	}
	prompt := FindPeoplePrompt(params)
	searchQuery := FindPeopleSearchQuery(params)

	attempt := func(ctx context.Context, search bool) ([]models.Person, string, error) {
		raw, err := f.llm.Complete(ctx, f.opts.request(prompt, searchQuery, search))
		if err != nil {
			return nil, "", err
		}
		return cleanPeople(ParsePeople(raw), f.opts.MaxPeople), raw, nil
	}

	out, err := TwoTier(ctx, findStage, f.opts.Search, attempt, func(p []models.Person) bool {
		return len(p) > 0
	})
	if err != nil {
		return nil, err
	}

	people := out.Value
	if people == nil {
		people = []models.Person{}
	}

	zap.L().Info("[Find] done",
		zap.String("tax_id", req.TaxID),
		zap.Int("people", len(people)),
		zap.Bool("fallback", out.FallbackUsed))

	return &models.FindPeopleResponse{
		People:    people,
		DebugText: DebugText(findStage, out, f.opts.DebugLimit),
	}, nil
}

// ParsePeople extracts people from raw model text. It accepts a
// {"people": [...]} envelope or a bare array.
func ParsePeople(raw string) []models.Person {
	var env struct {
		People []models.Person `json:"people"`
	}
	if ExtractInto(raw, &env) && len(env.People) > 0 {
		return env.People
	}
	var list []models.Person
	if ExtractInto(raw, &list) {
		return list
	}
	return nil
}

// cleanPeople orders people by role tier, drops nameless entries, merges
// repeats of the same name and caps the list, so the cap never cuts a
// higher tier. Sources of merged duplicates are kept, up to the per-person
// limit.
func cleanPeople(in []models.Person, max int) []models.Person {
	in = append([]models.Person(nil), in...)
	SortByRole(in)

	out := make([]models.Person, 0, len(in))
	seen := make(map[string]int, len(in))
	for _, p := range in {
		key := strings.ToLower(strings.Join(strings.Fields(p.FullName), " "))
		if key == "" {
			continue
		}
		if i, ok := seen[key]; ok {
			out[i].Sources = mergeSources(out[i].Sources, p.Sources)
			if out[i].RoleTitle == "" {
				out[i].RoleTitle = p.RoleTitle
			}
			continue
		}
		if max > 0 && len(out) == max {
			continue
		}
		p.Sources = mergeSources(nil, p.Sources)
		seen[key] = len(out)
		out = append(out, p)
	}
	return out
}

func mergeSources(dst, src []models.SourceCitation) []models.SourceCitation {
	if dst == nil {
		dst = []models.SourceCitation{}
	}
	for _, s := range src {
		if len(dst) == maxSourcesPerPerson {
			break
		}
		dup := false
		for _, d := range dst {
			if d.URL == s.URL {
				dup = true
				break
			}
		}
		if !dup {
			dst = append(dst, s)
		}
	}
	return dst
}

// NormalizeDomain reduces a URL or host to a lowercase bare host without
// scheme, "www." prefix, port or path.
func NormalizeDomain(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}
	if !strings.Contains(s, "://") {
		s = "http://" + s
	}
	u, err := url.Parse(s)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}
