package services

import (
	"context"
	"strings"

	"github.com/tadeyemo32/lpr-backend/models"
	"go.uber.org/zap"
)

const resolveStage = "identify-company"

// Resolver turns a company name or tax ID into candidate companies.
type Resolver struct {
	llm  Completer
	opts StageOptions
}

func NewResolver(llm Completer, opts StageOptions) *Resolver {
	return &Resolver{llm: llm, opts: opts}
}

// NormalizeResolveRequest trims the query and maps the legacy "inn" mode
// onto taxId.
func NormalizeResolveRequest(req models.ResolveCompanyRequest) models.ResolveCompanyRequest {
	req.Query = strings.TrimSpace(req.Query)
	switch strings.ToLower(strings.TrimSpace(req.Mode)) {
	case "inn", "taxid", "tax_id":
		req.Mode = ModeTaxID
	case ModeName:
		req.Mode = ModeName
	}
	return req
}

// Resolve looks the company up with search, retrying once without search
// when no candidate comes back. An empty list is a valid answer.
func (r *Resolver) Resolve(ctx context.Context, req models.ResolveCompanyRequest) (*models.ResolveCompanyResponse, error) {
	req = NormalizeResolveRequest(req)
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	prompt := ResolvePrompt(req.Mode, req.Query)
	searchQuery := ResolveSearchQuery(req.Mode, req.Query)

	attempt := func(ctx context.Context, search bool) ([]models.CompanyCandidate, string, error) {
		raw, err := r.llm.Complete(ctx, r.opts.request(prompt, searchQuery, search))
		if err != nil {
			return nil, "", err
		}
		return filterCandidates(req, ParseCandidates(raw)), raw, nil
	}

	out, err := TwoTier(ctx, resolveStage, r.opts.Search, attempt, func(c []models.CompanyCandidate) bool {
		return len(c) > 0
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("[Resolve] done",
		zap.String("mode", req.Mode),
		zap.Int("candidates", len(out.Value)),
		zap.Bool("fallback", out.FallbackUsed))

	resp := &models.ResolveCompanyResponse{Candidates: out.Value}
	if resp.Candidates == nil {
		resp.Candidates = []models.CompanyCandidate{}
	}
	resp.DebugText = DebugText(resolveStage, out, r.opts.DebugLimit)
	return resp, nil
}

// ParseCandidates extracts candidates from raw model text. It accepts a
// {"candidates": [...]} envelope or a bare array.
func ParseCandidates(raw string) []models.CompanyCandidate {
	var env struct {
		Candidates []models.CompanyCandidate `json:"candidates"`
	}
	if ExtractInto(raw, &env) && len(env.Candidates) > 0 {
		return env.Candidates
	}
	var list []models.CompanyCandidate
	if ExtractInto(raw, &list) {
		return list
	}
	return nil
}

// taxIDDigits reduces a tax ID as the model writes it ("ИНН 7707 083 893")
// to its digits.
func taxIDDigits(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// filterCandidates drops nameless entries and applies the per-mode limit.
// In taxId mode only an exact tax ID match survives; a candidate without a
// tax ID is taken to be the queried company.
func filterCandidates(req models.ResolveCompanyRequest, in []models.CompanyCandidate) []models.CompanyCandidate {
	out := make([]models.CompanyCandidate, 0, len(in))
	for _, c := range in {
		if c.Name == "" {
			continue
		}
		if req.Mode == ModeTaxID {
			if c.TaxID == "" {
				c.TaxID = req.Query
			}
			id := taxIDDigits(c.TaxID)
			if id == "" || id != taxIDDigits(req.Query) {
				continue
			}
			c.TaxID = id
			return append(out, c)
		}
		out = append(out, c)
		if len(out) == nameModeMaxCandidates {
			break
		}
	}
	return out
}
