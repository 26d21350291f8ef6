package services

import (
	"context"
	"strings"

	"github.com/tadeyemo32/lpr-backend/models"
	"go.uber.org/zap"
)

const profileStage = "persona"

// Synthesizer writes sales profile cards for selected people.
type Synthesizer struct {
	llm  Completer
	opts StageOptions
}

func NewSynthesizer(llm Completer, opts StageOptions) *Synthesizer {
	return &Synthesizer{llm: llm, opts: opts}
}

// NormalizeProfilesRequest folds the legacy productInfo field into
// productContext.
func NormalizeProfilesRequest(req models.SynthesizeProfilesRequest) models.SynthesizeProfilesRequest {
	req.ProductContext = strings.TrimSpace(req.ProductContext)
	if req.ProductContext == "" {
		req.ProductContext = strings.TrimSpace(req.ProductInfo)
	}
	req.ProductInfo = ""
	return req
}

// Synthesize returns one Markdown profile section per person. The output is
// prose, so the sufficiency check is only that some text came back.
func (s *Synthesizer) Synthesize(ctx context.Context, req models.SynthesizeProfilesRequest) (*models.SynthesizeProfilesResponse, error) {
	req = NormalizeProfilesRequest(req)
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	prompt := ProfilesPrompt(req.People, req.ProductContext)
	searchQuery := ProfilesSearchQuery(req.People)

	attempt := func(ctx context.Context, search bool) (string, string, error) {
		raw, err := s.llm.Complete(ctx, s.opts.request(prompt, searchQuery, search))
		if err != nil {
			return "", "", err
		}
		return strings.TrimSpace(raw), raw, nil
	}

	out, err := TwoTier(ctx, profileStage, s.opts.Search, attempt, nonEmptyText)
	if err != nil {
		return nil, err
	}

	profiles := BuildProfiles(req.People, out.Value)
	zap.L().Info("[Profiles] done",
		zap.Int("people", len(req.People)),
		zap.Int("sections", len(profiles)),
		zap.Bool("fallback", out.FallbackUsed))

	return &models.SynthesizeProfilesResponse{
		ProfileText: out.Value,
		Profiles:    profiles,
		DebugText:   DebugText(profileStage, out, s.opts.DebugLimit),
	}, nil
}
