package services

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// Outcome is the result of a two-tier attempt.
type Outcome[T any] struct {
	Value T
	// Primary and Fallback hold the raw upstream text of each tier that ran.
	Primary      string
	Fallback     string
	FallbackUsed bool
	FallbackRan  bool
}

// AttemptFunc performs one upstream round trip with or without search and
// returns the parsed value together with the raw text it came from.
type AttemptFunc[T any] func(ctx context.Context, search bool) (T, string, error)

// TwoTier runs attempt with search enabled. When sufficient rejects the
// result it runs attempt once more without search and keeps that result
// only if it is sufficient; otherwise the primary result stands.
// With search disabled a single tool-free attempt is made.
//
// Upstream errors from either tier are returned as is. There is no retry
// beyond this one fallback.
func TwoTier[T any](ctx context.Context, stage string, searchEnabled bool, attempt AttemptFunc[T], sufficient func(T) bool) (Outcome[T], error) {
	log := zap.L().With(zap.String("stage", stage))

	var out Outcome[T]
	value, raw, err := attempt(ctx, searchEnabled)
	if err != nil {
		return out, err
	}
	out.Value, out.Primary = value, raw

	if sufficient(value) {
		log.Info("[TwoTier] primary attempt sufficient", zap.Bool("search", searchEnabled))
		return out, nil
	}
	if !searchEnabled {
		log.Info("[TwoTier] primary attempt insufficient, search disabled so no fallback")
		return out, nil
	}

	log.Info("[TwoTier] primary attempt insufficient, retrying without search")
	fbValue, fbRaw, err := attempt(ctx, false)
	if err != nil {
		return out, err
	}
	out.FallbackRan, out.Fallback = true, fbRaw
	if sufficient(fbValue) {
		out.Value, out.FallbackUsed = fbValue, true
	}
	log.Info("[TwoTier] fallback attempt finished", zap.Bool("used", out.FallbackUsed))
	return out, nil
}

// DebugText renders the raw upstream text of an outcome for the optional
// diagnostic field. Each part is cut to limit runes, halved when both
// tiers ran.
func DebugText[T any](stage string, o Outcome[T], limit int) string {
	if limit <= 0 {
		return ""
	}
	if !o.FallbackRan {
		return stage + " primary:\n" + truncateRunes(o.Primary, limit)
	}
	half := limit / 2
	return stage + " primary:\n" + truncateRunes(o.Primary, half) +
		"\n\nfallback:\n" + truncateRunes(o.Fallback, half)
}

func truncateRunes(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}

func nonEmptyText(s string) bool {
	return strings.TrimSpace(s) != ""
}
