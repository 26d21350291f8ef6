package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type recordedAttempt struct {
	searches []bool
}

// scripted returns an AttemptFunc that yields values in order.
func scripted(rec *recordedAttempt, values []string, errs ...error) AttemptFunc[string] {
	return func(_ context.Context, search bool) (string, string, error) {
		i := len(rec.searches)
		rec.searches = append(rec.searches, search)
		if i < len(errs) && errs[i] != nil {
			return "", "", errs[i]
		}
		return values[i], "raw:" + values[i], nil
	}
}

func TestTwoTier_PrimarySufficient(t *testing.T) {
	rec := &recordedAttempt{}
	out, err := TwoTier(context.Background(), "test", true, scripted(rec, []string{"ok"}), nonEmptyText)

	require.NoError(t, err)
	assert.Equal(t, []bool{true}, rec.searches)
	assert.Equal(t, "ok", out.Value)
	assert.False(t, out.FallbackRan)
	assert.False(t, out.FallbackUsed)
}

func TestTwoTier_FallbackUsedWhenSufficient(t *testing.T) {
	rec := &recordedAttempt{}
	out, err := TwoTier(context.Background(), "test", true, scripted(rec, []string{"", "second"}), nonEmptyText)

	require.NoError(t, err)
	assert.Equal(t, []bool{true, false}, rec.searches)
	assert.Equal(t, "second", out.Value)
	assert.True(t, out.FallbackRan)
	assert.True(t, out.FallbackUsed)
	assert.Equal(t, "raw:", out.Primary)
	assert.Equal(t, "raw:second", out.Fallback)
}

func TestTwoTier_LogsCarryTag(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	defer zap.ReplaceGlobals(zap.New(core))()

	rec := &recordedAttempt{}
	_, err := TwoTier(context.Background(), "test", true, scripted(rec, []string{"", "second"}), nonEmptyText)
	require.NoError(t, err)

	entries := logs.All()
	require.NotEmpty(t, entries)
	for _, e := range entries {
		assert.True(t, strings.HasPrefix(e.Message, "[TwoTier] "), e.Message)
	}
}

func TestTwoTier_PrimaryStandsWhenFallbackInsufficient(t *testing.T) {
	rec := &recordedAttempt{}
	out, err := TwoTier(context.Background(), "test", true, scripted(rec, []string{" ", ""}), nonEmptyText)

	require.NoError(t, err)
	assert.Len(t, rec.searches, 2)
	assert.Equal(t, " ", out.Value)
	assert.True(t, out.FallbackRan)
	assert.False(t, out.FallbackUsed)
}

func TestTwoTier_NoFallbackWithoutSearch(t *testing.T) {
	rec := &recordedAttempt{}
	out, err := TwoTier(context.Background(), "test", false, scripted(rec, []string{""}), nonEmptyText)

	require.NoError(t, err)
	assert.Equal(t, []bool{false}, rec.searches)
	assert.False(t, out.FallbackRan)
}

func TestTwoTier_PrimaryErrorSkipsFallback(t *testing.T) {
	rec := &recordedAttempt{}
	boom := errors.New("boom")
	_, err := TwoTier(context.Background(), "test", true, scripted(rec, []string{""}, boom), nonEmptyText)

	assert.ErrorIs(t, err, boom)
	assert.Len(t, rec.searches, 1)
}

func TestTwoTier_FallbackErrorPropagates(t *testing.T) {
	rec := &recordedAttempt{}
	boom := errors.New("boom")
	_, err := TwoTier(context.Background(), "test", true, scripted(rec, []string{"", ""}, nil, boom), nonEmptyText)

	assert.ErrorIs(t, err, boom)
	assert.Len(t, rec.searches, 2)
}

func TestDebugText(t *testing.T) {
	primaryOnly := Outcome[string]{Primary: "abcdef"}
	assert.Equal(t, "stage primary:\nabcdef", DebugText("stage", primaryOnly, 10))
	assert.Equal(t, "stage primary:\nabc", DebugText("stage", primaryOnly, 3))
	assert.Empty(t, DebugText("stage", primaryOnly, 0))

	both := Outcome[string]{Primary: "abcdef", Fallback: "uvwxyz", FallbackRan: true}
	assert.Equal(t, "stage primary:\nabc\n\nfallback:\nuvw", DebugText("stage", both, 6))
}

func TestDebugText_TruncatesByRune(t *testing.T) {
	o := Outcome[string]{Primary: strings.Repeat("ж", 10)}
	assert.Equal(t, "s primary:\n"+strings.Repeat("ж", 4), DebugText("s", o, 4))
}
