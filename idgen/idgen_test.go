package idgen

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	latest string
	count  int64
}

func (f *fakeStore) LatestCode(_ context.Context, _ string) (string, error) {
	return f.latest, nil
}

func (f *fakeStore) CountCodes(_ context.Context, _ string) (int64, error) {
	return f.count, nil
}

var testDay = time.Date(2024, 4, 25, 15, 30, 0, 0, time.UTC)

func TestPrefix(t *testing.T) {
	assert.Equal(t, "PROD-240425-", Prefix("PROD", testDay))
	assert.Equal(t, "ORD-240425-", Prefix("ORD", testDay))
}

func TestGenerateSequentialCodeFirstOfDay(t *testing.T) {
	code, err := GenerateSequentialCode(context.Background(), "PROD", testDay, &fakeStore{})
	require.NoError(t, err)
	assert.Equal(t, "PROD-240425-0001", code)
}

func TestGenerateSequentialCodeIncrements(t *testing.T) {
	store := &fakeStore{latest: "ORD-240425-0042"}
	code, err := GenerateSequentialCode(context.Background(), "ORD", testDay, store)
	require.NoError(t, err)
	assert.Equal(t, "ORD-240425-0043", code)
}

func TestGenerateSequentialCodeBeyondFourDigits(t *testing.T) {
	store := &fakeStore{latest: "ORD-240425-9999"}
	code, err := GenerateSequentialCode(context.Background(), "ORD", testDay, store)
	require.NoError(t, err)
	// The suffix grows past four digits rather than wrapping.
	assert.Equal(t, "ORD-240425-10000", code)
}

func TestGenerateSequentialCodeMalformedLatestFallsBackToCount(t *testing.T) {
	store := &fakeStore{latest: "ORD-240425-banana", count: 7}
	code, err := GenerateSequentialCode(context.Background(), "ORD", testDay, store)
	require.NoError(t, err)
	assert.Equal(t, "ORD-240425-0008", code)
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Wireless Mouse":          "wireless-mouse",
		"  Déjà   Vu!  ":          "déjà-vu",
		"100% Cotton T-Shirt":     "100-cotton-t-shirt",
		"___":                     "",
		"":                        "",
		"Already-Slugged-Name":    "already-slugged-name",
		"trailing punctuation!!!": "trailing-punctuation",
	}
	for input, want := range cases {
		assert.Equal(t, want, Slugify(input), "input %q", input)
	}
}

func TestEnsureUniqueSlug(t *testing.T) {
	taken := map[string]bool{
		"wireless-mouse":   true,
		"wireless-mouse-2": true,
	}
	exists := func(s string) bool { return taken[s] }

	assert.Equal(t, "wireless-mouse-3", EnsureUniqueSlug("wireless-mouse", exists))
	assert.Equal(t, "keyboard", EnsureUniqueSlug("keyboard", exists))
}
