package idgen

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// CodeStore is the storage surface the legacy scan path needs: the highest
// existing code for a prefix and the number of codes carrying it.
type CodeStore interface {
	LatestCode(ctx context.Context, prefix string) (string, error)
	CountCodes(ctx context.Context, prefix string) (int64, error)
}

// Prefix builds the date-scoped code prefix, e.g. "PROD-240425-".
func Prefix(tag string, now time.Time) string {
	return fmt.Sprintf("%s-%s-", tag, now.Format("060102"))
}

// Format renders a sequence under a prefix with the fixed-width suffix the
// descending lexicographic sort relies on.
func Format(prefix string, sequence int64) string {
	return fmt.Sprintf("%s%04d", prefix, sequence)
}

// GenerateSequentialCode produces the next date-scoped code by scanning
// existing codes. Two concurrent callers can read the same latest code and
// collide; the unique index on the code field is the backstop, callers retry
// on a duplicate-key write. Prefer NextSequence where a counter collection
// is available.
func GenerateSequentialCode(ctx context.Context, tag string, now time.Time, store CodeStore) (string, error) {
	prefix := Prefix(tag, now)

	latest, err := store.LatestCode(ctx, prefix)
	if err != nil {
		return "", fmt.Errorf("fetching latest %s code: %w", tag, err)
	}

	var sequence int64 = 1
	if latest != "" {
		suffix := latest[strings.LastIndex(latest, "-")+1:]
		parsed, perr := strconv.ParseInt(suffix, 10, 64)
		if perr == nil {
			sequence = parsed + 1
		} else {
			// Malformed suffix; estimate from the count rather than
			// failing the request.
			log.Printf("Could not parse sequence from %q, falling back to count", latest)
			count, cerr := store.CountCodes(ctx, prefix)
			if cerr != nil {
				return "", fmt.Errorf("counting %s codes: %w", tag, cerr)
			}
			sequence = count + 1
		}
	}

	return Format(prefix, sequence), nil
}

// Slugify lowercases the text and collapses every run of non-alphanumeric
// characters into a single hyphen. Empty input yields an empty string; the
// caller substitutes a timestamp fallback.
func Slugify(text string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		} else {
			pendingHyphen = true
		}
	}
	return b.String()
}

// EnsureUniqueSlug appends -2, -3, ... until exists reports the candidate
// free.
func EnsureUniqueSlug(candidate string, exists func(string) bool) string {
	slug := candidate
	for counter := 2; exists(slug); counter++ {
		slug = fmt.Sprintf("%s-%d", candidate, counter)
	}
	return slug
}
