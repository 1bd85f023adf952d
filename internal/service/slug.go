package service

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/inkwell-cms/inkwell/internal/repository"
)

// Slugify turns a display name into a URL-safe slug: lowercase, runs of
// whitespace and punctuation collapse to a single hyphen.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen

	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	return strings.TrimRight(b.String(), "-")
}

// uniquePostSlug probes the store for the base slug and appends -1, -2, ...
// until an unused slug is found. Soft-deleted posts count as taken. The
// probe is not race-free; the unique index on posts.slug is the backstop.
func uniquePostSlug(ctx context.Context, repo repository.PostRepository, base string) (string, error) {
	slug := base
	for counter := 1; ; counter++ {
		exists, err := repo.SlugExists(ctx, slug)
		if err != nil {
			return "", err
		}
		if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, counter)
	}
}
