package shelf

import (
	"strings"

	"github.com/okutan/kitaplik-go/internal/models"
)

// Filter returns the subsequence of books satisfying every present predicate
// of the spec. It is pure: no I/O, input order preserved, the empty spec
// returns the input unchanged.
func Filter(books []*models.Book, spec models.FilterSpec) []*models.Book {
	if spec.IsZero() {
		return books
	}
	name := strings.ToLower(spec.Name)
	out := make([]*models.Book, 0, len(books))
	for _, b := range books {
		if name != "" &&
			!strings.Contains(strings.ToLower(b.Title), name) &&
			!strings.Contains(strings.ToLower(b.Author), name) {
			continue
		}
		if spec.Status != "" && !strings.EqualFold(string(b.Status), spec.Status) {
			continue
		}
		// Exact match, not a minimum. See FilterSpec.Rating.
		if spec.Rating != 0 && b.Rating != spec.Rating {
			continue
		}
		out = append(out, b)
	}
	return out
}
