// Package access gates administrative read and export operations by reviewer
// id against a static allow-list. It never gates submission.
package access

// Guard holds the allow-list of reviewer ids permitted administrative access.
// It is built once at startup and safe for unsynchronized concurrent reads.
type Guard struct {
	allowed map[string]struct{}
}

// New builds a Guard from the configured allow-list. Blank entries are
// discarded. An empty list means open access.
func New(ids []string) *Guard {
	allowed := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id != "" {
			allowed[id] = struct{}{}
		}
	}
	return &Guard{allowed: allowed}
}

// Authorize reports whether the reviewer id may use administrative
// operations: true when the allow-list is empty or the id is a literal
// member.
func (g *Guard) Authorize(reviewerID string) bool {
	if len(g.allowed) == 0 {
		return true
	}
	_, ok := g.allowed[reviewerID]
	return ok
}
