package chat

// Conversation is a named channel with its own ordered message log.
// Conversations are supplied by the catalog and never mutated.
type Conversation struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Catalog is the ordered, fixed list of conversations served by the backend.
type Catalog []Conversation

// DefaultCatalog returns the conversations the mock backend lists.
func DefaultCatalog() Catalog {
	return Catalog{
		{ID: "1", Name: "General Chat", Description: "Main chat room for everyone"},
		{ID: "2", Name: "Support", Description: "Get help from our team"},
		{ID: "3", Name: "Announcements", Description: "Important updates and news"},
	}
}

// Snapshot returns a copy that callers may keep while the catalog changes.
func (c Catalog) Snapshot() []Conversation {
	out := make([]Conversation, len(c))
	copy(out, c)
	return out
}

// IDs returns the conversation ids in catalog order.
func IDs(conversations []Conversation) []string {
	ids := make([]string, 0, len(conversations))
	for _, conv := range conversations {
		ids = append(ids, conv.ID)
	}
	return ids
}

// UniqueIDs returns ids without repeats, keeping the first occurrence of each.
func UniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
