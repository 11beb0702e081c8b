package repository

import "strings"

// Several entities carry small string collections (boat equipment, the
// parallel date and time arrays of a trip, a user's spoken languages).
// They persist as comma-separated TEXT columns; the helpers below convert
// between that representation and Go slices. Values are trimmed and empty
// elements dropped, so a NULL-free empty column round-trips to nil.

func joinList(items []string) string {
	cleaned := make([]string, 0, len(items))
	for _, it := range items {
		it = strings.TrimSpace(it)
		if it != "" {
			cleaned = append(cleaned, it)
		}
	}
	return strings.Join(cleaned, ",")
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
