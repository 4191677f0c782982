package domain

import "time"

// historyLimit bounds the number of retained history entries.
const historyLimit = 5

// pushHistory prepends an entry so the log stays newest-first, dropping the
// oldest entries beyond the limit. The input slice is not modified.
func pushHistory(entries []HistoryEntry, id, action string, ts time.Time) []HistoryEntry {
	out := make([]HistoryEntry, 0, len(entries)+1)
	out = append(out, HistoryEntry{ID: id, Action: action, Timestamp: ts})
	out = append(out, entries...)
	if len(out) > historyLimit {
		out = out[:historyLimit]
	}
	return out
}
