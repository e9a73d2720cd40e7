package resolver

import (
	"strings"
	"time"

	"salonhours/pkg/model"
)

// SelectNotices drops notices that carry neither bound. Past and upcoming
// notices are both kept, in their original order.
func SelectNotices(notices []model.ClosureNotice) []model.ClosureNotice {
	out := make([]model.ClosureNotice, 0, len(notices))
	for _, n := range notices {
		if strings.TrimSpace(n.From) == "" && strings.TrimSpace(n.To) == "" {
			continue
		}
		out = append(out, n)
	}
	return out
}

// ActiveNotices returns the displayable notices of the current holiday source.
// The legacy schedule has no notices.
func ActiveNotices(snap model.Snapshot, today time.Time) []model.ClosureNotice {
	src, ok := ActiveSource(snap, today)
	if !ok {
		return []model.ClosureNotice{}
	}
	return SelectNotices(src.Notices)
}
