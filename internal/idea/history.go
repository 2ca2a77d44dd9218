package idea

import "github.com/deusflow/ideafeed/internal/textutil"

// Batch size written per run: primary ideas plus backups.
const (
	PrimaryIdeas = 5
	BackupIdeas  = 3
	MaxBatch     = PrimaryIdeas + BackupIdeas
)

// FilterAgainstHistory keeps ideas, in order, whose name is neither in history
// nor already accepted earlier in the batch, up to max. Names are compared
// with textutil.FoldKey. A non-positive max means MaxBatch.
func FilterAgainstHistory(ideas []Idea, history []string, max int) []Idea {
	if max <= 0 {
		max = MaxBatch
	}

	seen := make(map[string]struct{}, len(history)+len(ideas))
	for _, name := range history {
		if k := textutil.FoldKey(name); k != "" {
			seen[k] = struct{}{}
		}
	}

	out := make([]Idea, 0, min(len(ideas), max))
	for _, i := range ideas {
		if len(out) == max {
			break
		}
		k := textutil.FoldKey(i.Name)
		if k == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, i)
	}
	return out
}
