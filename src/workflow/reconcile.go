package workflow

import (
	"context"
	"fmt"
	"sort"

	"github.com/ummah-scheduler/scheduler/src/api/types"
)

// Fetcher returns the live board snapshot. An empty result means the board
// could not be read, not that it is empty.
type Fetcher interface {
	Latest(ctx context.Context, limit int) []types.Submission
}

// OverrideSource supplies locally saved workflow state keyed by submission id.
type OverrideSource interface {
	Overrides(ctx context.Context) (map[string]types.SubmissionRecord, error)
}

// Reconciler merges the live board with local workflow state. The board decides
// which submissions exist and owns their content; the local store owns status
// and assignee.
type Reconciler struct {
	fetcher   Fetcher
	overrides OverrideSource
	limit     int
}

func NewReconciler(fetcher Fetcher, overrides OverrideSource, limit int) *Reconciler {
	if limit <= 0 {
		limit = 50
	}
	return &Reconciler{fetcher: fetcher, overrides: overrides, limit: limit}
}

// Submissions returns the merged view, newest first.
func (r *Reconciler) Submissions(ctx context.Context) ([]types.Submission, error) {
	remote := r.fetcher.Latest(ctx, r.limit)
	saved, err := r.overrides.Overrides(ctx)
	if err != nil {
		return nil, fmt.Errorf("load overrides: %w", err)
	}
	return Merge(remote, saved), nil
}

// FollowUps is the merged view restricted to completed submissions.
func (r *Reconciler) FollowUps(ctx context.Context) ([]types.Submission, error) {
	subs, err := r.Submissions(ctx)
	if err != nil {
		return nil, err
	}
	return FilterStatus(subs, types.StatusDone), nil
}

// Merge applies saved workflow fields onto the remote snapshot. Ids missing
// from remote are dropped, duplicate remote ids keep their first occurrence,
// and the result is ordered by SubmittedTS descending with ties broken by id.
func Merge(remote []types.Submission, saved map[string]types.SubmissionRecord) []types.Submission {
	out := make([]types.Submission, 0, len(remote))
	seen := make(map[string]bool, len(remote))
	for _, sub := range remote {
		if seen[sub.ID] {
			continue
		}
		seen[sub.ID] = true

		if local, ok := saved[sub.ID]; ok {
			sub.Status = local.Status
			sub.PickedBy = local.PickedBy
			sub.PickedByEmail = local.PickedByEmail
			sub.EventID = local.EventID
		} else {
			sub.Status = ""
			sub.PickedBy = ""
			sub.PickedByEmail = ""
			sub.EventID = ""
		}
		if !sub.Status.Valid() {
			sub.Status = types.StatusToDo
		}
		out = append(out, sub)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].SubmittedTS != out[j].SubmittedTS {
			return out[i].SubmittedTS > out[j].SubmittedTS
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func FilterStatus(subs []types.Submission, status types.Status) []types.Submission {
	out := make([]types.Submission, 0)
	for _, s := range subs {
		if s.Status == status {
			out = append(out, s)
		}
	}
	return out
}
