package stats

import (
	"log/slog"

	"github.com/Kavirubc/gh-devpool/internal/labels"
	"github.com/Kavirubc/gh-devpool/pkg/models"
)

// Aggregate computes reward and task totals over mirrored issues.
// Pull requests and issues without an id label are not tasks. Malformed
// prices are logged and counted as unpriced.
func Aggregate(mirrors []*models.Issue, logger *slog.Logger) models.Statistics {
	var s models.Statistics

	for _, issue := range mirrors {
		if _, ok := models.FindPrefix(issue.Labels, labels.PrefixID); issue.PullRequest || !ok {
			continue
		}
		assigned := issue.HasLabel(labels.Unavailable)
		completed := issue.IsClosed()

		s.Tasks.Total++
		switch {
		case completed:
			s.Tasks.Completed++
		case assigned:
			s.Tasks.Assigned++
		default:
			s.Tasks.NotAssigned++
		}

		amount, ok, err := labels.Price(issue.Labels)
		if err != nil {
			logger.Error("invalid price label", "issue", issue.Number, "url", issue.URL, "error", err)
			continue
		}
		if !ok {
			continue
		}

		s.Rewards.Total += amount
		switch {
		case completed:
			s.Rewards.Completed += amount
		case assigned:
			s.Rewards.Assigned += amount
		default:
			s.Rewards.NotAssigned += amount
		}
	}

	return s
}
