package social

import (
	"fmt"

	"github.com/Kavirubc/gh-devpool/internal/labels"
	"github.com/Kavirubc/gh-devpool/pkg/models"
)

// Text formats the announcement for a newly mirrored issue:
// "<price> for <time>\n\n<url>", missing fields render empty.
func Text(issueLabels []models.Label, url string) string {
	issue := models.Issue{Labels: issueLabels}
	price, _ := issue.LabelValue(labels.PrefixPricing)
	estimate, _ := issue.LabelValue(labels.PrefixTime)
	return fmt.Sprintf("%s for %s\n\n%s", price, estimate, url)
}
