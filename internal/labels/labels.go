package labels

import (
	"strings"

	"github.com/Kavirubc/gh-devpool/pkg/models"
)

// Label name prefixes and markers used on devpool issues
const (
	PrefixPrice   = "Price: "   // partner repos
	PrefixPricing = "Pricing: " // devpool mirrors
	PrefixPartner = "Partner: "
	PrefixID      = "id: "
	PrefixTime    = "Time: "
	Unavailable   = "Unavailable"
	PricingNotSet = PrefixPricing + "not set"
)

// Reconciler derives the label set a mirrored issue should carry
type Reconciler struct {
	categories map[string]string
}

// NewReconciler creates a reconciler for the given project URL -> category label map
func NewReconciler(categories map[string]string) *Reconciler {
	return &Reconciler{categories: categories}
}

// Labels returns the canonical label names for the mirror of issue.
// The first three entries are always price, partner and identifier.
func (r *Reconciler) Labels(issue *models.Issue, projectURL string) []string {
	result := []string{
		DerivePriceLabel(issue.Labels),
		PartnerLabel(issue.Org, issue.Repo),
		IDLabel(issue.ID),
	}
	if issue.Assigned {
		result = append(result, Unavailable)
	}

	seen := make(map[string]struct{}, len(result)+len(issue.Labels))
	for _, name := range result {
		seen[name] = struct{}{}
	}

	for _, l := range issue.Labels {
		if _, ok := seen[l.Name]; ok {
			continue
		}
		if IsPriceLabel(l.Name) {
			continue
		}
		seen[l.Name] = struct{}{}
		result = append(result, l.Name)
	}

	if category := r.Category(projectURL); category != "" {
		if _, ok := seen[category]; !ok {
			result = append(result, category)
		}
	}

	return result
}

// Category returns the configured category label for a project URL.
// A repository without its own entry inherits its owner's category.
func (r *Reconciler) Category(projectURL string) string {
	if r.categories == nil {
		return ""
	}
	repoURL := strings.TrimSuffix(projectURL, "/")
	keys := []string{projectURL, repoURL}
	if i := strings.LastIndex(repoURL, "/"); i > 0 {
		keys = append(keys, repoURL[:i], repoURL[:i+1])
	}
	for _, k := range keys {
		if c, ok := r.categories[k]; ok {
			return c
		}
	}
	return ""
}

// WithoutUnavailable returns names with the Unavailable marker removed
func WithoutUnavailable(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n != Unavailable {
			out = append(out, n)
		}
	}
	return out
}

// PartnerLabel formats the partner label for owner/repo
func PartnerLabel(owner, repo string) string {
	return PrefixPartner + owner + "/" + repo
}

// IDLabel formats the identifier label for a partner node id
func IDLabel(id string) string {
	return PrefixID + id
}

// IsPriceLabel reports whether name is a raw partner or devpool price label
func IsPriceLabel(name string) bool {
	return strings.HasPrefix(name, PrefixPrice) || strings.HasPrefix(name, PrefixPricing)
}

// HasPriceLabel reports whether any label is a price label
func HasPriceLabel(labels []models.Label) bool {
	for _, l := range labels {
		if IsPriceLabel(l.Name) {
			return true
		}
	}
	return false
}

// HasPricingLabel reports whether a mirror carries a devpool price label,
// including "Pricing: not set"
func HasPricingLabel(labels []models.Label) bool {
	_, ok := models.FindPrefix(labels, PrefixPricing)
	return ok
}
