package xref

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/Kavirubc/gh-devpool/internal/labels"
	"github.com/Kavirubc/gh-devpool/pkg/models"
)

// ErrInvalidURL marks a project URL that does not name a GitHub owner
var ErrInvalidURL = errors.New("invalid project url")

// ParseProjectURL splits a GitHub URL into owner and repo.
// repo is empty for organization URLs.
func ParseProjectURL(raw string) (owner, repo string, err error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", "", fmt.Errorf("%w: %s: %v", ErrInvalidURL, raw, err)
	}
	if u.Host == "" {
		return "", "", fmt.Errorf("%w: %s: missing host", ErrInvalidURL, raw)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	switch {
	case len(parts) == 1 && parts[0] != "":
		return parts[0], "", nil
	case len(parts) == 2 && parts[0] != "" && parts[1] != "":
		return parts[0], strings.TrimSuffix(parts[1], ".git"), nil
	default:
		return "", "", fmt.Errorf("%w: %s: expected https://github.com/owner[/repo]", ErrInvalidURL, raw)
	}
}

// ParseRepoURL is ParseProjectURL that requires a repository path
func ParseRepoURL(raw string) (owner, repo string, err error) {
	owner, repo, err = ParseProjectURL(raw)
	if err != nil {
		return "", "", err
	}
	if repo == "" {
		return "", "", fmt.Errorf("%w: %s: not a repository url", ErrInvalidURL, raw)
	}
	return owner, repo, nil
}

// MirrorID returns the partner identifier embedded in a mirror's labels
func MirrorID(mirror *models.Issue) (string, bool) {
	id, ok := mirror.LabelValue(labels.PrefixID)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// Pair associates a partner issue with its mirror.
// Partner is nil for mirrors whose partner issue no longer exists.
type Pair struct {
	Partner *models.Issue
	Mirror  *models.Issue
}

// Index looks mirrored issues up by partner identifier
type Index struct {
	byID map[string]*models.Issue
}

// NewIndex builds an index over mirrored issues
func NewIndex(mirrors []*models.Issue) *Index {
	idx := &Index{byID: make(map[string]*models.Issue, len(mirrors))}
	for _, m := range mirrors {
		idx.Add(m)
	}
	return idx
}

// Add registers a mirror; the first mirror seen for an identifier wins.
// Pull requests are never mirrors.
func (idx *Index) Add(mirror *models.Issue) {
	id, ok := MirrorID(mirror)
	if !ok || mirror.PullRequest {
		return
	}
	if _, exists := idx.byID[id]; exists {
		return
	}
	idx.byID[id] = mirror
}

// Lookup finds the mirror of a partner issue
func (idx *Index) Lookup(partner *models.Issue) (*models.Issue, bool) {
	m, ok := idx.byID[partner.ID]
	return m, ok
}

// Len returns the number of indexed mirrors
func (idx *Index) Len() int {
	return len(idx.byID)
}

// Resolution is the outcome of matching one project's issues against the index
type Resolution struct {
	Paired   []Pair
	Unpaired []*models.Issue // partner issues with no mirror
	Orphans  []Pair          // mirrors of this project whose partner issue is gone
}

// Resolve pairs partner issues of owner/repo with their mirrors
func (idx *Index) Resolve(owner, repo string, partners []*models.Issue) *Resolution {
	res := &Resolution{}
	present := make(map[string]struct{}, len(partners))

	for _, p := range partners {
		present[p.ID] = struct{}{}
		if m, ok := idx.Lookup(p); ok {
			res.Paired = append(res.Paired, Pair{Partner: p, Mirror: m})
			continue
		}
		res.Unpaired = append(res.Unpaired, p)
	}

	partnerLabel := labels.PartnerLabel(owner, repo)
	for id, m := range idx.byID {
		if !m.HasLabel(partnerLabel) {
			continue
		}
		if _, ok := present[id]; ok {
			continue
		}
		res.Orphans = append(res.Orphans, Pair{Mirror: m})
	}
	sort.Slice(res.Orphans, func(i, j int) bool {
		return res.Orphans[i].Mirror.Number < res.Orphans[j].Mirror.Number
	})

	return res
}

// Unclaimed returns the mirrors whose partner label names none of the given
// project URLs, ordered by number. Mirrors without a partner label are left out.
func (idx *Index) Unclaimed(projectURLs []string) []Pair {
	claimed := make(map[string]struct{}, len(projectURLs))
	for _, u := range projectURLs {
		owner, repo, err := ParseRepoURL(u)
		if err != nil {
			continue
		}
		claimed[strings.ToLower(labels.PartnerLabel(owner, repo))] = struct{}{}
	}

	var out []Pair
	for _, m := range idx.byID {
		name, ok := models.FindPrefix(m.Labels, labels.PrefixPartner)
		if !ok {
			continue
		}
		if _, ok := claimed[strings.ToLower(name)]; ok {
			continue
		}
		out = append(out, Pair{Mirror: m})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Mirror.Number < out[j].Mirror.Number
	})
	return out
}
