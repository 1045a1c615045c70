package steps

import (
	"strings"

	"github.com/Kavirubc/gh-devpool/pkg/models"
)

// BodyRenderer produces the body of a new mirror
type BodyRenderer func(partner *models.Issue) string

// BodyRewritePolicy reports whether this run may set a mirror's body to the partner URL
type BodyRewritePolicy func(partner *models.Issue) bool

// AllowBodyRewrite returns a policy with a fixed answer
func AllowBodyRewrite(allowed bool) BodyRewritePolicy {
	return func(*models.Issue) bool { return allowed }
}

// DefaultBodyRenderer links the partner issue when rewriting is allowed and
// otherwise writes a www. URL, which GitHub does not turn into a backlink.
func DefaultBodyRenderer(policy BodyRewritePolicy) BodyRenderer {
	return func(partner *models.Issue) string {
		if policy(partner) {
			return partner.URL
		}
		return NonLinkingURL(partner.URL)
	}
}

// NonLinkingURL rewrites https://github.com/... to https://www.github.com/...
func NonLinkingURL(u string) string {
	return strings.Replace(u, "://github.com/", "://www.github.com/", 1)
}
