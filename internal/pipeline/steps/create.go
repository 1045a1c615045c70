package steps

import (
	"fmt"

	"github.com/Kavirubc/gh-devpool/internal/github"
	"github.com/Kavirubc/gh-devpool/internal/labels"
	"github.com/Kavirubc/gh-devpool/internal/pipeline/core"
	"github.com/Kavirubc/gh-devpool/internal/social"
	"github.com/Kavirubc/gh-devpool/internal/xref"
	"github.com/Kavirubc/gh-devpool/pkg/models"
)

// CreateMirror opens a devpool issue for partner issues that have none
type CreateMirror struct {
	gh         core.IssueService
	owner      string
	repo       string
	reconciler *labels.Reconciler
	render     BodyRenderer
	poster     social.Poster // nil disables announcements
	posts      *xref.Store
	dryRun     bool
}

// NewCreateMirror creates the create step
func NewCreateMirror(gh core.IssueService, owner, repo string, reconciler *labels.Reconciler, render BodyRenderer, poster social.Poster, posts *xref.Store, dryRun bool) *CreateMirror {
	return &CreateMirror{
		gh:         gh,
		owner:      owner,
		repo:       repo,
		reconciler: reconciler,
		render:     render,
		poster:     poster,
		posts:      posts,
		dryRun:     dryRun,
	}
}

func (s *CreateMirror) Name() string {
	return "create_mirror"
}

func (s *CreateMirror) Run(ctx *core.Context) error {
	partner := ctx.Pair.Partner
	if partner == nil || ctx.Pair.Mirror != nil {
		return nil
	}

	// A mirror created earlier in this run for the same partner id
	if m, ok := ctx.Index.Lookup(partner); ok {
		ctx.Pair.Mirror = m
		ctx.Result.MirrorNumber = m.Number
		return nil
	}

	if reason := createBlocker(partner); reason != "" {
		ctx.Result.Skipped = true
		ctx.Result.SkipReason = reason
		return core.ErrSkipPipeline
	}

	names := s.reconciler.Labels(partner, ctx.ProjectURL)
	body := s.render(partner)

	if s.dryRun {
		ctx.Logger.Info("[DRY RUN] would create mirror", "title", partner.Title, "labels", names)
		ctx.Result.Skipped = true
		ctx.Result.SkipReason = "dry run"
		return core.ErrSkipPipeline
	}

	created, err := s.gh.CreateIssue(ctx.Ctx, s.owner, s.repo, github.NewIssue{
		Title:  partner.Title,
		Body:   body,
		Labels: names,
	})
	if err != nil {
		return fmt.Errorf("failed to create mirror: %w", err)
	}
	if len(created.Labels) == 0 {
		created.Labels = models.NewLabels(names...)
	}
	if created.Body == "" {
		created.Body = body
	}

	ctx.Index.Add(created)
	ctx.Pair.Mirror = created
	ctx.Result.Created = true
	ctx.Result.MirrorNumber = created.Number
	ctx.Logger.Info("created mirror", "mirror", created.Number, "url", created.URL)

	s.announce(ctx, created)

	// A fresh mirror already matches its partner
	return core.ErrSkipPipeline
}

// announce posts the new mirror and records the post id. Failures are
// logged only; the mirror is kept either way.
func (s *CreateMirror) announce(ctx *core.Context, mirror *models.Issue) {
	if s.poster == nil {
		return
	}

	postID, err := s.poster.Post(ctx.Ctx, social.Text(mirror.Labels, mirror.Body))
	if err != nil {
		ctx.Logger.Error("failed to post new mirror", "mirror", mirror.Number, "error", err)
		return
	}
	ctx.Result.Posted = true

	if err := s.posts.Record(mirror.ID, postID); err != nil {
		ctx.Logger.Error("failed to save cross-reference map", "mirror", mirror.Number, "post", postID, "error", err)
	}
}

// createBlocker returns why a partner issue must not be mirrored, or ""
func createBlocker(partner *models.Issue) string {
	switch {
	case partner.PullRequest:
		return "partner item is a pull request"
	case !partner.IsOpen():
		return "partner issue not open"
	case partner.Assigned:
		return "partner issue assigned"
	case !labels.HasPriceLabel(partner.Labels):
		return "partner issue has no price label"
	}
	return ""
}
