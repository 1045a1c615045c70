package steps

import (
	"fmt"

	"github.com/Kavirubc/gh-devpool/internal/github"
	"github.com/Kavirubc/gh-devpool/internal/labels"
	"github.com/Kavirubc/gh-devpool/internal/pipeline/core"
	"github.com/Kavirubc/gh-devpool/pkg/models"
)

// UpdateMetadata syncs title, body and labels of an existing mirror in one call
type UpdateMetadata struct {
	gh            core.IssueService
	owner         string
	repo          string
	reconciler    *labels.Reconciler
	rewriteBodies BodyRewritePolicy
	dryRun        bool
}

// NewUpdateMetadata creates the metadata step
func NewUpdateMetadata(gh core.IssueService, owner, repo string, reconciler *labels.Reconciler, rewriteBodies BodyRewritePolicy, dryRun bool) *UpdateMetadata {
	return &UpdateMetadata{
		gh:            gh,
		owner:         owner,
		repo:          repo,
		reconciler:    reconciler,
		rewriteBodies: rewriteBodies,
		dryRun:        dryRun,
	}
}

func (s *UpdateMetadata) Name() string {
	return "update_metadata"
}

func (s *UpdateMetadata) Run(ctx *core.Context) error {
	partner, mirror := ctx.Pair.Partner, ctx.Pair.Mirror
	if partner == nil || mirror == nil {
		return nil
	}

	update, fields := s.diff(ctx.ProjectURL, partner, mirror)
	if update.Empty() {
		return nil
	}

	if s.dryRun {
		ctx.Logger.Info("[DRY RUN] would update mirror", "mirror", mirror.Number, "fields", fields)
	} else if err := s.gh.UpdateIssue(ctx.Ctx, s.owner, s.repo, mirror.Number, update); err != nil {
		return fmt.Errorf("failed to update mirror #%d: %w", mirror.Number, err)
	} else {
		ctx.Logger.Info("updated mirror", "mirror", mirror.Number, "fields", fields)
	}

	ctx.Result.UpdatedFields = fields
	ctx.Pair.Mirror = apply(mirror, update)
	return nil
}

// diff computes the partial update; unchanged fields stay nil
func (s *UpdateMetadata) diff(projectURL string, partner, mirror *models.Issue) (github.IssueUpdate, []string) {
	var update github.IssueUpdate
	var fields []string

	if partner.Title != mirror.Title {
		title := partner.Title
		update.Title = &title
		fields = append(fields, "title")
	}

	if s.rewriteBodies(partner) && mirror.Body != partner.URL {
		body := partner.URL
		update.Body = &body
		fields = append(fields, "body")
	}

	want := labels.WithoutUnavailable(s.reconciler.Labels(partner, projectURL))
	if !models.SameLabelSet(want, mirror.LabelNames()) {
		update.Labels = &want
		fields = append(fields, "labels")
	}

	return update, fields
}

// apply returns a copy of mirror with the update's fields set
func apply(mirror *models.Issue, update github.IssueUpdate) *models.Issue {
	m := *mirror
	if update.Title != nil {
		m.Title = *update.Title
	}
	if update.Body != nil {
		m.Body = *update.Body
	}
	if update.Labels != nil {
		m.Labels = models.NewLabels(*update.Labels...)
	}
	return &m
}
