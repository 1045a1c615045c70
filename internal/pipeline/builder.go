package pipeline

import (
	"fmt"

	"github.com/Kavirubc/gh-devpool/internal/config"
	"github.com/Kavirubc/gh-devpool/internal/labels"
	"github.com/Kavirubc/gh-devpool/internal/pipeline/core"
	"github.com/Kavirubc/gh-devpool/internal/pipeline/steps"
	"github.com/Kavirubc/gh-devpool/internal/rules"
	"github.com/Kavirubc/gh-devpool/internal/social"
	"github.com/Kavirubc/gh-devpool/internal/xref"
)

// Builder constructs the per-pair pipeline of steps.
type Builder struct {
	cfg        *config.Config
	gh         core.IssueService
	reconciler *labels.Reconciler
	evaluator  *rules.Evaluator
	poster     social.Poster
	posts      *xref.Store
	dryRun     bool
}

// NewBuilder creates a new pipeline builder
func NewBuilder(
	cfg *config.Config,
	gh core.IssueService,
	poster social.Poster,
	posts *xref.Store,
	dryRun bool,
) *Builder {
	return &Builder{
		cfg:        cfg,
		gh:         gh,
		reconciler: labels.NewReconciler(cfg.Projects.Categories),
		evaluator:  rules.NewEvaluator(rules.Default()),
		poster:     poster,
		posts:      posts,
		dryRun:     dryRun,
	}
}

// DefaultSteps is the standard step order
var DefaultSteps = []string{"create_mirror", "update_metadata", "transition_state"}

// BuildDefault creates the standard pipeline
func (b *Builder) BuildDefault() []core.Step {
	pipe, _ := b.Build(DefaultSteps)
	return pipe
}

// Build creates a pipeline from step names
func (b *Builder) Build(names []string) ([]core.Step, error) {
	var pipe []core.Step
	for _, name := range names {
		step, err := b.createStep(name)
		if err != nil {
			return nil, err
		}
		pipe = append(pipe, step)
	}
	return pipe, nil
}

func (b *Builder) createStep(name string) (core.Step, error) {
	owner, repo := b.cfg.Devpool.Owner, b.cfg.Devpool.Repo
	rewrite := steps.AllowBodyRewrite(b.cfg.Devpool.RewriteBodies)

	switch name {
	case "create_mirror":
		return steps.NewCreateMirror(b.gh, owner, repo, b.reconciler, steps.DefaultBodyRenderer(rewrite), b.poster, b.posts, b.dryRun), nil
	case "update_metadata":
		return steps.NewUpdateMetadata(b.gh, owner, repo, b.reconciler, rewrite, b.dryRun), nil
	case "transition_state":
		return steps.NewTransitionState(b.gh, owner, repo, b.evaluator, b.dryRun), nil
	default:
		return nil, fmt.Errorf("unknown step: %s", name)
	}
}
