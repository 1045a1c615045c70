package steps

import (
	"fmt"

	"github.com/Kavirubc/gh-devpool/internal/pipeline/core"
	"github.com/Kavirubc/gh-devpool/internal/rules"
)

// TransitionState opens or closes a mirror according to the state-change rules
type TransitionState struct {
	gh        core.IssueService
	owner     string
	repo      string
	evaluator *rules.Evaluator
	dryRun    bool
}

// NewTransitionState creates the transition step
func NewTransitionState(gh core.IssueService, owner, repo string, evaluator *rules.Evaluator, dryRun bool) *TransitionState {
	return &TransitionState{
		gh:        gh,
		owner:     owner,
		repo:      repo,
		evaluator: evaluator,
		dryRun:    dryRun,
	}
}

func (s *TransitionState) Name() string {
	return "transition_state"
}

func (s *TransitionState) Run(ctx *core.Context) error {
	mirror := ctx.Pair.Mirror
	if mirror == nil {
		return nil
	}

	d := s.evaluator.Evaluate(ctx.Pair)
	for _, c := range d.Conflicts {
		ctx.Logger.Error("conflicting state change rules",
			"mirror", mirror.Number, "applied", d.Rule.Name, "conflicting", c.Name, "wanted", c.Effect)
	}
	if d.Rule == nil {
		return nil
	}

	if s.dryRun {
		ctx.Logger.Info("[DRY RUN] would change mirror state", "mirror", mirror.Number, "rule", d.Rule.Name, "state", d.Rule.Effect)
	} else if err := s.gh.SetIssueState(ctx.Ctx, s.owner, s.repo, mirror.Number, d.Rule.Effect); err != nil {
		return fmt.Errorf("failed to apply %s to mirror #%d: %w", d.Rule.Name, mirror.Number, err)
	} else {
		ctx.Logger.Info("changed mirror state", "mirror", mirror.Number, "rule", d.Rule.Name, "state", d.Rule.Effect, "reason", d.Rule.Reason)
	}

	ctx.Result.Transition = d.Rule.Name
	ctx.Result.NewState = string(d.Rule.Effect)

	m := *mirror
	m.State = d.Rule.Effect
	ctx.Pair.Mirror = &m
	return nil
}
