package steps

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/Kavirubc/gh-devpool/internal/github"
	"github.com/Kavirubc/gh-devpool/internal/labels"
	"github.com/Kavirubc/gh-devpool/internal/logging"
	"github.com/Kavirubc/gh-devpool/internal/pipeline/core"
	"github.com/Kavirubc/gh-devpool/internal/rules"
	"github.com/Kavirubc/gh-devpool/internal/xref"
	"github.com/Kavirubc/gh-devpool/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingService struct {
	creates []github.NewIssue
	updates []github.IssueUpdate
	states  []models.State
	err     error
}

func (r *recordingService) CreateIssue(_ context.Context, org, repo string, issue github.NewIssue) (*models.Issue, error) {
	r.creates = append(r.creates, issue)
	if r.err != nil {
		return nil, r.err
	}
	return &models.Issue{ID: "M_1", Org: org, Repo: repo, Number: 1, Title: issue.Title, State: models.StateOpen}, nil
}

func (r *recordingService) UpdateIssue(_ context.Context, _, _ string, _ int, update github.IssueUpdate) error {
	r.updates = append(r.updates, update)
	return r.err
}

func (r *recordingService) SetIssueState(_ context.Context, _, _ string, _ int, state models.State) error {
	r.states = append(r.states, state)
	return r.err
}

func partnerIssue() *models.Issue {
	return &models.Issue{
		ID:     "P_1",
		Org:    "acme",
		Repo:   "app",
		Number: 5,
		Title:  "Add export",
		State:  models.StateOpen,
		Labels: models.NewLabels("Price: 25 USD"),
		URL:    "https://github.com/acme/app/issues/5",
	}
}

func newContext(pair xref.Pair, idx *xref.Index) (*core.Context, *logging.CountingHandler) {
	logger, counter := logging.New(io.Discard, 0)
	if idx == nil {
		idx = xref.NewIndex(nil)
	}
	return &core.Context{
		Ctx:        context.Background(),
		ProjectURL: "https://github.com/acme/app",
		Logger:     logger,
		Pair:       pair,
		Index:      idx,
		Result:     &core.PairResult{},
	}, counter
}

func TestNonLinkingURL(t *testing.T) {
	assert.Equal(t, "https://www.github.com/acme/app/issues/5", NonLinkingURL("https://github.com/acme/app/issues/5"))
	assert.Equal(t, "https://example.com/x", NonLinkingURL("https://example.com/x"))
}

func TestDefaultBodyRenderer(t *testing.T) {
	p := partnerIssue()
	assert.Equal(t, p.URL, DefaultBodyRenderer(AllowBodyRewrite(true))(p))
	assert.Equal(t, "https://www.github.com/acme/app/issues/5", DefaultBodyRenderer(AllowBodyRewrite(false))(p))
}

func TestCreateMirror_AdoptsMirrorFromIndex(t *testing.T) {
	svc := &recordingService{}
	existing := &models.Issue{Number: 3, State: models.StateOpen, Labels: models.NewLabels("id: P_1")}
	ctx, _ := newContext(xref.Pair{Partner: partnerIssue()}, xref.NewIndex([]*models.Issue{existing}))

	step := NewCreateMirror(svc, "ubiquity", "devpool-directory", labels.NewReconciler(nil), DefaultBodyRenderer(AllowBodyRewrite(false)), nil, nil, false)
	require.NoError(t, step.Run(ctx))

	assert.Empty(t, svc.creates)
	assert.Same(t, existing, ctx.Pair.Mirror)
}

func TestCreateMirror_RegistersNewMirror(t *testing.T) {
	svc := &recordingService{}
	idx := xref.NewIndex(nil)
	ctx, _ := newContext(xref.Pair{Partner: partnerIssue()}, idx)

	step := NewCreateMirror(svc, "ubiquity", "devpool-directory", labels.NewReconciler(nil), DefaultBodyRenderer(AllowBodyRewrite(false)), nil, nil, false)
	err := step.Run(ctx)

	assert.ErrorIs(t, err, core.ErrSkipPipeline)
	require.Len(t, svc.creates, 1)
	assert.Equal(t, []string{"Pricing: 25 USD", "Partner: acme/app", "id: P_1"}, svc.creates[0].Labels)
	assert.True(t, ctx.Result.Created)

	_, ok := idx.Lookup(partnerIssue())
	assert.True(t, ok, "created mirror is visible to later pairs in the run")
}

func TestCreateMirror_SkipsPullRequest(t *testing.T) {
	svc := &recordingService{}
	partner := partnerIssue()
	partner.PullRequest = true
	ctx, _ := newContext(xref.Pair{Partner: partner}, nil)

	step := NewCreateMirror(svc, "ubiquity", "devpool-directory", labels.NewReconciler(nil), DefaultBodyRenderer(AllowBodyRewrite(false)), nil, nil, false)
	err := step.Run(ctx)

	assert.ErrorIs(t, err, core.ErrSkipPipeline)
	assert.Empty(t, svc.creates)
	assert.True(t, ctx.Result.Skipped)
	assert.Equal(t, "partner item is a pull request", ctx.Result.SkipReason)
}

func TestCreateMirror_Failure(t *testing.T) {
	svc := &recordingService{err: errors.New("HTTP 500")}
	ctx, _ := newContext(xref.Pair{Partner: partnerIssue()}, nil)

	step := NewCreateMirror(svc, "ubiquity", "devpool-directory", labels.NewReconciler(nil), DefaultBodyRenderer(AllowBodyRewrite(false)), nil, nil, false)
	err := step.Run(ctx)

	require.Error(t, err)
	assert.NotErrorIs(t, err, core.ErrSkipPipeline)
	assert.Nil(t, ctx.Pair.Mirror)
}

func TestUpdateMetadata_BodyRewrite(t *testing.T) {
	partner := partnerIssue()
	mirror := &models.Issue{
		Number: 2,
		Title:  partner.Title,
		Body:   "https://www.github.com/acme/app/issues/5",
		State:  models.StateOpen,
		Labels: models.NewLabels("Pricing: 25 USD", "Partner: acme/app", "id: P_1"),
	}

	tests := []struct {
		name       string
		allowed    bool
		wantFields []string
	}{
		{"rewrite allowed", true, []string{"body"}},
		{"rewrite not allowed", false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &recordingService{}
			ctx, _ := newContext(xref.Pair{Partner: partner, Mirror: mirror}, nil)

			step := NewUpdateMetadata(svc, "ubiquity", "devpool-directory", labels.NewReconciler(nil), AllowBodyRewrite(tt.allowed), false)
			require.NoError(t, step.Run(ctx))

			assert.Equal(t, tt.wantFields, ctx.Result.UpdatedFields)
			if tt.wantFields == nil {
				assert.Empty(t, svc.updates)
				return
			}
			require.Len(t, svc.updates, 1)
			assert.Equal(t, partner.URL, *svc.updates[0].Body)
			assert.Nil(t, svc.updates[0].Title)
			assert.Nil(t, svc.updates[0].Labels)
			assert.Equal(t, partner.URL, ctx.Pair.Mirror.Body)
		})
	}
}

func TestUpdateMetadata_CategoryLabel(t *testing.T) {
	svc := &recordingService{}
	partner := partnerIssue()
	mirror := &models.Issue{
		Number: 2,
		Title:  partner.Title,
		State:  models.StateOpen,
		Labels: models.NewLabels("Pricing: 25 USD", "Partner: acme/app", "id: P_1"),
	}
	ctx, _ := newContext(xref.Pair{Partner: partner, Mirror: mirror}, nil)

	reconciler := labels.NewReconciler(map[string]string{"https://github.com/acme/app": "Core"})
	step := NewUpdateMetadata(svc, "ubiquity", "devpool-directory", reconciler, AllowBodyRewrite(false), false)
	require.NoError(t, step.Run(ctx))

	require.Len(t, svc.updates, 1)
	assert.Equal(t, []string{"Pricing: 25 USD", "Partner: acme/app", "id: P_1", "Core"}, *svc.updates[0].Labels)
	assert.False(t, mirror.HasLabel("Core"), "original mirror is not mutated")
	assert.True(t, ctx.Pair.Mirror.HasLabel("Core"))
}

func TestTransitionState_LogsConflicts(t *testing.T) {
	always := func(xref.Pair) bool { return true }
	evaluator := rules.NewEvaluator([]rules.StateChangeRule{
		{Name: "close-first", Cause: always, Effect: models.StateClosed},
		{Name: "open-later", Cause: always, Effect: models.StateOpen},
	})

	svc := &recordingService{}
	mirror := &models.Issue{Number: 2, State: models.StateOpen}
	ctx, counter := newContext(xref.Pair{Partner: partnerIssue(), Mirror: mirror}, nil)

	step := NewTransitionState(svc, "ubiquity", "devpool-directory", evaluator, false)
	require.NoError(t, step.Run(ctx))

	assert.Equal(t, []models.State{models.StateClosed}, svc.states)
	assert.Equal(t, "close-first", ctx.Result.Transition)
	assert.Equal(t, int64(1), counter.Errors())
	assert.Equal(t, models.StateClosed, ctx.Pair.Mirror.State)
}

func TestTransitionState_DryRun(t *testing.T) {
	svc := &recordingService{}
	mirror := &models.Issue{Number: 2, State: models.StateOpen, Labels: models.NewLabels("Pricing: 25 USD")}
	ctx, _ := newContext(xref.Pair{Mirror: mirror}, nil)

	step := NewTransitionState(svc, "ubiquity", "devpool-directory", rules.NewEvaluator(rules.Default()), true)
	require.NoError(t, step.Run(ctx))

	assert.Empty(t, svc.states)
	assert.Equal(t, "missing-in-partner", ctx.Result.Transition)
}
