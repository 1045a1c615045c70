package core

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Kavirubc/gh-devpool/internal/github"
	"github.com/Kavirubc/gh-devpool/internal/xref"
	"github.com/Kavirubc/gh-devpool/pkg/models"
)

// ErrSkipPipeline indicates that the rest of the pipeline should be skipped for
// logic reasons (e.g. create preconditions not met). It is not an error condition.
var ErrSkipPipeline = errors.New("skip pipeline")

// IssueService is the subset of github.Client that mutates devpool issues
type IssueService interface {
	CreateIssue(ctx context.Context, org, repo string, issue github.NewIssue) (*models.Issue, error)
	UpdateIssue(ctx context.Context, org, repo string, number int, update github.IssueUpdate) error
	SetIssueState(ctx context.Context, org, repo string, number int, state models.State) error
}

// PairResult records what the pipeline did for one pair
type PairResult struct {
	PartnerURL    string   `json:"partner_url,omitempty"`
	MirrorNumber  int      `json:"mirror_number,omitempty"`
	Created       bool     `json:"created,omitempty"`
	UpdatedFields []string `json:"updated_fields,omitempty"`
	Transition    string   `json:"transition,omitempty"` // rule name
	NewState      string   `json:"new_state,omitempty"`
	Posted        bool     `json:"posted,omitempty"`
	Skipped       bool     `json:"skipped,omitempty"`
	SkipReason    string   `json:"skip_reason,omitempty"`
	Failed        bool     `json:"failed,omitempty"` // a step returned an error
}

// Context carries state through the pipeline steps for a single pair.
type Context struct {
	// Base Inputs
	Ctx        context.Context
	ProjectURL string
	Logger     *slog.Logger

	// Pair is the partner/mirror pair; steps replace Pair.Mirror with the
	// projected state after each successful mutation.
	Pair xref.Pair

	// Index is the run-wide mirror index; new mirrors are registered here
	Index *xref.Index

	// Result accumulates the final output structure
	Result *PairResult
}

// Step defines a single unit of work in the pipeline.
type Step interface {
	// Name returns the unique identifier for this step (used in logs)
	Name() string
	// Run executes the step logic.
	// Returning ErrSkipPipeline gracefully stops execution.
	// Any other error marks the pair failed; later steps still run while
	// the pair has a mirror.
	Run(ctx *Context) error
}
