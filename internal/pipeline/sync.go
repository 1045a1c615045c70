package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/Kavirubc/gh-devpool/internal/config"
	"github.com/Kavirubc/gh-devpool/internal/labels"
	"github.com/Kavirubc/gh-devpool/internal/pipeline/core"
	"github.com/Kavirubc/gh-devpool/internal/projects"
	"github.com/Kavirubc/gh-devpool/internal/social"
	"github.com/Kavirubc/gh-devpool/internal/stats"
	"github.com/Kavirubc/gh-devpool/internal/xref"
	"github.com/Kavirubc/gh-devpool/pkg/models"
	"github.com/google/uuid"
)

// Client is the GitHub surface a sync run needs
type Client interface {
	core.IssueService
	projects.RepoLister
	stats.FileStore
	ListAllIssues(ctx context.Context, org, repo string) ([]*models.Issue, error)
}

// Options configures a Syncer
type Options struct {
	Poster social.Poster // nil disables announcements
	Posts  *xref.Store
	Logger *slog.Logger
	DryRun bool
}

// Syncer reconciles the devpool repository with every partner project
type Syncer struct {
	cfg       *config.Config
	gh        Client
	registry  *projects.Registry
	publisher *stats.Publisher
	logger    *slog.Logger
	dryRun    bool

	// pipeline is the sequence of steps run for every pair
	pipeline []core.Step
}

// NewSyncer creates a syncer
func NewSyncer(cfg *config.Config, gh Client, opts Options) *Syncer {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	posts := opts.Posts
	if posts == nil {
		posts = xref.NewMemoryStore()
	}

	builder := NewBuilder(cfg, gh, opts.Poster, posts, opts.DryRun)

	return &Syncer{
		cfg:       cfg,
		gh:        gh,
		registry:  projects.NewRegistry(&cfg.Projects),
		publisher: stats.NewPublisher(gh, cfg.Devpool.Owner, cfg.Devpool.Repo, cfg.Statistics.Path, cfg.Statistics.Branch),
		logger:    logger,
		dryRun:    opts.DryRun,
		pipeline:  builder.BuildDefault(),
	}
}

// Run performs one full reconciliation pass. Failures of individual
// projects and pairs are logged and counted; only a failure to list the
// devpool issues aborts the run.
func (s *Syncer) Run(ctx context.Context) (*models.RunResult, error) {
	start := time.Now()
	runID := uuid.NewString()
	logger := s.logger.With("run_id", runID)
	result := &models.RunResult{RunID: runID}

	owner, repo := s.cfg.Devpool.Owner, s.cfg.Devpool.Repo
	mirrors, err := s.gh.ListAllIssues(ctx, owner, repo)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch devpool issues: %w", err)
	}
	idx := xref.NewIndex(mirrors)
	logger.Info("loaded devpool issues", "issues", len(mirrors), "mirrors", idx.Len())

	urls, resolveErr := s.registry.Resolve(ctx, s.gh, logger)
	result.Projects = len(urls)

	for _, url := range urls {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		s.syncProject(ctx, logger.With("project", url), url, idx, result)
	}

	// An incomplete project list would make live projects look removed.
	if resolveErr != nil {
		logger.Warn("project list incomplete, not closing mirrors of removed projects")
	} else {
		s.sweepUnclaimed(ctx, logger, urls, idx, result)
	}

	if s.dryRun {
		s.reportStatistics(logger, mirrors)
	} else {
		s.publishStatistics(ctx, logger)
	}

	result.DurationMs = int(time.Since(start).Milliseconds())
	logger.Info("sync finished",
		"projects", result.Projects,
		"pairs", result.Pairs,
		"created", result.Created,
		"updated", result.Updated,
		"transitioned", result.Transitioned,
		"errors", result.Errors,
	)
	return result, nil
}

func (s *Syncer) syncProject(ctx context.Context, logger *slog.Logger, url string, idx *xref.Index, result *models.RunResult) {
	owner, repo, err := xref.ParseRepoURL(url)
	if err != nil {
		logger.Error("skipping project", "error", err)
		result.Errors++
		return
	}

	partners, err := s.gh.ListAllIssues(ctx, owner, repo)
	if err != nil {
		logger.Error("failed to fetch partner issues", "error", err)
		result.Errors++
		return
	}

	res := idx.Resolve(owner, repo, partners)
	logger.Debug("resolved project", "partners", len(partners), "paired", len(res.Paired), "unpaired", len(res.Unpaired), "orphans", len(res.Orphans))

	pairs := make([]xref.Pair, 0, len(res.Paired)+len(res.Unpaired)+len(res.Orphans))
	pairs = append(pairs, res.Paired...)
	for _, p := range res.Unpaired {
		pairs = append(pairs, xref.Pair{Partner: p})
	}
	pairs = append(pairs, res.Orphans...)

	for _, pair := range pairs {
		if ctx.Err() != nil {
			return
		}
		s.tally(result, s.processPair(ctx, logger, url, idx, pair))
	}
}

// sweepUnclaimed closes mirrors whose partner project is no longer configured
func (s *Syncer) sweepUnclaimed(ctx context.Context, logger *slog.Logger, urls []string, idx *xref.Index, result *models.RunResult) {
	for _, pair := range idx.Unclaimed(urls) {
		if ctx.Err() != nil {
			return
		}
		partner, _ := models.FindPrefix(pair.Mirror.Labels, labels.PrefixPartner)
		url := "https://github.com/" + strings.TrimPrefix(partner, labels.PrefixPartner)
		s.tally(result, s.processPair(ctx, logger.With("project", url), url, idx, pair))
	}
}

// processPair runs the pipeline for one pair. A failed step is logged and
// the remaining steps run on the last projected mirror; a failure that
// leaves the pair without a mirror ends it.
func (s *Syncer) processPair(ctx context.Context, logger *slog.Logger, url string, idx *xref.Index, pair xref.Pair) *core.PairResult {
	pr := &core.PairResult{}
	if pair.Partner != nil {
		pr.PartnerURL = pair.Partner.URL
		logger = logger.With("partner", pair.Partner.Number)
	}
	if pair.Mirror != nil {
		pr.MirrorNumber = pair.Mirror.Number
		logger = logger.With("mirror", pair.Mirror.Number)
	}

	pCtx := &core.Context{
		Ctx:        ctx,
		ProjectURL: url,
		Logger:     logger,
		Pair:       pair,
		Index:      idx,
		Result:     pr,
	}

	for _, step := range s.pipeline {
		if err := step.Run(pCtx); err != nil {
			if errors.Is(err, core.ErrSkipPipeline) {
				break
			}
			logger.Error("step failed", "step", step.Name(), "error", err)
			pr.Failed = true
			if pCtx.Pair.Mirror == nil {
				break
			}
		}
	}

	if pr.Skipped {
		logger.Debug("pair skipped", "reason", pr.SkipReason)
	}
	return pr
}

func (s *Syncer) tally(result *models.RunResult, pr *core.PairResult) {
	result.Pairs++
	if pr.Failed {
		result.Errors++
	}
	if pr.Skipped {
		result.Skipped++
	}
	if pr.Created {
		result.Created++
	}
	if len(pr.UpdatedFields) > 0 {
		result.Updated++
	}
	if pr.Transition != "" {
		result.Transitioned++
	}
}

// publishStatistics aggregates over a fresh listing so this run's changes are counted
func (s *Syncer) publishStatistics(ctx context.Context, logger *slog.Logger) {
	mirrors, err := s.gh.ListAllIssues(ctx, s.cfg.Devpool.Owner, s.cfg.Devpool.Repo)
	if err != nil {
		logger.Error("failed to fetch devpool issues for statistics", "error", err)
		return
	}

	st := stats.Aggregate(mirrors, logger)
	written, err := s.publisher.Publish(ctx, st)
	if err != nil {
		logger.Error("failed to publish statistics", "error", err)
		return
	}
	logger.Info("statistics", "written", written, "tasks", st.Tasks.Total, "rewards", st.Rewards.Total)
}

func (s *Syncer) reportStatistics(logger *slog.Logger, mirrors []*models.Issue) {
	st := stats.Aggregate(mirrors, logger)
	logger.Info("[DRY RUN] would publish statistics", "tasks", st.Tasks.Total, "rewards", st.Rewards.Total)
}

// PrintRunResult outputs the run summary
func PrintRunResult(w io.Writer, r *models.RunResult) {
	fmt.Fprintln(w, "\n=== Sync Result ===")
	fmt.Fprintf(w, "Run: %s\n", r.RunID)
	fmt.Fprintf(w, "Projects: %d\n", r.Projects)
	fmt.Fprintf(w, "Pairs: %d\n", r.Pairs)
	fmt.Fprintf(w, "Created: %d\n", r.Created)
	fmt.Fprintf(w, "Updated: %d\n", r.Updated)
	fmt.Fprintf(w, "Transitioned: %d\n", r.Transitioned)
	if r.Skipped > 0 {
		fmt.Fprintf(w, "Skipped: %d\n", r.Skipped)
	}
	if r.Errors > 0 {
		fmt.Fprintf(w, "Errors: %d\n", r.Errors)
	}
	fmt.Fprintf(w, "Duration: %dms\n", r.DurationMs)
}
