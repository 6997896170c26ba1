package analyzer

import (
	"context"
	"fmt"
	"time"

	"igstats/pkg/analytics"
	"igstats/pkg/config"
	"igstats/pkg/errors"
	"igstats/pkg/governor"
	"igstats/pkg/instagram"
	"igstats/pkg/logger"
	"igstats/pkg/metadata"
	"igstats/pkg/ratelimit"
	"igstats/pkg/report"
)

// Analyzer runs the full analysis pipeline for one or more profiles. Every
// API call goes through its governor, so one Analyzer must not be shared
// between concurrently analyzed profiles; the pool package creates one per
// analyzed profile.
type Analyzer struct {
	client   InstagramClient
	governor *governor.Governor
	cfg      *config.Config
	logger   logger.Logger
}

// New builds an analyzer with a fresh limiter and governor from the config
func New(client InstagramClient, cfg *config.Config, log logger.Logger) *Analyzer {
	if log == nil {
		log = logger.GetLogger()
	}

	limiter := ratelimit.NewSlidingWindowLimiter(ratelimit.Config{
		WindowDuration:    cfg.RateLimit.WindowDuration,
		MaxRequests:       cfg.RateLimit.MaxRequests,
		MinInterCallDelay: cfg.RateLimit.MinInterCallDelay,
		BurstThreshold:    cfg.RateLimit.BurstThreshold,
		BurstInterval:     cfg.RateLimit.BurstInterval,
		BurstCooldown:     cfg.RateLimit.BurstCooldown,
	})

	g := governor.New(limiter, governor.Config{
		MaxAttempts: cfg.Retry.MaxAttempts,
		Backoff: &governor.ExponentialBackoff{
			BaseDelay:   cfg.Retry.BaseDelay,
			MaxDelay:    cfg.Retry.MaxDelay,
			Multiplier:  cfg.Retry.Multiplier,
			JitterRatio: cfg.Retry.JitterRatio,
		},
		Logger: log,
	})

	return &Analyzer{
		client:   client,
		governor: g,
		cfg:      cfg,
		logger:   log,
	}
}

// NewWithGovernor builds an analyzer around an existing governor, used by
// tests and by callers that manage limiter lifecycles themselves
func NewWithGovernor(client InstagramClient, g *governor.Governor, cfg *config.Config, log logger.Logger) *Analyzer {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Analyzer{client: client, governor: g, cfg: cfg, logger: log}
}

// Analyze fetches a profile and its recent posts, computes analytics, and
// assembles the report
func (a *Analyzer) Analyze(ctx context.Context, username string) (*report.Report, error) {
	username = instagram.SanitizeUsername(username)
	if !instagram.IsValidUsername(username) {
		return nil, errors.New(errors.ErrorTypeUnknown, fmt.Sprintf("invalid username: %q", username))
	}

	log := a.logger.WithField("username", username)
	log.Info("Starting profile analysis")
	started := time.Now()

	user, err := a.fetchProfile(ctx, username)
	if err != nil {
		return nil, err
	}

	if user.IsPrivate {
		return nil, errors.New(errors.ErrorTypeAuth, fmt.Sprintf("profile @%s is private", username))
	}

	profile := metadata.FromProfile(user)

	posts, err := a.fetchPosts(ctx, user)
	if err != nil {
		return nil, err
	}

	stats := analytics.Analyze(posts, profile.Followers, analytics.Options{
		TopHashtags:  a.cfg.Analytics.TopHashtags,
		TopLocations: a.cfg.Analytics.TopLocations,
		TopPosts:     a.cfg.Analytics.TopPosts,
	})

	rep := report.New(profile, posts, stats, a.governor.Stats())
	rep.SetDuration(time.Since(started))

	log.InfoWithFields("Analysis complete", map[string]interface{}{
		"posts_analyzed":   stats.TotalPosts,
		"engagement_rate":  stats.EngagementRate,
		"duration_seconds": rep.DurationSeconds,
		"run_id":           rep.RunID,
	})

	return rep, nil
}

func (a *Analyzer) fetchProfile(ctx context.Context, username string) (*instagram.User, error) {
	resp, err := governor.Execute(ctx, a.governor, func(ctx context.Context) (*instagram.ProfileResponse, error) {
		return a.client.FetchUserProfile(ctx, username)
	})
	if err != nil {
		return nil, err
	}

	user := resp.Data.User
	if user.ID == "" {
		return nil, errors.New(errors.ErrorTypeNotFound, fmt.Sprintf("user %q not found", username))
	}
	return &user, nil
}

// fetchPosts pages through the user's media until MaxPosts are collected or
// the timeline ends. The first page comes embedded in the profile response.
func (a *Analyzer) fetchPosts(ctx context.Context, user *instagram.User) ([]*metadata.PostMetadata, error) {
	maxPosts := a.cfg.Analyze.MaxPosts
	posts := make([]*metadata.PostMetadata, 0, maxPosts)

	timeline := user.EdgeOwnerToTimelineMedia
	for _, edge := range timeline.Edges {
		if len(posts) >= maxPosts {
			return posts, nil
		}
		node := edge.Node
		posts = append(posts, metadata.FromMediaNode(&node))
	}

	hasNext := timeline.PageInfo.HasNextPage
	cursor := timeline.PageInfo.EndCursor

	for hasNext && len(posts) < maxPosts {
		logger.LogFetchProgress(user.Username, len(posts), maxPosts)

		resp, err := governor.Execute(ctx, a.governor, func(ctx context.Context) (*instagram.MediaResponse, error) {
			return a.client.FetchUserMedia(ctx, user.ID, cursor, maxPosts-len(posts))
		})
		if err != nil {
			return nil, err
		}

		page := resp.Data.User.EdgeOwnerToTimelineMedia
		if len(page.Edges) == 0 {
			break
		}

		for _, edge := range page.Edges {
			if len(posts) >= maxPosts {
				break
			}
			node := edge.Node
			posts = append(posts, metadata.FromMediaNode(&node))
		}

		hasNext = page.PageInfo.HasNextPage
		cursor = page.PageInfo.EndCursor
	}

	return posts, nil
}

// Stats exposes the governor's limiter utilization
func (a *Analyzer) Stats() ratelimit.Stats {
	return a.governor.Stats()
}
