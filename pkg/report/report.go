package report

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"igstats/pkg/analytics"
	"igstats/pkg/metadata"
	"igstats/pkg/ratelimit"
)

// Report is the complete result of one profile analysis run
type Report struct {
	RunID           string    `json:"run_id"`
	GeneratedAt     time.Time `json:"generated_at"`
	DurationSeconds float64   `json:"duration_seconds"`
	Username        string    `json:"username"`

	Profile *metadata.ProfileMetadata `json:"profile"`
	Stats   *analytics.Stats          `json:"stats"`
	Risk    RiskIndicators            `json:"risk_indicators"`

	Posts []*metadata.PostMetadata `json:"posts"`

	PostsAnalyzed int             `json:"posts_analyzed"`
	RateLimit     ratelimit.Stats `json:"rate_limit"`
}

// RiskIndicators are the account-level signals summarized alongside the
// stats: visibility flags, the follower-to-following ratio, and the average
// engagement rate.
type RiskIndicators struct {
	IsPrivate              bool    `json:"is_private"`
	IsVerified             bool    `json:"is_verified"`
	FollowerFollowingRatio float64 `json:"follower_following_ratio"`
	AvgEngagementRate      float64 `json:"avg_engagement_rate_pct"`
}

// New assembles a report with a fresh run ID
func New(profile *metadata.ProfileMetadata, posts []*metadata.PostMetadata, stats *analytics.Stats, rlStats ratelimit.Stats) *Report {
	return &Report{
		RunID:         uuid.NewString(),
		GeneratedAt:   time.Now().UTC(),
		Username:      profile.Username,
		Profile:       profile,
		Stats:         stats,
		Risk:          riskIndicators(profile, stats),
		Posts:         posts,
		PostsAnalyzed: len(posts),
		RateLimit:     rlStats,
	}
}

// SetDuration records how long the run took, rounded to 2 decimal places
func (r *Report) SetDuration(d time.Duration) {
	r.DurationSeconds = math.Round(d.Seconds()*100) / 100
}

// riskIndicators derives the account-level signals. The following count is
// clamped to 1 so the ratio never divides by zero.
func riskIndicators(profile *metadata.ProfileMetadata, stats *analytics.Stats) RiskIndicators {
	following := profile.Following
	if following < 1 {
		following = 1
	}
	ratio := math.Round(float64(profile.Followers)/float64(following)*100) / 100

	return RiskIndicators{
		IsPrivate:              profile.IsPrivate,
		IsVerified:             profile.IsVerified,
		FollowerFollowingRatio: ratio,
		AvgEngagementRate:      stats.EngagementRate,
	}
}

// Filename returns the timestamped output name for the given extension,
// e.g. instagram_natgeo_20240301_120000.json
func (r *Report) Filename(ext string) string {
	return fmt.Sprintf("instagram_%s_%s.%s", r.Username, r.GeneratedAt.Format("20060102_150405"), ext)
}

// Exporter renders a report into one output format
type Exporter interface {
	// Ext is the file extension the exporter produces, without the dot
	Ext() string
	// Export renders the report
	Export(r *Report) ([]byte, error)
}

// ExporterFor returns the exporter for a format name, or an error for an
// unknown format
func ExporterFor(format string) (Exporter, error) {
	switch format {
	case "json":
		return &JSONExporter{}, nil
	case "markdown", "md":
		return &MarkdownExporter{}, nil
	default:
		return nil, fmt.Errorf("unknown report format: %s", format)
	}
}
