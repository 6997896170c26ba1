package report

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"igstats/pkg/analytics"
	"igstats/pkg/metadata"
	"igstats/pkg/ratelimit"
)

func sampleReport() *Report {
	posts := []*metadata.PostMetadata{
		{
			ID:        "1",
			Shortcode: "Cabc",
			URL:       "https://www.instagram.com/p/Cabc/",
			TakenAt:   time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC),
			Likes:     100,
			Comments:  10,
			Hashtags:  []string{"sunset"},
		},
		{
			ID:        "2",
			Shortcode: "Cdef",
			URL:       "https://www.instagram.com/p/Cdef/",
			TakenAt:   time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC),
			Likes:     300,
			Comments:  30,
			Hashtags:  []string{"sunset", "beach"},
			Location:  &metadata.Location{ID: "9", Name: "Lisbon"},
		},
	}

	profile := &metadata.ProfileMetadata{
		ID:         "787132",
		Username:   "natgeo",
		FullName:   "National Geographic",
		Followers:  1000,
		Following:  50,
		PostsCount: 2,
	}

	stats := analytics.Analyze(posts, profile.Followers, analytics.DefaultOptions())
	return New(profile, posts, stats, ratelimit.Stats{InWindow: 3, MaxRequests: 180, TotalAttempts: 3})
}

func TestNewReport(t *testing.T) {
	r := sampleReport()

	assert.NotEmpty(t, r.RunID)
	assert.Equal(t, "natgeo", r.Username)
	assert.Equal(t, 2, r.PostsAnalyzed)
	assert.Len(t, r.Posts, 2)
	assert.False(t, r.GeneratedAt.IsZero())

	// 1000 followers over 50 following.
	assert.Equal(t, 20.0, r.Risk.FollowerFollowingRatio)
	assert.Equal(t, r.Stats.EngagementRate, r.Risk.AvgEngagementRate)
	assert.False(t, r.Risk.IsPrivate)

	// Run IDs are unique per report.
	assert.NotEqual(t, r.RunID, sampleReport().RunID)
}

func TestSetDuration(t *testing.T) {
	r := sampleReport()
	r.SetDuration(3456 * time.Millisecond)
	assert.Equal(t, 3.46, r.DurationSeconds)
}

func TestRiskRatioClampsZeroFollowing(t *testing.T) {
	profile := &metadata.ProfileMetadata{Username: "lurker", Followers: 500}
	stats := analytics.Analyze(nil, profile.Followers, analytics.DefaultOptions())
	r := New(profile, nil, stats, ratelimit.Stats{})

	assert.Equal(t, 500.0, r.Risk.FollowerFollowingRatio)
	assert.Zero(t, r.PostsAnalyzed)
}

func TestFilename(t *testing.T) {
	r := sampleReport()
	r.GeneratedAt = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "instagram_natgeo_20240301_120000.json", r.Filename("json"))
	assert.Equal(t, "instagram_natgeo_20240301_120000.md", r.Filename("md"))
}

func TestJSONExport(t *testing.T) {
	r := sampleReport()

	data, err := (&JSONExporter{}).Export(r)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, r.RunID, decoded["run_id"])
	assert.Equal(t, "natgeo", decoded["username"])

	stats := decoded["stats"].(map[string]interface{})
	assert.Equal(t, float64(2), stats["total_posts"])
	// avg likes 200 + avg comments 20, over 1000 followers.
	assert.Equal(t, float64(22), stats["engagement_rate_pct"])

	// The full post collection is exported, not just the ranked subset.
	posts := decoded["posts"].([]interface{})
	require.Len(t, posts, 2)
	first := posts[0].(map[string]interface{})
	assert.Equal(t, "Cabc", first["shortcode"])

	risk := decoded["risk_indicators"].(map[string]interface{})
	assert.Equal(t, float64(20), risk["follower_following_ratio"])
	assert.Equal(t, false, risk["is_private"])
}

func TestMarkdownExport(t *testing.T) {
	r := sampleReport()

	data, err := (&MarkdownExporter{}).Export(r)
	require.NoError(t, err)
	md := string(data)

	assert.Contains(t, md, "# Instagram Analytics: @natgeo")
	assert.Contains(t, md, "## Profile")
	assert.Contains(t, md, "## Account Signals")
	assert.Contains(t, md, "20.00")
	assert.Contains(t, md, "## Engagement")
	assert.Contains(t, md, "## Top Hashtags")
	assert.Contains(t, md, "sunset")
	assert.Contains(t, md, "## Top Posts")
	assert.Contains(t, md, "https://www.instagram.com/p/Cdef/")
}

func TestExporterFor(t *testing.T) {
	for _, format := range []string{"json", "markdown", "md"} {
		e, err := ExporterFor(format)
		require.NoError(t, err, format)
		assert.NotNil(t, e)
	}

	_, err := ExporterFor("xml")
	assert.Error(t, err)
}

func TestWriterSave(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(filepath.Join(dir, "reports"))
	require.NoError(t, err)

	r := sampleReport()
	path, err := w.Save(r, &JSONExporter{})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "reports", r.Filename("json")), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))

	// No temp file left behind.
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))

	assert.Equal(t, []string{path}, w.Written())
}

func TestRenderConsole(t *testing.T) {
	out := RenderConsole(sampleReport())

	assert.Contains(t, out, "natgeo")
	assert.Contains(t, out, "22.000%")
	assert.Contains(t, out, "#sunset")
	assert.Contains(t, out, "Lisbon")
}

func TestRenderConsoleEmptyStats(t *testing.T) {
	profile := &metadata.ProfileMetadata{Username: "ghost"}
	stats := analytics.Analyze(nil, 0, analytics.DefaultOptions())
	r := New(profile, nil, stats, ratelimit.Stats{})

	out := RenderConsole(r)
	assert.Contains(t, out, "ghost")
	assert.NotContains(t, out, "Peak hour")
	assert.Contains(t, out, "low confidence")
}

func TestFormatInt(t *testing.T) {
	assert.Equal(t, "0", formatInt(0))
	assert.Equal(t, "999", formatInt(999))
	assert.Equal(t, "1,000", formatInt(1000))
	assert.Equal(t, "283,000,000", formatInt(283000000))
}
