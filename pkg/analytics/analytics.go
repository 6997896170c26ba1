package analytics

import (
	"math"
	"sort"
	"time"

	"igstats/pkg/metadata"
)

// Options bounds the ranked sections of the computed stats
type Options struct {
	TopHashtags  int
	TopLocations int
	TopPosts     int
}

// DefaultOptions returns the standard ranking sizes
func DefaultOptions() Options {
	return Options{
		TopHashtags:  10,
		TopLocations: 10,
		TopPosts:     5,
	}
}

// TagCount is a ranked hashtag or location with its usage count
type TagCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Stats holds every metric computed from a profile's posts.
//
// All float fields are rounded: averages to 2 decimal places, the engagement
// rate to 3. PeakHour and AvgPostIntervalHours are nil when the input has
// too few posts to define them.
type Stats struct {
	TotalPosts    int `json:"total_posts"`
	TotalLikes    int `json:"total_likes"`
	TotalComments int `json:"total_comments"`

	AvgLikes       float64 `json:"avg_likes"`
	AvgComments    float64 `json:"avg_comments"`
	EngagementRate float64 `json:"engagement_rate_pct"`

	// LowConfidence marks stats computed from an empty sample or a profile
	// reporting zero followers.
	LowConfidence bool `json:"low_confidence,omitempty"`

	PeakHour             *int       `json:"peak_hour,omitempty"`
	HourHistogram        [24]int    `json:"hour_histogram"`
	DayDistribution      []DayCount `json:"day_distribution"`
	AvgPostIntervalHours *float64   `json:"avg_post_interval_hours,omitempty"`

	TopHashtags  []TagCount               `json:"top_hashtags,omitempty"`
	TopLocations []TagCount               `json:"top_locations,omitempty"`
	TopPosts     []*metadata.PostMetadata `json:"top_posts,omitempty"`
}

// DayCount is the number of posts published on one weekday
type DayCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// Analyze computes stats from a profile's posts. It is pure: the input slice
// is never mutated, and the same input always produces the same output.
// Followers below 1 are clamped to 1 so the engagement rate never divides
// by zero.
func Analyze(posts []*metadata.PostMetadata, followers int, opts Options) *Stats {
	stats := &Stats{
		DayDistribution: emptyDayDistribution(),
	}
	if len(posts) == 0 {
		stats.LowConfidence = true
		return stats
	}

	// Work on a chronologically sorted copy so ranking tie-breaks and
	// interval math are deterministic regardless of input order.
	sorted := make([]*metadata.PostMetadata, len(posts))
	copy(sorted, posts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TakenAt.Before(sorted[j].TakenAt)
	})

	stats.TotalPosts = len(sorted)
	for _, p := range sorted {
		stats.TotalLikes += p.Likes
		stats.TotalComments += p.Comments
		stats.HourHistogram[p.TakenAt.Hour()]++
		stats.DayDistribution[int(p.TakenAt.Weekday())].Count++
	}

	n := float64(len(sorted))
	stats.AvgLikes = round2(float64(stats.TotalLikes) / n)
	stats.AvgComments = round2(float64(stats.TotalComments) / n)

	if followers < 1 {
		followers = 1
		stats.LowConfidence = true
	}
	stats.EngagementRate = round3((stats.AvgLikes + stats.AvgComments) / float64(followers) * 100)

	stats.PeakHour = peakHour(stats.HourHistogram)
	stats.AvgPostIntervalHours = avgInterval(sorted)
	stats.TopHashtags = topTags(sorted, opts.TopHashtags, hashtagsOf)
	stats.TopLocations = topTags(sorted, opts.TopLocations, locationOf)
	stats.TopPosts = topPosts(sorted, opts.TopPosts)

	return stats
}

// peakHour returns the hour with the most posts; ties resolve to the lowest
// hour. Nil when no posts were counted.
func peakHour(histogram [24]int) *int {
	best, bestCount := 0, 0
	for hour, count := range histogram {
		if count > bestCount {
			best, bestCount = hour, count
		}
	}
	if bestCount == 0 {
		return nil
	}
	return &best
}

// avgInterval returns the mean gap between consecutive posts in hours,
// rounded to 2 decimal places. Nil with fewer than two posts.
func avgInterval(sorted []*metadata.PostMetadata) *float64 {
	if len(sorted) < 2 {
		return nil
	}

	span := sorted[len(sorted)-1].TakenAt.Sub(sorted[0].TakenAt)
	hours := round2(span.Hours() / float64(len(sorted)-1))
	return &hours
}

// topTags counts tag occurrences across posts and returns the limit most
// frequent. Ties rank by first appearance in chronological order.
func topTags(sorted []*metadata.PostMetadata, limit int, tagsOf func(*metadata.PostMetadata) []string) []TagCount {
	if limit <= 0 {
		return nil
	}

	counts := make(map[string]int)
	var order []string
	for _, p := range sorted {
		for _, tag := range tagsOf(p) {
			if counts[tag] == 0 {
				order = append(order, tag)
			}
			counts[tag]++
		}
	}
	if len(order) == 0 {
		return nil
	}

	ranked := make([]TagCount, 0, len(order))
	for _, tag := range order {
		ranked = append(ranked, TagCount{Name: tag, Count: counts[tag]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func hashtagsOf(p *metadata.PostMetadata) []string {
	return p.Hashtags
}

func locationOf(p *metadata.PostMetadata) []string {
	if p.Location == nil || p.Location.Name == "" {
		return nil
	}
	return []string{p.Location.Name}
}

// topPosts returns the limit posts with the highest combined engagement.
// Ties rank by chronological order.
func topPosts(sorted []*metadata.PostMetadata, limit int) []*metadata.PostMetadata {
	if limit <= 0 {
		return nil
	}

	ranked := make([]*metadata.PostMetadata, len(sorted))
	copy(ranked, sorted)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Engagement() > ranked[j].Engagement()
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func emptyDayDistribution() []DayCount {
	days := make([]DayCount, 7)
	for i := time.Sunday; i <= time.Saturday; i++ {
		days[i] = DayCount{Day: i.String()}
	}
	return days
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
