package report

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"igstats/pkg/analytics"
)

// MarkdownExporter renders the report as a Markdown document with tables
type MarkdownExporter struct{}

func (e *MarkdownExporter) Ext() string {
	return "md"
}

func (e *MarkdownExporter) Export(r *Report) ([]byte, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "# Instagram Analytics: @%s\n\n", r.Username)
	fmt.Fprintf(&b, "Generated %s · run `%s`", r.GeneratedAt.Format("2006-01-02 15:04:05 MST"), r.RunID)
	if r.DurationSeconds > 0 {
		fmt.Fprintf(&b, " · %.2fs", r.DurationSeconds)
	}
	b.WriteString("\n\n")

	b.WriteString("## Profile\n\n")
	b.WriteString(profileTable(r))
	b.WriteString("\n\n")

	b.WriteString("## Account Signals\n\n")
	b.WriteString(riskTable(r))
	b.WriteString("\n\n")

	b.WriteString("## Engagement\n\n")
	b.WriteString(engagementTable(r))
	b.WriteString("\n\n")

	if r.Stats.LowConfidence {
		b.WriteString("> Low confidence: computed from too few posts or followers.\n\n")
	}

	b.WriteString("## Posting Patterns\n\n")
	b.WriteString(patternsTable(r))
	b.WriteString("\n\n")

	if len(r.Stats.TopHashtags) > 0 {
		b.WriteString("## Top Hashtags\n\n")
		b.WriteString(tagTable("Hashtag", r.Stats.TopHashtags))
		b.WriteString("\n\n")
	}

	if len(r.Stats.TopLocations) > 0 {
		b.WriteString("## Top Locations\n\n")
		b.WriteString(tagTable("Location", r.Stats.TopLocations))
		b.WriteString("\n\n")
	}

	if len(r.Stats.TopPosts) > 0 {
		b.WriteString("## Top Posts\n\n")
		b.WriteString(topPostsTable(r))
		b.WriteString("\n")
	}

	return []byte(b.String()), nil
}

func profileTable(r *Report) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Field", "Value"})
	t.AppendRows([]table.Row{
		{"Username", "@" + r.Profile.Username},
		{"Full name", r.Profile.FullName},
		{"Followers", r.Profile.Followers},
		{"Following", r.Profile.Following},
		{"Total posts", r.Profile.PostsCount},
		{"Verified", r.Profile.IsVerified},
	})
	return t.RenderMarkdown()
}

func riskTable(r *Report) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Signal", "Value"})
	t.AppendRows([]table.Row{
		{"Private", r.Risk.IsPrivate},
		{"Verified", r.Risk.IsVerified},
		{"Follower/following ratio", fmt.Sprintf("%.2f", r.Risk.FollowerFollowingRatio)},
		{"Avg engagement rate", fmt.Sprintf("%.3f%%", r.Risk.AvgEngagementRate)},
	})
	return t.RenderMarkdown()
}

func engagementTable(r *Report) string {
	s := r.Stats
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Metric", "Value"})
	t.AppendRows([]table.Row{
		{"Posts analyzed", s.TotalPosts},
		{"Total likes", s.TotalLikes},
		{"Total comments", s.TotalComments},
		{"Avg likes per post", s.AvgLikes},
		{"Avg comments per post", s.AvgComments},
		{"Engagement rate", fmt.Sprintf("%.3f%%", s.EngagementRate)},
	})
	return t.RenderMarkdown()
}

func patternsTable(r *Report) string {
	s := r.Stats
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Metric", "Value"})

	peak := "n/a"
	if s.PeakHour != nil {
		peak = fmt.Sprintf("%02d:00", *s.PeakHour)
	}
	t.AppendRow(table.Row{"Peak posting hour", peak})

	interval := "n/a"
	if s.AvgPostIntervalHours != nil {
		interval = fmt.Sprintf("%.2f h", *s.AvgPostIntervalHours)
	}
	t.AppendRow(table.Row{"Avg post interval", interval})

	for _, day := range s.DayDistribution {
		t.AppendRow(table.Row{day.Day + " posts", day.Count})
	}
	return t.RenderMarkdown()
}

func tagTable(label string, tags []analytics.TagCount) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", label, "Count"})
	for i, tag := range tags {
		t.AppendRow(table.Row{i + 1, tag.Name, tag.Count})
	}
	return t.RenderMarkdown()
}

func topPostsTable(r *Report) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Post", "Likes", "Comments", "Caption"})
	for i, p := range r.Stats.TopPosts {
		caption := p.Caption
		if runes := []rune(caption); len(runes) > 60 {
			caption = string(runes[:60]) + "..."
		}
		t.AppendRow(table.Row{i + 1, p.URL, p.Likes, p.Comments, caption})
	}
	return t.RenderMarkdown()
}
