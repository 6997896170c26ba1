package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")).
			MarginBottom(1)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(24)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	highlightStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// RenderConsole renders a human-readable summary of the report for the
// terminal
func RenderConsole(r *Report) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Instagram Analytics: @%s", r.Username)))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("Profile"))
	b.WriteString("\n")
	writeLine(&b, "Followers", formatInt(r.Profile.Followers))
	writeLine(&b, "Following", formatInt(r.Profile.Following))
	writeLine(&b, "Total posts", formatInt(r.Profile.PostsCount))
	writeLine(&b, "Follower ratio", fmt.Sprintf("%.2f", r.Risk.FollowerFollowingRatio))
	if r.Risk.IsVerified {
		writeLine(&b, "Verified", "yes")
	}
	if r.Risk.IsPrivate {
		writeLine(&b, "Private", "yes")
	}
	b.WriteString("\n")

	s := r.Stats
	b.WriteString(sectionStyle.Render("Engagement"))
	b.WriteString("\n")
	writeLine(&b, "Posts analyzed", formatInt(s.TotalPosts))
	writeLine(&b, "Avg likes", fmt.Sprintf("%.2f", s.AvgLikes))
	writeLine(&b, "Avg comments", fmt.Sprintf("%.2f", s.AvgComments))
	b.WriteString(labelStyle.Render("Engagement rate"))
	b.WriteString(highlightStyle.Render(fmt.Sprintf("%.3f%%", s.EngagementRate)))
	b.WriteString("\n")
	if s.LowConfidence {
		b.WriteString(dimStyle.Render("(low confidence: too few posts or followers)"))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("Posting patterns"))
	b.WriteString("\n")
	if s.PeakHour != nil {
		writeLine(&b, "Peak hour", fmt.Sprintf("%02d:00", *s.PeakHour))
	}
	if s.AvgPostIntervalHours != nil {
		writeLine(&b, "Avg post interval", fmt.Sprintf("%.2f h", *s.AvgPostIntervalHours))
	}

	if len(s.TopHashtags) > 0 {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render("Top hashtags"))
		b.WriteString("\n")
		for i, tag := range s.TopHashtags {
			writeLine(&b, fmt.Sprintf("%d. #%s", i+1, tag.Name), formatInt(tag.Count))
		}
	}

	if len(s.TopLocations) > 0 {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render("Top locations"))
		b.WriteString("\n")
		for i, loc := range s.TopLocations {
			writeLine(&b, fmt.Sprintf("%d. %s", i+1, loc.Name), formatInt(loc.Count))
		}
	}

	b.WriteString("\n")
	footer := fmt.Sprintf("run %s · %d/%d requests in window",
		r.RunID, r.RateLimit.InWindow, r.RateLimit.MaxRequests)
	if r.DurationSeconds > 0 {
		footer += fmt.Sprintf(" · %.2fs", r.DurationSeconds)
	}
	b.WriteString(dimStyle.Render(footer))
	b.WriteString("\n")

	return b.String()
}

func writeLine(b *strings.Builder, label, value string) {
	b.WriteString(labelStyle.Render(label))
	b.WriteString(valueStyle.Render(value))
	b.WriteString("\n")
}

// formatInt renders an int with thousands separators
func formatInt(n int) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}

	var out strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		out.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if out.Len() > 0 {
			out.WriteString(",")
		}
		out.WriteString(s[i : i+3])
	}
	return out.String()
}
