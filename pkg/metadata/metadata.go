package metadata

import (
	"regexp"
	"strings"
	"time"

	"igstats/pkg/instagram"
)

// MaxCaptionLength is the caption size cap carried into reports
const MaxCaptionLength = 500

var hashtagPattern = regexp.MustCompile(`#(\w+)`)

// ProfileMetadata is the normalized profile snapshot used by analytics
type ProfileMetadata struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	FullName   string `json:"full_name"`
	Biography  string `json:"biography,omitempty"`
	Followers  int    `json:"followers"`
	Following  int    `json:"following"`
	PostsCount int    `json:"posts_count"`
	IsPrivate  bool   `json:"is_private"`
	IsVerified bool   `json:"is_verified"`
	ProfileURL string `json:"profile_url"`
}

// PostMetadata is the normalized post record used by analytics
type PostMetadata struct {
	ID        string    `json:"id"`
	Shortcode string    `json:"shortcode"`
	URL       string    `json:"url"`
	IsVideo   bool      `json:"is_video"`
	TakenAt   time.Time `json:"taken_at"`
	Likes     int       `json:"likes"`
	Comments  int       `json:"comments"`
	Caption   string    `json:"caption,omitempty"`
	Hashtags  []string  `json:"hashtags,omitempty"`
	Location  *Location `json:"location,omitempty"`

	TaggedUsers []string `json:"tagged_users,omitempty"`
}

// Location is a geographic tag on a post
type Location struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Engagement returns the combined like and comment count
func (p *PostMetadata) Engagement() int {
	return p.Likes + p.Comments
}

// FromProfile converts an API user to a profile snapshot
func FromProfile(user *instagram.User) *ProfileMetadata {
	return &ProfileMetadata{
		ID:         user.ID,
		Username:   user.Username,
		FullName:   user.FullName,
		Biography:  user.Biography,
		Followers:  user.EdgeFollowedBy.Count,
		Following:  user.EdgeFollow.Count,
		PostsCount: user.EdgeOwnerToTimelineMedia.Count,
		IsPrivate:  user.IsPrivate,
		IsVerified: user.IsVerified,
		ProfileURL: instagram.GetUserProfileURL(user.Username),
	}
}

// FromMediaNode converts an API media node to a post record, extracting
// hashtags and truncating the caption
func FromMediaNode(node *instagram.Node) *PostMetadata {
	caption := node.Caption()

	post := &PostMetadata{
		ID:          node.ID,
		Shortcode:   node.Shortcode,
		URL:         instagram.GetPostURL(node.Shortcode),
		IsVideo:     node.IsVideo,
		TakenAt:     time.Unix(node.TakenAtTimestamp, 0).UTC(),
		Likes:       node.EdgeLikedBy.Count,
		Comments:    node.EdgeMediaToComment.Count,
		Caption:     TruncateCaption(caption, MaxCaptionLength),
		Hashtags:    ExtractHashtags(caption),
		TaggedUsers: node.TaggedUsernames(),
	}

	if node.Location != nil {
		post.Location = &Location{
			ID:   node.Location.ID,
			Name: node.Location.Name,
		}
	}

	return post
}

// ExtractHashtags returns all hashtags in a caption, lowercased, without the
// leading #, in order of appearance. Duplicates within one caption are kept
// so frequency counting sees every use.
func ExtractHashtags(caption string) []string {
	if caption == "" {
		return nil
	}

	matches := hashtagPattern.FindAllStringSubmatch(caption, -1)
	if len(matches) == 0 {
		return nil
	}

	tags := make([]string, 0, len(matches))
	for _, m := range matches {
		tags = append(tags, strings.ToLower(m[1]))
	}
	return tags
}

// TruncateCaption caps a caption at maxLength runes, appending an ellipsis
// when shortened
func TruncateCaption(caption string, maxLength int) string {
	if maxLength <= 0 {
		return caption
	}
	runes := []rune(caption)
	if len(runes) <= maxLength {
		return caption
	}
	return string(runes[:maxLength]) + "..."
}
