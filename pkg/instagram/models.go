package instagram

// ProfileResponse represents the top-level web profile response
type ProfileResponse struct {
	RequiresToLogin bool        `json:"requires_to_login"`
	Data            ProfileData `json:"data"`
	Status          string      `json:"status"`
}

// ProfileData wraps the user information in the response
type ProfileData struct {
	User User `json:"user"`
}

// User represents an Instagram user profile
type User struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	FullName       string    `json:"full_name"`
	Biography      string    `json:"biography"`
	IsPrivate      bool      `json:"is_private"`
	IsVerified     bool      `json:"is_verified"`
	ProfilePicURL  string    `json:"profile_pic_url_hd"`
	ExternalURL    string    `json:"external_url"`
	EdgeFollowedBy EdgeCount `json:"edge_followed_by"`
	EdgeFollow     EdgeCount `json:"edge_follow"`

	EdgeOwnerToTimelineMedia EdgeOwnerToTimelineMedia `json:"edge_owner_to_timeline_media"`
}

// EdgeCount is a bare count edge
type EdgeCount struct {
	Count int `json:"count"`
}

// MediaResponse represents a paginated media query response
type MediaResponse struct {
	Data   MediaData `json:"data"`
	Status string    `json:"status"`
}

// MediaData wraps the media owner in a paginated response
type MediaData struct {
	User struct {
		EdgeOwnerToTimelineMedia EdgeOwnerToTimelineMedia `json:"edge_owner_to_timeline_media"`
	} `json:"user"`
}

// EdgeOwnerToTimelineMedia contains the user's media information
type EdgeOwnerToTimelineMedia struct {
	Count    int      `json:"count"`
	PageInfo PageInfo `json:"page_info"`
	Edges    []Edge   `json:"edges"`
}

// PageInfo contains pagination information
type PageInfo struct {
	HasNextPage bool   `json:"has_next_page"`
	EndCursor   string `json:"end_cursor"`
}

// Edge wraps a single media node
type Edge struct {
	Node Node `json:"node"`
}

// Node represents a single media item (photo or video)
type Node struct {
	ID                    string                `json:"id"`
	Shortcode             string                `json:"shortcode"`
	DisplayURL            string                `json:"display_url"`
	IsVideo               bool                  `json:"is_video"`
	TakenAtTimestamp      int64                 `json:"taken_at_timestamp"`
	EdgeLikedBy           EdgeCount             `json:"edge_liked_by"`
	EdgeMediaToComment    EdgeCount             `json:"edge_media_to_comment"`
	EdgeMediaToCaption    EdgeMediaToCaption    `json:"edge_media_to_caption"`
	EdgeMediaToTaggedUser EdgeMediaToTaggedUser `json:"edge_media_to_tagged_user"`
	Location              *Location             `json:"location"`
	VideoViewCount        *int                  `json:"video_view_count"`
}

// EdgeMediaToCaption holds caption edges; Instagram returns at most one
type EdgeMediaToCaption struct {
	Edges []CaptionEdge `json:"edges"`
}

// CaptionEdge wraps a caption node
type CaptionEdge struct {
	Node CaptionNode `json:"node"`
}

// CaptionNode holds the caption text
type CaptionNode struct {
	Text string `json:"text"`
}

// EdgeMediaToTaggedUser holds the users tagged in a post
type EdgeMediaToTaggedUser struct {
	Edges []TaggedUserEdge `json:"edges"`
}

// TaggedUserEdge wraps a tagged user node
type TaggedUserEdge struct {
	Node TaggedUserNode `json:"node"`
}

// TaggedUserNode identifies one tagged account
type TaggedUserNode struct {
	User TaggedUser `json:"user"`
}

// TaggedUser is the account referenced by a tag
type TaggedUser struct {
	Username string `json:"username"`
	FullName string `json:"full_name"`
}

// Location represents a geographic tag on a post
type Location struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Caption returns the first caption text, or empty when untagged
func (n *Node) Caption() string {
	if len(n.EdgeMediaToCaption.Edges) > 0 {
		return n.EdgeMediaToCaption.Edges[0].Node.Text
	}
	return ""
}

// TaggedUsernames returns the usernames tagged in the post, in API order
func (n *Node) TaggedUsernames() []string {
	edges := n.EdgeMediaToTaggedUser.Edges
	if len(edges) == 0 {
		return nil
	}
	names := make([]string, 0, len(edges))
	for _, e := range edges {
		if e.Node.User.Username != "" {
			names = append(names, e.Node.User.Username)
		}
	}
	if len(names) == 0 {
		return nil
	}
	return names
}
