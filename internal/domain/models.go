package domain

// ============================================
// Domain Models
// ============================================

// Timestamps are ISO-8601 second-precision strings, matching the CSV layout.

type User struct {
	ID         string `json:"id"`
	Password   string `json:"-"`
	Username   string `json:"username"`
	UsernameLC string `json:"-"`
	CreatedAt  string `json:"created_at"`
	Bio        string `json:"bio"`
	AvatarURL  string `json:"avatar_url"`
	IsAdmin    bool   `json:"is_admin"`
}

type Post struct {
	ID              string `json:"id"`
	AuthorID        string `json:"author_id"`
	Content         string `json:"content"`
	CreatedAt       string `json:"created_at"`
	IsRetweet       bool   `json:"is_retweet"`
	RetweetOfPostID string `json:"retweet_of_post_id,omitempty"`
}

type Like struct {
	PostID    string `json:"post_id"`
	UserID    string `json:"user_id"`
	CreatedAt string `json:"created_at"`
}

type Comment struct {
	ID              string `json:"id"`
	PostID          string `json:"post_id"`
	AuthorID        string `json:"author_id"`
	AuthorName      string `json:"author_name,omitempty"`
	Content         string `json:"content"`
	CreatedAt       string `json:"created_at"`
	ParentCommentID string `json:"parent_comment_id,omitempty"`
}

type Follow struct {
	FollowerID string `json:"follower_id"`
	FolloweeID string `json:"followee_id"`
	CreatedAt  string `json:"created_at"`
}

type Report struct {
	ID         string `json:"id"`
	TargetType string `json:"target_type"`
	TargetID   string `json:"target_id"`
	ReporterID string `json:"reporter_id"`
	Reason     string `json:"reason"`
	CreatedAt  string `json:"created_at"`
	Resolved   bool   `json:"resolved"`
}

// FeedPost is a Post enriched for rendering: author display name, like count,
// viewer-specific flags and the resolved retweet source (nil if the source
// post was deleted).
type FeedPost struct {
	Post
	AuthorName   string    `json:"author_name"`
	LikeCount    int       `json:"like_count"`
	CommentCount int       `json:"comment_count"`
	Liked        bool      `json:"liked"`
	Retweeted    bool      `json:"retweeted"`
	RetweetOf    *FeedPost `json:"retweet_of,omitempty"`
}

type Hashtag struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// ============================================
// Request/Response Models
// ============================================

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type SignupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type SignupResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type CreatePostRequest struct {
	Content string `json:"content"`
}

type CreateCommentRequest struct {
	Content         string `json:"content"`
	ParentCommentID string `json:"parent_comment_id"`
}

type UpdateProfileRequest struct {
	Bio       string `json:"bio"`
	AvatarURL string `json:"avatar_url"`
}

type CreateReportRequest struct {
	TargetType string `json:"target_type"`
	TargetID   string `json:"target_id"`
	Reason     string `json:"reason"`
}

type ResolveReportRequest struct {
	DeleteTarget bool `json:"delete_target"`
}

type ToggleResponse struct {
	Active bool `json:"active"`
	Count  int  `json:"count"`
}

type Pagination struct {
	Page     int  `json:"page"`
	PageSize int  `json:"page_size"`
	Total    int  `json:"total"`
	HasNext  bool `json:"has_next"`
}

type GetFeedResponse struct {
	Posts      []FeedPost `json:"posts"`
	Pagination Pagination `json:"pagination"`
}

type GetTrendingResponse struct {
	Hashtags []Hashtag `json:"hashtags"`
}

type GetCommentsResponse struct {
	Comments []Comment `json:"comments"`
}

type GetReportsResponse struct {
	Reports []Report `json:"reports"`
}
