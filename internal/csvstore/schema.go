package csvstore

// Table names a backing CSV file and fixes its column set. Required columns
// come first in the file; unknown extra columns are preserved after them.
type Table struct {
	Name    string
	Columns []string
}

var (
	Users = Table{
		Name: "users",
		Columns: []string{
			"user_id", "user_password", "username", "username_lc",
			"created_at", "bio", "avatar_url", "is_admin",
		},
	}

	Posts = Table{
		Name:    "posts",
		Columns: []string{"post_id", "author_id", "content", "created_at", "is_retweet", "retweet_of_post_id"},
	}

	Likes = Table{
		Name:    "likes",
		Columns: []string{"post_id", "user_id", "created_at"},
	}

	Comments = Table{
		Name:    "comments",
		Columns: []string{"comment_id", "post_id", "author_id", "content", "created_at", "parent_comment_id"},
	}

	Follows = Table{
		Name:    "follows",
		Columns: []string{"follower_id", "followee_id", "created_at"},
	}

	Reports = Table{
		Name:    "reports",
		Columns: []string{"report_id", "target_type", "target_id", "reporter_id", "reason", "created_at", "resolved"},
	}
)

// AllTables lists every table the bootstrap must ensure.
var AllTables = []Table{Users, Posts, Likes, Comments, Follows, Reports}
