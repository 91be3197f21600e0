package repository

import (
	"regexp"
	"sort"
	"strings"

	"social-feed/internal/csvstore"
	"social-feed/internal/domain"
)

// PageSize is the fixed feed page size.
const PageSize = 10

// FeedModeFollowing restricts the feed to the viewer's followees (plus the
// viewer). Any other mode value means the full feed.
const FeedModeFollowing = "following"

var hashtagRE = regexp.MustCompile(`#(\w+)`)

// ExtractHashtags returns the lowercased #word tokens of text, in order of
// appearance, duplicates included.
func ExtractHashtags(text string) []string {
	if text == "" {
		return nil
	}
	matches := hashtagRE.FindAllStringSubmatch(text, -1)
	tags := make([]string, 0, len(matches))
	for _, m := range matches {
		tags = append(tags, strings.ToLower(m[1]))
	}
	return tags
}

// FeedQuery selects and positions a feed page.
//
// Query grammar: "@name" filters by exact case-insensitive author username,
// "#tag" by hashtag membership, anything else is a case-insensitive substring
// match against content. Empty means no filter.
type FeedQuery struct {
	ViewerID string
	Query    string
	Mode     string
	Page     int
}

type FeedRepository struct {
	store *csvstore.Store
}

func NewFeedRepository(store *csvstore.Store) *FeedRepository {
	return &FeedRepository{store: store}
}

// GetFeed returns one newest-first page of posts matching the query, each
// enriched with author name, like/comment counts, viewer flags and the
// resolved retweet source.
func (r *FeedRepository) GetFeed(q FeedQuery) (*domain.GetFeedResponse, error) {
	postRows, err := r.store.Load(csvstore.Posts)
	if err != nil {
		return nil, err
	}

	posts := make([]*domain.Post, 0, len(postRows))
	for _, row := range postRows {
		posts = append(posts, postFromRow(row))
	}
	// ISO-8601 second-precision timestamps sort lexicographically; the stable
	// sort keeps append order among equal timestamps.
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt > posts[j].CreatedAt
	})

	if q.Mode == FeedModeFollowing && q.ViewerID != "" {
		followees, err := NewFollowRepository(r.store).FolloweeIDs(q.ViewerID)
		if err != nil {
			return nil, err
		}
		posts = filterPosts(posts, func(p *domain.Post) bool {
			return followees[p.AuthorID]
		})
	}

	posts, err = r.filterByQuery(posts, q.Query)
	if err != nil {
		return nil, err
	}

	total := len(posts)
	page := q.Page
	if page < 0 {
		page = 0
	}
	start := page * PageSize
	if start > total {
		start = total
	}
	end := start + PageSize
	if end > total {
		end = total
	}

	enriched, err := r.enrich(posts[start:end], q.ViewerID)
	if err != nil {
		return nil, err
	}

	return &domain.GetFeedResponse{
		Posts: enriched,
		Pagination: domain.Pagination{
			Page:     page,
			PageSize: PageSize,
			Total:    total,
			HasNext:  end < total,
		},
	}, nil
}

func (r *FeedRepository) filterByQuery(posts []*domain.Post, query string) ([]*domain.Post, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return posts, nil
	}

	if name, ok := strings.CutPrefix(q, "@"); ok {
		lc := strings.ToLower(name)
		userRows, err := r.store.Load(csvstore.Users)
		if err != nil {
			return nil, err
		}
		authorIDs := make(map[string]bool)
		for _, row := range userRows {
			if row["username_lc"] == lc {
				authorIDs[row["user_id"]] = true
			}
		}
		return filterPosts(posts, func(p *domain.Post) bool {
			return authorIDs[p.AuthorID]
		}), nil
	}

	if tag, ok := strings.CutPrefix(q, "#"); ok {
		want := strings.ToLower(tag)
		return filterPosts(posts, func(p *domain.Post) bool {
			for _, t := range ExtractHashtags(p.Content) {
				if t == want {
					return true
				}
			}
			return false
		}), nil
	}

	ql := strings.ToLower(q)
	return filterPosts(posts, func(p *domain.Post) bool {
		return strings.Contains(strings.ToLower(p.Content), ql)
	}), nil
}

func filterPosts(posts []*domain.Post, keep func(*domain.Post) bool) []*domain.Post {
	out := make([]*domain.Post, 0, len(posts))
	for _, p := range posts {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func (r *FeedRepository) enrich(posts []*domain.Post, viewerID string) ([]domain.FeedPost, error) {
	userRows, err := r.store.Load(csvstore.Users)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(userRows))
	for _, row := range userRows {
		names[row["user_id"]] = row["username"]
	}

	likeRows, err := r.store.Load(csvstore.Likes)
	if err != nil {
		return nil, err
	}
	likeCounts := make(map[string]int)
	likedByViewer := make(map[string]bool)
	for _, row := range likeRows {
		likeCounts[row["post_id"]]++
		if viewerID != "" && row["user_id"] == viewerID {
			likedByViewer[row["post_id"]] = true
		}
	}

	commentRows, err := r.store.Load(csvstore.Comments)
	if err != nil {
		return nil, err
	}
	commentCounts := make(map[string]int)
	for _, row := range commentRows {
		commentCounts[row["post_id"]]++
	}

	allPostRows, err := r.store.Load(csvstore.Posts)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*domain.Post, len(allPostRows))
	retweetedByViewer := make(map[string]bool)
	for _, row := range allPostRows {
		p := postFromRow(row)
		byID[p.ID] = p
		if viewerID != "" && p.AuthorID == viewerID && p.IsRetweet {
			retweetedByViewer[p.RetweetOfPostID] = true
		}
	}

	displayName := func(userID string) string {
		if name, ok := names[userID]; ok {
			return name
		}
		return UnknownUserLabel
	}

	out := make([]domain.FeedPost, 0, len(posts))
	for _, p := range posts {
		fp := domain.FeedPost{
			Post:         *p,
			AuthorName:   displayName(p.AuthorID),
			LikeCount:    likeCounts[p.ID],
			CommentCount: commentCounts[p.ID],
			Liked:        likedByViewer[p.ID],
			Retweeted:    retweetedByViewer[p.ID],
		}
		if p.IsRetweet {
			// nil RetweetOf means the source post was deleted.
			if src, ok := byID[p.RetweetOfPostID]; ok {
				fp.RetweetOf = &domain.FeedPost{
					Post:         *src,
					AuthorName:   displayName(src.AuthorID),
					LikeCount:    likeCounts[src.ID],
					CommentCount: commentCounts[src.ID],
					Liked:        likedByViewer[src.ID],
					Retweeted:    retweetedByViewer[src.ID],
				}
			}
		}
		out = append(out, fp)
	}
	return out, nil
}

// Trending counts hashtag occurrences across all posts and returns the topK
// most frequent tags. Ties keep first-seen order.
func (r *FeedRepository) Trending(topK int) ([]domain.Hashtag, error) {
	rows, err := r.store.Load(csvstore.Posts)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	order := 0
	for _, row := range rows {
		for _, tag := range ExtractHashtags(row["content"]) {
			if _, ok := counts[tag]; !ok {
				firstSeen[tag] = order
				order++
			}
			counts[tag]++
		}
	}

	tags := make([]domain.Hashtag, 0, len(counts))
	for tag, count := range counts {
		tags = append(tags, domain.Hashtag{Tag: tag, Count: count})
	}
	sort.Slice(tags, func(i, j int) bool {
		if tags[i].Count != tags[j].Count {
			return tags[i].Count > tags[j].Count
		}
		return firstSeen[tags[i].Tag] < firstSeen[tags[j].Tag]
	})
	if topK >= 0 && len(tags) > topK {
		tags = tags[:topK]
	}
	return tags, nil
}
