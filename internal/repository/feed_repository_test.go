package repository

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"social-feed/internal/domain"
)

func TestExtractHashtags(t *testing.T) {
	assert.Nil(t, ExtractHashtags(""))
	assert.Empty(t, ExtractHashtags("no tags here"))
	assert.Equal(t, []string{"go", "go", "dev"}, ExtractHashtags("#Go and #go, also #dev"))
	assert.Equal(t, []string{"python3"}, ExtractHashtags("try #python3"))
}

func TestFeedRepository_SearchByAuthor(t *testing.T) {
	store := newTestStore(t)
	users := NewUserRepository(store)
	posts := NewPostRepository(store)
	feed := NewFeedRepository(store)

	alice, err := users.Create("alice", "pw")
	require.NoError(t, err)
	bob, err := users.Create("bob", "pw")
	require.NoError(t, err)

	_, err = posts.Create(alice.ID, "from alice", "")
	require.NoError(t, err)
	_, err = posts.Create(bob.ID, "from bob mentioning alice", "")
	require.NoError(t, err)

	for _, query := range []string{"@alice", "@ALICE"} {
		resp, err := feed.GetFeed(FeedQuery{Query: query})
		require.NoError(t, err)
		require.Len(t, resp.Posts, 1, "query %q", query)
		assert.Equal(t, alice.ID, resp.Posts[0].AuthorID)
	}

	resp, err := feed.GetFeed(FeedQuery{Query: "@nobody"})
	require.NoError(t, err)
	assert.Empty(t, resp.Posts)
}

func TestFeedRepository_SearchByHashtag(t *testing.T) {
	store := newTestStore(t)
	posts := NewPostRepository(store)
	feed := NewFeedRepository(store)

	match, err := posts.Create("u1", "I love #Python", "")
	require.NoError(t, err)
	_, err = posts.Create("u1", "plain python mention", "")
	require.NoError(t, err)
	_, err = posts.Create("u1", "try #python3 instead", "")
	require.NoError(t, err)

	resp, err := feed.GetFeed(FeedQuery{Query: "#python"})
	require.NoError(t, err)
	require.Len(t, resp.Posts, 1)
	assert.Equal(t, match.ID, resp.Posts[0].ID)
}

func TestFeedRepository_SearchSubstring(t *testing.T) {
	store := newTestStore(t)
	posts := NewPostRepository(store)
	feed := NewFeedRepository(store)

	_, err := posts.Create("u1", "Data science is fun", "")
	require.NoError(t, err)
	_, err = posts.Create("u1", "totally unrelated", "")
	require.NoError(t, err)

	resp, err := feed.GetFeed(FeedQuery{Query: "data"})
	require.NoError(t, err)
	require.Len(t, resp.Posts, 1)
	assert.Equal(t, "Data science is fun", resp.Posts[0].Content)
}

func TestFeedRepository_Pagination(t *testing.T) {
	store := newTestStore(t)
	posts := NewPostRepository(store)
	feed := NewFeedRepository(store)

	for i := 0; i < 15; i++ {
		_, err := posts.Create("u1", fmt.Sprintf("post %d", i), "")
		require.NoError(t, err)
	}

	resp, err := feed.GetFeed(FeedQuery{Page: 0})
	require.NoError(t, err)
	assert.Len(t, resp.Posts, PageSize)
	assert.Equal(t, 15, resp.Pagination.Total)
	assert.True(t, resp.Pagination.HasNext)

	resp, err = feed.GetFeed(FeedQuery{Page: 1})
	require.NoError(t, err)
	assert.Len(t, resp.Posts, 5)
	assert.False(t, resp.Pagination.HasNext)

	resp, err = feed.GetFeed(FeedQuery{Page: 5})
	require.NoError(t, err)
	assert.Empty(t, resp.Posts)
	assert.False(t, resp.Pagination.HasNext)

	// Negative pages clamp to the first page.
	resp, err = feed.GetFeed(FeedQuery{Page: -2})
	require.NoError(t, err)
	assert.Len(t, resp.Posts, PageSize)
	assert.Equal(t, 0, resp.Pagination.Page)
}

func TestFeedRepository_FollowingMode(t *testing.T) {
	store := newTestStore(t)
	posts := NewPostRepository(store)
	follows := NewFollowRepository(store)
	feed := NewFeedRepository(store)

	_, err := follows.Toggle("u1", "u2")
	require.NoError(t, err)

	_, err = posts.Create("u1", "mine", "")
	require.NoError(t, err)
	_, err = posts.Create("u2", "followed", "")
	require.NoError(t, err)
	_, err = posts.Create("u3", "stranger", "")
	require.NoError(t, err)

	resp, err := feed.GetFeed(FeedQuery{ViewerID: "u1", Mode: FeedModeFollowing})
	require.NoError(t, err)
	require.Len(t, resp.Posts, 2)
	for _, p := range resp.Posts {
		assert.Contains(t, []string{"u1", "u2"}, p.AuthorID)
	}

	// Without a viewer the mode is ignored.
	resp, err = feed.GetFeed(FeedQuery{Mode: FeedModeFollowing})
	require.NoError(t, err)
	assert.Len(t, resp.Posts, 3)
}

func TestFeedRepository_Enrichment(t *testing.T) {
	store := newTestStore(t)
	users := NewUserRepository(store)
	posts := NewPostRepository(store)
	likes := NewLikeRepository(store)
	comments := NewCommentRepository(store)
	feed := NewFeedRepository(store)

	alice, err := users.Create("alice", "pw")
	require.NoError(t, err)

	src, err := posts.Create(alice.ID, "original", "")
	require.NoError(t, err)
	_, err = posts.Create("viewer", "", src.ID)
	require.NoError(t, err)
	_, err = likes.Toggle(src.ID, "viewer")
	require.NoError(t, err)
	_, err = comments.Create(src.ID, "viewer", "hi", "")
	require.NoError(t, err)

	resp, err := feed.GetFeed(FeedQuery{ViewerID: "viewer"})
	require.NoError(t, err)
	require.Len(t, resp.Posts, 2)

	var original, retweet *domain.FeedPost
	for i := range resp.Posts {
		if resp.Posts[i].ID == src.ID {
			original = &resp.Posts[i]
		} else {
			retweet = &resp.Posts[i]
		}
	}
	require.NotNil(t, original)
	require.NotNil(t, retweet)

	assert.Equal(t, "alice", original.AuthorName)
	assert.Equal(t, 1, original.LikeCount)
	assert.Equal(t, 1, original.CommentCount)
	assert.True(t, original.Liked)
	assert.True(t, original.Retweeted)

	// The retweet author has no user row: unknown-author sentinel.
	assert.Equal(t, UnknownUserLabel, retweet.AuthorName)
	require.NotNil(t, retweet.RetweetOf)
	assert.Equal(t, src.ID, retweet.RetweetOf.ID)
	assert.Equal(t, "alice", retweet.RetweetOf.AuthorName)
}

func TestFeedRepository_RetweetOfDeletedPost(t *testing.T) {
	store := newTestStore(t)
	posts := NewPostRepository(store)
	feed := NewFeedRepository(store)

	src, err := posts.Create("u1", "doomed", "")
	require.NoError(t, err)
	rt, err := posts.Create("u2", "", src.ID)
	require.NoError(t, err)

	require.NoError(t, posts.Delete(src.ID))

	resp, err := feed.GetFeed(FeedQuery{})
	require.NoError(t, err)
	require.Len(t, resp.Posts, 1)
	assert.Equal(t, rt.ID, resp.Posts[0].ID)
	assert.Nil(t, resp.Posts[0].RetweetOf, "deleted source renders as placeholder")
}

func TestFeedRepository_Trending(t *testing.T) {
	store := newTestStore(t)
	posts := NewPostRepository(store)
	feed := NewFeedRepository(store)

	_, err := posts.Create("u1", "first #a", "")
	require.NoError(t, err)
	_, err = posts.Create("u1", "second #a", "")
	require.NoError(t, err)
	_, err = posts.Create("u1", "third #b", "")
	require.NoError(t, err)

	tags, err := feed.Trending(2)
	require.NoError(t, err)
	assert.Equal(t, []domain.Hashtag{{Tag: "a", Count: 2}, {Tag: "b", Count: 1}}, tags)
}

func TestFeedRepository_TrendingTieOrder(t *testing.T) {
	store := newTestStore(t)
	posts := NewPostRepository(store)
	feed := NewFeedRepository(store)

	_, err := posts.Create("u1", "#x arrives first", "")
	require.NoError(t, err)
	_, err = posts.Create("u1", "#y arrives second", "")
	require.NoError(t, err)

	tags, err := feed.Trending(10)
	require.NoError(t, err)
	assert.Equal(t, []domain.Hashtag{{Tag: "x", Count: 1}, {Tag: "y", Count: 1}}, tags)
}
