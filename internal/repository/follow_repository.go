package repository

import (
	"social-feed/internal/csvstore"
)

type FollowRepository struct {
	store *csvstore.Store
}

func NewFollowRepository(store *csvstore.Store) *FollowRepository {
	return &FollowRepository{store: store}
}

// Toggle flips the (follower, followee) relation. Following yourself is a
// no-op: self-follow is an implicit rule, never a stored row. Returns whether
// the follower follows the followee afterwards.
func (r *FollowRepository) Toggle(followerID, followeeID string) (bool, error) {
	if followerID == followeeID {
		return true, nil
	}
	var following bool
	err := r.store.Update(csvstore.Follows, func(rows []csvstore.Row) ([]csvstore.Row, error) {
		next := make([]csvstore.Row, 0, len(rows)+1)
		found := false
		for _, row := range rows {
			if row["follower_id"] == followerID && row["followee_id"] == followeeID {
				found = true
				continue
			}
			next = append(next, row)
		}
		if !found {
			next = append(next, csvstore.Row{
				"follower_id": followerID,
				"followee_id": followeeID,
				"created_at":  nowISO(),
			})
		}
		following = !found
		return next, nil
	})
	return following, err
}

// IsFollowing reports the follow relation, counting every user as following
// themselves.
func (r *FollowRepository) IsFollowing(followerID, followeeID string) (bool, error) {
	if followerID == followeeID {
		return true, nil
	}
	rows, err := r.store.Load(csvstore.Follows)
	if err != nil {
		return false, err
	}
	for _, row := range rows {
		if row["follower_id"] == followerID && row["followee_id"] == followeeID {
			return true, nil
		}
	}
	return false, nil
}

// FolloweeIDs returns the set of users whose posts userID's following feed
// shows: everyone they follow plus themselves.
func (r *FollowRepository) FolloweeIDs(userID string) (map[string]bool, error) {
	rows, err := r.store.Load(csvstore.Follows)
	if err != nil {
		return nil, err
	}
	ids := map[string]bool{userID: true}
	for _, row := range rows {
		if row["follower_id"] == userID {
			ids[row["followee_id"]] = true
		}
	}
	return ids, nil
}

// FollowerCount counts stored followers of userID (the implicit self-follow
// is not counted).
func (r *FollowRepository) FollowerCount(userID string) (int, error) {
	rows, err := r.store.Load(csvstore.Follows)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, row := range rows {
		if row["followee_id"] == userID {
			count++
		}
	}
	return count, nil
}
