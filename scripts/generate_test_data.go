// Generates a local CSV fixture set: users (one admin), posts with hashtags,
// likes, follows and one open report. Run with --clean to delete the data
// files instead.
package main

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"social-feed/internal/csvstore"
)

const (
	numUsers     = 20
	postsPerUser = 5
)

var sampleTags = []string{"go", "python", "coffee", "music", "news"}

func main() {
	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}

	if len(os.Args) > 1 && os.Args[1] == "--clean" {
		cleanTestData(dataDir)
		return
	}

	generateTestData(dataDir)
}

func cleanTestData(dataDir string) {
	for _, t := range csvstore.AllTables {
		path := filepath.Join(dataDir, t.Name+".csv")
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Fatal("remove:", err)
		}
	}
	fmt.Println("data files removed")
}

func generateTestData(dataDir string) {
	store := csvstore.New(dataDir)
	if err := store.Bootstrap(); err != nil {
		log.Fatal("bootstrap:", err)
	}

	existing, err := store.Load(csvstore.Users)
	if err != nil {
		log.Fatal("load users:", err)
	}
	if len(existing) > 0 {
		fmt.Printf("users.csv already has %d rows, skipping. Run with --clean first to regenerate.\n", len(existing))
		return
	}

	// One bcrypt hash for all fixture users, cost 10 is ~100ms per call.
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), 10)
	if err != nil {
		log.Fatal("bcrypt:", err)
	}

	ts := func(i int) string {
		return time.Now().Add(-time.Duration(i) * time.Minute).Format("2006-01-02T15:04:05")
	}

	userIDs := make([]string, numUsers)
	fmt.Printf("[1/4] users (%d)...\n", numUsers)
	for i := range userIDs {
		userIDs[i] = uuid.NewString()
		name := fmt.Sprintf("user_%03d", i)
		if i == 0 {
			name = "admin"
		}
		row := csvstore.Row{
			"user_id":       userIDs[i],
			"user_password": string(hashed),
			"username":      name,
			"username_lc":   strings.ToLower(name),
			"created_at":    ts(numUsers - i),
			"bio":           "",
			"avatar_url":    "",
			"is_admin":      boolString(i == 0),
		}
		if err := store.Append(csvstore.Users, row); err != nil {
			log.Fatal("append user:", err)
		}
	}

	fmt.Printf("[2/4] posts (%d)...\n", numUsers*postsPerUser)
	postIDs := make([]string, 0, numUsers*postsPerUser)
	for i, userID := range userIDs {
		for j := 0; j < postsPerUser; j++ {
			id := uuid.NewString()
			postIDs = append(postIDs, id)
			tag := sampleTags[rand.Intn(len(sampleTags))]
			row := csvstore.Row{
				"post_id":            id,
				"author_id":          userID,
				"content":            fmt.Sprintf("post %d by user %d #%s", j, i, tag),
				"created_at":         ts(j),
				"is_retweet":         boolString(false),
				"retweet_of_post_id": "",
			}
			if err := store.Append(csvstore.Posts, row); err != nil {
				log.Fatal("append post:", err)
			}
		}
	}

	fmt.Println("[3/4] likes and follows...")
	for i, userID := range userIDs {
		likeRow := csvstore.Row{
			"post_id":    postIDs[rand.Intn(len(postIDs))],
			"user_id":    userID,
			"created_at": ts(0),
		}
		if err := store.Append(csvstore.Likes, likeRow); err != nil {
			log.Fatal("append like:", err)
		}

		followRow := csvstore.Row{
			"follower_id": userID,
			"followee_id": userIDs[(i+1)%numUsers],
			"created_at":  ts(0),
		}
		if err := store.Append(csvstore.Follows, followRow); err != nil {
			log.Fatal("append follow:", err)
		}
	}

	fmt.Println("[4/4] reports...")
	reportRow := csvstore.Row{
		"report_id":   uuid.NewString(),
		"target_type": "post",
		"target_id":   postIDs[0],
		"reporter_id": userIDs[1],
		"reason":      "fixture report",
		"created_at":  ts(0),
		"resolved":    boolString(false),
	}
	if err := store.Append(csvstore.Reports, reportRow); err != nil {
		log.Fatal("append report:", err)
	}

	fmt.Printf("done: %d users (password123), admin user is 'admin'\n", numUsers)
}

func boolString(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
