// Command seed populates the database with synthetic blog data for
// local development. It wipes the existing collections first.
package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/okravets/openblog/backend/internal/models"
	"github.com/okravets/openblog/backend/internal/repositories"
	"github.com/okravets/openblog/backend/internal/schema"
	"github.com/okravets/openblog/backend/pkg/config"
	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

const (
	numUsers = 20
	numPosts = 50
)

var categorySeeds = []struct {
	Name        string
	Slug        string
	Description string
	Color       string
}{
	{"Technology", "technology", "Software, hardware and everything in between", "#3b82f6"},
	{"Travel", "travel", "Trip reports and destination guides", "#f59e0b"},
	{"Food", "food", "Recipes and restaurant reviews", "#ef4444"},
	{"Science", "science", "Research news and explainers", "#8b5cf6"},
	{"Health", "health", "Fitness, nutrition and wellbeing", "#10b981"},
	{"Business", "business", "Startups, markets and management", "#6366f1"},
	{"Culture", "culture", "Books, film and music", "#ec4899"},
	{"Sports", "sports", "Match reports and analysis", "#14b8a6"},
	{"Education", "education", "Learning resources and study tips", "#f97316"},
	{"Photography", "photography", "Gear talk and photo essays", "#64748b"},
}

var firstNames = []string{"Olena", "Andriy", "Maria", "Taras", "Iryna", "Dmytro", "Sofia", "Oleg", "Kateryna", "Petro"}
var lastNames = []string{"Shevchenko", "Kovalenko", "Bondar", "Tkachenko", "Melnyk", "Kravets", "Boyko", "Lysenko"}

var tagPool = []string{
	"golang", "mongodb", "webdev", "tutorial", "opinion", "review",
	"beginners", "performance", "architecture", "travel", "food",
	"photography", "science", "health", "productivity",
}

var titleTemplates = []string{
	"Getting started with %s in 2026",
	"Why I stopped worrying about %s",
	"A practical guide to %s",
	"Ten lessons from a year of %s",
	"The hidden cost of %s",
	"Notes on %s from the field",
	"How we scaled %s at work",
	"Rethinking %s from first principles",
}

var paragraphs = []string{
	"The first thing most people get wrong is assuming the defaults are good enough. They rarely are, and the gap only shows up under load, long after the decisions that caused it were made.",
	"I spent the better part of a month measuring this, and the results surprised me. The conventional wisdom holds up in the average case but falls apart badly at the tails.",
	"There is a real tradeoff here between simplicity and control. Most teams should pick simplicity and revisit the decision when the numbers say otherwise, not before.",
	"What finally worked was embarrassingly simple. We removed the clever part, wrote down the invariant we actually cared about, and enforced it in one place instead of five.",
	"If you remember one thing from this post, make it this: measure before you optimize, and write the measurement down so the next person does not have to repeat it.",
	"The documentation covers the happy path well, but the edge cases are where the time goes. Below are the ones that cost us the most, in roughly descending order of pain.",
}

var commentLines = []string{
	"Great writeup, this saved me a lot of time.",
	"I ran into the same issue last week. The fix in section three worked for me.",
	"Interesting take, though I think it depends heavily on the workload.",
	"Thanks for sharing the benchmark numbers, rare to see actual data.",
	"Could you expand on the caching part? Not sure I follow the TTL reasoning.",
	"Bookmarked. We are about to make this exact decision at work.",
	"Strongly disagree with the conclusion but the analysis is solid.",
}

// City coordinates for post locations, [longitude, latitude]
var cities = [][2]float64{
	{30.5234, 50.4501}, // Kyiv
	{24.0297, 49.8397}, // Lviv
	{35.0462, 48.4647}, // Dnipro
	{30.7233, 46.4825}, // Odesa
	{36.2304, 49.9935}, // Kharkiv
}

func main() {
	cfg := config.Load()

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.CloseDB()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := schema.EnsureCollections(ctx, db.Database); err != nil {
		log.Fatalf("Failed to provision schema: %v", err)
	}

	for _, name := range []string{"users", "posts", "categories"} {
		if _, err := db.Database.Collection(name).DeleteMany(ctx, bson.M{}); err != nil {
			log.Fatalf("Failed to clear %s: %v", name, err)
		}
	}
	log.Println("Existing data cleared.")

	categoryIDs, err := seedCategories(ctx, db)
	if err != nil {
		log.Fatalf("Failed to seed categories: %v", err)
	}
	log.Printf("Seeded %d categories.", len(categoryIDs))

	userIDs, err := seedUsers(ctx, db)
	if err != nil {
		log.Fatalf("Failed to seed users: %v", err)
	}
	log.Printf("Seeded %d users.", len(userIDs))

	if err := seedPosts(ctx, db, userIDs, categoryIDs); err != nil {
		log.Fatalf("Failed to seed posts: %v", err)
	}
	log.Printf("Seeded %d posts.", numPosts)

	// Settle the denormalized category counters
	categoryRepo := repositories.NewMongoCategoryRepository(db.Database)
	if err := categoryRepo.ReconcilePostCounts(ctx); err != nil {
		log.Fatalf("Failed to reconcile category counts: %v", err)
	}
	log.Println("Category post counts reconciled. Seeding complete.")
}

func seedCategories(ctx context.Context, db *config.DB) ([]primitive.ObjectID, error) {
	docs := make([]interface{}, 0, len(categorySeeds))
	for _, c := range categorySeeds {
		docs = append(docs, models.Category{
			ID:          primitive.NewObjectID(),
			Name:        c.Name,
			Slug:        c.Slug,
			Description: c.Description,
			Color:       c.Color,
			CreatedAt:   time.Now(),
			PostCount:   0,
		})
	}

	res, err := db.Database.Collection("categories").InsertMany(ctx, docs)
	if err != nil {
		return nil, err
	}
	return lo.Map(res.InsertedIDs, func(id interface{}, _ int) primitive.ObjectID {
		return id.(primitive.ObjectID)
	}), nil
}

func seedUsers(ctx context.Context, db *config.DB) ([]primitive.ObjectID, error) {
	// One hash shared by every seed account; bcrypt is too slow to run
	// twenty times for throwaway data.
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	docs := make([]interface{}, 0, numUsers)
	for i := 0; i < numUsers; i++ {
		first := firstNames[i%len(firstNames)]
		last := lastNames[i%len(lastNames)]
		role := models.RoleReader
		if i < 8 {
			role = models.RoleAuthor
		}
		if i == 0 {
			role = models.RoleAdmin
		}
		docs = append(docs, models.User{
			ID:       primitive.NewObjectID(),
			Username: fmt.Sprintf("%s_%s_%d", strings.ToLower(first), strings.ToLower(last), i),
			Email:    fmt.Sprintf("%s.%s%d@example.com", strings.ToLower(first), strings.ToLower(last), i),
			Password: string(hash),
			Role:     role,
			Profile: models.Profile{
				FirstName: first,
				LastName:  last,
				Bio:       fmt.Sprintf("%s writes about %s.", first, lo.Sample(tagPool)),
			},
			CreatedAt:     time.Now().AddDate(0, 0, -rand.Intn(365)),
			Notifications: []models.Notification{},
		})
	}

	res, err := db.Database.Collection("users").InsertMany(ctx, docs)
	if err != nil {
		return nil, err
	}
	return lo.Map(res.InsertedIDs, func(id interface{}, _ int) primitive.ObjectID {
		return id.(primitive.ObjectID)
	}), nil
}

func seedPosts(ctx context.Context, db *config.DB, userIDs, categoryIDs []primitive.ObjectID) error {
	authors := userIDs[:8]
	docs := make([]interface{}, 0, numPosts)

	for i := 0; i < numPosts; i++ {
		tags := lo.Samples(tagPool, 2+rand.Intn(3))
		title := fmt.Sprintf(titleTemplates[i%len(titleTemplates)], tags[0])
		content := strings.Join(lo.Samples(paragraphs, 3+rand.Intn(3)), "\n\n")

		status := models.PostStatusPublished
		switch {
		case i%10 == 8:
			status = models.PostStatusDraft
		case i%10 == 9:
			status = models.PostStatusArchived
		}

		createdAt := time.Now().AddDate(0, 0, -rand.Intn(300))
		post := models.Post{
			ID:         primitive.NewObjectID(),
			Title:      title,
			Content:    content,
			AuthorID:   lo.Sample(authors),
			CategoryID: lo.Sample(categoryIDs),
			Tags:       tags,
			Comments:   seedComments(userIDs),
			Rating:     seedRating(userIDs),
			Views:      rand.Intn(5000),
			Status:     status,
			CreatedAt:  createdAt,
			UpdatedAt:  createdAt,
			Versions:   []models.Version{},
			Metadata:   models.NewMetadata(content),
		}
		if status == models.PostStatusPublished {
			publishedAt := createdAt.Add(time.Duration(rand.Intn(48)) * time.Hour)
			post.PublishedAt = &publishedAt
		}
		if i%3 == 0 {
			city := cities[rand.Intn(len(cities))]
			post.Location = &models.GeoPoint{Type: "Point", Coordinates: []float64{city[0], city[1]}}
		}
		docs = append(docs, post)
	}

	_, err := db.Database.Collection("posts").InsertMany(ctx, docs)
	return err
}

func seedComments(userIDs []primitive.ObjectID) []models.Comment {
	comments := make([]models.Comment, 0)
	for i := 0; i < rand.Intn(5); i++ {
		comment := models.NewComment(lo.Sample(userIDs), lo.Sample(commentLines), nil)
		// Most seeded comments are already through moderation
		if rand.Intn(4) > 0 {
			comment.Status = models.CommentStatusApproved
		}
		comment.Likes = rand.Intn(20)
		for j := 0; j < rand.Intn(3); j++ {
			reply := models.NewComment(lo.Sample(userIDs), lo.Sample(commentLines), &comment.ID)
			reply.Status = models.CommentStatusApproved
			comment.Replies = append(comment.Replies, reply)
		}
		comments = append(comments, comment)
	}
	return comments
}

func seedRating(userIDs []primitive.ObjectID) models.Rating {
	rating := models.Rating{Users: []models.RatingEntry{}}
	for _, id := range lo.Samples(userIDs, rand.Intn(len(userIDs))) {
		voteType := models.VoteLike
		if rand.Intn(5) == 0 {
			voteType = models.VoteDislike
		}
		rating.Users = append(rating.Users, models.RatingEntry{UserID: id, Type: voteType})
		if voteType == models.VoteLike {
			rating.Likes++
		} else {
			rating.Dislikes++
		}
	}
	return rating
}
