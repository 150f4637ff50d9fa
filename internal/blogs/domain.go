package blogs

import (
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Blog statuses. Only published blogs are publicly listed; draft and
// published are freely interchangeable by the author.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// Categories is the fixed category set blogs are grouped by. The public
// listing always returns one group per entry, in this order.
var Categories = []string{"Politics", "Movies", "Cultural", "Economics", "Cricket"}

// NormalizeCategory maps case-insensitive input onto the canonical category
// name, returning false for categories outside the fixed set. A fresh Caser
// per call keeps this safe under concurrent requests.
func NormalizeCategory(input string) (string, bool) {
	normalized := cases.Title(language.English).String(input)
	for _, c := range Categories {
		if c == normalized {
			return c, true
		}
	}
	return "", false
}

// Blog is a content entity with embedded comments and ratings. The author is
// immutable after creation.
type Blog struct {
	ID            string    `json:"_id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	Category      string    `json:"category"`
	Tags          []string  `json:"tags"`
	FeaturedImage string    `json:"featuredImage,omitempty"`
	AuthorID      string    `json:"author"`
	AuthorName    string    `json:"authorName,omitempty"`
	Status        string    `json:"status"`
	Comments      []Comment `json:"comments"`
	Ratings       []Rating  `json:"ratings"`
	AverageRating float64   `json:"averageRating"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Comment is embedded in its blog; the username is cached from the
// commenting user's verified identity at creation time.
type Comment struct {
	ID        string    `json:"_id"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// Rating is embedded in its blog; at most one per (blog, user) pair.
type Rating struct {
	UserID string `json:"userId"`
	Value  int    `json:"value"`
}

// FeaturedBlog is the projection returned by the random featured sample.
type FeaturedBlog struct {
	ID            string `json:"_id"`
	Title         string `json:"title"`
	Category      string `json:"category"`
	FeaturedImage string `json:"featuredImage,omitempty"`
	Author        string `json:"author"`
	ProfilePic    string `json:"profile_pic,omitempty"`
}

// AverageRating computes the mean rating value, 0 when unrated.
func AverageRating(ratings []Rating) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r.Value
	}
	return float64(sum) / float64(len(ratings))
}
