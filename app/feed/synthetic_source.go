package feed

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/titouancv/linkedin-scrapper/app/catalog"
)

const syntheticPostCount = 160

var syntheticAuthors = []string{
	"Marie Dupont",
	"Jean Martin",
	"Sofia Rossi",
	"Luca Bianchi",
	"Anna Schmidt",
	"Thomas Bernard",
	"Camille Leroy",
	"Nadia Benali",
	"Olivier Moreau",
	"Sarah Nguyen",
	"David Cohen",
	"Emma Laurent",
}

var (
	syntheticOpeners = []string{
		"Quick note on %s:",
		"%s, what to remember:",
		"Some practical implications of %s:",
		"%s decoded:",
	}
	syntheticBullets = []string{
		"What it changes for compliance and governance",
		"Points to watch during operational rollout",
		"Risks of non-compliance and where to start",
		"How to build a realistic roadmap",
		"Open questions and trade-offs to anticipate",
		"Impact on suppliers and the value chain",
	}
	syntheticClosers = []string{
		"Curious to hear your feedback.",
		"I'd welcome concrete examples.",
		"How are you handling the implementation side?",
	}
)

// SyntheticSource generates a deterministic demo feed per topic. The same
// slug always yields the same authors, texts and counts.
type SyntheticSource struct {
	now      func() time.Time
	filterer *Filterer
	cache    *postCache[[]Post]
}

func NewSyntheticSource(now func() time.Time, ttl time.Duration) *SyntheticSource {
	return &SyntheticSource{
		now:      now,
		filterer: NewFilterer(),
		cache:    newPostCache[[]Post](now, ttl),
	}
}

func (s *SyntheticSource) Posts(ctx context.Context, topic catalog.Topic, need int) ([]Post, error) {
	unlock := s.cache.lock(topic.Slug)
	defer unlock()

	posts, ok := s.cache.get(topic.Slug)
	if !ok {
		posts = s.filterer.Run(generatePosts(topic, s.now()), topic.Filters)
		s.cache.set(topic.Slug, posts)
	}

	now := s.now()
	out := make([]Post, len(posts))
	for i, post := range posts {
		post.RelativeDate = formatAge(now.Sub(*post.CreatedAt), *post.CreatedAt)
		out[i] = post
	}
	return out, nil
}

func generatePosts(topic catalog.Topic, now time.Time) []Post {
	rng := newMulberry32(seedFromString(topic.Slug))

	posts := make([]Post, syntheticPostCount)
	for i := range posts {
		fullName := pick(rng, syntheticAuthors)
		hoursAgo := int(rng.next() * 72)
		minutesAgo := int(rng.next() * 60)
		createdAt := now.Add(-time.Duration(hoursAgo*60+minutesAgo) * time.Minute).UTC()

		base := 20 + int(rng.next()*400)
		likes := int(math.Floor(float64(base) * (0.8 + rng.next())))
		comments := int(math.Floor(float64(base) * (0.15 + rng.next()*0.5)))

		activityID := fmt.Sprintf("7%018d", seedFromString(fmt.Sprintf("%s-%d", topic.Slug, i)))

		posts[i] = Post{
			ID:    fmt.Sprintf("%s-%d", topic.Slug, i),
			Topic: topic.Slug,
			URL:   "https://www.linkedin.com/feed/update/urn:li:activity:" + activityID,
			Author: Author{
				FullName:  fullName,
				AvatarURL: "https://api.dicebear.com/9.x/initials/svg?seed=" + url.PathEscape(fullName),
			},
			Text:      generateText(topic.Name, rng),
			CreatedAt: &createdAt,
			Metrics: Metrics{
				Likes:    likes,
				Comments: comments,
			},
		}
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(*posts[j].CreatedAt)
	})
	return posts
}

func generateText(topicName string, rng *mulberry32) string {
	count := 2 + int(rng.next()*3)
	bullets := make([]string, count)
	for i := range bullets {
		bullets[i] = pick(rng, syntheticBullets)
	}

	return fmt.Sprintf(pick(rng, syntheticOpeners), topicName) +
		"\n\n- " + strings.Join(bullets, "\n- ") +
		"\n\n" + pick(rng, syntheticClosers)
}

// formatAge renders ages under a week relative to now and older ones as a date.
func formatAge(age time.Duration, createdAt time.Time) string {
	minutes := max(0, int(age/time.Minute))
	switch {
	case minutes < 60:
		return fmt.Sprintf("%dm ago", minutes)
	case minutes/60 < 24:
		return fmt.Sprintf("%dh ago", minutes/60)
	case minutes/60/24 < 7:
		return fmt.Sprintf("%d days ago", minutes/60/24)
	default:
		return createdAt.UTC().Format("2006-01-02")
	}
}

func seedFromString(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return h.Sum32()
}

// mulberry32 is a small seeded PRNG whose sequence depends only on the seed.
type mulberry32 struct {
	state uint32
}

func newMulberry32(seed uint32) *mulberry32 {
	return &mulberry32{state: seed}
}

func (m *mulberry32) next() float64 {
	m.state += 0x6d2b79f5
	t := m.state
	t = (t ^ (t >> 15)) * (1 | t)
	t = (t + (t^(t>>7))*(61|t)) ^ t
	return float64(t^(t>>14)) / 4294967296
}

func pick[T any](rng *mulberry32, items []T) T {
	return items[int(rng.next()*float64(len(items)))]
}
