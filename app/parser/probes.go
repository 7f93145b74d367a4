package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	actorNameLink  = `a[data-tracking-control-name="public_post_feed-actor-name"]`
	actorImageLink = `a[data-tracking-control-name="public_post_feed-actor-image"]`
	commentary     = `[data-test-id="main-feed-activity-card__commentary"]`
	entityLockup   = `.base-main-feed-card__entity-lockup time`
	reactions      = `[data-test-id="social-actions__reactions"]`
	comments       = `[data-test-id="social-actions__comments"]`
)

// page is what a probe looks at: the parsed document plus the raw markup for
// probes that need to run their own parser.
type page struct {
	doc *goquery.Document
	raw string
}

type probe func(p *page) string

// rule lists the probes for one field in priority order. The first probe
// whose cleaned value is non-empty wins; otherwise the field keeps its default.
type rule struct {
	field  Field
	probes []probe
	clean  func(string) string
	apply  func(post *Post, value string)
}

var rules = []rule{
	{
		field: FieldAuthorName,
		probes: []probe{
			allText(actorNameLink),
			ogTitleAuthor,
		},
		clean: cleanName,
		apply: func(post *Post, v string) { post.AuthorName = v },
	},
	{
		field: FieldAuthorAvatar,
		probes: []probe{
			attr(actorImageLink+" img", "data-delayed-url"),
			attr(actorImageLink+" img", "src"),
		},
		clean: strings.TrimSpace,
		apply: func(post *Post, v string) { post.AuthorAvatar = v },
	},
	{
		field: FieldAuthorProfileURL,
		probes: []probe{
			attr(actorImageLink, "href"),
			attr(actorNameLink, "href"),
		},
		clean: strings.TrimSpace,
		apply: func(post *Post, v string) { post.AuthorProfileURL = v },
	},
	{
		field: FieldContent,
		probes: []probe{
			allText(commentary),
			attr(`meta[property="og:description"]`, "content"),
			articleText,
		},
		clean: cleanText,
		apply: func(post *Post, v string) { post.Content = v },
	},
	{
		field: FieldRelativeDate,
		probes: []probe{
			firstText(entityLockup),
			firstText("time"),
		},
		clean: cleanRelativeDate,
		apply: func(post *Post, v string) { post.RelativeDate = v },
	},
	{
		field: FieldImageURL,
		probes: []probe{
			attrs("img.w-main-feed-card-media", "src", "data-delayed-url"),
			attrs(`[data-test-id="feed-images-content"] img`, "src", "data-delayed-url"),
			attrs(".main-feed-activity-card img.lazy-load, .main-feed-activity-card img.lazy-loaded", "src", "data-delayed-url"),
		},
		clean: strings.TrimSpace,
		apply: func(post *Post, v string) { post.ImageURL = v },
	},
	{
		field: FieldLikes,
		probes: []probe{
			attr(reactions, "data-num-reactions"),
			attr("[data-num-reactions]", "data-num-reactions"),
		},
		clean: cleanCount,
		apply: func(post *Post, v string) { post.Likes = atoi(v) },
	},
	{
		field: FieldComments,
		probes: []probe{
			attr(comments, "data-num-comments"),
			attr("[data-num-comments]", "data-num-comments"),
		},
		clean: cleanCount,
		apply: func(post *Post, v string) { post.Comments = atoi(v) },
	},
}

func allText(selector string) probe {
	return func(p *page) string {
		return p.doc.Find(selector).Text()
	}
}

func firstText(selector string) probe {
	return func(p *page) string {
		return p.doc.Find(selector).First().Text()
	}
}

// attr reads an attribute from the first element matching selector.
func attr(selector, name string) probe {
	return func(p *page) string {
		value, _ := p.doc.Find(selector).First().Attr(name)
		return value
	}
}

// attrs reads the first non-blank of several attributes from the first
// element matching selector.
func attrs(selector string, names ...string) probe {
	return func(p *page) string {
		sel := p.doc.Find(selector).First()
		for _, name := range names {
			if value, ok := sel.Attr(name); ok && strings.TrimSpace(value) != "" {
				return value
			}
		}
		return ""
	}
}

// ogTitleAuthor reads "Jane Doe on LinkedIn: ..." style share titles.
func ogTitleAuthor(p *page) string {
	title, _ := p.doc.Find(`meta[property="og:title"]`).First().Attr("content")
	name, _, found := strings.Cut(title, " on LinkedIn")
	if !found {
		return ""
	}
	return name
}

// articleText runs readability over article shares only; regular posts have
// no <article> element and readability would pick up page chrome instead.
func articleText(p *page) string {
	if p.doc.Find("article").Length() == 0 {
		return ""
	}
	text, _ := NewArticleReader().Text(p.raw)
	return text
}
