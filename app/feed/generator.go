package feed

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"html"
	"mime"
	"path"
	"strings"
	"time"

	"github.com/titouancv/linkedin-scrapper/app/catalog"
	"github.com/titouancv/linkedin-scrapper/app/cfg"
	"github.com/titouancv/linkedin-scrapper/app/parser"
)

const itemTitleLength = 80

// Generator renders a topic feed page as RSS 2.0.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) Run(topic catalog.Topic, posts []Post) (string, error) {
	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">`)
	buf.WriteString("\n  <channel>\n")

	g.writeElement(&buf, "title", fmt.Sprintf("%s on LinkedIn", topic.Name), 4)
	g.writeElement(&buf, "link", g.selfLink(topic.Slug), 4)
	description := topic.Description
	if description == "" {
		description = fmt.Sprintf("Recent LinkedIn posts about %s", topic.Name)
	}
	g.writeElement(&buf, "description", description, 4)

	buf.WriteString(fmt.Sprintf("    <atom:link href=\"%s\" rel=\"self\" type=\"application/rss+xml\" />\n",
		html.EscapeString(g.selfLink(topic.Slug))))

	lastBuildDate := time.Now().In(time.Local)
	if len(posts) > 0 && posts[0].CreatedAt != nil {
		lastBuildDate = *posts[0].CreatedAt
	}

	g.writeElement(&buf, "lastBuildDate", lastBuildDate.Format(time.RFC1123Z), 4)
	g.writeElement(&buf, "generator", fmt.Sprintf("LinkedIn-Radar/%s", cfg.Get().Version), 4)
	if topic.Field != "" {
		g.writeElement(&buf, "category", topic.Field, 4)
	}

	for _, post := range posts {
		g.writeItem(&buf, post)
	}

	buf.WriteString("  </channel>\n</rss>")

	return buf.String(), nil
}

func (g *Generator) writeItem(buf *bytes.Buffer, post Post) {
	buf.WriteString("    <item>\n")

	guid := post.URL
	if guid == "" {
		guid = post.ID
	}
	buf.WriteString(fmt.Sprintf("      <guid isPermaLink=\"%t\">", g.isURL(guid)))
	xml.EscapeText(buf, []byte(guid))
	buf.WriteString("</guid>\n")

	g.writeElement(buf, "title", g.itemTitle(post), 6)

	if post.URL != "" {
		g.writeElement(buf, "link", post.URL, 6)
	}

	g.writeElement(buf, "description", post.Text, 6)

	if post.CreatedAt != nil {
		g.writeElement(buf, "pubDate", post.CreatedAt.Format(time.RFC1123Z), 6)
	}

	if post.Author.FullName != "" {
		g.writeElement(buf, "author", post.Author.FullName, 6)
	}

	if post.ImageURL != "" {
		buf.WriteString(fmt.Sprintf("      <enclosure url=\"%s\" length=\"0\" type=\"%s\" />\n",
			html.EscapeString(post.ImageURL),
			html.EscapeString(g.imageType(post.ImageURL))))
	}

	buf.WriteString("    </item>\n")
}

// itemTitle is the author followed by the opening words of the post.
func (g *Generator) itemTitle(post Post) string {
	firstLine, _, _ := strings.Cut(strings.TrimSpace(post.Text), "\n")
	if firstLine == "" {
		return post.Author.FullName
	}
	return fmt.Sprintf("%s: %s", post.Author.FullName, parser.TruncateText(firstLine, itemTitleLength))
}

func (g *Generator) selfLink(slug string) string {
	if cfg.Get().BaseUrl != "" {
		return fmt.Sprintf("%s/feeds/%s", cfg.Get().BaseUrl, slug)
	}
	return fmt.Sprintf("http://localhost:%s/feeds/%s", cfg.Get().Port, slug)
}

func (g *Generator) imageType(imageURL string) string {
	if u, _, found := strings.Cut(imageURL, "?"); found {
		imageURL = u
	}
	if t := mime.TypeByExtension(path.Ext(imageURL)); strings.HasPrefix(t, "image/") {
		return t
	}
	return "image/jpeg"
}

func (g *Generator) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}

	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}

	buf.WriteString("<")
	buf.WriteString(tag)
	buf.WriteString(">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}

func (g *Generator) isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
