// Package feed writes the RSS 2.0 feed for the blog collection.
package feed

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/NicoGrassetto/nico-grassetto-blog/internal/content"
)

// PubDateLayout matches the GMT form browsers print for Date.toUTCString.
const PubDateLayout = "Mon, 02 Jan 2006 15:04:05 GMT"

// Channel describes the feed itself. Link is the absolute site URL including
// any base path.
type Channel struct {
	Title       string
	Link        string
	Description string
	Language    string
}

// Item is one feed entry.
type Item struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
	GUID        string `xml:"guid"`
}

type rss struct {
	XMLName xml.Name `xml:"rss"`
	Version string   `xml:"version,attr"`
	Atom    string   `xml:"xmlns:atom,attr"`
	Channel channel  `xml:"channel"`
}

type channel struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	Description string   `xml:"description"`
	Language    string   `xml:"language"`
	Self        atomLink `xml:"atom:link"`
	Items       []Item   `xml:"item"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

// FromPosts builds one item per post, keeping the posts' order.
func FromPosts(siteURL string, posts []content.Post) []Item {
	siteURL = strings.TrimRight(siteURL, "/")
	items := make([]Item, 0, len(posts))
	for _, p := range posts {
		link := siteURL + "/blog/" + p.Slug
		items = append(items, Item{
			Title:       p.Title,
			Link:        link,
			Description: p.Description,
			PubDate:     p.Published.UTC().Format(PubDateLayout),
			GUID:        link,
		})
	}
	return items
}

// Write encodes the feed to w.
func Write(w io.Writer, ch Channel, items []Item) error {
	language := ch.Language
	if language == "" {
		language = "en-us"
	}
	doc := rss{
		Version: "2.0",
		Atom:    "http://www.w3.org/2005/Atom",
		Channel: channel{
			Title:       ch.Title,
			Link:        ch.Link,
			Description: ch.Description,
			Language:    language,
			Self: atomLink{
				Href: strings.TrimRight(ch.Link, "/") + "/feed.xml",
				Rel:  "self",
				Type: "application/rss+xml",
			},
			Items: items,
		},
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode feed: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}
