package feed

import (
	"bytes"
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NicoGrassetto/nico-grassetto-blog/internal/content"
)

const siteURL = "https://nico-grassetto.github.io/nico-grassetto-blog"

func TestFromPosts(t *testing.T) {
	posts := []content.Post{
		{Slug: "second", Title: "Second", Description: "two", Published: time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)},
		{Slug: "first", Title: "First", Description: "one", Published: time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC)},
	}

	items := FromPosts(siteURL+"/", posts)
	require.Len(t, items, 2)
	assert.Equal(t, Item{
		Title:       "Second",
		Link:        siteURL + "/blog/second",
		Description: "two",
		PubDate:     "Sat, 09 Mar 2024 00:00:00 GMT",
		GUID:        siteURL + "/blog/second",
	}, items[0])
	assert.Equal(t, "first", strings.TrimPrefix(items[1].Link, siteURL+"/blog/"))
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, Channel{
		Title:       "Nico Grassetto's Blog",
		Link:        siteURL,
		Description: "Engineering & web",
	}, []Item{{Title: "A <b>", Link: siteURL + "/blog/a", GUID: siteURL + "/blog/a", PubDate: "Mon, 01 Jan 2024 00:00:00 GMT"}})
	require.NoError(t, err)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, out, `<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">`)
	assert.Contains(t, out, `<atom:link href="`+siteURL+`/feed.xml" rel="self" type="application/rss+xml">`)
	assert.Contains(t, out, `<language>en-us</language>`)
	assert.Contains(t, out, `<description>Engineering &amp; web</description>`)
	assert.Contains(t, out, `<title>A &lt;b&gt;</title>`)

	var decoded struct {
		Channel struct {
			Items []Item `xml:"item"`
		} `xml:"channel"`
	}
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded.Channel.Items, 1)
	assert.Equal(t, "A <b>", decoded.Channel.Items[0].Title)
}

func TestWriteEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Channel{Title: "t", Link: siteURL, Language: "it"}, nil))
	assert.Contains(t, buf.String(), "<language>it</language>")
	assert.NotContains(t, buf.String(), "<item>")
}
