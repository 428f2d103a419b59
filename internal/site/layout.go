package site

import (
	"html/template"

	"github.com/NicoGrassetto/nico-grassetto-blog/internal/content"
)

const layoutTmpl = `<!DOCTYPE html>
<html lang="{{.Lang}}" data-theme="{{.Theme}}">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}}</title>
{{- with .Description}}
  <meta name="description" content="{{.}}">
{{- end}}
  <link rel="alternate" type="application/rss+xml" title="{{.SiteTitle}}" href="{{.FeedURL}}">
  <style>
{{.Style}}
  </style>
</head>
<body>
  <div class="container">
    <nav><a href="{{.Home}}">{{.SiteTitle}}</a></nav>
{{.Body}}
  </div>
{{- if .Charts}}
  <script src="https://cdn.jsdelivr.net/npm/chart.js@4"></script>
  <script>
  document.querySelectorAll('canvas[data-chart-dark]').forEach(function (c) {
    var light = document.documentElement.getAttribute('data-theme') === 'light';
    new Chart(c, JSON.parse(light ? c.dataset.chartLight : c.dataset.chartDark));
  });
  </script>
{{- end}}
</body>
</html>
`

const indexTmpl = `{{.Intro}}
{{- if .Posts}}
<h2>Blog</h2>
<ul>
{{- range .Posts}}
  <li><span class="date">{{.Date}}</span> <a href="{{$.Base}}/blog/{{.Slug}}/">{{.Title}}</a></li>
{{- end}}
</ul>
{{- end}}
{{- if .Artifacts}}
<h2>Artifacts</h2>
<ul>
{{- range .Artifacts}}
  <li><span class="date">{{.Date}}</span> <a href="{{$.Base}}/artifacts/{{.Slug}}/">{{.Title}}</a> {{.Description}}</li>
{{- end}}
</ul>
{{- end}}
`

const postTmpl = `<article>
  <h1>{{.Post.Title}}</h1>
  <p class="date">{{.Post.Date}}</p>
{{- with .Image}}
  <img src="{{.}}" alt="{{$.Post.Title}}">
{{- end}}
{{.Content}}
</article>
`

const artifactTmpl = `<article>
  <h1>{{.Artifact.Title}}</h1>
  <p class="date">{{.Artifact.Date}}</p>
  <p>{{.Artifact.Description}}</p>
{{- if or .Artifact.Demo .Artifact.GitHub}}
  <p>
  {{- with .Artifact.Demo}} <a href="{{.}}">Demo</a>{{end}}
  {{- with .Artifact.GitHub}} <a href="{{.}}">GitHub</a>{{end}}
  </p>
{{- end}}
{{.Content}}
</article>
`

var templates = func() *template.Template {
	t := template.Must(template.New("layout").Parse(layoutTmpl))
	template.Must(t.New("index").Parse(indexTmpl))
	template.Must(t.New("post").Parse(postTmpl))
	template.Must(t.New("artifact").Parse(artifactTmpl))
	return t
}()

type layoutData struct {
	Lang        string
	Theme       string
	Title       string
	Description string
	SiteTitle   string
	Home        string
	FeedURL     string
	Style       template.CSS
	Body        template.HTML
	Charts      bool
}

type indexData struct {
	Base      string
	Intro     template.HTML
	Posts     []content.Post
	Artifacts []content.Artifact
}

type postData struct {
	Post    content.Post
	Image   string
	Content template.HTML
}

type artifactData struct {
	Artifact content.Artifact
	Content  template.HTML
}
