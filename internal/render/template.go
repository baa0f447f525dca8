package render

import (
	"html/template"
	"strings"
)

// page is the view model the roster markup is rendered from. Everything is
// embedded or an absolute URL, so the resulting document is self-contained
// apart from image fetches.
type page struct {
	ClubName   string
	LogoURL    string
	Width      int
	Height     int
	FontBody   string // base64 woff2, may be empty
	FontBold   string // base64 woff2, may be empty
	Background string // base64 jpeg, may be empty
	Categories []categoryView
}

type categoryView struct {
	Name    string
	Color   string
	Entries []entryView
}

type entryView struct {
	Name             string
	AvatarURL        string // empty means render the placeholder
	Initial          string
	PlaceholderColor string
}

var rosterTmpl = template.Must(template.New("roster").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
{{if .FontBody}}<style>@font-face { font-family: "Body"; src: url(data:font/woff2;base64,{{.FontBody}}) format("woff2"); }</style>{{end}}
{{if .FontBold}}<style>@font-face { font-family: "Bold"; src: url(data:font/woff2;base64,{{.FontBold}}) format("woff2"); font-weight: bold; }</style>{{end}}
<style>
* { margin: 0; padding: 0; box-sizing: border-box; }
body {
  width: {{.Width}}px; height: {{.Height}}px; overflow: hidden;
  font-family: "Body", "Helvetica Neue", Arial, sans-serif;
  color: #fff; background-color: #101418;
  {{if .Background}}background-image: url(data:image/jpeg;base64,{{.Background}}); background-size: cover;{{end}}
}
.header { display: flex; align-items: center; gap: 12px; padding: 16px 20px; }
.header img { width: 48px; height: 48px; object-fit: contain; }
.header h1 { font-family: "Bold", "Helvetica Neue", Arial, sans-serif; font-size: 24px; }
.category { padding: 8px 20px; }
.category h2 { font-size: 15px; letter-spacing: 1px; text-transform: uppercase; margin-bottom: 6px; }
.grid { display: flex; flex-wrap: wrap; gap: 10px; }
.entry { width: 72px; text-align: center; }
.entry img, .entry .ph {
  width: 56px; height: 56px; border-radius: 50%; object-fit: cover; margin: 0 auto;
}
.entry .ph {
  display: flex; align-items: center; justify-content: center;
  font-family: "Bold", Arial, sans-serif; font-size: 24px; color: #fff;
}
.entry p { font-size: 11px; margin-top: 4px; overflow: hidden; text-overflow: ellipsis; white-space: nowrap; }
</style>
</head>
<body>
<div class="header">
{{if .LogoURL}}<img src="{{.LogoURL}}" alt="">{{end}}
<h1>{{.ClubName}}</h1>
</div>
{{range .Categories}}
<div class="category">
<h2 style="color: {{.Color}}">{{.Name}}</h2>
<div class="grid">
{{range .Entries}}
<div class="entry">
{{if .AvatarURL}}<img src="{{.AvatarURL}}" alt="">{{else}}<div class="ph" style="background-color: {{.PlaceholderColor}}">{{.Initial}}</div>{{end}}
<p>{{.Name}}</p>
</div>
{{end}}
</div>
</div>
{{end}}
</body>
</html>`))

func renderMarkup(p page) (string, error) {
	var b strings.Builder
	if err := rosterTmpl.Execute(&b, p); err != nil {
		return "", err
	}
	return b.String(), nil
}
