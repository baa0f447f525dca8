// Package render assembles roster render jobs from domain data and cached
// resources, and delegates rasterization to an isolated engine.
package render

import (
	"context"

	"rosterboard/internal/assets"
	"rosterboard/internal/models"
	"rosterboard/internal/pkg/errors"
	"rosterboard/internal/pkg/logger"
	"rosterboard/internal/ports"
	"rosterboard/internal/repositories"
	"rosterboard/internal/urlcache"
)

// Transform variants requested for embedded images. Avatars render inside a
// 56px circle at up to 2.5x DPR, logos inside 48px.
var (
	avatarTransform = ports.TransformOptions{Width: 160, Height: 160, Quality: 80}
	logoTransform   = ports.TransformOptions{Width: 128, Height: 128, Quality: 85}
)

// Embedded asset names resolved through the resource cache.
const (
	assetFontBody   = "fonts/inter-regular.woff2"
	assetFontBold   = "fonts/inter-bold.woff2"
	assetBackground = "img/pitch-bg.jpg"
)

// Orchestrator resolves domain data and cached resources into a render job
// and executes it on the engine.
type Orchestrator struct {
	lookup repositories.Lookup
	urls   *urlcache.Cache
	assets *assets.Cache
	engine ports.RenderEngine
	log    *logger.Logger
}

type Deps struct {
	Lookup repositories.Lookup
	URLs   *urlcache.Cache
	Assets *assets.Cache
	Engine ports.RenderEngine
	Log    *logger.Logger
}

func NewOrchestrator(d Deps) *Orchestrator {
	log := d.Log
	if log == nil {
		log = logger.NewDefault()
	}
	return &Orchestrator{
		lookup: d.Lookup,
		urls:   d.URLs,
		assets: d.Assets,
		engine: d.Engine,
		log:    log.WithComponent("orchestrator"),
	}
}

// Render produces the roster image for req and returns the bytes together
// with the club's display name. A missing club is fatal; a missing player is
// skipped with a warning; a missing avatar falls back to a placeholder.
func (o *Orchestrator) Render(ctx context.Context, req Request, opts QualityOptions) ([]byte, string, error) {
	log := o.log.FromContext(ctx)
	opts = opts.Normalized()

	club, err := o.lookup.FindClubByID(ctx, req.ClubID)
	if err != nil {
		return nil, "", errors.Wrap(err, "render.lookup", "club lookup failed")
	}

	players, err := o.lookup.FindPlayersByIDs(ctx, unionIDs(req.CategorizedIDs))
	if err != nil {
		return nil, "", errors.Wrap(err, "render.lookup", "player lookup failed")
	}
	byID := make(map[string]models.Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}

	logoURLs := o.urls.ResolveBatch(ctx, logoKeys(club), logoTransform)
	avatarURLs := o.urls.ResolveBatch(ctx, avatarKeys(players), avatarTransform)

	o.assets.Warm()

	pg := page{
		ClubName:   club.Name,
		LogoURL:    logoURLs[club.LogoKey],
		Width:      opts.Width,
		Height:     opts.Height,
		FontBody:   o.assets.Load(assetFontBody),
		FontBold:   o.assets.Load(assetFontBold),
		Background: o.assets.Load(assetBackground),
	}

	for _, cat := range req.Categories {
		cv := categoryView{Name: cat.Name, Color: cat.Color}
		for _, id := range req.CategorizedIDs[cat.Name] {
			p, ok := byID[id]
			if !ok {
				log.Warn("player not resolvable, skipping", "player_id", id, "category", cat.Name)
				continue
			}
			ev := entryView{Name: p.DisplayName}
			if url := avatarURLs[p.AvatarKey]; url != "" {
				ev.AvatarURL = url
			} else {
				ev.Initial = InitialLetter(p.DisplayName)
				ev.PlaceholderColor = PlaceholderColor(p.DisplayName)
			}
			cv.Entries = append(cv.Entries, ev)
		}
		pg.Categories = append(pg.Categories, cv)
	}

	html, err := renderMarkup(pg)
	if err != nil {
		return nil, "", errors.Wrap(err, "render.markup", "markup generation failed")
	}

	img, err := o.engine.RenderImage(ctx, ports.RenderParams{
		HTML:             html,
		Width:            opts.Width,
		Height:           opts.Height,
		Scale:            DPRForQuality(opts.Quality),
		Quality:          opts.Quality,
		OptimizeForSpeed: opts.OptimizeForSpeed,
	})
	if err != nil {
		return nil, "", errors.Wrap(err, "render.engine", "render failed")
	}

	return img, club.Name, nil
}

// unionIDs collects every referenced player id across categories, first
// occurrence order, without duplicates.
func unionIDs(categorized map[string][]string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, ids := range categorized {
		for _, id := range ids {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}

func logoKeys(club *models.Club) []string {
	if club.LogoKey == "" {
		return nil
	}
	return []string{club.LogoKey}
}

func avatarKeys(players []models.Player) []string {
	var out []string
	for _, p := range players {
		if p.AvatarKey != "" {
			out = append(out, p.AvatarKey)
		}
	}
	return out
}
