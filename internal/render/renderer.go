package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"standings-ticker/internal/domain"
)

// ErrNoSections is returned when there is nothing to render.
var ErrNoSections = errors.New("no sections to render")

const (
	defaultHeight         = 32
	defaultSectionSpacing = 24
	defaultItemSpacing    = 10
	logoPadding           = 2
)

// Options controls the strip layout.
type Options struct {
	// Height is the strip height in pixels; it should match the display.
	Height int
	// SectionSpacing is the horizontal gap between league sections.
	SectionSpacing int
	// ItemSpacing is the horizontal gap between teams within a section.
	ItemSpacing int
	// Logos resolves team and league marks; nil renders text-only.
	Logos *LogoCache
}

// Renderer composes league sections into a single horizontal strip.
type Renderer struct {
	opts Options
	face font.Face
	text color.Color
	dim  color.Color
}

// New constructs a Renderer, filling unset options with defaults.
func New(opts Options) *Renderer {
	if opts.Height <= 0 {
		opts.Height = defaultHeight
	}
	if opts.SectionSpacing <= 0 {
		opts.SectionSpacing = defaultSectionSpacing
	}
	if opts.ItemSpacing <= 0 {
		opts.ItemSpacing = defaultItemSpacing
	}
	return &Renderer{
		opts: opts,
		face: basicfont.Face7x13,
		text: color.White,
		dim:  color.RGBA{R: 0xb0, G: 0xb0, B: 0xb0, A: 0xff},
	}
}

// Render lays the sections out side by side in list order and returns the
// composed strip. Missing logos degrade each item to text-only.
func (r *Renderer) Render(sections []domain.LeagueSection) (*image.RGBA, error) {
	if len(sections) == 0 {
		return nil, ErrNoSections
	}

	width := 0
	for i, sec := range sections {
		if i > 0 {
			width += r.opts.SectionSpacing
		}
		width += r.sectionWidth(sec)
	}
	if width == 0 {
		return nil, ErrNoSections
	}

	strip := image.NewRGBA(image.Rect(0, 0, width, r.opts.Height))
	x := 0
	for i, sec := range sections {
		if i > 0 {
			x += r.opts.SectionSpacing
		}
		x = r.drawSection(strip, x, sec)
	}
	return strip, nil
}

func (r *Renderer) sectionWidth(sec domain.LeagueSection) int {
	if len(sec.Teams) == 0 {
		return 0
	}
	w := r.headerWidth(sec) + r.opts.ItemSpacing
	for i, team := range sec.Teams {
		if i > 0 {
			w += r.opts.ItemSpacing
		}
		w += r.itemWidth(sec.LeagueKey, team)
	}
	return w
}

func (r *Renderer) headerWidth(sec domain.LeagueSection) int {
	if logo, ok := r.logo(sec.LeagueKey, sec.LeagueKey); ok {
		return logo.Bounds().Dx() + logoPadding
	}
	return r.textWidth(r.headerLabel(sec))
}

func (r *Renderer) itemWidth(leagueKey string, team domain.TeamRecord) int {
	w := r.textWidth(itemLabel(team))
	if logo, ok := r.logo(leagueKey, team.Abbreviation); ok {
		w += logo.Bounds().Dx() + logoPadding
	}
	return w
}

func (r *Renderer) drawSection(strip *image.RGBA, x int, sec domain.LeagueSection) int {
	if len(sec.Teams) == 0 {
		return x
	}
	if logo, ok := r.logo(sec.LeagueKey, sec.LeagueKey); ok {
		x = r.drawLogo(strip, x, logo)
	} else {
		x = r.drawText(strip, x, r.headerLabel(sec), r.text)
	}
	x += r.opts.ItemSpacing

	for i, team := range sec.Teams {
		if i > 0 {
			x += r.opts.ItemSpacing
		}
		if logo, ok := r.logo(sec.LeagueKey, team.Abbreviation); ok {
			x = r.drawLogo(strip, x, logo)
		}
		x = r.drawText(strip, x, itemLabel(team), r.text)
	}
	return x
}

func (r *Renderer) headerLabel(sec domain.LeagueSection) string {
	if sec.RankingName != "" {
		return sec.RankingName
	}
	return sec.LeagueName
}

func itemLabel(team domain.TeamRecord) string {
	label := team.Abbreviation
	if label == "" {
		label = team.Name
	}
	if team.Rank > 0 {
		label = fmt.Sprintf("%d %s", team.Rank, label)
	}
	if team.RecordSummary != "" {
		label += " " + team.RecordSummary
	}
	return label
}

func (r *Renderer) logo(leagueKey, name string) (image.Image, bool) {
	if r.opts.Logos == nil {
		return nil, false
	}
	return r.opts.Logos.Logo(leagueKey, name)
}

func (r *Renderer) textWidth(s string) int {
	return font.MeasureString(r.face, s).Ceil()
}

func (r *Renderer) drawText(strip *image.RGBA, x int, s string, c color.Color) int {
	metrics := r.face.Metrics()
	baseline := (r.opts.Height + metrics.Ascent.Ceil() - metrics.Descent.Ceil()) / 2
	d := font.Drawer{
		Dst:  strip,
		Src:  image.NewUniform(c),
		Face: r.face,
		Dot:  fixed.P(x, baseline),
	}
	d.DrawString(s)
	return d.Dot.X.Ceil()
}

func (r *Renderer) drawLogo(strip *image.RGBA, x int, logo image.Image) int {
	b := logo.Bounds()
	y := (r.opts.Height - b.Dy()) / 2
	target := image.Rect(x, y, x+b.Dx(), y+b.Dy())
	draw.Draw(strip, target, logo, b.Min, draw.Over)
	return x + b.Dx() + logoPadding
}
