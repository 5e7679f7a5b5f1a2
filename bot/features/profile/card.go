package profile

import (
	"bytes"
	"fmt"
	"time"

	"idolbot/domain/entities"
	"idolbot/domain/utils"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	log "github.com/sirupsen/logrus"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// CardFileName is the attachment name of the rendered profile card
const CardFileName = "profile.png"

const (
	cardWidth   = 420
	cardHeight  = 180
	cardPadding = 18
)

// CardGenerator draws a compact stats card for /guesser_profile
type CardGenerator struct {
	title font.Face
	body  font.Face
}

// NewCardGenerator parses the embedded Go fonts
func NewCardGenerator() (*CardGenerator, error) {
	title, err := loadFont(gobold.TTF, 18)
	if err != nil {
		return nil, fmt.Errorf("failed to load title font: %w", err)
	}
	body, err := loadFont(goregular.TTF, 13)
	if err != nil {
		return nil, fmt.Errorf("failed to load body font: %w", err)
	}
	return &CardGenerator{title: title, body: body}, nil
}

// Render draws the card and encodes it as PNG
func (g *CardGenerator) Render(details *entities.ProfileDetails, displayName string) ([]byte, error) {
	start := time.Now()
	defer func() {
		log.WithField("duration_ms", time.Since(start).Milliseconds()).Debug("Profile card rendered")
	}()

	p := details.Profile
	dc := gg.NewContext(cardWidth, cardHeight)

	for y := 0; y < cardHeight; y++ {
		t := float64(y) / float64(cardHeight)
		dc.SetRGB(0.12+t*0.1, 0.05+t*0.03, 0.12+t*0.08)
		dc.DrawLine(0, float64(y), cardWidth, float64(y))
		dc.Stroke()
	}

	// accent bar in the profile pink
	dc.SetRGB(1, 0.42, 0.62)
	dc.DrawRectangle(0, 0, 6, cardHeight)
	dc.Fill()

	dc.SetFontFace(g.title)
	dc.SetRGB(1, 1, 1)
	dc.DrawString(displayName, cardPadding, cardPadding+16)

	dc.SetFontFace(g.body)
	dc.SetRGB(1, 0.8, 0.9)
	dc.DrawStringAnchored(rankText(details.Rank), cardWidth-cardPadding, cardPadding+12, 1, 0)

	stats := []struct {
		label string
		value string
	}{
		{"Games started", utils.FormatThousands(p.GamesStarted)},
		{"Games won", utils.FormatThousands(p.GamesWon)},
		{"Win rate", fmt.Sprintf("%d%%", WinRatePercent(details))},
		{"Points", utils.FormatThousands(p.TotalPoints())},
		{"Coins earned", utils.FormatThousands(p.TotalMoney())},
		{"Level", fmt.Sprintf("%d", details.Level)},
	}

	colWidth := float64(cardWidth-2*cardPadding) / 3
	for idx, stat := range stats {
		x := cardPadding + float64(idx%3)*colWidth
		y := 70 + float64(idx/3)*50

		dc.SetRGBA(1, 1, 1, 0.06)
		dc.DrawRoundedRectangle(x, y-14, colWidth-8, 42, 6)
		dc.Fill()

		dc.SetRGB(0.75, 0.7, 0.8)
		dc.DrawString(stat.label, x+8, y+2)
		dc.SetRGB(1, 1, 1)
		dc.DrawString(stat.value, x+8, y+20)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

func loadFont(fontData []byte, size float64) (font.Face, error) {
	f, err := truetype.Parse(fontData)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{Size: size, Hinting: font.HintingFull}), nil
}
