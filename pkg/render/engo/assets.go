// pkg/render/engo/assets.go
package engo

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"math/rand/v2"

	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"
	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/Aminion/ksp2d/pkg/engine"
)

// hudFontURL is the name the embedded font is registered under with engo.Files
const hudFontURL = "goregular.ttf"

// starDensity is the fraction of background pixels that hold a star
const starDensity = 1.0 / 600

var rocketColor = color.RGBA{0, 255, 255, 255}

// AssetManager owns the drawables shared by all body sprites
type AssetManager struct {
	font       *common.Font
	circle     common.Drawable
	rocket     common.Drawable
	background common.Drawable
}

// NewAssetManager creates an asset manager with the procedural shapes.
// Textures and the font need a GL context and are built by LoadAssets.
func NewAssetManager() *AssetManager {
	return &AssetManager{
		circle: common.Circle{},
		rocket: common.Triangle{TriangleType: common.TriangleIsosceles},
	}
}

// Preload registers the embedded HUD font with engo's file loader
func (am *AssetManager) Preload() error {
	if err := engo.Files.LoadReaderData(hudFontURL, bytes.NewReader(goregular.TTF)); err != nil {
		return fmt.Errorf("failed to load HUD font: %w", err)
	}
	return nil
}

// LoadAssets builds the HUD font and a starfield texture of the given size
func (am *AssetManager) LoadAssets(seed uint64, width, height int) error {
	am.font = &common.Font{URL: hudFontURL, FG: color.White, Size: 14}
	if err := am.font.CreatePreloaded(); err != nil {
		return fmt.Errorf("failed to create HUD font: %w", err)
	}
	am.background = common.NewTextureSingle(common.NewImageObject(StarfieldImage(seed, width, height)))
	return nil
}

// Font returns the HUD font, nil before LoadAssets
func (am *AssetManager) Font() *common.Font {
	return am.font
}

// Background returns the starfield texture, nil before LoadAssets
func (am *AssetManager) Background() common.Drawable {
	return am.background
}

// BodyDrawable returns the shape a body is drawn with
func (am *AssetManager) BodyDrawable(b engine.BodyState) common.Drawable {
	if b.Celestial {
		return am.circle
	}
	return am.rocket
}

// BodyColor returns the fill colour of a body. Bodies without a colour are white.
func BodyColor(b engine.BodyState) color.Color {
	if !b.Celestial {
		return rocketColor
	}
	if b.Color == (colorful.Color{}) {
		return color.White
	}
	r, g, bl := b.Color.Clamped().RGB255()
	return color.RGBA{r, g, bl, 255}
}

// StarfieldImage draws a deterministic field of grey stars on a transparent image
func StarfieldImage(seed uint64, width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	rng := rand.New(rand.NewPCG(seed, seed^0x73746172))

	stars := int(float64(width*height) * starDensity)
	for range stars {
		x, y := rng.IntN(width), rng.IntN(height)
		v := uint8(96 + rng.IntN(160))
		img.SetNRGBA(x, y, color.NRGBA{v, v, v, 255})
	}
	return img
}
