// pkg/render/engo/assets_test.go
package engo

import (
	"image/color"
	"testing"

	"github.com/EngoEngine/engo/common"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/Aminion/ksp2d/pkg/engine"
)

func TestAssetManager_BodyDrawable(t *testing.T) {
	am := NewAssetManager()

	if _, ok := am.BodyDrawable(engine.BodyState{Celestial: true}).(common.Circle); !ok {
		t.Error("celestial bodies should be drawn as circles")
	}
	if _, ok := am.BodyDrawable(engine.BodyState{Rocket: true}).(common.Triangle); !ok {
		t.Error("the rocket should be drawn as a triangle")
	}
	if am.Font() != nil || am.Background() != nil {
		t.Error("font and background must stay nil before LoadAssets")
	}
}

func TestBodyColor(t *testing.T) {
	tests := []struct {
		name string
		body engine.BodyState
		want color.Color
	}{
		{"rocket", engine.BodyState{Rocket: true}, rocketColor},
		{"uncoloured_celestial", engine.BodyState{Celestial: true}, color.White},
		{"red_planet", engine.BodyState{Celestial: true, Color: colorful.Color{R: 1}}, color.RGBA{255, 0, 0, 255}},
		{"out_of_gamut", engine.BodyState{Celestial: true, Color: colorful.Color{R: 2, G: -1, B: 0.5}}, color.RGBA{255, 0, 128, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BodyColor(tt.body); got != tt.want {
				t.Errorf("BodyColor() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStarfieldImage(t *testing.T) {
	a := StarfieldImage(7, 120, 80)
	b := StarfieldImage(7, 120, 80)
	c := StarfieldImage(8, 120, 80)

	if a.Bounds().Dx() != 120 || a.Bounds().Dy() != 80 {
		t.Fatalf("bounds = %v", a.Bounds())
	}

	lit := 0
	for i := 3; i < len(a.Pix); i += 4 {
		if a.Pix[i] == 255 {
			lit++
		}
	}
	if lit == 0 || lit > 16 {
		t.Errorf("lit pixels = %d, want between 1 and 16", lit)
	}

	if string(a.Pix) != string(b.Pix) {
		t.Error("same seed produced different starfields")
	}
	if string(a.Pix) == string(c.Pix) {
		t.Error("different seeds produced the same starfield")
	}

	if empty := StarfieldImage(1, 0, 0); len(empty.Pix) != 0 {
		t.Error("empty starfield has pixels")
	}
}
