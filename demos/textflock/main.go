// textflock runs the full transition: the word "murmur" bursts into a
// flock of birds that flies for a few seconds, then assembles into a
// generated target image. Move the mouse through the flock to scatter it
// and leave a soft trail on the settled particles.
package main

import (
	"image"
	"image/color"
	"log"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/phanxgames/murmur"
)

const (
	screenW = 1280
	screenH = 720
)

type game struct {
	sim *murmur.Sim
	ren *murmur.Renderer
}

func (g *game) Update() error {
	x, y := ebiten.CursorPosition()
	if x >= 0 && x < screenW && y >= 0 && y < screenH {
		g.sim.SetPointer(float64(x), float64(y))
	} else {
		g.sim.ClearPointer()
	}
	g.sim.Update(1.0 / float64(ebiten.TPS()))
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 12, G: 13, B: 22, A: 255})
	g.ren.Draw(screen, g.sim)
	ebitenutil.DebugPrint(screen, murmur.Overlay(g.sim))
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenW, screenH
}

func main() {
	seeds := murmur.TextSeeds("murmur", screenW/2, screenH/2)
	sim := murmur.New(murmur.DefaultConfig(), seeds, screenW, screenH)
	sim.LoadTargetImage(makeTarget())
	sim.SetCallbacks(murmur.Callbacks{
		OnFlightBegins:    func() { log.Println("flight begins") },
		OnOutputReady:     func() { log.Println("output ready") },
		OnRevealComplete:  func() { log.Println("reveal complete") },
		OnParticlesFormed: func() { log.Println("particles formed") },
	})

	ebiten.SetWindowSize(screenW, screenH)
	ebiten.SetWindowTitle("murmur: textflock")
	if err := ebiten.RunGame(&game{sim: sim, ren: murmur.NewRenderer()}); err != nil {
		log.Fatalf("run: %v", err)
	}
}

// makeTarget draws the assembly target: two interleaved color rings on a
// white background (white is discarded by the sampler).
func makeTarget() image.Image {
	const size = 240
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	c := float64(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x) - c
			dy := float64(y) - c
			r := math.Sqrt(dx*dx + dy*dy)
			ang := math.Atan2(dy, dx)
			switch {
			case r > c*0.52 && r < c*0.92:
				img.Set(x, y, color.RGBA{
					R: uint8(120 + 100*math.Sin(ang*3)),
					G: uint8(80 + 60*math.Cos(ang*2)),
					B: 200, A: 255,
				})
			case r < c*0.34:
				img.Set(x, y, color.RGBA{
					R: 235,
					G: uint8(130 + 80*math.Sin(r/6)),
					B: 60, A: 255,
				})
			default:
				img.Set(x, y, color.White)
			}
		}
	}
	return img
}
