// Command gones-viewer is a minimal Ebitengine front end for the nescore
// console: it loads a ROM, clocks the console one frame at a time, and
// blits the rendered frame to a window.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"nescore/internal/frame"
	"nescore/internal/input"
	"nescore/internal/nes"
)

const scale = 3

type game struct {
	sys   *nes.System
	frame *frame.Frame
	image *ebiten.Image
}

var keymap = map[ebiten.Key]input.Button{
	ebiten.KeyZ:         input.ButtonA,
	ebiten.KeyX:         input.ButtonB,
	ebiten.KeyShift:     input.ButtonSelect,
	ebiten.KeyEnter:     input.ButtonStart,
	ebiten.KeyArrowUp:   input.ButtonUp,
	ebiten.KeyArrowDown: input.ButtonDown,
	ebiten.KeyArrowLeft: input.ButtonLeft,
	ebiten.KeyArrowRight: input.ButtonRight,
}

func (g *game) Update() error {
	for key, button := range keymap {
		g.sys.Controller.SetButton(button, ebiten.IsKeyPressed(key))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	g.sys.RunFrame(g.frame)
	g.image.WritePixels(rgbaFromFrame(g.frame))
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	screen.DrawImage(g.image, op)
	ebitenutil.DebugPrint(screen, "")
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return frame.Width * scale, frame.Height * scale
}

// rgbaFromFrame expands the console's packed RGB buffer into the RGBA
// layout ebiten.Image.WritePixels expects.
func rgbaFromFrame(f *frame.Frame) []byte {
	rgb := f.Bytes()
	out := make([]byte, frame.Width*frame.Height*4)
	for i := 0; i < frame.Width*frame.Height; i++ {
		out[i*4+0] = rgb[i*3+0]
		out[i*4+1] = rgb[i*3+1]
		out[i*4+2] = rgb[i*3+2]
		out[i*4+3] = 0xFF
	}
	return out
}

func main() {
	romPath := flag.String("rom", "", "path to an iNES ROM image")
	flag.Parse()

	if *romPath == "" {
		log.Fatal("usage: gones-viewer -rom path/to/game.nes")
	}

	romData, err := os.ReadFile(*romPath)
	if err != nil {
		log.Fatalf("reading rom: %v", err)
	}

	sys, err := nes.Load(romData)
	if err != nil {
		log.Fatalf("loading rom: %v", err)
	}
	sys.Reset()

	img := ebiten.NewImage(frame.Width, frame.Height)
	g := &game{sys: sys, frame: frame.New(), image: img}

	ebiten.SetWindowSize(frame.Width*scale, frame.Height*scale)
	ebiten.SetWindowTitle("nescore")
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
