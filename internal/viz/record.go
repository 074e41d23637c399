package viz

import (
	"image"
	"image/color"
	"image/gif"
	"os"
)

const (
	gifCharW = 8
	gifCharH = 16
)

// Recorder collects canvas frames and writes them as an animated GIF.
type Recorder struct {
	frames []*image.Paletted
	delay  int
}

// NewRecorder creates a recorder whose frames last delay hundredths of a
// second each.
func NewRecorder(delay int) *Recorder {
	if delay < 1 {
		delay = 2
	}
	return &Recorder{delay: delay}
}

func (r *Recorder) Len() int { return len(r.frames) }

// Capture rasterises c with each Braille dot as a gifCharW/2 x gifCharH/4
// block.
func (r *Recorder) Capture(c *Canvas) {
	dotW, dotH := gifCharW/2, gifCharH/4
	img := image.NewPaletted(
		image.Rect(0, 0, c.Width*gifCharW, c.Height*gifCharH),
		color.Palette{color.Black, color.RGBA{R: 0xff, B: 0xff, A: 0xff}},
	)
	for y := 0; y < c.PixelHeight(); y++ {
		for x := 0; x < c.PixelWidth(); x++ {
			if !c.Lit(x, y) {
				continue
			}
			for py := 0; py < dotH; py++ {
				for px := 0; px < dotW; px++ {
					img.SetColorIndex(x*dotW+px, y*dotH+py, 1)
				}
			}
		}
	}
	r.frames = append(r.frames, img)
}

// Save writes the captured frames to path and clears the recorder.
func (r *Recorder) Save(path string) error {
	if len(r.frames) == 0 {
		return nil
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range r.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, r.delay)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := gif.EncodeAll(f, &anim); err != nil {
		return err
	}
	r.frames = nil
	return nil
}
