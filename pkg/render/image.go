package render

import (
	"bytes"
	"encoding/base64"
	"html/template"
	"image"
	"image/draw"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"math"
	"os"

	"github.com/aqua-invoicing/pkg/ierr"
	"github.com/h2non/filetype"
)

// cssPixelsPerInch is the browser's reference pixel density.
const cssPixelsPerInch = 96

// Image is a logo or stamp loaded from disk.
type Image struct {
	Name string
	MIME string
	Data []byte
}

// Assets are the optional images printed on the document.
type Assets struct {
	Logo  *Image
	Stamp *Image
}

// LoadImage reads a JPEG, PNG or GIF file. An empty path yields a nil image.
func LoadImage(name, path string) (*Image, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("cannot read %s image %s", name, path).
			Mark(ierr.ErrSystem)
	}
	kind, err := filetype.Match(data)
	if err != nil || !filetype.IsImage(data) {
		return nil, ierr.NewErrorf("%s image %s is not an image", name, path).
			Mark(ierr.ErrValidation)
	}
	switch kind.Extension {
	case "jpg", "png", "gif":
	default:
		return nil, ierr.NewErrorf("%s image %s has unsupported type %s", name, path, kind.Extension).
			Mark(ierr.ErrValidation)
	}
	return &Image{Name: name, MIME: kind.MIME.Value, Data: data}, nil
}

// DataURI inlines the image so the HTML page prints without extra requests.
func (img *Image) DataURI() template.URL {
	return template.URL("data:" + img.MIME + ";base64," + base64.StdEncoding.EncodeToString(img.Data))
}

// rasterize flattens the image onto white and re-encodes it as JPEG, sampled for a
// box of widthIn x heightIn inches at scale device pixels per CSS pixel. It never
// upsamples. The returned aspect is width/height of the source.
func (img *Image) rasterize(widthIn, heightIn, scale, quality float64) ([]byte, float64, error) {
	src, _, err := image.Decode(bytes.NewReader(img.Data))
	if err != nil {
		return nil, 0, err
	}
	b := src.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, 0, ierr.NewErrorf("%s image is empty", img.Name).Mark(ierr.ErrValidation)
	}
	aspect := float64(b.Dx()) / float64(b.Dy())

	maxW := widthIn * cssPixelsPerInch * scale
	maxH := heightIn * cssPixelsPerInch * scale
	ratio := math.Min(1, math.Min(maxW/float64(b.Dx()), maxH/float64(b.Dy())))
	w := max(1, int(math.Round(float64(b.Dx())*ratio)))
	h := max(1, int(math.Round(float64(b.Dy())*ratio)))

	flat := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(flat, flat.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(flat, flat.Bounds(), src, b.Min, draw.Over)

	out := flat
	if w != b.Dx() || h != b.Dy() {
		out = image.NewRGBA(image.Rect(0, 0, w, h))
		for y := 0; y < h; y++ {
			sy := y * b.Dy() / h
			for x := 0; x < w; x++ {
				out.Set(x, y, flat.At(x*b.Dx()/w, sy))
			}
		}
	}

	var buf bytes.Buffer
	q := int(math.Round(quality * 100))
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: q}); err != nil {
		return nil, 0, err
	}
	return buf.Bytes(), aspect, nil
}
