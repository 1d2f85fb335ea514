// Package render produces per-token images: it copies a series template and
// overlays the token's text fields at fixed pixel offsets.
package render

import (
	"fmt"
	"image/jpeg"
	"os"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/dmitrijs2005/tokendrop/internal/filex"
)

// Annotation is one line of black text. X and Y address the top-left corner
// of the text box; Title selects the large face.
type Annotation struct {
	Text  string
	X     float64
	Y     float64
	Title bool
}

// Renderer draws annotation sets onto image files. Faces are loaded once and
// reused across tokens.
type Renderer struct {
	title  font.Face
	detail font.Face
}

func New() (*Renderer, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}

	title, err := opentype.NewFace(f, &opentype.FaceOptions{Size: 32, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("title face: %w", err)
	}
	detail, err := opentype.NewFace(f, &opentype.FaceOptions{Size: 16, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("detail face: %w", err)
	}

	return &Renderer{title: title, detail: detail}, nil
}

// Annotate copies templatePath to destPath and draws the annotations onto
// the copy, persisting the result in place as JPEG.
//
// There is no rollback: if drawing or re-encoding fails after the copy, the
// destination is left as a copied-but-unannotated file and the error is
// returned to the caller, which treats it as fatal for that token.
func (r *Renderer) Annotate(templatePath, destPath string, anns []Annotation) error {
	if err := filex.CopyFile(templatePath, destPath); err != nil {
		return err
	}

	img, err := gg.LoadImage(destPath)
	if err != nil {
		return fmt.Errorf("loading image %s: %w", destPath, err)
	}

	dc := gg.NewContextForImage(img)
	dc.SetRGB(0, 0, 0)
	for _, a := range anns {
		if a.Title {
			dc.SetFontFace(r.title)
		} else {
			dc.SetFontFace(r.detail)
		}
		// anchor (0,1): the given Y is the top edge of the drawn text
		dc.DrawStringAnchored(a.Text, a.X, a.Y, 0, 1)
	}

	f, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("saving image %s: %w", destPath, err)
	}
	defer f.Close()
	if err := jpeg.Encode(f, dc.Image(), &jpeg.Options{Quality: 95}); err != nil {
		return fmt.Errorf("encoding image %s: %w", destPath, err)
	}
	return nil
}

// Height returns the pixel height of the image at path, used to anchor the
// LRO layout to the bottom of the template.
func Height(path string) (int, error) {
	img, err := gg.LoadImage(path)
	if err != nil {
		return 0, fmt.Errorf("loading image %s: %w", path, err)
	}
	return img.Bounds().Dy(), nil
}
