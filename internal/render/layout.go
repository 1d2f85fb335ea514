package render

import (
	"fmt"

	"github.com/dmitrijs2005/tokendrop/internal/finance"
	"github.com/dmitrijs2005/tokendrop/internal/token"
)

// Layout constants for the LRO promissory card. The card content sits in a
// fixed band above the bottom edge of the template, so positions are derived
// from the image height rather than hard-coded.
const (
	lroStartX      = 20.0
	lroBandHeight  = 265.0
	lroTextSpacing = 20.0
	lroBoxSpacing  = 30.0
	lroDNAOffsetX  = 230.0
)

// LROAnnotations builds the annotation set for one LRO token: a title line,
// the details block, and the address and DNA boxes.
func LROAnnotations(d *token.LRODrop, der finance.Derivation, dna string, imgHeight int) []Annotation {
	x := lroStartX
	y := float64(imgHeight) - lroBandHeight

	anns := []Annotation{
		{Text: d.Name, X: x + 2, Y: y, Title: true},
	}

	x += 5
	y += lroBoxSpacing
	for _, line := range []string{
		fmt.Sprintf("Amount: %s", der.AmountUSD),
		fmt.Sprintf("Purpose: %s", d.Purpose),
		fmt.Sprintf("Matures: %s", d.MaturityDate.Format("2006-01-02")),
		fmt.Sprintf("Interest Rate: %s%%", d.Rate.String()),
		fmt.Sprintf("Effective Annual Return: %s", der.ReturnUSD),
	} {
		y += lroTextSpacing
		anns = append(anns, Annotation{Text: line, X: x, Y: y})
	}

	y += lroBoxSpacing + 10
	anns = append(anns,
		Annotation{Text: "Address:", X: x, Y: y},
		Annotation{Text: d.Address1, X: x, Y: y + lroTextSpacing},
		Annotation{Text: d.Address2, X: x, Y: y + 2*lroTextSpacing},
		Annotation{Text: "DNA:", X: x + lroDNAOffsetX, Y: y + lroTextSpacing},
		Annotation{Text: dna, X: x + lroDNAOffsetX, Y: y + 2*lroTextSpacing},
	)

	return anns
}

// NoteAnnotations builds the single series line a Note token carries.
func NoteAnnotations(name string) []Annotation {
	return []Annotation{
		{Text: fmt.Sprintf("Series: %s", name), X: 1550, Y: 1150, Title: true},
	}
}
