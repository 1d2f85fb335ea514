// Package drop orchestrates a full generation run: per-token images, one
// image-directory pin, per-token metadata documents, one metadata-directory
// pin. The two-pin order is load-bearing, metadata carries gateway URLs
// built from the image directory CID.
package drop

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/tokendrop/internal/dna"
	"github.com/dmitrijs2005/tokendrop/internal/filex"
	"github.com/dmitrijs2005/tokendrop/internal/finance"
	"github.com/dmitrijs2005/tokendrop/internal/logging"
	"github.com/dmitrijs2005/tokendrop/internal/metadata"
	"github.com/dmitrijs2005/tokendrop/internal/pinning"
	"github.com/dmitrijs2005/tokendrop/internal/render"
	"github.com/dmitrijs2005/tokendrop/internal/token"
)

// Options carry the run-level knobs shared by both series types.
type Options struct {
	RootPath     string
	Gateway      string
	TemplateImg  string // series template image to annotate
	TemplateMeta string // mustache metadata template path
	SkipPin      bool   // generate locally without pinning
}

// Result summarizes a completed run. When pinning was skipped both CIDs are
// empty and the records carry local placeholder URLs.
type Result struct {
	SeriesID    string
	SeriesPath  string
	ImageCID    string
	MetadataCID string
	Records     []token.Record
}

// Generator composes the renderer, templater and pinner into the drop
// workflow. One Generator serves one run.
type Generator struct {
	renderer *render.Renderer
	pinner   pinning.Pinner
	log      logging.Logger

	// newUUID is a seam so tests can pin identifier values.
	newUUID func() string
}

func NewGenerator(renderer *render.Renderer, pinner pinning.Pinner, log logging.Logger) *Generator {
	return &Generator{
		renderer: renderer,
		pinner:   pinner,
		log:      log,
		newUUID:  func() string { return uuid.NewString() },
	}
}

// GenerateLRO runs the full LRO workflow for one drop. Any per-token failure
// aborts the run immediately; partially generated files are left on disk for
// inspection.
func (g *Generator) GenerateLRO(ctx context.Context, d *token.LRODrop, scheme dna.Scheme, opts Options) (*Result, error) {
	der := finance.Derive(finance.Terms{
		Amount:         d.Amount,
		Rate:           d.Rate,
		LoanAmount:     d.LoanAmount,
		InvestmentDate: d.InvestmentDate,
		MaturityDate:   d.MaturityDate,
	})

	layout := token.NewLayout(opts.RootPath, scheme.SeriesID())
	if err := prepareDirs(layout); err != nil {
		return nil, err
	}

	tmpl, err := metadata.NewTemplaterFromFile(opts.TemplateMeta, metadata.LRORequired)
	if err != nil {
		return nil, err
	}

	imgHeight, err := render.Height(opts.TemplateImg)
	if err != nil {
		return nil, err
	}

	res := &Result{SeriesID: layout.SeriesID, SeriesPath: layout.SeriesPath()}
	tokenName := fmt.Sprintf("LRO Redemption Token (%s) - %s", scheme.Symbol, scheme.SeriesKey())

	for seq := 0; seq < d.TokenCount; seq++ {
		rec := token.Record{
			Seq:          seq,
			DNA:          scheme.Token(seq),
			UUID:         g.newUUID(),
			ImagePath:    layout.ImagePath(scheme.Token(seq)),
			MetadataPath: layout.MetadataPath(scheme.Token(seq)),
		}

		anns := render.LROAnnotations(d, der, rec.DNA, imgHeight)
		if err := g.renderer.Annotate(opts.TemplateImg, rec.ImagePath, anns); err != nil {
			return nil, fmt.Errorf("rendering token %s: %w", rec.DNA, err)
		}

		g.log.Debug(ctx, "rendered token image", "dna", rec.DNA, "path", rec.ImagePath)
		res.Records = append(res.Records, rec)
	}

	res.ImageCID, err = g.pinDir(ctx, layout.ImageDir(), map[string]string{
		"series": layout.SeriesID, "kind": "images",
	}, opts.SkipPin)
	if err != nil {
		return nil, err
	}

	for i := range res.Records {
		rec := &res.Records[i]
		rec.ImageURL = imageURL(opts.Gateway, res.ImageCID, rec, opts.SkipPin)

		fields := metadata.LROFields(d, der, rec, tokenName)
		doc, err := tmpl.Render(fields)
		if err != nil {
			return nil, fmt.Errorf("metadata for %s: %w", rec.DNA, err)
		}
		if err := os.WriteFile(rec.MetadataPath, []byte(doc), 0o644); err != nil {
			return nil, fmt.Errorf("writing metadata %s: %w", rec.MetadataPath, err)
		}
	}

	res.MetadataCID, err = g.pinDir(ctx, layout.MetadataDir(), map[string]string{
		"series": layout.SeriesID, "kind": "metadata",
	}, opts.SkipPin)
	if err != nil {
		return nil, err
	}

	g.log.Info(ctx, "drop generated",
		"series", layout.SeriesID, "tokens", d.TokenCount,
		"imageCid", res.ImageCID, "metadataCid", res.MetadataCID)
	return res, nil
}

// GenerateNote runs the Note workflow. Notes share the two-pin structure but
// use flat identifiers and a single annotation per image.
func (g *Generator) GenerateNote(ctx context.Context, d *token.NoteDrop, opts Options) (*Result, error) {
	layout := token.NewLayout(opts.RootPath, "series-"+d.Series)
	if err := prepareDirs(layout); err != nil {
		return nil, err
	}

	tmpl, err := metadata.NewTemplaterFromFile(opts.TemplateMeta, metadata.NoteRequired)
	if err != nil {
		return nil, err
	}

	res := &Result{SeriesID: layout.SeriesID, SeriesPath: layout.SeriesPath()}

	for seq := 0; seq < d.TokenCount; seq++ {
		name := dna.NoteName(d.Series, d.Rate, seq)
		rec := token.Record{
			Seq:          seq,
			DNA:          name,
			UUID:         g.newUUID(),
			ImagePath:    layout.ImagePath(name),
			MetadataPath: layout.MetadataPath(name),
		}

		if err := g.renderer.Annotate(opts.TemplateImg, rec.ImagePath, render.NoteAnnotations(name)); err != nil {
			return nil, fmt.Errorf("rendering token %s: %w", name, err)
		}
		res.Records = append(res.Records, rec)
	}

	res.ImageCID, err = g.pinDir(ctx, layout.ImageDir(), map[string]string{
		"series": layout.SeriesID, "kind": "images",
	}, opts.SkipPin)
	if err != nil {
		return nil, err
	}

	for i := range res.Records {
		rec := &res.Records[i]
		rec.ImageURL = imageURL(opts.Gateway, res.ImageCID, rec, opts.SkipPin)

		doc, err := tmpl.Render(metadata.NoteFields(d, rec, rec.DNA))
		if err != nil {
			return nil, fmt.Errorf("metadata for %s: %w", rec.DNA, err)
		}
		if err := os.WriteFile(rec.MetadataPath, []byte(doc), 0o644); err != nil {
			return nil, fmt.Errorf("writing metadata %s: %w", rec.MetadataPath, err)
		}
	}

	res.MetadataCID, err = g.pinDir(ctx, layout.MetadataDir(), map[string]string{
		"series": layout.SeriesID, "kind": "metadata",
	}, opts.SkipPin)
	if err != nil {
		return nil, err
	}

	g.log.Info(ctx, "note drop generated",
		"series", layout.SeriesID, "tokens", d.TokenCount,
		"imageCid", res.ImageCID, "metadataCid", res.MetadataCID)
	return res, nil
}

func (g *Generator) pinDir(ctx context.Context, dir string, keyvalues map[string]string, skip bool) (string, error) {
	if skip {
		g.log.Info(ctx, "pinning skipped", "dir", dir)
		return "", nil
	}
	started := time.Now()
	cid, err := g.pinner.PinDirectory(ctx, dir, keyvalues)
	if err != nil {
		return "", fmt.Errorf("pinning %s: %w", dir, err)
	}
	g.log.Info(ctx, "pin complete", "dir", dir, "cid", cid, "took", time.Since(started))
	return cid, nil
}

func prepareDirs(layout token.Layout) error {
	for _, dir := range []string{layout.ImageDir(), layout.MetadataDir()} {
		if _, err := filex.EnsureDir(dir); err != nil {
			return err
		}
	}
	return nil
}

// imageURL picks the gateway URL for a pinned token, or the local file path
// when pinning was skipped, so metadata renders stay complete either way.
func imageURL(gateway, cid string, rec *token.Record, skipped bool) string {
	if skipped {
		return "file://" + rec.ImagePath
	}
	return token.ImageURL(gateway, cid, rec.DNA)
}
