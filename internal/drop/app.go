package drop

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/tokendrop/internal/archive"
	"github.com/dmitrijs2005/tokendrop/internal/config"
	"github.com/dmitrijs2005/tokendrop/internal/ledger"
	"github.com/dmitrijs2005/tokendrop/internal/logging"
	"github.com/dmitrijs2005/tokendrop/internal/pinning"
	"github.com/dmitrijs2005/tokendrop/internal/prompt"
	"github.com/dmitrijs2005/tokendrop/internal/render"
)

// Kind selects which question list and templates a generation run uses.
type Kind string

const (
	KindLRO  Kind = "lro"
	KindNote Kind = "note"
)

// Template locations, relative to the working directory. The shipped images
// are plain placeholders; replace them with the real series artwork. Any
// format image.Decode understands works, rendered tokens are always JPEG.
var (
	LROImageTemplate     = filepath.Join("assets", "templates", "lro.png")
	LROMetadataTemplate  = filepath.Join("assets", "templates", "lro-metadata.json.mustache")
	NoteImageTemplate    = filepath.Join("assets", "templates", "note.png")
	NoteMetadataTemplate = filepath.Join("assets", "templates", "note-metadata.json.mustache")
)

// App wires the interactive generation workflow: collect answers, verify
// pinning credentials, render, pin, record, archive.
type App struct {
	kind   Kind
	config *config.Config
	prompt *prompt.Prompter
	log    logging.Logger
}

func NewApp(kind Kind, cfg *config.Config, log logging.Logger) *App {
	return &App{kind: kind, config: cfg, prompt: prompt.NewStdio(), log: log}
}

// Run executes one full generation run and returns the result.
func (a *App) Run(ctx context.Context) (*Result, error) {
	skipPin, err := a.prompt.Confirm("Skip pinning (local dry run)?", false)
	if err != nil {
		return nil, err
	}

	pinner := pinning.NewClient(a.config.PinataAPIKey, a.config.PinataSecretKey, a.config.PinataJWT, a.log)
	if !skipPin {
		if err := pinner.CheckCredentials(); err != nil {
			return nil, fmt.Errorf("pinning credentials: %w", err)
		}
	}

	renderer, err := render.New()
	if err != nil {
		return nil, err
	}
	gen := NewGenerator(renderer, pinner, a.log)

	opts := Options{
		RootPath: a.config.RootPath,
		Gateway:  a.config.IPFSGateway,
		SkipPin:  skipPin,
	}

	var res *Result
	var series string
	var loanID, count int

	switch a.kind {
	case KindNote:
		d, err := CollectNote(a.prompt)
		if err != nil {
			return nil, err
		}
		opts.TemplateImg = NoteImageTemplate
		opts.TemplateMeta = NoteMetadataTemplate
		series, count = d.Series, d.TokenCount

		if res, err = gen.GenerateNote(ctx, d, opts); err != nil {
			return nil, err
		}

	default:
		d, scheme, err := CollectLRO(a.prompt, "GLRT", a.config.SeriesDigits, a.config.TokenDigits)
		if err != nil {
			return nil, err
		}
		opts.TemplateImg = LROImageTemplate
		opts.TemplateMeta = LROMetadataTemplate
		series, loanID, count = d.Series, d.LoanID, d.TokenCount

		if res, err = gen.GenerateLRO(ctx, d, scheme, opts); err != nil {
			return nil, err
		}
	}

	if err := a.record(ctx, res, series, loanID, count); err != nil {
		// generation succeeded; a broken local trace should not fail the run
		a.log.Warn(ctx, "failed to record drop in ledger", "error", err)
	}

	if a.config.ArchiveEnabled() {
		if err := a.archive(ctx, res); err != nil {
			return nil, err
		}
	}

	return res, nil
}

func (a *App) record(ctx context.Context, res *Result, series string, loanID, count int) error {
	l, err := ledger.Open(ctx, filepath.Join(a.config.RootPath, "ledger.db"))
	if err != nil {
		return err
	}
	defer l.Close()

	return l.RecordDrop(ctx, &ledger.Drop{
		SeriesID:    res.SeriesID,
		Series:      series,
		LoanID:      loanID,
		TokenCount:  count,
		ImageCID:    res.ImageCID,
		MetadataCID: res.MetadataCID,
		CreatedAt:   time.Now().UTC(),
	}, res.Records)
}

func (a *App) archive(ctx context.Context, res *Result) error {
	u := archive.NewUploader(archive.Settings{
		Bucket:   a.config.S3Bucket,
		Region:   a.config.S3Region,
		Endpoint: a.config.S3Endpoint,
		User:     a.config.S3User,
		Password: a.config.S3Password,
	}, a.log)

	_, err := u.UploadDir(ctx, res.SeriesID, res.SeriesPath)
	return err
}
