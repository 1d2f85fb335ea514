package drop

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/tokendrop/internal/dna"
	"github.com/dmitrijs2005/tokendrop/internal/logging"
	"github.com/dmitrijs2005/tokendrop/internal/render"
	"github.com/dmitrijs2005/tokendrop/internal/token"
)

// fakePinner records pinned directories and hands out sequential CIDs.
type fakePinner struct {
	dirs []string
	kvs  []map[string]string
}

func (p *fakePinner) PinDirectory(ctx context.Context, dir string, keyvalues map[string]string) (string, error) {
	p.dirs = append(p.dirs, dir)
	p.kvs = append(p.kvs, keyvalues)
	return fmt.Sprintf("bafyfake%d", len(p.dirs)), nil
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// writeTemplateImage writes a blank JPEG big enough to hold the LRO band.
func writeTemplateImage(t *testing.T, dir string) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 600, 400))
	for y := 0; y < 400; y++ {
		for x := 0; x < 600; x++ {
			img.Set(x, y, color.White)
		}
	}
	path := filepath.Join(dir, "template.jpeg")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, jpeg.Encode(f, img, &jpeg.Options{Quality: 90}))
	require.NoError(t, f.Close())
	return path
}

func writeMetadataTemplate(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "metadata.json.mustache")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const lroTemplate = `{
  "name": "{{tokenName}}",
  "external_url": "{{externalUrl}}",
  "image": "{{imageUrl}}",
  "attributes": [
    {"trait_type": "Series", "value": "{{series}}"},
    {"trait_type": "DNA", "value": "{{dna}}"},
    {"trait_type": "Address", "value": "{{address}}"},
    {"trait_type": "Amount", "value": "{{amountUSD}}"},
    {"trait_type": "Expected Return", "value": "{{returnUSD}}"},
    {"trait_type": "Loan Amount", "value": "{{loanAmountUSD}}"},
    {"trait_type": "Purpose", "value": "{{purpose}}"},
    {"trait_type": "Security Position", "value": "{{securityPosition}}"},
    {"trait_type": "Amount Raw", "value": "{{amount}}"},
    {"trait_type": "Rate", "value": "{{rate}}"},
    {"trait_type": "Term", "value": "{{term}}"},
    {"trait_type": "LTARV", "value": "{{ltarv}}"},
    {"trait_type": "Loan ID", "value": "{{loanId}}"},
    {"trait_type": "Asset", "value": "{{assetUrl}}"},
    {"trait_type": "Investment Date", "value": "{{investmentDate}}"},
    {"trait_type": "Maturity Date", "value": "{{maturityDate}}"},
    {"trait_type": "Token Count", "value": "{{tokenCount}}"},
    {"trait_type": "Offering Circular", "value": "{{offeringCircular}}"},
    {"trait_type": "Registration", "value": "{{tokenRegistrationUrl}}"},
    {"trait_type": "Token ID", "value": "{{tokenId}}"},
    {"trait_type": "UUID", "value": "{{uuid}}"}
  ]
}`

const noteTemplate = `{
  "name": "{{tokenName}}",
  "image": "{{imageUrl}}",
  "attributes": [
    {"trait_type": "Series", "value": "{{series}}"},
    {"trait_type": "Rate", "value": "{{rate}}"},
    {"trait_type": "Length", "value": "{{length}}"},
    {"trait_type": "Maturity", "value": "{{maturityDate}}"},
    {"trait_type": "Token ID", "value": "{{tokenId}}"}
  ]
}`

func testLRODrop(count int) *token.LRODrop {
	return &token.LRODrop{
		Series:               "A",
		ExternalURL:          "https://example.com",
		Name:                 "Promissory Token",
		Address1:             "123 Main St",
		Address2:             "Austin, TX",
		LoanAmount:           decimal.NewFromInt(150000),
		Purpose:              "Fix and flip",
		SecurityPosition:     "1st",
		Amount:               decimal.NewFromInt(1000),
		Rate:                 decimal.NewFromFloat(12),
		Term:                 9,
		LTARV:                0.65,
		LoanID:               13994,
		AssetURL:             "https://example.com/asset",
		InvestmentDate:       time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC),
		MaturityDate:         time.Date(2023, 8, 29, 0, 0, 0, 0, time.UTC),
		TokenCount:           count,
		OfferingCircular:     "https://example.com/oc",
		TokenRegistrationURL: "https://example.com/reg",
	}
}

func TestGenerateLRO_FullRun(t *testing.T) {
	dir := t.TempDir()
	renderer, err := render.New()
	require.NoError(t, err)

	pinner := &fakePinner{}
	gen := NewGenerator(renderer, pinner, testLogger())
	seq := 0
	gen.newUUID = func() string { seq++; return fmt.Sprintf("uuid-%d", seq) }

	scheme := dna.Scheme{Symbol: "GLRT", Series: "A", LoanID: 13994, SeriesDigits: 4, TokenDigits: 5}
	opts := Options{
		RootPath:     dir,
		Gateway:      "https://gw.example.com",
		TemplateImg:  writeTemplateImage(t, dir),
		TemplateMeta: writeMetadataTemplate(t, dir, lroTemplate),
	}

	res, err := gen.GenerateLRO(context.Background(), testLRODrop(3), scheme, opts)
	require.NoError(t, err)

	assert.Equal(t, "000A-13994", res.SeriesID)
	assert.Equal(t, "bafyfake1", res.ImageCID)
	assert.Equal(t, "bafyfake2", res.MetadataCID)
	require.Len(t, res.Records, 3)

	// images pinned before metadata, each directory exactly once
	require.Len(t, pinner.dirs, 2)
	assert.Equal(t, filepath.Join(dir, "drops", "000A-13994", "000A-13994-images"), pinner.dirs[0])
	assert.Equal(t, filepath.Join(dir, "drops", "000A-13994", "000A-13994-metadata"), pinner.dirs[1])
	assert.Equal(t, "images", pinner.kvs[0]["kind"])
	assert.Equal(t, "metadata", pinner.kvs[1]["kind"])

	for i, rec := range res.Records {
		assert.Equal(t, fmt.Sprintf("GLRT-000A-13994-0000%d", i), rec.DNA)
		assert.FileExists(t, rec.ImagePath)
		assert.FileExists(t, rec.MetadataPath)
		// metadata image URL is built from the image pin's CID
		assert.Equal(t, fmt.Sprintf("https://gw.example.com/ipfs/bafyfake1/%s.jpeg", rec.DNA), rec.ImageURL)
	}

	// metadata documents are valid JSON with the pinned image URL inside
	data, err := os.ReadFile(res.Records[0].MetadataPath)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "LRO Redemption Token (GLRT) - 000A", doc["name"])
	assert.Equal(t, "https://gw.example.com/ipfs/bafyfake1/GLRT-000A-13994-00000.jpeg", doc["image"])
}

func TestGenerateLRO_SkipPin(t *testing.T) {
	dir := t.TempDir()
	renderer, err := render.New()
	require.NoError(t, err)

	pinner := &fakePinner{}
	gen := NewGenerator(renderer, pinner, testLogger())

	scheme := dna.Scheme{Symbol: "GLRT", Series: "B", LoanID: 20001, SeriesDigits: 4, TokenDigits: 5}
	opts := Options{
		RootPath:     dir,
		Gateway:      "https://gw.example.com",
		TemplateImg:  writeTemplateImage(t, dir),
		TemplateMeta: writeMetadataTemplate(t, dir, lroTemplate),
		SkipPin:      true,
	}

	res, err := gen.GenerateLRO(context.Background(), testLRODrop(1), scheme, opts)
	require.NoError(t, err)

	assert.Empty(t, pinner.dirs, "no pins when SkipPin is set")
	assert.Empty(t, res.ImageCID)
	assert.Empty(t, res.MetadataCID)
	assert.Equal(t, "file://"+res.Records[0].ImagePath, res.Records[0].ImageURL)
	assert.FileExists(t, res.Records[0].MetadataPath)
}

func TestGenerateNote_FullRun(t *testing.T) {
	dir := t.TempDir()
	renderer, err := render.New()
	require.NoError(t, err)

	pinner := &fakePinner{}
	gen := NewGenerator(renderer, pinner, testLogger())

	d := &token.NoteDrop{
		Series:       "A",
		Rate:         5.0,
		Length:       365,
		MaturityDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		TokenCount:   2,
	}
	opts := Options{
		RootPath:     dir,
		Gateway:      "https://gw.example.com",
		TemplateImg:  writeTemplateImage(t, dir),
		TemplateMeta: writeMetadataTemplate(t, dir, noteTemplate),
	}

	res, err := gen.GenerateNote(context.Background(), d, opts)
	require.NoError(t, err)

	assert.Equal(t, "series-A", res.SeriesID)
	require.Len(t, res.Records, 2)
	assert.Equal(t, "A5000", res.Records[0].DNA)
	assert.Equal(t, "A5001", res.Records[1].DNA)
	require.Len(t, pinner.dirs, 2)

	data, err := os.ReadFile(res.Records[1].MetadataPath)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "A5001", doc["name"])
}

func TestGenerateLRO_MissingImageTemplate(t *testing.T) {
	dir := t.TempDir()
	renderer, err := render.New()
	require.NoError(t, err)

	gen := NewGenerator(renderer, &fakePinner{}, testLogger())
	scheme := dna.Scheme{Symbol: "GLRT", Series: "A", LoanID: 1, SeriesDigits: 4, TokenDigits: 5}
	opts := Options{
		RootPath:     dir,
		Gateway:      "https://gw.example.com",
		TemplateImg:  filepath.Join(dir, "missing.jpeg"),
		TemplateMeta: writeMetadataTemplate(t, dir, lroTemplate),
	}

	_, err = gen.GenerateLRO(context.Background(), testLRODrop(1), scheme, opts)
	assert.Error(t, err)
}
