// Package token defines the typed records a drop is made of: the immutable
// drop inputs per series type, the per-token record, and the on-disk layout
// of a generated series.
package token

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
)

// LRODrop is one batch of LRO redemption tokens sharing a series. It is
// assembled once from operator input and never mutated afterwards; only its
// derived artifacts (files, pins, mints) persist beyond the run.
type LRODrop struct {
	Series               string
	ExternalURL          string
	Name                 string
	Address1             string
	Address2             string
	LoanAmount           decimal.Decimal
	Purpose              string
	SecurityPosition     string
	Amount               decimal.Decimal
	Rate                 decimal.Decimal
	Term                 int
	LTARV                float64
	LoanID               int
	AssetURL             string
	InvestmentDate       time.Time
	MaturityDate         time.Time
	TokenCount           int
	OfferingCircular     string
	TokenRegistrationURL string
}

// Address joins the two address lines the way they appear on the token image
// and in metadata.
func (d *LRODrop) Address() string {
	return d.Address1 + ", " + d.Address2
}

// NoteDrop is one batch of Note tokens. The scheme is flatter than LRO: no
// loan attributes, no per-token financials beyond rate and term length.
type NoteDrop struct {
	Series       string
	Rate         float64
	Length       int // term length in days
	MaturityDate time.Time
	TokenCount   int
}

// Record is one generated unit inside a drop. DNA and UUID are assigned at
// creation and never change; ImageURL is set once, after the image directory
// pin returns its CID.
type Record struct {
	Seq          int
	DNA          string
	UUID         string
	ImagePath    string
	MetadataPath string
	ImageURL     string
}

// Layout maps a series to its directory tree:
//
//	{root}/drops/{SERIES-ID}/{SERIES-ID}-images/{dna}.jpeg
//	{root}/drops/{SERIES-ID}/{SERIES-ID}-metadata/{dna}.json
//
// where SERIES-ID is "{series key}-{loan id}" for LRO drops and
// "series-{series}" for Note drops.
type Layout struct {
	Root     string
	SeriesID string
}

func NewLayout(root, seriesID string) Layout {
	return Layout{Root: root, SeriesID: seriesID}
}

func (l Layout) SeriesPath() string {
	return filepath.Join(l.Root, "drops", l.SeriesID)
}

func (l Layout) ImageDir() string {
	return filepath.Join(l.SeriesPath(), l.SeriesID+"-images")
}

func (l Layout) MetadataDir() string {
	return filepath.Join(l.SeriesPath(), l.SeriesID+"-metadata")
}

func (l Layout) ImagePath(dna string) string {
	return filepath.Join(l.ImageDir(), dna+".jpeg")
}

func (l Layout) MetadataPath(dna string) string {
	return filepath.Join(l.MetadataDir(), dna+".json")
}

// ImageURL returns the gateway URL of a pinned image:
// "{gateway}/ipfs/{cid}/{dna}.jpeg".
func ImageURL(gateway, cid, dna string) string {
	return fmt.Sprintf("%s/ipfs/%s/%s.jpeg", gateway, cid, dna)
}

// MetadataURL returns the gateway URL of a pinned metadata document:
// "{gateway}/ipfs/{cid}/{dna}.json". This is the token URI passed to the
// contract at mint time.
func MetadataURL(gateway, cid, dna string) string {
	return fmt.Sprintf("%s/ipfs/%s/%s.json", gateway, cid, dna)
}
