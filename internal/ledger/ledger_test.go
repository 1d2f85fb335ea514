package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/tokendrop/internal/common"
	"github.com/dmitrijs2005/tokendrop/internal/token"
)

func openTestLedger(t *testing.T) *Ledger {
	t.Helper()
	l, err := Open(context.Background(), t.TempDir()+"/ledger.db")
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l
}

func TestRecordDrop_RoundTrip(t *testing.T) {
	l := openTestLedger(t)
	ctx := context.Background()

	d := &Drop{
		SeriesID:    "000A-13994",
		Series:      "A",
		LoanID:      13994,
		TokenCount:  2,
		ImageCID:    "bafyimages",
		MetadataCID: "bafymeta",
		CreatedAt:   time.Now().UTC(),
	}
	tokens := []token.Record{
		{Seq: 0, DNA: "GLRT-000A-13994-00000", UUID: "u-0", ImageURL: "http://g/ipfs/bafyimages/GLRT-000A-13994-00000.jpeg"},
		{Seq: 1, DNA: "GLRT-000A-13994-00001", UUID: "u-1", ImageURL: "http://g/ipfs/bafyimages/GLRT-000A-13994-00001.jpeg"},
	}
	require.NoError(t, l.RecordDrop(ctx, d, tokens))

	got, err := l.DropBySeries(ctx, "000A-13994")
	require.NoError(t, err)
	assert.Equal(t, "A", got.Series)
	assert.Equal(t, 2, got.TokenCount)
	assert.Equal(t, "bafymeta", got.MetadataCID)
}

func TestRecordDrop_UpsertUpdatesCIDs(t *testing.T) {
	l := openTestLedger(t)
	ctx := context.Background()

	d := &Drop{SeriesID: "000B-20001", Series: "B", TokenCount: 1, CreatedAt: time.Now().UTC()}
	require.NoError(t, l.RecordDrop(ctx, d, nil))

	d.ImageCID = "bafyimg2"
	d.MetadataCID = "bafymeta2"
	require.NoError(t, l.RecordDrop(ctx, d, nil))

	got, err := l.DropBySeries(ctx, "000B-20001")
	require.NoError(t, err)
	assert.Equal(t, "bafyimg2", got.ImageCID)
	assert.Equal(t, "bafymeta2", got.MetadataCID)
}

func TestTokensBySeries_SequenceOrder(t *testing.T) {
	l := openTestLedger(t)
	ctx := context.Background()

	d := &Drop{SeriesID: "000C-777", Series: "C", TokenCount: 3, CreatedAt: time.Now().UTC()}
	// insertion order deliberately scrambled
	tokens := []token.Record{
		{Seq: 2, DNA: "XYZT-000C-777-00002", UUID: "u-2"},
		{Seq: 0, DNA: "XYZT-000C-777-00000", UUID: "u-0"},
		{Seq: 1, DNA: "XYZT-000C-777-00001", UUID: "u-1"},
	}
	require.NoError(t, l.RecordDrop(ctx, d, tokens))

	got, err := l.TokensBySeries(ctx, "000C-777")
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i, r := range got {
		assert.Equal(t, i, r.Seq)
	}
	assert.Equal(t, "XYZT-000C-777-00000", got[0].DNA)
	assert.Equal(t, "XYZT-000C-777-00002", got[2].DNA)
}

func TestTokensBySeries_EmptyForUnknownSeries(t *testing.T) {
	l := openTestLedger(t)
	got, err := l.TokensBySeries(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDropBySeries_NotFound(t *testing.T) {
	l := openTestLedger(t)
	_, err := l.DropBySeries(context.Background(), "missing")
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestRecordMint_AndList(t *testing.T) {
	l := openTestLedger(t)
	ctx := context.Background()

	for _, dna := range []string{"GLRT-000A-13994-00001", "GLRT-000A-13994-00000"} {
		err := l.RecordMint(ctx, &Mint{
			DNA:      dna,
			SeriesID: "000A-13994",
			Contract: "0x5FbDB2315678afecb367f032d93F642f64180aa3",
			Wallet:   "0x70997970C51812dc3A010C7d01b50e0d17dc79C8",
			TxHash:   "0xabc",
			MintedAt: time.Now().UTC(),
		})
		require.NoError(t, err)
	}

	mints, err := l.MintsBySeries(ctx, "000A-13994")
	require.NoError(t, err)
	require.Len(t, mints, 2)
	assert.Equal(t, "GLRT-000A-13994-00000", mints[0].DNA)
	assert.Equal(t, "GLRT-000A-13994-00001", mints[1].DNA)
}
