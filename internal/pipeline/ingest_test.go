package pipeline

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UBC-MDS/DSCI-532-2024-17-carbon-emissions/internal/model"
)

func newTestIngester() *ingester {
	return &ingester{policy: fastRetry(), tracker: NewTracker("test", model.LoadSpec{}), logger: discardLogger()}
}

func TestIngestCSV_ReaderFailureStops(t *testing.T) {
	errDisk := errors.New("disk went away")
	r := io.MultiReader(
		strings.NewReader("Country Name,Region,1990\nCanada,North America,15.5\n"),
		iotest.ErrReader(errDisk),
	)
	out := make(chan model.GenericRecord, 8)

	done := make(chan struct{})
	var rows int64
	var err error
	go func() {
		defer close(done)
		rows, err = newTestIngester().ingestCSV(context.Background(), "broken.csv", r, out)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("ingestCSV kept reading after a non-recoverable error")
	}
	require.Error(t, err)
	assert.ErrorIs(t, err, errDisk)
	assert.Equal(t, int64(1), rows)
}
