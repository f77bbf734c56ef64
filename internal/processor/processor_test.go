package processor

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/estflash/internal/cli"
	"codeberg.org/snonux/estflash/internal/importer"
	"codeberg.org/snonux/estflash/internal/testutil"
)

func testConfig(baseURL string) *cli.Config {
	cfg := &cli.Config{}
	cfg.API.BaseURL = baseURL
	cfg.API.Timeout = 5 * time.Second
	cfg.API.BreakerFailures = 5
	cfg.API.BreakerCooldown = time.Second
	cfg.Study.DeckSize = 3
	cfg.Audio.AutoPlay = false
	cfg.Log.Level = "error"
	return cfg
}

func newProcessor(t *testing.T) (*Processor, *testutil.FakeService) {
	t.Helper()
	svc := testutil.NewFakeService(t)
	p, err := NewProcessor(testConfig(svc.BaseURL()))
	require.NoError(t, err)
	return p, svc
}

func TestNewProcessor(t *testing.T) {
	p, _ := newProcessor(t)
	assert.NotNil(t, p.client)
	assert.NotNil(t, p.logs)

	_, err := NewProcessor(testConfig("localhost:5000"))
	assert.Error(t, err)

	cfg := testConfig("http://localhost:5000/api")
	cfg.Log.Level = "loud"
	_, err = NewProcessor(cfg)
	assert.Error(t, err)
}

func TestImportFile(t *testing.T) {
	p, svc := newProcessor(t)
	path := testutil.CreateWordList(t, "tere", "koer")

	msg, err := p.ImportFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Imported 2 words successfully", msg)
	assert.Len(t, svc.Imports(), 1)
}

func TestImportFileFailure(t *testing.T) {
	p, svc := newProcessor(t)
	svc.Override("/api/import-words", testutil.Response{
		Status: http.StatusInternalServerError,
		Body:   `{"error":"Database error"}`,
	})

	msg, err := p.ImportFile(context.Background(), testutil.CreateWordList(t, "tere"))
	require.Error(t, err)
	assert.Equal(t, "Error: Database error", msg)

	msg, err = p.ImportFile(context.Background(), "")
	assert.ErrorIs(t, err, importer.ErrNoFile)
	assert.Equal(t, importer.MsgSelectFile, msg)
}

func TestAudioURL(t *testing.T) {
	p, svc := newProcessor(t)

	url, err := p.AudioURL("42")
	require.NoError(t, err)
	assert.Equal(t, svc.BaseURL()+"/audio/42", url)

	_, err = p.AudioURL("  ")
	assert.Error(t, err)
}

func TestRunStudy(t *testing.T) {
	p, svc := newProcessor(t)
	svc.QueueDeck(testutil.SampleDeck(3))

	var out bytes.Buffer
	err := p.RunStudy(context.Background(), strings.NewReader("s\ny\ns\nn\nq\n"), &out)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Card 1 of 3")
	assert.Contains(t, out.String(), "Studied 2 cards: 1 correct, 1 incorrect.")
	assert.Equal(t, []int{3}, svc.RequestedCounts())
	assert.Len(t, svc.StudyLogs(), 2)
}

func TestRunStudyCancelled(t *testing.T) {
	p, svc := newProcessor(t)
	svc.QueueDeck(testutil.SampleDeck(3))

	in, w := io.Pipe()
	t.Cleanup(func() { w.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(100*time.Millisecond, cancel)

	err := p.RunStudy(ctx, in, io.Discard)
	assert.ErrorIs(t, err, context.Canceled)
}
