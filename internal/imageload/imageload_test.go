package imageload

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestFetchReadsDimensions(t *testing.T) {
	payload := pngBytes(t, 1600, 900)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer srv.Close()

	l := New(zerolog.Nop())
	dims, err := l.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, 1600.0, dims.Width)
	assert.Equal(t, 900.0, dims.Height)
}

func TestFetchRejectsNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	l := New(zerolog.Nop())
	_, err := l.Fetch(context.Background(), srv.URL)
	assert.ErrorContains(t, err, "status 404")
}

func TestFetchRejectsGarbageBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("this is not an image"))
	}))
	defer srv.Close()

	l := New(zerolog.Nop())
	_, err := l.Fetch(context.Background(), srv.URL)
	assert.Error(t, err)
}

type canvasSpy struct {
	set    chan Dimensions
	failed chan struct{}
}

func newCanvasSpy() *canvasSpy {
	return &canvasSpy{set: make(chan Dimensions, 1), failed: make(chan struct{}, 1)}
}

func (c *canvasSpy) SetBackgroundImage(w, h float64) { c.set <- Dimensions{w, h} }
func (c *canvasSpy) BackgroundImageFailed()          { c.failed <- struct{}{} }

func TestResolveReportsSuccess(t *testing.T) {
	payload := pngBytes(t, 800, 600)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer srv.Close()

	spy := newCanvasSpy()
	New(zerolog.Nop()).Resolve(context.Background(), srv.URL, spy)

	select {
	case dims := <-spy.set:
		assert.Equal(t, Dimensions{800, 600}, dims)
	case <-spy.failed:
		t.Fatal("expected success, got failure")
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for canvas callback")
	}
}

func TestResolveEmptyURLFailsSynchronously(t *testing.T) {
	spy := newCanvasSpy()
	New(zerolog.Nop()).Resolve(context.Background(), "", spy)

	select {
	case <-spy.failed:
	default:
		t.Fatal("expected an immediate failure callback")
	}
}

func TestResolveReportsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	spy := newCanvasSpy()
	New(zerolog.Nop()).Resolve(context.Background(), srv.URL, spy)

	select {
	case <-spy.failed:
	case <-spy.set:
		t.Fatal("expected failure, got success")
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for canvas callback")
	}
}
