package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sceneJSON = `{"shapes":[{"data":{"id":"r1","type":"rect","x":0,"y":0,"width":40,"height":30}}]}`

func sceneServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/rooms/3/shapes" || r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(sceneJSON))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRun_WritesPNGAndPDF(t *testing.T) {
	srv := sceneServer(t)
	dir := t.TempDir()

	for _, tc := range []struct {
		file  string
		magic []byte
	}{
		{"scene.png", []byte("\x89PNG")},
		{"scene.pdf", []byte("%PDF")},
	} {
		out := filepath.Join(dir, tc.file)
		err := run(context.Background(), options{server: srv.URL, room: "3", out: out, token: "tok", scale: 1})
		require.NoError(t, err)

		data, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(data, tc.magic), tc.file)
	}
}

func TestRun_Errors(t *testing.T) {
	srv := sceneServer(t)
	dir := t.TempDir()

	assert.Error(t, run(context.Background(), options{server: srv.URL, out: filepath.Join(dir, "a.png")}))
	assert.Error(t, run(context.Background(), options{server: srv.URL, room: "3", out: filepath.Join(dir, "a.svg")}))
	assert.Error(t, run(context.Background(), options{server: srv.URL, room: "3", out: filepath.Join(dir, "a.png"), token: "bad"}))
}
