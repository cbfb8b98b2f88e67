package services

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"aibot-api/internal/pkg/errors"

	"github.com/stretchr/testify/assert"
)

func TestGenerate_ReturnsImageBytes(t *testing.T) {
	payload := bytes.Repeat([]byte{0x89}, 4096)
	var gotPath, gotSeed string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotSeed = r.URL.Query().Get("seed")
		w.Write(payload)
	}))
	defer server.Close()

	service := NewImageService(server.URL)

	data, err := service.Generate(context.Background(), "закат над морем")

	assert.NoError(t, err)
	assert.Equal(t, payload, data)
	assert.Equal(t, "/prompt/"+"закат над морем", gotPath)
	assert.NotEmpty(t, gotSeed)
}

func TestGenerate_RejectsTinyPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not an image"))
	}))
	defer server.Close()

	service := NewImageService(server.URL)

	_, err := service.Generate(context.Background(), "cat")

	assert.ErrorIs(t, err, errors.ErrBadImageReply)
}

func TestGenerate_UpstreamErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	service := NewImageService(server.URL)

	_, err := service.Generate(context.Background(), "cat")

	assert.ErrorIs(t, err, errors.ErrUpstreamError)
}
