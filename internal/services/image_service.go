package services

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"

	"aibot-api/internal/pkg/errors"
)

// Payloads below this size are junk (error pages, empty bodies), not images.
const minImageBytes = 1024

// ImageService fetches a generated image for a prompt. The upstream API is a
// plain GET keyed by the URL-encoded prompt plus a randomized variation seed.
type ImageService interface {
	Generate(ctx context.Context, prompt string) ([]byte, error)
}

type imageService struct {
	baseURL    string
	httpClient *http.Client
	seedFn     func() int
}

func NewImageService(baseURL string) ImageService {
	return &imageService{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{},
		seedFn:     func() int { return rand.Intn(1000000) },
	}
}

func (s *imageService) Generate(ctx context.Context, prompt string) ([]byte, error) {
	requestURL := fmt.Sprintf("%s/prompt/%s?seed=%d", s.baseURL, url.PathEscape(prompt), s.seedFn())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create image request")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "image api request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrap(errors.ErrUpstreamError, fmt.Sprintf("image api returned %d", resp.StatusCode))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read image payload")
	}
	if len(data) < minImageBytes {
		return nil, errors.ErrBadImageReply
	}

	return data, nil
}
