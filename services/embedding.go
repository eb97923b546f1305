package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/genai"
)

// ErrEmbeddingUnavailable means the embedding backend could not
// produce a vector. Without an embedding there is nothing to rank
// against, so callers must abort the matching request.
var ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

// EmbeddingServiceProvider produces fixed-length vectors for text and
// image content. Both must come from the same model family or the
// similarity space is meaningless.
type EmbeddingServiceProvider interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
	EmbedImage(ctx context.Context, imageBytes []byte, mimeType string) ([]float32, error)
	Dimensions() int
}

// GoogleEmbeddingService wraps the multimodal embedding model behind
// the shared Gemini client. Every call is bounded by the configured
// timeout.
type GoogleEmbeddingService struct {
	Client     *genai.Client
	Model      string
	dimensions int
	timeout    time.Duration
}

func NewGoogleEmbeddingService(client *genai.Client, model string, dimensions int, timeout time.Duration) *GoogleEmbeddingService {
	return &GoogleEmbeddingService{
		Client:     client,
		Model:      model,
		dimensions: dimensions,
		timeout:    timeout,
	}
}

func (es *GoogleEmbeddingService) Dimensions() int {
	return es.dimensions
}

func (es *GoogleEmbeddingService) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: empty text", ErrEmbeddingUnavailable)
	}
	contents := []*genai.Content{{Parts: []*genai.Part{{Text: text}}}}
	return es.embed(ctx, contents)
}

func (es *GoogleEmbeddingService) EmbedImage(ctx context.Context, imageBytes []byte, mimeType string) ([]float32, error) {
	if len(imageBytes) == 0 {
		return nil, fmt.Errorf("%w: empty image", ErrEmbeddingUnavailable)
	}
	contents := []*genai.Content{{Parts: []*genai.Part{
		{InlineData: &genai.Blob{Data: imageBytes, MIMEType: mimeType}},
	}}}
	return es.embed(ctx, contents)
}

func (es *GoogleEmbeddingService) embed(ctx context.Context, contents []*genai.Content) ([]float32, error) {
	ctx, cancel := boundedContext(ctx, es.timeout)
	defer cancel()

	var lastErr error
	for attempt := 1; attempt <= maxReadAttempts; attempt++ {
		result, err := es.Client.Models.EmbedContent(ctx, es.Model, contents, &genai.EmbedContentConfig{
			OutputDimensionality: Int32Pointer(int32(es.dimensions)),
		})
		if err != nil {
			lastErr = err
			fmt.Printf("Error in EmbedContent, attempt %d: %v\n", attempt, err)
			continue
		}
		if len(result.Embeddings) == 0 || len(result.Embeddings[0].Values) == 0 {
			lastErr = fmt.Errorf("empty embedding response")
			continue
		}
		values := result.Embeddings[0].Values
		if len(values) != es.dimensions {
			return nil, fmt.Errorf("%w: model returned %d values, expected %d", ErrEmbeddingUnavailable, len(values), es.dimensions)
		}
		return values, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrEmbeddingUnavailable, lastErr)
}
