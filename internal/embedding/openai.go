package embedding

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// =============================================================================
// OPENAI EMBEDDING ENGINE
// =============================================================================

// OpenAIEngine generates embeddings using the OpenAI embeddings API.
type OpenAIEngine struct {
	client openai.Client
	model  openai.EmbeddingModel
}

// NewOpenAIEngine creates a new OpenAI embedding engine.
func NewOpenAIEngine(apiKey, model string) (*OpenAIEngine, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	embModel := openai.EmbeddingModelTextEmbedding3Small
	if model != "" {
		embModel = openai.EmbeddingModel(model)
	}

	client := openai.NewClient(option.WithAPIKey(apiKey))

	return &OpenAIEngine{
		client: client,
		model:  embModel,
	}, nil
}

// Embed generates an embedding for a single text.
func (e *OpenAIEngine) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfString: openai.String(text)},
		Model: e.model,
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI embed failed: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("no embeddings returned")
	}

	return toFloat32(resp.Data[0].Embedding), nil
}

// Dimensions returns the dimensionality of embeddings.
// text-embedding-3-small produces 1536-dimensional vectors.
func (e *OpenAIEngine) Dimensions() int {
	if e.model == openai.EmbeddingModelTextEmbedding3Large {
		return 3072
	}
	return 1536
}

// Name returns the engine name.
func (e *OpenAIEngine) Name() string {
	return fmt.Sprintf("openai:%s", e.model)
}

func toFloat32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, f := range v {
		out[i] = float32(f)
	}
	return out
}
