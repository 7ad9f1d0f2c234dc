package extract

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/scruffyjerk/blueprint-intelligence-engine/internal/model"
	"github.com/scruffyjerk/blueprint-intelligence-engine/internal/resilience"
)

// AnthropicExtractor reads room candidates off a floor-plan image using the
// Anthropic vision API.
type AnthropicExtractor struct {
	client    sdk.Client
	model     string
	maxTokens int64
	limiter   *rate.Limiter
	retry     resilience.RetryConfig
}

// NewAnthropic creates a vision extractor. ratePerSecond caps outbound API
// calls; pass 0 to disable limiting.
func NewAnthropic(apiKey, modelID string, maxTokens int, ratePerSecond float64) *AnthropicExtractor {
	e := &AnthropicExtractor{
		client: sdk.NewClient(
			option.WithAPIKey(apiKey),
		),
		model:     modelID,
		maxTokens: int64(maxTokens),
		retry:     defaultRetry(),
	}
	if ratePerSecond > 0 {
		e.limiter = rate.NewLimiter(rate.Limit(ratePerSecond), 1)
	}
	return e
}

// defaultRetry retries rate-limit and overload responses from the API, on
// top of the generic transient checks.
func defaultRetry() resilience.RetryConfig {
	cfg := resilience.DefaultRetryConfig()
	cfg.ShouldRetry = func(err error) bool {
		var apierr *sdk.Error
		if errors.As(err, &apierr) {
			return resilience.IsTransientHTTPStatus(apierr.StatusCode)
		}
		return resilience.IsTransient(err)
	}
	cfg.OnRetry = resilience.RetryLogger("anthropic", "vision extract")
	return cfg
}

// Extract encodes the document image, asks the vision model to read its
// dimension labels, and decodes the answer into room candidates.
func (e *AnthropicExtractor) Extract(ctx context.Context, doc model.Document) ([]model.RawRoomCandidate, string, error) {
	mediaType, err := mediaTypeFor(doc.Path)
	if err != nil {
		return nil, "", eris.Wrapf(err, "extract: document %s", doc.ID)
	}

	raw, err := os.ReadFile(doc.Path)
	if err != nil {
		return nil, "", eris.Wrapf(err, "extract: read document %s", doc.ID)
	}
	encoded := base64.StdEncoding.EncodeToString(raw)

	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, "", eris.Wrap(err, "extract: rate limiter")
		}
	}

	msg, err := resilience.Do(ctx, e.retry, func(ctx context.Context) (*sdk.Message, error) {
		return e.client.Messages.New(ctx, sdk.MessageNewParams{
			Model:     sdk.Model(e.model),
			MaxTokens: e.maxTokens,
			Messages: []sdk.MessageParam{
				sdk.NewUserMessage(
					sdk.NewImageBlockBase64(mediaType, encoded),
					sdk.NewTextBlock(analysisPrompt),
				),
			},
		})
	})
	if err != nil {
		return nil, "", eris.Wrapf(err, "extract: vision request for document %s", doc.ID)
	}

	zap.L().Debug("extract: vision response",
		zap.String("document_id", doc.ID),
		zap.String("model", string(msg.Model)),
		zap.Int64("input_tokens", msg.Usage.InputTokens),
		zap.Int64("output_tokens", msg.Usage.OutputTokens),
	)

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	return decodeCandidates(sb.String(), doc)
}

// mediaTypeFor maps the file extension to the image MIME type the vision
// API accepts. Anything else, PDFs included, is rejected up front rather
// than sent mislabeled.
func mediaTypeFor(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".png":
		return "image/png", nil
	case ".jpg", ".jpeg":
		return "image/jpeg", nil
	case ".gif":
		return "image/gif", nil
	case ".webp":
		return "image/webp", nil
	default:
		return "", eris.Errorf("unsupported image type %q (want .png, .jpg, .jpeg, .gif, or .webp)", ext)
	}
}
