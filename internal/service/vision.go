package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/nfnt/resize"
	"google.golang.org/api/option"
)

const (
	// maxVisionWidth bounds the payload sent to the vision backend.
	maxVisionWidth = 512

	extractionTimeout = 30 * time.Second
)

// GeminiExtractor extracts food labels from an image using the Gemini API.
type GeminiExtractor struct {
	model *genai.GenerativeModel
}

// NewGeminiExtractor creates a new Gemini-backed label extractor.
func NewGeminiExtractor(ctx context.Context, apiKey string) (*GeminiExtractor, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &GeminiExtractor{model: client.GenerativeModel("gemini-1.5-flash")}, nil
}

// Extract returns the food labels detected in the image, most prominent
// first. The result may be empty for a foodless image. Decode failures and
// unreachable backends report ErrRecognition; one attempt, no retry.
func (e *GeminiExtractor) Extract(ctx context.Context, imageData []byte) ([]string, error) {
	prepared, err := prepareImage(imageData)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRecognition, err)
	}

	ctx, cancel := context.WithTimeout(ctx, extractionTimeout)
	defer cancel()

	prompt := []genai.Part{
		genai.ImageData("png", prepared),
		genai.Text("List the distinct food items and ingredients visible in this image, one per line, most prominent first. Use short lowercase names without numbering or bullets. If the image contains no food, reply with the single word NONE."),
	}

	resp, err := e.model.GenerateContent(ctx, prompt...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRecognition, err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("%w: empty response from Gemini", ErrRecognition)
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected response format from Gemini", ErrRecognition)
	}

	return parseLabels(string(text)), nil
}

// parseLabels turns the backend's line-oriented reply into a label slice,
// preserving the reply order.
func parseLabels(reply string) []string {
	var labels []string
	for _, line := range strings.Split(reply, "\n") {
		label := strings.TrimSpace(strings.TrimLeft(line, "-* \t"))
		if label == "" || strings.EqualFold(label, "NONE") {
			continue
		}
		labels = append(labels, label)
	}
	return labels
}

// prepareImage decodes the upload and downscales it so the longest side does
// not exceed maxVisionWidth, re-encoding as PNG for the backend.
func prepareImage(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxVisionWidth || bounds.Dy() > maxVisionWidth {
		img = resize.Thumbnail(maxVisionWidth, maxVisionWidth, img, resize.Lanczos3)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}
