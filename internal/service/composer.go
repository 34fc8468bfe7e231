package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	titlePrefix      = "Title: "
	ingredientsLabel = "Ingredients:"
	recipeLabel      = "Recipe:"
)

// ChatComposer generates recipes through an OpenAI-compatible chat
// completions endpoint. It makes exactly one generation attempt per call and
// does not retry on malformed output.
type ChatComposer struct {
	apiKey string
	apiURL string
	model  string
	client *http.Client
}

// NewChatComposer creates a composer from OPENAI_API_KEY (or
// OPENAI_API_KEY_FILE), with OPENAI_API_URL and OPENAI_MODEL overrides.
func NewChatComposer() (*ChatComposer, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		apiKeyFile := os.Getenv("OPENAI_API_KEY_FILE")
		if apiKeyFile == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY or OPENAI_API_KEY_FILE must be set")
		}

		apiKeyBytes, err := os.ReadFile(apiKeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read API key file: %w", err)
		}

		apiKey = strings.TrimSpace(string(apiKeyBytes))
		if apiKey == "" {
			return nil, fmt.Errorf("API key file is empty")
		}
	}

	apiURL := os.Getenv("OPENAI_API_URL")
	if apiURL == "" {
		apiURL = "https://api.openai.com/v1/chat/completions"
	}

	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = "gpt-4o-mini"
	}

	return &ChatComposer{
		apiKey: apiKey,
		apiURL: apiURL,
		model:  model,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}, nil
}

// Message represents a message in the chat
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request represents a chat completions request
type Request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	N           int       `json:"n"`
	Temperature float64   `json:"temperature"`
}

// Compose builds a deterministic prompt from the labels, sends it to the
// generation backend and parses the reply into a ComposedRecipe. An empty
// label set fails fast with ErrInvalidInput before any backend call.
func (c *ChatComposer) Compose(ctx context.Context, labels []string) (*ComposedRecipe, error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("%w: no labels to compose from", ErrInvalidInput)
	}

	messages := []Message{
		{
			Role: "system",
			Content: "You are a chef. Reply in exactly this format and nothing else:\n" +
				"Title: <recipe name>\n" +
				"Ingredients:\n" +
				"<one ingredient with quantity per line>\n" +
				"Recipe:\n" +
				"<numbered preparation steps, one per line>",
		},
		{
			Role:    "user",
			Content: "Create a recipe using the following ingredients: " + strings.Join(labels, ", "),
		},
	}

	reqBody := Request{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   500,
		N:           1,
		Temperature: 0.7,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Printf("[ChatComposer] API request failed with status %d: %s", resp.StatusCode, string(body))
		return nil, fmt.Errorf("API request failed with status %d", resp.StatusCode)
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(result.Choices) == 0 {
		return nil, fmt.Errorf("no response from API")
	}

	return parseReply(result.Choices[0].Message.Content)
}

// parseReply splits the backend's reply into the three sections the prompt
// demanded. The first line carries the title behind a literal "Title: "
// prefix; the "Recipe:" marker delimits the ingredient block from the step
// block and its absence makes the reply unusable.
func parseReply(reply string) (*ComposedRecipe, error) {
	lines := strings.Split(strings.ReplaceAll(reply, "\r\n", "\n"), "\n")

	title := strings.TrimSpace(strings.TrimPrefix(lines[0], titlePrefix))
	if title == "" {
		return nil, fmt.Errorf("%w: missing title line", ErrMalformedGeneration)
	}

	// The marker scan starts past the title line; a reply whose first line is
	// already the marker has no title section at all.
	recipeAt := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == recipeLabel {
			recipeAt = i
			break
		}
	}
	if recipeAt == -1 {
		return nil, fmt.Errorf("%w: no %q marker in reply", ErrMalformedGeneration, recipeLabel)
	}

	composed := &ComposedRecipe{Title: title}
	for _, line := range lines[1:recipeAt] {
		line = strings.TrimSpace(line)
		if line == "" || line == ingredientsLabel {
			continue
		}
		composed.Ingredients = append(composed.Ingredients, line)
	}
	for _, line := range lines[recipeAt+1:] {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		composed.Instructions = append(composed.Instructions, line)
	}

	return composed, nil
}
