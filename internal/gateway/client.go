// Package gateway calls an OpenAI-compatible multimodal AI service to
// classify a plant leaf image from a data URL or plain URL.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

const systemPrompt = `You are an expert agricultural AI specialized in plant disease detection.
Analyze the plant leaf image and determine:
1. Whether the plant is HEALTHY or DISEASED
2. If diseased, identify the specific disease name
3. Provide a confidence score (0-100)

Respond ONLY with a JSON object in this exact format:
{
  "status": "healthy" or "diseased",
  "disease": "disease name" or "none",
  "confidence": number between 0 and 100,
  "analysis": "brief description of what you observe"
}

Common plant diseases include: Bacterial Spot, Early Blight, Late Blight, Leaf Mold, Septoria Leaf Spot, Spider Mites, Target Spot, Yellow Leaf Curl Virus, Mosaic Virus, Powdery Mildew.`

// Client wraps the upstream chat-completions call.
type Client struct {
	api   *openai.Client
	model string
}

// NewClient builds a gateway client. baseURL may point at any
// OpenAI-compatible endpoint; model defaults upstream-side when empty.
func NewClient(baseURL, apiKey, model string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Client{api: openai.NewClientWithConfig(cfg), model: model}
}

// AnalyzeImage sends the image to the model and parses its reply into a
// Verdict. Upstream 429 and 402 surface as ErrRateLimited and
// ErrPaymentRequired; an unparsable reply as ErrMalformedReply.
func (c *Client) AnalyzeImage(ctx context.Context, imageURL string) (Verdict, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: "Please analyze this plant leaf image for diseases.",
					},
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: imageURL},
					},
				},
			},
		},
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		if mapped := mapUpstreamError(err); mapped != nil {
			return Verdict{}, mapped
		}
		return Verdict{}, fmt.Errorf("ai gateway request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Verdict{}, ErrMalformedReply
	}
	return ParseVerdict(resp.Choices[0].Message.Content)
}

func mapUpstreamError(err error) error {
	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}
	switch status {
	case http.StatusTooManyRequests:
		return ErrRateLimited
	case http.StatusPaymentRequired:
		return ErrPaymentRequired
	}
	return nil
}
