package scanning

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// receiptScanPrompt is the fixed instruction sent with every receipt image.
const receiptScanPrompt = `Extract items (name, price), tax, tip, and total from this receipt.

Return ONLY valid JSON in this exact format:
{
    "items": [
        {"name": "item name", "price": 0.00, "quantity": 1}
    ],
    "subtotal": 0.00,
    "tax": 0.00,
    "total": 0.00,
    "scanned_tip": 0.00
}

Rules:
- Return ONLY the raw JSON object, no markdown formatting or code blocks
- Prices should be numbers (floats), not strings
- If a value is not found, use null
- Include all line items from the receipt
- Be accurate with the prices and names
`

// Gemini implements the Scanner interface using Google Gemini
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGemini creates a new Gemini Scanner instance. An empty API key is not
// an error here; the first upstream call will fail instead, so a process
// without credentials can still serve its liveness probes.
func NewGemini(ctx context.Context, apiKey string, modelName string) (*Gemini, error) {
	if apiKey == "" {
		slog.Warn("Gemini API key is empty, scan requests will fail")
	}
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &Gemini{
		client: client,
		model:  client.GenerativeModel(modelName),
	}, nil
}

// ScanReceipt sends a receipt image to Gemini and parses the structured
// fields out of its response. The image bytes must decode as a supported
// raster format; undecodable payloads never reach the API.
func (g *Gemini) ScanReceipt(ctx context.Context, imageData []byte, contentType string) (*ScanResult, error) {
	if err := validateImage(imageData, contentType); err != nil {
		return nil, err
	}

	parts := []genai.Part{
		genai.Text(receiptScanPrompt),
		genai.ImageData(imageFormat(contentType), imageData),
	}

	resp, err := g.model.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, &UpstreamError{Err: fmt.Errorf("generating content: %w", err)}
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, &UpstreamError{Err: fmt.Errorf("no response from gemini")}
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			responseText.WriteString(string(text))
		}
	}

	return parseScanResult(responseText.String())
}

// Close closes the Gemini client
func (g *Gemini) Close() error {
	return g.client.Close()
}
