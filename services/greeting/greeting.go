package greeting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"villa-booking/logger"

	"google.golang.org/genai"
)

const (
	geminiModel  = "gemini-2.5-flash-lite"
	maxGreeting  = 600
	greetTimeout = 5 * time.Second
)

// Stay describes what a greeting is written about
type Stay struct {
	GuestName    string
	PropertyName string
	Nights       int
	HotelName    string
}

// Greeter writes the personal thank-you paragraph of the checkout email
type Greeter interface {
	Greeting(ctx context.Context, stay Stay) string
}

// Static is the fixed greeting used when no model is configured
type Static struct{}

func (Static) Greeting(_ context.Context, stay Stay) string {
	return Fallback(stay)
}

// Fallback returns the default thank-you sentence.
func Fallback(stay Stay) string {
	name := strings.TrimSpace(stay.GuestName)
	if name == "" {
		name = "Guest"
	}
	place := stay.PropertyName
	if place == "" {
		place = stay.HotelName
	}
	if place == "" {
		return fmt.Sprintf("Dear %s, thank you for staying with us. We hope to welcome you again soon.", name)
	}
	return fmt.Sprintf("Dear %s, thank you for staying at %s. We hope to welcome you again soon.", name, place)
}

// Gemini asks a Gemini model for a short greeting and falls back to the
// static text on any failure.
type Gemini struct {
	client *genai.Client
	Model  string
}

// NewGemini creates a Gemini-backed greeter. An empty key yields Static.
func NewGemini(ctx context.Context, apiKey string) (Greeter, error) {
	if apiKey == "" {
		return Static{}, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Gemini{client: client, Model: geminiModel}, nil
}

func (g *Gemini) Greeting(ctx context.Context, stay Stay) string {
	if g == nil || g.client == nil {
		return Fallback(stay)
	}

	ctx, cancel := context.WithTimeout(ctx, greetTimeout)
	defer cancel()

	result, err := g.client.Models.GenerateContent(
		ctx,
		g.Model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: Prompt(stay)}}}},
		&genai.GenerateContentConfig{
			Temperature: genai.Ptr(float32(0.7)),
		},
	)
	if err != nil {
		logger.Warning(fmt.Sprintf("Greeting generation failed, using fallback: %v", err))
		return Fallback(stay)
	}
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return Fallback(stay)
	}

	return Clean(result.Candidates[0].Content.Parts[0].Text, stay)
}

// Prompt builds the model instruction for a stay.
func Prompt(stay Stay) string {
	return fmt.Sprintf(`Write a warm two-sentence thank-you note for a hotel guest who just checked out.
Guest name: %s
Property: %s
Nights stayed: %d
Hotel: %s
Return plain text only. No markdown, no subject line, no signature.`,
		stay.GuestName, stay.PropertyName, stay.Nights, stay.HotelName)
}

// Clean trims model output and rejects anything unusable.
func Clean(text string, stay Stay) string {
	text = strings.TrimSpace(text)
	text = strings.Trim(text, "`")
	text = strings.TrimSpace(text)
	if text == "" || strings.Contains(text, "<") {
		return Fallback(stay)
	}
	if len(text) > maxGreeting {
		return Fallback(stay)
	}
	return text
}
