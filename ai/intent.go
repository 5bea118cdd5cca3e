package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"

	"daebak/restapi/models"
)

// Voice command intents.
const (
	IntentAddToCart = "ADD_TO_CART"
	IntentNavigate  = "NAVIGATE"
	IntentCheckout  = "CHECKOUT"
	IntentUnknown   = "UNKNOWN"
)

// VoiceIntent is the structured result of parsing a spoken command.
type VoiceIntent struct {
	Type     string `json:"type"`
	Target   string `json:"target,omitempty"`
	Quantity int    `json:"quantity,omitempty"`
}

var unknownIntent = VoiceIntent{Type: IntentUnknown}

// ParseVoiceCommand maps a transcript to an intent against the current
// menu. Any API or decoding failure yields UNKNOWN rather than an error:
// the voice surface never blocks the user.
func (a *Assistant) ParseVoiceCommand(ctx context.Context, transcript string, menu []models.MenuItem) VoiceIntent {
	res, err := a.client.Models.GenerateContent(ctx, chatModel, genai.Text(voicePrompt(transcript, menu)), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"type": {
					Type: genai.TypeString,
					Enum: []string{IntentAddToCart, IntentNavigate, IntentCheckout, IntentUnknown},
				},
				"target":   {Type: genai.TypeString, Nullable: genai.Ptr(true)},
				"quantity": {Type: genai.TypeNumber, Nullable: genai.Ptr(true)},
			},
			Required: []string{"type"},
		},
	})
	if err != nil {
		return unknownIntent
	}
	return decodeIntent([]byte(res.Text()))
}

func voicePrompt(transcript string, menu []models.MenuItem) string {
	return fmt.Sprintf(`
You are a voice ordering assistant for a Korean restaurant.
Map the user's spoken command (in Korean or English) to a structured intent.

Available Menu Items: %s

Intents:
- ADD_TO_CART: User wants to order food. Match 'target' to a menu item name fuzzily. Default quantity is 1.
- NAVIGATE: User wants to go to 'menu' (메뉴), 'cart' (장바구니), 'orders' (주문내역), 'login' (로그인).
- CHECKOUT: User wants to pay (결제) or checkout.
- UNKNOWN: Cannot understand or irrelevant.

User said: "%s"
`, menuNames(menu), transcript)
}

// decodeIntent parses the model's JSON reply, normalizing anything
// unexpected to UNKNOWN.
func decodeIntent(data []byte) VoiceIntent {
	var intent VoiceIntent
	if err := json.Unmarshal(data, &intent); err != nil {
		return unknownIntent
	}
	switch intent.Type {
	case IntentAddToCart, IntentNavigate, IntentCheckout:
	default:
		return unknownIntent
	}
	if intent.Type == IntentAddToCart && intent.Quantity < 1 {
		intent.Quantity = 1
	}
	return intent
}
