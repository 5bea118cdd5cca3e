package ai

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"daebak/restapi/models"
)

func TestDecodeIntent(t *testing.T) {
	tests := []struct {
		name string
		data string
		want VoiceIntent
	}{
		{
			"add to cart with quantity",
			`{"type":"ADD_TO_CART","target":"전주 비빔밥","quantity":2}`,
			VoiceIntent{Type: IntentAddToCart, Target: "전주 비빔밥", Quantity: 2},
		},
		{
			"add to cart defaults quantity to 1",
			`{"type":"ADD_TO_CART","target":"잡채"}`,
			VoiceIntent{Type: IntentAddToCart, Target: "잡채", Quantity: 1},
		},
		{
			"navigate",
			`{"type":"NAVIGATE","target":"cart"}`,
			VoiceIntent{Type: IntentNavigate, Target: "cart"},
		},
		{
			"checkout",
			`{"type":"CHECKOUT"}`,
			VoiceIntent{Type: IntentCheckout},
		},
		{
			"unknown intent string",
			`{"type":"DANCE"}`,
			unknownIntent,
		},
		{
			"explicit unknown",
			`{"type":"UNKNOWN"}`,
			unknownIntent,
		},
		{
			"malformed json",
			`{"type":`,
			unknownIntent,
		},
		{
			"empty payload",
			``,
			unknownIntent,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, decodeIntent([]byte(tt.data)))
		})
	}
}

func TestVoicePromptListsMenu(t *testing.T) {
	menu := []models.MenuItem{
		{Name: "전주 비빔밥"},
		{Name: "양념 치킨"},
	}
	prompt := voicePrompt("비빔밥 두 개 주문해줘", menu)
	assert.True(t, strings.Contains(prompt, "전주 비빔밥, 양념 치킨"))
	assert.True(t, strings.Contains(prompt, "비빔밥 두 개 주문해줘"))
}

func TestMenuContextFormat(t *testing.T) {
	menu := []models.MenuItem{
		{Name: "잡채", Category: "면류", Price: 12.5, Description: "잔치 음식"},
	}
	got := menuContext(menu)
	assert.Equal(t, "잡채 (면류, $12.50): 잔치 음식\n", got)
}
