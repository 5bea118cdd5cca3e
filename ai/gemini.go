// Package ai wraps the Gemini API for the three assistant features: the
// waiter chatbot, menu photo generation and voice-command parsing. All of
// it is optional; without an API key the server runs with the assistant
// disabled.
package ai

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"daebak/restapi/models"
)

const (
	chatModel  = "gemini-2.5-flash"
	imageModel = "gemini-2.5-flash-image"
)

const waiterPersona = `
당신은 '미스터 대박'이라는 한식당의 친절하고 재치 있는 웨이터입니다.
손님의 질문에 한국어로 자연스럽게 대답하세요.

--- [메뉴 목록] ---
%s

--- [특별 디너 종류 및 구성] ---
미스터 대박은 여러 명이 각자 따로 주문할 수 있는 다양한 디너를 제공합니다.
1. 발렌타인 디너 (Valentine dinner): 작은 하트 모양과 큐피드가 장식된 접시에 냅킨과 함께 와인, 스테이크 제공.
2. 프렌치 디너 (French dinner): 커피 한 잔, 와인 한 잔, 샐러드, 스테이크 제공.
3. 잉글리시 디너 (English dinner): 에그 스크램블, 베이컨, 빵, 스테이크 제공.
4. 샴페인 축제 디너 (Champagne Feast dinner): 항상 2인 식사이며, 샴페인 1병, 바게트 4개, 커피 포트, 와인, 스테이크 제공.

--- [서빙 스타일 및 규칙] ---
디너는 세 가지 서빙 스타일(simple, grand, deluxe)로 제공되며, 스타일이 좋을수록 가격이 비싸집니다.

1. 심플 스타일 (Simple style): 플라스틱 접시, 플라스틱 컵, 종이 냅킨이 플라스틱 쟁반에 제공. 와인 포함 시 잔은 플라스틱 잔 제공.
2. 그랜드 스타일 (Grand style): 도자기 접시, 도자기 컵, 흰색 면 냅킨이 나무 쟁반에 제공. 와인 포함 시 잔은 플라스틱 잔 제공.
3. 디럭스 스타일 (Deluxe style): 꽃들이 있는 작은 꽃병, 도자기 접시, 도자기 컵, 린넨 냅킨이 나무 쟁반에 제공. 와인 포함 시 잔은 유리 잔 제공.

**특수 규칙:** 샴페인 축제 디너는 **그랜드 스타일 또는 디럭스 스타일**로만 주문 가능합니다.

--- [웨이터 역할] ---
1. 손님의 취향을 물어보고 디너와 서빙 스타일을 추천해주세요.
2. 메뉴와 스타일에 대한 설명이나 어울리는 조합을 추천해주세요.
3. 항상 정중하고 활기찬 말투를 사용하세요. (예: "어서오세요!", "탁월한 선택이십니다!")
4. 주문을 직접 받을 수는 없지만, "장바구니에 담아주세요"라고 안내할 수는 있습니다.
`

// Assistant is the Gemini client shared by all AI endpoints.
type Assistant struct {
	client *genai.Client
}

// NewAssistant connects to the Gemini API. An empty key returns (nil, nil):
// a nil *Assistant means the feature is off.
func NewAssistant(ctx context.Context, apiKey string) (*Assistant, error) {
	if apiKey == "" {
		return nil, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Assistant{client: client}, nil
}

// Chat is one customer's conversation with the waiter persona.
type Chat struct {
	chat *genai.Chat
}

// NewChat starts a chat session seeded with the current menu.
func (a *Assistant) NewChat(ctx context.Context, menu []models.MenuItem) (*Chat, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(fmt.Sprintf(waiterPersona, menuContext(menu)), genai.RoleUser),
	}
	chat, err := a.client.Chats.Create(ctx, chatModel, cfg, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat session: %w", err)
	}
	return &Chat{chat: chat}, nil
}

// Send forwards one message and returns the reply text. Fallback phrases
// mirror the kiosk wording so failures read like the waiter apologizing.
func (c *Chat) Send(ctx context.Context, message string) string {
	res, err := c.chat.SendMessage(ctx, genai.Part{Text: message})
	if err != nil {
		return "오류가 발생했습니다. 다시 시도해 주세요."
	}
	if text := res.Text(); text != "" {
		return text
	}
	return "죄송합니다. 잠시 후 다시 말씀해 주세요."
}

// GenerateMenuImage produces a new photo for a menu item from its name and
// a free-text modification instruction. Returns a data URL, or "" when the
// model produced no image.
func (a *Assistant) GenerateMenuImage(ctx context.Context, itemName, instruction string) (string, error) {
	prompt := fmt.Sprintf(
		"Professional food photography of %s. %s. High quality, delicious, restaurant style, isolated, 4k, 4:3 aspect ratio.",
		itemName, instruction,
	)

	res, err := a.client.Models.GenerateContent(ctx, imageModel, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("image generation failed: %w", err)
	}

	for _, cand := range res.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return "data:image/png;base64," + base64.StdEncoding.EncodeToString(part.InlineData.Data), nil
			}
		}
	}
	return "", nil
}

func menuContext(menu []models.MenuItem) string {
	var b strings.Builder
	for _, m := range menu {
		fmt.Fprintf(&b, "%s (%s, $%.2f): %s\n", m.Name, m.Category, m.Price, m.Description)
	}
	return b.String()
}

func menuNames(menu []models.MenuItem) string {
	names := make([]string, len(menu))
	for i, m := range menu {
		names[i] = m.Name
	}
	return strings.Join(names, ", ")
}
