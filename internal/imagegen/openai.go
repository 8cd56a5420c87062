package imagegen

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"
)

// OpenAIGenerator 透過 OpenAI 的圖片 API（DALL-E 3）生成圖片。
// 每次請求之間加一段固定延遲，避免打爆對方的速率限制
type OpenAIGenerator struct {
	client *openai.Client
	delay  time.Duration
}

// NewOpenAIGenerator 建立 OpenAI 圖片生成器
func NewOpenAIGenerator(apiKey string, delay time.Duration) *OpenAIGenerator {
	return &OpenAIGenerator{
		client: openai.NewClient(apiKey),
		delay:  delay,
	}
}

// Generate 送出生成請求並回傳圖片 URL。
// 生成通常需要數秒；呼叫端透過 ctx 控制逾時
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if g.delay > 0 {
		timer := time.NewTimer(g.delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return "", &Error{Kind: KindGeneric, Err: ctx.Err()}
		}
	}

	resp, err := g.client.CreateImage(ctx, openai.ImageRequest{
		Model:          openai.CreateImageModelDallE3,
		Prompt:         prompt,
		N:              1,
		Size:           openai.CreateImageSize1024x1024,
		Quality:        openai.CreateImageQualityStandard,
		Style:          openai.CreateImageStyleVivid,
		ResponseFormat: openai.CreateImageResponseFormatURL,
	})
	if err != nil {
		classified := classify(err)
		log.Error().Err(err).Str("kind", string(classified.Kind)).Msg("image generation failed")
		return "", classified
	}
	if len(resp.Data) == 0 {
		return "", &Error{Kind: KindGeneric, Err: errors.New("empty response from image API")}
	}
	return resp.Data[0].URL, nil
}

// classify 把 OpenAI 回傳的錯誤對應到我們的失敗類別
func classify(err error) *Error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		code, _ := apiErr.Code.(string)
		switch {
		case code == "invalid_api_key" || apiErr.HTTPStatusCode == 401:
			return &Error{Kind: KindMissingCredential, Err: err}
		case code == "insufficient_quota" || apiErr.HTTPStatusCode == 429:
			return &Error{Kind: KindQuotaExceeded, Err: err}
		case code == "content_policy_violation" ||
			strings.Contains(strings.ToLower(apiErr.Message), "content policy"):
			return &Error{Kind: KindContentRejected, Err: err}
		}
	}
	return &Error{Kind: KindGeneric, Err: err}
}

// PlaceholderGenerator 在沒有設定 API 金鑰時使用，
// 回傳固定來源的佔位圖片，永遠成功（沿用原本的行為）
type PlaceholderGenerator struct{}

// Generate 回傳一個帶隨機參數的佔位圖片 URL
func (PlaceholderGenerator) Generate(_ context.Context, _ string) (string, error) {
	return fmt.Sprintf("https://picsum.photos/400/400?random=%d", time.Now().UnixNano()), nil
}

// New 依設定選擇生成器：有金鑰用 OpenAI，否則退回佔位圖片
func New(apiKey string, delay time.Duration) Generator {
	if apiKey == "" {
		log.Warn().Msg("OPENAI_API_KEY not configured, using placeholder images")
		return PlaceholderGenerator{}
	}
	return NewOpenAIGenerator(apiKey, delay)
}
