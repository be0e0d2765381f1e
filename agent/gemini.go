package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// DefaultModel 기본 추론 모델
const DefaultModel = "gemini-2.5-flash-lite"

// Generator 프롬프트를 받아 텍스트를 생성합니다
// 테스트에서는 가짜 구현으로 대체합니다
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Gemini Gemini API를 사용하는 Generator 구현
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGemini 새로운 Gemini 생성기를 생성합니다
// 감사 추론은 재현성이 중요하므로 temperature 0으로 고정합니다
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("Gemini 클라이언트 생성 실패: %w", err)
	}

	if model == "" {
		model = DefaultModel
	}

	m := client.GenerativeModel(model)
	m.SetTemperature(0)
	// 모델이 관찰 결과까지 지어내지 않도록 Observation에서 생성을 멈춤
	m.StopSequences = []string{"\nObservation:"}

	return &Gemini{client: client, model: m}, nil
}

// Generate 프롬프트를 전송하고 응답 텍스트를 반환합니다
// Rate Limit 에러 발생 시 30초 대기 후 재시도합니다
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	const maxRetries = 3
	const retryDelay = 30 * time.Second

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
		if err == nil {
			var parts []string
			for _, cand := range resp.Candidates {
				if cand.Content != nil {
					for _, part := range cand.Content.Parts {
						if text, ok := part.(genai.Text); ok {
							parts = append(parts, string(text))
						}
					}
				}
			}

			if len(parts) == 0 {
				return "", fmt.Errorf("모델 응답이 비어있습니다")
			}

			return strings.Join(parts, "\n"), nil
		}

		lastErr = err
		errStr := strings.ToLower(err.Error())

		// Rate Limit 에러 확인 (429 또는 rate limit 관련 메시지)
		isRateLimit := strings.Contains(errStr, "429") ||
			strings.Contains(errStr, "rate limit") ||
			strings.Contains(errStr, "quota") ||
			strings.Contains(errStr, "resource exhausted")

		if isRateLimit && attempt < maxRetries-1 {
			fmt.Printf("⚠️  Rate Limit 에러 발생 (시도 %d/%d), %v 후 재시도...\n", attempt+1, maxRetries, retryDelay)
			time.Sleep(retryDelay)
			continue
		}

		return "", err
	}

	return "", fmt.Errorf("최대 재시도 횟수 초과: %w", lastErr)
}

// Close 클라이언트를 닫습니다
func (g *Gemini) Close() error {
	return g.client.Close()
}
