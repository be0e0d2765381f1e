package embedding

import (
	"context"
	"fmt"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// DefaultModel 기본 임베딩 모델
const DefaultModel = "text-embedding-004"

// rateLimitDelay 배치 임베딩 시 호출 간 대기 시간 (Rate limit 방지)
const rateLimitDelay = 100 * time.Millisecond

// Embedder Gemini API를 사용하여 텍스트를 임베딩으로 변환하는 구조체
// 문서 저장용과 질문 검색용 태스크 타입을 구분해서 사용합니다
type Embedder struct {
	client     *genai.Client
	docModel   *genai.EmbeddingModel
	queryModel *genai.EmbeddingModel
}

// NewEmbedder 새로운 임베딩 생성기를 생성합니다
func NewEmbedder(ctx context.Context, apiKey, model string) (*Embedder, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("Gemini 클라이언트 생성 실패: %w", err)
	}

	if model == "" {
		model = DefaultModel
	}

	docModel := client.EmbeddingModel(model)
	docModel.TaskType = genai.TaskTypeRetrievalDocument

	queryModel := client.EmbeddingModel(model)
	queryModel.TaskType = genai.TaskTypeRetrievalQuery

	return &Embedder{
		client:     client,
		docModel:   docModel,
		queryModel: queryModel,
	}, nil
}

// EmbedDocument 저장할 문서 텍스트를 임베딩 벡터로 변환합니다
func (e *Embedder) EmbedDocument(ctx context.Context, text string) ([]float32, error) {
	return embed(ctx, e.docModel, text)
}

// EmbedQuery 검색 질문을 임베딩 벡터로 변환합니다
func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return embed(ctx, e.queryModel, text)
}

func embed(ctx context.Context, model *genai.EmbeddingModel, text string) ([]float32, error) {
	resp, err := model.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("임베딩 생성 실패: %w", err)
	}

	if resp.Embedding == nil || len(resp.Embedding.Values) == 0 {
		return nil, fmt.Errorf("임베딩 응답이 비어있습니다")
	}

	return resp.Embedding.Values, nil
}

// EmbedDocuments 여러 문서 텍스트를 배치로 임베딩합니다 (Rate limit 방지)
func (e *Embedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	var results [][]float32

	for i, text := range texts {
		vector, err := e.EmbedDocument(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("텍스트 %d 임베딩 실패: %w", i, err)
		}
		results = append(results, vector)

		// Rate limit 방지를 위한 짧은 대기
		if i < len(texts)-1 {
			time.Sleep(rateLimitDelay)
		}
	}

	return results, nil
}

// Close 클라이언트를 닫습니다
func (e *Embedder) Close() error {
	return e.client.Close()
}
