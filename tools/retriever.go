package tools

import (
	"context"
	"fmt"
	"strings"

	"goc-audit-agent/db"
	"goc-audit-agent/models"
)

// 검색 도구의 Top K 기본값
// 정책은 규칙 정확도 위주로 적게, 이메일은 대화 문맥을 위해 많이 가져옵니다
const (
	PolicyTopK = 5
	EmailTopK  = 7
)

// NoResultMessage 유사도 기준을 넘는 문서가 없을 때 반환하는 관찰 결과
const NoResultMessage = "관련 문서를 찾을 수 없습니다. 다른 검색어로 다시 시도해보세요."

// QueryEmbedder 검색 질문을 임베딩 벡터로 변환합니다
type QueryEmbedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// RetrieverTool 벡터 DB 컬렉션에 대한 의미 기반 검색 도구
type RetrieverTool struct {
	name        string
	description string
	collection  string
	topK        int
	embedder    QueryEmbedder
	store       *db.Store
}

// NewPolicyTool 컴플라이언스 정책 검색 도구를 생성합니다
// topK가 0 이하이면 기본값(PolicyTopK)을 사용합니다
func NewPolicyTool(store *db.Store, embedder QueryEmbedder, topK int) *RetrieverTool {
	if topK <= 0 {
		topK = PolicyTopK
	}
	return &RetrieverTool{
		name: "policy_search",
		description: "Dunder Mifflin 컴플라이언스 정책에서 규칙을 검색합니다. " +
			"지출 한도, 승인 권한, 허용 카테고리 등 사내 규정을 확인할 때 사용하세요. " +
			"예: 'meal expense limit', 'who approves expenses above $500'",
		collection: db.CollectionCompliance,
		topK:       topK,
		embedder:   embedder,
		store:      store,
	}
}

// NewEmailTool 사내 이메일 검색 도구를 생성합니다
// topK가 0 이하이면 기본값(EmailTopK)을 사용합니다
func NewEmailTool(store *db.Store, embedder QueryEmbedder, topK int) *RetrieverTool {
	if topK <= 0 {
		topK = EmailTopK
	}
	return &RetrieverTool{
		name: "email_search",
		description: "사내 이메일에서 대화 내용을 검색합니다. " +
			"직원 간의 모의, 계획, 수상한 커뮤니케이션을 조사할 때 사용하세요. " +
			"예: 'plan against Toby', 'secret expense arrangement'",
		collection: db.CollectionEmails,
		topK:       topK,
		embedder:   embedder,
		store:      store,
	}
}

// Name 도구 이름을 반환합니다
func (t *RetrieverTool) Name() string { return t.name }

// Description 도구 설명을 반환합니다
func (t *RetrieverTool) Description() string { return t.description }

// Call 질문을 임베딩하여 컬렉션에서 Top K 문서를 검색합니다
// 결과가 없으면 에러가 아니라 "없음" 메시지를 반환합니다
func (t *RetrieverTool) Call(ctx context.Context, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("검색어가 비어있습니다")
	}

	queryVector, err := t.embedder.EmbedQuery(ctx, input)
	if err != nil {
		return "", fmt.Errorf("질문 임베딩 실패: %w", err)
	}

	documents, err := t.store.Search(ctx, t.collection, queryVector, t.topK)
	if err != nil {
		return "", fmt.Errorf("문서 검색 실패: %w", err)
	}

	if len(documents) == 0 {
		return NoResultMessage, nil
	}

	return renderDocuments(documents), nil
}

// renderDocuments 검색된 문서들을 관찰 결과 텍스트로 구성합니다
func renderDocuments(documents []*models.Document) string {
	var parts []string
	for i, doc := range documents {
		title := doc.Title
		if title == "" {
			title = "제목 없음"
		}
		parts = append(parts, fmt.Sprintf("[문서 %d: %s | %s]\n%s", i+1, title, doc.ID, doc.Content))
	}
	return strings.Join(parts, "\n\n---\n\n")
}
