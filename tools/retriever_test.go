package tools

import (
	"context"
	"testing"

	"goc-audit-agent/db"
	"goc-audit-agent/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEmbedder 질의 텍스트별로 미리 정한 벡터를 돌려주는 가짜 임베더
type fakeEmbedder struct {
	vectors map[string][]float32
}

func (f *fakeEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if v, ok := f.vectors[text]; ok {
		return v, nil
	}
	return []float32{0, 0, 1}, nil
}

func newTestStore(t *testing.T) *db.Store {
	t.Helper()
	store, err := db.NewMemoryStore()
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.AddDocument(ctx, db.CollectionCompliance, &models.Document{
		ID:      "policy-chunk-3",
		Title:   "politica_compliance.txt",
		Content: "식사 비용은 1인당 $100을 초과할 수 없습니다.",
		Vector:  []float32{1, 0, 0},
	}))
	require.NoError(t, store.AddDocument(ctx, db.CollectionEmails, &models.Document{
		ID:      "emails-chunk-7",
		Title:   "emails.txt",
		Content: "From: Michael\nToby를 회계에서 빼버릴 계획이야.",
		Vector:  []float32{0, 1, 0},
	}))
	return store
}

func TestPolicyToolReturnsMatchingRule(t *testing.T) {
	store := newTestStore(t)
	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"meal limit": {1, 0, 0},
	}}

	tool := NewPolicyTool(store, embedder, 0)
	assert.Equal(t, "policy_search", tool.Name())

	out, err := tool.Call(context.Background(), "meal limit")
	require.NoError(t, err)

	// 규칙 본문과 청크 ID가 함께 인용되어야 함
	assert.Contains(t, out, "$100")
	assert.Contains(t, out, "policy-chunk-3")
}

func TestEmailToolSearchesEmailCollection(t *testing.T) {
	store := newTestStore(t)
	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"plan against Toby": {0, 1, 0},
	}}

	tool := NewEmailTool(store, embedder, 0)
	assert.Equal(t, "email_search", tool.Name())

	out, err := tool.Call(context.Background(), "plan against Toby")
	require.NoError(t, err)
	assert.Contains(t, out, "Toby")
	assert.Contains(t, out, "emails-chunk-7")

	// 정책 컬렉션의 문서는 섞여 나오면 안 됨
	assert.NotContains(t, out, "policy-chunk-3")
}

func TestRetrieverToolTopKOverride(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.AddDocument(ctx, db.CollectionCompliance, &models.Document{
		ID:      "policy-chunk-9",
		Title:   "politica_compliance.txt",
		Content: "출장 숙박비는 1박당 $150까지 허용됩니다.",
		Vector:  []float32{0.9, 0.1, 0},
	}))

	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"expense rules": {1, 0, 0},
	}}

	// topK=1이면 가장 유사한 문서 하나만 반환
	narrow := NewPolicyTool(store, embedder, 1)
	out, err := narrow.Call(ctx, "expense rules")
	require.NoError(t, err)
	assert.Contains(t, out, "policy-chunk-3")
	assert.NotContains(t, out, "policy-chunk-9")

	// 0 이하이면 기본값(PolicyTopK)으로 동작
	wide := NewPolicyTool(store, embedder, 0)
	out, err = wide.Call(ctx, "expense rules")
	require.NoError(t, err)
	assert.Contains(t, out, "policy-chunk-9")
}

func TestRetrieverToolNoMatch(t *testing.T) {
	store := newTestStore(t)
	embedder := &fakeEmbedder{} // 모든 질의가 직교 벡터로 임베딩됨

	tool := NewPolicyTool(store, embedder, 0)
	out, err := tool.Call(context.Background(), "무관한 질문")
	require.NoError(t, err)

	// 유사도 하한 미달이면 에러가 아니라 "없음" 메시지
	assert.Equal(t, NoResultMessage, out)
}

func TestRetrieverToolEmptyInput(t *testing.T) {
	store := newTestStore(t)
	tool := NewPolicyTool(store, &fakeEmbedder{}, 0)

	_, err := tool.Call(context.Background(), "   ")
	require.Error(t, err)
}

func TestRegistry(t *testing.T) {
	store := newTestStore(t)
	embedder := &fakeEmbedder{}

	registry := NewRegistry(
		NewPolicyTool(store, embedder, 0),
		NewEmailTool(store, embedder, 0),
		NewTransactionTool(sampleTable()),
	)

	assert.Equal(t, []string{"policy_search", "email_search", "transaction_analysis"}, registry.Names())

	_, ok := registry.Get("email_search")
	assert.True(t, ok)
	_, ok = registry.Get("없는도구")
	assert.False(t, ok)

	described := registry.Describe()
	assert.Contains(t, described, "policy_search:")
	assert.Contains(t, described, "transaction_analysis:")
}
