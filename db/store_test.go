package db

import (
	"context"
	"path/filepath"
	"testing"

	"goc-audit-agent/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDoc(id, content string, vector []float32) *models.Document {
	return &models.Document{
		ID:       id,
		Title:    "정책 문서",
		Content:  content,
		Vector:   vector,
		SourceID: "source-1",
		Meta:     map[string]string{"chunk": "0"},
	}
}

func TestStoreRoundTrip(t *testing.T) {
	store, err := NewMemoryStore()
	require.NoError(t, err)

	ctx := context.Background()
	doc := testDoc("rule-1", "식사 비용 한도는 $100입니다.", []float32{1, 0, 0})
	require.NoError(t, store.AddDocument(ctx, CollectionCompliance, doc))

	count, err := store.Count(ctx, CollectionCompliance)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// 저장한 ID로 조회하면 동일한 본문이 나와야 함
	got, err := store.GetByID(ctx, CollectionCompliance, "rule-1")
	require.NoError(t, err)
	assert.Equal(t, doc.Content, got.Content)
	assert.Equal(t, "정책 문서", got.Title)
	assert.Equal(t, "source-1", got.SourceID)
}

func TestStoreSearchSimilarityFloor(t *testing.T) {
	store, err := NewMemoryStore()
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.AddDocuments(ctx, CollectionCompliance, []*models.Document{
		testDoc("rule-1", "관련 있는 규칙", []float32{1, 0, 0}),
		testDoc("rule-2", "전혀 다른 규칙", []float32{0, 1, 0}),
	}))

	// 직교 벡터는 유사도 0이므로 기본 유사도 하한(0.7)에서 걸러져야 함
	results, err := store.Search(ctx, CollectionCompliance, []float32{1, 0, 0}, 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "rule-1", results[0].ID)
	assert.Equal(t, "관련 있는 규칙", results[0].Content)
}

func TestStoreSearchEmptyCollection(t *testing.T) {
	store, err := NewMemoryStore()
	require.NoError(t, err)

	results, err := store.Search(context.Background(), CollectionEmails, []float32{1, 0, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestStoreSearchTopKClamped(t *testing.T) {
	store, err := NewMemoryStore()
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.AddDocument(ctx, CollectionEmails, testDoc("mail-1", "이메일 내용", []float32{1, 0, 0})))

	// 문서 수보다 큰 topK를 요청해도 에러가 나지 않아야 함
	results, err := store.Search(ctx, CollectionEmails, []float32{1, 0, 0}, 7)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestStoreUnknownCollection(t *testing.T) {
	store, err := NewMemoryStore()
	require.NoError(t, err)

	_, err = store.Search(context.Background(), "잘못된컬렉션", []float32{1, 0, 0}, 5)
	require.Error(t, err)

	err = store.AddDocument(context.Background(), "잘못된컬렉션", testDoc("x", "y", []float32{1}))
	require.Error(t, err)
}

func TestStoreRejectsMissingVector(t *testing.T) {
	store, err := NewMemoryStore()
	require.NoError(t, err)

	err = store.AddDocument(context.Background(), CollectionCompliance, &models.Document{ID: "no-vec", Content: "내용"})
	require.Error(t, err)
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "knowledge.db")
	assert.False(t, Exists(path))

	store, err := NewStore(path)
	require.NoError(t, err)
	defer store.Close()

	assert.True(t, Exists(path))
}
