package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"goc-audit-agent/db"
	"goc-audit-agent/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDocEmbedder 배치 호출 내역을 기록하고 고정 벡터를 돌려주는 가짜 임베더
type fakeDocEmbedder struct {
	batches [][]string
}

func (f *fakeDocEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	f.batches = append(f.batches, texts)
	vectors := make([][]float32, len(texts))
	for i := range vectors {
		vectors[i] = []float32{1, 0, 0}
	}
	return vectors, nil
}

// embedded 지금까지 임베딩한 텍스트의 총 개수
func (f *fakeDocEmbedder) embedded() int {
	total := 0
	for _, batch := range f.batches {
		total += len(batch)
	}
	return total
}

func TestIngestPolicyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "politica_compliance.txt")
	policy := strings.Repeat("지출 규정 항목입니다. 한도와 승인 절차를 설명합니다.\n\n", 40)
	require.NoError(t, os.WriteFile(path, []byte(policy), 0644))

	store, err := db.NewMemoryStore()
	require.NoError(t, err)
	embedder := &fakeDocEmbedder{}

	ingestor := NewIngestor(store, embedder)
	count, err := ingestor.IngestPolicyFile(context.Background(), path)
	require.NoError(t, err)
	assert.Greater(t, count, 1)

	// 적재 한 번에 배치 임베딩 호출 한 번
	require.Len(t, embedder.batches, 1)
	assert.Equal(t, count, embedder.embedded())

	stored, err := store.Count(context.Background(), db.CollectionCompliance)
	require.NoError(t, err)
	assert.Equal(t, count, stored)
}

func TestIngestEmailsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "emails.txt")
	divider := strings.Repeat("-", 79)
	emails := "From: michael\n" + strings.Repeat("내용 ", 300) +
		"\n" + divider + "\n" +
		"From: dwight\n" + strings.Repeat("보고 ", 300)
	require.NoError(t, os.WriteFile(path, []byte(emails), 0644))

	store, err := db.NewMemoryStore()
	require.NoError(t, err)

	ingestor := NewIngestor(store, &fakeDocEmbedder{})
	count, err := ingestor.IngestEmailsFile(context.Background(), path)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, count, 2)

	stored, err := store.Count(context.Background(), db.CollectionEmails)
	require.NoError(t, err)
	assert.Equal(t, count, stored)
}

func TestIngestMissingFile(t *testing.T) {
	store, err := db.NewMemoryStore()
	require.NoError(t, err)

	ingestor := NewIngestor(store, &fakeDocEmbedder{})
	_, err = ingestor.IngestPolicyFile(context.Background(), filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
}

func TestIngestSkipsTinyChunks(t *testing.T) {
	store, err := db.NewMemoryStore()
	require.NoError(t, err)
	embedder := &fakeDocEmbedder{}

	ingestor := NewIngestor(store, embedder)
	// 10자 미만 청크는 임베딩하지 않고 건너뜀
	count, err := ingestor.ingest(context.Background(), db.CollectionCompliance, []*models.Document{
		{ID: "tiny", Content: "짧음"},
		{ID: "ok", Content: "충분히 긴 정책 문서 청크입니다."},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// 짧은 청크는 배치에 들어가지 않아야 함
	require.Len(t, embedder.batches, 1)
	assert.Equal(t, []string{"충분히 긴 정책 문서 청크입니다."}, embedder.batches[0])
}

func TestIngestPolicyPagesChunksPages(t *testing.T) {
	store, err := db.NewMemoryStore()
	require.NoError(t, err)

	page := &models.Document{
		ID:      "notion-page-1",
		Title:   "출장 규정",
		Content: strings.Repeat("출장비는 사전 승인이 필요합니다.\n\n", 60),
		Meta:    map[string]string{"source": "notion"},
	}

	ingestor := NewIngestor(store, &fakeDocEmbedder{})
	count, err := ingestor.IngestPolicyPages(context.Background(), []*models.Document{page})
	require.NoError(t, err)
	assert.Greater(t, count, 1)

	// 청크 ID는 페이지 ID에서 파생되어야 함
	doc, err := store.GetByID(context.Background(), db.CollectionCompliance, "notion-page-1-chunk-0")
	require.NoError(t, err)
	assert.Equal(t, "출장 규정", doc.Title)
	assert.Equal(t, "notion-page-1", doc.SourceID)
}
