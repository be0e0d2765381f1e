package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"goc-audit-agent/db"
	"goc-audit-agent/models"
)

// 청킹 파라미터
// 정책은 규칙 단위 정확도를 위해 작게, 이메일은 대화 문맥 유지를 위해 크게 자릅니다
const (
	policyChunkSize    = 500
	policyChunkOverlap = 100
	emailChunkSize     = 1000
	emailChunkOverlap  = 200
)

// emailDivider 이메일 코퍼스에서 메시지 사이를 구분하는 줄
var emailDivider = "\n" + strings.Repeat("-", 79) + "\n"

// policySeparators 정책 문서 분할 우선순위
var policySeparators = []string{"\n\n", "\n", ". ", " "}

// emailSeparators 이메일 코퍼스 분할 우선순위 (메시지 구분선 우선)
var emailSeparators = []string{emailDivider, "\n\n", "\n", " "}

// DocEmbedder 문서 텍스트들을 배치로 임베딩 벡터로 변환합니다
type DocEmbedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
}

// Ingestor 문서를 청킹/임베딩하여 벡터 DB에 적재하는 구조체
type Ingestor struct {
	store    *db.Store
	embedder DocEmbedder
}

// NewIngestor 새로운 적재기를 생성합니다
func NewIngestor(store *db.Store, embedder DocEmbedder) *Ingestor {
	return &Ingestor{store: store, embedder: embedder}
}

// IngestPolicyFile 컴플라이언스 정책 텍스트 파일을 적재합니다
// 적재된 청크 개수를 반환합니다
func (in *Ingestor) IngestPolicyFile(ctx context.Context, path string) (int, error) {
	docs, err := documentsFromFile(path, policyChunkSize, policyChunkOverlap, policySeparators)
	if err != nil {
		return 0, err
	}
	return in.ingest(ctx, db.CollectionCompliance, docs)
}

// IngestEmailsFile 사내 이메일 코퍼스 텍스트 파일을 적재합니다
func (in *Ingestor) IngestEmailsFile(ctx context.Context, path string) (int, error) {
	docs, err := documentsFromFile(path, emailChunkSize, emailChunkOverlap, emailSeparators)
	if err != nil {
		return 0, err
	}
	return in.ingest(ctx, db.CollectionEmails, docs)
}

// IngestPolicyPages 페이지 단위 정책 문서들(Notion 로더 출력)을
// 정책 기준으로 청킹하여 적재합니다
func (in *Ingestor) IngestPolicyPages(ctx context.Context, pages []*models.Document) (int, error) {
	var docs []*models.Document
	for _, page := range pages {
		chunks := Chunk(page.Content, policyChunkSize, policyChunkOverlap, policySeparators)
		for idx, chunk := range chunks {
			docs = append(docs, &models.Document{
				ID:       fmt.Sprintf("%s-chunk-%d", page.ID, idx),
				Title:    page.Title,
				Content:  chunk,
				SourceID: page.ID,
				Meta:     page.Meta,
			})
		}
	}
	return in.ingest(ctx, db.CollectionCompliance, docs)
}

// documentsFromFile 텍스트 파일을 읽어 청크 Document 목록으로 변환합니다
func documentsFromFile(path string, size, overlap int, separators []string) ([]*models.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("파일 읽기 실패: %w", err)
	}

	text := string(data)
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("파일이 비어있습니다: %s", path)
	}

	name := filepath.Base(path)
	chunks := Chunk(text, size, overlap, separators)

	docs := make([]*models.Document, 0, len(chunks))
	for idx, chunk := range chunks {
		docs = append(docs, &models.Document{
			ID:       fmt.Sprintf("%s-chunk-%d", name, idx),
			Title:    name,
			Content:  chunk,
			SourceID: name,
			Meta: map[string]string{
				"source": path,
				"chunk":  fmt.Sprintf("%d", idx),
			},
		})
	}

	return docs, nil
}

// ingest 문서들을 배치로 임베딩하여 컬렉션에 저장합니다
func (in *Ingestor) ingest(ctx context.Context, collection string, docs []*models.Document) (int, error) {
	// 콘텐츠가 너무 짧은 청크는 건너뛰기
	eligible := make([]*models.Document, 0, len(docs))
	for _, doc := range docs {
		if len([]rune(doc.Content)) < 10 {
			continue
		}
		eligible = append(eligible, doc)
	}
	if len(eligible) == 0 {
		return 0, nil
	}

	fmt.Printf("임베딩 생성 중: %d개 청크\n", len(eligible))
	texts := make([]string, len(eligible))
	for i, doc := range eligible {
		texts[i] = doc.Content
	}

	vectors, err := in.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("임베딩 생성 실패: %w", err)
	}
	if len(vectors) != len(eligible) {
		return 0, fmt.Errorf("임베딩 개수 불일치: %d개 요청, %d개 수신", len(eligible), len(vectors))
	}

	for i, doc := range eligible {
		doc.Vector = vectors[i]
		fmt.Printf("저장 중: %d/%d - %s (콘텐츠: %d자)\n", i+1, len(eligible), doc.ID, len([]rune(doc.Content)))

		if err := in.store.AddDocument(ctx, collection, doc); err != nil {
			return i, fmt.Errorf("문서 %s 저장 실패: %w", doc.ID, err)
		}
	}

	return len(eligible), nil
}
