package db

import (
	"context"
	"fmt"
	"os"

	"goc-audit-agent/models"

	"github.com/philippgille/chromem-go"
)

// 컬렉션 이름 (정책 문서 / 사내 이메일)
const (
	CollectionCompliance = "compliance"
	CollectionEmails     = "emails"
)

// DefaultMinSimilarity 검색 결과로 인정하는 최소 유사도
const DefaultMinSimilarity = 0.7

// Store 벡터 DB 저장소
// 컬렉션 이름별로 chromem-go Collection을 관리합니다
type Store struct {
	db            *chromem.DB
	collections   map[string]*chromem.Collection
	MinSimilarity float32
}

// NewStore 새로운 벡터 DB 저장소를 생성합니다
func NewStore(dbPath string) (*Store, error) {
	// PersistentDB 생성 (기존 DB가 있으면 로드, 없으면 생성)
	database, err := chromem.NewPersistentDB(dbPath, false)
	if err != nil {
		return nil, fmt.Errorf("DB 초기화 실패: %w", err)
	}

	return newStore(database)
}

// NewMemoryStore 디스크에 저장하지 않는 인메모리 저장소를 생성합니다 (테스트용)
func NewMemoryStore() (*Store, error) {
	return newStore(chromem.NewDB())
}

func newStore(database *chromem.DB) (*Store, error) {
	s := &Store{
		db:            database,
		collections:   make(map[string]*chromem.Collection),
		MinSimilarity: DefaultMinSimilarity,
	}

	// 두 컬렉션 생성 또는 로드
	// metadata에 cosine 거리 계산 방식 설정
	for _, name := range []string{CollectionCompliance, CollectionEmails} {
		metadata := map[string]string{
			"hnsw:space": "cosine",
		}
		collection, err := database.GetOrCreateCollection(name, metadata, nil)
		if err != nil {
			return nil, fmt.Errorf("컬렉션 %s 생성 실패: %w", name, err)
		}
		s.collections[name] = collection
	}

	return s, nil
}

// Exists DB 경로가 존재하는지 확인합니다
func Exists(dbPath string) bool {
	_, err := os.Stat(dbPath)
	return err == nil
}

func (s *Store) collection(name string) (*chromem.Collection, error) {
	c, ok := s.collections[name]
	if !ok {
		return nil, fmt.Errorf("알 수 없는 컬렉션: %s", name)
	}
	return c, nil
}

// Count 컬렉션에 저장된 문서의 개수를 반환합니다
func (s *Store) Count(ctx context.Context, collection string) (int, error) {
	c, err := s.collection(collection)
	if err != nil {
		return 0, err
	}
	return c.Count(), nil
}

// AddDocument 문서 한 건을 컬렉션에 추가합니다
func (s *Store) AddDocument(ctx context.Context, collection string, doc *models.Document) error {
	if len(doc.Vector) == 0 {
		return fmt.Errorf("문서에 임베딩 벡터가 없습니다: %s", doc.ID)
	}

	c, err := s.collection(collection)
	if err != nil {
		return err
	}

	// 메타데이터 구성 (chromem-go는 map[string]string을 사용)
	metadata := make(map[string]string)
	metadata["title"] = doc.Title
	metadata["source_id"] = doc.SourceID
	for k, v := range doc.Meta {
		metadata[k] = v
	}

	// 문서 추가 (배치로 전달)
	ids := []string{doc.ID}
	vectors := [][]float32{doc.Vector}
	metadatas := []map[string]string{metadata}
	contents := []string{doc.Content}

	if err := c.Add(ctx, ids, vectors, metadatas, contents); err != nil {
		return fmt.Errorf("문서 추가 실패: %w", err)
	}

	return nil
}

// AddDocuments 여러 문서를 배치로 추가합니다
func (s *Store) AddDocuments(ctx context.Context, collection string, docs []*models.Document) error {
	for i, doc := range docs {
		if err := s.AddDocument(ctx, collection, doc); err != nil {
			return fmt.Errorf("문서 %d 추가 실패: %w", i, err)
		}
	}
	return nil
}

// Search 컬렉션에서 유사한 문서를 검색합니다 (Top K)
// 유사도가 MinSimilarity 미만인 결과는 제외됩니다
func (s *Store) Search(ctx context.Context, collection string, queryVector []float32, topK int) ([]*models.Document, error) {
	if len(queryVector) == 0 {
		return nil, fmt.Errorf("쿼리 벡터가 비어있습니다")
	}

	c, err := s.collection(collection)
	if err != nil {
		return nil, err
	}

	// chromem-go는 topK가 문서 수보다 크면 에러를 반환하므로 잘라줌
	count := c.Count()
	if count == 0 {
		return nil, nil
	}
	if topK > count {
		topK = count
	}

	results, err := c.QueryEmbedding(ctx, queryVector, topK, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("검색 실패: %w", err)
	}

	// 결과를 Document로 변환 (유사도 필터링 적용)
	documents := make([]*models.Document, 0, len(results))
	for _, result := range results {
		if result.Similarity < s.MinSimilarity {
			continue
		}

		doc := &models.Document{
			ID:      result.ID,
			Content: result.Content,
		}

		// 메타데이터 파싱
		if result.Metadata != nil {
			meta := make(map[string]string)
			for k, v := range result.Metadata {
				meta[k] = v
			}
			doc.Meta = meta

			if title, ok := meta["title"]; ok {
				doc.Title = title
			}
			if sourceID, ok := meta["source_id"]; ok {
				doc.SourceID = sourceID
			}
		}

		documents = append(documents, doc)
	}

	return documents, nil
}

// GetByID ID로 특정 문서를 가져옵니다
func (s *Store) GetByID(ctx context.Context, collection string, docID string) (*models.Document, error) {
	c, err := s.collection(collection)
	if err != nil {
		return nil, err
	}

	result, err := c.GetByID(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("문서 조회 실패: %w", err)
	}

	doc := &models.Document{
		ID:      result.ID,
		Content: result.Content,
	}

	if result.Metadata != nil {
		meta := make(map[string]string)
		for k, v := range result.Metadata {
			meta[k] = v
		}
		doc.Meta = meta

		if title, ok := meta["title"]; ok {
			doc.Title = title
		}
		if sourceID, ok := meta["source_id"]; ok {
			doc.SourceID = sourceID
		}
	}

	return doc, nil
}

// Close DB 연결을 닫습니다
// chromem-go의 PersistentDB는 쓰기 시점에 저장되므로 별도 동작은 없습니다
func (s *Store) Close() error {
	return nil
}
