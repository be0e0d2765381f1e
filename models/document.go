package models

// Document 인덱싱 대상 문서 청크를 나타내는 구조체
type Document struct {
	ID       string            // 청크 고유 ID
	Title    string            // 출처 제목 (정책 섹션, 이메일 묶음 등)
	Content  string            // 본문 텍스트
	Vector   []float32         // 임베딩 벡터
	Meta     map[string]string // 메타데이터 (출처 파일, 청크 번호 등)
	SourceID string            // 원본 문서 ID (청킹된 경우)
}
