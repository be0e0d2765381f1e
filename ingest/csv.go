package ingest

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"goc-audit-agent/models"
)

// 거래 CSV의 헤더 이름 (원본 데이터셋 형식)
const (
	colID          = "id_transacao"
	colDate        = "data"
	colEmployee    = "funcionario"
	colRole        = "cargo"
	colDescription = "descricao"
	colAmount      = "valor"
	colCategory    = "categoria"
	colDepartment  = "departamento"
)

// dateLayouts 거래 일자 파싱에 시도하는 형식들
var dateLayouts = []string{"2006-01-02", "02/01/2006", time.RFC3339}

// LoadTransactions 거래 내역 CSV 파일을 로드합니다
func LoadTransactions(path string) ([]models.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("CSV 파일 열기 실패: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("CSV 파싱 실패: %w", err)
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("CSV에 데이터가 없습니다: %s", path)
	}

	// 헤더를 컬럼 인덱스로 매핑
	header := make(map[string]int)
	for i, name := range records[0] {
		header[strings.TrimSpace(strings.ToLower(name))] = i
	}

	for _, required := range []string{colID, colEmployee, colAmount} {
		if _, ok := header[required]; !ok {
			return nil, fmt.Errorf("CSV에 필수 컬럼이 없습니다: %s", required)
		}
	}

	field := func(row []string, name string) string {
		idx, ok := header[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var transactions []models.Transaction
	for i, row := range records[1:] {
		amount, err := strconv.ParseFloat(field(row, colAmount), 64)
		if err != nil {
			return nil, fmt.Errorf("행 %d의 금액 파싱 실패: %w", i+2, err)
		}

		tx := models.Transaction{
			ID:          field(row, colID),
			Employee:    field(row, colEmployee),
			Role:        field(row, colRole),
			Description: field(row, colDescription),
			Amount:      amount,
			Category:    field(row, colCategory),
			Department:  field(row, colDepartment),
		}

		if raw := field(row, colDate); raw != "" {
			tx.Date, err = parseDate(raw)
			if err != nil {
				return nil, fmt.Errorf("행 %d의 일자 파싱 실패: %w", i+2, err)
			}
		}

		transactions = append(transactions, tx)
	}

	return transactions, nil
}

func parseDate(raw string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("지원하지 않는 일자 형식: %s", raw)
}
