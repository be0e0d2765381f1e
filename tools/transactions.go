package tools

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"goc-audit-agent/models"
)

// valuePattern 질의 텍스트에서 금액을 추출하는 패턴
var valuePattern = regexp.MustCompile(`\$?\s*(\d+(?:\.\d+)?)`)

// TransactionTool 법인카드 거래 내역(CSV)을 분석하는 도구
// 질의 텍스트의 키워드에 따라 분석 종류를 라우팅합니다
type TransactionTool struct {
	table []models.Transaction
}

// NewTransactionTool 거래 분석 도구를 생성합니다
func NewTransactionTool(table []models.Transaction) *TransactionTool {
	return &TransactionTool{table: table}
}

// Name 도구 이름을 반환합니다
func (t *TransactionTool) Name() string { return "transaction_analysis" }

// Description 도구 설명을 반환합니다
func (t *TransactionTool) Description() string {
	return "법인카드 거래 내역을 분석합니다. 금액 검색, 직원별 지출 집계, " +
		"카테고리별 요약, 특정 금액 조회에 사용하세요. " +
		"예: 'transactions above $500', 'spending of Michael', " +
		"'summary by category', 'exact value 500'. " +
		"컬럼: id_transacao, data, funcionario, cargo, descricao, valor, categoria, departamento"
}

// Call 질의 키워드에 따라 분석을 수행합니다
// 어떤 키워드에도 해당하지 않으면 전체 요약을 반환하며, 에러를 내지 않습니다
func (t *TransactionTool) Call(ctx context.Context, input string) (string, error) {
	if len(t.table) == 0 {
		return "", fmt.Errorf("거래 내역이 로드되지 않았습니다")
	}

	query := strings.ToLower(strings.TrimSpace(input))

	switch {
	case containsAny(query, "above", "over", "more than", "greater", "acima"):
		if value, ok := extractValue(query); ok {
			return t.aboveValue(value), nil
		}
	case containsAny(query, "exact", "exactly", "value of", "exatamente"):
		if value, ok := extractValue(query); ok {
			return t.exactValue(value), nil
		}
	case containsAny(query, "category", "categoria", "type"):
		return t.byCategory(), nil
	}

	// 데이터에 있는 직원 이름이 질의에 등장하면 직원별 분석
	if employee := t.matchEmployee(query); employee != "" {
		return t.byEmployee(employee), nil
	}

	return t.summary(), nil
}

// containsAny 질의에 키워드 중 하나라도 포함되어 있는지 확인합니다
func containsAny(query string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(query, kw) {
			return true
		}
	}
	return false
}

// extractValue 질의 텍스트에서 금액을 추출합니다
func extractValue(query string) (float64, bool) {
	match := valuePattern.FindStringSubmatch(query)
	if match == nil {
		return 0, false
	}
	value, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// matchEmployee 질의에 등장하는 직원의 전체 이름을 찾습니다
// 데이터에 실제로 존재하는 이름만 매칭합니다
func (t *TransactionTool) matchEmployee(query string) string {
	for _, tx := range t.table {
		name := strings.TrimSpace(tx.Employee)
		if name == "" {
			continue
		}
		first := strings.ToLower(strings.Fields(name)[0])
		if strings.Contains(query, first) {
			return name
		}
	}
	return ""
}

// aboveValue 기준 금액을 초과하는 거래를 나열합니다
func (t *TransactionTool) aboveValue(limit float64) string {
	var matched []models.Transaction
	for _, tx := range t.table {
		if tx.Amount > limit {
			matched = append(matched, tx)
		}
	}

	if len(matched) == 0 {
		return fmt.Sprintf("$%.2f 초과 거래가 없습니다.", limit)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "$%.2f 초과 거래 %d건:\n\n", limit, len(matched))

	shown := matched
	if len(shown) > 20 {
		shown = shown[:20]
	}
	for _, tx := range shown {
		fmt.Fprintf(&b, "- %s: %s - $%.2f - %s\n", tx.ID, tx.Employee, tx.Amount, tx.Description)
	}
	if len(matched) > 20 {
		fmt.Fprintf(&b, "\n... 외 %d건.\n", len(matched)-20)
	}

	return b.String()
}

// byEmployee 특정 직원의 거래를 집계합니다
func (t *TransactionTool) byEmployee(employee string) string {
	var matched []models.Transaction
	for _, tx := range t.table {
		if tx.Employee == employee {
			matched = append(matched, tx)
		}
	}

	if len(matched) == 0 {
		return fmt.Sprintf("%s의 거래 내역이 없습니다.", employee)
	}

	total := 0.0
	max := matched[0]
	for _, tx := range matched {
		total += tx.Amount
		if tx.Amount > max.Amount {
			max = tx
		}
	}
	mean := total / float64(len(matched))

	var b strings.Builder
	fmt.Fprintf(&b, "%s의 거래 분석:\n\n", employee)
	fmt.Fprintf(&b, "총 거래 수: %d건\n", len(matched))
	fmt.Fprintf(&b, "총 금액: $%.2f\n", total)
	fmt.Fprintf(&b, "평균 금액: $%.2f\n", mean)
	fmt.Fprintf(&b, "최대 거래: $%.2f - %s\n\n", max.Amount, max.Description)
	b.WriteString("최근 거래 10건:\n")

	recent := matched
	if len(recent) > 10 {
		recent = recent[len(recent)-10:]
	}
	for _, tx := range recent {
		fmt.Fprintf(&b, "- %s (%s): $%.2f - %s\n", tx.Date.Format("2006-01-02"), tx.ID, tx.Amount, tx.Description)
	}

	return b.String()
}

// byCategory 카테고리별 합계/건수/평균을 요약합니다
func (t *TransactionTool) byCategory() string {
	type stats struct {
		total float64
		count int
	}
	perCategory := make(map[string]*stats)
	for _, tx := range t.table {
		category := tx.Category
		if category == "" {
			category = "(미분류)"
		}
		if perCategory[category] == nil {
			perCategory[category] = &stats{}
		}
		perCategory[category].total += tx.Amount
		perCategory[category].count++
	}

	categories := make([]string, 0, len(perCategory))
	for category := range perCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	var b strings.Builder
	b.WriteString("카테고리별 요약:\n\n")
	for _, category := range categories {
		s := perCategory[category]
		fmt.Fprintf(&b, "- %s:\n", category)
		fmt.Fprintf(&b, "  합계: $%.2f\n", s.total)
		fmt.Fprintf(&b, "  건수: %d건\n", s.count)
		fmt.Fprintf(&b, "  평균: $%.2f\n\n", s.total/float64(s.count))
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

// exactValue 특정 금액의 거래를 찾습니다
// 정확히 일치하는 거래가 없으면 ±1 범위로 다시 찾습니다
func (t *TransactionTool) exactValue(value float64) string {
	matched := t.filterAmount(func(a float64) bool { return a == value })
	if len(matched) == 0 {
		matched = t.filterAmount(func(a float64) bool { return a >= value-1 && a <= value+1 })
	}

	if len(matched) == 0 {
		return fmt.Sprintf("$%.2f 금액의 거래가 없습니다.", value)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "$%.2f 금액의 거래:\n\n", value)
	for _, tx := range matched {
		fmt.Fprintf(&b, "- %s (%s): %s - $%.2f\n", tx.ID, tx.Date.Format("2006-01-02"), tx.Employee, tx.Amount)
		fmt.Fprintf(&b, "  설명: %s\n", tx.Description)
		fmt.Fprintf(&b, "  분류: %s\n\n", tx.Category)
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

func (t *TransactionTool) filterAmount(keep func(float64) bool) []models.Transaction {
	var matched []models.Transaction
	for _, tx := range t.table {
		if keep(tx.Amount) {
			matched = append(matched, tx)
		}
	}
	return matched
}

// summary 전체 거래 내역을 요약합니다
func (t *TransactionTool) summary() string {
	total := 0.0
	max := t.table[0]
	for _, tx := range t.table {
		total += tx.Amount
		if tx.Amount > max.Amount {
			max = tx
		}
	}

	var b strings.Builder
	b.WriteString("전체 거래 요약:\n\n")
	fmt.Fprintf(&b, "총 거래 수: %d건\n", len(t.table))
	fmt.Fprintf(&b, "총 금액: $%.2f\n", total)
	fmt.Fprintf(&b, "평균 금액: $%.2f\n", total/float64(len(t.table)))
	fmt.Fprintf(&b, "최대 지출: $%.2f - %s (%s)\n\n", max.Amount, max.Employee, max.Description)
	b.WriteString("사용 가능한 컬럼: id_transacao, data, funcionario, cargo, descricao, valor, categoria, departamento\n")

	return b.String()
}
