package models

import "time"

// Transaction 법인카드 거래 내역 한 건을 나타내는 구조체
// CSV의 한 행에 해당하며, 로드 이후에는 수정되지 않습니다
type Transaction struct {
	ID          string    // 거래 ID (id_transacao)
	Date        time.Time // 거래 일자 (data)
	Employee    string    // 직원 이름 (funcionario)
	Role        string    // 직급 (cargo)
	Description string    // 거래 설명 (descricao)
	Amount      float64   // 금액 (valor)
	Category    string    // 분류 (categoria)
	Department  string    // 부서 (departamento)
}
