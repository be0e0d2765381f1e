package models

// TraceStep 에이전트 추론 한 사이클의 기록
// (생각 → 행동 → 행동 입력 → 관찰) 순서의 튜플입니다
type TraceStep struct {
	Thought     string // 모델이 출력한 추론 내용
	Action      string // 호출한 도구 이름
	ActionInput string // 도구에 전달한 입력
	Observation string // 도구가 반환한 결과
}

// Trace 한 질문에 대한 전체 추론 기록
// 답변이 반환되면 폐기되는 일회성 데이터입니다
type Trace []TraceStep
