package agent

import (
	"fmt"
	"strings"

	"goc-audit-agent/models"
	"goc-audit-agent/tools"
)

// promptTemplate ReAct 추론 프롬프트
// 키워드(Thought/Action/Final Answer)는 파서와 맞춰 영어로 고정합니다
const promptTemplate = `당신은 Dunder Mifflin의 감사 전문 에이전트 Toby Flenderson Jr.입니다.
법인카드 부정 사용을 조사하고, 컴플라이언스 위반을 확인하고, 지출 관련 질문에
정확한 근거와 함께 답하는 것이 당신의 일입니다.

원칙:
- 추측하지 않고 도구로 확인한 데이터만 사용합니다
- 근거(문서 인용, 거래 ID, 금액, 날짜)를 반드시 함께 제시합니다
- 부정을 발견하면 왜 부정인지 정확히 설명합니다

사용 가능한 도구:
%s

도구 이름: %s

반드시 아래 형식으로만 응답하세요:

Thought: 무엇을 알아내야 하는지 분석
Action: 사용할 도구 이름 하나
Action Input: 도구에 전달할 입력
Observation: 도구 실행 결과
... (Thought/Action/Action Input/Observation 반복)
Thought: 이제 최종 답을 알았다
Final Answer: 근거를 포함한 완전한 답변

규칙:
1. 컴플라이언스 규정 질문은 policy_search를 먼저 사용
2. 대화/모의 조사는 email_search 사용
3. 지출/거래 분석은 transaction_analysis 사용
4. 맥락이 필요한 부정 조사는 이메일에서 모의 내용을 찾고, 거래 내역에서
   실제 발생 여부를 확인한 뒤 비교해서 결론을 내릴 것
5. 검색 결과에 없는 내용은 "찾을 수 없다"고 답하고 지어내지 말 것

질문: %s

지금까지의 기록:
%s`

// notFoundReminder 형식 위반 응답에 대한 관찰 결과
const notFoundReminder = "응답 형식이 올바르지 않습니다. " +
	"'Action:'과 'Action Input:' 줄로 도구를 호출하거나, 'Final Answer:' 줄로 답변을 마치세요."

// buildPrompt 도구 설명, 질문, 지금까지의 추론 기록으로 프롬프트를 구성합니다
func buildPrompt(registry *tools.Registry, question string, trace models.Trace) string {
	return fmt.Sprintf(promptTemplate,
		registry.Describe(),
		strings.Join(registry.Names(), ", "),
		question,
		renderTrace(trace))
}

// renderTrace 추론 기록을 프롬프트용 텍스트로 렌더링합니다
// 기록 끝에 "Thought:"를 붙여 다음 사이클의 출력을 유도합니다
func renderTrace(trace models.Trace) string {
	var b strings.Builder
	for _, step := range trace {
		if step.Thought != "" {
			fmt.Fprintf(&b, "Thought: %s\n", step.Thought)
		}
		if step.Action != "" {
			fmt.Fprintf(&b, "Action: %s\n", step.Action)
			fmt.Fprintf(&b, "Action Input: %s\n", step.ActionInput)
		}
		fmt.Fprintf(&b, "Observation: %s\n", step.Observation)
	}
	b.WriteString("Thought:")
	return b.String()
}

// finalizePrompt 스텝 예산 소진 시 지금까지의 기록만으로 답변을 강제하는 프롬프트
const finalizePrompt = `당신은 Dunder Mifflin의 감사 전문 에이전트입니다.
조사 단계 한도에 도달했습니다. 아래 질문과 조사 기록만을 근거로
지금까지 확인된 내용을 정리한 최선의 답변을 작성하세요.
확인하지 못한 부분은 확인하지 못했다고 명시하세요.

질문: %s

조사 기록:
%s

답변:`

// buildFinalizePrompt 강제 종료용 프롬프트를 구성합니다
func buildFinalizePrompt(question string, trace models.Trace) string {
	return fmt.Sprintf(finalizePrompt, question, renderTrace(trace))
}
