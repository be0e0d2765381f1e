package ui

import (
	"context"
	"fmt"
	"strings"

	"goc-audit-agent/agent"
	"goc-audit-agent/models"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1).
			MarginBottom(1)

	questionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1).
			PaddingLeft(2)

	answerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4")).
			MarginTop(1).
			PaddingLeft(2).
			Width(80)

	traceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C7086")).
			PaddingLeft(2)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			MarginTop(1).
			PaddingLeft(2)

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD93D")).
			MarginTop(1).
			PaddingLeft(2)
)

// demoQuestion demo 명령으로 실행되는 예시 감사 질문
const demoQuestion = "Verifique transações suspeitas acima de $500 e se alguma viola a política de compliance"

// helpText help 명령 출력
const helpText = `사용 가능한 명령:

  help   - 이 도움말을 표시합니다
  demo   - 예시 감사 질문을 실행합니다
  clear  - 화면을 초기화합니다
  exit   - 프로그램을 종료합니다

예시 질문:

  [컴플라이언스] 식사 비용 한도는 얼마인가요?
  [이메일 조사]  Michael이 Toby를 상대로 뭔가 꾸미고 있나요?
  [거래 감사]    $500 초과 거래 중 규정을 위반한 것이 있나요?`

// Model TUI 애플리케이션 모델
type Model struct {
	agent    *agent.Agent
	question string
	answer   string
	trace    models.Trace
	partial  bool
	err      error
	loading  bool
	quitting bool
	width    int
	height   int
}

// NewModel 새로운 TUI 모델을 생성합니다
func NewModel(a *agent.Agent) *Model {
	return &Model{agent: a}
}

// Init bubbletea 초기화 함수
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update bubbletea 업데이트 함수
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			return m.submit()

		case "backspace":
			if len(m.question) > 0 {
				runes := []rune(m.question)
				m.question = string(runes[:len(runes)-1])
			}
			return m, nil

		default:
			// 일반 텍스트 입력
			if len(msg.Runes) > 0 {
				m.question += string(msg.Runes)
			}
			return m, nil
		}

	case askResultMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.answer = msg.result.Answer
			m.trace = msg.result.Trace
			m.partial = msg.result.Partial
		}
		m.question = "" // 질문 초기화
		return m, nil
	}

	return m, nil
}

// submit 입력된 텍스트를 명령 또는 질문으로 처리합니다
func (m *Model) submit() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.question)
	if input == "" {
		return m, nil
	}

	switch strings.ToLower(input) {
	case "exit", "quit", "q", "sair":
		m.quitting = true
		return m, tea.Quit

	case "help":
		m.reset()
		m.answer = helpText
		return m, nil

	case "clear":
		m.reset()
		return m, nil

	case "demo":
		input = demoQuestion
	}

	// 질문 처리 시작
	m.loading = true
	m.answer = ""
	m.trace = nil
	m.partial = false
	m.err = nil
	return m, m.ask(input)
}

func (m *Model) reset() {
	m.question = ""
	m.answer = ""
	m.trace = nil
	m.partial = false
	m.err = nil
}

// View bubbletea 뷰 함수
func (m *Model) View() string {
	if m.quitting {
		return "\n👋 감사를 종료합니다. 안녕히 가세요!\n\n"
	}

	var b strings.Builder

	// 제목
	b.WriteString(titleStyle.Render("🏢 Dunder Mifflin 감사 에이전트"))
	b.WriteString("\n\n")

	// 입력 필드
	b.WriteString("질문 입력 (Enter: 실행, help: 도움말, exit: 종료):\n")
	b.WriteString("> " + m.question)
	if !m.loading {
		b.WriteString("_") // 커서 표시
	}
	b.WriteString("\n\n")

	// 로딩 상태
	if m.loading {
		b.WriteString(loadingStyle.Render("🔍 조사 중... (에이전트가 도구를 사용하고 있습니다)"))
		b.WriteString("\n")
		return b.String()
	}

	// 에러 표시
	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("❌ 오류: %v", m.err)))
		b.WriteString("\n")
		return b.String()
	}

	// 추론 기록 표시
	if len(m.trace) > 0 {
		b.WriteString(questionStyle.Render("🔎 조사 과정:"))
		b.WriteString("\n")
		for i, step := range m.trace {
			line := fmt.Sprintf("%d. %s", i+1, step.Action)
			if step.Action == "" {
				line = fmt.Sprintf("%d. (형식 재시도)", i+1)
			} else if step.ActionInput != "" {
				line += fmt.Sprintf(" ← %s", truncate(step.ActionInput, 60))
			}
			b.WriteString(traceStyle.Render(line))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	// 답변 표시
	if m.answer != "" {
		header := "💡 답변:"
		if m.partial {
			header = "💡 답변 (조사 단계 한도 도달, 부분 결과):"
		}
		b.WriteString(questionStyle.Render(header))
		b.WriteString("\n")
		for _, line := range strings.Split(m.answer, "\n") {
			b.WriteString(answerStyle.Render(line))
			b.WriteString("\n")
		}
	}

	return b.String()
}

// truncate 긴 입력을 표시용으로 자릅니다
func truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}

// askResultMsg 에이전트 실행 결과 메시지
type askResultMsg struct {
	result agent.Result
	err    error
}

// ask 에이전트 실행 커맨드
func (m *Model) ask(question string) tea.Cmd {
	return func() tea.Msg {
		result, err := m.agent.Ask(context.Background(), question)
		return askResultMsg{result: result, err: err}
	}
}

// Run TUI 애플리케이션을 실행합니다
func Run(a *agent.Agent) error {
	model := NewModel(a)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
