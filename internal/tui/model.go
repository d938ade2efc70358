package tui

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"legalrag/internal/domain"
)

// referenceResults is how many chunks are shown under an answer.
const referenceResults = 5

// RAGPort is the TUI-facing subset of the RAG service.
type RAGPort interface {
	AnswerQuestion(ctx context.Context, question, documentID string) (domain.Answer, error)
	Search(ctx context.Context, query string, topK int, documentID string) ([]domain.SearchResult, error)
}

type mode int

const (
	modeAsk mode = iota
	modeSearch
)

func (m mode) String() string {
	if m == modeSearch {
		return "search"
	}
	return "ask"
}

// Model is the Bubble Tea model for interactive question answering.
type Model struct {
	ctx        context.Context
	service    RAGPort
	documentID string
	input      textinput.Model
	viewport   viewport.Model
	mode       mode
	answer     *domain.Answer
	results    []domain.SearchResult
	summary    string
	status     string
	cursor     int
	ready      bool
	lastQuery  string
}

// New creates a new TUI model instance. documentID restricts questions to one document when set.
func New(ctx context.Context, service RAGPort, summary, documentID string) Model {
	ti := textinput.New()
	ti.Prompt = "? "
	ti.Placeholder = "Ask about the documents and press Enter (Tab switches to search)"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		ctx:        ctx,
		service:    service,
		documentID: documentID,
		input:      ti,
		viewport:   vp,
		summary:    summary,
		status:     "Loaded. Ask a question.",
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 2 + 1 + qh + 1 // header+summary, status, spacer
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, msg.Height-reserved-rh)
		m.viewport.SetContent(m.renderCurrent())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		switch msg.String() {
		case "tab":
			if m.mode == modeAsk {
				m.mode = modeSearch
				m.input.Prompt = "/ "
			} else {
				m.mode = modeAsk
				m.input.Prompt = "? "
			}
			m.status = "Mode: " + m.mode.String()
			return m, nil
		case "enter":
			if q := strings.TrimSpace(m.input.Value()); q != "" {
				m.run(q)
				m.input.SetValue("")
				m.viewport.SetContent(m.renderCurrent())
				m.viewport.GotoTop()
				return m, nil
			}
		case "down":
			if len(m.results) > 0 {
				m.cursor = (m.cursor + 1) % len(m.results)
				m.viewport.SetContent(m.renderCurrent())
				return m, nil
			}
		case "up":
			if len(m.results) > 0 {
				m.cursor = (m.cursor - 1 + len(m.results)) % len(m.results)
				m.viewport.SetContent(m.renderCurrent())
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// run executes q in the current mode and stores the outcome on m.
func (m *Model) run(q string) {
	m.answer = nil
	m.results = nil
	m.cursor = 0
	m.lastQuery = q

	if m.mode == modeAsk {
		ans, err := m.service.AnswerQuestion(m.ctx, q, m.documentID)
		if err != nil {
			m.status = "Error: " + err.Error()
			return
		}
		m.answer = &ans
	}
	res, err := m.service.Search(m.ctx, q, referenceResults, m.documentID)
	if err != nil {
		m.status = "Error: " + err.Error()
		return
	}
	m.results = res
	if m.answer != nil {
		m.status = fmt.Sprintf("Answered %q with confidence %.2f from %d chunks", q, m.answer.Confidence, m.answer.ContextUsed)
	} else {
		m.status = fmt.Sprintf("%d results for %q", len(res), q)
	}
}

// View renders the TUI layout and current result.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Legal Document Q&A")
	summary := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(m.summary)
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	results := resultBoxStyle.Render(m.viewport.View())
	return header + "\n" + summary + "\n" + results + "\n" + input + "\n" + status
}

func (m Model) renderCurrent() string {
	var b strings.Builder
	if m.answer != nil {
		b.WriteString(answerStyle.Render(m.answer.Answer))
		fmt.Fprintf(&b, "\nconfidence=%.2f  model=%s\n\n", m.answer.Confidence, m.answer.Model)
	}
	if len(m.results) == 0 {
		if m.answer == nil {
			b.WriteString("No results yet.")
		}
		return b.String()
	}
	r := m.results[m.cursor]
	fmt.Fprintf(&b, "Source %d/%d  %s  similarity=%.3f\n\n", m.cursor+1, len(m.results), r.ChunkID, r.Similarity)
	b.WriteString(highlightBestSentence(r.Text, m.lastQuery))
	return b.String()
}

var (
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	answerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	unicodeWordRe  = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)
	sentenceRe     = regexp.MustCompile(`[^.!?]+[.!?]*`)
)

// highlightBestSentence renders the sentence sharing most words with query in bold.
func highlightBestSentence(text, query string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	sentences := sentenceRe.FindAllString(text, -1)
	qTokens := toTokenSet(query)
	if len(qTokens) == 0 {
		return strings.TrimSpace(strings.Join(sentences, ""))
	}
	bestIdx, bestScore := 0, -1
	for i, s := range sentences {
		if score := tokenOverlapScore(qTokens, s); score > bestScore {
			bestIdx, bestScore = i, score
		}
	}
	out := make([]string, 0, len(sentences))
	for i, s := range sentences {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if i == bestIdx {
			s = highlightStyle.Render(s)
		}
		out = append(out, s)
	}
	return strings.Join(out, " ")
}

func toTokenSet(s string) map[string]struct{} {
	tokens := unicodeWordRe.FindAllString(strings.ToLower(s), -1)
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}

func tokenOverlapScore(queryTokens map[string]struct{}, sentence string) int {
	score := 0
	for t := range toTokenSet(sentence) {
		if _, ok := queryTokens[t]; ok {
			score++
		}
	}
	return score
}
