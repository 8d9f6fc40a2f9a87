package app

import (
	"context"
	"fmt"
	"iter"
	"strings"
	"testing"
	"time"

	"github.com/example/retrobot/internal/core/retro"
	"github.com/example/retrobot/internal/ports/secondary"
)

// Ensure mocks implement the interfaces
var (
	_ secondary.Tracker  = (*mockTracker)(nil)
	_ secondary.Notifier = (*mockNotifier)(nil)
	_ secondary.Renderer = (*mockRenderer)(nil)
	_ secondary.Logger   = (*mockLogger)(nil)
	_ secondary.AuditLog = (*mockAuditLog)(nil)
)

type boardUpdateCall struct {
	ID    int64
	Body  string
	State string
}

type columnCall struct {
	BoardID int64
	Name    string
}

type cardCall struct {
	ColumnID int64
	Note     string
}

type issueStateCall struct {
	Number int
	State  string
}

// mockTracker implements secondary.Tracker for testing.
type mockTracker struct {
	pages   [][]*secondary.BoardRecord
	listErr error

	issues      map[int]*secondary.IssueRecord
	getIssueErr error
	createErr   error

	nextID        int64
	createdBoards []*secondary.BoardRecord
	boardUpdates  []boardUpdateCall
	columns       []columnCall
	cards         []cardCall
	createdIssues []secondary.IssueRequest
	assigned      map[int][]string
	issueStates   []issueStateCall
	listCalls     int
}

func newMockTracker(boards ...*secondary.BoardRecord) *mockTracker {
	m := &mockTracker{
		issues:   make(map[int]*secondary.IssueRecord),
		assigned: make(map[int][]string),
		nextID:   1000,
	}
	if len(boards) > 0 {
		m.pages = [][]*secondary.BoardRecord{boards}
	}
	return m
}

func (m *mockTracker) ListBoards(ctx context.Context) iter.Seq2[[]*secondary.BoardRecord, error] {
	m.listCalls++
	return func(yield func([]*secondary.BoardRecord, error) bool) {
		if m.listErr != nil {
			yield(nil, m.listErr)
			return
		}
		for _, page := range m.pages {
			if !yield(page, nil) {
				return
			}
		}
	}
}

func (m *mockTracker) CreateBoard(ctx context.Context, name, body string) (*secondary.BoardRef, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.nextID++
	board := &secondary.BoardRecord{
		ID:    m.nextID,
		Name:  name,
		Body:  body,
		State: "open",
		URL:   fmt.Sprintf("https://github.example/projects/%d", m.nextID),
	}
	m.createdBoards = append(m.createdBoards, board)
	return &secondary.BoardRef{ID: board.ID, URL: board.URL}, nil
}

func (m *mockTracker) UpdateBoard(ctx context.Context, id int64, update secondary.BoardUpdate) error {
	call := boardUpdateCall{ID: id}
	if update.Body != nil {
		call.Body = *update.Body
	}
	if update.State != nil {
		call.State = *update.State
	}
	m.boardUpdates = append(m.boardUpdates, call)
	return nil
}

func (m *mockTracker) CreateColumn(ctx context.Context, boardID int64, name string) (int64, error) {
	m.columns = append(m.columns, columnCall{BoardID: boardID, Name: name})
	return int64(len(m.columns)), nil
}

func (m *mockTracker) CreateCard(ctx context.Context, columnID int64, note string) error {
	m.cards = append(m.cards, cardCall{ColumnID: columnID, Note: note})
	return nil
}

func (m *mockTracker) CreateIssue(ctx context.Context, req secondary.IssueRequest) (*secondary.IssueRef, error) {
	m.createdIssues = append(m.createdIssues, req)
	number := 40 + len(m.createdIssues)
	return &secondary.IssueRef{Number: number, URL: fmt.Sprintf("https://github.example/issues/%d", number)}, nil
}

func (m *mockTracker) GetIssue(ctx context.Context, number int) (*secondary.IssueRecord, error) {
	if m.getIssueErr != nil {
		return nil, m.getIssueErr
	}
	if issue, ok := m.issues[number]; ok {
		return issue, nil
	}
	return nil, fmt.Errorf("issue %d not found", number)
}

func (m *mockTracker) UpdateIssueState(ctx context.Context, number int, state string) error {
	m.issueStates = append(m.issueStates, issueStateCall{Number: number, State: state})
	return nil
}

func (m *mockTracker) AssignIssue(ctx context.Context, number int, handles []string) error {
	m.assigned[number] = append(m.assigned[number], handles...)
	return nil
}

// mutations counts every write made against the tracker.
func (m *mockTracker) mutations() int {
	return len(m.createdBoards) + len(m.boardUpdates) + len(m.columns) + len(m.cards) +
		len(m.createdIssues) + len(m.assigned) + len(m.issueStates)
}

// closedBoards returns the ids of boards closed through UpdateBoard.
func (m *mockTracker) closedBoards() []int64 {
	var ids []int64
	for _, u := range m.boardUpdates {
		if u.State == "closed" {
			ids = append(ids, u.ID)
		}
	}
	return ids
}

// mockNotifier implements secondary.Notifier for testing.
type mockNotifier struct {
	posts   []secondary.Notification
	urls    []string
	postErr error
}

func (m *mockNotifier) Post(ctx context.Context, url string, n secondary.Notification) (string, error) {
	if m.postErr != nil {
		return "", m.postErr
	}
	m.urls = append(m.urls, url)
	m.posts = append(m.posts, n)
	return "200 OK", nil
}

// mockRenderer substitutes {{key}} for top-level string values.
type mockRenderer struct {
	err error
}

func (m *mockRenderer) Render(tmpl string, view map[string]any) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	out := tmpl
	for k, v := range view {
		if s, ok := v.(string); ok {
			out = strings.ReplaceAll(out, "{{"+k+"}}", s)
		}
	}
	return out, nil
}

// mockLogger implements secondary.Logger for testing.
type mockLogger struct {
	lines []string
}

func (m *mockLogger) Infof(format string, args ...any) {
	m.lines = append(m.lines, "info: "+fmt.Sprintf(format, args...))
}

func (m *mockLogger) Warnf(format string, args ...any) {
	m.lines = append(m.lines, "warn: "+fmt.Sprintf(format, args...))
}

func (m *mockLogger) Errorf(format string, args ...any) {
	m.lines = append(m.lines, "error: "+fmt.Sprintf(format, args...))
}

// contains reports whether any logged line contains substr.
func (m *mockLogger) contains(substr string) bool {
	for _, l := range m.lines {
		if strings.Contains(l, substr) {
			return true
		}
	}
	return false
}

type auditCall struct {
	EffectType string
	Operation  string
	Target     string
}

// mockAuditLog implements secondary.AuditLog for testing.
type mockAuditLog struct {
	calls     []auditCall
	recordErr error
}

func (m *mockAuditLog) Record(ctx context.Context, effectType, operation, target, detail string) error {
	if m.recordErr != nil {
		return m.recordErr
	}
	m.calls = append(m.calls, auditCall{EffectType: effectType, Operation: operation, Target: target})
	return nil
}

// retroBoard builds a tracker board carrying an encoded retro.
func retroBoard(t *testing.T, id int64, state string, info retro.RetroInfo) *secondary.BoardRecord {
	t.Helper()
	body, err := retro.Encode(info)
	if err != nil {
		t.Fatalf("failed to encode retro: %v", err)
	}
	return &secondary.BoardRecord{
		ID:    id,
		Name:  fmt.Sprintf("Retro %d", id),
		Body:  body,
		State: state,
		URL:   fmt.Sprintf("https://github.example/projects/%d", id),
	}
}

func fixedClock(now time.Time) func() time.Time {
	return func() time.Time { return now }
}
