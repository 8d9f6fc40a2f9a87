package app

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/example/retrobot/internal/core/effects"
	"github.com/example/retrobot/internal/ctxutil"
)

type unknownEffect struct{}

func (unknownEffect) EffectType() string { return "unknown" }
func (unknownEffect) Describe() string   { return "unknown" }

func newTestExecutor() (*DefaultEffectExecutor, *mockTracker, *mockNotifier, *mockLogger, *mockAuditLog) {
	tracker := newMockTracker()
	notifier := &mockNotifier{}
	logger := &mockLogger{}
	audit := &mockAuditLog{}
	return NewEffectExecutor(tracker, notifier, logger, audit), tracker, notifier, logger, audit
}

func TestApply_Board(t *testing.T) {
	executor, tracker, _, _, _ := newTestExecutor()
	ctx := context.Background()

	out, err := executor.Apply(ctx, effects.BoardEffect{Operation: effects.BoardCreate, Name: "Retro", Body: "body"})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if out.ID != 1001 || out.URL == "" {
		t.Errorf("Outcome = %+v", out)
	}

	if _, err := executor.Apply(ctx, effects.BoardEffect{Operation: effects.BoardUpdateBody, BoardID: 1001, Body: "new"}); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if _, err := executor.Apply(ctx, effects.BoardEffect{Operation: effects.BoardClose, BoardID: 1001}); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	want := []boardUpdateCall{{ID: 1001, Body: "new"}, {ID: 1001, State: "closed"}}
	if !reflect.DeepEqual(tracker.boardUpdates, want) {
		t.Errorf("updates = %+v, want %+v", tracker.boardUpdates, want)
	}

	if _, err := executor.Apply(ctx, effects.BoardEffect{Operation: "archive"}); err == nil {
		t.Error("expected error for unknown board operation")
	}
}

func TestApply_Issue(t *testing.T) {
	executor, tracker, _, _, _ := newTestExecutor()
	ctx := context.Background()

	out, err := executor.Apply(ctx, effects.IssueEffect{Operation: effects.IssueCreate, Title: "Retro", Labels: []string{"retrobot"}})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if out.Number != 41 {
		t.Errorf("Number = %d, want 41", out.Number)
	}

	if _, err := executor.Apply(ctx, effects.IssueEffect{Operation: effects.IssueAssign, Number: 41, Assignees: []string{"alice"}}); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if _, err := executor.Apply(ctx, effects.IssueEffect{Operation: effects.IssueClose, Number: 41}); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	if !reflect.DeepEqual(tracker.assigned[41], []string{"alice"}) {
		t.Errorf("assigned = %v", tracker.assigned[41])
	}
	if !reflect.DeepEqual(tracker.issueStates, []issueStateCall{{Number: 41, State: "closed"}}) {
		t.Errorf("issue states = %v", tracker.issueStates)
	}
}

func TestApply_Notify(t *testing.T) {
	executor, _, notifier, _, audit := newTestExecutor()

	out, err := executor.Apply(context.Background(), effects.NotifyEffect{
		URL:       "https://Hooks.Slack.example/services/secret",
		Username:  "Retrobot",
		Text:      "hi",
		IconEmoji: ":rocket:",
		LinkNames: true,
	})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if out.Status != "200 OK" {
		t.Errorf("Status = %q", out.Status)
	}
	if len(notifier.posts) != 1 || !notifier.posts[0].LinkNames {
		t.Errorf("posts = %+v", notifier.posts)
	}

	want := []auditCall{{EffectType: "notify", Operation: "post", Target: "hooks.slack.example"}}
	if !reflect.DeepEqual(audit.calls, want) {
		t.Errorf("audit = %+v, want %+v", audit.calls, want)
	}
}

func TestApply_NotifyFailure(t *testing.T) {
	executor, _, notifier, _, audit := newTestExecutor()
	notifier.postErr = errors.New("timeout")

	_, err := executor.Apply(context.Background(), effects.NotifyEffect{URL: "https://hooks.example/x", Text: "hi"})
	if err == nil {
		t.Fatal("expected error")
	}
	if len(audit.calls) != 0 {
		t.Error("failed effects must not be audited")
	}
}

func TestApply_DryRun(t *testing.T) {
	executor, tracker, notifier, logger, audit := newTestExecutor()
	ctx := ctxutil.WithDryRun(context.Background(), true)

	effs := []effects.Effect{
		effects.BoardEffect{Operation: effects.BoardCreate, Name: "Retro"},
		effects.ColumnEffect{Name: "Went well"},
		effects.CardEffect{Column: "Went well", Note: "hi"},
		effects.IssueEffect{Operation: effects.IssueCreate, Title: "Retro"},
		effects.NotifyEffect{URL: "https://hooks.example/x", Text: "hi"},
	}
	for _, eff := range effs {
		out, err := executor.Apply(ctx, eff)
		if err != nil {
			t.Fatalf("Apply(%s) failed: %v", eff.EffectType(), err)
		}
		if out != (effects.Outcome{}) {
			t.Errorf("Apply(%s) = %+v, want zero outcome", eff.EffectType(), out)
		}
	}

	if tracker.mutations() != 0 || len(notifier.posts) != 0 || len(audit.calls) != 0 {
		t.Error("expected dry run to suppress every mutation")
	}
	if len(logger.lines) != len(effs) {
		t.Errorf("expected one log line per effect, got %v", logger.lines)
	}
}

func TestApply_LogEffect(t *testing.T) {
	executor, _, _, logger, _ := newTestExecutor()

	err := executor.Execute(context.Background(), []effects.Effect{
		effects.LogEffect{Level: "info", Message: "hello"},
		effects.LogEffect{Level: "warn", Message: "careful"},
		effects.CompositeEffect{Effects: []effects.Effect{
			effects.LogEffect{Level: "error", Message: "broken"},
			effects.NoEffect{},
		}},
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	want := []string{"info: hello", "warn: careful", "error: broken"}
	if !reflect.DeepEqual(logger.lines, want) {
		t.Errorf("lines = %v, want %v", logger.lines, want)
	}
}

func TestApply_UnknownEffect(t *testing.T) {
	executor, _, _, _, _ := newTestExecutor()

	if _, err := executor.Apply(context.Background(), unknownEffect{}); err == nil {
		t.Error("expected error for unknown effect")
	}
}

func TestApply_AuditFailureIsNotFatal(t *testing.T) {
	executor, _, _, logger, audit := newTestExecutor()
	audit.recordErr = errors.New("disk full")

	if _, err := executor.Apply(context.Background(), effects.ColumnEffect{BoardID: 1, Name: "Todo"}); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if !logger.contains("warn: failed to record audit entry") {
		t.Errorf("expected warning, got %v", logger.lines)
	}
}

func TestApply_CardBatchDryRun(t *testing.T) {
	executor, tracker, _, logger, audit := newTestExecutor()
	ctx := ctxutil.WithDryRun(context.Background(), true)

	_, err := executor.Apply(ctx, effects.CompositeEffect{Effects: []effects.Effect{
		effects.CardEffect{ColumnID: 0, Column: "Went well", Note: "Second"},
		effects.LogEffect{Level: "warn", Message: `skipping card "Orphan": no column named "Nowhere"`},
		effects.CardEffect{ColumnID: 0, Column: "Went well", Note: "First"},
	}})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	want := []string{
		`info: dry-run: would add card "Second" to column "Went well"`,
		`warn: skipping card "Orphan": no column named "Nowhere"`,
		`info: dry-run: would add card "First" to column "Went well"`,
	}
	if !reflect.DeepEqual(logger.lines, want) {
		t.Errorf("lines = %v, want %v", logger.lines, want)
	}
	if len(tracker.cards) != 0 || len(audit.calls) != 0 {
		t.Error("dry run must not create or audit cards")
	}
}
