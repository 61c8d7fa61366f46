package notify

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"success": Success,
		"ERROR":   Error,
		" info ":  Info,
		"warning": Info,
		"":        Info,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLevelPresentation(t *testing.T) {
	if Error.CSSClass() != "bg-danger" || Error.Icon() != "exclamation-circle" {
		t.Fatalf("unexpected error presentation: %s %s", Error.CSSClass(), Error.Icon())
	}
	if Success.CSSClass() != "bg-success" || Success.Icon() != "check-circle" {
		t.Fatalf("unexpected success presentation: %s %s", Success.CSSClass(), Success.Icon())
	}
	if Info.CSSClass() != "bg-info" || Info.Icon() != "info-circle" {
		t.Fatalf("unexpected info presentation: %s %s", Info.CSSClass(), Info.Icon())
	}
	n := Notification{Message: "x", Level: Error}
	if n.ToastClass() != "toast toast-custom show bg-danger text-white" {
		t.Fatalf("unexpected toast class %q", n.ToastClass())
	}
}

func TestLevelJSON(t *testing.T) {
	b, err := json.Marshal(Notification{Message: "hi", Level: Success})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Notification
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Level != Success || back.Message != "hi" {
		t.Fatalf("unexpected notification %+v from %s", back, b)
	}
}

func TestFeedExpiresAfterTTL(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	f := NewFeed(3 * time.Second)
	f.now = func() time.Time { return now }

	f.Notify("first", Success)
	now = now.Add(2 * time.Second)
	f.Notify("second", Info)

	if got := f.Pending(); len(got) != 2 {
		t.Fatalf("expected 2 pending, got %d", len(got))
	}

	now = now.Add(1500 * time.Millisecond)
	got := f.Pending()
	if len(got) != 1 || got[0].Message != "second" {
		t.Fatalf("expected only second to survive, got %+v", got)
	}

	now = now.Add(5 * time.Second)
	if got := f.Pending(); len(got) != 0 {
		t.Fatalf("expected all expired, got %+v", got)
	}
}

func TestFeedDrainEmpties(t *testing.T) {
	f := NewFeed(0)
	f.Notify("a", Info)
	f.Notify("b", Error)

	got := f.Drain()
	if len(got) != 2 || got[1].Level != Error {
		t.Fatalf("unexpected drain result %+v", got)
	}
	if again := f.Drain(); len(again) != 0 || again == nil {
		t.Fatalf("expected empty non-nil slice after drain, got %#v", again)
	}
}

func TestMultiFansOut(t *testing.T) {
	var seen []string
	rec := func(tag string) Sink {
		return SinkFunc(func(m string, l Level) { seen = append(seen, tag+":"+m+":"+l.String()) })
	}
	Multi{rec("a"), rec("b")}.Notify("hello", Success)
	if len(seen) != 2 || seen[0] != "a:hello:success" || seen[1] != "b:hello:success" {
		t.Fatalf("unexpected fan-out %v", seen)
	}
}
