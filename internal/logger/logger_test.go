package logger

import (
	"sort"
	"testing"
)

func TestSortableMsgsOrdersErrorsBeforeWarningsBeforeNotes(t *testing.T) {
	msgs := SortableMsgs{
		{Kind: Note, Text: "z note"},
		{Kind: Warning, Text: "b warning"},
		{Kind: Error, Text: "b error"},
		{Kind: Warning, Text: "a warning"},
		{Kind: Error, Text: "a error"},
	}
	sort.Stable(msgs)

	want := []string{"a error", "b error", "a warning", "b warning", "z note"}
	for i, w := range want {
		if msgs[i].Text != w {
			t.Fatalf("msgs[%d].Text = %q, want %q", i, msgs[i].Text, w)
		}
	}
}

func TestDeferLogCollectsMessagesAndTracksErrors(t *testing.T) {
	log := NewDeferLog()

	if log.HasErrors() {
		t.Fatal("HasErrors() true before any message added")
	}

	log.AddWarning("a warning")
	if log.HasErrors() {
		t.Fatal("HasErrors() true after only a warning")
	}

	log.AddError("an error")
	if !log.HasErrors() {
		t.Fatal("HasErrors() false after an error was added")
	}

	msgs := log.Done()
	if len(msgs) != 2 {
		t.Fatalf("Done() returned %d messages, want 2", len(msgs))
	}
	if msgs[0].Kind != Error || msgs[1].Kind != Warning {
		t.Fatalf("Done() did not sort errors before warnings: %+v", msgs)
	}
}

func TestAddErrorWithNotesCarriesNotes(t *testing.T) {
	log := NewDeferLog()
	log.AddErrorWithNotes("bad replacement", []string{"start must be <= end"})

	msgs := log.Done()
	if len(msgs) != 1 {
		t.Fatalf("Done() returned %d messages, want 1", len(msgs))
	}
	if len(msgs[0].Notes) != 1 || msgs[0].Notes[0] != "start must be <= end" {
		t.Fatalf("unexpected notes: %+v", msgs[0].Notes)
	}
}

func TestMsgStringIncludesKindAndText(t *testing.T) {
	msg := Msg{Kind: Error, Text: "overlaps a preceding replacement"}
	rendered := msg.String(OutputOptions{}, TerminalInfo{})
	if rendered == "" {
		t.Fatal("String() returned empty output")
	}
	if got := rendered; !contains(got, "error:") || !contains(got, "overlaps a preceding replacement") {
		t.Fatalf("String() = %q, missing kind or text", got)
	}
}

func TestOutputOptionsForArgsParsesLogLevel(t *testing.T) {
	options := OutputOptionsForArgs([]string{"--log-level=silent", "--color=false"})
	if options.LogLevel != LevelSilent {
		t.Fatalf("LogLevel = %v, want LevelSilent", options.LogLevel)
	}
	if options.Color != ColorNever {
		t.Fatalf("Color = %v, want ColorNever", options.Color)
	}
}

func contains(haystack, needle string) bool {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return true
		}
	}
	return false
}
