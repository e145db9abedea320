package ui

import (
	"bytes"
	"strings"
	"testing"
)

func TestTableAlignsColumns(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, true)

	table := w.NewTable("ID", "NAME", "PRICE")
	table.AddRow("1", "Speaker repair", "30.00")
	table.AddRow("12", "Écran", "89.50", "ignored")
	table.AddRow("5")
	table.SetFooter("%d issues", table.Len())
	table.Render()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	want := []string{
		"ID │ NAME           │ PRICE",
		"───┼────────────────┼──────",
		"1  │ Speaker repair │ 30.00",
		"12 │ Écran          │ 89.50",
		"5  │                │",
		"3 issues",
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d:\n%s", len(want), len(lines), buf.String())
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d:\n got %q\nwant %q", i, lines[i], want[i])
		}
	}
}

func TestWriterMessages(t *testing.T) {
	tests := []struct {
		name      string
		verbosity int
		emit      func(w *Writer)
		want      string
	}{
		{"success", 1, func(w *Writer) { w.Success("created %d", 3) }, "✓ created 3\n"},
		{"warning", 1, func(w *Writer) { w.Warning("brand %q", "Nokia") }, "⚠ brand \"Nokia\"\n"},
		{"error", 1, func(w *Writer) { w.Error("failed") }, "✗ failed\n"},
		{"info", 1, func(w *Writer) { w.Info("hello") }, "ℹ hello\n"},
		{"quiet info", 0, func(w *Writer) { w.Info("hello") }, ""},
		{"debug hidden", 1, func(w *Writer) { w.Debug("x") }, ""},
		{"debug verbose", 2, func(w *Writer) { w.Debug("x") }, "  x\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			w := NewWriter(&buf, true)
			w.SetVerbosity(tt.verbosity)
			tt.emit(w)
			if buf.String() != tt.want {
				t.Errorf("got %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestColorWrapsText(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	var buf bytes.Buffer
	w := NewWriter(&buf, false)
	w.Success("ok")
	if !strings.HasPrefix(buf.String(), Green) {
		t.Errorf("expected colored output, got %q", buf.String())
	}
}
