package engine

import (
	"strings"
	"testing"

	"scoutbot/app/service/pipeline"
)

func snapshotsWith(messages ...pipeline.Message) []pipeline.Snapshot {
	return []pipeline.Snapshot{{Node: pipeline.NodeRefine, Appended: messages}}
}

func TestComposeReply(t *testing.T) {
	tests := []struct {
		name      string
		snapshots []pipeline.Snapshot
		want      string
	}{
		{
			name: "both parts present",
			snapshots: snapshotsWith(
				pipeline.Message{Role: pipeline.RoleAssistant, Content: "Refined query: aco papers"},
				pipeline.Message{Role: pipeline.RoleAssistant, Content: "Search results: findings"},
			),
			want: "Refined query: aco papers\n\nSearch results: findings",
		},
		{
			name: "only refined query",
			snapshots: snapshotsWith(
				pipeline.Message{Role: pipeline.RoleAssistant, Content: "Refined query: aco papers"},
			),
			want: "Refined query: aco papers",
		},
		{
			name: "only search digest",
			snapshots: snapshotsWith(
				pipeline.Message{Role: pipeline.RoleAssistant, Content: "Search results: findings"},
			),
			want: "Search results: findings",
		},
		{
			name: "first occurrence wins",
			snapshots: snapshotsWith(
				pipeline.Message{Role: pipeline.RoleAssistant, Content: "Refined query: first"},
				pipeline.Message{Role: pipeline.RoleAssistant, Content: "Refined query: second"},
				pipeline.Message{Role: pipeline.RoleAssistant, Content: "Search results: findings"},
			),
			want: "Refined query: first\n\nSearch results: findings",
		},
		{
			name: "human messages never match",
			snapshots: snapshotsWith(
				pipeline.Message{Role: pipeline.RoleHuman, Content: "Refined query: spoofed"},
			),
			want: fallbackNotice,
		},
		{
			name: "prefix match is case sensitive",
			snapshots: snapshotsWith(
				pipeline.Message{Role: pipeline.RoleAssistant, Content: "refined query: lowercase"},
			),
			want: fallbackNotice,
		},
		{
			name:      "no tagged output falls back",
			snapshots: nil,
			want:      fallbackNotice,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := composeReply(tt.snapshots); got != tt.want {
				t.Errorf("composeReply = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSplitMessage(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		limit      int
		wantChunks int
	}{
		{name: "empty", text: "", limit: 10, wantChunks: 0},
		{name: "fits in one", text: "hello", limit: 10, wantChunks: 1},
		{name: "exact boundary", text: strings.Repeat("a", 20), limit: 10, wantChunks: 2},
		{name: "one over boundary", text: strings.Repeat("a", 21), limit: 10, wantChunks: 3},
		{name: "multibyte runes", text: strings.Repeat("ы", 15), limit: 10, wantChunks: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := splitMessage(tt.text, tt.limit)

			if len(chunks) != tt.wantChunks {
				t.Fatalf("chunk count = %d, want %d", len(chunks), tt.wantChunks)
			}

			for i, chunk := range chunks {
				if got := len([]rune(chunk)); got > tt.limit {
					t.Errorf("chunk %d has %d chars, want <= %d", i, got, tt.limit)
				}
			}

			if got := strings.Join(chunks, ""); got != tt.text {
				t.Errorf("joined chunks = %q, want original %q", got, tt.text)
			}
		})
	}
}

func TestSplitMessageRespectsTelegramLimit(t *testing.T) {
	text := strings.Repeat("x", maxMessageLength*2+100)

	chunks := splitMessage(text, maxMessageLength)

	if len(chunks) != 3 {
		t.Fatalf("chunk count = %d, want 3", len(chunks))
	}

	for i, chunk := range chunks {
		if len([]rune(chunk)) > maxMessageLength {
			t.Errorf("chunk %d exceeds the platform ceiling", i)
		}
	}
}
