package engine

import (
	"strings"

	"scoutbot/app/service/pipeline"

	"github.com/elliotchance/pie/v2"
)

// composeReply picks the first refined-query entry and the first search
// digest entry out of the run's snapshots and joins them with a blank line.
// An absent prefix simply omits that part; a fully empty reply becomes the
// fallback notice.
func composeReply(snapshots []pipeline.Snapshot) string {
	var messages []pipeline.Message
	for _, snap := range snapshots {
		messages = append(messages, snap.Appended...)
	}

	var parts []string

	if refined := firstWithPrefix(messages, pipeline.QueryPrefix); refined != "" {
		parts = append(parts, refined)
	}

	if digest := firstWithPrefix(messages, pipeline.SearchPrefix); digest != "" {
		parts = append(parts, digest)
	}

	combined := strings.TrimSpace(strings.Join(parts, "\n\n"))
	if combined == "" {
		return fallbackNotice
	}

	return combined
}

func firstWithPrefix(messages []pipeline.Message, prefix string) string {
	index := pie.FindFirstUsing(messages, func(msg pipeline.Message) bool {
		return msg.Role == pipeline.RoleAssistant && strings.HasPrefix(msg.Content, prefix)
	})
	if index < 0 {
		return ""
	}

	return messages[index].Content
}

// splitMessage cuts text into consecutive chunks of at most limit characters,
// preserving order. Counting is rune-based to match the platform's limit.
func splitMessage(text string, limit int) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	chunks := make([]string, 0, (len(runes)+limit-1)/limit)

	for start := 0; start < len(runes); start += limit {
		end := start + limit
		if end > len(runes) {
			end = len(runes)
		}

		chunks = append(chunks, string(runes[start:end]))
	}

	return chunks
}
