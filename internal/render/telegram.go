package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/amirbrooks/dailydose/internal/agenda"
	"github.com/amirbrooks/dailydose/internal/task"
)

const telegramMaxChars = 3800

// Telegram writes a compact message-sized digest, one block per day.
func Telegram(w io.Writer, groups []agenda.Group, opts Options) error {
	var b strings.Builder
	if len(groups) == 0 {
		b.WriteString("📭 nothing logged\n")
	}
	for gi, g := range groups {
		if gi > 0 {
			b.WriteString("\n")
		}
		done := 0
		for _, t := range g.Tasks {
			if t.Status == task.Done {
				done++
			}
		}
		b.WriteString(fmt.Sprintf("📅 %s (%d/%d done)\n", g.Date, done, len(g.Tasks)))
		for i, t := range g.Tasks {
			b.WriteString(telegramTaskLine(t, ref(t, i, opts)))
		}
	}
	_, err := fmt.Fprintln(w, trimTelegramOutput(b.String()))
	return err
}

func telegramTaskLine(t task.Task, ref string) string {
	var b strings.Builder
	b.WriteString("• ")
	if emoji := telegramStatusEmoji(t.Status); emoji != "" {
		b.WriteString(emoji)
		b.WriteString(" ")
	}
	b.WriteString(cleanDescription(t.Description))
	b.WriteString(" [")
	b.WriteString(ref)
	b.WriteString("]\n")
	return b.String()
}

func telegramStatusEmoji(s task.Status) string {
	switch s {
	case task.Todo:
		return "📝"
	case task.InProgress:
		return "🔨"
	case task.Blocked:
		return "⛔"
	case task.Done:
		return "✅"
	default:
		return ""
	}
}

func cleanDescription(d string) string {
	d = oneLine(d)
	if d == "" {
		return "(untitled)"
	}
	return d
}

func trimTelegramOutput(s string) string {
	s = strings.TrimRight(s, "\n")
	runes := []rune(s)
	if len(runes) <= telegramMaxChars {
		return s
	}
	suffix := "\n… (truncated)"
	suffixRunes := []rune(suffix)
	limit := telegramMaxChars - len(suffixRunes)
	if limit < 1 {
		return string(runes[:telegramMaxChars])
	}
	return string(runes[:limit]) + suffix
}
