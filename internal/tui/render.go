package tui

import (
	"fmt"
	"strings"

	"github.com/fentz26/blockshell/internal/block"
)

// renderBlock formats one block for the viewport.
func renderBlock(b *block.Block) string {
	switch b.Kind {
	case block.KindCommand:
		return renderCommand(b)
	case block.KindError:
		return errorStyle.Render(strings.TrimRight(b.Content, "\n")) + "\n"
	case block.KindSystem:
		return systemStyle.Render("• "+b.Content) + "\n"
	case block.KindAIResponse:
		return aiStyle.Render(strings.TrimRight(b.Content, "\n")) + "\n"
	default:
		return outputStyle.Render(strings.TrimRight(b.Content, "\n")) + "\n"
	}
}

func renderCommand(b *block.Block) string {
	var sb strings.Builder

	sb.WriteString(metaStyle.Render(b.FormattedTimestamp()))
	sb.WriteString(" ")
	sb.WriteString(commandStyle.Render("❯ " + b.Content))

	if code, ok := b.ExitCode(); ok {
		if code == 0 {
			sb.WriteString(" " + successMarkStyle.Render("✓"))
		} else {
			sb.WriteString(" " + failureMarkStyle.Render(fmt.Sprintf("✗(%d)", code)))
		}
		if d, ok := b.FormattedExecutionTime(); ok {
			sb.WriteString(" " + metaStyle.Render(d))
		}
	}

	sb.WriteString("\n")
	return sb.String()
}
