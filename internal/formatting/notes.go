package formatting

import (
	"bytes"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/Freeeeeet/scheduler_grading/internal/model"
)

// Без html.WithUnsafe goldmark вырезает сырой HTML из заметок
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.Linkify, extension.Strikethrough),
	goldmark.WithRendererOptions(gmhtml.WithHardWraps()),
)

// FormatNote переводит заметку в безопасный HTML с учётом её формата.
// HTML-заметки экранируются как текст: санитайзера нет, а доверять вводу нельзя
func FormatNote(text string, format model.NoteFormat) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", nil
	}

	if format == model.NoteFormatMarkdown {
		var buf bytes.Buffer
		if err := markdown.Convert([]byte(text), &buf); err != nil {
			return "", err
		}
		return strings.TrimSpace(buf.String()), nil
	}

	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for i, line := range lines {
		lines[i] = html.EscapeString(line)
	}
	return "<p>" + strings.Join(lines, "<br>") + "</p>", nil
}
