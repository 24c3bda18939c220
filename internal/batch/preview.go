package batch

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/huugof/meme-factory/internal/html"
	"github.com/huugof/meme-factory/internal/static"
	"github.com/huugof/meme-factory/internal/util"
)

const previewCaptionLength = 50

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// buildPreview renders a gallery of the first limit outputs.
func buildPreview(items []*item, result *Result, limit int) (string, error) {
	captions := make(map[string]string, len(items))
	for _, it := range items {
		captions[it.filename] = it.caption
	}

	var md strings.Builder
	fmt.Fprintf(&md, "# Memes\n\n%d of %d captions rendered.\n\n", len(result.Files), result.Total)
	for i, name := range result.Files {
		if i == limit {
			fmt.Fprintf(&md, "And %d more in this batch.\n", len(result.Files)-limit)
			break
		}
		caption := escapeMarkdown(util.Ellipsize(captions[name], previewCaptionLength))
		fmt.Fprintf(&md, "![%s](%s)\n\n**%s**\n\n", caption, name, caption)
	}

	var body bytes.Buffer
	if err := markdown.Convert([]byte(md.String()), &body); err != nil {
		return "", fmt.Errorf("render preview: %w", err)
	}

	failures := ""
	if len(result.Failures) > 0 {
		parts := []string{"<ul>"}
		for _, f := range result.Failures {
			parts = append(parts, fmt.Sprintf("  <li>%s</li>", util.EscapeHTML(f.Error())))
		}
		parts = append(parts, "</ul>")
		failures = strings.Join(parts, "\n")
	}

	return html.Apply(static.PreviewTemplate, map[string]string{
		"title":    "Memes",
		"gallery":  body.String(),
		"failures": failures,
	}), nil
}

// escapeMarkdown backslash-escapes ASCII punctuation so captions render as
// plain text.
func escapeMarkdown(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r < 0x80 && strings.ContainsRune("!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~", r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
