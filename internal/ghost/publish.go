package ghost

import (
	"bytes"
	"context"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var markdownEngine = goldmark.New(
	goldmark.WithExtensions(extension.GFM, extension.Table),
	goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
)

// RenderMarkdown converts Markdown to the HTML Ghost expects in source=html posts.
func RenderMarkdown(md string) (string, error) {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return buf.String(), nil
}

// PublishMarkdown renders md and creates a draft post with it.
// Drafts let the author review the week before it goes out.
func PublishMarkdown(ctx context.Context, client Client, title, md string) (*Post, error) {
	body, err := RenderMarkdown(md)
	if err != nil {
		return nil, err
	}
	post, err := client.CreatePost(ctx, title, body, false)
	if err != nil {
		return nil, fmt.Errorf("failed to publish %q: %w", title, err)
	}
	return post, nil
}
