//
// Tencent is pleased to support the open source community by making trpc-flow-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-flow-go is licensed under the Apache License Version 2.0.
//
//

package chunking

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"trpc.group/trpc-go/trpc-flow-go/knowledge/document"
	"trpc.group/trpc-go/trpc-flow-go/knowledge/internal/encoding"
	"trpc.group/trpc-go/trpc-flow-go/knowledge/source"
)

// MarkdownChunking implements a chunking strategy optimized for markdown
// documents. It splits at heading boundaries first so that chunks follow
// the document structure, and falls back to paragraph and fixed-size
// splitting for oversized sections.
type MarkdownChunking struct {
	chunkSize int
	overlap   int
	md        goldmark.Markdown
}

var _ Strategy = (*MarkdownChunking)(nil)

// MarkdownOption represents a functional option for configuring MarkdownChunking.
type MarkdownOption func(*MarkdownChunking)

// WithMarkdownChunkSize sets the maximum size of each chunk in runes.
func WithMarkdownChunkSize(size int) MarkdownOption {
	return func(mc *MarkdownChunking) {
		mc.chunkSize = size
	}
}

// WithMarkdownOverlap sets the number of runes to overlap between chunks.
func WithMarkdownOverlap(overlap int) MarkdownOption {
	return func(mc *MarkdownChunking) {
		mc.overlap = overlap
	}
}

// NewMarkdownChunking creates a new markdown chunking strategy with options.
func NewMarkdownChunking(opts ...MarkdownOption) *MarkdownChunking {
	mc := &MarkdownChunking{
		chunkSize: defaultChunkSize,
		overlap:   defaultOverlap,
		md:        goldmark.New(),
	}
	for _, opt := range opts {
		opt(mc)
	}
	return mc
}

// Chunk splits the document using markdown-aware chunking.
func (m *MarkdownChunking) Chunk(doc *document.Document) ([]*document.Document, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}
	if doc.IsEmpty() {
		return nil, ErrEmptyDocument
	}
	if m.chunkSize <= 0 {
		return nil, fmt.Errorf("invalid chunk size %d", m.chunkSize)
	}
	if m.overlap < 0 || m.overlap >= m.chunkSize {
		return nil, fmt.Errorf("%w: overlap %d, chunk size %d", ErrInvalidOverlap, m.overlap, m.chunkSize)
	}

	content := normalizeMarkdown(doc.Content)

	// Content that fits in one chunk needs no structural analysis.
	if encoding.RuneCount(content) <= m.chunkSize {
		return []*document.Document{m.createChunk(doc, content, 1, nil)}, nil
	}

	sections := m.splitByHeadings(content)
	chunks := m.packSections(doc, sections)
	if m.overlap > 0 {
		chunks = m.applyOverlap(chunks)
	}
	return chunks, nil
}

// headerSection is a run of content under one heading.
type headerSection struct {
	header  string // rendered heading line, e.g. "## Title", empty for the preamble
	content string
	path    []string // heading text from the document root to this section
}

// splitByHeadings parses the markdown and groups top-level blocks into
// sections delimited by headings. Content before the first heading forms
// a preamble section with an empty header.
func (m *MarkdownChunking) splitByHeadings(content string) []headerSection {
	src := []byte(content)
	root := m.md.Parser().Parse(text.NewReader(src))

	var sections []headerSection
	var current headerSection
	var path []string

	flush := func() {
		current.content = strings.TrimSpace(current.content)
		if current.header != "" || current.content != "" {
			sections = append(sections, current)
		}
	}

	for child := root.FirstChild(); child != nil; child = child.NextSibling() {
		if h, ok := child.(*ast.Heading); ok {
			flush()
			title := extractText(h, src)
			// Track the heading path: a deeper heading extends the path,
			// a shallower one rewinds it.
			if h.Level <= len(path) {
				path = path[:h.Level-1]
			}
			path = append(path, title)
			current = headerSection{
				header: strings.Repeat("#", h.Level) + " " + title,
				path:   append([]string(nil), path...),
			}
			continue
		}
		if block := blockText(child, src); block != "" {
			if current.content != "" {
				current.content += "\n\n"
			}
			current.content += block
		}
	}
	flush()
	return sections
}

// extractText extracts the plain text content of an AST node.
func extractText(n ast.Node, src []byte) string {
	var buf strings.Builder
	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := node.(type) {
		case *ast.Text:
			buf.Write(v.Segment.Value(src))
		case *ast.String:
			buf.Write(v.Value)
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

// blockText returns the raw source text covered by a block node,
// including the lines of all of its descendants.
func blockText(n ast.Node, src []byte) string {
	start, stop := -1, -1
	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		lines := node.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			if start == -1 || seg.Start < start {
				start = seg.Start
			}
			if seg.Stop > stop {
				stop = seg.Stop
			}
		}
		return ast.WalkContinue, nil
	})
	if start == -1 || stop <= start {
		return ""
	}
	return strings.TrimRight(string(src[start:stop]), "\n")
}

// packSections greedily packs sections into chunks of at most chunkSize
// runes. Sections that are too large on their own are split by paragraphs
// and finally by fixed size.
func (m *MarkdownChunking) packSections(doc *document.Document, sections []headerSection) []*document.Document {
	var chunks []*document.Document
	var buf strings.Builder
	var bufPath []string

	flushBuf := func() {
		if buf.Len() == 0 {
			return
		}
		chunks = append(chunks, m.createChunk(doc, buf.String(), len(chunks)+1, bufPath))
		buf.Reset()
	}

	for _, sec := range sections {
		full := sec.content
		if sec.header != "" {
			if full != "" {
				full = sec.header + "\n\n" + full
			} else {
				full = sec.header
			}
		}
		size := encoding.RuneCount(full)

		if size > m.chunkSize {
			// Oversized section: flush what we have and split it down.
			flushBuf()
			for _, piece := range m.splitOversized(full) {
				chunks = append(chunks, m.createChunk(doc, piece, len(chunks)+1, sec.path))
			}
			continue
		}
		if buf.Len() > 0 && encoding.RuneCount(buf.String())+size+2 > m.chunkSize {
			flushBuf()
		}
		if buf.Len() > 0 {
			buf.WriteString("\n\n")
		} else {
			bufPath = sec.path
		}
		buf.WriteString(full)
	}
	flushBuf()
	return chunks
}

// splitOversized splits a section that exceeds the chunk size, first at
// paragraph boundaries and then by fixed size when a single paragraph is
// still too large.
func (m *MarkdownChunking) splitOversized(content string) []string {
	var pieces []string
	var buf strings.Builder

	flushBuf := func() {
		if buf.Len() > 0 {
			pieces = append(pieces, buf.String())
			buf.Reset()
		}
	}

	for _, para := range strings.Split(content, "\n\n") {
		if strings.TrimSpace(para) == "" {
			continue
		}
		if encoding.RuneCount(para) > m.chunkSize {
			flushBuf()
			pieces = append(pieces, encoding.SplitBySize(para, m.chunkSize)...)
			continue
		}
		if buf.Len() > 0 && encoding.RuneCount(buf.String())+encoding.RuneCount(para)+2 > m.chunkSize {
			flushBuf()
		}
		if buf.Len() > 0 {
			buf.WriteString("\n\n")
		}
		buf.WriteString(para)
	}
	flushBuf()
	return pieces
}

// applyOverlap prefixes every chunk after the first with the tail of its
// predecessor so that neighboring chunks share boundary context.
func (m *MarkdownChunking) applyOverlap(chunks []*document.Document) []*document.Document {
	if len(chunks) <= 1 {
		return chunks
	}
	out := []*document.Document{chunks[0]}
	for i := 1; i < len(chunks); i++ {
		prevTail := encoding.Tail(chunks[i-1].Content, m.overlap)
		chunk := chunks[i].Clone()
		if prevTail != "" {
			chunk.Content = prevTail + "\n\n" + chunk.Content
		}
		chunk.Metadata[source.MetaOverlapSize] = encoding.RuneCount(prevTail)
		out = append(out, chunk)
	}
	return out
}

// createChunk builds a chunk document with markdown-specific metadata.
func (m *MarkdownChunking) createChunk(orig *document.Document, content string, number int, path []string) *document.Document {
	chunk := createChunk(orig, content, number)
	if len(path) > 0 {
		chunk.Metadata[source.MetaHeaderPath] = strings.Join(path, " > ")
	}
	return chunk
}

// normalizeMarkdown canonicalizes line endings so heading detection and
// paragraph splitting behave the same on all platforms.
func normalizeMarkdown(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	return strings.TrimSpace(content)
}
