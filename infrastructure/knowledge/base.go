// Package knowledge loads the internal security knowledge base and ranks its
// documents against an analysis query.
package knowledge

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"sentinel/logging"
)

// DefaultPolicySource names the placeholder used when the directory holds no
// usable documents.
const DefaultPolicySource = "default_policy"

const defaultPolicyText = "Standard procedures: investigate repeated 404s and block SQLi source IPs."

// Config holds knowledge base settings.
type Config struct {
	Dir  string `env:"RAG_KB_DIR" default:"./knowledge_base"`
	TopK int    `env:"RAG_TOP_K" default:"5"`
}

// Document is one knowledge base file.
type Document struct {
	Source  string
	Content string
	tokens  map[string]struct{}
}

// Base is an in-memory, read-only knowledge base.
type Base struct {
	dir  string
	topK int
	docs []Document
}

// Load reads every non-empty .txt and .md file under config.Dir. Unreadable
// files are logged and skipped. A missing or empty directory yields a base
// holding only the default policy document.
func Load(config Config, logger *logging.Logger) *Base {
	base := &Base{dir: config.Dir, topK: config.TopK}
	if base.topK <= 0 {
		base.topK = 5
	}

	err := filepath.WalkDir(config.Dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn("Skipping unreadable knowledge base path", "path", path, "error", err)
			return nil
		}
		if entry.IsDir() || !isKnowledgeFile(path) {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("Skipping unreadable knowledge base file", "path", path, "error", err)
			return nil
		}
		if strings.TrimSpace(string(content)) == "" {
			return nil
		}

		doc := newDocument(path, string(content))
		if strings.EqualFold(filepath.Ext(path), ".md") {
			// Rank markdown on its prose, not its link targets and markup.
			doc.tokens = tokenize(markdownText(content))
		}
		base.docs = append(base.docs, doc)
		return nil
	})
	if err != nil {
		logger.Warn("Knowledge base walk stopped early", "dir", config.Dir, "error", err)
	}

	if len(base.docs) == 0 {
		logger.Warn("Knowledge base is empty, using default policy", "dir", config.Dir)
		base.docs = []Document{newDocument(DefaultPolicySource, defaultPolicyText)}
	}

	logger.Info("Knowledge base loaded", "dir", config.Dir, "documents", len(base.docs))
	return base
}

func isKnowledgeFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".txt" || ext == ".md"
}

func newDocument(source, content string) Document {
	return Document{Source: source, Content: content, tokens: tokenize(content)}
}

// Dir returns the directory the base was loaded from.
func (b *Base) Dir() string {
	return b.dir
}

// Len returns the number of loaded documents.
func (b *Base) Len() int {
	return len(b.docs)
}

// TopK returns the configured retrieval depth.
func (b *Base) TopK() int {
	return b.topK
}

// Retrieve returns up to k documents ordered by how many distinct query
// words they share. Ties keep load order.
func (b *Base) Retrieve(ctx context.Context, query string, k int) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if k <= 0 {
		k = b.topK
	}

	queryTokens := tokenize(query)
	type scored struct {
		doc   Document
		score int
	}
	ranked := make([]scored, len(b.docs))
	for i, doc := range b.docs {
		score := 0
		for token := range queryTokens {
			if _, ok := doc.tokens[token]; ok {
				score++
			}
		}
		ranked[i] = scored{doc: doc, score: score}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	if k > len(ranked) {
		k = len(ranked)
	}
	docs := make([]Document, k)
	for i := range docs {
		docs[i] = ranked[i].doc
	}
	return docs, nil
}

// FormatContext renders documents as "[Source: s] content" blocks separated
// by blank lines.
func FormatContext(docs []Document) string {
	blocks := make([]string, len(docs))
	for i, doc := range docs {
		blocks[i] = "[Source: " + doc.Source + "] " + doc.Content
	}
	return strings.Join(blocks, "\n\n")
}

func tokenize(text string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, word := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		tokens[word] = struct{}{}
	}
	return tokens
}
