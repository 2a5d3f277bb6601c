// Package cheader parses C and C++ headers into a cdecl declaration tree
// using tree-sitter grammars.
//
// The parser does not run a preprocessor. Quoted includes are followed
// through the include paths, every conditional branch is read, and
// decoration macros (export markers that expand to nothing or to an
// attribute) are blanked before parsing.
package cheader

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/alexaandru/go-sitter-forest/c"
	"github.com/alexaandru/go-sitter-forest/cpp"
	sitter "github.com/alexaandru/go-tree-sitter-bare"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/libnativeapi/bindgen/cdecl"
)

// Language selects the tree-sitter grammar.
type Language string

const (
	LanguageCPP Language = "cpp"
	LanguageC   Language = "c"
)

// Parser is a cdecl.Provider backed by tree-sitter.
type Parser struct {
	language Language
	logger   *zap.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithLanguage selects the grammar. The default is C++, which also reads C.
func WithLanguage(l Language) Option {
	return func(p *Parser) { p.language = l }
}

// WithLogger sets the logger for skipped includes and unparsable nodes.
func WithLogger(l *zap.Logger) Option {
	return func(p *Parser) { p.logger = l }
}

// New creates a Parser.
func New(opts ...Option) *Parser {
	p := &Parser{language: LanguageCPP, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Parser) grammar() (*sitter.Language, error) {
	switch p.language {
	case LanguageCPP, "":
		return sitter.NewLanguage(cpp.GetLanguage()), nil
	case LanguageC:
		return sitter.NewLanguage(c.GetLanguage()), nil
	}
	return nil, errors.Errorf("unsupported header language %q", p.language)
}

// session holds the state of one Parse call.
type session struct {
	parser       *Parser
	lang         *sitter.Language
	includePaths []string
	blank        []string
	visited      map[string]bool
	root         *cdecl.Decl

	// constants holds enumerator values seen so far, for enum and array
	// size expressions that refer to them.
	constants map[string]int64

	// symbols maps declared record, enum and typedef names to the type kind
	// references to them resolve to.
	symbols map[string]symbol
}

type symbol struct {
	kind       cdecl.TypeKind
	recordKind string
}

// Parse implements cdecl.Provider.
func (p *Parser) Parse(ctx context.Context, req cdecl.Request) (*cdecl.Decl, error) {
	lang, err := p.grammar()
	if err != nil {
		return nil, err
	}
	includes, blank := splitFlags(req.Flags)
	s := &session{
		parser:       p,
		lang:         lang,
		includePaths: append(slices.Clone(req.IncludePaths), includes...),
		blank:        blank,
		visited:      make(map[string]bool),
		root:         &cdecl.Decl{Kind: cdecl.KindTranslationUnit},
		constants:    make(map[string]int64),
		symbols:      make(map[string]symbol),
	}
	for _, entry := range req.EntryHeaders {
		path, err := s.resolveEntry(entry)
		if err != nil {
			return nil, err
		}
		if err := s.parseFile(ctx, path); err != nil {
			return nil, err
		}
	}
	s.resolveNames(s.root)
	return s.root, nil
}

func (s *session) resolveEntry(entry string) (string, error) {
	if fileExists(entry) {
		return filepath.Abs(entry)
	}
	if !filepath.IsAbs(entry) {
		for _, dir := range s.includePaths {
			candidate := filepath.Join(dir, entry)
			if fileExists(candidate) {
				return filepath.Abs(candidate)
			}
		}
	}
	return "", errors.Errorf("entry header %q not found", entry)
}

func (s *session) resolveInclude(from, include string) (string, bool) {
	candidates := []string{filepath.Join(filepath.Dir(from), include)}
	for _, dir := range s.includePaths {
		candidates = append(candidates, filepath.Join(dir, include))
	}
	for _, candidate := range candidates {
		if fileExists(candidate) {
			abs, err := filepath.Abs(candidate)
			if err != nil {
				continue
			}
			return abs, true
		}
	}
	return "", false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func (s *session) parseFile(ctx context.Context, path string) error {
	if s.visited[path] {
		return nil
	}
	s.visited[path] = true

	if err := ctx.Err(); err != nil {
		return err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return errors.Errorf("read header: %w", err)
	}
	blank := append(slices.Clone(s.blank), decorationMacros(string(raw))...)
	src := preprocess(raw, blank)

	tsParser := sitter.NewParser()
	tsParser.SetLanguage(s.lang)
	tree, err := tsParser.ParseString(ctx, nil, src)
	if err != nil {
		return errors.Errorf("parse %s: %w", path, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.IsNull() {
		return errors.Errorf("parse %s: no root node", path)
	}

	f := &fileConv{session: s, path: path, src: src}
	s.root.Children = append(s.root.Children, f.container(root)...)
	s.parser.logger.Debug("parsed header",
		zap.String("path", path),
		zap.Int("includes", len(f.includes)),
	)

	for _, inc := range f.includes {
		resolved, ok := s.resolveInclude(path, inc)
		if !ok {
			s.parser.logger.Debug("include not found", zap.String("from", path), zap.String("include", inc))
			continue
		}
		if err := s.parseFile(ctx, resolved); err != nil {
			return err
		}
	}
	return nil
}

// resolveNames rewrites elaborated references to names declared anywhere
// in the parsed headers into record, enum or typedef references.
func (s *session) resolveNames(d *cdecl.Decl) {
	cdecl.Walk(d, func(d *cdecl.Decl) bool {
		s.resolveType(d.Type)
		s.resolveType(d.Result)
		if d.Underlying != nil {
			s.resolveNames(d.Underlying)
		}
		return true
	})
}

func (s *session) resolveType(t *cdecl.TypeRef) {
	if t == nil {
		return
	}
	s.resolveType(t.Pointee)
	s.resolveType(t.Element)
	s.resolveType(t.Result)
	if t.Kind != cdecl.TypeElaborated {
		return
	}
	sym, ok := s.symbols[t.Name]
	if !ok {
		if i := strings.LastIndex(t.Name, "::"); i >= 0 {
			sym, ok = s.symbols[t.Name[i+2:]]
		}
	}
	if ok {
		t.Kind = sym.kind
		t.RecordKind = sym.recordKind
	}
}

func (s *session) declare(name string, sym symbol) {
	if name == "" {
		return
	}
	if _, exists := s.symbols[name]; exists && sym.kind == cdecl.TypeTypedef {
		return
	}
	s.symbols[name] = sym
}
