// Package lsp serves a compiled grammar over the Language Server
// Protocol. Documents are checked on every change: syntax errors become
// diagnostics and the suggestions of the furthest failure become
// completion items.
package lsp

import (
	"errors"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/packrat/ebnf/grammar"
	"github.com/dhamidi/packrat/peg"
)

const lsName = "packrat"

type Option func(*Server)

// WithLanguageID restricts the server to documents opened with the given
// language identifier. By default every document is checked.
func WithLanguageID(id string) Option {
	return func(s *Server) {
		s.languageID = id
	}
}

// WithTriggerCharacters sets the characters that make the client ask for
// completions.
func WithTriggerCharacters(chars ...string) Option {
	return func(s *Server) {
		s.triggers = chars
	}
}

type Server struct {
	grammar    *grammar.Grammar
	handler    protocol.Handler
	server     *server.Server
	version    string
	languageID string
	triggers   []string
	log        commonlog.Logger

	mu        sync.Mutex
	documents map[protocol.DocumentUri]string
}

func NewServer(version string, g *grammar.Grammar, opts ...Option) *Server {
	ls := &Server{
		grammar:   g,
		version:   version,
		log:       commonlog.GetLogger("packrat.lsp"),
		documents: make(map[protocol.DocumentUri]string),
	}
	for _, opt := range opts {
		opt(ls)
	}

	ls.handler = protocol.Handler{
		Initialize:             ls.initialize,
		Initialized:            ls.initialized,
		Shutdown:               ls.shutdown,
		SetTrace:               ls.setTrace,
		TextDocumentDidOpen:    ls.textDocumentDidOpen,
		TextDocumentDidChange:  ls.textDocumentDidChange,
		TextDocumentDidClose:   ls.textDocumentDidClose,
		TextDocumentDidSave:    ls.textDocumentDidSave,
		TextDocumentCompletion: ls.textDocumentCompletion,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *Server) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	capabilities.CompletionProvider = &protocol.CompletionOptions{
		TriggerCharacters: ls.triggers,
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	ls.log.Infof("serving grammar with start %s", ls.grammar.Start())
	return nil
}

func (ls *Server) shutdown(ctx *glsp.Context) error {
	return nil
}

func (ls *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	if ls.languageID != "" && params.TextDocument.LanguageID != ls.languageID {
		return nil
	}
	ls.update(ctx, params.TextDocument.URI, params.TextDocument.Text)
	return nil
}

func (ls *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if !ls.tracked(params.TextDocument.URI) {
		return nil
	}
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			ls.update(ctx, params.TextDocument.URI, textChange.Text)
		}
	}
	return nil
}

func (ls *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	ls.mu.Lock()
	delete(ls.documents, params.TextDocument.URI)
	ls.mu.Unlock()
	return nil
}

func (ls *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	if !ls.tracked(params.TextDocument.URI) {
		return nil
	}
	if params.Text != nil {
		ls.update(ctx, params.TextDocument.URI, *params.Text)
	}
	return nil
}

func (ls *Server) textDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	text, ok := ls.document(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}
	items := ls.completions(text, positionToOffset(text, params.Position))
	if len(items) == 0 {
		return nil, nil
	}
	return items, nil
}

func (ls *Server) tracked(uri protocol.DocumentUri) bool {
	_, ok := ls.document(uri)
	return ok
}

func (ls *Server) document(uri protocol.DocumentUri) (string, bool) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	text, ok := ls.documents[uri]
	return text, ok
}

// update stores the new text of a document and publishes its diagnostics.
func (ls *Server) update(ctx *glsp.Context, uri protocol.DocumentUri, text string) {
	ls.mu.Lock()
	ls.documents[uri] = text
	ls.mu.Unlock()

	diagnostics := ls.diagnostics(text)
	ls.log.Debugf("%s: %d diagnostics", uri, len(diagnostics))
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

// diagnostics parses text and reports the furthest failure, if any. The
// result is never nil so that publishing it clears earlier diagnostics.
func (ls *Server) diagnostics(text string) []protocol.Diagnostic {
	_, err := ls.grammar.Parse(text)
	if err == nil {
		return []protocol.Diagnostic{}
	}

	cursor, message := 0, err.Error()
	var syn *peg.SyntaxError
	if errors.As(err, &syn) {
		cursor = syn.Cursor
		if len(syn.Messages) > 0 {
			message = strings.Join(syn.Messages, "; ")
		}
	}

	end := cursor
	if cursor < len(text) {
		in := peg.NewStringReader(text)
		in.SetCursor(cursor)
		_, size := in.Peek()
		end += size
	}

	severity := protocol.DiagnosticSeverityError
	source := lsName
	return []protocol.Diagnostic{{
		Range: protocol.Range{
			Start: offsetToPosition(text, cursor),
			End:   offsetToPosition(text, end),
		},
		Severity: &severity,
		Source:   &source,
		Message:  message,
	}}
}

// completions offers the suggestions of the furthest failure in the text
// before offset. Candidates are filtered by what was typed since the
// failure and replace it.
func (ls *Server) completions(text string, offset int) []protocol.CompletionItem {
	prefix := text[:offset]
	cursor, candidates := ls.grammar.Suggest(prefix, 0)
	if cursor < 0 || cursor > offset {
		return nil
	}
	typed := prefix[cursor:]
	edit := protocol.Range{
		Start: offsetToPosition(text, cursor),
		End:   offsetToPosition(text, offset),
	}

	kind := protocol.CompletionItemKindKeyword
	var items []protocol.CompletionItem
	for _, c := range candidates {
		if !strings.HasPrefix(c, typed) {
			continue
		}
		items = append(items, protocol.CompletionItem{
			Label:    c,
			Kind:     &kind,
			TextEdit: protocol.TextEdit{Range: edit, NewText: c},
		})
	}
	return items
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
