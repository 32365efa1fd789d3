package codebase

import (
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/alampiss/buck/java"
	"github.com/alampiss/buck/java/abi"
	"github.com/alampiss/buck/java/classpath"
	"github.com/alampiss/buck/java/parser"
)

const lsName = "abi"

// LSPServer publishes resolution diagnostics and document outlines for
// the Java files open in an editor.
type LSPServer struct {
	codebase  *Codebase
	classpath []string
	handler   protocol.Handler
	server    *server.Server
	version   string
	watcher   *FileWatcher

	mu     sync.Mutex
	open   map[string]string
	notify glsp.NotifyFunc
}

// NewLSPServer returns a server that resolves against the given classpath
// entries, in addition to the platform types.
func NewLSPServer(version string, classpathEntries []string) *LSPServer {
	ls := &LSPServer{
		version:   version,
		classpath: classpathEntries,
		open:      make(map[string]string),
	}

	ls.handler = protocol.Handler{
		Initialize:                 ls.initialize,
		Initialized:                ls.initialized,
		Shutdown:                   ls.shutdown,
		SetTrace:                   ls.setTrace,
		TextDocumentDidOpen:        ls.textDocumentDidOpen,
		TextDocumentDidChange:      ls.textDocumentDidChange,
		TextDocumentDidClose:       ls.textDocumentDidClose,
		TextDocumentDidSave:        ls.textDocumentDidSave,
		TextDocumentDocumentSymbol: ls.textDocumentDocumentSymbol,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *LSPServer) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *LSPServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := "."
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}

	cp, err := classpath.Open(ls.classpath...)
	if err != nil {
		return nil, err
	}
	ls.codebase = New(rootDir, cp)

	capabilities := ls.handler.CreateServerCapabilities()
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}
	capabilities.DocumentSymbolProvider = true

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *LSPServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	ls.mu.Lock()
	ls.notify = ctx.Notify
	ls.mu.Unlock()

	if err := ls.codebase.ScanAll(); err != nil {
		log.Warningf("scan %s: %s", ls.codebase.RootDir(), err)
	}
	ls.watcher = NewFileWatcher(ls.codebase, ls.republish)
	ls.watcher.Start()
	return nil
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	if ls.watcher != nil {
		ls.watcher.Stop()
	}
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func (ls *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *LSPServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.mu.Lock()
	ls.open[path] = params.TextDocument.URI
	ls.mu.Unlock()

	ls.codebase.UpdateFile(path, []byte(params.TextDocument.Text))
	ls.publish(ctx.Notify, path, params.TextDocument.URI)
	return nil
}

func (ls *LSPServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			ls.codebase.UpdateFile(path, []byte(textChange.Text))
			ls.publish(ctx.Notify, path, params.TextDocument.URI)
		}
	}
	return nil
}

func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.mu.Lock()
	delete(ls.open, path)
	ls.mu.Unlock()

	// The editor's buffer may differ from disk.
	if err := ls.codebase.ScanFile(path); err != nil {
		ls.codebase.RemoveFile(path)
	}
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (ls *LSPServer) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if params.Text != nil {
		ls.codebase.UpdateFile(path, []byte(*params.Text))
	} else if err := ls.codebase.ScanFile(path); err != nil {
		return nil
	}
	ls.publish(ctx.Notify, path, params.TextDocument.URI)
	return nil
}

func (ls *LSPServer) textDocumentDocumentSymbol(ctx *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	if ls.codebase.GetFile(path) == nil {
		if err := ls.codebase.ScanFile(path); err != nil {
			return nil, nil
		}
	}
	analysis, err := ls.codebase.Analyze(path)
	if err != nil {
		return nil, err
	}
	return toDocumentSymbols(analysis.Symbols()), nil
}

// republish refreshes the diagnostics of every open document after files
// changed on disk.
func (ls *LSPServer) republish(changed []string) {
	ls.mu.Lock()
	notify := ls.notify
	open := make(map[string]string, len(ls.open))
	for path, uri := range ls.open {
		open[path] = uri
	}
	ls.mu.Unlock()

	if notify == nil {
		return
	}
	log.Debugf("%d files changed, refreshing %d documents", len(changed), len(open))
	for path, uri := range open {
		ls.publish(notify, path, uri)
	}
}

func (ls *LSPServer) publish(notify glsp.NotifyFunc, path, uri string) {
	analysis, err := ls.codebase.Analyze(path)
	if err != nil {
		log.Errorf("%s", err)
		return
	}
	notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: toDiagnostics(analysis),
	})
}

func toDiagnostics(a *Analysis) []protocol.Diagnostic {
	out := []protocol.Diagnostic{}
	severity := protocol.DiagnosticSeverityError
	source := lsName
	for _, n := range a.ParseErrors {
		msg := "syntax error"
		if n.Error != nil {
			msg = n.Error.Message
		}
		out = append(out, protocol.Diagnostic{
			Range:    toRange(n.Span),
			Severity: &severity,
			Source:   &source,
			Message:  msg,
		})
	}
	for _, d := range a.Diagnostics {
		code := protocol.IntegerOrString{Value: d.Kind.String()}
		out = append(out, protocol.Diagnostic{
			Range:    referenceRange(d),
			Severity: &severity,
			Code:     &code,
			Source:   &source,
			Message:  d.Kind.String() + ": " + d.Reference + " in " + d.Declaration,
		})
	}
	return out
}

func referenceRange(d abi.Diagnostic) protocol.Range {
	start := toPosition(d.ReferencePosition)
	end := start
	end.Character += uint32(len(d.Reference))
	return protocol.Range{Start: start, End: end}
}

func toDocumentSymbols(symbols []Symbol) []protocol.DocumentSymbol {
	out := make([]protocol.DocumentSymbol, 0, len(symbols))
	for _, s := range symbols {
		ds := protocol.DocumentSymbol{
			Name:           s.Name,
			Kind:           toSymbolKind(s.Kind),
			Range:          toRange(s.Span),
			SelectionRange: protocol.Range{Start: toPosition(s.Selection), End: toPosition(s.Selection)},
		}
		ds.SelectionRange.End.Character += uint32(len(s.Name))
		if s.Detail != "" {
			detail := s.Detail
			ds.Detail = &detail
		}
		if len(s.Children) > 0 {
			ds.Children = toDocumentSymbols(s.Children)
		}
		out = append(out, ds)
	}
	return out
}

func toSymbolKind(kind java.SymbolKind) protocol.SymbolKind {
	switch kind {
	case java.SymbolClass:
		return protocol.SymbolKindClass
	case java.SymbolInterface, java.SymbolAnnotation:
		return protocol.SymbolKindInterface
	case java.SymbolEnum:
		return protocol.SymbolKindEnum
	case java.SymbolRecord:
		return protocol.SymbolKindStruct
	case java.SymbolMethod:
		return protocol.SymbolKindMethod
	case java.SymbolConstructor:
		return protocol.SymbolKindConstructor
	case java.SymbolField:
		return protocol.SymbolKindField
	case java.SymbolEnumConstant:
		return protocol.SymbolKindEnumMember
	case java.SymbolRecordComponent:
		return protocol.SymbolKindProperty
	case java.SymbolTypeParameter:
		return protocol.SymbolKindTypeParameter
	case java.SymbolPackage:
		return protocol.SymbolKindPackage
	default:
		return protocol.SymbolKindVariable
	}
}

// toPosition converts a 1-based source position to a 0-based LSP one.
func toPosition(p parser.Position) protocol.Position {
	var pos protocol.Position
	if p.Line > 0 {
		pos.Line = uint32(p.Line - 1)
	}
	if p.Column > 0 {
		pos.Character = uint32(p.Column - 1)
	}
	return pos
}

func toRange(s parser.Span) protocol.Range {
	return protocol.Range{Start: toPosition(s.Start), End: toPosition(s.End)}
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
