package workspace

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhamidi/grove/groovy/parser"
	"github.com/dhamidi/grove/groovy/token"
	"github.com/dhamidi/grove/project"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"
)

const lsName = "grove"

type LSPServer struct {
	workspace *Workspace
	handler   protocol.Handler
	server    *server.Server
	version   string
}

func NewLSPServer(version string) *LSPServer {
	ls := &LSPServer{
		version: version,
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
	rootDir := getRootDir()
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}

	proj, err := project.LoadFrom(rootDir)
	if err != nil {
		log.Errorf("%s; using defaults", err)
		proj = project.Default(rootDir)
	}
	ls.workspace = New(proj)

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
	if _, err := ls.workspace.ScanAll(context.Background()); err != nil {
		log.Errorf("initial scan: %s", err)
		return nil
	}
	for _, path := range ls.workspace.Paths() {
		ls.publish(ctx, path)
	}
	return nil
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
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
	ls.workspace.UpdateFile(path, []byte(params.TextDocument.Text))
	ls.publish(ctx, path)
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
			ls.workspace.UpdateFile(path, []byte(textChange.Text))
			ls.publish(ctx, path)
		}
	}
	return nil
}

// textDocumentDidClose drops unsaved edits: the file falls back to its
// content on disk, or disappears when it was never saved.
func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if _, err := ls.workspace.ScanFile(path); err != nil {
		ls.workspace.RemoveFile(path)
	}
	ls.publish(ctx, path)
	return nil
}

func (ls *LSPServer) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if params.Text != nil {
		ls.workspace.UpdateFile(path, []byte(*params.Text))
	} else if _, err := ls.workspace.ScanFile(path); err != nil {
		log.Warningf("%s", err)
	}
	ls.publish(ctx, path)
	return nil
}

func (ls *LSPServer) textDocumentDocumentSymbol(ctx *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	return toDocumentSymbols(ls.workspace.Symbols(path)), nil
}

// publish sends the diagnostics of path. A file without diagnostics, or
// one no longer in the workspace, gets an empty list so the client clears
// earlier ones.
func (ls *LSPServer) publish(ctx *glsp.Context, path string) {
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         pathToURI(path),
		Diagnostics: toProtocolDiagnostics(ls.workspace.GetFile(path).Diagnostics()),
	})
}

func toProtocolDiagnostics(diags parser.Diagnostics) []protocol.Diagnostic {
	result := make([]protocol.Diagnostic, 0, len(diags))
	source := lsName
	for _, d := range diags {
		severity := protocol.DiagnosticSeverityError
		if d.Kind == parser.SyntaxUnavailable {
			severity = protocol.DiagnosticSeverityWarning
		}
		code := protocol.IntegerOrString{Value: d.Kind.String()}
		result = append(result, protocol.Diagnostic{
			Range:    toRange(d.Span),
			Severity: &severity,
			Code:     &code,
			Source:   &source,
			Message:  d.Message,
		})
	}
	return result
}

var symbolKinds = map[parser.SymbolKind]protocol.SymbolKind{
	parser.SymbolClass:        protocol.SymbolKindClass,
	parser.SymbolInterface:    protocol.SymbolKindInterface,
	parser.SymbolEnum:         protocol.SymbolKindEnum,
	parser.SymbolAnnotation:   protocol.SymbolKindInterface,
	parser.SymbolTrait:        protocol.SymbolKindInterface,
	parser.SymbolRecord:       protocol.SymbolKindStruct,
	parser.SymbolMethod:       protocol.SymbolKindMethod,
	parser.SymbolConstructor:  protocol.SymbolKindConstructor,
	parser.SymbolField:        protocol.SymbolKindField,
	parser.SymbolEnumConstant: protocol.SymbolKindEnumMember,
	parser.SymbolScriptMethod: protocol.SymbolKindFunction,
}

func toDocumentSymbols(symbols []parser.Symbol) []protocol.DocumentSymbol {
	result := make([]protocol.DocumentSymbol, 0, len(symbols))
	for _, s := range symbols {
		detail := s.Kind.String()
		result = append(result, protocol.DocumentSymbol{
			Name:           s.Name,
			Detail:         &detail,
			Kind:           symbolKinds[s.Kind],
			Range:          toRange(s.Span),
			SelectionRange: toRange(s.NameSpan),
			Children:       toDocumentSymbols(s.Children),
		})
	}
	return result
}

// toRange converts 1-based line and column positions to the protocol's
// 0-based ones. Columns count bytes, which matches UTF-16 offsets for
// ASCII lines only.
func toRange(s token.Span) protocol.Range {
	return protocol.Range{
		Start: toPosition(s.Start),
		End:   toPosition(s.End),
	}
}

func toPosition(p token.Position) protocol.Position {
	pos := protocol.Position{}
	if p.Line > 0 {
		pos.Line = protocol.UInteger(p.Line - 1)
	}
	if p.Column > 0 {
		pos.Character = protocol.UInteger(p.Column - 1)
	}
	return pos
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

func pathToURI(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}

func getRootDir() string {
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	return dir
}
