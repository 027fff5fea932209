package workspace

import (
	"path/filepath"
	"testing"

	"github.com/dhamidi/grove/groovy/parser"
	"github.com/dhamidi/grove/groovy/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

type published struct {
	uri   string
	diags []protocol.Diagnostic
}

func newTestServer(t *testing.T, root string) (*LSPServer, *glsp.Context, *[]published) {
	t.Helper()
	var sent []published
	ctx := &glsp.Context{
		Notify: func(method string, params any) {
			require.Equal(t, protocol.ServerTextDocumentPublishDiagnostics, method)
			p := params.(protocol.PublishDiagnosticsParams)
			sent = append(sent, published{uri: p.URI, diags: p.Diagnostics})
		},
	}

	ls := NewLSPServer("test")
	result, err := ls.initialize(ctx, &protocol.InitializeParams{RootPath: &root})
	require.NoError(t, err)
	init := result.(protocol.InitializeResult)
	assert.Equal(t, true, init.Capabilities.DocumentSymbolProvider)
	assert.Equal(t, "grove", init.ServerInfo.Name)
	return ls, ctx, &sent
}

func TestLSPInitializedPublishesWorkspace(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Good.groovy"), "class Good {}")
	writeFile(t, filepath.Join(dir, "Bad.groovy"), "class Bad {")

	ls, ctx, sent := newTestServer(t, dir)
	require.NoError(t, ls.initialized(ctx, &protocol.InitializedParams{}))

	require.Len(t, *sent, 2)
	assert.Equal(t, pathToURI(filepath.Join(dir, "Bad.groovy")), (*sent)[0].uri)
	assert.NotEmpty(t, (*sent)[0].diags)
	assert.Equal(t, pathToURI(filepath.Join(dir, "Good.groovy")), (*sent)[1].uri)
	assert.Empty(t, (*sent)[1].diags)
	assert.NotNil(t, (*sent)[1].diags, "an empty list clears the client's diagnostics")
}

func TestLSPDocumentLifecycle(t *testing.T) {
	dir := t.TempDir()
	ls, ctx, sent := newTestServer(t, dir)
	path := filepath.Join(dir, "Doc.groovy")
	uri := pathToURI(path)

	require.NoError(t, ls.textDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, LanguageID: "groovy", Text: "def x = ("},
	}))
	require.Len(t, *sent, 1)
	require.NotEmpty(t, (*sent)[0].diags)
	assert.Equal(t, protocol.DiagnosticSeverityError, *(*sent)[0].diags[0].Severity)

	require.NoError(t, ls.textDocumentDidChange(ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri},
			Version:                2,
		},
		ContentChanges: []any{
			protocol.TextDocumentContentChangeEventWhole{Text: "class Doc {\n  int n\n}"},
		},
	}))
	require.Len(t, *sent, 2)
	assert.Empty(t, (*sent)[1].diags)

	result, err := ls.textDocumentDocumentSymbol(ctx, &protocol.DocumentSymbolParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	require.NoError(t, err)
	symbols := result.([]protocol.DocumentSymbol)
	require.Len(t, symbols, 1)
	assert.Equal(t, "Doc", symbols[0].Name)
	assert.Equal(t, protocol.SymbolKindClass, symbols[0].Kind)
	require.Len(t, symbols[0].Children, 1)
	assert.Equal(t, protocol.SymbolKindField, symbols[0].Children[0].Kind)
	assert.Equal(t, protocol.UInteger(1), symbols[0].Children[0].Range.Start.Line)

	text := "println 'saved'"
	require.NoError(t, ls.textDocumentDidSave(ctx, &protocol.DidSaveTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		Text:         &text,
	}))
	assert.Equal(t, text, string(ls.workspace.GetFile(path).Content))

	require.NoError(t, ls.textDocumentDidClose(ctx, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	}))
	assert.Nil(t, ls.workspace.GetFile(path), "never written to disk")
	assert.Len(t, *sent, 4)
}

func TestToProtocolDiagnostics(t *testing.T) {
	diags := parser.Diagnostics{
		{Kind: parser.ExpectedTokenMissing, Message: "expected ')'", Span: token.Span{
			Start: token.Position{Line: 3, Column: 5},
			End:   token.Position{Line: 3, Column: 6},
		}},
		{Kind: parser.SyntaxUnavailable, Message: "records need 4.0.0"},
	}

	got := toProtocolDiagnostics(diags)
	require.Len(t, got, 2)
	assert.Equal(t, protocol.Position{Line: 2, Character: 4}, got[0].Range.Start)
	assert.Equal(t, protocol.Position{Line: 2, Character: 5}, got[0].Range.End)
	assert.Equal(t, "expected-token-missing", got[0].Code.Value)
	assert.Equal(t, protocol.DiagnosticSeverityWarning, *got[1].Severity)
	assert.Equal(t, protocol.Position{}, got[1].Range.Start)
}

func TestURIRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dir with space", "A.groovy")
	got, err := uriToPath(pathToURI(path))
	require.NoError(t, err)
	assert.Equal(t, path, got)

	got, err = uriToPath("untitled:1")
	require.NoError(t, err)
	assert.Equal(t, "untitled:1", got)
}
