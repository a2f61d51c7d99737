package protocol

import (
	"encoding/json"
	"testing"

	"github.com/cottand/flowty/flowty"
	"github.com/cottand/flowty/frontend/ast"
	"github.com/cottand/flowty/frontend/complete"
	"github.com/cottand/flowty/frontend/flowerr"
	"github.com/cottand/flowty/frontend/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pos(line, char int) ast.Position { return ast.Position{Line: line, Character: char} }

var server = Server{Name: "org.flow", Root: "file:///project"}

func TestCompletionList(t *testing.T) {
	c := &flowty.Completion{
		List: &complete.List{Items: []complete.Item{{
			Label:         "fred",
			Kind:          complete.KindFunction,
			Detail:        "(a: number, b: string) => number",
			Documentation: "Docblock for 'fred'\n\n**@return** {number} Docblock for return",
			SortText:      "00000000000000000000",
			NewText:       "fred",
			Insert:        complete.Range{Start: pos(10, 15), End: pos(10, 15)},
			Group:         "local value identifier",
			Token:         complete.Sentinel,
		}}},
		Requests: 1,
	}
	got, err := json.Marshal(NewCompletionList(c, server))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"isIncomplete": false,
		"items": [{
			"label": "fred",
			"kind": 3,
			"detail": "(a: number, b: string) => number",
			"documentation": {"kind": "markdown", "value": "Docblock for 'fred'\n\n**@return** {number} Docblock for return"},
			"sortText": "00000000000000000000",
			"insertTextFormat": 1,
			"textEdit": {
				"range": {"start": {"line": 10, "character": 15}, "end": {"line": 10, "character": 15}},
				"newText": "fred"
			},
			"command": {
				"title": "",
				"command": "log:org.flow:file:///project",
				"arguments": [
					"textDocument/completion",
					"local value identifier",
					{"token": "AUTO332", "index": 0, "session_requests": 1, "typed_length": 0, "completion": "fred"}
				]
			}
		}]
	}`, string(got))
}

func TestInsertReplaceEdit(t *testing.T) {
	c := &flowty.Completion{
		List: &complete.List{
			Items: []complete.Item{{
				Label:   "test",
				Kind:    complete.KindVariable,
				NewText: "test",
				Insert:  complete.Range{Start: pos(7, 2), End: pos(7, 2)},
				Replace: &complete.Range{Start: pos(7, 2), End: pos(7, 4)},
				Group:   "member",
				Token:   complete.Sentinel + "te",
			}},
			IsIncomplete: true,
		},
		Requests: 3,
	}
	list := NewCompletionList(c, server)
	assert.True(t, list.IsIncomplete)
	require.Len(t, list.Items, 1)

	edit := list.Items[0].TextEdit
	assert.Nil(t, edit.Range)
	assert.Equal(t, &Range{Start: pos(7, 2), End: pos(7, 2)}, edit.Insert)
	assert.Equal(t, &Range{Start: pos(7, 2), End: pos(7, 4)}, edit.Replace)
	assert.Nil(t, list.Items[0].Documentation)

	log, ok := list.Items[0].Command.Arguments[2].(CompletionLog)
	require.True(t, ok)
	assert.Equal(t, CompletionLog{Token: "AUTO332te", SessionRequests: 3, Completion: "test"}, log)
}

func TestTrigger(t *testing.T) {
	var p CompletionParams
	require.NoError(t, json.Unmarshal([]byte(`{
		"textDocument": {"uri": "file:///a.js"},
		"position": {"line": 1, "character": 2},
		"context": {"triggerKind": 2, "triggerCharacter": " "}
	}`), &p))
	assert.Equal(t, complete.Trigger{Kind: complete.TriggerCharacter, Char: " "}, p.Trigger())
	assert.Equal(t, pos(1, 2), p.Position)

	p.Context = nil
	assert.Equal(t, complete.Trigger{Kind: complete.Invoked}, p.Trigger())
}

func TestEdits(t *testing.T) {
	var p DidChangeTextDocumentParams
	require.NoError(t, json.Unmarshal([]byte(`{
		"textDocument": {"uri": "file:///a.js", "version": 4},
		"contentChanges": [
			{"range": {"start": {"line": 0, "character": 0}, "end": {"line": 0, "character": 1}}, "text": "x"},
			{"text": "full"}
		]
	}`), &p))
	edits := Edits(p.ContentChanges)
	require.Len(t, edits, 2)
	assert.Equal(t, &ast.Span{Start: pos(0, 0), End: pos(0, 1)}, edits[0].Range)
	assert.Nil(t, edits[1].Range)
	assert.Equal(t, "full", flowty.ApplyEdits("a", edits))
}

func TestDiagnosticsAndHover(t *testing.T) {
	d := NewDiagnostics("file:///a.js", []flowty.Diagnostic{{
		Range:   ast.Span{Start: pos(0, 0), End: pos(0, 1)},
		Message: "Cannot use variable `x` before it is initialized.",
		Kind:    flowerr.UseBeforeInit.Tag(),
	}})
	require.Len(t, d.Diagnostics, 1)
	assert.Equal(t, SeverityError, d.Diagnostics[0].Severity)
	assert.Equal(t, "use-before-init", d.Diagnostics[0].Code)

	h := NewHover(flowty.TypeInfo{Type: types.NumberT, Range: ast.Span{Start: pos(1, 0), End: pos(1, 1)}})
	assert.Equal(t, "```flow\nnumber\n```", h.Contents.Value)
	assert.Equal(t, pos(1, 1), h.Range.End)
}
