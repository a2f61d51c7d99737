package protocol

import (
	"github.com/cottand/flowty/flowty"
	"github.com/cottand/flowty/frontend/complete"
)

// Edits converts content changes into session edits
func Edits(changes []TextDocumentContentChangeEvent) []flowty.Edit {
	out := make([]flowty.Edit, len(changes))
	for i, c := range changes {
		out[i] = flowty.Edit{Range: c.Range, Text: c.Text}
	}
	return out
}

// Trigger returns how a completion was requested. A missing context means
// the completion was invoked.
func (p CompletionParams) Trigger() complete.Trigger {
	if p.Context == nil {
		return complete.Trigger{Kind: complete.Invoked}
	}
	return complete.Trigger{Kind: complete.TriggerKind(p.Context.TriggerKind), Char: p.Context.TriggerCharacter}
}

func NewDiagnostics(uri string, diags []flowty.Diagnostic) PublishDiagnosticsParams {
	out := PublishDiagnosticsParams{URI: uri, Diagnostics: make([]Diagnostic, 0, len(diags))}
	for _, d := range diags {
		out.Diagnostics = append(out.Diagnostics, Diagnostic{
			Range:    d.Range,
			Severity: SeverityError,
			Code:     d.Kind,
			Source:   "flowty",
			Message:  d.Message,
		})
	}
	return out
}

func NewHover(info flowty.TypeInfo) Hover {
	r := info.Range
	return Hover{
		Contents: MarkupContent{Kind: "markdown", Value: "```flow\n" + info.Type.String() + "\n```"},
		Range:    &r,
	}
}

// Server names the server and the project root in log commands
type Server struct {
	Name string
	Root string
}

func (s Server) logCommand() string {
	return "log:" + s.Name + ":" + s.Root
}

func NewCompletionList(c *flowty.Completion, server Server) CompletionList {
	out := CompletionList{IsIncomplete: c.IsIncomplete, Items: make([]CompletionItem, 0, len(c.Items))}
	for _, it := range c.Items {
		out.Items = append(out.Items, completionItem(it, c.Requests, server))
	}
	return out
}

func completionItem(it complete.Item, requests int, server Server) CompletionItem {
	item := CompletionItem{
		Label:            it.Label,
		Kind:             int(it.Kind),
		Detail:           it.Detail,
		SortText:         it.SortText,
		InsertTextFormat: InsertTextFormatPlainText,
		Command: &Command{
			Command: server.logCommand(),
			Arguments: []any{
				"textDocument/completion",
				it.Group,
				CompletionLog{
					Token:           it.Token,
					Index:           it.Index,
					SessionRequests: requests,
					TypedLength:     it.TypedLength,
					Completion:      it.Label,
				},
			},
		},
	}
	if it.Documentation != "" {
		item.Documentation = &MarkupContent{Kind: "markdown", Value: it.Documentation}
	}
	insert := Range(it.Insert)
	if it.Replace != nil {
		replace := Range(*it.Replace)
		item.TextEdit = &TextEdit{NewText: it.NewText, Insert: &insert, Replace: &replace}
	} else {
		item.TextEdit = &TextEdit{Range: &insert, NewText: it.NewText}
	}
	return item
}
