package estree

import (
	"context"
	"os"
	"os/exec"
	"testing"

	"github.com/cottand/flowty/frontend/ast"
	"github.com/cottand/flowty/frontend/flow"
	"github.com/cottand/flowty/frontend/flowerr"
	"github.com/cottand/flowty/frontend/scope"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFixture(t *testing.T) (text string, data []byte) {
	t.Helper()
	src, err := os.ReadFile("testdata/inc.js")
	require.NoError(t, err)
	data, err = os.ReadFile("testdata/inc.json")
	require.NoError(t, err)
	return string(src), data
}

func checkIncFixture(t *testing.T, f *ast.File, text string) {
	t.Helper()
	require.Len(t, f.Body, 3)
	src := ast.NewSource("inc.js", text)

	fn, ok := f.Body[0].(*ast.FuncDecl)
	require.True(t, ok, "got %T", f.Body[0])
	assert.Equal(t, "inc", fn.Name.Name)
	assert.Equal(t, ast.Doc("Adds one\n@param x the number"), fn.Doc)
	require.Len(t, fn.Params, 1)
	assert.Equal(t, "x", src.Slice(fn.Params[0].Name))
	assert.Equal(t, "number", src.Slice(fn.Params[0].Annot))
	assert.Equal(t, "number", src.Slice(fn.Return))

	decl, ok := f.Body[1].(*ast.VarDecl)
	require.True(t, ok, "got %T", f.Body[1])
	assert.Equal(t, ast.Const, decl.Kind)
	assert.Equal(t, "{a: inc(1)}", src.Slice(decl.Decls[0].Init))

	stmt, ok := f.Body[2].(*ast.ExprStmt)
	require.True(t, ok, "got %T", f.Body[2])
	m, ok := stmt.X.(*ast.Member)
	require.True(t, ok, "got %T", stmt.X)
	assert.Equal(t, "a", m.Prop)
	assert.Equal(t, "a", src.Slice(m.PropRange))
}

func TestDecode(t *testing.T) {
	text, data := readFixture(t)
	f, err := Decode("inc.js", data, text, Options{})
	require.NoError(t, err)
	checkIncFixture(t, f, text)

	res, err := flow.Analyze(context.Background(), f, scope.Bind(f), flow.Options{})
	require.NoError(t, err)
	assert.False(t, res.Errors.HasError(), res.Errors)

	m := f.Body[2].(*ast.ExprStmt).X
	typ, ok := res.TypeOf(m)
	require.True(t, ok)
	assert.Equal(t, "number", typ.String())
}

func TestCommandParser(t *testing.T) {
	if _, err := exec.LookPath("cat"); err != nil {
		t.Skip("cat is not available")
	}
	text, _ := readFixture(t)

	p := &CommandParser{Command: "cat", Args: []string{"testdata/inc.json"}}
	f, err := p.Parse(context.Background(), "inc.js", text)
	require.NoError(t, err)
	checkIncFixture(t, f, text)

	p = &CommandParser{Command: "cat", Args: []string{"testdata/missing.json"}}
	_, err = p.Parse(context.Background(), "inc.js", text)
	assert.ErrorContains(t, err, "run cat")
}

func TestOffsets(t *testing.T) {
	text := `"😀";x;`
	cases := map[string]struct {
		data  string
		style OffsetStyle
	}{
		"js indices": {
			data: `{"type":"Program","range":[0,7],"body":[
				{"type":"ExpressionStatement","range":[0,5],"expression":{"type":"Literal","range":[0,4],"value":"😀","raw":"\"😀\""}},
				{"type":"ExpressionStatement","range":[5,7],"expression":{"type":"Identifier","range":[5,6],"name":"x"}}]}`,
			style: JSIndices,
		},
		"utf8 bytes": {
			data: `{"type":"Program","range":[0,9],"body":[
				{"type":"ExpressionStatement","range":[0,7],"expression":{"type":"Literal","range":[0,6],"value":"😀","raw":"\"😀\""}},
				{"type":"ExpressionStatement","range":[7,9],"expression":{"type":"Identifier","range":[7,8],"name":"x"}}]}`,
			style: UTF8Bytes,
		},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			f, err := Decode("test.js", []byte(c.data), text, Options{Offsets: c.style})
			require.NoError(t, err)
			src := ast.NewSource("test.js", text)

			require.Len(t, f.Body, 2)
			lit := f.Body[0].(*ast.ExprStmt).X
			assert.Equal(t, `"😀"`, src.Slice(lit))
			x := f.Body[1].(*ast.ExprStmt).X
			assert.Equal(t, "x", src.Slice(x))
			assert.Equal(t, ast.Position{Line: 0, Character: 5}, src.PositionOf(x.Pos()))
		})
	}
}

func TestExportedDoc(t *testing.T) {
	text := "/** D */\nexport function f() {}\n"
	data := `{"type":"Program","range":[0,32],"body":[
		{"type":"ExportNamedDeclaration","range":[9,31],"source":null,"specifiers":[],"declaration":
			{"type":"FunctionDeclaration","range":[16,31],"id":{"type":"Identifier","range":[25,26],"name":"f"},
			 "params":[],"body":{"type":"BlockStatement","range":[29,31],"body":[]}}}],
		"comments":[{"type":"Block","range":[0,8],"value":"* D "}]}`

	f, err := Decode("test.js", []byte(data), text, Options{})
	require.NoError(t, err)
	export, ok := f.Body[0].(*ast.ExportDecl)
	require.True(t, ok)
	fn, ok := export.Decl.(*ast.FuncDecl)
	require.True(t, ok)
	assert.Equal(t, ast.Doc("D"), fn.Doc)
}

func TestDecodeErrors(t *testing.T) {
	cases := map[string]struct {
		text     string
		data     string
		expected string
	}{
		"invalid json": {
			data:     `{`,
			expected: "decode ESTree of test.js",
		},
		"not a program": {
			data:     `{"type":"Identifier","name":"x"}`,
			expected: `expected a Program, got "Identifier"`,
		},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode("test.js", []byte(c.data), c.text, Options{})
			assert.ErrorContains(t, err, c.expected)
		})
	}
}

func TestDecodeApproximations(t *testing.T) {
	cases := map[string]struct {
		text     string
		data     string
		problems []string
		check    func(t *testing.T, f *ast.File)
	}{
		"destructured parameter": {
			text: "function bar({d}) {} var x = 1;",
			data: `{"type":"Program","range":[0,31],"body":[
				{"type":"FunctionDeclaration","range":[0,20],"id":{"type":"Identifier","range":[9,12],"name":"bar"},
				 "params":[{"type":"ObjectPattern","range":[13,16],"properties":[
					{"type":"Property","range":[14,15],"shorthand":true,
					 "key":{"type":"Identifier","range":[14,15],"name":"d"},
					 "value":{"type":"Identifier","range":[14,15],"name":"d"}}]}],
				 "body":{"type":"BlockStatement","range":[18,20],"body":[]}},
				{"type":"VariableDeclaration","range":[21,31],"kind":"var","declarations":[
					{"type":"VariableDeclarator","range":[25,30],
					 "id":{"type":"Identifier","range":[25,26],"name":"x"},
					 "init":{"type":"Literal","range":[29,30],"value":1,"raw":"1"}}]}]}`,
			problems: []string{"unsupported binding ObjectPattern"},
			check: func(t *testing.T, f *ast.File) {
				require.Len(t, f.Body, 2)
				fn := f.Body[0].(*ast.FuncDecl)
				require.Len(t, fn.Params, 1)
				assert.Nil(t, fn.Params[0].Name)
				require.Len(t, fn.Params[0].Bound, 1)
				assert.Equal(t, "d", fn.Params[0].Bound[0].Name)
			},
		},
		"destructured declaration": {
			text: "let {a} = o;",
			data: `{"type":"Program","range":[0,12],"body":[
				{"type":"VariableDeclaration","range":[0,12],"kind":"let","declarations":[
					{"type":"VariableDeclarator","range":[4,11],
					 "id":{"type":"ObjectPattern","range":[4,7],"properties":[
						{"type":"Property","range":[5,6],"shorthand":true,
						 "key":{"type":"Identifier","range":[5,6],"name":"a"},
						 "value":{"type":"Identifier","range":[5,6],"name":"a"}}]},
					 "init":{"type":"Identifier","range":[10,11],"name":"o"}}]}]}`,
			problems: []string{"unsupported binding ObjectPattern"},
			check: func(t *testing.T, f *ast.File) {
				decl := f.Body[0].(*ast.VarDecl)
				require.Len(t, decl.Decls, 1)
				assert.Equal(t, "a", decl.Decls[0].Name.Name)
				assert.True(t, decl.Decls[0].Pattern)
				init, ok := decl.Decls[0].Init.(*ast.Opaque)
				require.True(t, ok, "got %T", decl.Decls[0].Init)
				assert.Equal(t, "o", init.X.(*ast.Ident).Name)
			},
		},
		"spread argument": {
			text: "f(...xs);",
			data: `{"type":"Program","range":[0,9],"body":[
				{"type":"ExpressionStatement","range":[0,9],"expression":
					{"type":"CallExpression","range":[0,8],"callee":{"type":"Identifier","range":[0,1],"name":"f"},
					 "arguments":[{"type":"SpreadElement","range":[2,7],"argument":{"type":"Identifier","range":[5,7],"name":"xs"}}]}}]}`,
			problems: []string{"unsupported expression SpreadElement"},
			check: func(t *testing.T, f *ast.File) {
				call := f.Body[0].(*ast.ExprStmt).X.(*ast.Call)
				require.Len(t, call.Args, 1)
				spread, ok := call.Args[0].(*ast.Opaque)
				require.True(t, ok, "got %T", call.Args[0])
				assert.Equal(t, "xs", spread.X.(*ast.Ident).Name)
			},
		},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			f, err := Decode("test.js", []byte(c.data), c.text, Options{})
			require.NoError(t, err)
			var messages []string
			for _, p := range f.Problems {
				messages = append(messages, p.Message)
			}
			assert.Equal(t, c.problems, messages)
			c.check(t, f)
		})
	}
}

func TestApproximatedParameterIsAny(t *testing.T) {
	text := "function bar({d}) { d; } var x = 1;"
	data := `{"type":"Program","range":[0,35],"body":[
		{"type":"FunctionDeclaration","range":[0,24],"id":{"type":"Identifier","range":[9,12],"name":"bar"},
		 "params":[{"type":"ObjectPattern","range":[13,16],"properties":[
			{"type":"Property","range":[14,15],"shorthand":true,
			 "key":{"type":"Identifier","range":[14,15],"name":"d"},
			 "value":{"type":"Identifier","range":[14,15],"name":"d"}}]}],
		 "body":{"type":"BlockStatement","range":[18,24],"body":[
			{"type":"ExpressionStatement","range":[20,22],"expression":{"type":"Identifier","range":[20,21],"name":"d"}}]}},
		{"type":"VariableDeclaration","range":[25,35],"kind":"var","declarations":[
			{"type":"VariableDeclarator","range":[29,34],
			 "id":{"type":"Identifier","range":[29,30],"name":"x"},
			 "init":{"type":"Literal","range":[33,34],"value":1,"raw":"1"}}]}]}`

	f, err := Decode("test.js", []byte(data), text, Options{})
	require.NoError(t, err)
	res, err := flow.Analyze(context.Background(), f, scope.Bind(f), flow.Options{})
	require.NoError(t, err)

	errs := res.Errors.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, flowerr.None, errs[0].Code())
	src := ast.NewSource("test.js", text)
	assert.Equal(t, ast.Position{Line: 0, Character: 13}, src.PositionOf(errs[0].Pos()))

	fn := f.Body[0].(*ast.FuncDecl)
	d := fn.Body.Body[0].(*ast.ExprStmt).X
	typ, ok := res.TypeOf(d)
	require.True(t, ok)
	assert.Equal(t, "any", typ.String())

	x := f.Body[1].(*ast.VarDecl).Decls[0].Init
	typ, ok = res.TypeOf(x)
	require.True(t, ok)
	assert.Equal(t, "number", typ.String())
}

func TestParseOffsetStyle(t *testing.T) {
	style, err := ParseOffsetStyle("utf8-bytes")
	require.NoError(t, err)
	assert.Equal(t, UTF8Bytes, style)

	style, err = ParseOffsetStyle("")
	require.NoError(t, err)
	assert.Equal(t, JSIndices, style)

	_, err = ParseOffsetStyle("columns")
	assert.Error(t, err)
}
