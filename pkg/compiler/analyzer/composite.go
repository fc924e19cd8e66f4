package analyzer

import (
	"github.com/zurustar/calc/pkg/calcerr"
	"github.com/zurustar/calc/pkg/compiler/ast"
	"github.com/zurustar/calc/pkg/compiler/token"
	"github.com/zurustar/calc/pkg/value"
)

// compose extends head with any chain of `(args)`, `[index]` and `.name`.
// When allowAssign is set, a trailing `=` turns the chain into an
// assignment whose value is the rest of tokens.
func compose(head ast.Node, tokens *token.Queue, allowAssign bool) (ast.Node, error) {
	current := head
	for {
		t, ok := tokens.Front()
		if !ok {
			return current, nil
		}

		var err error
		switch {
		case t.Is(token.LeftParen):
			tokens.PopFront()
			current, err = resolveInvocation(current, tokens)
		case t.Is(token.LeftBracket):
			tokens.PopFront()
			current, err = resolveArrayReading(current, tokens)
		case t.Kind == token.POINT:
			tokens.PopFront()
			name, ok := tokens.PopFront()
			if !ok || name.Kind != token.IDENT {
				return nil, calcerr.Syntax("property name expected after `.`")
			}
			current = &ast.ObjectReading{Target: current, Property: name.Literal}
		case t.IsSymbol(token.Equal):
			if !allowAssign || !assignable(current) {
				return nil, calcerr.Assignment("invalid left-hand value")
			}
			tokens.PopFront()
			rhs, err := resolveExpression(tokens, modePlain)
			if err != nil {
				return nil, err
			}
			return &ast.Assignment{Target: current, Value: rhs}, nil
		default:
			return current, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

func assignable(n ast.Node) bool {
	switch n.(type) {
	case *ast.Variable, *ast.ArrayElementReading, *ast.ObjectReading:
		return true
	}
	return false
}

// resolveArrayLiteral resolves `[e1, e2, ...]` after the `[`.
func resolveArrayLiteral(tokens *token.Queue) (*ast.ArrayLiteral, error) {
	elements, err := consumeRegion(tokens, anyBracket, true)
	if err != nil {
		return nil, err
	}
	exprs, err := resolveAll(elements)
	if err != nil {
		return nil, err
	}
	return &ast.ArrayLiteral{Elements: exprs}, nil
}

// resolveArrayReading resolves `[index]` after the `[`.
func resolveArrayReading(target ast.Node, tokens *token.Queue) (*ast.ArrayElementReading, error) {
	inner, err := consumeSingle(tokens, brackets)
	if err != nil {
		return nil, err
	}
	if inner.Len() == 0 {
		return nil, calcerr.Syntax("missing index")
	}
	index, err := resolveExpression(inner, modePlain)
	if err != nil {
		return nil, err
	}
	return &ast.ArrayElementReading{Target: target, Index: index}, nil
}

// resolveInvocation resolves `(a, b)` after the `(`.
func resolveInvocation(caller ast.Node, tokens *token.Queue) (*ast.Invocation, error) {
	args, err := consumeRegion(tokens, parens, true)
	if err != nil {
		return nil, err
	}
	params, err := resolveAll(args)
	if err != nil {
		return nil, err
	}
	return &ast.Invocation{Caller: caller, Params: params}, nil
}

// resolveLazyExpression resolves `{ expr }` after the `{`.
func resolveLazyExpression(tokens *token.Queue) (*ast.LazyExpression, error) {
	inner, err := consumeSingle(tokens, braces)
	if err != nil {
		return nil, err
	}
	expr, err := resolveExpression(inner, modePlain)
	if err != nil {
		return nil, err
	}
	return &ast.LazyExpression{Expr: expr}, nil
}

// resolveImport resolves the module reference after `import`.
func resolveImport(tokens *token.Queue) (*ast.ImportStatement, error) {
	t, ok := tokens.PopFront()
	if !ok || t.Kind == token.LINE_END {
		return nil, calcerr.Import("module name missing")
	}
	switch t.Kind {
	case token.STRING:
		return &ast.ImportStatement{Type: ast.ModuleUserDefined, Target: t.Literal}, nil
	case token.IDENT:
		return &ast.ImportStatement{Type: ast.ModuleStandard, Target: t.Literal}, nil
	}
	return nil, calcerr.Import("invalid module name %s", t)
}

// resolveFunctionDefinition resolves `(params) { body }` after `fn`.
func resolveFunctionDefinition(tokens *token.Queue) (*ast.FunctionDefinition, error) {
	if t, ok := tokens.PopFront(); !ok || !t.Is(token.LeftParen) {
		return nil, calcerr.Syntax("expected `(` after fn")
	}
	rawParams, err := consumeRegion(tokens, parens, true)
	if err != nil {
		return nil, err
	}

	params := make([]ast.Param, 0, len(rawParams))
	seen := make(map[string]bool)
	for _, raw := range rawParams {
		p, err := parseParam(raw)
		if err != nil {
			return nil, err
		}
		if seen[p.Name] {
			return nil, calcerr.Syntax("duplicate parameter `%s`", p.Name)
		}
		seen[p.Name] = true
		params = append(params, p)
	}

	if t, ok := tokens.PopFront(); !ok || !t.Is(token.LeftBrace) {
		return nil, calcerr.Syntax("expected `{` before function body")
	}
	body, err := resolveBlock(tokens)
	if err != nil {
		return nil, err
	}
	return &ast.FunctionDefinition{Params: params, Body: body}, nil
}

// resolveClassDefinition resolves `{ members }` after `cl`. Members are
// separated by dividers or line ends.
func resolveClassDefinition(tokens *token.Queue) (*ast.ClassDefinition, error) {
	if t, ok := tokens.PopFront(); !ok || !t.Is(token.LeftBrace) {
		return nil, calcerr.Syntax("expected `{` after cl")
	}
	inner, err := consumeSingle(tokens, braces)
	if err != nil {
		return nil, err
	}

	def := &ast.ClassDefinition{}
	seen := make(map[string]bool)
	members := splitAt(inner, func(t token.Token) bool {
		return t.Kind == token.DIVIDER || t.Kind == token.LINE_END
	})
	for _, member := range members {
		name, isMethod, err := memberName(member)
		if err != nil {
			return nil, err
		}
		if seen[name] {
			return nil, calcerr.Syntax("duplicate class member `%s`", name)
		}
		seen[name] = true

		if !isMethod {
			p, err := parseParam(member)
			if err != nil {
				return nil, err
			}
			def.Properties = append(def.Properties, p)
			continue
		}

		member.PopFront() // name
		member.PopFront() // =
		if t, ok := member.PopFront(); !ok || t.Kind != token.KEYWORD || t.Keyword != token.Function {
			return nil, calcerr.Syntax("method `%s` must be a function definition", name)
		}
		fn, err := resolveFunctionDefinition(member)
		if err != nil {
			return nil, err
		}
		if t, ok := member.Front(); ok {
			return nil, calcerr.Syntax("unexpected token %s after method `%s`", t, name)
		}
		def.Methods = append(def.Methods, ast.Method{Name: name, Definition: fn})
	}
	return def, nil
}

// memberName peeks at a class member. Methods look like `name = ...`,
// properties like `name` or `Type name`.
func memberName(member *token.Queue) (string, bool, error) {
	first, _ := member.Peek(0)
	second, hasSecond := member.Peek(1)

	if first.Kind != token.IDENT {
		return "", false, calcerr.Syntax("unexpected token %s in class definition", first)
	}
	if hasSecond && second.IsSymbol(token.Equal) {
		return first.Literal, true, nil
	}
	if hasSecond && second.Kind == token.IDENT {
		return second.Literal, false, nil
	}
	return first.Literal, false, nil
}

// resolveInstantiation resolves `Name(args)` after `new`.
func resolveInstantiation(tokens *token.Queue) (*ast.Instantiation, error) {
	name, ok := tokens.PopFront()
	if !ok || name.Kind != token.IDENT {
		return nil, calcerr.Syntax("class name expected after new")
	}
	if t, ok := tokens.PopFront(); !ok || !t.Is(token.LeftParen) {
		return nil, calcerr.Syntax("expected `(` after new %s", name.Literal)
	}
	args, err := consumeRegion(tokens, parens, true)
	if err != nil {
		return nil, err
	}
	params, err := resolveAll(args)
	if err != nil {
		return nil, err
	}
	return &ast.Instantiation{Class: name.Literal, Params: params}, nil
}

// parseParam parses `name` or `Type name`.
func parseParam(q *token.Queue) (ast.Param, error) {
	first, _ := q.PopFront()
	second, hasSecond := q.PopFront()
	if extra, ok := q.Front(); ok {
		return ast.Param{}, calcerr.Syntax("unexpected token %s in parameter list", extra)
	}
	if first.Kind != token.IDENT {
		return ast.Param{}, calcerr.Syntax("unexpected token %s in parameter list", first)
	}
	if !hasSecond {
		return ast.Param{Name: first.Literal}, nil
	}
	if second.Kind != token.IDENT {
		return ast.Param{}, calcerr.Syntax("unexpected token %s in parameter list", second)
	}
	if _, ok := value.ParseType(first.Literal); !ok {
		return ast.Param{}, calcerr.Syntax("unknown type `%s`", first.Literal)
	}
	return ast.Param{Type: first.Literal, Name: second.Literal}, nil
}

func resolveAll(regions []*token.Queue) ([]*ast.Expression, error) {
	exprs := make([]*ast.Expression, 0, len(regions))
	for _, r := range regions {
		e, err := resolveExpression(r, modePlain)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
	}
	return exprs, nil
}
