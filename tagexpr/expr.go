package tagexpr

import "github.com/poiesic/cardex/core"

// TagSet is the document-side contract for evaluation: a membership test
// over normalized tags.
type TagSet interface {
	HasTag(tag string) bool
}

// Expr is a parsed tag-boolean expression in postfix form, ready for
// repeated evaluation against documents.
type Expr struct {
	plan []token
}

func precedence(kind tokenKind) int {
	switch kind {
	case tokenNot:
		return 3
	case tokenAnd:
		return 2
	case tokenOr:
		return 1
	}
	return 0
}

// Parse converts an expression to a postfix evaluation plan via
// shunting-yard. NOT binds tighter than AND, which binds tighter than OR;
// AND and OR are left-associative. Unmatched parentheses are absorbed
// rather than rejected, keeping live-typed input non-blocking. An empty
// or whitespace-only expression matches everything.
func Parse(input string) *Expr {
	tokens := lex(input)

	var output []token
	var stack []token

	for _, tok := range tokens {
		switch tok.kind {
		case tokenTag:
			// normalize once at parse time so evaluation is a plain
			// set-membership check
			output = append(output, token{kind: tokenTag, text: core.NormalizeTag(tok.text)})

		case tokenLParen:
			stack = append(stack, tok)

		case tokenRParen:
			for len(stack) > 0 && stack[len(stack)-1].kind != tokenLParen {
				output = append(output, stack[len(stack)-1])
				stack = stack[:len(stack)-1]
			}
			if len(stack) > 0 {
				stack = stack[:len(stack)-1] // discard the matching paren
			}
			// a stray ')' is absorbed

		case tokenNot:
			// right-associative: never pops an equal-precedence NOT
			stack = append(stack, tok)

		default: // AND, OR: left-associative
			for len(stack) > 0 && precedence(stack[len(stack)-1].kind) >= precedence(tok.kind) {
				output = append(output, stack[len(stack)-1])
				stack = stack[:len(stack)-1]
			}
			stack = append(stack, tok)
		}
	}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if top.kind == tokenLParen {
			continue // unmatched '(' absorbed
		}
		output = append(output, top)
	}

	return &Expr{plan: output}
}

// IsMatchAll reports whether the expression matches every document.
func (e *Expr) IsMatchAll() bool {
	return len(e.plan) == 0
}

// Matches evaluates the expression against a tag set. The plan is run as
// a stack machine; missing operands in a malformed plan default to false
// so that partially typed input filters permissively instead of failing.
func (e *Expr) Matches(doc TagSet) bool {
	if len(e.plan) == 0 {
		return true
	}

	var stack []bool
	pop := func() bool {
		if len(stack) == 0 {
			return false
		}
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return v
	}

	for _, tok := range e.plan {
		switch tok.kind {
		case tokenTag:
			stack = append(stack, doc.HasTag(tok.text))
		case tokenNot:
			stack = append(stack, !pop())
		case tokenAnd:
			b, a := pop(), pop()
			stack = append(stack, a && b)
		case tokenOr:
			b, a := pop(), pop()
			stack = append(stack, a || b)
		}
	}

	return pop()
}
