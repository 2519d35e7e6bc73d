// Copyright 2025 The TCell Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use file except in compliance with the License.
// You may obtain a copy of the license at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package compiler

// Resource limits enforced while parsing a single file's call stream.
// These bound pathological input (deeply nested when blocks, absurdly
// long scripts) the way an interpreter would guard against a runaway
// script; keyrx's DSL is evaluated ahead of time, but the bounds still
// apply at parse time (spec §4.3).
const (
	maxOperationCount = 20000
	maxNestingDepth   = 32
)

// argument is one call argument: a string or a bare number literal.
type argument struct {
	kind tokenKind
	text string
	num  uint64
	pos  position
}

// call is a single DSL function invocation, e.g. map("A", "VK_B").
type call struct {
	name string
	args []argument
	pos  position
}

// parseCalls tokenizes and parses the entire source into an ordered
// stream of calls. It enforces maxOperationCount but not nesting depth
// (block nesting is checked during lowering, where the open/close
// structure is tracked).
func parseCalls(file, src string) ([]call, *ParseError) {
	l := newLexer(file, src)
	var calls []call

	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		if tok.kind == tokEOF {
			break
		}
		if tok.kind != tokIdent {
			return nil, tok.pos.syntaxErr("expected a function call")
		}
		c, err := parseCallArgs(l, tok)
		if err != nil {
			return nil, err
		}
		calls = append(calls, c)
		if len(calls) > maxOperationCount {
			return nil, tok.pos.err(ResourceLimitExceeded, func(e *ParseError) {
				e.LimitType = "operation count"
			})
		}
	}
	return calls, nil
}

func parseCallArgs(l *lexer, nameTok token) (call, *ParseError) {
	c := call{name: nameTok.text, pos: nameTok.pos}

	lp, err := l.next()
	if err != nil {
		return call{}, err
	}
	if lp.kind != tokLParen {
		return call{}, lp.pos.syntaxErr("expected '(' after " + nameTok.text)
	}

	tok, err := l.next()
	if err != nil {
		return call{}, err
	}
	if tok.kind == tokRParen {
		return c, nil
	}

	for {
		arg, err := parseArgument(tok)
		if err != nil {
			return call{}, err
		}
		c.args = append(c.args, arg)

		tok, err = l.next()
		if err != nil {
			return call{}, err
		}
		switch tok.kind {
		case tokRParen:
			return c, nil
		case tokComma:
			tok, err = l.next()
			if err != nil {
				return call{}, err
			}
		default:
			return call{}, tok.pos.syntaxErr("expected ',' or ')' in argument list")
		}
	}
}

func parseArgument(tok token) (argument, *ParseError) {
	switch tok.kind {
	case tokString:
		return argument{kind: tokString, text: tok.text, pos: tok.pos}, nil
	case tokNumber:
		n := uint64(0)
		for _, r := range tok.text {
			n = n*10 + uint64(r-'0')
		}
		return argument{kind: tokNumber, text: tok.text, num: n, pos: tok.pos}, nil
	default:
		return argument{}, tok.pos.syntaxErr("expected a string or number argument")
	}
}
