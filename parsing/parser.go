package parsing

import (
	"fmt"

	"github.com/mcrl2-go/symbolic/ast"
)

// parser walks a token slice produced by Lex, building terms through a
// Builder. It is a straightforward recursive-descent parser, not a table-
// driven one: the restricted grammar this package supports is small enough
// that hand-written descent reads more plainly than a generated table.
type parser struct {
	b    *Builder
	toks []Token
	pos  int
}

// ParseProcess parses src as a single process expression using b's arena.
func ParseProcess(b *Builder, src string) (*ast.Process, error) {
	toks, err := Lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{b: b, toks: toks}
	proc, err := p.parseProcess(0)
	if err != nil {
		return nil, err
	}
	if err := p.expectEOF(); err != nil {
		return nil, err
	}
	return proc, nil
}

// ParseStateFormula parses src as a single modal-mu-calculus state formula.
func ParseStateFormula(b *Builder, src string) (*ast.StateFormula, error) {
	toks, err := Lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{b: b, toks: toks}
	f, err := p.parseStateFormula()
	if err != nil {
		return nil, err
	}
	if err := p.expectEOF(); err != nil {
		return nil, err
	}
	return f, nil
}

// ParseDataExpr parses src as a single data expression.
func ParseDataExpr(b *Builder, src string) (ast.DataExpr, error) {
	toks, err := Lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{b: b, toks: toks}
	d, err := p.parseDataExpr(0)
	if err != nil {
		return nil, err
	}
	if err := p.expectEOF(); err != nil {
		return nil, err
	}
	return d, nil
}

func (p *parser) peek() Token  { return p.toks[p.pos] }
func (p *parser) advance() Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) expect(k TokenKind) (Token, error) {
	t := p.peek()
	if t.Kind != k {
		return t, &SyntaxError{Pos: t.Pos, Msg: fmt.Sprintf("expected %s, found %q", tokenKindName(k), t.Lexeme)}
	}
	return p.advance(), nil
}

func (p *parser) expectEOF() error {
	if p.peek().Kind != TokEOF {
		return &SyntaxError{Pos: p.peek().Pos, Msg: fmt.Sprintf("unexpected trailing input %q", p.peek().Lexeme)}
	}
	return nil
}

// --- process grammar -----------------------------------------------------
//
//	process    = choiceExpr
//	choiceExpr = seqExpr ( '+' seqExpr )*
//	seqExpr    = mergeExpr ( '.' mergeExpr )*
//	mergeExpr  = atomProc ( ('||' | '|_' | '|') atomProc )*
//	atomProc   = 'delta' | 'tau' | ident [ '(' dataExprList ')' ]
//	           | 'sum' ident ':' ident '.' process
//	           | 'block'/'hide' '(' '{' nameList '}' ',' process ')'
//	           | 'rename' '(' '{' renameList '}' ',' process ')'
//	           | 'allow'/'comm' '(' '{' ... '}' ',' process ')'
//	           | '(' process ')' [ '@' dataExpr ]
func (p *parser) parseProcess(depth int) (*ast.Process, error) {
	return p.parseChoice()
}

func (p *parser) parseChoice() (*ast.Process, error) {
	left, err := p.parseSeq()
	if err != nil {
		return nil, err
	}
	for p.peek().Kind == TokPlus {
		p.advance()
		right, err := p.parseSeq()
		if err != nil {
			return nil, err
		}
		left = p.b.Choice(left, right)
	}
	return left, nil
}

func (p *parser) parseSeq() (*ast.Process, error) {
	left, err := p.parseMerge()
	if err != nil {
		return nil, err
	}
	for p.peek().Kind == TokDot {
		p.advance()
		right, err := p.parseMerge()
		if err != nil {
			return nil, err
		}
		left = p.b.Seq(left, right)
	}
	return left, nil
}

func (p *parser) parseMerge() (*ast.Process, error) {
	left, err := p.parseAtomProc()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek().Kind {
		case TokBar:
			p.advance()
			right, err := p.parseAtomProc()
			if err != nil {
				return nil, err
			}
			left = p.b.Merge(left, right)
		case TokLeftBar:
			p.advance()
			right, err := p.parseAtomProc()
			if err != nil {
				return nil, err
			}
			left = p.b.LeftMerge(left, right)
		case TokSync:
			p.advance()
			right, err := p.parseAtomProc()
			if err != nil {
				return nil, err
			}
			left = p.b.Sync(left, right)
		default:
			return left, nil
		}
	}
}

func (p *parser) parseAtomProc() (*ast.Process, error) {
	t := p.peek()
	var proc *ast.Process
	var err error
	switch t.Kind {
	case TokDelta:
		p.advance()
		proc = p.b.Delta()
	case TokTau:
		p.advance()
		proc = p.b.Tau()
	case TokSum:
		p.advance()
		name, err := p.expect(TokIdent)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokColon); err != nil {
			return nil, err
		}
		sortTok, err := p.expect(TokIdent)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokDot); err != nil {
			return nil, err
		}
		body, err := p.parseProcess(0)
		if err != nil {
			return nil, err
		}
		proc = p.b.Sum(sortTok.Lexeme, []string{name.Lexeme}, body)
	case TokBlock, TokHide:
		proc, err = p.parseNameSetOp(t.Kind)
		if err != nil {
			return nil, err
		}
	case TokRename:
		proc, err = p.parseRename()
		if err != nil {
			return nil, err
		}
	case TokAllow:
		proc, err = p.parseAllow()
		if err != nil {
			return nil, err
		}
	case TokComm:
		proc, err = p.parseComm()
		if err != nil {
			return nil, err
		}
	case TokLParen:
		p.advance()
		inner, err := p.parseProcess(0)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokRParen); err != nil {
			return nil, err
		}
		proc = inner
	case TokIdent:
		p.advance()
		var args []ast.DataExpr
		if p.peek().Kind == TokLParen {
			p.advance()
			args, err = p.parseDataExprList()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(TokRParen); err != nil {
				return nil, err
			}
		}
		proc = p.b.Action(t.Lexeme, args...)
	default:
		return nil, &SyntaxError{Pos: t.Pos, Msg: fmt.Sprintf("unexpected %q at start of process expression", t.Lexeme)}
	}

	if p.peek().Kind == TokAt {
		p.advance()
		timeExpr, err := p.parseDataExpr(0)
		if err != nil {
			return nil, err
		}
		proc = p.b.Arena.At(proc, timeExpr)
	}
	return proc, nil
}

func (p *parser) parseNameSetOp(kind TokenKind) (*ast.Process, error) {
	p.advance()
	if _, err := p.expect(TokLParen); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokLBrace); err != nil {
		return nil, err
	}
	names, err := p.parseIdentList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokRBrace); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokComma); err != nil {
		return nil, err
	}
	body, err := p.parseProcess(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokRParen); err != nil {
		return nil, err
	}
	if kind == TokBlock {
		return p.b.Block(names, body)
	}
	return p.b.Hide(names, body)
}

func (p *parser) parseRename() (*ast.Process, error) {
	p.advance()
	if _, err := p.expect(TokLParen); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokLBrace); err != nil {
		return nil, err
	}
	var pairs []ast.RenamePair
	for {
		from, err := p.expect(TokIdent)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokArrow); err != nil {
			return nil, err
		}
		to, err := p.expect(TokIdent)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, ast.RenamePair{From: from.Lexeme, To: to.Lexeme})
		if p.peek().Kind == TokComma {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(TokRBrace); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokComma); err != nil {
		return nil, err
	}
	body, err := p.parseProcess(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokRParen); err != nil {
		return nil, err
	}
	return p.b.Rename(pairs, body), nil
}

func (p *parser) parseAllow() (*ast.Process, error) {
	p.advance()
	if _, err := p.expect(TokLParen); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokLBrace); err != nil {
		return nil, err
	}
	var sets [][]string
	for {
		set, err := p.parseBarSeparatedNames()
		if err != nil {
			return nil, err
		}
		sets = append(sets, set)
		if p.peek().Kind == TokComma {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(TokRBrace); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokComma); err != nil {
		return nil, err
	}
	body, err := p.parseProcess(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokRParen); err != nil {
		return nil, err
	}
	return p.b.Allow(sets, body)
}

func (p *parser) parseComm() (*ast.Process, error) {
	p.advance()
	if _, err := p.expect(TokLParen); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokLBrace); err != nil {
		return nil, err
	}
	var pairs []ast.CommPair
	for {
		lhs, err := p.parseBarSeparatedNames()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokArrow); err != nil {
			return nil, err
		}
		rhs := ""
		if p.peek().Kind == TokTau {
			p.advance()
		} else {
			tok, err := p.expect(TokIdent)
			if err != nil {
				return nil, err
			}
			rhs = tok.Lexeme
		}
		pairs = append(pairs, ast.CommPair{Lhs: lhs, Rhs: rhs})
		if p.peek().Kind == TokComma {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(TokRBrace); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokComma); err != nil {
		return nil, err
	}
	body, err := p.parseProcess(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokRParen); err != nil {
		return nil, err
	}
	return p.b.Comm(pairs, body)
}

func (p *parser) parseBarSeparatedNames() ([]string, error) {
	var names []string
	for {
		tok, err := p.expect(TokIdent)
		if err != nil {
			return nil, err
		}
		names = append(names, tok.Lexeme)
		if p.peek().Kind == TokSync {
			p.advance()
			continue
		}
		break
	}
	return names, nil
}

func (p *parser) parseIdentList() ([]string, error) {
	var names []string
	for {
		tok, err := p.expect(TokIdent)
		if err != nil {
			return nil, err
		}
		names = append(names, tok.Lexeme)
		if p.peek().Kind == TokComma {
			p.advance()
			continue
		}
		break
	}
	return names, nil
}

func (p *parser) parseDataExprList() ([]ast.DataExpr, error) {
	if p.peek().Kind == TokRParen {
		return nil, nil
	}
	var out []ast.DataExpr
	for {
		d, err := p.parseDataExpr(0)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
		if p.peek().Kind == TokComma {
			p.advance()
			continue
		}
		break
	}
	return out, nil
}

// --- data-expression grammar (precedence climbing) ------------------------
//
// Binding power, loosest to tightest: || < && < ==,<,<=,>,>= < +,- < * < atom

var dataBinaryOps = map[TokenKind]struct {
	prec int
	mk   func(l, r ast.DataExpr) ast.DataExpr
}{
	TokBar:   {1, ast.DataOr},
	TokAnd:   {2, ast.DataAnd},
	TokEq:    {3, ast.DataEqual},
	TokLt:    {3, func(l, r ast.DataExpr) ast.DataExpr { return ast.DataApplication{Head: "less", Args: []ast.DataExpr{l, r}} }},
	TokLe:    {3, ast.DataLE},
	TokGt:    {3, ast.DataGT},
	TokGe:    {3, func(l, r ast.DataExpr) ast.DataExpr { return ast.DataApplication{Head: "greater_equal", Args: []ast.DataExpr{l, r}} }},
	TokPlus:  {4, func(l, r ast.DataExpr) ast.DataExpr { return ast.DataApplication{Head: "plus", Args: []ast.DataExpr{l, r}} }},
	TokMinus: {4, func(l, r ast.DataExpr) ast.DataExpr { return ast.DataApplication{Head: "minus", Args: []ast.DataExpr{l, r}} }},
	TokStar:  {5, func(l, r ast.DataExpr) ast.DataExpr { return ast.DataApplication{Head: "times", Args: []ast.DataExpr{l, r}} }},
}

func (p *parser) parseDataExpr(minPrec int) (ast.DataExpr, error) {
	left, err := p.parseDataUnary()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := dataBinaryOps[p.peek().Kind]
		if !ok || op.prec < minPrec {
			return left, nil
		}
		p.advance()
		right, err := p.parseDataExpr(op.prec + 1)
		if err != nil {
			return nil, err
		}
		left = op.mk(left, right)
	}
}

func (p *parser) parseDataUnary() (ast.DataExpr, error) {
	if p.peek().Kind == TokNot {
		p.advance()
		inner, err := p.parseDataUnary()
		if err != nil {
			return nil, err
		}
		return ast.DataNot(inner), nil
	}
	return p.parseDataAtom()
}

func (p *parser) parseDataAtom() (ast.DataExpr, error) {
	t := p.advance()
	switch t.Kind {
	case TokTrue:
		return ast.True, nil
	case TokFalse:
		return ast.False, nil
	case TokNumber:
		return ast.DataApplication{Head: t.Lexeme, RSort: p.b.Sort("Nat")}, nil
	case TokLParen:
		inner, err := p.parseDataExpr(0)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokRParen); err != nil {
			return nil, err
		}
		return inner, nil
	case TokIdent:
		if p.peek().Kind == TokLParen {
			p.advance()
			args, err := p.parseDataExprList()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(TokRParen); err != nil {
				return nil, err
			}
			return ast.DataApplication{Head: t.Lexeme, Args: args}, nil
		}
		return ast.DataVariable{Name: t.Lexeme, VSort: p.b.Sort("Unknown")}, nil
	default:
		return nil, &SyntaxError{Pos: t.Pos, Msg: fmt.Sprintf("unexpected %q in data expression", t.Lexeme)}
	}
}

// --- state-formula / action-formula grammar --------------------------------
//
//	stateFormula = sfImp
//	sfImp        = sfOr [ '=>' sfImp ]
//	sfOr         = sfAnd ( '||' sfAnd )*
//	sfAnd        = sfUnary ( '&&' sfUnary )*
//	sfUnary      = '!' sfUnary | sfModal | sfAtom
//	sfModal      = '[' actionFormula ']' stateFormula | '<' actionFormula '>' stateFormula
//	sfAtom       = 'true' | 'false' | 'delay' | 'yaled'
//	             | 'mu'/'nu' ident '(' paramList ')' '.' stateFormula
//	             | 'forall'/'exists' ident ':' ident '.' stateFormula
//	             | ident [ '(' assignList ')' ]
//	             | '(' stateFormula ')'
func (p *parser) parseStateFormula() (*ast.StateFormula, error) {
	return p.parseSFImp()
}

func (p *parser) parseSFImp() (*ast.StateFormula, error) {
	left, err := p.parseSFOr()
	if err != nil {
		return nil, err
	}
	if p.peek().Kind == TokFatArrow {
		p.advance()
		right, err := p.parseSFImp()
		if err != nil {
			return nil, err
		}
		return p.b.Arena.SFImp(left, right), nil
	}
	return left, nil
}

func (p *parser) parseSFOr() (*ast.StateFormula, error) {
	left, err := p.parseSFAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().Kind == TokBar {
		p.advance()
		right, err := p.parseSFAnd()
		if err != nil {
			return nil, err
		}
		left = p.b.Arena.SFOr(left, right)
	}
	return left, nil
}

func (p *parser) parseSFAnd() (*ast.StateFormula, error) {
	left, err := p.parseSFUnary()
	if err != nil {
		return nil, err
	}
	for p.peek().Kind == TokAnd {
		p.advance()
		right, err := p.parseSFUnary()
		if err != nil {
			return nil, err
		}
		left = p.b.Arena.SFAnd(left, right)
	}
	return left, nil
}

func (p *parser) parseSFUnary() (*ast.StateFormula, error) {
	switch p.peek().Kind {
	case TokNot:
		p.advance()
		inner, err := p.parseSFUnary()
		if err != nil {
			return nil, err
		}
		return p.b.Arena.SFNot(inner), nil
	case TokLBracket:
		p.advance()
		act, err := p.parseActionFormula()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokRBracket); err != nil {
			return nil, err
		}
		body, err := p.parseSFUnary()
		if err != nil {
			return nil, err
		}
		return p.b.Must(act, body), nil
	case TokLAngle:
		p.advance()
		act, err := p.parseActionFormula()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokRAngle); err != nil {
			return nil, err
		}
		body, err := p.parseSFUnary()
		if err != nil {
			return nil, err
		}
		return p.b.May(act, body), nil
	default:
		return p.parseSFAtom()
	}
}

func (p *parser) parseSFAtom() (*ast.StateFormula, error) {
	t := p.peek()
	switch t.Kind {
	case TokTrue:
		p.advance()
		return p.b.Arena.SFTrue(), nil
	case TokFalse:
		p.advance()
		return p.b.Arena.SFFalse(), nil
	case TokDelay:
		p.advance()
		return p.b.Arena.SFDelay(), nil
	case TokYaled:
		p.advance()
		return p.b.Arena.SFYaled(), nil
	case TokMu, TokNu:
		p.advance()
		name, err := p.expect(TokIdent)
		if err != nil {
			return nil, err
		}
		var params []ast.DataVariable
		var init []ast.Assignment
		if p.peek().Kind == TokLParen {
			p.advance()
			if p.peek().Kind != TokRParen {
				for {
					pname, err := p.expect(TokIdent)
					if err != nil {
						return nil, err
					}
					if _, err := p.expect(TokColon); err != nil {
						return nil, err
					}
					psort, err := p.expect(TokIdent)
					if err != nil {
						return nil, err
					}
					params = append(params, ast.DataVariable{Name: pname.Lexeme, VSort: p.b.Sort(psort.Lexeme)})
					if p.peek().Kind == TokComma {
						p.advance()
						continue
					}
					break
				}
			}
			if _, err := p.expect(TokRParen); err != nil {
				return nil, err
			}
		}
		if _, err := p.expect(TokDot); err != nil {
			return nil, err
		}
		body, err := p.parseStateFormula()
		if err != nil {
			return nil, err
		}
		if t.Kind == TokMu {
			return p.b.Mu(name.Lexeme, params, init, body), nil
		}
		return p.b.Nu(name.Lexeme, params, init, body), nil
	case TokForall, TokExists:
		p.advance()
		vname, err := p.expect(TokIdent)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokColon); err != nil {
			return nil, err
		}
		sname, err := p.expect(TokIdent)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokDot); err != nil {
			return nil, err
		}
		body, err := p.parseStateFormula()
		if err != nil {
			return nil, err
		}
		v := ast.DataVariable{Name: vname.Lexeme, VSort: p.b.Sort(sname.Lexeme)}
		if t.Kind == TokForall {
			return p.b.Arena.SFForall([]ast.DataVariable{v}, body), nil
		}
		return p.b.Arena.SFExists([]ast.DataVariable{v}, body), nil
	case TokLParen:
		p.advance()
		inner, err := p.parseStateFormula()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokRParen); err != nil {
			return nil, err
		}
		return inner, nil
	case TokIdent:
		p.advance()
		var assigns []ast.Assignment
		if p.peek().Kind == TokLParen {
			p.advance()
			if p.peek().Kind != TokRParen {
				for {
					pname, err := p.expect(TokIdent)
					if err != nil {
						return nil, err
					}
					if _, err := p.expect(TokColon); err != nil {
						return nil, err
					}
					val, err := p.parseDataExpr(0)
					if err != nil {
						return nil, err
					}
					assigns = append(assigns, ast.Assignment{Param: pname.Lexeme, Value: val})
					if p.peek().Kind == TokComma {
						p.advance()
						continue
					}
					break
				}
			}
			if _, err := p.expect(TokRParen); err != nil {
				return nil, err
			}
		}
		return p.b.StateVar(t.Lexeme, assigns...), nil
	default:
		d, err := p.parseDataExpr(0)
		if err != nil {
			return nil, &SyntaxError{Pos: t.Pos, Msg: fmt.Sprintf("unexpected %q in state formula", t.Lexeme)}
		}
		return p.b.Arena.SFDataExpr(d), nil
	}
}

// --- action-formula grammar -------------------------------------------------
//
//	actionFormula = afOr
//	afOr          = afAnd ( '||' afAnd )*
//	afAnd         = afUnary ( '&&' afUnary )*
//	afUnary       = '!' afUnary | afAtom [ '@' dataExpr ]
//	afAtom        = 'true' | 'false' | barSeparatedNames | '(' actionFormula ')'
func (p *parser) parseActionFormula() (*ast.ActionFormula, error) {
	return p.parseAFOr()
}

func (p *parser) parseAFOr() (*ast.ActionFormula, error) {
	left, err := p.parseAFAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().Kind == TokBar {
		p.advance()
		right, err := p.parseAFAnd()
		if err != nil {
			return nil, err
		}
		left = p.b.Arena.AFOr(left, right)
	}
	return left, nil
}

func (p *parser) parseAFAnd() (*ast.ActionFormula, error) {
	left, err := p.parseAFUnary()
	if err != nil {
		return nil, err
	}
	for p.peek().Kind == TokAnd {
		p.advance()
		right, err := p.parseAFUnary()
		if err != nil {
			return nil, err
		}
		left = p.b.Arena.AFAnd(left, right)
	}
	return left, nil
}

func (p *parser) parseAFUnary() (*ast.ActionFormula, error) {
	if p.peek().Kind == TokNot {
		p.advance()
		inner, err := p.parseAFUnary()
		if err != nil {
			return nil, err
		}
		return p.b.Arena.AFNot(inner), nil
	}
	atom, err := p.parseAFAtom()
	if err != nil {
		return nil, err
	}
	if p.peek().Kind == TokAt {
		p.advance()
		t, err := p.parseDataExpr(0)
		if err != nil {
			return nil, err
		}
		return p.b.Arena.AFAt(atom, t), nil
	}
	return atom, nil
}

func (p *parser) parseAFAtom() (*ast.ActionFormula, error) {
	t := p.peek()
	switch t.Kind {
	case TokTrue:
		p.advance()
		return p.b.Arena.AFTrue(), nil
	case TokFalse:
		p.advance()
		return p.b.Arena.AFFalse(), nil
	case TokLParen:
		p.advance()
		inner, err := p.parseActionFormula()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokRParen); err != nil {
			return nil, err
		}
		return inner, nil
	case TokIdent:
		names, err := p.parseBarSeparatedNames()
		if err != nil {
			return nil, err
		}
		return p.b.MultiActionLiteral(names...), nil
	default:
		return nil, &SyntaxError{Pos: t.Pos, Msg: fmt.Sprintf("unexpected %q in action formula", t.Lexeme)}
	}
}
