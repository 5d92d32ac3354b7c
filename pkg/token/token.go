// Package token defines the lexical token kinds produced by pkg/lexer and
// consumed by pkg/parser.
package token

import "github.com/what386/lash-sub001/pkg/source"

// Kind classifies a Token.
type Kind int

const (
	EOF Kind = iota
	Invalid

	Ident
	Int
	String          // "..."
	InterpString    // $"..."
	RawString       // [[ ... ]]

	// Keywords.
	KwLet
	KwConst
	KwGlobal
	KwFn
	KwEnum
	KwIf
	KwElif
	KwElse
	KwSwitch
	KwCase
	KwFor
	KwIn
	KwStep
	KwWhile
	KwUntil
	KwEnd
	KwReturn
	KwShift
	KwSubshell
	KwInto
	KwWait
	KwJobs
	KwBreak
	KwContinue
	KwSh
	KwTrap
	KwUntrap
	KwTrue
	KwFalse

	// Punctuation / operators.
	LParen
	RParen
	LBracket
	RBracket
	Comma
	Colon
	ColonColon // ::
	Dot
	DotDot // ..
	Assign
	PlusAssign
	Plus
	Minus
	Star
	Slash
	Percent
	Hash
	Bang
	AndAnd
	OrOr
	EqEq
	NotEq
	Lt
	Gt
	LtEq
	GtEq
	Pipe
	Amp
	Ellipsis // ... (spread)
	DollarSh // $sh, the shell-capture expression prefix

	// Redirection operators.
	RedirAppend      // >>
	RedirErrAppend   // 2>>
	RedirBothAppend  // &>>
	RedirOut         // >
	RedirErr         // 2>
	RedirBoth        // &>
	RedirIn          // <
	RedirInOut       // <>
	RedirHeredocStr  // <<<
	RedirHeredoc     // <<
	RedirFdDup       // n>&m
	RedirFdClose     // n>&-

	Newline
)

var names = map[Kind]string{
	EOF: "EOF", Invalid: "INVALID",
	Ident: "IDENT", Int: "INT", String: "STRING", InterpString: "INTERP_STRING", RawString: "RAW_STRING",
	KwLet: "let", KwConst: "const", KwGlobal: "global", KwFn: "fn", KwEnum: "enum",
	KwIf: "if", KwElif: "elif", KwElse: "else", KwSwitch: "switch", KwCase: "case",
	KwFor: "for", KwIn: "in", KwStep: "step", KwWhile: "while", KwUntil: "until", KwEnd: "end",
	KwReturn: "return", KwShift: "shift", KwSubshell: "subshell", KwInto: "into",
	KwWait: "wait", KwJobs: "jobs", KwBreak: "break", KwContinue: "continue", KwSh: "sh",
	KwTrap: "trap", KwUntrap: "untrap", KwTrue: "true", KwFalse: "false",
	LParen: "(", RParen: ")", LBracket: "[", RBracket: "]", Comma: ",", Colon: ":",
	ColonColon: "::", Dot: ".", DotDot: "..", Assign: "=", PlusAssign: "+=",
	Plus: "+", Minus: "-", Star: "*", Slash: "/", Percent: "%", Hash: "#", Bang: "!",
	AndAnd: "&&", OrOr: "||", EqEq: "==", NotEq: "!=", Lt: "<", Gt: ">", LtEq: "<=", GtEq: ">=",
	Pipe: "|", Amp: "&", Ellipsis: "...", DollarSh: "$sh",
	RedirAppend: ">>", RedirErrAppend: "2>>", RedirBothAppend: "&>>",
	RedirOut: ">", RedirErr: "2>", RedirBoth: "&>", RedirIn: "<", RedirInOut: "<>",
	RedirHeredocStr: "<<<", RedirHeredoc: "<<", RedirFdDup: "n>&m", RedirFdClose: "n>&-",
	Newline: "NEWLINE",
}

// String renders the kind's canonical spelling, for diagnostics and tests.
func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return "UNKNOWN"
}

// Keywords maps a reserved identifier spelling to its Kind. The lexer looks
// up every scanned identifier here before emitting a plain Ident token.
var Keywords = map[string]Kind{
	"let": KwLet, "const": KwConst, "global": KwGlobal, "fn": KwFn, "enum": KwEnum,
	"if": KwIf, "elif": KwElif, "else": KwElse, "switch": KwSwitch, "case": KwCase,
	"for": KwFor, "in": KwIn, "step": KwStep, "while": KwWhile, "until": KwUntil, "end": KwEnd,
	"return": KwReturn, "shift": KwShift, "subshell": KwSubshell, "into": KwInto,
	"wait": KwWait, "jobs": KwJobs, "break": KwBreak, "continue": KwContinue, "sh": KwSh,
	"trap": KwTrap, "untrap": KwUntrap, "true": KwTrue, "false": KwFalse,
}

// Token is a single lexical unit with its source position and literal text.
type Token struct {
	Kind    Kind
	Literal string
	Loc     source.Location
}

// Is reports whether the token has the given kind; a small readability
// helper used throughout the parser's lookahead checks.
func (t Token) Is(k Kind) bool { return t.Kind == k }
