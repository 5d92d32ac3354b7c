package diag

// Code is a stable diagnostic identifier drawn from the closed taxonomy in
// spec.md §7. Every Diagnostic.Code value produced anywhere in the compiler
// must be one of the constants below (spec.md §8 invariant).
type Code string

const (
	// Lexer/parser.
	ELex          Code = "E000" // invalid token
	ESyntax       Code = "E001" // parse syntax error

	// Preprocessor.
	EDirectiveUnknown    Code = "E010" // unknown directive
	EDirectiveSyntax     Code = "E011" // directive syntax error
	EDirectiveStructure  Code = "E012" // @elif after @else, duplicate @else, unclosed @if/@raw
	EImportIO            Code = "E013" // import target could not be read
	EImportUsage         Code = "E014" // @import used inside a runtime block
	ERawUsage            Code = "E015" // malformed @raw ... @end

	// Name / declaration / scope.
	EInvalidAssignTarget Code = "E110" // assignment target is const or not assignable
	EUndeclared          Code = "E111" // identifier / enum member not found
	EDuplicateDecl       Code = "E112" // duplicate declaration in scope
	EUnknownFunction     Code = "E113" // call to an undeclared function
	EArity               Code = "E114" // wrong argument count
	EControlFlowContext  Code = "E115" // break/continue/return/shift outside valid context
	EBadParameter        Code = "E116" // duplicate/invalid parameter, default expr does not resolve
	ETrapSignal          Code = "E117" // unknown trap signal or handler
	EBadCommandUsage     Code = "E118" // malformed CommandStatement / sh payload
	EReserved119         Code = "E119" // reserved for future scope diagnostics

	// Types.
	ETypeMismatch    Code = "E200" // incompatible operand types
	EInvalidPayload  Code = "E201" // shell-capture / interpolation payload cannot be rendered
	EInvalidIndexing Code = "E202" // mixed array/associative key kinds, bad index target

	// Flow / constant safety.
	EDefiniteAssignment Code = "E300" // read before initialization on some path
	EDivModByZero       Code = "E301" // constant divide/modulo by zero
	EBadShiftAmount     Code = "E302" // non-positive shift amount
	EBadForStep         Code = "E303" // non-positive for-loop step

	// Codegen feasibility.
	ECodegenUnsupported Code = "E400" // construct the generator cannot lower
	ECodegenConflict    Code = "E401" // mutually incompatible construct combination

	// Warnings.
	WUnreachable       Code = "W500"
	WShadowed          Code = "W501"
	WWaitJobsUnused    Code = "W502"
	WUnusedVariable    Code = "W503"
	WUnusedParameter   Code = "W504"
	WUnusedFunction    Code = "W505"
	WReservedA         Code = "W506"
	WReservedB         Code = "W507"
	WReservedC         Code = "W508"
	WLetNeverReassigned Code = "W509"

	// Info.
	IUnclosedBlockHint Code = "I001"
)
