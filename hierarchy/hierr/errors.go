package hierr

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// enableDebugErrorPrinting makes errors include where they were created when printed
const enableDebugErrorPrinting bool = false
const enableDebugFullStacktrace bool = false

type ErrCode int

const (
	None ErrCode = iota
	TypeSyntax
	UnknownType
	DuplicateClass
	DuplicateTypeParam
	TypeArgCount
	HierarchyCycle
)

// Position is where in a declaration document an error was found.
// The zero value means unknown.
type Position struct {
	File         string
	Line, Column int
}

func (p Position) String() string {
	if p.Line == 0 {
		return p.File
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// DeclError is a problem with the declarations being loaded,
// as opposed to a failure to read them
type DeclError interface {
	Error() string
	Code() ErrCode
	At() Position
	// IsWarning errors do not prevent the snapshot from being built
	IsWarning() bool

	withStack([]byte) DeclError
	getStack() []byte
}

func FormatWithCode(e DeclError) string {
	severity := "error"
	if e.IsWarning() {
		severity = "warning"
	}
	msg := fmt.Sprintf("%s: %s (E%03d) %s", e.At(), severity, e.Code(), e.Error())
	if enableDebugErrorPrinting && e.getStack() != nil {
		stack := string(e.getStack())
		if !enableDebugFullStacktrace {
			stack = strings.Split(stack, "\n")[6]
		}
		return stack + ": " + msg
	}
	return msg
}

func New[E DeclError](err E) DeclError {
	return err.withStack(debug.Stack())
}

type NewTypeSyntax struct {
	Position
	Text   string
	Reason string
	stack  []byte
}

func (e NewTypeSyntax) Error() string {
	return fmt.Sprintf("cannot parse type '%s': %s", e.Text, e.Reason)
}
func (e NewTypeSyntax) Code() ErrCode    { return TypeSyntax }
func (e NewTypeSyntax) At() Position     { return e.Position }
func (e NewTypeSyntax) IsWarning() bool  { return false }
func (e NewTypeSyntax) getStack() []byte { return e.stack }
func (e NewTypeSyntax) withStack(stack []byte) DeclError {
	e.stack = stack
	return e
}

type NewUnknownType struct {
	Position
	Name  string
	stack []byte
}

func (e NewUnknownType) Error() string {
	return fmt.Sprintf("type '%s' is not declared", e.Name)
}
func (e NewUnknownType) Code() ErrCode    { return UnknownType }
func (e NewUnknownType) At() Position     { return e.Position }
func (e NewUnknownType) IsWarning() bool  { return false }
func (e NewUnknownType) getStack() []byte { return e.stack }
func (e NewUnknownType) withStack(stack []byte) DeclError {
	e.stack = stack
	return e
}

type NewDuplicateClass struct {
	Position
	Name   string
	Origin string
	stack  []byte
}

func (e NewDuplicateClass) Error() string {
	return fmt.Sprintf("class '%s' is declared twice in origin '%s'", e.Name, e.Origin)
}
func (e NewDuplicateClass) Code() ErrCode    { return DuplicateClass }
func (e NewDuplicateClass) At() Position     { return e.Position }
func (e NewDuplicateClass) IsWarning() bool  { return false }
func (e NewDuplicateClass) getStack() []byte { return e.stack }
func (e NewDuplicateClass) withStack(stack []byte) DeclError {
	e.stack = stack
	return e
}

type NewDuplicateTypeParam struct {
	Position
	Owner string
	Name  string
	stack []byte
}

func (e NewDuplicateTypeParam) Error() string {
	return fmt.Sprintf("type parameter '%s' is declared twice in '%s'", e.Name, e.Owner)
}
func (e NewDuplicateTypeParam) Code() ErrCode    { return DuplicateTypeParam }
func (e NewDuplicateTypeParam) At() Position     { return e.Position }
func (e NewDuplicateTypeParam) IsWarning() bool  { return false }
func (e NewDuplicateTypeParam) getStack() []byte { return e.stack }
func (e NewDuplicateTypeParam) withStack(stack []byte) DeclError {
	e.stack = stack
	return e
}

type NewTypeArgCount struct {
	Position
	Class         string
	Expected, Got int
	stack         []byte
}

func (e NewTypeArgCount) Error() string {
	return fmt.Sprintf("'%s' expects %d type arguments, but %d were given", e.Class, e.Expected, e.Got)
}
func (e NewTypeArgCount) Code() ErrCode    { return TypeArgCount }
func (e NewTypeArgCount) At() Position     { return e.Position }
func (e NewTypeArgCount) IsWarning() bool  { return false }
func (e NewTypeArgCount) getStack() []byte { return e.stack }
func (e NewTypeArgCount) withStack(stack []byte) DeclError {
	e.stack = stack
	return e
}

type NewHierarchyCycle struct {
	Position
	Classes []string
	stack   []byte
}

func (e NewHierarchyCycle) Error() string {
	return fmt.Sprintf("cyclic inheritance: %s", strings.Join(e.Classes, " -> "))
}
func (e NewHierarchyCycle) Code() ErrCode    { return HierarchyCycle }
func (e NewHierarchyCycle) At() Position     { return e.Position }
func (e NewHierarchyCycle) IsWarning() bool  { return true }
func (e NewHierarchyCycle) getStack() []byte { return e.stack }
func (e NewHierarchyCycle) withStack(stack []byte) DeclError {
	e.stack = stack
	return e
}
