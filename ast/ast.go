package ast

import (
	"strconv"
	"strings"
)

// A Program is an ordered list of top-level bindings.
type Program struct {
	Bindings []Binding
}

func (p *Program) String() string {
	strs := make([]string, len(p.Bindings))
	for i, b := range p.Bindings {
		strs[i] = "define " + b.String()
	}
	return strings.Join(strs, ";\n")
}

// Binding is `name = lambda`.
type Binding struct {
	Name   string
	Lambda LambdaForm
}

func (b *Binding) String() string {
	return b.Name + " = " + b.Lambda.String()
}

// LambdaForm is `{freeVars} \u|\n {boundVars} -> body`.
// Updatable lambdas are thunks, overwritten in place after first
// evaluation; constructors and partial applications are non-updatable.
type LambdaForm struct {
	Free      []string
	Updatable bool
	Bound     []string
	Body      Expr
}

func (lf *LambdaForm) String() string {
	marker := `\n`
	if lf.Updatable {
		marker = `\u`
	}
	return varList(lf.Free) + " " + marker + " " + varList(lf.Bound) + " -> " + lf.Body.String()
}

func varList(vars []string) string {
	return "{" + strings.Join(vars, ", ") + "}"
}

// Atom is a literal integer or a variable name.
type Atom interface {
	atomNode()
	String() string
}

type VarAtom struct {
	Name string
}

func (a *VarAtom) atomNode()      {}
func (a *VarAtom) String() string { return a.Name }

type IntAtom struct {
	Value int64
}

func (a *IntAtom) atomNode()      {}
func (a *IntAtom) String() string { return strconv.FormatInt(a.Value, 10) }

func atomList(atoms []Atom) string {
	strs := make([]string, len(atoms))
	for i, a := range atoms {
		strs[i] = a.String()
	}
	return "{" + strings.Join(strs, ", ") + "}"
}

type Expr interface {
	exprNode()
	String() string
}

// AppExpr applies a variable (a closure address or an intrinsic name)
// to atomic arguments.
type AppExpr struct {
	Target string
	Atoms  []Atom
}

func (e *AppExpr) exprNode()      {}
func (e *AppExpr) String() string { return e.Target + " " + atomList(e.Atoms) }

type LetExpr struct {
	IsRec    bool
	Bindings []Binding
	Body     Expr
}

func (e *LetExpr) exprNode() {}
func (e *LetExpr) String() string {
	keyword := "let"
	if e.IsRec {
		keyword = "letrec"
	}
	strs := make([]string, len(e.Bindings))
	for i, b := range e.Bindings {
		strs[i] = b.String()
	}
	return keyword + " " + strings.Join(strs, "; ") + " in " + e.Body.String()
}

type CaseExpr struct {
	Scrutinee Expr
	Alts      []Alt
}

func (e *CaseExpr) exprNode() {}
func (e *CaseExpr) String() string {
	strs := make([]string, len(e.Alts))
	for i, a := range e.Alts {
		strs[i] = a.String()
	}
	return "case " + e.Scrutinee.String() + " of {" + strings.Join(strs, "; ") + "}"
}

// ConExpr is a saturated data constructor.
type ConExpr struct {
	Name  string
	Atoms []Atom
}

func (e *ConExpr) exprNode()      {}
func (e *ConExpr) String() string { return e.Name + " " + atomList(e.Atoms) }

type IntExpr struct {
	Value int64
}

func (e *IntExpr) exprNode()      {}
func (e *IntExpr) String() string { return strconv.FormatInt(e.Value, 10) }

// Alt is a case alternative. Earlier alternatives take precedence.
type Alt interface {
	altNode()
	String() string
}

// ConAlt is `Con {v1, ..., vk} -> body`.
type ConAlt struct {
	Con  string
	Vars []string
	Body Expr
}

func (a *ConAlt) altNode()       {}
func (a *ConAlt) String() string { return a.Con + " " + varList(a.Vars) + " -> " + a.Body.String() }

// IntAlt is `n -> body`.
type IntAlt struct {
	Value int64
	Body  Expr
}

func (a *IntAlt) altNode()       {}
func (a *IntAlt) String() string { return strconv.FormatInt(a.Value, 10) + " -> " + a.Body.String() }

// VarAlt is the default alternative `x -> body`.
type VarAlt struct {
	Name string
	Body Expr
}

func (a *VarAlt) altNode()       {}
func (a *VarAlt) String() string { return a.Name + " -> " + a.Body.String() }
