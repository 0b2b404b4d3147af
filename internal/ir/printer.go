package ir

import (
	"fmt"
	"strings"
)

// Printer renders a Module/Function/BasicBlock tree to a stable,
// LLVM-flavored textual form, following the indent-and-writeLine shape
// of the decompiler's lineage.
type Printer struct {
	indent int
	output strings.Builder
}

func NewPrinter() *Printer { return &Printer{} }

// PrintModule returns the textual dump of an entire module.
func PrintModule(m *Module) string {
	p := NewPrinter()
	p.printModule(m)
	return p.output.String()
}

// PrintFunction returns the textual dump of a single function.
func PrintFunction(f *Function) string {
	p := NewPrinter()
	p.printFunction(f)
	return p.output.String()
}

func (p *Printer) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.output.WriteString("  ")
	}
}

func (p *Printer) writeLine(format string, args ...interface{}) {
	p.writeIndent()
	p.output.WriteString(fmt.Sprintf(format, args...))
	p.output.WriteString("\n")
}

func (p *Printer) printModule(m *Module) {
	p.writeLine("module %q", m.Name)
	p.writeLine("")
	for _, fn := range m.functions {
		p.printFunction(fn)
		p.writeLine("")
	}
}

func (p *Printer) printFunction(f *Function) {
	args := make([]string, len(f.Arguments))
	for i, a := range f.Arguments {
		args[i] = fmt.Sprintf("%s: %s", a.Name, a.Type)
	}
	p.writeLine("function %s(%s) {", f.Name, strings.Join(args, ", "))
	p.indent++
	for _, b := range f.blocks {
		p.printBlock(b)
	}
	p.indent--
	p.writeLine("}")
}

func (p *Printer) printBlock(b *BasicBlock) {
	preds := make([]string, len(b.preds))
	for i, pb := range b.preds {
		preds[i] = pb.Label
	}
	if len(preds) > 0 {
		p.writeLine("%s:  ; preds = %s", b.Label, strings.Join(preds, ", "))
	} else {
		p.writeLine("%s:", b.Label)
	}
	p.indent++
	for _, inst := range b.Instructions() {
		p.writeLine("%s", inst.String())
	}
	p.indent--
}
