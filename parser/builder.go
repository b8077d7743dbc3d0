package parser

import "github.com/bpmncode-lang/bpmncode/lexer"

// processBuilder accumulates a ProcessDecl by value. Every method returns
// the updated builder, so a half-built process is never observable through
// a shared pointer.
type processBuilder struct {
	decl ProcessDecl
}

func newProcessBuilder(name string, span lexer.Span) processBuilder {
	return processBuilder{decl: ProcessDecl{
		Name:       name,
		Attributes: map[string]AttributeValue{},
		Span:       span,
	}}
}

func (b processBuilder) withAttributes(attrs map[string]AttributeValue) processBuilder {
	if attrs != nil {
		b.decl.Attributes = attrs
	}
	return b
}

func (b processBuilder) addElement(el Element) processBuilder {
	b.decl.Elements = append(b.decl.Elements, el)
	return b
}

func (b processBuilder) addFlow(fl Flow) processBuilder {
	b.decl.Flows = append(b.decl.Flows, fl)
	return b
}

func (b processBuilder) build() ProcessDecl {
	return b.decl
}
