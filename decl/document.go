package decl

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// document is one YAML document of a declarations file:
//
//	origin: app
//	classes:
//	  - name: ArrayList
//	    typeParams: [E]
//	    extends: ["AbstractList<E>", "List<E>"]
//	    methods:
//	      - name: add
//	        params: [E]
//	        returns: boolean
type document struct {
	Origin  string      `yaml:"origin"`
	Classes []classDecl `yaml:"classes"`
}

type position struct {
	line, column int
}

type classDecl struct {
	Name       string          `yaml:"name"`
	Kind       string          `yaml:"kind"`
	Origin     string          `yaml:"origin"`
	TypeParams []typeParamDecl `yaml:"typeParams"`
	Extends    []typeExpr      `yaml:"extends"`
	Methods    []methodDecl    `yaml:"methods"`

	pos position
}

func (c *classDecl) UnmarshalYAML(n *yaml.Node) error {
	type plain classDecl
	if err := n.Decode((*plain)(c)); err != nil {
		return err
	}
	c.pos = position{n.Line, n.Column}
	return nil
}

type typeParamDecl struct {
	Name   string     `yaml:"name"`
	Bounds []typeExpr `yaml:"bounds"`

	pos position
}

// UnmarshalYAML accepts both a bare name and a mapping with bounds
func (p *typeParamDecl) UnmarshalYAML(n *yaml.Node) error {
	p.pos = position{n.Line, n.Column}
	if n.Kind == yaml.ScalarNode {
		p.Name = n.Value
		return nil
	}
	type plain typeParamDecl
	return n.Decode((*plain)(p))
}

type methodDecl struct {
	Name        string          `yaml:"name"`
	TypeParams  []typeParamDecl `yaml:"typeParams"`
	Params      []typeExpr      `yaml:"params"`
	Returns     *typeExpr       `yaml:"returns"`
	Static      bool            `yaml:"static"`
	Constructor bool            `yaml:"constructor"`

	pos position
}

func (m *methodDecl) UnmarshalYAML(n *yaml.Node) error {
	type plain methodDecl
	if err := n.Decode((*plain)(m)); err != nil {
		return err
	}
	m.pos = position{n.Line, n.Column}
	return nil
}

// typeExpr is a type expression as written in the document, like "List<E>"
type typeExpr struct {
	text string
	pos  position
}

func (t *typeExpr) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a type expression, found a %s", n.Line, kindName(n.Kind))
	}
	t.text = n.Value
	t.pos = position{n.Line, n.Column}
	return nil
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.AliasNode:
		return "alias"
	default:
		return "node"
	}
}
