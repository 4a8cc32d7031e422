// Package parse decodes node graphs from JSON, YAML or msgpack documents
// and validates them before generation.
package parse

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/mxkacsa/nelgen"
)

// Format is the encoding of a graph document.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
	FormatMsgpack
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	case FormatMsgpack:
		return "msgpack"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Extensions lists the file extensions FormatFromPath understands.
var Extensions = []string{".json", ".yaml", ".yml", ".msgpack", ".mpk"}

// FormatFromPath picks the document format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".msgpack", ".mpk":
		return FormatMsgpack, nil
	}
	return 0, fmt.Errorf("unsupported graph file extension %q", filepath.Ext(path))
}

// Parser decodes graph documents
type Parser struct {
	// Validators to run after parsing
	validators []Validator
	assignIDs  bool
}

// NewParser creates a parser with the structural validators. Nodes without
// an id receive one derived from their position in the document.
func NewParser() *Parser {
	return &Parser{
		validators: []Validator{
			&RequiredFieldsValidator{},
			&ShapeValidator{},
		},
		assignIDs: true,
	}
}

// AddValidator adds a custom validator
func (p *Parser) AddValidator(v Validator) {
	p.validators = append(p.validators, v)
}

// KeepIDs disables id generation for anonymous nodes.
func (p *Parser) KeepIDs() *Parser {
	p.assignIDs = false
	return p
}

// ParseFile reads and decodes a single graph file
func (p *Parser) ParseFile(path string) (*nelgen.Graph, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return p.Parse(data, path, format)
}

// Parse decodes a graph document. The document is either a graph object
// or a bare list of top-level nodes.
func (p *Parser) Parse(data []byte, source string, format Format) (*nelgen.Graph, error) {
	graph, err := decode(data, format)
	if err != nil {
		perr := NewParseError(source, "decode "+format.String()+": "+err.Error(), err)
		var syntax *json.SyntaxError
		if errors.As(err, &syntax) {
			perr.Line, perr.Column = position(data, syntax.Offset)
			perr.Message = syntax.Error()
		}
		return nil, perr
	}

	if graph.Name == "" {
		base := filepath.Base(source)
		graph.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if p.assignIDs {
		walk(graph, func(path string, n *nelgen.Node) {
			if n.ID == "" {
				n.ID = nodeID(graph.Name, path)
			}
		})
	}
	if err := p.validate(graph); err != nil {
		return nil, err
	}
	return graph, nil
}

// idSpace is the namespace of the name-based ids given to anonymous nodes.
var idSpace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/mxkacsa/nelgen/node"))

// nodeID derives the id of an anonymous node from its document path, so the
// same file always yields the same ids.
func nodeID(graph, path string) string {
	return uuid.NewSHA1(idSpace, []byte(graph+"/"+path)).String()
}

func decode(data []byte, format Format) (*nelgen.Graph, error) {
	var unmarshal func([]byte, any) error
	switch format {
	case FormatJSON:
		unmarshal = json.Unmarshal
	case FormatYAML:
		unmarshal = yaml.Unmarshal
	case FormatMsgpack:
		unmarshal = msgpack.Unmarshal
	default:
		return nil, fmt.Errorf("unknown format %v", format)
	}

	var graph nelgen.Graph
	err := unmarshal(data, &graph)
	if err == nil {
		return &graph, nil
	}

	// A bare list of nodes is accepted as well.
	var nodes []*nelgen.Node
	if listErr := unmarshal(data, &nodes); listErr == nil {
		return &nelgen.Graph{Nodes: nodes}, nil
	}
	return nil, err
}

// position converts a byte offset into a 1-based line and column.
func position(data []byte, offset int64) (int, int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	before := data[:offset]
	line := bytes.Count(before, []byte("\n")) + 1
	column := int(offset) - bytes.LastIndexByte(before, '\n')
	return line, column
}

// validate runs all validators on the graph
func (p *Parser) validate(graph *nelgen.Graph) error {
	var errs []error
	for _, v := range p.validators {
		if err := v.Validate(graph); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return &ValidationErrors{Errors: errs}
	}
	return nil
}
