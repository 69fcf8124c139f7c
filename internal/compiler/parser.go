package compiler

import (
	"fmt"

	"github.com/aretw0/riseflow/internal/dto"
	"github.com/aretw0/riseflow/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Parser converts a flow definition into domain nodes.
type Parser struct{}

// NewParser creates a new parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// Parse decodes a flow file (YAML, or JSON as a YAML subset).
// It returns the nodes in file order and the declared root ("" if absent).
// Unknown node keys are rejected so typos do not silently drop content.
func (p *Parser) Parse(data []byte) ([]domain.Node, string, error) {
	var file dto.FlowFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, "", fmt.Errorf("failed to parse flow: %w", err)
	}

	nodes := make([]domain.Node, 0, len(file.Nodes))
	for i, raw := range file.Nodes {
		node, err := p.decodeNode(raw)
		if err != nil {
			return nil, "", fmt.Errorf("node #%d: %w", i, err)
		}
		nodes = append(nodes, node)
	}
	return nodes, file.Root, nil
}

func (p *Parser) decodeNode(raw map[string]any) (domain.Node, error) {
	var meta dto.NodeMetadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &meta,
		ErrorUnused: true,
	})
	if err != nil {
		return domain.Node{}, err
	}
	if err := decoder.Decode(raw); err != nil {
		return domain.Node{}, fmt.Errorf("failed to decode node: %w", err)
	}

	if meta.ID == "" {
		return domain.Node{}, fmt.Errorf("node missing ID")
	}

	role, err := domain.ParseRole(meta.Role)
	if err != nil {
		return domain.Node{}, fmt.Errorf("node %s: %w", meta.ID, err)
	}

	node := domain.Node{
		ID:      meta.ID,
		Role:    role,
		Title:   meta.Title,
		Body:    meta.Body,
		Bullets: meta.Bullets,
		Note:    meta.Note,
	}
	for _, e := range meta.Next {
		node.Edges = append(node.Edges, domain.Edge{
			Label:    e.Label,
			To:       e.To,
			Emphasis: e.Emphasis,
		})
	}
	return node, nil
}
