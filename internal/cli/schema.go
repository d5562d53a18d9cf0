package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/semmy-space/credstore/internal/command"
	"github.com/semmy-space/credstore/internal/errors"
	"github.com/semmy-space/credstore/internal/output"
)

// SchemaCmd outputs the machine-readable command tree and the host
// protocol surface as JSON
type SchemaCmd struct {
	Command string `arg:"" optional:"" help:"Command path to show schema for (e.g., 'password set')"`
}

// Schema is the document printed by the schema command
type Schema struct {
	CLI          *SchemaNode   `json:"cli"`
	HostCommands []string      `json:"host_commands,omitempty"`
	ErrorTypes   []errors.Code `json:"error_types,omitempty"`
}

// SchemaNode represents a node in the command tree
type SchemaNode struct {
	Name     string        `json:"name"`
	Type     string        `json:"type"`
	Help     string        `json:"help,omitempty"`
	Hidden   bool          `json:"hidden,omitempty"`
	Children []*SchemaNode `json:"commands,omitempty"`
	Flags    []*SchemaFlag `json:"flags,omitempty"`
	Args     []*SchemaArg  `json:"args,omitempty"`
}

// SchemaFlag represents a command flag
type SchemaFlag struct {
	Name    string   `json:"name"`
	Help    string   `json:"help,omitempty"`
	Type    string   `json:"type"`
	Default string   `json:"default,omitempty"`
	Enum    []string `json:"enum,omitempty"`
	Short   string   `json:"short,omitempty"`
	Env     []string `json:"env,omitempty"`
}

// SchemaArg represents a positional argument
type SchemaArg struct {
	Name     string `json:"name"`
	Help     string `json:"help,omitempty"`
	Required bool   `json:"required,omitempty"`
}

// Run executes the schema command
func (cmd *SchemaCmd) Run(ctx *kong.Context) error {
	node := ctx.Model.Node
	if cmd.Command != "" {
		var err error
		if node, err = findNodeByPath(node, cmd.Command); err != nil {
			return output.NewCLIError(output.ExitUsage, err.Error())
		}
	}

	doc := Schema{CLI: buildSchemaNode(node)}
	// The host protocol is only described at the root
	if cmd.Command == "" {
		doc.HostCommands = command.Commands()
		sort.Strings(doc.HostCommands)
		doc.ErrorTypes = errors.AllCodes()
	}

	enc := json.NewEncoder(ctx.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func buildSchemaNode(node *kong.Node) *SchemaNode {
	schema := &SchemaNode{
		Name:   node.Name,
		Type:   nodeTypeString(node.Type),
		Help:   node.Help,
		Hidden: node.Hidden,
	}

	for _, flag := range node.Flags {
		if flag.Name == "help" {
			continue
		}
		sf := &SchemaFlag{
			Name:    flag.Name,
			Help:    flag.Help,
			Type:    "string",
			Default: flag.Default,
			Env:     flag.Envs,
		}
		if flag.Value != nil && flag.Value.Target.IsValid() {
			sf.Type = flag.Value.Target.Kind().String()
		}
		if flag.Short != 0 {
			sf.Short = string(flag.Short)
		}
		if flag.Enum != "" {
			sf.Enum = strings.Split(flag.Enum, ",")
		}
		schema.Flags = append(schema.Flags, sf)
	}

	for _, arg := range node.Positional {
		schema.Args = append(schema.Args, &SchemaArg{
			Name:     arg.Name,
			Help:     arg.Help,
			Required: arg.Required,
		})
	}

	for _, child := range node.Children {
		schema.Children = append(schema.Children, buildSchemaNode(child))
	}
	return schema
}

// findNodeByPath walks the node tree to find a specific command path
func findNodeByPath(root *kong.Node, path string) (*kong.Node, error) {
	current := root
	for _, part := range strings.Fields(path) {
		var next *kong.Node
		for _, child := range current.Children {
			if child.Name == part {
				next = child
				break
			}
		}
		if next == nil {
			return nil, fmt.Errorf("command not found: %s", path)
		}
		current = next
	}
	return current, nil
}

func nodeTypeString(t kong.NodeType) string {
	switch t {
	case kong.ApplicationNode:
		return "application"
	case kong.CommandNode:
		return "command"
	case kong.ArgumentNode:
		return "argument"
	default:
		return "unknown"
	}
}
