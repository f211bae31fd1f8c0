package domain

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/mouse-blink/f2fguard/internal/adapter"
	m "github.com/mouse-blink/f2fguard/internal/model"
)

// Collector recovers which validators a definition applies to which names.
type Collector interface {
	Collect(unit *adapter.Unit, node *sitter.Node) m.ActualValidatorSet
}

type collector struct {
	naming m.ValidatorNaming
}

// NewCollector creates a Collector recognizing calls shaped by naming.
func NewCollector(naming m.ValidatorNaming) Collector {
	return &collector{naming: naming}
}

// Collect scans the whole subtree of node, nested definitions and lambdas
// included. Only node itself decides the scope, so a nested function that
// shares a name with some other definition cannot redirect the scan.
func (c *collector) Collect(unit *adapter.Unit, node *sitter.Node) m.ActualValidatorSet {
	actual := make(m.ActualValidatorSet)

	stack := []*sitter.Node{node}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if n.Type() == nodeCall {
			c.record(unit, n, actual)
		}

		for i := int(n.NamedChildCount()) - 1; i >= 0; i-- {
			stack = append(stack, n.NamedChild(i))
		}
	}

	return actual
}

func (c *collector) record(unit *adapter.Unit, call *sitter.Node, actual m.ActualValidatorSet) {
	validator, ok := c.validatorName(unit, call.ChildByFieldName("function"))
	if !ok {
		return
	}

	args := call.ChildByFieldName("arguments")
	if args == nil || args.Type() != "argument_list" {
		return
	}

	for _, param := range c.targets(unit, args) {
		actual.Record(param, validator)
	}
}

// validatorName matches <Namespace>.<Prefix...> where the namespace is a bare name.
func (c *collector) validatorName(unit *adapter.Unit, fn *sitter.Node) (string, bool) {
	if fn == nil || fn.Type() != nodeAttribute {
		return "", false
	}

	object := fn.ChildByFieldName("object")
	attribute := fn.ChildByFieldName("attribute")

	if object == nil || attribute == nil || object.Type() != nodeIdentifier {
		return "", false
	}

	if unit.Text(object) != c.naming.Namespace {
		return "", false
	}

	name := unit.Text(attribute)
	if !strings.HasPrefix(name, c.naming.Prefix) {
		return "", false
	}

	return name, true
}

// targets returns the bare names passed as the first positional argument
// and as the target keyword. Any other argument shape validates a derived
// value, not the parameter, and is ignored.
func (c *collector) targets(unit *adapter.Unit, args *sitter.Node) []string {
	var names []string

	positionalSeen := false

	for i := 0; i < int(args.NamedChildCount()); i++ {
		arg := args.NamedChild(i)

		switch arg.Type() {
		case "comment", "dictionary_splat":
			continue
		case nodeKeywordArg:
			name := arg.ChildByFieldName("name")
			if name == nil || unit.Text(name) != c.naming.TargetKeyword {
				continue
			}

			if value := unwrapParens(arg.ChildByFieldName("value")); value != nil && value.Type() == nodeIdentifier {
				names = append(names, unit.Text(value))
			}
		default:
			if positionalSeen {
				continue
			}

			positionalSeen = true

			if value := unwrapParens(arg); value.Type() == nodeIdentifier {
				names = append(names, unit.Text(value))
			}
		}
	}

	return names
}

// unwrapParens drops redundant grouping, which the Python grammar does not
// distinguish from the bare expression.
func unwrapParens(node *sitter.Node) *sitter.Node {
	for node != nil && node.Type() == nodeParenthesize && node.NamedChildCount() == 1 {
		node = node.NamedChild(0)
	}

	return node
}
