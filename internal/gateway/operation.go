package gateway

import (
	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/parser"

	"time-tracker-gateway/internal/errors"
)

// Operation identifies the first operation in a document.
type Operation struct {
	Kind string // query, mutation or subscription
	Name string
}

// ParseOperation checks that document is syntactically valid GraphQL with at
// least one operation and returns that operation.
func ParseOperation(document string) (Operation, error) {
	doc, err := parser.Parse(parser.ParseParams{Source: document})
	if err != nil {
		return Operation{}, errors.NewValidationError("malformed GraphQL document", err)
	}

	for _, def := range doc.Definitions {
		op, ok := def.(*ast.OperationDefinition)
		if !ok {
			continue
		}
		result := Operation{Kind: op.Operation}
		if op.Name != nil {
			result.Name = op.Name.Value
		}
		return result, nil
	}

	return Operation{}, errors.NewValidationError("GraphQL document contains no operation", nil)
}
