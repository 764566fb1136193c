// Package jsoncodec implements the bidirectional JSON serializer for a
// Lang: a draft-07 subset schema validated with gojsonschema, a decoder
// that builds a langspec.Builder from a document, and a canonical
// encoder whose key order and whitespace are fixed so that serializing
// a parsed canonical document reproduces it byte-for-byte.
package jsoncodec

import (
	"github.com/mal-lang/mal-langspec/errors"
	"github.com/xeipuuv/gojsonschema"
)

// FormatVersion is the constant value of every document's top-level
// formatVersion field.
const FormatVersion = "1.0.0"

var stepExpressionSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"type": map[string]any{
			"enum": []any{"union", "intersection", "difference", "collect", "transitive", "subType", "field", "attackStep", "variable"},
		},
	},
	"required": []any{"type"},
}

var ttcExpressionSchema = map[string]any{
	"type": []any{"object", "null"},
	"properties": map[string]any{
		"type": map[string]any{
			"enum": []any{"addition", "subtraction", "multiplication", "division", "exponentiation", "function", "number"},
		},
	},
	"required": []any{"type"},
}

var stepsSchema = map[string]any{
	"type": []any{"object", "null"},
	"properties": map[string]any{
		"overrides":       map[string]any{"type": "boolean"},
		"stepExpressions": map[string]any{"type": "array", "items": stepExpressionSchema},
	},
	"required": []any{"overrides", "stepExpressions"},
}

var multiplicitySchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"min": map[string]any{"enum": []any{0, 1}},
		"max": map[string]any{"type": []any{"number", "null"}},
	},
	"required": []any{"min"},
}

var identifierPattern = "^[A-Za-z_][A-Za-z0-9_]*$"

var metaSchema = map[string]any{
	"type": "object",
	"additionalProperties": map[string]any{
		"type": "string",
	},
}

var attackStepSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"name": map[string]any{"type": "string", "pattern": identifierPattern},
		"meta": metaSchema,
		"type": map[string]any{
			"enum": []any{"or", "and", "defense", "exist", "notExist"},
		},
		"tags": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		"risk": map[string]any{"type": []any{"object", "array", "null"}},
		"ttc":  ttcExpressionSchema,
	},
	"required": []any{"name", "meta", "type"},
}

var variableSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"name":           map[string]any{"type": "string", "pattern": identifierPattern},
		"stepExpression": stepExpressionSchema,
	},
	"required": []any{"name", "stepExpression"},
}

var categorySchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"name": map[string]any{"type": "string", "pattern": identifierPattern},
		"meta": metaSchema,
	},
	"required": []any{"name", "meta"},
}

var assetSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"name":        map[string]any{"type": "string", "pattern": identifierPattern},
		"meta":        metaSchema,
		"category":    map[string]any{"type": "string", "pattern": identifierPattern},
		"isAbstract":  map[string]any{"type": "boolean"},
		"superAsset":  map[string]any{"type": []any{"string", "null"}},
		"variables":   map[string]any{"type": "array", "items": variableSchema},
		"attackSteps": map[string]any{"type": "array", "items": attackStepSchema},
	},
	"required": []any{"name", "meta", "category", "isAbstract", "variables", "attackSteps"},
}

var associationSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"name":              map[string]any{"type": "string", "pattern": identifierPattern},
		"meta":              metaSchema,
		"leftAsset":         map[string]any{"type": "string", "pattern": identifierPattern},
		"leftField":         map[string]any{"type": "string", "pattern": identifierPattern},
		"leftMultiplicity":  multiplicitySchema,
		"rightAsset":        map[string]any{"type": "string", "pattern": identifierPattern},
		"rightField":        map[string]any{"type": "string", "pattern": identifierPattern},
		"rightMultiplicity": multiplicitySchema,
	},
	"required": []any{"name", "meta", "leftAsset", "leftField", "leftMultiplicity", "rightAsset", "rightField", "rightMultiplicity"},
}

var documentSchema = map[string]any{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type":    "object",
	"properties": map[string]any{
		"formatVersion": map[string]any{"const": FormatVersion},
		"defines":       metaSchema,
		"categories":    map[string]any{"type": "array", "items": categorySchema},
		"assets":        map[string]any{"type": "array", "items": assetSchema},
		"associations":  map[string]any{"type": "array", "items": associationSchema},
	},
	"required": []any{"formatVersion", "defines", "categories", "assets", "associations"},
}

var schemaLoader = gojsonschema.NewGoLoader(documentSchema)

// validate checks data against the langspec document schema, reporting
// every violation joined into a single SchemaViolation LangError.
func validate(data []byte) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return errors.Wrap(errors.SchemaViolation, "", err)
	}
	if !result.Valid() {
		msg := ""
		for i, re := range result.Errors() {
			if i > 0 {
				msg += "; "
			}
			msg += re.String()
		}
		return errors.New(errors.SchemaViolation, "", msg)
	}
	return nil
}
