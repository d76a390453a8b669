package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"hera-assistant/internal/model"

	"github.com/hashicorp/golang-lru/v2/expirable"
	js "github.com/santhosh-tekuri/jsonschema/v5"
)

// Parameter schemas per action type. Unlisted action types accept any
// parameter map.
var actionParamSchemas = map[model.ActionType]string{
	model.ActionRecordPayment: `{
		"type": "object",
		"properties": {
			"amount": {"type": "number", "exclusiveMinimum": 0},
			"customerName": {"type": "string"},
			"date": {"type": "string"}
		},
		"required": ["amount"]
	}`,
	model.ActionCreateInvoice: `{
		"type": "object",
		"properties": {
			"amount": {"type": "number", "exclusiveMinimum": 0},
			"customerName": {"type": "string"},
			"invoiceNumber": {"type": "string"}
		},
		"required": ["amount"]
	}`,
	model.ActionApproveTransaction: `{
		"type": "object",
		"properties": {
			"invoiceNumber": {"type": "string"}
		},
		"required": ["invoiceNumber"]
	}`,
	model.ActionAddCustomer: `{
		"type": "object",
		"properties": {
			"customerName": {"type": "string", "minLength": 1}
		},
		"required": ["customerName"]
	}`,
	model.ActionUpdateInventory: `{
		"type": "object",
		"properties": {
			"amount": {"type": "number"},
			"date": {"type": "string"}
		}
	}`,
	model.ActionGenerateReport: `{
		"type": "object",
		"properties": {
			"reportType": {"type": "string", "minLength": 1}
		},
		"required": ["reportType"]
	}`,
	model.ActionSendNotification: `{
		"type": "object",
		"properties": {
			"message": {"type": "string", "minLength": 1}
		},
		"required": ["message"]
	}`,
}

// Validator compiles the per-action parameter schemas on demand and caches
// the compiled form.
type Validator struct {
	mu       sync.Mutex
	compiler *js.Compiler
	cache    *expirable.LRU[model.ActionType, *js.Schema]
}

func NewValidator() *Validator {
	c := js.NewCompiler()
	c.ExtractAnnotations = true
	return &Validator{
		compiler: c,
		cache:    expirable.NewLRU[model.ActionType, *js.Schema](32, nil, time.Hour),
	}
}

// Validate checks an action's parameters against its schema and returns a
// verdict rather than an error: a missing or failing schema never aborts
// action generation.
func (v *Validator) Validate(actionType model.ActionType, params map[string]interface{}) model.Validation {
	compiled, err := v.schemaFor(actionType)
	if err != nil {
		return model.Validation{Valid: false, Reasons: []string{err.Error()}}
	}
	if compiled == nil {
		return model.Validation{Valid: true}
	}

	// Round-trip through JSON so numeric types match what the schema
	// library expects.
	raw, err := json.Marshal(params)
	if err != nil {
		return model.Validation{Valid: false, Reasons: []string{fmt.Sprintf("marshal parameters: %v", err)}}
	}
	var value interface{}
	if err := json.Unmarshal(raw, &value); err != nil {
		return model.Validation{Valid: false, Reasons: []string{fmt.Sprintf("decode parameters: %v", err)}}
	}

	if err := compiled.Validate(value); err != nil {
		return model.Validation{Valid: false, Reasons: validationReasons(err)}
	}
	return model.Validation{Valid: true}
}

func (v *Validator) schemaFor(actionType model.ActionType) (*js.Schema, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if compiled, ok := v.cache.Get(actionType); ok {
		return compiled, nil
	}

	source, ok := actionParamSchemas[actionType]
	if !ok {
		return nil, nil
	}

	resourceURL := fmt.Sprintf("mem://actions/%s.json", actionType)
	if err := v.compiler.AddResource(resourceURL, strings.NewReader(source)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	compiled, err := v.compiler.Compile(resourceURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	v.cache.Add(actionType, compiled)
	return compiled, nil
}

func validationReasons(err error) []string {
	var ve *js.ValidationError
	if errors.As(err, &ve) {
		var reasons []string
		for _, cause := range ve.Causes {
			reasons = append(reasons, cause.Error())
		}
		if len(reasons) == 0 {
			reasons = []string{ve.Error()}
		}
		return reasons
	}
	return []string{err.Error()}
}
