package edit

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/resume-builder/internal/types"
)

// WireOp is the JSON form of an Operation:
//
//	{"op": "set_field", "section_id": "...", "entry_id": "...", "field": "role", "value": "Engineer"}
//
// Values are a string for text fields, a list of strings for list fields and
// {"start": "...", "end": "..."} for date ranges.
type WireOp struct {
	Op        OpName          `json:"op" validate:"required"`
	SectionID string          `json:"section_id,omitempty"`
	EntryID   string          `json:"entry_id,omitempty"`
	Kind      string          `json:"kind,omitempty"`
	Title     string          `json:"title,omitempty"`
	Field     string          `json:"field,omitempty"`
	Value     json.RawMessage `json:"value,omitempty"`
	To        *int            `json:"to,omitempty"`
	Label     string          `json:"label,omitempty"`
	Ops       []WireOp        `json:"ops,omitempty" validate:"dive"`
}

var (
	wireValidator     *validator.Validate
	wireValidatorOnce sync.Once
)

func wireValidate() *validator.Validate {
	wireValidatorOnce.Do(func() {
		wireValidator = validator.New()
	})
	return wireValidator
}

// DecodeOperation parses a JSON wire operation
func DecodeOperation(data []byte) (Operation, error) {
	var w WireOp
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, newError(KindInvalidOperation, "", "failed to parse operation: %v", err)
	}
	return w.Operation()
}

// Operation converts the wire form into an Operation
func (w WireOp) Operation() (Operation, error) {
	if err := wireValidate().Struct(w); err != nil {
		return nil, newError(KindInvalidOperation, w.Op, "invalid operation: %v", err)
	}

	require := func(name, value string) error {
		if value == "" {
			return newError(KindInvalidOperation, w.Op, "%s is required", name)
		}
		return nil
	}
	target := func() (int, error) {
		if w.To == nil {
			return 0, newError(KindInvalidOperation, w.Op, "to is required")
		}
		return *w.To, nil
	}

	switch w.Op {
	case OpAddSection:
		if err := require("kind", w.Kind); err != nil {
			return nil, err
		}
		return AddSection{SectionID: w.SectionID, Kind: types.SectionKind(w.Kind), Title: w.Title, EntryID: w.EntryID}, nil

	case OpRemoveSection:
		if err := require("section_id", w.SectionID); err != nil {
			return nil, err
		}
		return RemoveSection{SectionID: w.SectionID}, nil

	case OpMoveSection:
		if err := require("section_id", w.SectionID); err != nil {
			return nil, err
		}
		to, err := target()
		if err != nil {
			return nil, err
		}
		return MoveSection{SectionID: w.SectionID, To: to}, nil

	case OpSetSectionTitle:
		if err := require("section_id", w.SectionID); err != nil {
			return nil, err
		}
		return SetSectionTitle{SectionID: w.SectionID, Title: w.Title}, nil

	case OpAddEntry:
		if err := require("section_id", w.SectionID); err != nil {
			return nil, err
		}
		return AddEntry{SectionID: w.SectionID, EntryID: w.EntryID}, nil

	case OpRemoveEntry, OpMoveEntry, OpSetField, OpClearField:
		if err := require("section_id", w.SectionID); err != nil {
			return nil, err
		}
		if err := require("entry_id", w.EntryID); err != nil {
			return nil, err
		}
		return w.entryOperation(target)

	case OpReset:
		return Reset{}, nil

	case OpBatch:
		batch := Batch{Label: w.Label, Ops: make([]Operation, 0, len(w.Ops))}
		for i, child := range w.Ops {
			op, err := child.Operation()
			if err != nil {
				return nil, fmt.Errorf("batch operation %d: %w", i, err)
			}
			batch.Ops = append(batch.Ops, op)
		}
		return batch, nil

	default:
		return nil, newError(KindInvalidOperation, w.Op, "unknown operation %q", w.Op)
	}
}

func (w WireOp) entryOperation(target func() (int, error)) (Operation, error) {
	switch w.Op {
	case OpRemoveEntry:
		return RemoveEntry{SectionID: w.SectionID, EntryID: w.EntryID}, nil
	case OpMoveEntry:
		to, err := target()
		if err != nil {
			return nil, err
		}
		return MoveEntry{SectionID: w.SectionID, EntryID: w.EntryID, To: to}, nil
	case OpClearField:
		if w.Field == "" {
			return nil, newError(KindInvalidOperation, w.Op, "field is required")
		}
		return ClearField{SectionID: w.SectionID, EntryID: w.EntryID, Field: w.Field}, nil
	default:
		if w.Field == "" {
			return nil, newError(KindInvalidOperation, w.Op, "field is required")
		}
		value, err := decodeFieldValue(w.Op, w.Field, w.Value)
		if err != nil {
			return nil, err
		}
		return SetField{SectionID: w.SectionID, EntryID: w.EntryID, Field: w.Field, Value: value}, nil
	}
}

// decodeFieldValue decodes a raw JSON value by the declared type of the field name
func decodeFieldValue(op OpName, field string, raw json.RawMessage) (types.Value, error) {
	t, ok := types.LookupFieldType(field)
	if !ok {
		return nil, newError(KindUnknownField, op, "field %q is not defined for any section kind", field)
	}
	if len(raw) == 0 {
		return nil, newError(KindTypeMismatch, op, "field %q needs a %s value, got none", field, t)
	}
	var untyped any
	if err := json.Unmarshal(raw, &untyped); err != nil {
		return nil, newError(KindTypeMismatch, op, "field %q: %v", field, err)
	}
	value, err := types.DecodeValue(t, untyped)
	if err != nil {
		return nil, newError(KindTypeMismatch, op, "field %q: %v", field, err)
	}
	return value, nil
}

// EncodeOperation converts an Operation into its wire form
func EncodeOperation(op Operation) (WireOp, error) {
	to := func(i int) *int { return &i }

	switch o := op.(type) {
	case AddSection:
		return WireOp{Op: OpAddSection, SectionID: o.SectionID, EntryID: o.EntryID, Kind: string(o.Kind), Title: o.Title}, nil
	case RemoveSection:
		return WireOp{Op: OpRemoveSection, SectionID: o.SectionID}, nil
	case MoveSection:
		return WireOp{Op: OpMoveSection, SectionID: o.SectionID, To: to(o.To)}, nil
	case SetSectionTitle:
		return WireOp{Op: OpSetSectionTitle, SectionID: o.SectionID, Title: o.Title}, nil
	case AddEntry:
		return WireOp{Op: OpAddEntry, SectionID: o.SectionID, EntryID: o.EntryID}, nil
	case RemoveEntry:
		return WireOp{Op: OpRemoveEntry, SectionID: o.SectionID, EntryID: o.EntryID}, nil
	case MoveEntry:
		return WireOp{Op: OpMoveEntry, SectionID: o.SectionID, EntryID: o.EntryID, To: to(o.To)}, nil
	case SetField:
		raw, err := json.Marshal(types.EncodeValue(o.Value))
		if err != nil {
			return WireOp{}, fmt.Errorf("failed to encode value of %s: %w", o.Field, err)
		}
		return WireOp{Op: OpSetField, SectionID: o.SectionID, EntryID: o.EntryID, Field: o.Field, Value: raw}, nil
	case ClearField:
		return WireOp{Op: OpClearField, SectionID: o.SectionID, EntryID: o.EntryID, Field: o.Field}, nil
	case Reset:
		return WireOp{Op: OpReset}, nil
	case Batch:
		w := WireOp{Op: OpBatch, Label: o.Label, Ops: make([]WireOp, 0, len(o.Ops))}
		for _, child := range o.Ops {
			cw, err := EncodeOperation(child)
			if err != nil {
				return WireOp{}, err
			}
			w.Ops = append(w.Ops, cw)
		}
		return w, nil
	default:
		return WireOp{}, newError(KindInvalidOperation, "", "cannot encode operation %T", op)
	}
}
