package dto

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Abhijitam01/drawr/internal/domain"
)

// ErrNotShapeOp marks a chat message that is not a shape operation. Callers
// treat such messages as free text.
var ErrNotShapeOp = errors.New("dto: message is not a shape operation")

type OpKind string

const (
	OpCreate OpKind = "create"
	OpUpdate OpKind = "update"
	OpDelete OpKind = "delete"
	OpClear  OpKind = "clear"
)

// ShapeOp is the payload embedded as a string in the message field of a chat
// envelope:
//
//	{"shape":{...}}                 create
//	{"type":"update","shape":{...}} replace by id
//	{"type":"delete","id":"..."}    remove by id
//	{"type":"clear"}                empty the room
type ShapeOp struct {
	Kind  OpKind
	Shape domain.Shape
	ID    string
}

type shapeOpJSON struct {
	Type  string          `json:"type,omitempty"`
	Shape json.RawMessage `json:"shape,omitempty"`
	ID    string          `json:"id,omitempty"`
}

// TargetID is the id of the shape the op touches, empty for clear.
func (op ShapeOp) TargetID() string {
	if op.Kind == OpDelete {
		return op.ID
	}
	if op.Kind == OpClear {
		return ""
	}
	return op.Shape.ID
}

// ParseShapeOp decodes message. Every failure wraps ErrNotShapeOp.
func ParseShapeOp(message string) (ShapeOp, error) {
	var raw shapeOpJSON
	if err := json.Unmarshal([]byte(message), &raw); err != nil {
		return ShapeOp{}, fmt.Errorf("%w: %v", ErrNotShapeOp, err)
	}

	switch raw.Type {
	case "clear":
		return ShapeOp{Kind: OpClear}, nil
	case "delete":
		if raw.ID == "" {
			return ShapeOp{}, fmt.Errorf("%w: delete without id", ErrNotShapeOp)
		}
		return ShapeOp{Kind: OpDelete, ID: raw.ID}, nil
	case "update", "":
		if len(raw.Shape) == 0 || string(raw.Shape) == "null" {
			return ShapeOp{}, fmt.Errorf("%w: no shape", ErrNotShapeOp)
		}
		var s domain.Shape
		if err := json.Unmarshal(raw.Shape, &s); err != nil {
			return ShapeOp{}, fmt.Errorf("%w: %v", ErrNotShapeOp, err)
		}
		if err := s.Validate(); err != nil {
			return ShapeOp{}, fmt.Errorf("%w: %v", ErrNotShapeOp, err)
		}
		kind := OpCreate
		if raw.Type == "update" {
			kind = OpUpdate
		}
		return ShapeOp{Kind: kind, Shape: s}, nil
	default:
		return ShapeOp{}, fmt.Errorf("%w: type %q", ErrNotShapeOp, raw.Type)
	}
}

// Encode renders op in the string form ParseShapeOp accepts.
func (op ShapeOp) Encode() (string, error) {
	var raw shapeOpJSON
	switch op.Kind {
	case OpCreate, OpUpdate:
		b, err := json.Marshal(op.Shape)
		if err != nil {
			return "", err
		}
		raw.Shape = b
		if op.Kind == OpUpdate {
			raw.Type = "update"
		}
	case OpDelete:
		raw.Type, raw.ID = "delete", op.ID
	case OpClear:
		raw.Type = "clear"
	default:
		return "", fmt.Errorf("encode shape op: unknown kind %q", op.Kind)
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
