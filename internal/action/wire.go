package action

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

var ErrInvalidWire = errors.New("invalid action")

type wireAction struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Timestamp float64        `json:"timestamp"`
	Params    map[string]any `json:"params"`
}

// Marshal encodes a single action in its wire shape.
func Marshal(a Action) ([]byte, error) {
	if err := checkAction(a); err != nil {
		return nil, err
	}
	return json.Marshal(a)
}

// MarshalList encodes a batch of actions as a JSON array.
func MarshalList(actions []Action) ([]byte, error) {
	for i, a := range actions {
		if err := checkAction(a); err != nil {
			return nil, fmt.Errorf("action[%d]: %w", i, err)
		}
	}
	if actions == nil {
		actions = []Action{}
	}
	return json.Marshal(actions)
}

// Unmarshal decodes one action, rejecting objects that lack a string type,
// a string id, a numeric timestamp or an object params.
func Unmarshal(data []byte) (Action, error) {
	if !gjson.ValidBytes(data) {
		return Action{}, fmt.Errorf("%w: malformed JSON", ErrInvalidWire)
	}
	root := gjson.ParseBytes(data)
	if err := checkShape(root); err != nil {
		return Action{}, err
	}
	return decode(root)
}

// UnmarshalList decodes a JSON array of actions. The first malformed element
// fails the whole batch and is named by index.
func UnmarshalList(data []byte) ([]Action, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: malformed JSON", ErrInvalidWire)
	}
	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, fmt.Errorf("%w: expected an array of actions", ErrInvalidWire)
	}

	elems := root.Array()
	out := make([]Action, 0, len(elems))
	for i, el := range elems {
		if err := checkShape(el); err != nil {
			return nil, fmt.Errorf("action[%d]: %w", i, err)
		}
		a, err := decode(el)
		if err != nil {
			return nil, fmt.Errorf("action[%d]: %w", i, err)
		}
		out = append(out, a)
	}
	return out, nil
}

func checkShape(v gjson.Result) error {
	if !v.IsObject() {
		return fmt.Errorf("%w: expected an object", ErrInvalidWire)
	}
	if t := v.Get("type"); t.Type != gjson.String {
		return fmt.Errorf("%w: \"type\" must be a string", ErrInvalidWire)
	}
	if id := v.Get("id"); id.Type != gjson.String {
		return fmt.Errorf("%w: \"id\" must be a string", ErrInvalidWire)
	}
	if ts := v.Get("timestamp"); ts.Type != gjson.Number {
		return fmt.Errorf("%w: \"timestamp\" must be a number", ErrInvalidWire)
	}
	if p := v.Get("params"); !p.IsObject() {
		return fmt.Errorf("%w: \"params\" must be a non-null object", ErrInvalidWire)
	}
	return nil
}

func checkAction(a Action) error {
	if a.Type == "" {
		return fmt.Errorf("%w: \"type\" must be a non-empty string", ErrInvalidWire)
	}
	if a.Params == nil {
		return fmt.Errorf("%w: \"params\" must be a non-null object", ErrInvalidWire)
	}
	return nil
}

func decode(v gjson.Result) (Action, error) {
	var w wireAction
	if err := json.Unmarshal([]byte(v.Raw), &w); err != nil {
		return Action{}, fmt.Errorf("%w: %v", ErrInvalidWire, err)
	}
	return Action{
		ID:        w.ID,
		Type:      w.Type,
		Timestamp: int64(w.Timestamp),
		Params:    Params(w.Params),
	}, nil
}
