package conversation

import "encoding/json"

// MessageResponse is the reply of the message API.
//
// A decoded reply keeps every member it was sent, declared or not, and
// encodes back to the same document. Only Output is encoded from its field;
// the other fields are read-only views of what the service sent.
type MessageResponse struct {
	Input            map[string]any `json:"input,omitempty"`
	Context          map[string]any `json:"context,omitempty"`
	Intents          []Intent       `json:"intents"`
	Entities         []Entity       `json:"entities"`
	Output           *Output        `json:"output,omitempty"` // nil when the service sent none
	AlternateIntents bool           `json:"alternate_intents,omitempty"`

	members map[string]json.RawMessage
}

// messageResponseFields has the fields of MessageResponse without its codec.
type messageResponseFields MessageResponse

// UnmarshalJSON decodes the declared fields and keeps the raw members.
func (r *MessageResponse) UnmarshalJSON(data []byte) error {
	var fields messageResponseFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return err
	}

	*r = MessageResponse(fields)
	r.members = members
	return nil
}

// MarshalJSON writes the received members back with the current Output.
func (r MessageResponse) MarshalJSON() ([]byte, error) {
	if r.members == nil {
		return json.Marshal(messageResponseFields(r))
	}

	doc := make(map[string]json.RawMessage, len(r.members)+1)
	for k, v := range r.members {
		doc[k] = v
	}
	if r.Output != nil {
		out, err := json.Marshal(r.Output)
		if err != nil {
			return nil, err
		}
		doc["output"] = out
	}

	return json.Marshal(doc)
}

// Intent is a classified user intent.
type Intent struct {
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence"`
}

// Entity is a value the service extracted from the user input.
type Entity struct {
	Entity     string         `json:"entity"`
	Value      string         `json:"value"`
	Location   []int          `json:"location,omitempty"`
	Confidence float64        `json:"confidence,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// Output holds the dialog reply. Like MessageResponse, a decoded Output keeps
// its undeclared members (generic, action and so on); Text is the only field
// written back from the struct.
type Output struct {
	Text         []string          `json:"text,omitempty"`
	NodesVisited []string          `json:"nodes_visited,omitempty"`
	LogMessages  []json.RawMessage `json:"log_messages,omitempty"`

	members map[string]json.RawMessage
}

type outputFields Output

// UnmarshalJSON decodes the declared fields and keeps the raw members.
func (o *Output) UnmarshalJSON(data []byte) error {
	var fields outputFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return err
	}

	*o = Output(fields)
	o.members = members
	return nil
}

// MarshalJSON writes the received members back with the current Text. An
// empty text list the service sent stays an empty list.
func (o Output) MarshalJSON() ([]byte, error) {
	if o.members == nil {
		return json.Marshal(outputFields(o))
	}

	doc := make(map[string]json.RawMessage, len(o.members)+1)
	for k, v := range o.members {
		doc[k] = v
	}
	if o.Text != nil {
		text, err := json.Marshal(o.Text)
		if err != nil {
			return nil, err
		}
		doc["text"] = text
	}

	return json.Marshal(doc)
}

// FirstEntity returns the leading entity, if any.
func (r *MessageResponse) FirstEntity() (Entity, bool) {
	if len(r.Entities) == 0 {
		return Entity{}, false
	}
	return r.Entities[0], true
}
