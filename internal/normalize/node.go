package normalize

import "encoding/json"

// Node is one raw entry from the remote catalog. The service returns several
// shapes depending on content kind, so only the discriminator is decoded up
// front; everything else stays raw until an alias table names it.
type Node struct {
	Kind   string
	fields map[string]json.RawMessage
}

// UnmarshalJSON keeps all fields raw and lifts out the "kind" discriminator
func (n *Node) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	n.fields = fields
	if raw, ok := fields["kind"]; ok {
		// Ignore decode failure: a non-string kind reads as unknown
		json.Unmarshal(raw, &n.Kind)
	}
	return nil
}

// str returns the named field decoded as a string, "" if absent
func (n *Node) str(field string) string {
	if field == "" {
		return ""
	}
	raw, ok := n.fields[field]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// intField returns the named field decoded as an int, with presence flag
func (n *Node) intField(field string) (int, bool) {
	if field == "" {
		return 0, false
	}
	raw, ok := n.fields[field]
	if !ok {
		return 0, false
	}
	var v int
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, false
	}
	return v, true
}

// obj decodes the named field into dest, reporting whether it was present
// and decodable. Used for the nested season/source/artwork objects.
func (n *Node) obj(field string, dest any) bool {
	if field == "" {
		return false
	}
	raw, ok := n.fields[field]
	if !ok {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}
