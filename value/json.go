package value

import "encoding/json"

// MarshalJSON renders a Value as its natural JSON counterpart (spec §6.3
// "the JSON IR mirrors the value model directly"): null/bool/number/
// string map to their JSON equivalents, List to a JSON array, Object to a
// JSON object in field declaration order.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindBool:
		return json.Marshal(v.b)
	case KindNumber:
		if v.n.isInt {
			return json.Marshal(v.n.i)
		}
		return json.Marshal(v.n.f)
	case KindString:
		return json.Marshal(v.s)
	case KindList:
		return json.Marshal(v.list)
	case KindObject:
		return json.Marshal(v.obj)
	default:
		return []byte("null"), nil
	}
}

// MarshalJSON renders an Object as a JSON object, preserving field
// insertion order via an intermediate ordered-pair encoding that
// encoding/json's map path cannot express on its own.
func (o *Object) MarshalJSON() ([]byte, error) {
	if o == nil {
		return []byte("null"), nil
	}
	var buf []byte
	buf = append(buf, '{')
	for i, k := range o.keys {
		if i > 0 {
			buf = append(buf, ',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf = append(buf, kb...)
		buf = append(buf, ':')
		vb, err := json.Marshal(o.vals[k])
		if err != nil {
			return nil, err
		}
		buf = append(buf, vb...)
	}
	buf = append(buf, '}')
	return buf, nil
}
