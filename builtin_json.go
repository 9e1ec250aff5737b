// builtin_json.go — the json module table and Value<->JSON conversion.
//
// Encoding and decoding go through a token-level bridge rather than
// interface{} round-trips so map key order survives: dumps emits keys in
// insertion order and loads records them in document order.
package kentscript

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

func jsonModule(_ *Interp) *Module {
	return buildModule("json").
		fn("dumps", func(_ *Interp, args []Value) (Value, error) {
			indent := ""
			if len(args) > 1 {
				n, err := wantInt("dumps", args, 1)
				if err != nil {
					return Null, err
				}
				if n > 0 {
					indent = strings.Repeat(" ", int(n))
				}
			}
			return jsonDumps(argAt(args, 0), indent)
		}).
		fn("loads", func(_ *Interp, args []Value) (Value, error) {
			text, err := wantStr("loads", args, 0)
			if err != nil {
				return Null, err
			}
			return jsonLoads(text)
		}).
		done()
}

// jsonDumps serializes a value. indent "" gives compact output.
func jsonDumps(v Value, indent string) (Value, error) {
	var b strings.Builder
	if err := encodeJSON(&b, v, indent, 0); err != nil {
		return Null, err
	}
	return Str(b.String()), nil
}

func encodeJSON(b *strings.Builder, v Value, indent string, depth int) error {
	pad := func(d int) {
		if indent != "" {
			b.WriteByte('\n')
			b.WriteString(strings.Repeat(indent, d))
		}
	}
	switch v.Tag {
	case VTNull:
		b.WriteString("null")
	case VTBool:
		if v.Data.(bool) {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case VTInt:
		b.WriteString(strconv.FormatInt(v.Data.(int64), 10))
	case VTNum:
		f := v.Data.(float64)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return newError(ErrValue, "json: cannot serialize %v", f)
		}
		b.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
	case VTStr:
		quoted, err := json.Marshal(v.Data.(string))
		if err != nil {
			return newError(ErrValue, "json: %s", err.Error())
		}
		b.Write(quoted)
	case VTList:
		elems := v.Data.(*ListObject).Elems
		if len(elems) == 0 {
			b.WriteString("[]")
			return nil
		}
		b.WriteByte('[')
		for i, el := range elems {
			if i > 0 {
				b.WriteByte(',')
				if indent == "" {
					b.WriteByte(' ')
				}
			}
			pad(depth + 1)
			if err := encodeJSON(b, el, indent, depth+1); err != nil {
				return err
			}
		}
		pad(depth)
		b.WriteByte(']')
	case VTMap:
		m := v.Data.(*MapObject)
		if len(m.Keys) == 0 {
			b.WriteString("{}")
			return nil
		}
		b.WriteByte('{')
		for i, k := range m.Keys {
			if i > 0 {
				b.WriteByte(',')
				if indent == "" {
					b.WriteByte(' ')
				}
			}
			pad(depth + 1)
			quoted, _ := json.Marshal(k)
			b.Write(quoted)
			b.WriteString(": ")
			val, _ := m.Get(k)
			if err := encodeJSON(b, val, indent, depth+1); err != nil {
				return err
			}
		}
		pad(depth)
		b.WriteByte('}')
	default:
		return newError(ErrType, "json: %s is not serializable", v.TypeName())
	}
	return nil
}

// jsonLoads parses a JSON document into a Value, keeping object key order.
func jsonLoads(text string) (Value, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	v, err := decodeJSON(dec)
	if err != nil {
		if re, ok := err.(*RuntimeError); ok {
			return Null, re
		}
		return Null, newError(ErrValue, "json: %s", err.Error())
	}
	if dec.More() {
		return Null, newError(ErrValue, "json: trailing data after document")
	}
	return v, nil
}

func decodeJSON(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Null, err
	}
	return decodeToken(dec, tok)
}

func decodeToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case nil:
		return Null, nil
	case bool:
		return Bool(t), nil
	case string:
		return Str(t), nil
	case json.Number:
		s := t.String()
		if !strings.ContainsAny(s, ".eE") {
			if n, err := strconv.ParseInt(s, 10, 64); err == nil {
				return Int(n), nil
			}
		}
		f, err := t.Float64()
		if err != nil {
			return Null, err
		}
		return Num(f), nil
	case json.Delim:
		switch t {
		case '[':
			var elems []Value
			for dec.More() {
				el, err := decodeJSON(dec)
				if err != nil {
					return Null, err
				}
				elems = append(elems, el)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return Null, err
			}
			return List(elems), nil
		case '{':
			m := NewMapObject()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Null, err
				}
				key := keyTok.(string)
				val, err := decodeJSON(dec)
				if err != nil {
					return Null, err
				}
				m.Set(key, val)
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return Null, err
			}
			return MapVal(m), nil
		}
	}
	return Null, newError(ErrValue, "unexpected JSON token")
}
