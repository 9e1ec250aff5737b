// builtin_strings.go — bound methods on Str and List values.
//
// 's.upper()' resolves through stringMethod to a native closure over the
// receiver. List methods mutate the shared *ListObject in place, so every
// holder of the list observes the change.
package kentscript

import "strings"

// stringMethod resolves a method name on a string receiver.
func stringMethod(s string, name string) (Value, bool) {
	switch name {
	case "upper":
		return strNative(name, func(args []Value) (Value, error) {
			return Str(strings.ToUpper(s)), nil
		}), true
	case "lower":
		return strNative(name, func(args []Value) (Value, error) {
			return Str(strings.ToLower(s)), nil
		}), true
	case "strip":
		return strNative(name, func(args []Value) (Value, error) {
			if len(args) > 0 {
				cut, err := wantStr("strip", args, 0)
				if err != nil {
					return Null, err
				}
				return Str(strings.Trim(s, cut)), nil
			}
			return Str(strings.TrimSpace(s)), nil
		}), true
	case "split":
		return strNative(name, func(args []Value) (Value, error) {
			var parts []string
			if len(args) > 0 {
				sep, err := wantStr("split", args, 0)
				if err != nil {
					return Null, err
				}
				parts = strings.Split(s, sep)
			} else {
				parts = strings.Fields(s)
			}
			out := make([]Value, len(parts))
			for i, p := range parts {
				out[i] = Str(p)
			}
			return List(out), nil
		}), true
	case "join":
		return strNative(name, func(args []Value) (Value, error) {
			items, err := sequence(argAt(args, 0))
			if err != nil {
				return Null, err
			}
			parts := make([]string, len(items))
			for i, v := range items {
				parts[i] = FormatValue(v)
			}
			return Str(strings.Join(parts, s)), nil
		}), true
	case "replace":
		return strNative(name, func(args []Value) (Value, error) {
			old, err := wantStr("replace", args, 0)
			if err != nil {
				return Null, err
			}
			repl, err := wantStr("replace", args, 1)
			if err != nil {
				return Null, err
			}
			return Str(strings.ReplaceAll(s, old, repl)), nil
		}), true
	case "find":
		return strNative(name, func(args []Value) (Value, error) {
			sub, err := wantStr("find", args, 0)
			if err != nil {
				return Null, err
			}
			return Int(int64(strings.Index(s, sub))), nil
		}), true
	case "contains":
		return strNative(name, func(args []Value) (Value, error) {
			sub, err := wantStr("contains", args, 0)
			if err != nil {
				return Null, err
			}
			return Bool(strings.Contains(s, sub)), nil
		}), true
	case "startswith":
		return strNative(name, func(args []Value) (Value, error) {
			pre, err := wantStr("startswith", args, 0)
			if err != nil {
				return Null, err
			}
			return Bool(strings.HasPrefix(s, pre)), nil
		}), true
	case "endswith":
		return strNative(name, func(args []Value) (Value, error) {
			suf, err := wantStr("endswith", args, 0)
			if err != nil {
				return Null, err
			}
			return Bool(strings.HasSuffix(s, suf)), nil
		}), true
	case "count":
		return strNative(name, func(args []Value) (Value, error) {
			sub, err := wantStr("count", args, 0)
			if err != nil {
				return Null, err
			}
			return Int(int64(strings.Count(s, sub))), nil
		}), true
	case "capitalize":
		return strNative(name, func(args []Value) (Value, error) {
			if s == "" {
				return Str(s), nil
			}
			return Str(strings.ToUpper(s[:1]) + strings.ToLower(s[1:])), nil
		}), true
	}
	return Null, false
}

func strNative(name string, impl func(args []Value) (Value, error)) Value {
	return NativeVal(name, func(_ *Interp, args []Value) (Value, error) {
		return impl(args)
	})
}

// listMethod resolves a method name on a list receiver.
func listMethod(lst *ListObject, name string) (Value, bool) {
	switch name {
	case "append", "push":
		return strNative(name, func(args []Value) (Value, error) {
			lst.Elems = append(lst.Elems, argAt(args, 0))
			return Null, nil
		}), true
	case "pop":
		return strNative(name, func(args []Value) (Value, error) {
			if len(lst.Elems) == 0 {
				return Null, newError(ErrIndex, "pop from empty list")
			}
			idx := len(lst.Elems) - 1
			if len(args) > 0 {
				var err error
				idx, err = listIndex(args[0], len(lst.Elems))
				if err != nil {
					return Null, err
				}
			}
			v := lst.Elems[idx]
			lst.Elems = append(lst.Elems[:idx], lst.Elems[idx+1:]...)
			return v, nil
		}), true
	case "insert":
		return strNative(name, func(args []Value) (Value, error) {
			pos, err := wantInt("insert", args, 0)
			if err != nil {
				return Null, err
			}
			idx := int(pos)
			if idx < 0 {
				idx += len(lst.Elems)
			}
			if idx < 0 {
				idx = 0
			}
			if idx > len(lst.Elems) {
				idx = len(lst.Elems)
			}
			v := argAt(args, 1)
			lst.Elems = append(lst.Elems, Null)
			copy(lst.Elems[idx+1:], lst.Elems[idx:])
			lst.Elems[idx] = v
			return Null, nil
		}), true
	case "remove":
		return strNative(name, func(args []Value) (Value, error) {
			target := argAt(args, 0)
			for i, v := range lst.Elems {
				if valueEquals(v, target) {
					lst.Elems = append(lst.Elems[:i], lst.Elems[i+1:]...)
					return Null, nil
				}
			}
			return Null, newError(ErrValue, "remove: value not in list")
		}), true
	case "index":
		return strNative(name, func(args []Value) (Value, error) {
			target := argAt(args, 0)
			for i, v := range lst.Elems {
				if valueEquals(v, target) {
					return Int(int64(i)), nil
				}
			}
			return Null, newError(ErrValue, "index: value not in list")
		}), true
	case "count":
		return strNative(name, func(args []Value) (Value, error) {
			target := argAt(args, 0)
			n := int64(0)
			for _, v := range lst.Elems {
				if valueEquals(v, target) {
					n++
				}
			}
			return Int(n), nil
		}), true
	case "contains":
		return strNative(name, func(args []Value) (Value, error) {
			target := argAt(args, 0)
			for _, v := range lst.Elems {
				if valueEquals(v, target) {
					return Bool(true), nil
				}
			}
			return Bool(false), nil
		}), true
	case "extend":
		return strNative(name, func(args []Value) (Value, error) {
			items, err := sequence(argAt(args, 0))
			if err != nil {
				return Null, err
			}
			lst.Elems = append(lst.Elems, items...)
			return Null, nil
		}), true
	case "clear":
		return strNative(name, func(args []Value) (Value, error) {
			lst.Elems = lst.Elems[:0]
			return Null, nil
		}), true
	case "reverse":
		return strNative(name, func(args []Value) (Value, error) {
			for i, j := 0, len(lst.Elems)-1; i < j; i, j = i+1, j-1 {
				lst.Elems[i], lst.Elems[j] = lst.Elems[j], lst.Elems[i]
			}
			return Null, nil
		}), true
	case "sort":
		return strNative(name, func(args []Value) (Value, error) {
			var sortErr error
			elems := lst.Elems
			for i := 1; i < len(elems) && sortErr == nil; i++ {
				for j := i; j > 0; j-- {
					less, err := valueLess(elems[j], elems[j-1])
					if err != nil {
						sortErr = err
						break
					}
					if !less {
						break
					}
					elems[j], elems[j-1] = elems[j-1], elems[j]
				}
			}
			if sortErr != nil {
				return Null, sortErr
			}
			return Null, nil
		}), true
	case "copy":
		return strNative(name, func(args []Value) (Value, error) {
			return List(append([]Value(nil), lst.Elems...)), nil
		}), true
	}
	return Null, false
}
