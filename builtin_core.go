// builtin_core.go — global built-in functions available without import.
package kentscript

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ----- argument helpers -----

// argAt returns the i-th argument, Null when the caller supplied fewer.
func argAt(args []Value, i int) Value {
	if i < len(args) {
		return args[i]
	}
	return Null
}

func wantStr(fname string, args []Value, i int) (string, error) {
	v := argAt(args, i)
	if v.Tag != VTStr {
		return "", newError(ErrType, "%s: argument %d must be Str, got %s", fname, i+1, v.TypeName())
	}
	return v.Data.(string), nil
}

func wantInt(fname string, args []Value, i int) (int64, error) {
	v := argAt(args, i)
	if v.Tag != VTInt {
		return 0, newError(ErrType, "%s: argument %d must be Int, got %s", fname, i+1, v.TypeName())
	}
	return v.Data.(int64), nil
}

func wantNum(fname string, args []Value, i int) (float64, error) {
	v := argAt(args, i)
	if f, ok := numOf(v); ok {
		return f, nil
	}
	return 0, newError(ErrType, "%s: argument %d must be a number, got %s", fname, i+1, argAt(args, i).TypeName())
}

func wantList(fname string, args []Value, i int) (*ListObject, error) {
	v := argAt(args, i)
	if v.Tag != VTList {
		return nil, newError(ErrType, "%s: argument %d must be List, got %s", fname, i+1, v.TypeName())
	}
	return v.Data.(*ListObject), nil
}

func wantMap(fname string, args []Value, i int) (*MapObject, error) {
	v := argAt(args, i)
	if v.Tag != VTMap {
		return nil, newError(ErrType, "%s: argument %d must be Map, got %s", fname, i+1, v.TypeName())
	}
	return v.Data.(*MapObject), nil
}

func wantCallable(fname string, args []Value, i int) (Value, error) {
	v := argAt(args, i)
	if !isCallable(v) {
		return Null, newError(ErrType, "%s: argument %d must be callable, got %s", fname, i+1, v.TypeName())
	}
	return v, nil
}

// valueLess orders numbers against numbers and strings against strings.
func valueLess(a, b Value) (bool, error) {
	v, err := compareOp(LESS, a, b)
	if err != nil {
		return false, err
	}
	return v.Data.(bool), nil
}

// ----- registration -----

func registerCoreBuiltins(ip *Interp) {
	reg := ip.RegisterNative

	reg("print", func(ip *Interp, args []Value) (Value, error) {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = FormatValue(a)
		}
		fmt.Fprintln(ip.stdout, strings.Join(parts, " "))
		return Null, nil
	})

	reg("len", func(_ *Interp, args []Value) (Value, error) {
		v := argAt(args, 0)
		switch v.Tag {
		case VTStr:
			return Int(int64(utf8.RuneCountInString(v.Data.(string)))), nil
		case VTList:
			return Int(int64(len(v.Data.(*ListObject).Elems))), nil
		case VTMap:
			return Int(int64(len(v.Data.(*MapObject).Keys))), nil
		}
		return Null, newError(ErrType, "len: object of type %s has no length", v.TypeName())
	})

	reg("type", func(_ *Interp, args []Value) (Value, error) {
		return Str(argAt(args, 0).TypeName()), nil
	})

	reg("str", func(_ *Interp, args []Value) (Value, error) {
		if len(args) == 0 {
			return Str(""), nil
		}
		return Str(FormatValue(args[0])), nil
	})

	reg("int", func(_ *Interp, args []Value) (Value, error) {
		v := argAt(args, 0)
		switch v.Tag {
		case VTInt:
			return v, nil
		case VTNum:
			return Int(int64(v.Data.(float64))), nil
		case VTBool:
			if v.Data.(bool) {
				return Int(1), nil
			}
			return Int(0), nil
		case VTStr:
			s := strings.TrimSpace(v.Data.(string))
			n, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return Null, newError(ErrValue, "int: invalid literal: %q", v.Data.(string))
			}
			return Int(n), nil
		}
		return Null, newError(ErrType, "int: cannot convert %s", v.TypeName())
	})

	reg("float", func(_ *Interp, args []Value) (Value, error) {
		v := argAt(args, 0)
		switch v.Tag {
		case VTNum:
			return v, nil
		case VTInt:
			return Num(float64(v.Data.(int64))), nil
		case VTBool:
			if v.Data.(bool) {
				return Num(1), nil
			}
			return Num(0), nil
		case VTStr:
			s := strings.TrimSpace(v.Data.(string))
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return Null, newError(ErrValue, "float: invalid literal: %q", v.Data.(string))
			}
			return Num(f), nil
		}
		return Null, newError(ErrType, "float: cannot convert %s", v.TypeName())
	})

	reg("bool", func(_ *Interp, args []Value) (Value, error) {
		return Bool(truthy(argAt(args, 0))), nil
	})

	reg("list", func(_ *Interp, args []Value) (Value, error) {
		if len(args) == 0 {
			return List(nil), nil
		}
		items, err := sequence(args[0])
		if err != nil {
			return Null, err
		}
		return List(append([]Value(nil), items...)), nil
	})

	reg("dict", func(_ *Interp, args []Value) (Value, error) {
		out := NewMapObject()
		if len(args) > 0 {
			src, err := wantMap("dict", args, 0)
			if err != nil {
				return Null, err
			}
			for _, k := range src.Keys {
				v, _ := src.Get(k)
				out.Set(k, v)
			}
		}
		return MapVal(out), nil
	})

	reg("range", func(_ *Interp, args []Value) (Value, error) {
		var start, stop, step int64 = 0, 0, 1
		var err error
		switch len(args) {
		case 1:
			stop, err = wantInt("range", args, 0)
		case 2:
			if start, err = wantInt("range", args, 0); err == nil {
				stop, err = wantInt("range", args, 1)
			}
		default:
			if start, err = wantInt("range", args, 0); err == nil {
				if stop, err = wantInt("range", args, 1); err == nil {
					step, err = wantInt("range", args, 2)
				}
			}
		}
		if err != nil {
			return Null, err
		}
		if step == 0 {
			return Null, newError(ErrValue, "range: step must not be zero")
		}
		var out []Value
		if step > 0 {
			for i := start; i < stop; i += step {
				out = append(out, Int(i))
			}
		} else {
			for i := start; i > stop; i += step {
				out = append(out, Int(i))
			}
		}
		return List(out), nil
	})

	reg("map", func(ip *Interp, args []Value) (Value, error) {
		f, err := wantCallable("map", args, 0)
		if err != nil {
			return Null, err
		}
		items, err := sequence(argAt(args, 1))
		if err != nil {
			return Null, err
		}
		out := make([]Value, len(items))
		for i, item := range items {
			out[i], err = ip.call(f, []Value{item}, nil)
			if err != nil {
				return Null, err
			}
		}
		return List(out), nil
	})

	reg("filter", func(ip *Interp, args []Value) (Value, error) {
		f, err := wantCallable("filter", args, 0)
		if err != nil {
			return Null, err
		}
		items, err := sequence(argAt(args, 1))
		if err != nil {
			return Null, err
		}
		var out []Value
		for _, item := range items {
			keep, err := ip.call(f, []Value{item}, nil)
			if err != nil {
				return Null, err
			}
			if truthy(keep) {
				out = append(out, item)
			}
		}
		return List(out), nil
	})

	reg("reduce", func(ip *Interp, args []Value) (Value, error) {
		f, err := wantCallable("reduce", args, 0)
		if err != nil {
			return Null, err
		}
		items, err := sequence(argAt(args, 1))
		if err != nil {
			return Null, err
		}
		var acc Value
		rest := items
		if len(args) > 2 {
			acc = args[2]
		} else {
			if len(items) == 0 {
				return Null, newError(ErrValue, "reduce: empty sequence with no initial value")
			}
			acc, rest = items[0], items[1:]
		}
		for _, item := range rest {
			acc, err = ip.call(f, []Value{acc, item}, nil)
			if err != nil {
				return Null, err
			}
		}
		return acc, nil
	})

	reg("sum", func(_ *Interp, args []Value) (Value, error) {
		items, err := sequence(argAt(args, 0))
		if err != nil {
			return Null, err
		}
		var ints int64
		var floats float64
		sawFloat := false
		for _, v := range items {
			switch v.Tag {
			case VTInt:
				ints += v.Data.(int64)
			case VTNum:
				sawFloat = true
				floats += v.Data.(float64)
			default:
				return Null, newError(ErrType, "sum: unsupported element type %s", v.TypeName())
			}
		}
		if sawFloat {
			return Num(floats + float64(ints)), nil
		}
		return Int(ints), nil
	})

	reg("min", func(_ *Interp, args []Value) (Value, error) { return extremum("min", args, true) })
	reg("max", func(_ *Interp, args []Value) (Value, error) { return extremum("max", args, false) })

	reg("abs", func(_ *Interp, args []Value) (Value, error) {
		v := argAt(args, 0)
		switch v.Tag {
		case VTInt:
			n := v.Data.(int64)
			if n < 0 {
				n = -n
			}
			return Int(n), nil
		case VTNum:
			return Num(math.Abs(v.Data.(float64))), nil
		}
		return Null, newError(ErrType, "abs: expected a number, got %s", v.TypeName())
	})

	reg("round", func(_ *Interp, args []Value) (Value, error) {
		v := argAt(args, 0)
		if v.Tag == VTInt && len(args) < 2 {
			return v, nil
		}
		f, ok := numOf(v)
		if !ok {
			return Null, newError(ErrType, "round: expected a number, got %s", v.TypeName())
		}
		if len(args) < 2 {
			return Int(int64(math.Round(f))), nil
		}
		nd, err := wantInt("round", args, 1)
		if err != nil {
			return Null, err
		}
		shift := math.Pow(10, float64(nd))
		return Num(math.Round(f*shift) / shift), nil
	})

	reg("sorted", func(_ *Interp, args []Value) (Value, error) {
		items, err := sequence(argAt(args, 0))
		if err != nil {
			return Null, err
		}
		out := append([]Value(nil), items...)
		var sortErr error
		sort.SliceStable(out, func(i, j int) bool {
			if sortErr != nil {
				return false
			}
			less, err := valueLess(out[i], out[j])
			if err != nil {
				sortErr = err
			}
			return less
		})
		if sortErr != nil {
			return Null, sortErr
		}
		return List(out), nil
	})

	reg("reversed", func(_ *Interp, args []Value) (Value, error) {
		items, err := sequence(argAt(args, 0))
		if err != nil {
			return Null, err
		}
		out := make([]Value, len(items))
		for i, v := range items {
			out[len(items)-1-i] = v
		}
		return List(out), nil
	})

	reg("enumerate", func(_ *Interp, args []Value) (Value, error) {
		items, err := sequence(argAt(args, 0))
		if err != nil {
			return Null, err
		}
		out := make([]Value, len(items))
		for i, v := range items {
			out[i] = List([]Value{Int(int64(i)), v})
		}
		return List(out), nil
	})

	reg("zip", func(_ *Interp, args []Value) (Value, error) {
		if len(args) == 0 {
			return List(nil), nil
		}
		seqs := make([][]Value, len(args))
		shortest := -1
		for i, a := range args {
			items, err := sequence(a)
			if err != nil {
				return Null, err
			}
			seqs[i] = items
			if shortest < 0 || len(items) < shortest {
				shortest = len(items)
			}
		}
		out := make([]Value, shortest)
		for i := 0; i < shortest; i++ {
			row := make([]Value, len(seqs))
			for j := range seqs {
				row[j] = seqs[j][i]
			}
			out[i] = List(row)
		}
		return List(out), nil
	})

	reg("callable", func(_ *Interp, args []Value) (Value, error) {
		return Bool(isCallable(argAt(args, 0))), nil
	})

	reg("random", func(_ *Interp, args []Value) (Value, error) {
		return Num(rand.Float64()), nil
	})

	reg("random_int", func(_ *Interp, args []Value) (Value, error) {
		lo, err := wantInt("random_int", args, 0)
		if err != nil {
			return Null, err
		}
		hi, err := wantInt("random_int", args, 1)
		if err != nil {
			return Null, err
		}
		if hi < lo {
			return Null, newError(ErrValue, "random_int: empty range %d..%d", lo, hi)
		}
		return Int(lo + rand.Int63n(hi-lo+1)), nil
	})

	reg("random_choice", func(_ *Interp, args []Value) (Value, error) {
		items, err := sequence(argAt(args, 0))
		if err != nil {
			return Null, err
		}
		if len(items) == 0 {
			return Null, newError(ErrValue, "random_choice: empty sequence")
		}
		return items[rand.Intn(len(items))], nil
	})
}

// extremum implements min and max over a list argument or plain varargs.
func extremum(fname string, args []Value, wantMin bool) (Value, error) {
	items := args
	if len(args) == 1 {
		var err error
		items, err = sequence(args[0])
		if err != nil {
			return Null, err
		}
	}
	if len(items) == 0 {
		return Null, newError(ErrValue, "%s: empty sequence", fname)
	}
	best := items[0]
	for _, v := range items[1:] {
		less, err := valueLess(v, best)
		if err != nil {
			return Null, err
		}
		if less == wantMin {
			best = v
		}
	}
	return best, nil
}
