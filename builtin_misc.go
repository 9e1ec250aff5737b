// builtin_misc.go — the math, os and csv module tables.
package kentscript

import (
	"encoding/csv"
	"math"
	"os"
	"runtime"
	"strings"
)

func mathModule(_ *Interp) *Module {
	unary := func(name string, f func(float64) float64) NativeFn {
		return func(_ *Interp, args []Value) (Value, error) {
			x, err := wantNum(name, args, 0)
			if err != nil {
				return Null, err
			}
			return Num(f(x)), nil
		}
	}
	return buildModule("math").
		val("pi", Num(math.Pi)).
		val("e", Num(math.E)).
		fn("sqrt", func(_ *Interp, args []Value) (Value, error) {
			x, err := wantNum("sqrt", args, 0)
			if err != nil {
				return Null, err
			}
			if x < 0 {
				return Null, newError(ErrValue, "sqrt: negative argument")
			}
			return Num(math.Sqrt(x)), nil
		}).
		fn("sin", unary("sin", math.Sin)).
		fn("cos", unary("cos", math.Cos)).
		fn("tan", unary("tan", math.Tan)).
		fn("log", func(_ *Interp, args []Value) (Value, error) {
			x, err := wantNum("log", args, 0)
			if err != nil {
				return Null, err
			}
			if x <= 0 {
				return Null, newError(ErrValue, "log: argument must be positive")
			}
			if len(args) > 1 {
				base, err := wantNum("log", args, 1)
				if err != nil {
					return Null, err
				}
				return Num(math.Log(x) / math.Log(base)), nil
			}
			return Num(math.Log(x)), nil
		}).
		fn("floor", func(_ *Interp, args []Value) (Value, error) {
			x, err := wantNum("floor", args, 0)
			if err != nil {
				return Null, err
			}
			return Int(int64(math.Floor(x))), nil
		}).
		fn("ceil", func(_ *Interp, args []Value) (Value, error) {
			x, err := wantNum("ceil", args, 0)
			if err != nil {
				return Null, err
			}
			return Int(int64(math.Ceil(x))), nil
		}).
		fn("pow", func(_ *Interp, args []Value) (Value, error) {
			x, err := wantNum("pow", args, 0)
			if err != nil {
				return Null, err
			}
			y, err := wantNum("pow", args, 1)
			if err != nil {
				return Null, err
			}
			return Num(math.Pow(x, y)), nil
		}).
		done()
}

func osModule(_ *Interp) *Module {
	return buildModule("os").
		val("name", Str(runtime.GOOS)).
		fn("getenv", func(_ *Interp, args []Value) (Value, error) {
			key, err := wantStr("getenv", args, 0)
			if err != nil {
				return Null, err
			}
			v, ok := os.LookupEnv(key)
			if !ok {
				return argAt(args, 1), nil
			}
			return Str(v), nil
		}).
		fn("setenv", func(_ *Interp, args []Value) (Value, error) {
			key, err := wantStr("setenv", args, 0)
			if err != nil {
				return Null, err
			}
			val, err := wantStr("setenv", args, 1)
			if err != nil {
				return Null, err
			}
			if err := os.Setenv(key, val); err != nil {
				return Null, newError(ErrRuntime, "setenv: %s", err.Error())
			}
			return Null, nil
		}).
		fn("getcwd", func(_ *Interp, args []Value) (Value, error) {
			dir, err := os.Getwd()
			if err != nil {
				return Null, newError(ErrRuntime, "getcwd: %s", err.Error())
			}
			return Str(dir), nil
		}).
		fn("listdir", func(_ *Interp, args []Value) (Value, error) {
			dir := "."
			if len(args) > 0 {
				var err error
				dir, err = wantStr("listdir", args, 0)
				if err != nil {
					return Null, err
				}
			}
			entries, err := os.ReadDir(dir)
			if err != nil {
				return Null, newError(ErrRuntime, "listdir: %s", err.Error())
			}
			out := make([]Value, len(entries))
			for i, e := range entries {
				out[i] = Str(e.Name())
			}
			return List(out), nil
		}).
		fn("remove", func(_ *Interp, args []Value) (Value, error) {
			path, err := wantStr("remove", args, 0)
			if err != nil {
				return Null, err
			}
			if err := os.Remove(path); err != nil {
				return Null, newError(ErrRuntime, "remove: %s", err.Error())
			}
			return Null, nil
		}).
		done()
}

func csvModule(_ *Interp) *Module {
	return buildModule("csv").
		fn("parse", func(_ *Interp, args []Value) (Value, error) {
			text, err := wantStr("parse", args, 0)
			if err != nil {
				return Null, err
			}
			return parseCSV(text)
		}).
		fn("format", func(_ *Interp, args []Value) (Value, error) {
			rows, err := wantList("format", args, 0)
			if err != nil {
				return Null, err
			}
			return formatCSV(rows)
		}).
		fn("read", func(_ *Interp, args []Value) (Value, error) {
			path, err := wantStr("read", args, 0)
			if err != nil {
				return Null, err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return Str("Error: " + err.Error()), nil
			}
			return parseCSV(string(data))
		}).
		fn("write", func(_ *Interp, args []Value) (Value, error) {
			path, err := wantStr("write", args, 0)
			if err != nil {
				return Null, err
			}
			rows, err := wantList("write", args, 1)
			if err != nil {
				return Null, err
			}
			text, err := formatCSV(rows)
			if err != nil {
				return Null, err
			}
			if err := os.WriteFile(path, []byte(text.Data.(string)), 0o644); err != nil {
				return Str("Error: " + err.Error()), nil
			}
			return Bool(true), nil
		}).
		done()
}

func parseCSV(text string) (Value, error) {
	rows, err := readCSVRecords(text)
	if err != nil {
		return Null, newError(ErrValue, "csv: %s", err.Error())
	}
	out := make([]Value, len(rows))
	for i, rec := range rows {
		cells := make([]Value, len(rec))
		for j, c := range rec {
			cells[j] = Str(c)
		}
		out[i] = List(cells)
	}
	return List(out), nil
}

func formatCSV(rows *ListObject) (Value, error) {
	records := make([][]string, 0, len(rows.Elems))
	for _, row := range rows.Elems {
		if row.Tag != VTList {
			return Null, newError(ErrType, "csv: rows must be lists, got %s", row.TypeName())
		}
		cells := row.Data.(*ListObject).Elems
		rec := make([]string, len(cells))
		for j, c := range cells {
			rec[j] = FormatValue(c)
		}
		records = append(records, rec)
	}
	return Str(writeCSVRecords(records)), nil
}

func readCSVRecords(text string) ([][]string, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

func writeCSVRecords(records [][]string) string {
	var b strings.Builder
	w := csv.NewWriter(&b)
	w.WriteAll(records)
	w.Flush()
	return b.String()
}
