// builtin_file.go — the file module table ("io" is an alias).
//
// The original contract is lenient: I/O failures come back as "Error: ..."
// strings (or pass/fail booleans for writers), never as raised failures.
// Malformed arguments still fail with TypeError.
package kentscript

import "os"

func fileModule(_ *Interp) *Module {
	return buildModule("file").
		fn("read", func(_ *Interp, args []Value) (Value, error) {
			path, err := wantStr("read", args, 0)
			if err != nil {
				return Null, err
			}
			data, err2 := os.ReadFile(path)
			if err2 != nil {
				return Str("Error: " + err2.Error()), nil
			}
			return Str(string(data)), nil
		}).
		fn("write", func(_ *Interp, args []Value) (Value, error) {
			path, err := wantStr("write", args, 0)
			if err != nil {
				return Null, err
			}
			content := FormatValue(argAt(args, 1))
			if err2 := os.WriteFile(path, []byte(content), 0o644); err2 != nil {
				return Str("Error: " + err2.Error()), nil
			}
			return Bool(true), nil
		}).
		fn("append", func(_ *Interp, args []Value) (Value, error) {
			path, err := wantStr("append", args, 0)
			if err != nil {
				return Null, err
			}
			content := FormatValue(argAt(args, 1))
			f, err2 := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
			if err2 != nil {
				return Str("Error: " + err2.Error()), nil
			}
			defer f.Close()
			if _, err2 := f.WriteString(content); err2 != nil {
				return Str("Error: " + err2.Error()), nil
			}
			return Bool(true), nil
		}).
		fn("exists", func(_ *Interp, args []Value) (Value, error) {
			path, err := wantStr("exists", args, 0)
			if err != nil {
				return Null, err
			}
			_, err2 := os.Stat(path)
			return Bool(err2 == nil), nil
		}).
		fn("delete", func(_ *Interp, args []Value) (Value, error) {
			path, err := wantStr("delete", args, 0)
			if err != nil {
				return Null, err
			}
			if err2 := os.Remove(path); err2 != nil {
				return Str("Error: " + err2.Error()), nil
			}
			return Bool(true), nil
		}).
		fn("read_json", func(_ *Interp, args []Value) (Value, error) {
			path, err := wantStr("read_json", args, 0)
			if err != nil {
				return Null, err
			}
			data, err2 := os.ReadFile(path)
			if err2 != nil {
				return Str("Error: " + err2.Error()), nil
			}
			v, err := jsonLoads(string(data))
			if err != nil {
				return Str("Error: " + err.(*RuntimeError).Msg), nil
			}
			return v, nil
		}).
		fn("write_json", func(_ *Interp, args []Value) (Value, error) {
			path, err := wantStr("write_json", args, 0)
			if err != nil {
				return Null, err
			}
			text, err := jsonDumps(argAt(args, 1), "  ")
			if err != nil {
				return Null, err
			}
			if err2 := os.WriteFile(path, []byte(text.Data.(string)), 0o644); err2 != nil {
				return Str("Error: " + err2.Error()), nil
			}
			return Bool(true), nil
		}).
		fn("read_csv", func(_ *Interp, args []Value) (Value, error) {
			path, err := wantStr("read_csv", args, 0)
			if err != nil {
				return Null, err
			}
			data, err2 := os.ReadFile(path)
			if err2 != nil {
				return Str("Error: " + err2.Error()), nil
			}
			return parseCSV(string(data))
		}).
		fn("write_csv", func(_ *Interp, args []Value) (Value, error) {
			path, err := wantStr("write_csv", args, 0)
			if err != nil {
				return Null, err
			}
			rows, err := wantList("write_csv", args, 1)
			if err != nil {
				return Null, err
			}
			text, err := formatCSV(rows)
			if err != nil {
				return Null, err
			}
			if err2 := os.WriteFile(path, []byte(text.Data.(string)), 0o644); err2 != nil {
				return Str("Error: " + err2.Error()), nil
			}
			return Bool(true), nil
		}).
		done()
}
