// builtin_time.go — the time and datetime module tables.
package kentscript

import "time"

func timeModule(_ *Interp) *Module {
	return buildModule("time").
		fn("time", func(_ *Interp, args []Value) (Value, error) {
			return Num(float64(time.Now().UnixNano()) / float64(time.Second)), nil
		}).
		fn("millis", func(_ *Interp, args []Value) (Value, error) {
			return Int(time.Now().UnixMilli()), nil
		}).
		fn("sleep", func(_ *Interp, args []Value) (Value, error) {
			secs, err := wantNum("sleep", args, 0)
			if err != nil {
				return Null, err
			}
			if secs < 0 {
				return Null, newError(ErrValue, "sleep: negative duration")
			}
			time.Sleep(time.Duration(secs * float64(time.Second)))
			return Null, nil
		}).
		done()
}

func datetimeModule(_ *Interp) *Module {
	stamp := func(t time.Time) Value {
		m := NewMapObject()
		m.Set("year", Int(int64(t.Year())))
		m.Set("month", Int(int64(t.Month())))
		m.Set("day", Int(int64(t.Day())))
		m.Set("hour", Int(int64(t.Hour())))
		m.Set("minute", Int(int64(t.Minute())))
		m.Set("second", Int(int64(t.Second())))
		m.Set("iso", Str(t.Format(time.RFC3339)))
		return MapVal(m)
	}
	return buildModule("datetime").
		fn("now", func(_ *Interp, args []Value) (Value, error) {
			return stamp(time.Now()), nil
		}).
		fn("utcnow", func(_ *Interp, args []Value) (Value, error) {
			return stamp(time.Now().UTC()), nil
		}).
		fn("timestamp", func(_ *Interp, args []Value) (Value, error) {
			return Num(float64(time.Now().UnixNano()) / float64(time.Second)), nil
		}).
		done()
}
