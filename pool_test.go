package kentscript

import (
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func Test_Pool_Runs_Every_Task_Once(t *testing.T) {
	p := NewTaskPool(3)
	defer p.Shutdown()

	var ran int64
	futs := make([]*Future, 0, 20)
	for i := 0; i < 20; i++ {
		n := int64(i)
		futs = append(futs, p.Submit(func() (Value, error) {
			atomic.AddInt64(&ran, 1)
			return Int(n * 2), nil
		}))
	}
	for i, f := range futs {
		v, err := f.Result(0)
		if err != nil {
			t.Fatalf("task %d: %v", i, err)
		}
		checkInt(t, v, int64(i*2))
	}
	if got := atomic.LoadInt64(&ran); got != 20 {
		t.Fatalf("ran %d tasks, want 20", got)
	}
}

func Test_Pool_Future_Error(t *testing.T) {
	p := NewTaskPool(1)
	defer p.Shutdown()

	f := p.Submit(func() (Value, error) {
		return Null, newError(ErrValue, "bad input")
	})
	_, err := f.Result(0)
	re, ok := err.(*RuntimeError)
	if !ok || re.Kind != ErrValue {
		t.Fatalf("want ValueError, got %v", err)
	}
}

func Test_Pool_Submit_Returns_While_Workers_Busy(t *testing.T) {
	p := NewTaskPool(1)
	defer p.Shutdown()

	release := make(chan struct{})
	first := p.Submit(func() (Value, error) {
		<-release
		return Int(1), nil
	})

	// The lone worker is parked on the release channel; queuing more work
	// must still return at once.
	start := time.Now()
	second := p.Submit(func() (Value, error) { return Int(2), nil })
	third := p.Submit(func() (Value, error) { return Int(3), nil })
	if second == nil || third == nil {
		t.Fatal("Submit returned nil on a live pool")
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Fatalf("Submit waited %v for a free worker", elapsed)
	}
	if second.Done() || third.Done() {
		t.Fatal("queued tasks settled before the worker came free")
	}

	close(release)
	for want, f := range map[int64]*Future{1: first, 2: second, 3: third} {
		v, err := f.Result(0)
		if err != nil {
			t.Fatal(err)
		}
		checkInt(t, v, want)
	}
}

func Test_Pool_Result_Timeout_Leaves_Task_Running(t *testing.T) {
	p := NewTaskPool(1)
	defer p.Shutdown()

	release := make(chan struct{})
	f := p.Submit(func() (Value, error) {
		<-release
		return Int(7), nil
	})

	_, err := f.Result(0.02)
	re, ok := err.(*RuntimeError)
	if !ok || re.Kind != ErrTimeout {
		t.Fatalf("want TimeoutError, got %v", err)
	}
	if f.Done() {
		t.Fatal("future settled despite the task still blocking")
	}

	close(release)
	v, err := f.Result(0)
	if err != nil {
		t.Fatal(err)
	}
	checkInt(t, v, 7)
	if !f.Done() {
		t.Fatal("future should report done after settling")
	}
}

func Test_Pool_Result_Is_Repeatable(t *testing.T) {
	p := NewTaskPool(1)
	defer p.Shutdown()

	f := p.Submit(func() (Value, error) { return Str("once"), nil })
	for i := 0; i < 3; i++ {
		v, err := f.Result(0)
		if err != nil {
			t.Fatal(err)
		}
		checkStr(t, v, "once")
	}
}

func Test_Pool_Shutdown_Rejects_New_Work(t *testing.T) {
	p := NewTaskPool(2)
	p.Shutdown()
	p.Shutdown() // idempotent
	if f := p.Submit(func() (Value, error) { return Null, nil }); f != nil {
		t.Fatal("Submit after Shutdown should return nil")
	}
}

func Test_Pool_Shutdown_Drains_In_Flight(t *testing.T) {
	p := NewTaskPool(2)
	var done int64
	for i := 0; i < 6; i++ {
		p.Submit(func() (Value, error) {
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt64(&done, 1)
			return Null, nil
		})
	}
	p.Shutdown()
	if got := atomic.LoadInt64(&done); got != 6 {
		t.Fatalf("Shutdown returned with %d of 6 tasks settled", got)
	}
}

// --- script surface ---------------------------------------------------------

func Test_Thread_And_Await(t *testing.T) {
	src := `
func square(n) { return n * n }
let a = thread square(6)
let b = thread square(7)
await a + await b`
	checkInt(t, evalSrc(t, src), 85)
}

func Test_Thread_Result_And_Done(t *testing.T) {
	src := `
func work() { return "ok" }
let f = thread work()
let v = f.result()
[v, f.done()]`
	v := evalSrc(t, src)
	elems := v.Data.(*ListObject).Elems
	checkStr(t, elems[0], "ok")
	checkBool(t, elems[1], true)
}

func Test_Thread_Result_Timeout_Is_Catchable(t *testing.T) {
	src := `
import "time"
func slow() { time.sleep(0.5); return 1 }
let f = thread slow()
let got = ""
try { f.result(0.01) }
except TimeoutError { got = "timed out" }
got`
	checkStr(t, evalSrc(t, src), "timed out")
}

func Test_Thread_Propagates_Task_Error_On_Await(t *testing.T) {
	src := `
func boom() { return 1 / 0 }
let f = thread boom()
await f`
	if k := evalErr(t, src).Kind; k != ErrZeroDivision {
		t.Fatalf("want ZeroDivisionError, got %s", k)
	}
}

func Test_Thread_Requires_Call(t *testing.T) {
	ip := New()
	defer ip.Shutdown()
	_, err := ip.EvalSource(`thread 42`)
	pe, ok := err.(*ParseError)
	if !ok || !strings.Contains(pe.Msg, "call expression") {
		t.Fatalf("want syntax error, got %v", err)
	}
}

func Test_Async_Function_Awaits(t *testing.T) {
	src := `
async func fetch() { return 99 }
await fetch()`
	checkInt(t, evalSrc(t, src), 99)
}
