// builtin_io_net.go — the http module table ("network" is an alias).
//
// Network failures never raise: they come back as "Error: ..." strings so
// scripts can branch on the result without try/except.
package kentscript

import (
	"bytes"
	"io"
	"net/http"
	"time"
)

const httpDefaultTimeout = 5 * time.Second

func httpModule(_ *Interp) *Module {
	return buildModule("http").
		fn("get", httpGet).
		fn("http_get", httpGet).
		fn("post", httpPost).
		fn("http_post", httpPost).
		done()
}

func httpTimeout(args []Value, i int) time.Duration {
	if v := argAt(args, i); v.Tag != VTNull {
		if secs, ok := numOf(v); ok && secs > 0 {
			return time.Duration(secs * float64(time.Second))
		}
	}
	return httpDefaultTimeout
}

func httpGet(_ *Interp, args []Value) (Value, error) {
	url, err := wantStr("get", args, 0)
	if err != nil {
		return Null, err
	}
	client := &http.Client{Timeout: httpTimeout(args, 1)}
	resp, err2 := client.Get(url)
	if err2 != nil {
		return Str("Error: " + err2.Error()), nil
	}
	defer resp.Body.Close()
	body, err2 := io.ReadAll(resp.Body)
	if err2 != nil {
		return Str("Error: " + err2.Error()), nil
	}
	return Str(string(body)), nil
}

func httpPost(_ *Interp, args []Value) (Value, error) {
	url, err := wantStr("post", args, 0)
	if err != nil {
		return Null, err
	}
	payload, err := jsonDumps(argAt(args, 1), "")
	if err != nil {
		return Null, err
	}
	client := &http.Client{Timeout: httpTimeout(args, 2)}
	resp, err2 := client.Post(url, "application/json",
		bytes.NewReader([]byte(payload.Data.(string))))
	if err2 != nil {
		return Str("Error: " + err2.Error()), nil
	}
	defer resp.Body.Close()
	body, err2 := io.ReadAll(resp.Body)
	if err2 != nil {
		return Str("Error: " + err2.Error()), nil
	}
	return Str(string(body)), nil
}
