package kentscript

import (
	"fmt"
	"path/filepath"
	"testing"
)

func Test_Import_Unknown_Module(t *testing.T) {
	re := evalErr(t, `import "telepathy"`)
	if re.Kind != ErrImport || re.Msg != "unknown module: telepathy" {
		t.Fatalf("want ImportError, got %v", re)
	}
}

func Test_Import_Alias(t *testing.T) {
	checkNum(t, evalSrc(t, `import "math" as m; m.sqrt(9)`), 3.0)
}

func Test_Import_Session_Cache(t *testing.T) {
	ip := New()
	defer ip.Shutdown()
	v1, err := ip.EvalSource(`import "json"; json`)
	if err != nil {
		t.Fatal(err)
	}
	v2, err := ip.EvalSource(`import "json"; json`)
	if err != nil {
		t.Fatal(err)
	}
	if v1.Data.(*Module) != v2.Data.(*Module) {
		t.Fatal("repeated imports should observe the same module handle")
	}
}

func Test_Module_Missing_Export(t *testing.T) {
	re := evalErr(t, `import "math"; math.frobnicate`)
	if re.Kind != ErrAttribute {
		t.Fatalf("want AttributeError, got %v", re)
	}
}

func Test_Math_Module(t *testing.T) {
	checkNum(t, evalSrc(t, `import "math"; math.sqrt(16)`), 4.0)
	checkInt(t, evalSrc(t, `import "math"; math.floor(2.7)`), 2)
	checkInt(t, evalSrc(t, `import "math"; math.ceil(2.1)`), 3)
	checkNum(t, evalSrc(t, `import "math"; math.pow(2, 10)`), 1024.0)
	v := evalSrc(t, `import "math"; math.pi`)
	if v.Tag != VTNum || v.Data.(float64) < 3.14 || v.Data.(float64) > 3.15 {
		t.Fatalf("pi: %#v", v)
	}
	if k := evalErr(t, `import "math"; math.sqrt(-1)`).Kind; k != ErrValue {
		t.Fatalf("want ValueError, got %s", k)
	}
	if k := evalErr(t, `import "math"; math.log(0)`).Kind; k != ErrValue {
		t.Fatalf("want ValueError, got %s", k)
	}
}

func Test_JSON_Module(t *testing.T) {
	// round-trip keeps object key order
	checkStr(t, evalSrc(t,
		`import "json"; json.dumps(json.loads('{"b": 1, "a": [true, null]}'))`),
		`{"b": 1, "a": [true, null]}`)
	checkStr(t, evalSrc(t, `import "json"; json.dumps([1], 2)`), "[\n  1\n]")
	checkInt(t, evalSrc(t, `import "json"; json.loads("[1, 2]")[1]`), 2)
	checkNum(t, evalSrc(t, `import "json"; json.loads("2.5")`), 2.5)
	if k := evalErr(t, `import "json"; json.loads("{oops")`).Kind; k != ErrValue {
		t.Fatalf("want ValueError, got %s", k)
	}
	if k := evalErr(t, `import "json"; json.dumps(print)`).Kind; k != ErrType {
		t.Fatalf("want TypeError, got %s", k)
	}
}

func Test_Regex_Module(t *testing.T) {
	// match anchors at the start, search does not
	checkBool(t, evalSrc(t, `import "regex"; regex.match("b+", "abb")`), false)
	checkBool(t, evalSrc(t, `import "regex"; regex.search("b+", "abb")`), true)
	checkBool(t, evalSrc(t, `import "regex"; regex.match("a+", "aab")`), true)

	v := evalSrc(t, `import "regex"; regex.findall("\\d+", "a12b7")`)
	elems := v.Data.(*ListObject).Elems
	if len(elems) != 2 {
		t.Fatalf("findall: %#v", v)
	}
	checkStr(t, elems[0], "12")
	checkStr(t, elems[1], "7")

	checkStr(t, evalSrc(t, `import "regex"; regex.replace("\\s+", "_", "a  b c")`), "a_b_c")
	checkStr(t, evalSrc(t, `import "regex"; regex.sub("\\s+", "_", "a b")`), "a_b")
	if k := evalErr(t, `import "regex"; regex.search("(", "x")`).Kind; k != ErrValue {
		t.Fatalf("want ValueError, got %s", k)
	}
}

func Test_Crypto_Module(t *testing.T) {
	checkStr(t, evalSrc(t, `import "crypto"; crypto.md5("abc")`),
		"900150983cd24fb0d6963f7d28e17f72")
	checkStr(t, evalSrc(t, `import "crypto"; crypto.sha256("abc")`),
		"ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad")
	checkStr(t, evalSrc(t, `import "crypto"; crypto.sha1("abc")`),
		"a9993e364706816aba3e25717850c26c9cd0d89d")
	checkStr(t, evalSrc(t, `import "crypto"; crypto.base64_encode("hi")`), "aGk=")
	checkStr(t, evalSrc(t, `import "crypto"; crypto.base64_decode("aGk=")`), "hi")
	checkStr(t, evalSrc(t, `import "crypto"; crypto.base64_decode("!!!")`),
		"Error: Invalid base64")
}

func Test_OS_Module(t *testing.T) {
	t.Setenv("KENT_TEST_VAR", "here")
	checkStr(t, evalSrc(t, `import "os"; os.getenv("KENT_TEST_VAR")`), "here")
	checkStr(t, evalSrc(t, `import "os"; os.getenv("KENT_NOT_SET", "fallback")`), "fallback")
	checkNull(t, evalSrc(t, `import "os"; os.getenv("KENT_NOT_SET")`))
	v := evalSrc(t, `import "os"; os.name`)
	if v.Tag != VTStr || v.Data.(string) == "" {
		t.Fatalf("os.name: %#v", v)
	}
}

func Test_CSV_Module(t *testing.T) {
	v := evalSrc(t, `import "csv"; csv.parse("a,b\n1,2")`)
	rows := v.Data.(*ListObject).Elems
	if len(rows) != 2 {
		t.Fatalf("rows: %#v", v)
	}
	checkStr(t, rows[0].Data.(*ListObject).Elems[1], "b")
	checkStr(t, rows[1].Data.(*ListObject).Elems[0], "1")

	checkStr(t, evalSrc(t, `import "csv"; csv.format([["a", "b"], [1, 2]])`), "a,b\n1,2\n")
}

func Test_Time_Module(t *testing.T) {
	v := evalSrc(t, `import "time"; time.time()`)
	if v.Tag != VTNum || v.Data.(float64) <= 0 {
		t.Fatalf("time.time(): %#v", v)
	}
	v = evalSrc(t, `import "time"; time.millis()`)
	if v.Tag != VTInt || v.Data.(int64) <= 0 {
		t.Fatalf("time.millis(): %#v", v)
	}
	if k := evalErr(t, `import "time"; time.sleep(-1)`).Kind; k != ErrValue {
		t.Fatalf("want ValueError, got %s", k)
	}
}

func Test_Datetime_Module(t *testing.T) {
	v := evalSrc(t, `import "datetime"; datetime.now()["year"]`)
	if v.Tag != VTInt || v.Data.(int64) < 2024 {
		t.Fatalf("now().year: %#v", v)
	}
	checkBool(t, evalSrc(t, `import "datetime"; len(datetime.utcnow()["iso"]) > 0`), true)
}

func Test_File_Module_Roundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.txt")
	src := fmt.Sprintf(`
import "file"
file.write(%[1]q, "hello")
file.append(%[1]q, " world")
let text = file.read(%[1]q)
let there = file.exists(%[1]q)
file.delete(%[1]q)
[text, there, file.exists(%[1]q)]`, path)
	v := evalSrc(t, src)
	elems := v.Data.(*ListObject).Elems
	checkStr(t, elems[0], "hello world")
	checkBool(t, elems[1], true)
	checkBool(t, elems[2], false)
}

func Test_File_Module_JSON_Roundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	src := fmt.Sprintf(`
import "io"
io.write_json(%[1]q, {"n": 1, "xs": [1, 2]})
io.read_json(%[1]q)["xs"][1]`, path)
	checkInt(t, evalSrc(t, src), 2)
}

func Test_File_Module_Lenient_Errors(t *testing.T) {
	v := evalSrc(t, `import "file"; file.read("/no/such/place")`)
	if v.Tag != VTStr || len(v.Data.(string)) < 7 || v.Data.(string)[:7] != "Error: " {
		t.Fatalf("want lenient error string, got %#v", v)
	}
}

func Test_Network_Alias_Has_HTTP_Surface(t *testing.T) {
	checkBool(t, evalSrc(t, `import "network"; callable(network.get)`), true)
	checkBool(t, evalSrc(t, `import "http"; callable(http.post)`), true)
}
