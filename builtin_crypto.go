// builtin_crypto.go — the crypto module table: hex digests and base64.
package kentscript

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
)

func cryptoModule(_ *Interp) *Module {
	digest := func(name string, sum func([]byte) []byte) NativeFn {
		return func(_ *Interp, args []Value) (Value, error) {
			text := FormatValue(argAt(args, 0))
			return Str(hex.EncodeToString(sum([]byte(text)))), nil
		}
	}
	return buildModule("crypto").
		fn("md5", digest("md5", func(b []byte) []byte {
			s := md5.Sum(b)
			return s[:]
		})).
		fn("sha1", digest("sha1", func(b []byte) []byte {
			s := sha1.Sum(b)
			return s[:]
		})).
		fn("sha256", digest("sha256", func(b []byte) []byte {
			s := sha256.Sum256(b)
			return s[:]
		})).
		fn("base64_encode", func(_ *Interp, args []Value) (Value, error) {
			text := FormatValue(argAt(args, 0))
			return Str(base64.StdEncoding.EncodeToString([]byte(text))), nil
		}).
		fn("base64_decode", func(_ *Interp, args []Value) (Value, error) {
			text, err := wantStr("base64_decode", args, 0)
			if err != nil {
				return Null, err
			}
			raw, err2 := base64.StdEncoding.DecodeString(text)
			if err2 != nil {
				return Str("Error: Invalid base64"), nil
			}
			return Str(string(raw)), nil
		}).
		done()
}
