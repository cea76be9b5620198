package qparams

import (
	"strings"

	"github.com/indigo-web/formdata/http/status"
	"github.com/indigo-web/utils/uf"
)

type (
	CB      = func(k string, v string)
	Decoder = func(src, dst []byte) (decoded, buffer []byte, err error)
)

// Parse walks `key=value` pairs separated by ampersands, decoding both keys and values.
// Keys without the equality sign get the flag value. Strings passed to the callback are
// owned by it and stay valid after the data is reused.
func Parse(data []byte, cb CB, decoder Decoder, flagValue string) (err error) {
	var buff []byte

	for len(data) > 0 {
		var pair []byte

		if amp := indexByte(data, '&'); amp == -1 {
			pair, data = data, nil
		} else {
			pair, data = data[:amp], data[amp+1:]
		}

		if len(pair) == 0 {
			continue
		}

		if containsIllegalSymbol(pair) {
			// exclude all non-printable characters and whitespaces
			return status.ErrBadRequest
		}

		rawKey, rawValue, hasValue := cut(pair)

		var key, value []byte
		if key, buff, err = decoder(rawKey, buff[:0]); err != nil {
			return err
		}
		if len(key) == 0 {
			return status.ErrBadRequest
		}

		k := strings.Clone(uf.B2S(key))
		if !hasValue {
			cb(k, flagValue)
			continue
		}

		if value, buff, err = decoder(rawValue, buff[:0]); err != nil {
			return err
		}

		cb(k, strings.Clone(uf.B2S(value)))
	}

	return nil
}

func indexByte(data []byte, c byte) int {
	for i, b := range data {
		if b == c {
			return i
		}
	}

	return -1
}

func cut(pair []byte) (key, value []byte, found bool) {
	if eq := indexByte(pair, '='); eq != -1 {
		return pair[:eq], pair[eq+1:], true
	}

	return pair, nil, false
}

func containsIllegalSymbol(data []byte) bool {
	for _, c := range data {
		if c < 0x21 || c > 0x7e {
			return true
		}
	}

	return false
}
