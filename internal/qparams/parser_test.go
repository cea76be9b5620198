package qparams

import (
	"testing"

	"github.com/indigo-web/formdata/http/status"
	"github.com/indigo-web/formdata/internal/urlencoded"
	"github.com/stretchr/testify/require"
)

type pair struct {
	Key, Value string
}

func parse(query string) (pairs []pair, err error) {
	err = Parse([]byte(query), func(k, v string) {
		pairs = append(pairs, pair{k, v})
	}, urlencoded.ExtendedDecode, "1")

	return pairs, err
}

func TestParamsParser(t *testing.T) {
	t.Run("single pair", func(t *testing.T) {
		pairs, err := parse("hello=world")
		require.NoError(t, err)
		require.Equal(t, []pair{{"hello", "world"}}, pairs)
	})

	t.Run("two pairs", func(t *testing.T) {
		pairs, err := parse("hello=world&lorem=ipsum")
		require.NoError(t, err)
		require.Equal(t, []pair{{"hello", "world"}, {"lorem", "ipsum"}}, pairs)
	})

	t.Run("empty value before ampersand", func(t *testing.T) {
		pairs, err := parse("hello=&another=pair")
		require.NoError(t, err)
		require.Equal(t, []pair{{"hello", ""}, {"another", "pair"}}, pairs)
	})

	t.Run("flag", func(t *testing.T) {
		pairs, err := parse("hello=world&lorem&foo=bar")
		require.NoError(t, err)
		require.Equal(t, []pair{{"hello", "world"}, {"lorem", "1"}, {"foo", "bar"}}, pairs)
	})

	t.Run("ampersand without continuation at the end", func(t *testing.T) {
		pairs, err := parse("hello=world&")
		require.NoError(t, err)
		require.Equal(t, []pair{{"hello", "world"}}, pairs)
	})

	t.Run("decoding", func(t *testing.T) {
		pairs, err := parse("hel+lo=wo%20rld%21&a%2bb=c%2bd")
		require.NoError(t, err)
		require.Equal(t, []pair{{"hel lo", "wo rld!"}, {"a+b", "c+d"}}, pairs)
	})

	t.Run("empty key", func(t *testing.T) {
		_, err := parse("=world")
		require.ErrorIs(t, err, status.ErrBadRequest)
	})

	t.Run("illegal symbols", func(t *testing.T) {
		_, err := parse("hello=wor ld")
		require.ErrorIs(t, err, status.ErrBadRequest)
	})

	t.Run("bad encoding", func(t *testing.T) {
		_, err := parse("hello=%5")
		require.ErrorIs(t, err, status.ErrURLDecoding)
	})
}
