package strutil

import (
	"iter"
	"testing"

	"github.com/stretchr/testify/require"
)

type strpair struct {
	K, V string
}

func collect(i iter.Seq2[string, string]) (pairs []strpair) {
	for k, v := range i {
		pairs = append(pairs, strpair{k, v})
	}

	return pairs
}

func TestWalkKV(t *testing.T) {
	t.Run("single value", func(t *testing.T) {
		values := collect(WalkKV("abc"))
		require.Equal(t, []strpair{{"abc", ""}}, values)
	})

	t.Run("single pair", func(t *testing.T) {
		values := collect(WalkKV("abc=cba"))
		require.Equal(t, []strpair{{"abc", "cba"}}, values)
	})

	t.Run("multiple pairs", func(t *testing.T) {
		values := collect(WalkKV("abc=cba;hello=world;"))
		require.Equal(t, []strpair{{"abc", "cba"}, {"hello", "world"}}, values)
	})

	t.Run("form-data disposition", func(t *testing.T) {
		values := collect(WalkKV(`form-data; name="title"; filename="my file; final.csv"`))
		require.Equal(t, []strpair{
			{"form-data", ""},
			{"name", "title"},
			{"filename", "my file; final.csv"},
		}, values)
	})

	t.Run("escapes", func(t *testing.T) {
		values := collect(WalkKV(`name="a \"quoted\" name"`))
		require.Equal(t, []strpair{{"name", `a "quoted" name`}}, values)
	})

	t.Run("empty quoted value", func(t *testing.T) {
		values := collect(WalkKV(`name="file"; filename=""`))
		require.Equal(t, []strpair{{"name", "file"}, {"filename", ""}}, values)
	})

	t.Run("codings are left intact", func(t *testing.T) {
		values := collect(WalkKV("abc=cba; hello=\"world\"; k%20ey=value%21"))
		require.Equal(t, []strpair{{"abc", "cba"}, {"hello", "world"}, {"k%20ey", "value%21"}}, values)
	})

	t.Run("malformed", func(t *testing.T) {
		for _, tc := range []string{
			`=value`,
			`name="unterminated`,
			`name="quoted"garbage`,
		} {
			values := collect(WalkKV(tc))
			require.NotEmpty(t, values, tc)
			require.Equal(t, strpair{"", ""}, values[len(values)-1], tc)
		}
	})
}

func TestFold(t *testing.T) {
	require.True(t, CmpFold("HELLO", "hello"))
	require.True(t, CmpFold("Content-Disposition", "content-disposition"))
	require.True(t, CmpFold("\r\n\r\n", "\r\n\r\n"))
	require.False(t, CmpFold("hello", "hello!"))
	require.False(t, CmpFold("name", "nbme"))
}

func TestCutHeader(t *testing.T) {
	value, params := CutHeader(" text/plain ;  charset=utf8")
	require.Equal(t, "text/plain", value)
	require.Equal(t, "charset=utf8", params)

	value, params = CutHeader("form-data")
	require.Equal(t, "form-data", value)
	require.Empty(t, params)
}
