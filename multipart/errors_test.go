package multipart

import (
	"errors"
	"fmt"
	"testing"

	"github.com/indigo-web/formdata/http/status"
	"github.com/stretchr/testify/require"
)

func TestErrors(t *testing.T) {
	t.Run("classes", func(t *testing.T) {
		for _, err := range []error{ErrMaxHeaderLength, ErrCharset, ErrInvalidHeaderLine, ErrFailedToParseHeader} {
			var format FormatError
			require.ErrorAs(t, err, &format, err.Error())

			var policy PolicyError
			require.False(t, errors.As(err, &policy), err.Error())
		}

		for _, err := range []error{
			ErrUnexpectedFile, ErrTooManyFiles, ErrTooManyFields, ErrFileTooLarge,
			ErrFieldNameTooLong, ErrFieldValueTooLong, ErrInvalidPartHeader,
		} {
			var policy PolicyError
			require.ErrorAs(t, err, &policy, err.Error())
		}
	})

	t.Run("codes", func(t *testing.T) {
		require.Equal(t, status.RequestHeaderFieldsTooLarge, status.CodeOf(ErrMaxHeaderLength))
		require.Equal(t, status.BadRequest, status.CodeOf(ErrInvalidHeaderLine))
		require.Equal(t, status.RequestEntityTooLarge, status.CodeOf(ErrFileTooLarge))
		require.Equal(t, status.BadRequest, status.CodeOf(ErrUnexpectedFile))
		require.Equal(t, status.InternalServerError, status.CodeOf(ErrFinished))
	})

	t.Run("wrapped", func(t *testing.T) {
		err := fmt.Errorf("request 42: %w", ErrTooManyFields)
		require.ErrorIs(t, err, ErrTooManyFields)
		require.NotErrorIs(t, err, ErrTooManyFiles)
		require.Equal(t, status.RequestEntityTooLarge, status.CodeOf(err))
	})
}
