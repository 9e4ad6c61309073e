package cursor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keymatdec.dev/keymatdec/cursor"
)

func TestTakeAndReset(t *testing.T) {
	c := cursor.New([]byte("hello world"))
	mark := c.Mark()

	got, err := c.Take(5)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))

	c.Reset(mark)
	assert.Equal(t, 0, c.Pos())
	assert.Equal(t, 11, c.Len())
}

func TestTakeEndOfInputLeavesCursorUnchanged(t *testing.T) {
	c := cursor.New([]byte("ab"))
	_, err := c.Take(5)
	assert.Error(t, err)
	assert.Equal(t, 0, c.Pos())
}

func TestExpectLiteral(t *testing.T) {
	c := cursor.New([]byte("-----BEGIN CERTIFICATE-----"))
	require.NoError(t, c.ExpectLiteral([]byte("-----BEGIN ")))
	assert.Equal(t, len("-----BEGIN "), c.Pos())

	err := c.ExpectLiteral([]byte("WRONG"))
	assert.Error(t, err)
	assert.Equal(t, len("-----BEGIN "), c.Pos(), "failed match must not advance")
}

func TestTakeWhile(t *testing.T) {
	c := cursor.New([]byte("12345abc"))
	digits := c.TakeWhile(func(b byte) bool { return b >= '0' && b <= '9' })
	assert.Equal(t, "12345", string(digits))
	assert.Equal(t, "abc", string(c.Rest()))
}

func TestTakeWhile1FailsOnNoMatch(t *testing.T) {
	c := cursor.New([]byte("abc"))
	_, err := c.TakeWhile1(func(b byte) bool { return b >= '0' && b <= '9' })
	assert.Error(t, err)
	assert.Equal(t, 0, c.Pos())
}

func TestAcceptAnyOf(t *testing.T) {
	c := cursor.New([]byte("+-*/"))
	b, err := c.AcceptAnyOf([]byte("+-"))
	require.NoError(t, err)
	assert.Equal(t, byte('+'), b)

	_, err = c.AcceptAnyOf([]byte("+-"))
	require.NoError(t, err, "next byte '-' should match too")

	_, err = c.AcceptAnyOf([]byte("+-"))
	assert.Error(t, err, "'*' is not in the set")
}
