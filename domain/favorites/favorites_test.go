package favorites

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSet_AddIsIdempotent(t *testing.T) {
	s := New("a", "b")
	assert.False(t, s.Add("a"))
	assert.Equal(t, []string{"a", "b"}, s.IDs())
	assert.Equal(t, 2, s.Len())
}

func TestSet_RemoveAbsentIsNoop(t *testing.T) {
	s := New("a")
	assert.False(t, s.Remove("z"))
	assert.Equal(t, []string{"a"}, s.IDs())
}

func TestSet_ToggleTwiceRestores(t *testing.T) {
	s := New("a", "b", "c")
	before := s.IDs()

	assert.False(t, s.Toggle("b"))
	assert.False(t, s.Contains("b"))
	assert.True(t, s.Toggle("b"))
	assert.True(t, s.Contains("b"))

	assert.ElementsMatch(t, before, s.IDs())

	assert.True(t, s.Toggle("d"))
	assert.False(t, s.Toggle("d"))
	assert.ElementsMatch(t, before, s.IDs())
}

func TestSet_ZeroValueAndDuplicates(t *testing.T) {
	var s Set
	assert.False(t, s.Contains("a"))
	assert.Equal(t, []string{}, s.IDs())

	d := New("a", "a", "", "b")
	assert.Equal(t, []string{"a", "b"}, d.IDs())
}

func TestSet_IDsReturnsCopy(t *testing.T) {
	s := New("a", "b")
	ids := s.IDs()
	ids[0] = "mutated"
	assert.Equal(t, []string{"a", "b"}, s.IDs())
}
