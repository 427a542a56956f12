package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObject_PreservesInsertionOrder(t *testing.T) {
	obj := NewObject()
	obj.Set("zeta", 1)
	obj.Set("alpha", 2)
	obj.Set("mid", 3)
	obj.Set("zeta", 4) // overwrite keeps position

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, obj.Keys())
	assert.Equal(t, 3, obj.Len())

	v, ok := obj.Get("zeta")
	require.True(t, ok)
	assert.Equal(t, 4, v)
}

func TestObject_TypedAccessors(t *testing.T) {
	inner := NewObject()
	inner.Set("title", "Pets")

	obj := NewObject()
	obj.Set("info", inner)
	obj.Set("name", "x")
	obj.Set("tags", []any{"a", "b"})
	obj.Set("deprecated", true)

	got, ok := obj.GetObject("info")
	require.True(t, ok)
	assert.Equal(t, "Pets", got.StringOr("title", ""))

	s, ok := obj.GetString("name")
	assert.True(t, ok)
	assert.Equal(t, "x", s)

	_, ok = obj.GetString("info")
	assert.False(t, ok, "wrong type is not a string")

	arr, ok := obj.GetArray("tags")
	assert.True(t, ok)
	assert.Len(t, arr, 2)

	assert.True(t, obj.GetBool("deprecated"))
	assert.False(t, obj.GetBool("missing"))
	assert.Equal(t, "fallback", obj.StringOr("missing", "fallback"))
}

func TestObject_NilIsEmpty(t *testing.T) {
	var obj *Object

	_, ok := obj.Get("x")
	assert.False(t, ok)
	assert.Equal(t, 0, obj.Len())
	assert.Nil(t, obj.Keys())
	assert.False(t, obj.Has("x"))
}

func TestObject_MarshalJSON_KeepsOrder(t *testing.T) {
	inner := NewObject()
	inner.Set("b", 1)
	inner.Set("a", []any{"x", nil})

	obj := NewObject()
	obj.Set("z", "last-declared-first")
	obj.Set("nested", inner)

	data, err := json.Marshal(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"z":"last-declared-first","nested":{"b":1,"a":["x",null]}}`, string(data))
}

func TestAsObject(t *testing.T) {
	_, ok := AsObject("string")
	assert.False(t, ok)

	var nilObj *Object
	_, ok = AsObject(nilObj)
	assert.False(t, ok)

	obj, ok := AsObject(NewObject())
	assert.True(t, ok)
	assert.NotNil(t, obj)
}
