package reflect

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tagged struct {
	First  *widget `inject:""`
	second *widget `inject:"spare, ignored"`
	Plain  string
}

func (t *tagged) SetFirst(w *widget) {}
func (t *tagged) SetBoth(a, b *widget) {}
func (t *tagged) SetCount(n ...int) {}
func (t *tagged) SetAndReport(w *widget) int { return 0 }

func TestTaggedFields(t *testing.T) {
	t.Parallel()

	fields := TaggedFields(TypeOf[*tagged](), "inject")
	require.Len(t, fields, 2)

	assert.Equal(t, "First", fields[0].Name)
	assert.Empty(t, fields[0].BeanName)
	assert.True(t, fields[0].Exported)

	assert.Equal(t, "second", fields[1].Name)
	assert.Equal(t, "spare", fields[1].BeanName)
	assert.False(t, fields[1].Exported)
	assert.Equal(t, TypeOf[*widget](), fields[1].Type)

	assert.Nil(t, TaggedFields(TypeOf[string](), "inject"))
}

func TestSetField_Unexported(t *testing.T) {
	t.Parallel()

	target := &tagged{}
	field := reflect.ValueOf(target).Elem().FieldByName("second")
	w := &widget{size: 4}

	SetField(field, reflect.ValueOf(w))
	assert.Same(t, w, target.second)
}

func TestSetterName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "SetEngine", SetterName("engine"))
	assert.Equal(t, "SetEngine", SetterName("Engine"))
	assert.Equal(t, "SetÉcole", SetterName("école"))
	assert.Empty(t, UpperFirst(""))
}

func TestIsSetter(t *testing.T) {
	t.Parallel()

	v := reflect.ValueOf(&tagged{})

	tests := []struct {
		method string
		want   bool
	}{
		{method: "SetFirst", want: true},
		{method: "SetBoth", want: false},
		{method: "SetCount", want: false},
		{method: "SetAndReport", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			t.Parallel()

			m := v.MethodByName(tt.method)
			require.True(t, m.IsValid())
			assert.Equal(t, tt.want, IsSetter(tt.method, m.Type()))
		})
	}

	assert.False(t, IsSetter("Set", reflect.TypeOf(func(int) {})))
	assert.False(t, IsSetter("Apply", reflect.TypeOf(func(int) {})))
}
