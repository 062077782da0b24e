package bobbin_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danpasecinic/bobbin"
)

func TestValidate_Valid(t *testing.T) {
	t.Parallel()

	c := bobbin.New()
	require.NoError(t, c.RegisterInstance("", &Workshop{}))
	require.NoError(t, c.RegisterAll(
		bobbin.MustDefine[*Car](bobbin.WithFactoryMethod(reflect.TypeFor[*Workshop](), "BuildCar")),
		bobbin.MustDefine[*Dashboard](),
	))

	require.NoError(t, c.Validate())
	assert.False(t, bobbin.Has[*Car](c), "validation creates nothing")
	assert.Equal(t, 3, c.Size())
}

func TestValidate_Problems(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		defs  []*bobbin.Definition
		check func(error) bool
	}{
		{
			name: "constructor cycle",
			defs: []*bobbin.Definition{
				bobbin.MustDefine[*Chicken](bobbin.WithConstructor(NewChicken)),
				bobbin.MustDefine[*Egg](bobbin.WithConstructor(NewEgg)),
			},
			check: bobbin.IsCircularDependency,
		},
		{
			name:  "field cycle through a synthesized bean",
			defs:  []*bobbin.Definition{bobbin.MustDefine[*Left]()},
			check: bobbin.IsCircularDependency,
		},
		{
			name: "ambiguous constructors",
			defs: []*bobbin.Definition{
				bobbin.MustDefine[*Engine](bobbin.WithConstructor(NewEngine), bobbin.WithConstructor(NewTurboEngine)),
			},
			check: bobbin.IsAmbiguousConstructor,
		},
		{
			name:  "abstract without factory",
			defs:  []*bobbin.Definition{bobbin.MustDefine[Repository]()},
			check: bobbin.IsUnresolvableType,
		},
		{
			name: "missing dependency",
			defs: []*bobbin.Definition{
				bobbin.MustDefine[*Car](bobbin.WithFactory(func(Repository) *Car { return nil })),
			},
			check: bobbin.IsNoSuchBean,
		},
		{
			name: "ambiguous interface dependency",
			defs: []*bobbin.Definition{
				bobbin.MustDefine[*SQLRepository](),
				bobbin.MustDefine[*MemoryRepository](),
				bobbin.MustDefine[*Car](bobbin.WithFactory(func(Repository) *Car { return nil })),
			},
			check: bobbin.IsNoUniqueBean,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := bobbin.New()
			require.NoError(t, c.RegisterAll(tt.defs...))

			err := c.Validate()
			require.Error(t, err)
			assert.True(t, bobbin.IsValidationFailed(err))
			assert.True(t, tt.check(err), "got %v", err)
		})
	}
}

func TestValidate_ReportsCyclePath(t *testing.T) {
	t.Parallel()

	c := bobbin.New()
	require.NoError(t, c.RegisterAll(
		bobbin.MustDefine[*Chicken](bobbin.WithConstructor(NewChicken)),
		bobbin.MustDefine[*Egg](bobbin.WithConstructor(NewEgg)),
	))

	err := c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Chicken -> Egg -> Chicken")
}
