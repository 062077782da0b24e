package bobbin_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danpasecinic/bobbin"
)

func TestInject_SetterTakesPrecedence(t *testing.T) {
	t.Parallel()

	c := bobbin.New()
	engine := &Engine{HP: 220}
	require.NoError(t, c.RegisterInstance("", engine))

	garage, err := bobbin.Resolve[*Garage](context.Background(), c)
	require.NoError(t, err)

	assert.Same(t, engine, garage.Engine())
	assert.Equal(t, 1, garage.SetterCalls())
}

func TestInject_DirectAssignment(t *testing.T) {
	t.Parallel()

	c := bobbin.New()
	require.NoError(t, c.Register(bobbin.MustDefine[*Engine](bobbin.WithConstructor(NewEngine))))

	dash, err := bobbin.Resolve[*Dashboard](context.Background(), c)
	require.NoError(t, err)

	require.NotNil(t, dash.Engine(), "unexported tagged field is assigned")
	assert.Equal(t, 150, dash.Engine().HP)
	require.NotNil(t, dash.Car, "exported tagged field is assigned")
	assert.Empty(t, dash.Notes)
}

func TestInject_ByName(t *testing.T) {
	t.Parallel()

	type Pit struct {
		Spare *Engine `inject:"spare"`
	}

	c := bobbin.New()
	spare := &Engine{HP: 80}
	require.NoError(t, c.RegisterInstance("spare", spare))

	pit, err := bobbin.Resolve[*Pit](context.Background(), c)
	require.NoError(t, err)
	assert.Same(t, spare, pit.Spare)

	type Broken struct {
		Spare *Engine `inject:"missing"`
	}
	_, err = bobbin.Resolve[*Broken](context.Background(), c)
	require.Error(t, err)
	assert.True(t, bobbin.IsBeanInstantiation(err))
	assert.True(t, bobbin.IsNoSuchBean(err))
}

func TestInject_NamedBeanOfWrongType(t *testing.T) {
	t.Parallel()

	type Stand struct {
		Engine *Engine `inject:"workshop"`
	}

	c := bobbin.New()
	require.NoError(t, c.RegisterInstance("workshop", &Workshop{}))

	_, err := bobbin.Resolve[*Stand](context.Background(), c)
	require.Error(t, err)
	assert.True(t, bobbin.IsBeanInstantiation(err))
	assert.Contains(t, err.Error(), "not assignable")
}

func TestInject_SetterOfUnresolvableType(t *testing.T) {
	t.Parallel()

	c := bobbin.New()
	def := bobbin.MustDefine[*Greeter](bobbin.WithInjectMethod("SetName"))

	_, err := c.CreateBean(context.Background(), "Greeter", def)
	require.Error(t, err)
	assert.True(t, bobbin.IsBeanInstantiation(err))
	assert.True(t, bobbin.IsNoSuchBean(err))

	var berr *bobbin.Error
	require.True(t, errors.As(err, &berr))
	assert.Equal(t, "Greeter", berr.Bean)
	assert.Equal(t, "SetName", berr.Target)
}

func TestInject_InvalidInjectionMethods(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		method string
	}{
		{name: "two arguments", method: "SetPair"},
		{name: "not a setter", method: "Name"},
		{name: "missing method", method: "SetAge"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := bobbin.New()
			def := bobbin.MustDefine[*Greeter](bobbin.WithInjectMethod(tt.method))

			_, err := c.CreateBean(context.Background(), "Greeter", def)
			require.Error(t, err)
			assert.True(t, bobbin.IsInvalidInjectionTarget(err), "got %v", err)
		})
	}
}

func TestInject_MissingBoundSetter(t *testing.T) {
	t.Parallel()

	c := bobbin.New()
	require.NoError(t, c.RegisterInstance("", &Engine{HP: 10}))

	def := bobbin.MustDefine[*Fragile](bobbin.WithSetter("engine", "InstallEngine"))
	_, err := c.CreateBean(context.Background(), "Fragile", def)
	require.Error(t, err)
	assert.True(t, bobbin.IsInvalidInjectionTarget(err))
}

func TestInject_WithSetterBinding(t *testing.T) {
	t.Parallel()

	c := bobbin.New()
	require.NoError(t, c.RegisterInstance("", &Mailer{From: "ops@example.com"}))

	def := bobbin.MustDefine[*Outbox](bobbin.WithSetter("mailer", "SetRelay"))
	bean, err := c.CreateBean(context.Background(), "Outbox", def)
	require.NoError(t, err)

	outbox := bean.(*Outbox)
	require.NotNil(t, outbox.relay)
	assert.Equal(t, "ops@example.com", outbox.relay.From)
	assert.Nil(t, outbox.mailer, "the bound setter replaces direct assignment")
}

func TestInject_Injectable(t *testing.T) {
	t.Parallel()

	c := bobbin.New()
	mailer := &Mailer{From: "noreply@example.com"}
	require.NoError(t, c.RegisterInstance("", mailer))

	notifier, err := bobbin.Resolve[*Notifier](context.Background(), c)
	require.NoError(t, err)
	assert.Same(t, mailer, notifier.Mailer())
}

func TestInject_StructValueBean(t *testing.T) {
	t.Parallel()

	c := bobbin.New()
	engine := &Engine{HP: 90}
	require.NoError(t, c.RegisterInstance("", engine))

	settings, err := bobbin.Resolve[Settings](context.Background(), c)
	require.NoError(t, err)
	assert.Same(t, engine, settings.Engine)

	cached, err := bobbin.Get[Settings](c)
	require.NoError(t, err)
	assert.Same(t, engine, cached.Engine)
}

func TestInject_FieldCycle(t *testing.T) {
	t.Parallel()

	c := bobbin.New()
	_, err := bobbin.Resolve[*Left](context.Background(), c)
	require.Error(t, err)
	assert.True(t, bobbin.IsCircularDependency(err))
	assert.Contains(t, err.Error(), "Left -> Right -> Left")
}

func TestInject_SetterPanics(t *testing.T) {
	t.Parallel()

	c := bobbin.New()
	require.NoError(t, c.RegisterInstance("", &Engine{}))

	_, err := bobbin.Resolve[*Fragile](context.Background(), c)
	require.Error(t, err)
	assert.True(t, bobbin.IsBeanInstantiation(err))
	assert.Contains(t, err.Error(), "gasket")
}

// Outbox binds its mailer field to a setter that does not follow the naming
// convention.
type Outbox struct {
	mailer *Mailer `inject:""`
	relay  *Mailer
}

func (o *Outbox) SetRelay(m *Mailer) {
	o.relay = m
}

type Fragile struct {
	engine *Engine `inject:""`
}

func (f *Fragile) SetEngine(*Engine) {
	panic("gasket")
}
