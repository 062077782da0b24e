// Package beantest wraps a container for use in tests: failures go through
// the test's Fatal methods and the container is closed on cleanup.
package beantest

import (
	"context"

	"github.com/danpasecinic/bobbin"
	"github.com/danpasecinic/bobbin/internal/reflect"
)

// TB is the subset of testing.TB the helpers need.
type TB interface {
	Helper()
	Fatal(args ...any)
	Fatalf(format string, args ...any)
	Cleanup(f func())
}

type TestContainer struct {
	*bobbin.Container
	tb TB
}

func New(tb TB, opts ...bobbin.Option) *TestContainer {
	tb.Helper()

	c := bobbin.New(opts...)
	tc := &TestContainer{
		Container: c,
		tb:        tb,
	}

	tb.Cleanup(func() {
		if err := c.Close(context.Background()); err != nil {
			tb.Fatalf("failed to close container: %v", err)
		}
	})

	return tc
}

func (tc *TestContainer) RequireStart(ctx context.Context) {
	tc.tb.Helper()

	if err := tc.Start(ctx); err != nil {
		tc.tb.Fatalf("failed to start container: %v", err)
	}
}

func (tc *TestContainer) RequireClose(ctx context.Context) {
	tc.tb.Helper()

	if err := tc.Close(ctx); err != nil {
		tc.tb.Fatalf("failed to close container: %v", err)
	}
}

func (tc *TestContainer) RequireValidate() {
	tc.tb.Helper()

	if err := tc.Validate(); err != nil {
		tc.tb.Fatalf("container validation failed: %v", err)
	}
}

func (tc *TestContainer) MustRegister(defs ...*bobbin.Definition) {
	tc.tb.Helper()

	if err := tc.RegisterAll(defs...); err != nil {
		tc.tb.Fatalf("failed to register definitions: %v", err)
	}
}

// Instance registers value as a prebuilt bean. Registering it before the
// real definition stands in a fake for the real dependency.
func Instance[T any](tc *TestContainer, value T) {
	tc.tb.Helper()

	if err := tc.RegisterInstance("", value); err != nil {
		tc.tb.Fatalf("failed to register instance %s: %v", reflect.TypeKey(reflect.TypeOf[T]()), err)
	}
}

func NamedInstance[T any](tc *TestContainer, name string, value T) {
	tc.tb.Helper()

	if err := tc.RegisterInstance(name, value); err != nil {
		tc.tb.Fatalf("failed to register instance %s: %v", name, err)
	}
}

// Bind is bobbin.Bind with failures reported to the test.
func Bind[I, T any](tc *TestContainer) {
	tc.tb.Helper()

	if err := bobbin.Bind[I, T](tc.Container); err != nil {
		tc.tb.Fatalf("failed to bind %s: %v", reflect.TypeKey(reflect.TypeOf[I]()), err)
	}
}

func AssertHas[T any](tc *TestContainer) {
	tc.tb.Helper()

	if !bobbin.Has[T](tc.Container) {
		tc.tb.Fatalf("expected container to have %s", reflect.TypeKey(reflect.TypeOf[T]()))
	}
}

func AssertNotHas[T any](tc *TestContainer) {
	tc.tb.Helper()

	if bobbin.Has[T](tc.Container) {
		tc.tb.Fatalf("expected container to not have %s", reflect.TypeKey(reflect.TypeOf[T]()))
	}
}

// MustResolve creates T on demand.
func MustResolve[T any](tc *TestContainer) T {
	tc.tb.Helper()

	v, err := bobbin.Resolve[T](context.Background(), tc.Container)
	if err != nil {
		tc.tb.Fatalf("failed to resolve %s: %v", reflect.TypeKey(reflect.TypeOf[T]()), err)
	}
	return v
}

// MustGet returns the already created T.
func MustGet[T any](tc *TestContainer) T {
	tc.tb.Helper()

	v, err := bobbin.Get[T](tc.Container)
	if err != nil {
		tc.tb.Fatalf("failed to get %s: %v", reflect.TypeKey(reflect.TypeOf[T]()), err)
	}
	return v
}

func MustGetNamed[T any](tc *TestContainer, name string) T {
	tc.tb.Helper()

	v, err := bobbin.GetNamed[T](tc.Container, name)
	if err != nil {
		tc.tb.Fatalf("failed to get %s: %v", name, err)
	}
	return v
}

func MustCreate(tc *TestContainer, def *bobbin.Definition) any {
	tc.tb.Helper()

	v, err := tc.CreateBean(context.Background(), def.Name(), def)
	if err != nil {
		tc.tb.Fatalf("failed to create %s: %v", def.Name(), err)
	}
	return v
}
