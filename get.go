package bobbin

import (
	"context"
	"fmt"

	breflect "github.com/danpasecinic/bobbin/internal/reflect"
)

// Get returns the cached singleton for T.
func Get[T any](c *Container) (T, error) {
	var zero T
	instance, err := c.GetBean(breflect.TypeOf[T]())
	if err != nil {
		return zero, err
	}
	return cast[T](instance)
}

// GetNamed returns the cached singleton registered under name.
func GetNamed[T any](c *Container, name string) (T, error) {
	var zero T
	instance, err := c.GetBeanByName(name)
	if err != nil {
		return zero, err
	}
	return cast[T](instance)
}

func MustGet[T any](c *Container) T {
	v, err := Get[T](c)
	if err != nil {
		panic(err)
	}
	return v
}

// Resolve returns the singleton for T, creating it and its dependencies
// when needed.
func Resolve[T any](ctx context.Context, c *Container) (T, error) {
	var zero T
	_, instance, err := c.resolve(ctx, breflect.TypeOf[T]())
	if err != nil {
		return zero, err
	}
	return cast[T](instance)
}

func MustResolve[T any](ctx context.Context, c *Container) T {
	v, err := Resolve[T](ctx, c)
	if err != nil {
		panic(err)
	}
	return v
}

func Has[T any](c *Container) bool {
	return c.ContainsBean(breflect.TypeOf[T]())
}

func cast[T any](instance any) (T, error) {
	typed, ok := instance.(T)
	if !ok {
		var zero T
		t := breflect.TypeOf[T]()
		return zero, errNoSuchBean(t, fmt.Errorf("bean of type %T is not a %s", instance, typeName(t)))
	}
	return typed, nil
}
