package bobbin

import (
	"fmt"

	breflect "github.com/danpasecinic/bobbin/internal/reflect"
)

// Bind makes the interface I resolve to the bean registered for T. When T
// is not registered yet, its definition is looked up (or synthesized for a
// struct type) and registered.
func Bind[I, T any](c *Container) error {
	iface := breflect.TypeOf[I]()
	impl := breflect.TypeOf[T]()

	if !breflect.IsInterface(iface) {
		return errInvalidDefinition(iface, fmt.Errorf("%s is not an interface", iface))
	}
	if !breflect.Implements(impl, iface) {
		return errInvalidDefinition(iface, fmt.Errorf("%s does not implement %s", impl, iface))
	}

	name, ok, err := c.lookup(impl)
	if err != nil {
		return err
	}
	if !ok {
		def, err := c.GetBeanDefinition(impl)
		if err != nil {
			return err
		}
		if err := c.Register(def); err != nil {
			return err
		}
		name = def.name
	}

	if err := c.registry.Alias(iface, name); err != nil {
		return errDuplicateRegistration(name, err).WithTarget(typeName(iface))
	}
	return nil
}
