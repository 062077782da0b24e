// Package bobbin is a small inversion-of-control container for singleton
// beans. It builds object graphs from declared definitions, wires them
// through constructors, factories, tagged fields and setter methods, and runs
// an ordered post-processor chain around every bean it creates.
//
// # Definitions
//
// A Definition says how a bean type is instantiated:
//
//	bobbin.MustDefine[*Engine]()                                   // zero value, no constructor
//	bobbin.MustDefine[*Car](bobbin.WithConstructor(NewCar))        // func NewCar(e *Engine) *Car
//	bobbin.MustDefine[*sql.DB](bobbin.WithFactory(OpenDB))         // free factory
//	bobbin.MustDefine[Repository](                                 // method on a declaring bean
//	    bobbin.WithFactoryMethod(reflect.TypeFor[*Config](), "NewRepository"),
//	)
//
// Declaring more than one constructor without a factory is an error at
// creation time: the container never guesses.
//
// # Registry
//
// Register definitions, then create or start:
//
//	c := bobbin.New(bobbin.WithLogger(logger))
//	c.RegisterAll(engineDef, carDef)
//	car, err := c.CreateBean(ctx, "Car", carDef)
//	same, err := c.GetBean(reflect.TypeFor[*Car]())
//
// GetBean and GetBeanByName only return cached singletons. CreateBean and
// the generic Resolve create on demand, dependencies first. Interfaces
// resolve to their Bind target, or to the single registered implementer.
//
// # Injection
//
// After construction the built-in InjectionProcessor wires struct fields
// tagged `inject`:
//
//	type Car struct {
//	    engine *Engine `inject:""`        // by type, through SetEngine if declared
//	    Wheels Wheels  `inject:"wheels"`  // by bean name
//	}
//
// A field is injected through its setter when one exists, either bound with
// WithSetter or named Set<Field>, and assigned directly otherwise.
// Setter methods can also be marked with WithInjectMethod or by implementing
// Injectable.
//
// # Post-processors
//
// PostProcessor implementations see every bean twice, BeforeInit then
// AfterInit, in ascending Order. The chain is frozen when the first bean is
// created. Beans implementing Initializer are initialized after the chain;
// beans implementing Disposer are disposed by Close in reverse creation order.
//
// # Cycles
//
// A bean that is requested again while it is still being built fails fast
// with a CircularDependency error naming the chain. Validate reports the
// same statically.
package bobbin
