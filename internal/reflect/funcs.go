package reflect

import (
	"fmt"
	"reflect"
)

// Signature describes a constructor or factory function.
type Signature struct {
	Fn       reflect.Value
	Params   []reflect.Type
	Out      reflect.Type
	HasError bool
}

func (s Signature) NumParams() int {
	return len(s.Params)
}

// FuncSignature inspects fn, which must return T or (T, error).
func FuncSignature(fn any) (Signature, error) {
	if fn == nil {
		return Signature{}, fmt.Errorf("function is nil")
	}

	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return Signature{}, fmt.Errorf("expected a function, got %s", v.Kind())
	}
	return signatureOf(v, v.Type(), 0)
}

// MethodSignature inspects a method expression. The receiver is not part of Params.
func MethodSignature(m reflect.Method) (Signature, error) {
	return signatureOf(m.Func, m.Type, 1)
}

func signatureOf(fn reflect.Value, ft reflect.Type, skip int) (Signature, error) {
	if ft.IsVariadic() {
		return Signature{}, fmt.Errorf("variadic functions are not supported: %s", ft)
	}

	switch ft.NumOut() {
	case 1:
	case 2:
		if ft.Out(1) != errorType {
			return Signature{}, fmt.Errorf("second result of %s must be error", ft)
		}
	default:
		return Signature{}, fmt.Errorf("%s must return a value or (value, error)", ft)
	}

	params := make([]reflect.Type, 0, ft.NumIn()-skip)
	for i := skip; i < ft.NumIn(); i++ {
		params = append(params, ft.In(i))
	}

	return Signature{
		Fn:       fn,
		Params:   params,
		Out:      ft.Out(0),
		HasError: ft.NumOut() == 2,
	}, nil
}

// Call invokes the function and splits its results. A panic inside the
// function is returned as an error.
func (s Signature) Call(args []reflect.Value) (out reflect.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	results := s.Fn.Call(args)
	if s.HasError && !results[1].IsNil() {
		return reflect.Value{}, results[1].Interface().(error)
	}
	return results[0], nil
}
