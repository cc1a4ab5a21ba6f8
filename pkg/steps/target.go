package steps

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrInvalidTarget is returned when a field target cannot be resolved.
	ErrInvalidTarget = errors.New("invalid animation target")
)

// Number is the set of types the default interpolation understands.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Target is a mutable value an animation writes to.
// While an animation runs it owns the target; nothing else should write to
// it concurrently.
type Target[T any] interface {
	Get() T
	Set(T)
}

type ptrTarget[T any] struct {
	p *T
}

// Ptr targets the variable p points to.
func Ptr[T any](p *T) Target[T] {
	return ptrTarget[T]{p: p}
}

func (t ptrTarget[T]) Get() T  { return *t.p }
func (t ptrTarget[T]) Set(v T) { *t.p = v }

type fieldTarget struct {
	v reflect.Value
}

// Field targets the exported numeric field called name on the struct obj
// points to. Integer fields receive rounded-toward-zero values.
func Field(obj any, name string) (Target[float64], error) {
	rv := reflect.ValueOf(obj)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %T is not a pointer to a struct", ErrInvalidTarget, obj)
	}
	fv := rv.Elem().FieldByName(name)
	if !fv.IsValid() {
		return nil, fmt.Errorf("%w: %T has no field %q", ErrInvalidTarget, obj, name)
	}
	if !fv.CanSet() {
		return nil, fmt.Errorf("%w: field %q is not settable", ErrInvalidTarget, name)
	}
	switch fv.Kind() {
	case reflect.Float32, reflect.Float64,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
	default:
		return nil, fmt.Errorf("%w: field %q has non-numeric kind %s", ErrInvalidTarget, name, fv.Kind())
	}
	return fieldTarget{v: fv}, nil
}

func (f fieldTarget) Get() float64 {
	switch f.v.Kind() {
	case reflect.Float32, reflect.Float64:
		return f.v.Float()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(f.v.Uint())
	default:
		return float64(f.v.Int())
	}
}

func (f fieldTarget) Set(x float64) {
	switch f.v.Kind() {
	case reflect.Float32, reflect.Float64:
		f.v.SetFloat(x)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if x < 0 {
			x = 0
		}
		f.v.SetUint(uint64(x))
	default:
		f.v.SetInt(int64(x))
	}
}
