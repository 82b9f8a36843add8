package ecall

import (
	"fmt"
	"reflect"
	"unsafe"
)

// Word converts an SBI argument into a register word. Arguments are
// integers (hart ids, masks, addresses, codes), bools, or pointers to
// buffers shared with firmware such as DBCN console data. Signed values
// are sign-extended, as the calling convention passes them as longs.
func Word(arg interface{}) uintptr {
	switch v := arg.(type) {
	case nil:
		return 0
	case uintptr:
		return v
	case unsafe.Pointer:
		return uintptr(v)
	case bool:
		if v {
			return 1
		}
		return 0
	}

	val := reflect.ValueOf(arg)
	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return uintptr(val.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return uintptr(val.Uint())
	case reflect.Ptr:
		return val.Pointer()
	}
	panic(fmt.Sprintf("ecall: cannot pass %T in a register", arg))
}

// CallArgs builds a descriptor from loosely typed arguments.
func CallArgs(ext, fid uintptr, args ...interface{}) *Call {
	words := make([]uintptr, len(args))
	for i, arg := range args {
		words[i] = Word(arg)
	}
	return NewCall(ext, fid, words...)
}
