package types

import (
	"slices"
)

func p(name string, t Type) Param { return Param{Name: name, Type: t} }

func opt(name string, t Type) Param { return Param{Name: name, Type: t, Optional: true} }

func fn(ret Type, params ...Param) *Func {
	return &Func{Params: params, Return: ret}
}

func variadic(ret Type, rest string, elem Type, params ...Param) *Func {
	return &Func{Params: params, Rest: Array{Elem: elem}, RestName: rest, Return: ret}
}

func method(name string, f *Func, doc string) Field {
	return Field{Name: name, Type: f, Method: true, Doc: doc}
}

func prop(name string, t Type, doc string) Field {
	return Field{Name: name, Type: t, Doc: doc}
}

// FunctionProto holds the members of Function.prototype
var FunctionProto = []Field{
	method("apply", fn(AnyT, p("thisArg", AnyT), opt("argArray", AnyT)),
		"Calls the function, substituting the specified object for the this value of the function, and the specified array for the arguments of the function."),
	prop("arguments", AnyT, ""),
	method("bind", variadic(AnyT, "argArray", AnyT, p("thisArg", AnyT)),
		"For a given function, creates a bound function that has the same body as the original function.\nThe this object of the bound function is associated with the specified object, and has the specified initial parameters."),
	method("call", variadic(AnyT, "argArray", AnyT, p("thisArg", AnyT)),
		"Calls a method of an object, substituting another object for the current object."),
	// not normalised, NewUnion would absorb null into any
	prop("caller", Union{Members: []Type{AnyT, NullT}}, ""),
	prop("length", NumberT, ""),
	prop("name", StringT, "Returns the name of the function. Function names are read-only and can not be changed."),
	method("toString", fn(StringT), "Returns a string representation of a function."),
}

// ObjectProto holds the members of Object.prototype
var ObjectProto = []Field{
	method("hasOwnProperty", fn(BooleanT, p("prop", MixedT)), "Determines whether an object has a property with the specified name."),
	method("isPrototypeOf", fn(BooleanT, p("o", MixedT)), "Determines whether an object exists in another object's prototype chain."),
	method("propertyIsEnumerable", fn(BooleanT, p("prop", MixedT)), "Determines whether a specified property is enumerable."),
	method("toLocaleString", fn(StringT), "Returns a date converted to a string using the current locale."),
	method("toString", fn(StringT), "Returns a string representation of an object."),
	method("valueOf", fn(MixedT), "Returns the primitive value of the specified object."),
}

var stringProto = []Field{
	method("charAt", fn(StringT, p("pos", NumberT)), "Returns the character at the specified index."),
	method("charCodeAt", fn(NumberT, p("index", NumberT)), "Returns the Unicode value of the character at the specified location."),
	method("concat", variadic(StringT, "strings", StringT), "Returns a string that contains the concatenation of two or more strings."),
	method("endsWith", fn(BooleanT, p("searchString", StringT), opt("position", NumberT)), ""),
	method("includes", fn(BooleanT, p("searchString", StringT), opt("position", NumberT)), ""),
	method("indexOf", fn(NumberT, p("searchString", StringT), opt("position", NumberT)), "Returns the position of the first occurrence of a substring."),
	method("lastIndexOf", fn(NumberT, p("searchString", StringT), opt("position", NumberT)), "Returns the last occurrence of a substring in the string."),
	prop("length", NumberT, "Returns the length of a String object."),
	method("padEnd", fn(StringT, p("targetLength", NumberT), opt("padString", StringT)), ""),
	method("padStart", fn(StringT, p("targetLength", NumberT), opt("padString", StringT)), ""),
	method("repeat", fn(StringT, p("count", NumberT)), ""),
	method("replace", fn(StringT, p("searchValue", NewUnion(StringT, AnyT)), p("replaceValue", StringT)), "Replaces text in a string, using a regular expression or search string."),
	method("slice", fn(StringT, opt("start", NumberT), opt("end", NumberT)), "Returns a section of a string."),
	method("split", fn(Array{Elem: StringT}, opt("separator", StringT), opt("limit", NumberT)), "Split a string into substrings using the specified separator and return them as an array."),
	method("startsWith", fn(BooleanT, p("searchString", StringT), opt("position", NumberT)), ""),
	method("substr", fn(StringT, p("from", NumberT), opt("length", NumberT)), "Gets a substring beginning at the specified location and having the specified length."),
	method("substring", fn(StringT, p("start", NumberT), opt("end", NumberT)), "Returns the substring at the specified location within a String object."),
	method("toLowerCase", fn(StringT), "Converts all the alphabetic characters in a string to lowercase."),
	method("toString", fn(StringT), "Returns a string representation of a string."),
	method("toUpperCase", fn(StringT), "Converts all the alphabetic characters in a string to uppercase."),
	method("trim", fn(StringT), "Removes the leading and trailing white space and line terminator characters from a string."),
	method("trimEnd", fn(StringT), ""),
	method("trimStart", fn(StringT), ""),
	method("valueOf", fn(StringT), "Returns the primitive value of the specified object."),
}

var numberProto = []Field{
	method("toExponential", fn(StringT, opt("fractionDigits", NumberT)), "Returns a string containing a number represented in exponential notation."),
	method("toFixed", fn(StringT, opt("fractionDigits", NumberT)), "Returns a string representing a number in fixed-point notation."),
	method("toLocaleString", fn(StringT), "Converts a number to a string by using the current or specified locale."),
	method("toPrecision", fn(StringT, opt("precision", NumberT)), "Returns a string containing a number represented either in exponential or fixed-point notation with a specified number of digits."),
	method("toString", fn(StringT, opt("radix", NumberT)), "Returns a string representation of an object."),
	method("valueOf", fn(NumberT), "Returns the primitive value of the specified object."),
}

var booleanProto = []Field{
	method("toString", fn(StringT), ""),
	method("valueOf", fn(BooleanT), "Returns the primitive value of the specified object."),
}

// arrayProto returns the members of Array.prototype specialised to elem
func arrayProto(elem Type) []Field {
	arr := Array{Elem: elem}
	callback := func(ret Type) *Func {
		return fn(ret, p("value", elem), p("index", NumberT), p("array", arr))
	}
	return []Field{
		method("concat", variadic(arr, "items", AnyT), "Combines two or more arrays."),
		method("entries", fn(AnyT), "Returns an iterable of key, value pairs for every entry in the array"),
		method("every", fn(BooleanT, p("callbackfn", callback(MixedT))), "Determines whether all the members of an array satisfy the specified test."),
		method("fill", fn(arr, p("value", elem), opt("begin", NumberT), opt("end", NumberT)), ""),
		method("filter", fn(arr, p("callbackfn", callback(MixedT))), "Returns the elements of an array that meet the condition specified in a callback function."),
		method("find", fn(Optional{Elem: elem}, p("callbackfn", callback(MixedT))), ""),
		method("findIndex", fn(NumberT, p("callbackfn", callback(MixedT))), ""),
		method("forEach", fn(VoidT, p("callbackfn", callback(MixedT))), "Performs the specified action for each element in an array."),
		method("includes", fn(BooleanT, p("searchElement", MixedT), opt("fromIndex", NumberT)), ""),
		method("indexOf", fn(NumberT, p("searchElement", MixedT), opt("fromIndex", NumberT)), "Returns the index of the first occurrence of a value in an array."),
		method("join", fn(StringT, opt("separator", StringT)), "Adds all the elements of an array separated by the specified separator string."),
		method("keys", fn(AnyT), ""),
		method("lastIndexOf", fn(NumberT, p("searchElement", MixedT), opt("fromIndex", NumberT)), ""),
		prop("length", NumberT, "Gets or sets the length of the array."),
		method("map", fn(Array{Elem: AnyT}, p("callbackfn", callback(AnyT))), "Calls a defined callback function on each element of an array, and returns an array that contains the results."),
		method("pop", fn(elem), "Removes the last element from an array and returns it."),
		method("push", variadic(NumberT, "items", elem), "Appends new elements to an array, and returns the new length of the array."),
		method("reduce", fn(AnyT, p("callbackfn", fn(AnyT, p("previousValue", AnyT), p("currentValue", elem))), opt("initialValue", AnyT)), ""),
		method("reverse", fn(arr), "Reverses the elements in an Array."),
		method("shift", fn(elem), "Removes the first element from an array and returns it."),
		method("slice", fn(arr, opt("start", NumberT), opt("end", NumberT)), "Returns a section of an array."),
		method("some", fn(BooleanT, p("callbackfn", callback(MixedT))), "Determines whether the specified callback function returns true for any element of an array."),
		method("sort", fn(arr, opt("compareFn", fn(NumberT, p("a", elem), p("b", elem)))), "Sorts an array."),
		method("splice", variadic(arr, "items", elem, p("start", NumberT), opt("deleteCount", NumberT)), ""),
		method("toString", fn(StringT), ""),
		method("unshift", variadic(NumberT, "items", elem), "Inserts new elements at the start of an array."),
		method("values", fn(AnyT), ""),
	}
}

// Globals are the library values every module can refer to without
// declaring them
var Globals = map[string]Type{
	"undefined":  VoidT,
	"NaN":        NumberT,
	"Infinity":   NumberT,
	"console":    AnyT,
	"Math":       AnyT,
	"JSON":       AnyT,
	"Object":     AnyT,
	"Array":      AnyT,
	"String":     fn(StringT, opt("value", MixedT)),
	"Number":     fn(NumberT, opt("value", MixedT)),
	"Boolean":    fn(BooleanT, opt("value", MixedT)),
	"Symbol":     fn(SymbolT, opt("description", MixedT)),
	"Error":      AnyT,
	"Promise":    AnyT,
	"parseInt":   fn(NumberT, p("string", MixedT), opt("radix", NumberT)),
	"parseFloat": fn(NumberT, p("string", MixedT)),
	"isNaN":      fn(BooleanT, p("number", MixedT)),
	"require":    fn(AnyT, p("id", StringT)),
	"module":     AnyT,
	"exports":    AnyT,
	"window":     AnyT,
	"document":   AnyT,
}

// BuiltinTypeNames is the builtin type vocabulary in the order completion
// lists it
var BuiltinTypeNames = []string{
	"any", "bigint", "boolean", "empty", "false", "mixed", "null", "number", "string", "symbol", "true", "void",
	"$Call", "$CharSet", "$Diff", "$ElementType", "$Exact", "$Exports", "$KeyMirror", "$Keys",
	"$NonMaybeType", "$ObjMap", "$ObjMapi", "$PropertyType", "$ReadOnly", "$Rest", "$Shape",
	"$TupleMap", "$Values", "Class",
}

// IsBuiltinTypeName reports whether name refers to a builtin type
func IsBuiltinTypeName(name string) bool {
	return slices.Contains(BuiltinTypeNames, name)
}

// PrimByName resolves the primitive and literal type keywords
func PrimByName(name string) (Type, bool) {
	switch name {
	case "true":
		return Literal{Value: true}, true
	case "false":
		return Literal{Value: false}, true
	case "bool":
		return BooleanT, true
	case "undefined":
		return VoidT, true
	}
	for k, n := range primNames {
		if n == name {
			return Prim{PrimKind(k)}, true
		}
	}
	return nil, false
}
