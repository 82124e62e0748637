// Package typeconv converts values between arbitrary Go types.
/*
A Graph stores one converter per ordered pair of types. Converters are synthesized the first
time a pair is requested and reused afterwards, so the reflection work for a pair is done once.

	n, err := typeconv.Convert[string, int]("42")
	// n == 42

	type Color int

	const (
		Red Color = iota + 1
		Green
	)

	b, err := typeconv.Convert[Color, byte](Green)
	// b == 2
	c, err := typeconv.Convert[byte, Color](b)
	// c == Green

Nullable values

Pointers are the nullable form of a type. Converting a nil *int to int64 gives 0,
converting it to *int64 gives nil. Converting an int to *int64 allocates.

Text

Every conversion to string goes through Text. Conversions from string or []byte parse the text
with a parser registered by Graph.RegisterParser, with encoding.TextUnmarshaler, or with the
strconv parser matching the destination kind. Enums parse by the names given to RegisterEnum
and fall back to their decimal form.

Custom converters

Graph.AddConverter stores a converter for a pair ahead of synthesis.
Converters are never replaced, so add them before the pair is first used.
*/
package typeconv
