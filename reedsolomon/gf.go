// Package reedsolomon implements Reed-Solomon error correction coding over
// the two kinds of Galois field the symbologies in this module need: binary
// extension fields GF(2^n) (QR, Aztec, Data Matrix, MaxiCode) and the prime
// field GF(929) PDF417 defines its error correction over. Both are modeled
// by the same GenericGF/GenericGFPoly pair, tagged by field kind, so the
// syndrome/Euclidean-algorithm/Chien-search/Forney machinery in encoder.go
// and decoder.go is written once and shared by every caller.
package reedsolomon

import "fmt"

// fieldKind distinguishes the two arithmetic structures GenericGF can carry:
// XOR-based addition over a binary extension, or true modular arithmetic
// over a prime.
type fieldKind int

const (
	binaryField fieldKind = iota
	primeField
)

// GenericGF represents a Galois Field used for Reed-Solomon coding. The
// exp/log tables are built once at construction and shared by every
// polynomial operation in this field.
type GenericGF struct {
	expTable      []int
	logTable      []int
	zero          *GenericGFPoly
	one           *GenericGFPoly
	size          int
	generator     int // primitive polynomial (binaryField) or generator (primeField)
	generatorBase int
	kind          fieldKind
}

// Pre-defined Galois Fields for the binary-extension symbologies.
var (
	QRCodeField256     = NewGenericGF(0x011D, 256, 0) // x^8 + x^4 + x^3 + x^2 + 1
	DataMatrixField256 = NewGenericGF(0x012D, 256, 1) // x^8 + x^5 + x^3 + x^2 + 1
	AztecData12        = NewGenericGF(0x1069, 4096, 1)
	AztecData10        = NewGenericGF(0x0409, 1024, 1)
	AztecData8         = DataMatrixField256
	AztecData6         = NewGenericGF(0x0043, 64, 1)
	AztecParam         = NewGenericGF(0x0013, 16, 1)
	MaxiCodeField64    = AztecData6
)

// NewGenericGF creates a binary extension field GF(size) reduced by the
// given primitive polynomial.
func NewGenericGF(primitive, size, generatorBase int) *GenericGF {
	return newField(binaryField, primitive, 2, size, generatorBase)
}

// NewPrimeGF creates a prime field GF(modulus), generated by repeated
// multiplication by generator. PDF417's error correction is the only
// consumer in this module, but the construction is general.
func NewPrimeGF(modulus, generator, generatorBase int) *GenericGF {
	return newField(primeField, generator, generator, modulus, generatorBase)
}

// newField builds the shared exp/log tables. step is the value exp[i+1] is
// derived from exp[i] by (doubling for a binary field, multiplying by the
// generator for a prime field); reduce folds a value back into range once it
// overflows size.
func newField(kind fieldKind, param, step, size, generatorBase int) *GenericGF {
	gf := &GenericGF{
		kind:          kind,
		generator:     param,
		size:          size,
		generatorBase: generatorBase,
		expTable:      make([]int, size),
		logTable:      make([]int, size),
	}

	x := 1
	for i := 0; i < size; i++ {
		gf.expTable[i] = x
		switch kind {
		case binaryField:
			x *= step
			if x >= size {
				x ^= param
				x &= size - 1
			}
		default:
			x = (x * step) % size
		}
	}
	for i := 0; i < size-1; i++ {
		gf.logTable[gf.expTable[i]] = i
	}

	gf.zero = newGenericGFPoly(gf, []int{0})
	gf.one = newGenericGFPoly(gf, []int{1})

	return gf
}

// Zero returns the zero polynomial.
func (gf *GenericGF) Zero() *GenericGFPoly { return gf.zero }

// One returns the one polynomial.
func (gf *GenericGF) One() *GenericGFPoly { return gf.one }

// BuildMonomial returns coefficient * x^degree.
func (gf *GenericGF) BuildMonomial(degree, coefficient int) *GenericGFPoly {
	if degree < 0 {
		panic("reedsolomon: negative degree")
	}
	if coefficient == 0 {
		return gf.zero
	}
	coefficients := make([]int, degree+1)
	coefficients[0] = coefficient
	return newGenericGFPoly(gf, coefficients)
}

// AddOrSubtract computes a XOR b. Addition and subtraction coincide only in
// a binary extension field; this free function is kept for the callers (and
// tests) that only ever operate on such a field. Callers that may be
// handling a prime field should use the field-aware Add/Subtract methods
// instead.
func AddOrSubtract(a, b int) int {
	return a ^ b
}

// Add returns a+b in this field: XOR for a binary extension, modular
// addition for a prime field.
func (gf *GenericGF) Add(a, b int) int {
	if gf.kind == primeField {
		return (a + b) % gf.size
	}
	return a ^ b
}

// Subtract returns a-b in this field.
func (gf *GenericGF) Subtract(a, b int) int {
	if gf.kind == primeField {
		return (gf.size + a - b) % gf.size
	}
	return a ^ b
}

// Exp returns generator^a in this field.
func (gf *GenericGF) Exp(a int) int {
	return gf.expTable[a]
}

// Log returns the discrete log of a (base the field's generator).
func (gf *GenericGF) Log(a int) int {
	if a == 0 {
		panic("reedsolomon: log(0)")
	}
	return gf.logTable[a]
}

// Inverse returns the multiplicative inverse of a.
func (gf *GenericGF) Inverse(a int) int {
	if a == 0 {
		panic("reedsolomon: inverse(0)")
	}
	return gf.expTable[gf.size-gf.logTable[a]-1]
}

// Multiply returns a * b in this field.
func (gf *GenericGF) Multiply(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}
	return gf.expTable[(gf.logTable[a]+gf.logTable[b])%(gf.size-1)]
}

// Size returns the size (binary field order, or prime modulus) of the field.
func (gf *GenericGF) Size() int { return gf.size }

// GeneratorBase returns the generator base used when building syndromes.
func (gf *GenericGF) GeneratorBase() int { return gf.generatorBase }

// String returns a human-readable description of the field.
func (gf *GenericGF) String() string {
	if gf.kind == primeField {
		return fmt.Sprintf("GF(%d) generator %d", gf.size, gf.generator)
	}
	return fmt.Sprintf("GF(0x%x,%d)", gf.generator, gf.size)
}
