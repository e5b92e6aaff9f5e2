package models

import "fmt"

// GeneratorKind selects the synthetic distribution used to generate data
type GeneratorKind int

const (
	KindLinear GeneratorKind = iota
	KindExponential
	KindSinusoidal
	KindRandom
	KindLargeDataset
)

var kindNames = map[GeneratorKind]string{
	KindLinear:       "Linear",
	KindExponential:  "Exponential",
	KindSinusoidal:   "Sinusoidal",
	KindRandom:       "Random",
	KindLargeDataset: "Large Dataset",
}

// GeneratorKinds lists the kinds in the order the control panel offers them
func GeneratorKinds() []GeneratorKind {
	return []GeneratorKind{KindLinear, KindExponential, KindSinusoidal, KindRandom, KindLargeDataset}
}

// GeneratorKindNames returns the display names in control panel order
func GeneratorKindNames() []string {
	kinds := GeneratorKinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return names
}

func (k GeneratorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("GeneratorKind(%d)", int(k))
}

// ParseGeneratorKind maps a display name to its kind.
// Unknown names fall back to Random, which is also the generator's default branch.
func ParseGeneratorKind(name string) GeneratorKind {
	if k, ok := LookupGeneratorKind(name); ok {
		return k
	}
	return KindRandom
}

// LookupGeneratorKind maps a display name to its kind and reports whether it is known
func LookupGeneratorKind(name string) (GeneratorKind, bool) {
	for k, n := range kindNames {
		if n == name {
			return k, true
		}
	}
	return KindRandom, false
}
