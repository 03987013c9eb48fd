package codec

// TruthyStrings is the vocabulary of strings read as true for boolean fields.
// Every other string is false.
var TruthyStrings = []string{"true", "True", "1", "on"}

// Truthy reports whether s belongs to TruthyStrings.
func Truthy(s string) bool {
	for _, t := range TruthyStrings {
		if s == t {
			return true
		}
	}
	return false
}
