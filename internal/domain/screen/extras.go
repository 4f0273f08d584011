package screen

// ExtraProgram carries the absolute path of the program to run
const ExtraProgram = "program"

// Extras is the data handed from one screen to the next
type Extras map[string]string

// ProgramExtras builds the extras that open a run screen for path
func ProgramExtras(path string) Extras {
	return Extras{ExtraProgram: path}
}

// Get returns the value for key, or "" when absent
func (e Extras) Get(key string) string {
	if e == nil {
		return ""
	}
	return e[key]
}

// Clone returns an independent copy
func (e Extras) Clone() Extras {
	out := make(Extras, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}
