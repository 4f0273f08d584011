package types

// Program is an executable file found in the programs directory
type Program struct {
	Path string `json:"path"` // Absolute path
	Name string `json:"name"` // Base name, used as the list row label
	Kind string `json:"kind"` // Sniffed MIME type
}

// ProgramRow is one rendered row of the program list
type ProgramRow struct {
	Index int    `json:"index"`
	Label string `json:"label"`
	Program
}
