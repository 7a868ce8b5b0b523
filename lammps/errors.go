package lammps

import "fmt"

//Errors

// errDecorate asserts that the error implements moltop.Error-style
// decoration and adds the caller's name before returning it.
func errDecorate(err error, caller string) error {
	err2, ok := err.(interface{ Decorate(string) []string })
	if !ok {
		return fmt.Errorf("%s: %w", caller, err)
	}
	err2.Decorate(caller)
	return err
}

// Error is the general structure for data-file errors of this package.
type Error struct {
	message  string
	filename string //the input file that has problems, or empty string if none.
	deco     []string
	critical bool
}

func (err Error) Error() string {
	return fmt.Sprintf("lammps data file %s error: %s", err.filename, err.message)
}

// Decorate adds new information to the error.
func (E Error) Decorate(deco string) []string {
	//E.deco is a slice, hence a pointer itself, so appending to it through
	//a value receiver still works.
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

// FileName returns the file associated to the error.
func (err Error) FileName() string { return err.filename }

// Critical returns true if the error is critical, false otherwise.
func (err Error) Critical() bool { return err.critical }

const (
	UnableToOpen       = "Unable to open file"
	WrongFormat        = "Wrong format in the data file"
	UnsupportedOption  = "Unsupported option"
	MissingSection     = "Required section missing"
	TruncatedSection   = "Section has fewer rows than announced"
	BadReference       = "Row references an undefined type or atom"
	UntypedTopology    = "Topology is not fully typed"
	UnknownCFactorKey  = "Unknown reduced-unit factor key"
	CFactorsOutsideLJ  = "Reduced-unit factors given for a non-lj unit style"
	ZeroDefaultCFactor = "Computed default reduced-unit factor is zero"
)
