package source

type (
	// UnitFlags encodes metadata about how a unit was loaded.
	UnitFlags uint8 // метаданные
)

const (
	// UnitHadBOM indicates a UTF-8 BOM was stripped from the text.
	UnitHadBOM UnitFlags = 1 << iota
	// UnitNormalizedCRLF indicates CRLF line endings were rewritten to LF.
	UnitNormalizedCRLF
)

// Unit is one loaded source unit: its identifier and its pre-styled lines.
// Lines keep the exact line count of the text, including the trailing empty
// element produced by a final newline.
type Unit struct {
	ID    string
	Lines []string
	Flags UnitFlags
}
