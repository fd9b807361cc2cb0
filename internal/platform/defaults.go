package platform

import "github.com/aretw0/scribe/pkg/core"

const (
	// InfoName names the built-in help record.
	InfoName = "info"
	// StarterName names the record created in an empty workspace.
	StarterName = "New entry..."
)

// InfoText is the content of the built-in help record.
const InfoText = `To add a new entry use 'add'.
To rename an entry use 'rename', or double-click it in a graphical front end.
Use 'import' to load an entry from another file and 'delete' to remove one.
Entries are saved on exit; 'save' writes them immediately.
`

// DefaultRecords returns the informational records shown ahead of the loaded ones.
func DefaultRecords() []core.Record {
	return []core.Record{core.NewInfoRecord(InfoName, InfoText)}
}
