package storage

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// SheetStore keeps uploaded marks sheets exactly as they were received.
type SheetStore interface {
	// PutSheet stores r under key and returns a reference to the stored copy.
	PutSheet(key SheetKey, r io.Reader) (string, error)
}

type SheetKey struct {
	BlueprintID  string
	SectionIndex int
	ReceivedAt   time.Time
}

// Path is the store-relative location of the sheet. Separators in the blueprint ID
// are replaced so a key can never leave its blueprint's directory.
func (k SheetKey) Path() string {
	id := strings.NewReplacer("/", "_", `\`, "_", "..", "_").Replace(k.BlueprintID)
	if id == "" {
		id = "_"
	}
	return fmt.Sprintf("%s/section-%d/%d.csv", id, k.SectionIndex, k.ReceivedAt.UnixNano())
}
