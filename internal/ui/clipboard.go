package ui

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// copyFunc is swapped out in tests, where no clipboard exists
var copyFunc = clipboard.WriteAll

// CopyToClipboard copies text to the system clipboard
func CopyToClipboard(text string) error {
	if text == "" {
		return fmt.Errorf("cannot copy empty text to clipboard")
	}
	if err := copyFunc(text); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	return nil
}
