package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// wantJSON is true when --json is set or stdout is not a terminal, so
// pipes and redirects get machine-readable output.
func wantJSON(cmd *cobra.Command) bool {
	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		return true
	}
	f, ok := cmd.OutOrStdout().(*os.File)
	if !ok {
		return false
	}
	return !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd())
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
