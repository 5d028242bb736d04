package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

func WriteJSON(r *Report, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer f.Close()

	if err := EncodeJSON(r, f); err != nil {
		return err
	}
	return f.Close()
}

func EncodeJSON(r *Report, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
