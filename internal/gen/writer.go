package gen

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// GeneratedHeader starts every file a backend writes. Prune only removes
// files that carry it.
const GeneratedHeader = "// Code generated by pdu-generator. DO NOT EDIT."

// WriteFiles writes all generated files to the output directory, creating
// it (and any subdirectory a filename names) as needed.
func WriteFiles(files []GeneratedFile, outputDir string) error {
	if err := os.MkdirAll(outputDir, dirPerm); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	for _, file := range files {
		outputPath := filepath.Join(outputDir, file.Filename)

		if err := os.MkdirAll(filepath.Dir(outputPath), dirPerm); err != nil {
			return fmt.Errorf("creating directory for %s: %w", file.Filename, err)
		}

		if err := os.WriteFile(outputPath, file.Content, filePerm); err != nil {
			return fmt.Errorf("writing file %s: %w", file.Filename, err)
		}
	}

	return nil
}

// Prune deletes generated .go files in outputDir that are not part of
// files, e.g. left behind by a type that was removed from the schema. Files
// without GeneratedHeader are never touched. It returns the removed names.
func Prune(files []GeneratedFile, outputDir string) ([]string, error) {
	entries, err := os.ReadDir(outputDir)
	if os.IsNotExist(err) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("reading output directory: %w", err)
	}

	keep := make(map[string]bool, len(files))
	for _, f := range files {
		keep[filepath.Clean(f.Filename)] = true
	}

	var removed []string

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") || keep[name] {
			continue
		}

		p := filepath.Join(outputDir, name)

		generated, err := isGenerated(p)
		if err != nil {
			return removed, err
		}

		if !generated {
			continue
		}

		if err := os.Remove(p); err != nil {
			return removed, fmt.Errorf("removing stale file %s: %w", name, err)
		}

		removed = append(removed, name)
	}

	return removed, nil
}

func isGenerated(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	line, err := bufio.NewReader(f).ReadBytes('\n')
	if err != nil && len(line) == 0 {
		return false, nil
	}

	return bytes.Equal(bytes.TrimSpace(line), []byte(GeneratedHeader)), nil
}
