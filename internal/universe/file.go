package universe

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

// FileProvider reads one symbol per line from a local file, typically a
// cached copy of the catalog kept as a fallback. Blank lines and lines
// starting with # are skipped.
type FileProvider struct {
	Path string
}

// NewFileProvider creates a provider over the given file path.
func NewFileProvider(path string) *FileProvider {
	return &FileProvider{Path: path}
}

func (p *FileProvider) Name() string { return "file" }

func (p *FileProvider) Symbols(_ context.Context) ([]string, error) {
	f, err := os.Open(p.Path)
	if err != nil {
		return nil, fmt.Errorf("open universe file: %w", err)
	}
	defer f.Close()

	var symbols []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		symbols = append(symbols, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read universe file: %w", err)
	}
	if len(symbols) == 0 {
		return nil, errors.New("universe file is empty")
	}
	return symbols, nil
}
