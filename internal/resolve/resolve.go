// Package resolve maps DOI prefixes to canonical publisher member names.
// The canonical name keeps collection labels stable across the shifting
// publisher names found in delivered metadata.
package resolve

import (
	"bufio"
	"context"
	"io"
	"os"
	"strings"
)

// Resolver looks up the canonical member name for a DOI prefix such as
// "10.1016". found is false for prefixes without a registered member;
// err is reserved for lookup failures.
type Resolver interface {
	Resolve(ctx context.Context, prefix string) (name string, found bool, err error)
}

// StaticResolver resolves from a fixed in-memory table.
type StaticResolver struct {
	names map[string]string
}

// NewStaticResolver creates a resolver over the given prefix table.
func NewStaticResolver(names map[string]string) *StaticResolver {
	return &StaticResolver{names: names}
}

// Resolve implements Resolver.
func (r *StaticResolver) Resolve(ctx context.Context, prefix string) (string, bool, error) {
	name, ok := r.names[prefix]
	return name, ok, nil
}

// LoadPrefixList reads a tab-separated prefix/name file into a static
// resolver. Blank lines and "#" comments are skipped.
func LoadPrefixList(path string) (*StaticResolver, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadPrefixList(f)
}

// ReadPrefixList parses prefix/name lines from a reader.
func ReadPrefixList(r io.Reader) (*StaticResolver, error) {
	names := make(map[string]string)

	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") == true {
			continue
		}

		parts := strings.SplitN(line, "\t", 2)
		if len(parts) != 2 {
			continue
		}

		prefix := strings.TrimSpace(parts[0])
		name := strings.TrimSpace(parts[1])

		if prefix != "" && name != "" {
			names[prefix] = name
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return NewStaticResolver(names), nil
}
