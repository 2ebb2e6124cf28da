package catalog

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"shopreco/internal/pkg/logx"
)

// ObjectFetcher downloads a whole object by key.
type ObjectFetcher interface {
	Fetch(ctx context.Context, key string) ([]byte, error)
}

// Source says where to read the catalog from. The first non-empty option wins:
// an object in Objects under S3Key, then the file at Path, then the bundled sample.
type Source struct {
	Objects ObjectFetcher
	S3Key   string
	Path    string
}

// Load reads and parses the catalog from src.
func Load(ctx context.Context, src Source) (*Catalog, error) {
	switch {
	case src.S3Key != "" && src.Objects != nil:
		data, err := src.Objects.Fetch(ctx, src.S3Key)
		if err != nil {
			return nil, fmt.Errorf("catalog: fetch %s: %w", src.S3Key, err)
		}
		logx.Info("Catalog downloaded from object storage", "key", src.S3Key, "bytes", len(data))
		return Parse(bytes.NewReader(data))

	case src.Path != "":
		f, err := os.Open(src.Path)
		if err != nil {
			return nil, fmt.Errorf("catalog: open %s: %w", src.Path, err)
		}
		defer f.Close()
		return Parse(f)

	default:
		logx.Warn("No catalog source configured, using the bundled sample")
		return ParseSample()
	}
}
