package brand

import (
	"bufio"
	"context"
	"log/slog"
	"os"
	"strings"

	"anspulse/internal/dataset"
)

// ExceptionSet holds the canonical registry codes of operators that
// belong to the UNIMED network regardless of legal name. It is built
// once at bootstrap and injected into the Classifier; there is no
// process-global cache.
type ExceptionSet map[string]struct{}

// Contains reports whether the canonical code is in the set.
func (s ExceptionSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// LoadExceptionSet reads the newline-delimited exception file. Each
// non-blank line is one registry code in arbitrary raw format (digits,
// with or without punctuation); lines are reduced to their digits and
// dot suffix, then canonicalized the same way as every join key, so
// "5711," and a raw record with registro_operadora=5711.0 land on the
// identical member "005711".
//
// A missing file is non-fatal: it logs a warning and returns an empty
// set, degrading the classifier to name-prefix rules only.
func LoadExceptionSet(ctx context.Context, path string, logger *slog.Logger) ExceptionSet {
	if logger == nil {
		logger = slog.Default()
	}
	set := make(ExceptionSet)

	if path == "" {
		return set
	}

	file, err := os.Open(path)
	if err != nil {
		logger.WarnContext(ctx, "brand exception file not found, falling back to name-prefix rules",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return set
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		set[dataset.NormalizeKey(stripNonNumeric(line))] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		logger.WarnContext(ctx, "error reading brand exception file",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
	}

	logger.InfoContext(ctx, "brand exception set loaded",
		slog.String("path", path),
		slog.Int("entries", len(set)),
	)
	return set
}

// stripNonNumeric drops punctuation other than the decimal dot, which
// NormalizeKey already handles as a float suffix.
func stripNonNumeric(line string) string {
	var b strings.Builder
	for _, c := range line {
		if (c >= '0' && c <= '9') || c == '.' {
			b.WriteRune(c)
		}
	}
	return b.String()
}
