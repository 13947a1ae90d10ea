package terminal

import (
	"bufio"
	"context"
	"io"
	"strings"
)

// ReadKeys calls handle with each non-empty trimmed line until reader is exhausted or ctx ends.
// A blocked read is not interrupted by ctx; cancellation is noticed at the next line.
func ReadKeys(ctx context.Context, reader io.Reader, handle func(key string)) error {
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		key := strings.TrimSpace(scanner.Text())
		if key == "" {
			continue
		}
		handle(key)
	}
	return scanner.Err()
}
