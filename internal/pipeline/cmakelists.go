package pipeline

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// ProjectName extracts the project name from a CMakeLists.txt file, the
// fallback used when no target executable is configured anywhere else.
func ProjectName(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("CMakeLists.txt not found at %s", path)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(strings.ToLower(line), "project(") {
			continue
		}
		inner := line[len("project("):]
		if idx := strings.IndexByte(inner, ')'); idx >= 0 {
			inner = inner[:idx]
		}
		fields := strings.Fields(strings.TrimSpace(inner))
		if len(fields) == 0 {
			continue
		}
		// Some projects write project(Name/Sub ...); keep the first segment.
		name, _, _ := strings.Cut(fields[0], "/")
		if name != "" {
			return name, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return "", fmt.Errorf("could not find a valid project name in %s", path)
}
