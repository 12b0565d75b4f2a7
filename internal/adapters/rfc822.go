package adapters

import (
	"bufio"
	"compress/gzip"
	"io"
	"os"
	"strings"
)

// rfc822Paragraph is one Sources/Packages stanza: field name (as written,
// case preserved) to its unfolded value.
type rfc822Paragraph map[string]string

// readParagraphs opens path — transparently decompressing .gz — and
// splits it into RFC822-ish paragraphs the way apt's Sources/Packages
// indices are structured: blank-line-separated stanzas, continuation
// lines indented by at least one space folded into the previous field.
func readParagraphs(path string) ([]rfc822Paragraph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		r = gz
	}

	return parseParagraphs(r)
}

func parseParagraphs(r io.Reader) ([]rfc822Paragraph, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var paragraphs []rfc822Paragraph
	current := rfc822Paragraph{}
	lastField := ""

	flush := func() {
		if len(current) > 0 {
			paragraphs = append(paragraphs, current)
			current = rfc822Paragraph{}
			lastField = ""
		}
	}

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		if (line[0] == ' ' || line[0] == '\t') && lastField != "" {
			current[lastField] += "\n" + strings.TrimSpace(line)
			continue
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		current[name] = strings.TrimSpace(value)
		lastField = name
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return paragraphs, nil
}

func splitFields(value string) []string {
	return strings.Fields(strings.ReplaceAll(value, "\n", " "))
}
