package extract

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"
)

// Markers delimiting the document body inside the served page. Both must
// appear as complete newline-terminated lines to count; the marker lines
// themselves are never part of the fragment.
const (
	openMarker  = `<pre id="manpage">`
	closeMarker = `</pre>`
)

// Fragment returns the document body of the HTML file at path: the lines
// after the opening marker line and before the closing marker line.
//
// Fragment never reports an error. A missing or unreadable file, a read
// error mid-scan, or a closing marker found before the opening one all
// yield the empty string. When the closing marker is missing entirely,
// everything after the opening marker is returned, including a final
// line without a trailing newline.
func Fragment(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	var b strings.Builder
	r := bufio.NewReader(f)
	recording := false

	for {
		line, err := r.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return ""
		}

		if line == closeMarker+"\n" {
			return b.String()
		}
		if recording {
			b.WriteString(line)
		} else if line == openMarker+"\n" {
			recording = true
		}

		if errors.Is(err, io.EOF) {
			return b.String()
		}
	}
}
