package main

import (
	"fmt"
	"os"
	"time"
)

// demoScript keeps an open page current: it applies update frames to the
// content block and stops listening once the server says goodbye.
const demoScript = `<script>
(function () {
  var source = new EventSource('/events')
  source.addEventListener('update', function (e) {
    document.getElementById('manpage').innerHTML = JSON.parse(e.data).content
  })
  source.addEventListener('bye', function (e) {
    source.close()
  })
})()
</script>
`

// StartPageWriter rewrites the page at path every interval and invokes
// onUpdate after each successful write. It never returns; run it in a
// goroutine.
func StartPageWriter(path string, interval time.Duration, onUpdate func()) {
	n := 0
	for range time.Tick(interval) {
		n++
		if err := WritePage(path, n); err != nil {
			fmt.Fprintf(os.Stderr, "failed to rewrite page: %v\n", err)
			continue
		}
		onUpdate()
	}
}

// WritePage writes revision n of the demo page. The content block uses
// the same id and line framing the renderer produces, so update pushes
// extract it the same way.
func WritePage(path string, n int) error {
	page := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>manview demo</title>
</head>
<body>
<pre id="manpage">
LIVE STATUS

revision  %d
written   %s
</pre>
%s</body>
</html>
`, n, time.Now().Format(time.RFC3339), demoScript)

	return os.WriteFile(path, []byte(page), 0o644)
}
