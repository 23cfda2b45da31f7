// Standalone page generator for exercising the CLI by hand.
//
// Usage:
//
//	go run ./example/cmd/clockpage /tmp/clock.html
//
// Then in another terminal:
//
//	go run ./cmd/manview serve --no-browser /tmp/clock.html
//	kill -USR1 <manview pid>   # push the latest bytes to open pages
package main

import (
	"fmt"
	"os"
	"time"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: clockpage <output-file>")
		os.Exit(1)
	}
	path := os.Args[1]

	fmt.Printf("Writing a clock page to %s every second\n", path)
	fmt.Println("Serve it with: manview serve", path)
	fmt.Println("Press Ctrl+C to stop")
	fmt.Println()

	for {
		if err := writeClock(path); err != nil {
			fmt.Fprintf(os.Stderr, "write failed: %v\n", err)
			os.Exit(1)
		}
		time.Sleep(time.Second)
	}
}

func writeClock(path string) error {
	page := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>clock</title>
</head>
<body>
<pre id="manpage">
CLOCK

%s
</pre>
<script>
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
</body>
</html>
`, time.Now().Format(time.DateTime))

	return os.WriteFile(path, []byte(page), 0o644)
}
