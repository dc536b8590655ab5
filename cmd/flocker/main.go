// flocker is a flock(1)-style wrapper around the lockfile package: it
// acquires an advisory lock on a path and either runs a command under it or
// holds it until a newline arrives on stdin.
package main

import (
	"os"
)

func main() {
	os.Exit(Execute())
}
