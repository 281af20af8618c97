// Command logwatch tails a log-server event feed over websocket and
// dispatches each event to registered handlers. It also ships the bench
// subcommand, a load generator for the server's log-creation endpoint.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
