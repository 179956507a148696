package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/idelchi/goback/internal/commands"
)

// version is set at build time.
var version = "dev"

func main() {
	if err := commands.Execute(version); err != nil {
		out, jsonErr := json.Marshal(map[string]string{"error": err.Error()})
		if jsonErr != nil {
			fmt.Fprintln(os.Stderr, err)
		} else {
			fmt.Fprintln(os.Stderr, string(out))
		}

		os.Exit(1)
	}
}
