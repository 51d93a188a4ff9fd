package main

import (
	"os"

	"github.com/abelbrown/roundup/internal/logging"
)

func main() {
	if err := RootApp().Run(os.Args); err != nil {
		if logging.Logger != nil {
			logging.Error("roundup failed", "error", err)
		} else {
			os.Stderr.WriteString("roundup: " + err.Error() + "\n")
		}
		os.Exit(1)
	}
}
