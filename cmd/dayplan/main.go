package main

import (
	"os"

	"github.com/pterm/pterm"

	"github.com/ayoisaiah/dayplan/app"
	"github.com/ayoisaiah/dayplan/report"
)

func run(args []string) error {
	return app.Get().Run(args)
}

func main() {
	err := run(os.Args)
	if err != nil {
		if !report.IsReported(err) {
			pterm.Error.Println(err)
		}

		os.Exit(1)
	}
}
