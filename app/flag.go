package app

import "github.com/urfave/cli/v2"

var (
	dateFlag = &cli.StringFlag{
		Name:    "date",
		Aliases: []string{"d"},
		Usage:   "The day to work on (e.g. 'yesterday', '2024-05-01', 'May 1'). Defaults to today",
	}

	offlineFlag = &cli.BoolFlag{
		Name:  "offline",
		Usage: "Do not contact the remote task store",
	}

	jsonFlag = &cli.BoolFlag{
		Name:  "json",
		Usage: "Print output as JSON",
	}

	noColorFlag = &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable coloured output",
	}

	afterFlag = &cli.UintFlag{
		Name:     "after",
		Aliases:  []string{"a"},
		Usage:    "The row to insert after",
		Required: true,
	}

	startFlag = &cli.StringFlag{
		Name:  "start",
		Usage: "New start time (HH:MM). Only the first row's start can be changed",
	}

	endFlag = &cli.StringFlag{
		Name:  "end",
		Usage: "New end time (HH:MM, 5-minute steps). The next row starts here",
	}

	planFlag = &cli.StringFlag{
		Name:    "plan",
		Aliases: []string{"p"},
		Usage:   "What you planned to do",
	}

	actualFlag = &cli.StringFlag{
		Name:  "actual",
		Usage: "What you actually did",
	}

	categoryFlag = &cli.StringFlag{
		Name:    "category",
		Aliases: []string{"c"},
		Usage:   "One of Work, Personal, Sleep, Exercise, Meal, Learning, Break, Default",
	}

	yesFlag = &cli.BoolFlag{
		Name:    "yes",
		Aliases: []string{"y"},
		Usage:   "Skip the confirmation prompt",
	}

	addrFlag = &cli.StringFlag{
		Name:  "addr",
		Usage: "Address to listen on. Defaults to server.addr",
	}
)
