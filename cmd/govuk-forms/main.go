package main

import (
	"os"

	"github.com/alecthomas/kong"
)

func main() {
	var cli CLI
	global := &Global{Out: os.Stdout, In: os.Stdin}
	ctx := kong.Parse(&cli,
		kong.Name("govuk-forms"),
		kong.Description("Render, inspect and fill GOV.UK Design System forms."),
		kong.UsageOnError(),
		kong.Bind(global),
	)
	ctx.FatalIfErrorf(ctx.Run())
}
