package flags

import (
	"os"

	cli "gopkg.in/urfave/cli.v1"
)

func NewApp() *cli.App {
	app := cli.NewApp()
	app.Name = "eccframe"
	app.Usage = "Multi-tier error-correction frame tool"
	app.Version = "0.1.0"
	app.Writer = os.Stdout
	return app
}
