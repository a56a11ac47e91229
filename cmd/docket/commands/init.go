package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/docket/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force  bool   `help:"Overwrite existing configuration file"`
	Output string `short:"o" name:"output" help:"Directory to write docket.yaml into"`

	Stdout io.Writer `kong:"-"`
}

func (i *InitCmd) Run(_ *Global, root *CLI) error {
	path := root.Config
	switch {
	case i.Output != "":
		path = filepath.Join(i.Output, config.DefaultFile)
	case path == "":
		path = config.DefaultFile
	}

	out := i.Stdout
	if out == nil {
		out = os.Stdout
	}
	if err := config.Init(path, i.Force); err != nil {
		return err
	}
	fmt.Fprintf(out, "Wrote configuration to %s\n", path)
	return nil
}
