package shell

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/abiosoft/ishell/v2"

	"iccview/internal/config"
	"iccview/internal/logger"
)

// Run starts the interactive REPL and blocks until the user exits.
func Run(settings *config.Settings, versionString string) error {
	ws, err := NewWorkspace(settings)
	if err != nil {
		return fmt.Errorf("shell: %w", err)
	}

	sh := ishell.New()
	sh.SetPrompt("icc> ")

	sh.Println(versionString)
	sh.Println("Item characteristic curve explorer. Type 'help' for commands.")

	registerCommands(sh, ws)

	sh.Println(ws.Render())
	sh.Run()
	return nil
}

func registerCommands(sh *ishell.Shell, ws *Workspace) {
	sh.AddCmd(&ishell.Cmd{
		Name: "model",
		Help: "select the active model family: model <1pl|2pl|3pl|4pl>",
		Completer: func([]string) []string {
			return ws.Families()
		},
		Func: func(c *ishell.Context) {
			if len(c.Args) != 1 {
				c.Println("usage: model <1pl|2pl|3pl|4pl>")
				return
			}
			if err := ws.Activate(c.Args[0]); err != nil {
				c.Printf("Error: %s\n", err)
				return
			}
			c.Println(ws.Render())
		},
	})

	sh.AddCmd(&ishell.Cmd{
		Name: "set",
		Help: "set a parameter of the active model: set <param> <value>",
		Func: func(c *ishell.Context) {
			if len(c.Args) != 2 {
				c.Println("usage: set <param> <value>")
				return
			}
			value, err := strconv.ParseFloat(c.Args[1], 64)
			if err != nil {
				c.Printf("Error: %q is not a number\n", c.Args[1])
				return
			}
			if err := ws.Set(strings.ToLower(c.Args[0]), value); err != nil {
				c.Printf("Error: %s\n", err)
				return
			}
			c.Println(ws.Render())
		},
	})

	sh.AddCmd(&ishell.Cmd{
		Name: "lock",
		Help: "couple ability and difficulty: lock <on|off>",
		Completer: func([]string) []string {
			return []string{"on", "off"}
		},
		Func: func(c *ishell.Context) {
			if len(c.Args) != 1 || (c.Args[0] != "on" && c.Args[0] != "off") {
				c.Println("usage: lock <on|off>")
				return
			}
			if err := ws.Lock(c.Args[0] == "on"); err != nil {
				c.Printf("Error: %s\n", err)
				return
			}
			c.Println(ws.Render())
		},
	})

	sh.AddCmd(&ishell.Cmd{
		Name: "show",
		Help: "redraw the active model's chart and controls",
		Func: func(c *ishell.Context) {
			c.Println(ws.Render())
		},
	})

	sh.AddCmd(&ishell.Cmd{
		Name: "reset",
		Help: "reset the active model's parameters to their defaults",
		Func: func(c *ishell.Context) {
			ws.Reset()
			c.Println(ws.Render())
		},
	})

	sh.AddCmd(&ishell.Cmd{
		Name: "export",
		Help: "save a PNG snapshot of the active chart: export [file.png]",
		Func: func(c *ishell.Context) {
			path := ""
			if len(c.Args) > 0 {
				path = c.Args[0]
			}
			written, err := ws.Export(path)
			if err != nil {
				c.Printf("Error: %s\n", err)
				return
			}
			logger.Info("Snapshot saved", "family", ws.Active(), "path", written)
			c.Printf("Saved %s\n", written)
		},
	})
}
