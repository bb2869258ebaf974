package main

import (
	"bytes"
	"embed"
	"flag"
	"fmt"
	"os"
	"sync"
	"text/template"

	"github.com/sirupsen/logrus"

	"github.com/example/marksurface/internal/config"
	"github.com/example/marksurface/internal/viewer"
)

//go:embed templates/*.txt
var helpFS embed.FS

var (
	helpOnce sync.Once
	helpTmpl *template.Template
)

func parseHelpTemplates() {
	helpTmpl = template.Must(template.New("").Funcs(map[string]any{
		"flags": func(fs *flag.FlagSet) []flagInfo {
			result := []flagInfo{}
			if fs == nil {
				return result
			}
			fs.VisitAll(func(f *flag.Flag) {
				result = append(result, flagInfo{f.Name, f.DefValue, f.Usage})
			})
			return result
		},
		"shortcuts": viewer.Shortcuts,
		"envNames":  config.EnvNames,
	}).ParseFS(helpFS, "templates/*.txt"))
}

type flagInfo struct {
	Name     string
	DefValue string
	Usage    string
}

type HelpData interface {
	Program() string
	Template() string
	FlagSet() *flag.FlagSet
}

type UsageError struct {
	of HelpData
}

func (e *UsageError) Error() string {
	help, err := e.renderHelp()
	if err != nil {
		return err.Error()
	}
	return help
}

func (e *UsageError) renderHelp() (string, error) {
	helpOnce.Do(parseHelpTemplates)
	var buf bytes.Buffer
	if err := helpTmpl.ExecuteTemplate(&buf, e.of.Template(), e.of); err != nil {
		logrus.WithError(err).Error("rendering help template")
		return "", err
	}
	return buf.String(), nil
}

// usageFunc renders the help template of h to stderr.
func usageFunc(h HelpData) func() {
	return func() {
		fmt.Fprint(os.Stderr, (&UsageError{of: h}).Error())
	}
}

func (r *root) Template() string       { return "root.txt" }
func (c *viewCmd) Template() string    { return "view.txt" }
func (c *maskCmd) Template() string    { return "mask.txt" }
func (c *renderCmd) Template() string  { return "render.txt" }
func (c *replayCmd) Template() string  { return "replay.txt" }
func (c *configCmd) Template() string  { return "config.txt" }
func (c *themesCmd) Template() string  { return "themes.txt" }
func (v *versionCmd) Template() string { return "version.txt" }
