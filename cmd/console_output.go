package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mitchellh/colorstring"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

const debugEnv = "BUILD_HELPER_DEBUG"

// ConsoleWriter turns zerolog's JSON events into short, coloured lines.
type ConsoleWriter struct {
	Out    io.Writer
	buffer strings.Builder
	lock   sync.Mutex
}

func NewConsoleWriter() *ConsoleWriter {
	return &ConsoleWriter{Out: os.Stderr}
}

func (w *ConsoleWriter) Write(p []byte) (n int, err error) {
	w.lock.Lock()
	defer w.lock.Unlock()

	var evt map[string]interface{}
	d := json.NewDecoder(bytes.NewReader(p))
	d.UseNumber()
	err = d.Decode(&evt)
	if err != nil {
		return n, eris.Wrapf(err, "cannot decode event: %s", p)
	}

	w.buffer.Reset()
	switch evt["level"] {
	case "fatal":
		fallthrough
	case "error":
		w.buffer.WriteString("[red]")
	case "warn":
		w.buffer.WriteString("[yellow]")
	case "debug":
		fallthrough
	case "trace":
		w.buffer.WriteString("[blue]")
	default:
		if evt["command"] == true {
			w.buffer.WriteString("[cyan]$ ")
		} else {
			w.buffer.WriteString("[green]")
		}
	}

	if evt["level"] == "error" {
		w.buffer.WriteString("Error: ")
	}

	msg, _ := evt["message"].(string)

	path, ok := evt["path"].(string)
	if ok {
		// simplify the path
		relPath, err := filepath.Rel(".", path)
		if err == nil && !strings.HasPrefix(relPath, "..") {
			msg = strings.ReplaceAll(msg, path, relPath)
		}
	}

	w.buffer.WriteString(msg)

	errorDetails, ok := evt["error"].(string)
	if ok {
		if msg != "" {
			w.buffer.WriteString("\n")
		}
		w.buffer.WriteString(errorDetails)
	}

	if os.Getenv(debugEnv) != "" {
		w.buffer.WriteString("\n")
		for name, value := range evt {
			w.buffer.WriteString(fmt.Sprintf("  %s: %+v\n", name, value))
		}
	}

	w.buffer.WriteString("[reset]\n")
	_, err = colorstring.Fprint(w.Out, w.buffer.String())
	if err != nil {
		return 0, err
	}

	return len(p), nil
}

func init() {
	zerolog.ErrorMarshalFunc = func(err error) interface{} {
		return eris.ToString(err, os.Getenv(debugEnv) != "")
	}
}
