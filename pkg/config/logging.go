package config

import (
	"fmt"
	"io"
	"os"

	"github.com/op/go-logging"
	"github.com/pkg/errors"
)

// SetupLogging installs one go-logging backend per entry. Output is
// "stdout", "stderr" or a file path, which may reference environment
// variables. The returned closer releases any opened files.
func (c *Config) SetupLogging() (io.Closer, error) {
	if len(c.Logging) == 0 {
		fmt.Fprintln(os.Stderr, "Warning: no logging backends configured. Add one to view log messages.")
	}

	var files multiCloser
	var backends []logging.Backend
	for _, l := range c.Logging {
		var output io.Writer

		switch l.Output {
		case "stdout":
			output = os.Stdout
		case "stderr":
			output = os.Stderr
		default:
			f, err := os.OpenFile(os.ExpandEnv(l.Output), os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0660)
			if err != nil {
				files.Close()
				return nil, errors.Wrap(err, "config: logging output")
			}
			files = append(files, f)
			output = f
		}

		level, err := logging.LogLevel(l.Level)
		if err != nil {
			files.Close()
			return nil, errors.Wrapf(err, "config: logging level %q", l.Level)
		}

		backend := logging.NewLogBackend(output, "", 0)
		backendFormatter := logging.NewBackendFormatter(backend, format)
		backendLeveled := logging.AddModuleLevel(backendFormatter)
		backendLeveled.SetLevel(level, "")

		backends = append(backends, backendLeveled)
	}

	if len(backends) > 0 {
		logging.SetBackend(backends...)
	}
	return files, nil
}

type multiCloser []io.Closer

func (m multiCloser) Close() error {
	var first error
	for _, c := range m {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
