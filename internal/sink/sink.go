// Package sink persists generated datasets: local files, stdout, SQL
// databases and S3-compatible object storage.
package sink

import (
	"context"
	"errors"

	"github.com/KaramelBytes/tuplegen/internal/dataset"
)

// Sink names accepted by the CLI and config.
const (
	NameStdout   = "stdout"
	NameCSV      = "csv"
	NameJSON     = "json"
	NameSQLite   = "sqlite"
	NamePostgres = "postgres"
	NameS3       = "s3"
)

// ErrUnknownSink is returned for sink names outside the list above.
var ErrUnknownSink = errors.New("unknown sink")

// Sink writes a dataset somewhere and reports where it landed.
type Sink interface {
	Name() string
	Write(ctx context.Context, ds *dataset.Dataset) ([]string, error)
}

// Closer is implemented by sinks that hold connections.
type Closer interface {
	Close() error
}

// CloseAll closes every sink that implements Closer and joins the errors.
func CloseAll(sinks []Sink) error {
	var errs []error
	for _, s := range sinks {
		if c, ok := s.(Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
