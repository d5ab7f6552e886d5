// Command test-flow prints the worker status message.
package main

import (
	"context"
	"io"

	"github.com/askiada/go-flows/internal/cli"
	"github.com/askiada/go-flows/internal/flows/testflow"
	"github.com/askiada/go-flows/pkg/pipeline"
)

func main() {
	cli.Main(testflow.Name, func(ctx context.Context, out io.Writer, opts ...pipeline.Option) (string, error) {
		return testflow.New(out).Run(ctx, opts...)
	})
}
