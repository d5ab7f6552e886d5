// Command example-flow greets, processes the greeting and prints the result.
package main

import (
	"context"
	"io"

	"github.com/askiada/go-flows/internal/cli"
	"github.com/askiada/go-flows/internal/flows/exampleflow"
	"github.com/askiada/go-flows/pkg/pipeline"
)

func main() {
	cli.Main(exampleflow.Name, func(ctx context.Context, out io.Writer, opts ...pipeline.Option) (string, error) {
		return exampleflow.New(out).Run(ctx, opts...)
	})
}
