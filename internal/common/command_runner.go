package common

import (
	"context"
	"fmt"
	"time"

	"resumatch/internal/errors"
)

// CreateInputFunc defines how to create the operation input from loaded texts.
type CreateInputFunc[Input any] func(contents []string) (Input, error)

// LogDetailsFunc defines how to log the start of an operation.
type LogDetailsFunc[Input any] func(input Input, cfg CommandConfig)

// OperationFunc runs the command's pipeline step.
type OperationFunc[Input, Output any] func(context.Context, Input) (Output, error)

// Runner carries the helpers shared by document-based CLI commands
type Runner struct {
	Files  *FileProcessor
	Output *OutputHandler
	Logger *errors.Logger
}

// NewRunner creates a runner reading documents through reader
func NewRunner(reader DocumentReader, logger *errors.Logger) *Runner {
	files := NewFileProcessor(reader, logger)
	return &Runner{
		Files:  files,
		Output: NewOutputHandler(files, logger),
		Logger: logger,
	}
}

// RunCommand loads the inputs, runs the operation and writes the formatted
// result.
func RunCommand[Input, Output any](
	ctx context.Context,
	runner *Runner,
	cmdConfig CommandConfig,
	inputs []InputSource,
	createInput CreateInputFunc[Input],
	operation OperationFunc[Input, Output],
	logDetails LogDetailsFunc[Input],
) error {
	contents, err := runner.Files.LoadInputs(ctx, inputs...)
	if err != nil {
		return err
	}

	input, err := createInput(contents)
	if err != nil {
		return fmt.Errorf("failed to create input from file contents: %w", err)
	}

	logDetails(input, cmdConfig)

	start := time.Now()
	result, err := operation(ctx, input)
	if err != nil {
		return err
	}
	runner.Logger.Debug("Operation finished", "duration_ms", time.Since(start).Milliseconds())

	return runner.Output.HandleOutput(result, cmdConfig)
}
