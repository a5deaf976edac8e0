package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oaswift/oaswift/internal/diagnostic"
	"github.com/oaswift/oaswift/internal/docfilter"
	"github.com/oaswift/oaswift/internal/parser"
)

func newFilterCommand() *cobra.Command {
	spec := docfilter.Spec{}
	cmd := &cobra.Command{
		Use:           "filter <openapi-file>",
		Short:         "Emit the filtered OpenAPI document to stdout",
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(_ *cobra.Command, args []string) error {
			return runFilter(spec, args[0])
		},
	}
	cmd.Flags().StringSliceVar(&spec.OperationIDs, "operation", nil, "operation id to keep (repeatable)")
	cmd.Flags().StringSliceVar(&spec.Tags, "tag", nil, "tag whose operations to keep (repeatable)")
	cmd.Flags().StringSliceVar(&spec.Paths, "path", nil, "path template to keep (repeatable)")
	cmd.Flags().StringSliceVar(&spec.SchemaNames, "schema", nil, "component schema to keep (repeatable)")
	return cmd
}

func runFilter(spec docfilter.Spec, inputPath string) error {
	input, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read OpenAPI document %q: %w", inputPath, err)
	}

	sink := diagnostic.NewErrorThrowing(diagnostic.NewStream(os.Stderr))
	doc, err := parser.Parse(input, inputPath, sink)
	if err != nil {
		return err
	}

	filtered := docfilter.Apply(doc, spec)
	raw, err := filtered.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to serialize filtered document: %w", err)
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		return fmt.Errorf("failed to format filtered document: %w", err)
	}
	pretty.WriteByte('\n')
	_, err = os.Stdout.Write(pretty.Bytes())
	return err
}
