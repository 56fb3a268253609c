package cmd

import (
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/ardanlabs/ffi-wrapgen/classify"
	"github.com/ardanlabs/ffi-wrapgen/errors"
)

func NewInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show how parameters are classified and paired",
		Args:  cobra.NoArgs,
		RunE:  inspectHandler,
	}

	cmd.Flags().StringP("function", "f", "", "Only show the named C function")

	return cmd
}

func inspectHandler(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	conv, err := loadHeaders(cfg.Headers)
	if err != nil {
		return err
	}

	only, _ := cmd.Flags().GetString("function")

	var data [][]string
	for _, fn := range conv.Functions() {
		if only != "" && fn.Name != only {
			continue
		}

		cs := classify.ClassifyAll(&fn)
		if err := classify.Pair(cs); err != nil {
			return errors.WithFunction(err, errors.PhasePair, fn.Name)
		}

		for _, c := range cs {
			data = append(data, []string{
				fn.Name,
				c.Name(),
				c.Param.Type.Go,
				c.Kind.String(),
				readOnly(c),
				arraySize(c),
				pairedWith(cs, c),
			})
		}
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"FUNCTION", "PARAMETER", "TYPE", "KIND", "READONLY", "SIZE", "PAIRED WITH"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()

	return nil
}

func readOnly(c classify.Classification) string {
	if !c.IsBuffer() {
		return ""
	}
	return strconv.FormatBool(c.ReadOnly)
}

func arraySize(c classify.Classification) string {
	if c.Kind != classify.KindFixedBuffer {
		return ""
	}
	return strconv.Itoa(c.ArraySize)
}

func pairedWith(cs []classify.Classification, c classify.Classification) string {
	switch {
	case c.Kind == classify.KindBuffer && c.SizeParam != classify.NoParam:
		return cs[c.SizeParam].Name()
	case c.Kind == classify.KindSize:
		names := make([]string, len(c.SizedBuffers))
		for i, j := range c.SizedBuffers {
			names[i] = cs[j].Name()
		}
		return strings.Join(names, ", ")
	}
	return ""
}
