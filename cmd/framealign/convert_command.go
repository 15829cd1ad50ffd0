package main

import (
	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/frame-align/internal/subtitle"
)

func newConvertCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <alignment.json> <output.srt>",
		Short: "Convert an alignment document to an SRT subtitle file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return subtitle.Convert(args[0], args[1])
		},
	}
}
