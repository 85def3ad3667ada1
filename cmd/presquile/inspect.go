package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/simonhull/presquile"
	"github.com/simonhull/presquile/internal/probe"
	"github.com/simonhull/presquile/internal/timecode"
)

func newInspectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <audio.mp3>",
		Short: "Print the chapters and table of contents of a tagged MP3 file",
		Args:  cobra.ExactArgs(1),
		RunE:  runInspect,
	}
	cmd.Flags().Bool("frames", false, "List every top-level ID3v2 frame with its offset and size")
	cmd.Flags().Bool("json", false, "Print the tag as JSON")
	return cmd
}

func runInspect(cmd *cobra.Command, args []string) error {
	path := args[0]
	showFrames, _ := cmd.Flags().GetBool("frames")
	asJSON, _ := cmd.Flags().GetBool("json")

	tag, err := presquile.ReadTag(path)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(tag)
	}

	fmt.Fprintf(out, "%s: ID3v2.%d, %d chapters\n", path, tag.Version, len(tag.Chapters))
	if res, err := probe.New().Probe(cmd.Context(), path); err == nil {
		fmt.Fprintf(out, "Audio: %s, %s\n", res.ContainerFormat, timecode.Format(res.DurationMillis()))
	}
	if tag.Title != "" {
		fmt.Fprintf(out, "Title: %s\n", tag.Title)
	}

	printChapters(out, tag)

	if showFrames {
		fmt.Fprintln(out, "\nFrames:")
		for _, f := range tag.Frames {
			fmt.Fprintf(out, "  %s  offset=%-8d size=%-8d flags=0x%04X\n", f.ID, f.Offset, f.Size, f.Flags)
		}
	}
	return nil
}

func printChapters(out io.Writer, tag *presquile.Tag) {
	for _, ch := range tag.Chapters {
		fmt.Fprintf(out, "  [%s] %s - %s  %s\n",
			ch.ID, timecode.Format(ch.StartMS), timecode.Format(ch.EndMS), ch.Title)
	}

	for _, toc := range tag.TablesOfContents {
		var flags []string
		if toc.TopLevel {
			flags = append(flags, "top-level")
		}
		if toc.Ordered {
			flags = append(flags, "ordered")
		}
		fmt.Fprintf(out, "Table of contents %q (%s): %s, %d entries: %s\n",
			toc.ID, toc.Title, strings.Join(flags, ", "), len(toc.Elements), strings.Join(toc.Elements, " "))
	}
}
