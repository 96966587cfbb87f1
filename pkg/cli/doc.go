/*
Package cli provides helpers shared by the lookout commands.

Output Formatting:

The extract and search commands print their results as text or JSON:

	formatter, err := cli.NewFormatter(cli.FormatJSON)
	if err != nil {
		return err
	}
	return formatter.FormatTo(os.Stdout, cli.SearchReport{Query: q, Results: results})

Progress Reporting:

Searching several queries reports progress on stderr:

	progress := cli.NewProgressReporter(os.Stderr)
	progress.Start(len(queries))
	for i, q := range queries {
		progress.Update(i+1, q)
	}
	progress.Finish()

Signal Handling:

The run command shuts down on SIGINT or SIGTERM. A second signal exits
immediately:

	ctx, stop := cli.SetupSignalHandler(context.Background(), logger)
	defer stop()
*/
package cli
