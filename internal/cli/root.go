package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ironsheep/image-geometry-mcp/internal/server"
	"github.com/ironsheep/image-geometry-mcp/internal/transforms"
)

var (
	version = "dev"     // semantic version
	commit  = "unknown" // git commit SHA
	date    = "unknown" // build timestamp
)

// SetVersion sets the version information displayed by --version and
// reported in the MCP handshake. Empty values keep the defaults.
func SetVersion(v, c, d string) {
	if v != "" {
		version = v
	}
	if c != "" {
		commit = c
	}
	if d != "" {
		date = d
	}
}

// streams are the process I/O the commands use.
type streams struct {
	in  io.Reader
	out io.Writer
	err io.Writer
}

// Execute runs the CLI with the process streams.
func Execute(ctx context.Context) error {
	return newRootCmd(streams{in: os.Stdin, out: os.Stdout, err: os.Stderr}).ExecuteContext(ctx)
}

func newRootCmd(st streams) *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "geometry-mcp",
		Short: "MCP server for geometric image transforms",
		Long: `geometry-mcp flips, resizes, crops, rotates and warps images together with their
segmentation masks and bounding boxes. Without a subcommand it serves the Model
Context Protocol over stdin/stdout; configure it in your MCP client.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger := newLogger(st.err, logLevel(verbose))
			transforms.SetLogger(logger)
			cmd.SetContext(withLogger(cmd.Context(), logger))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), st)
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("geometry-mcp %s\n  Build time: %s\n  Git commit: %s\n", version, date, commit))
	root.SetOut(st.out)
	root.SetErr(st.err)
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging (or set IMAGE_MCP_LOG_LEVEL=debug)")

	root.AddCommand(newServeCmd(st))
	root.AddCommand(newApplyCmd(st))
	root.AddCommand(newOpsCmd(st))

	return root
}

func newServeCmd(st streams) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve MCP over stdin/stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), st)
		},
	}
}

func runServe(ctx context.Context, st streams) error {
	logger := loggerFromContext(ctx)
	logger.Debug("starting MCP server", "version", version, "commit", commit, "built", date)

	srv := server.New(server.WithLogger(logger), server.WithVersion(version))
	if err := srv.Run(ctx, st.in, st.out); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
