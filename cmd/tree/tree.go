package main

import (
	"context"
	"fmt"
	"github.com/spf13/cobra"
	"github.com/willbeason/tree-armature/pkg/config"
	"github.com/willbeason/tree-armature/pkg/export"
	"github.com/willbeason/tree-armature/pkg/logger"
	"github.com/willbeason/tree-armature/pkg/render"
	"github.com/willbeason/tree-armature/pkg/scene"
	"github.com/willbeason/tree-armature/pkg/server"
	"github.com/willbeason/tree-armature/pkg/tree"
	"log/slog"
	"math"
	"os"
	"os/signal"
)

func mainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Generate tree-shaped armatures",
		Args:  cobra.ExactArgs(0),
	}

	flags := cmd.PersistentFlags()
	defaults := config.FromParameters(tree.DefaultParameters())
	flags.String("config", "", "configuration file (yaml, toml or json)")
	flags.Float64("start-length", defaults.StartLength, "length of the trunk")
	flags.Float64("start-tilt", defaults.StartTilt, "bend of the first branches away from the trunk, in degrees")
	flags.Int("depth", defaults.MaxDepth, "number of times a branch splits into smaller branches")
	flags.Int("branches", defaults.BranchesPerSegment, "number of branches created at each split")
	flags.Float64("length-increment", defaults.LengthIncrement, "length change of each branch relative to its parent")
	flags.Float64("tilt-increment", defaults.TiltIncrement, "bend change of each branch relative to its parent, in degrees")
	flags.Bool("debug-labels", false, "label every bone with its name")
	flags.Bool("parallel", false, "build the subtrees under the trunk concurrently")
	flags.Int("max-segments", tree.DefaultLimits().MaxSegments, "refuse trees with more segments than this")
	flags.String("log-level", "info", "debug, info, warn or error")
	flags.String("log-format", "text", "text or json")

	cmd.AddCommand(generateCmd(), renderCmd(), serveCmd())

	return cmd
}

func generateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a tree and write it as an armature document",
		Args:  cobra.ExactArgs(0),
		RunE:  runGenerate,
	}

	cmd.Flags().String("format", "json", "json, yaml or toml")
	cmd.Flags().StringP("out", "o", "-", "output file, - for stdout")

	return cmd
}

func renderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Generate a tree and draw it to a PNG",
		Args:  cobra.ExactArgs(0),
		RunE:  runRender,
	}

	opts := render.DefaultOptions()
	cmd.Flags().StringP("out", "o", "out.png", "output image")
	cmd.Flags().Int("width", opts.Width, "image width in pixels")
	cmd.Flags().Int("height", opts.Height, "image height in pixels")
	cmd.Flags().Float64("azimuth", 0.0, "degrees to turn the tree around its vertical axis before drawing")
	cmd.Flags().Float64("thickness", opts.Thickness, "trunk stroke width in pixels")

	return cmd
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve tree generation over HTTP",
		Args:  cobra.ExactArgs(0),
		RunE:  runServe,
	}

	cmd.Flags().String("addr", ":8080", "listen address")

	return cmd
}

// setup loads configuration and builds the logger and generator shared by subcommands.
func setup(cmd *cobra.Command) (*config.Config, *slog.Logger, *tree.Generator, error) {
	// At this point usage information has already been printed if obviously incorrect.
	cmd.SilenceUsage = true

	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, nil, nil, err
	}

	cfg, err := config.Load(path, cmd.Flags())
	if err != nil {
		return nil, nil, nil, err
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	gen := tree.NewGenerator(
		tree.WithLimits(cfg.Limits.Limits()),
		tree.WithParallel(cfg.Tree.Parallel),
		tree.WithLogger(log),
	)

	return cfg, log, gen, nil
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	cfg, log, gen, err := setup(cmd)
	if err != nil {
		return err
	}

	formatName, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	format, err := export.ParseFormat(formatName)
	if err != nil {
		return err
	}

	params := cfg.Tree.Parameters()
	trunk, err := gen.Generate(cmd.Context(), params)
	if err != nil {
		return err
	}

	// Replaying onto an armature checks the tree can be built one bone at a time.
	armature := scene.New("TreeArmature")
	err = tree.Materialize(trunk, armature, params.DebugLabels)
	if err != nil {
		return err
	}
	log.Info("generated armature", "bones", len(armature.Bones()))

	out, err := cmd.Flags().GetString("out")
	if err != nil {
		return err
	}

	doc := export.NewDocument("Tree", params, trunk)
	if out == "-" {
		return export.Encode(cmd.OutOrStdout(), doc, format)
	}

	return writeDocument(out, doc, format)
}

// writeDocument encodes doc to path, reporting failures to flush the file.
func writeDocument(path string, doc export.Document, format export.Format) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	err = export.Encode(f, doc, format)
	if err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}

func runRender(cmd *cobra.Command, _ []string) error {
	cfg, log, gen, err := setup(cmd)
	if err != nil {
		return err
	}

	trunk, err := gen.Generate(cmd.Context(), cfg.Tree.Parameters())
	if err != nil {
		return err
	}

	opts := render.DefaultOptions()
	opts.Width = cfg.Render.Width
	opts.Height = cfg.Render.Height
	opts.Azimuth = cfg.Render.Azimuth * math.Pi / 180
	opts.Thickness = cfg.Render.Thickness
	if opts.Width <= 0 || opts.Height <= 0 {
		return fmt.Errorf("image size must be positive, got %dx%d", opts.Width, opts.Height)
	}

	out, err := cmd.Flags().GetString("out")
	if err != nil {
		return err
	}

	err = render.WritePNG(out, render.Render(trunk, opts))
	if err != nil {
		return err
	}
	log.Info("wrote image", "path", out, "segments", trunk.Count())

	return nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, gen, err := setup(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	return server.New(gen, cfg.Tree, log).Run(ctx, cfg.Server.Addr)
}

func main() {
	ctx := context.Background()

	err := mainCmd().ExecuteContext(ctx)
	if err != nil {
		// At this point the error has already been printed; no need to print again.
		os.Exit(1)
	}
}
