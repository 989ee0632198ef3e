package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/hupe1980/rascal"
	"github.com/hupe1980/rascal/archive"
	"github.com/hupe1980/rascal/codec"
	"github.com/hupe1980/rascal/descriptor"
	"github.com/hupe1980/rascal/export"
	"github.com/hupe1980/rascal/persistence"
	"github.com/hupe1980/rascal/system"
)

type app struct {
	envFile  string
	cfg      *Config
	logger   *rascal.Logger
	registry *rascal.Registry
}

func newRootCmd() *cobra.Command {
	a := &app{registry: rascal.NewRegistry()}

	root := &cobra.Command{
		Use:          "rascal",
		Short:        "Compute atomistic environment descriptors",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := LoadConfig(a.envFile)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = cfg.Logger(cmd.ErrOrStderr())
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.envFile, "env-file", "", "dotenv file to load before reading RASCAL_* variables")

	root.AddCommand(a.calculatorsCmd(), a.computeCmd(), a.inspectCmd(), a.archiveCmd())
	return root
}

// --- calculators ---

func (a *app) calculatorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "calculators",
		Short: "List registered calculators",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range a.registry.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

// --- compute ---

type computeFlags struct {
	calculator string
	params     string
	paramsFile string
	native     bool
	workers    int
	format     string
	output     string
	archive    bool
	labels     map[string]string
}

func (a *app) computeCmd() *cobra.Command {
	var f computeFlags
	cmd := &cobra.Command{
		Use:   "compute [flags] INPUT.xyz...",
		Short: "Compute a descriptor for the systems in XYZ files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCompute(cmd, f, args)
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&f.calculator, "calculator", "c", "", "registered calculator name")
	flags.StringVar(&f.params, "params", "", "JSON parameter document")
	flags.StringVar(&f.paramsFile, "params-file", "", "JSON or YAML parameter file")
	flags.BoolVar(&f.native, "native", false, "copy systems into the native representation first")
	flags.IntVar(&f.workers, "workers", 0, "parallel per-system workers (default RASCAL_WORKERS)")
	flags.StringVarP(&f.format, "format", "f", "snapshot", "output format: snapshot, arrow or parquet")
	flags.StringVarP(&f.output, "output", "o", "", "output file")
	flags.BoolVar(&f.archive, "archive", false, "also save the descriptor to the configured archive")
	flags.StringToStringVar(&f.labels, "label", nil, "archive manifest labels (key=value)")
	_ = cmd.MarkFlagRequired("calculator")
	return cmd
}

func (a *app) runCompute(cmd *cobra.Command, f computeFlags, inputs []string) error {
	if f.output == "" && !f.archive {
		return fmt.Errorf("either --output or --archive is required")
	}
	params, err := readParams(f.params, f.paramsFile)
	if err != nil {
		return err
	}
	systems, err := readSystems(inputs)
	if err != nil {
		return err
	}

	workers := f.workers
	if workers <= 0 {
		workers = a.cfg.Workers
	}
	calc, err := rascal.NewCalculator(a.registry, f.calculator, params,
		rascal.WithLogger(a.logger), rascal.WithWorkers(workers))
	if err != nil {
		return err
	}

	d := descriptor.New()
	if err := calc.Compute(systems, d, rascal.CalculationOptions{UseNativeSystem: f.native}); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "computed %d samples x %d features from %d systems\n",
		d.Samples().Count(), d.Features().Count(), len(systems))

	if f.output != "" {
		if err := a.writeOutput(f.format, f.output, d); err != nil {
			return err
		}
		fmt.Fprintf(out, "wrote %s (%s)\n", f.output, f.format)
	}

	if f.archive {
		arch, err := openArchive(cmd.Context(), a.cfg)
		if err != nil {
			return err
		}
		labels := map[string]string{"inputs": strings.Join(inputs, ",")}
		for k, v := range f.labels {
			labels[k] = v
		}
		id, err := arch.Save(cmd.Context(), d, archive.Manifest{
			Calculator: f.calculator,
			Parameters: calc.Parameters(),
			Labels:     labels,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "archived %s\n", id)
	}
	return nil
}

// readParams returns the parameter document. YAML files are converted to JSON.
func readParams(inline, file string) (string, error) {
	switch {
	case inline != "" && file != "":
		return "", fmt.Errorf("--params and --params-file are mutually exclusive")
	case inline != "":
		return inline, nil
	case file == "":
		return "", fmt.Errorf("one of --params or --params-file is required")
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return "", err
	}
	switch strings.ToLower(filepath.Ext(file)) {
	case ".yaml", ".yml":
		var doc map[string]any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return "", fmt.Errorf("parse %s: %w", file, err)
		}
		out, err := codec.Default.Marshal(doc)
		if err != nil {
			return "", err
		}
		return string(out), nil
	default:
		return string(data), nil
	}
}

func readSystems(paths []string) ([]system.System, error) {
	var systems []system.System
	for _, path := range paths {
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		frames, err := system.ReadXYZ(file)
		_ = file.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		for _, frame := range frames {
			systems = append(systems, frame)
		}
	}
	if len(systems) == 0 {
		return nil, fmt.Errorf("no systems found in %s", strings.Join(paths, ", "))
	}
	return systems, nil
}

func (a *app) writeOutput(format, path string, d *descriptor.Descriptor) error {
	switch format {
	case "snapshot":
		compression, err := persistence.ParseCompression(a.cfg.Compression)
		if err != nil {
			return err
		}
		return persistence.SaveToFile(path, d, persistence.WithCompression(compression))
	case "arrow", "parquet":
		file, err := os.Create(path)
		if err != nil {
			return err
		}
		if format == "arrow" {
			err = export.WriteArrow(file, d)
		} else {
			err = export.WriteParquet(file, d)
		}
		if cerr := file.Close(); err == nil {
			err = cerr
		}
		return err
	default:
		return fmt.Errorf("unknown format %q (want snapshot, arrow or parquet)", format)
	}
}

// --- inspect ---

func (a *app) inspectCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "Print the shape and index names of a saved descriptor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if format == "" {
				format = formatFromExt(path)
			}
			d, err := readDescriptor(format, path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "format:    %s\n", format)
			if format == "snapshot" {
				h, err := readHeader(path)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "version:   %d.%d\n", h.Version>>16, h.Version&0xffff)
				fmt.Fprintf(out, "compression: %s\n", persistence.Compression(h.Compression))
			}
			printShape(out, d)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "snapshot, arrow or parquet (default from extension)")
	return cmd
}

func formatFromExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".arrow", ".arrows", ".ipc":
		return "arrow"
	case ".parquet":
		return "parquet"
	default:
		return "snapshot"
	}
}

func readHeader(path string) (*persistence.FileHeader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()
	return persistence.ReadHeader(file)
}

func readDescriptor(format, path string) (*descriptor.Descriptor, error) {
	switch format {
	case "snapshot":
		return persistence.LoadFromFile(path)
	case "arrow", "parquet":
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer func() { _ = file.Close() }()
		if format == "arrow" {
			return export.ReadArrow(file)
		}
		info, err := file.Stat()
		if err != nil {
			return nil, err
		}
		return export.ReadParquet(file, info.Size())
	default:
		return nil, fmt.Errorf("unknown format %q (want snapshot, arrow or parquet)", format)
	}
}

func printShape(out io.Writer, d *descriptor.Descriptor) {
	fmt.Fprintf(out, "samples:   %d %v\n", d.Samples().Count(), d.Samples().Names())
	fmt.Fprintf(out, "features:  %d %v\n", d.Features().Count(), d.Features().Names())
	gradients := 0
	if d.HasGradients() {
		gradients = d.GradientSamples().Count()
	}
	fmt.Fprintf(out, "gradients: %d\n", gradients)
}

// --- archive ---

func (a *app) archiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Manage archived descriptors",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List archived descriptors, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			arch, err := openArchive(cmd.Context(), a.cfg)
			if err != nil {
				return err
			}
			manifests, err := arch.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, m := range manifests {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %dx%d  %s\n",
					m.ID, m.CreatedAt.UTC().Format(time.RFC3339), m.Samples, m.Features, m.Calculator)
			}
			return nil
		},
	}

	var format, output string
	get := &cobra.Command{
		Use:   "export ID",
		Short: "Write an archived descriptor to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arch, err := openArchive(cmd.Context(), a.cfg)
			if err != nil {
				return err
			}
			d, err := arch.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := a.writeOutput(format, output, d); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%s)\n", output, format)
			return nil
		},
	}
	get.Flags().StringVarP(&format, "format", "f", "snapshot", "output format: snapshot, arrow or parquet")
	get.Flags().StringVarP(&output, "output", "o", "", "output file")
	_ = get.MarkFlagRequired("output")

	del := &cobra.Command{
		Use:   "delete ID...",
		Short: "Delete archived descriptors",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arch, err := openArchive(cmd.Context(), a.cfg)
			if err != nil {
				return err
			}
			for _, id := range args {
				if err := arch.Delete(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", id)
			}
			return nil
		},
	}

	cmd.AddCommand(list, get, del)
	return cmd
}
